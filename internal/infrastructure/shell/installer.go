// Package shell installs the error-log hook into bash and zsh.
package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	rootassets "github.com/doeshing/alex-go/assets"
	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

const rcHeader = "# Added by alex hook install\n"

// Installer handles hook script deployment.
type Installer struct {
	home     string
	dir      string
	errorLog string
	log      zerolog.Logger
}

// NewInstaller builds an installer writing scripts into dir and rc lines into
// the rc files below home. errorLog is baked into the scripts as the default
// ALEX_ERROR_LOG.
func NewInstaller(home, dir, errorLog string, log zerolog.Logger) *Installer {
	return &Installer{home: home, dir: dir, errorLog: errorLog, log: log}
}

// Install installs the hook for the given shell (auto-detected when empty).
// The script is always rewritten; the rc line is only rewritten with force.
func (i *Installer) Install(shell string, force bool) (domain.ShellInstallResult, error) {
	name := i.normalize(shell)
	script, err := i.scriptFor(name)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	scriptPath, rcFile := i.paths(name)
	if err := os.MkdirAll(filepath.Dir(scriptPath), domain.DirectoryPermissions); err != nil {
		return domain.ShellInstallResult{}, err
	}

	existing, _ := os.ReadFile(scriptPath)
	scriptUpdated := string(existing) != script
	if scriptUpdated {
		if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
			return domain.ShellInstallResult{}, err
		}
	}

	rcUpdated, err := ensureRCLine(rcFile, i.sourceLine(scriptPath), force)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	i.log.Debug().Str("shell", string(name)).Str("rc", rcFile).Bool("rc_updated", rcUpdated).Msg("hook installed")

	return domain.ShellInstallResult{
		Shell:         name,
		ScriptPath:    scriptPath,
		RCFile:        rcFile,
		ScriptUpdated: scriptUpdated,
		RCUpdated:     rcUpdated,
	}, nil
}

// Uninstall removes the sourcing line and the script.
func (i *Installer) Uninstall(shell string) (domain.ShellInstallResult, error) {
	name := i.normalize(shell)
	if name == domain.ShellUnknown {
		return domain.ShellInstallResult{}, fmt.Errorf("unsupported shell: %q", shell)
	}
	scriptPath, rcFile := i.paths(name)
	updated, err := removeRCLine(rcFile, i.sourceLine(scriptPath))
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	removed := true
	if err := os.Remove(scriptPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return domain.ShellInstallResult{}, err
		}
		removed = false
	}
	return domain.ShellInstallResult{
		Shell:         name,
		ScriptPath:    scriptPath,
		RCFile:        rcFile,
		ScriptUpdated: removed,
		RCUpdated:     updated,
	}, nil
}

// Status reports current hook state.
func (i *Installer) Status(shell string) domain.ShellStatus {
	name := i.normalize(shell)
	status := domain.ShellStatus{Shell: name}
	if name == domain.ShellUnknown {
		status.Error = "unsupported shell"
		return status
	}
	status.ScriptPath, status.RCFile = i.paths(name)

	if info, err := os.Stat(status.ScriptPath); err == nil && info.Mode().IsRegular() {
		status.ScriptExists = true
	}
	if contents, err := os.ReadFile(status.RCFile); err == nil {
		status.LinePresent = strings.Contains(string(contents), i.sourceLine(status.ScriptPath))
	}
	return status
}

// DetectShell returns the base name of $SHELL.
func (i *Installer) DetectShell() string {
	return filepath.Base(os.Getenv("SHELL"))
}

// Targets resolves which shells a hook command acts on. auto (or empty) picks
// the login shell and falls back to every supported shell when $SHELL is
// neither bash nor zsh.
func (i *Installer) Targets(selector string) ([]domain.HookTarget, error) {
	var shells []domain.ShellName
	switch sel := strings.ToLower(strings.TrimSpace(selector)); sel {
	case "", domain.HookSelectAuto:
		if detected := domain.ParseShellName(i.DetectShell()); detected != domain.ShellUnknown {
			shells = []domain.ShellName{detected}
		} else {
			shells = domain.SupportedShells()
		}
	case domain.HookSelectAll:
		shells = domain.SupportedShells()
	default:
		name := domain.ParseShellName(sel)
		if name == domain.ShellUnknown {
			return nil, fmt.Errorf("unsupported shell %q (use auto, all, bash or zsh)", selector)
		}
		shells = []domain.ShellName{name}
	}

	targets := make([]domain.HookTarget, 0, len(shells))
	for _, name := range shells {
		script, rc := i.paths(name)
		targets = append(targets, domain.HookTarget{Shell: name, ScriptPath: script, RCFile: rc})
	}
	return targets, nil
}

func (i *Installer) normalize(shell string) domain.ShellName {
	if shell == "" {
		shell = i.DetectShell()
	}
	return domain.ParseShellName(shell)
}

func (i *Installer) scriptFor(shell domain.ShellName) (string, error) {
	var tmpl string
	switch shell {
	case domain.ShellZsh:
		tmpl = rootassets.ZshHook
	case domain.ShellBash:
		tmpl = rootassets.BashHook
	default:
		return "", errors.New("unsupported shell (use bash or zsh)")
	}
	return strings.ReplaceAll(tmpl, rootassets.HookLogPlaceholder, i.errorLog), nil
}

func (i *Installer) paths(shell domain.ShellName) (string, string) {
	switch shell {
	case domain.ShellZsh:
		return filepath.Join(i.dir, "alex.zsh"), filepath.Join(i.home, ".zshrc")
	default:
		return filepath.Join(i.dir, "alex.bash"), filepath.Join(i.home, ".bashrc")
	}
}

func (i *Installer) sourceLine(scriptPath string) string {
	p := i.friendlyPath(scriptPath)
	return fmt.Sprintf(`[ -f "%s" ] && . "%s"`, p, p)
}

func (i *Installer) friendlyPath(path string) string {
	if rel, err := filepath.Rel(i.home, path); err == nil && !strings.HasPrefix(rel, "..") {
		return "$HOME/" + filepath.ToSlash(rel)
	}
	return path
}

func ensureRCLine(path string, line string, force bool) (bool, error) {
	contents, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if errors.Is(err, os.ErrNotExist) {
		return true, os.WriteFile(path, []byte(rcHeader+line+"\n"), 0o644)
	}
	if strings.Contains(string(contents), line) && !force {
		return false, nil
	}
	filtered := withoutLine(string(contents), line)
	if !strings.Contains(filtered, rcHeader) {
		filtered = strings.TrimRight(filtered, "\n") + "\n" + rcHeader
	}
	final := strings.TrimRight(filtered, "\n") + "\n" + line + "\n"
	return true, os.WriteFile(path, []byte(final), 0o644)
}

func removeRCLine(path string, line string) (bool, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !strings.Contains(string(contents), line) {
		return false, nil
	}
	final := withoutLine(string(contents), line)
	final = strings.Replace(final, rcHeader, "", 1)
	return true, os.WriteFile(path, []byte(final), 0o644)
}

func withoutLine(contents, line string) string {
	var kept []string
	for _, existing := range strings.Split(contents, "\n") {
		if strings.Contains(existing, line) {
			continue
		}
		kept = append(kept, existing)
	}
	return strings.Join(kept, "\n")
}

var _ ports.ShellIntegrator = (*Installer)(nil)

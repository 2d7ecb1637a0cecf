package domain

import "strings"

// ShellName enumerates shells the error hook supports.
type ShellName string

const (
	ShellUnknown ShellName = "unknown"
	ShellZsh     ShellName = "zsh"
	ShellBash    ShellName = "bash"
)

// HookSelectors accepted by `alex hook --shell`.
const (
	HookSelectAuto = "auto"
	HookSelectAll  = "all"
)

// SupportedShells lists the shells a hook script exists for.
func SupportedShells() []ShellName {
	return []ShellName{ShellBash, ShellZsh}
}

// ParseShellName maps a shell name or path ("/usr/bin/zsh") to a ShellName.
func ParseShellName(value string) ShellName {
	value = strings.TrimSpace(value)
	if i := strings.LastIndex(value, "/"); i >= 0 {
		value = value[i+1:]
	}
	switch strings.ToLower(value) {
	case "bash":
		return ShellBash
	case "zsh":
		return ShellZsh
	default:
		return ShellUnknown
	}
}

// HookTarget is one shell the hook will be managed for, with the files it
// touches.
type HookTarget struct {
	Shell      ShellName
	ScriptPath string
	RCFile     string
}

// ShellInstallResult describes install/uninstall outcomes.
type ShellInstallResult struct {
	Shell         ShellName
	ScriptPath    string
	RCFile        string
	ScriptUpdated bool
	RCUpdated     bool
}

// ShellStatus captures current hook state.
type ShellStatus struct {
	Shell        ShellName
	ScriptPath   string
	RCFile       string
	ScriptExists bool
	LinePresent  bool
	Error        string
}

// Installed reports whether both the script and the rc line are present.
func (s ShellStatus) Installed() bool {
	return s.ScriptExists && s.LinePresent
}

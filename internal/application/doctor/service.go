package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

// DefaultTools are probed when Service.Tools is empty.
var DefaultTools = []string{"systemctl", "journalctl", "git", "bash"}

// Service runs environment diagnostics.
type Service struct {
	ConfigPath  string
	AuthEnvVar  string
	Credentials ports.CredentialProvider
	Shell       ports.ShellIntegrator
	System      ports.SystemInfoCollector
	Executor    ports.CommandExecutor
	Logger      zerolog.Logger

	Tools    []string
	LookPath func(string) (string, error)
}

// Run executes checks and returns a report. Tool probes run concurrently;
// the report keeps a fixed order.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	if s.Credentials == nil {
		return domain.HealthReport{}, errors.New("doctor.Service dependencies not satisfied")
	}
	var checks []domain.HealthCheck

	if path, err := s.lookPath("alex"); err == nil {
		checks = append(checks, ok("alex in PATH", path))
	} else {
		checks = append(checks, fail("alex in PATH", "missing", "install the alex binary into a directory on PATH"))
	}

	checks = append(checks, s.configCheck())
	checks = append(checks, s.credentialChecks()...)

	tools, err := s.toolChecks(ctx)
	if err != nil {
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, tools...)

	if s.Shell != nil {
		checks = append(checks, shellCheck(s.Shell.Status("")))
	}
	if s.System != nil {
		info := s.System.Collect(ctx)
		checks = append(checks, ok("Host", strings.TrimSpace(fmt.Sprintf("%s %s (%s)", info.Distro, info.Release, info.Arch))))
	}

	report := domain.HealthReport{Checks: checks}
	s.Logger.Debug().Str("overall", string(report.Overall())).Int("checks", len(checks)).Msg("doctor finished")
	return report, nil
}

func (s *Service) configCheck() domain.HealthCheck {
	const name = "Config file"
	if _, err := os.Stat(s.ConfigPath); err != nil {
		return warn(name, fmt.Sprintf("%s (exists=false)", s.ConfigPath), "Run: alex config init")
	}
	return ok(name, s.ConfigPath)
}

func (s *Service) credentialChecks() []domain.HealthCheck {
	status := s.Credentials.Status()
	envVar := s.AuthEnvVar
	if envVar == "" {
		envVar = domain.DefaultAuthEnvVar
	}
	var checks []domain.HealthCheck

	info, err := os.Stat(status.FilePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		checks = append(checks, warn("Key file", fmt.Sprintf("%s (exists=false)", status.FilePath), "Run: alex auth"))
	case err != nil:
		checks = append(checks, warn("Key file", err.Error(), ""))
	default:
		mode := info.Mode().Perm()
		details := fmt.Sprintf("%s (mode=%#o)", status.FilePath, mode)
		if mode == 0o600 || mode == 0o400 {
			checks = append(checks, ok("Key file", details))
		} else {
			checks = append(checks, warn("Key file", details, "Fix perms: chmod 600 "+status.FilePath))
		}
	}

	envName := envVar + " (env)"
	if status.HasEnv {
		checks = append(checks, domain.HealthCheck{Name: envName, Status: domain.HealthOK, Details: "present", Hint: "Key: " + status.Masked})
	} else {
		checks = append(checks, warn(envName, "missing", "Optional (alex can read from key file)"))
	}

	if status.Ready() {
		checks = append(checks, domain.HealthCheck{Name: "API key usable", Status: domain.HealthOK, Details: "yes", Hint: "Key: " + status.Masked})
	} else {
		checks = append(checks, fail("API key usable", "no", "Run: alex auth"))
	}
	return checks
}

func (s *Service) toolChecks(ctx context.Context) ([]domain.HealthCheck, error) {
	tools := s.Tools
	if len(tools) == 0 {
		tools = DefaultTools
	}
	checks := make([]domain.HealthCheck, len(tools))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, tool := range tools {
		i, tool := i, tool
		g.Go(func() error {
			checks[i] = s.probeTool(gctx, tool)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return checks, nil
}

func (s *Service) probeTool(ctx context.Context, tool string) domain.HealthCheck {
	path, err := s.lookPath(tool)
	if err != nil {
		return warn(tool, "missing", "")
	}
	if s.Executor == nil {
		return ok(tool, path)
	}
	res := s.Executor.Execute(ctx, tool+" --version")
	if !res.Succeeded() {
		return ok(tool, path)
	}
	first, _, _ := strings.Cut(strings.TrimSpace(res.Stdout), "\n")
	if first == "" {
		return ok(tool, path)
	}
	return ok(tool, first)
}

func shellCheck(status domain.ShellStatus) domain.HealthCheck {
	const name = "Shell hook"
	switch {
	case status.Installed():
		return ok(name, fmt.Sprintf("%s (%s)", status.ScriptPath, status.Shell))
	case status.Error != "":
		return warn(name, status.Error, "Optional: alex hook install --shell bash|zsh")
	default:
		return warn(name, fmt.Sprintf("%s not installed", status.Shell), "Optional: alex hook install")
	}
}

func (s *Service) lookPath(name string) (string, error) {
	if s.LookPath != nil {
		return s.LookPath(name)
	}
	return exec.LookPath(name)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details, hint string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details, Hint: hint}
}

func fail(name, details, hint string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details, Hint: hint}
}

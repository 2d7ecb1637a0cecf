package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/alex-go/internal/domain"
)

type stubCredentials struct {
	status domain.CredentialStatus
}

func (c stubCredentials) Status() domain.CredentialStatus { return c.status }
func (c stubCredentials) APIKey() (string, error)         { return "", nil }

type stubShell struct {
	status domain.ShellStatus
}

func (s stubShell) Install(string, bool) (domain.ShellInstallResult, error) {
	return domain.ShellInstallResult{}, nil
}
func (s stubShell) Uninstall(string) (domain.ShellInstallResult, error) {
	return domain.ShellInstallResult{}, nil
}
func (s stubShell) Status(string) domain.ShellStatus { return s.status }
func (s stubShell) Targets(string) ([]domain.HookTarget, error) {
	return []domain.HookTarget{{Shell: domain.ShellBash}}, nil
}

type stubSystem struct{}

func (stubSystem) Collect(context.Context) domain.SystemInfo {
	return domain.SystemInfo{Distro: "Debian GNU/Linux 12 (bookworm)", Release: "6.1.0", Arch: "x86_64"}
}

type versionExecutor struct {
	mu       sync.Mutex
	commands []string
}

func (e *versionExecutor) Execute(_ context.Context, command string) domain.ExecutionResult {
	e.mu.Lock()
	e.commands = append(e.commands, command)
	e.mu.Unlock()
	return domain.ExecutionResult{Command: command, Stdout: command + " 1.0\nmore\n"}
}

func lookIn(available ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func byName(report domain.HealthReport) map[string]domain.HealthCheck {
	out := make(map[string]domain.HealthCheck)
	for _, c := range report.Checks {
		out[c.Name] = c
	}
	return out
}

func TestDoctorHealthy(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	key := filepath.Join(dir, "openai.env")
	require.NoError(t, os.WriteFile(cfg, []byte("language: en\n"), 0o644))
	require.NoError(t, os.WriteFile(key, []byte("OPENAI_API_KEY=\"sk\"\n"), 0o600))

	exec := &versionExecutor{}
	svc := &Service{
		ConfigPath: cfg,
		Credentials: stubCredentials{status: domain.CredentialStatus{
			State: domain.CredentialReady, HasEnv: true, HasFile: true, FilePath: key, Masked: "sk-abcde...wxyz",
		}},
		Shell:    stubShell{status: domain.ShellStatus{Shell: domain.ShellBash, ScriptPath: "/h/alex.bash", ScriptExists: true, LinePresent: true}},
		System:   stubSystem{},
		Executor: exec,
		Logger:   zerolog.Nop(),
		LookPath: lookIn("alex", "systemctl", "journalctl", "git", "bash"),
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.HealthOK, report.Overall())

	checks := byName(report)
	assert.Equal(t, "/usr/bin/alex", checks["alex in PATH"].Details)
	assert.Contains(t, checks["Key file"].Details, "mode=0600")
	assert.Equal(t, "Key: sk-abcde...wxyz", checks["OPENAI_API_KEY (env)"].Hint)
	assert.Equal(t, "git --version 1.0", checks["git"].Details)
	assert.Contains(t, checks["Host"].Details, "Debian GNU/Linux 12")
	assert.Len(t, exec.commands, len(DefaultTools))

	var order []string
	for _, c := range report.Checks {
		order = append(order, c.Name)
	}
	assert.Equal(t, []string{
		"alex in PATH", "Config file", "Key file", "OPENAI_API_KEY (env)", "API key usable",
		"systemctl", "journalctl", "git", "bash", "Shell hook", "Host",
	}, order)
}

func TestDoctorFailsWithoutKey(t *testing.T) {
	dir := t.TempDir()
	svc := &Service{
		ConfigPath:  filepath.Join(dir, "missing.yaml"),
		AuthEnvVar:  "ALEX_TEST_KEY",
		Credentials: stubCredentials{status: domain.CredentialStatus{State: domain.CredentialMissing, FilePath: filepath.Join(dir, "openai.env")}},
		Shell:       stubShell{status: domain.ShellStatus{Shell: domain.ShellZsh}},
		LookPath:    lookIn("alex"),
		Tools:       []string{"git"},
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.HealthError, report.Overall())

	checks := byName(report)
	assert.Equal(t, domain.HealthWarn, checks["Config file"].Status)
	assert.Equal(t, "Run: alex config init", checks["Config file"].Hint)
	assert.Equal(t, domain.HealthWarn, checks["Key file"].Status)
	assert.Equal(t, domain.HealthWarn, checks["ALEX_TEST_KEY (env)"].Status)
	assert.Equal(t, domain.HealthError, checks["API key usable"].Status)
	assert.Equal(t, "missing", checks["git"].Details)
	assert.Equal(t, domain.HealthWarn, checks["Shell hook"].Status)
	_, hasHost := checks["Host"]
	assert.False(t, hasHost)
}

func TestDoctorWarnsOnLooseKeyPermissions(t *testing.T) {
	dir := t.TempDir()
	key := filepath.Join(dir, "openai.env")
	require.NoError(t, os.WriteFile(key, []byte("OPENAI_API_KEY=x\n"), 0o600))
	require.NoError(t, os.Chmod(key, 0o644))

	svc := &Service{
		Credentials: stubCredentials{status: domain.CredentialStatus{State: domain.CredentialReady, HasFile: true, FilePath: key}},
		LookPath:    lookIn("alex", "systemctl", "journalctl", "git", "bash"),
	}
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	check := byName(report)["Key file"]
	assert.Equal(t, domain.HealthWarn, check.Status)
	assert.Contains(t, check.Details, "mode=0644")
	assert.Equal(t, domain.HealthWarn, report.Overall())
}

func TestDoctorMissingDeps(t *testing.T) {
	_, err := (&Service{}).Run(context.Background())
	assert.EqualError(t, err, "doctor.Service dependencies not satisfied")
}

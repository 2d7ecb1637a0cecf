package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/alex-go/internal/domain"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv(EnvConfigPath, "")
	return dir
}

func TestDefaultConfig(t *testing.T) {
	dir := isolate(t)
	cfg := DefaultConfig()

	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, domain.ProviderAPIResponses, cfg.Provider.API)
	assert.Equal(t, 90*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 120*time.Second, cfg.Execution.CommandTimeout)
	assert.Equal(t, 3, cfg.Diagnostics.MaxRounds)
	assert.Equal(t, 8000, cfg.Diagnostics.OutputLimit)
	assert.InDelta(t, 0.2, cfg.Provider.Temperature, 1e-9)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(dir, ".config", "alex", "history.db"), cfg.History.Path)
	assert.NoError(t, cfg.ValidateConsistency())
}

func TestLoadMissingFileReturnsDefaultsWithoutWriting(t *testing.T) {
	dir := isolate(t)
	l := NewFileLoader("", zerolog.Nop())

	cfg, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, filepath.Join(dir, "alex", ConfigFileName), l.Path())

	_, statErr := os.Stat(l.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadOverlaysFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	t.Setenv(EnvConfigPath, path)
	content := "language: cs\ndiagnostics:\n  max_rounds: 5\nexecution:\n  command_timeout: 10s\nerror_log: /var/tmp/alex-errors.log\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewFileLoader("", zerolog.Nop()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cs", cfg.Language)
	assert.Equal(t, 5, cfg.GetMaxRounds())
	assert.Equal(t, 10*time.Second, cfg.GetCommandTimeout())
	assert.Equal(t, "/var/tmp/alex-errors.log", cfg.ErrorLog)
	assert.Equal(t, 8000, cfg.GetOutputLimit())
	assert.Equal(t, "Answer in Czech.", cfg.LanguageLine())
}

func TestLoadBrokenFileFallsBackToDefaults(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: [unterminated"), 0o600))

	cfg, err := NewFileLoader(path, zerolog.Nop()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	isolate(t)
	_, err := Parse([]byte("style: flamboyant\n"))
	require.Error(t, err)
}

func TestInitWritesTemplatesOnce(t *testing.T) {
	dir := isolate(t)
	l := NewFileLoader("", zerolog.Nop())

	written, err := l.Init(false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "alex", ConfigFileName),
		filepath.Join(dir, "alex", BlacklistFileName),
	}, written)

	info, err := os.Stat(l.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	written, err = l.Init(false)
	require.NoError(t, err)
	assert.Empty(t, written)

	cfg, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveBackupAndReset(t *testing.T) {
	isolate(t)
	l := NewFileLoader("", zerolog.Nop())

	cfg := DefaultConfig()
	cfg.Style = domain.StyleTerse
	require.NoError(t, l.Save(cfg))

	loaded, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StyleTerse, loaded.Style)

	backup, err := l.Backup()
	require.NoError(t, err)
	assert.FileExists(t, backup)

	reset, err := l.Reset()
	require.NoError(t, err)
	assert.Equal(t, domain.StylePractical, reset.Style)
}

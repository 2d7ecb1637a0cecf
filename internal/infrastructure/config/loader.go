package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/alex-go/assets"
	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/pkg/filesystem"
	"github.com/doeshing/alex-go/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "ALEX_CONFIG"

// File names inside the config directory.
const (
	ConfigFileName    = "config.yaml"
	BlacklistFileName = "blacklist.yaml"
	HistoryFileName   = "history.db"
	ErrorLogFileName  = "errors.log"
)

// FileLoader loads YAML configuration from ~/.config/alex/config.yaml
// (XDG_CONFIG_HOME honored, overridable via ALEX_CONFIG). Loading never
// writes; a broken file yields the defaults and a warning.
type FileLoader struct {
	overridePath string
	log          zerolog.Logger
}

// NewFileLoader builds a new loader. An empty path uses the default location.
func NewFileLoader(path string, log zerolog.Logger) *FileLoader {
	return &FileLoader{overridePath: path, log: log}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		l.log.Warn().Err(err).Str("path", path).Msg("cannot read config, using defaults")
		return DefaultConfig(), nil
	}

	cfg, err := Parse(data)
	if err != nil {
		l.log.Warn().Err(err).Str("path", path).Msg("broken config, using defaults")
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (domain.Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg = hydratePaths(cfg)
	if err := cfg.ValidateConsistency(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Path returns the config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandHome(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandHome(custom)
	}
	return filesystem.ConfigFile(ConfigFileName)
}

// Init writes the commented default config and blacklist template when they
// do not exist yet (or always, with force). It returns the files written.
func (l *FileLoader) Init(force bool) ([]string, error) {
	path := l.Path()
	targets := []struct {
		path string
		data []byte
	}{
		{path, assets.DefaultConfigYAML},
		{filepath.Join(filepath.Dir(path), BlacklistFileName), assets.DefaultBlacklistYAML},
	}
	var written []string
	for _, t := range targets {
		if !force {
			if _, err := os.Stat(t.path); err == nil {
				continue
			}
		}
		if err := writeFile(t.path, t.data); err != nil {
			return written, err
		}
		written = append(written, t.path)
	}
	return written, nil
}

// Save writes cfg to the config file.
func (l *FileLoader) Save(cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return writeFile(l.Path(), raw)
}

// Backup copies the current config next to itself with a timestamp suffix.
func (l *FileLoader) Backup() (string, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

// Reset overwrites the config file with the embedded defaults.
func (l *FileLoader) Reset() (domain.Config, error) {
	if err := writeFile(l.Path(), assets.DefaultConfigYAML); err != nil {
		return domain.Config{}, err
	}
	return DefaultConfig(), nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return err
	}
	return os.WriteFile(path, data, domain.SecureFilePermissions)
}

// DefaultConfig returns the embedded defaults with paths expanded.
func DefaultConfig() domain.Config {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return hydratePaths(cfg)
}

func hydratePaths(cfg domain.Config) domain.Config {
	cfg.ErrorLog = pathOr(cfg.ErrorLog, ErrorLogFileName)
	cfg.History.Path = pathOr(cfg.History.Path, HistoryFileName)
	cfg.Security.RulesFile = pathOr(cfg.Security.RulesFile, BlacklistFileName)
	return cfg
}

func pathOr(path, name string) string {
	if path == "" {
		return filesystem.ConfigFile(name)
	}
	return filesystem.ExpandHome(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)

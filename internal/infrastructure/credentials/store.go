// Package credentials resolves the reasoning engine API key from the
// environment or from the user's openai.env file.
package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/pkg/filesystem"
	"github.com/doeshing/alex-go/internal/ports"
)

// KeyFileName is the env file holding the stored key.
const KeyFileName = "openai.env"

// Store implements ports.CredentialProvider. The environment wins over the
// file.
type Store struct {
	envVar string
	path   string
}

// NewStore returns a store reading envVar from the environment and from the
// env file at path. Empty arguments select the defaults.
func NewStore(envVar, path string) *Store {
	if envVar == "" {
		envVar = domain.DefaultAuthEnvVar
	}
	if path == "" {
		path = filesystem.ConfigFile(KeyFileName)
	}
	return &Store{envVar: envVar, path: path}
}

// Path returns the key file location.
func (s *Store) Path() string { return s.path }

// EnvVar returns the environment variable consulted first.
func (s *Store) EnvVar() string { return s.envVar }

// Status implements ports.CredentialProvider.
func (s *Store) Status() domain.CredentialStatus {
	envKey := strings.TrimSpace(os.Getenv(s.envVar))
	fileKey, _ := s.fileKey()
	chosen := envKey
	if chosen == "" {
		chosen = fileKey
	}
	status := domain.CredentialStatus{
		State:    domain.CredentialMissing,
		HasEnv:   envKey != "",
		HasFile:  fileKey != "",
		FilePath: s.path,
		Masked:   Mask(chosen),
	}
	if chosen != "" {
		status.State = domain.CredentialReady
	}
	return status
}

// APIKey implements ports.CredentialProvider.
func (s *Store) APIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv(s.envVar)); key != "" {
		return key, nil
	}
	key, err := s.fileKey()
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", fmt.Errorf("%w: set %s or run `alex auth`", domain.ErrMissingCredential, s.envVar)
	}
	return key, nil
}

// Save stores key in the env file with owner-only permissions.
func (s *Store) Save(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("empty API key")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	content, err := godotenv.Marshal(map[string]string{s.envVar: key})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, []byte(content+"\n"), domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return os.Chmod(s.path, domain.SecureFilePermissions)
}

// Delete removes the key file. It reports false when there was none.
func (s *Store) Delete() (bool, error) {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) fileKey() (string, error) {
	values, err := godotenv.Read(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.path, err)
	}
	return strings.TrimSpace(values[s.envVar]), nil
}

// Mask hides a key for display: short keys are fully starred, longer ones
// keep the first eight and last four characters.
func Mask(key string) string {
	key = strings.TrimSpace(key)
	if len(key) <= 10 {
		return strings.Repeat("*", len(key))
	}
	return key[:8] + "..." + key[len(key)-4:]
}

var _ ports.CredentialProvider = (*Store)(nil)

package config

import (
	"fmt"
	"net/url"

	"github.com/doeshing/alex-go/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	if err := validateProvider(cfg.Provider); err != nil {
		return err
	}
	if err := validateExecution(cfg.Execution); err != nil {
		return err
	}
	if err := validateDiagnostics(cfg.Diagnostics); err != nil {
		return err
	}
	if cfg.MaxOutputChars < 0 {
		return fmt.Errorf("max_output_chars must be >= 0")
	}
	if cfg.History.Enabled && cfg.History.Path == "" {
		return fmt.Errorf("history.path must be set when history is enabled")
	}
	return nil
}

func validateProvider(p domain.ProviderSettings) error {
	if p.Endpoint != "" {
		u, err := url.Parse(p.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("provider.endpoint must be an absolute URL, got %q", p.Endpoint)
		}
	}
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("provider.temperature must be within [0, 2], got %v", p.Temperature)
	}
	if p.Timeout < 0 {
		return fmt.Errorf("provider.timeout must be >= 0")
	}
	return nil
}

func validateExecution(e domain.ExecutionSettings) error {
	if e.CommandTimeout < 0 {
		return fmt.Errorf("execution.command_timeout must be >= 0")
	}
	return nil
}

func validateDiagnostics(d domain.DiagnosticSettings) error {
	if d.OutputLimit < 0 {
		return fmt.Errorf("diagnostics.output_limit must be >= 0")
	}
	return nil
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// LanguageLine tells the reasoning engine which language to answer in.
func (c *Config) LanguageLine() string {
	if strings.HasPrefix(strings.ToLower(c.Language), LanguageCzech) {
		return "Answer in Czech."
	}
	return "Answer in English."
}

// StyleLine maps the configured style onto a briefing sentence.
func (c *Config) StyleLine() string {
	switch strings.ToLower(c.Style) {
	case StyleTerse:
		return "Be brief."
	case StyleVerbose:
		return "Be detailed."
	default:
		return "Be practical and direct."
	}
}

// IsStrict reports whether the strict safety level is active.
func (c *Config) IsStrict() bool {
	return strings.EqualFold(c.SafetyLevel, SafetyStrict)
}

// EffectiveAutoConfirm combines the CLI flag with the config file.
// Strict safety never auto-confirms.
func (c *Config) EffectiveAutoConfirm(flag bool) bool {
	if c.IsStrict() {
		return false
	}
	return flag || c.AutoYes
}

// GetMaxRounds returns the diagnostic round budget.
func (c *Config) GetMaxRounds() int {
	if c.Diagnostics.MaxRounds <= 0 {
		return DefaultMaxRounds
	}
	return c.Diagnostics.MaxRounds
}

// GetOutputLimit returns the per-stream cap used in reasoning prompts.
func (c *Config) GetOutputLimit() int {
	if c.Diagnostics.OutputLimit <= 0 {
		return DefaultOutputLimit
	}
	return c.Diagnostics.OutputLimit
}

// GetMaxOutputChars returns the per-stream cap used for display.
func (c *Config) GetMaxOutputChars() int {
	if c.MaxOutputChars <= 0 {
		return DefaultMaxOutputChars
	}
	return c.MaxOutputChars
}

// GetShell returns the interpreter used for commands with shell syntax.
func (c *Config) GetShell() string {
	if c.Execution.Shell == "" {
		return DefaultShell
	}
	return c.Execution.Shell
}

// GetCommandTimeout returns the child process timeout; zero disables it.
func (c *Config) GetCommandTimeout() time.Duration {
	if c.Execution.CommandTimeout < 0 {
		return 0
	}
	return c.Execution.CommandTimeout
}

// GetProviderAPI returns the wire protocol of the reasoning endpoint.
func (c *Config) GetProviderAPI() string {
	if strings.EqualFold(c.Provider.API, ProviderAPIChat) {
		return ProviderAPIChat
	}
	return ProviderAPIResponses
}

// GetProviderEndpoint returns the configured endpoint or the default for the API.
func (c *Config) GetProviderEndpoint() string {
	if c.Provider.Endpoint != "" {
		return c.Provider.Endpoint
	}
	if c.GetProviderAPI() == ProviderAPIChat {
		return DefaultChatEndpoint
	}
	return DefaultResponsesEndpoint
}

// GetModel returns the reasoning model identifier.
func (c *Config) GetModel() string {
	if c.Provider.Model == "" {
		return DefaultModel
	}
	return c.Provider.Model
}

// GetAuthEnvVar returns the environment variable holding the API key.
func (c *Config) GetAuthEnvVar() string {
	if c.Provider.AuthEnvVar == "" {
		return DefaultAuthEnvVar
	}
	return c.Provider.AuthEnvVar
}

// GetTemperature returns the sampling temperature. Values outside [0, 2]
// fall back to the default.
func (c *Config) GetTemperature() float64 {
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		return DefaultTemperature
	}
	return c.Provider.Temperature
}

// GetProviderTimeout returns the reasoning call timeout.
func (c *Config) GetProviderTimeout() time.Duration {
	if c.Provider.Timeout <= 0 {
		return DefaultProviderTimeout
	}
	return c.Provider.Timeout
}

// ValidateConsistency checks the enumerated preferences.
func (c *Config) ValidateConsistency() error {
	switch strings.ToLower(c.Language) {
	case "", LanguageEnglish, LanguageCzech:
	default:
		return fmt.Errorf("unsupported language %q (use en or cs)", c.Language)
	}
	switch strings.ToLower(c.Style) {
	case "", StylePractical, StyleTerse, StyleVerbose:
	default:
		return fmt.Errorf("unsupported style %q", c.Style)
	}
	switch strings.ToLower(c.SafetyLevel) {
	case "", SafetyNormal, SafetyStrict:
	default:
		return fmt.Errorf("unsupported safety_level %q", c.SafetyLevel)
	}
	switch strings.ToLower(c.Provider.API) {
	case "", ProviderAPIResponses, ProviderAPIChat:
	default:
		return fmt.Errorf("unsupported provider.api %q", c.Provider.API)
	}
	if c.Diagnostics.MaxRounds < 0 {
		return fmt.Errorf("diagnostics.max_rounds must be >= 0")
	}
	return nil
}

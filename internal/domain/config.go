package domain

import "time"

// Config mirrors ~/.config/alex/config.yaml.
type Config struct {
	Language       string             `yaml:"language"`
	Style          string             `yaml:"style"`
	SafetyLevel    string             `yaml:"safety_level"`
	Verbose        bool               `yaml:"verbose"`
	AutoYes        bool               `yaml:"auto_yes"`
	MaxOutputChars int                `yaml:"max_output_chars"`
	ErrorLog       string             `yaml:"error_log"`
	Provider       ProviderSettings   `yaml:"provider"`
	Execution      ExecutionSettings  `yaml:"execution"`
	Diagnostics    DiagnosticSettings `yaml:"diagnostics"`
	History        HistorySettings    `yaml:"history"`
	Security       SecuritySettings   `yaml:"security"`
}

// ProviderSettings selects and tunes the reasoning engine endpoint.
type ProviderSettings struct {
	API         string        `yaml:"api"`
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	AuthEnvVar  string        `yaml:"auth_env_var"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ExecutionSettings controls how commands run.
type ExecutionSettings struct {
	Shell          string        `yaml:"shell"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

// DiagnosticSettings bounds the service diagnostic loop.
type DiagnosticSettings struct {
	MaxRounds   int `yaml:"max_rounds"`
	OutputLimit int `yaml:"output_limit"`
}

// HistorySettings configures session persistence.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// SecuritySettings points at optional extra blacklist rules.
type SecuritySettings struct {
	RulesFile string `yaml:"rules_file"`
}

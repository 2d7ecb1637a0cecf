package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Provider defaults
const (
	ProviderAPIResponses = "responses"
	ProviderAPIChat      = "chat"

	DefaultModel             = "gpt-4.1-mini"
	DefaultResponsesEndpoint = "https://api.openai.com/v1/responses"
	DefaultChatEndpoint      = "https://api.openai.com/v1/chat/completions"
	DefaultAuthEnvVar        = "OPENAI_API_KEY"
	DefaultTemperature       = 0.2
	DefaultProviderTimeout   = 90 * time.Second
)

// Execution defaults
const (
	DefaultShell          = "bash"
	DefaultCommandTimeout = 120 * time.Second
)

// Limit constants
const (
	// DefaultMaxRounds bounds the diagnostic conversation.
	DefaultMaxRounds = 3
	// DefaultOutputLimit caps each stream when results are sent for reasoning.
	DefaultOutputLimit = 8000
	// DefaultMaxOutputChars caps each stream when results are displayed.
	DefaultMaxOutputChars = 4000
	// DefaultMaxSuggestions caps fuzzy service suggestions.
	DefaultMaxSuggestions = 5
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
)

// Preference values
const (
	LanguageEnglish = "en"
	LanguageCzech   = "cs"

	StylePractical = "practical"
	StyleTerse     = "terse"
	StyleVerbose   = "verbose"

	SafetyNormal = "normal"
	SafetyStrict = "strict"
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)

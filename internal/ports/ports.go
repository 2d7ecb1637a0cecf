// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core (risk gating, service resolution, the diagnostic loop)
// depends only on these abstractions. Adapters in the infrastructure layer
// provide the subprocess executor, the systemd unit probe, the reasoning
// engine client, persistence and the terminal.
package ports

import (
	"context"

	"github.com/doeshing/alex-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.config/alex/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// RiskClassifier matches a command against the destructive-operation blacklist.
// It returns the reason of the first matching signature, or "" and false.
type RiskClassifier interface {
	Classify(command string) (string, bool)
}

// CommandExecutor runs a single command. Failures are reported inside the
// result (exit codes 1, 124, 127); it never returns an error.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) domain.ExecutionResult
}

// UnitLister enumerates installed systemd service unit names.
type UnitLister interface {
	ListServiceUnits(ctx context.Context) ([]string, error)
}

// ServiceResolver maps a user-typed service name onto an installed unit.
type ServiceResolver interface {
	Resolve(ctx context.Context, name string) (domain.ServiceResolution, error)
}

// ReasoningEngine sends a prompt to the external model and returns the
// strictly validated structured document.
type ReasoningEngine interface {
	Reason(ctx context.Context, req domain.ReasoningRequest) (domain.ReasoningResponse, error)
}

// SystemInfoCollector describes the local host for prompt context.
type SystemInfoCollector interface {
	Collect(ctx context.Context) domain.SystemInfo
}

// ConfirmationPrompter asks the user before a command runs.
type ConfirmationPrompter interface {
	Confirm(req domain.ConfirmationRequest) (bool, error)
}

// Presenter is the output sink of the application services.
type Presenter interface {
	// Plan renders a reasoning engine document.
	Plan(resp domain.ReasoningResponse)
	// Skipped reports a command the gate did not run.
	Skipped(label string, decision domain.GateDecision)
	// Executed reports the outcome of an approved command.
	Executed(label string, result domain.ExecutionResult)
	// Notice prints a free-form message.
	Notice(msg string)
}

// HistoryRepository persists finished sessions.
type HistoryRepository interface {
	Save(ctx context.Context, record domain.SessionRecord) error
	Records(ctx context.Context, limit int) ([]domain.SessionRecord, error)
	Get(ctx context.Context, id string) (domain.SessionRecord, error)
	Clear(ctx context.Context) error
}

// CredentialProvider evaluates the API key precondition.
type CredentialProvider interface {
	Status() domain.CredentialStatus
	APIKey() (string, error)
}

// ShellIntegrator manages the error-log shell hook (bash, zsh).
type ShellIntegrator interface {
	Install(shell string, force bool) (domain.ShellInstallResult, error)
	Uninstall(shell string) (domain.ShellInstallResult, error)
	Status(shell string) domain.ShellStatus
	// Targets expands a selector (auto, all, bash, zsh) into hook targets.
	Targets(selector string) ([]domain.HookTarget, error)
}

// ErrorLog is the block-structured log of failed shell commands.
type ErrorLog interface {
	Select(filter domain.ErrorFilter) ([]string, error)
	Clear() error
	Path() string
}

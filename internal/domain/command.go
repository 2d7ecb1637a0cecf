package domain

import "strings"

// Exit codes synthesized by the executor when the child never produced one.
const (
	ExitFailure         = 1
	ExitTimeout         = 124
	ExitCommandNotFound = 127
)

// CommandSpec is a single proposed command. Values are never mutated after
// construction; escalation produces a copy.
type CommandSpec struct {
	Text      string    `json:"cmd"`
	Rationale string    `json:"why"`
	Risk      RiskLevel `json:"risk"`
}

// Empty reports whether the command has no runnable text.
func (c CommandSpec) Empty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// WithRisk returns a copy carrying the given risk.
func (c CommandSpec) WithRisk(level RiskLevel) CommandSpec {
	c.Risk = level
	return c
}

// ExecutionResult is the normalized outcome of one command invocation.
// Stderr has already been scrubbed of known benign noise.
type ExecutionResult struct {
	Command    string `json:"command"`
	ExitCode   int    `json:"exit_code"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	DurationMS int64  `json:"duration_ms"`
}

// Succeeded reports a zero exit status.
func (r ExecutionResult) Succeeded() bool {
	return r.ExitCode == 0
}

package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Intent tags a reasoning request.
type Intent string

const (
	IntentGeneral       Intent = "general"
	IntentErrorAnalysis Intent = "error_analysis"
)

// Valid reports whether the intent is one of the known tags.
func (i Intent) Valid() bool {
	return i == IntentGeneral || i == IntentErrorAnalysis
}

// ReasoningRequest is the input handed to the reasoning engine.
type ReasoningRequest struct {
	Intent Intent
	Prompt string
}

// ReasoningResponse is the fixed-shape document returned by the engine.
type ReasoningResponse struct {
	Intent   Intent        `json:"intent"`
	Summary  string        `json:"summary"`
	Steps    []string      `json:"steps"`
	Commands []CommandSpec `json:"commands"`
	Checks   []string      `json:"checks"`
	Notes    []string      `json:"notes"`
}

// Done reports whether the engine proposed no further commands.
func (r ReasoningResponse) Done() bool {
	return len(r.Commands) == 0
}

type wireDocument struct {
	Intent   *string        `json:"intent"`
	Summary  *string        `json:"summary"`
	Steps    *[]string      `json:"steps"`
	Commands *[]wireCommand `json:"commands"`
	Checks   *[]string      `json:"checks"`
	Notes    *[]string      `json:"notes"`
}

type wireCommand struct {
	Cmd  *string `json:"cmd"`
	Why  *string `json:"why"`
	Risk *string `json:"risk"`
}

// DecodeReasoningResponse validates raw engine output against the document
// shape. Anything else is reported as a *ContractViolationError.
func DecodeReasoningResponse(raw []byte) (ReasoningResponse, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ReasoningResponse{}, violation("empty payload", raw)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()

	var doc wireDocument
	if err := dec.Decode(&doc); err != nil {
		return ReasoningResponse{}, violation(fmt.Sprintf("not a JSON document: %v", err), raw)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ReasoningResponse{}, violation("trailing data after document", raw)
	}

	var missing []string
	if doc.Intent == nil {
		missing = append(missing, "intent")
	}
	if doc.Summary == nil {
		missing = append(missing, "summary")
	}
	if doc.Steps == nil {
		missing = append(missing, "steps")
	}
	if doc.Commands == nil {
		missing = append(missing, "commands")
	}
	if doc.Checks == nil {
		missing = append(missing, "checks")
	}
	if doc.Notes == nil {
		missing = append(missing, "notes")
	}
	if len(missing) > 0 {
		return ReasoningResponse{}, violation("missing required fields: "+strings.Join(missing, ", "), raw)
	}

	intent := Intent(*doc.Intent)
	if !intent.Valid() {
		return ReasoningResponse{}, violation(fmt.Sprintf("unknown intent %q", *doc.Intent), raw)
	}

	commands := make([]CommandSpec, 0, len(*doc.Commands))
	for i, c := range *doc.Commands {
		if c.Cmd == nil || c.Why == nil || c.Risk == nil {
			return ReasoningResponse{}, violation(fmt.Sprintf("commands[%d] lacks cmd, why or risk", i), raw)
		}
		level, ok := ParseRiskLevel(*c.Risk)
		if !ok || string(level) != *c.Risk {
			return ReasoningResponse{}, violation(fmt.Sprintf("commands[%d] has unknown risk %q", i, *c.Risk), raw)
		}
		commands = append(commands, CommandSpec{
			Text:      strings.TrimSpace(*c.Cmd),
			Rationale: *c.Why,
			Risk:      level,
		})
	}

	return ReasoningResponse{
		Intent:   intent,
		Summary:  *doc.Summary,
		Steps:    *doc.Steps,
		Commands: commands,
		Checks:   *doc.Checks,
		Notes:    *doc.Notes,
	}, nil
}

func violation(reason string, raw []byte) error {
	return &ContractViolationError{Reason: reason, Raw: string(raw)}
}

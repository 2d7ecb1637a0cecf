package domain

import "time"

// DiagnosticState names a step of the diagnostic state machine.
type DiagnosticState string

const (
	StateResolving DiagnosticState = "resolving"
	StateBaseline  DiagnosticState = "baseline"
	StateReasoning DiagnosticState = "reasoning"
	StateGating    DiagnosticState = "gating"
	StateExecuting DiagnosticState = "executing"
	StateDone      DiagnosticState = "done"
	StateExhausted DiagnosticState = "exhausted"
	StateAborted   DiagnosticState = "aborted"
)

// Terminal reports whether no further transition can follow.
func (s DiagnosticState) Terminal() bool {
	switch s {
	case StateDone, StateExhausted, StateAborted:
		return true
	default:
		return false
	}
}

// DiagnosticRequest carries the caller's choices for one session.
type DiagnosticRequest struct {
	Service     string
	Execute     bool
	AutoConfirm bool
	MaxRounds   int
}

// DiagnosticSession accumulates everything one diagnostic run produces.
// Only the diagnostic loop appends to it.
type DiagnosticSession struct {
	ID          string
	Request     DiagnosticRequest
	Resolution  ServiceResolution
	Results     []ExecutionResult
	Responses   []ReasoningResponse
	Round       int
	State       DiagnosticState
	Transitions []DiagnosticState
	StartedAt   time.Time
	FinishedAt  time.Time
}

// NewDiagnosticSession starts a session in the resolving state.
func NewDiagnosticSession(id string, req DiagnosticRequest, now time.Time) *DiagnosticSession {
	s := &DiagnosticSession{
		ID:        id,
		Request:   req,
		StartedAt: now,
	}
	s.Transition(StateResolving)
	return s
}

// Transition moves the session to the next state and records it.
func (s *DiagnosticSession) Transition(state DiagnosticState) {
	s.State = state
	s.Transitions = append(s.Transitions, state)
}

// Append records a result at the end of the execution history.
func (s *DiagnosticSession) Append(results ...ExecutionResult) {
	s.Results = append(s.Results, results...)
}

// Service returns the unit name the session is diagnosing.
func (s *DiagnosticSession) Service() string {
	if s.Resolution.Resolved != "" {
		return s.Resolution.Resolved
	}
	return s.Request.Service
}

// Count returns how often the session entered the given state.
func (s *DiagnosticSession) Count(state DiagnosticState) int {
	n := 0
	for _, t := range s.Transitions {
		if t == state {
			n++
		}
	}
	return n
}

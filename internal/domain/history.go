package domain

import "time"

// SessionKind distinguishes persisted history entries.
type SessionKind string

const (
	KindDiagnose SessionKind = "service"
	KindRun      SessionKind = "run"
)

// SessionRecord is the persisted summary of one diagnostic session or run.
type SessionRecord struct {
	ID         string            `json:"id"`
	Kind       SessionKind       `json:"kind"`
	Subject    string            `json:"subject"`
	Resolved   string            `json:"resolved"`
	State      DiagnosticState   `json:"state"`
	Rounds     int               `json:"rounds"`
	Summary    string            `json:"summary"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Executions []ExecutionResult `json:"executions"`
}

// RecordFromSession flattens a finished session for storage.
func RecordFromSession(s *DiagnosticSession) SessionRecord {
	rec := SessionRecord{
		ID:         s.ID,
		Kind:       KindDiagnose,
		Subject:    s.Request.Service,
		Resolved:   s.Resolution.Resolved,
		State:      s.State,
		Rounds:     s.Round,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Executions: append([]ExecutionResult(nil), s.Results...),
	}
	if n := len(s.Responses); n > 0 {
		rec.Summary = s.Responses[n-1].Summary
	}
	return rec
}

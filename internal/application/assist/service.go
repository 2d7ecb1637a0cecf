// Package assist answers a one-shot natural-language request: one reasoning
// call, then optionally the gated execution of the proposed commands.
package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/doeshing/alex-go/internal/application/gate"
	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

// ErrEmptyQuery is returned when the request has no text.
var ErrEmptyQuery = errors.New("empty query")

// Request is one `alex run` invocation.
type Request struct {
	Query       string
	Execute     bool
	AutoConfirm bool
}

// Outcome is what a run produced.
type Outcome struct {
	ID        string
	Response  domain.ReasoningResponse
	Decisions []domain.GateDecision
	Results   []domain.ExecutionResult
}

// Service orchestrates the run lifecycle end-to-end.
type Service struct {
	Engine    ports.ReasoningEngine
	Executor  ports.CommandExecutor
	Gate      *gate.Policy
	Presenter ports.Presenter
	History   ports.HistoryRepository
	Logger    zerolog.Logger

	NewID func() string
	Now   func() time.Time
}

// Run processes a single natural-language query.
func (s *Service) Run(ctx context.Context, req Request) (Outcome, error) {
	if s.Engine == nil || s.Executor == nil || s.Gate == nil || s.Presenter == nil {
		return Outcome{}, errors.New("assist.Service dependencies not satisfied")
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return Outcome{}, ErrEmptyQuery
	}

	out := Outcome{ID: s.newID()}
	started := s.now()

	s.Logger.Debug().Str("id", out.ID).Bool("execute", req.Execute).Msg("calling reasoning engine")
	resp, err := s.Engine.Reason(ctx, domain.ReasoningRequest{Intent: domain.IntentGeneral, Prompt: query})
	if err != nil {
		return out, fmt.Errorf("reasoning: %w", err)
	}
	out.Response = resp
	s.Presenter.Plan(resp)

	if !req.Execute {
		return out, nil
	}
	if resp.Done() {
		s.Presenter.Notice("No commands to run.")
		return out, nil
	}

	defer s.save(ctx, query, started, &out)

	opts := gate.Options{Execute: true, AutoConfirm: req.AutoConfirm}
	total := len(resp.Commands)
	for i, spec := range resp.Commands {
		label := fmt.Sprintf("[%d/%d]", i+1, total)
		decision, err := s.Gate.Evaluate(label, spec, opts)
		if err != nil {
			return out, err
		}
		out.Decisions = append(out.Decisions, decision)
		if !decision.Approved() {
			s.Presenter.Skipped(label, decision)
			continue
		}
		result := s.Executor.Execute(ctx, decision.Spec.Text)
		out.Results = append(out.Results, result)
		s.Presenter.Executed(label, result)
	}
	return out, nil
}

func (s *Service) save(ctx context.Context, query string, started time.Time, out *Outcome) {
	if s.History == nil {
		return
	}
	rec := domain.SessionRecord{
		ID:         out.ID,
		Kind:       domain.KindRun,
		Subject:    query,
		State:      domain.StateDone,
		Rounds:     1,
		Summary:    out.Response.Summary,
		StartedAt:  started,
		FinishedAt: s.now(),
		Executions: out.Results,
	}
	if len(out.Decisions) < len(out.Response.Commands) {
		rec.State = domain.StateAborted
	}
	if err := s.History.Save(context.WithoutCancel(ctx), rec); err != nil {
		s.Logger.Warn().Err(err).Str("id", out.ID).Msg("failed to save history")
	}
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

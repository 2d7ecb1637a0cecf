// Package diagnose drives the multi-round diagnosis of one systemd service.
package diagnose

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/doeshing/alex-go/internal/application/gate"
	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

// Service runs diagnostic sessions. Presenter and History are optional.
type Service struct {
	Resolver    ports.ServiceResolver
	Executor    ports.CommandExecutor
	Engine      ports.ReasoningEngine
	Gate        *gate.Policy
	Presenter   ports.Presenter
	History     ports.HistoryRepository
	Logger      zerolog.Logger
	OutputLimit int

	NewID func() string
	Now   func() time.Time
}

// Run executes one session until it reaches a terminal state. The session is
// returned even when err is non-nil so callers can inspect how far it got.
func (s *Service) Run(ctx context.Context, req domain.DiagnosticRequest) (*domain.DiagnosticSession, error) {
	if s.Resolver == nil || s.Executor == nil || s.Engine == nil || s.Gate == nil {
		return nil, errors.New("diagnose.Service dependencies not satisfied")
	}
	if req.MaxRounds <= 0 {
		req.MaxRounds = domain.DefaultMaxRounds
	}

	session := domain.NewDiagnosticSession(s.newID(), req, s.now())
	defer s.finish(ctx, session)

	err := s.run(ctx, session)
	if err != nil && !session.State.Terminal() {
		s.transition(session, domain.StateAborted)
	}
	return session, err
}

func (s *Service) run(ctx context.Context, session *domain.DiagnosticSession) error {
	req := session.Request

	res, err := s.Resolver.Resolve(ctx, req.Service)
	if err != nil {
		return fmt.Errorf("resolve service: %w", err)
	}
	session.Resolution = res
	switch {
	case res.Ambiguous():
		s.transition(session, domain.StateAborted)
		return &domain.AmbiguousServiceError{Requested: res.Requested, Suggestions: res.Suggestions}
	case res.Missing():
		s.notice(fmt.Sprintf("No installed unit matches %q; %s probably does not exist. Probing anyway.", res.Requested, res.Resolved))
	case res.Changed && res.Resolved != res.Requested:
		s.notice(fmt.Sprintf("Using %s (requested %q).", res.Resolved, res.Requested))
	}

	unit := session.Service()
	s.transition(session, domain.StateBaseline)
	for _, cmd := range BaselineCommands(unit) {
		session.Append(s.Executor.Execute(ctx, cmd))
	}

	opts := gate.Options{Execute: req.Execute, AutoConfirm: req.AutoConfirm}
	for {
		s.transition(session, domain.StateReasoning)
		prompt := BuildPrompt(unit, session.Results, len(session.Responses) == 0, s.outputLimit())
		resp, err := s.Engine.Reason(ctx, domain.ReasoningRequest{Intent: domain.IntentGeneral, Prompt: prompt})
		if err != nil {
			return fmt.Errorf("reasoning round %d: %w", session.Round+1, err)
		}
		session.Responses = append(session.Responses, resp)
		s.presenter().Plan(resp)

		if resp.Done() {
			s.transition(session, domain.StateDone)
			return nil
		}

		label := fmt.Sprintf("[round %d]", session.Round+1)
		for _, spec := range resp.Commands {
			if session.State != domain.StateGating {
				s.transition(session, domain.StateGating)
			}
			decision, err := s.Gate.Evaluate(label, spec, opts)
			if err != nil {
				return err
			}
			switch decision.Verdict {
			case domain.VerdictRun:
				s.transition(session, domain.StateExecuting)
				result := s.Executor.Execute(ctx, decision.Spec.Text)
				session.Append(result)
				s.presenter().Executed(label, result)
			case domain.VerdictPlanOnly:
			default:
				s.presenter().Skipped(label, decision)
			}
		}

		session.Round++
		if !req.Execute {
			s.transition(session, domain.StateDone)
			return nil
		}
		if session.Round >= req.MaxRounds {
			s.transition(session, domain.StateExhausted)
			s.notice(ExhaustedMessage)
			return nil
		}
	}
}

func (s *Service) transition(session *domain.DiagnosticSession, state domain.DiagnosticState) {
	session.Transition(state)
	s.Logger.Debug().
		Str("session", session.ID).
		Str("state", string(state)).
		Int("round", session.Round).
		Int("results", len(session.Results)).
		Msg("diagnostic transition")
}

func (s *Service) finish(ctx context.Context, session *domain.DiagnosticSession) {
	session.FinishedAt = s.now()
	if s.History == nil {
		return
	}
	if err := s.History.Save(context.WithoutCancel(ctx), domain.RecordFromSession(session)); err != nil {
		s.Logger.Warn().Err(err).Str("session", session.ID).Msg("failed to save session history")
	}
}

func (s *Service) notice(msg string) {
	s.presenter().Notice(msg)
}

func (s *Service) presenter() ports.Presenter {
	if s.Presenter == nil {
		return nopPresenter{}
	}
	return s.Presenter
}

func (s *Service) outputLimit() int {
	if s.OutputLimit <= 0 {
		return domain.DefaultOutputLimit
	}
	return s.OutputLimit
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

type nopPresenter struct{}

func (nopPresenter) Plan(domain.ReasoningResponse) {}
func (nopPresenter) Skipped(string, domain.GateDecision) {}
func (nopPresenter) Executed(string, domain.ExecutionResult) {}
func (nopPresenter) Notice(string) {}

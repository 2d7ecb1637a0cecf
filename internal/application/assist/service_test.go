package assist

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/alex-go/internal/application/gate"
	"github.com/doeshing/alex-go/internal/domain"
)

type stubEngine struct {
	resp domain.ReasoningResponse
	err  error
	reqs []domain.ReasoningRequest
}

func (e *stubEngine) Reason(_ context.Context, req domain.ReasoningRequest) (domain.ReasoningResponse, error) {
	e.reqs = append(e.reqs, req)
	return e.resp, e.err
}

type recordingExecutor struct {
	commands []string
}

func (r *recordingExecutor) Execute(_ context.Context, command string) domain.ExecutionResult {
	r.commands = append(r.commands, command)
	return domain.ExecutionResult{Command: command}
}

type stubClassifier struct{}

func (stubClassifier) Classify(command string) (string, bool) {
	if strings.HasPrefix(command, "mkfs") {
		return "mkfs formats a filesystem", true
	}
	return "", false
}

type scriptedPrompter struct {
	answers  []bool
	requests []domain.ConfirmationRequest
	err      error
}

func (p *scriptedPrompter) Confirm(req domain.ConfirmationRequest) (bool, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return false, p.err
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

type recordingPresenter struct {
	plans    int
	notices  []string
	skipped  []string
	executed []string
}

func (p *recordingPresenter) Plan(domain.ReasoningResponse) { p.plans++ }
func (p *recordingPresenter) Skipped(label string, _ domain.GateDecision) {
	p.skipped = append(p.skipped, label)
}
func (p *recordingPresenter) Executed(label string, _ domain.ExecutionResult) {
	p.executed = append(p.executed, label)
}
func (p *recordingPresenter) Notice(msg string) { p.notices = append(p.notices, msg) }

type memoryHistory struct {
	saved []domain.SessionRecord
}

func (m *memoryHistory) Save(_ context.Context, rec domain.SessionRecord) error {
	m.saved = append(m.saved, rec)
	return nil
}
func (m *memoryHistory) Records(context.Context, int) ([]domain.SessionRecord, error) {
	return m.saved, nil
}
func (m *memoryHistory) Get(context.Context, string) (domain.SessionRecord, error) {
	return domain.SessionRecord{}, errors.New("not found")
}
func (m *memoryHistory) Clear(context.Context) error { return nil }

type fixture struct {
	svc       *Service
	engine    *stubEngine
	exec      *recordingExecutor
	prompter  *scriptedPrompter
	presenter *recordingPresenter
	history   *memoryHistory
}

func newFixture(resp domain.ReasoningResponse, answers ...bool) *fixture {
	f := &fixture{
		engine:    &stubEngine{resp: resp},
		exec:      &recordingExecutor{},
		prompter:  &scriptedPrompter{answers: answers},
		presenter: &recordingPresenter{},
		history:   &memoryHistory{},
	}
	clock := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	f.svc = &Service{
		Engine:    f.engine,
		Executor:  f.exec,
		Gate:      &gate.Policy{Classifier: stubClassifier{}, Prompter: f.prompter, Logger: zerolog.Nop()},
		Presenter: f.presenter,
		History:   f.history,
		Logger:    zerolog.Nop(),
		NewID:     func() string { return "run-1" },
		Now:       func() time.Time { return clock },
	}
	return f
}

func plan(specs ...domain.CommandSpec) domain.ReasoningResponse {
	return domain.ReasoningResponse{Intent: domain.IntentGeneral, Summary: "install nginx", Commands: specs}
}

func cmd(text string, risk domain.RiskLevel) domain.CommandSpec {
	return domain.CommandSpec{Text: text, Rationale: "because", Risk: risk}
}

func TestRunWithoutApplyOnlyPresentsPlan(t *testing.T) {
	f := newFixture(plan(cmd("apt install nginx", domain.RiskMedium)))

	out, err := f.svc.Run(context.Background(), Request{Query: "  install nginx "})
	require.NoError(t, err)

	assert.Equal(t, "run-1", out.ID)
	require.Len(t, f.engine.reqs, 1)
	assert.Equal(t, domain.IntentGeneral, f.engine.reqs[0].Intent)
	assert.Equal(t, "install nginx", f.engine.reqs[0].Prompt)
	assert.Equal(t, 1, f.presenter.plans)
	assert.Empty(t, f.exec.commands)
	assert.Empty(t, f.prompter.requests)
	assert.Empty(t, f.history.saved)
}

func TestRunApplyGatesEveryCommand(t *testing.T) {
	f := newFixture(plan(
		cmd("apt update", domain.RiskLow),
		cmd("", domain.RiskLow),
		cmd("mkfs.ext4 /dev/sdb1", domain.RiskLow),
		cmd("systemctl enable --now nginx", domain.RiskMedium),
	), true, false, false)

	out, err := f.svc.Run(context.Background(), Request{Query: "install nginx", Execute: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"apt update"}, f.exec.commands)
	assert.Equal(t, []string{"[1/4]"}, f.presenter.executed)
	assert.Equal(t, []string{"[2/4]", "[3/4]", "[4/4]"}, f.presenter.skipped)

	require.Len(t, f.prompter.requests, 3)
	assert.True(t, f.prompter.requests[0].DefaultYes)
	escalated := f.prompter.requests[1]
	assert.Equal(t, domain.RiskSuperHigh, escalated.Risk)
	assert.False(t, escalated.DefaultYes)
	assert.Equal(t, "mkfs formats a filesystem", escalated.Reason)

	require.Len(t, out.Decisions, 4)
	assert.Equal(t, domain.VerdictEmpty, out.Decisions[1].Verdict)

	require.Len(t, f.history.saved, 1)
	rec := f.history.saved[0]
	assert.Equal(t, domain.KindRun, rec.Kind)
	assert.Equal(t, "install nginx", rec.Subject)
	assert.Equal(t, domain.StateDone, rec.State)
	assert.Len(t, rec.Executions, 1)
}

func TestRunAutoConfirmStillAsksForSuperHigh(t *testing.T) {
	f := newFixture(plan(
		cmd("apt update", domain.RiskHigh),
		cmd("dd if=/dev/zero of=/dev/sda", domain.RiskSuperHigh),
	), false)

	_, err := f.svc.Run(context.Background(), Request{Query: "wipe", Execute: true, AutoConfirm: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"apt update"}, f.exec.commands)
	require.Len(t, f.prompter.requests, 1)
	assert.Equal(t, domain.RiskSuperHigh, f.prompter.requests[0].Risk)
}

func TestRunApplyWithoutCommands(t *testing.T) {
	f := newFixture(plan())

	_, err := f.svc.Run(context.Background(), Request{Query: "what is my ip", Execute: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"No commands to run."}, f.presenter.notices)
	assert.Empty(t, f.history.saved)
}

func TestRunPrompterFailureAborts(t *testing.T) {
	f := newFixture(plan(cmd("apt update", domain.RiskLow), cmd("apt upgrade", domain.RiskLow)))
	f.prompter.err = errors.New("stdin closed")

	_, err := f.svc.Run(context.Background(), Request{Query: "upgrade", Execute: true})
	require.Error(t, err)
	assert.Empty(t, f.exec.commands)
	require.Len(t, f.history.saved, 1)
	assert.Equal(t, domain.StateAborted, f.history.saved[0].State)
}

func TestRunErrors(t *testing.T) {
	f := newFixture(plan())
	_, err := f.svc.Run(context.Background(), Request{Query: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)

	f.engine.err = &domain.ContractViolationError{Reason: "missing required fields: notes"}
	_, err = f.svc.Run(context.Background(), Request{Query: "hello"})
	assert.ErrorIs(t, err, domain.ErrContractViolation)
	assert.Zero(t, f.presenter.plans)

	_, err = (&Service{}).Run(context.Background(), Request{Query: "hello"})
	assert.EqualError(t, err, "assist.Service dependencies not satisfied")
}

package diagnose

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

type stubResolver struct {
	res domain.ServiceResolution
	err error
}

func (s stubResolver) Resolve(context.Context, string) (domain.ServiceResolution, error) {
	return s.res, s.err
}

type recordingExecutor struct {
	commands []string
}

func (r *recordingExecutor) Execute(_ context.Context, command string) domain.ExecutionResult {
	r.commands = append(r.commands, command)
	return domain.ExecutionResult{Command: command, ExitCode: 0, Stdout: "out:" + command}
}

type scriptedEngine struct {
	responses []domain.ReasoningResponse
	err       error
	prompts   []string
}

func (e *scriptedEngine) Reason(_ context.Context, req domain.ReasoningRequest) (domain.ReasoningResponse, error) {
	e.prompts = append(e.prompts, req.Prompt)
	if e.err != nil {
		return domain.ReasoningResponse{}, e.err
	}
	i := len(e.prompts) - 1
	if i >= len(e.responses) {
		i = len(e.responses) - 1
	}
	return e.responses[i], nil
}

type stubClassifier struct{}

func (stubClassifier) Classify(command string) (string, bool) {
	if strings.Contains(command, "rm -rf") {
		return "rm -rf is destructive", true
	}
	return "", false
}

type recordingPrompter struct {
	answer   bool
	requests []domain.ConfirmationRequest
}

func (r *recordingPrompter) Confirm(req domain.ConfirmationRequest) (bool, error) {
	r.requests = append(r.requests, req)
	return r.answer, nil
}

type recordingPresenter struct {
	plans    int
	notices  []string
	skipped  []domain.GateDecision
	executed []domain.ExecutionResult
}

func (p *recordingPresenter) Plan(domain.ReasoningResponse) { p.plans++ }
func (p *recordingPresenter) Skipped(_ string, d domain.GateDecision) {
	p.skipped = append(p.skipped, d)
}
func (p *recordingPresenter) Executed(_ string, r domain.ExecutionResult) {
	p.executed = append(p.executed, r)
}
func (p *recordingPresenter) Notice(msg string) { p.notices = append(p.notices, msg) }

type memoryHistory struct {
	saved []domain.SessionRecord
	err   error
}

func (m *memoryHistory) Save(_ context.Context, rec domain.SessionRecord) error {
	m.saved = append(m.saved, rec)
	return m.err
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
	exec      *recordingExecutor
	engine    *scriptedEngine
	prompter  *recordingPrompter
	presenter *recordingPresenter
	history   *memoryHistory
}

func found(unit string) domain.ServiceResolution {
	return domain.ServiceResolution{Requested: strings.TrimSuffix(unit, ".service"), Resolved: unit, Changed: true, Found: true}
}

func newFixture(res domain.ServiceResolution, responses ...domain.ReasoningResponse) *fixture {
	f := &fixture{
		exec:      &recordingExecutor{},
		engine:    &scriptedEngine{responses: responses},
		prompter:  &recordingPrompter{answer: true},
		presenter: &recordingPresenter{},
		history:   &memoryHistory{},
	}
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.svc = &Service{
		Resolver:  stubResolver{res: res},
		Executor:  f.exec,
		Engine:    f.engine,
		Gate:      &gate.Policy{Classifier: stubClassifier{}, Prompter: f.prompter, Logger: zerolog.Nop()},
		Presenter: f.presenter,
		History:   f.history,
		Logger:    zerolog.Nop(),
		NewID:     func() string { return "session-1" },
		Now:       func() time.Time { return clock },
	}
	return f
}

func withCommands(cmds ...string) domain.ReasoningResponse {
	resp := domain.ReasoningResponse{Intent: domain.IntentGeneral, Summary: "need more data"}
	for _, c := range cmds {
		resp.Commands = append(resp.Commands, domain.CommandSpec{Text: c, Rationale: "probe", Risk: domain.RiskLow})
	}
	return resp
}

func finished() domain.ReasoningResponse {
	return domain.ReasoningResponse{Intent: domain.IntentGeneral, Summary: "port 80 is taken by apache2", Commands: []domain.CommandSpec{}}
}

func TestPlanOnlyRunsSingleReasoningRound(t *testing.T) {
	f := newFixture(found("nginx.service"), withCommands("ss -tlnp", "cat /etc/nginx/nginx.conf"))

	session, err := f.svc.Run(context.Background(), domain.DiagnosticRequest{Service: "nginx", Execute: false, MaxRounds: 3})
	require.NoError(t, err)

	assert.Equal(t, domain.StateDone, session.State)
	assert.Equal(t, 1, session.Count(domain.StateReasoning))
	assert.Zero(t, session.Count(domain.StateExecuting))
	assert.Len(t, f.engine.prompts, 1)
	assert.Equal(t, BaselineCommands("nginx.service"), f.exec.commands)
	assert.Empty(t, f.prompter.requests)
	assert.Empty(t, f.presenter.skipped)
}

func TestEmptyCommandListFinishesEarly(t *testing.T) {
	f := newFixture(found("nginx.service"), withCommands("ss -tlnp"), finished())

	session, err := f.svc.Run(context.Background(), domain.DiagnosticRequest{Service: "nginx", Execute: true, AutoConfirm: true, MaxRounds: 5})
	require.NoError(t, err)

	assert.Equal(t, domain.StateDone, session.State)
	assert.Equal(t, 1, session.Round)
	assert.Less(t, session.Round, 5)
	assert.Len(t, f.engine.prompts, 2)
	assert.NotContains(t, f.presenter.notices, ExhaustedMessage)
}

func TestAlwaysProposingEngineExhaustsAtMaximum(t *testing.T) {
	f := newFixture(found("nginx.service"), withCommands("ss -tlnp"))

	session, err := f.svc.Run(context.Background(), domain.DiagnosticRequest{Service: "nginx", Execute: true, AutoConfirm: true, MaxRounds: 3})
	require.NoError(t, err)

	assert.Equal(t, domain.StateExhausted, session.State)
	assert.Equal(t, 3, session.Round)
	assert.Len(t, f.engine.prompts, 3)
	assert.Equal(t, 3, session.Count(domain.StateExecuting))
	assert.Len(t, session.Results, 5+3)
	assert.Contains(t, f.presenter.notices, ExhaustedMessage)
}

func TestDefaultRoundBudget(t *testing.T) {
	f := newFixture(found("nginx.service"), withCommands("ss -tlnp"))

	session, err := f.svc.Run(context.Background(), domain.DiagnosticRequest{Service: "nginx", Execute: true, AutoConfirm: true})
	require.NoError(t, err)
	assert.Equal(t, domain.StateExhausted, session.State)
	assert.Equal(t, domain.DefaultMaxRounds, session.Round)
}

func TestAmbiguousResolutionAborts(t *testing.T) {
	res := domain.ServiceResolution{Requested: "web", Resolved: "web.service", Suggestions: []string{"webmin.service", "websockify.service"}}
	f := newFixture(res, finished())

	session, err := f.svc.Run(context.Background(), domain.DiagnosticRequest{Service: "web", Execute: true})
	require.Error(t, err)

	var ambiguous *domain.AmbiguousServiceError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, []string{"webmin.service", "websockify.service"}, ambiguous.Suggestions)
	assert.ErrorIs(t, err, domain.ErrResolutionAmbiguous)
	assert.Equal(t, domain.StateAborted, session.State)
	assert.Empty(t, f.exec.commands)
	assert.Empty(t, f.engine.prompts)
}

func TestMissingServiceWarnsAndProceeds(t *testing.T) {
	res := domain.ServiceResolution{Requested: "ghost", Resolved: "ghost.service"}
	f := newFixture(res, finished())

	session, err := f.svc.Run(context.Background(), domain.DiagnosticRequest{Service: "ghost", Execute: true})
	require.NoError(t, err)
	assert.Equal(t, domain.StateDone, session.State)
	require.NotEmpty(t, f.presenter.notices)
	assert.Contains(t, f.presenter.notices[0], "ghost.service")
	assert.Equal(t, BaselineCommands("ghost.service"), f.exec.commands)
}

func TestBlacklistedCommandForcesDefaultDecline(t *testing.T) {
	f := newFixture(found("nginx.service"), withCommands("rm -rf /var/lib/nginx", "ss -tlnp"), finished())
	f.prompter.answer = false

	session, err := f.svc.Run(context.Background(), domain.DiagnosticRequest{Service: "nginx", Execute: true, AutoConfirm: true, MaxRounds: 3})
	require.NoError(t, err)

	require.Len(t, f.prompter.requests, 1)
	req := f.prompter.requests[0]
	assert.Equal(t, "rm -rf /var/lib/nginx", req.Command)
	assert.Equal(t, domain.RiskSuperHigh, req.Risk)
	assert.False(t, req.DefaultYes)
	assert.Equal(t, "[round 1]", req.Label)
	assert.NotContains(t, f.exec.commands, "rm -rf /var/lib/nginx")
	assert.Contains(t, f.exec.commands, "ss -tlnp")
	require.Len(t, f.presenter.skipped, 1)
	assert.Equal(t, domain.VerdictDeclined, f.presenter.skipped[0].Verdict)
	assert.Equal(t, domain.StateDone, session.State)
}

func TestContractViolationAborts(t *testing.T) {
	f := newFixture(found("nginx.service"))
	f.engine.err = &domain.ContractViolationError{Reason: "missing required fields: notes"}

	session, err := f.svc.Run(context.Background(), domain.DiagnosticRequest{Service: "nginx", Execute: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrContractViolation)
	assert.Equal(t, domain.StateAborted, session.State)
	assert.Len(t, f.engine.prompts, 1)

	require.Len(t, f.history.saved, 1)
	assert.Equal(t, domain.StateAborted, f.history.saved[0].State)
}

func TestResultsStayInExecutionOrder(t *testing.T) {
	f := newFixture(found("nginx.service"), withCommands("first-probe", "second-probe"), withCommands("third-probe"), finished())

	session, err := f.svc.Run(context.Background(), domain.DiagnosticRequest{Service: "nginx", Execute: true, AutoConfirm: true, MaxRounds: 5})
	require.NoError(t, err)

	want := append(BaselineCommands("nginx.service"), "first-probe", "second-probe", "third-probe")
	var got []string
	for _, r := range session.Results {
		got = append(got, r.Command)
	}
	assert.Equal(t, want, got)

	require.Len(t, f.engine.prompts, 3)
	assert.Contains(t, f.engine.prompts[0], "BASELINE RESULTS:")
	last := f.engine.prompts[2]
	assert.Contains(t, last, "ALL RESULTS SO FAR:")
	prev := -1
	for _, cmd := range want {
		idx := strings.Index(last, "### CMD\n"+cmd+"\n")
		require.GreaterOrEqual(t, idx, 0, cmd)
		assert.Greater(t, idx, prev, cmd)
		prev = idx
	}
}

func TestSessionIsSavedToHistory(t *testing.T) {
	f := newFixture(found("nginx.service"), finished())
	f.history.err = errors.New("disk full")

	session, err := f.svc.Run(context.Background(), domain.DiagnosticRequest{Service: "nginx"})
	require.NoError(t, err)

	require.Len(t, f.history.saved, 1)
	rec := f.history.saved[0]
	assert.Equal(t, "session-1", rec.ID)
	assert.Equal(t, domain.KindDiagnose, rec.Kind)
	assert.Equal(t, "nginx.service", rec.Resolved)
	assert.Equal(t, domain.StateDone, rec.State)
	assert.Equal(t, "port 80 is taken by apache2", rec.Summary)
	assert.Len(t, rec.Executions, len(session.Results))
}

func TestMissingDependencies(t *testing.T) {
	_, err := (&Service{}).Run(context.Background(), domain.DiagnosticRequest{Service: "x"})
	require.Error(t, err)
}

func TestFormatResultsCapsStreams(t *testing.T) {
	results := []domain.ExecutionResult{
		{Command: "a", ExitCode: 0, Stdout: strings.Repeat("x", 50), Stderr: ""},
		{Command: "b", ExitCode: 3, Stdout: "", Stderr: "  boom  "},
	}
	out := FormatResults(results, 10)

	assert.Equal(t,
		"### CMD\na\n### EXIT\n0\n### STDOUT\nxxxxxxxxxx\n### STDERR\n\n"+
			"\n\n"+
			"### CMD\nb\n### EXIT\n3\n### STDOUT\n\n### STDERR\nboom\n",
		out)
}

package gate

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/alex-go/internal/domain"
)

type stubClassifier struct{}

func (stubClassifier) Classify(command string) (string, bool) {
	if strings.Contains(command, "rm -rf") {
		return "rm -rf is destructive", true
	}
	return "", false
}

type recordingPrompter struct {
	answer   bool
	err      error
	requests []domain.ConfirmationRequest
}

func (r *recordingPrompter) Confirm(req domain.ConfirmationRequest) (bool, error) {
	r.requests = append(r.requests, req)
	return r.answer, r.err
}

func newPolicy(p *recordingPrompter) *Policy {
	return &Policy{Classifier: stubClassifier{}, Prompter: p, Logger: zerolog.Nop()}
}

func spec(text string, risk domain.RiskLevel) domain.CommandSpec {
	return domain.CommandSpec{Text: text, Rationale: "test", Risk: risk}
}

func TestEmptyCommandSkipped(t *testing.T) {
	p := &recordingPrompter{answer: true}
	d, err := newPolicy(p).Evaluate("[1/1]", spec("  ", domain.RiskLow), Options{Execute: true})
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictEmpty, d.Verdict)
	assert.Empty(t, p.requests)
}

func TestPlanOnlyNeverPrompts(t *testing.T) {
	p := &recordingPrompter{answer: true}
	d, err := newPolicy(p).Evaluate("[1/1]", spec("rm -rf /tmp/x", domain.RiskLow), Options{Execute: false, AutoConfirm: true})
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictPlanOnly, d.Verdict)
	assert.Equal(t, domain.RiskSuperHigh, d.Spec.Risk)
	assert.True(t, d.Escalated())
	assert.Empty(t, p.requests)
}

func TestBlacklistEscalatesAndDefaultsToDecline(t *testing.T) {
	p := &recordingPrompter{answer: false}
	d, err := newPolicy(p).Evaluate("[round 1]", spec("rm -rf /var/lib/x", domain.RiskLow), Options{Execute: true, AutoConfirm: true})
	require.NoError(t, err)

	require.Len(t, p.requests, 1)
	req := p.requests[0]
	assert.False(t, req.DefaultYes)
	assert.Equal(t, domain.RiskSuperHigh, req.Risk)
	assert.Equal(t, "rm -rf is destructive", req.Reason)
	assert.Equal(t, "[round 1]", req.Label)
	assert.Equal(t, domain.VerdictDeclined, d.Verdict)
	assert.False(t, d.Approved())
}

func TestEngineSuperHighAlwaysPrompts(t *testing.T) {
	p := &recordingPrompter{answer: true}
	d, err := newPolicy(p).Evaluate("[1/1]", spec("iptables -F", domain.RiskSuperHigh), Options{Execute: true, AutoConfirm: true})
	require.NoError(t, err)
	require.Len(t, p.requests, 1)
	assert.False(t, p.requests[0].DefaultYes)
	assert.NotEmpty(t, p.requests[0].Reason)
	assert.False(t, d.Escalated())
	assert.True(t, d.Approved())
}

func TestAutoConfirmSkipsPromptBelowSuperHigh(t *testing.T) {
	p := &recordingPrompter{answer: false}
	d, err := newPolicy(p).Evaluate("[1/1]", spec("systemctl restart nginx", domain.RiskHigh), Options{Execute: true, AutoConfirm: true})
	require.NoError(t, err)
	assert.Empty(t, p.requests)
	assert.True(t, d.Approved())
}

func TestConfirmDefaultsToAccept(t *testing.T) {
	p := &recordingPrompter{answer: true}
	d, err := newPolicy(p).Evaluate("[1/1]", spec("ss -tlnp", domain.RiskLow), Options{Execute: true})
	require.NoError(t, err)
	require.Len(t, p.requests, 1)
	assert.True(t, p.requests[0].DefaultYes)
	assert.Equal(t, domain.VerdictRun, d.Verdict)
}

func TestNilPrompterUsesDefaults(t *testing.T) {
	policy := &Policy{Classifier: stubClassifier{}, Logger: zerolog.Nop()}

	d, err := policy.Evaluate("[1/2]", spec("ss -tlnp", domain.RiskMedium), Options{Execute: true})
	require.NoError(t, err)
	assert.True(t, d.Approved())

	d, err = policy.Evaluate("[2/2]", spec("rm -rf /", domain.RiskLow), Options{Execute: true})
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictDeclined, d.Verdict)
}

func TestPrompterErrorPropagates(t *testing.T) {
	p := &recordingPrompter{err: errors.New("tty closed")}
	_, err := newPolicy(p).Evaluate("[1/1]", spec("ss -tlnp", domain.RiskLow), Options{Execute: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty closed")
}

func TestMissingClassifier(t *testing.T) {
	_, err := (&Policy{}).Evaluate("[1/1]", spec("ls", domain.RiskLow), Options{})
	require.Error(t, err)
}

// Package gate decides, command by command, whether a proposed command may
// run: blacklist escalation first, then the confirmation policy.
package gate

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

// Options are the caller's per-session switches.
type Options struct {
	Execute     bool
	AutoConfirm bool
}

// Policy applies the confirmation rules. A nil Prompter answers every
// question with its default.
type Policy struct {
	Classifier ports.RiskClassifier
	Prompter   ports.ConfirmationPrompter
	Logger     zerolog.Logger
}

// Evaluate gates a single command. super_high commands always ask and default
// to declining, whatever AutoConfirm says.
func (p *Policy) Evaluate(label string, spec domain.CommandSpec, opts Options) (domain.GateDecision, error) {
	if p.Classifier == nil {
		return domain.GateDecision{}, errors.New("gate.Policy dependencies not satisfied")
	}
	decision := domain.GateDecision{Spec: spec}
	if spec.Empty() {
		decision.Verdict = domain.VerdictEmpty
		return decision, nil
	}

	if reason, hit := p.Classifier.Classify(spec.Text); hit {
		decision.Spec = spec.WithRisk(domain.RiskSuperHigh)
		decision.Reason = reason
	}

	if !opts.Execute {
		decision.Verdict = domain.VerdictPlanOnly
		p.log(label, decision)
		return decision, nil
	}

	req := domain.ConfirmationRequest{
		Label:   label,
		Command: decision.Spec.Text,
		Risk:    decision.Spec.Risk,
		Reason:  decision.Reason,
	}
	switch {
	case decision.Spec.Risk == domain.RiskSuperHigh:
		if req.Reason == "" {
			req.Reason = "marked super_high by the reasoning engine"
		}
		req.DefaultYes = false
	case opts.AutoConfirm:
		decision.Verdict = domain.VerdictRun
		p.log(label, decision)
		return decision, nil
	default:
		req.DefaultYes = true
	}

	ok, err := p.confirm(req)
	if err != nil {
		return decision, fmt.Errorf("confirm %q: %w", decision.Spec.Text, err)
	}
	if ok {
		decision.Verdict = domain.VerdictRun
	} else {
		decision.Verdict = domain.VerdictDeclined
	}
	p.log(label, decision)
	return decision, nil
}

func (p *Policy) confirm(req domain.ConfirmationRequest) (bool, error) {
	if p.Prompter == nil {
		return req.DefaultYes, nil
	}
	return p.Prompter.Confirm(req)
}

func (p *Policy) log(label string, d domain.GateDecision) {
	p.Logger.Debug().
		Str("label", label).
		Str("command", d.Spec.Text).
		Str("risk", string(d.Spec.Risk)).
		Bool("escalated", d.Escalated()).
		Str("verdict", string(d.Verdict)).
		Msg("gate decision")
}

package domain

// GateVerdict is what the confirmation gate decided for one command.
type GateVerdict string

const (
	VerdictRun      GateVerdict = "run"
	VerdictEmpty    GateVerdict = "empty"
	VerdictPlanOnly GateVerdict = "plan_only"
	VerdictDeclined GateVerdict = "declined"
)

// GateDecision records the effective risk and the verdict for a command.
type GateDecision struct {
	Spec    CommandSpec
	Reason  string
	Verdict GateVerdict
}

// Approved reports whether the command should be executed.
func (d GateDecision) Approved() bool {
	return d.Verdict == VerdictRun
}

// Escalated reports whether the blacklist overrode the proposed risk.
func (d GateDecision) Escalated() bool {
	return d.Reason != ""
}

// ConfirmationRequest is shown to the user before a command runs.
type ConfirmationRequest struct {
	Label      string
	Command    string
	Risk       RiskLevel
	Reason     string
	DefaultYes bool
}

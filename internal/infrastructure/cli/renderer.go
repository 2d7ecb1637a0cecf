package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

// statusPrefixes are commands whose stdout is the answer even on success.
var statusPrefixes = []string{
	"systemctl status ",
	"systemctl is-active ",
	"systemctl is-enabled ",
	"systemctl list-units",
	"systemctl list-unit-files",
	"journalctl ",
	"ss ",
	"ip ",
	"ufw status",
	"firewall-cmd ",
	"docker ps",
	"podman ps",
}

// Renderer prints plans and execution outcomes in a plain ASCII format.
type Renderer struct {
	out      io.Writer
	verbose  bool
	maxChars int
}

// NewRenderer builds a renderer. maxChars caps each displayed stream, keeping
// the tail.
func NewRenderer(out io.Writer, verbose bool, maxChars int) *Renderer {
	if maxChars <= 0 {
		maxChars = domain.DefaultMaxOutputChars
	}
	return &Renderer{out: out, verbose: verbose, maxChars: maxChars}
}

// Plan implements ports.Presenter.
func (r *Renderer) Plan(resp domain.ReasoningResponse) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Summary")
	fmt.Fprintf(r.out, "  %s\n", strings.TrimSpace(resp.Summary))

	fmt.Fprintln(r.out, "\nSteps")
	if len(resp.Steps) == 0 {
		fmt.Fprintln(r.out, "  No steps provided.")
	}
	for i, step := range resp.Steps {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, step)
	}

	fmt.Fprintln(r.out, "\nCommands")
	if len(resp.Commands) == 0 {
		fmt.Fprintln(r.out, "  None")
	}
	for _, c := range resp.Commands {
		fmt.Fprintf(r.out, "  [%s] %s\n", c.Risk, c.Text)
		if c.Rationale != "" {
			fmt.Fprintf(r.out, "      %s\n", c.Rationale)
		}
	}

	r.bullets("Checks", resp.Checks)
	r.bullets("Notes", resp.Notes)
}

func (r *Renderer) bullets(title string, items []string) {
	fmt.Fprintf(r.out, "\n%s\n", title)
	if len(items) == 0 {
		fmt.Fprintln(r.out, "  - None")
		return
	}
	for _, item := range items {
		fmt.Fprintf(r.out, "  - %s\n", item)
	}
}

// Skipped implements ports.Presenter.
func (r *Renderer) Skipped(label string, d domain.GateDecision) {
	if d.Verdict == domain.VerdictEmpty {
		fmt.Fprintf(r.out, "\n%s Skipped\nEmpty command.\n", label)
		return
	}
	fmt.Fprintf(r.out, "\n%s Skipped\n%s\n", label, d.Spec.Text)
	if d.Escalated() {
		fmt.Fprintf(r.out, "Blacklist: %s\n", d.Reason)
	}
}

// Executed implements ports.Presenter.
func (r *Renderer) Executed(label string, res domain.ExecutionResult) {
	status := "SUCCESS"
	if !res.Succeeded() {
		status = "FAILED"
	}
	fmt.Fprintf(r.out, "\n%s %s\n%s\nExit code: %d\n", label, status, res.Command, res.ExitCode)

	stdout := strings.TrimSpace(res.Stdout)
	stderr := strings.TrimSpace(res.Stderr)
	showOut, showErr := DisplayStreams(res.Command, res.Succeeded(), r.verbose, stdout, stderr)
	if showOut && stdout != "" {
		fmt.Fprintf(r.out, "\nSTDOUT\n%s\n", Tail(stdout, r.maxChars))
	}
	if showErr && stderr != "" {
		fmt.Fprintf(r.out, "\nSTDERR\n%s\n", Tail(stderr, r.maxChars))
	}
}

// Notice implements ports.Presenter.
func (r *Renderer) Notice(msg string) {
	fmt.Fprintf(r.out, "\n%s\n", msg)
}

// DisplayStreams decides which streams of a finished command are shown.
// Failures and verbose mode show both. Status-like commands always show
// stdout; version queries also show stderr, where some tools print it.
func DisplayStreams(command string, ok, verbose bool, stdout, stderr string) (showOut, showErr bool) {
	cmd := strings.ToLower(strings.TrimSpace(command))

	statusLike := false
	for _, p := range statusPrefixes {
		if strings.HasPrefix(cmd, p) {
			statusLike = true
			break
		}
	}
	versionQuery := strings.Contains(cmd, "--version") ||
		strings.HasSuffix(cmd, " -v") ||
		strings.HasSuffix(cmd, " -version") ||
		strings.Contains(cmd, " version")

	showOut = !ok || verbose || statusLike || versionQuery || (ok && stdout != "")
	showErr = !ok || verbose || versionQuery || stderr != ""
	return showOut, showErr
}

// Tail keeps the last limit runes of s.
func Tail(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	return string(r[len(r)-limit:])
}

var _ ports.Presenter = (*Renderer)(nil)

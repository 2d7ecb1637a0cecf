package diagnose

import (
	"fmt"
	"strings"

	"github.com/doeshing/alex-go/internal/domain"
)

const briefing = "You are diagnosing a systemd service on Debian.\n" +
	"Goal: Determine if the service exists and whether it is healthy.\n" +
	"If failing: determine the most likely root cause (config error, missing file, permissions, port in use, etc.)\n" +
	"When you need more evidence, propose additional SAFE diagnostic commands.\n" +
	"Prefer read-only commands.\n" +
	"If you suspect a port conflict, ask to run ss/lsof and identify the owning process.\n" +
	"If you suspect a bad config, ask to show the relevant config file location and show the exact problematic lines.\n" +
	"Return JSON matching schema (intent=general is ok).\n"

// ExhaustedMessage is shown when the round budget runs out.
const ExhaustedMessage = "Reached max diagnostic rounds. If you want, run again with more rounds."

// BaselineCommands returns the read-only probes run before the first
// reasoning round.
func BaselineCommands(unit string) []string {
	return []string{
		fmt.Sprintf("systemctl status %s --no-pager --full", unit),
		fmt.Sprintf("systemctl is-enabled %s", unit),
		fmt.Sprintf("systemctl is-active %s", unit),
		fmt.Sprintf("systemctl show %s -p Id -p Names -p LoadState -p ActiveState -p SubState -p Result -p ExecMainStatus -p ExecMainCode -p FragmentPath -p DropInPaths -p MainPID", unit),
		fmt.Sprintf("journalctl -u %s -b --no-pager -n 200", unit),
	}
}

// BuildPrompt renders the request for the next reasoning round. The first
// round presents the baseline; later rounds present the whole history.
func BuildPrompt(unit string, results []domain.ExecutionResult, first bool, limit int) string {
	var b strings.Builder
	b.WriteString(briefing)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "SERVICE: %s\n\n", unit)
	if first {
		fmt.Fprintf(&b, "BASELINE RESULTS:\n%s\n\n", FormatResults(results, limit))
		b.WriteString("Request: Diagnose this service. If you need more info, return commands[] to run.\n")
		b.WriteString("Important: commands should be SAFE diagnostics (no edits). If you recommend changes, put them in notes.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "ALL RESULTS SO FAR:\n%s\n\n", FormatResults(results, limit))
	b.WriteString("Continue diagnosis. If done, return commands=[] and put final answer in summary/notes.\n")
	return b.String()
}

// FormatResults renders results in execution order, each stream cut to limit
// characters.
func FormatResults(results []domain.ExecutionResult, limit int) string {
	chunks := make([]string, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, fmt.Sprintf("### CMD\n%s\n### EXIT\n%d\n### STDOUT\n%s\n### STDERR\n%s\n",
			r.Command,
			r.ExitCode,
			head(strings.TrimSpace(r.Stdout), limit),
			head(strings.TrimSpace(r.Stderr), limit),
		))
	}
	return strings.Join(chunks, "\n\n")
}

func head(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

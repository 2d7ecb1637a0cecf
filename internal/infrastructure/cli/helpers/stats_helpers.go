package helpers

import (
	"sort"
	"strings"

	"github.com/doeshing/alex-go/internal/domain"
)

// CommandStatistic represents how often a key (command, service) shows up
type CommandStatistic struct {
	Command string
	Count   int
}

// CalculateTopCommands returns the top N most frequent keys
// If limit is 0 or negative, returns all of them
func CalculateTopCommands(commandFrequency map[string]int, limit int) []CommandStatistic {
	stats := convertFrequencyMapToStatistics(commandFrequency)
	sortStatisticsByFrequency(stats)

	if shouldLimitResults(limit, len(stats)) {
		return stats[:limit]
	}
	return stats
}

// convertFrequencyMapToStatistics converts a map to a slice of CommandStatistic
func convertFrequencyMapToStatistics(frequency map[string]int) []CommandStatistic {
	stats := make([]CommandStatistic, 0, len(frequency))
	for cmd, count := range frequency {
		stats = append(stats, CommandStatistic{
			Command: cmd,
			Count:   count,
		})
	}
	return stats
}

// sortStatisticsByFrequency sorts statistics by count (descending) then by key (ascending)
func sortStatisticsByFrequency(stats []CommandStatistic) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Command < stats[j].Command
		}
		return stats[i].Count > stats[j].Count
	})
}

func shouldLimitResults(limit int, actualLength int) bool {
	return limit > 0 && actualLength > limit
}

// CalculateSuccessRate calculates the success rate as a percentage
func CalculateSuccessRate(successfulCount int, executedCount int) float64 {
	if executedCount == 0 {
		return 0.0
	}
	return float64(successfulCount) / float64(executedCount) * 100.0
}

// SessionStatistics aggregates a batch of history records.
type SessionStatistics struct {
	Sessions   int
	Executions int
	Successful int
	States     map[domain.DiagnosticState]int
	Subjects   map[string]int
	Commands   map[string]int
}

// AnalyzeSessions counts states, subjects and executed commands.
func AnalyzeSessions(records []domain.SessionRecord) SessionStatistics {
	stats := SessionStatistics{
		Sessions: len(records),
		States:   make(map[domain.DiagnosticState]int),
		Subjects: make(map[string]int),
		Commands: make(map[string]int),
	}
	for _, rec := range records {
		stats.States[rec.State]++
		if rec.Kind == domain.KindDiagnose {
			subject := rec.Resolved
			if subject == "" {
				subject = rec.Subject
			}
			stats.Subjects[subject]++
		}
		for _, exec := range rec.Executions {
			stats.Executions++
			if exec.Succeeded() {
				stats.Successful++
			}
			stats.Commands[exec.Command]++
		}
	}
	return stats
}

// DeriveUndoHints generates recovery hints for commands that changed the host
// Returns a sorted list of unique hints
func DeriveUndoHints(records []domain.SessionRecord) []string {
	hintMap := make(map[string]string)

	for _, record := range records {
		for _, exec := range record.Executions {
			addHintIfApplicable(hintMap, strings.ToLower(strings.TrimSpace(exec.Command)))
		}
	}

	return convertHintMapToSortedList(hintMap)
}

var undoHints = []struct {
	key    string
	prefix string
	hint   string
}{
	{"systemctl", "systemctl ", "Use `systemctl status <unit>` and `journalctl -u <unit> -e` before repeating a start/stop/restart."},
	{"rm", "rm ", "Restore removed files from backups or `git checkout -- <path>` if tracked."},
	{"chmod", "chmod ", "Check ownership and modes with `ls -l` or `stat` after chmod/chown."},
	{"chown", "chown ", "Check ownership and modes with `ls -l` or `stat` after chmod/chown."},
	{"apt", "apt ", "Review package changes in /var/log/apt/history.log."},
	{"dnf", "dnf ", "Use `dnf history` and `dnf history undo <id>` to roll back package changes."},
	{"git", "git ", "Use `git status`, `git reflog`, or `git restore` to inspect and undo git changes."},
}

// addHintIfApplicable adds a hint to the map if the command matches known patterns
func addHintIfApplicable(hintMap map[string]string, command string) {
	command = strings.TrimPrefix(command, "sudo ")
	for _, h := range undoHints {
		if strings.HasPrefix(command, h.prefix) {
			hintMap[h.hint] = h.hint
		}
	}
}

// convertHintMapToSortedList converts a hint map to a sorted slice
func convertHintMapToSortedList(hintMap map[string]string) []string {
	hints := make([]string, 0, len(hintMap))
	for _, hint := range hintMap {
		hints = append(hints, hint)
	}
	sort.Strings(hints)
	return hints
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/infrastructure/cli/helpers"
	"github.com/doeshing/alex-go/internal/ports"
)

// historyExporter is implemented by both history backends.
type historyExporter interface {
	ExportJSON(ctx context.Context, dest string) error
}

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(rt *Runtime) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past diagnostic sessions and runs",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(rt),
		newHistoryShowCommand(rt),
		newHistoryClearCommand(rt),
		newHistoryExportCommand(rt),
		newHistoryStatsCommand(rt),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(rt *Runtime) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.Context(), cmd.OutOrStdout(), rt, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", domain.DefaultHistoryLimit, "Max entries to show")
	return cmd
}

// newHistoryShowCommand creates the 'history show' subcommand
func newHistoryShowCommand(rt *Runtime) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one session (id or unique prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryEntry(cmd.Context(), cmd.OutOrStdout(), rt, args[0], verbose)
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show both output streams of every command")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(rt *Runtime) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !yes && !helpers.PromptForConfirmation(out, helpers.NewReader(rt.Stdin), "Delete all recorded sessions?") {
				fmt.Fprintln(out, "Clear cancelled.")
				return nil
			}
			return clearHistory(cmd.Context(), out, rt)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportHistory(cmd.Context(), cmd.OutOrStdout(), rt, args[0])
		},
	}
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show outcome counts, top services and command success rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.Context(), cmd.OutOrStdout(), rt)
		},
	}
}

func historyStore(rt *Runtime) (ports.HistoryRepository, error) {
	if rt.Container.HistoryStore == nil {
		return nil, errors.New(ErrHistoryStoreUnavailable)
	}
	return rt.Container.HistoryStore, nil
}

// listHistoryEntries lists recent sessions, newest first
func listHistoryEntries(ctx context.Context, out io.Writer, rt *Runtime, limit int) error {
	store, err := historyStore(rt)
	if err != nil {
		return err
	}

	records, err := store.Records(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s | %s | %-7s | %-9s | %d round(s) | %s\n",
			shortID(rec.ID),
			rec.StartedAt.Local().Format(domain.TimestampFormat),
			rec.Kind,
			rec.State,
			rec.Rounds,
			subjectOf(rec))
	}

	return nil
}

// showHistoryEntry prints one session with its executions
func showHistoryEntry(ctx context.Context, out io.Writer, rt *Runtime, id string, verbose bool) error {
	store, err := historyStore(rt)
	if err != nil {
		return err
	}

	rec, err := store.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Session:  %s\n", rec.ID)
	fmt.Fprintf(out, "Kind:     %s\n", rec.Kind)
	fmt.Fprintf(out, "Subject:  %s\n", subjectOf(rec))
	fmt.Fprintf(out, "State:    %s after %d round(s)\n", rec.State, rec.Rounds)
	fmt.Fprintf(out, "Started:  %s\n", rec.StartedAt.Local().Format(domain.TimestampFormat))
	if !rec.FinishedAt.IsZero() {
		fmt.Fprintf(out, "Duration: %s\n", rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond))
	}
	if rec.Summary != "" {
		fmt.Fprintf(out, "Summary:  %s\n", rec.Summary)
	}

	presenter := rt.NewPresenter(out, verbose, rt.Container.Config.GetMaxOutputChars())
	for i, exec := range rec.Executions {
		presenter.Executed(fmt.Sprintf("[%d/%d]", i+1, len(rec.Executions)), exec)
	}
	return nil
}

// clearHistory deletes every recorded session
func clearHistory(ctx context.Context, out io.Writer, rt *Runtime) error {
	store, err := historyStore(rt)
	if err != nil {
		return err
	}

	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Fprintln(out, "History cleared.")
	return nil
}

// exportHistory exports history to a JSONL file
func exportHistory(ctx context.Context, out io.Writer, rt *Runtime, path string) error {
	store, err := historyStore(rt)
	if err != nil {
		return err
	}

	exporter, ok := store.(historyExporter)
	if !ok {
		return fmt.Errorf("history backend cannot export")
	}
	if err := exporter.ExportJSON(ctx, path); err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}

	fmt.Fprintf(out, "Exported history to %s\n", path)
	return nil
}

// showHistoryStats displays outcome counts, top services and success rate
func showHistoryStats(ctx context.Context, out io.Writer, rt *Runtime) error {
	store, err := historyStore(rt)
	if err != nil {
		return err
	}

	records, err := store.Records(ctx, MaxHistoryAnalysisRecords)
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	displayHistoryStatistics(out, helpers.AnalyzeSessions(records), records)
	return nil
}

// displayHistoryStatistics displays formatted history statistics
func displayHistoryStatistics(out io.Writer, stats helpers.SessionStatistics, records []domain.SessionRecord) {
	fmt.Fprintf(out, "Sessions analyzed: %d\nCommands executed: %d\nSuccess rate: %.1f%%\n",
		stats.Sessions,
		stats.Executions,
		helpers.CalculateSuccessRate(stats.Successful, stats.Executions))

	fmt.Fprintln(out, "Outcomes:")
	for _, state := range []domain.DiagnosticState{domain.StateDone, domain.StateExhausted, domain.StateAborted} {
		if n := stats.States[state]; n > 0 {
			fmt.Fprintf(out, "  %s: %d\n", state, n)
		}
	}

	if len(stats.Subjects) > 0 {
		fmt.Fprintln(out, "Top services:")
		for _, stat := range helpers.CalculateTopCommands(stats.Subjects, 5) {
			fmt.Fprintf(out, "  %s (%d)\n", stat.Command, stat.Count)
		}
	}

	if len(stats.Commands) > 0 {
		fmt.Fprintln(out, "Top commands:")
		for _, stat := range helpers.CalculateTopCommands(stats.Commands, 5) {
			fmt.Fprintf(out, "  %s (%d)\n", stat.Command, stat.Count)
		}
	}

	hints := helpers.DeriveUndoHints(records)
	if len(hints) > 0 {
		fmt.Fprintln(out, "Undo hints:")
		for _, hint := range hints {
			fmt.Fprintf(out, "  - %s\n", hint)
		}
	}
}

func subjectOf(rec domain.SessionRecord) string {
	subject := strings.TrimSpace(rec.Subject)
	if rec.Resolved != "" && rec.Resolved != subject {
		subject = fmt.Sprintf("%s (%s)", rec.Resolved, subject)
	}
	return subject
}

package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/doeshing/alex-go/internal/application/analyze"
	"github.com/doeshing/alex-go/internal/domain"
)

const errorUsageHint = `No error text found.

Try:
  alex error
  alex error -n 3 --show
  alex error --show --grep ssh --since 2026-01-03
  alex error --clear`

// NewErrorCommand creates the error analysis command
func NewErrorCommand(rt *Runtime) *cobra.Command {
	var (
		original string
		last     int
		show     bool
		grep     string
		since    string
		clear    bool
	)

	cmd := &cobra.Command{
		Use:   "error [text...]",
		Short: "Explain an error (stdin, arguments or the error log)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			svc := rt.Container.AnalyzeService
			filter := domain.ErrorFilter{Since: since, Grep: grep, Last: last}

			if clear {
				if err := svc.Clear(); err != nil {
					return fmt.Errorf("failed to clear error log: %w", err)
				}
				fmt.Fprintln(out, MsgErrorLogCleared)
				return nil
			}

			if show {
				blocks, err := svc.Show(filter)
				if errors.Is(err, analyze.ErrNoErrorText) {
					return errors.New(MsgNoErrorLog)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(out, strings.Join(blocks, "\n\n"))
				return nil
			}

			req := analyze.Request{
				Text:    strings.Join(args, " "),
				Command: original,
				Filter:  filter,
			}
			stdin, err := readPiped(rt)
			if err != nil {
				return err
			}
			req.Stdin = stdin

			if _, _, err := svc.ErrorText(req); errors.Is(err, analyze.ErrNoErrorText) {
				fmt.Fprintln(out, errorUsageHint)
				return err
			} else if err != nil {
				return err
			}

			if err := rt.requireCredentials(); err != nil {
				return err
			}
			resp, err := svc.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			rt.NewPresenter(out, false, rt.Container.Config.GetMaxOutputChars()).Plan(resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&original, "cmd", "", "Original command you ran")
	cmd.Flags().IntVarP(&last, "last", "n", 1, "How many last errors to include")
	cmd.Flags().BoolVar(&show, "show", false, "Only show the selected error block(s) without analysis")
	cmd.Flags().StringVar(&grep, "grep", "", "Filter errors containing this text (case-insensitive)")
	cmd.Flags().StringVar(&since, "since", "", "Only errors since date/time (YYYY-MM-DD or YYYY-MM-DD HH:MM[:SS])")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the error log and exit")
	return cmd
}

// readPiped returns stdin when it is not a terminal.
func readPiped(rt *Runtime) (string, error) {
	if rt.Stdin == nil || term.IsTerminal(int(rt.Stdin.Fd())) {
		return "", nil
	}
	data, err := io.ReadAll(rt.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

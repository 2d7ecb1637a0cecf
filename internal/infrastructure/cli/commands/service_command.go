package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/alex-go/internal/domain"
)

// NewServiceCommand creates the service diagnosis command
func NewServiceCommand(rt *Runtime) *cobra.Command {
	var (
		apply  bool
		yes    bool
		rounds int
	)

	cmd := &cobra.Command{
		Use:   "service <name>",
		Short: "Diagnose a systemd service (exists? running? why failing?)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireCredentials(); err != nil {
				return err
			}
			cfg := rt.Container.Config
			out := cmd.OutOrStdout()
			rt.attach(out, cfg.Verbose)

			if rounds <= 0 {
				rounds = cfg.GetMaxRounds()
			}
			session, err := rt.Container.DiagnoseService.Run(cmd.Context(), domain.DiagnosticRequest{
				Service:     args[0],
				Execute:     apply,
				AutoConfirm: cfg.EffectiveAutoConfirm(yes),
				MaxRounds:   rounds,
			})
			var ambiguous *domain.AmbiguousServiceError
			if errors.As(err, &ambiguous) {
				printSuggestions(out, ambiguous)
				return fmt.Errorf("no confident match for %q", ambiguous.Requested)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nSession %s finished: %s after %d round(s).\n", shortID(session.ID), session.State, session.Round)
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Run the proposed diagnostic commands")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Auto-confirm diagnostics (super_high still asks)")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "Maximum diagnostic rounds (default from config)")
	return cmd
}

func printSuggestions(out io.Writer, e *domain.AmbiguousServiceError) {
	fmt.Fprintf(out, "Service %q not found. Did you mean:\n", e.Requested)
	for _, s := range e.Suggestions {
		fmt.Fprintf(out, "  - %s\n", s)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

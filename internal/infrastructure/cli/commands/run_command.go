package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/alex-go/internal/application/assist"
)

// NewRunCommand creates the run command
func NewRunCommand(rt *Runtime) *cobra.Command {
	var (
		apply   bool
		yes     bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "run <query...>",
		Short: "Ask for commands that accomplish a task",
		Long: "Ask the reasoning engine how to accomplish a task. With --apply every\n" +
			"proposed command is confirmed and executed in order.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireCredentials(); err != nil {
				return err
			}
			cfg := rt.Container.Config
			rt.attach(cmd.OutOrStdout(), verbose || cfg.Verbose)

			_, err := rt.Container.AssistService.Run(cmd.Context(), assist.Request{
				Query:       strings.Join(args, " "),
				Execute:     apply,
				AutoConfirm: cfg.EffectiveAutoConfirm(yes),
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Execute suggested commands")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Auto-confirm low/medium/high (still asks for super_high and blacklist hits)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show full stdout/stderr even on success")
	return cmd
}

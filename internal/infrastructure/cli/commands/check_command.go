package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewCheckCommand creates the blacklist inspection command
func NewCheckCommand(rt *Runtime) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "check <command...>",
		Short: "Show whether a command hits the destructive-operation blacklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			bl := rt.Container.Blacklist
			if list {
				for i, r := range bl.Rules() {
					fmt.Fprintf(out, "%2d. %s\n    %s\n", i+1, r.Pattern, r.Reason)
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("a command to check is required (or use --list)")
			}
			command := strings.Join(args, " ")
			if reason, hit := bl.Classify(command); hit {
				fmt.Fprintf(out, "BLACKLISTED (super_high): %s\n", reason)
				return nil
			}
			fmt.Fprintln(out, "no blacklist match")
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "List the active rules in evaluation order")
	// Everything after the command's first word belongs to it, e.g. `rm -rf`.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

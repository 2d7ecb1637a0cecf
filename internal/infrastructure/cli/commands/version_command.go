package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/alex-go/internal/version"
)

// NewVersionCommand prints the build metadata. It needs no configuration.
func NewVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show alex version, commit, build date and Go runtime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printVersion(cmd.OutOrStdout(), version.Get(), short)
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version")
	return cmd
}

func printVersion(out io.Writer, info version.Info, short bool) {
	if short {
		fmt.Fprintln(out, info.Version)
		return
	}
	fmt.Fprintln(out, info.String())
}

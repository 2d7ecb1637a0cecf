package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/alex-go/internal/app"
	"github.com/doeshing/alex-go/internal/infrastructure/cli/commands"
	"github.com/doeshing/alex-go/internal/ports"
)

// Options holds CLI-level configuration.
type Options struct {
	Debug bool
}

// NewRootCmd wires the cobra root command. The container is built lazily in
// PersistentPreRunE so --config and --debug are honored; the returned func
// releases it.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, func() error) {
	var configPath string

	rt := &commands.Runtime{
		Stdin: os.Stdin,
		NewPresenter: func(out io.Writer, verbose bool, maxChars int) ports.Presenter {
			return NewRenderer(out, verbose, maxChars)
		},
		NewPrompter: func(in io.Reader, out io.Writer) ports.ConfirmationPrompter {
			return NewPrompter(in, out)
		},
	}

	root := &cobra.Command{
		Use:   "alex",
		Short: "alex - Linux admin assistant",
		Long: "alex asks a reasoning engine for shell commands, diagnoses systemd services\n" +
			"round by round, and explains errors captured by its shell hook. Every command\n" +
			"passes a blacklist and a confirmation gate before it runs.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if rt.Container != nil || skipContainer(cmd) {
				return nil
			}
			container, err := app.BuildContainer(ctx, app.Options{
				Debug:      opts.Debug,
				ConfigPath: configPath,
				DecorateEngine: func(e ports.ReasoningEngine) ports.ReasoningEngine {
					return WithSpinner(e, os.Stderr)
				},
			})
			if err != nil {
				return err
			}
			rt.Container = container
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&opts.Debug, "debug", opts.Debug, "Enable debug logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/alex/config.yaml)")

	root.AddCommand(
		commands.NewRunCommand(rt),
		commands.NewServiceCommand(rt),
		commands.NewErrorCommand(rt),
		commands.NewCheckCommand(rt),
		commands.NewDoctorCommand(rt),
		commands.NewAuthCommand(rt),
		commands.NewConfigCommand(rt),
		commands.NewHistoryCommand(rt),
		commands.NewHookCommand(rt),
		commands.NewVersionCommand(),
	)

	closer := func() error {
		if rt.Container == nil {
			return nil
		}
		return rt.Container.Close()
	}
	return root, closer
}

func skipContainer(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return true
	}
	return cmd.Parent() != nil && cmd.Parent().Name() == "completion"
}

package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/infrastructure/cli/helpers"
	"github.com/doeshing/alex-go/internal/ports"
)

// NewHookCommand manages the shell hook that feeds the error log.
func NewHookCommand(rt *Runtime) *cobra.Command {
	hookCmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage the shell hook that records failed commands for `alex error`",
	}

	hookCmd.AddCommand(
		newHookInstallCommand(rt),
		newHookUninstallCommand(rt),
		newHookStatusCommand(rt),
	)
	return hookCmd
}

func newHookInstallCommand(rt *Runtime) *cobra.Command {
	var shellFlag string
	var force bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the hook into ~/.bashrc or ~/.zshrc",
		RunE: func(cmd *cobra.Command, args []string) error {
			integrator := rt.Container.Shell
			targets, err := integrator.Targets(shellFlag)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var warnings []string
			for _, target := range targets {
				res, err := integrator.Install(string(target.Shell), force)
				if err != nil {
					warnings = append(warnings, fmt.Sprintf("%s (%s): %v", target.Shell, target.RCFile, err))
					continue
				}
				printInstallResult(out, "Installed", res)
			}
			helpers.PrintWarnings(cmd.ErrOrStderr(), warnings)
			if len(warnings) == len(targets) {
				return fmt.Errorf("hook install failed")
			}
			fmt.Fprintf(out, "Failed commands will be logged to %s. Open a new shell to activate.\n", rt.Container.ErrorLog.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&shellFlag, "shell", domain.HookSelectAuto, "Shell to target (auto|all|bash|zsh)")
	cmd.Flags().BoolVar(&force, "force", false, "Rewrite the rc file line even if present")
	return cmd
}

func newHookUninstallCommand(rt *Runtime) *cobra.Command {
	var shellFlag string

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the hook script and its rc file line",
		RunE: func(cmd *cobra.Command, args []string) error {
			integrator := rt.Container.Shell
			targets, err := integrator.Targets(shellFlag)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var warnings []string
			for _, target := range targets {
				res, err := integrator.Uninstall(string(target.Shell))
				if err != nil {
					warnings = append(warnings, fmt.Sprintf("%s (%s): %v", target.Shell, target.RCFile, err))
					continue
				}
				printInstallResult(out, "Removed", res)
			}
			helpers.PrintWarnings(cmd.ErrOrStderr(), warnings)
			return nil
		},
	}

	cmd.Flags().StringVar(&shellFlag, "shell", domain.HookSelectAll, "Shell to target (auto|all|bash|zsh)")
	return cmd
}

func newHookStatusCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the hook is installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			printHookStatus(cmd.OutOrStdout(), rt.Container.Shell, rt.Container.ErrorLog.Path())
			return nil
		},
	}
}

func printInstallResult(out io.Writer, verb string, res domain.ShellInstallResult) {
	fmt.Fprintf(out, "%s %s hook: script %s (changed: %t), rc %s (changed: %t)\n",
		verb, res.Shell, res.ScriptPath, res.ScriptUpdated, res.RCFile, res.RCUpdated)
}

func printHookStatus(out io.Writer, integrator ports.ShellIntegrator, errorLog string) {
	for _, shell := range domain.SupportedShells() {
		st := integrator.Status(string(shell))
		state := "not installed"
		switch {
		case st.Error != "":
			state = "error: " + st.Error
		case st.Installed():
			state = "installed"
		case st.ScriptExists || st.LinePresent:
			state = fmt.Sprintf("partial (script: %t, rc line: %t)", st.ScriptExists, st.LinePresent)
		}
		fmt.Fprintf(out, "%-5s %s (%s)\n", shell, state, st.RCFile)
	}
	fmt.Fprintf(out, "error log: %s\n", errorLog)
}

package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/doeshing/alex-go/internal/infrastructure/credentials"
)

// NewAuthCommand creates the auth command with status/logout subcommands
func NewAuthCommand(rt *Runtime) *cobra.Command {
	var key string

	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Store the API key in the alex key file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if key == "" {
				var err error
				if key, err = readKey(rt, out); err != nil {
					return err
				}
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return errors.New(ErrKeyRequired)
			}
			store := rt.Container.Credentials
			if err := store.Save(key); err != nil {
				return fmt.Errorf("failed to save key: %w", err)
			}
			fmt.Fprintf(out, "Saved %s to %s (mode 0600).\n", credentials.Mask(key), store.Path())
			return nil
		},
	}
	authCmd.Flags().StringVar(&key, "key", "", "API key (prompted with hidden input when omitted)")

	authCmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show where the API key comes from",
			RunE: func(cmd *cobra.Command, args []string) error {
				store := rt.Container.Credentials
				st := store.Status()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "State: %s\n", st.State)
				fmt.Fprintf(out, "%s (env): %t\n", store.EnvVar(), st.HasEnv)
				fmt.Fprintf(out, "Key file: %s (present=%t)\n", st.FilePath, st.HasFile)
				if st.Masked != "" {
					fmt.Fprintf(out, "Key: %s\n", st.Masked)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Delete the stored key file",
			RunE: func(cmd *cobra.Command, args []string) error {
				store := rt.Container.Credentials
				removed, err := store.Delete()
				if err != nil {
					return fmt.Errorf("failed to delete key file: %w", err)
				}
				if removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", store.Path())
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "No key file to remove.")
				}
				return nil
			},
		},
	)
	return authCmd
}

// readKey prompts with hidden input on a terminal and reads a line otherwise.
func readKey(rt *Runtime, out io.Writer) (string, error) {
	if rt.Stdin != nil && term.IsTerminal(int(rt.Stdin.Fd())) {
		fmt.Fprint(out, "API key: ")
		raw, err := term.ReadPassword(int(rt.Stdin.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read key: %w", err)
		}
		return string(raw), nil
	}
	if rt.Stdin == nil {
		return "", nil
	}
	line, err := bufio.NewReader(rt.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read key: %w", err)
	}
	return line, nil
}

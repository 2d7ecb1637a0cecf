package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/doeshing/alex-go/internal/app"
	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

// Runtime carries what commands need. The root command fills Container in
// its PersistentPreRunE, after flags are parsed.
type Runtime struct {
	Container *app.Container
	Stdin     *os.File

	// NewPresenter builds the output sink for a command.
	NewPresenter func(out io.Writer, verbose bool, maxChars int) ports.Presenter
	// NewPrompter builds the confirmation prompter for a command.
	NewPrompter func(in io.Reader, out io.Writer) ports.ConfirmationPrompter
}

// attach points the container's services at the command's streams.
func (rt *Runtime) attach(out io.Writer, verbose bool) {
	c := rt.Container
	c.SetPresenter(rt.NewPresenter(out, verbose, c.Config.GetMaxOutputChars()))
	c.SetPrompter(rt.NewPrompter(rt.Stdin, out))
}

// requireCredentials fails before any reasoning call when no key exists.
// Keyless chat endpoints (local servers) are let through.
func (rt *Runtime) requireCredentials() error {
	c := rt.Container
	if c.Config.GetProviderAPI() == domain.ProviderAPIChat {
		return nil
	}
	if !c.Credentials.Status().Ready() {
		return fmt.Errorf("%w: set %s or run `alex auth`", domain.ErrMissingCredential, c.Credentials.EnvVar())
	}
	return nil
}

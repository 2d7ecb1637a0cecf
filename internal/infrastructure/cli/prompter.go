package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm asks before a command runs. An empty answer takes the default;
// end of input declines.
func (p *Prompter) Confirm(req domain.ConfirmationRequest) (bool, error) {
	question := "Run command?"
	if req.Risk == domain.RiskSuperHigh {
		question = "Run SUPER_HIGH risk command?"
	}
	fmt.Fprintf(p.out, "\n%s %s\n  %s\n", req.Label, question, req.Command)
	if req.Reason != "" {
		fmt.Fprintf(p.out, "Reason: %s\n", req.Reason)
	}

	label := "[y/N]"
	if req.DefaultYes {
		label = "[Y/n]"
	}
	fmt.Fprintf(p.out, "Continue? %s: ", label)

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	switch {
	case answer == "" && errors.Is(err, io.EOF):
		fmt.Fprintln(p.out)
		return false, nil
	case answer == "":
		return req.DefaultYes, nil
	default:
		return answer == "y" || answer == "yes", nil
	}
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)

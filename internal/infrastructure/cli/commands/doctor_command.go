package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doeshing/alex-go/internal/domain"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := rt.Container.DoctorService
			if svc == nil {
				return errors.New(ErrDoctorServiceUnavailable)
			}
			report, err := svc.Run(cmd.Context())

			// Display report even if there were errors
			displayDoctorReport(cmd.OutOrStdout(), report)

			if err != nil {
				return fmt.Errorf("diagnostics completed with errors: %w", err)
			}
			if report.Overall() == domain.HealthError {
				return errors.New("doctor: FAILED. Run: alex auth")
			}
			return nil
		},
	}
}

// displayDoctorReport displays the health check report
func displayDoctorReport(out io.Writer, report domain.HealthReport) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECK\tSTATUS\tVALUE\tHINT")
	for _, check := range report.Checks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			check.Name,
			strings.ToUpper(string(check.Status)),
			check.Details,
			check.Hint)
	}
	tw.Flush()

	switch report.Overall() {
	case domain.HealthOK:
		fmt.Fprintln(out, "\nDoctor: OK")
	case domain.HealthWarn:
		fmt.Fprintln(out, "\nDoctor: WARN (some optional things missing)")
	default:
		fmt.Fprintln(out, "\nDoctor: FAILED")
	}
}

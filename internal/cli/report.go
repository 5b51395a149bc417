package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spec-kit/worker-directory/internal/report"
)

// ReportOptions configures the report command.
type ReportOptions struct {
	filterFlags
	OutputPath string
}

// NewReportCommand builds `workerctl report`.
func NewReportCommand(e *env) *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the worker list as a PDF",
		Long:  "Render the workers matching the search text and types into a one-page PDF report.",
		Example: `  workerctl report
  workerctl report --type Driver -o drivers.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, e, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", report.FileName, "Destination file")
	return cmd
}

func runReport(cmd *cobra.Command, e *env, opts *ReportOptions) (err error) {
	v := e.newView()
	if out := v.Load(cmd.Context()); !out.OK() {
		return fmt.Errorf("failed to load staff list: %w", out.Error())
	}
	v.SetCriteria(opts.criteria())
	rows := len(v.Search())

	f, err := os.Create(opts.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.OutputPath, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to write %s: %w", opts.OutputPath, cerr)
		}
		if err != nil {
			_ = os.Remove(opts.OutputPath)
		}
	}()

	if out := v.Export(cmd.Context(), f); !out.OK() {
		return fmt.Errorf("failed to export report: %w", out.Error())
	}
	color.New(color.FgGreen).Fprintf(e.streams.Out, "Report with %d workers written to %s\n", rows, opts.OutputPath)
	return nil
}

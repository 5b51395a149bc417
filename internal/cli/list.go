package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spec-kit/worker-directory/internal/domain"
)

// ListOptions configures the list command.
type ListOptions struct {
	filterFlags
	OutputFormat string
}

// NewListCommand builds `workerctl list`.
func NewListCommand(e *env) *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workers",
		Long:  "Fetch the full staff list and print the workers matching the search text and types.",
		Example: `  workerctl list
  workerctl list --search ali --type Driver --type Labor
  workerctl list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, e, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.OutputFormat, "output", "o", "text", "Output format (json or text)")
	cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "text"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runList(cmd *cobra.Command, e *env, opts *ListOptions) error {
	if opts.OutputFormat != "json" && opts.OutputFormat != "text" {
		return fmt.Errorf("invalid output format %q, must be 'json' or 'text'", opts.OutputFormat)
	}

	v := e.newView()
	if out := v.Load(cmd.Context()); !out.OK() {
		return fmt.Errorf("failed to load staff list: %w", out.Error())
	}
	v.SetCriteria(opts.criteria())
	records := v.Search()

	if opts.OutputFormat == "json" {
		enc := json.NewEncoder(e.streams.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	return printRecords(e.streams.Out, records, len(v.Records()))
}

func printRecords(w io.Writer, records []domain.StaffRecord, total int) error {
	if len(records) == 0 {
		_, err := fmt.Fprintf(w, "No workers found (%d in directory)\n", total)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tID\tTYPE\tNUMBER\tEMAIL\tADDRESS\tJOIN DATE\tLICENSE\tINTERNAL ID")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Username, r.DisplayID, r.Type, r.Number, r.Email, r.Address, r.JoinDate, r.License, r.InternalID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nShowing %d of %d workers\n", len(records), total)
	return err
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/worker-directory/internal/domain"
)

// filterFlags are the search inputs shared by list and report.
type filterFlags struct {
	search string
	types  []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.search, "search", "s", "", "Match names (case-insensitive) or IDs (case-sensitive)")
	flags.StringSliceVarP(&f.types, "type", "t", nil, "Only show these types (Supervisor, Driver, Labor); repeatable")

	cmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		out := make([]string, 0, len(domain.KnownStaffTypes))
		for _, t := range domain.KnownStaffTypes {
			out = append(out, string(t))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
}

func (f *filterFlags) criteria() domain.FilterCriteria {
	c := domain.FilterCriteria{SearchTerm: f.search}
	for _, t := range f.types {
		c.ToggleType(domain.StaffType(t), true)
	}
	return c
}

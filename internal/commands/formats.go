package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-extractor/internal/normalize"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the output date formats accepted by --date-format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FORMAT\tEXAMPLE")
			for _, f := range normalize.DateFormats {
				fmt.Fprintf(tw, "%s\t%s\n", f.Pattern, f.Example)
			}
			return tw.Flush()
		},
	}
}

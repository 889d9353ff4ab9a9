package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-extractor/internal/convert"
	"github.com/insightdelivered/statement-extractor/internal/extractor"
	"github.com/insightdelivered/statement-extractor/internal/normalize"
	"github.com/insightdelivered/statement-extractor/internal/writer"
)

func newConvertCommand(rt *runtime) *cobra.Command {
	var (
		output     string
		dateFormat string
		fallback   string
		trace      bool
	)

	cmd := &cobra.Command{
		Use:   "convert <statement.pdf|statement.txt>",
		Short: "Convert a bank statement into an .xlsx (or .csv) transaction table",
		Example: `  statement-extractor convert statement.pdf
  statement-extractor convert --date-format "%d/%m/%Y" -o march.xlsx statement.pdf
  statement-extractor convert -o march.csv statement.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			if !extractor.Supported(source) {
				return fmt.Errorf("expected a .pdf or .txt file, got %q", filepath.Ext(source))
			}
			if output == "" {
				output = defaultOutputPath(source)
			}

			p, err := rt.cfg.Parser()
			if err != nil {
				return err
			}
			n, err := rt.cfg.Normalizer()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("date-format") {
				n.OutputFormat = dateFormat
			}
			if cmd.Flags().Changed("date-fallback") {
				if n.Fallback, err = normalize.ParseFallback(fallback); err != nil {
					return err
				}
			}
			if !normalize.IsListed(n.OutputFormat) {
				rt.log.WithField("date_format", n.OutputFormat).Debug("using a date format outside the standard list")
			}

			c := &convert.Converter{
				Parser:     p,
				Normalizer: n,
				Log:        rt.log,
			}
			c.Extract = func(path string) ([]string, error) {
				return extractor.ExtractTextFor(path, p.Patterns().Date)
			}
			if !strings.EqualFold(filepath.Ext(output), ".csv") {
				c.Writer = rt.cfg.XLSXWriter()
			}

			res, err := c.Run(source, output)
			if res != nil && trace {
				out := cmd.OutOrStdout()
				for _, tl := range res.Trace {
					fmt.Fprintf(out, "%5d  %-12s  %s\n", tl.LineNum, tl.Action, tl.Text)
				}
			}
			if err != nil {
				return err
			}

			if res.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions found. Please check the statement format; no file was written.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transaction(s) to %s\n", len(res.Normalized), res.Output)
			if len(res.Warnings) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d warning(s) while converting\n", len(res.Warnings))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.xlsx or .csv); defaults to <source>_extracted.xlsx")
	cmd.Flags().StringVar(&dateFormat, "date-format", normalize.DefaultOutputFormat, "strftime output date format (see 'formats')")
	cmd.Flags().StringVar(&fallback, "date-fallback", string(normalize.FallbackColumn), "when a date cannot be reformatted keep originals for the whole column or just the row (column|row)")
	cmd.Flags().BoolVar(&trace, "trace", false, "print what the parser did with each line")

	return cmd
}

// defaultOutputPath puts <name>_extracted.xlsx next to the source.
func defaultOutputPath(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(filepath.Dir(source), base+"_extracted"+writer.NewXLSXWriter().Ext())
}

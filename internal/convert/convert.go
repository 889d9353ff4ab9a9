package convert

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/statement-extractor/internal/extractor"
	"github.com/insightdelivered/statement-extractor/internal/models"
	"github.com/insightdelivered/statement-extractor/internal/normalize"
	"github.com/insightdelivered/statement-extractor/internal/parser"
	"github.com/insightdelivered/statement-extractor/internal/writer"
)

// Result is the outcome of one conversion.
type Result struct {
	Transactions []models.Transaction
	Normalized   []models.NormalizedTransaction
	Trace        []models.TraceLine
	Warnings     []models.Warning
	// Written is true once the output file exists at Output.
	Written bool
	Output  string
}

// Empty reports whether no transactions were found.
func (r *Result) Empty() bool {
	return len(r.Transactions) == 0
}

// Converter runs the read, parse, normalize, write pipeline.
type Converter struct {
	Parser     *parser.Parser
	Normalizer *normalize.Normalizer
	// Writer overrides the output format; nil picks one from the output path.
	Writer writer.Writer
	// Extract returns page-ordered text for a source path.
	Extract func(path string) ([]string, error)
	Log     logrus.FieldLogger
}

// New returns a Converter with the default patterns, the given output date
// format, PDF/text extraction and a silent logger.
func New(outputDateFormat string) *Converter {
	return &Converter{
		Parser:     parser.NewDefault(),
		Normalizer: normalize.New(outputDateFormat),
		Extract:    extractor.ExtractText,
		Log:        discardLogger(),
	}
}

// Convert parses and normalizes already extracted pages. It never fails:
// problems come back as warnings on the result.
func (c *Converter) Convert(pages []string) *Result {
	stmt := c.Parser.ParsePages(pages)
	res := &Result{
		Transactions: stmt.Transactions,
		Trace:        stmt.Trace,
	}

	if res.Empty() {
		res.Warnings = append(res.Warnings, models.Warning{
			Kind:    models.WarnEmptyResult,
			Message: "no transactions found; check that the statement matches the configured patterns",
		})
		return res
	}

	res.Normalized, res.Warnings = c.Normalizer.Normalize(stmt.Transactions)
	for _, nt := range res.Normalized {
		if nt.Marker != "" {
			res.Warnings = append(res.Warnings, models.Warning{
				Kind:    models.WarnMarkerDiscarded,
				Message: "balance debit/credit markers (Dr/Cr) are not written to the report",
			})
			break
		}
	}
	return res
}

// Run converts the document at source and writes the report to output.
// Source and write failures are returned as *SourceReadError and
// *WriteError. When nothing is found, the result carries an empty_result
// warning and no file is written.
func (c *Converter) Run(source, output string) (*Result, error) {
	log := c.logger().WithField("source", source)

	extract := c.Extract
	if extract == nil {
		extract = extractor.ExtractText
	}
	pages, err := extract(source)
	if err != nil {
		return nil, &SourceReadError{Path: source, Err: err}
	}
	log.WithField("pages", len(pages)).Debug("extracted text")

	res := c.Convert(pages)
	res.Output = output
	log.WithField("transactions", len(res.Transactions)).Info("parsed statement")

	for _, w := range res.Warnings {
		log.WithField("warning", w.Kind).Warn(w.String())
	}
	if res.Empty() {
		return res, nil
	}

	w := c.Writer
	if w == nil {
		w = writer.ForPath(output)
	}
	if err := writer.WriteFile(output, w, res.Normalized); err != nil {
		return res, &WriteError{Path: output, Err: err}
	}
	res.Written = true
	log.WithField("output", output).Info("wrote report")
	return res, nil
}

func (c *Converter) logger() logrus.FieldLogger {
	if c.Log == nil {
		return discardLogger()
	}
	return c.Log
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

// Fallback decides what happens to dates that cannot be reformatted.
type Fallback string

const (
	// FallbackColumn keeps the original text in every row as soon as one
	// row fails. This is the long-standing behaviour.
	FallbackColumn Fallback = "column"
	// FallbackRow keeps the original text only in the failing rows.
	FallbackRow Fallback = "row"
)

// ParseFallback converts a config or flag value to a Fallback.
func ParseFallback(s string) (Fallback, error) {
	switch Fallback(strings.ToLower(strings.TrimSpace(s))) {
	case "", FallbackColumn:
		return FallbackColumn, nil
	case FallbackRow:
		return FallbackRow, nil
	default:
		return "", fmt.Errorf("unknown date fallback %q (want column or row)", s)
	}
}

// Normalizer converts raw transaction fields into typed values.
type Normalizer struct {
	InputLayout  string // Go time layout of the source dates
	OutputFormat string // strftime pattern for the output dates
	Fallback     Fallback
}

// New returns a Normalizer with the default layout and column fallback.
func New(outputFormat string) *Normalizer {
	if outputFormat == "" {
		outputFormat = DefaultOutputFormat
	}
	return &Normalizer{
		InputLayout:  DefaultInputLayout,
		OutputFormat: outputFormat,
		Fallback:     FallbackColumn,
	}
}

// Normalize converts txns. Problems never abort the batch; they are
// returned as warnings and leave the affected values unset or unchanged.
func (n *Normalizer) Normalize(txns []models.Transaction) ([]models.NormalizedTransaction, []models.Warning) {
	out := make([]models.NormalizedTransaction, len(txns))
	var warnings []models.Warning

	for i, txn := range txns {
		row := i + 1
		nt := models.NormalizedTransaction{
			Date:        txn.Date,
			Description: txn.Description,
		}

		amount, _, err := ParseNumber(txn.Amount)
		if err != nil {
			warnings = append(warnings, fieldWarning(row, "amount", err))
		}
		nt.Amount = amount

		balance, marker, err := ParseNumber(txn.Balance)
		if err != nil {
			warnings = append(warnings, fieldWarning(row, "balance", err))
		}
		nt.Balance = balance
		nt.Marker = marker

		out[i] = nt
	}

	warnings = append(warnings, n.reformatDates(out)...)
	return out, warnings
}

func (n *Normalizer) reformatDates(rows []models.NormalizedTransaction) []models.Warning {
	layout := n.InputLayout
	if layout == "" {
		layout = DefaultInputLayout
	}
	pattern := n.OutputFormat
	if pattern == "" {
		pattern = DefaultOutputFormat
	}

	f, err := strftime.New(pattern)
	if err != nil {
		return []models.Warning{{
			Kind:    models.WarnDateReformat,
			Message: fmt.Sprintf("invalid output date format %q: %v; keeping original dates", pattern, err),
		}}
	}

	formatted := make([]string, len(rows))
	var warnings []models.Warning
	for i, r := range rows {
		t, err := time.Parse(layout, r.Date)
		if err != nil {
			if n.Fallback == FallbackRow {
				formatted[i] = r.Date
				warnings = append(warnings, models.Warning{
					Kind:    models.WarnDateReformat,
					Row:     i + 1,
					Field:   "date",
					Message: fmt.Sprintf("cannot parse %q as %s; keeping original", r.Date, layout),
				})
				continue
			}
			return []models.Warning{{
				Kind:    models.WarnDateReformat,
				Row:     i + 1,
				Field:   "date",
				Message: fmt.Sprintf("cannot parse %q as %s; keeping original dates for all rows", r.Date, layout),
			}}
		}
		formatted[i] = f.FormatString(t)
	}

	for i := range rows {
		rows[i].Date = formatted[i]
	}
	return warnings
}

func fieldWarning(row int, field string, err error) models.Warning {
	return models.Warning{
		Kind:    models.WarnFieldGap,
		Row:     row,
		Field:   field,
		Message: err.Error(),
	}
}

var (
	numericRun     = regexp.MustCompile(`[\d.]+`)
	trailingMarker = regexp.MustCompile(`([A-Za-z]+)$`)
)

// ParseNumber converts a statement number like "30,38,234.66Dr" to a
// decimal rounded to two places. The trailing marker ("Dr") is returned
// separately. An empty or unparsable field yields an invalid NullDecimal
// and an error describing the gap.
func ParseNumber(s string) (decimal.NullDecimal, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, "", fmt.Errorf("no value found")
	}

	var marker string
	if m := trailingMarker.FindStringSubmatch(s); m != nil {
		marker = m[1]
	}

	run := numericRun.FindString(strings.ReplaceAll(s, ",", ""))
	if run == "" {
		return decimal.NullDecimal{}, marker, fmt.Errorf("no number in %q", s)
	}
	d, err := decimal.NewFromString(run)
	if err != nil {
		return decimal.NullDecimal{}, marker, fmt.Errorf("parsing %q: %w", s, err)
	}
	return decimal.NewNullDecimal(d.Round(2)), marker, nil
}

package parser

import (
	"fmt"
	"regexp"
)

// Default expressions for statements that print dates as DD-Mon-YYYY and
// close each entry with "amount balanceDr" on a line of its own.
const (
	// e.g. 01-Jan-2023, matched at the start of a line
	DefaultDatePattern = `(?i)\d{2}-[a-z]{3}-\d{4}`
	// e.g. "25,000.00  30,38,234.66Dr"
	DefaultAmountBalancePattern = `([\d,]+\.\d{2})\s+([\d,]+\.\d{2}[A-Za-z]{2})`
	// e.g. "30,63,234.66Dr" on a brought-forward line
	DefaultBalanceOnlyPattern = `([\d,]+\.\d{2}[A-Za-z]{2})`
)

// Patterns is the set of expressions the parser uses to find transaction
// boundaries. AmountBalance needs two capture groups (amount, balance) and
// BalanceOnly needs one.
type Patterns struct {
	Date          *regexp.Regexp
	AmountBalance *regexp.Regexp
	BalanceOnly   *regexp.Regexp
}

// PatternSource holds uncompiled expressions, typically from a config file.
// Empty fields fall back to the defaults.
type PatternSource struct {
	Date          string `yaml:"date"`
	AmountBalance string `yaml:"amount_balance"`
	BalanceOnly   string `yaml:"balance_only"`
}

// DefaultPatterns returns the patterns for the DD-Mon-YYYY / Dr-Cr layout.
func DefaultPatterns() Patterns {
	return Patterns{
		Date:          regexp.MustCompile(DefaultDatePattern),
		AmountBalance: regexp.MustCompile(DefaultAmountBalancePattern),
		BalanceOnly:   regexp.MustCompile(DefaultBalanceOnlyPattern),
	}
}

// CompilePatterns compiles src, substituting defaults for empty fields.
func CompilePatterns(src PatternSource) (Patterns, error) {
	date, err := compileField("date", src.Date, DefaultDatePattern, 0)
	if err != nil {
		return Patterns{}, err
	}
	amountBalance, err := compileField("amount_balance", src.AmountBalance, DefaultAmountBalancePattern, 2)
	if err != nil {
		return Patterns{}, err
	}
	balanceOnly, err := compileField("balance_only", src.BalanceOnly, DefaultBalanceOnlyPattern, 1)
	if err != nil {
		return Patterns{}, err
	}
	return Patterns{
		Date:          date,
		AmountBalance: amountBalance,
		BalanceOnly:   balanceOnly,
	}, nil
}

func compileField(name, expr, fallback string, minGroups int) (*regexp.Regexp, error) {
	if expr == "" {
		expr = fallback
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling %s pattern: %w", name, err)
	}
	if re.NumSubexp() < minGroups {
		return nil, fmt.Errorf("%s pattern %q needs at least %d capture group(s), has %d", name, expr, minGroups, re.NumSubexp())
	}
	return re, nil
}

// Source returns the expressions behind p.
func (p Patterns) Source() PatternSource {
	return PatternSource{
		Date:          p.Date.String(),
		AmountBalance: p.AmountBalance.String(),
		BalanceOnly:   p.BalanceOnly.String(),
	}
}

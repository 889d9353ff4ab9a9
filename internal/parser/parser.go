package parser

import (
	"strings"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

// Parser turns extracted statement text into transactions.
//
// A line starting with a date opens a transaction. Lines after it are
// description continuations until one matches the amount/balance or the
// balance-only pattern, which closes the entry. A new date always closes the
// previous entry, filled in or not. Lines outside any entry are dropped.
//
// Parser holds no state between calls and is safe for concurrent use.
type Parser struct {
	patterns Patterns
}

// New returns a parser using the given patterns.
func New(patterns Patterns) *Parser {
	return &Parser{patterns: patterns}
}

// NewDefault returns a parser using DefaultPatterns.
func NewDefault() *Parser {
	return New(DefaultPatterns())
}

// Patterns returns the patterns the parser was built with.
func (p *Parser) Patterns() Patterns {
	return p.patterns
}

// ParsePages parses page-ordered text, joining pages with newlines.
func (p *Parser) ParsePages(pages []string) *models.Statement {
	return p.Parse(strings.Join(pages, "\n"))
}

// Parse parses the full text of a statement.
func (p *Parser) Parse(text string) *models.Statement {
	stmt := &models.Statement{}
	var st state

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		var action models.LineAction
		var done *models.Transaction
		st, done, action = p.step(st, line)
		if done != nil {
			stmt.Transactions = append(stmt.Transactions, *done)
		}
		stmt.Trace = append(stmt.Trace, models.TraceLine{LineNum: i + 1, Text: line, Action: action})
	}

	if st.open {
		stmt.Transactions = append(stmt.Transactions, st.txn)
	}
	return stmt
}

// state is either no open transaction, or one with partial fields.
type state struct {
	open bool
	txn  models.Transaction
}

// step folds one trimmed, non-empty line into st. It returns the next state
// and the transaction finalized by this line, if any.
func (p *Parser) step(st state, line string) (state, *models.Transaction, models.LineAction) {
	if date, rest, ok := p.leadingDate(line); ok {
		next := state{open: true, txn: models.Transaction{Date: date, Description: rest}}
		if st.open {
			prev := st.txn
			return next, &prev, models.ActionOpened
		}
		return next, nil, models.ActionOpened
	}

	if !st.open {
		return st, nil, models.ActionDropped
	}

	if m := p.patterns.AmountBalance.FindStringSubmatch(line); m != nil {
		txn := st.txn
		txn.Amount = m[1]
		txn.Balance = m[2]
		return state{}, &txn, models.ActionClosed
	}

	if m := p.patterns.BalanceOnly.FindStringSubmatch(line); m != nil {
		txn := st.txn
		txn.Balance = m[1]
		return state{}, &txn, models.ActionBalance
	}

	if st.txn.Description == "" {
		st.txn.Description = line
	} else {
		st.txn.Description += " " + line
	}
	return st, nil, models.ActionContinuation
}

// leadingDate reports whether line starts with a date, returning the date
// text and the trimmed remainder.
func (p *Parser) leadingDate(line string) (date, rest string, ok bool) {
	loc := p.patterns.Date.FindStringIndex(line)
	if loc == nil || loc[0] != 0 || loc[1] == 0 {
		return "", "", false
	}
	return line[:loc[1]], strings.TrimSpace(line[loc[1]:]), true
}

package models

import "github.com/shopspring/decimal"

// Transaction is a parsed statement entry with its fields exactly as they
// appeared in the source text. Amount and Balance stay empty when no closing
// numeric line was found for the entry.
type Transaction struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Balance     string `json:"balance"`
}

// NormalizedTransaction is a Transaction with typed numeric fields.
type NormalizedTransaction struct {
	Date        string              `json:"date"`
	Description string              `json:"description"`
	Amount      decimal.NullDecimal `json:"amount"`
	Balance     decimal.NullDecimal `json:"balance"`
	Marker      string              `json:"marker,omitempty"` // Dr or Cr suffix stripped from the balance
}

// LineAction records what the parser did with a source line.
type LineAction string

const (
	ActionOpened       LineAction = "opened"
	ActionClosed       LineAction = "closed"  // amount and balance line
	ActionBalance      LineAction = "balance" // balance-only line (B/F)
	ActionContinuation LineAction = "continuation"
	ActionDropped      LineAction = "dropped"
)

// TraceLine captures the parser's decision for one non-empty input line.
type TraceLine struct {
	LineNum int        `json:"lineNum"`
	Text    string     `json:"text"`
	Action  LineAction `json:"action"`
}

// Statement holds everything parsed out of one document's text.
type Statement struct {
	Transactions []Transaction
	Trace        []TraceLine
}

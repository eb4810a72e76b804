package models

import "github.com/shopspring/decimal"

func init() {
	// Money is rendered as a JSON number, not a quoted string.
	decimal.MarshalJSONWithoutQuotes = true
}

// EntryType tells whether a category or a transaction brings money in or takes it out.
type EntryType string

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

func (t EntryType) Valid() bool {
	return t == Income || t == Expense
}

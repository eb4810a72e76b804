package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          string          `json:"id" db:"id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Date        time.Time       `json:"date" db:"date"`
	Type        EntryType       `json:"type" db:"type"`
	Title       string          `json:"title" db:"title"`
	Description *string         `json:"description" db:"description"`
	AccountID   string          `json:"accountId" db:"account_id"`
	CategoryID  string          `json:"categoryId" db:"category_id"`
	UserID      string          `json:"userId" db:"user_id"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

func (t Transaction) OwnerID() string { return t.UserID }

// BalanceEffect is the signed change this transaction makes to its account balance.
func (t Transaction) BalanceEffect() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

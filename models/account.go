package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a money-holding bucket. Balance is a running total kept in step
// with the account's transactions.
type Account struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Type      string          `json:"type" db:"type"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	UserID    string          `json:"userId" db:"user_id"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

func (a Account) OwnerID() string { return a.UserID }

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a spending ceiling for one category in one month. Nothing checks
// spending against it.
type Budget struct {
	ID         string          `json:"id" db:"id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Month      int             `json:"month" db:"month"`
	Year       int             `json:"year" db:"year"`
	CategoryID string          `json:"categoryId" db:"category_id"`
	UserID     string          `json:"userId" db:"user_id"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}

func (b Budget) OwnerID() string { return b.UserID }

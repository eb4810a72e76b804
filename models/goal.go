package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Goal struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Target    decimal.Decimal `json:"target" db:"target"`
	Deadline  time.Time       `json:"deadline" db:"deadline"`
	UserID    string          `json:"userId" db:"user_id"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

func (g Goal) OwnerID() string { return g.UserID }

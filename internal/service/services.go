// Package service holds the domain operations behind the HTTP handlers:
// balance arithmetic, category/transaction type consistency and the
// per-user ownership policy.
package service

import (
	"strings"

	"github.com/valeriaulyamaeva/finflow/internal/database"
)

// TokenIssuer signs the token handed out on a successful login.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type Services struct {
	Users        *Users
	Accounts     *Accounts
	Categories   *Categories
	Transactions *Transactions
	Budgets      *Budgets
	Goals        *Goals
}

func NewServices(store database.Store, tokens TokenIssuer) *Services {
	return &Services{
		Users:        NewUsers(store, tokens),
		Accounts:     NewAccounts(store),
		Categories:   NewCategories(store),
		Transactions: NewTransactions(store),
		Budgets:      NewBudgets(store),
		Goals:        NewGoals(store),
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

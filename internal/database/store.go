package database

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finflow/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	// GetAccountForUpdate also locks the row until the surrounding unit of
	// work ends.
	GetAccountForUpdate(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]models.Account, error)
	// UpdateAccount writes name and type only and reloads the stored balance
	// into account.
	UpdateAccount(ctx context.Context, account *models.Account) error
	SetAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error
	// AdjustAccountBalance adds delta to the stored balance in a single write.
	AdjustAccountBalance(ctx context.Context, id string, delta decimal.Decimal) error
	DeleteAccount(ctx context.Context, id string) error
	DeleteAccounts(ctx context.Context, userID string) error
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	GetCategoryForUpdate(ctx context.Context, id string) (*models.Category, error)
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id string) error
	DeleteCategories(ctx context.Context, userID string) error
}

// TransactionFilter narrows ListTransactions. Zero fields do not filter.
// Both date bounds are inclusive.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID string
	Type       models.EntryType
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, transaction *models.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error)
	GetTransactionForUpdate(ctx context.Context, id string) (*models.Transaction, error)
	// ListTransactions returns the user's transactions, newest date first.
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, transaction *models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
}

type BudgetStore interface {
	CreateBudget(ctx context.Context, budget *models.Budget) error
	GetBudgetByID(ctx context.Context, id string) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID string) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, budget *models.Budget) error
	DeleteBudget(ctx context.Context, id string) error
}

type GoalStore interface {
	CreateGoal(ctx context.Context, goal *models.Goal) error
	GetGoalByID(ctx context.Context, id string) (*models.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]models.Goal, error)
	UpdateGoal(ctx context.Context, goal *models.Goal) error
	DeleteGoal(ctx context.Context, id string) error
}

// Store is the persistence gateway shared by every service.
type Store interface {
	UserStore
	AccountStore
	CategoryStore
	TransactionStore
	BudgetStore
	GoalStore

	// WithTx runs fn as one unit of work. Writes made through the Store passed
	// to fn are discarded if fn returns an error. Nested calls join the
	// outer unit.
	WithTx(ctx context.Context, fn func(Store) error) error
}

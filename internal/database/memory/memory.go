// Package memory is an in-process database.Store. It backs the server when no
// DATABASE_URL is configured and is the store used by the service and HTTP tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finflow/internal/database"
	"github.com/valeriaulyamaeva/finflow/models"
)

type tables struct {
	users        map[string]models.User
	accounts     map[string]models.Account
	categories   map[string]models.Category
	transactions map[string]models.Transaction
	budgets      map[string]models.Budget
	goals        map[string]models.Goal
}

func (t *tables) clone() *tables {
	return &tables{
		users:        maps.Clone(t.users),
		accounts:     maps.Clone(t.accounts),
		categories:   maps.Clone(t.categories),
		transactions: maps.Clone(t.transactions),
		budgets:      maps.Clone(t.budgets),
		goals:        maps.Clone(t.goals),
	}
}

type Store struct {
	mu   *sync.Mutex
	data *tables
	// inTx is set on the view handed to WithTx callbacks; the lock is
	// already held for them.
	inTx bool
	now  func() time.Time
}

var _ database.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		mu: &sync.Mutex{},
		data: &tables{
			users:        map[string]models.User{},
			accounts:     map[string]models.Account{},
			categories:   map[string]models.Category{},
			transactions: map[string]models.Transaction{},
			budgets:      map[string]models.Budget{},
			goals:        map[string]models.Goal{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) WithTx(ctx context.Context, fn func(database.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &Store{mu: s.mu, data: s.data, inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, database.ErrNotFound)
}

func stamp(id *string, created, updated *time.Time, now time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	*created = now
	*updated = now
}

// --- users -------------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	defer s.lock()()
	for _, existing := range s.data.users {
		if existing.Email == user.Email {
			return fmt.Errorf("create user: %w", database.ErrDuplicateEmail)
		}
	}
	stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt, s.now())
	s.data.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	defer s.lock()()
	user, ok := s.data.users[id]
	if !ok {
		return nil, notFound("get user")
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	defer s.lock()()
	for _, user := range s.data.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, notFound("get user by email")
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	defer s.lock()()
	users := slices.Collect(maps.Values(s.data.users))
	slices.SortFunc(users, func(a, b models.User) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return users, nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	defer s.lock()()
	if _, ok := s.data.users[id]; !ok {
		return notFound("delete user")
	}
	delete(s.data.users, id)
	owned := func(userID string) bool { return userID == id }
	maps.DeleteFunc(s.data.accounts, func(_ string, a models.Account) bool { return owned(a.UserID) })
	maps.DeleteFunc(s.data.categories, func(_ string, c models.Category) bool { return owned(c.UserID) })
	maps.DeleteFunc(s.data.transactions, func(_ string, t models.Transaction) bool { return owned(t.UserID) })
	maps.DeleteFunc(s.data.budgets, func(_ string, b models.Budget) bool { return owned(b.UserID) })
	maps.DeleteFunc(s.data.goals, func(_ string, g models.Goal) bool { return owned(g.UserID) })
	return nil
}

// --- accounts ----------------------------------------------------------------

func (s *Store) CreateAccount(_ context.Context, account *models.Account) error {
	defer s.lock()()
	if _, ok := s.data.users[account.UserID]; !ok {
		return fmt.Errorf("create account: unknown user %q", account.UserID)
	}
	stamp(&account.ID, &account.CreatedAt, &account.UpdatedAt, s.now())
	s.data.accounts[account.ID] = *account
	return nil
}

func (s *Store) GetAccountByID(_ context.Context, id string) (*models.Account, error) {
	defer s.lock()()
	account, ok := s.data.accounts[id]
	if !ok {
		return nil, notFound("get account")
	}
	return &account, nil
}

// GetAccountForUpdate needs no row lock; units of work already hold the
// store mutex.
func (s *Store) GetAccountForUpdate(ctx context.Context, id string) (*models.Account, error) {
	return s.GetAccountByID(ctx, id)
}

func (s *Store) ListAccounts(_ context.Context, userID string) ([]models.Account, error) {
	defer s.lock()()
	var accounts []models.Account
	for _, account := range s.data.accounts {
		if account.UserID == userID {
			accounts = append(accounts, account)
		}
	}
	slices.SortFunc(accounts, func(a, b models.Account) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return accounts, nil
}

func (s *Store) UpdateAccount(_ context.Context, account *models.Account) error {
	defer s.lock()()
	current, ok := s.data.accounts[account.ID]
	if !ok {
		return notFound("update account")
	}
	current.Name = account.Name
	current.Type = account.Type
	current.UpdatedAt = s.now()
	s.data.accounts[account.ID] = current
	account.Balance = current.Balance
	account.UpdatedAt = current.UpdatedAt
	return nil
}

func (s *Store) SetAccountBalance(_ context.Context, id string, balance decimal.Decimal) error {
	defer s.lock()()
	account, ok := s.data.accounts[id]
	if !ok {
		return notFound("set account balance")
	}
	account.Balance = balance
	account.UpdatedAt = s.now()
	s.data.accounts[id] = account
	return nil
}

func (s *Store) AdjustAccountBalance(_ context.Context, id string, delta decimal.Decimal) error {
	defer s.lock()()
	account, ok := s.data.accounts[id]
	if !ok {
		return notFound("adjust account balance")
	}
	account.Balance = account.Balance.Add(delta)
	account.UpdatedAt = s.now()
	s.data.accounts[id] = account
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, id string) error {
	defer s.lock()()
	if _, ok := s.data.accounts[id]; !ok {
		return notFound("delete account")
	}
	s.deleteAccountLocked(id)
	return nil
}

func (s *Store) DeleteAccounts(_ context.Context, userID string) error {
	defer s.lock()()
	for id, account := range s.data.accounts {
		if account.UserID == userID {
			s.deleteAccountLocked(id)
		}
	}
	return nil
}

func (s *Store) deleteAccountLocked(id string) {
	delete(s.data.accounts, id)
	maps.DeleteFunc(s.data.transactions, func(_ string, t models.Transaction) bool { return t.AccountID == id })
}

// --- categories --------------------------------------------------------------

func (s *Store) CreateCategory(_ context.Context, category *models.Category) error {
	defer s.lock()()
	if _, ok := s.data.users[category.UserID]; !ok {
		return fmt.Errorf("create category: unknown user %q", category.UserID)
	}
	stamp(&category.ID, &category.CreatedAt, &category.UpdatedAt, s.now())
	s.data.categories[category.ID] = *category
	return nil
}

func (s *Store) GetCategoryByID(_ context.Context, id string) (*models.Category, error) {
	defer s.lock()()
	category, ok := s.data.categories[id]
	if !ok {
		return nil, notFound("get category")
	}
	return &category, nil
}

func (s *Store) GetCategoryForUpdate(ctx context.Context, id string) (*models.Category, error) {
	return s.GetCategoryByID(ctx, id)
}

func (s *Store) ListCategories(_ context.Context, userID string) ([]models.Category, error) {
	defer s.lock()()
	var categories []models.Category
	for _, category := range s.data.categories {
		if category.UserID == userID {
			categories = append(categories, category)
		}
	}
	slices.SortFunc(categories, func(a, b models.Category) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return categories, nil
}

func (s *Store) UpdateCategory(_ context.Context, category *models.Category) error {
	defer s.lock()()
	current, ok := s.data.categories[category.ID]
	if !ok {
		return notFound("update category")
	}
	current.Name = category.Name
	current.Type = category.Type
	current.UpdatedAt = s.now()
	s.data.categories[category.ID] = current
	category.UpdatedAt = current.UpdatedAt
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	defer s.lock()()
	if _, ok := s.data.categories[id]; !ok {
		return notFound("delete category")
	}
	s.deleteCategoryLocked(id)
	return nil
}

func (s *Store) DeleteCategories(_ context.Context, userID string) error {
	defer s.lock()()
	for id, category := range s.data.categories {
		if category.UserID == userID {
			s.deleteCategoryLocked(id)
		}
	}
	return nil
}

func (s *Store) deleteCategoryLocked(id string) {
	delete(s.data.categories, id)
	maps.DeleteFunc(s.data.transactions, func(_ string, t models.Transaction) bool { return t.CategoryID == id })
	maps.DeleteFunc(s.data.budgets, func(_ string, b models.Budget) bool { return b.CategoryID == id })
}

// --- transactions ------------------------------------------------------------

func (s *Store) CreateTransaction(_ context.Context, transaction *models.Transaction) error {
	defer s.lock()()
	if _, ok := s.data.accounts[transaction.AccountID]; !ok {
		return fmt.Errorf("create transaction: unknown account %q", transaction.AccountID)
	}
	if _, ok := s.data.categories[transaction.CategoryID]; !ok {
		return fmt.Errorf("create transaction: unknown category %q", transaction.CategoryID)
	}
	stamp(&transaction.ID, &transaction.CreatedAt, &transaction.UpdatedAt, s.now())
	s.data.transactions[transaction.ID] = *transaction
	return nil
}

func (s *Store) GetTransactionByID(_ context.Context, id string) (*models.Transaction, error) {
	defer s.lock()()
	transaction, ok := s.data.transactions[id]
	if !ok {
		return nil, notFound("get transaction")
	}
	return &transaction, nil
}

func (s *Store) GetTransactionForUpdate(ctx context.Context, id string) (*models.Transaction, error) {
	return s.GetTransactionByID(ctx, id)
}

func (s *Store) ListTransactions(_ context.Context, userID string, filter database.TransactionFilter) ([]models.Transaction, error) {
	defer s.lock()()
	var transactions []models.Transaction
	for _, t := range s.data.transactions {
		switch {
		case t.UserID != userID:
		case filter.StartDate != nil && t.Date.Before(*filter.StartDate):
		case filter.EndDate != nil && t.Date.After(*filter.EndDate):
		case filter.CategoryID != "" && t.CategoryID != filter.CategoryID:
		case filter.Type != "" && t.Type != filter.Type:
		default:
			transactions = append(transactions, t)
		}
	}
	slices.SortFunc(transactions, func(a, b models.Transaction) int {
		return cmp.Or(b.Date.Compare(a.Date), b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return transactions, nil
}

func (s *Store) UpdateTransaction(_ context.Context, transaction *models.Transaction) error {
	defer s.lock()()
	current, ok := s.data.transactions[transaction.ID]
	if !ok {
		return notFound("update transaction")
	}
	updated := *transaction
	updated.UserID = current.UserID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = s.now()
	s.data.transactions[transaction.ID] = updated
	transaction.UpdatedAt = updated.UpdatedAt
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	defer s.lock()()
	if _, ok := s.data.transactions[id]; !ok {
		return notFound("delete transaction")
	}
	delete(s.data.transactions, id)
	return nil
}

// --- budgets -----------------------------------------------------------------

func (s *Store) CreateBudget(_ context.Context, budget *models.Budget) error {
	defer s.lock()()
	if _, ok := s.data.categories[budget.CategoryID]; !ok {
		return fmt.Errorf("create budget: unknown category %q", budget.CategoryID)
	}
	stamp(&budget.ID, &budget.CreatedAt, &budget.UpdatedAt, s.now())
	s.data.budgets[budget.ID] = *budget
	return nil
}

func (s *Store) GetBudgetByID(_ context.Context, id string) (*models.Budget, error) {
	defer s.lock()()
	budget, ok := s.data.budgets[id]
	if !ok {
		return nil, notFound("get budget")
	}
	return &budget, nil
}

func (s *Store) ListBudgets(_ context.Context, userID string) ([]models.Budget, error) {
	defer s.lock()()
	var budgets []models.Budget
	for _, budget := range s.data.budgets {
		if budget.UserID == userID {
			budgets = append(budgets, budget)
		}
	}
	slices.SortFunc(budgets, func(a, b models.Budget) int {
		return cmp.Or(cmp.Compare(b.Year, a.Year), cmp.Compare(b.Month, a.Month), a.CreatedAt.Compare(b.CreatedAt))
	})
	return budgets, nil
}

func (s *Store) UpdateBudget(_ context.Context, budget *models.Budget) error {
	defer s.lock()()
	current, ok := s.data.budgets[budget.ID]
	if !ok {
		return notFound("update budget")
	}
	current.Amount = budget.Amount
	current.Month = budget.Month
	current.Year = budget.Year
	current.CategoryID = budget.CategoryID
	current.UpdatedAt = s.now()
	s.data.budgets[budget.ID] = current
	budget.UpdatedAt = current.UpdatedAt
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, id string) error {
	defer s.lock()()
	if _, ok := s.data.budgets[id]; !ok {
		return notFound("delete budget")
	}
	delete(s.data.budgets, id)
	return nil
}

// --- goals -------------------------------------------------------------------

func (s *Store) CreateGoal(_ context.Context, goal *models.Goal) error {
	defer s.lock()()
	if _, ok := s.data.users[goal.UserID]; !ok {
		return fmt.Errorf("create goal: unknown user %q", goal.UserID)
	}
	stamp(&goal.ID, &goal.CreatedAt, &goal.UpdatedAt, s.now())
	s.data.goals[goal.ID] = *goal
	return nil
}

func (s *Store) GetGoalByID(_ context.Context, id string) (*models.Goal, error) {
	defer s.lock()()
	goal, ok := s.data.goals[id]
	if !ok {
		return nil, notFound("get goal")
	}
	return &goal, nil
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]models.Goal, error) {
	defer s.lock()()
	var goals []models.Goal
	for _, goal := range s.data.goals {
		if goal.UserID == userID {
			goals = append(goals, goal)
		}
	}
	slices.SortFunc(goals, func(a, b models.Goal) int {
		return cmp.Or(a.Deadline.Compare(b.Deadline), a.CreatedAt.Compare(b.CreatedAt))
	})
	return goals, nil
}

func (s *Store) UpdateGoal(_ context.Context, goal *models.Goal) error {
	defer s.lock()()
	current, ok := s.data.goals[goal.ID]
	if !ok {
		return notFound("update goal")
	}
	current.Name = goal.Name
	current.Target = goal.Target
	current.Deadline = goal.Deadline
	current.UpdatedAt = s.now()
	s.data.goals[goal.ID] = current
	goal.UpdatedAt = current.UpdatedAt
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	defer s.lock()()
	if _, ok := s.data.goals[id]; !ok {
		return notFound("delete goal")
	}
	delete(s.data.goals, id)
	return nil
}

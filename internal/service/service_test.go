package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/finflow/internal/auth"
	"github.com/valeriaulyamaeva/finflow/internal/database"
	"github.com/valeriaulyamaeva/finflow/internal/database/memory"
	"github.com/valeriaulyamaeva/finflow/internal/service"
	"github.com/valeriaulyamaeva/finflow/models"
)

type fixture struct {
	ctx    context.Context
	store  *memory.Store
	tokens *auth.Tokens
	svc    *service.Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	tokens := auth.NewTokens("test-secret")
	return &fixture{ctx: context.Background(), store: store, tokens: tokens, svc: service.NewServices(store, tokens)}
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := f.svc.Users.Register(f.ctx, service.RegisterInput{Name: "Alice", Email: email, Password: "123456"})
	require.NoError(t, err)
	return user
}

func (f *fixture) account(t *testing.T, userID string, balance int64) *models.Account {
	t.Helper()
	b := decimal.NewFromInt(balance)
	account, err := f.svc.Accounts.Create(f.ctx, userID, service.AccountInput{Name: "Main", Type: "checking", Balance: &b})
	require.NoError(t, err)
	return account
}

func (f *fixture) category(t *testing.T, userID string, entryType models.EntryType) *models.Category {
	t.Helper()
	category, err := f.svc.Categories.Create(f.ctx, userID, service.CategoryInput{Name: string(entryType), Type: entryType})
	require.NoError(t, err)
	return category
}

func (f *fixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	account, err := f.store.GetAccountByID(f.ctx, accountID)
	require.NoError(t, err)
	return account.Balance
}

func assertKind(t *testing.T, err error, kind service.Kind, message string) {
	t.Helper()
	serr, ok := service.AsError(err)
	require.True(t, ok, "expected *service.Error, got %v", err)
	assert.Equal(t, kind, serr.Kind)
	assert.Equal(t, message, serr.Message)
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func ptr[T any](v T) *T { return &v }

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice@example.com")

	stored, err := f.store.GetUserByID(f.ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "123456", stored.Password)

	token, err := f.svc.Users.Login(f.ctx, "alice@example.com", "123456")
	require.NoError(t, err)
	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = f.svc.Users.Login(f.ctx, "alice@example.com", "123457")
	assertKind(t, err, service.KindUnauthorized, service.MsgInvalidCredentials)

	_, err = f.svc.Users.Login(f.ctx, "nobody@example.com", "123456")
	assertKind(t, err, service.KindUnauthorized, service.MsgInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice@example.com")

	_, err := f.svc.Users.Register(f.ctx, service.RegisterInput{Name: "Other", Email: "alice@example.com", Password: "abcdef"})
	assertKind(t, err, service.KindConflict, service.MsgEmailTaken)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice@example.com")

	require.NoError(t, f.svc.Users.Delete(f.ctx, user.ID))
	_, err := f.svc.Users.Get(f.ctx, user.ID)
	assertKind(t, err, service.KindNotFound, service.MsgUserNotFound)
	assertKind(t, f.svc.Users.Delete(f.ctx, user.ID), service.KindNotFound, service.MsgUserNotFound)
}

func TestTransactionBalanceEffects(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice@example.com")
	account := f.account(t, user.ID, 2000)
	salary := f.category(t, user.ID, models.Income)
	food := f.category(t, user.ID, models.Expense)

	income, err := f.svc.Transactions.Create(f.ctx, user.ID, service.TransactionInput{
		Amount: dec("2000"), Date: time.Date(2025, 8, 7, 0, 0, 0, 0, time.UTC), Type: models.Income,
		Title: "Salary", AccountID: account.ID, CategoryID: salary.ID,
	})
	require.NoError(t, err)
	assert.True(t, f.balance(t, account.ID).Equal(dec("4000")))

	expense, err := f.svc.Transactions.Create(f.ctx, user.ID, service.TransactionInput{
		Amount: dec("150.25"), Date: time.Now(), Type: models.Expense,
		Title: "Groceries", AccountID: account.ID, CategoryID: food.ID,
	})
	require.NoError(t, err)
	assert.True(t, f.balance(t, account.ID).Equal(dec("3849.75")))

	require.NoError(t, f.svc.Transactions.Delete(f.ctx, user.ID, expense.ID))
	assert.True(t, f.balance(t, account.ID).Equal(dec("4000")))

	require.NoError(t, f.svc.Transactions.Delete(f.ctx, user.ID, income.ID))
	assert.True(t, f.balance(t, account.ID).Equal(dec("2000")))
}

func TestTransactionTypeMismatchLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice@example.com")
	account := f.account(t, user.ID, 100)
	food := f.category(t, user.ID, models.Expense)

	_, err := f.svc.Transactions.Create(f.ctx, user.ID, service.TransactionInput{
		Amount: dec("10"), Date: time.Now(), Type: models.Income,
		Title: "Refund", AccountID: account.ID, CategoryID: food.ID,
	})
	assertKind(t, err, service.KindValidation, service.MsgTypeMismatch)

	assert.True(t, f.balance(t, account.ID).Equal(dec("100")))
	listed, err := f.svc.Transactions.List(f.ctx, user.ID, database.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestTransactionCreateValidation(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice@example.com")
	account := f.account(t, user.ID, 100)
	salary := f.category(t, user.ID, models.Income)

	base := service.TransactionInput{
		Amount: dec("10"), Date: time.Now(), Type: models.Income,
		Title: "x", AccountID: account.ID, CategoryID: salary.ID,
	}

	in := base
	in.Amount = dec("0")
	_, err := f.svc.Transactions.Create(f.ctx, user.ID, in)
	assertKind(t, err, service.KindValidation, service.MsgAmountNotPositive)

	in = base
	in.Type = "transfer"
	_, err = f.svc.Transactions.Create(f.ctx, user.ID, in)
	assertKind(t, err, service.KindValidation, service.MsgInvalidTransactionType)

	in = base
	in.CategoryID = "missing"
	_, err = f.svc.Transactions.Create(f.ctx, user.ID, in)
	assertKind(t, err, service.KindNotFound, service.MsgCategoryNotFound)

	in = base
	in.AccountID = "missing"
	_, err = f.svc.Transactions.Create(f.ctx, user.ID, in)
	assertKind(t, err, service.KindNotFound, service.MsgAccountNotFound)

	assert.True(t, f.balance(t, account.ID).Equal(dec("100")))
}

func TestTransactionUpdateRecomputesBalance(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice@example.com")
	account := f.account(t, user.ID, 1000)
	salary := f.category(t, user.ID, models.Income)
	food := f.category(t, user.ID, models.Expense)

	transaction, err := f.svc.Transactions.Create(f.ctx, user.ID, service.TransactionInput{
		Amount: dec("100"), Date: time.Now(), Type: models.Income,
		Title: "Bonus", AccountID: account.ID, CategoryID: salary.ID,
	})
	require.NoError(t, err)
	assert.True(t, f.balance(t, account.ID).Equal(dec("1100")))

	expense := models.Expense
	updated, err := f.svc.Transactions.Update(f.ctx, user.ID, transaction.ID, service.TransactionPatch{
		Amount: ptr(dec("40")), Type: &expense, CategoryID: &food.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.Expense, updated.Type)
	assert.Equal(t, "Bonus", updated.Title)
	assert.True(t, f.balance(t, account.ID).Equal(dec("960")))

	// changing only the type must be checked against the category
	income := models.Income
	_, err = f.svc.Transactions.Update(f.ctx, user.ID, transaction.ID, service.TransactionPatch{Type: &income})
	assertKind(t, err, service.KindValidation, service.MsgTypeMismatch)
	assert.True(t, f.balance(t, account.ID).Equal(dec("960")))
}

func TestTransactionMoveBetweenAccounts(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice@example.com")
	from := f.account(t, user.ID, 500)
	to := f.account(t, user.ID, 0)
	food := f.category(t, user.ID, models.Expense)

	transaction, err := f.svc.Transactions.Create(f.ctx, user.ID, service.TransactionInput{
		Amount: dec("50"), Date: time.Now(), Type: models.Expense,
		Title: "Lunch", AccountID: from.ID, CategoryID: food.ID,
	})
	require.NoError(t, err)
	assert.True(t, f.balance(t, from.ID).Equal(dec("450")))

	_, err = f.svc.Transactions.Update(f.ctx, user.ID, transaction.ID, service.TransactionPatch{AccountID: &to.ID})
	require.NoError(t, err)
	assert.True(t, f.balance(t, from.ID).Equal(dec("500")))
	assert.True(t, f.balance(t, to.ID).Equal(dec("-50")))
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	account := f.account(t, alice.ID, 100)
	salary := f.category(t, alice.ID, models.Income)

	transaction, err := f.svc.Transactions.Create(f.ctx, alice.ID, service.TransactionInput{
		Amount: dec("10"), Date: time.Now(), Type: models.Income,
		Title: "x", AccountID: account.ID, CategoryID: salary.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.Accounts.Update(f.ctx, bob.ID, account.ID, service.AccountPatch{Name: ptr("Mine")})
	assertKind(t, err, service.KindNotFound, service.MsgAccountNotFound)
	assertKind(t, f.svc.Accounts.Delete(f.ctx, bob.ID, account.ID), service.KindNotFound, service.MsgAccountNotFound)
	assertKind(t, f.svc.Categories.Delete(f.ctx, bob.ID, salary.ID), service.KindNotFound, service.MsgCategoryNotFound)
	assertKind(t, f.svc.Transactions.Delete(f.ctx, bob.ID, transaction.ID), service.KindNotFound, service.MsgTransactionNotFound)

	bobCategory := f.category(t, bob.ID, models.Income)
	_, err = f.svc.Transactions.Create(f.ctx, bob.ID, service.TransactionInput{
		Amount: dec("10"), Date: time.Now(), Type: models.Income,
		Title: "x", AccountID: account.ID, CategoryID: bobCategory.ID,
	})
	assertKind(t, err, service.KindNotFound, service.MsgAccountNotFound)

	assert.True(t, f.balance(t, account.ID).Equal(dec("110")))
}

func TestCategoryTypeValidation(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice@example.com")

	_, err := f.svc.Categories.Create(f.ctx, user.ID, service.CategoryInput{Name: "x", Type: "other"})
	assertKind(t, err, service.KindValidation, service.MsgInvalidCategoryType)

	category := f.category(t, user.ID, models.Income)
	bad := models.EntryType("other")
	_, err = f.svc.Categories.Update(f.ctx, user.ID, category.ID, service.CategoryPatch{Type: &bad})
	assertKind(t, err, service.KindValidation, service.MsgInvalidCategoryType)

	updated, err := f.svc.Categories.Update(f.ctx, user.ID, category.ID, service.CategoryPatch{Name: ptr("Freelance")})
	require.NoError(t, err)
	assert.Equal(t, "Freelance", updated.Name)
	assert.Equal(t, models.Income, updated.Type)
}

func TestDeleteAll(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	f.account(t, alice.ID, 1)
	f.account(t, alice.ID, 2)
	f.account(t, bob.ID, 3)
	f.category(t, alice.ID, models.Income)

	require.NoError(t, f.svc.Accounts.DeleteAll(f.ctx, alice.ID))
	require.NoError(t, f.svc.Categories.DeleteAll(f.ctx, alice.ID))

	accounts, err := f.svc.Accounts.List(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, accounts)
	categories, err := f.svc.Categories.List(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, categories)

	accounts, err = f.svc.Accounts.List(f.ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestBudgets(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	food := f.category(t, alice.ID, models.Expense)

	_, err := f.svc.Budgets.Create(f.ctx, alice.ID, service.BudgetInput{Amount: dec("500"), Month: 13, Year: 2025, CategoryID: food.ID})
	assertKind(t, err, service.KindValidation, service.MsgInvalidMonth)

	_, err = f.svc.Budgets.Create(f.ctx, bob.ID, service.BudgetInput{Amount: dec("500"), Month: 8, Year: 2025, CategoryID: food.ID})
	assertKind(t, err, service.KindNotFound, service.MsgCategoryNotFound)

	budget, err := f.svc.Budgets.Create(f.ctx, alice.ID, service.BudgetInput{Amount: dec("500"), Month: 8, Year: 2025, CategoryID: food.ID})
	require.NoError(t, err)

	updated, err := f.svc.Budgets.Update(f.ctx, alice.ID, budget.ID, service.BudgetPatch{Amount: ptr(dec("650"))})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(dec("650")))
	assert.Equal(t, 8, updated.Month)

	_, err = f.svc.Budgets.Update(f.ctx, alice.ID, budget.ID, service.BudgetPatch{Amount: ptr(dec("-1"))})
	assertKind(t, err, service.KindValidation, service.MsgAmountNotPositive)
	stored, err := f.store.GetBudgetByID(f.ctx, budget.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(dec("650")))

	assertKind(t, f.svc.Budgets.Delete(f.ctx, bob.ID, budget.ID), service.KindNotFound, service.MsgBudgetNotFound)
	require.NoError(t, f.svc.Budgets.Delete(f.ctx, alice.ID, budget.ID))
}

func TestGoals(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.Goals.Create(f.ctx, alice.ID, service.GoalInput{Name: "Trip", Target: dec("0"), Deadline: deadline})
	assertKind(t, err, service.KindValidation, service.MsgAmountNotPositive)

	goal, err := f.svc.Goals.Create(f.ctx, alice.ID, service.GoalInput{Name: "Trip", Target: dec("5000"), Deadline: deadline})
	require.NoError(t, err)

	_, err = f.svc.Goals.Update(f.ctx, bob.ID, goal.ID, service.GoalPatch{Name: ptr("Mine")})
	assertKind(t, err, service.KindNotFound, service.MsgGoalNotFound)

	updated, err := f.svc.Goals.Update(f.ctx, alice.ID, goal.ID, service.GoalPatch{Target: ptr(dec("7500"))})
	require.NoError(t, err)
	assert.True(t, updated.Target.Equal(dec("7500")))
	assert.Equal(t, "Trip", updated.Name)

	goals, err := f.svc.Goals.List(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, goals, 1)
}

// creditingStore credits an account right after it is read for update,
// the way a transaction committed in between would.
type creditingStore struct {
	database.Store
	accountID string
	credit    decimal.Decimal
}

func (s *creditingStore) WithTx(ctx context.Context, fn func(database.Store) error) error {
	return s.Store.WithTx(ctx, func(tx database.Store) error {
		return fn(&creditingStore{Store: tx, accountID: s.accountID, credit: s.credit})
	})
}

func (s *creditingStore) GetAccountForUpdate(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.Store.GetAccountForUpdate(ctx, id)
	if err == nil && id == s.accountID {
		err = s.Store.AdjustAccountBalance(ctx, id, s.credit)
	}
	return account, err
}

func TestAccountRenameKeepsBalanceMovedMeanwhile(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice@example.com")
	account := f.account(t, user.ID, 1000)

	accounts := service.NewAccounts(&creditingStore{Store: f.store, accountID: account.ID, credit: dec("100")})
	updated, err := accounts.Update(f.ctx, user.ID, account.ID, service.AccountPatch{Name: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, updated.Balance.Equal(dec("1100")), updated.Balance.String())
	assert.True(t, f.balance(t, account.ID).Equal(dec("1100")))

	updated, err = f.svc.Accounts.Update(f.ctx, user.ID, account.ID, service.AccountPatch{Balance: ptr(dec("50"))})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, updated.Balance.Equal(dec("50")), updated.Balance.String())
	assert.True(t, f.balance(t, account.ID).Equal(dec("50")))

	_, err = f.svc.Accounts.Update(f.ctx, user.ID, account.ID, service.AccountPatch{Name: ptr("  ")})
	assertKind(t, err, service.KindValidation, service.MsgNameRequired)
}

func TestCategoryTypeLockedWhileUsed(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice@example.com")
	account := f.account(t, user.ID, 0)
	used := f.category(t, user.ID, models.Income)
	unused := f.category(t, user.ID, models.Income)

	_, err := f.svc.Transactions.Create(f.ctx, user.ID, service.TransactionInput{
		Amount: dec("10"), Date: time.Now(), Type: models.Income,
		Title: "Salary", AccountID: account.ID, CategoryID: used.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.Categories.Update(f.ctx, user.ID, used.ID, service.CategoryPatch{Type: ptr(models.Expense)})
	assertKind(t, err, service.KindValidation, service.MsgCategoryTypeLocked)

	renamed, err := f.svc.Categories.Update(f.ctx, user.ID, used.ID, service.CategoryPatch{Name: ptr("Wages"), Type: ptr(models.Income)})
	require.NoError(t, err)
	assert.Equal(t, "Wages", renamed.Name)
	assert.Equal(t, models.Income, renamed.Type)

	retyped, err := f.svc.Categories.Update(f.ctx, user.ID, unused.ID, service.CategoryPatch{Type: ptr(models.Expense)})
	require.NoError(t, err)
	assert.Equal(t, models.Expense, retyped.Type)
}

func TestTransactionUpdateClearsDescription(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice@example.com")
	account := f.account(t, user.ID, 0)
	salary := f.category(t, user.ID, models.Income)

	created, err := f.svc.Transactions.Create(f.ctx, user.ID, service.TransactionInput{
		Amount: dec("10"), Date: time.Now(), Type: models.Income, Title: "Salary",
		Description: ptr("August"), AccountID: account.ID, CategoryID: salary.ID,
	})
	require.NoError(t, err)

	kept, err := f.svc.Transactions.Update(f.ctx, user.ID, created.ID, service.TransactionPatch{Title: ptr("Pay")})
	require.NoError(t, err)
	require.NotNil(t, kept.Description)
	assert.Equal(t, "August", *kept.Description)

	cleared, err := f.svc.Transactions.Update(f.ctx, user.ID, created.ID, service.TransactionPatch{ClearDescription: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)

	stored, err := f.store.GetTransactionByID(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Description)
}

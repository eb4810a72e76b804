package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/valeriaulyamaeva/finflow/internal/service"
	"github.com/valeriaulyamaeva/finflow/models"
)

const (
	DemoEmail    = "alice@mail.com"
	DemoPassword = "secret123"
)

// SeedDemo creates the demo user Alice with one account, two categories, two
// transactions, a budget and a goal. It does nothing when Alice exists.
func SeedDemo(ctx context.Context, svc *service.Services) (*models.User, error) {
	user, err := svc.Users.Register(ctx, service.RegisterInput{Name: "Alice", Email: DemoEmail, Password: DemoPassword})
	if service.IsKind(err, service.KindConflict) {
		logrus.WithField("email", DemoEmail).Info("demo user already present, skipping")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("register demo user: %w", err)
	}

	balance := decimal.NewFromInt(2000)
	account, err := svc.Accounts.Create(ctx, user.ID, service.AccountInput{Name: "Banco XP", Type: "checking", Balance: &balance})
	if err != nil {
		return nil, fmt.Errorf("create demo account: %w", err)
	}
	salary, err := svc.Categories.Create(ctx, user.ID, service.CategoryInput{Name: "Salário", Type: models.Income})
	if err != nil {
		return nil, fmt.Errorf("create demo category: %w", err)
	}
	market, err := svc.Categories.Create(ctx, user.ID, service.CategoryInput{Name: "Mercado", Type: models.Expense})
	if err != nil {
		return nil, fmt.Errorf("create demo category: %w", err)
	}

	salaryNote, marketNote := "Salário mensal", "Supermercado"
	for _, in := range []service.TransactionInput{
		{
			Amount: decimal.NewFromInt(2000), Date: time.Date(2025, 8, 7, 0, 0, 0, 0, time.UTC), Type: models.Income,
			Title: "Recebimento salário", Description: &salaryNote, AccountID: account.ID, CategoryID: salary.ID,
		},
		{
			Amount: decimal.NewFromInt(300), Date: time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC), Type: models.Expense,
			Title: "Compra mercado", Description: &marketNote, AccountID: account.ID, CategoryID: market.ID,
		},
	} {
		if _, err := svc.Transactions.Create(ctx, user.ID, in); err != nil {
			return nil, fmt.Errorf("create demo transaction: %w", err)
		}
	}

	if _, err := svc.Budgets.Create(ctx, user.ID, service.BudgetInput{
		Amount: decimal.NewFromInt(500), Month: 8, Year: 2025, CategoryID: market.ID,
	}); err != nil {
		return nil, fmt.Errorf("create demo budget: %w", err)
	}
	if _, err := svc.Goals.Create(ctx, user.ID, service.GoalInput{
		Name: "Viagem", Target: decimal.NewFromInt(3000), Deadline: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		return nil, fmt.Errorf("create demo goal: %w", err)
	}
	return user, nil
}

// FakeData controls how much GenerateTestUsers creates per user.
type FakeData struct {
	Accounts     int
	Transactions int
	Budgets      int
	Goals        int
}

func DefaultFakeData() FakeData {
	return FakeData{Accounts: 2, Transactions: 20, Budgets: 2, Goals: 1}
}

// GenerateTestUsers registers n random users, each with random accounts,
// one income and one expense category and random transactions, budgets and
// goals. Every user's password is DemoPassword.
func GenerateTestUsers(ctx context.Context, svc *service.Services, faker *gofakeit.Faker, n int, shape FakeData) ([]models.User, error) {
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := svc.Users.Register(ctx, service.RegisterInput{
			Name:     faker.Name(),
			Email:    faker.Email(),
			Password: DemoPassword,
		})
		if service.IsKind(err, service.KindConflict) {
			continue
		}
		if err != nil {
			return users, fmt.Errorf("generate user: %w", err)
		}
		if err := generateUserData(ctx, svc, faker, user.ID, shape); err != nil {
			return users, err
		}
		users = append(users, *user)
	}
	return users, nil
}

func generateUserData(ctx context.Context, svc *service.Services, faker *gofakeit.Faker, userID string, shape FakeData) error {
	accounts := make([]*models.Account, 0, shape.Accounts)
	for i := 0; i < shape.Accounts; i++ {
		balance := money(faker, 0, 5000)
		account, err := svc.Accounts.Create(ctx, userID, service.AccountInput{
			Name:    faker.Company(),
			Type:    faker.RandomString([]string{"checking", "savings", "wallet"}),
			Balance: &balance,
		})
		if err != nil {
			return fmt.Errorf("generate account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if len(accounts) == 0 {
		return errors.New("generate user data: at least one account is needed")
	}

	categories := make(map[models.EntryType]*models.Category, 2)
	for _, entryType := range []models.EntryType{models.Income, models.Expense} {
		category, err := svc.Categories.Create(ctx, userID, service.CategoryInput{Name: faker.Word(), Type: entryType})
		if err != nil {
			return fmt.Errorf("generate category: %w", err)
		}
		categories[entryType] = category
	}

	for i := 0; i < shape.Transactions; i++ {
		entryType := models.Expense
		if faker.Bool() {
			entryType = models.Income
		}
		note := faker.Sentence(5)
		_, err := svc.Transactions.Create(ctx, userID, service.TransactionInput{
			Amount:      money(faker, 1, 1000),
			Date:        time.Now().UTC().AddDate(0, 0, -faker.Number(0, 30)),
			Type:        entryType,
			Title:       faker.BuzzWord(),
			Description: &note,
			AccountID:   accounts[faker.Number(0, len(accounts)-1)].ID,
			CategoryID:  categories[entryType].ID,
		})
		if err != nil {
			return fmt.Errorf("generate transaction: %w", err)
		}
	}

	now := time.Now().UTC()
	for i := 0; i < shape.Budgets; i++ {
		month := now.AddDate(0, i, 0)
		_, err := svc.Budgets.Create(ctx, userID, service.BudgetInput{
			Amount:     money(faker, 100, 2000),
			Month:      int(month.Month()),
			Year:       month.Year(),
			CategoryID: categories[models.Expense].ID,
		})
		if err != nil {
			return fmt.Errorf("generate budget: %w", err)
		}
	}

	for i := 0; i < shape.Goals; i++ {
		_, err := svc.Goals.Create(ctx, userID, service.GoalInput{
			Name:     faker.HipsterWord(),
			Target:   money(faker, 500, 20000),
			Deadline: now.AddDate(0, faker.Number(1, 24), 0),
		})
		if err != nil {
			return fmt.Errorf("generate goal: %w", err)
		}
	}
	return nil
}

func money(faker *gofakeit.Faker, min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(faker.Price(min, max)).Round(2)
}

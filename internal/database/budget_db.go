package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/finflow/models"
)

const budgetColumns = `id, amount, month, year, category_id, user_id, created_at, updated_at`

func (p *Postgres) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}
	query := `
		INSERT INTO budgets (id, amount, month, year, category_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := p.db.QueryRow(ctx, query,
		budget.ID,
		budget.Amount,
		budget.Month,
		budget.Year,
		budget.CategoryID,
		budget.UserID).Scan(&budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (p *Postgres) GetBudgetByID(ctx context.Context, id string) (*models.Budget, error) {
	rows, _ := p.db.Query(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id)
	budget, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.Budget])
	if err != nil {
		return nil, wrap(err, "get budget")
	}
	return budget, nil
}

func (p *Postgres) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	rows, _ := p.db.Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1
		ORDER BY year DESC, month DESC, created_at`, userID)
	budgets, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Budget])
	if err != nil {
		return nil, wrap(err, "list budgets")
	}
	return budgets, nil
}

func (p *Postgres) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	query := `
		UPDATE budgets
		SET amount = $2, month = $3, year = $4, category_id = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := p.db.QueryRow(ctx, query,
		budget.ID,
		budget.Amount,
		budget.Month,
		budget.Year,
		budget.CategoryID).Scan(&budget.UpdatedAt)
	if err != nil {
		return wrap(err, "update budget")
	}
	return nil
}

func (p *Postgres) DeleteBudget(ctx context.Context, id string) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return wrap(err, "delete budget")
	}
	return expectOne(tag, "delete budget")
}

package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/finflow/models"
)

const categoryColumns = `id, name, type, user_id, created_at, updated_at`

func (p *Postgres) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	query := `
		INSERT INTO categories (id, name, type, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := p.db.QueryRow(ctx, query, category.ID, category.Name, category.Type, category.UserID).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (p *Postgres) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	return p.getCategory(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

func (p *Postgres) GetCategoryForUpdate(ctx context.Context, id string) (*models.Category, error) {
	return p.getCategory(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, id)
}

func (p *Postgres) getCategory(ctx context.Context, query, id string) (*models.Category, error) {
	rows, _ := p.db.Query(ctx, query, id)
	category, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.Category])
	if err != nil {
		return nil, wrap(err, "get category")
	}
	return category, nil
}

func (p *Postgres) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	rows, _ := p.db.Query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE user_id = $1
		ORDER BY created_at, id`, userID)
	categories, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		return nil, wrap(err, "list categories")
	}
	return categories, nil
}

func (p *Postgres) UpdateCategory(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $2, type = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := p.db.QueryRow(ctx, query, category.ID, category.Name, category.Type).Scan(&category.UpdatedAt)
	if err != nil {
		return wrap(err, "update category")
	}
	return nil
}

func (p *Postgres) DeleteCategory(ctx context.Context, id string) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return wrap(err, "delete category")
	}
	return expectOne(tag, "delete category")
}

func (p *Postgres) DeleteCategories(ctx context.Context, userID string) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM categories WHERE user_id = $1`, userID); err != nil {
		return wrap(err, "delete categories")
	}
	return nil
}

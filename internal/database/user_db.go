package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/finflow/models"
)

const userColumns = `id, name, email, password, created_at, updated_at`

func (p *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	query := `
		INSERT INTO users (id, name, email, password)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := p.db.QueryRow(ctx, query, user.ID, user.Name, user.Email, user.Password).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create user: %w", ErrDuplicateEmail)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (p *Postgres) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	rows, _ := p.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.User])
	if err != nil {
		return nil, wrap(err, "get user")
	}
	return user, nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	rows, _ := p.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.User])
	if err != nil {
		return nil, wrap(err, "get user by email")
	}
	return user, nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, _ := p.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, wrap(err, "list users")
	}
	return users, nil
}

func (p *Postgres) DeleteUser(ctx context.Context, id string) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrap(err, "delete user")
	}
	return expectOne(tag, "delete user")
}

package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finflow/models"
)

const accountColumns = `id, name, type, balance, user_id, created_at, updated_at`

func (p *Postgres) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	query := `
		INSERT INTO accounts (id, name, type, balance, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := p.db.QueryRow(ctx, query,
		account.ID,
		account.Name,
		account.Type,
		account.Balance,
		account.UserID).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (p *Postgres) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return p.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (p *Postgres) GetAccountForUpdate(ctx context.Context, id string) (*models.Account, error) {
	return p.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
}

func (p *Postgres) getAccount(ctx context.Context, query, id string) (*models.Account, error) {
	rows, _ := p.db.Query(ctx, query, id)
	account, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.Account])
	if err != nil {
		return nil, wrap(err, "get account")
	}
	return account, nil
}

func (p *Postgres) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	rows, _ := p.db.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at, id`, userID)
	accounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, wrap(err, "list accounts")
	}
	return accounts, nil
}

func (p *Postgres) UpdateAccount(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, type = $3, updated_at = now()
		WHERE id = $1
		RETURNING balance, updated_at`

	err := p.db.QueryRow(ctx, query, account.ID, account.Name, account.Type).
		Scan(&account.Balance, &account.UpdatedAt)
	if err != nil {
		return wrap(err, "update account")
	}
	return nil
}

func (p *Postgres) SetAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	tag, err := p.db.Exec(ctx, `
		UPDATE accounts
		SET balance = $2, updated_at = now()
		WHERE id = $1`, id, balance)
	if err != nil {
		return wrap(err, "set account balance")
	}
	return expectOne(tag, "set account balance")
}

func (p *Postgres) AdjustAccountBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	tag, err := p.db.Exec(ctx, `
		UPDATE accounts
		SET balance = balance + $2, updated_at = now()
		WHERE id = $1`, id, delta)
	if err != nil {
		return wrap(err, "adjust account balance")
	}
	return expectOne(tag, "adjust account balance")
}

func (p *Postgres) DeleteAccount(ctx context.Context, id string) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return wrap(err, "delete account")
	}
	return expectOne(tag, "delete account")
}

func (p *Postgres) DeleteAccounts(ctx context.Context, userID string) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM accounts WHERE user_id = $1`, userID); err != nil {
		return wrap(err, "delete accounts")
	}
	return nil
}

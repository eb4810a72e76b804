package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/finflow/models"
)

const transactionColumns = `id, amount, date, type, title, description, account_id, category_id, user_id, created_at, updated_at`

func (p *Postgres) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.NewString()
	}
	query := `
		INSERT INTO transactions (id, amount, date, type, title, description, account_id, category_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := p.db.QueryRow(ctx, query,
		transaction.ID,
		transaction.Amount,
		transaction.Date,
		transaction.Type,
		transaction.Title,
		transaction.Description,
		transaction.AccountID,
		transaction.CategoryID,
		transaction.UserID).Scan(&transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (p *Postgres) GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	return p.getTransaction(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
}

// GetTransactionForUpdate locks the row so concurrent edits of the same
// transaction compute their balance delta one after the other.
func (p *Postgres) GetTransactionForUpdate(ctx context.Context, id string) (*models.Transaction, error) {
	return p.getTransaction(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id)
}

func (p *Postgres) getTransaction(ctx context.Context, query, id string) (*models.Transaction, error) {
	rows, _ := p.db.Query(ctx, query, id)
	transaction, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.Transaction])
	if err != nil {
		return nil, wrap(err, "get transaction")
	}
	return transaction, nil
}

func (p *Postgres) ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filter.StartDate != nil {
		add("date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("date <= $%d", *filter.EndDate)
	}
	if filter.CategoryID != "" {
		add("category_id = $%d", filter.CategoryID)
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY date DESC, created_at DESC`

	rows, _ := p.db.Query(ctx, query, args...)
	transactions, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, wrap(err, "list transactions")
	}
	return transactions, nil
}

func (p *Postgres) UpdateTransaction(ctx context.Context, transaction *models.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $2, date = $3, type = $4, title = $5, description = $6,
		    account_id = $7, category_id = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := p.db.QueryRow(ctx, query,
		transaction.ID,
		transaction.Amount,
		transaction.Date,
		transaction.Type,
		transaction.Title,
		transaction.Description,
		transaction.AccountID,
		transaction.CategoryID).Scan(&transaction.UpdatedAt)
	if err != nil {
		return wrap(err, "update transaction")
	}
	return nil
}

func (p *Postgres) DeleteTransaction(ctx context.Context, id string) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return wrap(err, "delete transaction")
	}
	return expectOne(tag, "delete transaction")
}

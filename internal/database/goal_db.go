package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/finflow/models"
)

const goalColumns = `id, name, target, deadline, user_id, created_at, updated_at`

// CreateGoal stores a new savings goal.
func (p *Postgres) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	query := `
		INSERT INTO goals (id, name, target, deadline, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := p.db.QueryRow(ctx, query, goal.ID, goal.Name, goal.Target, goal.Deadline, goal.UserID).
		Scan(&goal.CreatedAt, &goal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

func (p *Postgres) GetGoalByID(ctx context.Context, id string) (*models.Goal, error) {
	rows, _ := p.db.Query(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id)
	goal, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.Goal])
	if err != nil {
		return nil, wrap(err, "get goal")
	}
	return goal, nil
}

// ListGoals returns the user's goals, nearest deadline first.
func (p *Postgres) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	rows, _ := p.db.Query(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE user_id = $1
		ORDER BY deadline, created_at`, userID)
	goals, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Goal])
	if err != nil {
		return nil, wrap(err, "list goals")
	}
	return goals, nil
}

func (p *Postgres) UpdateGoal(ctx context.Context, goal *models.Goal) error {
	query := `
		UPDATE goals
		SET name = $2, target = $3, deadline = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := p.db.QueryRow(ctx, query, goal.ID, goal.Name, goal.Target, goal.Deadline).Scan(&goal.UpdatedAt)
	if err != nil {
		return wrap(err, "update goal")
	}
	return nil
}

func (p *Postgres) DeleteGoal(ctx context.Context, id string) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return wrap(err, "delete goal")
	}
	return expectOne(tag, "delete goal")
}

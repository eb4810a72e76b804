package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finflow/internal/database"
	"github.com/valeriaulyamaeva/finflow/models"
)

type GoalInput struct {
	Name     string
	Target   decimal.Decimal
	Deadline time.Time
}

type GoalPatch struct {
	Name     *string
	Target   *decimal.Decimal
	Deadline *time.Time
}

type Goals struct {
	store database.Store
}

func NewGoals(store database.Store) *Goals {
	return &Goals{store: store}
}

func (s *Goals) Create(ctx context.Context, userID string, in GoalInput) (*models.Goal, error) {
	if blank(in.Name) {
		return nil, validationError(MsgNameRequired)
	}
	if !in.Target.IsPositive() {
		return nil, validationError(MsgAmountNotPositive)
	}
	goal := &models.Goal{Name: in.Name, Target: in.Target, Deadline: in.Deadline.UTC(), UserID: userID}
	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *Goals) List(ctx context.Context, userID string) ([]models.Goal, error) {
	return s.store.ListGoals(ctx, userID)
}

func (s *Goals) Update(ctx context.Context, userID, id string, patch GoalPatch) (*models.Goal, error) {
	goal, err := fetchOwned(ctx, s.store.GetGoalByID, id, userID, MsgGoalNotFound)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if blank(*patch.Name) {
			return nil, validationError(MsgNameRequired)
		}
		goal.Name = *patch.Name
	}
	if patch.Target != nil {
		if !patch.Target.IsPositive() {
			return nil, validationError(MsgAmountNotPositive)
		}
		goal.Target = *patch.Target
	}
	if patch.Deadline != nil {
		goal.Deadline = patch.Deadline.UTC()
	}
	if err := s.store.UpdateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *Goals) Delete(ctx context.Context, userID, id string) error {
	return s.store.WithTx(ctx, func(tx database.Store) error {
		if _, err := fetchOwned(ctx, tx.GetGoalByID, id, userID, MsgGoalNotFound); err != nil {
			return err
		}
		return tx.DeleteGoal(ctx, id)
	})
}

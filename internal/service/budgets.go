package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finflow/internal/database"
	"github.com/valeriaulyamaeva/finflow/models"
)

type BudgetInput struct {
	Amount     decimal.Decimal
	Month      int
	Year       int
	CategoryID string
}

type BudgetPatch struct {
	Amount     *decimal.Decimal
	Month      *int
	Year       *int
	CategoryID *string
}

type Budgets struct {
	store database.Store
}

func NewBudgets(store database.Store) *Budgets {
	return &Budgets{store: store}
}

func validateBudget(b models.Budget) error {
	switch {
	case !b.Amount.IsPositive():
		return validationError(MsgAmountNotPositive)
	case b.Month < 1 || b.Month > 12:
		return validationError(MsgInvalidMonth)
	case b.Year < 1900 || b.Year > 9999:
		return validationError(MsgInvalidYear)
	}
	return nil
}

func (s *Budgets) Create(ctx context.Context, userID string, in BudgetInput) (*models.Budget, error) {
	budget := &models.Budget{
		Amount:     in.Amount,
		Month:      in.Month,
		Year:       in.Year,
		CategoryID: in.CategoryID,
		UserID:     userID,
	}
	if err := validateBudget(*budget); err != nil {
		return nil, err
	}
	err := s.store.WithTx(ctx, func(tx database.Store) error {
		if _, err := fetchOwned(ctx, tx.GetCategoryByID, in.CategoryID, userID, MsgCategoryNotFound); err != nil {
			return err
		}
		return tx.CreateBudget(ctx, budget)
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *Budgets) List(ctx context.Context, userID string) ([]models.Budget, error) {
	return s.store.ListBudgets(ctx, userID)
}

func (s *Budgets) Update(ctx context.Context, userID, id string, patch BudgetPatch) (*models.Budget, error) {
	var budget *models.Budget
	err := s.store.WithTx(ctx, func(tx database.Store) error {
		var err error
		budget, err = fetchOwned(ctx, tx.GetBudgetByID, id, userID, MsgBudgetNotFound)
		if err != nil {
			return err
		}
		if patch.Amount != nil {
			budget.Amount = *patch.Amount
		}
		if patch.Month != nil {
			budget.Month = *patch.Month
		}
		if patch.Year != nil {
			budget.Year = *patch.Year
		}
		if patch.CategoryID != nil {
			if _, err := fetchOwned(ctx, tx.GetCategoryByID, *patch.CategoryID, userID, MsgCategoryNotFound); err != nil {
				return err
			}
			budget.CategoryID = *patch.CategoryID
		}
		if err := validateBudget(*budget); err != nil {
			return err
		}
		return tx.UpdateBudget(ctx, budget)
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *Budgets) Delete(ctx context.Context, userID, id string) error {
	return s.store.WithTx(ctx, func(tx database.Store) error {
		if _, err := fetchOwned(ctx, tx.GetBudgetByID, id, userID, MsgBudgetNotFound); err != nil {
			return err
		}
		return tx.DeleteBudget(ctx, id)
	})
}

package service

import (
	"context"

	"github.com/valeriaulyamaeva/finflow/internal/database"
	"github.com/valeriaulyamaeva/finflow/models"
)

type CategoryInput struct {
	Name string
	Type models.EntryType
}

type CategoryPatch struct {
	Name *string
	Type *models.EntryType
}

type Categories struct {
	store database.Store
}

func NewCategories(store database.Store) *Categories {
	return &Categories{store: store}
}

func (s *Categories) Create(ctx context.Context, userID string, in CategoryInput) (*models.Category, error) {
	if !in.Type.Valid() {
		return nil, validationError(MsgInvalidCategoryType)
	}
	if blank(in.Name) {
		return nil, validationError(MsgNameRequired)
	}
	category := &models.Category{Name: in.Name, Type: in.Type, UserID: userID}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Categories) List(ctx context.Context, userID string) ([]models.Category, error) {
	return s.store.ListCategories(ctx, userID)
}

// Update renames or retypes the category. The type is fixed while the
// category has transactions.
func (s *Categories) Update(ctx context.Context, userID, id string, patch CategoryPatch) (*models.Category, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, validationError(MsgInvalidCategoryType)
	}
	if patch.Name != nil && blank(*patch.Name) {
		return nil, validationError(MsgNameRequired)
	}

	var category *models.Category
	err := s.store.WithTx(ctx, func(tx database.Store) error {
		var err error
		category, err = fetchOwned(ctx, tx.GetCategoryForUpdate, id, userID, MsgCategoryNotFound)
		if err != nil {
			return err
		}
		if patch.Type != nil && *patch.Type != category.Type {
			used, err := tx.ListTransactions(ctx, userID, database.TransactionFilter{CategoryID: id})
			if err != nil {
				return err
			}
			if len(used) > 0 {
				return validationError(MsgCategoryTypeLocked)
			}
			category.Type = *patch.Type
		}
		if patch.Name != nil {
			category.Name = *patch.Name
		}
		return tx.UpdateCategory(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the category with its transactions and budgets. Account
// balances are left as they are.
func (s *Categories) Delete(ctx context.Context, userID, id string) error {
	return s.store.WithTx(ctx, func(tx database.Store) error {
		if _, err := fetchOwned(ctx, tx.GetCategoryByID, id, userID, MsgCategoryNotFound); err != nil {
			return err
		}
		return tx.DeleteCategory(ctx, id)
	})
}

func (s *Categories) DeleteAll(ctx context.Context, userID string) error {
	return s.store.DeleteCategories(ctx, userID)
}

package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finflow/internal/database"
	"github.com/valeriaulyamaeva/finflow/models"
)

type TransactionInput struct {
	Amount      decimal.Decimal
	Date        time.Time
	Type        models.EntryType
	Title       string
	Description *string
	AccountID   string
	CategoryID  string
}

type TransactionPatch struct {
	Amount      *decimal.Decimal
	Date        *time.Time
	Type        *models.EntryType
	Title       *string
	Description *string
	// ClearDescription removes the description; it wins over Description.
	ClearDescription bool
	AccountID        *string
	CategoryID       *string
}

type Transactions struct {
	store database.Store
}

func NewTransactions(store database.Store) *Transactions {
	return &Transactions{store: store}
}

// Create records the transaction and applies its effect to the account
// balance in one unit of work.
func (s *Transactions) Create(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error) {
	if !in.Type.Valid() {
		return nil, validationError(MsgInvalidTransactionType)
	}
	if !in.Amount.IsPositive() {
		return nil, validationError(MsgAmountNotPositive)
	}
	if blank(in.Title) {
		return nil, validationError(MsgTitleRequired)
	}

	transaction := &models.Transaction{
		Amount:      in.Amount,
		Date:        in.Date.UTC(),
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		AccountID:   in.AccountID,
		CategoryID:  in.CategoryID,
		UserID:      userID,
	}
	err := s.store.WithTx(ctx, func(tx database.Store) error {
		if err := checkCategoryType(ctx, tx, userID, in.CategoryID, in.Type); err != nil {
			return err
		}
		if _, err := fetchOwned(ctx, tx.GetAccountByID, in.AccountID, userID, MsgAccountNotFound); err != nil {
			return err
		}
		if err := tx.CreateTransaction(ctx, transaction); err != nil {
			return err
		}
		return tx.AdjustAccountBalance(ctx, transaction.AccountID, transaction.BalanceEffect())
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *Transactions) List(ctx context.Context, userID string, filter database.TransactionFilter) ([]models.Transaction, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, validationError(MsgInvalidTransactionType)
	}
	return s.store.ListTransactions(ctx, userID, filter)
}

// Update applies the patch, reverses the old balance effect on the old
// account and applies the new effect on the (possibly different) new one.
func (s *Transactions) Update(ctx context.Context, userID, id string, patch TransactionPatch) (*models.Transaction, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, validationError(MsgInvalidTransactionType)
	}
	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return nil, validationError(MsgAmountNotPositive)
	}
	if patch.Title != nil && blank(*patch.Title) {
		return nil, validationError(MsgTitleRequired)
	}

	var updated models.Transaction
	err := s.store.WithTx(ctx, func(tx database.Store) error {
		current, err := fetchOwned(ctx, tx.GetTransactionForUpdate, id, userID, MsgTransactionNotFound)
		if err != nil {
			return err
		}
		updated = patch.applyTo(*current)

		if patch.CategoryID != nil || patch.Type != nil {
			if err := checkCategoryType(ctx, tx, userID, updated.CategoryID, updated.Type); err != nil {
				return err
			}
		}
		if updated.AccountID != current.AccountID {
			if _, err := fetchOwned(ctx, tx.GetAccountByID, updated.AccountID, userID, MsgAccountNotFound); err != nil {
				return err
			}
		}

		if err := tx.UpdateTransaction(ctx, &updated); err != nil {
			return err
		}
		return moveBalance(ctx, tx, *current, updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the transaction and reverses its balance effect.
func (s *Transactions) Delete(ctx context.Context, userID, id string) error {
	return s.store.WithTx(ctx, func(tx database.Store) error {
		transaction, err := fetchOwned(ctx, tx.GetTransactionForUpdate, id, userID, MsgTransactionNotFound)
		if err != nil {
			return err
		}
		if err := tx.DeleteTransaction(ctx, id); err != nil {
			return err
		}
		return tx.AdjustAccountBalance(ctx, transaction.AccountID, transaction.BalanceEffect().Neg())
	})
}

func (p TransactionPatch) applyTo(t models.Transaction) models.Transaction {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Date != nil {
		t.Date = p.Date.UTC()
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = p.Description
	}
	if p.ClearDescription {
		t.Description = nil
	}
	if p.AccountID != nil {
		t.AccountID = *p.AccountID
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	return t
}

// checkCategoryType loads the requester's category and requires its type to
// match the transaction type. The category row stays locked so its type
// cannot change before the unit of work commits.
func checkCategoryType(ctx context.Context, store database.Store, userID, categoryID string, entryType models.EntryType) error {
	category, err := fetchOwned(ctx, store.GetCategoryForUpdate, categoryID, userID, MsgCategoryNotFound)
	if err != nil {
		return err
	}
	if category.Type != entryType {
		return validationError(MsgTypeMismatch)
	}
	return nil
}

func moveBalance(ctx context.Context, store database.Store, before, after models.Transaction) error {
	if before.AccountID == after.AccountID {
		delta := after.BalanceEffect().Sub(before.BalanceEffect())
		if delta.IsZero() {
			return nil
		}
		return store.AdjustAccountBalance(ctx, after.AccountID, delta)
	}
	if err := store.AdjustAccountBalance(ctx, before.AccountID, before.BalanceEffect().Neg()); err != nil {
		return err
	}
	return store.AdjustAccountBalance(ctx, after.AccountID, after.BalanceEffect())
}

package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finflow/internal/database"
	"github.com/valeriaulyamaeva/finflow/models"
)

type AccountInput struct {
	Name    string
	Type    string
	Balance *decimal.Decimal
}

// AccountPatch holds the fields to change; nil fields are left alone.
type AccountPatch struct {
	Name    *string
	Type    *string
	Balance *decimal.Decimal
}

type Accounts struct {
	store database.Store
}

func NewAccounts(store database.Store) *Accounts {
	return &Accounts{store: store}
}

func (s *Accounts) Create(ctx context.Context, userID string, in AccountInput) (*models.Account, error) {
	if blank(in.Name) {
		return nil, validationError(MsgNameRequired)
	}
	account := &models.Account{Name: in.Name, Type: in.Type, UserID: userID}
	if in.Balance != nil {
		account.Balance = *in.Balance
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Accounts) List(ctx context.Context, userID string) ([]models.Account, error) {
	return s.store.ListAccounts(ctx, userID)
}

// Update writes name and type and, only when the patch carries one, the new
// balance. A balance moved by transactions since the account was read is kept.
func (s *Accounts) Update(ctx context.Context, userID, id string, patch AccountPatch) (*models.Account, error) {
	if patch.Name != nil && blank(*patch.Name) {
		return nil, validationError(MsgNameRequired)
	}

	var account *models.Account
	err := s.store.WithTx(ctx, func(tx database.Store) error {
		var err error
		account, err = fetchOwned(ctx, tx.GetAccountForUpdate, id, userID, MsgAccountNotFound)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			account.Name = *patch.Name
		}
		if patch.Type != nil {
			account.Type = *patch.Type
		}
		if patch.Balance != nil {
			if err := tx.SetAccountBalance(ctx, account.ID, *patch.Balance); err != nil {
				return err
			}
		}
		return tx.UpdateAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Delete removes the account together with its transactions.
func (s *Accounts) Delete(ctx context.Context, userID, id string) error {
	return s.store.WithTx(ctx, func(tx database.Store) error {
		if _, err := fetchOwned(ctx, tx.GetAccountByID, id, userID, MsgAccountNotFound); err != nil {
			return err
		}
		return tx.DeleteAccount(ctx, id)
	})
}

func (s *Accounts) DeleteAll(ctx context.Context, userID string) error {
	return s.store.DeleteAccounts(ctx, userID)
}

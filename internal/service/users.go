package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/valeriaulyamaeva/finflow/internal/auth"
	"github.com/valeriaulyamaeva/finflow/internal/database"
	"github.com/valeriaulyamaeva/finflow/models"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type Users struct {
	store  database.Store
	tokens TokenIssuer
}

func NewUsers(store database.Store, tokens TokenIssuer) *Users {
	return &Users{store: store, tokens: tokens}
}

func (s *Users) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	if blank(in.Name) {
		return nil, validationError(MsgNameRequired)
	}

	_, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, &Error{Kind: KindConflict, Message: MsgEmailTaken}
	case !errors.Is(err, database.ErrNotFound):
		return nil, err
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: strings.TrimSpace(in.Name), Email: email, Password: hashed}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, &Error{Kind: KindConflict, Message: MsgEmailTaken, Err: err}
		}
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns a signed token for the user.
func (s *Users) Login(ctx context.Context, email, password string) (string, error) {
	invalid := &Error{Kind: KindUnauthorized, Message: MsgInvalidCredentials}

	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, database.ErrNotFound) {
		logrus.WithField("email", email).Warn("login failed: unknown email")
		return "", invalid
	}
	if err != nil {
		return "", err
	}
	if !auth.CheckPassword(user.Password, password) {
		logrus.WithField("user_id", user.ID).Warn("login failed: password mismatch")
		return "", invalid
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *Users) List(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *Users) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFoundError(MsgUserNotFound, err)
	}
	return user, err
}

// Delete removes the user and everything the user owns.
func (s *Users) Delete(ctx context.Context, id string) error {
	err := s.store.DeleteUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return notFoundError(MsgUserNotFound, err)
	}
	return err
}

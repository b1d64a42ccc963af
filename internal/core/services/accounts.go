package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/gsignin/internal/core/domain"
	"github.com/custodia-labs/gsignin/internal/core/ports/driven"
	"github.com/custodia-labs/gsignin/internal/core/ports/driving"
)

// Ensure AccountService implements the interface.
var _ driving.AccountService = (*AccountService)(nil)

// AccountService manages the local account registry.
type AccountService struct {
	store driven.AccountStore
}

// NewAccountService creates a new account service.
func NewAccountService(store driven.AccountStore) *AccountService {
	return &AccountService{
		store: store,
	}
}

// List returns all known accounts.
func (s *AccountService) List(ctx context.Context) ([]domain.StoredAccount, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.List(ctx)
}

// Current returns the signed-in account.
func (s *AccountService) Current(ctx context.Context) (*domain.StoredAccount, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.Current(ctx)
}

// Resolve finds the handle for email, or the signed-in account when email is empty.
func (s *AccountService) Resolve(ctx context.Context, email string) (domain.AccountHandle, error) {
	if s.store == nil {
		return domain.AccountHandle{}, domain.ErrNotImplemented
	}

	if email == "" {
		acct, err := s.store.Current(ctx)
		if err != nil {
			return domain.AccountHandle{}, fmt.Errorf("no signed-in account: %w", err)
		}
		return acct.Handle(), nil
	}

	acct, err := s.store.Get(ctx, domain.NewGoogleAccountHandle(email))
	if err != nil {
		return domain.AccountHandle{}, fmt.Errorf("account %s: %w", email, err)
	}
	return acct.Handle(), nil
}

// Forget removes an account and its tokens.
func (s *AccountService) Forget(ctx context.Context, email string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if email == "" {
		return domain.ErrInvalidInput
	}
	return s.store.Delete(ctx, domain.NewGoogleAccountHandle(email))
}

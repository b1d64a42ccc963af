package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/gsignin/internal/core/domain"
	"github.com/custodia-labs/gsignin/internal/core/ports/driven"
)

// Ensure AccountStore implements the interface.
var _ driven.AccountStore = (*AccountStore)(nil)

// AccountStore is an in-memory implementation of driven.AccountStore.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[domain.AccountHandle]domain.StoredAccount
}

// NewAccountStore creates a new in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[domain.AccountHandle]domain.StoredAccount),
	}
}

// Save stores or updates an account. It never changes which account is current.
func (s *AccountStore) Save(_ context.Context, account domain.StoredAccount) error {
	if account.ID == "" || account.Handle().IsZero() {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	account.SignedIn = false
	if existing, ok := s.accounts[account.Handle()]; ok {
		account.ID = existing.ID
		account.SignedIn = existing.SignedIn
	}
	s.accounts[account.Handle()] = cloneAccount(account)
	return nil
}

// Get retrieves an account by handle.
func (s *AccountStore) Get(_ context.Context, handle domain.AccountHandle) (*domain.StoredAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[handle]
	if !ok {
		return nil, domain.ErrNotFound
	}
	account = cloneAccount(account)
	return &account, nil
}

// List returns all accounts ordered by creation time.
func (s *AccountStore) List(_ context.Context) ([]domain.StoredAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.StoredAccount, 0, len(s.accounts))
	for _, account := range s.accounts {
		result = append(result, cloneAccount(account))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Profile.Email < result[j].Profile.Email
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Current returns the signed-in account.
func (s *AccountStore) Current(_ context.Context) (*domain.StoredAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, account := range s.accounts {
		if account.SignedIn {
			account = cloneAccount(account)
			return &account, nil
		}
	}
	return nil, domain.ErrNotFound
}

// SetCurrent marks handle as the only signed-in account.
func (s *AccountStore) SetCurrent(_ context.Context, handle domain.AccountHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[handle]; !ok {
		return domain.ErrNotFound
	}
	for h, account := range s.accounts {
		account.SignedIn = h == handle
		s.accounts[h] = account
	}
	return nil
}

// ClearCurrent signs every account out.
func (s *AccountStore) ClearCurrent(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for h, account := range s.accounts {
		account.SignedIn = false
		s.accounts[h] = account
	}
	return nil
}

// Delete removes an account.
func (s *AccountStore) Delete(_ context.Context, handle domain.AccountHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, handle)
	return nil
}

func cloneAccount(a domain.StoredAccount) domain.StoredAccount {
	if a.Scopes != nil {
		a.Scopes = append([]string(nil), a.Scopes...)
	}
	return a
}

package driven

import (
	"context"

	"github.com/custodia-labs/gsignin/internal/core/domain"
)

// AccountStore persists accounts known to the local account registry.
type AccountStore interface {
	// Save stores an account. Creates if new, updates if exists.
	Save(ctx context.Context, account domain.StoredAccount) error

	// Get retrieves an account by handle.
	// Returns domain.ErrNotFound if the account is unknown.
	Get(ctx context.Context, handle domain.AccountHandle) (*domain.StoredAccount, error)

	// List returns all accounts.
	List(ctx context.Context) ([]domain.StoredAccount, error)

	// Current returns the signed-in account.
	// Returns domain.ErrNotFound if no account is signed in.
	Current(ctx context.Context) (*domain.StoredAccount, error)

	// SetCurrent marks handle as the only signed-in account.
	SetCurrent(ctx context.Context, handle domain.AccountHandle) error

	// ClearCurrent signs every account out without deleting it.
	ClearCurrent(ctx context.Context) error

	// Delete removes an account.
	Delete(ctx context.Context, handle domain.AccountHandle) error
}

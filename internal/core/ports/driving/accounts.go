package driving

import (
	"context"

	"github.com/custodia-labs/gsignin/internal/core/domain"
)

// AccountService manages the local account registry.
type AccountService interface {
	// List returns all known accounts.
	List(ctx context.Context) ([]domain.StoredAccount, error)

	// Current returns the signed-in account.
	Current(ctx context.Context) (*domain.StoredAccount, error)

	// Resolve finds the handle for an email, or the current account if email is empty.
	Resolve(ctx context.Context, email string) (domain.AccountHandle, error)

	// Forget removes an account and its tokens.
	Forget(ctx context.Context, email string) error
}

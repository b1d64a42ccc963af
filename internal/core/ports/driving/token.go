package driving

import (
	"context"

	"github.com/custodia-labs/gsignin/internal/core/domain"
)

// TokenAcquirer exchanges an account handle for a verified, non-stale access token.
type TokenAcquirer interface {
	// Acquire fetches and verifies a token for account, invalidating and
	// retrying once when verification reports an I/O-class failure.
	Acquire(ctx context.Context, account domain.AccountHandle) (*domain.TokenRecord, error)
}

package driven

import (
	"context"

	"github.com/custodia-labs/gsignin/internal/core/domain"
)

// AccountTokenStore is the platform account manager's token cache.
// It may return a cached token; Invalidate tells it to stop reusing one.
type AccountTokenStore interface {
	// FetchToken returns a raw access token for account and scope.
	// May block on network I/O.
	FetchToken(ctx context.Context, account domain.AccountHandle, scope string) (string, error)

	// Invalidate marks token as no longer trustworthy so the next fetch
	// does not return it.
	Invalidate(ctx context.Context, account domain.AccountHandle, token string) error
}

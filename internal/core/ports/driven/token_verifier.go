package driven

import (
	"context"

	"github.com/custodia-labs/gsignin/internal/core/domain"
)

// TokenVerifier checks a raw token against a remote verification endpoint.
//
// Failures are classified as domain.ErrIO (transport failures and tokens with
// less than domain.StaleTokenFloor seconds left) or domain.ErrMalformedResponse.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*domain.TokenRecord, error)
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/gsignin/internal/core/domain"
	"github.com/custodia-labs/gsignin/internal/core/ports/driven"
	"github.com/custodia-labs/gsignin/internal/core/ports/driving"
	"github.com/custodia-labs/gsignin/internal/logger"
)

// maxAcquireAttempts bounds fetch/verify rounds per acquisition.
const maxAcquireAttempts = 2

// Ensure TokenAcquirer implements the interface.
var _ driving.TokenAcquirer = (*TokenAcquirer)(nil)

// TokenAcquirer produces verified access tokens for account handles.
// It holds no state between calls.
type TokenAcquirer struct {
	store    driven.AccountTokenStore
	verifier driven.TokenVerifier
}

// NewTokenAcquirer creates a token acquirer.
func NewTokenAcquirer(store driven.AccountTokenStore, verifier driven.TokenVerifier) *TokenAcquirer {
	return &TokenAcquirer{
		store:    store,
		verifier: verifier,
	}
}

// Acquire fetches a token for account and verifies it. When verification fails
// with domain.ErrIO on the first attempt the token is invalidated in the store
// and the sequence runs once more. Every other failure propagates unchanged.
func (a *TokenAcquirer) Acquire(ctx context.Context, account domain.AccountHandle) (*domain.TokenRecord, error) {
	if a.store == nil || a.verifier == nil {
		return nil, domain.ErrNotImplemented
	}

	var lastErr error
	for attempt := 1; attempt <= maxAcquireAttempts; attempt++ {
		logger.Debug("acquire %s: attempt %d/%d", account, attempt, maxAcquireAttempts)

		raw, err := a.store.FetchToken(ctx, account, domain.TokenScope)
		if err != nil {
			return nil, accountStoreError("fetch token", err)
		}

		record, err := a.verifier.Verify(ctx, raw)
		if err == nil {
			return record, nil
		}
		lastErr = err
		if !domain.IsRetryable(err) || attempt == maxAcquireAttempts {
			break
		}

		// Must complete before the next fetch so the store cannot hand back the same token.
		logger.Debug("acquire %s: verification failed, invalidating token: %v", account, err)
		if err := a.store.Invalidate(ctx, account, raw); err != nil {
			return nil, accountStoreError("invalidate token", err)
		}
	}
	return nil, lastErr
}

func accountStoreError(op string, err error) error {
	if errors.Is(err, domain.ErrAccountStore) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrAccountStore, err)
}

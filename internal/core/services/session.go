package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/gsignin/internal/core/domain"
	"github.com/custodia-labs/gsignin/internal/core/ports/driven"
	"github.com/custodia-labs/gsignin/internal/core/ports/driving"
	"github.com/custodia-labs/gsignin/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService implements sign-in, refresh and sign-out on top of a
// platform sign-in client and a token acquirer.
type SessionService struct {
	client   driven.SignInClient
	acquirer driving.TokenAcquirer
}

// NewSessionService creates a new session service.
func NewSessionService(client driven.SignInClient, acquirer driving.TokenAcquirer) *SessionService {
	return &SessionService{
		client:   client,
		acquirer: acquirer,
	}
}

// Initialize validates the options.
func (s *SessionService) Initialize(_ context.Context, opts domain.SignInOptions) error {
	return opts.Validate()
}

// SignIn runs the interactive flow, then acquires an access token for the account.
func (s *SessionService) SignIn(ctx context.Context, opts domain.SignInOptions) (*domain.SignInResult, error) {
	if s.client == nil || s.acquirer == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger.Section("Sign In")
	account, err := s.client.SignInInteractive(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("signed in as %s", account.Account)

	record, err := s.acquirer.Acquire(ctx, account.Account)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenRetrieval, err)
	}

	return domain.NewSignInResult(account, record), nil
}

// Refresh silently re-authenticates, then acquires an access token.
func (s *SessionService) Refresh(ctx context.Context, opts domain.SignInOptions) (*domain.RefreshResult, error) {
	if s.client == nil || s.acquirer == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger.Section("Refresh")
	account, err := s.client.SignInSilent(ctx, opts)
	if err != nil {
		return nil, err
	}

	record, err := s.acquirer.Acquire(ctx, account.Account)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenRetrieval, err)
	}

	return domain.NewRefreshResult(account, record), nil
}

// SignOut delegates to the sign-in client.
func (s *SessionService) SignOut(ctx context.Context, opts domain.SignInOptions) error {
	if s.client == nil {
		return domain.ErrNotImplemented
	}
	return s.client.SignOut(ctx, opts)
}

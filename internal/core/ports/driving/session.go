package driving

import (
	"context"

	"github.com/custodia-labs/gsignin/internal/core/domain"
)

// SessionService exposes the sign-in operations to a host application.
// Every operation receives the caller-owned options explicitly.
type SessionService interface {
	// Initialize validates opts. It performs no I/O.
	Initialize(ctx context.Context, opts domain.SignInOptions) error

	// SignIn runs the interactive flow and acquires an access token.
	SignIn(ctx context.Context, opts domain.SignInOptions) (*domain.SignInResult, error)

	// Refresh silently re-authenticates and acquires an access token.
	Refresh(ctx context.Context, opts domain.SignInOptions) (*domain.RefreshResult, error)

	// SignOut signs the current account out.
	SignOut(ctx context.Context, opts domain.SignInOptions) error
}

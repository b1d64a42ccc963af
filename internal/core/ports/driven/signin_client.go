package driven

import (
	"context"

	"github.com/custodia-labs/gsignin/internal/core/domain"
)

// SignInClient is the platform's interactive and silent sign-in collaborator.
// Failures carry a *domain.StatusError.
type SignInClient interface {
	// SignInInteractive runs the user-facing flow. A user abort fails with
	// domain.StatusSignInCancelled.
	SignInInteractive(ctx context.Context, opts domain.SignInOptions) (*domain.GoogleAccount, error)

	// SignInSilent re-authenticates the last signed-in account without user interaction.
	SignInSilent(ctx context.Context, opts domain.SignInOptions) (*domain.GoogleAccount, error)

	// SignOut forgets the signed-in account.
	SignOut(ctx context.Context, opts domain.SignInOptions) error
}

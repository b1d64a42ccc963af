package accountmanager

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/gsignin/internal/core/domain"
	"github.com/custodia-labs/gsignin/internal/core/ports/driving"
)

// acquirerTokenSource adapts a TokenAcquirer to oauth2.TokenSource so that
// Google API clients receive verified tokens.
type acquirerTokenSource struct {
	ctx      context.Context
	acquirer driving.TokenAcquirer
	account  domain.AccountHandle
}

// NewTokenSource returns an oauth2.TokenSource that acquires verified tokens for account.
// The result is wrapped in oauth2.ReuseTokenSource, so a token is only
// re-acquired once it has expired.
func NewTokenSource(ctx context.Context, acquirer driving.TokenAcquirer, account domain.AccountHandle) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &acquirerTokenSource{
		ctx:      ctx,
		acquirer: acquirer,
		account:  account,
	})
}

// Token implements oauth2.TokenSource.
func (t *acquirerTokenSource) Token() (*oauth2.Token, error) {
	record, err := t.acquirer.Acquire(t.ctx, t.account)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: record.AccessToken,
		TokenType:   "Bearer",
		Expiry:      record.Expiry(),
	}, nil
}

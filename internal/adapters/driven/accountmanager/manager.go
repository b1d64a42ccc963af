// Package accountmanager keeps per-account OAuth tokens on the device.
//
// It plays the part of a platform account manager: it stores the refresh
// token for every signed-in Google account, mints access tokens from it on
// demand, caches the most recent access token and forgets it when told the
// token is no longer good.
package accountmanager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/gsignin/internal/core/domain"
	"github.com/custodia-labs/gsignin/internal/core/ports/driven"
	"github.com/custodia-labs/gsignin/internal/logger"
)

// scopePrefix marks a scope string in account-manager form.
const scopePrefix = "oauth2:"

// Ensure Manager implements the interface.
var _ driven.AccountTokenStore = (*Manager)(nil)

// Manager implements driven.AccountTokenStore over an AccountStore.
type Manager struct {
	store  driven.AccountStore
	config *oauth2.Config
	now    func() time.Time

	// mu serialises token minting so concurrent fetches for one account
	// do not race to overwrite each other's cache entry.
	mu sync.Mutex
}

// New creates a manager that mints tokens with config.
func New(store driven.AccountStore, config *oauth2.Config) *Manager {
	return &Manager{
		store:  store,
		config: config,
		now:    time.Now,
	}
}

// SetConfig replaces the OAuth client used to mint tokens.
func (m *Manager) SetConfig(config *oauth2.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

// FetchToken returns a usable access token for account.
// scope must be in "oauth2:<space separated scopes>" form.
func (m *Manager) FetchToken(ctx context.Context, account domain.AccountHandle, scope string) (string, error) {
	if _, err := ParseScope(scope); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct, err := m.store.Get(ctx, account)
	if err != nil {
		return "", fmt.Errorf("load account %s: %w", account, err)
	}

	if acct.HasCachedToken(m.now()) {
		logger.Debug("account manager: cached token %s for %s", logger.Redact(acct.AccessToken), account)
		return acct.AccessToken, nil
	}

	if !acct.HasRefreshToken() {
		return "", fmt.Errorf("account %s has no refresh token: %w", account, domain.ErrNotFound)
	}
	if m.config == nil {
		return "", domain.ErrNotImplemented
	}

	logger.Debug("account manager: minting token for %s", account)
	tok, err := m.config.TokenSource(ctx, &oauth2.Token{RefreshToken: acct.RefreshToken}).Token()
	if err != nil {
		return "", fmt.Errorf("refresh token for %s: %w", account, err)
	}

	applyToken(acct, tok)
	acct.UpdatedAt = m.now()
	if err := m.store.Save(ctx, *acct); err != nil {
		return "", fmt.Errorf("save account %s: %w", account, err)
	}

	return tok.AccessToken, nil
}

// Invalidate drops token from the cache when it is the one held for account.
func (m *Manager) Invalidate(ctx context.Context, account domain.AccountHandle, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, err := m.store.Get(ctx, account)
	if err != nil {
		return fmt.Errorf("load account %s: %w", account, err)
	}
	if acct.AccessToken != token {
		return nil
	}

	logger.Debug("account manager: invalidating %s for %s", logger.Redact(token), account)
	acct.ClearAccessToken()
	acct.UpdatedAt = m.now()
	return m.store.Save(ctx, *acct)
}

// Register records a freshly signed-in account and makes it current.
// An existing entry for the same account keeps its ID, creation time and,
// when tok carries none, its refresh token.
func (m *Manager) Register(
	ctx context.Context,
	profile domain.GoogleAccount,
	tok *oauth2.Token,
	scopes []string,
) (*domain.StoredAccount, error) {
	if profile.Account.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	acct, err := m.store.Get(ctx, profile.Account)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		acct = &domain.StoredAccount{
			ID:        uuid.New().String(),
			CreatedAt: now,
		}
	case err != nil:
		return nil, fmt.Errorf("load account %s: %w", profile.Account, err)
	}

	acct.Profile = profile
	acct.Scopes = scopes
	acct.UpdatedAt = now
	if tok != nil {
		applyToken(acct, tok)
	}
	if !acct.HasRefreshToken() {
		logger.Warn("account manager: %s has no refresh token; silent sign-in will fail", profile.Account)
	}

	if err := m.store.Save(ctx, *acct); err != nil {
		return nil, fmt.Errorf("save account %s: %w", profile.Account, err)
	}
	if err := m.store.SetCurrent(ctx, profile.Account); err != nil {
		return nil, fmt.Errorf("set current account: %w", err)
	}
	acct.SignedIn = true
	return acct, nil
}

// applyToken copies a minted token into the cache entry.
func applyToken(acct *domain.StoredAccount, tok *oauth2.Token) {
	acct.AccessToken = tok.AccessToken
	acct.AccessTokenExpiry = tok.Expiry
	if tok.RefreshToken != "" {
		acct.RefreshToken = tok.RefreshToken
	}
	if idToken, ok := tok.Extra("id_token").(string); ok && idToken != "" {
		acct.Profile.IDToken = idToken
	}
}

// ParseScope splits an "oauth2:"-prefixed scope string into OAuth scopes.
func ParseScope(scope string) ([]string, error) {
	rest, ok := strings.CutPrefix(scope, scopePrefix)
	if !ok {
		return nil, fmt.Errorf("%w: scope %q must start with %q", domain.ErrInvalidInput, scope, scopePrefix)
	}
	scopes := strings.Fields(rest)
	if len(scopes) == 0 {
		return nil, fmt.Errorf("%w: scope %q names no scopes", domain.ErrInvalidInput, scope)
	}
	return scopes, nil
}

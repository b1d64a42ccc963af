// Package signin implements Google sign-in for desktop processes.
//
// Interactive sign-in runs the OAuth 2.0 authorization code flow with PKCE
// against a loopback redirect: the consent page is opened in the user's
// browser and a short-lived local HTTP server receives the code. Silent
// sign-in mints fresh tokens from the refresh token stored for the current
// account.
//
// Every failure is reported as a *domain.StatusError carrying the platform
// status code that best describes it, e.g. StatusSignInCancelled when the
// user denies consent.
package signin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/browser"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/custodia-labs/gsignin/internal/core/domain"
	"github.com/custodia-labs/gsignin/internal/core/ports/driven"
	"github.com/custodia-labs/gsignin/internal/logger"
)

// baseScopes are requested on every sign-in.
var baseScopes = []string{"openid", "email", "profile"}

// Ensure Client implements the interface.
var _ driven.SignInClient = (*Client)(nil)

// Registrar records signed-in accounts and their tokens.
type Registrar interface {
	Register(ctx context.Context, profile domain.GoogleAccount, tok *oauth2.Token, scopes []string) (*domain.StoredAccount, error)
}

// Client is a loopback-redirect implementation of driven.SignInClient.
type Client struct {
	accounts  driven.AccountStore
	registrar Registrar

	endpoint   oauth2.Endpoint
	idVerifier IDTokenVerifier
	profiles   ProfileFetcher
	openURL    func(string) error
	out        io.Writer
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the OAuth endpoint (defaults to google.Endpoint).
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithIDTokenVerifier overrides the ID token verifier.
func WithIDTokenVerifier(v IDTokenVerifier) Option {
	return func(c *Client) { c.idVerifier = v }
}

// WithProfileFetcher overrides the profile fetcher.
func WithProfileFetcher(f ProfileFetcher) Option {
	return func(c *Client) { c.profiles = f }
}

// WithBrowser overrides how the consent page is opened.
func WithBrowser(open func(url string) error) Option {
	return func(c *Client) { c.openURL = open }
}

// WithOutput sets where the consent URL is printed when no browser opens.
func WithOutput(w io.Writer) Option {
	return func(c *Client) { c.out = w }
}

// NewClient creates a sign-in client.
func NewClient(accounts driven.AccountStore, registrar Registrar, opts ...Option) *Client {
	c := &Client{
		accounts:   accounts,
		registrar:  registrar,
		endpoint:   google.Endpoint,
		idVerifier: NewOIDCVerifier(GoogleIssuer, nil),
		profiles:   &UserinfoFetcher{},
		openURL:    browser.OpenURL,
		out:        os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OAuthConfig returns the OAuth client configuration for opts.
func OAuthConfig(opts domain.SignInOptions, endpoint oauth2.Endpoint, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  redirectURL,
		Scopes:       requestedScopes(opts),
	}
}

// requestedScopes joins the base scopes with the caller's scopes, first one
// first, without duplicates.
func requestedScopes(opts domain.SignInOptions) []string {
	first, rest := opts.RequestedScopes()
	scopes := append([]string(nil), baseScopes...)
	seen := make(map[string]bool, len(scopes))
	for _, s := range scopes {
		seen[s] = true
	}
	extra := rest
	if first != "" {
		extra = append([]string{first}, rest...)
	}
	for _, s := range extra {
		if s = strings.TrimSpace(s); s != "" && !seen[s] {
			seen[s] = true
			scopes = append(scopes, s)
		}
	}
	return scopes
}

// SignInInteractive runs the browser consent flow and registers the account.
func (c *Client) SignInInteractive(ctx context.Context, opts domain.SignInOptions) (*domain.GoogleAccount, error) {
	state, err := generateState()
	if err != nil {
		return nil, domain.NewStatusError(domain.StatusInternalError, fmt.Errorf("generate state: %w", err))
	}
	verifier := oauth2.GenerateVerifier()

	server := NewCallbackServer(opts.CallbackPort, state)
	if err := server.Start(); err != nil {
		return nil, domain.NewStatusError(domain.StatusDeveloperError, err)
	}
	defer func() {
		if err := server.Stop(); err != nil {
			logger.Warn("signin: stopping callback server: %v", err)
		}
	}()

	cfg := OAuthConfig(opts, c.endpoint, server.RedirectURI())
	authURL := cfg.AuthCodeURL(state, authCodeOptions(verifier, opts.ForceCodeForRefreshToken)...)

	logger.Debug("signin: waiting for callback on %s", server.RedirectURI())
	if err := c.openURL(authURL); err != nil {
		logger.Debug("signin: could not open browser: %v", err)
		fmt.Fprintf(c.out, "Open this URL in your browser to sign in:\n\n  %s\n\n", authURL)
	}

	waitCtx, cancel := context.WithTimeout(ctx, opts.Timeout())
	defer cancel()

	code, err := server.WaitForCode(waitCtx)
	if err != nil {
		return nil, callbackStatus(err)
	}

	tok, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, exchangeStatus(fmt.Errorf("exchange code: %w", err))
	}

	account, err := c.buildAccount(ctx, opts, tok)
	if err != nil {
		return nil, err
	}

	if _, err := c.registrar.Register(ctx, *account, tok, cfg.Scopes); err != nil {
		return nil, domain.NewStatusError(domain.StatusInternalError, fmt.Errorf("register account: %w", err))
	}

	logger.Info("signin: registered %s", account.Account)
	return account, nil
}

// buildAccount verifies the ID token and assembles the profile.
// Userinfo is preferred for display fields; ID token claims fill any gaps.
func (c *Client) buildAccount(ctx context.Context, opts domain.SignInOptions, tok *oauth2.Token) (*domain.GoogleAccount, error) {
	rawIDToken, _ := tok.Extra("id_token").(string)
	if rawIDToken == "" {
		return nil, domain.NewStatusError(domain.StatusInternalError, errors.New("token response has no id_token"))
	}

	claims, err := c.idVerifier.Verify(ctx, opts.ClientID, rawIDToken)
	if err != nil {
		return nil, domain.NewStatusError(domain.StatusDeveloperError, err)
	}

	profile, err := c.profiles.FetchProfile(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		logger.Warn("signin: userinfo unavailable, using id token claims: %v", err)
		profile = &Profile{}
	}

	email := firstNonEmpty(claims.Email, profile.Email)
	if email == "" {
		return nil, domain.NewStatusError(domain.StatusInvalidAccount, errors.New("account has no email address"))
	}

	return &domain.GoogleAccount{
		Account:     domain.NewGoogleAccountHandle(email),
		ID:          claims.Subject,
		IDToken:     rawIDToken,
		DisplayName: firstNonEmpty(profile.Name, claims.Name),
		Email:       email,
		FamilyName:  firstNonEmpty(profile.FamilyName, claims.FamilyName),
		GivenName:   firstNonEmpty(profile.GivenName, claims.GivenName),
		PhotoURL:    firstNonEmpty(profile.Picture, claims.Picture),
	}, nil
}

// SignInSilent refreshes the current account without user interaction.
func (c *Client) SignInSilent(ctx context.Context, opts domain.SignInOptions) (*domain.GoogleAccount, error) {
	acct, err := c.accounts.Current(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewStatusError(domain.StatusSignInRequired, errors.New("no signed-in account"))
	}
	if err != nil {
		return nil, domain.NewStatusError(domain.StatusInternalError, err)
	}
	if !acct.HasRefreshToken() {
		return nil, domain.NewStatusError(domain.StatusSignInRequired, fmt.Errorf("%s has no refresh token", acct.Handle()))
	}

	cfg := OAuthConfig(opts, c.endpoint, "")
	tok, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: acct.RefreshToken}).Token()
	if err != nil {
		return nil, tokenStatus(fmt.Errorf("refresh %s: %w", acct.Handle(), err))
	}

	profile := acct.Profile
	if rawIDToken, ok := tok.Extra("id_token").(string); ok && rawIDToken != "" {
		if _, err := c.idVerifier.Verify(ctx, opts.ClientID, rawIDToken); err != nil {
			return nil, domain.NewStatusError(domain.StatusDeveloperError, err)
		}
		profile.IDToken = rawIDToken
	}

	if _, err := c.registrar.Register(ctx, profile, tok, acct.Scopes); err != nil {
		return nil, domain.NewStatusError(domain.StatusInternalError, fmt.Errorf("register account: %w", err))
	}

	logger.Debug("signin: silently refreshed %s", profile.Account)
	return &profile, nil
}

// SignOut forgets which account is signed in. Stored tokens are kept.
func (c *Client) SignOut(ctx context.Context, _ domain.SignInOptions) error {
	if err := c.accounts.ClearCurrent(ctx); err != nil {
		return domain.NewStatusError(domain.StatusInternalError, fmt.Errorf("sign out: %w", err))
	}
	return nil
}

// callbackStatus maps a redirect failure to a platform status.
func callbackStatus(err error) error {
	var perr *ProviderError
	switch {
	case errors.As(err, &perr) && perr.Code == "access_denied":
		return domain.NewStatusError(domain.StatusSignInCancelled, err)
	case errors.As(err, &perr):
		return domain.NewStatusError(domain.StatusSignInFailed, err)
	case errors.Is(err, context.DeadlineExceeded):
		return domain.NewStatusError(domain.StatusTimeout, fmt.Errorf("no sign-in callback: %w", err))
	case errors.Is(err, context.Canceled):
		return domain.NewStatusError(domain.StatusCanceled, err)
	case errors.Is(err, errStateMismatch):
		return domain.NewStatusError(domain.StatusSignInFailed, err)
	default:
		return domain.NewStatusError(domain.StatusInternalError, err)
	}
}

// exchangeStatus maps a failed code exchange to a platform status.
func exchangeStatus(err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return domain.NewStatusError(domain.StatusSignInFailed, err)
	}
	return tokenStatus(err)
}

// tokenStatus maps a token endpoint failure to a platform status.
// A rejected refresh token means the user must sign in again.
func tokenStatus(err error) error {
	var rerr *oauth2.RetrieveError
	switch {
	case errors.As(err, &rerr) && rerr.ErrorCode == "invalid_grant":
		return domain.NewStatusError(domain.StatusSignInRequired, err)
	case errors.As(err, &rerr):
		return domain.NewStatusError(domain.StatusSignInFailed, err)
	case errors.Is(err, context.Canceled):
		return domain.NewStatusError(domain.StatusCanceled, err)
	default:
		return domain.NewStatusError(domain.StatusNetworkError, err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package signin

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/coreos/go-oidc"
)

// GoogleIssuer is the OpenID Connect issuer for Google accounts.
const GoogleIssuer = "https://accounts.google.com"

// IDClaims are the ID token claims used to build an account profile.
type IDClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// IDTokenVerifier checks an ID token's signature, issuer, audience and expiry.
type IDTokenVerifier interface {
	Verify(ctx context.Context, clientID, rawIDToken string) (*IDClaims, error)
}

// OIDCVerifier verifies ID tokens against the issuer's published keys.
// The provider document is discovered on first use and then reused.
type OIDCVerifier struct {
	issuer string
	client *http.Client

	mu       sync.Mutex
	provider *oidc.Provider
}

// NewOIDCVerifier creates a verifier for issuer. A nil client uses http.DefaultClient.
func NewOIDCVerifier(issuer string, client *http.Client) *OIDCVerifier {
	if issuer == "" {
		issuer = GoogleIssuer
	}
	return &OIDCVerifier{issuer: issuer, client: client}
}

// Verify implements IDTokenVerifier.
func (v *OIDCVerifier) Verify(ctx context.Context, clientID, rawIDToken string) (*IDClaims, error) {
	if v.client != nil {
		ctx = oidc.ClientContext(ctx, v.client)
	}

	provider, err := v.providerFor()
	if err != nil {
		return nil, err
	}

	idToken, err := provider.Verifier(&oidc.Config{ClientID: clientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	var claims IDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode id token claims: %w", err)
	}
	claims.Subject = idToken.Subject
	return &claims, nil
}

// providerFor discovers the provider once. The provider keeps the discovery
// context for later key fetches, so it must outlive any single request.
func (v *OIDCVerifier) providerFor() (*oidc.Provider, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.provider != nil {
		return v.provider, nil
	}
	ctx := context.Background()
	if v.client != nil {
		ctx = oidc.ClientContext(ctx, v.client)
	}
	provider, err := oidc.NewProvider(ctx, v.issuer)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", v.issuer, err)
	}
	v.provider = provider
	return provider, nil
}

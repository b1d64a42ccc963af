package domain

import "time"

// DefaultSignInTimeout bounds how long an interactive sign-in waits for the user.
const DefaultSignInTimeout = 5 * time.Minute

// DefaultTokenInfoURL is the Google token verification endpoint.
const DefaultTokenInfoURL = "https://www.googleapis.com/oauth2/v1/tokeninfo"

// SignInOptions configures the sign-in client.
// It is built by the caller and passed into every session operation.
type SignInOptions struct {
	// ClientID is the OAuth client identifier.
	ClientID string
	// ClientSecret is the OAuth client secret (desktop clients only).
	ClientSecret string
	// ForceCodeForRefreshToken forces consent so that a refresh token is issued.
	ForceCodeForRefreshToken bool
	// Scopes are additional OAuth scopes. When non-empty the first is required.
	Scopes []string
	// CallbackPort is the loopback redirect port; 0 picks a free port.
	CallbackPort int
	// SignInTimeout bounds the interactive flow. Zero means DefaultSignInTimeout.
	SignInTimeout time.Duration
}

// Validate checks the options are usable.
func (o SignInOptions) Validate() error {
	if o.ClientID == "" {
		return ErrInvalidInput
	}
	if o.CallbackPort < 0 || o.CallbackPort > 65535 {
		return ErrInvalidInput
	}
	return nil
}

// RequestedScopes splits Scopes into the required first scope and the rest.
// A single scope yields no extras; an empty list yields ("", nil).
func (o SignInOptions) RequestedScopes() (first string, rest []string) {
	if len(o.Scopes) == 0 {
		return "", nil
	}
	rest = make([]string, len(o.Scopes)-1)
	for i := 1; i < len(o.Scopes); i++ {
		rest[i-1] = o.Scopes[i]
	}
	return o.Scopes[0], rest
}

// Timeout returns SignInTimeout or the default.
func (o SignInOptions) Timeout() time.Duration {
	if o.SignInTimeout <= 0 {
		return DefaultSignInTimeout
	}
	return o.SignInTimeout
}

package signin

import (
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/oauth2"
)

// stateLength is the number of random bytes in the CSRF state parameter.
const stateLength = 32

// generateState creates a random state parameter for CSRF protection.
func generateState() (string, error) {
	b := make([]byte, stateLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// authCodeOptions returns the authorization URL options for a sign-in.
// Offline access is always requested. force adds the consent prompt, so a
// returning user is issued a new refresh token.
func authCodeOptions(verifier string, force bool) []oauth2.AuthCodeOption {
	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	}
	if force {
		opts = append(opts, oauth2.ApprovalForce)
	}
	return opts
}

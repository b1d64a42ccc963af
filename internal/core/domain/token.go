package domain

import (
	"fmt"
	"time"
)

// StaleTokenFloor is the minimum remaining lifetime, in seconds, below which
// a verified token is treated as unusable.
const StaleTokenFloor = 60

// TokenScope is the scope requested from the account token store.
const TokenScope = "oauth2:profile email"

// TokenInfo is the verification endpoint's description of an access token.
// Only ExpiresIn is required; the rest is informational.
type TokenInfo struct {
	IssuedTo      string `json:"issued_to,omitempty"`
	Audience      string `json:"audience,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	Scope         string `json:"scope,omitempty"`
	ExpiresIn     *int64 `json:"expires_in"`
	Email         string `json:"email,omitempty"`
	VerifiedEmail bool   `json:"verified_email,omitempty"`
	AccessType    string `json:"access_type,omitempty"`
}

// TokenRecord is a verified access token plus its absolute expiry.
type TokenRecord struct {
	// AccessToken is the verified bearer token.
	AccessToken string `json:"accessToken"`
	// ExpiresIn is the remaining lifetime in seconds at verification time.
	ExpiresIn int `json:"expires_in"`
	// ExpiresAt is the expiry as Unix seconds.
	ExpiresAt int64 `json:"expires"`
}

// NewTokenRecord builds a TokenRecord for accessToken verified at now.
// Tokens with less than StaleTokenFloor seconds left are rejected with ErrIO.
func NewTokenRecord(accessToken string, expiresIn int, now time.Time) (*TokenRecord, error) {
	if expiresIn < StaleTokenFloor {
		return nil, fmt.Errorf("%w: auth token soon expiring (%ds left)", ErrIO, expiresIn)
	}
	return &TokenRecord{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
		ExpiresAt:   now.Unix() + int64(expiresIn),
	}, nil
}

// Expiry returns ExpiresAt as a time.Time.
func (r *TokenRecord) Expiry() time.Time {
	return time.Unix(r.ExpiresAt, 0)
}

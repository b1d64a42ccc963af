package domain

import "time"

// AccountTypeGoogle is the account type of every Google account handle.
const AccountTypeGoogle = "com.google"

// AccountHandle identifies a previously authenticated account on the device.
// It is opaque to the token acquirer.
type AccountHandle struct {
	// Name is the account name, usually the email address.
	Name string `json:"name"`
	// Type is the account type, AccountTypeGoogle for Google accounts.
	Type string `json:"type"`
}

// NewGoogleAccountHandle returns the handle for a Google account by email.
func NewGoogleAccountHandle(email string) AccountHandle {
	return AccountHandle{Name: email, Type: AccountTypeGoogle}
}

// String returns "type/name".
func (h AccountHandle) String() string {
	return h.Type + "/" + h.Name
}

// IsZero reports whether the handle is unset.
func (h AccountHandle) IsZero() bool {
	return h.Name == "" && h.Type == ""
}

// GoogleAccount is the profile returned by a successful interactive or silent sign-in.
type GoogleAccount struct {
	// Account is the device-level handle used to fetch access tokens.
	Account AccountHandle `json:"account"`
	// ID is the stable Google user ID (the ID token subject).
	ID string `json:"id"`
	// IDToken is the OpenID Connect ID token.
	IDToken string `json:"id_token,omitempty"`
	// ServerAuthCode is a one-time code for a backend, when one was requested.
	ServerAuthCode string `json:"server_auth_code,omitempty"`

	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email"`
	FamilyName  string `json:"family_name,omitempty"`
	GivenName   string `json:"given_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// StoredAccount is an account known to the local account registry.
//
// The registry plays the part of the platform account manager: it keeps the
// refresh token for each account and caches the most recent access token
// until it expires or is invalidated.
type StoredAccount struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`

	Profile GoogleAccount `json:"profile"`

	// RefreshToken is used to mint new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// AccessToken is the cached access token, empty once invalidated.
	AccessToken string `json:"access_token,omitempty"`
	// AccessTokenExpiry is when the cached access token expires.
	AccessTokenExpiry time.Time `json:"access_token_expiry,omitempty"`
	// Scopes are the scopes granted at sign-in.
	Scopes []string `json:"scopes,omitempty"`

	// SignedIn is true for the account chosen by the last sign-in.
	SignedIn bool `json:"signed_in"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Handle returns the account handle.
func (a *StoredAccount) Handle() AccountHandle {
	return a.Profile.Account
}

// HasCachedToken returns true if a non-expired access token is cached.
func (a *StoredAccount) HasCachedToken(now time.Time) bool {
	if a.AccessToken == "" {
		return false
	}
	if a.AccessTokenExpiry.IsZero() {
		return true
	}
	return now.Before(a.AccessTokenExpiry)
}

// HasRefreshToken returns true if a refresh token is available.
func (a *StoredAccount) HasRefreshToken() bool {
	return a.RefreshToken != ""
}

// ClearAccessToken drops the cached access token.
func (a *StoredAccount) ClearAccessToken() {
	a.AccessToken = ""
	a.AccessTokenExpiry = time.Time{}
}

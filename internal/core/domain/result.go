package domain

// Authentication is the token part of a SignInResult.
type Authentication struct {
	IDToken     string `json:"idToken"`
	AccessToken string `json:"accessToken"`
	Expires     int64  `json:"expires"`
	ExpiresIn   int    `json:"expires_in"`
}

// SignInResult is the caller-facing shape of a successful interactive sign-in.
type SignInResult struct {
	ServerAuthCode string         `json:"serverAuthCode"`
	IDToken        string         `json:"idToken"`
	Authentication Authentication `json:"authentication"`
	DisplayName    string         `json:"displayName"`
	Email          string         `json:"email"`
	FamilyName     string         `json:"familyName"`
	GivenName      string         `json:"givenName"`
	ID             string         `json:"id"`
	ImageURL       string         `json:"imageUrl"`
}

// RefreshResult is the caller-facing shape of a successful silent refresh.
// Field names differ from SignInResult for compatibility with existing callers.
type RefreshResult struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	ExpiresAt   int64  `json:"expires_at"`
	ExpiresIn   int    `json:"expires_in"`
	IDToken     string `json:"idToken"`
}

// NewSignInResult assembles the sign-in shape from a profile and a verified token.
func NewSignInResult(account *GoogleAccount, record *TokenRecord) *SignInResult {
	return &SignInResult{
		ServerAuthCode: account.ServerAuthCode,
		IDToken:        account.IDToken,
		Authentication: Authentication{
			IDToken:     account.IDToken,
			AccessToken: record.AccessToken,
			Expires:     record.ExpiresAt,
			ExpiresIn:   record.ExpiresIn,
		},
		DisplayName: account.DisplayName,
		Email:       account.Email,
		FamilyName:  account.FamilyName,
		GivenName:   account.GivenName,
		ID:          account.ID,
		ImageURL:    account.PhotoURL,
	}
}

// NewRefreshResult assembles the refresh shape from a profile and a verified token.
func NewRefreshResult(account *GoogleAccount, record *TokenRecord) *RefreshResult {
	return &RefreshResult{
		Token:       account.IDToken,
		AccessToken: record.AccessToken,
		ExpiresAt:   record.ExpiresAt,
		ExpiresIn:   record.ExpiresIn,
		IDToken:     account.IDToken,
	}
}

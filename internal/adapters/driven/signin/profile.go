package signin

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Profile is the user's basic Google profile.
type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name,omitempty"`
	GivenName     string `json:"given_name,omitempty"`
	FamilyName    string `json:"family_name,omitempty"`
	Picture       string `json:"picture,omitempty"`
}

// ProfileFetcher loads the profile of the user a token source authenticates.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, ts oauth2.TokenSource) (*Profile, error)
}

// UserinfoFetcher reads the profile from the Google userinfo API.
type UserinfoFetcher struct {
	// Options are extra client options, e.g. option.WithEndpoint for tests.
	Options []option.ClientOption
}

// FetchProfile implements ProfileFetcher.
func (f *UserinfoFetcher) FetchProfile(ctx context.Context, ts oauth2.TokenSource) (*Profile, error) {
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, f.Options...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}

	verified := false
	if info.VerifiedEmail != nil {
		verified = *info.VerifiedEmail
	}
	return &Profile{
		ID:            info.Id,
		Email:         info.Email,
		VerifiedEmail: verified,
		Name:          info.Name,
		GivenName:     info.GivenName,
		FamilyName:    info.FamilyName,
		Picture:       info.Picture,
	}, nil
}

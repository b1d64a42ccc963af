package signin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

func TestUserinfoFetcher_FetchProfile(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "1234567890",
			"email": "ada@example.com",
			"verified_email": true,
			"name": "Ada Lovelace",
			"given_name": "Ada",
			"family_name": "Lovelace",
			"picture": "https://example.com/ada.png"
		}`))
	}))
	defer server.Close()

	fetcher := &UserinfoFetcher{Options: []option.ClientOption{option.WithEndpoint(server.URL + "/")}}
	profile, err := fetcher.FetchProfile(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "T1"}))

	require.NoError(t, err)
	assert.Equal(t, "Bearer T1", gotAuth)
	assert.Equal(t, "/oauth2/v2/userinfo", gotPath)
	assert.Equal(t, &Profile{
		ID:            "1234567890",
		Email:         "ada@example.com",
		VerifiedEmail: true,
		Name:          "Ada Lovelace",
		GivenName:     "Ada",
		FamilyName:    "Lovelace",
		Picture:       "https://example.com/ada.png",
	}, profile)
}

func TestUserinfoFetcher_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials"}}`))
	}))
	defer server.Close()

	fetcher := &UserinfoFetcher{Options: []option.ClientOption{option.WithEndpoint(server.URL + "/")}}
	_, err := fetcher.FetchProfile(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "T1"}))

	assert.ErrorContains(t, err, "fetch userinfo")
}

package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gsignin/internal/core/domain"
)

// printJSON writes v to the command's stdout as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// accountView is the printable form of a stored account. Tokens are omitted.
type accountView struct {
	Email           string   `json:"email"`
	ID              string   `json:"id"`
	DisplayName     string   `json:"display_name,omitempty"`
	PhotoURL        string   `json:"photo_url,omitempty"`
	Scopes          []string `json:"scopes,omitempty"`
	SignedIn        bool     `json:"signed_in"`
	HasRefreshToken bool     `json:"has_refresh_token"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	TokenExpiry     string   `json:"access_token_expiry,omitempty"`
}

func newAccountView(a *domain.StoredAccount) accountView {
	v := accountView{
		Email:           a.Profile.Email,
		ID:              a.Profile.ID,
		DisplayName:     a.Profile.DisplayName,
		PhotoURL:        a.Profile.PhotoURL,
		Scopes:          a.Scopes,
		SignedIn:        a.SignedIn,
		HasRefreshToken: a.HasRefreshToken(),
		CreatedAt:       a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if a.AccessToken != "" && !a.AccessTokenExpiry.IsZero() {
		v.TokenExpiry = a.AccessTokenExpiry.UTC().Format(time.RFC3339)
	}
	return v
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/gsignin/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for gsignin resources.
	uriScheme = "gsignin://"
)

// accountInfo is the public view of a stored account. Tokens are never exposed.
type accountInfo struct {
	Email           string   `json:"email"`
	ID              string   `json:"id"`
	DisplayName     string   `json:"display_name,omitempty"`
	PhotoURL        string   `json:"photo_url,omitempty"`
	Scopes          []string `json:"scopes,omitempty"`
	SignedIn        bool     `json:"signed_in"`
	HasRefreshToken bool     `json:"has_refresh_token"`
}

func newAccountInfo(a *domain.StoredAccount) accountInfo {
	return accountInfo{
		Email:           a.Profile.Email,
		ID:              a.Profile.ID,
		DisplayName:     a.Profile.DisplayName,
		PhotoURL:        a.Profile.PhotoURL,
		Scopes:          a.Scopes,
		SignedIn:        a.SignedIn,
		HasRefreshToken: a.HasRefreshToken(),
	}
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing accounts.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "accounts",
		Name:        "accounts",
		Description: "Google accounts known to this machine",
		MIMEType:    "application/json",
	}, s.handleAccountsResource)

	// Template for a single account.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "accounts/{email}",
		Name:        "account",
		Description: "Profile and sign-in state of a single account",
		MIMEType:    "application/json",
	}, s.handleAccountResource)
}

// handleAccountsResource returns every stored account.
func (s *Server) handleAccountsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Accounts == nil {
		return jsonResource(req.Params.URI, []accountInfo{})
	}

	accounts, err := s.ports.Accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	infos := make([]accountInfo, len(accounts))
	for i := range accounts {
		infos[i] = newAccountInfo(&accounts[i])
	}
	return jsonResource(req.Params.URI, infos)
}

// handleAccountResource returns the account named in the URI.
func (s *Server) handleAccountResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Accounts == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	email := extractAccountEmail(req.Params.URI)
	if email == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	accounts, err := s.ports.Accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	for i := range accounts {
		if strings.EqualFold(accounts[i].Profile.Email, email) {
			return jsonResource(req.Params.URI, newAccountInfo(&accounts[i]))
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractAccountEmail extracts the email from a URI like gsignin://accounts/{email}.
func extractAccountEmail(uri string) string {
	const prefix = uriScheme + "accounts/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	email := strings.TrimPrefix(uri, prefix)
	if strings.Contains(email, "/") {
		return ""
	}
	return email
}

package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/gsignin/internal/adapters/driving/bridge"
	"github.com/custodia-labs/gsignin/internal/core/domain"
)

// EmptyInput is the input schema for tools that take no arguments.
type EmptyInput struct{}

// SignOutOutput is the output schema for the sign_out tool.
type SignOutOutput struct {
	SignedOut bool `json:"signed_out"`
}

// AccessTokenInput is the input schema for the access_token tool.
type AccessTokenInput struct {
	Email string `json:"email,omitempty" jsonschema:"account email; defaults to the signed-in account"`
}

// AccessTokenOutput is the output schema for the access_token tool.
type AccessTokenOutput struct {
	Account     string `json:"account"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
	ExpiresIn   int    `json:"expires_in"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sign_in",
		Description: "Sign a Google account in through the browser and return its tokens and profile",
	}, s.handleSignIn)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "refresh",
		Description: "Silently re-authenticate the signed-in account and return a fresh access token",
	}, s.handleRefresh)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sign_out",
		Description: "Sign the current account out",
	}, s.handleSignOut)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "access_token",
		Description: "Return a verified access token for a stored account",
	}, s.handleAccessToken)
}

// invoke runs method through the bridge and returns its data or rejection.
func (s *Server) invoke(ctx context.Context, method string) (any, error) {
	resp := s.ports.Bridge.Invoke(ctx, bridge.Call{
		ID:     uuid.NewString(),
		Method: method,
	})
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Data, nil
}

// handleSignIn handles the sign_in tool invocation.
func (s *Server) handleSignIn(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, domain.SignInResult, error) {
	data, err := s.invoke(ctx, bridge.MethodSignIn)
	if err != nil {
		return nil, domain.SignInResult{}, err
	}
	result, ok := data.(*domain.SignInResult)
	if !ok || result == nil {
		return nil, domain.SignInResult{}, fmt.Errorf("unexpected sign-in result %T", data)
	}
	return nil, *result, nil
}

// handleRefresh handles the refresh tool invocation.
func (s *Server) handleRefresh(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, domain.RefreshResult, error) {
	data, err := s.invoke(ctx, bridge.MethodRefresh)
	if err != nil {
		return nil, domain.RefreshResult{}, err
	}
	result, ok := data.(*domain.RefreshResult)
	if !ok || result == nil {
		return nil, domain.RefreshResult{}, fmt.Errorf("unexpected refresh result %T", data)
	}
	return nil, *result, nil
}

// handleSignOut handles the sign_out tool invocation.
func (s *Server) handleSignOut(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, SignOutOutput, error) {
	if _, err := s.invoke(ctx, bridge.MethodSignOut); err != nil {
		return nil, SignOutOutput{}, err
	}
	return nil, SignOutOutput{SignedOut: true}, nil
}

// handleAccessToken handles the access_token tool invocation.
func (s *Server) handleAccessToken(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AccessTokenInput,
) (*mcp.CallToolResult, AccessTokenOutput, error) {
	if s.ports.Acquirer == nil || s.ports.Accounts == nil {
		return nil, AccessTokenOutput{}, ErrMissingAcquirer
	}

	handle, err := s.ports.Accounts.Resolve(ctx, input.Email)
	if err != nil {
		return nil, AccessTokenOutput{}, err
	}

	record, err := s.ports.Acquirer.Acquire(ctx, handle)
	if err != nil {
		return nil, AccessTokenOutput{}, err
	}

	return nil, AccessTokenOutput{
		Account:     handle.Name,
		AccessToken: record.AccessToken,
		ExpiresAt:   record.ExpiresAt,
		ExpiresIn:   record.ExpiresIn,
	}, nil
}

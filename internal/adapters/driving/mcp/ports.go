package mcp

import (
	"context"

	"github.com/custodia-labs/gsignin/internal/adapters/driving/bridge"
	"github.com/custodia-labs/gsignin/internal/core/ports/driving"
)

// Invoker runs a single bridge call and waits for its response.
type Invoker interface {
	Invoke(ctx context.Context, call bridge.Call) bridge.Response
}

// Ports aggregates everything the MCP server drives.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Bridge runs the session methods.
	Bridge Invoker

	// Acquirer serves the access_token tool.
	Acquirer driving.TokenAcquirer

	// Accounts resolves emails for access_token and backs the account resources.
	Accounts driving.AccountService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Bridge == nil {
		return ErrMissingBridge
	}
	// Acquirer and Accounts are optional; the tools that need them report
	// ErrMissingAcquirer when called.
	return nil
}

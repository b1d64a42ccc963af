// Package mcp provides an MCP (Model Context Protocol) server adapter for gsignin.
// It lets AI assistants sign a Google account in and obtain verified access tokens.
package mcp

import "errors"

// ErrMissingBridge is returned when the session bridge is not provided.
var ErrMissingBridge = errors.New("mcp: session bridge is required")

// ErrMissingAcquirer is returned by the access_token tool when no token
// acquirer or account service was provided.
var ErrMissingAcquirer = errors.New("mcp: token acquirer is required")

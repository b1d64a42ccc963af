// Package domain defines the core business entities for gsignin.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - AccountHandle: A device-level reference to an authenticated account
//   - GoogleAccount: The profile produced by a sign-in
//   - TokenRecord: A verified access token with its absolute expiry
//   - SignInOptions: Caller-owned sign-in configuration
//   - SignInResult / RefreshResult: Caller-facing result shapes
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

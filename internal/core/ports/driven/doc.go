// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - AccountTokenStore: Fetches and invalidates raw access tokens (platform account manager)
//   - TokenVerifier: Verifies raw tokens against the tokeninfo endpoint
//   - SignInClient: Interactive / silent sign-in and sign-out
//   - AccountStore: Local account registry persistence
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

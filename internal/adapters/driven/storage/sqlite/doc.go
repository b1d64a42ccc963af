// Package sqlite provides a SQLite-based implementation of the account store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each applied version is recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.gsignin/data/accounts.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode. Switching the current account runs in a transaction.
package sqlite

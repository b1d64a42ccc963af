package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/gsignin/internal/core/domain"
	"github.com/custodia-labs/gsignin/internal/core/ports/driven"
)

// =============================================================================
// AccountStore Implementation
// =============================================================================

type accountStore struct {
	store *Store
}

var _ driven.AccountStore = (*accountStore)(nil)

const selectAccountColumns = `
	SELECT id, profile, refresh_token, access_token, access_token_expiry,
		scopes, signed_in, created_at, updated_at
	FROM accounts`

// Save stores or updates an account. It never changes which account is current.
func (s *accountStore) Save(ctx context.Context, account domain.StoredAccount) error {
	handle := account.Handle()
	if account.ID == "" || handle.IsZero() {
		return domain.ErrInvalidInput
	}

	profileJSON, err := json.Marshal(account.Profile)
	if err != nil {
		return fmt.Errorf("marshalling profile: %w", err)
	}

	scopesJSON, err := json.Marshal(account.Scopes)
	if err != nil {
		return fmt.Errorf("marshalling scopes: %w", err)
	}

	var expiry sql.NullTime
	if !account.AccessTokenExpiry.IsZero() {
		expiry = sql.NullTime{Time: account.AccessTokenExpiry.UTC(), Valid: true}
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO accounts
			(id, account_type, account_name, profile, refresh_token, access_token,
			 access_token_expiry, scopes, signed_in, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(account_type, account_name) DO UPDATE SET
			profile = excluded.profile,
			refresh_token = excluded.refresh_token,
			access_token = excluded.access_token,
			access_token_expiry = excluded.access_token_expiry,
			scopes = excluded.scopes,
			updated_at = excluded.updated_at
	`, account.ID, handle.Type, handle.Name, string(profileJSON),
		account.RefreshToken, account.AccessToken, expiry, string(scopesJSON),
		account.CreatedAt.UTC(), account.UpdatedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving account: %w", err)
	}
	return nil
}

// Get retrieves an account by handle.
func (s *accountStore) Get(ctx context.Context, handle domain.AccountHandle) (*domain.StoredAccount, error) {
	row := s.store.db.QueryRowContext(ctx,
		selectAccountColumns+" WHERE account_type = ? AND account_name = ?",
		handle.Type, handle.Name)
	return scanAccount(row)
}

// List returns all accounts ordered by creation time.
func (s *accountStore) List(ctx context.Context) ([]domain.StoredAccount, error) {
	rows, err := s.store.db.QueryContext(ctx, selectAccountColumns+" ORDER BY created_at, account_name")
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.StoredAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	return accounts, nil
}

// Current returns the signed-in account.
func (s *accountStore) Current(ctx context.Context) (*domain.StoredAccount, error) {
	row := s.store.db.QueryRowContext(ctx, selectAccountColumns+" WHERE signed_in = 1")
	return scanAccount(row)
}

// SetCurrent marks handle as the only signed-in account.
func (s *accountStore) SetCurrent(ctx context.Context, handle domain.AccountHandle) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "UPDATE accounts SET signed_in = 0 WHERE signed_in = 1"); err != nil {
		return fmt.Errorf("clearing current account: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE accounts SET signed_in = 1 WHERE account_type = ? AND account_name = ?",
		handle.Type, handle.Name)
	if err != nil {
		return fmt.Errorf("setting current account: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit()
}

// ClearCurrent signs every account out.
func (s *accountStore) ClearCurrent(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "UPDATE accounts SET signed_in = 0 WHERE signed_in = 1"); err != nil {
		return fmt.Errorf("clearing current account: %w", err)
	}
	return nil
}

// Delete removes an account.
func (s *accountStore) Delete(ctx context.Context, handle domain.AccountHandle) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM accounts WHERE account_type = ? AND account_name = ?",
		handle.Type, handle.Name)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAccount scans a single account row.
func scanAccount(row rowScanner) (*domain.StoredAccount, error) {
	var account domain.StoredAccount
	var profileJSON string
	var scopesJSON sql.NullString
	var expiry sql.NullTime
	var signedIn int
	var createdAt, updatedAt time.Time

	err := row.Scan(&account.ID, &profileJSON, &account.RefreshToken, &account.AccessToken,
		&expiry, &scopesJSON, &signedIn, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning account: %w", err)
	}

	if err := json.Unmarshal([]byte(profileJSON), &account.Profile); err != nil {
		return nil, fmt.Errorf("unmarshalling profile: %w", err)
	}

	if scopesJSON.Valid && scopesJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(scopesJSON.String), &account.Scopes); err != nil {
			return nil, fmt.Errorf("unmarshalling scopes: %w", err)
		}
	}

	if expiry.Valid {
		account.AccessTokenExpiry = expiry.Time
	}
	account.SignedIn = signedIn == 1
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt

	return &account, nil
}

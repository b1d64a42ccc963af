package services

import (
	"time"

	"github.com/custodia-labs/gsignin/internal/core/domain"
	"github.com/custodia-labs/gsignin/internal/core/ports/driven"
)

// Config keys for sign-in settings.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyClientID        = "google.client_id"
	keyDesktopClientID = "google.desktop_client_id"
	keyClientSecret    = "google.client_secret"
	keyForceCode       = "google.force_code_for_refresh_token"
	keyScopes          = "google.scopes"
	keyCallbackPort    = "google.callback_port"
	keySignInTimeout   = "google.sign_in_timeout"
	keyTokenInfoURL    = "google.tokeninfo_url"
)

const defaultTimeoutInSec = int(domain.DefaultSignInTimeout / time.Second)

// SettingsService reads and writes sign-in settings in the config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// SignInOptions builds the sign-in options from configuration.
// The desktop client ID takes precedence over the generic one.
func (s *SettingsService) SignInOptions() (domain.SignInOptions, error) {
	if s.configStore == nil {
		return domain.SignInOptions{}, domain.ErrNotImplemented
	}

	clientID := s.configStore.GetString(keyDesktopClientID)
	if clientID == "" {
		clientID = s.configStore.GetString(keyClientID)
	}

	timeout := s.configStore.GetInt(keySignInTimeout)
	if timeout <= 0 {
		timeout = defaultTimeoutInSec
	}

	return domain.SignInOptions{
		ClientID:                 clientID,
		ClientSecret:             s.configStore.GetString(keyClientSecret),
		ForceCodeForRefreshToken: s.configStore.GetBool(keyForceCode),
		Scopes:                   s.configStore.GetStringSlice(keyScopes),
		CallbackPort:             s.configStore.GetInt(keyCallbackPort),
		SignInTimeout:            time.Duration(timeout) * time.Second,
	}, nil
}

// SaveClient persists the OAuth client credentials.
func (s *SettingsService) SaveClient(clientID, clientSecret string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if clientID == "" {
		return domain.ErrInvalidInput
	}
	if err := s.configStore.Set(keyClientID, clientID); err != nil {
		return err
	}
	if clientSecret == "" {
		return nil
	}
	return s.configStore.Set(keyClientSecret, clientSecret)
}

// SaveScopes persists the additional OAuth scopes.
func (s *SettingsService) SaveScopes(scopes []string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	return s.configStore.Set(keyScopes, scopes)
}

// TokenInfoURL returns the verification endpoint, honouring the override key.
func (s *SettingsService) TokenInfoURL() string {
	if s.configStore != nil {
		if u := s.configStore.GetString(keyTokenInfoURL); u != "" {
			return u
		}
	}
	return domain.DefaultTokenInfoURL
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/gsignin/internal/adapters/driven/signin"
	"github.com/custodia-labs/gsignin/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/gsignin/internal/adapters/driving/bridge"
	"github.com/custodia-labs/gsignin/internal/core/domain"
	"github.com/custodia-labs/gsignin/internal/core/services"
)

// fakeSession is a canned driving.SessionService.
type fakeSession struct {
	signIn     *domain.SignInResult
	signInErr  error
	refresh    *domain.RefreshResult
	refreshErr error
	signOutErr error
}

func (f *fakeSession) Initialize(_ context.Context, opts domain.SignInOptions) error {
	return opts.Validate()
}

func (f *fakeSession) SignIn(_ context.Context, _ domain.SignInOptions) (*domain.SignInResult, error) {
	return f.signIn, f.signInErr
}

func (f *fakeSession) Refresh(_ context.Context, _ domain.SignInOptions) (*domain.RefreshResult, error) {
	return f.refresh, f.refreshErr
}

func (f *fakeSession) SignOut(_ context.Context, _ domain.SignInOptions) error {
	return f.signOutErr
}

// fakeAcquirer hands out a fixed token per account.
type fakeAcquirer struct {
	err   error
	calls []domain.AccountHandle
}

func (f *fakeAcquirer) Acquire(_ context.Context, account domain.AccountHandle) (*domain.TokenRecord, error) {
	f.calls = append(f.calls, account)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.TokenRecord{AccessToken: "token-for-" + account.Name, ExpiresIn: 3600, ExpiresAt: 1_700_003_600}, nil
}

// fakeProfiles returns the token it was given as the profile ID.
type fakeProfiles struct{}

func (fakeProfiles) FetchProfile(_ context.Context, ts oauth2.TokenSource) (*signin.Profile, error) {
	tok, err := ts.Token()
	if err != nil {
		return nil, err
	}
	return &signin.Profile{ID: tok.AccessToken, Email: "ada@example.com", Name: "Ada Lovelace"}, nil
}

type testApp struct {
	session  *fakeSession
	acquirer *fakeAcquirer
	accounts *memory.AccountStore
	config   *memory.ConfigStore
}

// setupTestApp installs an App backed by in-memory stores and fakes.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	ta := &testApp{
		session:  &fakeSession{},
		acquirer: &fakeAcquirer{},
		accounts: memory.NewAccountStore(),
		config:   memory.NewConfigStoreWith(map[string]any{"google.client_id": "client-id"}),
	}
	settings := services.NewSettingsService(ta.config)

	app = &App{
		Bridge:   bridge.New(ta.session, settings.SignInOptions),
		Acquirer: ta.acquirer,
		Accounts: services.NewAccountService(ta.accounts),
		Settings: settings,
		Profiles: fakeProfiles{},
	}
	t.Cleanup(func() {
		app = nil
		tokenRaw = false
		configureClientID = ""
		configureScopes = nil
	})
	return ta
}

func (ta *testApp) addAccount(t *testing.T, email string, current bool) {
	t.Helper()
	ctx := context.Background()
	handle := domain.NewGoogleAccountHandle(email)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, ta.accounts.Save(ctx, domain.StoredAccount{
		ID:           "id-" + email,
		Profile:      domain.GoogleAccount{Account: handle, ID: "sub-" + email, Email: email},
		RefreshToken: "refresh-secret",
		AccessToken:  "access-secret",
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
	if current {
		require.NoError(t, ta.accounts.SetCurrent(ctx, handle))
	}
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	if stdin != nil {
		rootCmd.SetIn(stdin)
	}
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"verbose", "config-dir", "data-dir"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"signin", "refresh", "signout", "token", "accounts", "configure", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRequireApp(t *testing.T) {
	origFactory, origConfig, origData := factory, configDir, dataDir
	t.Cleanup(func() {
		factory, configDir, dataDir = origFactory, origConfig, origData
		app = nil
	})

	t.Run("no factory", func(t *testing.T) {
		app, factory = nil, nil
		_, err := requireApp()
		assert.Error(t, err)
	})

	t.Run("factory receives paths and runs once", func(t *testing.T) {
		app = nil
		configDir, dataDir = "/tmp/cfg", "/tmp/data"
		var calls int
		var got Paths
		factory = func(p Paths) (*App, error) {
			calls++
			got = p
			return &App{}, nil
		}

		first, err := requireApp()
		require.NoError(t, err)
		second, err := requireApp()
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, calls)
		assert.Equal(t, Paths{ConfigDir: "/tmp/cfg", DataDir: "/tmp/data"}, got)
	})

	t.Run("factory error", func(t *testing.T) {
		app = nil
		factory = func(Paths) (*App, error) { return nil, errors.New("disk full") }

		_, err := requireApp()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestCloseApp(t *testing.T) {
	closed := false
	app = &App{Close: func() error { closed = true; return nil }}

	closeApp()

	assert.True(t, closed)
	assert.Nil(t, app)
}

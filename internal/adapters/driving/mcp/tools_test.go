package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gsignin/internal/adapters/driving/bridge"
	"github.com/custodia-labs/gsignin/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("returns sign-in result", func(t *testing.T) {
		invoker := &mockInvoker{responses: map[string]bridge.Response{
			bridge.MethodSignIn: {Data: &domain.SignInResult{Email: "ada@example.com", IDToken: "id"}},
		}}
		server := newTestServer(t, &Ports{Bridge: invoker})

		_, output, err := server.handleSignIn(ctx, nil, EmptyInput{})

		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", output.Email)
		require.Len(t, invoker.calls, 1)
		assert.Equal(t, bridge.MethodSignIn, invoker.calls[0].Method)
		assert.NotEmpty(t, invoker.calls[0].ID)
	})

	t.Run("returns rejection as error", func(t *testing.T) {
		rejection := &bridge.Rejection{Message: "The user canceled the sign-in flow.", Code: "12501"}
		invoker := &mockInvoker{responses: map[string]bridge.Response{
			bridge.MethodSignIn: {Error: rejection},
		}}
		server := newTestServer(t, &Ports{Bridge: invoker})

		_, _, err := server.handleSignIn(ctx, nil, EmptyInput{})

		require.Error(t, err)
		assert.Same(t, rejection, err)
	})

	t.Run("unexpected data is an error", func(t *testing.T) {
		invoker := &mockInvoker{responses: map[string]bridge.Response{
			bridge.MethodSignIn: {Data: "nope"},
		}}
		server := newTestServer(t, &Ports{Bridge: invoker})

		_, _, err := server.handleSignIn(ctx, nil, EmptyInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected sign-in result")
	})
}

func TestServer_handleRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("returns refresh result", func(t *testing.T) {
		invoker := &mockInvoker{responses: map[string]bridge.Response{
			bridge.MethodRefresh: {Data: &domain.RefreshResult{AccessToken: "T1", ExpiresIn: 3600}},
		}}
		server := newTestServer(t, &Ports{Bridge: invoker})

		_, output, err := server.handleRefresh(ctx, nil, EmptyInput{})

		require.NoError(t, err)
		assert.Equal(t, "T1", output.AccessToken)
		assert.Equal(t, 3600, output.ExpiresIn)
	})

	t.Run("returns rejection as error", func(t *testing.T) {
		invoker := &mockInvoker{responses: map[string]bridge.Response{
			bridge.MethodRefresh: {Error: &bridge.Rejection{Message: "Unable to fetch access token"}},
		}}
		server := newTestServer(t, &Ports{Bridge: invoker})

		_, _, err := server.handleRefresh(ctx, nil, EmptyInput{})

		require.Error(t, err)
		assert.Equal(t, "Unable to fetch access token", err.Error())
	})
}

func TestServer_handleSignOut(t *testing.T) {
	ctx := context.Background()

	invoker := &mockInvoker{responses: map[string]bridge.Response{}}
	server := newTestServer(t, &Ports{Bridge: invoker})

	_, output, err := server.handleSignOut(ctx, nil, EmptyInput{})

	require.NoError(t, err)
	assert.True(t, output.SignedOut)
}

func TestServer_handleAccessToken(t *testing.T) {
	ctx := context.Background()

	t.Run("missing acquirer", func(t *testing.T) {
		server := newTestServer(t, &Ports{Bridge: &mockInvoker{}})

		_, _, err := server.handleAccessToken(ctx, nil, AccessTokenInput{})

		assert.ErrorIs(t, err, ErrMissingAcquirer)
	})

	t.Run("defaults to the signed-in account", func(t *testing.T) {
		acquirer := &mockAcquirer{record: &domain.TokenRecord{AccessToken: "T1", ExpiresAt: 1700003600, ExpiresIn: 3600}}
		accounts := &mockAccountService{handle: domain.NewGoogleAccountHandle("ada@example.com")}
		server := newTestServer(t, &Ports{Bridge: &mockInvoker{}, Acquirer: acquirer, Accounts: accounts})

		_, output, err := server.handleAccessToken(ctx, nil, AccessTokenInput{})

		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", output.Account)
		assert.Equal(t, "T1", output.AccessToken)
		assert.Equal(t, int64(1700003600), output.ExpiresAt)
		assert.Equal(t, accounts.handle, acquirer.got)
	})

	t.Run("uses the requested email", func(t *testing.T) {
		acquirer := &mockAcquirer{record: &domain.TokenRecord{AccessToken: "T2"}}
		server := newTestServer(t, &Ports{Bridge: &mockInvoker{}, Acquirer: acquirer, Accounts: &mockAccountService{}})

		_, output, err := server.handleAccessToken(ctx, nil, AccessTokenInput{Email: "bob@example.com"})

		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", output.Account)
		assert.Equal(t, domain.NewGoogleAccountHandle("bob@example.com"), acquirer.got)
	})

	t.Run("resolve failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Bridge:   &mockInvoker{},
			Acquirer: &mockAcquirer{},
			Accounts: &mockAccountService{err: domain.ErrNotFound},
		})

		_, _, err := server.handleAccessToken(ctx, nil, AccessTokenInput{})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("acquire failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Bridge:   &mockInvoker{},
			Acquirer: &mockAcquirer{err: domain.ErrMalformedResponse},
			Accounts: &mockAccountService{handle: domain.NewGoogleAccountHandle("ada@example.com")},
		})

		_, _, err := server.handleAccessToken(ctx, nil, AccessTokenInput{})

		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})
}

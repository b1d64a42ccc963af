//nolint:noctx // Test file uses http.Get for convenience; context not required in tests
package signin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startCallbackServer(t *testing.T, state string) *CallbackServer {
	t.Helper()
	server := NewCallbackServer(0, state)
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })
	return server
}

func hit(t *testing.T, server *CallbackServer, query url.Values) string {
	t.Helper()
	resp, err := http.Get(server.RedirectURI() + "?" + query.Encode())
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	return string(body)
}

func waitCode(t *testing.T, server *CallbackServer) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.WaitForCode(ctx)
}

func TestCallbackServer_StartPicksPort(t *testing.T) {
	server := startCallbackServer(t, "state")

	assert.NotZero(t, server.Port())
	assert.Equal(t, fmt.Sprintf("http://127.0.0.1:%d/callback", server.Port()), server.RedirectURI())
}

func TestCallbackServer_PortInUse(t *testing.T) {
	first := startCallbackServer(t, "a")

	second := NewCallbackServer(first.Port(), "b")
	err := second.Start()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestCallbackServer_DeliversCode(t *testing.T) {
	server := startCallbackServer(t, "state-1")

	body := hit(t, server, url.Values{"state": {"state-1"}, "code": {"auth-code"}})

	assert.Contains(t, body, "Signed in")
	code, err := waitCode(t, server)
	require.NoError(t, err)
	assert.Equal(t, "auth-code", code)
}

func TestCallbackServer_StateMismatch(t *testing.T) {
	server := startCallbackServer(t, "expected")

	body := hit(t, server, url.Values{"state": {"forged"}, "code": {"auth-code"}})

	assert.Contains(t, body, "Invalid state")
	_, err := waitCode(t, server)
	assert.ErrorIs(t, err, errStateMismatch)
}

func TestCallbackServer_MissingCode(t *testing.T) {
	server := startCallbackServer(t, "s")

	hit(t, server, url.Values{"state": {"s"}})

	_, err := waitCode(t, server)
	assert.ErrorContains(t, err, "no authorization code")
}

func TestCallbackServer_ProviderError(t *testing.T) {
	server := startCallbackServer(t, "s")

	body := hit(t, server, url.Values{"error": {"access_denied"}, "error_description": {"<user said no>"}})

	assert.Contains(t, body, "&lt;user said no&gt;")
	_, err := waitCode(t, server)
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "access_denied", perr.Code)
}

func TestCallbackServer_OnlyFirstResultIsKept(t *testing.T) {
	server := startCallbackServer(t, "s")

	hit(t, server, url.Values{"state": {"s"}, "code": {"first"}})
	hit(t, server, url.Values{"state": {"s"}, "code": {"second"}})

	code, err := waitCode(t, server)
	require.NoError(t, err)
	assert.Equal(t, "first", code)
}

func TestCallbackServer_WaitHonoursContext(t *testing.T) {
	server := startCallbackServer(t, "s")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := server.WaitForCode(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCallbackServer_StopBeforeStart(t *testing.T) {
	assert.NoError(t, NewCallbackServer(0, "s").Stop())
}

func TestProviderError_Error(t *testing.T) {
	assert.Equal(t, "oauth error: access_denied", (&ProviderError{Code: "access_denied"}).Error())
	assert.Equal(t, "oauth error: x - y", (&ProviderError{Code: "x", Description: "y"}).Error())
}

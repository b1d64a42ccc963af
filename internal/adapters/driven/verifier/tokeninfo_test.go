package verifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gsignin/internal/core/domain"
)

var fixedNow = time.Unix(1_700_000_000, 0)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) (*TokenInfoVerifier, *RateLimiter) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	limiter := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 100})
	limiter.now = func() time.Time { return fixedNow }
	v := New(server.URL+"/oauth2/v1/tokeninfo",
		WithHTTPClient(server.Client()),
		WithClock(func() time.Time { return fixedNow }),
		WithRateLimiter(limiter),
	)
	return v, limiter
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestVerify_Success(t *testing.T) {
	var gotQuery, gotPath, gotMethod string
	v, _ := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("access_token")
		gotPath = r.URL.Path
		gotMethod = r.Method
		respond(http.StatusOK, `{"audience":"client","expires_in":3599,"scope":"profile email"}`)(w, r)
	})

	record, err := v.Verify(context.Background(), "T1")

	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/oauth2/v1/tokeninfo", gotPath)
	assert.Equal(t, "T1", gotQuery)
	assert.Equal(t, &domain.TokenRecord{
		AccessToken: "T1",
		ExpiresIn:   3599,
		ExpiresAt:   1_700_003_599,
	}, record)
}

func TestVerify_EscapesToken(t *testing.T) {
	const token = "ya29.a+b/c=&d"
	var rawQuery, decoded string
	v, _ := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		decoded = r.URL.Query().Get("access_token")
		respond(http.StatusOK, `{"expires_in":600}`)(w, r)
	})

	_, err := v.Verify(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, token, decoded)
	assert.NotContains(t, rawQuery, "&d")
}

func TestVerify_Boundary(t *testing.T) {
	t.Run("exactly the floor is accepted", func(t *testing.T) {
		v, _ := newTestVerifier(t, respond(http.StatusOK, `{"expires_in":60}`))

		record, err := v.Verify(context.Background(), "T1")

		require.NoError(t, err)
		assert.Equal(t, 60, record.ExpiresIn)
	})

	t.Run("one below the floor is soon expiring", func(t *testing.T) {
		v, _ := newTestVerifier(t, respond(http.StatusOK, `{"expires_in":59}`))

		_, err := v.Verify(context.Background(), "T1")

		assert.ErrorIs(t, err, domain.ErrIO)
		assert.Contains(t, err.Error(), "soon expiring")
	})
}

func TestVerify_MalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"missing expires_in", `{"audience":"client"}`},
		{"string expires_in", `{"expires_in":"3599"}`},
		{"fractional expires_in", `{"expires_in":3599.5}`},
		{"null expires_in", `{"expires_in":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newTestVerifier(t, respond(http.StatusOK, tt.body))

			_, err := v.Verify(context.Background(), "T1")

			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
			assert.NotErrorIs(t, err, domain.ErrIO)
		})
	}
}

func TestVerify_HTTPErrorsAreIO(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			v, _ := newTestVerifier(t, respond(status, `{"error":"invalid_token"}`))

			_, err := v.Verify(context.Background(), "T1")

			assert.ErrorIs(t, err, domain.ErrIO)
			assert.Contains(t, err.Error(), "status")
		})
	}
}

func TestVerify_TooManyRequestsOpensBackoff(t *testing.T) {
	v, limiter := newTestVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := v.Verify(context.Background(), "T1")

	assert.ErrorIs(t, err, domain.ErrIO)
	assert.Equal(t, fixedNow.Add(30*time.Second), limiter.retryAt)
	assert.False(t, limiter.Allow())
}

func TestVerify_BackoffFailsFast(t *testing.T) {
	var calls atomic.Int32
	v, limiter := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "3600")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		respond(http.StatusOK, `{"expires_in":3600}`)(w, r)
	})

	_, err := v.Verify(context.Background(), "T1")
	require.ErrorIs(t, err, domain.ErrIO)

	start := time.Now()
	_, err = v.Verify(context.Background(), "T2")

	assert.ErrorIs(t, err, domain.ErrIO)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, int32(1), calls.Load(), "no request is sent while backing off")

	limiter.now = func() time.Time { return fixedNow.Add(time.Hour + time.Second) }
	record, err := v.Verify(context.Background(), "T2")
	require.NoError(t, err)
	assert.Equal(t, "T2", record.AccessToken)
	assert.Equal(t, int32(2), calls.Load())
}

func TestVerify_TransportFailureIsIO(t *testing.T) {
	server := httptest.NewServer(respond(http.StatusOK, `{"expires_in":3600}`))
	endpoint := server.URL
	server.Close()

	v := New(endpoint, WithRateLimiter(nil))

	_, err := v.Verify(context.Background(), "T1")

	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestVerify_TransportFailureHidesToken(t *testing.T) {
	const token = "ya29.SECRET-TOKEN-VALUE"
	server := httptest.NewServer(respond(http.StatusOK, `{"expires_in":3600}`))
	endpoint := server.URL + "/oauth2/v1/tokeninfo"
	server.Close()

	v := New(endpoint, WithRateLimiter(nil))

	_, err := v.Verify(context.Background(), token)

	require.ErrorIs(t, err, domain.ErrIO)
	assert.NotContains(t, err.Error(), token)
	assert.NotContains(t, err.Error(), "access_token")
	assert.Contains(t, err.Error(), endpoint)
}

func TestVerify_CancelledContext(t *testing.T) {
	v, _ := newTestVerifier(t, respond(http.StatusOK, `{"expires_in":3600}`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Verify(ctx, "T1")

	assert.ErrorIs(t, err, domain.ErrIO)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, err.Error(), "T1")
}

func TestNew_DefaultEndpoint(t *testing.T) {
	v := New("")

	assert.Equal(t, domain.DefaultTokenInfoURL, v.endpoint)
	assert.NotNil(t, v.limiter)
}

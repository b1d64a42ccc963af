// Package verifier checks access tokens against Google's tokeninfo endpoint.
package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/custodia-labs/gsignin/internal/core/domain"
	"github.com/custodia-labs/gsignin/internal/core/ports/driven"
	"github.com/custodia-labs/gsignin/internal/logger"
)

// maxResponseBytes caps how much of a tokeninfo response is read.
const maxResponseBytes = 1 << 20

// Ensure TokenInfoVerifier implements the interface.
var _ driven.TokenVerifier = (*TokenInfoVerifier)(nil)

// TokenInfoVerifier verifies access tokens with a single GET to the tokeninfo endpoint.
type TokenInfoVerifier struct {
	endpoint string
	client   *http.Client
	limiter  *RateLimiter
	now      func() time.Time
}

// Option configures a TokenInfoVerifier.
type Option func(*TokenInfoVerifier)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(v *TokenInfoVerifier) {
		if client != nil {
			v.client = client
		}
	}
}

// WithClock sets the clock used to compute absolute expiry.
func WithClock(now func() time.Time) Option {
	return func(v *TokenInfoVerifier) {
		if now != nil {
			v.now = now
		}
	}
}

// WithRateLimiter sets the request rate limiter.
func WithRateLimiter(limiter *RateLimiter) Option {
	return func(v *TokenInfoVerifier) {
		v.limiter = limiter
	}
}

// New creates a verifier for endpoint. An empty endpoint uses domain.DefaultTokenInfoURL.
func New(endpoint string, opts ...Option) *TokenInfoVerifier {
	if endpoint == "" {
		endpoint = domain.DefaultTokenInfoURL
	}
	v := &TokenInfoVerifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  NewRateLimiter(DefaultRateLimit),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify asks the endpoint how long raw remains valid and returns the verified record.
//
// Transport failures, non-2xx statuses, an open 429 backoff window and tokens
// within domain.StaleTokenFloor of expiry are reported as domain.ErrIO. An unreadable body or a missing or
// non-integer expires_in is reported as domain.ErrMalformedResponse.
func (v *TokenInfoVerifier) Verify(ctx context.Context, raw string) (*domain.TokenRecord, error) {
	reqURL, err := v.requestURL(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: tokeninfo url: %w", domain.ErrIO, err)
	}

	if v.limiter != nil {
		if wait := v.limiter.Backoff(); wait > 0 {
			return nil, fmt.Errorf("%w: tokeninfo rate limited, retry in %s", domain.ErrIO, wait.Round(time.Second))
		}
		if err := v.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %w", domain.ErrIO, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrIO, v.redact(err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: tokeninfo request: %w", domain.ErrIO, v.redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests && v.limiter != nil {
		v.limiter.RecordRateLimitError(parseRetryAfter(resp.Header.Get("Retry-After"), v.now()))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("%w: tokeninfo returned status %d", domain.ErrIO, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read tokeninfo response: %w", domain.ErrIO, err)
	}

	var info domain.TokenInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: decode tokeninfo response: %w", domain.ErrMalformedResponse, err)
	}
	if info.ExpiresIn == nil {
		return nil, fmt.Errorf("%w: tokeninfo response has no expires_in", domain.ErrMalformedResponse)
	}

	logger.Debug("tokeninfo: %ds left for %s", *info.ExpiresIn, info.Audience)
	return domain.NewTokenRecord(raw, int(*info.ExpiresIn), v.now())
}

// redact replaces the request URL in a transport error with the bare endpoint,
// since the query carries the token.
func (v *TokenInfoVerifier) redact(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	return &url.Error{Op: uerr.Op, URL: v.endpoint, Err: uerr.Err}
}

func (v *TokenInfoVerifier) requestURL(raw string) (string, error) {
	u, err := url.Parse(v.endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("access_token", raw)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

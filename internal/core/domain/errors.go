package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Sign-in Errors.

	// ErrUserCancelled indicates the user aborted the interactive sign-in flow.
	// Callers typically show no error UI for this case.
	ErrUserCancelled = errors.New("sign-in cancelled by user")

	// ErrPlatformAPI indicates the sign-in platform reported a non-zero status.
	ErrPlatformAPI = errors.New("sign-in platform failure")

	// Token Errors.

	// ErrIO indicates a transport failure while verifying a token, or a token
	// whose remaining lifetime is below StaleTokenFloor.
	// This is the only failure the token acquirer retries.
	ErrIO = errors.New("i/o failure")

	// ErrMalformedResponse indicates the verification response could not be parsed
	// or lacks a required field. Never retried.
	ErrMalformedResponse = errors.New("malformed verification response")

	// ErrAccountStore indicates the account token store failed to fetch or
	// invalidate a token. Never retried.
	ErrAccountStore = errors.New("account store failure")

	// ErrTokenRetrieval wraps any acquisition failure that happens after a
	// successful sign-in.
	ErrTokenRetrieval = errors.New("access token retrieval failed")
)

// StatusError carries a numeric status code reported by the sign-in platform.
// It unwraps to ErrUserCancelled for StatusSignInCancelled and to
// ErrPlatformAPI for every other code.
type StatusError struct {
	Code int
	// Err is the underlying cause, if any.
	Err error
}

// NewStatusError creates a StatusError for code with an optional cause.
func NewStatusError(code int, cause error) *StatusError {
	return &StatusError{Code: code, Err: cause}
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("status %d (%s): %v", e.Code, StatusText(e.Code), e.Err)
	}
	return fmt.Sprintf("status %d (%s)", e.Code, StatusText(e.Code))
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is / errors.As.
func (e *StatusError) Unwrap() []error {
	kind := ErrPlatformAPI
	if e.Code == StatusSignInCancelled {
		kind = ErrUserCancelled
	}
	if e.Err == nil {
		return []error{kind}
	}
	return []error{kind, e.Err}
}

// StatusCode extracts the platform status code from err, if one is present.
func StatusCode(err error) (int, bool) {
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.Code, true
	}
	return 0, false
}

// StatusCodeString returns the status code of err as a string, or "" if absent.
func StatusCodeString(err error) string {
	code, ok := StatusCode(err)
	if !ok {
		return ""
	}
	return strconv.Itoa(code)
}

// IsRetryable reports whether err warrants discarding the cached token and
// trying once more.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrIO)
}

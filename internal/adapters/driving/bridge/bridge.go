// Package bridge dispatches named method calls from a host runtime to the
// session service and reports each outcome as either data or a rejection.
//
// Every call runs on its own goroutine; the caller receives the single
// response on a buffered channel and is never blocked by the work itself.
package bridge

import (
	"context"
	"errors"
	"strconv"

	"github.com/custodia-labs/gsignin/internal/core/domain"
	"github.com/custodia-labs/gsignin/internal/core/ports/driving"
	"github.com/custodia-labs/gsignin/internal/logger"
)

// Method names understood by the bridge.
const (
	MethodInitialize = "initialize"
	MethodSignIn     = "signIn"
	MethodRefresh    = "refresh"
	MethodSignOut    = "signOut"
)

// Rejection messages reported to the host.
const (
	msgCancelled       = "The user canceled the sign-in flow."
	msgSignInToken     = "Something went wrong while retrieving access token"
	msgSilentSignIn    = "Something went wrong with silent sign in"
	msgRefreshToken    = "Unable to fetch access token"
	msgSignOut         = "Sign out failed"
	msgNotImplemented  = "Method not implemented."
	codeNotImplemented = "UNIMPLEMENTED"
	msgErrorCodePrefix = "Error code: "
)

// Call is a single method invocation from the host.
type Call struct {
	// ID correlates the response with the call.
	ID string `json:"id"`
	// Method is one of the Method* constants.
	Method string `json:"method"`
	// Options overrides the bridge's OptionsSource for this call when set.
	Options *domain.SignInOptions `json:"options,omitempty"`
}

// Rejection is a failed call as the host sees it.
type Rejection struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error implements error.
func (r *Rejection) Error() string {
	if r.Code == "" {
		return r.Message
	}
	return r.Message + " (" + r.Code + ")"
}

// Response is the outcome of a Call: Data on success, Error on failure.
type Response struct {
	CallID string     `json:"callId"`
	Data   any        `json:"data,omitempty"`
	Error  *Rejection `json:"error,omitempty"`
}

// OK reports whether the call resolved.
func (r Response) OK() bool {
	return r.Error == nil
}

// OptionsSource supplies sign-in options. It is evaluated once per call,
// so configuration changes apply to the next call.
type OptionsSource func() (domain.SignInOptions, error)

// Bridge routes calls to a SessionService.
type Bridge struct {
	session driving.SessionService
	options OptionsSource
}

// New creates a bridge.
func New(session driving.SessionService, options OptionsSource) *Bridge {
	return &Bridge{
		session: session,
		options: options,
	}
}

// Dispatch starts call on a new goroutine and returns the channel its
// single Response will be delivered on.
func (b *Bridge) Dispatch(ctx context.Context, call Call) <-chan Response {
	ch := make(chan Response, 1)
	go func() {
		defer close(ch)
		ch <- b.handle(ctx, call)
	}()
	return ch
}

// Invoke dispatches call and waits for its response.
func (b *Bridge) Invoke(ctx context.Context, call Call) Response {
	return <-b.Dispatch(ctx, call)
}

func (b *Bridge) handle(ctx context.Context, call Call) Response {
	logger.Debug("bridge: call %s %s", call.ID, call.Method)
	resp := Response{CallID: call.ID}

	switch call.Method {
	case MethodInitialize, MethodSignIn, MethodRefresh, MethodSignOut:
	default:
		resp.Error = &Rejection{Message: msgNotImplemented, Code: codeNotImplemented}
		return resp
	}

	opts, err := b.resolveOptions(call)
	if err != nil {
		resp.Error = &Rejection{Message: err.Error()}
		return resp
	}

	var cause error
	switch call.Method {
	case MethodInitialize:
		if cause = b.session.Initialize(ctx, opts); cause != nil {
			resp.Error = &Rejection{Message: cause.Error()}
		}

	case MethodSignIn:
		var result *domain.SignInResult
		if result, cause = b.session.SignIn(ctx, opts); cause != nil {
			resp.Error = signInRejection(cause)
		} else {
			resp.Data = result
		}

	case MethodRefresh:
		var result *domain.RefreshResult
		if result, cause = b.session.Refresh(ctx, opts); cause != nil {
			resp.Error = refreshRejection(cause)
		} else {
			resp.Data = result
		}

	case MethodSignOut:
		if cause = b.session.SignOut(ctx, opts); cause != nil {
			resp.Error = &Rejection{Message: msgSignOut}
		}
	}

	if resp.Error != nil {
		logger.Debug("bridge: call %s rejected: %s (cause: %v)", call.ID, resp.Error.Message, cause)
	}
	return resp
}

func (b *Bridge) resolveOptions(call Call) (domain.SignInOptions, error) {
	if call.Options != nil {
		return *call.Options, nil
	}
	if b.options == nil {
		return domain.SignInOptions{}, domain.ErrNotImplemented
	}
	return b.options()
}

// signInRejection maps an interactive sign-in failure.
func signInRejection(err error) *Rejection {
	switch {
	case errors.Is(err, domain.ErrTokenRetrieval):
		return &Rejection{Message: msgSignInToken}
	case errors.Is(err, domain.ErrUserCancelled):
		return &Rejection{Message: msgCancelled, Code: strconv.Itoa(domain.StatusSignInCancelled)}
	}
	if code, ok := domain.StatusCode(err); ok {
		s := strconv.Itoa(code)
		return &Rejection{Message: msgErrorCodePrefix + s, Code: s}
	}
	return &Rejection{Message: err.Error()}
}

// refreshRejection maps a refresh failure.
func refreshRejection(err error) *Rejection {
	if errors.Is(err, domain.ErrTokenRetrieval) {
		return &Rejection{Message: msgRefreshToken}
	}
	return &Rejection{Message: msgSilentSignIn, Code: domain.StatusCodeString(err)}
}

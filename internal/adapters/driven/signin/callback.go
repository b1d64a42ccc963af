package signin

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"
)

// errStateMismatch is reported when the redirect carries an unexpected state.
var errStateMismatch = errors.New("state mismatch")

// ProviderError is an error returned by the authorization server on the redirect.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description == "" {
		return "oauth error: " + e.Code
	}
	return fmt.Sprintf("oauth error: %s - %s", e.Code, e.Description)
}

// callbackResult is the outcome of a single redirect.
type callbackResult struct {
	code string
	err  error
}

// CallbackServer receives the OAuth redirect on a loopback address.
// Only the first redirect is delivered; later ones are answered but dropped.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	results       chan callbackResult
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a new OAuth callback server.
// The expectedState is used to validate the callback matches the request.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		results:       make(chan callbackResult, 1),
	}
}

// Start starts the callback server on the configured port.
// If port is 0, a random available port will be chosen.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	// Store the actual port (important when port was 0)
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.deliver(callbackResult{err: err})
		}
	}()

	return nil
}

func (s *CallbackServer) deliver(r callbackResult) {
	select {
	case s.results <- r:
	default:
	}
}

// handleCallback processes the OAuth callback request.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if errParam := query.Get("error"); errParam != "" {
		perr := &ProviderError{Code: errParam, Description: query.Get("error_description")}
		s.deliver(callbackResult{err: perr})
		_, _ = fmt.Fprint(w, resultHTML("Sign-in failed", perr.Error()))
		return
	}

	if state := query.Get("state"); state != s.expectedState {
		s.deliver(callbackResult{err: errStateMismatch})
		_, _ = fmt.Fprint(w, resultHTML("Sign-in failed", "Invalid state parameter."))
		return
	}

	code := query.Get("code")
	if code == "" {
		s.deliver(callbackResult{err: errors.New("no authorization code received")})
		_, _ = fmt.Fprint(w, resultHTML("Sign-in failed", "No authorization code received."))
		return
	}

	s.deliver(callbackResult{code: code})
	_, _ = fmt.Fprint(w, resultHTML("Signed in", "You can close this window and return to the application."))
}

// WaitForCode blocks until the authorization code is received or ctx is done.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	select {
	case r := <-s.results:
		return r.code, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Stop shuts down the callback server.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI returns the redirect URI for this callback server.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://127.0.0.1:%d/callback", s.Port())
}

func resultHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>gsignin</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
               display: flex; justify-content: center; align-items: center;
               height: 100vh; margin: 0; background: #FAFAFA; }
        .container { text-align: center; background: white; padding: 48px 64px;
                     border-radius: 16px; border: 1px solid #DADCE0; }
        h1 { color: #202124; margin: 0 0 8px 0; font-size: 24px; font-weight: 500; }
        p { color: #5F6368; margin: 0; font-size: 16px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}

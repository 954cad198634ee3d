// Package oauth implements the browser-based authorization flow: the local
// callback server that captures the provider redirect, the flow that races
// it against a timeout, and the browser hand-off.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/lertsoft/oura-ring-cli/internal/core/domain"
	"github.com/lertsoft/oura-ring-cli/internal/logger"
)

// CallbackServer is a single-use local HTTP endpoint that captures exactly
// one provider redirect carrying an authorization code or an error. It is
// started before the browser hand-off and closed by the flow's teardown,
// whichever way the wait resolves.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	path          string
	expectedState string
	codeChan      chan string
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a callback server for the given port and path.
// When expectedState is non-empty, redirects carrying a different state are
// treated as irrelevant requests and do not resolve the wait.
func NewCallbackServer(port int, path, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		path:          path,
		expectedState: expectedState,
		codeChan:      make(chan string, 1),
		errChan:       make(chan error, 1),
	}
}

// Start binds the local port and begins serving.
// A bind failure is reported as domain.ErrPortUnavailable so callers can
// tell "port taken" apart from every other start failure.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleCallback)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrPortUnavailable, addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	return nil
}

// handleCallback processes a request to the registered callback path.
// Exactly one outcome is ever delivered to the waiting flow: the result
// channels are buffered with capacity one and later sends are dropped.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		s.resolveErr(fmt.Errorf("%w: %s", domain.ErrOAuthDenied, errParam))
		writePage(w, http.StatusBadRequest, "Authorization failed",
			fmt.Sprintf("The provider reported: %s. Return to the terminal and try again.", html.EscapeString(errParam)))
		return
	}

	if s.expectedState != "" && query.Get("state") != s.expectedState {
		// Not the redirect this flow is waiting for. Ignored, not escalated.
		logger.Warn("callback with unexpected state ignored")
		writePage(w, http.StatusBadRequest, "Authorization failed",
			"State mismatch. Return to the terminal and restart the flow.")
		return
	}

	code := query.Get("code")
	if code == "" {
		// Malformed request to the callback path. Ignored, not escalated.
		logger.Warn("callback without code or error ignored")
		writePage(w, http.StatusBadRequest, "Authorization failed",
			"No authorization code received. Return to the terminal and restart the flow.")
		return
	}

	s.resolveCode(code)
	writePage(w, http.StatusOK, "Authorization successful",
		"You can close this window and return to the terminal.")
}

func (s *CallbackServer) resolveCode(code string) {
	select {
	case s.codeChan <- code:
	default:
	}
}

func (s *CallbackServer) resolveErr(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

// WaitForCode blocks until the redirect resolves, the provider reports an
// error, or the timeout elapses. This is the flow's one race: two
// distinguishable listener outcomes against a timer.
func (s *CallbackServer) WaitForCode(ctx context.Context, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", domain.ErrAuthTimeout
		}
		return "", ctx.Err()
	}
}

// Stop shuts down the server and releases the port.
// Safe to call whether or not a request ever arrived, and safe to call
// more than once.
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

// Port returns the port the server listens on.
func (s *CallbackServer) Port() int {
	return s.port
}

// RedirectURI returns the redirect URI for this callback server. It must
// exactly match the URI registered with the provider.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", s.port, s.path)
}

// writePage renders the static page shown in the user's browser after the
// redirect. Title and message are expected to be safe or pre-escaped.
func writePage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
    <title>Oura CLI</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #10131A;
        }
        .card {
            text-align: center;
            background: #1B2030;
            padding: 48px 64px;
            border-radius: 12px;
        }
        h1 { color: #E8EAF0; margin: 0 0 8px 0; font-size: 22px; }
        p { color: #9AA3B5; margin: 0; font-size: 15px; }
    </style>
</head>
<body>
    <div class="card">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, title, message)
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}

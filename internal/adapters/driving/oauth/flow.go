package oauth

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/lertsoft/oura-ring-cli/internal/core/ports/driven"
	"github.com/lertsoft/oura-ring-cli/internal/logger"
)

// Oura OAuth constants. The redirect URI must exactly match the one
// registered with the Oura application; a mismatch is rejected by the
// provider, not detectable locally.
const (
	DefaultAuthURL = "https://cloud.ouraring.com/oauth/authorize"

	// DefaultPort is the local callback port.
	DefaultPort = 8080

	// CallbackPath is the local callback path.
	CallbackPath = "/callback"

	// DefaultTimeout bounds the wait for the provider redirect.
	DefaultTimeout = 5 * time.Minute
)

// defaultScopes is the complete scope list the Oura API supports. The flow
// requests full access up front; incremental scopes are not supported.
var defaultScopes = []string{
	"email", "personal", "daily", "heartrate", "workout", "tag", "session", "spo2",
}

// Ensure Flow implements the Authorizer port.
var _ driven.Authorizer = (*Flow)(nil)

// Flow orchestrates the browser-based consent flow: it starts the callback
// server, hands the composed authorization URL to the user's browser, and
// waits for exactly one of code, provider error, or timeout.
type Flow struct {
	authURL string
	port    int
	scopes  []string
	timeout time.Duration

	// openBrowser is the best-effort browser side effect, injectable for
	// tests. Failure is non-fatal: the URL is printed for manual paste.
	openBrowser func(url string) error
	out         io.Writer
}

// NewFlow creates an authorization flow bound to the given local port.
// A non-positive port selects the default.
func NewFlow(port int) *Flow {
	if port <= 0 {
		port = DefaultPort
	}
	return &Flow{
		authURL:     DefaultAuthURL,
		port:        port,
		scopes:      defaultScopes,
		timeout:     DefaultTimeout,
		openBrowser: OpenBrowser,
		out:         os.Stdout,
	}
}

// RedirectURI returns the redirect URI the flow registers with the provider.
func (f *Flow) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", f.port, CallbackPath)
}

// Authorize runs the flow and returns the captured authorization code.
//
// The callback server starts before anything else: if the port cannot be
// bound the flow fails with domain.ErrPortUnavailable and no browser is
// opened. The single deferred Stop is the only teardown path, so the port
// is released on success, provider error, and timeout alike.
func (f *Flow) Authorize(ctx context.Context, clientID string) (string, error) {
	state := uuid.NewString()

	srv := NewCallbackServer(f.port, CallbackPath, state)
	if err := srv.Start(); err != nil {
		return "", err
	}
	defer func() { _ = srv.Stop() }()

	cfg := oauth2.Config{
		ClientID:    clientID,
		Endpoint:    oauth2.Endpoint{AuthURL: f.authURL},
		RedirectURL: f.RedirectURI(),
		Scopes:      f.scopes,
	}
	authURL := cfg.AuthCodeURL(state)

	fmt.Fprintf(f.out, "Opening your browser to authorize this application:\n\n  %s\n\n", authURL)
	if err := f.openBrowser(authURL); err != nil {
		logger.Warn("could not open browser: %v", err)
		fmt.Fprintln(f.out, "Open the URL above manually to continue.")
	}

	logger.Debug("waiting up to %s for callback on %s", f.timeout, srv.RedirectURI())
	return srv.WaitForCode(ctx, f.timeout)
}

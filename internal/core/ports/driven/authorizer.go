package driven

import "context"

// Authorizer produces a single authorization code by orchestrating the
// browser hand-off: it owns the local callback listener, the browser side
// effect, and the timeout race.
type Authorizer interface {
	// Authorize runs the flow for the given client and blocks until a code
	// arrives, the provider reports an error (domain.ErrOAuthDenied), the
	// wait window elapses (domain.ErrAuthTimeout), or the listener cannot
	// bind (domain.ErrPortUnavailable). The listener is closed on every
	// outcome.
	Authorize(ctx context.Context, clientID string) (string, error)

	// RedirectURI returns the redirect URI the flow registers with the
	// provider. The token exchange must send the exact same value.
	RedirectURI() string
}

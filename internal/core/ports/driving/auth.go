package driving

import (
	"context"

	"github.com/lertsoft/oura-ring-cli/internal/core/domain"
)

// AuthService is the single entry point for obtaining usable credentials.
// Every API-bound caller goes through Get followed by EnsureFresh and
// either receives a currently-valid access token or a well-defined failure.
type AuthService interface {
	// Authenticate runs the full authorization flow for the given client
	// pair, persists the resulting credential, and returns it.
	Authenticate(ctx context.Context, clientID, clientSecret string) (domain.Credential, error)

	// Get loads the stored credential. Fails with domain.ErrNotAuthenticated
	// when no access token is on record; the caller must be told to run the
	// authorization flow, not retried automatically.
	Get(ctx context.Context) (domain.Credential, error)

	// EnsureFresh returns the credential with a usable access token,
	// refreshing and persisting it first when stale. Exactly one refresh
	// attempt is made per staleness detection.
	EnsureFresh(ctx context.Context, cred domain.Credential) (domain.Credential, error)
}

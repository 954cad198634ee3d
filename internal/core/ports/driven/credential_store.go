package driven

import (
	"context"

	"github.com/lertsoft/oura-ring-cli/internal/core/domain"
)

// CredentialStore provides durable persistence for the single credential
// record. The store exclusively owns the durable copy; the auth service
// holds a transient in-memory copy for one CLI invocation.
type CredentialStore interface {
	// Load reads the stored credential. A missing record is not an error:
	// it loads as an all-empty credential.
	Load(ctx context.Context) (domain.Credential, error)

	// Save writes the credential, replacing any previous record.
	Save(ctx context.Context, cred domain.Credential) error
}

// Package memory provides in-memory storage adapters, used by tests and as
// reference implementations of the driven storage ports.
package memory

import (
	"context"
	"sync"

	"github.com/lertsoft/oura-ring-cli/internal/core/domain"
	"github.com/lertsoft/oura-ring-cli/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is an in-memory implementation of driven.CredentialStore.
type CredentialStore struct {
	mu   sync.RWMutex
	cred domain.Credential
}

// NewCredentialStore creates an empty in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// Load returns the stored credential; all-empty when never saved.
func (s *CredentialStore) Load(_ context.Context) (domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, nil
}

// Save replaces the stored credential.
func (s *CredentialStore) Save(_ context.Context, cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
	return nil
}

// Reset clears the stored credential.
func (s *CredentialStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = domain.Credential{}
}

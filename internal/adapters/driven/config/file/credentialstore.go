// Package file persists the credential record and application settings in
// the per-user config directory.
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/lertsoft/oura-ring-cli/internal/core/domain"
	"github.com/lertsoft/oura-ring-cli/internal/core/ports/driven"
)

// credentialFile is the JSON file holding the single credential record.
const credentialFile = "credentials.json"

// DefaultConfigDirName is the per-user config directory under $HOME.
const DefaultConfigDirName = ".oura"

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is a file-based implementation of driven.CredentialStore.
// The record is a JSON object with client_id, client_secret, access_token,
// refresh_token and expiry (RFC 3339). A missing file loads as an all-empty
// credential, not an error.
type CredentialStore struct {
	mu       sync.Mutex
	filePath string
}

// NewCredentialStore creates a credential store rooted at configDir.
// If configDir is empty, defaults to ~/.oura. The directory is created
// with owner-only permissions.
func NewCredentialStore(configDir string) (*CredentialStore, error) {
	dir, err := resolveConfigDir(configDir)
	if err != nil {
		return nil, err
	}
	return &CredentialStore{filePath: filepath.Join(dir, credentialFile)}, nil
}

// resolveConfigDir expands an empty dir to the per-user default and ensures
// it exists.
func resolveConfigDir(configDir string) (string, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, DefaultConfigDirName)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}
	return configDir, nil
}

// Load reads the stored credential.
func (s *CredentialStore) Load(_ context.Context) (domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// Never authenticated yet.
			return domain.Credential{}, nil
		}
		return domain.Credential{}, err
	}

	var cred domain.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return domain.Credential{}, err
	}
	return cred, nil
}

// Save writes the credential with restricted permissions.
func (s *CredentialStore) Save(_ context.Context, cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Delete removes the stored credential. A missing file is not an error.
func (s *CredentialStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path returns the credential file path.
func (s *CredentialStore) Path() string {
	return s.filePath
}

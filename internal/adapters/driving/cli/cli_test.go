package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lertsoft/oura-ring-cli/internal/core/domain"
)

// fakeAuthService is a scriptable driving.AuthService for command tests.
type fakeAuthService struct {
	cred domain.Credential
	err  error

	authenticateCalls int
	ensureFreshCalls  int

	lastClientID     string
	lastClientSecret string
}

func (f *fakeAuthService) Authenticate(
	_ context.Context, clientID, clientSecret string,
) (domain.Credential, error) {
	f.authenticateCalls++
	f.lastClientID = clientID
	f.lastClientSecret = clientSecret
	return f.cred, f.err
}

func (f *fakeAuthService) Get(_ context.Context) (domain.Credential, error) {
	if f.err != nil {
		return domain.Credential{}, f.err
	}
	if !f.cred.IsAuthenticated() {
		return domain.Credential{}, domain.ErrNotAuthenticated
	}
	return f.cred, nil
}

func (f *fakeAuthService) EnsureFresh(
	_ context.Context, cred domain.Credential,
) (domain.Credential, error) {
	f.ensureFreshCalls++
	return cred, nil
}

// executeCommand runs the root command with the given args and returns the
// combined output. Command state is restored after the test.
func executeCommand(t *testing.T, svc *fakeAuthService, args ...string) (string, error) {
	t.Helper()

	if svc != nil {
		authService = svc
	}
	t.Cleanup(func() {
		authService = nil
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		flagConfigDir = ""
		flagVerbose = false
		authLoginClientID = ""
		authLoginClientSecret = ""
	})

	var out strings.Builder
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	version = "1.2.3"

	out, err := executeCommand(t, &fakeAuthService{}, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "oura version 1.2.3")
}

func TestAuthStatus_NotAuthenticated(t *testing.T) {
	out, err := executeCommand(t, &fakeAuthService{}, "auth", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Not authenticated.")
	assert.Contains(t, out, "oura auth login")
}

func TestAuthStatus_FreshCredential(t *testing.T) {
	svc := &fakeAuthService{
		cred: domain.Credential{
			ClientID:    "ABCDEFGHIJKLMNOP",
			AccessToken: "T",
			Expiry:      time.Now().Add(time.Hour),
		},
	}

	out, err := executeCommand(t, svc, "auth", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "ABCDEFGHIJKL...")
	assert.NotContains(t, out, "ABCDEFGHIJKLM")
	assert.Contains(t, out, "fresh")
}

func TestAuthStatus_StaleCredential(t *testing.T) {
	svc := &fakeAuthService{
		cred: domain.Credential{
			ClientID:    "client",
			AccessToken: "T",
			Expiry:      time.Now().Add(time.Minute),
		},
	}

	out, err := executeCommand(t, svc, "auth", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "stale")
}

func TestAuthToken_PrintsFreshToken(t *testing.T) {
	svc := &fakeAuthService{
		cred: domain.Credential{
			AccessToken: "access-token-value",
			Expiry:      time.Now().Add(time.Hour),
		},
	}

	out, err := executeCommand(t, svc, "auth", "token")

	require.NoError(t, err)
	assert.Equal(t, 1, svc.ensureFreshCalls)
	assert.Contains(t, out, "access-token-value")
}

func TestAuthToken_NotAuthenticated(t *testing.T) {
	_, err := executeCommand(t, &fakeAuthService{}, "auth", "token")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Contains(t, err.Error(), "oura auth login")
}

func TestAuthLogin_FlagsPassedThrough(t *testing.T) {
	svc := &fakeAuthService{
		cred: domain.Credential{
			ClientID:    "client",
			AccessToken: "T",
			Expiry:      time.Now().Add(time.Hour),
		},
	}

	out, err := executeCommand(t, svc,
		"auth", "login", "--client-id", "client", "--client-secret", "secret")

	require.NoError(t, err)
	assert.Equal(t, 1, svc.authenticateCalls)
	assert.Equal(t, "client", svc.lastClientID)
	assert.Equal(t, "secret", svc.lastClientSecret)
	assert.Contains(t, out, "Authorized.")
}

func TestAuthLogin_PromptsForMissingValues(t *testing.T) {
	svc := &fakeAuthService{
		cred: domain.Credential{AccessToken: "T", Expiry: time.Now().Add(time.Hour)},
	}

	authService = svc
	rootCmd.SetIn(strings.NewReader("typed-id\ntyped-secret\n"))

	out, err := executeCommand(t, nil, "auth", "login")

	require.NoError(t, err)
	assert.Equal(t, "typed-id", svc.lastClientID)
	assert.Equal(t, "typed-secret", svc.lastClientSecret)
	assert.Contains(t, out, "Client ID: ")
	assert.Contains(t, out, "Client secret: ")
}

func TestAuthLogin_EmptyClientIDRejected(t *testing.T) {
	authService = &fakeAuthService{}
	rootCmd.SetIn(strings.NewReader("\n"))

	_, err := executeCommand(t, nil, "auth", "login")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "client ID is required")
}

func TestAuthLogin_DeniedShowsRestartHint(t *testing.T) {
	svc := &fakeAuthService{
		err: fmt.Errorf("%w: access_denied", domain.ErrOAuthDenied),
	}

	_, err := executeCommand(t, svc,
		"auth", "login", "--client-id", "c", "--client-secret", "s")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOAuthDenied)
	assert.Contains(t, err.Error(), "oura auth login")
}

func TestAuthReset(t *testing.T) {
	dir := t.TempDir()

	out, err := executeCommand(t, &fakeAuthService{},
		"auth", "reset", "--config-dir", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "Removed stored credential")
	assert.Contains(t, out, dir)
}

func TestFriendlyAuthError_DistinctGuidance(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"port unavailable", domain.ErrPortUnavailable, "callback port"},
		{"denied", domain.ErrOAuthDenied, "Restart authorization"},
		{"timeout", domain.ErrAuthTimeout, "consent screen"},
		{"refresh failed", domain.ErrRefreshFailed, "Re-authorize"},
		{"not authenticated", domain.ErrNotAuthenticated, "oura auth login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := friendlyAuthError(tt.err)
			assert.ErrorIs(t, got, tt.err)
			assert.Contains(t, got.Error(), tt.contains)
		})
	}
}

func TestFriendlyAuthError_UnknownPassedThrough(t *testing.T) {
	got := friendlyAuthError(assert.AnError)

	assert.Equal(t, assert.AnError, got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 12))
	assert.Equal(t, "exactly-12-c", truncate("exactly-12-chars", 12))
}

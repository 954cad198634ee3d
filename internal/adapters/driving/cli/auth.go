package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lertsoft/oura-ring-cli/internal/adapters/driven/config/file"
	"github.com/lertsoft/oura-ring-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Oura API authorization",
	Long: `Authorize the CLI against the Oura cloud API and inspect the stored
credential.

'auth login' opens your browser to the Oura consent screen, captures the
redirect on a local port, and stores the resulting tokens. Later commands
refresh the access token transparently; you only re-run 'auth login' when
the refresh token itself has been revoked.

Examples:
  # Authorize with an Oura application
  oura auth login --client-id "xxx" --client-secret "yyy"

  # Show the stored credential
  oura auth status

  # Print a currently-valid access token (for scripting)
  oura auth token

  # Forget the stored credential
  oura auth reset`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Run the browser authorization flow",
	RunE:  runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored credential",
	RunE:  runAuthStatus,
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a currently-valid access token",
	RunE:  runAuthToken,
}

var authResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored credential",
	RunE:  runAuthReset,
}

// Flags for auth login.
var (
	authLoginClientID     string
	authLoginClientSecret string
)

func init() {
	authLoginCmd.Flags().StringVar(
		&authLoginClientID, "client-id", "", "Oura application client ID")
	authLoginCmd.Flags().StringVar(
		&authLoginClientSecret, "client-secret", "", "Oura application client secret")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authTokenCmd)
	authCmd.AddCommand(authResetCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	clientID := authLoginClientID
	clientSecret := authLoginClientSecret

	reader := bufio.NewReader(cmd.InOrStdin())
	if clientID == "" {
		cmd.Print("Client ID: ")
		input, _ := reader.ReadString('\n')
		clientID = strings.TrimSpace(input)
	}
	if clientID == "" {
		return errors.New("client ID is required")
	}

	if clientSecret == "" {
		secret, err := readSecret(cmd, reader)
		if err != nil {
			return err
		}
		clientSecret = secret
	}
	if clientSecret == "" {
		return errors.New("client secret is required")
	}

	cred, err := authService.Authenticate(cmd.Context(), clientID, clientSecret)
	if err != nil {
		return friendlyAuthError(err)
	}

	cmd.Printf("Authorized. Access token expires %s.\n", cred.Expiry.Format(time.RFC3339))
	return nil
}

// readSecret prompts for the client secret without echo when stdin is a
// terminal, falling back to a plain read otherwise (pipes, tests).
func readSecret(cmd *cobra.Command, reader *bufio.Reader) (string, error) {
	cmd.Print("Client secret: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("read client secret: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input), nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	cred, err := authService.Get(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			cmd.Println("Not authenticated.")
			cmd.Println("Run: oura auth login --client-id <id> --client-secret <secret>")
			return nil
		}
		return err
	}

	cmd.Printf("Client ID:  %s...\n", truncate(cred.ClientID, 12))
	cmd.Printf("Expires:    %s\n", cred.Expiry.Format(time.RFC3339))
	if cred.IsStale(time.Now()) {
		cmd.Println("State:      stale (will refresh on next use)")
	} else {
		cmd.Println("State:      fresh")
	}
	return nil
}

func runAuthToken(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	cred, err := authService.Get(cmd.Context())
	if err != nil {
		return friendlyAuthError(err)
	}

	cred, err = authService.EnsureFresh(cmd.Context(), cred)
	if err != nil {
		return friendlyAuthError(err)
	}

	cmd.Println(cred.AccessToken)
	return nil
}

func runAuthReset(cmd *cobra.Command, _ []string) error {
	store, err := file.NewCredentialStore(flagConfigDir)
	if err != nil {
		return err
	}
	if err := store.Delete(); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	cmd.Printf("Removed stored credential (%s).\n", store.Path())
	return nil
}

// friendlyAuthError maps each failure kind to a distinct, actionable
// message. RefreshFailed in particular must tell the user to re-authorize:
// a revoked refresh token fails identically on every subsequent call.
func friendlyAuthError(err error) error {
	switch {
	case errors.Is(err, domain.ErrPortUnavailable):
		return fmt.Errorf("%w\nSomething else is listening on the callback port. Free it (or set oauth.port in settings.toml) and retry", err)
	case errors.Is(err, domain.ErrOAuthDenied):
		return fmt.Errorf("%w\nRestart authorization with 'oura auth login'", err)
	case errors.Is(err, domain.ErrAuthTimeout):
		return fmt.Errorf("%w\nNo redirect arrived within 5 minutes. Run 'oura auth login' again and complete the consent screen", err)
	case errors.Is(err, domain.ErrRefreshFailed):
		return fmt.Errorf("%w\nThe refresh token was likely revoked. Re-authorize with 'oura auth login'", err)
	case errors.Is(err, domain.ErrNotAuthenticated):
		return fmt.Errorf("%w\nRun 'oura auth login' first", err)
	default:
		return err
	}
}

// truncate truncates a string to the specified length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

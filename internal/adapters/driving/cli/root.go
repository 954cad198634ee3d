// Package cli implements the cobra command tree for the Oura CLI.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/lertsoft/oura-ring-cli/internal/adapters/driven/config/file"
	drivenoauth "github.com/lertsoft/oura-ring-cli/internal/adapters/driven/oauth"
	drivingoauth "github.com/lertsoft/oura-ring-cli/internal/adapters/driving/oauth"
	"github.com/lertsoft/oura-ring-cli/internal/core/ports/driven"
	"github.com/lertsoft/oura-ring-cli/internal/core/ports/driving"
	"github.com/lertsoft/oura-ring-cli/internal/core/services"
	"github.com/lertsoft/oura-ring-cli/internal/logger"
)

var version = "dev"

// Persistent flags.
var (
	flagVerbose   bool
	flagConfigDir string
)

// Services wired by initServices. Tests may pre-set these; initialized
// values are kept.
var (
	authService   driving.AuthService
	settingsStore driven.SettingsStore
)

var rootCmd = &cobra.Command{
	Use:   "oura",
	Short: "Personal-data CLI client for the Oura Ring cloud API",
	Long: `oura is a command-line client for the Oura Ring cloud API.

Authorize once with 'oura auth login'; the resulting credential is stored
in your config directory and refreshed transparently on later calls.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&flagVerbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(
		&flagConfigDir, "config-dir", "", "Config directory (default ~/.oura)")
}

// initServices wires the file stores, the token exchanger, and the
// authorization flow into the auth service.
func initServices() error {
	if authService != nil {
		return nil
	}

	settings, err := file.NewSettingsStore(flagConfigDir)
	if err != nil {
		return err
	}
	settingsStore = settings
	if !flagVerbose && settings.GetBool("verbose") {
		logger.SetVerbose(true)
	}

	store, err := file.NewCredentialStore(flagConfigDir)
	if err != nil {
		return err
	}

	flow := drivingoauth.NewFlow(settings.GetInt("oauth.port"))
	exchanger := drivenoauth.NewExchanger("")
	authService = services.NewAuthService(store, exchanger, flow)

	logger.Debug("credentials at %s, callback on %s", store.Path(), flow.RedirectURI())
	return nil
}

// Execute runs the root command.
func Execute(v string) error {
	version = v
	return rootCmd.Execute()
}

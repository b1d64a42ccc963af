// Package cli provides the gsignin command-line interface.
//
// Every command prints JSON on stdout so its output can be piped into other
// tools. Diagnostics go to stderr through the logger.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gsignin/internal/adapters/driven/signin"
	"github.com/custodia-labs/gsignin/internal/adapters/driving/bridge"
	"github.com/custodia-labs/gsignin/internal/core/domain"
	"github.com/custodia-labs/gsignin/internal/core/ports/driving"
	"github.com/custodia-labs/gsignin/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Paths locates on-disk state. Empty fields select the defaults under ~/.gsignin.
type Paths struct {
	ConfigDir string
	DataDir   string
}

// Settings reads and writes sign-in configuration.
type Settings interface {
	SignInOptions() (domain.SignInOptions, error)
	SaveClient(clientID, clientSecret string) error
	SaveScopes(scopes []string) error
}

// App holds the services commands run against.
type App struct {
	Bridge   *bridge.Bridge
	Acquirer driving.TokenAcquirer
	Accounts driving.AccountService
	Settings Settings
	Profiles signin.ProfileFetcher

	// Watch reloads configuration from disk until ctx is done and calls
	// onChange after every reload. Nil disables reloading.
	Watch func(ctx context.Context, onChange func()) error
	// Reconfigure applies reloaded configuration to long-lived components.
	Reconfigure func()

	// Close releases resources such as the account database.
	Close func() error
}

// Factory builds the App for the given paths.
type Factory func(Paths) (*App, error)

var (
	verbose   bool
	configDir string
	dataDir   string

	factory Factory
	app     *App
)

var rootCmd = &cobra.Command{
	Use:   "gsignin",
	Short: "Sign in with Google and hand out verified access tokens",
	Long: `gsignin signs a Google account in through the browser, keeps its refresh
token in a local account registry and hands out access tokens that have been
checked against Google's tokeninfo endpoint.

Configure an OAuth client first:
  gsignin configure --client-id <id>`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.gsignin)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.gsignin/data)")
}

// Execute runs the root command, building services with f on first use.
func Execute(ctx context.Context, f Factory) error {
	factory = f
	defer closeApp()
	return rootCmd.ExecuteContext(ctx)
}

// requireApp builds the App on first use.
func requireApp() (*App, error) {
	if app != nil {
		return app, nil
	}
	if factory == nil {
		return nil, errors.New("services not configured")
	}
	built, err := factory(Paths{ConfigDir: configDir, DataDir: dataDir})
	if err != nil {
		return nil, fmt.Errorf("initialising: %w", err)
	}
	app = built
	return app, nil
}

func closeApp() {
	if app == nil || app.Close == nil {
		return
	}
	if err := app.Close(); err != nil {
		logger.Warn("closing: %v", err)
	}
	app = nil
}

// Command gsignin signs Google accounts in and hands out verified access tokens.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/oauth2/google"

	"github.com/custodia-labs/gsignin/internal/adapters/driven/accountmanager"
	"github.com/custodia-labs/gsignin/internal/adapters/driven/config/file"
	"github.com/custodia-labs/gsignin/internal/adapters/driven/signin"
	"github.com/custodia-labs/gsignin/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/gsignin/internal/adapters/driven/verifier"
	"github.com/custodia-labs/gsignin/internal/adapters/driving/bridge"
	"github.com/custodia-labs/gsignin/internal/adapters/driving/cli"
	"github.com/custodia-labs/gsignin/internal/core/services"
	"github.com/custodia-labs/gsignin/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, buildApp); err != nil {
		stop()
		os.Exit(1)
	}
}

// buildApp wires the adapters and services behind the CLI.
func buildApp(paths cli.Paths) (*cli.App, error) {
	configStore, err := file.NewConfigStore(paths.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore(paths.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening account store: %w", err)
	}
	accounts := store.AccountStore()

	settings := services.NewSettingsService(configStore)
	manager := accountmanager.New(accounts, nil)

	reconfigure := func() {
		opts, err := settings.SignInOptions()
		if err != nil {
			logger.Warn("reading sign-in options: %v", err)
			return
		}
		manager.SetConfig(signin.OAuthConfig(opts, google.Endpoint, ""))
	}
	reconfigure()

	tokenVerifier := verifier.New(settings.TokenInfoURL())
	acquirer := services.NewTokenAcquirer(manager, tokenVerifier)
	client := signin.NewClient(accounts, manager)
	session := services.NewSessionService(client, acquirer)

	return &cli.App{
		Bridge:      bridge.New(session, settings.SignInOptions),
		Acquirer:    acquirer,
		Accounts:    services.NewAccountService(accounts),
		Settings:    settings,
		Profiles:    &signin.UserinfoFetcher{},
		Watch:       configStore.Watch,
		Reconfigure: reconfigure,
		Close:       store.Close,
	}, nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gsignin/internal/adapters/driven/accountmanager"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage stored Google accounts",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored accounts",
	Args:  cobra.NoArgs,
	RunE:  runAccountsList,
}

var accountsCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runAccountsCurrent,
}

var accountsForgetCmd = &cobra.Command{
	Use:   "forget [email]",
	Short: "Remove an account and its tokens",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountsForget,
}

var accountsProfileCmd = &cobra.Command{
	Use:   "profile [email]",
	Short: "Fetch the live Google profile of an account",
	Long: `Calls the Google userinfo API with a verified access token for the account.
Without an email the signed-in account is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAccountsProfile,
}

func init() {
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsCurrentCmd)
	accountsCmd.AddCommand(accountsForgetCmd)
	accountsCmd.AddCommand(accountsProfileCmd)
	rootCmd.AddCommand(accountsCmd)
}

func runAccountsList(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	accounts, err := a.Accounts.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}

	views := make([]accountView, len(accounts))
	for i := range accounts {
		views[i] = newAccountView(&accounts[i])
	}
	return printJSON(cmd, views)
}

func runAccountsCurrent(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	acct, err := a.Accounts.Current(cmd.Context())
	if err != nil {
		return fmt.Errorf("no signed-in account: %w", err)
	}
	return printJSON(cmd, newAccountView(acct))
}

func runAccountsForget(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	if err := a.Accounts.Forget(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("forgetting %s: %w", args[0], err)
	}
	return printJSON(cmd, map[string]string{"forgotten": args[0]})
}

func runAccountsProfile(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if a.Profiles == nil {
		return errors.New("profile fetcher not configured")
	}

	email := ""
	if len(args) == 1 {
		email = args[0]
	}

	handle, err := a.Accounts.Resolve(cmd.Context(), email)
	if err != nil {
		return err
	}

	ts := accountmanager.NewTokenSource(cmd.Context(), a.Acquirer, handle)
	profile, err := a.Profiles.FetchProfile(cmd.Context(), ts)
	if err != nil {
		return fmt.Errorf("fetching profile for %s: %w", handle.Name, err)
	}
	return printJSON(cmd, profile)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tokenRaw bool

var tokenCmd = &cobra.Command{
	Use:   "token [email]",
	Short: "Print a verified access token",
	Long: `Acquires an access token for a stored account and verifies it against the
tokeninfo endpoint. A token that fails verification is discarded and replaced
once. Without an email the signed-in account is used.

Examples:
  gsignin token
  gsignin token ada@example.com
  curl -H "Authorization: Bearer $(gsignin token --raw)" https://www.googleapis.com/oauth2/v2/userinfo`,
	Args: cobra.MaximumNArgs(1),
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().BoolVar(&tokenRaw, "raw", false, "print only the access token")
	rootCmd.AddCommand(tokenCmd)
}

type tokenOutput struct {
	Account     string `json:"account"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
	ExpiresIn   int    `json:"expires_in"`
}

func runToken(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	email := ""
	if len(args) == 1 {
		email = args[0]
	}

	handle, err := a.Accounts.Resolve(cmd.Context(), email)
	if err != nil {
		return err
	}

	record, err := a.Acquirer.Acquire(cmd.Context(), handle)
	if err != nil {
		return fmt.Errorf("acquiring token for %s: %w", handle.Name, err)
	}

	if tokenRaw {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), record.AccessToken)
		return err
	}

	return printJSON(cmd, tokenOutput{
		Account:     handle.Name,
		AccessToken: record.AccessToken,
		ExpiresAt:   record.ExpiresAt,
		ExpiresIn:   record.ExpiresIn,
	})
}

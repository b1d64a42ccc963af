package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/gsignin/internal/adapters/driving/bridge"
)

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in with Google through the browser",
	Long: `Opens the Google consent page in the browser, waits for the redirect on a
local port and stores the signed-in account. Prints the account profile and a
verified access token.`,
	Args: cobra.NoArgs,
	RunE: runBridgeMethod(bridge.MethodSignIn),
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Silently refresh the signed-in account",
	Long: `Mints new tokens from the stored refresh token of the signed-in account
without user interaction. Prints a verified access token.`,
	Args: cobra.NoArgs,
	RunE: runBridgeMethod(bridge.MethodRefresh),
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign the current account out",
	Long:  `Forgets which account is signed in. Stored refresh tokens are kept.`,
	Args:  cobra.NoArgs,
	RunE:  runBridgeMethod(bridge.MethodSignOut),
}

func init() {
	rootCmd.AddCommand(signinCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(signoutCmd)
}

// runBridgeMethod returns a RunE that invokes method through the bridge and
// prints the response. A rejection is printed and returned as the error.
func runBridgeMethod(method string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}

		resp := a.Bridge.Invoke(cmd.Context(), bridge.Call{
			ID:     uuid.NewString(),
			Method: method,
		})
		if err := printJSON(cmd, resp); err != nil {
			return err
		}
		if resp.Error != nil {
			return resp.Error
		}
		return nil
	}
}

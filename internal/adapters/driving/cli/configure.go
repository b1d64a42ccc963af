package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	configureClientID string
	configureScopes   []string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure the OAuth client",
	Long: `Stores the OAuth client used for sign-in. Create a "Desktop app" OAuth
client in the Google Cloud console and pass its ID. The client secret is read
from the terminal without echo.

Examples:
  gsignin configure --client-id 1234.apps.googleusercontent.com
  gsignin configure --client-id 1234.apps.googleusercontent.com \
      --scopes https://www.googleapis.com/auth/drive.readonly`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().StringVar(&configureClientID, "client-id", "", "OAuth client ID (prompted when empty)")
	configureCmd.Flags().StringSliceVar(&configureScopes, "scopes", nil, "additional OAuth scopes, first one required")
	rootCmd.AddCommand(configureCmd)
}

type configureOutput struct {
	ClientID        string   `json:"client_id"`
	ClientSecretSet bool     `json:"client_secret_set"`
	Scopes          []string `json:"scopes,omitempty"`
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	clientID := strings.TrimSpace(configureClientID)
	if clientID == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Client ID: ")
		clientID = readLine(reader)
	}
	if clientID == "" {
		return errors.New("client ID is required")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Client secret (leave empty for none): ")
	secret := readSecret(cmd.InOrStdin(), reader)
	fmt.Fprintln(cmd.ErrOrStderr())

	if err := a.Settings.SaveClient(clientID, secret); err != nil {
		return fmt.Errorf("saving client: %w", err)
	}
	if cmd.Flags().Changed("scopes") {
		if err := a.Settings.SaveScopes(configureScopes); err != nil {
			return fmt.Errorf("saving scopes: %w", err)
		}
	}

	opts, err := a.Settings.SignInOptions()
	if err != nil {
		return err
	}
	return printJSON(cmd, configureOutput{
		ClientID:        opts.ClientID,
		ClientSecretSet: opts.ClientSecret != "",
		Scopes:          opts.Scopes,
	})
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readSecret reads without echo when in is an interactive terminal.
func readSecret(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(reader)
}

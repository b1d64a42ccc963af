package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureCmd_Flags(t *testing.T) {
	assert.NotNil(t, configureCmd.Flags().Lookup("client-id"))
	assert.NotNil(t, configureCmd.Flags().Lookup("scopes"))
}

func TestConfigureCmd_WithFlags(t *testing.T) {
	ta := setupTestApp(t)

	out, err := execute(t, strings.NewReader("s3cret\n"),
		"configure", "--client-id", "new-client", "--scopes", "https://www.googleapis.com/auth/drive.readonly")

	require.NoError(t, err)
	assert.Equal(t, "new-client", ta.config.GetString("google.client_id"))
	assert.Equal(t, "s3cret", ta.config.GetString("google.client_secret"))
	assert.Equal(t, []string{"https://www.googleapis.com/auth/drive.readonly"}, ta.config.GetStringSlice("google.scopes"))
	assert.Contains(t, out, `"client_secret_set": true`)
	assert.NotContains(t, out, "s3cret")
}

func TestConfigureCmd_PromptsForClientID(t *testing.T) {
	ta := setupTestApp(t)

	out, err := execute(t, strings.NewReader("prompted-client\n\n"), "configure")

	require.NoError(t, err)
	assert.Equal(t, "prompted-client", ta.config.GetString("google.client_id"))
	assert.Contains(t, out, `"client_secret_set": false`)
}

func TestConfigureCmd_RequiresClientID(t *testing.T) {
	setupTestApp(t)

	_, err := execute(t, strings.NewReader("\n"), "configure")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "client ID is required")
}

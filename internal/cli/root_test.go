package cli

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitefind/sitefind/internal/apperr"
	"github.com/sitefind/sitefind/internal/config"
	"github.com/sitefind/sitefind/internal/httpclient"
)

// newTestCmd returns a command with the persistent flags registered and the
// config file pointed at a nonexistent path, so tests never touch the real
// user config directory.
func newTestCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	config.RegisterFlags(cmd.PersistentFlags())
	require.NoError(t, cmd.ParseFlags(nil))
	require.NoError(t, cmd.PersistentFlags().Set("config", filepath.Join(t.TempDir(), "missing.yaml")))
	return cmd
}

func TestBuildDeps_Defaults(t *testing.T) {
	d, err := buildDeps(newTestCmd(t), io.Discard)
	require.NoError(t, err)

	assert.NotNil(t, d.logger)
	assert.Equal(t, "text", d.cfg.Global.Output)
	assert.True(t, d.forceWww())
}

func TestBuildDeps_InvalidOutputFormat(t *testing.T) {
	cmd := newTestCmd(t)
	require.NoError(t, cmd.PersistentFlags().Set("output", "yaml"))

	_, err := buildDeps(cmd, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestBuildDeps_InvalidConcurrency(t *testing.T) {
	cmd := newTestCmd(t)
	require.NoError(t, cmd.PersistentFlags().Set("concurrency", "0"))

	_, err := buildDeps(cmd, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency")
}

func TestBuildDeps_NoWww(t *testing.T) {
	cmd := newTestCmd(t)
	require.NoError(t, cmd.PersistentFlags().Set("no-www", "true"))

	d, err := buildDeps(cmd, io.Discard)
	require.NoError(t, err)
	assert.False(t, d.forceWww())
}

func TestNewDirectoryClient_MissingEndpoint(t *testing.T) {
	d, err := buildDeps(newTestCmd(t), io.Discard)
	require.NoError(t, err)

	client, err := httpclient.New("", "", nil, false)
	require.NoError(t, err)

	_, err = d.newDirectoryClient(client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory endpoint")
}

func TestNewDirectoryClient_MissingCredentials(t *testing.T) {
	t.Setenv("SITEFIND_DIRECTORY_ENDPOINT", "https://directory.example.com/service.asmx")
	t.Setenv("SITEFIND_DIRECTORY_USER", "svc-user")

	d, err := buildDeps(newTestCmd(t), io.Discard)
	require.NoError(t, err)

	client, err := httpclient.New("", "", nil, false)
	require.NoError(t, err)

	_, err = d.newDirectoryClient(client)
	require.ErrorIs(t, err, apperr.ErrMissingCredentials)
}

func TestNewHostResolver_TierToggles(t *testing.T) {
	t.Setenv("SITEFIND_SEARCH_API_KEY", "key")
	t.Setenv("SITEFIND_AI_API_KEY", "key")

	cmd := newTestCmd(t)
	require.NoError(t, cmd.PersistentFlags().Set("no-search", "true"))
	require.NoError(t, cmd.PersistentFlags().Set("no-ai", "true"))

	d, err := buildDeps(cmd, io.Discard)
	require.NoError(t, err)
	assert.True(t, d.cfg.Resolve.NoSearch)
	assert.True(t, d.cfg.Resolve.NoAI)
	assert.False(t, d.cfg.Resolve.NoGuess)
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitefind/sitefind/internal/config"
)

func newFlags(t *testing.T, configPath string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Set("config", configPath))
	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	fs := newFlags(t, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := config.Load(fs)
	require.NoError(t, err)

	want := config.NewDefaultConfig()
	assert.Equal(t, want.Global.Output, cfg.Global.Output)
	assert.Equal(t, want.Global.Concurrency, cfg.Global.Concurrency)
	assert.True(t, cfg.Resolve.Www)
	assert.Equal(t, 3*time.Second, cfg.Resolve.NameTimeout)
	assert.Equal(t, 5*time.Second, cfg.Resolve.HTTPTimeout)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
global:
  output: json
  concurrency: 8
directory:
  endpoint: https://directory.example.com/service.asmx
  user: svc-user
search:
  api_key: file-key
resolve:
  name_timeout: 10s
`)
	fs := newFlags(t, path)

	cfg, err := config.Load(fs)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Global.Output)
	assert.Equal(t, 8, cfg.Global.Concurrency)
	assert.Equal(t, "https://directory.example.com/service.asmx", cfg.Directory.Endpoint)
	assert.Equal(t, "svc-user", cfg.Directory.User)
	assert.Equal(t, "file-key", cfg.Search.APIKey)
	assert.Equal(t, 10*time.Second, cfg.Resolve.NameTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "directory:\n  user: file-user\n")
	t.Setenv("SITEFIND_DIRECTORY_USER", "env-user")
	t.Setenv("SITEFIND_DIRECTORY_COMPANY_ID", "42")
	t.Setenv("SITEFIND_AI_API_KEY", "sk-env")
	fs := newFlags(t, path)

	cfg, err := config.Load(fs)
	require.NoError(t, err)

	assert.Equal(t, "env-user", cfg.Directory.User)
	assert.Equal(t, "42", cfg.Directory.CompanyID)
	assert.Equal(t, "sk-env", cfg.AI.APIKey)
}

func TestLoad_FlagOverridesAll(t *testing.T) {
	path := writeConfig(t, "global:\n  output: json\n")
	t.Setenv("SITEFIND_GLOBAL_OUTPUT", "plain")
	fs := newFlags(t, path)
	require.NoError(t, fs.Set("output", "text"))

	cfg, err := config.Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Global.Output)
}

func TestLoad_UnsetFlagDoesNotShadowFile(t *testing.T) {
	path := writeConfig(t, "global:\n  concurrency: 16\n")
	fs := newFlags(t, path)

	cfg, err := config.Load(fs)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Global.Concurrency)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "global: [not a mapping")
	fs := newFlags(t, path)

	_, err := config.Load(fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestGetDefaultConfigPath(t *testing.T) {
	dir := t.TempDir()
	path, err := config.GetDefaultConfigPath(func() (string, error) { return dir, nil })
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "sitefind", "config.yaml"), path)
	info, err := os.Stat(filepath.Join(dir, "sitefind"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

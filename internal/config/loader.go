package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variable overrides, e.g.
// SITEFIND_DIRECTORY_USER maps to the directory.user key.
const envPrefix = "SITEFIND"

// flagBindings maps persistent flag names to their viper config keys.
var flagBindings = map[string]string{
	"output":      "global.output",
	"concurrency": "global.concurrency",
	"proxy":       "global.proxy",
	"user-agent":  "global.user_agent",
	"verbose":     "global.verbose",
	"no-guess":    "resolve.no_guess",
	"no-search":   "resolve.no_search",
	"no-ai":       "resolve.no_ai",
	"www":         "resolve.www",
	"no-www":      "resolve.no_www",
}

// RegisterFlags registers the persistent flags shared by every subcommand.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", "", "config file (default is <user config dir>/sitefind/config.yaml)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.StringP("output", "o", "text", "output format: text, json, plain")
	flags.String("proxy", "", "proxy URL (http://, https://, or socks5://)")
	flags.String("user-agent", "", "custom User-Agent string")
	flags.Int("concurrency", 4, "records processed in parallel in unattended batch runs")
	flags.Bool("no-guess", false, "disable the domain guessing tier")
	flags.Bool("no-search", false, "disable the web search tier")
	flags.Bool("no-ai", false, "disable the AI fallback tier")
	flags.Bool("www", true, "prefix resolved hostnames with www")
	flags.Bool("no-www", false, "strip the www prefix from resolved hostnames")
}

// GetDefaultConfigPath returns the OS-appropriate default config file path.
// Accepts userConfigDir for dependency injection (testability).
// Ensures the app-specific config directory exists.
func GetDefaultConfigPath(userConfigDir func() (string, error)) (string, error) {
	// Get OS-appropriate config directory
	// - Windows: %AppData%
	// - macOS: $HOME/Library/Application Support
	// - Linux: $XDG_CONFIG_HOME or $HOME/.config
	configDir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	appConfigDir := filepath.Join(configDir, "sitefind")

	if err := os.MkdirAll(appConfigDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(appConfigDir, "config.yaml"), nil
}

// Load merges the config file, SITEFIND_* environment variables, and the
// given flag set into a Config. The config file path is taken from the
// --config flag when set, otherwise the OS default location; a missing file
// is not an error.
func Load(flags *pflag.FlagSet) (*Config, error) {
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	return load(configPath, flags, os.UserConfigDir)
}

// load is the testable core of Load.
func load(configPath string, flags *pflag.FlagSet, userConfigDir func() (string, error)) (*Config, error) {
	if configPath == "" {
		var err error
		configPath, err = GetDefaultConfigPath(userConfigDir)
		if err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for flagName, key := range flagBindings {
			f := flags.Lookup(flagName)
			if f == nil {
				continue
			}
			// Bind only flags the user actually set, so config file and
			// env values are not shadowed by flag defaults.
			if f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %q: %w", flagName, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env and flags still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures viper default values matching NewDefaultConfig.
// Every key needs a default so env-only overrides are visible to Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("global.output", "text")
	v.SetDefault("global.concurrency", 4)
	v.SetDefault("global.proxy", "")
	v.SetDefault("global.user_agent", "")
	v.SetDefault("global.verbose", false)

	v.SetDefault("directory.endpoint", "")
	v.SetDefault("directory.user", "")
	v.SetDefault("directory.password", "")
	v.SetDefault("directory.company_id", "")

	v.SetDefault("search.endpoint", "")
	v.SetDefault("search.api_key", "")

	v.SetDefault("ai.endpoint", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "")

	v.SetDefault("resolve.no_guess", false)
	v.SetDefault("resolve.no_search", false)
	v.SetDefault("resolve.no_ai", false)
	v.SetDefault("resolve.www", true)
	v.SetDefault("resolve.no_www", false)
	v.SetDefault("resolve.name_timeout", "3s")
	v.SetDefault("resolve.http_timeout", "5s")
}

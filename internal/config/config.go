// Package config defines the sitefind configuration model and its loader.
// Values are merged from the config file, SITEFIND_* environment variables,
// and command-line flags, in increasing order of precedence.
package config

import "time"

// Config represents the complete sitefind configuration.
type Config struct {
	// Global settings
	Global GlobalConfig `yaml:"global" mapstructure:"global"`

	// Directory service endpoint and credentials
	Directory DirectoryConfig `yaml:"directory" mapstructure:"directory"`

	// Web search tier
	Search SearchConfig `yaml:"search" mapstructure:"search"`

	// AI fallback tier
	AI AIConfig `yaml:"ai" mapstructure:"ai"`

	// Resolution pipeline tuning
	Resolve ResolveConfig `yaml:"resolve" mapstructure:"resolve"`
}

// GlobalConfig holds global application settings.
type GlobalConfig struct {
	// Output format: text, json, plain
	Output string `yaml:"output" mapstructure:"output"`

	// Number of concurrent workers for unattended batch processing
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`

	// Proxy URL (supports HTTP, HTTPS, SOCKS5)
	Proxy string `yaml:"proxy" mapstructure:"proxy"`

	// Custom User-Agent string
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Enable debug logging
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DirectoryConfig holds the directory service endpoint and credentials.
// Credentials are usually supplied via SITEFIND_DIRECTORY_USER,
// SITEFIND_DIRECTORY_PASSWORD, and SITEFIND_DIRECTORY_COMPANY_ID rather
// than the config file.
type DirectoryConfig struct {
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	User      string `yaml:"user" mapstructure:"user"`
	Password  string `yaml:"password" mapstructure:"password"`
	CompanyID string `yaml:"company_id" mapstructure:"company_id"`
}

// SearchConfig holds the web search tier settings. An empty endpoint falls
// back to the built-in default.
type SearchConfig struct {
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
}

// AIConfig holds the AI fallback tier settings. Empty endpoint and model
// fall back to the built-in defaults.
type AIConfig struct {
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	Model    string `yaml:"model" mapstructure:"model"`
}

// ResolveConfig tunes the resolution pipeline.
type ResolveConfig struct {
	// Tier toggles. All tiers are enabled by default; a tier with no
	// configured API key is skipped at wiring time regardless.
	NoGuess  bool `yaml:"no_guess" mapstructure:"no_guess"`
	NoSearch bool `yaml:"no_search" mapstructure:"no_search"`
	NoAI     bool `yaml:"no_ai" mapstructure:"no_ai"`

	// Www controls whether resolved hostnames carry a www prefix; NoWww
	// strips it instead. Www wins by default.
	Www   bool `yaml:"www" mapstructure:"www"`
	NoWww bool `yaml:"no_www" mapstructure:"no_www"`

	// Liveness probe timeouts for the domain guessing tier.
	NameTimeout time.Duration `yaml:"name_timeout" mapstructure:"name_timeout"`
	HTTPTimeout time.Duration `yaml:"http_timeout" mapstructure:"http_timeout"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Global: GlobalConfig{
			Output:      "text",
			Concurrency: 4,
		},
		Resolve: ResolveConfig{
			Www:         true,
			NameTimeout: 3 * time.Second,
			HTTPTimeout: 5 * time.Second,
		},
	}
}

// Package config loads service configuration from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported model providers.
const (
	ProviderGoogle    = "google"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds the full service configuration.
//
// Values come from three layers, in increasing precedence: built-in
// defaults, the YAML config file, and TOOLCHAT_* environment variables
// (e.g. TOOLCHAT_ADDR, TOOLCHAT_PROVIDER).
//
// API keys are the exception: they are read only from the provider's own
// environment variable (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY),
// never from the config file, and must never be logged or echoed back to
// callers.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `mapstructure:"addr"`

	// Provider selects the chat model backend: google, openai, or anthropic.
	Provider string `mapstructure:"provider"`

	// Model names the provider model. Empty uses the provider's default.
	Model string `mapstructure:"model"`

	// SystemPrompt, when set, is prepended to every conversation.
	SystemPrompt string `mapstructure:"system_prompt"`

	// CatalogPath is the product catalog JSON file.
	CatalogPath string `mapstructure:"catalog_path"`

	// FAQPath is the FAQ document (PDF or plain text).
	FAQPath string `mapstructure:"faq_path"`

	// PostsBaseURL is the base URL of the external posts API.
	PostsBaseURL string `mapstructure:"posts_base_url"`

	// RequestTimeout bounds one whole chat turn, both model rounds included.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// FetchTimeout bounds a single external posts fetch.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`

	// AllowOrigin is the CORS Access-Control-Allow-Origin value.
	AllowOrigin string `mapstructure:"allow_origin"`

	// LogFormat selects "json" or "text" log output.
	LogFormat string `mapstructure:"log_format"`

	// LogLevel selects the minimum log level.
	LogLevel string `mapstructure:"log_level"`

	// APIKey is resolved from the environment for the selected provider.
	// It is deliberately excluded from file loading.
	APIKey string `mapstructure:"-"`
}

// Load reads configuration from the given file path, layering defaults,
// file values, and TOOLCHAT_* environment variables. An empty path skips
// the file and uses defaults plus environment only; a non-empty path must
// exist.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8080")
	v.SetDefault("provider", ProviderGoogle)
	v.SetDefault("model", "")
	v.SetDefault("system_prompt", "")
	v.SetDefault("catalog_path", "data/products.json")
	v.SetDefault("faq_path", "data/faq.pdf")
	v.SetDefault("posts_base_url", "https://jsonplaceholder.typicode.com")
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("fetch_timeout", "10s")
	v.SetDefault("allow_origin", "*")
	v.SetDefault("log_format", "json")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("TOOLCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.APIKey = apiKeyFor(cfg.Provider)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent. API key
// presence is checked at startup, not here, so tests and tooling can load
// configs without credentials.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGoogle, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("provider must be one of google, openai, anthropic; got %q", c.Provider)
	}

	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.CatalogPath == "" {
		return fmt.Errorf("catalog_path is required")
	}
	if c.FAQPath == "" {
		return fmt.Errorf("faq_path is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text; got %q", c.LogFormat)
	}

	return nil
}

// apiKeyFor resolves the provider's API key from its conventional
// environment variable.
func apiKeyFor(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return os.Getenv("GEMINI_API_KEY")
	}
}

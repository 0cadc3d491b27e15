// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/jonathan/content-studio/internal/kv"
	"github.com/jonathan/content-studio/internal/llm"
)

// Defaults for unset values.
const (
	DefaultPort               = 8080
	DefaultDataDir            = ".content-studio"
	DefaultRateLimitPerMinute = 30
)

// Config represents the configuration loaded from a JSON file and the environment.
// All fields are optional; missing values use defaults.
type Config struct {
	// Model provider
	Provider string `json:"provider,omitempty"` // gemini or anthropic
	Model    string `json:"model,omitempty"`    // Overrides every tier's model
	APIKey   string `json:"api_key,omitempty"`  // Provider API key

	// HTTP
	Port               int `json:"port,omitempty"`
	RateLimitPerMinute int `json:"rate_limit_per_minute,omitempty"` // -1 disables the limit

	// Storage
	StoreBackend string `json:"store_backend,omitempty"` // file, sqlite, postgres, redis or memory
	DataDir      string `json:"data_dir,omitempty"`
	DatabaseURL  string `json:"database_url,omitempty"`
	RedisAddr    string `json:"redis_addr,omitempty"`

	// Logging
	LogLevel  string `json:"log_level,omitempty"`  // debug, info, warn or error
	LogFormat string `json:"log_format,omitempty"` // text or json
}

// Defaults returns the configuration used for unset values.
func Defaults() Config {
	return Config{
		Provider:           string(llm.ProviderGemini),
		Port:               DefaultPort,
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		StoreBackend:       string(kv.BackendFile),
		DataDir:            DefaultDataDir,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Resolve loads the file at path (if any), fills gaps from the environment and
// defaults, and validates the result.
func Resolve(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.Getenv)
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv fills empty fields from environment variables. Values already set win.
// The API key comes from the provider's own variable, then API_KEY.
func (c *Config) ApplyEnv(getenv func(string) string) {
	setString := func(field *string, keys ...string) {
		for _, k := range keys {
			if *field != "" {
				return
			}
			*field = strings.TrimSpace(getenv(k))
		}
	}
	setInt := func(field *int, key string) {
		if *field != 0 {
			return
		}
		if v, err := strconv.Atoi(strings.TrimSpace(getenv(key))); err == nil {
			*field = v
		}
	}

	setString(&c.Provider, "LLM_PROVIDER")
	setString(&c.Model, "LLM_MODEL")
	if c.Provider == string(llm.ProviderAnthropic) {
		setString(&c.APIKey, "ANTHROPIC_API_KEY", "API_KEY")
	} else {
		setString(&c.APIKey, "GEMINI_API_KEY", "API_KEY")
	}
	setInt(&c.Port, "PORT")
	setInt(&c.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")
	setString(&c.StoreBackend, "STORE_BACKEND")
	setString(&c.DataDir, "DATA_DIR")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisAddr, "REDIS_ADDR")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	for _, f := range []struct{ dst, src *string }{
		{&result.Provider, &defaults.Provider},
		{&result.Model, &defaults.Model},
		{&result.APIKey, &defaults.APIKey},
		{&result.StoreBackend, &defaults.StoreBackend},
		{&result.DataDir, &defaults.DataDir},
		{&result.DatabaseURL, &defaults.DatabaseURL},
		{&result.RedisAddr, &defaults.RedisAddr},
		{&result.LogLevel, &defaults.LogLevel},
		{&result.LogFormat, &defaults.LogFormat},
	} {
		if *f.dst == "" {
			*f.dst = *f.src
		}
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RateLimitPerMinute == 0 {
		result.RateLimitPerMinute = defaults.RateLimitPerMinute
	}

	return result
}

// Validate checks that the configuration has valid values. A missing API key is
// not an error here; commands that generate call RequireAPIKey.
func (c *Config) Validate() error {
	if _, err := llm.ParseProvider(c.Provider); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.RateLimitPerMinute < -1 {
		return fmt.Errorf("config error: 'rate_limit_per_minute' must be -1 (disabled) or positive")
	}

	backends := []kv.Backend{kv.BackendFile, kv.BackendSQLite, kv.BackendPostgres, kv.BackendRedis, kv.BackendMemory}
	if !slices.Contains(backends, kv.Backend(c.StoreBackend)) {
		return fmt.Errorf("config error: unknown 'store_backend' %q", c.StoreBackend)
	}
	if kv.Backend(c.StoreBackend) == kv.BackendPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required for the postgres store")
	}
	if kv.Backend(c.StoreBackend) == kv.BackendRedis && c.RedisAddr == "" {
		return fmt.Errorf("config error: 'redis_addr' is required for the redis store")
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("config error: 'log_format' must be text or json")
	}

	return nil
}

// RequireAPIKey reports a configuration error when no provider credential is set.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("config error: no API key for provider %s (set %s or API_KEY)", c.Provider, c.apiKeyEnv())
	}
	return nil
}

func (c *Config) apiKeyEnv() string {
	if c.Provider == string(llm.ProviderAnthropic) {
		return "ANTHROPIC_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// LLMConfig returns the model configuration for the selected provider.
func (c *Config) LLMConfig() (*llm.Config, error) {
	provider, err := llm.ParseProvider(c.Provider)
	if err != nil {
		return nil, err
	}
	cfg := llm.ConfigFor(provider)
	if c.Model != "" {
		cfg = cfg.WithAllModels(c.Model)
	}
	return cfg, nil
}

// StoreConfig returns the blob store configuration.
func (c *Config) StoreConfig() kv.Config {
	return kv.Config{
		Backend:     kv.Backend(c.StoreBackend),
		DataDir:     c.DataDir,
		DatabaseURL: c.DatabaseURL,
		RedisAddr:   c.RedisAddr,
	}
}

// RateLimit returns the per-minute generation limit, zero when disabled.
func (c *Config) RateLimit() int {
	if c.RateLimitPerMinute < 0 {
		return 0
	}
	return c.RateLimitPerMinute
}

// ParseLevel maps a level name to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

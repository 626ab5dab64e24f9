// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port          int
	DataDir       string
	DatabaseURL   string
	UseRemote     bool
	RemoteTimeout time.Duration
	LogLevel      string
	LogJSON       bool

	// ExchangeURL overrides the exchange-rate API endpoint; empty selects
	// the public frankfurter.app service.
	ExchangeURL string
	ExchangeTTL time.Duration

	// APITokens maps bearer tokens to remote account IDs. A request
	// presenting one of these tokens runs with that account's session;
	// everything else runs anonymously against the local store.
	APITokens map[string]string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:     os.Getenv("DATA_DIR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		APITokens:   map[string]string{},
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	cfg.Port = 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil && p > 0 && p < 65536 {
			cfg.Port = p
		}
	}

	cfg.UseRemote = os.Getenv("USE_REMOTE") == "true"
	cfg.LogJSON = os.Getenv("LOG_FORMAT") == "json"

	cfg.RemoteTimeout = 10 * time.Second
	if timeoutStr := os.Getenv("REMOTE_TIMEOUT_SECONDS"); timeoutStr != "" {
		if secs, err := strconv.Atoi(timeoutStr); err == nil && secs > 0 {
			cfg.RemoteTimeout = time.Duration(secs) * time.Second
		}
	}

	cfg.ExchangeURL = os.Getenv("EXCHANGE_API_URL")
	cfg.ExchangeTTL = 12 * time.Hour
	if ttlStr := os.Getenv("EXCHANGE_TTL_HOURS"); ttlStr != "" {
		if hours, err := strconv.Atoi(ttlStr); err == nil && hours > 0 {
			cfg.ExchangeTTL = time.Duration(hours) * time.Hour
		}
	}

	// API_TOKENS is a comma-separated list of token=accountID pairs.
	tokensStr := os.Getenv("API_TOKENS")
	if tokensStr != "" {
		for pair := range strings.SplitSeq(tokensStr, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			token, userID, ok := strings.Cut(pair, "=")
			if !ok || token == "" || userID == "" {
				continue
			}
			cfg.APITokens[token] = userID
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.UseRemote && c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required when USE_REMOTE is true")
	}

	if c.UseRemote && len(c.APITokens) == 0 {
		errs = append(errs, "at least one API token (API_TOKENS) is required when USE_REMOTE is true")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// UserIDForToken resolves a bearer token to a remote account ID.
// Returns empty string and false for unknown tokens.
func (c *Config) UserIDForToken(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	userID, ok := c.APITokens[token]
	return userID, ok
}

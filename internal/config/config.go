// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Defaults shared by the server and the clients.
const (
	DefaultListenAddr = "127.0.0.1:4200"
	DefaultDBPath     = "teambook.db"
	DefaultAPIURL     = "http://127.0.0.1:4200/api/v1"
	DefaultPageSize   = 5
	DefaultTimeout    = 10 * time.Second
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	ListenAddr string
	DBPath     string
	CORSOrigin string
	PageSize   int
	LogLevel   string
	LogFormat  string
}

// ClientConfig holds the configuration of the CLI and terminal UI.
type ClientConfig struct {
	APIURL    string
	Timeout   time.Duration
	PageSize  int
	LogLevel  string
	LogFormat string
}

// Load reads the server configuration and returns a validated Config.
// Optional variables with defaults: TEAMBOOK_LISTEN_ADDR (127.0.0.1:4200),
// TEAMBOOK_DB_PATH (teambook.db), TEAMBOOK_CORS_ORIGIN (*),
// TEAMBOOK_PAGE_SIZE (5), TEAMBOOK_LOG_LEVEL, TEAMBOOK_LOG_FORMAT.
// Setting TEAMBOOK_CORS_ORIGIN to an empty string disables CORS.
func Load() (*Config, error) {
	pageSize, err := pageSizeFromEnv()
	if err != nil {
		return nil, err
	}

	corsOrigin := "*"
	if v, ok := os.LookupEnv("TEAMBOOK_CORS_ORIGIN"); ok {
		corsOrigin = v
	}

	return &Config{
		ListenAddr: stringFromEnv("TEAMBOOK_LISTEN_ADDR", DefaultListenAddr),
		DBPath:     stringFromEnv("TEAMBOOK_DB_PATH", DefaultDBPath),
		CORSOrigin: corsOrigin,
		PageSize:   pageSize,
		LogLevel:   os.Getenv("TEAMBOOK_LOG_LEVEL"),
		LogFormat:  os.Getenv("TEAMBOOK_LOG_FORMAT"),
	}, nil
}

// LoadClient reads the client configuration. TEAMBOOK_API_URL must be an
// absolute http(s) URL; TEAMBOOK_TIMEOUT must be a positive duration.
func LoadClient() (*ClientConfig, error) {
	apiURL := stringFromEnv("TEAMBOOK_API_URL", DefaultAPIURL)
	if err := ValidateAPIURL(apiURL); err != nil {
		return nil, fmt.Errorf("TEAMBOOK_API_URL: %w", err)
	}

	timeout := DefaultTimeout
	if v, ok := os.LookupEnv("TEAMBOOK_TIMEOUT"); ok && v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("TEAMBOOK_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("TEAMBOOK_TIMEOUT must be positive, got %q", v)
		}
		timeout = parsed
	}

	pageSize, err := pageSizeFromEnv()
	if err != nil {
		return nil, err
	}

	return &ClientConfig{
		APIURL:    apiURL,
		Timeout:   timeout,
		PageSize:  pageSize,
		LogLevel:  os.Getenv("TEAMBOOK_LOG_LEVEL"),
		LogFormat: os.Getenv("TEAMBOOK_LOG_FORMAT"),
	}, nil
}

// ValidateAPIURL checks that raw is an absolute http or https URL.
func ValidateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid URL %q: expected http(s)://host[/path]", raw)
	}
	return nil
}

func stringFromEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func pageSizeFromEnv() (int, error) {
	v, ok := os.LookupEnv("TEAMBOOK_PAGE_SIZE")
	if !ok || v == "" {
		return DefaultPageSize, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("TEAMBOOK_PAGE_SIZE has invalid integer %q: %w", v, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("TEAMBOOK_PAGE_SIZE must be positive, got %d", n)
	}
	return n, nil
}

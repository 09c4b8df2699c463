// Package config reads hn-server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/hn-reader/pkg/feed"
	"github.com/Sternrassler/hn-reader/pkg/hn"
	"github.com/Sternrassler/hn-reader/pkg/loader"
	"github.com/Sternrassler/hn-reader/pkg/logging"
	"github.com/Sternrassler/hn-reader/pkg/pagination"
	"github.com/Sternrassler/hn-reader/pkg/session"
)

// Config is the full server configuration.
type Config struct {
	Port string

	HNBaseURL      string
	UserAgent      string
	ListingTimeout time.Duration
	ItemTimeout    time.Duration
	MaxConcurrency int
	StoryLimit     int

	InitialPageSize int
	PageSize        int
	SessionTTL      time.Duration

	// RedisURL selects the Redis session store; empty keeps sessions in process.
	RedisURL string

	// AllowedOrigins are the browser origins allowed to call the API.
	AllowedOrigins []string

	LogLevel  logging.LogLevel
	LogPretty bool
}

// Load reads the configuration from environment variables, falling back to
// defaults for unset ones. Malformed values are errors.
func Load() (Config, error) {
	hnDefaults := hn.DefaultConfig()
	loaderDefaults := loader.DefaultConfig()

	cfg := Config{
		Port:      getEnv("PORT", "8080"),
		HNBaseURL: getEnv("HN_BASE_URL", hnDefaults.BaseURL),
		UserAgent: getEnv("HN_USER_AGENT", hnDefaults.UserAgent),
		RedisURL:  getEnv("REDIS_URL", ""),

		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	var err error
	if cfg.StoryLimit, err = getEnvInt("STORY_LIMIT", feed.DefaultStoryLimit); err != nil {
		return Config{}, err
	}
	if cfg.MaxConcurrency, err = getEnvInt("MAX_CONCURRENCY", loaderDefaults.MaxConcurrency); err != nil {
		return Config{}, err
	}
	if cfg.ListingTimeout, err = getEnvDuration("LISTING_TIMEOUT", hnDefaults.ListingTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ItemTimeout, err = getEnvDuration("ITEM_TIMEOUT", loaderDefaults.Timeout); err != nil {
		return Config{}, err
	}
	if cfg.InitialPageSize, err = getEnvInt("INITIAL_PAGE_SIZE", pagination.DefaultInitialPageSize); err != nil {
		return Config{}, err
	}
	if cfg.PageSize, err = getEnvInt("PAGE_SIZE", pagination.DefaultPageSize); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", session.DefaultTTL); err != nil {
		return Config{}, err
	}
	if cfg.LogLevel, err = logging.ParseLevel(getEnv("LOG_LEVEL", string(logging.LevelInfo))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.LogPretty, err = getEnvBool("LOG_PRETTY", false); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"STORY_LIMIT", c.StoryLimit},
		{"MAX_CONCURRENCY", c.MaxConcurrency},
		{"INITIAL_PAGE_SIZE", c.InitialPageSize},
		{"PAGE_SIZE", c.PageSize},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be > 0 (got %d)", p.name, p.value)
		}
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"LISTING_TIMEOUT", c.ListingTimeout},
		{"ITEM_TIMEOUT", c.ItemTimeout},
		{"SESSION_TTL", c.SessionTTL},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be > 0 (got %s)", d.name, d.value)
		}
	}

	if c.HNBaseURL == "" {
		return fmt.Errorf("HN_BASE_URL is required")
	}
	return nil
}

// HN returns the API client configuration.
func (c Config) HN() hn.Config {
	return hn.Config{
		BaseURL:        c.HNBaseURL,
		UserAgent:      c.UserAgent,
		ListingTimeout: c.ListingTimeout,
	}
}

// Loader returns the detail loader configuration.
func (c Config) Loader() loader.Config {
	return loader.Config{
		MaxConcurrency: c.MaxConcurrency,
		Timeout:        c.ItemTimeout,
	}
}

// Session returns the session manager configuration.
func (c Config) Session() session.Config {
	return session.Config{
		TTL:             c.SessionTTL,
		InitialPageSize: c.InitialPageSize,
		PageSize:        c.PageSize,
	}
}

// Logging returns the logger configuration.
func (c Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.LogLevel
	cfg.Pretty = c.LogPretty
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, value)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, value)
	}
	return b, nil
}

// cmd/taxnews/config.go
package main

import (
	"fmt"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port         int
	CacheTTL     time.Duration
	FetchTimeout time.Duration

	SourcesPath  string
	KeywordsPath string

	LogPath  string
	LogLevel LogLevel

	UserAgent          string
	MaxConcurrentFeeds int
}

// LoadConfig builds the configuration from environment variables,
// falling back to the compiled-in defaults.
func LoadConfig() (*Config, error) {
	c := &Config{
		Port:               GetEnvInt("TAXNEWS_PORT", DefaultPort),
		CacheTTL:           GetEnvDuration("TAXNEWS_CACHE_TTL", DefaultCacheTTL),
		FetchTimeout:       GetEnvDuration("TAXNEWS_FETCH_TIMEOUT", DefaultFetchTimeout),
		SourcesPath:        GetEnvString("TAXNEWS_SOURCES_PATH", DefaultSourcesPath),
		KeywordsPath:       GetEnvString("TAXNEWS_KEYWORDS_PATH", DefaultKeywordsPath),
		LogPath:            GetEnvString("TAXNEWS_LOG_PATH", DefaultLogPath),
		LogLevel:           parseLogLevel(GetEnvString("TAXNEWS_LOG_LEVEL", "info")),
		UserAgent:          GetEnvString("TAXNEWS_USER_AGENT", DefaultUserAgent),
		MaxConcurrentFeeds: GetEnvInt("TAXNEWS_MAX_CONCURRENT_FEEDS", MaxConcurrentFeeds),
	}

	if c.Port <= 0 || c.Port > 65535 {
		return nil, NewConfigError(ErrConfigValidation, fmt.Sprintf("invalid port %d", c.Port), nil)
	}
	if c.MaxConcurrentFeeds <= 0 {
		c.MaxConcurrentFeeds = MaxConcurrentFeeds
	}
	return c, nil
}

func parseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogDebug
	case "warn", "warning":
		return LogWarning
	case "error":
		return LogError
	default:
		return LogInfo
	}
}

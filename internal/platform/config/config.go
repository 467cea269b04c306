// Package config builds runtime configuration from environment variables so
// main stays lean. Every knob has a working default for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures all server configuration.
type Config struct {
	Addr string

	// Dataset file locations.
	CountriesPath  string
	CompliancePath string

	// Custom link persistence. DatabaseURL switches the store to Postgres;
	// otherwise CustomLinksPath selects the file store.
	CustomLinksPath string
	DatabaseURL     string
	LinkKeyMode     string

	// Custom content files.
	CustomFormatsPath     string
	CustomLegislationPath string

	// Optional infrastructure.
	RedisURL     string
	KafkaBrokers []string
	KafkaTopic   string

	// Merged country list cache.
	CacheTTL time.Duration

	// Fixed-window rate limits for expensive actions.
	RateLimitEnabled bool
	RateLimitWindow  time.Duration
	RateLimit        int
}

// FromEnv reads configuration from the environment.
func FromEnv() Config {
	return Config{
		Addr:                  envOr("MANDATEMAP_ADDR", ":8080"),
		CountriesPath:         envOr("MANDATEMAP_COUNTRIES_FILE", "data/countries.json"),
		CompliancePath:        envOr("MANDATEMAP_COMPLIANCE_FILE", "data/compliance.json"),
		CustomLinksPath:       envOr("MANDATEMAP_CUSTOM_LINKS_FILE", "data/custom-links.json"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		LinkKeyMode:           envOr("MANDATEMAP_LINK_KEY_MODE", "exact"),
		CustomFormatsPath:     envOr("MANDATEMAP_CUSTOM_FORMATS_FILE", "data/custom-formats.json"),
		CustomLegislationPath: envOr("MANDATEMAP_CUSTOM_LEGISLATION_FILE", "data/custom-legislation.json"),
		RedisURL:              os.Getenv("REDIS_URL"),
		KafkaBrokers:          splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:            envOr("KAFKA_AUDIT_TOPIC", "mandatemap.audit"),
		CacheTTL:              envDuration("MANDATEMAP_CACHE_TTL", 5*time.Minute),
		RateLimitEnabled:      envOr("MANDATEMAP_RATELIMIT_ENABLED", "true") == "true",
		RateLimitWindow:       envDuration("MANDATEMAP_RATELIMIT_WINDOW", time.Minute),
		RateLimit:             envInt("MANDATEMAP_RATELIMIT", 10),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

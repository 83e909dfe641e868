package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultCADURL  = "https://ssd-api.jpl.nasa.gov/cad.api"
	defaultSBDBURL = "https://ssd-api.jpl.nasa.gov/sbdb.api"
)

// Config holds all job settings, populated from environment variables. The
// per-run parameters (window size, watchlist threshold, output paths) are CLI
// flags instead; everything here describes the environment the job runs in.
type Config struct {
	CADURL      string
	SBDBURL     string
	HTTPTimeout time.Duration

	SBDBEnabled   bool
	SBDBThrottle  time.Duration
	SBDBCacheSize int

	LogLevel  string
	LogFormat string

	// MetricsAddr enables the debug HTTP listener (healthz/readyz/metrics)
	// for the duration of the run when non-empty.
	MetricsAddr string

	// KafkaWatchlistTopic enables watchlist publishing when non-empty.
	KafkaBrokers        []string
	KafkaWatchlistTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	httpTimeout, err := parseDuration("HTTP_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	throttle, err := parseDuration("SBDB_THROTTLE", "200ms")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseCacheSize()
	if err != nil {
		return nil, err
	}

	sbdbEnabled := true
	if v := os.Getenv("SBDB_ENABLED"); v != "" {
		sbdbEnabled = v == "true"
	}

	cfg := &Config{
		CADURL:      envOrDefault("CAD_URL", defaultCADURL),
		SBDBURL:     envOrDefault("SBDB_URL", defaultSBDBURL),
		HTTPTimeout: httpTimeout,

		SBDBEnabled:   sbdbEnabled,
		SBDBThrottle:  throttle,
		SBDBCacheSize: cacheSize,

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "text"),

		MetricsAddr: os.Getenv("METRICS_ADDR"),

		KafkaBrokers:        parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaWatchlistTopic: os.Getenv("KAFKA_WATCHLIST_TOPIC"),
	}

	if cfg.CADURL == "" {
		return nil, errors.New("CAD_URL is required")
	}
	if cfg.SBDBEnabled && cfg.SBDBURL == "" {
		return nil, errors.New("SBDB_ENABLED is true but SBDB_URL is not set")
	}
	if cfg.KafkaWatchlistTopic != "" && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_WATCHLIST_TOPIC is set but KAFKA_BROKERS is not")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseCacheSize() (int, error) {
	s := os.Getenv("SBDB_CACHE_SIZE")
	if s == "" {
		return 1000, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid SBDB_CACHE_SIZE: %q", s)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

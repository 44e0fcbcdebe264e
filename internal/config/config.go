package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Static entrance data.
	DataDir      string
	CatalogFile  string
	AgenciesFile string

	// Remote search service base URL, used by clients.
	APIURL       string
	FetchTimeout time.Duration

	// Resource memoisation. A zero CacheTTL disables caching.
	CacheSize int
	CacheTTL  time.Duration

	SearchScoreCutoff float64
	SearchLimit       int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "5s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	cacheTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("CACHE_TTL", "5m"))
	if err != nil || cacheTTL < 0 {
		return nil, errors.New("invalid CACHE_TTL")
	}

	cutoff, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("SEARCH_SCORE_CUTOFF", "45"), 64)
	if err != nil || cutoff < 0 || cutoff > 100 {
		return nil, errors.New("invalid SEARCH_SCORE_CUTOFF: must be between 0 and 100")
	}

	limit, err := strconv.Atoi(sharedcfg.EnvOrDefault("SEARCH_LIMIT", "15"))
	if err != nil || limit <= 0 {
		return nil, errors.New("invalid SEARCH_LIMIT: must be a positive integer")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8000"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataDir:      sharedcfg.EnvOrDefault("DATA_DIR", "data/entrances"),
		CatalogFile:  sharedcfg.EnvOrDefault("CATALOG_FILE", "bounding.txt"),
		AgenciesFile: os.Getenv("AGENCIES_FILE"),

		APIURL:       sharedcfg.EnvOrDefault("ENTRANCES_API_URL", "http://localhost:8000"),
		FetchTimeout: fetchTimeout,

		CacheSize: parseCacheSize(),
		CacheTTL:  cacheTTL,

		SearchScoreCutoff: cutoff,
		SearchLimit:       limit,
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.CatalogFile == "" {
		return nil, errors.New("CATALOG_FILE is required")
	}

	return cfg, nil
}

func parseCacheSize() int {
	if s := os.Getenv("CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 64
}

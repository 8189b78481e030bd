package config

import (
	"os"
	"strconv"

	"dataprofiler/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Store     StoreConfig
	Registry  RegistryConfig
	Postgres  PostgresConfig
	Profiling ProfilingConfig
}

// StoreConfig holds ProfileStore settings
type StoreConfig struct {
	RootDir       string // directory holding index.json and <id>.json blobs
	KeepPerSchema int    // retention for Prune
}

// RegistryConfig holds VectorStore (embedded sqlite) settings
type RegistryConfig struct {
	DBPath          string // path to the embedded sqlite database file
	EmbeddingKind   string // "hash" or "learned"
	EmbeddingInitMS int    // init budget for the embedding service, milliseconds
}

// PostgresConfig holds the optional profile index mirror's connection settings.
// When URL is empty the mirror is not constructed.
type PostgresConfig struct {
	URL string
}

// ProfilingConfig holds default profiling parameters
type ProfilingConfig struct {
	FastMode   bool
	SampleSize int
	MaxTopK    int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Store:     loadStoreConfig(),
		Registry:  loadRegistryConfig(),
		Postgres:  loadPostgresConfig(),
		Profiling: loadProfilingConfig(),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		RootDir:       getEnvOrDefault("PROFILE_STORE_DIR", "./.profiles"),
		KeepPerSchema: getEnvIntOrDefault("PROFILE_STORE_KEEP_PER_SCHEMA", 20),
	}
}

func loadRegistryConfig() RegistryConfig {
	return RegistryConfig{
		DBPath:          getEnvOrDefault("REGISTRY_DB_PATH", "./.profiles/registry.db"),
		EmbeddingKind:   getEnvOrDefault("EMBEDDING_KIND", "hash"),
		EmbeddingInitMS: getEnvIntOrDefault("EMBEDDING_INIT_TIMEOUT_MS", 30000),
	}
}

func loadPostgresConfig() PostgresConfig {
	return PostgresConfig{
		URL: os.Getenv("PROFILE_MIRROR_DATABASE_URL"),
	}
}

func loadProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		FastMode:   getEnvBoolOrDefault("PROFILING_FAST_MODE", false),
		SampleSize: getEnvIntOrDefault("PROFILING_SAMPLE_SIZE", 0),
		MaxTopK:    getEnvIntOrDefault("PROFILING_MAX_TOP_K", 20),
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Store.RootDir == "" {
		return errors.ConfigInvalid("PROFILE_STORE_DIR is required")
	}
	if cfg.Registry.DBPath == "" {
		return errors.ConfigInvalid("REGISTRY_DB_PATH is required")
	}
	if cfg.Registry.EmbeddingKind != "hash" && cfg.Registry.EmbeddingKind != "learned" {
		return errors.ConfigInvalid("EMBEDDING_KIND must be 'hash' or 'learned'")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

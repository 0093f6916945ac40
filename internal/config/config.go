// Package config loads fishtrack's runtime configuration from the
// environment: a single struct built once at process start and passed
// down explicitly, never stashed in a global.
package config

import (
	"os"
	"strconv"

	"fishtrack/internal/errors"
)

// Config is the complete application configuration for both the CLI
// and the HTTP server entry points.
type Config struct {
	Store    StoreConfig
	Server   ServerConfig
	Pipeline PipelineConfig
}

// StoreConfig holds persistence-engine connection settings.
type StoreConfig struct {
	Mode            string // "local" or "remote"
	Region          string
	LocalEndpoint   string
	TableName       string
	AccessKeyID     string
	SecretAccessKey string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        string
	UploadLimit int64 // bytes, max multipart upload size
}

// PipelineConfig holds defaults shared by the CLI and HTTP surfaces.
type PipelineConfig struct {
	GapMinutes          int
	StationMappingCSV   string
	StationMappingTable string // table name when the mapping source is Postgres
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Store:    loadStoreConfig(),
		Server:   loadServerConfig(),
		Pipeline: loadPipelineConfig(),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		Mode:            getEnvOrDefault("FISHTRACK_CONN", "local"),
		Region:          getEnvOrDefault("AWS_REGION", "eu-west-1"),
		LocalEndpoint:   getEnvOrDefault("FISHTRACK_LOCAL_ENDPOINT", "http://localhost:8000"),
		TableName:       getEnvOrDefault("FISHTRACK_TABLE", "intervals"),
		AccessKeyID:     getEnvOrDefault("FISHTRACK_LOCAL_ACCESS_KEY", "foo"),
		SecretAccessKey: getEnvOrDefault("FISHTRACK_LOCAL_SECRET_KEY", "bar"),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		UploadLimit: int64(getEnvIntOrDefault("UPLOAD_LIMIT_BYTES", 50*1024*1024)),
	}
}

func loadPipelineConfig() PipelineConfig {
	return PipelineConfig{
		GapMinutes:          getEnvIntOrDefault("GAP_MINUTES", 30),
		StationMappingCSV:   getEnvOrDefault("ST_MAPPING", "./data/station_names.md"),
		StationMappingTable: getEnvOrDefault("ST_MAPPING_TABLE", "station_mappings"),
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Store.Mode != "local" && cfg.Store.Mode != "remote" {
		return errors.UnknownMode(cfg.Store.Mode)
	}
	if cfg.Store.TableName == "" {
		return errors.ConfigInvalid("FISHTRACK_TABLE must not be empty")
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

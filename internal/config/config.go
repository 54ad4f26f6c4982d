package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Market   MarketConfig
	Export   ExportConfig
	Jobs     JobsConfig
	Security SecurityConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds the run-history database configuration.
// An empty Path disables run recording.
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketConfig selects and configures the market data provider.
type MarketConfig struct {
	// Provider is "yahoo" or "alpaca".
	Provider string

	// DefaultRangeDays is the trailing window used when a caller supplies
	// no date range.
	DefaultRangeDays int

	// Alpaca credentials; required when Provider is "alpaca".
	AlpacaKey     string
	AlpacaSecret  string
	AlpacaBaseURL string
	AlpacaFeed    string
}

// ExportConfig holds defaults for file exports.
type ExportConfig struct {
	Dir string
}

// JobsConfig points at the optional scheduled-jobs YAML file.
// An empty Path disables the scheduler.
type JobsConfig struct {
	Path string
}

// SecurityConfig holds the optional encryption key for stored upload
// payloads. An empty FernetKey disables payload storage entirely.
type SecurityConfig struct {
	FernetKey string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8050"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/dashboard_runs.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Market: MarketConfig{
			Provider:         getEnv("MARKET_PROVIDER", "yahoo"),
			DefaultRangeDays: getEnvInt("MARKET_DEFAULT_RANGE_DAYS", 30),
			AlpacaKey:        getEnv("ALPACA_API_KEY", ""),
			AlpacaSecret:     getEnv("ALPACA_API_SECRET", ""),
			AlpacaBaseURL:    getEnv("ALPACA_DATA_URL", ""),
			AlpacaFeed:       getEnv("ALPACA_FEED", ""),
		},
		Export: ExportConfig{
			Dir: getEnv("EXPORT_DIR", "./data/exports"),
		},
		Jobs: JobsConfig{
			Path: getEnv("JOBS_PATH", ""),
		},
		Security: SecurityConfig{
			FernetKey: getEnv("STORAGE_FERNET_KEY", ""),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value.
// Unparseable values fall back to the default.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

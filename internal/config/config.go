package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Host               string
	PortAPI            string
	PortCDNThingDefs   string
	PortCDNAreaBundles string
	PortCDNUGCImages   string
	LogLevel           string
	RateLimitPerSecond float64
	RateLimitBurst     int
	SessionCookieName  string
	AdminToken         string

	// Database configuration
	DBType            string // sqlite, sqlite3, mysql, postgres, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBLogLevel        string

	// Archive and content sources
	DataDir           string
	ImportOnStart     bool
	AreaBundlesSource string // directory or s3://bucket/prefix URL
	UGCImagesSource   string // directory or s3://bucket/prefix URL
	UnimplementedDir  string
	UnimplementedLZ4  bool

	// Hold geometry cache
	HoldGeometryMaxEntries int
	HoldGeometryTTL        time.Duration
}

// Load loads configuration from environment variables. A .env file in the
// working directory (or the file named by ENV_FILE) is applied first when present.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	dataDir := getEnv("DATA_DIR", "data")

	cfg := &Config{
		Host:                   getEnv("HOST", "0.0.0.0"),
		PortAPI:                getEnv("PORT_API", "3000"),
		PortCDNThingDefs:       getEnv("PORT_CDN_THINGDEFS", "3001"),
		PortCDNAreaBundles:     getEnv("PORT_CDN_AREABUNDLES", "3002"),
		PortCDNUGCImages:       getEnv("PORT_CDN_UGCIMAGES", "3003"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		RateLimitPerSecond:     getEnvAsFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst:         getEnvAsInt("RATE_LIMIT_BURST", 100),
		SessionCookieName:      getEnv("SESSION_COOKIE_NAME", "s"),
		AdminToken:             getEnv("ADMIN_TOKEN", ""),
		DBType:                 getEnv("DB_TYPE", "sqlite"),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", "3306"),
		DBDatabase:             getEnv("DB_DATABASE", dataDir+"/libreland.db"),
		DBUser:                 getEnv("DB_USER", ""),
		DBPassword:             getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:      getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		DBLogLevel:             getEnv("DB_LOG_LEVEL", "warn"),
		DataDir:                dataDir,
		ImportOnStart:          getEnvAsBool("IMPORT_ON_START", true),
		AreaBundlesSource:      getEnv("AREA_BUNDLES_SOURCE", dataDir),
		UGCImagesSource:        getEnv("UGC_IMAGES_SOURCE", "../archiver/images"),
		UnimplementedDir:       getEnv("UNIMPLEMENTED_DIR", "unimplemented-requests"),
		UnimplementedLZ4:       getEnvAsBool("UNIMPLEMENTED_COMPRESS", false),
		HoldGeometryMaxEntries: getEnvAsInt("HOLD_GEOMETRY_MAX_ENTRIES", 10000),
		HoldGeometryTTL:        getEnvAsDuration("HOLD_GEOMETRY_TTL", 24*time.Hour),
	}

	// Validate
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	switch cfg.DBType {
	case "sqlite", "sqlite3":
	default:
		if cfg.DBUser == "" {
			return nil, fmt.Errorf("DB_USER is required for DB_TYPE %s", cfg.DBType)
		}
	}
	if cfg.HoldGeometryMaxEntries <= 0 {
		return nil, fmt.Errorf("HOLD_GEOMETRY_MAX_ENTRIES must be positive")
	}
	if cfg.DBConnectionLimit <= 0 {
		return nil, fmt.Errorf("DB_CONNECTION_LIMIT must be positive")
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadEnvFile applies ENV_FILE, or ./.env if it exists. Variables already set
// in the environment win.
func loadEnvFile() error {
	if name := os.Getenv("ENV_FILE"); name != "" {
		if err := godotenv.Load(name); err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", valueStr)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "value", valueStr)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", valueStr)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", valueStr)
		return defaultValue
	}
	return value
}

package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// Variable names follow libpq conventions (PGHOST, PGPORT, ...).
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	ConnectTimeoutSec  int
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MongoConfig holds document store settings.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	// TimeoutMS bounds server selection during the startup ping.
	TimeoutMS int
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string
	Format      string
	Development bool
}

// MetricsConfig controls where counters are pushed on exit.
// An empty PushgatewayURL keeps metrics in-process only.
type MetricsConfig struct {
	PushgatewayURL string
	Job            string
}

// AppConfig is the centralized configuration struct shared by every command.
// It is populated from environment variables. Sensitive values can come from a .env file.
type AppConfig struct {
	Database DatabaseConfig
	Mongo    MongoConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the file.
func Load() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{
			Host:               getEnv("PGHOST", "localhost"),
			Port:               getEnv("PGPORT", "5432"),
			User:               getEnv("PGUSER", "postgres"),
			Password:           getEnv("PGPASSWORD", "postgres"),
			Name:               getEnv("PGDATABASE", "task_manager"),
			SSLMode:            getEnv("PGSSLMODE", "disable"),
			ConnectTimeoutSec:  getEnvInt("PGCONNECT_TIMEOUT", 5),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", "mongodb://localhost:27017/"),
			Database:   getEnv("MONGO_DB", "cat_db"),
			Collection: getEnv("MONGO_COLLECTION", "cats"),
			TimeoutMS:  getEnvInt("MONGO_TIMEOUT_MS", 3000),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			Development: getEnvBool("LOG_DEVELOPMENT", false),
		},
		Metrics: MetricsConfig{
			PushgatewayURL: getEnv("METRICS_PUSHGATEWAY_URL", ""),
			Job:            getEnv("METRICS_JOB", "dbtools"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

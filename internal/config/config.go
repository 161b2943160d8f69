package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// app config
	APP_PORT string
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
	// storage config
	STORE_DRIVER string
	SQLITE_PATH  string
	// database config
	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_CONN_MAX_LIFETIME time.Duration
	DB_MAX_IDLE_CONNS    int
	DB_MAX_OPEN_CONNS    int
	KV_TABLE             string
	KV_CACHE_SIZE        int
	// datastore config
	DATASTORE_PROJECT_ID string
	DATASTORE_KIND       string
	// elasticsearch config
	ELASTIC_URL        string
	ELASTIC_INDEX      string
	ELASTIC_BATCH_SIZE int
	ELASTIC_WORKERS    int
	// dataset config
	DATASET_KEY            string
	SAVED_QUERIES_KEY      string
	SAVED_QUERIES_FILE     string
	EXPORT_TEMPLATE_FILE   string
	GENERATE_DEFAULT_COUNT int
	SEED_DEFAULT_COUNT     int
	LOAD_ON_START          bool
}

// LoadEnvConfig reads .env when present and fills DefaultEnvConfig.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	DefaultEnvConfig = &envConfig{
		APP_PORT:               getEnvString("APP_PORT", "8080"),
		LOG_FILE_PATH:          getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:              getEnvString("LOG_LEVEL", "info"),
		STORE_DRIVER:           getEnvString("STORE_DRIVER", "sqlite"),
		SQLITE_PATH:            getEnvString("SQLITE_PATH", "hr_analytics.db"),
		DB_HOST:                getEnvString("DB_HOST", "localhost"),
		DB_PORT:                getEnvInt("DB_PORT", 5432),
		DB_USER:                getEnvString("DB_USER", "postgres"),
		DB_PASSWORD:            getEnvString("DB_PASSWORD", "postgres"),
		DB_NAME:                getEnvString("DB_NAME", "postgres"),
		DB_SSL_MODE:            getEnvString("DB_SSL_MODE", "disable"),
		DB_CONN_MAX_LIFETIME:   getEnvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
		DB_MAX_IDLE_CONNS:      getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DB_MAX_OPEN_CONNS:      getEnvInt("DB_MAX_OPEN_CONNS", 100),
		KV_TABLE:               getEnvString("KV_TABLE", "kv_store"),
		KV_CACHE_SIZE:          getEnvInt("KV_CACHE_SIZE", 16),
		DATASTORE_PROJECT_ID:   getEnvString("DATASTORE_PROJECT_ID", ""),
		DATASTORE_KIND:         getEnvString("DATASTORE_KIND", "HRAnalyticsKV"),
		ELASTIC_URL:            getEnvString("ELASTIC_URL", ""),
		ELASTIC_INDEX:          getEnvString("ELASTIC_INDEX", "employees"),
		ELASTIC_BATCH_SIZE:     getEnvInt("ELASTIC_BATCH_SIZE", 500),
		ELASTIC_WORKERS:        getEnvInt("ELASTIC_WORKERS", 2),
		DATASET_KEY:            getEnvString("DATASET_KEY", "hr_analytics_data"),
		SAVED_QUERIES_KEY:      getEnvString("SAVED_QUERIES_KEY", "hr_analytics_saved_queries"),
		SAVED_QUERIES_FILE:     getEnvString("SAVED_QUERIES_FILE", ""),
		EXPORT_TEMPLATE_FILE:   getEnvString("EXPORT_TEMPLATE_FILE", ""),
		GENERATE_DEFAULT_COUNT: getEnvInt("GENERATE_DEFAULT_COUNT", 1000),
		SEED_DEFAULT_COUNT:     getEnvInt("SEED_DEFAULT_COUNT", 5000),
		LOAD_ON_START:          getEnvBool("LOAD_ON_START", true),
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}

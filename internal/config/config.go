package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	ReportSQLPath string
	Seed          int64
	RedisURL      string
	CacheTTL      int
	ServerPort    string
	LogLevel      string
	DBLogLevel    string
}

func Load() *Config {
	// Load .env file if exists
	godotenv.Load()

	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", defaultDatabasePath()),
		ReportSQLPath: getEnv("REPORT_SQL_PATH", ""),
		Seed:          int64(getEnvAsInt("SEED", 21)),
		RedisURL:      getEnv("REDIS_URL", ""),
		CacheTTL:      getEnvAsInt("CACHE_TTL", 1800),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBLogLevel:    getEnv("DB_LOG_LEVEL", "warn"),
	}
}

// defaultDatabasePath places app.db next to the running binary, falling back
// to the working directory when the executable path is unknown.
func defaultDatabasePath() string {
	exe, err := os.Executable()
	if err != nil {
		return "app.db"
	}
	return filepath.Join(filepath.Dir(exe), "app.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

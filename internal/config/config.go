package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	Env        string

	LogLevel  string
	LogPretty bool

	DBDriver         string
	DBDSN            string
	DBMaxOpenConns   int
	DBMaxIdleConns   int
	DBConnectTimeout time.Duration
	DBIdleTimeout    time.Duration
	DBAcquireTimeout time.Duration
	ResetDB          bool

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	CORSOrigin string
}

var validDrivers = []string{"mysql", "postgres", "sqlite"}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Env:        getEnv("APP_ENV", "production"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),

		DBDriver:         getEnv("DB_DRIVER", "mysql"),
		DBDSN:            getEnv("DB_DSN", "user:password@tcp(localhost:3306)/expenses?charset=utf8mb4&parseTime=True&loc=Local"),
		DBMaxOpenConns:   getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:   getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		DBIdleTimeout:    getEnvDuration("DB_IDLE_TIMEOUT", 30*time.Second),
		DBAcquireTimeout: getEnvDuration("DB_ACQUIRE_TIMEOUT", 5*time.Second),
		ResetDB:          getEnvBool("RESET_DB", false),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:  getEnvDuration("CACHE_TTL", 30*time.Second),

		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),
	}
}

// IsDevelopment reports whether internal error detail may be exposed.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.ServerPort); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.ServerPort))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	knownDriver := false
	for _, d := range validDrivers {
		if c.DBDriver == d {
			knownDriver = true
			break
		}
	}
	if !knownDriver {
		problems = append(problems, fmt.Sprintf("invalid database driver '%s': must be one of %v", c.DBDriver, validDrivers))
	}

	if c.DBDSN == "" {
		problems = append(problems, "database DSN cannot be empty")
	}
	if c.DBMaxOpenConns < 1 {
		problems = append(problems, fmt.Sprintf("invalid max open connections %d: must be at least 1", c.DBMaxOpenConns))
	}
	if c.DBMaxIdleConns < 0 {
		problems = append(problems, fmt.Sprintf("invalid max idle connections %d: must not be negative", c.DBMaxIdleConns))
	}
	if c.DBConnectTimeout <= 0 {
		problems = append(problems, "database connect timeout must be positive")
	}
	if c.DBAcquireTimeout <= 0 {
		problems = append(problems, "database acquire timeout must be positive")
	}
	if c.DBIdleTimeout < 0 {
		problems = append(problems, "database idle timeout must not be negative")
	}
	if c.RedisAddr != "" && c.CacheTTL <= 0 {
		problems = append(problems, "cache TTL must be positive when redis is configured")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// BackendConfig points at the padoca REST API
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// BoardConfig holds the staff order board settings
type BoardConfig struct {
	PollInterval time.Duration
}

// DBConfig holds the session store database configuration
type DBConfig struct {
	Driver          string
	SQLitePath      string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// SessionConfig holds browsing and login session settings
type SessionConfig struct {
	CookieName string
	DefaultTTL time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	Server      ServerConfig
	Backend     BackendConfig
	Board       BoardConfig
	DB          DBConfig
	Session     SessionConfig
	Log         LogConfig
	Metrics     MetricsConfig
}

// Load loads configuration from environment variables, reading .env first when present
func Load(serviceName string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := &Config{
		ServiceName: serviceName,
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8090"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:8080/api"),
			Timeout: getEnvAsDuration("BACKEND_TIMEOUT", 10*time.Second),
		},
		Board: BoardConfig{
			PollInterval: getEnvAsDuration("BOARD_POLL_INTERVAL", 30*time.Second),
		},
		DB: DBConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			SQLitePath:      getEnv("DB_SQLITE_PATH", "padoca_sessions.db"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "password"),
			DBName:          getEnv("DB_NAME", "padoca_storefront"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "padoca_session"),
			DefaultTTL: getEnvAsDuration("SESSION_DEFAULT_TTL", 12*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "padoca_storefront"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the components cannot run with
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL must not be empty")
	}
	if c.Board.PollInterval <= 0 {
		return fmt.Errorf("BOARD_POLL_INTERVAL must be positive, got %s", c.Board.PollInterval)
	}
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	return nil
}

// LogFields returns the configuration as zap fields, without secrets
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("backend", c.Backend.BaseURL),
		zap.Duration("board_poll_interval", c.Board.PollInterval),
		zap.String("db_driver", c.DB.Driver),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as gorm log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	switch getEnv(key, "") {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}

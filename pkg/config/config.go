package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
	Path     string `mapstructure:"path"`
	Debug    bool   `mapstructure:"debug"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
	Mode string `mapstructure:"mode"`
}

// DSN builds the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.Host,
		d.User,
		d.Password,
		d.Name,
		d.Port,
		d.SSLMode,
	)
}

// Addr returns the listen address of the admin API.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Name == "" {
			return errors.New("database.name is required for postgres")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("invalid server mode %q (want %s, %s or %s)",
			c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
	return nil
}

// Load loads configuration from .env, environment variables and an optional
// config.yaml in the working directory or ./config.
func Load() (*Config, error) {
	// A missing .env is fine; real environment variables still apply
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	// BLOG_DATABASE_PORT overrides database.port, and so on
	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", getEnv("BLOG_DB_DRIVER", DriverPostgres))
	v.SetDefault("database.host", getEnv("PG_HOST", "localhost"))
	v.SetDefault("database.port", getEnvInt("PG_PORT", 5432))
	v.SetDefault("database.user", getEnv("PG_USER", "postgres"))
	v.SetDefault("database.password", getEnv("PG_PASSWORD", ""))
	v.SetDefault("database.name", getEnv("PG_DATABASE", "blog"))
	v.SetDefault("database.ssl_mode", getEnv("PG_SSL_MODE", "disable"))
	v.SetDefault("database.path", getEnv("BLOG_SQLITE_PATH", "blog.db"))
	v.SetDefault("database.debug", getEnvBool("BLOG_DB_DEBUG", false))
	v.SetDefault("server.port", getEnvInt("SERVER_PORT", 8080))
	v.SetDefault("server.host", getEnv("SERVER_HOST", "localhost"))
	v.SetDefault("server.mode", getEnv("GIN_MODE", "release"))
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

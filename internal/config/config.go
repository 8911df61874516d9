// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env       string `mapstructure:"APP_ENV"`
	Port      string `mapstructure:"PORT"`
	JWTSecret string `mapstructure:"JWT_SECRET"`

	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`
	CookieSecure    bool   `mapstructure:"COOKIE_SECURE"`
	BcryptCost      int    `mapstructure:"BCRYPT_COST"`
	ProxyHeader     string `mapstructure:"PROXY_HEADER"`

	DBDriver                 string `mapstructure:"DB_DRIVER"`
	DBPath                   string `mapstructure:"DB_PATH"`
	DBHost                   string `mapstructure:"DB_HOST"`
	DBPort                   string `mapstructure:"DB_PORT"`
	DBUser                   string `mapstructure:"DB_USER"`
	DBPassword               string `mapstructure:"DB_PASSWORD"`
	DBName                   string `mapstructure:"DB_NAME"`
	DBSSLMode                string `mapstructure:"DB_SSLMODE"`
	DBSchemaMode             string `mapstructure:"DB_SCHEMA_MODE"`
	DBMaxOpenConns           int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int    `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	RedisURL           string `mapstructure:"REDIS_URL"`
	StockAlertsEnabled bool   `mapstructure:"STOCK_ALERTS_ENABLED"`

	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`

	BootstrapDefaultUser bool   `mapstructure:"BOOTSTRAP_DEFAULT_USER"`
	DefaultUsername      string `mapstructure:"DEFAULT_USERNAME"`
	DefaultPassword      string `mapstructure:"DEFAULT_PASSWORD"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional; env vars and defaults are enough to run.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("SESSION_TTL_HOURS", 168)
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("BCRYPT_COST", 10)
	viper.SetDefault("PROXY_HEADER", "")

	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_PATH", "inventory.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "implantstock")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "implantstock")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_SCHEMA_MODE", "hybrid")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)

	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("STOCK_ALERTS_ENABLED", true)

	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	viper.SetDefault("BOOTSTRAP_DEFAULT_USER", false)
	viper.SetDefault("DEFAULT_USERNAME", "user")
	viper.SetDefault("DEFAULT_PASSWORD", "")
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.DBSchemaMode = strings.ToLower(strings.TrimSpace(c.DBSchemaMode))
	c.TracingExporter = strings.ToLower(strings.TrimSpace(c.TracingExporter))
}

// IsProduction reports whether the stricter production rules apply.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// SecureCookies reports whether session and flash cookies carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return c.CookieSecure || c.IsProduction()
}

// SessionTTL returns the lifetime of a login session.
func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" {
			return errors.New("DB_PATH is required when DB_DRIVER=sqlite")
		}
	case "postgres":
		if c.DBHost == "" || c.DBName == "" {
			return errors.New("DB_HOST and DB_NAME are required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.BcryptCost != 0 && (c.BcryptCost < 4 || c.BcryptCost > 31) {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.DBConnMaxLifetimeMinutes < 0 {
		return errors.New("DB_CONN_MAX_LIFETIME_MINUTES must not be negative")
	}
	if c.BootstrapDefaultUser && c.DefaultPassword == "" {
		return errors.New("DEFAULT_PASSWORD must be set when BOOTSTRAP_DEFAULT_USER is enabled")
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver == "postgres" {
			if c.DBPassword == "password" || c.DBPassword == "" {
				return errors.New("a strong DB_PASSWORD is required in production")
			}
			if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
				return errors.New("DB_SSLMODE must not be 'disable' in production")
			}
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}

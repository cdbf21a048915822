package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "default_jwt_secret"

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	JWTSecret            string
	JWTExpirationMinutes int
	LogLevel             string
	LogFormat            string
	MetricsEnabled       bool
	Database             DatabaseConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	Username        string
	Password        string
	Name            string
	SSLMode         string
	SecretID        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	DSN             string
}

// TokenTTL returns the lifetime of issued access tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirationMinutes) * time.Minute
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	driver := strings.ToLower(v.GetString("DB_DRIVER"))
	if driver != DriverMySQL && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	dbPort := v.GetString("DB_PORT")
	if dbPort == "" {
		dbPort = defaultPort(driver)
	}

	maxOpen, err := getInt(v, "DB_MAX_OPEN_CONNS")
	if err != nil {
		return nil, err
	}
	maxIdle, err := getInt(v, "DB_MAX_IDLE_CONNS")
	if err != nil {
		return nil, err
	}
	lifetime, err := getInt(v, "DB_CONN_MAX_LIFETIME_MINUTES")
	if err != nil {
		return nil, err
	}

	dbConfig := DatabaseConfig{
		Driver:          driver,
		Host:            v.GetString("DB_HOST"),
		Port:            dbPort,
		Username:        v.GetString("DB_USERNAME"),
		Password:        v.GetString("DB_PASSWORD"),
		Name:            v.GetString("DB_NAME"),
		SSLMode:         v.GetString("DB_SSLMODE"),
		SecretID:        v.GetString("DB_SECRET_ID"),
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: time.Duration(lifetime) * time.Minute,
		AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
	}

	jwtExpMinutes, err := getInt(v, "JWT_EXPIRATION_MINUTES")
	if err != nil {
		return nil, err
	}
	if jwtExpMinutes <= 0 {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: must be positive")
	}

	cfg := &Config{
		Port:                 v.GetString("PORT"),
		Origin:               v.GetString("ORIGIN"),
		Environment:          v.GetString("ENVIRONMENT"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTExpirationMinutes: jwtExpMinutes,
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogFormat:            v.GetString("LOG_FORMAT"),
		MetricsEnabled:       v.GetBool("METRICS_ENABLED"),
		Database:             dbConfig,
	}

	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// BuildDSN builds the driver specific data source name. Credentials must
// already be resolved (see ResolveCredentials).
func (d *DatabaseConfig) BuildDSN() string {
	switch d.Driver {
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s TimeZone=UTC",
			d.Host, d.Username, d.Password, d.Name, d.Port)
		if d.SSLMode != "" {
			dsn += " sslmode=" + d.SSLMode
		}
		return dsn
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.Username, d.Password, d.Host, d.Port, d.Name)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("ORIGIN", "http://localhost:5173")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRATION_MINUTES", "1440")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("METRICS_ENABLED", true)

	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "")
	v.SetDefault("DB_USERNAME", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "clinica")
	v.SetDefault("DB_SSLMODE", "")
	v.SetDefault("DB_SECRET_ID", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", "25")
	v.SetDefault("DB_MAX_IDLE_CONNS", "5")
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", "5")
	v.SetDefault("DB_AUTO_MIGRATE", true)
}

func defaultPort(driver string) string {
	if driver == DriverPostgres {
		return "5432"
	}
	return "3306"
}

func getInt(v *viper.Viper, key string) (int, error) {
	n, err := strconv.Atoi(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

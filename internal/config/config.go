package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is the placeholder secret shipped in the defaults.
// Running with it is allowed but logged loudly at startup.
const DefaultJWTSecret = "change-me"

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Driver            string   `yaml:"driver" env:"DB_DRIVER"`
		Hosts             []string `yaml:"hosts" env:"CASSANDRA_HOSTS"`
		Port              int      `yaml:"port" env:"CASSANDRA_PORT"`
		Keyspace          string   `yaml:"keyspace" env:"CASSANDRA_KEYSPACE"`
		Username          string   `yaml:"username" env:"CASSANDRA_USERNAME"`
		Password          string   `yaml:"password" env:"CASSANDRA_PASSWORD"`
		Consistency       string   `yaml:"consistency" env:"CASSANDRA_CONSISTENCY"`
		ReplicationFactor int      `yaml:"replication_factor" env:"CASSANDRA_REPLICATION_FACTOR"`
		ConnectTimeout    string   `yaml:"connect_timeout" env:"CASSANDRA_CONNECT_TIMEOUT"`
		Timeout           string   `yaml:"timeout" env:"CASSANDRA_TIMEOUT"`
		MaxAttempts       int      `yaml:"max_attempts" env:"DB_MAX_ATTEMPTS"`
		RetryDelay        string   `yaml:"retry_delay" env:"DB_RETRY_DELAY"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"SECRET_KEY"`
		Algorithm             string `yaml:"algorithm" env:"ALGORITHM"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level      string `yaml:"level" env:"LOG_LEVEL"`
		Format     string `yaml:"format" env:"LOG_FORMAT"`
		FilePath   string `yaml:"file_path" env:"LOG_FILE_PATH"`
		MaxSize    int    `yaml:"max_size" env:"LOG_MAX_SIZE"`
		MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS"`
		MaxAge     int    `yaml:"max_age" env:"LOG_MAX_AGE"`
		Compress   bool   `yaml:"compress" env:"LOG_COMPRESS"`
	} `yaml:"logging"`

	// Seed creates a default user at startup when Username is set.
	Seed struct {
		Username string `yaml:"username" env:"SEED_USERNAME"`
		Email    string `yaml:"email" env:"SEED_EMAIL"`
		Password string `yaml:"password" env:"SEED_PASSWORD"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables,
// in increasing order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is the normal case outside local development
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.AllowedOrigins = []string{"http://localhost:3000"}

	config.Database.Driver = "cassandra"
	config.Database.Hosts = []string{"cassandra"}
	config.Database.Port = 9042
	config.Database.Keyspace = "dawan"
	config.Database.Consistency = "QUORUM"
	config.Database.ReplicationFactor = 1
	config.Database.ConnectTimeout = "5s"
	config.Database.Timeout = "10s"
	config.Database.MaxAttempts = 5
	config.Database.RetryDelay = "10s"

	config.JWT.Secret = DefaultJWTSecret
	config.JWT.Algorithm = "HS256"
	config.JWT.AccessTokenExpiration = "60m"
	config.JWT.Issuer = "studentprojects"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.MaxSize = 100
	config.Logging.MaxBackups = 3
	config.Logging.MaxAge = 28
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	if err := processStructFields(config); err != nil {
		return err
	}

	// Minutes-based override kept for deployments that predate duration strings
	if raw, ok := os.LookupEnv("ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		minutes, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || minutes < 1 {
			return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer, got %q", raw)
		}
		config.JWT.AccessTokenExpiration = fmt.Sprintf("%dm", minutes)
	}
	return nil
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case "cassandra":
		if len(config.Database.Hosts) == 0 {
			return fmt.Errorf("at least one cassandra host is required")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Database.Keyspace == "" {
		return fmt.Errorf("database keyspace is required")
	}

	if config.Database.MaxAttempts < 1 {
		return fmt.Errorf("database max_attempts must be at least 1")
	}

	for name, value := range map[string]string{
		"database connect_timeout":    config.Database.ConnectTimeout,
		"database timeout":            config.Database.Timeout,
		"database retry_delay":        config.Database.RetryDelay,
		"JWT access token expiration": config.JWT.AccessTokenExpiration,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	switch config.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported JWT algorithm %q", config.JWT.Algorithm)
	}

	return nil
}

// IsDefaultSecret reports whether the JWT secret is still the shipped placeholder.
func (c *Config) IsDefaultSecret() bool {
	return c.JWT.Secret == "" || c.JWT.Secret == DefaultJWTSecret
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

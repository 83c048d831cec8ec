package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Storage backends for the snapshot slot.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMySQL    = "mysql"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server  ServerConfig
	App     AppConfig
	Storage StorageConfig
	AI      AIConfig
	CORS    CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"3001"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"300s"` // chat streams
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"stockroom-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// StorageConfig selects and configures the snapshot backend.
type StorageConfig struct {
	Type     string `envconfig:"STORAGE_TYPE" default:"sqlite"` // sqlite, postgres, mysql, redis or memory
	Path     string `envconfig:"STORAGE_PATH" default:"./data/inventory.db"`
	SlotKey  string `envconfig:"STORAGE_SLOT_KEY" default:"inventory-items"`
	MaxBytes int    `envconfig:"STORAGE_MAX_BYTES" default:"5242880"`

	// PostgreSQL settings
	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresName     string `envconfig:"POSTGRES_DB" default:"stockroom"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:""`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`

	// MySQL settings
	MySQLHost     string `envconfig:"MYSQL_HOST" default:"localhost"`
	MySQLPort     int    `envconfig:"MYSQL_PORT" default:"3306"`
	MySQLName     string `envconfig:"MYSQL_DB" default:"stockroom"`
	MySQLUser     string `envconfig:"MYSQL_USER" default:"root"`
	MySQLPassword string `envconfig:"MYSQL_PASSWORD" default:""`

	// Redis settings
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// AIConfig holds text generation settings.
type AIConfig struct {
	APIKey       string        `envconfig:"OPENAI_API_KEY" default:""`
	Model        string        `envconfig:"AI_MODEL" default:"gpt-4o-mini"`
	BaseURL      string        `envconfig:"AI_BASE_URL" default:""`
	Timeout      time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	MaxBodyBytes int64         `envconfig:"AI_MAX_BODY_BYTES" default:"1048576"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Origins splits the comma-separated origin list.
func (c *CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// PostgresDSN returns the PostgreSQL connection string.
func (s *StorageConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		s.PostgresUser, s.PostgresPassword, s.PostgresHost, s.PostgresPort, s.PostgresName, s.PostgresSSLMode)
}

// MySQLDSN returns the MySQL data source name.
func (s *StorageConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		s.MySQLUser, s.MySQLPassword, s.MySQLHost, s.MySQLPort, s.MySQLName)
}

// RedisAddress returns the Redis address in host:port format.
func (s *StorageConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", s.RedisHost, s.RedisPort)
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageSQLite, StoragePostgres, StorageMySQL, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.Storage.Type)
	}
	if c.Storage.MaxBytes <= 0 {
		return fmt.Errorf("STORAGE_MAX_BYTES must be positive")
	}
	if c.AI.MaxBodyBytes <= 0 {
		return fmt.Errorf("AI_MAX_BODY_BYTES must be positive")
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

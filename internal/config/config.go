package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Events   EventsConfig
	Registry RegistryConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig configures the postgres store. When Enabled is false the
// server runs on the in-memory store instead.
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

// DSN renders the pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// StorageConfig configures the S3 artifact store.
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// EventsConfig configures the redis stream event publisher.
type EventsConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Stream   string
}

// RegistryConfig holds the registry's validation limits.
type RegistryConfig struct {
	NameMaxLength   int
	PayloadMaxBytes int
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("DATABASE_ENABLED", false)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_NAME", "model_registry")
	v.SetDefault("DATABASE_SSL_MODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DATABASE_MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_ENDPOINT", "")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_ACCESS_KEY_ID", "")
	v.SetDefault("STORAGE_SECRET_ACCESS_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "model-artifacts")
	v.SetDefault("EVENTS_ENABLED", false)
	v.SetDefault("EVENTS_ADDR", "localhost:6379")
	v.SetDefault("EVENTS_PASSWORD", "")
	v.SetDefault("EVENTS_DB", 0)
	v.SetDefault("EVENTS_STREAM", "")
	v.SetDefault("REGISTRY_NAME_MAX_LENGTH", 100)
	v.SetDefault("REGISTRY_PAYLOAD_MAX_BYTES", 1<<20)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	connLifetime, err := time.ParseDuration(v.GetString("DATABASE_CONN_MAX_LIFETIME"))
	if err != nil {
		connLifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DATABASE_ENABLED"),
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetInt("DATABASE_PORT"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			Name:            v.GetString("DATABASE_NAME"),
			SSLMode:         v.GetString("DATABASE_SSL_MODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connLifetime,
			MigrationsPath:  v.GetString("DATABASE_MIGRATIONS_PATH"),
		},
		Storage: StorageConfig{
			Enabled:         v.GetBool("STORAGE_ENABLED"),
			Endpoint:        v.GetString("STORAGE_ENDPOINT"),
			Region:          v.GetString("STORAGE_REGION"),
			AccessKeyID:     v.GetString("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("STORAGE_SECRET_ACCESS_KEY"),
			Bucket:          v.GetString("STORAGE_BUCKET"),
		},
		Events: EventsConfig{
			Enabled:  v.GetBool("EVENTS_ENABLED"),
			Addr:     v.GetString("EVENTS_ADDR"),
			Password: v.GetString("EVENTS_PASSWORD"),
			DB:       v.GetInt("EVENTS_DB"),
			Stream:   v.GetString("EVENTS_STREAM"),
		},
		Registry: RegistryConfig{
			NameMaxLength:   v.GetInt("REGISTRY_NAME_MAX_LENGTH"),
			PayloadMaxBytes: v.GetInt("REGISTRY_PAYLOAD_MAX_BYTES"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}

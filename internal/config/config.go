package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverMemory   = "memory"

	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
	CacheDriverNone   = "none"

	EventBusMemory = "memory"
	EventBusNats   = "nats"
	EventBusNone   = "none"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Events   EventsConfig
	Otel     OtelConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Driver     string
	Connection string
}

type CacheConfig struct {
	Driver   string
	TTL      time.Duration
	RedisURL string
}

type EventsConfig struct {
	Bus     string
	NatsURL string
}

type OtelConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", DBDriverPostgres)),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Cache: CacheConfig{
			Driver:   strings.ToLower(getEnv("CACHE_DRIVER", CacheDriverMemory)),
			TTL:      time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 300)) * time.Second,
			RedisURL: getEnv("REDIS_URL", ""),
		},
		Events: EventsConfig{
			Bus:     strings.ToLower(getEnv("EVENT_BUS", EventBusMemory)),
			NatsURL: getEnv("NATS_URL", ""),
		},
		Otel: OtelConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate reports the first setting that would stop the server from starting.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.App.Port); err != nil || port <= 0 {
		return fmt.Errorf("APP_PORT must be a positive number, got %q", c.App.Port)
	}

	switch c.Database.Driver {
	case DBDriverPostgres:
		if c.Database.Connection == "" {
			return fmt.Errorf("DB_CONNECTION_STRING is required when DB_DRIVER=%s", DBDriverPostgres)
		}
	case DBDriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be %s or %s, got %q", DBDriverPostgres, DBDriverMemory, c.Database.Driver)
	}

	switch c.Cache.Driver {
	case CacheDriverRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_DRIVER=%s", CacheDriverRedis)
		}
	case CacheDriverMemory, CacheDriverNone:
	default:
		return fmt.Errorf("CACHE_DRIVER must be memory, redis or none, got %q", c.Cache.Driver)
	}
	if c.Cache.Driver != CacheDriverNone && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be greater than 0")
	}

	switch c.Events.Bus {
	case EventBusNats:
		if c.Events.NatsURL == "" {
			return fmt.Errorf("NATS_URL is required when EVENT_BUS=%s", EventBusNats)
		}
	case EventBusMemory, EventBusNone:
	default:
		return fmt.Errorf("EVENT_BUS must be memory, nats or none, got %q", c.Events.Bus)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "GO_ENV", "LOG_FILE_PATH", "CORS_ALLOWED_ORIGINS",
		"DB_DRIVER", "DB_CONNECTION_STRING",
		"CACHE_DRIVER", "CACHE_TTL_SECONDS", "REDIS_URL",
		"EVENT_BUS", "NATS_URL",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		// Setenv registers the restore, Unsetenv makes the key truly absent.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, DBDriverPostgres, cfg.Database.Driver)
	assert.Equal(t, CacheDriverMemory, cfg.Cache.Driver)
	assert.Equal(t, 300*time.Second, cfg.Cache.TTL)
	assert.Equal(t, EventBusMemory, cfg.Events.Bus)
	assert.False(t, cfg.Otel.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "8080")
	t.Setenv("GO_ENV", "production")
	t.Setenv("DB_DRIVER", "MEMORY")
	t.Setenv("CACHE_DRIVER", "redis")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("EVENT_BUS", "nats")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, DBDriverMemory, cfg.Database.Driver)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "nats://localhost:4222", cfg.Events.NatsURL)
	assert.True(t, cfg.Otel.Enabled)
	require.NoError(t, cfg.Validate())
}

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Port: "3000"},
		Database: DatabaseConfig{Driver: DBDriverMemory},
		Cache:    CacheConfig{Driver: CacheDriverMemory, TTL: time.Minute},
		Events:   EventsConfig{Bus: EventBusMemory},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.App.Port = "http" }, "APP_PORT"},
		{"zero port", func(c *Config) { c.App.Port = "0" }, "APP_PORT"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = DBDriverPostgres }, "DB_CONNECTION_STRING"},
		{"unknown db driver", func(c *Config) { c.Database.Driver = "sqlite" }, "DB_DRIVER"},
		{"redis without url", func(c *Config) { c.Cache.Driver = CacheDriverRedis }, "REDIS_URL"},
		{"unknown cache driver", func(c *Config) { c.Cache.Driver = "memcached" }, "CACHE_DRIVER"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "CACHE_TTL_SECONDS"},
		{"zero ttl without cache", func(c *Config) { c.Cache.Driver = CacheDriverNone; c.Cache.TTL = 0 }, ""},
		{"nats without url", func(c *Config) { c.Events.Bus = EventBusNats }, "NATS_URL"},
		{"unknown bus", func(c *Config) { c.Events.Bus = "kafka" }, "EVENT_BUS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

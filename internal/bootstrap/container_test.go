package bootstrap

import (
	"context"
	"os"
	"testing"
	"time"

	"notebook-be/internal/config"
	"notebook-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Port: "3000", Environment: "test"},
		Database: config.DatabaseConfig{Driver: config.DBDriverMemory},
		Cache:    config.CacheConfig{Driver: config.CacheDriverMemory, TTL: time.Minute},
		Events:   config.EventsConfig{Bus: config.EventBusMemory},
	}
}

func TestNewContainerInMemory(t *testing.T) {
	c, err := NewContainer(memoryConfig(), logger.NewNopLogger())
	require.NoError(t, err)

	assert.NotNil(t, c.NotebookController)
	require.NotNil(t, c.ConsumerService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.NoError(t, c.ConsumerService.Consume(ctx))

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestNewContainerWithoutBusOrCache(t *testing.T) {
	cfg := memoryConfig()
	cfg.Cache.Driver = config.CacheDriverNone
	cfg.Events.Bus = config.EventBusNone

	c, err := NewContainer(cfg, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Nil(t, c.ConsumerService)
	assert.NoError(t, c.Close())
}

func TestNewContainerWithNatsBus(t *testing.T) {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		t.Skip("NATS_URL not set")
	}

	cfg := memoryConfig()
	cfg.Events = config.EventsConfig{Bus: config.EventBusNats, NatsURL: natsURL}

	c, err := NewContainer(cfg, logger.NewNopLogger())
	require.NoError(t, err)
	require.NotNil(t, c.ConsumerService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.NoError(t, c.ConsumerService.Consume(ctx))
	assert.NoError(t, c.Close())
}

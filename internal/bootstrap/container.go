package bootstrap

import (
	"context"
	"fmt"
	"time"

	"notebook-be/internal/config"
	"notebook-be/internal/controller"
	"notebook-be/internal/pkg/logger"
	"notebook-be/internal/repository/cache"
	"notebook-be/internal/repository/memory"
	"notebook-be/internal/repository/unitofwork"
	"notebook-be/internal/service"
	"notebook-be/pkg/database"
	"notebook-be/pkg/events"

	pktNats "notebook-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	NotebookController controller.INotebookController

	// Background Services (Exposed for main.go to run), nil when no bus
	// can deliver events
	ConsumerService service.IConsumerService

	closers []func() error
}

func NewContainer(cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Storage
	uowFactory, err := c.newRepositoryFactory(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	// 2. Notebook cache
	notebookCache := c.newNotebookCache(cfg)

	// 3. Event Bus
	publisher := c.newPublisher(cfg)

	// 4. Services
	notebookService := service.NewNotebookService(uowFactory, notebookCache, publisher, sysLogger)

	// 5. Controllers
	c.NotebookController = controller.NewNotebookController(notebookService)

	return c, nil
}

func (c *Container) newRepositoryFactory(cfg *config.Config) (unitofwork.RepositoryFactory, error) {
	switch cfg.Database.Driver {
	case config.DBDriverMemory:
		c.Logger.Warn("Bootstrap", "Using in-memory store, data is lost on exit", nil)
		return memory.NewRepositoryFactory(memory.NewStore()), nil
	default:
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		c.closers = append(c.closers, func() error { return database.Close(db) })
		return unitofwork.NewRepositoryFactory(db), nil
	}
}

func (c *Container) newNotebookCache(cfg *config.Config) cache.INotebookCache {
	switch cfg.Cache.Driver {
	case config.CacheDriverNone:
		return cache.NewNopNotebookCache()
	case config.CacheDriverRedis:
		rdb := cache.NewRedisClient(cfg.Cache.RedisURL)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// reads degrade to the store while redis is away
			c.Logger.Warn("Bootstrap", "Failed to connect to Redis", map[string]interface{}{
				"error": err.Error(),
			})
		}
		c.closers = append(c.closers, rdb.Close)
		return cache.NewRedisNotebookCache(rdb, cfg.Cache.TTL)
	default:
		return cache.NewMemoryNotebookCache(cfg.Cache.TTL)
	}
}

func (c *Container) newPublisher(cfg *config.Config) events.Publisher {
	switch cfg.Events.Bus {
	case config.EventBusNone:
		return events.NopPublisher()
	case config.EventBusNats:
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL, c.Logger)
		if err != nil {
			c.Logger.Warn("Bootstrap", "Failed to connect to NATS Publisher, events disabled", map[string]interface{}{
				"error": err.Error(),
			})
			return events.NopPublisher()
		}
		c.closers = append(c.closers, natsPub.Close)

		natsSub, err := pktNats.NewSubscriber(cfg.Events.NatsURL, c.Logger)
		if err != nil {
			c.Logger.Warn("Bootstrap", "Failed to connect to NATS Subscriber, activity log disabled", map[string]interface{}{
				"error": err.Error(),
			})
			return natsPub
		}
		c.closers = append(c.closers, natsSub.Close)
		c.ConsumerService = service.NewDurableConsumerService(natsSub, c.Logger)
		return natsPub
	default:
		bus := events.NewChannelBus(watermill.NewStdLogger(false, false))
		c.closers = append(c.closers, bus.Close)
		c.ConsumerService = service.NewConsumerService(bus, c.Logger)
		return bus
	}
}

// Close releases infrastructure in reverse order of acquisition.
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"notebook-be/internal/entity"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "notebook:"

type redisNotebookCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient accepts a redis:// URL or a bare host:port address.
func NewRedisClient(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	return redis.NewClient(opt)
}

func NewRedisNotebookCache(rdb *redis.Client, ttl time.Duration) INotebookCache {
	return &redisNotebookCache{rdb: rdb, ttl: ttl}
}

func (c *redisNotebookCache) Get(ctx context.Context, id string) (*entity.Notebook, bool, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", id, err)
	}

	var notebook entity.Notebook
	if err := json.Unmarshal(raw, &notebook); err != nil {
		return nil, false, fmt.Errorf("decode cached notebook %s: %w", id, err)
	}
	return &notebook, true, nil
}

func (c *redisNotebookCache) Set(ctx context.Context, notebook *entity.Notebook) error {
	raw, err := json.Marshal(notebook)
	if err != nil {
		return fmt.Errorf("encode notebook %s: %w", notebook.Id, err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+notebook.Id, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", notebook.Id, err)
	}
	return nil
}

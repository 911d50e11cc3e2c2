package cache

import (
	"context"
	"time"

	"notebook-be/internal/entity"

	gocache "github.com/patrickmn/go-cache"
)

type memoryNotebookCache struct {
	cache *gocache.Cache
}

// NewMemoryNotebookCache keeps entries for ttl and purges expired ones every
// two ttl periods.
func NewMemoryNotebookCache(ttl time.Duration) INotebookCache {
	return &memoryNotebookCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *memoryNotebookCache) Get(_ context.Context, id string) (*entity.Notebook, bool, error) {
	if x, found := c.cache.Get(id); found {
		return copyNotebook(x.(*entity.Notebook)), true, nil
	}
	return nil, false, nil
}

func (c *memoryNotebookCache) Set(_ context.Context, notebook *entity.Notebook) error {
	c.cache.Set(notebook.Id, copyNotebook(notebook), gocache.DefaultExpiration)
	return nil
}

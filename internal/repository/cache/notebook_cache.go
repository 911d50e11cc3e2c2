package cache

import (
	"context"

	"notebook-be/internal/entity"
)

// INotebookCache is a read-through cache for notebook headers. Notebooks are
// immutable once created, so entries are never invalidated, only expired.
type INotebookCache interface {
	Get(ctx context.Context, id string) (*entity.Notebook, bool, error)
	Set(ctx context.Context, notebook *entity.Notebook) error
}

type nopNotebookCache struct{}

func NewNopNotebookCache() INotebookCache {
	return nopNotebookCache{}
}

func (nopNotebookCache) Get(context.Context, string) (*entity.Notebook, bool, error) {
	return nil, false, nil
}

func (nopNotebookCache) Set(context.Context, *entity.Notebook) error {
	return nil
}

func copyNotebook(n *entity.Notebook) *entity.Notebook {
	c := *n
	return &c
}

package memory

import (
	"context"
	"fmt"

	"notebook-be/internal/entity"
	"notebook-be/internal/repository/contract"
	"notebook-be/internal/repository/specification"

	"github.com/patrickmn/go-cache"
)

type NotebookRepositoryImpl struct {
	access
}

func (r *NotebookRepositoryImpl) Create(ctx context.Context, notebook *entity.Notebook) error {
	return r.write(func(st *state) error {
		if err := st.notebooks.Add(notebook.Id, *notebook, cache.NoExpiration); err != nil {
			return fmt.Errorf("%w: notebook %s", contract.ErrConflict, notebook.Id)
		}
		return nil
	})
}

func (r *NotebookRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *NotebookRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error) {
	var result []*entity.Notebook
	err := r.read(func(st *state) error {
		for _, item := range st.notebooks.Items() {
			n := item.Object.(entity.Notebook)
			ok, err := matchNotebook(n, specs)
			if err != nil {
				return err
			}
			if ok {
				result = append(result, &n)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := sortBy(result, orderings(specs), compareNotebooks, "created_at"); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *NotebookRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

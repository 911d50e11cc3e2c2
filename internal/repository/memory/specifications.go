package memory

import (
	"fmt"
	"sort"
	"strings"

	"notebook-be/internal/entity"
	"notebook-be/internal/repository/specification"
)

// The memory driver understands the same specification values the gorm
// repositories apply as SQL.

func matchNotebook(n entity.Notebook, specs []specification.Specification) (bool, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if n.Id != s.ID {
				return false, nil
			}
		case specification.OrderBy, specification.ForUpdate:
		default:
			return false, fmt.Errorf("memory store: unsupported notebook specification %T", spec)
		}
	}
	return true, nil
}

func matchStep(st entity.NotebookStep, specs []specification.Specification) (bool, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByNotebookID:
			if st.NotebookId != s.NotebookID {
				return false, nil
			}
		case specification.OrderBy, specification.ForUpdate:
		default:
			return false, fmt.Errorf("memory store: unsupported step specification %T", spec)
		}
	}
	return true, nil
}

func orderings(specs []specification.Specification) []specification.OrderBy {
	var out []specification.OrderBy
	for _, spec := range specs {
		if o, ok := spec.(specification.OrderBy); ok {
			out = append(out, o)
		}
	}
	return out
}

func compareNotebooks(a, b *entity.Notebook, field string) (int, error) {
	switch strings.ToLower(field) {
	case "id":
		return strings.Compare(a.Id, b.Id), nil
	case "name":
		return strings.Compare(a.Name, b.Name), nil
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt), nil
	case "modified_at":
		return a.ModifiedAt.Compare(b.ModifiedAt), nil
	}
	return 0, fmt.Errorf("memory store: cannot order notebooks by %q", field)
}

func compareSteps(a, b *entity.NotebookStep, field string) (int, error) {
	switch strings.ToLower(field) {
	case "step_id":
		return cmpInt64(a.StepId, b.StepId), nil
	case "order_id":
		return cmpInt64(int64(a.OrderId), int64(b.OrderId)), nil
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt), nil
	case "modified_at":
		return a.ModifiedAt.Compare(b.ModifiedAt), nil
	}
	return 0, fmt.Errorf("memory store: cannot order steps by %q", field)
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// sortBy orders items by the given specs, falling back to the tiebreak
// comparison so results are deterministic.
func sortBy[T any](items []*T, orders []specification.OrderBy, compare func(a, b *T, field string) (int, error), tiebreak string) error {
	for _, o := range orders {
		if _, err := compare(new(T), new(T), o.Field); err != nil {
			return err
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, o := range orders {
			c, _ := compare(items[i], items[j], o.Field)
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		c, _ := compare(items[i], items[j], tiebreak)
		return c < 0
	})
	return nil
}

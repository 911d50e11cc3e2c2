package memory

import (
	"context"
	"fmt"
	"strconv"

	"notebook-be/internal/entity"
	"notebook-be/internal/repository/contract"
	"notebook-be/internal/repository/specification"

	"github.com/patrickmn/go-cache"
)

type NotebookStepRepositoryImpl struct {
	access
}

func stepKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

type orderKey struct {
	notebookId string
	orderId    int
}

// checkUnique enforces the (notebook_id, order_id) unique index.
func checkUnique(st *state) error {
	seen := make(map[orderKey]int64)
	for _, item := range st.steps.Items() {
		s := item.Object.(entity.NotebookStep)
		k := orderKey{s.NotebookId, s.OrderId}
		if other, dup := seen[k]; dup {
			return fmt.Errorf("%w: steps %d and %d share order_id %d in notebook %s",
				contract.ErrConflict, other, s.StepId, s.OrderId, s.NotebookId)
		}
		seen[k] = s.StepId
	}
	return nil
}

func (r *NotebookStepRepositoryImpl) Create(ctx context.Context, step *entity.NotebookStep) error {
	return r.write(func(st *state) error {
		if _, found := st.notebooks.Get(step.NotebookId); !found {
			return fmt.Errorf("memory store: notebook %s does not exist", step.NotebookId)
		}

		st.lastStepId++
		created := *step
		created.StepId = st.lastStepId
		st.steps.Set(stepKey(created.StepId), created, cache.NoExpiration)

		if err := checkUnique(st); err != nil {
			return err
		}
		*step = created
		return nil
	})
}

func (r *NotebookStepRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NotebookStep, error) {
	var result []*entity.NotebookStep
	err := r.read(func(st *state) error {
		for _, item := range st.steps.Items() {
			s := item.Object.(entity.NotebookStep)
			ok, err := matchStep(s, specs)
			if err != nil {
				return err
			}
			if ok {
				result = append(result, &s)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := sortBy(result, orderings(specs), compareSteps, "step_id"); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *NotebookStepRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func (r *NotebookStepRepositoryImpl) UpdateOrders(ctx context.Context, steps []*entity.NotebookStep) error {
	return r.write(func(st *state) error {
		for _, step := range steps {
			x, found := st.steps.Get(stepKey(step.StepId))
			if !found {
				return fmt.Errorf("memory store: step %d does not exist", step.StepId)
			}
			current := x.(entity.NotebookStep)
			current.OrderId = step.OrderId
			current.ModifiedAt = step.ModifiedAt
			st.steps.Set(stepKey(current.StepId), current, cache.NoExpiration)
		}
		return checkUnique(st)
	})
}

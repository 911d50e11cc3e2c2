package contract

import (
	"context"

	"notebook-be/internal/entity"
	"notebook-be/internal/repository/specification"
)

type NotebookStepRepository interface {
	// Create assigns StepId on the passed step.
	Create(ctx context.Context, step *entity.NotebookStep) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NotebookStep, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// UpdateOrders persists OrderId and ModifiedAt of every given step.
	// Implementations must tolerate permutations, i.e. two steps swapping order ids.
	UpdateOrders(ctx context.Context, steps []*entity.NotebookStep) error
}

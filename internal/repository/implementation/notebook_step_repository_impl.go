package implementation

import (
	"context"

	"notebook-be/internal/entity"
	"notebook-be/internal/mapper"
	"notebook-be/internal/model"
	"notebook-be/internal/repository/contract"
	"notebook-be/internal/repository/specification"

	"gorm.io/gorm"
)

type NotebookStepRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NotebookStepMapper
}

func NewNotebookStepRepository(db *gorm.DB) contract.NotebookStepRepository {
	return &NotebookStepRepositoryImpl{
		db:     db,
		mapper: mapper.NewNotebookStepMapper(),
	}
}

func (r *NotebookStepRepositoryImpl) Create(ctx context.Context, step *entity.NotebookStep) error {
	m := r.mapper.ToModel(step)
	m.StepId = 0 // assigned by the sequence
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*step = *r.mapper.ToEntity(m)
	return nil
}

func (r *NotebookStepRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NotebookStep, error) {
	var models []*model.NotebookStep
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NotebookStepRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.NotebookStep{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateOrders writes in two passes. The first parks every step on a distinct
// negative order id, the second writes the final values, so the unique index
// on (notebook_id, order_id) never sees an intermediate collision.
// Call it inside a transaction.
func (r *NotebookStepRepositoryImpl) UpdateOrders(ctx context.Context, steps []*entity.NotebookStep) error {
	db := r.db.WithContext(ctx)

	for i, step := range steps {
		err := db.Model(&model.NotebookStep{}).
			Where("step_id = ?", step.StepId).
			Update("order_id", -(i + 1)).Error
		if err != nil {
			return translateError(err)
		}
	}

	for _, step := range steps {
		err := db.Model(&model.NotebookStep{}).
			Where("step_id = ?", step.StepId).
			Updates(map[string]interface{}{
				"order_id":    step.OrderId,
				"modified_at": step.ModifiedAt,
			}).Error
		if err != nil {
			return translateError(err)
		}
	}

	return nil
}

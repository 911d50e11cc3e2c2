package mapper

import (
	"notebook-be/internal/entity"
	"notebook-be/internal/model"
)

type NotebookStepMapper struct{}

func NewNotebookStepMapper() *NotebookStepMapper {
	return &NotebookStepMapper{}
}

func (m *NotebookStepMapper) ToEntity(s *model.NotebookStep) *entity.NotebookStep {
	if s == nil {
		return nil
	}
	return &entity.NotebookStep{
		StepId:     s.StepId,
		OrderId:    s.OrderId,
		NotebookId: s.NotebookId,
		CreatedAt:  s.CreatedAt.UTC(),
		ModifiedAt: s.ModifiedAt.UTC(),
	}
}

func (m *NotebookStepMapper) ToModel(s *entity.NotebookStep) *model.NotebookStep {
	if s == nil {
		return nil
	}
	return &model.NotebookStep{
		StepId:     s.StepId,
		OrderId:    s.OrderId,
		NotebookId: s.NotebookId,
		CreatedAt:  s.CreatedAt,
		ModifiedAt: s.ModifiedAt,
	}
}

func (m *NotebookStepMapper) ToEntities(steps []*model.NotebookStep) []*entity.NotebookStep {
	entities := make([]*entity.NotebookStep, len(steps))
	for i, s := range steps {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

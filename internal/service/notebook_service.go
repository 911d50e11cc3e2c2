package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"notebook-be/internal/dto"
	"notebook-be/internal/entity"
	"notebook-be/internal/pkg/apperror"
	"notebook-be/internal/pkg/logger"
	"notebook-be/internal/repository/cache"
	"notebook-be/internal/repository/contract"
	"notebook-be/internal/repository/specification"
	"notebook-be/internal/repository/unitofwork"
	"notebook-be/pkg/events"

	"github.com/google/uuid"
)

const (
	maxNameLength = 255
	// createAttempts bounds retries when a generated id collides.
	createAttempts = 3
)

type INotebookService interface {
	GetAll(ctx context.Context) ([]*dto.NotebookResponse, error)
	Create(ctx context.Context, req *dto.CreateNotebookRequest) (*dto.NotebookResponse, error)
	Show(ctx context.Context, id string) (*dto.NotebookResponse, error)
	ListSteps(ctx context.Context, notebookId string) ([]*dto.NotebookStepResponse, error)
	AddStep(ctx context.Context, notebookId string, req *dto.CreateNotebookStepRequest) (*dto.NotebookStepResponse, error)
	ReorderSteps(ctx context.Context, notebookId string, req *dto.ReorderStepsRequest) ([]*dto.NotebookStepResponse, error)
}

type notebookService struct {
	uowFactory    unitofwork.RepositoryFactory
	notebookCache cache.INotebookCache
	publisher     events.Publisher
	logger        logger.ILogger
	now           func() time.Time
}

func NewNotebookService(
	uowFactory unitofwork.RepositoryFactory,
	notebookCache cache.INotebookCache,
	publisher events.Publisher,
	log logger.ILogger,
) INotebookService {
	return &notebookService{
		uowFactory:    uowFactory,
		notebookCache: notebookCache,
		publisher:     publisher,
		logger:        log,
		now:           time.Now,
	}
}

// timestamp is the current UTC time at the precision postgres stores.
func (s *notebookService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *notebookService) GetAll(ctx context.Context) ([]*dto.NotebookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notebooks, err := uow.NotebookRepository().FindAll(ctx, specification.OrderBy{Field: "created_at"})
	if err != nil {
		return nil, s.storageError("list notebooks", "", err)
	}

	result := make([]*dto.NotebookResponse, 0, len(notebooks))
	for _, notebook := range notebooks {
		result = append(result, toNotebookResponse(notebook))
	}
	return result, nil
}

func (s *notebookService) Create(ctx context.Context, req *dto.CreateNotebookRequest) (*dto.NotebookResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.New(apperror.Validation, "name must not be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, apperror.New(apperror.Validation,
			fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := s.timestamp()

	var notebook *entity.Notebook
	for attempt := 1; ; attempt++ {
		notebook = &entity.Notebook{
			Id:         uuid.NewString(),
			Name:       name,
			CreatedAt:  now,
			ModifiedAt: now,
		}

		err := uow.NotebookRepository().Create(ctx, notebook)
		if err == nil {
			break
		}
		if !errors.Is(err, contract.ErrConflict) || attempt == createAttempts {
			return nil, s.storageError("create notebook", notebook.Id, err)
		}
		s.logger.Warn("NotebookService", "Generated notebook id collided, retrying", map[string]interface{}{
			"notebook_id": notebook.Id,
			"attempt":     attempt,
		})
	}

	if err := s.notebookCache.Set(ctx, notebook); err != nil {
		s.logger.Warn("NotebookService", "Failed to prime notebook cache", map[string]interface{}{
			"notebook_id": notebook.Id,
			"error":       err.Error(),
		})
	}

	s.logger.Info("NotebookService", "Notebook created", map[string]interface{}{
		"notebook_id": notebook.Id,
	})
	s.publish(ctx, events.NotebookCreated, map[string]interface{}{
		"notebook_id": notebook.Id,
		"name":        notebook.Name,
	})

	return toNotebookResponse(notebook), nil
}

func (s *notebookService) Show(ctx context.Context, id string) (*dto.NotebookResponse, error) {
	notebook, err := s.findNotebook(ctx, id)
	if err != nil {
		return nil, err
	}
	return toNotebookResponse(notebook), nil
}

// findNotebook reads through the cache. Cache failures degrade to a store read.
func (s *notebookService) findNotebook(ctx context.Context, id string) (*entity.Notebook, error) {
	cached, found, err := s.notebookCache.Get(ctx, id)
	if err != nil {
		s.logger.Warn("NotebookService", "Notebook cache read failed", map[string]interface{}{
			"notebook_id": id,
			"error":       err.Error(),
		})
	}
	if found {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, s.storageError("load notebook", id, err)
	}
	if notebook == nil {
		return nil, notebookNotFound(id)
	}

	if err := s.notebookCache.Set(ctx, notebook); err != nil {
		s.logger.Warn("NotebookService", "Failed to cache notebook", map[string]interface{}{
			"notebook_id": id,
			"error":       err.Error(),
		})
	}
	return notebook, nil
}

func (s *notebookService) ListSteps(ctx context.Context, notebookId string) ([]*dto.NotebookStepResponse, error) {
	if _, err := s.findNotebook(ctx, notebookId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	steps, err := uow.NotebookStepRepository().FindAll(ctx,
		specification.ByNotebookID{NotebookID: notebookId},
		specification.OrderBy{Field: "order_id"},
	)
	if err != nil {
		return nil, s.storageError("list steps", notebookId, err)
	}
	return toStepResponses(steps), nil
}

func (s *notebookService) AddStep(ctx context.Context, notebookId string, req *dto.CreateNotebookStepRequest) (*dto.NotebookStepResponse, error) {
	if req.OrderId == nil {
		return nil, apperror.New(apperror.Validation, "order_id is required")
	}
	orderId := *req.OrderId

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, s.storageError("begin transaction", notebookId, err)
	}
	defer uow.Rollback()

	if err := s.lockNotebook(ctx, uow, notebookId); err != nil {
		return nil, s.rejected("add step", notebookId, err)
	}

	existing, err := uow.NotebookStepRepository().FindAll(ctx, specification.ByNotebookID{NotebookID: notebookId})
	if err != nil {
		return nil, s.storageError("load steps", notebookId, err)
	}
	if err := checkOrderRange(orderId); err != nil {
		return nil, s.rejected("add step", notebookId, err)
	}
	if err := ValidateNewStep(existing, orderId); err != nil {
		return nil, s.rejected("add step", notebookId, err)
	}

	now := s.timestamp()
	step := &entity.NotebookStep{
		OrderId:    orderId,
		NotebookId: notebookId,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := uow.NotebookStepRepository().Create(ctx, step); err != nil {
		if errors.Is(err, contract.ErrConflict) {
			return nil, s.rejected("add step", notebookId, apperror.Wrap(apperror.DuplicateOrder,
				fmt.Sprintf("order_id %d is already used in this notebook", orderId), err))
		}
		return nil, s.storageError("insert step", notebookId, err)
	}

	if err := uow.Commit(); err != nil {
		return nil, s.storageError("commit step", notebookId, err)
	}

	s.logger.Info("NotebookService", "Step added", map[string]interface{}{
		"notebook_id": notebookId,
		"step_id":     step.StepId,
		"order_id":    step.OrderId,
	})
	s.publish(ctx, events.NotebookStepAdded, map[string]interface{}{
		"notebook_id": notebookId,
		"step_id":     step.StepId,
		"order_id":    step.OrderId,
	})

	return toStepResponse(step), nil
}

func (s *notebookService) ReorderSteps(ctx context.Context, notebookId string, req *dto.ReorderStepsRequest) ([]*dto.NotebookStepResponse, error) {
	desired := make([]entity.StepOrder, 0, len(req.Steps))
	for _, item := range req.Steps {
		if item.OrderId == nil {
			return nil, apperror.New(apperror.Validation,
				fmt.Sprintf("order_id is required for step %d", item.StepId))
		}
		desired = append(desired, entity.StepOrder{StepId: item.StepId, OrderId: *item.OrderId})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, s.storageError("begin transaction", notebookId, err)
	}
	defer uow.Rollback()

	if err := s.lockNotebook(ctx, uow, notebookId); err != nil {
		return nil, s.rejected("reorder steps", notebookId, err)
	}

	current, err := uow.NotebookStepRepository().FindAll(ctx, specification.ByNotebookID{NotebookID: notebookId})
	if err != nil {
		return nil, s.storageError("load steps", notebookId, err)
	}

	plan, err := PlanReorder(current, desired, s.timestamp())
	if err != nil {
		return nil, s.rejected("reorder steps", notebookId, err)
	}
	if len(plan.Ignored) > 0 {
		s.logger.Warn("NotebookService", "Reorder named steps outside the notebook, ignored", map[string]interface{}{
			"notebook_id": notebookId,
			"step_ids":    plan.Ignored,
		})
	}

	if err := uow.NotebookStepRepository().UpdateOrders(ctx, plan.Steps); err != nil {
		if errors.Is(err, contract.ErrConflict) {
			return nil, s.rejected("reorder steps", notebookId, apperror.Wrap(apperror.DuplicateOrder,
				"reorder would give two steps the same order_id", err))
		}
		return nil, s.storageError("update step orders", notebookId, err)
	}

	if err := uow.Commit(); err != nil {
		return nil, s.storageError("commit reorder", notebookId, err)
	}

	orders := make(map[string]int, len(plan.Steps))
	for _, step := range plan.Steps {
		orders[fmt.Sprint(step.StepId)] = step.OrderId
	}
	s.logger.Info("NotebookService", "Steps reordered", map[string]interface{}{
		"notebook_id": notebookId,
		"steps":       len(plan.Steps),
	})
	s.publish(ctx, events.NotebookStepsReordered, map[string]interface{}{
		"notebook_id": notebookId,
		"orders":      orders,
	})

	return toStepResponses(plan.Steps), nil
}

// lockNotebook loads the notebook with a row lock, serializing writers of the
// same notebook until the transaction ends.
func (s *notebookService) lockNotebook(ctx context.Context, uow unitofwork.UnitOfWork, notebookId string) error {
	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: notebookId},
		specification.ForUpdate{},
	)
	if err != nil {
		return s.storageError("lock notebook", notebookId, err)
	}
	if notebook == nil {
		return notebookNotFound(notebookId)
	}
	return nil
}

func (s *notebookService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	event := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("NotebookService", "Failed to publish event", map[string]interface{}{
			"event":       eventType,
			"notebook_id": data["notebook_id"],
			"error":       err.Error(),
		})
	}
}

// rejected logs a refused operation. Internal errors were logged already.
func (s *notebookService) rejected(operation, notebookId string, err error) error {
	if apperror.KindOf(err) != apperror.Internal {
		s.logger.Info("NotebookService", "Operation rejected", map[string]interface{}{
			"operation":   operation,
			"notebook_id": notebookId,
			"kind":        string(apperror.KindOf(err)),
			"reason":      err.Error(),
		})
	}
	return err
}

func (s *notebookService) storageError(operation, notebookId string, err error) error {
	s.logger.Error("NotebookService", "Storage failure", map[string]interface{}{
		"operation":   operation,
		"notebook_id": notebookId,
		"error":       err.Error(),
	})
	return apperror.Wrap(apperror.Internal, "internal error", fmt.Errorf("%s: %w", operation, err))
}

func notebookNotFound(id string) error {
	return apperror.New(apperror.NotFound, fmt.Sprintf("notebook %s not found", id))
}

func toNotebookResponse(n *entity.Notebook) *dto.NotebookResponse {
	return &dto.NotebookResponse{
		Id:         n.Id,
		Name:       n.Name,
		CreatedAt:  n.CreatedAt,
		ModifiedAt: n.ModifiedAt,
	}
}

func toStepResponse(s *entity.NotebookStep) *dto.NotebookStepResponse {
	return &dto.NotebookStepResponse{
		StepId:     s.StepId,
		OrderId:    s.OrderId,
		NotebookId: s.NotebookId,
		CreatedAt:  s.CreatedAt,
		ModifiedAt: s.ModifiedAt,
	}
}

func toStepResponses(steps []*entity.NotebookStep) []*dto.NotebookStepResponse {
	result := make([]*dto.NotebookStepResponse, 0, len(steps))
	for _, step := range steps {
		result = append(result, toStepResponse(step))
	}
	return result
}

package integration

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"notebook-be/internal/dto"
	"notebook-be/internal/entity"
	"notebook-be/internal/pkg/apperror"
	"notebook-be/internal/pkg/logger"
	"notebook-be/internal/repository/cache"
	"notebook-be/internal/repository/contract"
	"notebook-be/internal/repository/specification"
	"notebook-be/internal/repository/unitofwork"
	"notebook-be/internal/service"
	"notebook-be/pkg/database"
	"notebook-be/pkg/events"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

func seedNotebook(t *testing.T, uow unitofwork.UnitOfWork) *entity.Notebook {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	nb := &entity.Notebook{Id: uuid.NewString(), Name: "integration", CreatedAt: now, ModifiedAt: now}
	require.NoError(t, uow.NotebookRepository().Create(context.Background(), nb))
	return nb
}

func TestGormRepositories(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	nb := seedNotebook(t, uow)

	t.Run("find notebook by id", func(t *testing.T) {
		got, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: nb.Id})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, nb.Name, got.Name)
		assert.True(t, nb.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("missing notebook is nil", func(t *testing.T) {
		got, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: uuid.NewString()})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate notebook id conflicts", func(t *testing.T) {
		dup := *nb
		err := uow.NotebookRepository().Create(ctx, &dup)
		assert.ErrorIs(t, err, contract.ErrConflict)
	})

	t.Run("unique order index", func(t *testing.T) {
		now := time.Now().UTC()
		first := &entity.NotebookStep{OrderId: 1, NotebookId: nb.Id, CreatedAt: now, ModifiedAt: now}
		require.NoError(t, uow.NotebookStepRepository().Create(ctx, first))
		assert.NotZero(t, first.StepId)

		second := &entity.NotebookStep{OrderId: 1, NotebookId: nb.Id, CreatedAt: now, ModifiedAt: now}
		err := uow.NotebookStepRepository().Create(ctx, second)
		assert.ErrorIs(t, err, contract.ErrConflict)
	})
}

func TestGormUpdateOrdersSwap(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(db)
	nb := seedNotebook(t, factory.NewUnitOfWork(ctx))

	now := time.Now().UTC().Truncate(time.Microsecond)
	a := &entity.NotebookStep{OrderId: 1, NotebookId: nb.Id, CreatedAt: now, ModifiedAt: now}
	b := &entity.NotebookStep{OrderId: 2, NotebookId: nb.Id, CreatedAt: now, ModifiedAt: now}
	repo := factory.NewUnitOfWork(ctx).NotebookStepRepository()
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	later := now.Add(time.Second)
	a.OrderId, a.ModifiedAt = 2, later
	b.OrderId, b.ModifiedAt = 1, later
	require.NoError(t, uow.NotebookStepRepository().UpdateOrders(ctx, []*entity.NotebookStep{a, b}))
	require.NoError(t, uow.Commit())

	steps, err := factory.NewUnitOfWork(ctx).NotebookStepRepository().FindAll(ctx,
		specification.ByNotebookID{NotebookID: nb.Id},
		specification.OrderBy{Field: "order_id"},
	)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, b.StepId, steps[0].StepId)
	assert.Equal(t, a.StepId, steps[1].StepId)
	assert.True(t, later.Equal(steps[0].ModifiedAt))
}

func newPostgresService(t *testing.T) service.INotebookService {
	return service.NewNotebookService(
		unitofwork.NewRepositoryFactory(openDB(t)),
		cache.NewNopNotebookCache(),
		events.NopPublisher(),
		logger.NewNopLogger(),
	)
}

func TestServiceOnPostgres_ConcurrentCapacity(t *testing.T) {
	svc := newPostgresService(t)
	ctx := context.Background()

	nb, err := svc.Create(ctx, &dto.CreateNotebookRequest{Name: "race"})
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	for order := entity.MinOrderId; order <= entity.MaxOrderId; order++ {
		wg.Add(1)
		go func(order int) {
			defer wg.Done()
			_, err := svc.AddStep(ctx, nb.Id, &dto.CreateNotebookStepRequest{OrderId: &order})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if apperror.Is(err, apperror.CapacityExceeded) {
				rejected++
			} else {
				t.Errorf("unexpected error: %v", err)
			}
		}(order)
	}
	wg.Wait()

	assert.Equal(t, entity.MaxStepsPerNotebook, ok)
	assert.Equal(t, 1, rejected)
}

func TestServiceOnPostgres_ReorderRotation(t *testing.T) {
	svc := newPostgresService(t)
	ctx := context.Background()

	nb, err := svc.Create(ctx, &dto.CreateNotebookRequest{Name: "rotation"})
	require.NoError(t, err)

	var req dto.ReorderStepsRequest
	for _, order := range []int{1, 2, 3} {
		step, err := svc.AddStep(ctx, nb.Id, &dto.CreateNotebookStepRequest{OrderId: &order})
		require.NoError(t, err)
		next := order%3 + 1
		req.Steps = append(req.Steps, dto.StepOrderRequest{StepId: step.StepId, OrderId: &next})
	}

	result, err := svc.ReorderSteps(ctx, nb.Id, &req)
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, req.Steps[2].StepId, result[0].StepId)

	stored, err := svc.ListSteps(ctx, nb.Id)
	require.NoError(t, err)
	for i := range stored {
		assert.Equal(t, result[i].StepId, stored[i].StepId)
		assert.Equal(t, result[i].OrderId, stored[i].OrderId)
	}
}

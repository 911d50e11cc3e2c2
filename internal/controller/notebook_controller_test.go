package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notebook-be/internal/dto"
	"notebook-be/internal/pkg/logger"
	"notebook-be/internal/pkg/serverutils"
	"notebook-be/internal/repository/cache"
	"notebook-be/internal/repository/memory"
	"notebook-be/internal/service"
	"notebook-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	log := logger.NewNopLogger()
	svc := service.NewNotebookService(
		memory.NewRepositoryFactory(memory.NewStore()),
		cache.NewMemoryNotebookCache(time.Minute),
		events.NopPublisher(),
		log,
	)

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler(log)})
	app.Use(serverutils.ErrorHandlerMiddleware(log))
	NewNotebookController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func doJSON[T any](t *testing.T, app *fiber.App, method, path string, body interface{}) (int, serverutils.Response[T]) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var env serverutils.Response[T]
	data, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(data, &env), string(data))
	return resp.StatusCode, env
}

func createViaAPI(t *testing.T, app *fiber.App, name string) dto.NotebookResponse {
	t.Helper()
	status, env := doJSON[dto.NotebookResponse](t, app, http.MethodPost, "/api/notebooks", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, status)
	return env.Data
}

func addStepViaAPI(t *testing.T, app *fiber.App, notebookId string, orderId int) (int, serverutils.Response[dto.NotebookStepResponse]) {
	t.Helper()
	return doJSON[dto.NotebookStepResponse](t, app, http.MethodPost,
		fmt.Sprintf("/api/notebooks/%s/steps", notebookId), map[string]int{"order_id": orderId})
}

func TestNotebookEndpoints(t *testing.T) {
	app := newTestApp(t)

	nb := createViaAPI(t, app, "N1")
	assert.Equal(t, "N1", nb.Name)
	assert.NotEmpty(t, nb.Id)

	status, shown := doJSON[dto.NotebookResponse](t, app, http.MethodGet, "/api/notebooks/"+nb.Id, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, shown.Success)
	assert.Equal(t, nb.Id, shown.Data.Id)

	status, all := doJSON[[]dto.NotebookResponse](t, app, http.MethodGet, "/api/notebooks", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, all.Data, 1)
}

func TestCreateNotebook_Rejected(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing name", map[string]string{}},
		{"blank name", map[string]string{"name": "   "}},
		{"malformed json", `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doJSON[any](t, app, http.MethodPost, "/api/notebooks", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestShowNotebook_NotFound(t *testing.T) {
	app := newTestApp(t)

	status, env := doJSON[any](t, app, http.MethodGet, "/api/notebooks/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, http.StatusNotFound, env.Code)
}

func TestStepEndpoints(t *testing.T) {
	app := newTestApp(t)
	nb := createViaAPI(t, app, "N1")

	status, a := addStepViaAPI(t, app, nb.Id, 1)
	require.Equal(t, http.StatusCreated, status)
	_, b := addStepViaAPI(t, app, nb.Id, 2)
	_, c := addStepViaAPI(t, app, nb.Id, 3)

	status, dup := addStepViaAPI(t, app, nb.Id, 1)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, dup.Message, "order_id 1")

	status, _ = addStepViaAPI(t, app, nb.Id, 101)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = addStepViaAPI(t, app, "missing", 4)
	assert.Equal(t, http.StatusNotFound, status)

	reorder := map[string]interface{}{
		"steps": []map[string]interface{}{
			{"step_id": a.Data.StepId, "order_id": 2},
			{"step_id": b.Data.StepId, "order_id": 3},
			{"step_id": c.Data.StepId, "order_id": 1},
		},
	}
	status, reordered := doJSON[[]dto.NotebookStepResponse](t, app, http.MethodPut,
		fmt.Sprintf("/api/notebooks/%s/steps/order", nb.Id), reorder)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, reordered.Data, 3)
	assert.Equal(t, c.Data.StepId, reordered.Data[0].StepId)

	status, listed := doJSON[[]dto.NotebookStepResponse](t, app, http.MethodGet,
		fmt.Sprintf("/api/notebooks/%s/steps", nb.Id), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []int{1, 2, 3}, []int{listed.Data[0].OrderId, listed.Data[1].OrderId, listed.Data[2].OrderId})
	assert.Equal(t, []int64{c.Data.StepId, a.Data.StepId, b.Data.StepId},
		[]int64{listed.Data[0].StepId, listed.Data[1].StepId, listed.Data[2].StepId})
}

func TestReorderSteps_Rejected(t *testing.T) {
	app := newTestApp(t)
	nb := createViaAPI(t, app, "N1")
	_, a := addStepViaAPI(t, app, nb.Id, 1)
	addStepViaAPI(t, app, nb.Id, 2)
	path := fmt.Sprintf("/api/notebooks/%s/steps/order", nb.Id)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "omits a step",
			body:       map[string]interface{}{"steps": []map[string]interface{}{{"step_id": a.Data.StepId, "order_id": 2}}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing order id",
			body:       map[string]interface{}{"steps": []map[string]interface{}{{"step_id": a.Data.StepId}}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing step id",
			body:       map[string]interface{}{"steps": []map[string]interface{}{{"order_id": 3}}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{"steps": [`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doJSON[any](t, app, http.MethodPut, path, tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, env.Success)
		})
	}

	status, _ := doJSON[any](t, app, http.MethodPut, "/api/notebooks/missing/steps/order",
		map[string]interface{}{"steps": []interface{}{}})
	assert.Equal(t, http.StatusNotFound, status)
}

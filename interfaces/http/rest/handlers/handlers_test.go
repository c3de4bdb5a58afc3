package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todo-api/domain/core/entities"
	"todo-api/pkg/auth"
	"todo-api/pkg/common"
	apperrors "todo-api/pkg/errors"
	"todo-api/tests/fixtures"
	"todo-api/tests/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTodoRouter(service TodoService) http.Handler {
	logger := zap.NewNop()
	h := NewTodoHandler(service, apperrors.NewErrorHandler(logger, false), common.NewResponder(logger), logger)

	r := chi.NewRouter()
	r.Get("/todos/{id}", h.GetTodo)
	r.Post("/todos", h.CreateTodo)
	r.Put("/todos/{id}", h.UpdateTodo)
	r.Patch("/todos/{id}", h.UpdateTodo)
	r.Delete("/todos/{id}", h.DeleteTodo)
	return r
}

func request(method, target, body, user string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != "" {
		req = req.WithContext(auth.SetUserInContext(req.Context(), &auth.UserContext{UserID: user}))
	}
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestTodoHandler_GetTodo(t *testing.T) {
	service := new(mocks.MockTodoService)
	todo := fixtures.NewTodoBuilder().WithID("todo-1").BuildPtr()
	service.On("GetTodo", mock.Anything, "todo-1").Return(todo, nil)
	rec := httptest.NewRecorder()

	newTodoRouter(service).ServeHTTP(rec, request(http.MethodGet, "/todos/todo-1", "", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "todo-1", body["id"])
	assert.Equal(t, todo.TaskDescription, body["taskDescription"])
}

func TestTodoHandler_GetTodo_Absent(t *testing.T) {
	service := new(mocks.MockTodoService)
	service.On("GetTodo", mock.Anything, "missing").Return(nil, nil)
	rec := httptest.NewRecorder()

	newTodoRouter(service).ServeHTTP(rec, request(http.MethodGet, "/todos/missing", "", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", rec.Body.String())
}

func TestTodoHandler_CreateTodo(t *testing.T) {
	service := new(mocks.MockTodoService)
	input := entities.CreateTodoInput{TaskDescription: "write docs", TaskOrder: 2, TaskPriority: "high"}
	created := fixtures.NewTodoBuilder().WithID("new").Build()
	service.On("CreateTodo", mock.Anything, input, "alice").Return(created, nil)
	rec := httptest.NewRecorder()

	newTodoRouter(service).ServeHTTP(rec, request(http.MethodPost, "/todos",
		`{"taskDescription":"write docs","taskOrder":2,"taskPriority":"high"}`, "alice"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new", decodeBody(t, rec)["id"])
	service.AssertExpectations(t)
}

func TestTodoHandler_CreateTodo_RequiresUser(t *testing.T) {
	service := new(mocks.MockTodoService)
	rec := httptest.NewRecorder()

	newTodoRouter(service).ServeHTTP(rec, request(http.MethodPost, "/todos", `{"taskDescription":"x"}`, ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	service.AssertNotCalled(t, "CreateTodo", mock.Anything, mock.Anything, mock.Anything)
}

func TestTodoHandler_BadBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"malformed", `{"taskDescription":`},
		{"wrong type", `{"taskOrder":"first"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(mocks.MockTodoService)
			rec := httptest.NewRecorder()

			newTodoRouter(service).ServeHTTP(rec, request(http.MethodPost, "/todos", tt.body, "alice"))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, "USER_ERROR", body["class"])
			assert.Equal(t, "api.controller.todo.createTodo", body["methodPath"])
		})
	}
}

func TestTodoHandler_BodyTooLarge(t *testing.T) {
	service := new(mocks.MockTodoService)
	huge := `{"taskDescription":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	rec := httptest.NewRecorder()

	newTodoRouter(service).ServeHTTP(rec, request(http.MethodPost, "/todos", huge, "alice"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BODY_TOO_LARGE", decodeBody(t, rec)["code"])
}

func TestTodoHandler_UpdateTodo_PutAndPatch(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			service := new(mocks.MockTodoService)
			patch := entities.MutateTodoInput{TaskStatus: fixtures.StringPtr("in_progress")}
			updated := fixtures.NewTodoBuilder().WithID("todo-1").WithStatus("in_progress").Build()
			service.On("UpdateTodo", mock.Anything, "todo-1", patch, "bob").Return(updated, nil)
			rec := httptest.NewRecorder()

			newTodoRouter(service).ServeHTTP(rec, request(method, "/todos/todo-1", `{"taskStatus":"in_progress"}`, "bob"))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "in_progress", decodeBody(t, rec)["taskStatus"])
			service.AssertExpectations(t)
		})
	}
}

func TestTodoHandler_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		class  string
	}{
		{"not found", apperrors.NewNotFoundError("item not found").WithMethodPath("adapters.todo.updateTodo"), http.StatusNotFound, "USER_ERROR"},
		{"validation", apperrors.NewValidationError("bad status").WithMethodPath("adapters.todo.updateTodo"), http.StatusBadRequest, "USER_ERROR"},
		{"internal", apperrors.Classify(errors.New("boom"), "adapters.todo.updateTodo", apperrors.ClassInternal), http.StatusInternalServerError, "INTERNAL"},
		{"unavailable", apperrors.NewUnavailableError("document store", errors.New("open")), http.StatusServiceUnavailable, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(mocks.MockTodoService)
			service.On("UpdateTodo", mock.Anything, "todo-1", mock.Anything, "bob").Return(entities.Todo{}, tt.err)
			rec := httptest.NewRecorder()

			newTodoRouter(service).ServeHTTP(rec, request(http.MethodPatch, "/todos/todo-1", `{"taskOrder":3}`, "bob"))

			require.Equal(t, tt.status, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.class, body["class"])
			assert.NotContains(t, rec.Body.String(), "boom")
		})
	}
}

func TestTodoHandler_DeleteTodo(t *testing.T) {
	service := new(mocks.MockTodoService)
	snapshot := fixtures.NewTodoBuilder().WithID("todo-1").Build()
	snapshot.UpdatedBy = "carol"
	service.On("DeleteTodo", mock.Anything, "todo-1", "carol").Return(snapshot, nil)
	rec := httptest.NewRecorder()

	newTodoRouter(service).ServeHTTP(rec, request(http.MethodDelete, "/todos/todo-1", "", "carol"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "carol", decodeBody(t, rec)["updatedBy"])
}

func TestIndexHandler_Ping(t *testing.T) {
	h := NewIndexHandler(common.NewResponder(zap.NewNop()), zap.NewNop())
	r := chi.NewRouter()
	r.HandleFunc("/ping", h.Ping)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, "/ping", nil))

		assert.Equal(t, http.StatusOK, rec.Code, method)
		assert.Equal(t, "pong", rec.Body.String(), method)
	}
}

func TestHealthHandler(t *testing.T) {
	store := new(mocks.MockHealthChecker)
	h := NewHealthHandler(store, common.NewResponder(zap.NewNop()), zap.NewNop(), "1.0.0")

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.0.0", decodeBody(t, rec)["version"])

	store.On("Ping", mock.Anything).Return(nil).Once()
	rec = httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	store.On("Ping", mock.Anything).Return(errors.New("table missing")).Once()
	rec = httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthHandler_NoStore(t *testing.T) {
	h := NewHealthHandler(nil, common.NewResponder(zap.NewNop()), zap.NewNop(), "dev")
	rec := httptest.NewRecorder()

	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil).WithContext(context.Background()))

	assert.Equal(t, http.StatusOK, rec.Code)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"todo-api/domain/core/entities"
	"todo-api/pkg/auth"
	"todo-api/pkg/common"
	apperrors "todo-api/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MaxBodyBytes caps JSON request bodies
const MaxBodyBytes = 50 << 20

// TodoService is the part of the todo adapter the HTTP layer drives
type TodoService interface {
	GetTodo(ctx context.Context, id string) (*entities.Todo, error)
	CreateTodo(ctx context.Context, input entities.CreateTodoInput, user string) (entities.Todo, error)
	UpdateTodo(ctx context.Context, id string, patch entities.MutateTodoInput, user string) (entities.Todo, error)
	DeleteTodo(ctx context.Context, id string, user string) (entities.Todo, error)
}

// TodoHandler handles todo HTTP requests
type TodoHandler struct {
	todos     TodoService
	errors    *apperrors.ErrorHandler
	responder *common.Responder
	logger    *zap.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(
	todos TodoService,
	errHandler *apperrors.ErrorHandler,
	responder *common.Responder,
	logger *zap.Logger,
) *TodoHandler {
	return &TodoHandler{
		todos:     todos,
		errors:    errHandler,
		responder: responder,
		logger:    logger,
	}
}

// GetTodo handles GET /todos/{id}. An absent id is a successful lookup with a null body.
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := h.todos.GetTodo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, todo)
}

// CreateTodo handles POST /todos
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	const methodPath = "api.controller.todo.createTodo"

	user, ok := h.actingUser(w, r, methodPath)
	if !ok {
		return
	}

	var input entities.CreateTodoInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.errors.Handle(w, r, apperrors.Classify(err, methodPath, apperrors.ClassUserError))
		return
	}

	todo, err := h.todos.CreateTodo(r.Context(), input, user)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, todo)
}

// UpdateTodo handles PUT and PATCH /todos/{id}
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	const methodPath = "api.controller.todo.updateTodo"

	user, ok := h.actingUser(w, r, methodPath)
	if !ok {
		return
	}

	var patch entities.MutateTodoInput
	if err := decodeJSON(w, r, &patch); err != nil {
		h.errors.Handle(w, r, apperrors.Classify(err, methodPath, apperrors.ClassUserError))
		return
	}

	todo, err := h.todos.UpdateTodo(r.Context(), chi.URLParam(r, "id"), patch, user)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, todo)
}

// DeleteTodo handles DELETE /todos/{id}
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actingUser(w, r, "api.controller.todo.deleteTodo")
	if !ok {
		return
	}

	todo, err := h.todos.DeleteTodo(r.Context(), chi.URLParam(r, "id"), user)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) actingUser(w http.ResponseWriter, r *http.Request, methodPath string) (string, bool) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok || user.UserID == "" {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("").WithMethodPath(methodPath))
		return "", false
	}
	return user.UserID, true
}

// decodeJSON reads a single JSON document of at most MaxBodyBytes into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperrors.NewValidationError("request body too large").WithCode("BODY_TOO_LARGE")
		case errors.Is(err, io.EOF):
			return apperrors.NewValidationError("request body is required")
		}
		return apperrors.NewValidationError("invalid request body").WithCause(err)
	}
	return nil
}

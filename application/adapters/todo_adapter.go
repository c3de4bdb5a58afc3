package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"todo-api/application/ports"
	"todo-api/domain/core/entities"
	apperrors "todo-api/pkg/errors"

	"go.uber.org/zap"
)

// Method paths tag errors, audit records and metrics with the operation they came from.
const (
	MethodGetTodo    = "adapters.todo.getTodo"
	MethodCreateTodo = "adapters.todo.createTodo"
	MethodUpdateTodo = "adapters.todo.updateTodo"
	MethodDeleteTodo = "adapters.todo.deleteTodo"
)

const (
	msgItemNotFound = "item not found"
	msgNoDataForID  = "no data for this id"
)

// TodoValidation is the validation seam the adapter depends on.
// Implementations return classified user errors; the adapter only reacts to success or failure.
type TodoValidation interface {
	ValidateCreateTodo(input entities.CreateTodoInput, user string) (entities.Todo, error)
	ValidateUpdateTodo(patch entities.MutateTodoInput, current entities.Todo, user string) (entities.Attributes, error)
	ValidateDeleteTodo(current entities.Todo, user string) (entities.Todo, error)
}

// TodoAdapter orchestrates read, validate, persist and audit for todos.
type TodoAdapter struct {
	store     ports.TodoStore
	validator TodoValidation
	audit     ports.AuditLogger
	metrics   ports.Metrics
	logger    *zap.Logger
}

// NewTodoAdapter creates a new todo adapter
func NewTodoAdapter(
	store ports.TodoStore,
	validator TodoValidation,
	audit ports.AuditLogger,
	metrics ports.Metrics,
	logger *zap.Logger,
) *TodoAdapter {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &TodoAdapter{
		store:     store,
		validator: validator,
		audit:     audit,
		metrics:   metrics,
		logger:    logger,
	}
}

// GetTodo returns the todo stored under id, or nil when there is none.
func (a *TodoAdapter) GetTodo(ctx context.Context, id string) (result *entities.Todo, err error) {
	defer a.observe(ctx, MethodGetTodo, time.Now(), &err)

	if strings.TrimSpace(id) == "" {
		return nil, a.fail(apperrors.NewValidationError("id is required"), MethodGetTodo, apperrors.ClassUserError)
	}

	todo, err := a.store.GetDocument(ctx, id)
	if err != nil {
		return nil, a.fail(err, MethodGetTodo, apperrors.ClassInternal)
	}
	return todo, nil
}

// CreateTodo validates input, stores the new record and returns it.
func (a *TodoAdapter) CreateTodo(ctx context.Context, input entities.CreateTodoInput, user string) (result entities.Todo, err error) {
	defer a.observe(ctx, MethodCreateTodo, time.Now(), &err)

	validated, err := a.validator.ValidateCreateTodo(input, user)
	if err != nil {
		return entities.Todo{}, a.fail(err, MethodCreateTodo, apperrors.ClassInternal)
	}

	stored, err := a.store.PutDocument(ctx, validated)
	if err != nil {
		return entities.Todo{}, a.fail(err, MethodCreateTodo, apperrors.ClassInternal)
	}

	a.audit.Info(ctx, MethodCreateTodo, ports.AuditEvent{
		Action: ports.ActionTaskCreated,
		Method: MethodCreateTodo,
		Data:   stored,
	})
	a.logger.Debug("Todo created", zap.String("id", stored.ID), zap.String("user", user))
	return stored, nil
}

// UpdateTodo applies patch to the todo stored under id and returns the merged record.
func (a *TodoAdapter) UpdateTodo(ctx context.Context, id string, patch entities.MutateTodoInput, user string) (result entities.Todo, err error) {
	defer a.observe(ctx, MethodUpdateTodo, time.Now(), &err)

	current, err := a.store.GetDocument(ctx, id)
	if err != nil {
		return entities.Todo{}, a.fail(err, MethodUpdateTodo, apperrors.ClassInternal)
	}
	if current == nil {
		return entities.Todo{}, a.fail(apperrors.NewNotFoundError(msgItemNotFound), MethodUpdateTodo, apperrors.ClassUserError)
	}

	attrs, err := a.validator.ValidateUpdateTodo(patch, *current, user)
	if err != nil {
		return entities.Todo{}, a.fail(err, MethodUpdateTodo, apperrors.ClassInternal)
	}

	updated, err := a.store.UpdateDocument(ctx, id, attrs)
	if err != nil {
		if errors.Is(err, ports.ErrDocumentNotFound) {
			// deleted between the read and the write
			return entities.Todo{}, a.fail(apperrors.NewNotFoundError(msgItemNotFound).WithCause(err), MethodUpdateTodo, apperrors.ClassUserError)
		}
		return entities.Todo{}, a.fail(err, MethodUpdateTodo, apperrors.ClassInternal)
	}

	merged, err := entities.Merge(*current, updated)
	if err != nil {
		return entities.Todo{}, a.fail(err, MethodUpdateTodo, apperrors.ClassInternal)
	}

	a.audit.Info(ctx, MethodUpdateTodo, ports.AuditEvent{
		Action: ports.ActionTaskUpdated,
		Method: MethodUpdateTodo,
		Data:   merged,
	})
	a.logger.Debug("Todo updated", zap.String("id", id), zap.String("user", user))
	return merged, nil
}

// DeleteTodo removes the todo stored under id and returns its delete-time snapshot.
func (a *TodoAdapter) DeleteTodo(ctx context.Context, id string, user string) (result entities.Todo, err error) {
	defer a.observe(ctx, MethodDeleteTodo, time.Now(), &err)

	current, err := a.store.GetDocument(ctx, id)
	if err != nil {
		return entities.Todo{}, a.fail(err, MethodDeleteTodo, apperrors.ClassInternal)
	}
	if current == nil {
		return entities.Todo{}, a.fail(apperrors.NewNotFoundError(msgNoDataForID), MethodDeleteTodo, apperrors.ClassUserError)
	}

	snapshot, err := a.validator.ValidateDeleteTodo(*current, user)
	if err != nil {
		return entities.Todo{}, a.fail(err, MethodDeleteTodo, apperrors.ClassInternal)
	}

	previous, err := a.store.DeleteDocument(ctx, id)
	if err != nil {
		return entities.Todo{}, a.fail(err, MethodDeleteTodo, apperrors.ClassInternal)
	}
	if previous == nil {
		// another request removed it first
		return entities.Todo{}, a.fail(apperrors.NewNotFoundError(msgNoDataForID), MethodDeleteTodo, apperrors.ClassUserError)
	}

	a.audit.Info(ctx, MethodDeleteTodo, ports.AuditEvent{
		Action: ports.ActionTaskDeleted,
		Method: MethodDeleteTodo,
		Data:   snapshot,
	})
	a.logger.Debug("Todo deleted", zap.String("id", id), zap.String("user", user))
	return snapshot, nil
}

// fail classifies err at the adapter boundary and logs it.
func (a *TodoAdapter) fail(err error, methodPath string, class apperrors.ErrorClass) error {
	appErr := apperrors.Classify(err, methodPath, class)
	if appErr.Class == apperrors.ClassInternal {
		a.logger.Error("Adapter operation failed",
			zap.String("method", methodPath),
			zap.String("type", string(appErr.Type)),
			zap.Error(err),
		)
	} else {
		a.logger.Debug("Adapter operation rejected",
			zap.String("method", methodPath),
			zap.String("type", string(appErr.Type)),
			zap.String("message", appErr.Message),
		)
	}
	return appErr
}

func (a *TodoAdapter) observe(ctx context.Context, methodPath string, start time.Time, err *error) {
	a.metrics.RecordOperation(ctx, methodPath, time.Since(start), *err)
}

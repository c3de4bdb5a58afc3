package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"todo-api/application/ports"
	"todo-api/domain/core/entities"
	"todo-api/domain/core/validators"
	"todo-api/domain/core/valueobjects"
	apperrors "todo-api/pkg/errors"
	"todo-api/tests/fixtures"
	"todo-api/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	createdAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clockNow  = createdAt.Add(5 * time.Minute)
)

type adapterFixture struct {
	store   *mocks.MockTodoStore
	audit   *mocks.MockAuditLogger
	adapter *TodoAdapter
}

func newAdapterFixture() *adapterFixture {
	store := new(mocks.MockTodoStore)
	audit := new(mocks.MockAuditLogger)
	validator := validators.NewTodoValidator(
		validators.WithClock(fixtures.FixedClock(clockNow)),
		validators.WithIDGenerator(func() string { return "3f1c2b8a-1d7e-4c55-9a0e-6b2d4f8e9c10" }),
	)
	return &adapterFixture{
		store:   store,
		audit:   audit,
		adapter: NewTodoAdapter(store, validator, audit, nil, zap.NewNop()),
	}
}

func (f *adapterFixture) assertExpectations(t *testing.T) {
	f.store.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func auditEvent(action ports.AuditAction) interface{} {
	return mock.MatchedBy(func(e ports.AuditEvent) bool { return e.Action == action })
}

func TestNewTodoAdapter(t *testing.T) {
	adapter := NewTodoAdapter(new(mocks.MockTodoStore), validators.NewTodoValidator(), new(mocks.MockAuditLogger), nil, zap.NewNop())

	assert.NotNil(t, adapter)
	assert.NotNil(t, adapter.metrics)
	assert.NotNil(t, New(adapter).Todo)
}

func TestTodoAdapter_GetTodo_Found(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newAdapterFixture()
	stored := fixtures.NewTodoBuilder().WithID("todo-1").BuildPtr()
	f.store.On("GetDocument", ctx, "todo-1").Return(stored, nil)

	// Act
	first, err := f.adapter.GetTodo(ctx, "todo-1")
	require.NoError(t, err)
	second, err := f.adapter.GetTodo(ctx, "todo-1")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, stored, first)
	assert.Equal(t, first, second)
	f.assertExpectations(t)
}

func TestTodoAdapter_GetTodo_AbsentIsNotAnError(t *testing.T) {
	ctx := context.Background()
	f := newAdapterFixture()
	f.store.On("GetDocument", ctx, "missing-1").Return(nil, nil)

	todo, err := f.adapter.GetTodo(ctx, "missing-1")

	assert.NoError(t, err)
	assert.Nil(t, todo)
	f.assertExpectations(t)
}

func TestTodoAdapter_GetTodo_StoreFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	f := newAdapterFixture()
	f.store.On("GetDocument", ctx, "todo-1").Return(nil, errors.New("connection reset"))

	_, err := f.adapter.GetTodo(ctx, "todo-1")

	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ClassInternal, appErr.Class)
	assert.Equal(t, MethodGetTodo, appErr.MethodPath)
	assert.NotContains(t, appErr.Message, "connection reset")
}

func TestTodoAdapter_GetTodo_EmptyID(t *testing.T) {
	f := newAdapterFixture()

	_, err := f.adapter.GetTodo(context.Background(), " ")

	assert.True(t, apperrors.IsUserError(err))
	f.store.AssertNotCalled(t, "GetDocument", mock.Anything, mock.Anything)
}

func TestTodoAdapter_CreateTodo_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newAdapterFixture()
	input := entities.CreateTodoInput{
		TaskDescription: "write docs",
		TaskOrder:       1,
		TaskStatus:      "pending",
		TaskPriority:    "high",
	}
	var written entities.Todo
	f.store.On("PutDocument", ctx, mock.AnythingOfType("entities.Todo")).
		Run(func(args mock.Arguments) { written = args.Get(1).(entities.Todo) }).
		Return(entities.Todo{
			ID:              "3f1c2b8a-1d7e-4c55-9a0e-6b2d4f8e9c10",
			TaskOrder:       1,
			TaskDescription: "write docs",
			TaskStatus:      valueobjects.StatusPending,
			TaskPriority:    valueobjects.PriorityHigh,
			CreatedAt:       clockNow,
			UpdatedAt:       clockNow,
			CreatedBy:       "alice",
			UpdatedBy:       "alice",
		}, nil)
	f.audit.On("Info", ctx, MethodCreateTodo, auditEvent(ports.ActionTaskCreated)).Return()

	// Act
	todo, err := f.adapter.CreateTodo(ctx, input, "alice")

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, "write docs", todo.TaskDescription)
	assert.Equal(t, todo.CreatedAt, todo.UpdatedAt)
	assert.Equal(t, "alice", written.CreatedBy)
	assert.Equal(t, written.ID, todo.ID)
	f.assertExpectations(t)
}

func TestTodoAdapter_CreateTodo_ValidationFailureIsUserError(t *testing.T) {
	ctx := context.Background()
	f := newAdapterFixture()

	_, err := f.adapter.CreateTodo(ctx, entities.CreateTodoInput{TaskOrder: 1}, "alice")

	require.Error(t, err)
	assert.True(t, apperrors.IsUserError(err))
	assert.Equal(t, "validators.todo.validateCreateTodo", apperrors.GetAppError(err).MethodPath)
	f.store.AssertNotCalled(t, "PutDocument", mock.Anything, mock.Anything)
	f.audit.AssertNotCalled(t, "Info", mock.Anything, mock.Anything, mock.Anything)
}

// faultyValidation fails every call with err
type faultyValidation struct{ err error }

func (v faultyValidation) ValidateCreateTodo(entities.CreateTodoInput, string) (entities.Todo, error) {
	return entities.Todo{}, v.err
}

func (v faultyValidation) ValidateUpdateTodo(entities.MutateTodoInput, entities.Todo, string) (entities.Attributes, error) {
	return nil, v.err
}

func (v faultyValidation) ValidateDeleteTodo(entities.Todo, string) (entities.Todo, error) {
	return entities.Todo{}, v.err
}

func TestTodoAdapter_CreateTodo_ValidationFailureClasses(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		internal bool
	}{
		{"classified user error keeps its class", apperrors.NewValidationError("taskDescription is required"), false},
		{"unclassified error is internal", errors.New("schema cache unavailable"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mocks.MockTodoStore)
			audit := new(mocks.MockAuditLogger)
			adapter := NewTodoAdapter(store, faultyValidation{err: tt.err}, audit, nil, zap.NewNop())

			_, err := adapter.CreateTodo(context.Background(), entities.CreateTodoInput{TaskDescription: "x"}, "alice")

			require.Error(t, err)
			appErr := apperrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.internal, apperrors.IsInternal(err))
			assert.Equal(t, MethodCreateTodo, appErr.MethodPath)
			if tt.internal {
				assert.NotContains(t, appErr.Message, "schema cache")
			}
			store.AssertNotCalled(t, "PutDocument", mock.Anything, mock.Anything)
		})
	}
}

func TestTodoAdapter_CreateTodo_StoreFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	f := newAdapterFixture()
	f.store.On("PutDocument", ctx, mock.AnythingOfType("entities.Todo")).
		Return(entities.Todo{}, errors.New("throughput exceeded"))

	_, err := f.adapter.CreateTodo(ctx, entities.CreateTodoInput{TaskDescription: "write docs"}, "alice")

	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))
	assert.Equal(t, MethodCreateTodo, apperrors.GetAppError(err).MethodPath)
	f.audit.AssertNotCalled(t, "Info", mock.Anything, mock.Anything, mock.Anything)
}

func TestTodoAdapter_UpdateTodo_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newAdapterFixture()
	current := fixtures.NewTodoBuilder().WithID("todo-1").WithUpdatedAt(createdAt).Build()
	f.store.On("GetDocument", ctx, "todo-1").Return(&current, nil)
	f.store.On("UpdateDocument", ctx, "todo-1", mock.AnythingOfType("entities.Attributes")).
		Return(entities.Attributes{
			entities.AttrTaskStatus:   "done",
			entities.AttrUpdatedAt:    clockNow.Format(time.RFC3339Nano),
			entities.AttrTaskOrder:    float64(current.TaskOrder),
			entities.AttrTaskPriority: string(current.TaskPriority),
		}, nil)
	f.audit.On("Info", ctx, MethodUpdateTodo, auditEvent(ports.ActionTaskUpdated)).Return()

	// Act
	todo, err := f.adapter.UpdateTodo(ctx, "todo-1", entities.MutateTodoInput{TaskStatus: fixtures.StringPtr("done")}, "alice")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, valueobjects.StatusDone, todo.TaskStatus)
	assert.Equal(t, current.TaskDescription, todo.TaskDescription, "missing from the store response, kept from the fetched record")
	assert.Equal(t, current.ID, todo.ID)
	assert.True(t, todo.CreatedAt.Equal(current.CreatedAt))
	assert.True(t, todo.UpdatedAt.After(current.UpdatedAt))
	f.assertExpectations(t)
}

func TestTodoAdapter_UpdateTodo_WritesOnlyMutableFields(t *testing.T) {
	ctx := context.Background()
	f := newAdapterFixture()
	current := fixtures.NewTodoBuilder().WithID("todo-1").Build()
	var written entities.Attributes
	f.store.On("GetDocument", ctx, "todo-1").Return(&current, nil)
	f.store.On("UpdateDocument", ctx, "todo-1", mock.AnythingOfType("entities.Attributes")).
		Run(func(args mock.Arguments) { written = args.Get(2).(entities.Attributes) }).
		Return(entities.Attributes{}, nil)
	f.audit.On("Info", ctx, MethodUpdateTodo, mock.Anything).Return()

	_, err := f.adapter.UpdateTodo(ctx, "todo-1", entities.MutateTodoInput{TaskOrder: fixtures.IntPtr(4)}, "alice")

	require.NoError(t, err)
	keys := make([]string, 0, len(written))
	for k := range written {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{
		entities.AttrTaskOrder,
		entities.AttrTaskDescription,
		entities.AttrTaskStatus,
		entities.AttrTaskPriority,
		entities.AttrUpdatedAt,
	}, keys)
}

func TestTodoAdapter_UpdateTodo_MissingIsUserErrorWithoutMutation(t *testing.T) {
	ctx := context.Background()
	f := newAdapterFixture()
	f.store.On("GetDocument", ctx, "missing-1").Return(nil, nil)

	_, err := f.adapter.UpdateTodo(ctx, "missing-1", entities.MutateTodoInput{TaskStatus: fixtures.StringPtr("done")}, "alice")

	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ClassUserError, appErr.Class)
	assert.Equal(t, "item not found", appErr.Message)
	assert.Equal(t, MethodUpdateTodo, appErr.MethodPath)
	f.store.AssertNotCalled(t, "UpdateDocument", mock.Anything, mock.Anything, mock.Anything)
	f.audit.AssertNotCalled(t, "Info", mock.Anything, mock.Anything, mock.Anything)
}

func TestTodoAdapter_UpdateTodo_ValidationFailureKeepsUserClass(t *testing.T) {
	ctx := context.Background()
	f := newAdapterFixture()
	done := fixtures.NewTodoBuilder().WithID("todo-1").WithStatus(valueobjects.StatusDone).Build()
	f.store.On("GetDocument", ctx, "todo-1").Return(&done, nil)

	_, err := f.adapter.UpdateTodo(ctx, "todo-1", entities.MutateTodoInput{TaskStatus: fixtures.StringPtr("pending")}, "alice")

	assert.True(t, apperrors.IsUserError(err))
	f.store.AssertNotCalled(t, "UpdateDocument", mock.Anything, mock.Anything, mock.Anything)
}

func TestTodoAdapter_UpdateTodo_ConcurrentDeleteIsUserError(t *testing.T) {
	ctx := context.Background()
	f := newAdapterFixture()
	current := fixtures.NewTodoBuilder().WithID("todo-1").Build()
	f.store.On("GetDocument", ctx, "todo-1").Return(&current, nil)
	f.store.On("UpdateDocument", ctx, "todo-1", mock.Anything).
		Return(nil, ports.ErrDocumentNotFound)

	_, err := f.adapter.UpdateTodo(ctx, "todo-1", entities.MutateTodoInput{TaskOrder: fixtures.IntPtr(2)}, "alice")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "item not found", apperrors.GetAppError(err).Message)
}

func TestTodoAdapter_UpdateTodo_StoreFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	f := newAdapterFixture()
	current := fixtures.NewTodoBuilder().WithID("todo-1").Build()
	f.store.On("GetDocument", ctx, "todo-1").Return(&current, nil)
	f.store.On("UpdateDocument", ctx, "todo-1", mock.Anything).
		Return(nil, errors.New("provisioned throughput exceeded"))

	_, err := f.adapter.UpdateTodo(ctx, "todo-1", entities.MutateTodoInput{TaskOrder: fixtures.IntPtr(2)}, "alice")

	assert.True(t, apperrors.IsInternal(err))
	assert.Equal(t, MethodUpdateTodo, apperrors.GetAppError(err).MethodPath)
	f.audit.AssertNotCalled(t, "Info", mock.Anything, mock.Anything, mock.Anything)
}

func TestTodoAdapter_DeleteTodo_ReturnsValidatedSnapshot(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newAdapterFixture()
	current := fixtures.NewTodoBuilder().WithID("todo-1").Build()
	f.store.On("GetDocument", ctx, "todo-1").Return(&current, nil)
	f.store.On("DeleteDocument", ctx, "todo-1").Return(&current, nil)
	f.audit.On("Info", ctx, MethodDeleteTodo, mock.MatchedBy(func(e ports.AuditEvent) bool {
		snapshot, ok := e.Data.(entities.Todo)
		return ok && e.Action == ports.ActionTaskDeleted && snapshot.ID == "todo-1"
	})).Return()

	// Act
	snapshot, err := f.adapter.DeleteTodo(ctx, "todo-1", "bob")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "todo-1", snapshot.ID)
	assert.Equal(t, current.TaskDescription, snapshot.TaskDescription)
	assert.Equal(t, "bob", snapshot.UpdatedBy)
	assert.Equal(t, clockNow, snapshot.UpdatedAt)
	f.assertExpectations(t)
}

func TestTodoAdapter_DeleteTodo_MissingIsUserError(t *testing.T) {
	ctx := context.Background()
	f := newAdapterFixture()
	f.store.On("GetDocument", ctx, "missing-1").Return(nil, nil)

	_, err := f.adapter.DeleteTodo(ctx, "missing-1", "alice")

	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ClassUserError, appErr.Class)
	assert.Equal(t, "no data for this id", appErr.Message)
	f.store.AssertNotCalled(t, "DeleteDocument", mock.Anything, mock.Anything)
}

func TestTodoAdapter_DeleteTodo_InProgressRejected(t *testing.T) {
	ctx := context.Background()
	f := newAdapterFixture()
	current := fixtures.NewTodoBuilder().WithID("todo-1").WithStatus(valueobjects.StatusInProgress).Build()
	f.store.On("GetDocument", ctx, "todo-1").Return(&current, nil)

	_, err := f.adapter.DeleteTodo(ctx, "todo-1", "alice")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePrecondition))
	f.store.AssertNotCalled(t, "DeleteDocument", mock.Anything, mock.Anything)
}

func TestTodoAdapter_DeleteTodo_StoreFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	f := newAdapterFixture()
	current := fixtures.NewTodoBuilder().WithID("todo-1").Build()
	f.store.On("GetDocument", ctx, "todo-1").Return(&current, nil)
	f.store.On("DeleteDocument", ctx, "todo-1").Return(nil, errors.New("timeout"))

	_, err := f.adapter.DeleteTodo(ctx, "todo-1", "alice")

	assert.True(t, apperrors.IsInternal(err))
	assert.Equal(t, MethodDeleteTodo, apperrors.GetAppError(err).MethodPath)
}

func TestTodoAdapter_RecordsMetrics(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.MockTodoStore)
	metrics := new(mocks.MockMetrics)
	adapter := NewTodoAdapter(store, validators.NewTodoValidator(), new(mocks.MockAuditLogger), metrics, zap.NewNop())
	storeErr := errors.New("boom")
	store.On("GetDocument", ctx, "todo-1").Return(nil, storeErr)
	metrics.On("RecordOperation", ctx, MethodGetTodo, mock.AnythingOfType("time.Duration"), mock.MatchedBy(func(err error) bool {
		return errors.Is(err, storeErr)
	})).Return()

	_, _ = adapter.GetTodo(ctx, "todo-1")

	metrics.AssertExpectations(t)
}

package mocks

import (
	"context"
	"time"

	"todo-api/application/ports"
	"todo-api/domain/core/entities"

	"github.com/stretchr/testify/mock"
)

// MockTodoStore is a testify mock of ports.TodoStore
type MockTodoStore struct {
	mock.Mock
}

var _ ports.TodoStore = (*MockTodoStore)(nil)

func (m *MockTodoStore) GetDocument(ctx context.Context, id string) (*entities.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Todo), args.Error(1)
}

func (m *MockTodoStore) PutDocument(ctx context.Context, doc entities.Todo) (entities.Todo, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(entities.Todo), args.Error(1)
}

func (m *MockTodoStore) UpdateDocument(ctx context.Context, id string, attrs entities.Attributes) (entities.Attributes, error) {
	args := m.Called(ctx, id, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entities.Attributes), args.Error(1)
}

func (m *MockTodoStore) DeleteDocument(ctx context.Context, id string) (*entities.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Todo), args.Error(1)
}

// MockAuditLogger is a testify mock of ports.AuditLogger
type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) Info(ctx context.Context, methodPath string, event ports.AuditEvent) {
	m.Called(ctx, methodPath, event)
}

// MockAuditPublisher is a testify mock of ports.AuditPublisher
type MockAuditPublisher struct {
	mock.Mock
}

func (m *MockAuditPublisher) Publish(ctx context.Context, events []ports.AuditEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockMetrics is a testify mock of ports.Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordOperation(ctx context.Context, operation string, duration time.Duration, err error) {
	m.Called(ctx, operation, duration, err)
}

// MockTodoService mocks the adapter as seen by the HTTP handlers
type MockTodoService struct {
	mock.Mock
}

func (m *MockTodoService) GetTodo(ctx context.Context, id string) (*entities.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Todo), args.Error(1)
}

func (m *MockTodoService) CreateTodo(ctx context.Context, input entities.CreateTodoInput, user string) (entities.Todo, error) {
	args := m.Called(ctx, input, user)
	return args.Get(0).(entities.Todo), args.Error(1)
}

func (m *MockTodoService) UpdateTodo(ctx context.Context, id string, patch entities.MutateTodoInput, user string) (entities.Todo, error) {
	args := m.Called(ctx, id, patch, user)
	return args.Get(0).(entities.Todo), args.Error(1)
}

func (m *MockTodoService) DeleteTodo(ctx context.Context, id string, user string) (entities.Todo, error) {
	args := m.Called(ctx, id, user)
	return args.Get(0).(entities.Todo), args.Error(1)
}

// MockHealthChecker mocks a store readiness probe
type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

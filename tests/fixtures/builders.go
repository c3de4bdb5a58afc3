package fixtures

import (
	"time"

	"todo-api/domain/core/entities"
	"todo-api/domain/core/valueobjects"

	"github.com/google/uuid"
)

// TodoBuilder helps create test todos with default values
type TodoBuilder struct {
	todo entities.Todo
}

func NewTodoBuilder() *TodoBuilder {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &TodoBuilder{todo: entities.Todo{
		ID:              uuid.New().String(),
		TaskOrder:       1,
		TaskDescription: "write docs",
		TaskStatus:      valueobjects.StatusPending,
		TaskPriority:    valueobjects.PriorityHigh,
		CreatedAt:       created,
		UpdatedAt:       created,
		CreatedBy:       "alice",
		UpdatedBy:       "alice",
	}}
}

func (b *TodoBuilder) WithID(id string) *TodoBuilder {
	b.todo.ID = id
	return b
}

func (b *TodoBuilder) WithDescription(description string) *TodoBuilder {
	b.todo.TaskDescription = description
	return b
}

func (b *TodoBuilder) WithStatus(status valueobjects.TaskStatus) *TodoBuilder {
	b.todo.TaskStatus = status
	return b
}

func (b *TodoBuilder) WithPriority(priority valueobjects.TaskPriority) *TodoBuilder {
	b.todo.TaskPriority = priority
	return b
}

func (b *TodoBuilder) WithUpdatedAt(at time.Time) *TodoBuilder {
	b.todo.UpdatedAt = at
	return b
}

func (b *TodoBuilder) Build() entities.Todo {
	return b.todo
}

// BuildPtr returns a pointer to a copy, the shape a store returns from a read
func (b *TodoBuilder) BuildPtr() *entities.Todo {
	t := b.todo
	return &t
}

// FixedClock returns a clock that always reports at
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to i
func IntPtr(i int) *int { return &i }

package validators

import (
	"strings"
	"time"

	"todo-api/domain/core/entities"
	"todo-api/domain/core/valueobjects"
	"todo-api/pkg/errors"
	"todo-api/pkg/utils"

	"github.com/google/uuid"
)

const (
	methodValidateCreate = "validators.todo.validateCreateTodo"
	methodValidateUpdate = "validators.todo.validateUpdateTodo"
	methodValidateDelete = "validators.todo.validateDeleteTodo"
)

// TodoValidator turns raw todo input into records and patches that are safe to persist.
// It holds no mutable state and is safe for concurrent use.
type TodoValidator struct {
	now   utils.Clock
	newID func() string
}

// Option configures a TodoValidator
type Option func(*TodoValidator)

// WithClock replaces the time source
func WithClock(clock utils.Clock) Option {
	return func(v *TodoValidator) {
		v.now = clock
	}
}

// WithIDGenerator replaces the id source
func WithIDGenerator(newID func() string) Option {
	return func(v *TodoValidator) {
		v.newID = newID
	}
}

// NewTodoValidator creates a validator using random UUIDs and the system clock
func NewTodoValidator(opts ...Option) *TodoValidator {
	v := &TodoValidator{
		now:   utils.SystemClock,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateCreateTodo builds a new record from input, attributed to user.
func (v *TodoValidator) ValidateCreateTodo(input entities.CreateTodoInput, user string) (entities.Todo, error) {
	validationErrors := errors.NewValidationErrors()
	validateUser(user, validationErrors)

	input.TaskDescription = strings.TrimSpace(input.TaskDescription)
	utils.ValidateStruct(input, validationErrors)

	status := valueobjects.StatusPending
	if input.TaskStatus != "" {
		status = valueobjects.TaskStatus(input.TaskStatus)
		if !status.IsValid() {
			validationErrors.Addf(entities.AttrTaskStatus, "taskStatus must be one of: %s", statusList())
		}
	}

	priority := valueobjects.PriorityMedium
	if input.TaskPriority != "" {
		priority = valueobjects.TaskPriority(input.TaskPriority)
		if !priority.IsValid() {
			validationErrors.Addf(entities.AttrTaskPriority, "taskPriority must be one of: %s", priorityList())
		}
	}

	if appErr := validationErrors.AsAppError(); appErr != nil {
		return entities.Todo{}, appErr.WithMethodPath(methodValidateCreate)
	}

	now := v.now()
	return entities.Todo{
		ID:              v.newID(),
		TaskOrder:       input.TaskOrder,
		TaskDescription: input.TaskDescription,
		TaskStatus:      status,
		TaskPriority:    priority,
		CreatedAt:       now,
		UpdatedAt:       now,
		CreatedBy:       user,
		UpdatedBy:       user,
	}, nil
}

// ValidateUpdateTodo merges the permitted fields of patch onto current and returns
// the full attribute set to write: the four mutable task fields and updatedAt.
// user is checked but not written; updatedBy is only set at creation and deletion.
func (v *TodoValidator) ValidateUpdateTodo(patch entities.MutateTodoInput, current entities.Todo, user string) (entities.Attributes, error) {
	validationErrors := errors.NewValidationErrors()
	validateUser(user, validationErrors)

	if patch.IsEmpty() {
		validationErrors.Add("general", "at least one of taskOrder, taskDescription, taskStatus, taskPriority is required")
	}

	if patch.TaskDescription != nil {
		trimmed := strings.TrimSpace(*patch.TaskDescription)
		patch.TaskDescription = &trimmed
		if trimmed == "" {
			validationErrors.Add(entities.AttrTaskDescription, "taskDescription cannot be empty")
		}
	}
	utils.ValidateStruct(patch, validationErrors)

	next := current
	if patch.TaskOrder != nil {
		next.TaskOrder = *patch.TaskOrder
	}
	if patch.TaskDescription != nil {
		next.TaskDescription = *patch.TaskDescription
	}
	if patch.TaskStatus != nil {
		next.TaskStatus = valueobjects.TaskStatus(*patch.TaskStatus)
		switch {
		case !next.TaskStatus.IsValid():
			validationErrors.Addf(entities.AttrTaskStatus, "taskStatus must be one of: %s", statusList())
		case !current.TaskStatus.CanTransitionTo(next.TaskStatus):
			validationErrors.Addf(entities.AttrTaskStatus, "cannot move a task from %s to %s", current.TaskStatus, next.TaskStatus)
		}
	}
	if patch.TaskPriority != nil {
		next.TaskPriority = valueobjects.TaskPriority(*patch.TaskPriority)
		if !next.TaskPriority.IsValid() {
			validationErrors.Addf(entities.AttrTaskPriority, "taskPriority must be one of: %s", priorityList())
		}
	}

	if appErr := validationErrors.AsAppError(); appErr != nil {
		return nil, appErr.WithMethodPath(methodValidateUpdate)
	}

	return entities.Attributes{
		entities.AttrTaskOrder:       next.TaskOrder,
		entities.AttrTaskDescription: next.TaskDescription,
		entities.AttrTaskStatus:      string(next.TaskStatus),
		entities.AttrTaskPriority:    string(next.TaskPriority),
		entities.AttrUpdatedAt:       v.advance(current.UpdatedAt),
	}, nil
}

// ValidateDeleteTodo checks that current may be deleted by user and returns the
// delete-time view of the record.
func (v *TodoValidator) ValidateDeleteTodo(current entities.Todo, user string) (entities.Todo, error) {
	validationErrors := errors.NewValidationErrors()
	validateUser(user, validationErrors)
	if appErr := validationErrors.AsAppError(); appErr != nil {
		return entities.Todo{}, appErr.WithMethodPath(methodValidateDelete)
	}

	if current.TaskStatus == valueobjects.StatusInProgress {
		return entities.Todo{}, errors.NewPreconditionError("a task in progress cannot be deleted").
			WithCode("TASK_IN_PROGRESS").
			WithDetail(entities.AttrID, current.ID).
			WithMethodPath(methodValidateDelete)
	}

	snapshot := current
	snapshot.UpdatedAt = v.advance(current.UpdatedAt)
	snapshot.UpdatedBy = user
	return snapshot, nil
}

// advance returns the current time, bumped past previous when the clock has not moved.
func (v *TodoValidator) advance(previous time.Time) time.Time {
	now := v.now()
	if !now.After(previous) {
		now = previous.Add(time.Millisecond)
	}
	return now
}

func validateUser(user string, validationErrors *errors.ValidationErrors) {
	if strings.TrimSpace(user) == "" {
		validationErrors.Add("user", "acting user is required")
	}
}

func statusList() string {
	names := make([]string, 0, len(valueobjects.ValidStatuses()))
	for _, s := range valueobjects.ValidStatuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func priorityList() string {
	names := make([]string, 0, len(valueobjects.ValidPriorities()))
	for _, p := range valueobjects.ValidPriorities() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

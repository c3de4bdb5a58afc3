package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"todo-api/domain/core/valueobjects"
)

// Attribute names as stored in the document store and rendered over HTTP.
const (
	AttrID              = "id"
	AttrTaskOrder       = "taskOrder"
	AttrTaskDescription = "taskDescription"
	AttrTaskStatus      = "taskStatus"
	AttrTaskPriority    = "taskPriority"
	AttrCreatedAt       = "createdAt"
	AttrUpdatedAt       = "updatedAt"
	AttrCreatedBy       = "createdBy"
	AttrUpdatedBy       = "updatedBy"
)

// Todo is the persisted task record. ID and CreatedAt never change after creation.
type Todo struct {
	ID              string                    `json:"id" dynamodbav:"id"`
	TaskOrder       int                       `json:"taskOrder" dynamodbav:"taskOrder"`
	TaskDescription string                    `json:"taskDescription" dynamodbav:"taskDescription"`
	TaskStatus      valueobjects.TaskStatus   `json:"taskStatus" dynamodbav:"taskStatus"`
	TaskPriority    valueobjects.TaskPriority `json:"taskPriority" dynamodbav:"taskPriority"`
	CreatedAt       time.Time                 `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt" dynamodbav:"updatedAt"`
	CreatedBy       string                    `json:"createdBy" dynamodbav:"createdBy"`
	UpdatedBy       string                    `json:"updatedBy,omitempty" dynamodbav:"updatedBy,omitempty"`
}

// CreateTodoInput is the payload accepted when creating a todo
type CreateTodoInput struct {
	TaskOrder       int    `json:"taskOrder" validate:"gte=0"`
	TaskDescription string `json:"taskDescription" validate:"required,max=1000"`
	TaskStatus      string `json:"taskStatus,omitempty"`
	TaskPriority    string `json:"taskPriority,omitempty"`
}

// MutateTodoInput is a partial update; nil fields keep their current value
type MutateTodoInput struct {
	TaskOrder       *int    `json:"taskOrder,omitempty" validate:"omitempty,gte=0"`
	TaskDescription *string `json:"taskDescription,omitempty" validate:"omitempty,max=1000"`
	TaskStatus      *string `json:"taskStatus,omitempty"`
	TaskPriority    *string `json:"taskPriority,omitempty"`
}

// IsEmpty reports whether the patch touches no field
func (in MutateTodoInput) IsEmpty() bool {
	return in.TaskOrder == nil && in.TaskDescription == nil && in.TaskStatus == nil && in.TaskPriority == nil
}

// Attributes is a named set of document attributes, keyed by attribute name.
type Attributes map[string]interface{}

// Merge overlays attrs onto base and returns the result; base is not modified.
// Attributes not present in attrs keep base's value, so a store that returns only
// the changed attributes of an update still yields a complete record.
func Merge(base Todo, attrs Attributes) (Todo, error) {
	if len(attrs) == 0 {
		return base, nil
	}

	raw, err := json.Marshal(base)
	if err != nil {
		return Todo{}, fmt.Errorf("failed to marshal todo: %w", err)
	}

	doc := make(map[string]interface{})
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Todo{}, fmt.Errorf("failed to decode todo: %w", err)
	}

	for name, value := range attrs {
		doc[name] = value
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return Todo{}, fmt.Errorf("failed to marshal merged todo: %w", err)
	}

	var result Todo
	if err := json.Unmarshal(merged, &result); err != nil {
		return Todo{}, fmt.Errorf("failed to decode merged todo: %w", err)
	}
	return result, nil
}

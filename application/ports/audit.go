package ports

import (
	"context"
	"time"
)

// AuditAction names a state change recorded in the audit trail
type AuditAction string

const (
	ActionTaskCreated AuditAction = "TASK_CREATED"
	ActionTaskUpdated AuditAction = "TASK_UPDATED"
	ActionTaskDeleted AuditAction = "TASK_DELETED"
)

// AuditEvent is the structured payload of one audit record
type AuditEvent struct {
	Action AuditAction `json:"action"`
	Method string      `json:"method"`
	Data   interface{} `json:"data"`
}

// AuditLogger records successful state changes.
// Implementations must not fail the caller; delivery problems are theirs to log.
type AuditLogger interface {
	Info(ctx context.Context, methodPath string, event AuditEvent)
}

// AuditPublisher forwards audit events to an external sink such as an event bus
type AuditPublisher interface {
	Publish(ctx context.Context, events []AuditEvent) error
}

// Metrics records the outcome of adapter operations
type Metrics interface {
	RecordOperation(ctx context.Context, operation string, duration time.Duration, err error)
}

// NoopMetrics discards everything
type NoopMetrics struct{}

func (NoopMetrics) RecordOperation(context.Context, string, time.Duration, error) {}

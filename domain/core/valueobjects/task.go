package valueobjects

// TaskStatus represents the lifecycle state of a todo
type TaskStatus string

const (
	// StatusPending indicates the task has not been started.
	StatusPending TaskStatus = "pending"

	// StatusInProgress indicates the task is being worked on.
	StatusInProgress TaskStatus = "in_progress"

	// StatusDone indicates the task is finished. Done is terminal.
	StatusDone TaskStatus = "done"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []TaskStatus {
	return []TaskStatus{StatusPending, StatusInProgress, StatusDone}
}

// IsValid returns true if the status is a known valid value.
func (s TaskStatus) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether a task in status s may move to next.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if !next.IsValid() {
		return false
	}
	if s == StatusDone {
		return next == StatusDone
	}
	return true
}

// TaskPriority represents how urgent a todo is
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium" // default
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// ValidPriorities returns all valid priority values.
func ValidPriorities() []TaskPriority {
	return []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// IsValid returns true if the priority is a known valid value.
func (p TaskPriority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

package models

import "strings"

// ExecutionStatus represents the lifecycle state of a tracked task.
type ExecutionStatus string

const (
	// StatusPending indicates the task has been accepted but not started.
	StatusPending ExecutionStatus = "pending"
	// StatusRunning indicates the task is executing.
	StatusRunning ExecutionStatus = "running"
	// StatusCompleted indicates the task finished successfully.
	StatusCompleted ExecutionStatus = "completed"
	// StatusFailed indicates the task finished with an error.
	StatusFailed ExecutionStatus = "failed"
	// StatusCancelled indicates the task was cancelled before completion.
	StatusCancelled ExecutionStatus = "cancelled"
)

// Valid returns true if the status is a known value.
func (s ExecutionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is a final state.
func (s ExecutionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Task is a single natural-language request. Tasks are created at call time
// and never mutated after submission.
type Task struct {
	// ID is the caller-supplied task identifier. Empty means the
	// orchestrator generates one.
	ID string `json:"id,omitempty"`
	// Description is the free-text description of what to produce.
	Description string `json:"description"`
	// Context carries optional structured hints (producer, title, ...).
	Context map[string]any `json:"context,omitempty"`
	// CallerID identifies the submitting caller, if any.
	CallerID string `json:"caller_id,omitempty"`
}

// ContextString returns the trimmed string value for a context key, or ""
// if the key is absent or not a string.
func (t Task) ContextString(key string) string {
	if t.Context == nil {
		return ""
	}
	s, _ := t.Context[key].(string)
	return strings.TrimSpace(s)
}

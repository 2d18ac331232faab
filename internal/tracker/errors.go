package tracker

import (
	"errors"
	"fmt"

	"github.com/kweiss/deskpilot/pkg/models"
)

var (
	// ErrDuplicateTaskID marks a Begin or Reject colliding with a live task.
	ErrDuplicateTaskID = errors.New("duplicate task id")
	// ErrUnknownTask marks a lookup for an untracked (or evicted) task.
	ErrUnknownTask = errors.New("unknown task")
	// ErrAlreadyTerminal marks a transition on an already-finished task.
	ErrAlreadyTerminal = errors.New("task already terminal")
)

type DuplicateTaskIDError struct {
	TaskID string
}

func (e *DuplicateTaskIDError) Error() string {
	return fmt.Sprintf("duplicate task id %q", e.TaskID)
}

func (e *DuplicateTaskIDError) Unwrap() error { return ErrDuplicateTaskID }

type UnknownTaskError struct {
	TaskID string
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("unknown task %q", e.TaskID)
}

func (e *UnknownTaskError) Unwrap() error { return ErrUnknownTask }

type AlreadyTerminalError struct {
	TaskID string
	Status models.ExecutionStatus
}

func (e *AlreadyTerminalError) Error() string {
	return fmt.Sprintf("task %q already terminal (%s)", e.TaskID, e.Status)
}

func (e *AlreadyTerminalError) Unwrap() error { return ErrAlreadyTerminal }

package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProducer marks a hint naming a producer that does not exist.
	ErrUnknownProducer = errors.New("unknown producer")
	// ErrNoProducerAvailable marks a task no enabled producer can take.
	ErrNoProducerAvailable = errors.New("no producer available")
)

// UnknownProducerError reports a routing hint that names no producer.
type UnknownProducerError struct {
	Name string
}

func (e *UnknownProducerError) Error() string {
	return fmt.Sprintf("unknown producer %q", e.Name)
}

func (e *UnknownProducerError) Unwrap() error { return ErrUnknownProducer }

// NoProducerError reports that no enabled producer could take the task.
// Hint is set when an explicit hint named a disabled producer.
type NoProducerError struct {
	Hint string
}

func (e *NoProducerError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("producer %q is disabled", e.Hint)
	}
	return "no producer available"
}

func (e *NoProducerError) Unwrap() error { return ErrNoProducerAvailable }

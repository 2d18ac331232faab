package registry

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching across packages.
var (
	// ErrDuplicateCapability reports a second registration of a name.
	ErrDuplicateCapability = errors.New("duplicate capability")
	// ErrUnknownCapability reports a lookup of an unregistered name.
	ErrUnknownCapability = errors.New("unknown capability")
)

// DuplicateCapabilityError carries the name that was registered twice.
type DuplicateCapabilityError struct {
	Name string
}

func (e *DuplicateCapabilityError) Error() string {
	return fmt.Sprintf("duplicate capability %q", e.Name)
}

func (e *DuplicateCapabilityError) Unwrap() error { return ErrDuplicateCapability }

// UnknownCapabilityError carries the name that failed to resolve.
type UnknownCapabilityError struct {
	Name string
}

func (e *UnknownCapabilityError) Error() string {
	return fmt.Sprintf("unknown capability %q", e.Name)
}

func (e *UnknownCapabilityError) Unwrap() error { return ErrUnknownCapability }

// InvocationError wraps any failure from a capability invocation with the
// capability name. The cause is preserved for errors.Is/As.
type InvocationError struct {
	Capability string
	Cause      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoking %q: %v", e.Capability, e.Cause)
}

func (e *InvocationError) Unwrap() error { return e.Cause }

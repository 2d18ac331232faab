// Package planner defines the optional LLM planning collaborator. Producers
// work without one; a nil or declining planner simply means the deterministic
// plan path is used.
package planner

import (
	"context"
	"errors"

	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/pkg/models"
)

// ErrNoPlan is returned when the collaborator declines to plan the task.
// It is not a failure; callers fall back to their deterministic plan.
var ErrNoPlan = errors.New("planner produced no plan")

// ToolCall is one planned capability invocation.
type ToolCall struct {
	// Capability is the capability name to invoke.
	Capability string `json:"capability"`
	// Args are the invocation arguments.
	Args registry.Args `json:"args,omitempty"`
}

// Plan is an ordered list of capability invocations for one task.
type Plan struct {
	// Steps are executed in order; the planner never reorders them.
	Steps []ToolCall `json:"steps"`
}

// Request carries everything the collaborator may use to plan.
type Request struct {
	// Task is the task being planned.
	Task models.Task
	// System is the producer's role prompt.
	System string
	// Tools is the allow-listed capability menu. The returned plan must
	// only reference these names.
	Tools []registry.Capability
}

// Planner plans capability invocations for a task.
type Planner interface {
	// Plan returns an ordered invocation plan, or ErrNoPlan to decline.
	Plan(ctx context.Context, req Request) (*Plan, error)
}

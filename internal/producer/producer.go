// Package producer implements the five artifact producers. Each producer is
// a peer implementing the same contract: given a task it selects a capability
// plan, deterministically or through the optional planning collaborator, and
// executes it through the registry.
package producer

import (
	"context"
	"errors"

	"github.com/kweiss/deskpilot/pkg/models"
)

// Advisory termination causes checked between plan steps.
var (
	// ErrCancelled marks a run stopped by task cancellation.
	ErrCancelled = errors.New("task cancelled")
	// ErrTimeout marks a run stopped by the per-task timeout.
	ErrTimeout = errors.New("task timed out")
)

// Descriptor is the static metadata for one producer, created at process
// start and immutable afterwards.
type Descriptor struct {
	// Name is the producer name used for explicit routing hints.
	Name string `json:"name"`
	// Kind is the artifact-kind affinity. KindAny for cross-artifact.
	Kind models.ArtifactKind `json:"kind"`
	// Capabilities is the allow-list of capability names this producer
	// may invoke.
	Capabilities []string `json:"capabilities"`
	// Description is the natural-language role description used by
	// heuristic dispatch and by the planning collaborator.
	Description string `json:"description"`
	// Enabled reflects the configuration feature toggle.
	Enabled bool `json:"enabled"`
}

// Producer is the contract every variant implements.
type Producer interface {
	// Descriptor returns the producer's static metadata.
	Descriptor() Descriptor
	// Run executes the task and blocks until a terminal outcome.
	Run(ctx context.Context, task models.Task) (*models.ExecutionOutcome, error)
	// RunStreaming executes the task and emits one chunk per completed
	// step plus a terminal chunk carrying the same outcome Run would
	// return. The channel is finite, ordered, and not restartable.
	RunStreaming(ctx context.Context, task models.Task) <-chan models.ExecutionChunk
}

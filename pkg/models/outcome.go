package models

import "time"

// OutcomeStatus is the success/error flag on an execution outcome.
type OutcomeStatus string

const (
	// OutcomeSuccess indicates the producer plan ran to completion.
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeError indicates the plan was aborted by a failure.
	OutcomeError OutcomeStatus = "error"
)

// ExecutionOutcome is the result of one producer run. Both the blocking and
// the streaming execution paths report this same shape.
type ExecutionOutcome struct {
	// Status is success or error.
	Status OutcomeStatus `json:"status"`
	// Summary is a short human-readable description of what was produced.
	Summary string `json:"summary,omitempty"`
	// Error describes the failure when Status is error.
	Error string `json:"error,omitempty"`
	// Artifacts lists the outputs produced, in creation order.
	Artifacts []Artifact `json:"artifacts,omitempty"`
	// Steps is the number of capability invocations that completed.
	Steps int `json:"steps"`
	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`
}

// ExecutionChunk is one element of a streaming execution. Chunks for a single
// task are emitted strictly in step order; the final chunk has Done set and
// carries the same outcome a blocking run would return.
type ExecutionChunk struct {
	// TaskID is the identifier of the task this chunk belongs to.
	TaskID string `json:"task_id"`
	// StepIndex is the zero-based index of the completed step.
	StepIndex int `json:"step_index"`
	// Step names the capability (or phase) that produced this chunk.
	Step string `json:"step,omitempty"`
	// Detail is a short human-readable description of the step result.
	Detail string `json:"detail,omitempty"`
	// Error describes a step failure, if any.
	Error string `json:"error,omitempty"`
	// Done marks the terminal chunk.
	Done bool `json:"done"`
	// Status is the terminal execution status. Set only when Done is true.
	Status ExecutionStatus `json:"status,omitempty"`
	// Outcome is the full execution outcome. Set only when Done is true.
	Outcome *ExecutionOutcome `json:"outcome,omitempty"`
}

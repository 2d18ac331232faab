// Package orchestrator ties dispatch, producers, and the tracker together
// behind the task execution surface the CLI and HTTP server share.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/internal/dispatch"
	"github.com/kweiss/deskpilot/internal/producer"
	"github.com/kweiss/deskpilot/internal/tracker"
	"github.com/kweiss/deskpilot/pkg/models"
)

// Request is one task submission.
type Request struct {
	// TaskID optionally supplies the task identifier. Generated when empty;
	// colliding with a live task fails with DuplicateTaskIDError.
	TaskID string `json:"task_id,omitempty"`
	// Description is the natural-language task text.
	Description string `json:"description"`
	// Producer optionally names the producer to use, bypassing the
	// keyword heuristic.
	Producer string `json:"producer,omitempty"`
	// Context carries optional structured hints (title, counts). A
	// "producer" key acts as a routing hint when the Producer field is
	// empty.
	Context map[string]any `json:"context,omitempty"`
	// CallerID identifies the submitter for logging.
	CallerID string `json:"caller_id,omitempty"`
	// Timeout overrides the configured per-task timeout when positive.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// Result is the terminal answer for a blocking execution.
type Result struct {
	TaskID   string                   `json:"task_id"`
	Producer string                   `json:"producer"`
	Status   models.ExecutionStatus   `json:"status"`
	Outcome  *models.ExecutionOutcome `json:"outcome,omitempty"`
}

// Orchestrator is safe for concurrent use.
type Orchestrator struct {
	dispatcher *dispatch.Dispatcher
	tracker    *tracker.Tracker
	log        zerolog.Logger
	timeout    time.Duration

	cancels *cancelSet
	newID   func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout sets the default per-task timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// New builds an orchestrator over the dispatcher and tracker.
func New(d *dispatch.Dispatcher, t *tracker.Tracker, log zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		dispatcher: d,
		tracker:    t,
		log:        log,
		cancels:    newCancelSet(),
		newID:      NewTaskID,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewTaskID returns a fresh task id: a timestamp for coarse ordering plus a
// uuid segment for uniqueness.
func NewTaskID() string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("task_%d_%s", time.Now().UnixMilli(), suffix)
}

// Execute runs the request to completion and blocks for its result. The
// returned error is the run error; the result is non-nil whenever the task
// was dispatched, terminal failures included.
func (o *Orchestrator) Execute(ctx context.Context, req Request) (*Result, error) {
	taskID, p, err := o.admit(req)
	if err != nil {
		return &Result{TaskID: taskID, Status: models.StatusFailed}, err
	}

	runCtx, done := o.arm(ctx, taskID, req.Timeout)
	defer done()

	outcome, runErr := p.Run(runCtx, o.buildTask(taskID, req))
	status := producer.StatusFromErr(runErr)
	o.settle(taskID, status, outcome, runErr)

	return &Result{
		TaskID:   taskID,
		Producer: p.Descriptor().Name,
		Status:   status,
		Outcome:  outcome,
	}, runErr
}

// ExecuteStreaming runs the request and returns its task id plus an ordered,
// finite chunk stream: one chunk per completed step and a terminal chunk
// carrying the outcome. Dispatch failures return an error and no stream.
func (o *Orchestrator) ExecuteStreaming(ctx context.Context, req Request) (string, <-chan models.ExecutionChunk, error) {
	taskID, p, err := o.admit(req)
	if err != nil {
		return taskID, nil, err
	}

	runCtx, done := o.arm(ctx, taskID, req.Timeout)
	out := make(chan models.ExecutionChunk)
	go func() {
		defer close(out)
		defer done()
		for chunk := range p.RunStreaming(runCtx, o.buildTask(taskID, req)) {
			if chunk.Done {
				o.settle(taskID, chunk.Status, chunk.Outcome, terminalErr(chunk))
			}
			out <- chunk
		}
	}()
	return taskID, out, nil
}

// terminalErr reconstructs the run error from a terminal chunk so streaming
// runs settle exactly like blocking ones.
func terminalErr(chunk models.ExecutionChunk) error {
	if chunk.Error == "" {
		return nil
	}
	return errors.New(chunk.Error)
}

// hint returns the explicit producer hint: the dedicated field first, then
// the "producer" key of the context map.
func (r Request) hint() string {
	if r.Producer != "" {
		return r.Producer
	}
	if v, ok := r.Context["producer"].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// admit assigns a task id, dispatches, and registers the task as running.
// Dispatch failures are recorded as terminal rejections.
func (o *Orchestrator) admit(req Request) (string, producer.Producer, error) {
	taskID := req.TaskID
	if taskID == "" {
		taskID = o.newID()
	}
	hint := req.hint()
	p, err := o.dispatcher.Dispatch(req.Description, hint)
	if err != nil {
		if rerr := o.tracker.Reject(taskID, hint, err.Error()); rerr != nil {
			o.log.Error().Err(rerr).Str("task_id", taskID).Msg("recording rejection")
		}
		return taskID, nil, fmt.Errorf("dispatch task %s: %w", taskID, err)
	}
	if err := o.tracker.Begin(taskID, p.Descriptor().Name); err != nil {
		return taskID, nil, err
	}
	o.log.Info().
		Str("task_id", taskID).
		Str("producer", p.Descriptor().Name).
		Str("caller", req.CallerID).
		Msg("task admitted")
	return taskID, p, nil
}

// arm derives the run context with the per-task timeout and registers the
// cancel handle. The returned done releases both.
func (o *Orchestrator) arm(ctx context.Context, taskID string, override time.Duration) (context.Context, func()) {
	timeout := o.timeout
	if override > 0 {
		timeout = override
	}
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	o.cancels.put(taskID, cancel)
	return ctx, func() {
		o.cancels.remove(taskID)
		cancel()
	}
}

func (o *Orchestrator) buildTask(taskID string, req Request) models.Task {
	return models.Task{
		ID:          taskID,
		Description: req.Description,
		Context:     req.Context,
		CallerID:    req.CallerID,
	}
}

// settle records the terminal state. Tracker conflicts are logged, not
// surfaced: the run result already answers the caller.
func (o *Orchestrator) settle(taskID string, status models.ExecutionStatus, outcome *models.ExecutionOutcome, runErr error) {
	var err error
	switch status {
	case models.StatusCompleted:
		err = o.tracker.Complete(taskID, outcome)
	case models.StatusCancelled:
		err = o.tracker.Cancel(taskID, outcome)
	default:
		msg := ""
		if runErr != nil {
			msg = runErr.Error()
		}
		err = o.tracker.Fail(taskID, outcome, msg)
	}
	if err != nil && !errors.Is(err, tracker.ErrAlreadyTerminal) {
		o.log.Error().Err(err).Str("task_id", taskID).Msg("recording terminal state")
	}
}

// Cancel requests cooperative cancellation of a live task. The task stops
// at its next step boundary; it does not stop mid-capability. Status keeps
// reporting running until the producer observes the signal there.
func (o *Orchestrator) Cancel(taskID string) error {
	exec, err := o.tracker.Get(taskID)
	if err != nil {
		return err
	}
	if exec.Status.Terminal() {
		return &tracker.AlreadyTerminalError{TaskID: taskID, Status: exec.Status}
	}
	if !o.cancels.cancel(taskID) {
		return &tracker.UnknownTaskError{TaskID: taskID}
	}
	o.log.Info().Str("task_id", taskID).Msg("cancellation requested")
	return nil
}

// Status returns the execution record for taskID.
func (o *Orchestrator) Status(taskID string) (tracker.TaskExecution, error) {
	return o.tracker.Get(taskID)
}

// Metrics returns the tracker's aggregate snapshot.
func (o *Orchestrator) Metrics() tracker.Metrics {
	return o.tracker.Snapshot()
}

// Producers lists every producer's metadata in registration order.
func (o *Orchestrator) Producers() []producer.Descriptor {
	return o.dispatcher.Descriptors()
}

// Package tracker records task execution lifecycle and aggregates run
// metrics. All state is in memory; a bounded ring keeps recent terminal
// executions addressable while cumulative counters never reset.
package tracker

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/pkg/models"
)

// DefaultRingSize bounds the recent-execution ring when the configured
// size is not positive.
const DefaultRingSize = 100

// TaskExecution is one task's lifecycle record.
type TaskExecution struct {
	TaskID    string                   `json:"task_id"`
	Producer  string                   `json:"producer"`
	Status    models.ExecutionStatus   `json:"status"`
	StartedAt time.Time                `json:"started_at"`
	EndedAt   time.Time                `json:"ended_at,omitempty"`
	Outcome   *models.ExecutionOutcome `json:"outcome,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

// Elapsed is the wall time from start to end, or to now for live tasks.
func (e *TaskExecution) Elapsed() time.Duration {
	if e.StartedAt.IsZero() {
		return 0
	}
	if e.EndedAt.IsZero() {
		return time.Since(e.StartedAt)
	}
	return e.EndedAt.Sub(e.StartedAt)
}

// Summary is the compact form kept in the recent ring snapshot.
type Summary struct {
	TaskID   string                 `json:"task_id"`
	Producer string                 `json:"producer"`
	Status   models.ExecutionStatus `json:"status"`
	Elapsed  time.Duration          `json:"elapsed"`
}

// Metrics is a point-in-time aggregate over every tracked execution.
type Metrics struct {
	Total      int64                            `json:"total"`
	Live       int                              `json:"live"`
	ByStatus   map[models.ExecutionStatus]int64 `json:"by_status"`
	ByProducer map[string]int64                 `json:"by_producer"`
	AvgElapsed time.Duration                    `json:"avg_elapsed"`
	ErrorRate  float64                          `json:"error_rate"`
	Recent     []Summary                        `json:"recent"`
}

// Tracker is safe for concurrent use.
type Tracker struct {
	log zerolog.Logger
	now func() time.Time

	mu       sync.Mutex
	tasks    map[string]*TaskExecution
	ring     []string // terminal task ids, oldest first
	ringSize int

	total        int64
	byStatus     map[models.ExecutionStatus]int64
	byProducer   map[string]int64
	terminal     int64
	totalElapsed time.Duration
}

// New creates a tracker whose recent ring holds at most ringSize terminal
// executions.
func New(log zerolog.Logger, ringSize int) *Tracker {
	if ringSize <= 0 {
		ringSize = DefaultRingSize
	}
	return &Tracker{
		log:        log,
		now:        time.Now,
		tasks:      make(map[string]*TaskExecution),
		ringSize:   ringSize,
		byStatus:   make(map[models.ExecutionStatus]int64),
		byProducer: make(map[string]int64),
	}
}

// Begin registers a task as running. The id must not collide with a live
// task; ids of evicted or terminal-and-evicted tasks may be reused.
func (t *Tracker) Begin(taskID, producer string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.tasks[taskID]; ok && !e.Status.Terminal() {
		return &DuplicateTaskIDError{TaskID: taskID}
	}
	t.tasks[taskID] = &TaskExecution{
		TaskID:    taskID,
		Producer:  producer,
		Status:    models.StatusRunning,
		StartedAt: t.now(),
	}
	t.total++
	t.byProducer[producer]++
	t.log.Debug().Str("task_id", taskID).Str("producer", producer).Msg("task running")
	return nil
}

// Complete marks a running task completed with its outcome.
func (t *Tracker) Complete(taskID string, outcome *models.ExecutionOutcome) error {
	return t.finish(taskID, models.StatusCompleted, outcome, "")
}

// Fail marks a running task failed.
func (t *Tracker) Fail(taskID string, outcome *models.ExecutionOutcome, errMsg string) error {
	return t.finish(taskID, models.StatusFailed, outcome, errMsg)
}

// Cancel marks a running task cancelled.
func (t *Tracker) Cancel(taskID string, outcome *models.ExecutionOutcome) error {
	return t.finish(taskID, models.StatusCancelled, outcome, "cancelled")
}

// Reject records a task that failed before it ever ran: dispatch errors,
// invalid submissions. The record is terminal from the start.
func (t *Tracker) Reject(taskID, producer, errMsg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.tasks[taskID]; ok && !e.Status.Terminal() {
		return &DuplicateTaskIDError{TaskID: taskID}
	}
	now := t.now()
	t.tasks[taskID] = &TaskExecution{
		TaskID:    taskID,
		Producer:  producer,
		Status:    models.StatusFailed,
		StartedAt: now,
		EndedAt:   now,
		Error:     errMsg,
	}
	t.total++
	t.terminal++
	t.byStatus[models.StatusFailed]++
	if producer != "" {
		t.byProducer[producer]++
	}
	t.pushRing(taskID)
	return nil
}

func (t *Tracker) finish(taskID string, status models.ExecutionStatus, outcome *models.ExecutionOutcome, errMsg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.tasks[taskID]
	if !ok {
		return &UnknownTaskError{TaskID: taskID}
	}
	if e.Status.Terminal() {
		return &AlreadyTerminalError{TaskID: taskID, Status: e.Status}
	}
	e.Status = status
	e.EndedAt = t.now()
	e.Outcome = outcome
	if errMsg != "" {
		e.Error = errMsg
	} else if outcome != nil && outcome.Error != "" {
		e.Error = outcome.Error
	}
	t.terminal++
	t.byStatus[status]++
	t.totalElapsed += e.Elapsed()
	t.pushRing(taskID)
	t.log.Debug().Str("task_id", taskID).Str("status", string(status)).Dur("elapsed", e.Elapsed()).Msg("task finished")
	return nil
}

// pushRing appends a terminal id and evicts the oldest beyond capacity.
// Evicted executions leave the task map entirely. Caller holds mu.
func (t *Tracker) pushRing(taskID string) {
	t.ring = append(t.ring, taskID)
	for len(t.ring) > t.ringSize {
		evicted := t.ring[0]
		t.ring = t.ring[1:]
		delete(t.tasks, evicted)
	}
}

// Get returns a copy of the execution record for taskID.
func (t *Tracker) Get(taskID string) (TaskExecution, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.tasks[taskID]
	if !ok {
		return TaskExecution{}, &UnknownTaskError{TaskID: taskID}
	}
	return *e, nil
}

// Snapshot returns current aggregate metrics. The recent list is ordered
// oldest terminal execution first.
func (t *Tracker) Snapshot() Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := Metrics{
		Total:      t.total,
		ByStatus:   make(map[models.ExecutionStatus]int64, len(t.byStatus)),
		ByProducer: make(map[string]int64, len(t.byProducer)),
		Recent:     make([]Summary, 0, len(t.ring)),
	}
	for k, v := range t.byStatus {
		m.ByStatus[k] = v
	}
	for k, v := range t.byProducer {
		m.ByProducer[k] = v
	}
	for _, e := range t.tasks {
		if !e.Status.Terminal() {
			m.Live++
		}
	}
	if t.terminal > 0 {
		m.AvgElapsed = t.totalElapsed / time.Duration(t.terminal)
		m.ErrorRate = float64(t.byStatus[models.StatusFailed]) / float64(t.terminal)
	}
	for _, id := range t.ring {
		e, ok := t.tasks[id]
		if !ok {
			continue
		}
		m.Recent = append(m.Recent, Summary{
			TaskID:   e.TaskID,
			Producer: e.Producer,
			Status:   e.Status,
			Elapsed:  e.Elapsed(),
		})
	}
	return m
}

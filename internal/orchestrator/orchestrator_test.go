package orchestrator

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/internal/dispatch"
	"github.com/kweiss/deskpilot/internal/format"
	"github.com/kweiss/deskpilot/internal/producer"
	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/internal/tools"
	"github.com/kweiss/deskpilot/internal/tracker"
	"github.com/kweiss/deskpilot/internal/workspace"
	"github.com/kweiss/deskpilot/pkg/models"
)

func newOrchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()
	log := zerolog.Nop()
	ws, err := workspace.New(t.TempDir())
	if err != nil {
		t.Fatalf("workspace.New: %v", err)
	}
	reg := registry.New()
	if err := tools.NewBuiltins(ws, format.NewResolver(log), log).Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	d := dispatch.New(log,
		producer.NewDocument(reg, nil, log, true),
		producer.NewPresentation(reg, nil, log, true, 3),
		producer.NewSpreadsheet(reg, nil, log, true),
		producer.NewCommunication(reg, nil, log, true),
		producer.NewWorkflow(reg, nil, log, true),
	)
	return New(d, tracker.New(log, 10), log, opts...)
}

func TestExecuteCompletes(t *testing.T) {
	o := newOrchestrator(t)
	res, err := o.Execute(context.Background(), Request{
		Description: "write a report about quarterly sales",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Producer != "document" {
		t.Errorf("producer = %q, want document", res.Producer)
	}
	if res.Status != models.StatusCompleted {
		t.Fatalf("status = %q, want completed", res.Status)
	}
	if len(res.Outcome.Artifacts) != 1 {
		t.Fatalf("artifacts = %d, want 1", len(res.Outcome.Artifacts))
	}
	if _, err := os.Stat(res.Outcome.Artifacts[0].Path); err != nil {
		t.Errorf("artifact missing: %v", err)
	}

	exec, err := o.Status(res.TaskID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if exec.Status != models.StatusCompleted {
		t.Errorf("tracked status = %q, want completed", exec.Status)
	}

	m := o.Metrics()
	if m.Total != 1 || m.ByStatus[models.StatusCompleted] != 1 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestExecutePresentationSlideCount(t *testing.T) {
	o := newOrchestrator(t)
	res, err := o.Execute(context.Background(), Request{
		Description: "Create a 2-slide presentation about ROI",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Producer != "presentation" {
		t.Fatalf("producer = %q, want presentation", res.Producer)
	}
	// create + 2 slides + save
	if res.Outcome.Steps != 4 {
		t.Errorf("steps = %d, want 4", res.Outcome.Steps)
	}
	if len(res.Outcome.Artifacts) != 1 || res.Outcome.Artifacts[0].Tier != models.TierPlain {
		t.Errorf("artifacts = %+v, want one plain-tier deck", res.Outcome.Artifacts)
	}
}

func TestExecuteHintOverridesText(t *testing.T) {
	o := newOrchestrator(t)
	res, err := o.Execute(context.Background(), Request{
		Description: "write a report about sales",
		Producer:    "spreadsheet",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Producer != "spreadsheet" {
		t.Errorf("producer = %q, want spreadsheet", res.Producer)
	}
}

func TestExecuteContextHintOverridesText(t *testing.T) {
	o := newOrchestrator(t)
	res, err := o.Execute(context.Background(), Request{
		Description: "write a report about sales",
		Context:     map[string]any{"producer": "spreadsheet"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Producer != "spreadsheet" {
		t.Errorf("producer = %q, want spreadsheet (context hint)", res.Producer)
	}
}

func TestExecuteProducerFieldBeatsContextHint(t *testing.T) {
	o := newOrchestrator(t)
	res, err := o.Execute(context.Background(), Request{
		Description: "anything",
		Producer:    "presentation",
		Context:     map[string]any{"producer": "spreadsheet"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Producer != "presentation" {
		t.Errorf("producer = %q, want presentation", res.Producer)
	}
}

func TestExecuteUnknownContextHint(t *testing.T) {
	o := newOrchestrator(t)
	_, err := o.Execute(context.Background(), Request{
		Description: "anything",
		Context:     map[string]any{"producer": "nonexistent"},
	})
	if !errors.Is(err, dispatch.ErrUnknownProducer) {
		t.Fatalf("err = %v, want ErrUnknownProducer", err)
	}
}

func TestExecuteDispatchFailure(t *testing.T) {
	o := newOrchestrator(t)
	res, err := o.Execute(context.Background(), Request{
		Description: "anything",
		Producer:    "mailer",
	})
	if !errors.Is(err, dispatch.ErrUnknownProducer) {
		t.Fatalf("err = %v, want ErrUnknownProducer", err)
	}
	if res.Status != models.StatusFailed {
		t.Errorf("status = %q, want failed", res.Status)
	}

	// The task never ran but its rejection is tracked as terminal.
	exec, serr := o.Status(res.TaskID)
	if serr != nil {
		t.Fatalf("Status: %v", serr)
	}
	if exec.Status != models.StatusFailed {
		t.Errorf("tracked status = %q, want failed", exec.Status)
	}
	m := o.Metrics()
	if m.ByStatus[models.StatusFailed] != 1 {
		t.Errorf("failed count = %d, want 1", m.ByStatus[models.StatusFailed])
	}
}

func TestExecuteDisabledProducerHint(t *testing.T) {
	log := zerolog.Nop()
	reg := registry.New()
	d := dispatch.New(log, producer.NewDocument(reg, nil, log, false))
	o := New(d, tracker.New(log, 10), log)

	_, err := o.Execute(context.Background(), Request{Description: "write a report", Producer: "document"})
	if !errors.Is(err, dispatch.ErrNoProducerAvailable) {
		t.Fatalf("err = %v, want ErrNoProducerAvailable", err)
	}
}

func TestStreamingRoundTrip(t *testing.T) {
	o := newOrchestrator(t)
	taskID, stream, err := o.ExecuteStreaming(context.Background(), Request{
		Description: "write a memo about hiring",
	})
	if err != nil {
		t.Fatalf("ExecuteStreaming: %v", err)
	}

	var chunks []models.ExecutionChunk
	for c := range stream {
		chunks = append(chunks, c)
	}
	if len(chunks) == 0 {
		t.Fatal("no chunks")
	}
	final := chunks[len(chunks)-1]
	if !final.Done {
		t.Fatal("stream did not end with terminal chunk")
	}
	if final.Status != models.StatusCompleted {
		t.Fatalf("final status = %q: %s", final.Status, final.Error)
	}
	for i, c := range chunks[:len(chunks)-1] {
		if c.Done {
			t.Fatalf("chunk %d marked done before end", i)
		}
		if c.StepIndex != i {
			t.Errorf("chunk %d StepIndex = %d", i, c.StepIndex)
		}
	}

	exec, err := o.Status(taskID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if exec.Status != models.StatusCompleted {
		t.Errorf("tracked status = %q, want completed", exec.Status)
	}
	if exec.Outcome == nil || exec.Outcome.Steps != final.Outcome.Steps {
		t.Errorf("tracked outcome = %+v, final chunk = %+v", exec.Outcome, final.Outcome)
	}
}

func TestExecuteTimeout(t *testing.T) {
	log := zerolog.Nop()
	d := dispatch.New(log, &blockingProducer{})
	o := New(d, tracker.New(log, 10), log, WithTimeout(20*time.Millisecond))

	res, err := o.Execute(context.Background(), Request{Description: "anything", Producer: "slow"})
	if !errors.Is(err, producer.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if res.Status != models.StatusFailed {
		t.Errorf("status = %q, want failed", res.Status)
	}
	exec, serr := o.Status(res.TaskID)
	if serr != nil {
		t.Fatal(serr)
	}
	if exec.Status != models.StatusFailed {
		t.Errorf("tracked status = %q, want failed", exec.Status)
	}
}

func TestCancelLiveTask(t *testing.T) {
	log := zerolog.Nop()
	d := dispatch.New(log, &blockingProducer{})
	o := New(d, tracker.New(log, 10), log)

	taskID, stream, err := o.ExecuteStreaming(context.Background(), Request{Description: "anything", Producer: "slow"})
	if err != nil {
		t.Fatalf("ExecuteStreaming: %v", err)
	}

	if err := o.Cancel(taskID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	var final models.ExecutionChunk
	for c := range stream {
		final = c
	}
	if final.Status != models.StatusCancelled {
		t.Fatalf("final status = %q, want cancelled", final.Status)
	}
	exec, err := o.Status(taskID)
	if err != nil {
		t.Fatal(err)
	}
	if exec.Status != models.StatusCancelled {
		t.Errorf("tracked status = %q, want cancelled", exec.Status)
	}

	// Cancelling again conflicts; cancelling the unknown fails.
	if err := o.Cancel(taskID); !errors.Is(err, tracker.ErrAlreadyTerminal) {
		t.Errorf("second cancel err = %v, want ErrAlreadyTerminal", err)
	}
	if err := o.Cancel("task_0_none"); !errors.Is(err, tracker.ErrUnknownTask) {
		t.Errorf("unknown cancel err = %v, want ErrUnknownTask", err)
	}
}

func TestCallerSuppliedTaskID(t *testing.T) {
	o := newOrchestrator(t)
	res, err := o.Execute(context.Background(), Request{
		TaskID:      "task_custom_1",
		Description: "write a report about sales",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.TaskID != "task_custom_1" {
		t.Errorf("task id = %q, want task_custom_1", res.TaskID)
	}
}

func TestDuplicateLiveTaskID(t *testing.T) {
	log := zerolog.Nop()
	d := dispatch.New(log, &blockingProducer{})
	o := New(d, tracker.New(log, 10), log)

	taskID, stream, err := o.ExecuteStreaming(context.Background(), Request{
		TaskID: "task_dup", Description: "anything", Producer: "slow",
	})
	if err != nil {
		t.Fatalf("ExecuteStreaming: %v", err)
	}
	_, err = o.Execute(context.Background(), Request{
		TaskID: "task_dup", Description: "anything", Producer: "slow",
	})
	if !errors.Is(err, tracker.ErrDuplicateTaskID) {
		t.Fatalf("err = %v, want ErrDuplicateTaskID", err)
	}

	if cerr := o.Cancel(taskID); cerr != nil {
		t.Fatal(cerr)
	}
	for range stream {
	}
}

func TestNewTaskID(t *testing.T) {
	a, b := NewTaskID(), NewTaskID()
	if !strings.HasPrefix(a, "task_") {
		t.Errorf("id = %q, want task_ prefix", a)
	}
	if a == b {
		t.Errorf("ids collide: %q", a)
	}
	if parts := strings.Split(a, "_"); len(parts) != 3 {
		t.Errorf("id = %q, want task_<ts>_<suffix>", a)
	}
}

// blockingProducer blocks until its context ends, then reports the matching
// terminal state. Used to exercise timeout and cancellation paths.
type blockingProducer struct{}

func (b *blockingProducer) Descriptor() producer.Descriptor {
	return producer.Descriptor{Name: "slow", Kind: models.KindAny, Enabled: true}
}

func (b *blockingProducer) Run(ctx context.Context, task models.Task) (*models.ExecutionOutcome, error) {
	<-ctx.Done()
	err := producer.ErrCancelled
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = producer.ErrTimeout
	}
	return &models.ExecutionOutcome{Status: models.OutcomeError, Error: err.Error()}, err
}

func (b *blockingProducer) RunStreaming(ctx context.Context, task models.Task) <-chan models.ExecutionChunk {
	ch := make(chan models.ExecutionChunk, 1)
	go func() {
		defer close(ch)
		outcome, err := b.Run(ctx, task)
		ch <- models.ExecutionChunk{
			TaskID:  task.ID,
			Done:    true,
			Status:  producer.StatusFromErr(err),
			Outcome: outcome,
			Error:   err.Error(),
		}
	}()
	return ch
}

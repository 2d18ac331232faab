package tracker

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/pkg/models"
)

func TestLifecycle(t *testing.T) {
	tr := New(zerolog.Nop(), 10)

	if err := tr.Begin("t1", "document"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	e, err := tr.Get("t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.Status != models.StatusRunning {
		t.Errorf("status = %q, want running", e.Status)
	}

	outcome := &models.ExecutionOutcome{Status: models.OutcomeSuccess, Steps: 5}
	if err := tr.Complete("t1", outcome); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	e, err = tr.Get("t1")
	if err != nil {
		t.Fatalf("Get after complete: %v", err)
	}
	if e.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", e.Status)
	}
	if e.EndedAt.IsZero() {
		t.Error("EndedAt not set")
	}
	if e.Outcome == nil || e.Outcome.Steps != 5 {
		t.Errorf("outcome = %+v", e.Outcome)
	}
}

func TestDuplicateLiveID(t *testing.T) {
	tr := New(zerolog.Nop(), 10)
	if err := tr.Begin("t1", "document"); err != nil {
		t.Fatal(err)
	}
	err := tr.Begin("t1", "document")
	if !errors.Is(err, ErrDuplicateTaskID) {
		t.Fatalf("err = %v, want ErrDuplicateTaskID", err)
	}

	// A terminal id may be reused.
	if err := tr.Complete("t1", nil); err != nil {
		t.Fatal(err)
	}
	if err := tr.Begin("t1", "document"); err != nil {
		t.Fatalf("reuse after terminal: %v", err)
	}
}

func TestDoubleTerminal(t *testing.T) {
	tr := New(zerolog.Nop(), 10)
	if err := tr.Begin("t1", "document"); err != nil {
		t.Fatal(err)
	}
	if err := tr.Cancel("t1", nil); err != nil {
		t.Fatal(err)
	}
	err := tr.Complete("t1", nil)
	if !errors.Is(err, ErrAlreadyTerminal) {
		t.Fatalf("err = %v, want ErrAlreadyTerminal", err)
	}
	var ae *AlreadyTerminalError
	if !errors.As(err, &ae) || ae.Status != models.StatusCancelled {
		t.Fatalf("err = %v, want AlreadyTerminalError{cancelled}", err)
	}
}

func TestUnknownTask(t *testing.T) {
	tr := New(zerolog.Nop(), 10)
	if _, err := tr.Get("nope"); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("Get err = %v, want ErrUnknownTask", err)
	}
	if err := tr.Fail("nope", nil, "x"); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("Fail err = %v, want ErrUnknownTask", err)
	}
}

func TestRejectIsTerminalFailure(t *testing.T) {
	tr := New(zerolog.Nop(), 10)
	if err := tr.Reject("t1", "", "no producer available"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	e, err := tr.Get("t1")
	if err != nil {
		t.Fatal(err)
	}
	if e.Status != models.StatusFailed {
		t.Errorf("status = %q, want failed", e.Status)
	}
	if e.Error != "no producer available" {
		t.Errorf("error = %q", e.Error)
	}
	// Never ran: rejecting must not allow a later terminal transition.
	if err := tr.Cancel("t1", nil); !errors.Is(err, ErrAlreadyTerminal) {
		t.Fatalf("Cancel err = %v, want ErrAlreadyTerminal", err)
	}
	m := tr.Snapshot()
	if m.ByStatus[models.StatusFailed] != 1 {
		t.Errorf("failed count = %d, want 1", m.ByStatus[models.StatusFailed])
	}
}

func TestSnapshotCounters(t *testing.T) {
	tr := New(zerolog.Nop(), 10)
	run := func(id, producer string, end func(string) error) {
		t.Helper()
		if err := tr.Begin(id, producer); err != nil {
			t.Fatal(err)
		}
		if err := end(id); err != nil {
			t.Fatal(err)
		}
	}
	run("a", "document", func(id string) error { return tr.Complete(id, nil) })
	run("b", "document", func(id string) error { return tr.Complete(id, nil) })
	run("c", "spreadsheet", func(id string) error { return tr.Fail(id, nil, "boom") })
	run("d", "workflow", func(id string) error { return tr.Cancel(id, nil) })

	m := tr.Snapshot()
	if m.Total != 4 {
		t.Errorf("total = %d, want 4", m.Total)
	}
	if m.ByStatus[models.StatusCompleted] != 2 || m.ByStatus[models.StatusFailed] != 1 || m.ByStatus[models.StatusCancelled] != 1 {
		t.Errorf("by status = %v", m.ByStatus)
	}
	if m.ByProducer["document"] != 2 {
		t.Errorf("by producer = %v", m.ByProducer)
	}
	if m.ErrorRate != 0.25 {
		t.Errorf("error rate = %v, want 0.25", m.ErrorRate)
	}
	if len(m.Recent) != 4 {
		t.Errorf("recent = %d, want 4", len(m.Recent))
	}
	if m.Recent[0].TaskID != "a" || m.Recent[3].TaskID != "d" {
		t.Errorf("recent order = %+v", m.Recent)
	}
}

func TestRingEviction(t *testing.T) {
	tr := New(zerolog.Nop(), 3)
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("t%d", i)
		if err := tr.Begin(id, "document"); err != nil {
			t.Fatal(err)
		}
		if err := tr.Complete(id, nil); err != nil {
			t.Fatal(err)
		}
	}
	// live task is never evicted by ring pressure
	if err := tr.Begin("live", "document"); err != nil {
		t.Fatal(err)
	}

	m := tr.Snapshot()
	if len(m.Recent) != 3 {
		t.Fatalf("recent = %d, want 3", len(m.Recent))
	}
	if m.Recent[0].TaskID != "t2" {
		t.Errorf("oldest retained = %q, want t2", m.Recent[0].TaskID)
	}
	// cumulative counters survive eviction
	if m.Total != 6 {
		t.Errorf("total = %d, want 6", m.Total)
	}
	if _, err := tr.Get("t0"); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("evicted task still addressable: %v", err)
	}
	if _, err := tr.Get("live"); err != nil {
		t.Errorf("live task not addressable: %v", err)
	}
}

func TestAvgElapsed(t *testing.T) {
	tr := New(zerolog.Nop(), 10)
	base := time.Now()
	step := 0
	tr.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * 100 * time.Millisecond)
	}
	if err := tr.Begin("t1", "document"); err != nil {
		t.Fatal(err)
	}
	if err := tr.Complete("t1", nil); err != nil {
		t.Fatal(err)
	}
	m := tr.Snapshot()
	if m.AvgElapsed != 100*time.Millisecond {
		t.Errorf("avg elapsed = %v, want 100ms", m.AvgElapsed)
	}
}

func TestConcurrentUse(t *testing.T) {
	tr := New(zerolog.Nop(), 50)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("t%d", i)
			if err := tr.Begin(id, "document"); err != nil {
				t.Errorf("Begin %s: %v", id, err)
				return
			}
			if _, err := tr.Get(id); err != nil {
				t.Errorf("Get %s: %v", id, err)
			}
			tr.Snapshot()
			if err := tr.Complete(id, nil); err != nil {
				t.Errorf("Complete %s: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	m := tr.Snapshot()
	if m.Total != 20 {
		t.Errorf("total = %d, want 20", m.Total)
	}
	if m.ByStatus[models.StatusCompleted] != 20 {
		t.Errorf("completed = %d, want 20", m.ByStatus[models.StatusCompleted])
	}
	if m.Live != 0 {
		t.Errorf("live = %d, want 0", m.Live)
	}
}

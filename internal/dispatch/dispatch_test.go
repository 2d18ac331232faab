package dispatch

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/internal/planner"
	"github.com/kweiss/deskpilot/internal/producer"
	"github.com/kweiss/deskpilot/internal/registry"
)

func newSet(t *testing.T, enabled map[string]bool) *Dispatcher {
	t.Helper()
	on := func(name string) bool {
		if enabled == nil {
			return true
		}
		v, ok := enabled[name]
		return !ok || v
	}
	reg := registry.New()
	var p planner.Planner
	log := zerolog.Nop()
	return New(log,
		producer.NewDocument(reg, p, log, on("document")),
		producer.NewPresentation(reg, p, log, on("presentation"), 3),
		producer.NewSpreadsheet(reg, p, log, on("spreadsheet")),
		producer.NewCommunication(reg, p, log, on("communication")),
		producer.NewWorkflow(reg, p, log, on("workflow")),
	)
}

func TestDispatchByKeyword(t *testing.T) {
	d := newSet(t, nil)
	cases := []struct {
		text string
		want string
	}{
		{"write a report about quarterly sales", "document"},
		{"make a deck about the roadmap", "presentation"},
		{"build a budget spreadsheet for Q3", "spreadsheet"},
		{"reply to the customer email", "communication"},
		{"organize the launch workflow", "workflow"},
		{"something entirely unrelated", "workflow"},
	}
	for _, tc := range cases {
		p, err := d.Dispatch(tc.text, "")
		if err != nil {
			t.Fatalf("Dispatch(%q): %v", tc.text, err)
		}
		if got := p.Descriptor().Name; got != tc.want {
			t.Errorf("Dispatch(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestDispatchByDescriptionWord(t *testing.T) {
	d := newSet(t, nil)
	// "text" and "tables" appear only in role descriptions, not in the
	// trigger lists
	cases := []struct {
		text string
		want string
	}{
		{"format this text nicely", "document"},
		{"prepare tables for the audit", "spreadsheet"},
	}
	for _, tc := range cases {
		p, err := d.Dispatch(tc.text, "")
		if err != nil {
			t.Fatalf("Dispatch(%q): %v", tc.text, err)
		}
		if got := p.Descriptor().Name; got != tc.want {
			t.Errorf("Dispatch(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestDispatchTieBreakPrefersWorkflow(t *testing.T) {
	d := newSet(t, nil)
	// one document keyword, one workflow keyword
	p, err := d.Dispatch("plan the report", "")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Descriptor().Name; got != "workflow" {
		t.Errorf("tie routed to %q, want workflow", got)
	}
}

func TestDispatchDeterministic(t *testing.T) {
	d := newSet(t, nil)
	const text = "draft a summary report"
	first, err := d.Dispatch(text, "")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		p, err := d.Dispatch(text, "")
		if err != nil {
			t.Fatal(err)
		}
		if p.Descriptor().Name != first.Descriptor().Name {
			t.Fatalf("run %d routed to %q, first run %q", i, p.Descriptor().Name, first.Descriptor().Name)
		}
	}
}

func TestDispatchHintWins(t *testing.T) {
	d := newSet(t, nil)
	p, err := d.Dispatch("write a report about sales", "spreadsheet")
	if err != nil {
		t.Fatal(err)
	}
	if p.Descriptor().Name != "spreadsheet" {
		t.Errorf("hint routed to %q", p.Descriptor().Name)
	}
}

func TestDispatchUnknownHint(t *testing.T) {
	d := newSet(t, nil)
	_, err := d.Dispatch("anything", "mailer")
	if !errors.Is(err, ErrUnknownProducer) {
		t.Fatalf("err = %v, want ErrUnknownProducer", err)
	}
	var ue *UnknownProducerError
	if !errors.As(err, &ue) || ue.Name != "mailer" {
		t.Fatalf("err = %v, want UnknownProducerError{mailer}", err)
	}
}

func TestDispatchDisabledHint(t *testing.T) {
	d := newSet(t, map[string]bool{"spreadsheet": false})
	_, err := d.Dispatch("anything", "spreadsheet")
	if !errors.Is(err, ErrNoProducerAvailable) {
		t.Fatalf("err = %v, want ErrNoProducerAvailable", err)
	}
}

func TestDispatchSkipsDisabled(t *testing.T) {
	d := newSet(t, map[string]bool{"presentation": false})
	p, err := d.Dispatch("make a deck with slides", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.Descriptor().Name == "presentation" {
		t.Error("routed to disabled producer")
	}
}

func TestDispatchWorkflowDisabledFallsBack(t *testing.T) {
	d := newSet(t, map[string]bool{"workflow": false})
	p, err := d.Dispatch("something entirely unrelated", "")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Descriptor().Name; got != "document" {
		t.Errorf("fallback routed to %q, want first enabled (document)", got)
	}
}

func TestDispatchAllDisabled(t *testing.T) {
	d := newSet(t, map[string]bool{
		"document": false, "presentation": false, "spreadsheet": false,
		"communication": false, "workflow": false,
	})
	_, err := d.Dispatch("write a report", "")
	if !errors.Is(err, ErrNoProducerAvailable) {
		t.Fatalf("err = %v, want ErrNoProducerAvailable", err)
	}
}

func TestDescriptorsOrder(t *testing.T) {
	d := newSet(t, nil)
	want := []string{"document", "presentation", "spreadsheet", "communication", "workflow"}
	descs := d.Descriptors()
	if len(descs) != len(want) {
		t.Fatalf("len = %d, want %d", len(descs), len(want))
	}
	for i, w := range want {
		if descs[i].Name != w {
			t.Errorf("descs[%d] = %q, want %q", i, descs[i].Name, w)
		}
	}
}

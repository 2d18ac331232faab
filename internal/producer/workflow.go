package producer

import (
	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/internal/planner"
	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/pkg/models"
)

// Workflow is the catch-all producer. It may use any registered capability
// and serves as the default when no other producer matches a task.
type Workflow struct {
	engine
}

func NewWorkflow(reg *registry.Registry, p planner.Planner, log zerolog.Logger, enabled bool) *Workflow {
	w := &Workflow{}
	w.engine = engine{
		desc: Descriptor{
			Name: "workflow",
			Kind: models.KindAny,
			Capabilities: []string{
				"create_document", "add_heading", "add_paragraph", "save_document",
				"create_presentation", "add_slide", "add_text_to_slide", "save_presentation",
				"create_workbook", "write_cell", "save_workbook",
				"list_files", "get_file_info", "create_folder",
			},
			Description: "Plans multi-step workflows that may span documents, presentations, and spreadsheets.",
			Enabled:     enabled,
		},
		reg:           reg,
		planner:       p,
		log:           log,
		system:        "Break the task into concrete steps across documents, presentations, and spreadsheets. Prefer the smallest set of artifacts that covers the request.",
		deterministic: w.plan,
	}
	return w
}

func (w *Workflow) plan(task models.Task) []planner.ToolCall {
	title := taskTitle(task, "Workflow Plan")
	return []planner.ToolCall{
		{Capability: "create_document", Args: registry.Args{"title": title}},
		{Capability: "add_heading", Args: registry.Args{"text": title}},
		{Capability: "add_paragraph", Args: registry.Args{"text": "1) Prepare materials\n2) Draft the deliverable\n3) Review and share"}},
		{Capability: "add_paragraph", Args: registry.Args{"text": task.Description}},
		{Capability: "save_document"},
	}
}

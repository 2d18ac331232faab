package producer

import (
	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/internal/planner"
	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/pkg/models"
)

// Document produces text documents: reports, letters, memos.
type Document struct {
	engine
}

// NewDocument creates the document producer.
func NewDocument(reg *registry.Registry, p planner.Planner, log zerolog.Logger, enabled bool) *Document {
	d := &Document{}
	d.engine = engine{
		desc: Descriptor{
			Name:         "document",
			Kind:         models.KindDocument,
			Capabilities: []string{"create_document", "add_heading", "add_paragraph", "save_document"},
			Description:  "Creates text documents such as reports, letters, memos, and write-ups.",
			Enabled:      enabled,
		},
		reg:           reg,
		planner:       p,
		log:           log,
		system:        "Write clear, well-structured documents with a heading and focused paragraphs.",
		deterministic: d.plan,
	}
	return d
}

func (d *Document) plan(task models.Task) []planner.ToolCall {
	title := taskTitle(task, "Generated Document")
	return []planner.ToolCall{
		{Capability: "create_document", Args: registry.Args{"title": title}},
		{Capability: "add_heading", Args: registry.Args{"text": title}},
		{Capability: "add_paragraph", Args: registry.Args{"text": task.Description}},
		{Capability: "add_paragraph", Args: registry.Args{"text": "Generated by deskpilot."}},
		{Capability: "save_document"},
	}
}

package producer

import (
	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/internal/planner"
	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/pkg/models"
)

// Communication drafts emails, messages, and summaries. Output is saved
// through the document capabilities.
type Communication struct {
	engine
}

func NewCommunication(reg *registry.Registry, p planner.Planner, log zerolog.Logger, enabled bool) *Communication {
	c := &Communication{}
	c.engine = engine{
		desc: Descriptor{
			Name:         "communication",
			Kind:         models.KindDocument,
			Capabilities: []string{"create_document", "add_heading", "add_paragraph", "save_document"},
			Description:  "Drafts emails, messages, replies, and communication summaries.",
			Enabled:      enabled,
		},
		reg:           reg,
		planner:       p,
		log:           log,
		system:        "Draft concise, polite correspondence. Open with a heading stating the subject, then short paragraphs.",
		deterministic: c.plan,
	}
	return c
}

func (c *Communication) plan(task models.Task) []planner.ToolCall {
	title := taskTitle(task, "Communication Summary")
	return []planner.ToolCall{
		{Capability: "create_document", Args: registry.Args{"title": title}},
		{Capability: "add_heading", Args: registry.Args{"text": title}},
		{Capability: "add_paragraph", Args: registry.Args{"text": task.Description}},
		{Capability: "add_paragraph", Args: registry.Args{"text": "Summary prepared by the communication producer."}},
		{Capability: "save_document"},
	}
}

package producer

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/internal/planner"
	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/pkg/models"
)

// Presentation produces slide decks.
type Presentation struct {
	engine
	defaultSlides int
}

// NewPresentation creates the presentation producer. defaultSlides is used
// when the task does not name a slide count.
func NewPresentation(reg *registry.Registry, p planner.Planner, log zerolog.Logger, enabled bool, defaultSlides int) *Presentation {
	if defaultSlides <= 0 {
		defaultSlides = 3
	}
	pr := &Presentation{defaultSlides: defaultSlides}
	pr.engine = engine{
		desc: Descriptor{
			Name:         "presentation",
			Kind:         models.KindPresentation,
			Capabilities: []string{"create_presentation", "add_slide", "add_text_to_slide", "save_presentation"},
			Description:  "Creates slide decks and presentations with one main point per slide.",
			Enabled:      enabled,
		},
		reg:           reg,
		planner:       p,
		log:           log,
		system:        "Create clear, minimal slides with a short title and a single main point per slide.",
		deterministic: pr.plan,
	}
	return pr
}

func (p *Presentation) plan(task models.Task) []planner.ToolCall {
	title := taskTitle(task, "Generated Presentation")
	n := taskCount(task, p.defaultSlides)

	steps := []planner.ToolCall{
		{Capability: "create_presentation", Args: registry.Args{"title": title}},
	}
	for i := 1; i <= n; i++ {
		steps = append(steps, planner.ToolCall{
			Capability: "add_slide",
			Args:       registry.Args{"text": fmt.Sprintf("%s, slide %d", title, i)},
		})
	}
	return append(steps, planner.ToolCall{Capability: "save_presentation"})
}

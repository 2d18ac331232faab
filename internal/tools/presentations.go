package tools

import (
	"context"
	"fmt"

	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/internal/workspace"
	"github.com/kweiss/deskpilot/pkg/models"
)

func (b *Builtins) presentationCapabilities() []registry.Capability {
	return []registry.Capability{
		{
			Name:        "create_presentation",
			Kind:        models.KindPresentation,
			Description: "Create a new presentation composition session.",
			Params: []registry.Param{
				{Name: "title", Type: "string", Required: true, Description: "Presentation title."},
			},
			Fn: b.createPresentation,
		},
		{
			Name:        "add_slide",
			Kind:        models.KindPresentation,
			Description: "Append a slide with text content.",
			Params: []registry.Param{
				{Name: "presentation_id", Type: "string", Required: true, Description: "Session id from create_presentation."},
				{Name: "text", Type: "string", Required: true, Description: "Slide content."},
			},
			Fn: b.addSlide,
		},
		{
			Name:        "add_text_to_slide",
			Kind:        models.KindPresentation,
			Description: "Append text to an existing slide, 1-based index.",
			Params: []registry.Param{
				{Name: "presentation_id", Type: "string", Required: true, Description: "Session id from create_presentation."},
				{Name: "slide_index", Type: "integer", Required: true, Description: "1-based slide index."},
				{Name: "text", Type: "string", Required: true, Description: "Text to append."},
			},
			Fn: b.addTextToSlide,
		},
		{
			Name:        "save_presentation",
			Kind:        models.KindPresentation,
			Description: "Save a composed presentation to disk and close the session.",
			Params: []registry.Param{
				{Name: "presentation_id", Type: "string", Required: true, Description: "Session id from create_presentation."},
			},
			Fn: b.savePresentation,
		},
	}
}

func (b *Builtins) createPresentation(ctx context.Context, args registry.Args) (registry.Args, error) {
	title, err := requireString(args, "title")
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := sessionID(b.decks, title)
	b.decks[id] = &workspace.Deck{Title: title}
	return registry.Args{"status": "ok", "presentation_id": id}, nil
}

func (b *Builtins) addSlide(ctx context.Context, args registry.Args) (registry.Args, error) {
	id, err := requireString(args, "presentation_id")
	if err != nil {
		return nil, err
	}
	text, err := requireString(args, "text")
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	deck, ok := b.decks[id]
	if !ok {
		return nil, fmt.Errorf("unknown presentation_id %q", id)
	}
	deck.Slides = append(deck.Slides, text)
	return registry.Args{"status": "ok", "presentation_id": id, "slide_count": len(deck.Slides)}, nil
}

func (b *Builtins) addTextToSlide(ctx context.Context, args registry.Args) (registry.Args, error) {
	id, err := requireString(args, "presentation_id")
	if err != nil {
		return nil, err
	}
	text, err := requireString(args, "text")
	if err != nil {
		return nil, err
	}
	idx, ok := args.Int("slide_index")
	if !ok {
		return nil, fmt.Errorf("missing required argument %q", "slide_index")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	deck, found := b.decks[id]
	if !found {
		return nil, fmt.Errorf("unknown presentation_id %q", id)
	}
	if idx < 1 || idx > len(deck.Slides) {
		return nil, fmt.Errorf("slide_index %d out of range 1..%d", idx, len(deck.Slides))
	}
	deck.Slides[idx-1] = deck.Slides[idx-1] + "\n" + text
	return registry.Args{"status": "ok", "presentation_id": id}, nil
}

func (b *Builtins) savePresentation(ctx context.Context, args registry.Args) (registry.Args, error) {
	id, err := requireString(args, "presentation_id")
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	deck, ok := b.decks[id]
	if ok {
		delete(b.decks, id)
	}
	b.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown presentation_id %q", id)
	}
	if len(deck.Slides) == 0 {
		deck.Slides = []string{"(empty)"}
	}

	decision := b.formats.Resolve(models.KindPresentation)
	var path string
	if s, rich := b.formats.Serializer(models.KindPresentation); rich {
		path, err = s.Write(*deck)
	} else {
		path, err = b.ws.SavePresentationText(deck.Title, deck.Slides)
	}
	if err != nil {
		return nil, err
	}
	return registry.Args{
		"status":      "ok",
		"path":        path,
		"kind":        string(models.KindPresentation),
		"format":      string(decision.Tier),
		"slide_count": len(deck.Slides),
	}, nil
}

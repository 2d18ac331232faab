// Package tools implements the built-in capabilities: in-memory composition
// sessions for documents, presentations, and workbooks, plus workspace file
// helpers. Sessions live until their save capability flushes them to disk
// through the format resolver.
package tools

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/internal/format"
	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/internal/workspace"
)

// Builtins owns the composition sessions and registers the built-in
// capabilities.
type Builtins struct {
	ws      *workspace.Manager
	formats *format.Resolver
	log     zerolog.Logger

	mu    sync.Mutex
	docs  map[string]*workspace.Document
	decks map[string]*workspace.Deck
	books map[string]*workspace.Workbook
}

// NewBuiltins creates the built-in capability set.
func NewBuiltins(ws *workspace.Manager, formats *format.Resolver, log zerolog.Logger) *Builtins {
	return &Builtins{
		ws:      ws,
		formats: formats,
		log:     log,
		docs:    make(map[string]*workspace.Document),
		decks:   make(map[string]*workspace.Deck),
		books:   make(map[string]*workspace.Workbook),
	}
}

// Register adds every built-in capability to the registry. A duplicate name
// is a fatal configuration error and is returned as-is.
func (b *Builtins) Register(reg *registry.Registry) error {
	caps := []registry.Capability{}
	caps = append(caps, b.documentCapabilities()...)
	caps = append(caps, b.presentationCapabilities()...)
	caps = append(caps, b.spreadsheetCapabilities()...)
	caps = append(caps, b.fileCapabilities()...)
	for _, c := range caps {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// sessionID allocates a unique session identifier derived from the title
// slug, suffixing _1, _2, ... on collision. Caller must hold b.mu.
func sessionID[T any](sessions map[string]*T, title string) string {
	id := workspace.Slugify(title)
	if _, taken := sessions[id]; !taken {
		return id
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", id, i)
		if _, taken := sessions[candidate]; !taken {
			return candidate
		}
	}
}

func requireString(args registry.Args, key string) (string, error) {
	s := args.String(key)
	if s == "" {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	return s, nil
}

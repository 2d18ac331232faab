package tools

import (
	"context"
	"fmt"

	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/internal/workspace"
	"github.com/kweiss/deskpilot/pkg/models"
)

func (b *Builtins) documentCapabilities() []registry.Capability {
	return []registry.Capability{
		{
			Name:        "create_document",
			Kind:        models.KindDocument,
			Description: "Create a new document composition session.",
			Params: []registry.Param{
				{Name: "title", Type: "string", Required: true, Description: "Document title."},
			},
			Fn: b.createDocument,
		},
		{
			Name:        "add_heading",
			Kind:        models.KindDocument,
			Description: "Add a heading to a document session.",
			Params: []registry.Param{
				{Name: "doc_id", Type: "string", Required: true, Description: "Session id from create_document."},
				{Name: "text", Type: "string", Required: true, Description: "Heading text."},
			},
			Fn: b.addHeading,
		},
		{
			Name:        "add_paragraph",
			Kind:        models.KindDocument,
			Description: "Add a paragraph to a document session.",
			Params: []registry.Param{
				{Name: "doc_id", Type: "string", Required: true, Description: "Session id from create_document."},
				{Name: "text", Type: "string", Required: true, Description: "Paragraph text."},
			},
			Fn: b.addParagraph,
		},
		{
			Name:        "save_document",
			Kind:        models.KindDocument,
			Description: "Save a composed document to disk and close the session.",
			Params: []registry.Param{
				{Name: "doc_id", Type: "string", Required: true, Description: "Session id from create_document."},
			},
			Fn: b.saveDocument,
		},
	}
}

func (b *Builtins) createDocument(ctx context.Context, args registry.Args) (registry.Args, error) {
	title, err := requireString(args, "title")
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := sessionID(b.docs, title)
	b.docs[id] = &workspace.Document{Title: title}
	return registry.Args{"status": "ok", "doc_id": id}, nil
}

func (b *Builtins) addHeading(ctx context.Context, args registry.Args) (registry.Args, error) {
	return b.appendToDocument(args, true)
}

func (b *Builtins) addParagraph(ctx context.Context, args registry.Args) (registry.Args, error) {
	return b.appendToDocument(args, false)
}

func (b *Builtins) appendToDocument(args registry.Args, heading bool) (registry.Args, error) {
	id, err := requireString(args, "doc_id")
	if err != nil {
		return nil, err
	}
	text, err := requireString(args, "text")
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	doc, ok := b.docs[id]
	if !ok {
		return nil, fmt.Errorf("unknown doc_id %q", id)
	}
	// A heading leads the document; anything later reads as a section title
	// in the plain rendering.
	if heading && len(doc.Paragraphs) == 0 {
		doc.Paragraphs = append([]string{text}, doc.Paragraphs...)
	} else {
		doc.Paragraphs = append(doc.Paragraphs, text)
	}
	return registry.Args{"status": "ok", "doc_id": id}, nil
}

func (b *Builtins) saveDocument(ctx context.Context, args registry.Args) (registry.Args, error) {
	id, err := requireString(args, "doc_id")
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	doc, ok := b.docs[id]
	if ok {
		delete(b.docs, id)
	}
	b.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown doc_id %q", id)
	}
	if len(doc.Paragraphs) == 0 {
		doc.Paragraphs = []string{doc.Title, "(empty)"}
	}

	decision := b.formats.Resolve(models.KindDocument)
	var path string
	if s, rich := b.formats.Serializer(models.KindDocument); rich {
		path, err = s.Write(*doc)
	} else {
		path, err = b.ws.SaveDocumentText(doc.Title, doc.Paragraphs)
	}
	if err != nil {
		return nil, err
	}
	return registry.Args{
		"status": "ok",
		"path":   path,
		"kind":   string(models.KindDocument),
		"format": string(decision.Tier),
	}, nil
}

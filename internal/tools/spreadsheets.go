package tools

import (
	"context"
	"fmt"

	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/internal/workspace"
	"github.com/kweiss/deskpilot/pkg/models"
)

func (b *Builtins) spreadsheetCapabilities() []registry.Capability {
	return []registry.Capability{
		{
			Name:        "create_workbook",
			Kind:        models.KindSpreadsheet,
			Description: "Create a new workbook composition session.",
			Params: []registry.Param{
				{Name: "title", Type: "string", Required: true, Description: "Workbook title."},
			},
			Fn: b.createWorkbook,
		},
		{
			Name:        "write_cell",
			Kind:        models.KindSpreadsheet,
			Description: "Write a cell value using 1-based row and column indexes.",
			Params: []registry.Param{
				{Name: "workbook_id", Type: "string", Required: true, Description: "Session id from create_workbook."},
				{Name: "row", Type: "integer", Required: true, Description: "1-based row."},
				{Name: "col", Type: "integer", Required: true, Description: "1-based column."},
				{Name: "value", Type: "any", Required: true, Description: "Cell value."},
			},
			Fn: b.writeCell,
		},
		{
			Name:        "save_workbook",
			Kind:        models.KindSpreadsheet,
			Description: "Save a composed workbook to disk and close the session.",
			Params: []registry.Param{
				{Name: "workbook_id", Type: "string", Required: true, Description: "Session id from create_workbook."},
			},
			Fn: b.saveWorkbook,
		},
	}
}

func (b *Builtins) createWorkbook(ctx context.Context, args registry.Args) (registry.Args, error) {
	title, err := requireString(args, "title")
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := sessionID(b.books, title)
	b.books[id] = &workspace.Workbook{Title: title}
	return registry.Args{"status": "ok", "workbook_id": id}, nil
}

func (b *Builtins) writeCell(ctx context.Context, args registry.Args) (registry.Args, error) {
	id, err := requireString(args, "workbook_id")
	if err != nil {
		return nil, err
	}
	row, ok := args.Int("row")
	if !ok {
		return nil, fmt.Errorf("missing required argument %q", "row")
	}
	col, ok := args.Int("col")
	if !ok {
		return nil, fmt.Errorf("missing required argument %q", "col")
	}
	if row < 1 || col < 1 {
		return nil, fmt.Errorf("row and col must be >= 1, got %d,%d", row, col)
	}
	value, ok := args["value"]
	if !ok {
		return nil, fmt.Errorf("missing required argument %q", "value")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	book, found := b.books[id]
	if !found {
		return nil, fmt.Errorf("unknown workbook_id %q", id)
	}
	for len(book.Rows) < row {
		book.Rows = append(book.Rows, nil)
	}
	for len(book.Rows[row-1]) < col {
		book.Rows[row-1] = append(book.Rows[row-1], "")
	}
	book.Rows[row-1][col-1] = fmt.Sprint(value)
	return registry.Args{"status": "ok", "workbook_id": id}, nil
}

func (b *Builtins) saveWorkbook(ctx context.Context, args registry.Args) (registry.Args, error) {
	id, err := requireString(args, "workbook_id")
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	book, ok := b.books[id]
	if ok {
		delete(b.books, id)
	}
	b.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown workbook_id %q", id)
	}
	if len(book.Rows) == 0 {
		book.Rows = [][]string{{"(empty)"}}
	}

	decision := b.formats.Resolve(models.KindSpreadsheet)
	var path string
	if s, rich := b.formats.Serializer(models.KindSpreadsheet); rich {
		path, err = s.Write(*book)
	} else {
		path, err = b.ws.SaveWorkbookText(book.Title, book.Rows)
	}
	if err != nil {
		return nil, err
	}
	return registry.Args{
		"status": "ok",
		"path":   path,
		"kind":   string(models.KindSpreadsheet),
		"format": string(decision.Tier),
	}, nil
}

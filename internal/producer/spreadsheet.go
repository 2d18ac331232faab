package producer

import (
	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/internal/planner"
	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/pkg/models"
)

// Spreadsheet produces workbooks with tabular data.
type Spreadsheet struct {
	engine
}

func NewSpreadsheet(reg *registry.Registry, p planner.Planner, log zerolog.Logger, enabled bool) *Spreadsheet {
	s := &Spreadsheet{}
	s.engine = engine{
		desc: Descriptor{
			Name:         "spreadsheet",
			Kind:         models.KindSpreadsheet,
			Capabilities: []string{"create_workbook", "write_cell", "save_workbook"},
			Description:  "Builds spreadsheets, workbooks, tables, and other tabular data.",
			Enabled:      enabled,
		},
		reg:           reg,
		planner:       p,
		log:           log,
		system:        "Lay out tabular data with a header row followed by data rows. Use 1-based row and column indexes.",
		deterministic: s.plan,
	}
	return s
}

func (s *Spreadsheet) plan(task models.Task) []planner.ToolCall {
	title := taskTitle(task, "Generated Workbook")
	return []planner.ToolCall{
		{Capability: "create_workbook", Args: registry.Args{"title": title}},
		{Capability: "write_cell", Args: registry.Args{"row": 1, "col": 1, "value": "Item"}},
		{Capability: "write_cell", Args: registry.Args{"row": 1, "col": 2, "value": "Value"}},
		{Capability: "write_cell", Args: registry.Args{"row": 2, "col": 1, "value": "Example"}},
		{Capability: "write_cell", Args: registry.Args{"row": 2, "col": 2, "value": 1}},
		{Capability: "save_workbook"},
	}
}

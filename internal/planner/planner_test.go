package planner

import (
	"strings"
	"testing"

	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/pkg/models"
)

func TestToolDefinitions(t *testing.T) {
	caps := []registry.Capability{
		{
			Name:        "create_document",
			Kind:        models.KindDocument,
			Description: "Create a document session.",
			Params: []registry.Param{
				{Name: "title", Type: "string", Required: true, Description: "Title."},
				{Name: "tags", Type: "any", Required: false},
			},
		},
	}

	tools := toolDefinitions(caps)
	if len(tools) != 1 {
		t.Fatalf("got %d tools, want 1", len(tools))
	}
	tool := tools[0].OfTool
	if tool.Name != "create_document" {
		t.Errorf("tool name = %q", tool.Name)
	}
	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "title" {
		t.Errorf("required = %v, want [title]", tool.InputSchema.Required)
	}
	prop, ok := tool.InputSchema.Properties.(map[string]interface{})["tags"].(map[string]interface{})
	if !ok {
		t.Fatal("tags property missing")
	}
	if prop["type"] != "string" {
		t.Errorf(`"any" params should map to string schema, got %v`, prop["type"])
	}
}

func TestPlanningPromptIncludesContext(t *testing.T) {
	prompt := planningPrompt(Request{
		Task: models.Task{
			Description: "Create a report",
			Context:     map[string]any{"title": "Q3"},
		},
	})
	if !strings.Contains(prompt, "Create a report") {
		t.Errorf("prompt missing task text: %q", prompt)
	}
	if !strings.Contains(prompt, `"title":"Q3"`) {
		t.Errorf("prompt missing context: %q", prompt)
	}
}

func TestPlanningSystemAppendsRole(t *testing.T) {
	base := planningSystem("")
	withRole := planningSystem("Create minimal slides.")
	if !strings.HasPrefix(withRole, base) {
		t.Error("role prompt should extend the base system prompt")
	}
	if !strings.Contains(withRole, "Create minimal slides.") {
		t.Error("role prompt missing")
	}
}

func TestTranslateModelForBedrock(t *testing.T) {
	got := translateModelForBedrock("us.anthropic.claude-sonnet-4-5-20250929-v1:0")
	if got != "us.anthropic.claude-sonnet-4-5-20250929-v1:0" {
		t.Errorf("already-translated model changed: %s", got)
	}
	custom := translateModelForBedrock("my-custom-model")
	if custom != "my-custom-model" {
		t.Errorf("unknown model should pass through, got %s", custom)
	}
}

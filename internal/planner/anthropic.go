package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/internal/registry"
)

// AnthropicConfig contains configuration for the Anthropic planner.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY.
	APIKey string
	// Model is the model to plan with.
	Model anthropic.Model
	// MaxTokens bounds a single planning response.
	MaxTokens int
	// UseBedrock routes requests through AWS Bedrock instead of the API.
	UseBedrock bool
	// AWSRegion is the AWS region for Bedrock.
	AWSRegion string
	// AWSProfile is the optional AWS profile name.
	AWSProfile string
}

// Anthropic plans capability invocations with a single tool-choice round
// against the Messages API.
type Anthropic struct {
	inner     anthropic.Client
	model     anthropic.Model
	maxTokens int
	log       zerolog.Logger
}

// NewAnthropic creates an Anthropic-backed planner.
func NewAnthropic(cfg AnthropicConfig, log zerolog.Logger) (*Anthropic, error) {
	var opts []option.RequestOption

	if cfg.UseBedrock {
		ctx := context.Background()
		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
		}
		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("anthropic API key is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_5_20250929
	}
	if cfg.UseBedrock {
		model = translateModelForBedrock(model)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	return &Anthropic{
		inner:     anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
		log:       log,
	}, nil
}

// translateModelForBedrock converts standard model names to Bedrock
// cross-region inference profile format.
func translateModelForBedrock(model anthropic.Model) anthropic.Model {
	if strings.HasPrefix(string(model), "us.anthropic") {
		return model
	}
	bedrockModels := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_5_20250929: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.ModelClaudeHaiku4_5_20251001:  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaudeOpus4_5_20251101:   "us.anthropic.claude-opus-4-5-20251101-v1:0",
	}
	if m, ok := bedrockModels[model]; ok {
		return anthropic.Model(m)
	}
	return model
}

// Plan asks the model for an ordered set of tool calls constrained to the
// allow-listed capability menu. A response with no tool use is a decline.
func (a *Anthropic) Plan(ctx context.Context, req Request) (*Plan, error) {
	resp, err := a.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: int64(a.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: planningSystem(req.System)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(planningPrompt(req))),
		},
		Tools: toolDefinitions(req.Tools),
	})
	if err != nil {
		return nil, fmt.Errorf("planning call failed: %w", err)
	}

	allowed := make(map[string]bool, len(req.Tools))
	for _, t := range req.Tools {
		allowed[t.Name] = true
	}

	plan := &Plan{}
	for _, block := range resp.Content {
		variant, ok := block.AsAny().(anthropic.ToolUseBlock)
		if !ok {
			continue
		}
		if !allowed[variant.Name] {
			a.log.Warn().Str("capability", variant.Name).Msg("planner proposed a capability outside the allow-list, dropping")
			continue
		}
		args := registry.Args{}
		if len(variant.Input) > 0 {
			if err := json.Unmarshal(variant.Input, &args); err != nil {
				return nil, fmt.Errorf("decoding planned arguments for %s: %w", variant.Name, err)
			}
		}
		plan.Steps = append(plan.Steps, ToolCall{Capability: variant.Name, Args: args})
	}

	if len(plan.Steps) == 0 {
		return nil, ErrNoPlan
	}
	return plan, nil
}

func planningSystem(role string) string {
	base := "You plan office-artifact production by emitting tool calls in execution order. " +
		"Emit every call needed to create and save the artifact in one response. " +
		"Session id arguments (doc_id, presentation_id, workbook_id) from earlier calls are filled in automatically and may be omitted. " +
		"If the task cannot be served with the available tools, reply with text only and no tool calls."
	if role == "" {
		return base
	}
	return base + "\n\n" + role
}

func planningPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Task: " + req.Task.Description + "\n")
	if len(req.Task.Context) > 0 {
		if data, err := json.Marshal(req.Task.Context); err == nil {
			b.WriteString("Context: " + string(data) + "\n")
		}
	}
	return b.String()
}

// toolDefinitions converts allow-listed capabilities into Anthropic tool
// definitions.
func toolDefinitions(caps []registry.Capability) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, 0, len(caps))
	for _, c := range caps {
		properties := map[string]interface{}{}
		var required []string
		for _, p := range c.Params {
			typ := p.Type
			if typ == "" || typ == "any" {
				typ = "string"
			}
			properties[p.Name] = map[string]interface{}{
				"type":        typ,
				"description": p.Description,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		tools = append(tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        c.Name,
				Description: anthropic.String(c.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: properties,
					Required:   required,
				},
			},
		})
	}
	return tools
}

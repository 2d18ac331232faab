package main

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/internal/config"
	"github.com/kweiss/deskpilot/internal/dispatch"
	"github.com/kweiss/deskpilot/internal/format"
	"github.com/kweiss/deskpilot/internal/logging"
	"github.com/kweiss/deskpilot/internal/orchestrator"
	"github.com/kweiss/deskpilot/internal/planner"
	"github.com/kweiss/deskpilot/internal/producer"
	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/internal/tools"
	"github.com/kweiss/deskpilot/internal/tracker"
	"github.com/kweiss/deskpilot/internal/workspace"
)

// app is the fully wired process state shared by the CLI commands.
type app struct {
	cfg  *config.Config
	log  zerolog.Logger
	ws   *workspace.Manager
	orch *orchestrator.Orchestrator
}

// buildApp loads configuration and wires the workspace, capability registry,
// producers, dispatcher, tracker, and orchestrator.
func buildApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	ws, err := workspace.New(cfg.Workspace.Dir)
	if err != nil {
		return nil, fmt.Errorf("init workspace: %w", err)
	}

	reg := registry.New()
	formats := format.NewResolver(logging.Component(log, "format"))
	builtins := tools.NewBuiltins(ws, formats, logging.Component(log, "tools"))
	if err := builtins.Register(reg); err != nil {
		return nil, fmt.Errorf("register capabilities: %w", err)
	}

	p := buildPlanner(cfg, log)

	plog := logging.Component(log, "producer")
	d := dispatch.New(logging.Component(log, "dispatch"),
		producer.NewDocument(reg, p, plog, cfg.Producers.Document),
		producer.NewPresentation(reg, p, plog, cfg.Producers.Presentation, cfg.Defaults.SlideCount),
		producer.NewSpreadsheet(reg, p, plog, cfg.Producers.Spreadsheet),
		producer.NewCommunication(reg, p, plog, cfg.Producers.Communication),
		producer.NewWorkflow(reg, p, plog, cfg.Producers.Workflow),
	)

	tr := tracker.New(logging.Component(log, "tracker"), cfg.Tracker.RecentRingSize)
	orch := orchestrator.New(d, tr, logging.Component(log, "orchestrator"),
		orchestrator.WithTimeout(cfg.Defaults.TaskTimeout))

	return &app{cfg: cfg, log: log, ws: ws, orch: orch}, nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// buildPlanner returns the Anthropic collaborator when credentials are
// configured, nil otherwise. A nil planner means deterministic plans only.
func buildPlanner(cfg *config.Config, log zerolog.Logger) planner.Planner {
	if cfg.Planner.APIKey == "" && !cfg.Planner.UseBedrock {
		log.Debug().Msg("no planner credentials, using deterministic plans")
		return nil
	}
	a, err := planner.NewAnthropic(planner.AnthropicConfig{
		APIKey:     cfg.Planner.APIKey,
		Model:      anthropic.Model(cfg.Planner.Model),
		MaxTokens:  cfg.Planner.MaxTokens,
		UseBedrock: cfg.Planner.UseBedrock,
		AWSRegion:  cfg.Planner.AWSRegion,
		AWSProfile: cfg.Planner.AWSProfile,
	}, logging.Component(log, "planner"))
	if err != nil {
		log.Warn().Err(err).Msg("planner unavailable, using deterministic plans")
		return nil
	}
	return a
}

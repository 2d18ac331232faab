package producer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/internal/planner"
	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/pkg/models"
)

// engine is the shared run loop every variant embeds. Variants differ only in
// their descriptor, system prompt, and deterministic plan.
type engine struct {
	desc    Descriptor
	reg     *registry.Registry
	planner planner.Planner
	log     zerolog.Logger
	system  string
	// deterministic builds the fallback plan used when no collaborator is
	// configured or it declines.
	deterministic func(task models.Task) []planner.ToolCall
}

// Descriptor returns the producer's static metadata.
func (e *engine) Descriptor() Descriptor {
	return e.desc
}

// Run executes the task and blocks until a terminal outcome.
func (e *engine) Run(ctx context.Context, task models.Task) (*models.ExecutionOutcome, error) {
	steps := e.planSteps(ctx, task)
	return e.execute(ctx, task, steps, nil)
}

// RunStreaming executes the task, emitting one chunk per completed step and
// a final terminal chunk with the full outcome.
func (e *engine) RunStreaming(ctx context.Context, task models.Task) <-chan models.ExecutionChunk {
	ch := make(chan models.ExecutionChunk)
	go func() {
		defer close(ch)
		steps := e.planSteps(ctx, task)
		outcome, err := e.execute(ctx, task, steps, func(c models.ExecutionChunk) {
			c.TaskID = task.ID
			ch <- c
		})
		final := models.ExecutionChunk{
			TaskID:    task.ID,
			StepIndex: outcome.Steps,
			Done:      true,
			Status:    StatusFromErr(err),
			Outcome:   outcome,
		}
		if err != nil {
			final.Error = err.Error()
		}
		ch <- final
	}()
	return ch
}

// StatusFromErr maps a run error to the terminal execution status.
func StatusFromErr(err error) models.ExecutionStatus {
	switch {
	case err == nil:
		return models.StatusCompleted
	case errors.Is(err, ErrCancelled):
		return models.StatusCancelled
	default:
		return models.StatusFailed
	}
}

// planSteps selects the capability plan: assisted when a collaborator is
// configured and willing, deterministic otherwise. Both paths produce plans
// executed identically by execute.
func (e *engine) planSteps(ctx context.Context, task models.Task) []planner.ToolCall {
	if e.planner == nil {
		return e.deterministic(task)
	}
	plan, err := e.planner.Plan(ctx, planner.Request{
		Task:   task,
		System: e.system,
		Tools:  e.allowed(),
	})
	switch {
	case err == nil && len(plan.Steps) > 0:
		return e.filterAllowed(plan.Steps)
	case errors.Is(err, planner.ErrNoPlan):
		e.log.Debug().Str("producer", e.desc.Name).Msg("planner declined, using deterministic plan")
	case err != nil:
		e.log.Warn().Str("producer", e.desc.Name).Err(err).Msg("planner failed, using deterministic plan")
	}
	return e.deterministic(task)
}

// allowed resolves the producer's capability allow-list against the registry.
func (e *engine) allowed() []registry.Capability {
	caps := make([]registry.Capability, 0, len(e.desc.Capabilities))
	for _, name := range e.desc.Capabilities {
		c, err := e.reg.Resolve(name)
		if err != nil {
			e.log.Warn().Str("producer", e.desc.Name).Str("capability", name).Msg("allow-listed capability not registered")
			continue
		}
		caps = append(caps, c)
	}
	return caps
}

// filterAllowed drops planned steps outside the allow-list. Defensive against
// collaborators that ignore the menu.
func (e *engine) filterAllowed(steps []planner.ToolCall) []planner.ToolCall {
	allowed := make(map[string]bool, len(e.desc.Capabilities))
	for _, name := range e.desc.Capabilities {
		allowed[name] = true
	}
	out := steps[:0]
	for _, s := range steps {
		if allowed[s.Capability] {
			out = append(out, s)
		}
	}
	return out
}

// execute runs the plan strictly in order. A capability failure aborts the
// remaining steps; cancellation and timeout are checked between steps, never
// mid-invocation. Session id results (doc_id, presentation_id, workbook_id)
// are threaded into later steps that omit them.
func (e *engine) execute(ctx context.Context, task models.Task, steps []planner.ToolCall, emit func(models.ExecutionChunk)) (*models.ExecutionOutcome, error) {
	start := time.Now()
	outcome := &models.ExecutionOutcome{Status: models.OutcomeSuccess}
	state := registry.Args{}

	fail := func(err error) (*models.ExecutionOutcome, error) {
		outcome.Status = models.OutcomeError
		outcome.Error = err.Error()
		outcome.Elapsed = time.Since(start)
		return outcome, err
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fail(fmt.Errorf("%w after step %d", ErrTimeout, i))
			}
			return fail(fmt.Errorf("%w after step %d", ErrCancelled, i))
		}

		c, err := e.reg.Resolve(step.Capability)
		if err != nil {
			return fail(&registry.InvocationError{Capability: step.Capability, Cause: err})
		}

		args := registry.Args{}
		for k, v := range step.Args {
			args[k] = v
		}
		for _, p := range c.Params {
			if _, set := args[p.Name]; !set {
				if v, ok := state[p.Name]; ok {
					args[p.Name] = v
				}
			}
		}

		result, err := e.reg.Invoke(ctx, step.Capability, args)
		if err != nil {
			return fail(err)
		}

		for k, v := range result {
			if strings.HasSuffix(k, "_id") {
				state[k] = v
			}
		}
		if artifact, ok := artifactFromResult(c, result); ok {
			outcome.Artifacts = append(outcome.Artifacts, artifact)
		}
		outcome.Steps++

		if emit != nil {
			emit(models.ExecutionChunk{
				StepIndex: i,
				Step:      step.Capability,
				Detail:    stepDetail(result),
			})
		}
	}

	outcome.Summary = fmt.Sprintf("%s producer completed %d step(s), %d artifact(s)",
		e.desc.Name, outcome.Steps, len(outcome.Artifacts))
	outcome.Elapsed = time.Since(start)
	return outcome, nil
}

// artifactFromResult interprets a capability result that wrote an artifact.
// Save results carry both a path and a format tier; results that merely
// reference a path (get_file_info) are not artifacts.
func artifactFromResult(c registry.Capability, result registry.Args) (models.Artifact, bool) {
	path := result.String("path")
	tier := models.FormatTier(result.String("format"))
	if path == "" || (tier != models.TierRich && tier != models.TierPlain) {
		return models.Artifact{}, false
	}
	kind := models.ArtifactKind(result.String("kind"))
	if !kind.Valid() {
		kind = c.Kind
	}
	return models.Artifact{Kind: kind, Path: path, Tier: tier}, true
}

func stepDetail(result registry.Args) string {
	if path := result.String("path"); path != "" {
		return "wrote " + path
	}
	return result.String("status")
}

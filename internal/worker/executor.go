// Package worker executes one agent role against an objective under a turn
// budget and normalizes the outcome into a WorkerResult.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hiveflow/hiveflow/internal/catalog"
	"github.com/hiveflow/hiveflow/internal/llm"
	"github.com/hiveflow/hiveflow/pkg/models"
)

// StepHandler receives per-iteration progress from a running worker.
type StepHandler func(workerID, role string, step llm.StepInfo)

// Executor runs worker configs against the LLM execution capability.
type Executor struct {
	capability llm.Capability
	catalog    *catalog.Catalog
	logger     *zap.Logger
	onStep     StepHandler
}

// ExecutorConfig contains the dependencies for an Executor.
type ExecutorConfig struct {
	// Capability is the LLM execution capability. Required.
	Capability llm.Capability
	// Catalog resolves role profiles. Required.
	Catalog *catalog.Catalog
	// Logger is the structured logger. Defaults to a no-op logger.
	Logger *zap.Logger
	// OnStep, if set, receives per-iteration progress callbacks.
	OnStep StepHandler
}

// NewExecutor creates an Executor.
func NewExecutor(cfg ExecutorConfig) *Executor {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		capability: cfg.Capability,
		catalog:    cfg.Catalog,
		logger:     logger,
		onStep:     cfg.OnStep,
	}
}

// NewWorkerID generates a unique worker id for the given role.
func NewWorkerID(role string) string {
	return role + "-" + uuid.New().String()[:8]
}

// Execute runs one worker to completion under a freshly generated id. It
// never returns an error: any failure raised by the execution capability,
// including budget exhaustion and transport faults, is caught and
// normalized into the result so one worker's failure can never abort its
// siblings.
func (e *Executor) Execute(ctx context.Context, cfg models.WorkerConfig) models.WorkerResult {
	return e.ExecuteWithID(ctx, NewWorkerID(cfg.Role), cfg)
}

// ExecuteWithID runs one worker under a caller-assigned id, letting the
// orchestrator register the worker for targeted interrupts before it
// starts.
func (e *Executor) ExecuteWithID(ctx context.Context, workerID string, cfg models.WorkerConfig) models.WorkerResult {
	start := time.Now()

	result := models.WorkerResult{
		WorkerID:  workerID,
		Role:      cfg.Role,
		Artifacts: []string{},
	}

	profile := e.catalog.Describe(cfg.Role)

	e.logger.Info("worker starting",
		zap.String("worker_id", workerID),
		zap.String("role", cfg.Role),
		zap.Int("max_turns", cfg.MaxTurns))

	completion, err := e.capability.Complete(ctx, llm.Request{
		Instructions: buildInstructions(profile, cfg),
		Prompt:       cfg.Objective,
		Tools:        profile.Tools,
		MaxTurns:     cfg.MaxTurns,
		OnStep: func(step llm.StepInfo) {
			if e.onStep != nil {
				e.onStep(workerID, cfg.Role, step)
			}
		},
	})

	result.Duration = time.Since(start)

	if err != nil {
		result.Err = normalizeError(err)
		e.logger.Warn("worker failed",
			zap.String("worker_id", workerID),
			zap.String("role", cfg.Role),
			zap.String("kind", result.Err.Kind),
			zap.Error(err))
		return result
	}

	result.Success = true
	result.Output = completion.Text
	result.TokensUsed = models.TokenUsage{
		Input:  completion.Usage.InputTokens,
		Output: completion.Usage.OutputTokens,
		Total:  completion.Usage.InputTokens + completion.Usage.OutputTokens,
	}
	result.Artifacts = ExtractArtifacts(completion.Text)
	if result.Artifacts == nil {
		result.Artifacts = []string{}
	}

	e.logger.Info("worker completed",
		zap.String("worker_id", workerID),
		zap.String("role", cfg.Role),
		zap.Int("artifacts", len(result.Artifacts)),
		zap.Int64("tokens", result.TokensUsed.Total),
		zap.Duration("duration", result.Duration))

	return result
}

// normalizeError maps a capability failure to the result's error record.
func normalizeError(err error) *models.WorkerError {
	var capErr *llm.CapabilityError
	if errors.As(err, &capErr) {
		return &models.WorkerError{
			Kind:    string(capErr.Kind),
			Message: capErr.Message,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &models.WorkerError{
			Kind:    string(llm.ErrInterrupted),
			Message: "execution interrupted",
		}
	}
	return &models.WorkerError{
		Kind:    "execution",
		Message: err.Error(),
	}
}

// buildInstructions assembles the worker's system briefing from its role
// profile and the shared orchestration context.
func buildInstructions(profile catalog.RoleProfile, cfg models.WorkerConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a %s agent working on a shared objective.\n\n", cfg.Role)
	fmt.Fprintf(&b, "Capabilities: %s\n\n", profile.Description)
	fmt.Fprintf(&b, "The objective was classified as %q with complexity %d/10.\n",
		cfg.Context.Archetype, cfg.Context.Analysis.Complexity)

	if len(cfg.Context.Analysis.Dependencies) > 0 {
		fmt.Fprintf(&b, "Declared dependencies: %s.\n",
			strings.Join(cfg.Context.Analysis.Dependencies, ", "))
	}

	if len(cfg.Context.Todos) > 0 {
		b.WriteString("\nShared plan:\n")
		for _, todo := range cfg.Context.Todos {
			fmt.Fprintf(&b, "- [%s] %s\n", todo.Priority, todo.Content)
		}
	}

	if len(cfg.Context.Constraints) > 0 {
		b.WriteString("\nConstraints:\n")
		for _, constraint := range cfg.Context.Constraints {
			fmt.Fprintf(&b, "- %s\n", constraint)
		}
	}

	if cfg.Context.MemoryPrefix != "" {
		fmt.Fprintf(&b, "\nShared memory for this objective lives under the key prefix %q. "+
			"Earlier workers may have recorded findings there.\n", cfg.Context.MemoryPrefix)
	}

	b.WriteString("\nWhen you create or modify records, state their ids explicitly in your final summary.")
	return b.String()
}

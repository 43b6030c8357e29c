package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hiveflow/hiveflow/internal/catalog"
	"github.com/hiveflow/hiveflow/internal/llm"
	"github.com/hiveflow/hiveflow/internal/memory"
	"github.com/hiveflow/hiveflow/internal/worker"
	"github.com/hiveflow/hiveflow/pkg/models"
)

// ErrObjectiveExists is returned when an objective id already has a
// persisted result. Results are append-only at objective-id granularity:
// a rerun must use a fresh id rather than overwrite the audit record.
var ErrObjectiveExists = errors.New("objective id already has a persisted result")

// Orchestrator coordinates the entire pipeline from objective to persisted
// outcome: analyze -> plan -> strategize -> execute -> aggregate -> persist.
// One instance may run multiple objectives over its lifetime, one at a time
// per Orchestrate call; its registry of active workers is instance-owned,
// never process-global.
type Orchestrator struct {
	store      memory.Store
	capability llm.Capability
	catalog    *catalog.Catalog
	emitter    *EventEmitter
	registry   *Registry
	analyzer   *Analyzer
	logger     *zap.Logger
	maxTurns   int

	signals *SignalWatcher
}

// New creates an Orchestrator from required config and options.
func New(req RequiredConfig, opts ...Option) (*Orchestrator, error) {
	if req.Store == nil {
		return nil, fmt.Errorf("coordination store is required")
	}
	if req.Capability == nil {
		return nil, fmt.Errorf("execution capability is required")
	}

	o := orchestratorOptions{
		maxTurns:    defaultMaxTurns,
		eventBuffer: 100,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.catalog == nil {
		o.catalog = catalog.New()
	}

	orch := &Orchestrator{
		store:      req.Store,
		capability: req.Capability,
		catalog:    o.catalog,
		emitter:    NewEventEmitter(o.eventBuffer, o.logger),
		registry:   NewRegistry(),
		analyzer:   NewAnalyzer(req.Store, o.logger),
		logger:     o.logger,
		maxTurns:   o.maxTurns,
	}

	if o.signalDir != "" {
		watcher, err := NewSignalWatcher(o.signalDir, func(workerID string) {
			orch.Interrupt(workerID)
		}, o.logger)
		if err != nil {
			return nil, fmt.Errorf("start signal watcher: %w", err)
		}
		orch.signals = watcher
	}

	return orch, nil
}

// Events returns the read-only lifecycle event channel.
func (orch *Orchestrator) Events() <-chan Event {
	return orch.emitter.Events()
}

// CloseEvents closes the lifecycle event channel. Call only after any
// in-flight Orchestrate call has returned.
func (orch *Orchestrator) CloseEvents() {
	orch.emitter.Close()
}

// Close releases the orchestrator's resources. It does not close the
// coordination store, which the caller owns.
func (orch *Orchestrator) Close() error {
	if orch.signals != nil {
		return orch.signals.Close()
	}
	return nil
}

// OrchestrateText synthesizes an Objective from a raw description and
// orchestrates it.
func (orch *Orchestrator) OrchestrateText(ctx context.Context, description string) (*models.OrchestrationResult, error) {
	return orch.Orchestrate(ctx, models.NewObjective(description))
}

// Orchestrate runs the full pipeline for one objective and returns its
// aggregated, persisted result.
//
// Worker failures never fail the call: they are isolated into the result's
// WorkerResults with Success=false. Infrastructure failures (coordination
// store unreachable during analysis, planning, or final persistence) emit
// orchestration:failed and return an error with nothing persisted for the
// failed stage.
func (orch *Orchestrator) Orchestrate(ctx context.Context, objective *models.Objective) (*models.OrchestrationResult, error) {
	if objective == nil || objective.Description == "" {
		return nil, fmt.Errorf("objective description is required")
	}
	if objective.ID == "" {
		return nil, fmt.Errorf("objective id is required")
	}

	// Reuse policy: reject. The persisted result is an append-only audit
	// record per objective id.
	var existing models.OrchestrationResult
	found, err := orch.store.Get(ctx, memory.ResultKey(objective.ID), &existing)
	if err != nil {
		return nil, fmt.Errorf("check objective id: %w", err)
	}
	if found {
		return nil, fmt.Errorf("objective %s: %w", objective.ID, ErrObjectiveExists)
	}

	start := time.Now()
	orch.emit(Event{
		Type:        EventOrchestrationStarted,
		ObjectiveID: objective.ID,
		Message:     objective.Description,
	})

	analysis, err := orch.analyzer.Analyze(ctx, objective)
	if err != nil {
		return nil, orch.fail(objective.ID, fmt.Errorf("analyze objective: %w", err))
	}

	todos := GeneratePlan(objective, analysis)
	if err := orch.store.Store(ctx, memory.PlanKey(objective.ID), todos); err != nil {
		return nil, orch.fail(objective.ID, fmt.Errorf("persist plan: %w", err))
	}

	strategy := Decide(analysis.RequiredRoles, analysis)
	orch.logger.Info("execution strategy decided",
		zap.String("objective_id", objective.ID),
		zap.String("mode", string(strategy.Mode)),
		zap.String("reason", strategy.Reason))

	configs := orch.buildWorkerConfigs(objective, analysis, todos)

	var results []models.WorkerResult
	if strategy.Mode == ModeConcurrent {
		results = orch.executeConcurrent(ctx, objective.ID, configs)
	} else {
		results = orch.executeSequential(ctx, objective.ID, configs)
	}

	success, artifacts := Aggregate(results)

	result := &models.OrchestrationResult{
		ObjectiveID:      objective.ID,
		Success:          success,
		AgentsSpawned:    len(configs),
		ArtifactsCreated: artifacts,
		TotalDuration:    time.Since(start),
		WorkerResults:    results,
		Todos:            todos,
	}

	if err := orch.store.Store(ctx, memory.ResultKey(objective.ID), result); err != nil {
		return nil, orch.fail(objective.ID, fmt.Errorf("persist result: %w", err))
	}

	orch.emit(Event{
		Type:        EventOrchestrationCompleted,
		ObjectiveID: objective.ID,
		Message:     fmt.Sprintf("%d workers, %d artifacts, success=%t", len(results), len(artifacts), success),
	})

	return result, nil
}

// buildWorkerConfigs creates one config per required role, each carrying
// the full analysis and plan as shared context.
func (orch *Orchestrator) buildWorkerConfigs(objective *models.Objective, analysis *models.Analysis, todos []models.TodoItem) []models.WorkerConfig {
	configs := make([]models.WorkerConfig, 0, len(analysis.RequiredRoles))
	for _, role := range analysis.RequiredRoles {
		configs = append(configs, models.WorkerConfig{
			Role:      role,
			Objective: objective.Description,
			Context: models.WorkerContext{
				Archetype:    analysis.Archetype,
				Analysis:     *analysis,
				Todos:        todos,
				MemoryPrefix: memory.ObjectivePrefix(objective.ID),
				Constraints:  objective.Constraints,
			},
			MaxTurns: orch.maxTurns,
		})
	}
	return configs
}

// executeConcurrent runs all workers at once and joins on completion.
// Results are kept in role declaration order regardless of completion
// order; there is no ordering guarantee between workers' execution.
func (orch *Orchestrator) executeConcurrent(ctx context.Context, objectiveID string, configs []models.WorkerConfig) []models.WorkerResult {
	results := make([]models.WorkerResult, len(configs))
	var wg sync.WaitGroup

	for i, cfg := range configs {
		wg.Add(1)
		go func(slot int, cfg models.WorkerConfig) {
			defer wg.Done()
			results[slot] = orch.runWorker(ctx, objectiveID, cfg)
		}(i, cfg)
	}

	wg.Wait()
	return results
}

// executeSequential runs workers strictly in role declaration order. Each
// worker's store write completes before the next spawn, so later workers
// can observe earlier workers' records through the coordination store.
func (orch *Orchestrator) executeSequential(ctx context.Context, objectiveID string, configs []models.WorkerConfig) []models.WorkerResult {
	results := make([]models.WorkerResult, 0, len(configs))
	for _, cfg := range configs {
		results = append(results, orch.runWorker(ctx, objectiveID, cfg))
	}
	return results
}

// runWorker executes one worker with its own cancelable context, tracks it
// in the registry for targeted interrupts, emits its lifecycle events, and
// best-effort persists its result record.
func (orch *Orchestrator) runWorker(ctx context.Context, objectiveID string, cfg models.WorkerConfig) models.WorkerResult {
	workerID := worker.NewWorkerID(cfg.Role)
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	orch.registry.Track(workerID, cfg.Role, cancel)
	defer orch.registry.Release(workerID)

	orch.emit(Event{
		Type:        EventWorkerSpawning,
		ObjectiveID: objectiveID,
		WorkerID:    workerID,
		Role:        cfg.Role,
	})

	executor := worker.NewExecutor(worker.ExecutorConfig{
		Capability: orch.capability,
		Catalog:    orch.catalog,
		Logger:     orch.logger,
		OnStep: func(workerID, role string, step llm.StepInfo) {
			orch.emit(Event{
				Type:        EventWorkerStep,
				ObjectiveID: objectiveID,
				WorkerID:    workerID,
				Role:        role,
				Turn:        step.Turn,
				Message:     step.Text,
			})
		},
	})

	result := executor.ExecuteWithID(workerCtx, workerID, cfg)

	eventType := EventWorkerCompleted
	var eventErr error
	announce := true
	if !result.Success {
		eventType = EventWorkerFailed
		eventErr = result.Err
		if result.Err != nil && result.Err.Kind == string(llm.ErrInterrupted) {
			eventType = EventWorkerInterrupted
			// A targeted Interrupt already removed the worker from the
			// registry and announced it; re-emitting here would be noise.
			// Parent-context cancellation leaves the worker registered, so
			// that path still announces.
			announce = orch.registry.Active(workerID)
		}
	}
	if announce {
		orch.emit(Event{
			Type:        eventType,
			ObjectiveID: objectiveID,
			WorkerID:    workerID,
			Role:        cfg.Role,
			Error:       eventErr,
		})
	}

	// Worker records are best-effort shared context, not the audit
	// record; a failed write degrades later workers' visibility only.
	if err := orch.store.Store(ctx, memory.WorkerKey(objectiveID, workerID), result); err != nil {
		orch.logger.Warn("persist worker record failed",
			zap.String("worker_id", workerID),
			zap.Error(err))
	}

	return result
}

// Interrupt cancels the identified worker and emits worker:interrupted.
// Siblings are unaffected; the orchestration still awaits the remaining
// workers. Returns false if no such worker is active.
func (orch *Orchestrator) Interrupt(workerID string) bool {
	role, ok := orch.registry.Interrupt(workerID)
	if !ok {
		return false
	}
	orch.emit(Event{
		Type:     EventWorkerInterrupted,
		WorkerID: workerID,
		Role:     role,
		Message:  "interrupted by request",
	})
	return true
}

// MonitorProgress reports the status of an objective from its persisted
// result. An objective with no persisted result yields a zero-value
// Progress (plus any of this instance's in-flight workers), never an error.
func (orch *Orchestrator) MonitorProgress(ctx context.Context, objectiveID string) (models.Progress, error) {
	var result models.OrchestrationResult
	found, err := orch.store.Get(ctx, memory.ResultKey(objectiveID), &result)
	if err != nil {
		return models.Progress{}, fmt.Errorf("read result: %w", err)
	}
	if !found {
		return models.Progress{AgentsActive: orch.registry.ActiveCount()}, nil
	}
	return models.Progress{
		Overall:          100,
		AgentsActive:     0,
		ArtifactsCreated: len(result.ArtifactsCreated),
	}, nil
}

// fail emits orchestration:failed and returns the error for the caller.
func (orch *Orchestrator) fail(objectiveID string, err error) error {
	orch.emit(Event{
		Type:        EventOrchestrationFailed,
		ObjectiveID: objectiveID,
		Error:       err,
	})
	return err
}

func (orch *Orchestrator) emit(event Event) {
	orch.emitter.Emit(event)
}

package models

import (
	"encoding/json"
	"time"
)

// WorkerContext is the typed context handed to a spawned worker. It carries
// the orchestrator's analysis and plan so workers can share one view of the
// objective without re-deriving it.
type WorkerContext struct {
	// Archetype is the classified shape of the objective.
	Archetype Archetype `json:"archetype"`
	// Analysis is the full classification the worker was spawned under.
	Analysis Analysis `json:"analysis"`
	// Todos is the shared execution checklist, in plan order.
	Todos []TodoItem `json:"todos"`
	// MemoryPrefix is the coordination-store key prefix for this
	// objective; workers write their own records under it.
	MemoryPrefix string `json:"memory_prefix"`
	// Constraints are the objective's caller-imposed restrictions.
	Constraints []string `json:"constraints,omitempty"`
}

// WorkerConfig configures one bounded worker execution. A config is built
// per spawned worker and never reused.
type WorkerConfig struct {
	// Role is the worker specialization (e.g. "tester").
	Role string `json:"role"`
	// Objective is the free-text objective the worker executes against.
	Objective string `json:"objective"`
	// Context is the shared orchestration context for the worker.
	Context WorkerContext `json:"context"`
	// MaxTurns is the hard upper bound on LLM loop iterations. Must be > 0.
	MaxTurns int `json:"max_turns"`
}

// TokenUsage records LLM token consumption for one worker.
type TokenUsage struct {
	// Input is the number of prompt tokens consumed.
	Input int64 `json:"input"`
	// Output is the number of completion tokens produced.
	Output int64 `json:"output"`
	// Total is Input + Output.
	Total int64 `json:"total"`
}

// WorkerError is a normalized failure captured from a worker execution.
type WorkerError struct {
	// Kind categorizes the failure (e.g. "budget_exhausted", "transport").
	Kind string `json:"kind"`
	// Message is the human-readable failure detail.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *WorkerError) Error() string {
	return e.Kind + ": " + e.Message
}

// WorkerResult is the normalized outcome of one worker execution. Worker
// failures are always captured here rather than propagated; a failed worker
// never aborts its siblings.
type WorkerResult struct {
	// Success reports whether the worker completed without error.
	Success bool `json:"success"`
	// WorkerID uniquely identifies this execution.
	WorkerID string `json:"worker_id"`
	// Role is the specialization the worker ran as.
	Role string `json:"role"`
	// Artifacts are record identifiers extracted from the worker's output,
	// deduplicated within this result. Extraction is best-effort.
	Artifacts []string `json:"artifacts"`
	// Output is the worker's final textual output.
	Output string `json:"output"`
	// TokensUsed is the worker's LLM token consumption.
	TokensUsed TokenUsage `json:"tokens_used"`
	// Duration is the wall-clock execution time.
	Duration time.Duration `json:"duration_ms"`
	// Err holds failure detail when Success is false.
	Err *WorkerError `json:"error,omitempty"`
}

// MarshalJSON encodes Duration as integer milliseconds so the persisted
// duration_ms field holds what its name says.
func (r WorkerResult) MarshalJSON() ([]byte, error) {
	type alias WorkerResult
	return json.Marshal(struct {
		alias
		Duration int64 `json:"duration_ms"`
	}{alias(r), r.Duration.Milliseconds()})
}

// UnmarshalJSON decodes duration_ms from integer milliseconds.
func (r *WorkerResult) UnmarshalJSON(data []byte) error {
	type alias WorkerResult
	aux := struct {
		*alias
		Duration int64 `json:"duration_ms"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Duration = time.Duration(aux.Duration) * time.Millisecond
	return nil
}

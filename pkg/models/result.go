package models

import (
	"encoding/json"
	"time"
)

// OrchestrationResult is the single aggregated outcome of one orchestration.
// It is created exactly once per objective, persisted under a key derived
// from the objective id, and never mutated after persistence.
type OrchestrationResult struct {
	// ObjectiveID is the id of the orchestrated objective.
	ObjectiveID string `json:"objective_id"`
	// Success is the logical AND over all worker results' Success flags.
	Success bool `json:"success"`
	// AgentsSpawned is the number of workers configured, equal to the
	// deduplicated count of required roles.
	AgentsSpawned int `json:"agents_spawned"`
	// ArtifactsCreated is the deduplicated union of every worker's
	// artifact list, ordered by first occurrence.
	ArtifactsCreated []string `json:"artifacts_created"`
	// TotalDuration is the wall-clock time of the whole orchestration.
	TotalDuration time.Duration `json:"total_duration_ms"`
	// WorkerResults holds one entry per configured worker, in role
	// declaration order, failures included.
	WorkerResults []WorkerResult `json:"worker_results"`
	// Todos is the plan checklist generated for the objective.
	Todos []TodoItem `json:"todos"`
}

// MarshalJSON encodes TotalDuration as integer milliseconds so the
// persisted total_duration_ms field holds what its name says.
func (r OrchestrationResult) MarshalJSON() ([]byte, error) {
	type alias OrchestrationResult
	return json.Marshal(struct {
		alias
		TotalDuration int64 `json:"total_duration_ms"`
	}{alias(r), r.TotalDuration.Milliseconds()})
}

// UnmarshalJSON decodes total_duration_ms from integer milliseconds.
func (r *OrchestrationResult) UnmarshalJSON(data []byte) error {
	type alias OrchestrationResult
	aux := struct {
		*alias
		TotalDuration int64 `json:"total_duration_ms"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.TotalDuration = time.Duration(aux.TotalDuration) * time.Millisecond
	return nil
}

// Progress is a point-in-time monitoring view of an objective. An objective
// with no persisted result reports the zero value.
type Progress struct {
	// Overall is the completion percentage, 0..100.
	Overall int `json:"overall"`
	// AgentsActive is the number of workers still running.
	AgentsActive int `json:"agents_active"`
	// ArtifactsCreated is the number of artifacts recorded so far.
	ArtifactsCreated int `json:"artifacts_created"`
}

// Package memory provides the shared coordination store used for
// cross-step and cross-worker visibility during an orchestration.
//
// The store is a plain asynchronous key/value surface with no transactional
// guarantees. Concurrent writers to the same key can lose updates; callers
// are expected to write to their own namespaced keys and must not rely on
// the store for correctness-critical coordination.
package memory

import "context"

// Store is the coordination store contract. Values are JSON-encoded by the
// implementations; Get reports absence via its boolean rather than an error.
type Store interface {
	// Store persists value under key, replacing any previous value.
	Store(ctx context.Context, key string, value any) error
	// Get loads the value under key into dest. It returns false with a
	// nil error when the key is absent.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Close releases the store's resources.
	Close() error
}

// keyPrefix namespaces all orchestration keys within a shared store.
const keyPrefix = "hiveflow:objective:"

// AnalysisKey returns the store key for an objective's persisted analysis.
func AnalysisKey(objectiveID string) string {
	return keyPrefix + objectiveID + ":analysis"
}

// PlanKey returns the store key for an objective's generated checklist.
func PlanKey(objectiveID string) string {
	return keyPrefix + objectiveID + ":plan"
}

// ResultKey returns the store key for an objective's orchestration result.
func ResultKey(objectiveID string) string {
	return keyPrefix + objectiveID + ":result"
}

// WorkerKey returns the store key for one worker's record under an
// objective. Workers write here so later workers can observe their output.
func WorkerKey(objectiveID, workerID string) string {
	return keyPrefix + objectiveID + ":worker:" + workerID
}

// ObjectivePrefix returns the key prefix shared by all records of one
// objective. Handed to workers as their memory namespace.
func ObjectivePrefix(objectiveID string) string {
	return keyPrefix + objectiveID + ":"
}

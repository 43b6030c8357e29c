package orchestrator

import "time"

// EventType represents the type of orchestrator lifecycle event.
type EventType string

const (
	// EventOrchestrationStarted is emitted once before any work begins.
	EventOrchestrationStarted EventType = "orchestration:started"
	// EventOrchestrationCompleted is emitted after the result is persisted.
	EventOrchestrationCompleted EventType = "orchestration:completed"
	// EventOrchestrationFailed is emitted on infrastructure failure.
	EventOrchestrationFailed EventType = "orchestration:failed"
	// EventWorkerSpawning is emitted just before a worker starts.
	EventWorkerSpawning EventType = "worker:spawning"
	// EventWorkerCompleted is emitted when a worker succeeds.
	EventWorkerCompleted EventType = "worker:completed"
	// EventWorkerFailed is emitted when a worker's result is a failure.
	EventWorkerFailed EventType = "worker:failed"
	// EventWorkerStep is emitted for each capability loop iteration.
	EventWorkerStep EventType = "worker:step"
	// EventWorkerInterrupted is emitted when a worker is interrupted by id.
	EventWorkerInterrupted EventType = "worker:interrupted"
)

// Event is one consumer-observable lifecycle notification. Delivery is
// fire-and-forget; no acknowledgment is expected.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// ObjectiveID is the id of the objective being orchestrated.
	ObjectiveID string
	// WorkerID is the id of the related worker, if applicable.
	WorkerID string
	// Role is the role of the related worker, if applicable.
	Role string
	// Turn is the capability loop iteration, for worker:step events.
	Turn int
	// Message provides additional context about the event.
	Message string
	// Error contains error details for failure events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

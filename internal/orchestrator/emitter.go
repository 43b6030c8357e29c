package orchestrator

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// EventEmitter handles event emission for the orchestrator. It provides a
// thread-safe channel of events for subscribers such as the CLI view.
type EventEmitter struct {
	events       chan Event
	logger       *zap.Logger
	droppedCount atomic.Uint64
}

// NewEventEmitter creates a new EventEmitter with the given buffer size.
func NewEventEmitter(bufferSize int, logger *zap.Logger) *EventEmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventEmitter{
		events: make(chan Event, bufferSize),
		logger: logger,
	}
}

// Emit sends an event to the events channel. If the channel is full, it
// retries briefly before dropping the event; delivery is fire-and-forget.
func (e *EventEmitter) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case e.events <- event:
		return
	default:
		// Channel full, try with timeout
	}

	select {
	case e.events <- event:
		return
	case <-time.After(100 * time.Millisecond):
		count := e.droppedCount.Add(1)
		if count%10 == 1 { // Log every 10th drop to avoid spam
			e.logger.Warn("event channel full, dropped event",
				zap.Uint64("total_dropped", count),
				zap.String("type", string(event.Type)))
		}
	}
}

// DroppedCount returns the total number of events that have been dropped.
func (e *EventEmitter) DroppedCount() uint64 {
	return e.droppedCount.Load()
}

// Events returns a read-only channel of events for subscribers.
func (e *EventEmitter) Events() <-chan Event {
	return e.events
}

// Close closes the events channel. Call only after the orchestration that
// owns the emitter has returned.
func (e *EventEmitter) Close() {
	close(e.events)
}

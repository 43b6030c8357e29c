package orchestrator

import (
	"context"
	"sync"
)

// workerHandle tracks one in-flight worker execution.
type workerHandle struct {
	// workerID uniquely identifies the execution.
	workerID string
	// role is the specialization the worker runs as.
	role string
	// cancel aborts only this worker's execution context.
	cancel context.CancelFunc
}

// Registry tracks the active workers of one orchestration. It is owned by
// the Orchestrator instance and scoped to a single Orchestrate call;
// nothing about it is process-global.
type Registry struct {
	mu      sync.RWMutex
	workers map[string]*workerHandle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{workers: make(map[string]*workerHandle)}
}

// Track registers an in-flight worker with its cancel function.
func (r *Registry) Track(workerID, role string, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workers[workerID] = &workerHandle{workerID: workerID, role: role, cancel: cancel}
}

// Release removes a worker from the active set once it has completed.
func (r *Registry) Release(workerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workers, workerID)
}

// Interrupt cancels the identified worker's execution and removes it from
// the active set. Siblings are unaffected and the orchestration still
// awaits the remaining workers. Returns the worker's role and true if the
// worker was active.
func (r *Registry) Interrupt(workerID string) (role string, ok bool) {
	r.mu.Lock()
	handle, ok := r.workers[workerID]
	if ok {
		delete(r.workers, workerID)
	}
	r.mu.Unlock()

	if !ok {
		return "", false
	}
	handle.cancel()
	return handle.role, true
}

// Active reports whether the identified worker is still in the active set.
func (r *Registry) Active(workerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.workers[workerID]
	return ok
}

// ActiveCount returns the number of workers currently in flight.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workers)
}

// ActiveIDs returns the ids of all in-flight workers.
func (r *Registry) ActiveIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.workers))
	for id := range r.workers {
		ids = append(ids, id)
	}
	return ids
}

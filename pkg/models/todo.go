package models

// TodoStatus represents the advisory state of a plan item.
type TodoStatus string

const (
	// TodoPending indicates the item has not been picked up.
	TodoPending TodoStatus = "pending"
	// TodoInProgress indicates the item is being worked.
	TodoInProgress TodoStatus = "in_progress"
	// TodoDone indicates the item is complete.
	TodoDone TodoStatus = "done"
)

// Valid returns true if the status is a known value.
func (s TodoStatus) Valid() bool {
	switch s {
	case TodoPending, TodoInProgress, TodoDone:
		return true
	default:
		return false
	}
}

// TodoItem is one entry in an objective's execution checklist. The list is
// an informational audit artifact: ordering is the list order, status is
// advisory, and workers are not required to update it.
type TodoItem struct {
	// ID uniquely identifies the item within one objective's plan.
	ID string `json:"id"`
	// Content describes the step in human-readable form.
	Content string `json:"content"`
	// Status is the advisory state of the item.
	Status TodoStatus `json:"status"`
	// Priority is the urgency of the item.
	Priority Priority `json:"priority"`
}

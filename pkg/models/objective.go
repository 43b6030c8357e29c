// Package models defines the core data structures shared across hiveflow.
package models

import (
	"strings"

	"github.com/google/uuid"
)

// Priority represents the urgency of an objective or plan item.
type Priority string

const (
	// PriorityLow indicates background work with no deadline pressure.
	PriorityLow Priority = "low"
	// PriorityMedium is the default priority.
	PriorityMedium Priority = "medium"
	// PriorityHigh indicates work that should preempt medium items.
	PriorityHigh Priority = "high"
	// PriorityCritical indicates work blocking other objectives.
	PriorityCritical Priority = "critical"
)

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// Objective is the caller-supplied unit of work to be decomposed and executed.
// It is immutable once orchestration starts.
type Objective struct {
	// ID uniquely identifies the objective within a run.
	ID string `json:"id"`
	// Description is the free-text statement of what to accomplish.
	Description string `json:"description"`
	// Priority is the urgency of the objective. Defaults to medium.
	Priority Priority `json:"priority,omitempty"`
	// Constraints are caller-imposed restrictions on how workers operate.
	Constraints []string `json:"constraints,omitempty"`
	// Metadata carries opaque caller annotations.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewObjective synthesizes an Objective from a raw description string.
// The id is a fresh short uuid and the priority defaults to medium.
func NewObjective(description string) *Objective {
	return &Objective{
		ID:          uuid.New().String()[:8],
		Description: strings.TrimSpace(description),
		Priority:    PriorityMedium,
	}
}

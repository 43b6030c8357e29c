package orchestrator

import (
	"fmt"

	"github.com/hiveflow/hiveflow/pkg/models"
)

// ExecutionMode selects how workers are scheduled.
type ExecutionMode string

const (
	// ModeConcurrent runs all workers at once and joins on completion.
	ModeConcurrent ExecutionMode = "concurrent"
	// ModeSequential runs workers strictly in role declaration order,
	// completing each (including its store writes) before the next spawn.
	ModeSequential ExecutionMode = "sequential"
)

// Strategy is the Parallelization Strategist's decision.
type Strategy struct {
	// Mode is the selected execution mode.
	Mode ExecutionMode
	// Reason explains the decision for the audit trail.
	Reason string
}

// Decide selects the execution mode for the given roles and analysis.
//
// A single role is trivially sequential. Any declared dependency tag
// forces sequential mode: dependency detection is deliberately coarse
// (presence of a tag, not a dependency graph), which is an extension
// point for finer-grained scheduling, not a defect.
func Decide(requiredRoles []string, analysis *models.Analysis) Strategy {
	if len(requiredRoles) <= 1 {
		return Strategy{Mode: ModeSequential, Reason: "single role"}
	}
	if len(analysis.Dependencies) > 0 {
		return Strategy{
			Mode:   ModeSequential,
			Reason: fmt.Sprintf("dependency tags force ordering: %v", analysis.Dependencies),
		}
	}
	return Strategy{Mode: ModeConcurrent, Reason: "independent roles"}
}

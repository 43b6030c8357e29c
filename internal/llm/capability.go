// Package llm provides the LLM execution capability used by hiveflow
// workers: a turn-bounded reasoning loop over the Anthropic API, with
// token accounting and per-step progress callbacks.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// ToolDefinition describes one named tool a worker may invoke. The concrete
// tool catalog (platform CRUD operations) lives outside this module; it is
// supplied here as named capabilities with an Invoke function.
type ToolDefinition struct {
	// Name is the tool's unique name.
	Name string
	// Description tells the model what the tool does.
	Description string
	// InputSchema is the JSON schema of the tool's parameters.
	InputSchema map[string]any
	// Invoke executes the tool. A nil Invoke reports the tool as
	// unavailable to the model instead of failing the loop.
	Invoke func(ctx context.Context, input json.RawMessage) (string, error)
}

// StepInfo describes one completed loop iteration, passed to OnStep.
type StepInfo struct {
	// Turn is the 1-based iteration number.
	Turn int
	// ToolCalls is the number of tool invocations in this turn.
	ToolCalls int
	// Text is any assistant text produced this turn.
	Text string
}

// Request configures one capability execution.
type Request struct {
	// Instructions is the system-level role and task briefing.
	Instructions string
	// Prompt is the user-level objective text.
	Prompt string
	// Tools is the named capability set available to the model.
	Tools []ToolDefinition
	// MaxTurns is the hard upper bound on loop iterations. Must be > 0.
	MaxTurns int
	// OnStep, if set, is invoked after each iteration, strictly fewer
	// than MaxTurns+1 times.
	OnStep func(StepInfo)
}

// Usage records token consumption for one execution.
type Usage struct {
	// InputTokens is the number of prompt tokens consumed.
	InputTokens int64
	// OutputTokens is the number of completion tokens produced.
	OutputTokens int64
}

// Completion is the successful result of one capability execution.
type Completion struct {
	// Text is the concatenated assistant text output.
	Text string
	// Usage is the total token consumption across all turns.
	Usage Usage
}

// ErrorKind categorizes capability failures.
type ErrorKind string

const (
	// ErrBudgetExhausted indicates MaxTurns was reached before the model
	// finished.
	ErrBudgetExhausted ErrorKind = "budget_exhausted"
	// ErrTransport indicates an API or network failure.
	ErrTransport ErrorKind = "transport"
	// ErrInterrupted indicates the execution's context was canceled.
	ErrInterrupted ErrorKind = "interrupted"
)

// CapabilityError is a structured failure from the execution capability.
type CapabilityError struct {
	// Kind categorizes the failure.
	Kind ErrorKind
	// Message is the human-readable detail.
	Message string
	// Wrapped is the underlying cause, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CapabilityError) Unwrap() error { return e.Wrapped }

// Capability is the external LLM execution contract. Implementations run a
// bounded reasoning loop and either return a Completion or raise a
// *CapabilityError. OnStep may be invoked zero or more times before return.
type Capability interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

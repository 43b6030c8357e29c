package orchestrator

import (
	"go.uber.org/zap"

	"github.com/hiveflow/hiveflow/internal/catalog"
	"github.com/hiveflow/hiveflow/internal/llm"
	"github.com/hiveflow/hiveflow/internal/memory"
)

// RequiredConfig contains the minimal required configuration for an
// Orchestrator. All fields are required and have no defaults.
type RequiredConfig struct {
	// Store is the shared coordination store.
	Store memory.Store
	// Capability is the LLM execution capability workers run against.
	Capability llm.Capability
}

// Option configures an Orchestrator. Use With* functions to create Options.
type Option func(*orchestratorOptions)

// orchestratorOptions holds all optional configuration.
type orchestratorOptions struct {
	logger      *zap.Logger
	catalog     *catalog.Catalog
	maxTurns    int
	eventBuffer int
	signalDir   string
}

// defaultMaxTurns bounds a worker's capability loop when the caller does
// not configure one.
const defaultMaxTurns = 15

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *orchestratorOptions) { o.logger = l }
}

// WithCatalog sets the role capability catalog. Defaults to the built-in
// catalog with unbound tools.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *orchestratorOptions) { o.catalog = c }
}

// WithMaxTurns sets the per-worker turn budget.
func WithMaxTurns(n int) Option {
	return func(o *orchestratorOptions) { o.maxTurns = n }
}

// WithEventBuffer sets the emitter's channel buffer size.
func WithEventBuffer(n int) Option {
	return func(o *orchestratorOptions) { o.eventBuffer = n }
}

// WithSignalDir enables the filesystem signal watcher on the given
// directory, allowing workers to be interrupted by dropping
// <workerID>.stop files there.
func WithSignalDir(dir string) Option {
	return func(o *orchestratorOptions) { o.signalDir = dir }
}

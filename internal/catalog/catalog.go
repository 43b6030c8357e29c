// Package catalog maps worker roles to capability descriptions and named
// tool sets. The concrete tool implementations live in the external
// platform integration; the catalog only names them and carries their
// schemas so any role string resolves to a usable profile.
package catalog

import (
	"context"
	"encoding/json"

	"github.com/hiveflow/hiveflow/internal/llm"
)

// RoleProfile describes what a worker role can do.
type RoleProfile struct {
	// Role is the profile's role name.
	Role string
	// Description is the human-readable capability briefing injected into
	// the worker's instructions.
	Description string
	// Tools is the named tool capability set granted to the role.
	Tools []llm.ToolDefinition
}

// Invoker executes a named tool against the external platform. A nil
// invoker leaves tools declared but unbound, which workers surface to the
// model as unavailable rather than failing.
type Invoker func(ctx context.Context, tool string, input json.RawMessage) (string, error)

// Catalog resolves role names to profiles. Unknown roles resolve to a
// generic profile; lookup never fails.
type Catalog struct {
	profiles map[string]profileSpec
	invoker  Invoker
}

// profileSpec is the internal, tool-name-based profile representation.
type profileSpec struct {
	Description string
	Tools       []string
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithInvoker binds tool executions to the given platform invoker.
func WithInvoker(inv Invoker) Option {
	return func(c *Catalog) { c.invoker = inv }
}

// New creates a catalog with the built-in role profiles.
func New(opts ...Option) *Catalog {
	c := &Catalog{profiles: builtinProfiles()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Describe returns the profile for role. Unknown roles get the generic
// profile with the role name substituted, never an error.
func (c *Catalog) Describe(role string) RoleProfile {
	spec, ok := c.profiles[role]
	if !ok {
		spec = profileSpec{
			Description: "A generalist agent able to investigate the platform, create and modify records, and verify its own work.",
			Tools:       []string{"record_query", "record_get", "record_create", "record_update"},
		}
	}
	return RoleProfile{
		Role:        role,
		Description: spec.Description,
		Tools:       c.resolveTools(spec.Tools),
	}
}

// Roles returns the names of all registered role profiles.
func (c *Catalog) Roles() []string {
	names := make([]string, 0, len(c.profiles))
	for name := range c.profiles {
		names = append(names, name)
	}
	return names
}

// resolveTools expands tool names into definitions, binding the catalog's
// invoker. Names without a registered definition get a minimal schema so
// declared capabilities are never silently dropped.
func (c *Catalog) resolveTools(names []string) []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(names))
	for _, name := range names {
		def, ok := toolDefinitions[name]
		if !ok {
			def = llm.ToolDefinition{
				Name:        name,
				Description: "Platform operation " + name,
				InputSchema: map[string]any{},
			}
		}
		if c.invoker != nil {
			tool := def.Name
			def.Invoke = func(ctx context.Context, input json.RawMessage) (string, error) {
				return c.invoker(ctx, tool, input)
			}
		}
		defs = append(defs, def)
	}
	return defs
}

// builtinProfiles returns the default role set. Role names match what the
// objective analyzer assigns.
func builtinProfiles() map[string]profileSpec {
	return map[string]profileSpec{
		"widget-creator": {
			Description: "Creates and configures UI widgets: page structure, templates, styling, and client-side bindings.",
			Tools:       []string{"record_query", "record_get", "record_create", "record_update"},
		},
		"script-writer": {
			Description: "Writes server-side scripts and business rules, wiring them to the records they act on.",
			Tools:       []string{"record_query", "record_get", "record_create", "record_update", "script_execute"},
		},
		"tester": {
			Description: "Verifies produced records and behavior: queries created artifacts, exercises scripts, and reports discrepancies.",
			Tools:       []string{"record_query", "record_get", "script_execute"},
		},
		"flow-designer": {
			Description: "Designs process flows: triggers, stages, transitions, and the records that carry a request through them.",
			Tools:       []string{"record_query", "record_get", "record_create", "record_update"},
		},
		"approval-admin": {
			Description: "Configures approval chains, notification hooks, and the user groups they route through.",
			Tools:       []string{"record_query", "record_get", "record_create", "record_update"},
		},
		"integration-specialist": {
			Description: "Builds inbound and outbound integrations: endpoints, transform maps, and credential records.",
			Tools:       []string{"record_query", "record_get", "record_create", "record_update", "http_request"},
		},
		"security-admin": {
			Description: "Audits and configures access control: roles, ACL records, and field-level restrictions.",
			Tools:       []string{"record_query", "record_get", "record_create", "record_update"},
		},
		"researcher": {
			Description: "Investigates the platform read-only: finds existing records, configurations, and prior art relevant to the objective.",
			Tools:       []string{"record_query", "record_get"},
		},
		"generalist": {
			Description: "A generalist agent able to investigate the platform, create and modify records, and verify its own work.",
			Tools:       []string{"record_query", "record_get", "record_create", "record_update"},
		},
	}
}

// toolDefinitions holds the schemas for the named platform operations.
var toolDefinitions = map[string]llm.ToolDefinition{
	"record_query": {
		Name:        "record_query",
		Description: "Query records in a table with an encoded filter. Returns matching record ids and display fields.",
		InputSchema: map[string]any{
			"table": map[string]any{"type": "string", "description": "Table name to query"},
			"query": map[string]any{"type": "string", "description": "Encoded query filter"},
			"limit": map[string]any{"type": "integer", "description": "Maximum records to return"},
		},
	},
	"record_get": {
		Name:        "record_get",
		Description: "Fetch a single record by its 32-character id.",
		InputSchema: map[string]any{
			"table": map[string]any{"type": "string", "description": "Table name"},
			"id":    map[string]any{"type": "string", "description": "Record id"},
		},
	},
	"record_create": {
		Name:        "record_create",
		Description: "Create a record in a table. Returns the new record's id.",
		InputSchema: map[string]any{
			"table":  map[string]any{"type": "string", "description": "Table name"},
			"fields": map[string]any{"type": "object", "description": "Field values for the new record"},
		},
	},
	"record_update": {
		Name:        "record_update",
		Description: "Update fields on an existing record.",
		InputSchema: map[string]any{
			"table":  map[string]any{"type": "string", "description": "Table name"},
			"id":     map[string]any{"type": "string", "description": "Record id"},
			"fields": map[string]any{"type": "object", "description": "Field values to set"},
		},
	},
	"script_execute": {
		Name:        "script_execute",
		Description: "Execute a server-side script snippet and return its output.",
		InputSchema: map[string]any{
			"script": map[string]any{"type": "string", "description": "Script body to execute"},
		},
	},
	"http_request": {
		Name:        "http_request",
		Description: "Make an outbound HTTP request through the platform's integration layer.",
		InputSchema: map[string]any{
			"method": map[string]any{"type": "string", "description": "HTTP method"},
			"url":    map[string]any{"type": "string", "description": "Request URL"},
			"body":   map[string]any{"type": "string", "description": "Request body"},
		},
	},
}

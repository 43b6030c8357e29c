package models

// Archetype identifies the classified shape of an objective. The archetype
// selects both the role set spawned for the objective and the plan template
// used to build its checklist.
type Archetype string

const (
	// ArchetypeWidget covers UI component work on the platform.
	ArchetypeWidget Archetype = "widget"
	// ArchetypeFlow covers process and workflow construction.
	ArchetypeFlow Archetype = "flow"
	// ArchetypeScript covers server-side scripting and business rules.
	ArchetypeScript Archetype = "script"
	// ArchetypeIntegration covers external API and data exchange work.
	ArchetypeIntegration Archetype = "integration"
	// ArchetypeSecurity covers access control and hardening work.
	ArchetypeSecurity Archetype = "security"
	// ArchetypeResearch covers read-only investigation of the platform.
	ArchetypeResearch Archetype = "research"
	// ArchetypeGeneral is the fallback when no rule matches.
	ArchetypeGeneral Archetype = "general"
)

// Analysis is the Objective Analyzer's classification of an objective.
// It is produced exactly once per objective and persisted to the
// coordination store before planning begins.
type Analysis struct {
	// Archetype is the classified shape of the objective.
	Archetype Archetype `json:"archetype"`
	// RequiredRoles lists the worker roles to spawn, deduplicated and
	// order-preserving. Never empty.
	RequiredRoles []string `json:"required_roles"`
	// Complexity is an estimate from 1 (trivial) to 10 (maximal).
	Complexity int `json:"complexity"`
	// Dependencies are coarse tags for concerns the objective depends on
	// (e.g. "notification"). Any tag forces sequential execution.
	Dependencies []string `json:"dependencies,omitempty"`
}

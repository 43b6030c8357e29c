package orchestrator

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hiveflow/hiveflow/pkg/models"
)

// planTemplates maps each archetype to its dedicated checklist steps.
// Archetypes without a template fall back to genericTemplate.
var planTemplates = map[models.Archetype][]string{
	models.ArchetypeWidget: {
		"Design the widget layout and data bindings",
		"Create the widget record and its template",
		"Write the widget's client and server scripts",
		"Exercise the widget against representative records",
	},
	models.ArchetypeFlow: {
		"Map the process stages and transition conditions",
		"Create the flow definition and trigger records",
		"Wire approval and notification steps",
		"Run the flow end to end with a test request",
	},
	models.ArchetypeScript: {
		"Identify the tables and events the script acts on",
		"Write the script and its condition",
		"Verify the script against sample records",
	},
	models.ArchetypeIntegration: {
		"Catalog the external endpoints and payload shapes",
		"Create the integration and credential records",
		"Build transform maps for inbound data",
		"Exercise the integration with a round-trip test",
	},
	models.ArchetypeSecurity: {
		"Audit the current access control records",
		"Apply the required role and ACL changes",
		"Verify access from each affected role",
	},
	models.ArchetypeResearch: {
		"Survey existing records and configuration",
		"Summarize findings and reference record ids",
	},
}

// genericTemplate is the fallback block for archetypes without a dedicated
// template.
var genericTemplate = []string{
	"Analyze the objective against the current platform state",
	"Implement the required changes",
	"Test the implemented changes",
}

// bootstrapSteps open every plan, at high priority.
var bootstrapSteps = []string{
	"Initialize the orchestration run",
	"Validate objective preconditions",
	"Prepare shared tracking context",
}

// closingSteps end every plan.
var closingSteps = []string{
	"Verify all produced artifacts",
	"Document the outcome",
}

// GeneratePlan expands an analysis into a flat, ordered checklist: a fixed
// bootstrap block, the archetype's template block, and a fixed closing
// block. Ids are freshly generated and unique within the plan; ordering is
// the list order and carries no execution dependency semantics.
func GeneratePlan(objective *models.Objective, analysis *models.Analysis) []models.TodoItem {
	template, ok := planTemplates[analysis.Archetype]
	if !ok {
		template = genericTemplate
	}

	todos := make([]models.TodoItem, 0, len(bootstrapSteps)+len(template)+len(closingSteps))

	for _, content := range bootstrapSteps {
		todos = append(todos, newTodo(content, models.PriorityHigh))
	}

	priority := objective.Priority
	if !priority.Valid() {
		priority = models.PriorityMedium
	}
	for _, content := range template {
		todos = append(todos, newTodo(content, priority))
	}

	for _, content := range closingSteps {
		todos = append(todos, newTodo(content, models.PriorityMedium))
	}

	return todos
}

func newTodo(content string, priority models.Priority) models.TodoItem {
	return models.TodoItem{
		ID:       fmt.Sprintf("todo-%s", uuid.New().String()[:8]),
		Content:  content,
		Status:   models.TodoPending,
		Priority: priority,
	}
}

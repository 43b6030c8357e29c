package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hiveflow/hiveflow/internal/memory"
	"github.com/hiveflow/hiveflow/pkg/models"
)

// rule is one entry in the classification table. Rules are evaluated in
// table order and the first keyword match wins; declaration order is the
// only precedence. Two rules matching the same text is resolved by that
// order alone.
type rule struct {
	// keywords trigger the rule when any appears in the objective text.
	keywords []string
	// archetype is assigned on match.
	archetype models.Archetype
	// baseRoles are the roles spawned for the archetype.
	baseRoles []string
	// complexityDelta adjusts the base complexity of 5.
	complexityDelta int
	// dependencyTags are appended to the analysis on match.
	dependencyTags []string
}

// classificationRules is the authoritative rule table. Order matters:
// security and integration outrank flow so "secure the approval flow"
// classifies as security work, and flow outranks widget so a "workflow for
// the widget request form" is treated as process work.
var classificationRules = []rule{
	{
		keywords:        []string{"security", "acl", "access control", "permission"},
		archetype:       models.ArchetypeSecurity,
		baseRoles:       []string{"security-admin", "tester"},
		complexityDelta: 1,
		dependencyTags:  []string{"user-management"},
	},
	{
		keywords:        []string{"integration", "rest api", "soap", "web service", "import set"},
		archetype:       models.ArchetypeIntegration,
		baseRoles:       []string{"integration-specialist", "script-writer", "tester"},
		complexityDelta: 2,
	},
	{
		keywords:  []string{"workflow", "flow", "approval", "process"},
		archetype: models.ArchetypeFlow,
		baseRoles: []string{"flow-designer", "script-writer", "tester"},
	},
	{
		keywords:  []string{"widget", "ui component", "portal page", "dashboard"},
		archetype: models.ArchetypeWidget,
		baseRoles: []string{"widget-creator", "script-writer", "tester"},
	},
	{
		keywords:  []string{"script", "business rule", "scheduled job"},
		archetype: models.ArchetypeScript,
		baseRoles: []string{"script-writer", "tester"},
	},
	{
		keywords:        []string{"investigate", "research", "find out", "explore"},
		archetype:       models.ArchetypeResearch,
		baseRoles:       []string{"researcher"},
		complexityDelta: -2,
	},
}

// dependencyRules append coarse dependency tags after classification.
// Detecting "approval" tags the notification and user-management concerns
// an approval chain routes through.
var dependencyRules = []struct {
	keywords []string
	tags     []string
}{
	{keywords: []string{"approval", "approve"}, tags: []string{"notification", "user-management"}},
	{keywords: []string{"notification", "email", "alert"}, tags: []string{"notification"}},
	{keywords: []string{"user group", "assignment group", "role assignment"}, tags: []string{"user-management"}},
}

// baseComplexity is the starting complexity before rule and modifier deltas.
const baseComplexity = 5

// analysisRecord is the shape persisted to the coordination store so later
// steps and spawned workers can read the classification without
// re-deriving it.
type analysisRecord struct {
	Objective *models.Objective `json:"objective"`
	Analysis  *models.Analysis  `json:"analysis"`
	Timestamp time.Time         `json:"timestamp"`
}

// Analyzer classifies objectives into an archetype, role set, complexity,
// and dependency tags.
type Analyzer struct {
	store  memory.Store
	logger *zap.Logger
}

// NewAnalyzer creates an Analyzer persisting through the given store.
func NewAnalyzer(store memory.Store, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{store: store, logger: logger}
}

// Analyze classifies the objective. Classification itself never fails and
// never yields an empty role list; the only error path is persisting the
// analysis to the coordination store.
func (a *Analyzer) Analyze(ctx context.Context, objective *models.Objective) (*models.Analysis, error) {
	analysis := Classify(objective.Description)

	a.logger.Info("objective analyzed",
		zap.String("objective_id", objective.ID),
		zap.String("archetype", string(analysis.Archetype)),
		zap.Strings("roles", analysis.RequiredRoles),
		zap.Int("complexity", analysis.Complexity),
		zap.Strings("dependencies", analysis.Dependencies))

	record := analysisRecord{
		Objective: objective,
		Analysis:  analysis,
		Timestamp: time.Now(),
	}
	if err := a.store.Store(ctx, memory.AnalysisKey(objective.ID), record); err != nil {
		return nil, fmt.Errorf("persist analysis: %w", err)
	}

	return analysis, nil
}

// Classify runs the rule table over the objective text. It always returns
// a non-empty role list: no match falls back to the general archetype with
// a single generalist role at complexity 5.
func Classify(description string) *models.Analysis {
	lower := strings.ToLower(description)

	analysis := &models.Analysis{
		Archetype:     models.ArchetypeGeneral,
		RequiredRoles: []string{"generalist"},
		Complexity:    baseComplexity,
	}

	for _, r := range classificationRules {
		if matchesAny(lower, r.keywords) {
			analysis.Archetype = r.archetype
			analysis.RequiredRoles = dedupeRoles(r.baseRoles)
			analysis.Complexity = baseComplexity + r.complexityDelta
			analysis.Dependencies = append(analysis.Dependencies, r.dependencyTags...)
			break
		}
	}

	for _, r := range dependencyRules {
		if matchesAny(lower, r.keywords) {
			analysis.Dependencies = appendMissing(analysis.Dependencies, r.tags...)
		}
	}

	analysis.Complexity = clampComplexity(analysis.Complexity + complexityModifier(lower))
	return analysis
}

// complexityModifier adjusts complexity from textual hints about scope.
func complexityModifier(lower string) int {
	delta := 0
	if strings.Contains(lower, "simple") || strings.Contains(lower, "basic") {
		delta -= 2
	}
	if strings.Contains(lower, "complex") || strings.Contains(lower, "enterprise") {
		delta += 2
	}
	// Multi-clause objectives tend to fan out into more work.
	if strings.Count(lower, " and ") >= 2 {
		delta++
	}
	return delta
}

func clampComplexity(c int) int {
	if c < 1 {
		return 1
	}
	if c > 10 {
		return 10
	}
	return c
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// dedupeRoles removes duplicate role names preserving first occurrence.
func dedupeRoles(roles []string) []string {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}

// appendMissing appends tags not already present, preserving order.
func appendMissing(existing []string, tags ...string) []string {
	for _, tag := range tags {
		found := false
		for _, have := range existing {
			if have == tag {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, tag)
		}
	}
	return existing
}

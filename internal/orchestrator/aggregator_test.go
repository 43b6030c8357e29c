package orchestrator

import (
	"reflect"
	"testing"

	"github.com/hiveflow/hiveflow/pkg/models"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name          string
		results       []models.WorkerResult
		wantSuccess   bool
		wantArtifacts []string
	}{
		{
			name:          "empty result list is vacuously successful",
			results:       nil,
			wantSuccess:   true,
			wantArtifacts: []string{},
		},
		{
			name: "all successful",
			results: []models.WorkerResult{
				{Success: true, Artifacts: []string{"a1"}},
				{Success: true, Artifacts: []string{"a2"}},
			},
			wantSuccess:   true,
			wantArtifacts: []string{"a1", "a2"},
		},
		{
			name: "one failure fails the run",
			results: []models.WorkerResult{
				{Success: true, Artifacts: []string{"a1"}},
				{Success: false},
				{Success: true, Artifacts: []string{"a2"}},
			},
			wantSuccess:   false,
			wantArtifacts: []string{"a1", "a2"},
		},
		{
			name: "duplicate artifacts unioned by first occurrence",
			results: []models.WorkerResult{
				{Success: true, Artifacts: []string{"a2", "a1"}},
				{Success: true, Artifacts: []string{"a1", "a3"}},
			},
			wantSuccess:   true,
			wantArtifacts: []string{"a2", "a1", "a3"},
		},
		{
			name: "failed worker artifacts still counted",
			results: []models.WorkerResult{
				{Success: false, Artifacts: []string{"a1"}},
			},
			wantSuccess:   false,
			wantArtifacts: []string{"a1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			success, artifacts := Aggregate(tt.results)
			if success != tt.wantSuccess {
				t.Errorf("Aggregate() success = %v, want %v", success, tt.wantSuccess)
			}
			if !reflect.DeepEqual(artifacts, tt.wantArtifacts) {
				t.Errorf("Aggregate() artifacts = %v, want %v", artifacts, tt.wantArtifacts)
			}
		})
	}
}

// Aggregating a concatenated result list must equal the set union of the
// halves aggregated separately.
func TestAggregateConcatenationEqualsUnion(t *testing.T) {
	first := []models.WorkerResult{
		{Success: true, Artifacts: []string{"a1", "a2"}},
		{Success: true, Artifacts: []string{"a3", "a1"}},
	}
	second := []models.WorkerResult{
		{Success: true, Artifacts: []string{"a2", "a4"}},
		{Success: true, Artifacts: []string{"a5"}},
	}

	_, combined := Aggregate(append(append([]models.WorkerResult{}, first...), second...))

	_, left := Aggregate(first)
	_, right := Aggregate(second)
	union := append([]string{}, left...)
	seen := make(map[string]struct{}, len(union))
	for _, a := range union {
		seen[a] = struct{}{}
	}
	for _, a := range right {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		union = append(union, a)
	}

	if !reflect.DeepEqual(combined, union) {
		t.Errorf("Aggregate(first ++ second) = %v, want union of halves %v", combined, union)
	}
}

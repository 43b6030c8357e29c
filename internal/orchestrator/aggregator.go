package orchestrator

import "github.com/hiveflow/hiveflow/pkg/models"

// Aggregate merges worker results into the overall outcome. Success is the
// logical AND over all results; artifacts are the set union of every
// worker's list, ordered by first occurrence with duplicates removed.
// An empty result list is vacuously successful, which only occurs if zero
// workers were required; the analyzer's non-empty-role guarantee makes
// that unreachable in practice.
func Aggregate(results []models.WorkerResult) (success bool, artifacts []string) {
	success = true
	artifacts = []string{}
	seen := make(map[string]struct{})

	for _, r := range results {
		if !r.Success {
			success = false
		}
		for _, a := range r.Artifacts {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			artifacts = append(artifacts, a)
		}
	}
	return success, artifacts
}

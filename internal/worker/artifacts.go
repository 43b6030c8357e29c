package worker

import "regexp"

// recordIDPattern matches the platform's 32-character hexadecimal record
// ids. Extraction by pattern is best-effort and lossy: it can miss ids the
// model paraphrases and can false-match other 32-hex tokens. There is no
// structured output contract with the execution capability to do better.
var recordIDPattern = regexp.MustCompile(`\b[0-9a-f]{32}\b`)

// ExtractArtifacts returns the record ids found in output, deduplicated
// and ordered by first occurrence.
func ExtractArtifacts(output string) []string {
	matches := recordIDPattern.FindAllString(output, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	artifacts := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		artifacts = append(artifacts, m)
	}
	return artifacts
}

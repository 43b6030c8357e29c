// Package orchestrator turns a free-text objective into an analyzed,
// planned, role-partitioned execution of LLM workers and aggregates their
// results into one persisted outcome.
//
// The pipeline is analyze -> plan -> strategize -> execute -> aggregate ->
// persist. Worker failures are isolated: a failing worker is recorded in
// the aggregated result and never aborts its siblings. Infrastructure
// failures (an unreachable coordination store during analysis or planning)
// are fatal to the call and persist nothing.
package orchestrator

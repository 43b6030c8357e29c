package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hiveflow",
	Short: "Multi-agent orchestration for platform objectives",
	Long: `Hiveflow turns a free-text objective into a dependency-aware execution
plan, runs one LLM worker per required role under a turn budget, and
aggregates their results into a single auditable outcome.

Workers coordinate through a shared store (sqlite, redis, or in-memory)
and their failures are isolated: one failing worker never aborts its
siblings, it only flips the final result's success flag.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

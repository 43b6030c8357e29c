package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hiveflow/hiveflow/internal/config"
	"github.com/hiveflow/hiveflow/internal/memory"
	"github.com/hiveflow/hiveflow/pkg/models"
)

var statusStore string

var statusCmd = &cobra.Command{
	Use:   "status <objective-id>",
	Short: "Report progress for an objective",
	Long: `Reads the persisted orchestration result for the given objective id.
An objective with no persisted result reports a zeroed status rather
than an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd, args[0])
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusStore, "store", "", "Coordination store backend: memory, sqlite, or redis")
}

func showStatus(cmd *cobra.Command, objectiveID string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg, statusStore)
	if err != nil {
		return err
	}
	defer store.Close()

	var result models.OrchestrationResult
	found, err := store.Get(ctx, memory.ResultKey(objectiveID), &result)
	if err != nil {
		return fmt.Errorf("read result: %w", err)
	}

	if !found {
		fmt.Printf("objective %s: no persisted result\n", objectiveID)
		fmt.Println("  overall:   0%")
		fmt.Println("  active:    0")
		fmt.Println("  artifacts: 0")
		return nil
	}

	if result.Success {
		color.Green("objective %s: completed", objectiveID)
	} else {
		color.Red("objective %s: completed with failures", objectiveID)
	}
	fmt.Println("  overall:   100%")
	fmt.Println("  active:    0")
	fmt.Printf("  artifacts: %d\n", len(result.ArtifactsCreated))
	fmt.Printf("  workers:   %d\n", result.AgentsSpawned)
	fmt.Printf("  duration:  %s\n", result.TotalDuration.Round(time.Millisecond))
	return nil
}

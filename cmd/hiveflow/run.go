package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hiveflow/hiveflow/internal/catalog"
	"github.com/hiveflow/hiveflow/internal/config"
	"github.com/hiveflow/hiveflow/internal/llm"
	"github.com/hiveflow/hiveflow/internal/orchestrator"
	"github.com/hiveflow/hiveflow/pkg/models"
)

var (
	runMaxTurns int
	runWatch    bool
	runStore    string
	runVerbose  bool
)

var runCmd = &cobra.Command{
	Use:   "run \"<objective>\"",
	Short: "Orchestrate an objective",
	Long: `Analyzes the objective, generates a plan, spawns one worker per
required role, and prints the aggregated outcome. The result is persisted
to the coordination store under the objective's id.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runObjective(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	runCmd.Flags().IntVar(&runMaxTurns, "max-turns", 0, "Per-worker turn budget (0 = config default)")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Attach the live worker view")
	runCmd.Flags().StringVar(&runStore, "store", "", "Coordination store backend: memory, sqlite, or redis")
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "Log orchestration internals to stderr")
}

func runObjective(ctx context.Context, description string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if runVerbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
	}

	store, err := openStore(ctx, cfg, runStore)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := llm.NewClient(llm.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return err
	}

	cat := catalog.New()
	if cfg.Roles.OverridesFile != "" {
		if err := cat.LoadOverrides(cfg.Roles.OverridesFile); err != nil {
			return err
		}
	}

	maxTurns := runMaxTurns
	if maxTurns <= 0 {
		maxTurns = cfg.Defaults.MaxTurns
	}

	opts := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithCatalog(cat),
		orchestrator.WithMaxTurns(maxTurns),
		orchestrator.WithEventBuffer(cfg.Defaults.EventBuffer),
	}
	if cfg.Signals.Dir != "" {
		opts = append(opts, orchestrator.WithSignalDir(cfg.Signals.Dir))
	}

	orch, err := orchestrator.New(orchestrator.RequiredConfig{
		Store:      store,
		Capability: llm.NewAnthropicCapability(client),
	}, opts...)
	if err != nil {
		return err
	}
	defer orch.Close()

	objective := models.NewObjective(description)

	if runWatch {
		return runWithWatch(ctx, orch, objective)
	}
	return runPlain(ctx, orch, objective)
}

// runPlain prints events as log lines while the orchestration runs.
func runPlain(ctx context.Context, orch *orchestrator.Orchestrator, objective *models.Objective) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range orch.Events() {
			printEvent(event)
		}
	}()

	result, err := orch.Orchestrate(ctx, objective)
	drainEvents(orch, done)
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func printEvent(event orchestrator.Event) {
	switch event.Type {
	case orchestrator.EventOrchestrationStarted:
		color.Cyan("▶ %s (%s)", event.Message, event.ObjectiveID)
	case orchestrator.EventWorkerSpawning:
		color.Blue("  spawning %s", event.WorkerID)
	case orchestrator.EventWorkerCompleted:
		color.Green("  ✓ %s", event.WorkerID)
	case orchestrator.EventWorkerFailed:
		color.Red("  ✗ %s: %v", event.WorkerID, event.Error)
	case orchestrator.EventWorkerInterrupted:
		color.Yellow("  ⊘ %s interrupted", event.WorkerID)
	case orchestrator.EventOrchestrationFailed:
		color.Red("✗ orchestration failed: %v", event.Error)
	}
}

func printResult(result *models.OrchestrationResult) {
	fmt.Println()
	if result.Success {
		color.Green("Objective %s succeeded", result.ObjectiveID)
	} else {
		color.Red("Objective %s failed", result.ObjectiveID)
	}
	fmt.Printf("  workers:   %d\n", result.AgentsSpawned)
	fmt.Printf("  artifacts: %d\n", len(result.ArtifactsCreated))
	for _, a := range result.ArtifactsCreated {
		fmt.Printf("    %s\n", a)
	}
	fmt.Printf("  duration:  %s\n", result.TotalDuration.Round(time.Millisecond))
	for _, wr := range result.WorkerResults {
		status := "ok"
		if !wr.Success {
			status = wr.Err.Error()
		}
		fmt.Printf("  %-28s %8d tokens  %s\n", wr.WorkerID, wr.TokensUsed.Total, status)
	}
}

// drainEvents closes the emitter once orchestration has returned and waits
// for the printer goroutine to finish.
func drainEvents(orch *orchestrator.Orchestrator, done chan struct{}) {
	orch.CloseEvents()
	<-done
}

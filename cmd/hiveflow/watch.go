package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hiveflow/hiveflow/internal/orchestrator"
	"github.com/hiveflow/hiveflow/internal/tui"
	"github.com/hiveflow/hiveflow/pkg/models"
)

// runWithWatch attaches the live TUI while the orchestration runs.
func runWithWatch(ctx context.Context, orch *orchestrator.Orchestrator, objective *models.Objective) error {
	program := tea.NewProgram(tui.NewWatch(objective.Description, orch.Events()))

	type outcome struct {
		result *models.OrchestrationResult
		err    error
	}
	outcomeCh := make(chan outcome, 1)

	go func() {
		result, err := orch.Orchestrate(ctx, objective)
		outcomeCh <- outcome{result: result, err: err}
		program.Send(tui.DoneMsg{Success: err == nil && result != nil && result.Success, Err: err})
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("watch view: %w", err)
	}

	out := <-outcomeCh
	if out.err != nil {
		return out.err
	}
	printResult(out.result)
	return nil
}

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hiveflow/hiveflow/internal/llm"
	"github.com/hiveflow/hiveflow/internal/memory"
	"github.com/hiveflow/hiveflow/pkg/models"
)

var errStoreDown = errors.New("store unreachable")

// failingStore reports every key as absent and fails every write.
type failingStore struct{}

func (failingStore) Store(context.Context, string, any) error { return errStoreDown }
func (failingStore) Get(context.Context, string, any) (bool, error) {
	return false, nil
}
func (failingStore) Close() error { return nil }

// roleFromInstructions recovers the worker's role from the briefing the
// executor builds, so the fake capability can answer per role.
func roleFromInstructions(instructions string) string {
	rest, ok := strings.CutPrefix(instructions, "You are a ")
	if !ok {
		return ""
	}
	role, _, _ := strings.Cut(rest, " agent")
	return role
}

// scenarioCapability answers per-role canned outputs, optionally fails
// chosen roles, and records how many executions overlapped.
type scenarioCapability struct {
	mu        sync.Mutex
	active    int
	maxActive int
	order     []string

	outputs   map[string]string
	failRoles map[string]error

	// barrier, when set, holds every execution until closed so the test
	// can prove the executions were concurrent.
	barrier chan struct{}
	entered chan string
}

func (s *scenarioCapability) Complete(ctx context.Context, req llm.Request) (*llm.Completion, error) {
	role := roleFromInstructions(req.Instructions)

	s.mu.Lock()
	s.active++
	if s.active > s.maxActive {
		s.maxActive = s.active
	}
	s.order = append(s.order, role)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.active--
		s.mu.Unlock()
	}()

	if s.entered != nil {
		s.entered <- role
	}
	if s.barrier != nil {
		select {
		case <-s.barrier:
		case <-time.After(5 * time.Second):
			return nil, fmt.Errorf("barrier never released")
		}
	}

	if err, ok := s.failRoles[role]; ok {
		return nil, err
	}
	return &llm.Completion{
		Text:  s.outputs[role],
		Usage: llm.Usage{InputTokens: 100, OutputTokens: 40},
	}, nil
}

// collectEvents drains the orchestrator's event channel into a slice. Call
// the returned stop function after the orchestration finished.
func collectEvents(orch *Orchestrator) (events *[]Event, stop func()) {
	collected := &[]Event{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range orch.Events() {
			*collected = append(*collected, ev)
		}
	}()
	return collected, func() {
		orch.CloseEvents()
		<-done
	}
}

func countEvents(events []Event, t EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

const (
	widgetRecordID = "11111111111111111111111111111111"
	sharedRecordID = "22222222222222222222222222222222"
	scriptRecordID = "33333333333333333333333333333333"
)

func TestNewRequiresStoreAndCapability(t *testing.T) {
	if _, err := New(RequiredConfig{Capability: &scenarioCapability{}}); err == nil {
		t.Error("New() without store: error = nil, want error")
	}
	if _, err := New(RequiredConfig{Store: memory.NewMemStore()}); err == nil {
		t.Error("New() without capability: error = nil, want error")
	}
}

func TestOrchestrateConcurrentWidgetObjective(t *testing.T) {
	store := memory.NewMemStore()
	cap := &scenarioCapability{
		outputs: map[string]string{
			"widget-creator": "Created widget " + widgetRecordID + " and option schema " + sharedRecordID + ".",
			"script-writer":  "Updated " + sharedRecordID + " and wrote script " + scriptRecordID + ".",
			"tester":         "Exercised the widget, no defects found.",
		},
		barrier: make(chan struct{}),
		entered: make(chan string, 3),
	}

	orch, err := New(RequiredConfig{Store: store, Capability: cap}, WithMaxTurns(5))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer orch.Close()

	events, stop := collectEvents(orch)

	// Release the barrier only after all three workers are in flight,
	// proving they ran concurrently.
	go func() {
		for i := 0; i < 3; i++ {
			<-cap.entered
		}
		close(cap.barrier)
	}()

	objective := models.NewObjective("create an incident dashboard widget")
	result, err := orch.Orchestrate(context.Background(), objective)
	if err != nil {
		t.Fatalf("Orchestrate() error = %v", err)
	}
	stop()

	if !result.Success {
		t.Error("Success = false, want true")
	}
	if result.AgentsSpawned != 3 {
		t.Errorf("AgentsSpawned = %d, want 3", result.AgentsSpawned)
	}
	if len(result.WorkerResults) != 3 {
		t.Fatalf("WorkerResults = %d entries, want 3", len(result.WorkerResults))
	}
	if cap.maxActive != 3 {
		t.Errorf("max concurrent executions = %d, want 3", cap.maxActive)
	}

	// Results sit in role declaration order regardless of completion order.
	wantRoles := []string{"widget-creator", "script-writer", "tester"}
	for i, wr := range result.WorkerResults {
		if wr.Role != wantRoles[i] {
			t.Errorf("WorkerResults[%d].Role = %q, want %q", i, wr.Role, wantRoles[i])
		}
	}

	wantArtifacts := []string{widgetRecordID, sharedRecordID, scriptRecordID}
	if !reflect.DeepEqual(result.ArtifactsCreated, wantArtifacts) {
		t.Errorf("ArtifactsCreated = %v, want %v", result.ArtifactsCreated, wantArtifacts)
	}

	// The aggregated result is persisted under the objective's result key.
	var persisted models.OrchestrationResult
	found, err := store.Get(context.Background(), memory.ResultKey(objective.ID), &persisted)
	if err != nil || !found {
		t.Fatalf("persisted result: found = %v, err = %v", found, err)
	}
	if persisted.ObjectiveID != objective.ID {
		t.Errorf("persisted ObjectiveID = %q, want %q", persisted.ObjectiveID, objective.ID)
	}

	// Lifecycle events bracket the run.
	evs := *events
	if len(evs) == 0 {
		t.Fatal("no events emitted")
	}
	if evs[0].Type != EventOrchestrationStarted {
		t.Errorf("first event = %q, want %q", evs[0].Type, EventOrchestrationStarted)
	}
	if evs[len(evs)-1].Type != EventOrchestrationCompleted {
		t.Errorf("last event = %q, want %q", evs[len(evs)-1].Type, EventOrchestrationCompleted)
	}
	if n := countEvents(evs, EventWorkerSpawning); n != 3 {
		t.Errorf("worker:spawning events = %d, want 3", n)
	}
	if n := countEvents(evs, EventWorkerCompleted); n != 3 {
		t.Errorf("worker:completed events = %d, want 3", n)
	}
}

func TestOrchestrateSequentialApprovalObjective(t *testing.T) {
	store := memory.NewMemStore()
	cap := &scenarioCapability{
		outputs: map[string]string{
			"flow-designer": "Created flow " + widgetRecordID + ".",
			"script-writer": "Wrote condition script " + scriptRecordID + ".",
			"tester":        "Ran the flow end to end.",
		},
	}

	orch, err := New(RequiredConfig{Store: store, Capability: cap})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer orch.Close()
	defer orch.CloseEvents()

	result, err := orch.Orchestrate(context.Background(), models.NewObjective("build an approval workflow for change requests"))
	if err != nil {
		t.Fatalf("Orchestrate() error = %v", err)
	}

	if !result.Success {
		t.Error("Success = false, want true")
	}
	if cap.maxActive != 1 {
		t.Errorf("max concurrent executions = %d, want 1 in sequential mode", cap.maxActive)
	}
	wantOrder := []string{"flow-designer", "script-writer", "tester"}
	if !reflect.DeepEqual(cap.order, wantOrder) {
		t.Errorf("execution order = %v, want %v", cap.order, wantOrder)
	}
}

func TestOrchestrateIsolatesWorkerFailure(t *testing.T) {
	store := memory.NewMemStore()
	cap := &scenarioCapability{
		outputs: map[string]string{
			"widget-creator": "Created widget " + widgetRecordID + ".",
			"script-writer":  "Wrote script " + scriptRecordID + ".",
		},
		failRoles: map[string]error{
			"tester": &llm.CapabilityError{Kind: llm.ErrTransport, Message: "api: connection reset"},
		},
	}

	orch, err := New(RequiredConfig{Store: store, Capability: cap})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer orch.Close()

	events, stop := collectEvents(orch)

	result, err := orch.Orchestrate(context.Background(), models.NewObjective("create an incident dashboard widget"))
	if err != nil {
		t.Fatalf("Orchestrate() error = %v, worker failures must not fail the call", err)
	}
	stop()

	if result.Success {
		t.Error("Success = true, want false when a worker failed")
	}
	if len(result.WorkerResults) != 3 {
		t.Fatalf("WorkerResults = %d entries, want 3 including the failure", len(result.WorkerResults))
	}

	succeeded := 0
	var failed *models.WorkerResult
	for i := range result.WorkerResults {
		if result.WorkerResults[i].Success {
			succeeded++
		} else {
			failed = &result.WorkerResults[i]
		}
	}
	if succeeded != 2 {
		t.Errorf("succeeded workers = %d, want 2", succeeded)
	}
	if failed == nil || failed.Role != "tester" {
		t.Fatalf("failed worker = %+v, want the tester", failed)
	}
	if failed.Err == nil || failed.Err.Kind != "transport" {
		t.Errorf("failed worker Err = %+v, want transport kind", failed.Err)
	}

	// Successful workers' artifacts survive the sibling failure.
	wantArtifacts := []string{widgetRecordID, scriptRecordID}
	if !reflect.DeepEqual(result.ArtifactsCreated, wantArtifacts) {
		t.Errorf("ArtifactsCreated = %v, want %v", result.ArtifactsCreated, wantArtifacts)
	}

	evs := *events
	if n := countEvents(evs, EventWorkerFailed); n != 1 {
		t.Errorf("worker:failed events = %d, want 1", n)
	}
	if evs[len(evs)-1].Type != EventOrchestrationCompleted {
		t.Errorf("last event = %q, want %q despite the worker failure", evs[len(evs)-1].Type, EventOrchestrationCompleted)
	}
}

func TestOrchestrateRejectsReusedObjectiveID(t *testing.T) {
	store := memory.NewMemStore()
	orch, err := New(RequiredConfig{Store: store, Capability: &scenarioCapability{
		outputs: map[string]string{"generalist": "done"},
	}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer orch.Close()
	defer orch.CloseEvents()

	objective := models.NewObjective("tidy up the instance")
	if _, err := orch.Orchestrate(context.Background(), objective); err != nil {
		t.Fatalf("first Orchestrate() error = %v", err)
	}

	_, err = orch.Orchestrate(context.Background(), objective)
	if !errors.Is(err, ErrObjectiveExists) {
		t.Errorf("second Orchestrate() error = %v, want ErrObjectiveExists", err)
	}
}

func TestOrchestrateValidatesObjective(t *testing.T) {
	orch, err := New(RequiredConfig{Store: memory.NewMemStore(), Capability: &scenarioCapability{}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer orch.Close()
	defer orch.CloseEvents()

	if _, err := orch.Orchestrate(context.Background(), nil); err == nil {
		t.Error("Orchestrate(nil) error = nil, want error")
	}
	if _, err := orch.Orchestrate(context.Background(), &models.Objective{ID: "x"}); err == nil {
		t.Error("Orchestrate() with empty description: error = nil, want error")
	}
	if _, err := orch.Orchestrate(context.Background(), &models.Objective{Description: "do things"}); err == nil {
		t.Error("Orchestrate() with empty id: error = nil, want error")
	}
}

func TestOrchestrateInfrastructureFailure(t *testing.T) {
	orch, err := New(RequiredConfig{Store: failingStore{}, Capability: &scenarioCapability{}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer orch.Close()

	events, stop := collectEvents(orch)

	_, err = orch.Orchestrate(context.Background(), models.NewObjective("create a widget"))
	stop()

	if !errors.Is(err, errStoreDown) {
		t.Fatalf("Orchestrate() error = %v, want wrapped store failure", err)
	}
	if n := countEvents(*events, EventOrchestrationFailed); n != 1 {
		t.Errorf("orchestration:failed events = %d, want 1", n)
	}
	if n := countEvents(*events, EventWorkerSpawning); n != 0 {
		t.Errorf("worker:spawning events = %d, want 0 when analysis cannot persist", n)
	}
}

func TestMonitorProgress(t *testing.T) {
	store := memory.NewMemStore()
	orch, err := New(RequiredConfig{Store: store, Capability: &scenarioCapability{
		outputs: map[string]string{"generalist": "Recorded " + widgetRecordID + "."},
	}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer orch.Close()
	defer orch.CloseEvents()

	// Unknown objective ids report zero-value progress, never an error.
	progress, err := orch.MonitorProgress(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("MonitorProgress() error = %v", err)
	}
	if progress != (models.Progress{}) {
		t.Errorf("MonitorProgress() = %+v, want zero value", progress)
	}

	objective := models.NewObjective("tidy up the instance")
	if _, err := orch.Orchestrate(context.Background(), objective); err != nil {
		t.Fatalf("Orchestrate() error = %v", err)
	}

	progress, err = orch.MonitorProgress(context.Background(), objective.ID)
	if err != nil {
		t.Fatalf("MonitorProgress() error = %v", err)
	}
	want := models.Progress{Overall: 100, AgentsActive: 0, ArtifactsCreated: 1}
	if progress != want {
		t.Errorf("MonitorProgress() = %+v, want %+v", progress, want)
	}
}

// blockingCapability holds its execution open until the worker's context
// is canceled, so interrupts can be exercised deterministically.
type blockingCapability struct {
	entered chan struct{}
}

func (b *blockingCapability) Complete(ctx context.Context, req llm.Request) (*llm.Completion, error) {
	close(b.entered)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("never interrupted")
	}
}

func TestInterruptAnnouncesOnce(t *testing.T) {
	store := memory.NewMemStore()
	cap := &blockingCapability{entered: make(chan struct{})}

	orch, err := New(RequiredConfig{Store: store, Capability: cap})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer orch.Close()

	outcome := make(chan *models.OrchestrationResult, 1)
	go func() {
		result, err := orch.Orchestrate(context.Background(), models.NewObjective("investigate the stalled report"))
		if err != nil {
			t.Errorf("Orchestrate() error = %v", err)
		}
		outcome <- result
		orch.CloseEvents()
	}()

	var events []Event
	for ev := range orch.Events() {
		events = append(events, ev)
		if ev.Type == EventWorkerSpawning {
			go func(workerID string) {
				<-cap.entered
				if !orch.Interrupt(workerID) {
					t.Errorf("Interrupt(%q) = false, want true", workerID)
				}
			}(ev.WorkerID)
		}
	}

	result := <-outcome
	if result == nil {
		t.Fatal("Orchestrate() returned no result")
	}
	if result.Success {
		t.Error("Success = true, want false for interrupted worker")
	}
	if len(result.WorkerResults) != 1 {
		t.Fatalf("WorkerResults = %d entries, want 1", len(result.WorkerResults))
	}
	wr := result.WorkerResults[0]
	if wr.Err == nil || wr.Err.Kind != "interrupted" {
		t.Errorf("worker Err = %+v, want interrupted kind", wr.Err)
	}

	if n := countEvents(events, EventWorkerInterrupted); n != 1 {
		t.Errorf("worker:interrupted events = %d, want exactly 1", n)
	}
}

func TestInterruptUnknownWorker(t *testing.T) {
	orch, err := New(RequiredConfig{Store: memory.NewMemStore(), Capability: &scenarioCapability{}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer orch.Close()
	defer orch.CloseEvents()

	if orch.Interrupt("ghost-12345678") {
		t.Error("Interrupt() = true for unknown worker, want false")
	}
}

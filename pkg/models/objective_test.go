package models

import "testing"

func TestNewObjective(t *testing.T) {
	obj := NewObjective("  create incident widget  ")

	if obj.ID == "" {
		t.Fatal("NewObjective() produced empty id")
	}
	if obj.Description != "create incident widget" {
		t.Errorf("Description = %q, want trimmed input", obj.Description)
	}
	if obj.Priority != PriorityMedium {
		t.Errorf("Priority = %q, want medium default", obj.Priority)
	}
}

func TestNewObjective_UniqueIDs(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		obj := NewObjective("objective")
		if _, ok := seen[obj.ID]; ok {
			t.Fatalf("duplicate objective id %q", obj.ID)
		}
		seen[obj.ID] = struct{}{}
	}
}

func TestPriorityValid(t *testing.T) {
	tests := []struct {
		priority Priority
		want     bool
	}{
		{PriorityLow, true},
		{PriorityMedium, true},
		{PriorityHigh, true},
		{PriorityCritical, true},
		{Priority("urgent"), false},
		{Priority(""), false},
	}

	for _, tt := range tests {
		if got := tt.priority.Valid(); got != tt.want {
			t.Errorf("Priority(%q).Valid() = %v, want %v", tt.priority, got, tt.want)
		}
	}
}

func TestTodoStatusValid(t *testing.T) {
	tests := []struct {
		status TodoStatus
		want   bool
	}{
		{TodoPending, true},
		{TodoInProgress, true},
		{TodoDone, true},
		{TodoStatus("cancelled"), false},
	}

	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.want {
			t.Errorf("TodoStatus(%q).Valid() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestWorkerErrorError(t *testing.T) {
	err := &WorkerError{Kind: "transport", Message: "connection reset"}
	if got := err.Error(); got != "transport: connection reset" {
		t.Errorf("Error() = %q", got)
	}
}

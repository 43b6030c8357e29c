package memory

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func TestKeys(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"analysis", AnalysisKey("obj1"), "hiveflow:objective:obj1:analysis"},
		{"plan", PlanKey("obj1"), "hiveflow:objective:obj1:plan"},
		{"result", ResultKey("obj1"), "hiveflow:objective:obj1:result"},
		{"worker", WorkerKey("obj1", "tester-ab12"), "hiveflow:objective:obj1:worker:tester-ab12"},
		{"prefix", ObjectivePrefix("obj1"), "hiveflow:objective:obj1:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

// record is a sample payload exercising JSON round-tripping.
type record struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags,omitempty"`
}

func TestMemStore_RoundTrip(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	in := record{Name: "analysis", Count: 3, Tags: []string{"a", "b"}}
	if err := store.Store(ctx, "k1", in); err != nil {
		t.Fatalf("Store() error: %v", err)
	}

	var out record
	found, err := store.Get(ctx, "k1", &out)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !found {
		t.Fatal("Get() reported absent for stored key")
	}
	if out.Name != in.Name || out.Count != in.Count || len(out.Tags) != 2 {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestMemStore_AbsentKey(t *testing.T) {
	store := NewMemStore()

	var out record
	found, err := store.Get(context.Background(), "missing", &out)
	if err != nil {
		t.Fatalf("Get() error for absent key: %v", err)
	}
	if found {
		t.Error("Get() reported found for absent key")
	}
}

func TestMemStore_Overwrite(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	if err := store.Store(ctx, "k", record{Count: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.Store(ctx, "k", record{Count: 2}); err != nil {
		t.Fatal(err)
	}

	var out record
	if _, err := store.Get(ctx, "k", &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 {
		t.Errorf("Count = %d, want last write", out.Count)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coord.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	in := record{Name: "result", Count: 7}
	if err := store.Store(ctx, "k1", in); err != nil {
		t.Fatalf("Store() error: %v", err)
	}

	var out record
	found, err := store.Get(ctx, "k1", &out)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !found {
		t.Fatal("Get() reported absent for stored key")
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestSQLiteStore_AbsentAndOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coord.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	var out record
	found, err := store.Get(ctx, "missing", &out)
	if err != nil {
		t.Fatalf("Get() error for absent key: %v", err)
	}
	if found {
		t.Error("Get() reported found for absent key")
	}

	if err := store.Store(ctx, "k", record{Count: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.Store(ctx, "k", record{Count: 2}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "k", &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 {
		t.Errorf("Count = %d, want last write", out.Count)
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coord.db")
	ctx := context.Background()

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Store(ctx, "persisted", record{Name: "keep"}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	var out record
	found, err := reopened.Get(ctx, "persisted", &out)
	if err != nil || !found {
		t.Fatalf("Get() after reopen: found=%v err=%v", found, err)
	}
	if out.Name != "keep" {
		t.Errorf("Name = %q, want %q", out.Name, "keep")
	}
}

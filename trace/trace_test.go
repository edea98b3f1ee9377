package trace

import (
	"path/filepath"
	"testing"

	"carbonc/interp"
)

func TestOpenCreatesSchemaAndSession(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trace.db")
	r, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.SessionID() == "" {
		t.Error("expected a non-empty session id")
	}
}

func TestOnStepRecordsRows(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trace.db")
	r, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	site := interp.SourceRegion{File: "main.carbon", Start: 10, End: 20}
	r.OnStep(site, "ExprStmt")
	r.OnStep(site, "ReturnStmt")

	steps, err := r.Steps(r.SessionID())
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(steps))
	}
	if steps[0].Note != "ExprStmt" || steps[1].Note != "ReturnStmt" {
		t.Errorf("got notes %q, %q", steps[0].Note, steps[1].Note)
	}
	if steps[0].File != "main.carbon" || steps[0].Start != 10 || steps[0].End != 20 {
		t.Errorf("got step 0 %+v", steps[0])
	}
}

func TestTwoSessionsDoNotMixSteps(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trace.db")
	r1, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer r1.Close()
	r2, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer r2.Close()

	site := interp.SourceRegion{File: "a.carbon", Start: 0, End: 1}
	r1.OnStep(site, "first")
	r2.OnStep(site, "second")

	steps1, _ := r1.Steps(r1.SessionID())
	steps2, _ := r2.Steps(r2.SessionID())
	if len(steps1) != 1 || steps1[0].Note != "first" {
		t.Errorf("session 1 got %+v", steps1)
	}
	if len(steps2) != 1 || steps2[0].Note != "second" {
		t.Errorf("session 2 got %+v", steps2)
	}
}

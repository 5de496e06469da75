package schema

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// recordingRunner captures every statement it is asked to run and fails
// the ones matching failOn.
type recordingRunner struct {
	statements []string
	failOn     string
}

func (r *recordingRunner) Run(_ context.Context, query string, _ map[string]any) error {
	r.statements = append(r.statements, query)
	if r.failOn != "" && strings.Contains(query, r.failOn) {
		return errors.New("already exists")
	}
	return nil
}

func TestApplySplitsAndSkipsBlanks(t *testing.T) {
	runner := &recordingRunner{}
	init := New(runner)

	rep := init.Apply(context.Background(), `
CREATE CONSTRAINT a IF NOT EXISTS FOR (c:Category) REQUIRE c.id IS UNIQUE;

CREATE CONSTRAINT b IF NOT EXISTS FOR (p:Product) REQUIRE p.id IS UNIQUE;
;
`)

	if len(runner.statements) != 2 {
		t.Fatalf("ran %d statements, want 2: %v", len(runner.statements), runner.statements)
	}
	if rep.Applied != 2 || rep.Failed != 0 {
		t.Errorf("report = %+v, want Applied=2 Failed=0", rep)
	}
	for _, stmt := range runner.statements {
		if strings.HasSuffix(stmt, ";") || strings.TrimSpace(stmt) != stmt {
			t.Errorf("statement not trimmed: %q", stmt)
		}
	}
}

func TestApplyContinuesPastFailures(t *testing.T) {
	runner := &recordingRunner{failOn: "Product"}
	init := New(runner)

	rep := init.Apply(context.Background(),
		"CREATE CONSTRAINT a FOR (c:Category) REQUIRE c.id IS UNIQUE;"+
			"CREATE CONSTRAINT b FOR (p:Product) REQUIRE p.id IS UNIQUE;"+
			"CREATE CONSTRAINT c FOR (o:Order) REQUIRE o.id IS UNIQUE;")

	if len(runner.statements) != 3 {
		t.Fatalf("ran %d statements, want all 3 despite the failure", len(runner.statements))
	}
	if rep.Applied != 2 || rep.Failed != 1 {
		t.Errorf("report = %+v, want Applied=2 Failed=1", rep)
	}
}

func TestApplyFileMissingIsNotAnError(t *testing.T) {
	runner := &recordingRunner{}
	init := New(runner)

	rep, err := init.ApplyFile(context.Background(), filepath.Join(t.TempDir(), "nope.cypher"))
	if err != nil {
		t.Fatalf("missing schema file should be skipped, got error: %v", err)
	}
	if rep.Applied != 0 || rep.Failed != 0 {
		t.Errorf("report = %+v, want zero counts", rep)
	}
	if len(runner.statements) != 0 {
		t.Errorf("no statements should run for a missing file, ran %v", runner.statements)
	}
}

func TestApplyFileReadsStatements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.cypher")
	content := "CREATE CONSTRAINT a FOR (c:Customer) REQUIRE c.id IS UNIQUE;\n" +
		"CREATE INDEX product_name IF NOT EXISTS FOR (p:Product) ON (p.name);\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := &recordingRunner{}
	rep, err := New(runner).ApplyFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ApplyFile returned error: %v", err)
	}
	if rep.Applied != 2 {
		t.Errorf("Applied = %d, want 2", rep.Applied)
	}
}

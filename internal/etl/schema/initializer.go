package schema

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"
)

// Runner executes a single graph statement.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) error
}

// Initializer applies constraint and index statements before a data load.
// Statements are independent of each other, so one failing (usually
// because it already exists on an older server version) only costs a
// warning, never the run.
type Initializer struct {
	store Runner
}

func New(store Runner) *Initializer {
	return &Initializer{store: store}
}

// Report holds per-run statement counts.
type Report struct {
	Applied int
	Failed  int
}

// ApplyFile reads a statements file and applies every statement in it.
// A missing file skips the schema step with a warning; the load can still
// proceed, just without constraints.
func (i *Initializer) ApplyFile(ctx context.Context, path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("Schema file %s not found, skipping schema step", path)
			return Report{}, nil
		}
		return Report{}, err
	}
	return i.Apply(ctx, string(data)), nil
}

// Apply splits the statement text on ';' and runs each non-blank
// statement on its own.
func (i *Initializer) Apply(ctx context.Context, statements string) Report {
	var rep Report
	for _, stmt := range strings.Split(statements, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if err := i.store.Run(ctx, stmt, nil); err != nil {
			log.Printf("Schema statement failed (continuing): %v", err)
			rep.Failed++
			continue
		}
		rep.Applied++
	}
	return rep
}

// Package store persists per-file transformation outcomes for batch runs.
// The report command reads a datastore back instead of re-running the
// engine.
package store

import (
	"fmt"

	"github.com/casebreak/casebreak/pkg/types"
)

// Store provides persistence for transformation results.
// This interface abstracts the underlying storage implementation.
type Store interface {
	// AddResult stores the outcome of one translation unit, diagnostics
	// included. Re-adding the same path replaces the previous record.
	AddResult(r *types.FileResult) error

	// Results retrieves all file results in path order.
	Results() ([]*types.FileResult, error)

	// Summary aggregates the stored results.
	Summary() (Summary, error)

	// Close closes the underlying storage.
	Close() error
}

// Summary aggregates a batch run.
type Summary struct {
	Files       int
	Changed     int
	Injections  int
	Directives  int
	Diagnostics int
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for an in-memory store.
	Path string
}

// New creates a new Store: in-memory for ":memory:", SQLite otherwise.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}
	return NewSQLite(cfg.Path)
}

package store

import (
	"sort"
	"sync"

	"github.com/casebreak/casebreak/pkg/types"
)

// MemoryStore implements Store using in-memory data structures.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]*types.FileResult // keyed by path
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		results: make(map[string]*types.FileResult),
	}
}

// AddResult stores the outcome of one translation unit.
func (m *MemoryStore) AddResult(r *types.FileResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *r
	cp.Diagnostics = append([]types.Diagnostic(nil), r.Diagnostics...)
	m.results[r.Path] = &cp
	return nil
}

// Results retrieves all file results in path order.
func (m *MemoryStore) Results() ([]*types.FileResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.FileResult, 0, len(m.results))
	for _, r := range m.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Summary aggregates the stored results.
func (m *MemoryStore) Summary() (Summary, error) {
	results, err := m.Results()
	if err != nil {
		return Summary{}, err
	}
	return summarize(results), nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error { return nil }

func summarize(results []*types.FileResult) Summary {
	var s Summary
	for _, r := range results {
		s.Files++
		if r.Changed {
			s.Changed++
		}
		s.Injections += r.Injections
		s.Directives += r.Directives
		s.Diagnostics += len(r.Diagnostics)
	}
	return s
}

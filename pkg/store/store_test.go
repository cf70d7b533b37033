package store

import (
	"path/filepath"
	"testing"

	"github.com/casebreak/casebreak/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(path string, changed bool) *types.FileResult {
	r := &types.FileResult{
		Path:       path,
		Changed:    changed,
		BytesIn:    120,
		BytesOut:   127,
		Injections: 0,
		Directives: 0,
	}
	if changed {
		r.Injections = 2
		r.Directives = 1
	}
	return r
}

// storeUnderTest runs the shared Store contract against both backends.
func storeUnderTest(t *testing.T, open func(t *testing.T) Store) {
	t.Run("AddAndRetrieve", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		require.NoError(t, s.AddResult(sampleResult("src/b.cc", true)))
		require.NoError(t, s.AddResult(sampleResult("src/a.cc", false)))

		results, err := s.Results()
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "src/a.cc", results[0].Path)
		assert.Equal(t, "src/b.cc", results[1].Path)
		assert.True(t, results[1].Changed)
		assert.Equal(t, 2, results[1].Injections)
	})

	t.Run("ReplaceSamePath", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		require.NoError(t, s.AddResult(sampleResult("src/a.cc", false)))
		require.NoError(t, s.AddResult(sampleResult("src/a.cc", true)))

		results, err := s.Results()
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, results[0].Changed)
	})

	t.Run("DiagnosticsRoundTrip", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		r := sampleResult("src/diag.cc", false)
		r.Diagnostics = []types.Diagnostic{{
			Kind:    types.DiagMisplacedDirective,
			Message: "directive has no effect",
		}}
		require.NoError(t, s.AddResult(r))

		results, err := s.Results()
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Len(t, results[0].Diagnostics, 1)
		assert.Equal(t, types.DiagMisplacedDirective, results[0].Diagnostics[0].Kind)
		assert.Equal(t, "directive has no effect", results[0].Diagnostics[0].Message)
	})

	t.Run("Summary", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		require.NoError(t, s.AddResult(sampleResult("src/a.cc", true)))
		require.NoError(t, s.AddResult(sampleResult("src/b.cc", true)))
		r := sampleResult("src/c.cc", false)
		r.Diagnostics = []types.Diagnostic{{Kind: types.DiagUnbracedSwitchBody}}
		require.NoError(t, s.AddResult(r))

		sum, err := s.Summary()
		require.NoError(t, err)
		assert.Equal(t, 3, sum.Files)
		assert.Equal(t, 2, sum.Changed)
		assert.Equal(t, 4, sum.Injections)
		assert.Equal(t, 2, sum.Directives)
		assert.Equal(t, 1, sum.Diagnostics)
	})

	t.Run("Empty", func(t *testing.T) {
		s := open(t)
		defer s.Close()

		results, err := s.Results()
		require.NoError(t, err)
		assert.Empty(t, results)

		sum, err := s.Summary()
		require.NoError(t, err)
		assert.Zero(t, sum.Files)
	})
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, func(t *testing.T) Store {
		return NewMemory()
	})
}

func TestSQLiteStore(t *testing.T) {
	storeUnderTest(t, func(t *testing.T) Store {
		s, err := NewSQLite(filepath.Join(t.TempDir(), "results.db"))
		require.NoError(t, err)
		return s
	})
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.AddResult(sampleResult("src/a.cc", true)))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	results, err := s.Results()
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "src/a.cc", results[0].Path)
}

func TestNew_Dispatch(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	s, err := New(Config{Path: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
	s.Close()

	s, err = New(Config{Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.Close()
}

func TestMemoryStore_CopiesInput(t *testing.T) {
	s := NewMemory()
	r := sampleResult("src/a.cc", false)
	require.NoError(t, s.AddResult(r))

	// Mutating the caller's struct afterwards must not affect the store.
	r.Changed = true
	results, err := s.Results()
	require.NoError(t, err)
	assert.False(t, results[0].Changed)
}

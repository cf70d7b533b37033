package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/casebreak/casebreak/pkg/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite (CGO-free driver).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store at the given file path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddResult stores the outcome of one translation unit.
func (s *SQLiteStore) AddResult(r *types.FileResult) error {
	diagsJSON, err := json.Marshal(r.Diagnostics)
	if err != nil {
		return fmt.Errorf("marshaling diagnostics: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO results (path, changed, injections, directives, bytes_in, bytes_out, diagnostics_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		r.Path,
		boolToInt(r.Changed),
		r.Injections,
		r.Directives,
		r.BytesIn,
		r.BytesOut,
		string(diagsJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting result: %w", err)
	}
	return nil
}

// Results retrieves all file results in path order.
func (s *SQLiteStore) Results() ([]*types.FileResult, error) {
	rows, err := s.db.Query(`
		SELECT path, changed, injections, directives, bytes_in, bytes_out, diagnostics_json
		FROM results ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var out []*types.FileResult
	for rows.Next() {
		var r types.FileResult
		var changed int
		var diagsJSON string
		if err := rows.Scan(&r.Path, &changed, &r.Injections, &r.Directives, &r.BytesIn, &r.BytesOut, &diagsJSON); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.Changed = changed != 0
		if diagsJSON != "" && diagsJSON != "null" {
			if err := json.Unmarshal([]byte(diagsJSON), &r.Diagnostics); err != nil {
				return nil, fmt.Errorf("unmarshaling diagnostics: %w", err)
			}
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// Summary aggregates the stored results.
func (s *SQLiteStore) Summary() (Summary, error) {
	results, err := s.Results()
	if err != nil {
		return Summary{}, err
	}
	return summarize(results), nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

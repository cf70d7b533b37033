// Package enum discovers translation units for batch runs. Each yielded
// file is an independent unit: the engine holds no shared mutable state, so
// callbacks may run concurrently.
package enum

import "context"

// Enumerator discovers translation units to transform.
type Enumerator interface {
	// Enumerate yields file contents from the source. The callback may be
	// invoked from multiple goroutines.
	Enumerate(ctx context.Context, callback func(path string, content []byte) error) error
}

// Config for enumeration.
type Config struct {
	// Root is the starting path for enumeration.
	Root string

	// Extensions limits enumeration to files with one of these extensions
	// (case-insensitive). Empty means every non-binary file.
	Extensions []string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks follows symbolic links.
	FollowSymlinks bool
}

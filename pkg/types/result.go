package types

// FileResult records the outcome of transforming one translation unit.
// Results are what the store persists and the report command reads back.
type FileResult struct {
	// Path identifies the translation unit. For in-memory transforms it is
	// the caller-supplied source name.
	Path string

	Changed    bool
	Injections int
	Directives int
	BytesIn    int64
	BytesOut   int64

	Diagnostics []Diagnostic
}

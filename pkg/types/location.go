package types

// OffsetSpan is byte range [Start, End) - half-open interval.
type OffsetSpan struct {
	Start int64
	End   int64
}

// Len returns the number of bytes covered by the span.
func (s OffsetSpan) Len() int64 {
	return s.End - s.Start
}

// Contains reports whether other lies entirely within s.
func (s OffsetSpan) Contains(other OffsetSpan) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// SourcePoint is line:column position (1-based).
type SourcePoint struct {
	Line   int
	Column int
}

// SourceSpan is start-end line:column range.
type SourceSpan struct {
	Start SourcePoint
	End   SourcePoint
}

// Location combines byte offsets and source positions.
type Location struct {
	Offset OffsetSpan
	Source SourceSpan
}

// Union returns the smallest location covering both a and b.
// Either argument may be the zero Location, in which case the other is returned.
func Union(a, b Location) Location {
	if a == (Location{}) {
		return b
	}
	if b == (Location{}) {
		return a
	}
	out := a
	if b.Offset.Start < out.Offset.Start {
		out.Offset.Start = b.Offset.Start
		out.Source.Start = b.Source.Start
	}
	if b.Offset.End > out.Offset.End {
		out.Offset.End = b.Offset.End
		out.Source.End = b.Source.End
	}
	return out
}

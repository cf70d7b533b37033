package types

import "fmt"

// Mode is the fallthrough mode governing one switch statement.
type Mode uint8

const (
	// ModeUngoverned is a switch with no preceding directive. Standard C++
	// semantics apply and the switch is never rewritten.
	ModeUngoverned Mode = iota

	// ModeEnabled is a switch governed by fall_through(true). Equivalent to
	// ModeUngoverned except that the directive itself is removed.
	ModeEnabled

	// ModeDisabled is a switch governed by fall_through(false). Case segments
	// without an explicit terminator or fallthrough marker receive an
	// injected break.
	ModeDisabled
)

func (m Mode) String() string {
	switch m {
	case ModeUngoverned:
		return "ungoverned"
	case ModeEnabled:
		return "fall_through(true)"
	case ModeDisabled:
		return "fall_through(false)"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// DirectiveMark records one recognized fall_through(<bool>); directive.
// Every mark is deleted from the output whether or not it binds: the
// directive is not valid C++ and must never reach a downstream compiler.
type DirectiveMark struct {
	// First and Last are the token indices of the directive identifier and
	// its terminating semicolon.
	First, Last int

	Enabled bool
	Loc     Location

	// Bound reports whether the directive governs the switch that follows
	// it. An unbound mark was reported as DiagMisplacedDirective.
	Bound bool
}

// CaseSegment is one case or default label group plus the statement sequence
// that follows it, up to the next label or the switch's closing brace.
// All fields are token indices into the run's token list.
type CaseSegment struct {
	// LabelStart is the index of the first `case` or `default` token.
	// Stacked labels with no intervening statements share one segment.
	LabelStart int

	// StmtStart is the index of the first token after the final label colon.
	StmtStart int

	// End is one past the last token of the segment: the next segment's
	// LabelStart, or the index of the body's closing brace.
	End int

	// Default reports whether the label group includes `default:`.
	Default bool

	// Terminated is set by the classifier when the segment's last top-level
	// statement transfers control out of the segment.
	Terminated bool

	// HasFallthroughAttr is set by the classifier when the segment ends with
	// a [[fallthrough]]; statement of its own.
	HasFallthroughAttr bool
}

// SwitchRegion is one switch statement: its header, its body bounds, its
// governing mode, and its case segments in source order. Regions live in an
// arena indexed by discovery order; nested switches are separate regions
// linked through Parent.
type SwitchRegion struct {
	// SwitchTok is the index of the `switch` keyword token.
	SwitchTok int

	// CondOpen and CondClose are the indices of the condition parens.
	CondOpen, CondClose int

	// BodyOpen and BodyClose are the indices of the body braces. Both are -1
	// for a switch whose body is not a compound statement.
	BodyOpen, BodyClose int

	Mode Mode

	// Directive is the index into the run's directive marks, or -1 when
	// ungoverned.
	Directive int

	// Parent is the arena index of the innermost enclosing region, or -1.
	Parent int

	Cases []CaseSegment
}

// Governed reports whether the region was bound to a directive.
func (r *SwitchRegion) Governed() bool {
	return r.Mode != ModeUngoverned
}

package types

import "fmt"

// MalformedInputError reports unbalanced or unterminated structural tokens
// (braces, parens, literals, comments). It is fatal: no output is produced,
// since rewriting structurally broken input risks corrupting unrelated code.
type MalformedInputError struct {
	Loc    Location
	Detail string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input at %d:%d: %s", e.Loc.Source.Start.Line, e.Loc.Source.Start.Column, e.Detail)
}

// UnterminatedSwitchBodyError reports a switch body that never closes before
// end of input. Fatal, handled identically to MalformedInputError.
type UnterminatedSwitchBodyError struct {
	Loc Location
}

func (e *UnterminatedSwitchBodyError) Error() string {
	return fmt.Sprintf("switch body opened at %d:%d is never closed", e.Loc.Source.Start.Line, e.Loc.Source.Start.Column)
}

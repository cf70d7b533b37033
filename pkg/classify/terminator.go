package classify

import "fmt"

// Terminator is the closed set of statement kinds that transfer control out
// of a case segment. The set is fixed; switches over it are exhaustive.
type Terminator uint8

const (
	TermNone Terminator = iota
	TermBreak
	TermReturn
	TermGoto
	TermContinue
	TermThrow
	TermNoreturnCall
)

// Terminates reports whether the kind qualifies as a segment terminator.
func (t Terminator) Terminates() bool { return t != TermNone }

func (t Terminator) String() string {
	switch t {
	case TermNone:
		return "none"
	case TermBreak:
		return "break"
	case TermReturn:
		return "return"
	case TermGoto:
		return "goto"
	case TermContinue:
		return "continue"
	case TermThrow:
		return "throw"
	case TermNoreturnCall:
		return "noreturn-call"
	default:
		return fmt.Sprintf("Terminator(%d)", t)
	}
}

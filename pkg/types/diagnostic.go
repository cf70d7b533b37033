package types

import "fmt"

// DiagnosticKind identifies a recoverable anomaly reported during a run.
type DiagnosticKind uint8

const (
	// DiagMisplacedDirective reports a fall_through directive that is not
	// immediately followed by a switch statement. The directive is removed
	// from the output but governs nothing.
	DiagMisplacedDirective DiagnosticKind = iota

	// DiagUnbracedSwitchBody reports a governed switch whose body is a single
	// statement rather than a compound statement. Such a switch has at most
	// one case segment, so there is nothing to inject; the directive is still
	// removed.
	DiagUnbracedSwitchBody
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagMisplacedDirective:
		return "MisplacedDirectiveError"
	case DiagUnbracedSwitchBody:
		return "UnbracedSwitchBodyWarning"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", k)
	}
}

// Diagnostic is a recoverable anomaly. Diagnostics never halt processing and
// are reported in source order.
type Diagnostic struct {
	Kind    DiagnosticKind
	Loc     Location
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Loc.Source.Start.Line, d.Loc.Source.Start.Column, d.Kind, d.Message)
}

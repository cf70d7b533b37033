package extract

import (
	"github.com/casebreak/casebreak/pkg/lexer"
	"github.com/casebreak/casebreak/pkg/types"
)

// directiveState is the tracker for directive scope. It is a plain value
// threaded through one extraction, never shared storage, so independent
// translation units can run in parallel.
//
// States: none -> pending (directive seen) -> bound to the next switch, or
// back to none with a MisplacedDirectiveError when anything else follows.
type directiveState struct {
	pending bool
	mark    int // index into Result.Directives while pending
}

// statement-position predecessors: a directive is only recognized where a
// statement can begin. Anything else (assignment targets, call arguments,
// operator operands) leaves the tokens untouched, per the inertness
// invariant for directives embedded mid-expression.
func atStatementPosition(s *lexer.Stream, i int) bool {
	p := s.PrevNonTrivia(i)
	if p < 0 {
		return true
	}
	t := s.At(p)
	if t.Kind == types.TokenPreproc {
		return true
	}
	if t.Kind == types.TokenIdent {
		return t.Lexeme == "else" || t.Lexeme == "do"
	}
	if t.Kind == types.TokenPunct {
		switch t.Lexeme {
		case "{", "}", ";", ":", ")":
			return true
		}
	}
	return false
}

// matchDirective recognizes the exact token shape
//
//	<spelling> ( true|false ) ;
//
// at token index i, trivia permitted between tokens. The bool literal must
// be literal: anything else is not a directive and is left alone.
func matchDirective(s *lexer.Stream, i int, spelling string) (types.DirectiveMark, bool) {
	if !s.At(i).Is(types.TokenIdent, spelling) || !atStatementPosition(s, i) {
		return types.DirectiveMark{}, false
	}
	open := s.NextNonTrivia(i + 1)
	if !s.At(open).Is(types.TokenPunct, "(") {
		return types.DirectiveMark{}, false
	}
	arg := s.NextNonTrivia(open + 1)
	at := s.At(arg)
	if at.Kind != types.TokenIdent || (at.Lexeme != "true" && at.Lexeme != "false") {
		return types.DirectiveMark{}, false
	}
	close := s.NextNonTrivia(arg + 1)
	if !s.At(close).Is(types.TokenPunct, ")") {
		return types.DirectiveMark{}, false
	}
	semi := s.NextNonTrivia(close + 1)
	if !s.At(semi).Is(types.TokenPunct, ";") {
		return types.DirectiveMark{}, false
	}
	return types.DirectiveMark{
		First:   i,
		Last:    semi,
		Enabled: at.Lexeme == "true",
		Loc:     types.Union(s.At(i).Loc, s.At(semi).Loc),
	}, true
}

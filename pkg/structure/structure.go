// Package structure computes the brace/paren nesting map for one token
// stream. It is the first pass of a run: every later pass asks it for the
// depth of a token instead of re-walking delimiters.
package structure

import (
	"fmt"

	"github.com/casebreak/casebreak/pkg/lexer"
	"github.com/casebreak/casebreak/pkg/types"
)

// Info is the classification produced by Scan. Depth values follow one
// convention throughout: an opening token sits at the depth of its enclosing
// construct, tokens inside sit one deeper, and the matching closer sits back
// at the opener's depth.
type Info struct {
	depth   []int
	literal []bool
}

// Depth returns the brace/paren nesting level at token i.
func (in *Info) Depth(i int) int {
	if i < 0 || i >= len(in.depth) {
		return 0
	}
	return in.depth[i]
}

// IsLiteralOrComment reports whether token i is literal or comment content.
// Braces and keywords inside such tokens are never structural; the lexer
// already delivers literals and comments as whole tokens, so this is a kind
// check recorded once per token.
func (in *Info) IsLiteralOrComment(i int) bool {
	if i < 0 || i >= len(in.literal) {
		return false
	}
	return in.literal[i]
}

// Scan walks the stream once, tracking brace and paren nesting. Unbalanced
// or mismatched delimiters are fatal (*types.MalformedInputError): no pass
// may rewrite structurally broken input.
func Scan(s *lexer.Stream) (*Info, error) {
	in := &Info{
		depth:   make([]int, s.Len()),
		literal: make([]bool, s.Len()),
	}

	type opener struct {
		idx int
		ch  byte
	}
	var stack []opener

	for i := 0; i < s.Len(); i++ {
		t := s.At(i)
		in.depth[i] = len(stack)
		in.literal[i] = t.IsLiteral() || t.Kind == types.TokenComment

		if t.Kind != types.TokenPunct || len(t.Lexeme) != 1 {
			continue
		}
		switch t.Lexeme[0] {
		case '{', '(':
			stack = append(stack, opener{idx: i, ch: t.Lexeme[0]})
		case '}', ')':
			if len(stack) == 0 {
				return nil, &types.MalformedInputError{
					Loc:    t.Loc,
					Detail: fmt.Sprintf("unmatched %q", t.Lexeme),
				}
			}
			top := stack[len(stack)-1]
			if closerFor(top.ch) != t.Lexeme[0] {
				return nil, &types.MalformedInputError{
					Loc:    t.Loc,
					Detail: fmt.Sprintf("%q closed by %q", string(top.ch), t.Lexeme),
				}
			}
			stack = stack[:len(stack)-1]
			in.depth[i] = len(stack)
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, &types.MalformedInputError{
			Loc:    s.At(top.idx).Loc,
			Detail: fmt.Sprintf("%q is never closed", string(top.ch)),
		}
	}
	return in, nil
}

func closerFor(open byte) byte {
	if open == '{' {
		return '}'
	}
	return ')'
}

// Package classify decides, for each case segment, whether its statement
// sequence already leaves the segment (terminator) or declares intentional
// fallthrough ([[fallthrough]];). Recognition is purely structural: the one
// semantic concession is a name set for [[noreturn]] functions, seeded with
// the standard library's and extended from same-unit declarations.
package classify

import (
	"strings"

	"github.com/casebreak/casebreak/pkg/lexer"
	"github.com/casebreak/casebreak/pkg/structure"
	"github.com/casebreak/casebreak/pkg/types"
)

// DefaultAttributeSpelling is the attribute recognized as an intentional
// fallthrough marker.
const DefaultAttributeSpelling = "fallthrough"

// stdNoReturn is the standard set of [[noreturn]] functions.
var stdNoReturn = []string{
	"abort", "exit", "_Exit", "quick_exit", "terminate", "unreachable",
	"longjmp", "siglongjmp", "rethrow_exception",
	"std::abort", "std::exit", "std::_Exit", "std::quick_exit",
	"std::terminate", "std::unreachable", "std::longjmp",
	"std::rethrow_exception",
	"__builtin_unreachable", "__builtin_trap", "__assert_fail",
}

// Options configures a Classifier.
type Options struct {
	// AttributeSpelling overrides the fallthrough attribute identifier.
	// Empty means DefaultAttributeSpelling.
	AttributeSpelling string

	// NoReturnFunctions adds caller-known noreturn function names
	// (optionally qualified) to the standard set.
	NoReturnFunctions []string
}

// Classifier classifies case segments of one translation unit.
type Classifier struct {
	attr     string
	noreturn map[string]bool
}

// New creates a Classifier with the standard noreturn set plus any
// configured additions.
func New(opts Options) *Classifier {
	attr := opts.AttributeSpelling
	if attr == "" {
		attr = DefaultAttributeSpelling
	}
	c := &Classifier{attr: attr, noreturn: make(map[string]bool)}
	for _, n := range stdNoReturn {
		c.noreturn[n] = true
	}
	for _, n := range opts.NoReturnFunctions {
		c.addNoreturn(n)
	}
	return c
}

func (c *Classifier) addNoreturn(name string) {
	name = strings.TrimPrefix(name, "::")
	if name == "" {
		return
	}
	c.noreturn[name] = true
	if i := strings.LastIndex(name, "::"); i >= 0 {
		c.noreturn[name[i+2:]] = true
	}
}

// CollectDeclared scans the unit for declarations carrying [[noreturn]] and
// records the declared function names, so calls to the unit's own noreturn
// functions count as terminators.
func (c *Classifier) CollectDeclared(s *lexer.Stream) {
	for i := 0; i < s.Len(); i++ {
		if s.At(i).Kind != types.TokenAttrOpen {
			continue
		}
		close := attrClose(s, i)
		if close < 0 || !attrContains(s, i, close, "noreturn") {
			continue
		}
		// The declarator follows: take the first (possibly qualified) name
		// immediately followed by '(' before the declaration ends.
		m := s.NextNonTrivia(close + 1)
		for {
			t := s.At(m)
			if t.Kind == types.TokenEOF {
				break
			}
			if t.Kind == types.TokenPunct && (t.Lexeme == ";" || t.Lexeme == "{" || t.Lexeme == "}") {
				break
			}
			if t.Kind == types.TokenIdent {
				name, after := qualifiedName(s, m)
				if s.At(after).Is(types.TokenPunct, "(") {
					c.addNoreturn(name)
					break
				}
				m = after
				continue
			}
			m = s.NextNonTrivia(m + 1)
		}
		i = close
	}
}

// ClassifyRegion fills in Terminated and HasFallthroughAttr for every case
// segment of the region. Regions without compound bodies have no segments.
func (c *Classifier) ClassifyRegion(s *lexer.Stream, info *structure.Info, region *types.SwitchRegion) {
	if region.BodyOpen < 0 {
		return
	}
	depth := info.Depth(region.BodyOpen) + 1
	for i := range region.Cases {
		seg := &region.Cases[i]
		term, attr := c.ClassifySegment(s, info, seg.StmtStart, seg.End, depth)
		seg.Terminated = term.Terminates()
		seg.HasFallthroughAttr = attr
	}
}

// ClassifySegment classifies the statement span [from, to) at the given
// depth. Empty spans and spans of only labels classify as TermNone: on
// ambiguity, injection is the safe default.
func (c *Classifier) ClassifySegment(s *lexer.Stream, info *structure.Info, from, to, depth int) (Terminator, bool) {
	units := topLevelUnits(s, info, from, to, depth)
	if len(units) == 0 {
		return TermNone, false
	}
	return c.classifyUnit(s, info, units[len(units)-1], depth, true)
}

// unit is one top-level statement: token range [start, end], end being the
// terminating ';' or the '}' closing a block opened at the unit's depth.
type unit struct {
	start, end int
}

// topLevelUnits splits [from, to) into statement units at the given depth.
// Nested constructs stay inside their unit; only their own top level splits.
func topLevelUnits(s *lexer.Stream, info *structure.Info, from, to, depth int) []unit {
	var units []unit
	cur := -1
	for m := from; m < to; m++ {
		t := s.At(m)
		if t.IsTrivia() || t.Kind == types.TokenPreproc {
			continue
		}
		if cur < 0 {
			cur = m
		}
		if info.Depth(m) == depth && t.Kind == types.TokenPunct && (t.Lexeme == ";" || t.Lexeme == "}") {
			units = append(units, unit{start: cur, end: m})
			cur = -1
		}
	}
	if cur >= 0 {
		units = append(units, unit{start: cur, end: to - 1})
	}
	return units
}

// classifyUnit classifies a single statement unit. unwrap allows one level
// of transparency for a bare compound statement, matching the common
// `case x: { ...; break; }` style; the inner pass never unwraps again.
func (c *Classifier) classifyUnit(s *lexer.Stream, info *structure.Info, u unit, depth int, unwrap bool) (Terminator, bool) {
	m := s.NextNonTrivia(u.start)

	// Ordinary labels prefixing the statement are transparent:
	// `done: return x;` terminates.
	for {
		t := s.At(m)
		if t.Kind != types.TokenIdent {
			break
		}
		n := s.NextNonTrivia(m + 1)
		if !s.At(n).Is(types.TokenPunct, ":") || n >= u.end {
			break
		}
		m = s.NextNonTrivia(n + 1)
	}

	// Leading attribute groups. A unit that is exactly the fallthrough
	// attribute plus its semicolon is the intentional-fallthrough marker;
	// any other attribute ([[likely]], ...) is skipped over.
	for s.At(m).Kind == types.TokenAttrOpen {
		close := attrClose(s, m)
		if close < 0 || close > u.end {
			return TermNone, false
		}
		next := s.NextNonTrivia(close + 1)
		if attrContains(s, m, close, c.attr) && s.At(next).Is(types.TokenPunct, ";") && next == u.end {
			return TermNone, true
		}
		m = next
	}

	t := s.At(m)
	if t.Kind == types.TokenIdent {
		switch t.Lexeme {
		case "break":
			return TermBreak, false
		case "continue":
			return TermContinue, false
		case "return":
			return TermReturn, false
		case "goto":
			return TermGoto, false
		case "throw":
			return TermThrow, false
		}
		name, after := qualifiedName(s, m)
		if name != "" && s.At(after).Is(types.TokenPunct, "(") && c.noreturn[name] {
			return TermNoreturnCall, false
		}
		return TermNone, false
	}

	if unwrap && t.Is(types.TokenPunct, "{") && s.At(u.end).Is(types.TokenPunct, "}") {
		inner := topLevelUnits(s, info, m+1, u.end, depth+1)
		if len(inner) == 0 {
			return TermNone, false
		}
		term, _ := c.classifyUnit(s, info, inner[len(inner)-1], depth+1, false)
		return term, false
	}

	return TermNone, false
}

// attrClose returns the index of the first ]] token after the [[ at open,
// or -1.
func attrClose(s *lexer.Stream, open int) int {
	for m := open + 1; m < s.Len(); m++ {
		if s.At(m).Kind == types.TokenAttrClose {
			return m
		}
	}
	return -1
}

// attrContains reports whether the attribute group (open, close) mentions
// the given identifier.
func attrContains(s *lexer.Stream, open, close int, name string) bool {
	for m := open + 1; m < close; m++ {
		if s.At(m).Is(types.TokenIdent, name) {
			return true
		}
	}
	return false
}

// qualifiedName reads `ident (:: ident)*` starting at m, returning the
// joined name and the index of the first token after it. Leading `::` is
// not consumed here; callers strip it via the name set normalization.
func qualifiedName(s *lexer.Stream, m int) (string, int) {
	var b strings.Builder
	for {
		t := s.At(m)
		if t.Kind != types.TokenIdent {
			return b.String(), m
		}
		b.WriteString(t.Lexeme)
		n := s.NextNonTrivia(m + 1)
		if !s.At(n).Is(types.TokenPunct, "::") {
			return b.String(), n
		}
		b.WriteString("::")
		m = s.NextNonTrivia(n + 1)
	}
}

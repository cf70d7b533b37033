// Package extract locates fall_through directives and switch statements in a
// token stream and partitions switch bodies into case segments. It never
// mutates its input; the rewriter consumes its output.
package extract

import (
	"fmt"

	"github.com/casebreak/casebreak/pkg/lexer"
	"github.com/casebreak/casebreak/pkg/structure"
	"github.com/casebreak/casebreak/pkg/types"
)

// DefaultDirectiveSpelling is the identifier recognized as the directive.
const DefaultDirectiveSpelling = "fall_through"

// Options configures an extraction.
type Options struct {
	// DirectiveSpelling overrides the directive identifier. Empty means
	// DefaultDirectiveSpelling.
	DirectiveSpelling string
}

// Result is the arena of regions and directives found in one unit. Regions
// appear in discovery order (outer before nested) and reference each other
// by index, never by pointer, so nested switches need no recursive ownership.
type Result struct {
	Regions     []types.SwitchRegion
	Directives  []types.DirectiveMark
	Diagnostics []types.Diagnostic
}

// Extract performs one linear walk over the stream. Directives are bound to
// the immediately following switch via the directive state tracker; every
// switch, governed or not and at any nesting depth, becomes a region.
func Extract(s *lexer.Stream, info *structure.Info, opts Options) (*Result, error) {
	spelling := opts.DirectiveSpelling
	if spelling == "" {
		spelling = DefaultDirectiveSpelling
	}

	res := &Result{}
	var st directiveState

	// openRegions tracks enclosing switch bodies by arena index for Parent
	// linkage.
	var openRegions []int

	for i := 0; i < s.Len(); i++ {
		t := s.At(i)
		if t.Kind == types.TokenEOF {
			break
		}
		if t.IsTrivia() {
			continue
		}

		for len(openRegions) > 0 {
			r := &res.Regions[openRegions[len(openRegions)-1]]
			if i <= r.BodyClose {
				break
			}
			openRegions = openRegions[:len(openRegions)-1]
		}

		if st.pending && !t.Is(types.TokenIdent, "switch") {
			mark := &res.Directives[st.mark]
			res.Diagnostics = append(res.Diagnostics, types.Diagnostic{
				Kind:    types.DiagMisplacedDirective,
				Loc:     mark.Loc,
				Message: fmt.Sprintf("%s(%v) is not followed by a switch statement; directive has no effect", spelling, mark.Enabled),
			})
			st = directiveState{}
		}

		if mark, ok := matchDirective(s, i, spelling); ok {
			res.Directives = append(res.Directives, mark)
			st = directiveState{pending: true, mark: len(res.Directives) - 1}
			i = mark.Last
			continue
		}

		if !t.Is(types.TokenIdent, "switch") {
			continue
		}

		region, err := parseSwitch(s, info, i)
		if err != nil {
			return nil, err
		}
		if region == nil {
			// Not a parseable switch header; leave the tokens alone.
			st = directiveState{}
			continue
		}

		region.Parent = -1
		if len(openRegions) > 0 {
			region.Parent = openRegions[len(openRegions)-1]
		}
		region.Directive = -1
		if st.pending {
			mark := &res.Directives[st.mark]
			mark.Bound = true
			region.Directive = st.mark
			if mark.Enabled {
				region.Mode = types.ModeEnabled
			} else {
				region.Mode = types.ModeDisabled
			}
			st = directiveState{}
		}

		if region.BodyOpen < 0 && region.Governed() {
			res.Diagnostics = append(res.Diagnostics, types.Diagnostic{
				Kind:    types.DiagUnbracedSwitchBody,
				Loc:     s.At(region.SwitchTok).Loc,
				Message: "governed switch body is not a compound statement; nothing to rewrite",
			})
		}

		res.Regions = append(res.Regions, *region)
		if region.BodyOpen >= 0 {
			openRegions = append(openRegions, len(res.Regions)-1)
		}
	}

	if st.pending {
		mark := &res.Directives[st.mark]
		res.Diagnostics = append(res.Diagnostics, types.Diagnostic{
			Kind:    types.DiagMisplacedDirective,
			Loc:     mark.Loc,
			Message: fmt.Sprintf("%s(%v) at end of input governs nothing", spelling, mark.Enabled),
		})
	}
	return res, nil
}

// parseSwitch delimits the switch starting at the `switch` keyword token.
// A nil region (without error) means the tokens do not form a switch header;
// an unclosed body is fatal.
func parseSwitch(s *lexer.Stream, info *structure.Info, switchTok int) (*types.SwitchRegion, error) {
	condOpen := s.NextNonTrivia(switchTok + 1)
	if !s.At(condOpen).Is(types.TokenPunct, "(") {
		return nil, nil
	}
	condClose := matchingClose(s, info, condOpen, ")")
	if condClose < 0 {
		return nil, nil
	}

	region := &types.SwitchRegion{
		SwitchTok: switchTok,
		CondOpen:  condOpen,
		CondClose: condClose,
		BodyOpen:  -1,
		BodyClose: -1,
	}

	bodyOpen := s.NextNonTrivia(condClose + 1)
	if !s.At(bodyOpen).Is(types.TokenPunct, "{") {
		return region, nil
	}
	bodyClose := matchingClose(s, info, bodyOpen, "}")
	if bodyClose < 0 {
		return nil, &types.UnterminatedSwitchBodyError{Loc: s.At(bodyOpen).Loc}
	}
	region.BodyOpen = bodyOpen
	region.BodyClose = bodyClose
	region.Cases = partitionCases(s, info, bodyOpen, bodyClose)
	return region, nil
}

// partitionCases splits the tokens strictly inside the body braces into case
// segments. Stacked labels with no intervening statements merge into one
// segment. Nested constructs are opaque: only labels at the body's own depth
// split segments.
func partitionCases(s *lexer.Stream, info *structure.Info, bodyOpen, bodyClose int) []types.CaseSegment {
	depth := info.Depth(bodyOpen) + 1
	var segs []types.CaseSegment

	k := bodyOpen + 1
	for k < bodyClose {
		t := s.At(k)
		if !isLabelKeyword(t) || info.Depth(k) != depth {
			k++
			continue
		}

		labelStart := k
		stmtStart := k
		isDefault := false
		for {
			tt := s.At(k)
			if k >= bodyClose || info.Depth(k) != depth || !isLabelKeyword(tt) {
				break
			}
			if tt.Lexeme == "default" {
				isDefault = true
			}
			colon := labelColon(s, info, k, depth, bodyClose)
			if colon < 0 {
				// Malformed label; abandon it and resync.
				k++
				break
			}
			stmtStart = colon + 1
			k = s.NextNonTrivia(colon + 1)
		}

		if len(segs) > 0 {
			segs[len(segs)-1].End = labelStart
		}
		segs = append(segs, types.CaseSegment{
			LabelStart: labelStart,
			StmtStart:  stmtStart,
			End:        bodyClose,
			Default:    isDefault,
		})
	}
	return segs
}

func isLabelKeyword(t types.Token) bool {
	return t.Kind == types.TokenIdent && (t.Lexeme == "case" || t.Lexeme == "default")
}

// labelColon finds the colon terminating the label that starts at token
// labelTok. Conditional-expression colons inside a case's constant
// expression are skipped by pairing them with their '?'.
func labelColon(s *lexer.Stream, info *structure.Info, labelTok, depth, bound int) int {
	ternary := 0
	for m := labelTok + 1; m < bound; m++ {
		if info.Depth(m) != depth {
			continue
		}
		t := s.At(m)
		if t.Kind != types.TokenPunct {
			continue
		}
		switch t.Lexeme {
		case "?":
			ternary++
		case ":":
			if ternary == 0 {
				return m
			}
			ternary--
		case ";", "{", "}":
			// A label cannot span a statement boundary.
			return -1
		}
	}
	return -1
}

// matchingClose returns the index of the closer pairing with the opener at
// index open, or -1. The depth convention guarantees the first closer token
// back at the opener's depth is the match.
func matchingClose(s *lexer.Stream, info *structure.Info, open int, closeLex string) int {
	d := info.Depth(open)
	for m := open + 1; m < s.Len(); m++ {
		if info.Depth(m) == d && s.At(m).Is(types.TokenPunct, closeLex) {
			return m
		}
	}
	return -1
}

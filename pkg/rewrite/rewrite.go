// Package rewrite turns an extraction result into output bytes. Output is
// produced by splicing a small edit list into the original source, so every
// byte outside an edit is copied through unchanged, trivia included.
package rewrite

import (
	"sort"

	"github.com/casebreak/casebreak/pkg/extract"
	"github.com/casebreak/casebreak/pkg/lexer"
	"github.com/casebreak/casebreak/pkg/types"
)

// InjectedText is the synthetic terminator spliced in before the next label.
const InjectedText = "break; "

type edit struct {
	// start/end delimit deleted bytes; an insertion has start == end.
	start, end int64
	text       string
}

// Plan is the edit list for one translation unit.
type Plan struct {
	edits      []edit
	injections int
	directives int
}

// Build computes the edits for one extraction result:
//
//   - every recognized directive is deleted, bound or not, since the
//     directive is not valid C++; one immediately following whitespace token
//     goes with it so no double gap is left behind;
//   - every non-final case segment of a fall_through(false) switch that is
//     neither terminated nor marked [[fallthrough]] receives InjectedText
//     immediately before the next label's first token.
//
// The final segment of a switch is exempt: there is no sibling case to fall
// into.
func Build(s *lexer.Stream, res *extract.Result) *Plan {
	p := &Plan{}

	for _, mark := range res.Directives {
		start := s.At(mark.First).Loc.Offset.Start
		end := s.At(mark.Last).Loc.Offset.End
		if next := s.At(mark.Last + 1); next.Kind == types.TokenWhitespace {
			end = next.Loc.Offset.End
		}
		p.edits = append(p.edits, edit{start: start, end: end})
		p.directives++
	}

	for i := range res.Regions {
		region := &res.Regions[i]
		if region.Mode != types.ModeDisabled || region.BodyOpen < 0 {
			continue
		}
		for ci := 0; ci < len(region.Cases)-1; ci++ {
			seg := &region.Cases[ci]
			if seg.Terminated || seg.HasFallthroughAttr {
				continue
			}
			// seg.End is the next segment's first label token.
			at := s.At(seg.End).Loc.Offset.Start
			p.edits = append(p.edits, edit{start: at, end: at, text: InjectedText})
			p.injections++
		}
	}
	return p
}

// Changed reports whether applying the plan alters the input.
func (p *Plan) Changed() bool { return len(p.edits) > 0 }

// Injections returns the count of synthetic breaks.
func (p *Plan) Injections() int { return p.injections }

// Directives returns the count of deleted directives.
func (p *Plan) Directives() int { return p.directives }

// Apply splices the plan into src and returns the output bytes. Edits never
// overlap: directives lie outside switch bodies and injection points are
// distinct label starts.
func (p *Plan) Apply(src []byte) []byte {
	if len(p.edits) == 0 {
		out := make([]byte, len(src))
		copy(out, src)
		return out
	}

	edits := make([]edit, len(p.edits))
	copy(edits, p.edits)
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	out := make([]byte, 0, len(src)+len(edits)*len(InjectedText))
	var pos int64
	for _, e := range edits {
		out = append(out, src[pos:e.start]...)
		out = append(out, e.text...)
		pos = e.end
	}
	out = append(out, src[pos:]...)
	return out
}

package lexer

import "github.com/casebreak/casebreak/pkg/types"

// Stream adapts a token list with index-based lookahead and seek. It owns
// the tokens for the duration of one run and never mutates them; every later
// pass addresses tokens through Stream indices.
//
// The token list is expected to end with a TokenEOF token, as produced by
// Lex. NewStream appends one if the caller's list lacks it.
type Stream struct {
	toks []types.Token
	pos  int
}

// NewStream wraps toks. The slice is not copied; callers hand over ownership.
func NewStream(toks []types.Token) *Stream {
	if n := len(toks); n == 0 || toks[n-1].Kind != types.TokenEOF {
		end := types.Location{}
		if n > 0 {
			end.Offset = types.OffsetSpan{Start: toks[n-1].Loc.Offset.End, End: toks[n-1].Loc.Offset.End}
			end.Source = types.SourceSpan{Start: toks[n-1].Loc.Source.End, End: toks[n-1].Loc.Source.End}
		}
		toks = append(toks, types.Token{Kind: types.TokenEOF, Loc: end})
	}
	return &Stream{toks: toks}
}

// Len returns the token count, the EOF sentinel included.
func (s *Stream) Len() int { return len(s.toks) }

// Tokens exposes the underlying token list for read-only iteration.
func (s *Stream) Tokens() []types.Token { return s.toks }

// At returns the token at index i, or the EOF sentinel when i is out of
// range.
func (s *Stream) At(i int) types.Token {
	if i < 0 || i >= len(s.toks) {
		return s.toks[len(s.toks)-1]
	}
	return s.toks[i]
}

// Pos returns the cursor position.
func (s *Stream) Pos() int { return s.pos }

// Seek moves the cursor to index i, clamped to the token range.
func (s *Stream) Seek(i int) {
	if i < 0 {
		i = 0
	}
	if i > len(s.toks)-1 {
		i = len(s.toks) - 1
	}
	s.pos = i
}

// Next returns the token at the cursor and advances past it. At end of
// input it keeps returning the EOF sentinel.
func (s *Stream) Next() types.Token {
	t := s.At(s.pos)
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return t
}

// Peek returns the token n positions ahead of the cursor without moving it.
func (s *Stream) Peek(n int) types.Token { return s.At(s.pos + n) }

// NextNonTrivia returns the first index at or after i whose token is neither
// whitespace nor a comment. The EOF sentinel is never trivia, so the result
// is always a valid index.
func (s *Stream) NextNonTrivia(i int) int {
	if i < 0 {
		i = 0
	}
	for i < len(s.toks)-1 && s.toks[i].IsTrivia() {
		i++
	}
	return i
}

// PrevNonTrivia returns the last index strictly before i whose token is
// neither whitespace nor a comment, or -1 if there is none.
func (s *Stream) PrevNonTrivia(i int) int {
	for i--; i >= 0; i-- {
		if !s.toks[i].IsTrivia() {
			return i
		}
	}
	return -1
}

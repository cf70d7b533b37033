package lexer

import (
	"testing"

	"github.com/casebreak/casebreak/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nonTrivia filters a token list down to structural tokens for compact
// comparisons.
func nonTrivia(toks []types.Token) []types.Token {
	var out []types.Token
	for _, t := range toks {
		if !t.IsTrivia() && t.Kind != types.TokenEOF {
			out = append(out, t)
		}
	}
	return out
}

func lexemes(toks []types.Token) []string {
	var out []string
	for _, t := range toks {
		out = append(out, t.Lexeme)
	}
	return out
}

func TestLex_BasicStatement(t *testing.T) {
	toks, err := Lex([]byte("switch (a) { case 1: break; }"))
	require.NoError(t, err)

	got := nonTrivia(toks)
	assert.Equal(t, []string{"switch", "(", "a", ")", "{", "case", "1", ":", "break", ";", "}"}, lexemes(got))
	assert.Equal(t, types.TokenIdent, got[0].Kind)
	assert.Equal(t, types.TokenPunct, got[1].Kind)
	assert.Equal(t, types.TokenNumber, got[6].Kind, "case constant is a number")

	// Tokens always end with EOF.
	assert.Equal(t, types.TokenEOF, toks[len(toks)-1].Kind)
}

func TestLex_Offsets(t *testing.T) {
	src := "a = b;\nc();"
	toks, err := Lex([]byte(src))
	require.NoError(t, err)

	// Every token's lexeme must equal the source bytes it claims to cover,
	// and spans must tile the input without gaps.
	var pos int64
	for _, tok := range toks {
		assert.Equal(t, pos, tok.Loc.Offset.Start)
		assert.Equal(t, tok.Lexeme, src[tok.Loc.Offset.Start:tok.Loc.Offset.End])
		pos = tok.Loc.Offset.End
	}
	assert.Equal(t, int64(len(src)), pos)

	// Line/column positions are 1-based and track newlines.
	got := nonTrivia(toks)
	c := got[4] // "c"
	assert.Equal(t, "c", c.Lexeme)
	assert.Equal(t, 2, c.Loc.Source.Start.Line)
	assert.Equal(t, 1, c.Loc.Source.Start.Column)
}

func TestLex_CommentsAndStrings(t *testing.T) {
	src := `f("{ not a brace"); // } neither
/* case 1: } */ g('}');`
	toks, err := Lex([]byte(src))
	require.NoError(t, err)

	var kinds []types.TokenKind
	for _, tok := range nonTrivia(toks) {
		kinds = append(kinds, tok.Kind)
	}
	// f ( "..." ) ; g ( '}' ) ;  -- comments are trivia
	assert.Equal(t, []types.TokenKind{
		types.TokenIdent, types.TokenPunct, types.TokenString, types.TokenPunct, types.TokenPunct,
		types.TokenIdent, types.TokenPunct, types.TokenChar, types.TokenPunct, types.TokenPunct,
	}, kinds)

	var comments int
	for _, tok := range toks {
		if tok.Kind == types.TokenComment {
			comments++
		}
	}
	assert.Equal(t, 2, comments)
}

func TestLex_RawString(t *testing.T) {
	src := `auto s = R"xx(break; case 1: }")xx";`
	toks, err := Lex([]byte(src))
	require.NoError(t, err)

	got := nonTrivia(toks)
	assert.Equal(t, []string{"auto", "s", "=", `R"xx(break; case 1: }")xx"`, ";"}, lexemes(got))
	assert.Equal(t, types.TokenString, got[3].Kind)
}

func TestLex_EncodingPrefixes(t *testing.T) {
	toks, err := Lex([]byte(`u8"x" L'y' LR"(z)"`))
	require.NoError(t, err)

	got := nonTrivia(toks)
	require.Len(t, got, 3)
	assert.Equal(t, types.TokenString, got[0].Kind)
	assert.Equal(t, types.TokenChar, got[1].Kind)
	assert.Equal(t, types.TokenString, got[2].Kind)
	assert.Equal(t, `LR"(z)"`, got[2].Lexeme)
}

func TestLex_DigitSeparator(t *testing.T) {
	// The separator quote must not open a character literal.
	toks, err := Lex([]byte("x = 1'000'000;"))
	require.NoError(t, err)

	got := nonTrivia(toks)
	assert.Equal(t, []string{"x", "=", "1'000'000", ";"}, lexemes(got))
	assert.Equal(t, types.TokenNumber, got[2].Kind)
}

func TestLex_FloatExponent(t *testing.T) {
	toks, err := Lex([]byte("y = 1.5e-3 + 0x1p+2;"))
	require.NoError(t, err)

	got := nonTrivia(toks)
	assert.Equal(t, []string{"y", "=", "1.5e-3", "+", "0x1p+2", ";"}, lexemes(got))
}

func TestLex_AttributeDelimiters(t *testing.T) {
	toks, err := Lex([]byte("[[fallthrough]];"))
	require.NoError(t, err)

	got := nonTrivia(toks)
	require.Len(t, got, 4)
	assert.Equal(t, types.TokenAttrOpen, got[0].Kind)
	assert.Equal(t, types.TokenIdent, got[1].Kind)
	assert.Equal(t, "fallthrough", got[1].Lexeme)
	assert.Equal(t, types.TokenAttrClose, got[2].Kind)
}

func TestLex_PreprocessorLine(t *testing.T) {
	src := "#define BLOCK { case 1: \\\n  break; }\nint x;"
	toks, err := Lex([]byte(src))
	require.NoError(t, err)

	got := nonTrivia(toks)
	// The whole #define, continuation included, is one opaque token.
	require.Equal(t, types.TokenPreproc, got[0].Kind)
	assert.Contains(t, got[0].Lexeme, "break; }")
	assert.Equal(t, []string{"int", "x", ";"}, lexemes(got[1:]))
}

func TestLex_HashMidLineIsPunct(t *testing.T) {
	toks, err := Lex([]byte("x = a # b;")) // nonsense, but not a directive
	require.NoError(t, err)

	got := nonTrivia(toks)
	assert.Equal(t, []string{"x", "=", "a", "#", "b", ";"}, lexemes(got))
	assert.Equal(t, types.TokenPunct, got[3].Kind)
}

func TestLex_MaximalMunchPunctuators(t *testing.T) {
	toks, err := Lex([]byte("a<<=b; c->*d; e<=>f; g::h;"))
	require.NoError(t, err)

	got := lexemes(nonTrivia(toks))
	assert.Contains(t, got, "<<=")
	assert.Contains(t, got, "->*")
	assert.Contains(t, got, "<=>")
	assert.Contains(t, got, "::")
}

func TestLex_UnterminatedBlockComment(t *testing.T) {
	_, err := Lex([]byte("int x; /* never closed"))
	require.Error(t, err)

	var malformed *types.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Detail, "block comment")
}

func TestLex_UnterminatedString(t *testing.T) {
	_, err := Lex([]byte(`auto s = "oops`))
	var malformed *types.MalformedInputError
	require.ErrorAs(t, err, &malformed)
}

func TestLex_Empty(t *testing.T) {
	toks, err := Lex(nil)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, types.TokenEOF, toks[0].Kind)
}

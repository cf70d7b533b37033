package types

import "fmt"

// TokenKind classifies a lexical token of a C++ translation unit.
type TokenKind uint8

const (
	// TokenIdent is an identifier or keyword. C++ keywords are not
	// distinguished lexically; structural passes compare lexemes.
	TokenIdent TokenKind = iota

	// TokenPunct is an operator or punctuator (maximal munch, so "::" and
	// "->" are single tokens).
	TokenPunct

	// TokenNumber is an integral or floating literal, including digit
	// separators and suffixes.
	TokenNumber

	// TokenString is a string literal, including encoding prefixes and raw
	// string literals.
	TokenString

	// TokenChar is a character literal.
	TokenChar

	// TokenComment is a line or block comment, delimiters included.
	TokenComment

	// TokenWhitespace is a maximal run of whitespace, newlines included.
	TokenWhitespace

	// TokenAttrOpen is the attribute introducer "[[".
	TokenAttrOpen

	// TokenAttrClose is the attribute terminator "]]".
	TokenAttrClose

	// TokenPreproc is an entire preprocessor line ("#" through end of line,
	// continuations included). Opaque to all structural passes.
	TokenPreproc

	// TokenEOF marks end of input. It carries an empty lexeme.
	TokenEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokenIdent:
		return "Ident"
	case TokenPunct:
		return "Punct"
	case TokenNumber:
		return "Number"
	case TokenString:
		return "String"
	case TokenChar:
		return "Char"
	case TokenComment:
		return "Comment"
	case TokenWhitespace:
		return "Whitespace"
	case TokenAttrOpen:
		return "AttrOpen"
	case TokenAttrClose:
		return "AttrClose"
	case TokenPreproc:
		return "Preproc"
	case TokenEOF:
		return "EOF"
	default:
		return fmt.Sprintf("TokenKind(%d)", k)
	}
}

// Token is one immutable lexical unit. Tokens are produced once per run and
// never mutated; all later passes reference them by index.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Loc    Location
}

// Is reports whether the token has the given kind and lexeme.
func (t Token) Is(kind TokenKind, lexeme string) bool {
	return t.Kind == kind && t.Lexeme == lexeme
}

// IsTrivia reports whether the token is whitespace or a comment.
// Trivia never participates in structural decisions and is copied to the
// output unchanged.
func (t Token) IsTrivia() bool {
	return t.Kind == TokenWhitespace || t.Kind == TokenComment
}

// IsLiteral reports whether the token is a string, character, or numeric
// literal. Braces and keywords inside literal lexemes are never structural.
func (t Token) IsLiteral() bool {
	return t.Kind == TokenString || t.Kind == TokenChar || t.Kind == TokenNumber
}

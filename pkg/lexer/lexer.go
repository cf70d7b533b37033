// Package lexer turns raw C++ source into the token stream consumed by the
// structural passes. It is deliberately not a compiler front end: tokens are
// classified only as far as structure demands (identifiers, punctuators,
// literals, comments, whitespace, attribute delimiters, preprocessor lines).
// Callers that already hold a token stream can skip this package and build a
// Stream directly.
package lexer

import (
	"strings"

	"github.com/casebreak/casebreak/pkg/types"
)

// threeBytePuncts and twoBytePuncts drive maximal-munch punctuator scanning.
// "[[" and "]]" are handled separately as attribute delimiters.
var threeBytePuncts = []string{"<<=", ">>=", "->*", "...", "<=>"}

var twoBytePuncts = []string{
	"::", "->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=",
	"&&", "||", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	".*", "##",
}

// literalPrefixes are the identifier spellings that merge with a following
// quote into one literal token. Raw-string prefixes end in 'R'.
var literalPrefixes = map[string]bool{
	"R": true, "u8R": true, "uR": true, "UR": true, "LR": true,
	"u8": true, "u": true, "U": true, "L": true,
}

// Lexer is a single-use scanner over one translation unit.
type Lexer struct {
	src  []byte
	pos  int
	line int
	col  int

	// startOfLine is true when only whitespace has been seen since the last
	// newline; it gates preprocessor-line recognition.
	startOfLine bool

	toks []types.Token
}

// Lex tokenizes src. The returned slice always ends with a TokenEOF token.
// Unterminated block comments and literals are fatal, reported as
// *types.MalformedInputError.
func Lex(src []byte) ([]types.Token, error) {
	l := &Lexer{src: src, line: 1, col: 1, startOfLine: true}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.toks, nil
}

func (l *Lexer) run() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isSpace(c):
			l.scanWhitespace()
		case c == '/' && l.peekAt(1) == '/':
			l.scanLineComment()
		case c == '/' && l.peekAt(1) == '*':
			if err := l.scanBlockComment(); err != nil {
				return err
			}
		case c == '#' && l.startOfLine:
			l.scanPreprocLine()
		case c == '"':
			if err := l.scanString(l.pos); err != nil {
				return err
			}
		case c == '\'':
			if err := l.scanChar(l.pos); err != nil {
				return err
			}
		case isDigit(c) || (c == '.' && isDigit(l.peekAt(1))):
			l.scanNumber()
		case isIdentStart(c):
			if err := l.scanIdentOrLiteral(); err != nil {
				return err
			}
		case c == '[' && l.peekAt(1) == '[':
			l.scanFixed(types.TokenAttrOpen, 2)
		case c == ']' && l.peekAt(1) == ']':
			l.scanFixed(types.TokenAttrClose, 2)
		default:
			l.scanPunct()
		}
	}
	eofLoc := l.here()
	l.toks = append(l.toks, types.Token{Kind: types.TokenEOF, Loc: types.Location{
		Offset: types.OffsetSpan{Start: eofLoc.off, End: eofLoc.off},
		Source: types.SourceSpan{Start: eofLoc.point(), End: eofLoc.point()},
	}})
	return nil
}

type mark struct {
	off       int64
	line, col int
}

func (m mark) point() types.SourcePoint { return types.SourcePoint{Line: m.line, Column: m.col} }

func (l *Lexer) here() mark {
	return mark{off: int64(l.pos), line: l.line, col: l.col}
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

// advance consumes one byte, maintaining line/column bookkeeping.
func (l *Lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) emit(kind types.TokenKind, start mark) {
	end := l.here()
	l.toks = append(l.toks, types.Token{
		Kind:   kind,
		Lexeme: string(l.src[start.off:end.off]),
		Loc: types.Location{
			Offset: types.OffsetSpan{Start: start.off, End: end.off},
			Source: types.SourceSpan{Start: start.point(), End: end.point()},
		},
	})
	if kind != types.TokenWhitespace {
		l.startOfLine = false
	}
}

func (l *Lexer) scanWhitespace() {
	start := l.here()
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		if l.src[l.pos] == '\n' {
			l.startOfLine = true
		}
		l.advance()
	}
	l.emit(types.TokenWhitespace, start)
}

func (l *Lexer) scanLineComment() {
	start := l.here()
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		// A backslash-newline splice continues the comment.
		if l.src[l.pos] == '\\' && l.peekAt(1) == '\n' {
			l.advance()
		}
		l.advance()
	}
	l.emit(types.TokenComment, start)
}

func (l *Lexer) scanBlockComment() error {
	start := l.here()
	l.advance() // '/'
	l.advance() // '*'
	for l.pos < len(l.src) {
		if l.src[l.pos] == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			l.emit(types.TokenComment, start)
			return nil
		}
		l.advance()
	}
	return l.malformed(start, "unterminated block comment")
}

// scanPreprocLine consumes a whole preprocessor directive including
// backslash-newline continuations, as one opaque token. Braces inside macro
// bodies must never count toward structural depth.
func (l *Lexer) scanPreprocLine() {
	start := l.here()
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		if l.src[l.pos] == '\\' && l.peekAt(1) == '\n' {
			l.advance()
		}
		l.advance()
	}
	l.emit(types.TokenPreproc, start)
}

// scanString scans an ordinary string literal. tokenStart may precede the
// quote when an encoding prefix was already consumed.
func (l *Lexer) scanString(tokenStart int) error {
	start := mark{off: int64(tokenStart), line: l.line, col: l.col - (l.pos - tokenStart)}
	l.advance() // opening quote
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.advance()
			if l.pos < len(l.src) {
				l.advance()
			}
		case '\n':
			return l.malformed(start, "newline in string literal")
		case '"':
			l.advance()
			l.emit(types.TokenString, start)
			return nil
		default:
			l.advance()
		}
	}
	return l.malformed(start, "unterminated string literal")
}

// scanRawString scans R"delim( ... )delim" starting at the quote.
func (l *Lexer) scanRawString(tokenStart int) error {
	start := mark{off: int64(tokenStart), line: l.line, col: l.col - (l.pos - tokenStart)}
	l.advance() // opening quote
	delimStart := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '(' {
		l.advance()
	}
	if l.pos >= len(l.src) {
		return l.malformed(start, "unterminated raw string literal")
	}
	closer := ")" + string(l.src[delimStart:l.pos]) + `"`
	l.advance() // '('
	for l.pos < len(l.src) {
		if l.src[l.pos] == ')' && l.pos+len(closer) <= len(l.src) &&
			string(l.src[l.pos:l.pos+len(closer)]) == closer {
			for range closer {
				l.advance()
			}
			l.emit(types.TokenString, start)
			return nil
		}
		l.advance()
	}
	return l.malformed(start, "unterminated raw string literal")
}

func (l *Lexer) scanChar(tokenStart int) error {
	start := mark{off: int64(tokenStart), line: l.line, col: l.col - (l.pos - tokenStart)}
	l.advance() // opening quote
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.advance()
			if l.pos < len(l.src) {
				l.advance()
			}
		case '\n':
			return l.malformed(start, "newline in character literal")
		case '\'':
			l.advance()
			l.emit(types.TokenChar, start)
			return nil
		default:
			l.advance()
		}
	}
	return l.malformed(start, "unterminated character literal")
}

// scanNumber follows the pp-number rule: digits, identifier characters,
// dots, signed exponents, and digit separators. "1'000" is one token, so a
// separator quote never opens a character literal.
func (l *Lexer) scanNumber() {
	start := l.here()
	l.advance()
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isIdentChar(c) || c == '.':
			l.advance()
		case (c == '+' || c == '-') && isExponent(l.src[l.pos-1]):
			l.advance()
		case c == '\'' && isIdentChar(l.peekAt(1)):
			l.advance()
			l.advance()
		default:
			l.emit(types.TokenNumber, start)
			return
		}
	}
	l.emit(types.TokenNumber, start)
}

func (l *Lexer) scanIdentOrLiteral() error {
	identStart := l.pos
	start := l.here()
	for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
		l.advance()
	}
	name := string(l.src[identStart:l.pos])
	if literalPrefixes[name] && l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '"':
			if strings.HasSuffix(name, "R") {
				return l.scanRawString(identStart)
			}
			return l.scanString(identStart)
		case '\'':
			if !strings.HasSuffix(name, "R") {
				return l.scanChar(identStart)
			}
		}
	}
	l.emit(types.TokenIdent, start)
	return nil
}

func (l *Lexer) scanFixed(kind types.TokenKind, n int) {
	start := l.here()
	for i := 0; i < n; i++ {
		l.advance()
	}
	l.emit(kind, start)
}

func (l *Lexer) scanPunct() {
	rest := l.src[l.pos:]
	for _, p := range threeBytePuncts {
		if len(rest) >= 3 && string(rest[:3]) == p {
			l.scanFixed(types.TokenPunct, 3)
			return
		}
	}
	for _, p := range twoBytePuncts {
		if len(rest) >= 2 && string(rest[:2]) == p {
			l.scanFixed(types.TokenPunct, 2)
			return
		}
	}
	l.scanFixed(types.TokenPunct, 1)
}

func (l *Lexer) malformed(start mark, detail string) error {
	return &types.MalformedInputError{
		Loc: types.Location{
			Offset: types.OffsetSpan{Start: start.off, End: int64(l.pos)},
			Source: types.SourceSpan{Start: start.point(), End: mark{line: l.line, col: l.col}.point()},
		},
		Detail: detail,
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentChar(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isExponent(c byte) bool { return c == 'e' || c == 'E' || c == 'p' || c == 'P' }

// Package css implements the selector pipeline: a tokenizer and parser
// producing immutable compiled selectors, and a matcher/query engine that
// evaluates them against dom trees. Tokenization follows CSS Syntax
// Module Level 3, restricted to the token set selectors need.
package css

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TokenType represents the type of a selector token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenFunction
	TokenHash
	TokenString
	TokenBadString
	TokenNumber
	TokenDimension
	TokenDelim
	TokenWhitespace
	TokenColon
	TokenComma
	TokenOpenSquare  // [
	TokenCloseSquare // ]
	TokenOpenParen   // (
	TokenCloseParen  // )
)

// HashType indicates whether a hash token names an id or is unrestricted.
type HashType int

const (
	HashUnrestricted HashType = iota
	HashID
)

// Token represents one selector token.
type Token struct {
	Type     TokenType
	Value    string   // string value for ident/function/hash/string tokens
	Unit     string   // unit for dimension tokens (the "n" of "2n")
	HashType HashType // flag for hash tokens
	Delim    rune     // the character of a delim token
	Pos      int      // byte offset in the input
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "<EOF>"
	case TokenIdent:
		return fmt.Sprintf("<IDENT %q>", t.Value)
	case TokenFunction:
		return fmt.Sprintf("<FUNCTION %q>", t.Value)
	case TokenHash:
		if t.HashType == HashID {
			return fmt.Sprintf("<HASH id %q>", t.Value)
		}
		return fmt.Sprintf("<HASH %q>", t.Value)
	case TokenString:
		return fmt.Sprintf("<STRING %q>", t.Value)
	case TokenBadString:
		return "<BAD-STRING>"
	case TokenNumber:
		return fmt.Sprintf("<NUMBER %q>", t.Value)
	case TokenDimension:
		return fmt.Sprintf("<DIMENSION %q%s>", t.Value, t.Unit)
	case TokenDelim:
		return fmt.Sprintf("<DELIM %q>", string(t.Delim))
	case TokenWhitespace:
		return "<WHITESPACE>"
	case TokenColon:
		return "<COLON>"
	case TokenComma:
		return "<COMMA>"
	case TokenOpenSquare:
		return "<[>"
	case TokenCloseSquare:
		return "<]>"
	case TokenOpenParen:
		return "<(>"
	case TokenCloseParen:
		return "<)>"
	default:
		return "<UNKNOWN>"
	}
}

// Tokenizer lexes selector text into a flat token sequence.
type Tokenizer struct {
	input string
	pos   int
}

// NewTokenizer creates a tokenizer over the given input.
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

// TokenizeAll consumes the whole input and returns the token sequence,
// without the trailing EOF token.
func (tz *Tokenizer) TokenizeAll() []Token {
	var tokens []Token
	for {
		tok := tz.Next()
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (tz *Tokenizer) peekByte(offset int) byte {
	if tz.pos+offset >= len(tz.input) {
		return 0
	}
	return tz.input[tz.pos+offset]
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameStart(c byte) bool {
	return c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isName(c byte) bool {
	return isNameStart(c) || isDigit(c) || c == '-'
}

// startsEscape reports whether the two bytes begin a valid escape.
func startsEscape(c0, c1 byte) bool {
	return c0 == '\\' && c1 != '\n' && c1 != 0
}

// startsIdent reports whether the input at the current position begins an
// identifier, per CSS Syntax §4.3.9.
func (tz *Tokenizer) startsIdent() bool {
	c0, c1, c2 := tz.peekByte(0), tz.peekByte(1), tz.peekByte(2)
	switch {
	case c0 == '-':
		return isNameStart(c1) || c1 == '-' || startsEscape(c1, c2)
	case isNameStart(c0):
		return true
	case c0 == '\\':
		return startsEscape(c0, c1)
	default:
		return false
	}
}

// Next returns the next token.
func (tz *Tokenizer) Next() Token {
	tz.skipComments()

	start := tz.pos
	if tz.pos >= len(tz.input) {
		return Token{Type: TokenEOF, Pos: start}
	}

	c := tz.input[tz.pos]
	switch {
	case isWhitespace(c):
		for tz.pos < len(tz.input) && isWhitespace(tz.input[tz.pos]) {
			tz.pos++
		}
		return Token{Type: TokenWhitespace, Pos: start}

	case c == '"' || c == '\'':
		return tz.consumeString(c)

	case c == '#':
		tz.pos++
		if isName(tz.peekByte(0)) || startsEscape(tz.peekByte(0), tz.peekByte(1)) {
			ht := HashUnrestricted
			if tz.startsIdent() {
				ht = HashID
			}
			return Token{Type: TokenHash, Value: tz.consumeName(), HashType: ht, Pos: start}
		}
		return Token{Type: TokenDelim, Delim: '#', Pos: start}

	case c == ':':
		tz.pos++
		return Token{Type: TokenColon, Pos: start}

	case c == ',':
		tz.pos++
		return Token{Type: TokenComma, Pos: start}

	case c == '[':
		tz.pos++
		return Token{Type: TokenOpenSquare, Pos: start}

	case c == ']':
		tz.pos++
		return Token{Type: TokenCloseSquare, Pos: start}

	case c == '(':
		tz.pos++
		return Token{Type: TokenOpenParen, Pos: start}

	case c == ')':
		tz.pos++
		return Token{Type: TokenCloseParen, Pos: start}

	case isDigit(c):
		return tz.consumeNumeric(start)

	case c == '+' || c == '-':
		if isDigit(tz.peekByte(1)) || (tz.peekByte(1) == '.' && isDigit(tz.peekByte(2))) {
			return tz.consumeNumeric(start)
		}
		if c == '-' && tz.startsIdent() {
			return tz.consumeIdentLike(start)
		}
		tz.pos++
		return Token{Type: TokenDelim, Delim: rune(c), Pos: start}

	case c == '.':
		if isDigit(tz.peekByte(1)) {
			return tz.consumeNumeric(start)
		}
		tz.pos++
		return Token{Type: TokenDelim, Delim: '.', Pos: start}

	case isNameStart(c) || c == '\\':
		if tz.startsIdent() {
			return tz.consumeIdentLike(start)
		}
		tz.pos++
		return Token{Type: TokenDelim, Delim: rune(c), Pos: start}

	default:
		r, size := utf8.DecodeRuneInString(tz.input[tz.pos:])
		tz.pos += size
		return Token{Type: TokenDelim, Delim: r, Pos: start}
	}
}

// skipComments discards /* ... */ runs. An unterminated comment swallows
// the rest of the input.
func (tz *Tokenizer) skipComments() {
	for strings.HasPrefix(tz.input[tz.pos:], "/*") {
		end := strings.Index(tz.input[tz.pos+2:], "*/")
		if end < 0 {
			tz.pos = len(tz.input)
			return
		}
		tz.pos += 2 + end + 2
	}
}

// consumeString consumes a string token. An unescaped newline or EOF
// before the closing quote produces a bad-string token, which the parser
// rejects as a syntax error.
func (tz *Tokenizer) consumeString(quote byte) Token {
	start := tz.pos
	tz.pos++ // opening quote
	var sb strings.Builder
	for {
		if tz.pos >= len(tz.input) {
			return Token{Type: TokenBadString, Pos: start}
		}
		c := tz.input[tz.pos]
		switch {
		case c == quote:
			tz.pos++
			return Token{Type: TokenString, Value: sb.String(), Pos: start}
		case c == '\n':
			return Token{Type: TokenBadString, Pos: start}
		case c == '\\':
			if tz.pos+1 >= len(tz.input) {
				return Token{Type: TokenBadString, Pos: start}
			}
			if tz.input[tz.pos+1] == '\n' {
				tz.pos += 2 // escaped newline: line continuation
				continue
			}
			tz.pos++
			sb.WriteRune(tz.consumeEscape())
		default:
			r, size := utf8.DecodeRuneInString(tz.input[tz.pos:])
			sb.WriteRune(r)
			tz.pos += size
		}
	}
}

// consumeEscape consumes the body of an escape, after the backslash.
func (tz *Tokenizer) consumeEscape() rune {
	if tz.pos >= len(tz.input) {
		return utf8.RuneError
	}
	c := tz.input[tz.pos]
	if isHexDigit(c) {
		value := 0
		digits := 0
		for digits < 6 && tz.pos < len(tz.input) && isHexDigit(tz.input[tz.pos]) {
			value = value*16 + hexValue(tz.input[tz.pos])
			tz.pos++
			digits++
		}
		// One whitespace character after a hex escape is part of it.
		if tz.pos < len(tz.input) && isWhitespace(tz.input[tz.pos]) {
			tz.pos++
		}
		if value == 0 || value > utf8.MaxRune {
			return utf8.RuneError
		}
		return rune(value)
	}
	r, size := utf8.DecodeRuneInString(tz.input[tz.pos:])
	tz.pos += size
	return r
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

// consumeName consumes a name (the body of an ident or hash).
func (tz *Tokenizer) consumeName() string {
	var sb strings.Builder
	for tz.pos < len(tz.input) {
		c := tz.input[tz.pos]
		switch {
		case isName(c):
			sb.WriteByte(c)
			tz.pos++
		case startsEscape(c, tz.peekByte(1)):
			tz.pos++
			sb.WriteRune(tz.consumeEscape())
		default:
			return sb.String()
		}
	}
	return sb.String()
}

// consumeIdentLike consumes an identifier, producing a function token if
// it is immediately followed by an opening parenthesis.
func (tz *Tokenizer) consumeIdentLike(start int) Token {
	name := tz.consumeName()
	if tz.peekByte(0) == '(' {
		tz.pos++
		return Token{Type: TokenFunction, Value: name, Pos: start}
	}
	return Token{Type: TokenIdent, Value: name, Pos: start}
}

// consumeNumeric consumes a number, producing a dimension token when a
// unit follows (as in the "2n" of an An+B expression).
func (tz *Tokenizer) consumeNumeric(start int) Token {
	if c := tz.peekByte(0); c == '+' || c == '-' {
		tz.pos++
	}
	for tz.pos < len(tz.input) && isDigit(tz.input[tz.pos]) {
		tz.pos++
	}
	if tz.peekByte(0) == '.' && isDigit(tz.peekByte(1)) {
		tz.pos++
		for tz.pos < len(tz.input) && isDigit(tz.input[tz.pos]) {
			tz.pos++
		}
	}
	value := tz.input[start:tz.pos]
	if tz.startsIdent() {
		return Token{Type: TokenDimension, Value: value, Unit: tz.consumeName(), Pos: start}
	}
	return Token{Type: TokenNumber, Value: value, Pos: start}
}

package filter

import (
	"fmt"
	"strings"
)

// operatorKeywords are the identifiers classified as TokenOperator.
var operatorKeywords = map[string]struct{}{
	"eq": {}, "ne": {}, "gt": {}, "ge": {}, "lt": {}, "le": {},
	"and": {}, "or": {},
	"add": {}, "sub": {}, "mul": {}, "div": {}, "mod": {},
	"not": {},
}

// builtinFunctions are the identifiers classified as TokenFunction.
var builtinFunctions = map[string]struct{}{
	"contains": {}, "startswith": {}, "endswith": {}, "length": {}, "indexof": {},
	"substring": {}, "tolower": {}, "toupper": {}, "trim": {}, "concat": {},
	"year": {}, "month": {}, "day": {}, "hour": {}, "minute": {}, "second": {},
	"date": {}, "time": {},
	"round": {}, "floor": {}, "ceiling": {},
}

// IsFunction reports whether name is a built-in function (any case).
func IsFunction(name string) bool {
	_, ok := builtinFunctions[strings.ToLower(name)]
	return ok
}

const (
	dateTimeStart   = "-:.TtZz"
	dateTimeBody    = "-:.Tt"
	numberSuffix    = "ULDMFulmdf"
	numberSuffixTwo = "ULul"
)

// Tokenize splits filter text into tokens. The result always ends with
// a TokenEnd token. Characters that start no token are skipped.
func Tokenize(text string) []Token {
	s := scanner{src: text}
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '(':
			s.emit(TokenOpenParen, "(", s.pos)
			s.pos++
		case c == ')':
			s.emit(TokenCloseParen, ")", s.pos)
			s.pos++
		case c == ',':
			s.emit(TokenComma, ",", s.pos)
			s.pos++
		case c == '\'':
			s.scanString()
		case isDigit(c) || c == '-':
			s.scanNumber()
		case isLetter(c) || c == '_':
			s.scanIdentifier()
		default:
			s.pos++
		}
	}
	s.emit(TokenEnd, "", len(s.src))
	return s.tokens
}

type scanner struct {
	src    string
	pos    int
	tokens []Token
}

func (s *scanner) emit(kind TokenKind, text string, pos int) {
	s.tokens = append(s.tokens, Token{Kind: kind, Text: text, Pos: pos})
}

func (s *scanner) peekIn(set string) bool {
	return s.pos < len(s.src) && strings.IndexByte(set, s.src[s.pos]) >= 0
}

// scanString reads a quoted string. A backslash escapes the next byte;
// a doubled quote is not an escape. An unterminated string runs to the
// end of input.
func (s *scanner) scanString() {
	start := s.pos
	s.pos++

	var sb strings.Builder
	for s.pos < len(s.src) && s.src[s.pos] != '\'' {
		if s.src[s.pos] == '\\' && s.pos+1 < len(s.src) {
			s.pos++
		}
		sb.WriteByte(s.src[s.pos])
		s.pos++
	}
	if s.pos < len(s.src) {
		s.pos++
	}
	s.emit(TokenString, sb.String(), start)
}

func (s *scanner) scanNumber() {
	start := s.pos
	hex := false
	if s.src[s.pos] == '0' && s.pos+1 < len(s.src) && (s.src[s.pos+1] == 'x' || s.src[s.pos+1] == 'X') {
		hex = true
		s.pos += 2
	} else {
		s.pos++
	}

	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if isDigit(c) || (hex && isHexLetter(c)) || (!hex && c == '.') {
			s.pos++
			continue
		}
		break
	}

	switch {
	case s.peekIn(dateTimeStart):
		for s.pos < len(s.src) && (isDigit(s.src[s.pos]) || strings.IndexByte(dateTimeBody, s.src[s.pos]) >= 0) {
			s.pos++
		}
		if s.peekIn("Zz") {
			s.pos++
		}
		text := s.src[start:s.pos]
		if _, err := ParseDateTime(text); err == nil {
			s.emit(TokenDateTime, text, start)
		} else {
			s.emit(TokenString, text, start)
		}
		return
	case s.peekIn(numberSuffix):
		s.pos++
		if s.peekIn(numberSuffixTwo) {
			s.pos++
		}
	}
	s.emit(TokenNumber, s.src[start:s.pos], start)
}

func (s *scanner) scanIdentifier() {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if !isLetter(c) && !isDigit(c) && c != '_' && c != '.' {
			break
		}
		s.pos++
	}

	text := s.src[start:s.pos]
	lower := strings.ToLower(text)
	kind := TokenProperty
	switch {
	case lower == "true" || lower == "false":
		kind = TokenBoolean
	case lower == "null":
		kind = TokenNull
	default:
		if _, ok := operatorKeywords[lower]; ok {
			kind = TokenOperator
		} else if _, ok := builtinFunctions[lower]; ok {
			kind = TokenFunction
		}
	}
	s.emit(kind, text, start)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexLetter(c byte) bool {
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Tokenizer is a cursor over the tokens of one filter text.
// It never moves past the final TokenEnd.
type Tokenizer struct {
	tokens []Token
	index  int
}

// NewTokenizer tokenizes text and positions the cursor on the first token.
func NewTokenizer(text string) *Tokenizer {
	return &Tokenizer{tokens: Tokenize(text)}
}

// Tokens returns all tokens, including the trailing TokenEnd.
func (t *Tokenizer) Tokens() []Token { return t.tokens }

// Current returns the token under the cursor.
func (t *Tokenizer) Current() Token { return t.tokens[t.index] }

// Peek returns the token offset positions ahead of the cursor, clamped
// to the final TokenEnd.
func (t *Tokenizer) Peek(offset int) Token {
	i := t.index + offset
	if i >= len(t.tokens) {
		i = len(t.tokens) - 1
	}
	if i < 0 {
		i = 0
	}
	return t.tokens[i]
}

// Advance moves the cursor one token forward.
func (t *Tokenizer) Advance() {
	if t.index < len(t.tokens)-1 {
		t.index++
	}
}

// Match reports whether the current token is of the given kind.
func (t *Tokenizer) Match(kind TokenKind) bool {
	return t.Current().Kind == kind
}

// Consume returns the current token and advances if it is of the given
// kind; otherwise it returns a *SyntaxError naming both kinds.
func (t *Tokenizer) Consume(kind TokenKind) (Token, error) {
	tok := t.Current()
	if tok.Kind != kind {
		return tok, &SyntaxError{
			Pos:      tok.Pos,
			Token:    tok,
			Expected: []TokenKind{kind},
			Msg:      fmt.Sprintf("expected %s but found %s", kind, tok.Kind),
		}
	}
	t.Advance()
	return tok, nil
}

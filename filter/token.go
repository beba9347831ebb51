package filter

import "fmt"

// TokenKind is the lexical category of a Token.
type TokenKind int

const (
	TokenProperty TokenKind = iota
	TokenString
	TokenNumber
	TokenDateTime
	TokenBoolean
	TokenNull
	TokenOperator
	TokenFunction
	TokenOpenParen
	TokenCloseParen
	TokenComma
	TokenEnd
)

var tokenKindNames = [...]string{
	TokenProperty:   "Property",
	TokenString:     "String",
	TokenNumber:     "Number",
	TokenDateTime:   "DateTime",
	TokenBoolean:    "Boolean",
	TokenNull:       "Null",
	TokenOperator:   "Operator",
	TokenFunction:   "Function",
	TokenOpenParen:  "OpenParen",
	TokenCloseParen: "CloseParen",
	TokenComma:      "Comma",
	TokenEnd:        "End",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a lexical unit of filter text.
// Pos is the byte offset of the token's first byte in the input.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s: %s", t.Kind, t.Text)
}

package filter

import (
	"fmt"
	"strings"
)

// DefaultMaxDepth bounds expression nesting when ParserOptions.MaxDepth is zero.
const DefaultMaxDepth = 128

// ParserOptions configures expression parsing.
type ParserOptions struct {
	// MaxDepth limits nesting of parenthesized groups, function arguments
	// and not chains. Zero means DefaultMaxDepth.
	MaxDepth int

	// RejectTrailingTokens makes text left over after the top-level
	// expression a *SyntaxError. By default it is ignored, so
	// "a eq 1 eq 2" parses as "a eq 1".
	RejectTrailingTokens bool
}

// Parser parses filter text into expression trees.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	opts ParserOptions
}

// NewParser creates a parser. A nil opts uses the defaults.
func NewParser(opts *ParserOptions) *Parser {
	p := &Parser{}
	if opts != nil {
		p.opts = *opts
	}
	if p.opts.MaxDepth <= 0 {
		p.opts.MaxDepth = DefaultMaxDepth
	}
	return p
}

// Parse parses filter text with the default options.
//
// Grammar, lowest precedence first:
//
//	or-expr      := and-expr ( "or" and-expr )*
//	and-expr     := comparison ( "and" comparison )*
//	comparison   := additive [ ("eq"|"ne"|"gt"|"ge"|"lt"|"le") additive ]
//	additive     := multiplicative ( ("add"|"sub") multiplicative )*
//	multiplicative := unary ( ("mul"|"div"|"mod") unary )*
//	unary        := "not" unary | primary
//	primary      := function-call | "(" or-expr ")" | literal | property
//	function-call := FUNCTION "(" [ or-expr ( "," or-expr )* ] ")"
//
// A comparison does not chain; a second comparison operator ends the
// expression.
func Parse(text string) (Expression, error) {
	return defaultParser.Parse(text)
}

var defaultParser = NewParser(nil)

// Parse parses text into an expression tree. No partial tree is returned
// on error.
func (p *Parser) Parse(text string) (Expression, error) {
	st := &parseState{tok: NewTokenizer(text), maxDepth: p.opts.MaxDepth}
	expr, err := st.parseOr()
	if err != nil {
		return nil, err
	}
	if p.opts.RejectTrailingTokens && !st.tok.Match(TokenEnd) {
		tok := st.tok.Current()
		return nil, &SyntaxError{
			Pos:      tok.Pos,
			Token:    tok,
			Expected: []TokenKind{TokenEnd},
			Msg:      fmt.Sprintf("unexpected trailing %s %q", tok.Kind, tok.Text),
		}
	}
	return expr, nil
}

type parseState struct {
	tok      *Tokenizer
	depth    int
	maxDepth int
}

func (s *parseState) enter() error {
	s.depth++
	if s.depth > s.maxDepth {
		tok := s.tok.Current()
		return &SyntaxError{
			Pos:   tok.Pos,
			Token: tok,
			Msg:   fmt.Sprintf("expression nesting exceeds maximum depth of %d", s.maxDepth),
		}
	}
	return nil
}

func (s *parseState) leave() { s.depth-- }

// matchOperator reports whether the current token is the operator keyword.
func (s *parseState) matchOperator(keywords ...string) (string, bool) {
	tok := s.tok.Current()
	if tok.Kind != TokenOperator {
		return "", false
	}
	lower := strings.ToLower(tok.Text)
	for _, k := range keywords {
		if lower == k {
			return lower, true
		}
	}
	return "", false
}

func (s *parseState) parseOr() (Expression, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	left, err := s.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := s.matchOperator("or"); !ok {
			return left, nil
		}
		s.tok.Advance()
		right, err := s.parseAnd()
		if err != nil {
			return nil, err
		}
		left = NewBinary(left, OpOr, right)
	}
}

func (s *parseState) parseAnd() (Expression, error) {
	left, err := s.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := s.matchOperator("and"); !ok {
			return left, nil
		}
		s.tok.Advance()
		right, err := s.parseComparison()
		if err != nil {
			return nil, err
		}
		left = NewBinary(left, OpAnd, right)
	}
}

func (s *parseState) parseComparison() (Expression, error) {
	left, err := s.parseAdditive()
	if err != nil {
		return nil, err
	}
	kw, ok := s.matchOperator("eq", "ne", "gt", "ge", "lt", "le")
	if !ok {
		return left, nil
	}
	s.tok.Advance()
	right, err := s.parseAdditive()
	if err != nil {
		return nil, err
	}
	return NewBinary(left, comparisonOperators[kw], right), nil
}

func (s *parseState) parseAdditive() (Expression, error) {
	left, err := s.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		kw, ok := s.matchOperator("add", "sub")
		if !ok {
			return left, nil
		}
		s.tok.Advance()
		right, err := s.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		op := OpAdd
		if kw == "sub" {
			op = OpSubtract
		}
		left = NewBinary(left, op, right)
	}
}

func (s *parseState) parseMultiplicative() (Expression, error) {
	left, err := s.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		kw, ok := s.matchOperator("mul", "div", "mod")
		if !ok {
			return left, nil
		}
		s.tok.Advance()
		right, err := s.parseUnary()
		if err != nil {
			return nil, err
		}
		var op BinaryOperator
		switch kw {
		case "mul":
			op = OpMultiply
		case "div":
			op = OpDivide
		default:
			op = OpModulo
		}
		left = NewBinary(left, op, right)
	}
}

func (s *parseState) parseUnary() (Expression, error) {
	if _, ok := s.matchOperator("not"); !ok {
		return s.parsePrimary()
	}
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	s.tok.Advance()
	operand, err := s.parseUnary()
	if err != nil {
		return nil, err
	}
	return NewUnary(OpNot, operand), nil
}

func (s *parseState) parsePrimary() (Expression, error) {
	tok := s.tok.Current()
	switch tok.Kind {
	case TokenFunction:
		return s.parseFunctionCall()

	case TokenOpenParen:
		s.tok.Advance()
		expr, err := s.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := s.tok.Consume(TokenCloseParen); err != nil {
			return nil, err
		}
		return expr, nil

	case TokenString:
		s.tok.Advance()
		return NewStringLiteral(tok.Text), nil

	case TokenDateTime:
		ts, err := ParseDateTime(tok.Text)
		if err != nil {
			return nil, &LiteralError{Text: tok.Text, Pos: tok.Pos, Err: err}
		}
		s.tok.Advance()
		return NewDateTimeLiteral(ts), nil

	case TokenNumber:
		v, err := ParseNumber(tok.Text)
		if err != nil {
			return nil, &LiteralError{Text: tok.Text, Pos: tok.Pos, Err: errNoNumericType}
		}
		s.tok.Advance()
		return NewLiteral(v), nil

	case TokenBoolean:
		s.tok.Advance()
		return NewBoolLiteral(strings.EqualFold(tok.Text, "true")), nil

	case TokenNull:
		s.tok.Advance()
		return NewNullLiteral(), nil

	case TokenProperty:
		s.tok.Advance()
		return NewProperty(tok.Text), nil
	}

	return nil, &SyntaxError{
		Pos:   tok.Pos,
		Token: tok,
		Msg:   fmt.Sprintf("unexpected token %s %q", tok.Kind, tok.Text),
	}
}

func (s *parseState) parseFunctionCall() (Expression, error) {
	name := s.tok.Current().Text
	s.tok.Advance()
	if _, err := s.tok.Consume(TokenOpenParen); err != nil {
		return nil, err
	}

	args := []Expression{}
	if !s.tok.Match(TokenCloseParen) {
		for {
			arg, err := s.parseOr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !s.tok.Match(TokenComma) {
				break
			}
			s.tok.Advance()
		}
	}

	if _, err := s.tok.Consume(TokenCloseParen); err != nil {
		return nil, err
	}
	return NewFunction(name, args...), nil
}

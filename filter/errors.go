package filter

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrSyntax is matched by every filter grammar error.
var ErrSyntax = errors.New("filter: syntax error")

// SyntaxError reports an unexpected token, a missing parenthesis, or a
// nesting or trailing-token violation.
type SyntaxError struct {
	Pos   int
	Token Token
	// Expected lists the token kinds that would have been accepted;
	// empty when no single kind was required.
	Expected []TokenKind
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("filter: %s at position %d", e.Msg, e.Pos)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// GRPCStatus maps the error to codes.InvalidArgument.
func (e *SyntaxError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// LiteralError reports literal text that no supported type accepts.
type LiteralError struct {
	Text string
	Pos  int
	Err  error
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("filter: invalid literal %q at position %d: %v", e.Text, e.Pos, e.Err)
}

func (e *LiteralError) Unwrap() error { return e.Err }

func (e *LiteralError) Is(target error) bool { return target == ErrSyntax }

// GRPCStatus maps the error to codes.InvalidArgument.
func (e *LiteralError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// errNoNumericType is the cause of a LiteralError for number text that
// fits none of the numeric types.
var errNoNumericType = errors.New("not a valid number of any supported type")

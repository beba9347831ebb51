package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Encoder converts expression trees to filter text.
type Encoder interface {
	// Encode renders a single expression. A nil expression renders as "".
	Encode(expr Expression) string
}

// EncoderOptions configures encoding behavior.
type EncoderOptions struct {
	// PropertyMapping renames properties while encoding.
	// Properties not in the map keep their names.
	PropertyMapping map[string]string
}

// TextEncoder renders expressions in canonical filter syntax: binary
// operations fully parenthesized, strings quoted with backslash escapes,
// numbers carrying the suffix of their width, date-times in RFC 3339 UTC.
// Parsing the output yields a tree Equal to any parser-built input. Guid
// literals render as strings and Negate as a subtraction from zero, since
// the grammar has no syntax for either.
type TextEncoder struct {
	opts EncoderOptions
}

// NewTextEncoder creates an encoder. A nil opts uses the defaults.
func NewTextEncoder(opts *EncoderOptions) *TextEncoder {
	e := &TextEncoder{}
	if opts != nil {
		e.opts = *opts
	}
	return e
}

// String renders expr with a default TextEncoder.
func String(expr Expression) string {
	var e TextEncoder
	return e.Encode(expr)
}

// Encode renders expr as filter text.
func (e *TextEncoder) Encode(expr Expression) string {
	var sb strings.Builder
	e.write(&sb, expr)
	return sb.String()
}

func (e *TextEncoder) write(sb *strings.Builder, expr Expression) {
	switch ex := expr.(type) {
	case *BinaryExpression:
		sb.WriteByte('(')
		e.write(sb, ex.Left)
		sb.WriteByte(' ')
		sb.WriteString(ex.Operator.Keyword())
		sb.WriteByte(' ')
		e.write(sb, ex.Right)
		sb.WriteByte(')')
	case *UnaryExpression:
		if ex.Operator == OpNegate {
			sb.WriteString("(0 sub ")
			e.write(sb, ex.Operand)
			sb.WriteByte(')')
			return
		}
		sb.WriteString("not ")
		e.write(sb, ex.Operand)
	case *FunctionExpression:
		sb.WriteString(ex.Name)
		sb.WriteByte('(')
		for i, arg := range ex.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb, arg)
		}
		sb.WriteByte(')')
	case *LiteralExpression:
		writeValue(sb, ex.Value)
	case *PropertyExpression:
		sb.WriteString(e.propertyName(ex.Name))
	}
}

func (e *TextEncoder) propertyName(name string) string {
	if mapped, ok := e.opts.PropertyMapping[name]; ok {
		return mapped
	}
	return name
}

// writeValue renders a literal value so the tokenizer and ParseNumber
// read it back as the same type.
func writeValue(sb *strings.Builder, v Value) {
	switch d := v.Data.(type) {
	case string:
		sb.WriteString(quoteString(d))
	case int32:
		sb.WriteString(strconv.FormatInt(int64(d), 10))
	case int64:
		sb.WriteString(strconv.FormatInt(d, 10))
		sb.WriteByte('L')
	case uint64:
		sb.WriteString(strconv.FormatUint(d, 10))
		sb.WriteString("UL")
	case float32:
		sb.WriteString(strconv.FormatFloat(float64(d), 'f', -1, 32))
		sb.WriteByte('F')
	case float64:
		sb.WriteString(strconv.FormatFloat(d, 'f', -1, 64))
		sb.WriteByte('D')
	case Decimal:
		sb.WriteString(d.String())
		sb.WriteByte('M')
	case bool:
		sb.WriteString(strconv.FormatBool(d))
	case time.Time:
		sb.WriteString(d.UTC().Format(time.RFC3339Nano))
	case uuid.UUID:
		sb.WriteString(quoteString(d.String()))
	default:
		sb.WriteString("null")
	}
}

// quoteString returns a filter string literal, escaping backslashes and quotes.
func quoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' || s[i] == '\'' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('\'')
	return sb.String()
}

func (e *BinaryExpression) String() string   { return String(e) }
func (e *UnaryExpression) String() string    { return String(e) }
func (e *FunctionExpression) String() string { return String(e) }
func (e *LiteralExpression) String() string  { return String(e) }
func (e *PropertyExpression) String() string { return String(e) }

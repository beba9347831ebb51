package filter

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/google/uuid"
)

// ValueType identifies the concrete Go type stored in Value.Data.
type ValueType string

const (
	ValueString   ValueType = "String"   // string
	ValueInt32    ValueType = "Int32"    // int32
	ValueInt64    ValueType = "Int64"    // int64
	ValueUint64   ValueType = "Uint64"   // uint64
	ValueFloat32  ValueType = "Float32"  // float32
	ValueFloat64  ValueType = "Float64"  // float64
	ValueDecimal  ValueType = "Decimal"  // Decimal
	ValueBoolean  ValueType = "Boolean"  // bool
	ValueNull     ValueType = "Null"     // nil
	ValueDateTime ValueType = "DateTime" // time.Time in UTC
	ValueGuid     ValueType = "Guid"     // uuid.UUID
)

// LiteralType returns the literal category of values of this type.
// Unknown types map to an empty LiteralType.
func (t ValueType) LiteralType() LiteralType {
	switch t {
	case ValueString:
		return LiteralString
	case ValueInt32, ValueInt64, ValueUint64, ValueFloat32, ValueFloat64, ValueDecimal:
		return LiteralNumber
	case ValueBoolean:
		return LiteralBoolean
	case ValueNull:
		return LiteralNull
	case ValueDateTime:
		return LiteralDateTime
	case ValueGuid:
		return LiteralGuid
	}
	return ""
}

// Value is a typed scalar. Data holds the Go type documented on Type.
type Value struct {
	Type ValueType
	Data any
}

// IsNull reports whether the value is the null literal.
func (v Value) IsNull() bool { return v.Type == ValueNull }

// Text renders the value without quoting or width suffix. The result
// round-trips through ParseValue for the same type.
func (v Value) Text() string {
	switch d := v.Data.(type) {
	case string:
		return d
	case int32:
		return strconv.FormatInt(int64(d), 10)
	case int64:
		return strconv.FormatInt(d, 10)
	case uint64:
		return strconv.FormatUint(d, 10)
	case float32:
		return strconv.FormatFloat(float64(d), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(d, 'g', -1, 64)
	case Decimal:
		return d.String()
	case bool:
		return strconv.FormatBool(d)
	case time.Time:
		return d.UTC().Format(time.RFC3339Nano)
	case uuid.UUID:
		return d.String()
	case nil:
		return ""
	}
	return fmt.Sprint(v.Data)
}

// ParseValue converts text produced by Value.Text back into a value of type t.
func ParseValue(t ValueType, text string) (Value, error) {
	switch t {
	case ValueString:
		return StringValue(text), nil
	case ValueInt32:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return Value{}, err
		}
		return Int32Value(int32(n)), nil
	case ValueInt64:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return Int64Value(n), nil
	case ValueUint64:
		n, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return Uint64Value(n), nil
	case ValueFloat32:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return Value{}, err
		}
		return Float32Value(float32(f)), nil
	case ValueFloat64:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, err
		}
		return Float64Value(f), nil
	case ValueDecimal:
		d, err := ParseDecimal(text)
		if err != nil {
			return Value{}, err
		}
		return DecimalValue(d), nil
	case ValueBoolean:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case ValueNull:
		return NullValue(), nil
	case ValueDateTime:
		ts, err := ParseDateTime(text)
		if err != nil {
			return Value{}, err
		}
		return DateTimeValue(ts), nil
	case ValueGuid:
		id, err := uuid.Parse(text)
		if err != nil {
			return Value{}, err
		}
		return GuidValue(id), nil
	}
	return Value{}, fmt.Errorf("unknown value type %q", t)
}

// StringValue returns a String value.
func StringValue(s string) Value { return Value{Type: ValueString, Data: s} }

// Int32Value returns an Int32 value.
func Int32Value(n int32) Value { return Value{Type: ValueInt32, Data: n} }

// Int64Value returns an Int64 value.
func Int64Value(n int64) Value { return Value{Type: ValueInt64, Data: n} }

// Uint64Value returns a Uint64 value.
func Uint64Value(n uint64) Value { return Value{Type: ValueUint64, Data: n} }

// Float32Value returns a Float32 value.
func Float32Value(f float32) Value { return Value{Type: ValueFloat32, Data: f} }

// Float64Value returns a Float64 value.
func Float64Value(f float64) Value { return Value{Type: ValueFloat64, Data: f} }

// DecimalValue returns a Decimal value.
func DecimalValue(d Decimal) Value { return Value{Type: ValueDecimal, Data: d} }

// BoolValue returns a Boolean value.
func BoolValue(b bool) Value { return Value{Type: ValueBoolean, Data: b} }

// NullValue returns the Null value. Its Data is nil.
func NullValue() Value { return Value{Type: ValueNull} }

// DateTimeValue returns a DateTime value normalized to UTC.
func DateTimeValue(t time.Time) Value { return Value{Type: ValueDateTime, Data: t.UTC()} }

// GuidValue returns a Guid value.
func GuidValue(id uuid.UUID) Value { return Value{Type: ValueGuid, Data: id} }

// NewStringLiteral returns a String literal holding s unescaped.
func NewStringLiteral(s string) *LiteralExpression { return NewLiteral(StringValue(s)) }

// NewBoolLiteral returns a Boolean literal.
func NewBoolLiteral(b bool) *LiteralExpression { return NewLiteral(BoolValue(b)) }

// NewNullLiteral returns the null literal.
func NewNullLiteral() *LiteralExpression { return NewLiteral(NullValue()) }

// NewDateTimeLiteral returns a DateTime literal normalized to UTC.
func NewDateTimeLiteral(t time.Time) *LiteralExpression { return NewLiteral(DateTimeValue(t)) }

// NewGuidLiteral returns a Guid literal. The parser never produces these.
func NewGuidLiteral(id uuid.UUID) *LiteralExpression { return NewLiteral(GuidValue(id)) }

// NewNumberLiteral infers the numeric type of text with ParseNumber.
func NewNumberLiteral(text string) (*LiteralExpression, error) {
	v, err := ParseNumber(text)
	if err != nil {
		return nil, err
	}
	return NewLiteral(v), nil
}

// maxDecimalDigits is the precision of decimal128.
const maxDecimalDigits = 38

// Decimal is an exact decimal number: Num scaled down by 10^Scale.
type Decimal struct {
	Num   decimal128.Num
	Scale int32
}

// ParseDecimal parses an optionally signed run of digits with at most one
// decimal point. The scale is the number of digits after the point.
func ParseDecimal(s string) (Decimal, error) {
	text := s
	neg := strings.HasPrefix(text, "-")
	if neg {
		text = text[1:]
	}
	intPart, frac, _ := strings.Cut(text, ".")
	digits := intPart + frac
	if digits == "" {
		return Decimal{}, fmt.Errorf("invalid decimal %q", s)
	}
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return Decimal{}, fmt.Errorf("invalid decimal %q", s)
		}
	}
	if len(frac) > maxDecimalDigits || len(strings.TrimLeft(digits, "0")) > maxDecimalDigits {
		return Decimal{}, fmt.Errorf("decimal %q exceeds %d digits of precision", s, maxDecimalDigits)
	}

	bi, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Decimal{}, fmt.Errorf("invalid decimal %q", s)
	}
	if neg {
		bi.Neg(bi)
	}
	return Decimal{Num: decimal128.FromBigInt(bi), Scale: int32(len(frac))}, nil
}

// String renders the decimal with its own scale, e.g. "-1.42".
func (d Decimal) String() string { return d.Num.ToString(d.Scale) }

// Float64 returns the nearest float64.
func (d Decimal) Float64() float64 { return d.Num.ToFloat64(d.Scale) }

// Rat returns the exact value as a rational number.
func (d Decimal) Rat() *big.Rat {
	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale)), nil)
	return new(big.Rat).SetFrac(d.Num.BigInt(), den)
}

// Cmp compares the numeric values of d and o regardless of scale.
func (d Decimal) Cmp(o Decimal) int {
	if d.Scale == o.Scale {
		return d.Num.Cmp(o.Num)
	}
	return d.Rat().Cmp(o.Rat())
}

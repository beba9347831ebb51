package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// JSON form: every node is an object with a TypeName discriminator
// (the ExpressionKind) plus its own fields. Enum values are written as
// their names.

func (e *BinaryExpression) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Left     Expression     `json:"Left"`
		Operator BinaryOperator `json:"Operator"`
		Right    Expression     `json:"Right"`
		TypeName ExpressionKind `json:"TypeName"`
	}{e.Left, e.Operator, e.Right, KindBinary})
}

func (e *UnaryExpression) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Operator UnaryOperator  `json:"Operator"`
		Operand  Expression     `json:"Operand"`
		TypeName ExpressionKind `json:"TypeName"`
	}{e.Operator, e.Operand, KindUnary})
}

func (e *FunctionExpression) MarshalJSON() ([]byte, error) {
	args := e.Arguments
	if args == nil {
		args = []Expression{}
	}
	return json.Marshal(struct {
		FunctionName string         `json:"FunctionName"`
		Arguments    []Expression   `json:"Arguments"`
		TypeName     ExpressionKind `json:"TypeName"`
	}{e.Name, args, KindFunction})
}

func (e *LiteralExpression) MarshalJSON() ([]byte, error) {
	value, err := marshalValue(e.Value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Value     json.RawMessage `json:"Value"`
		Type      LiteralType     `json:"Type"`
		ValueType ValueType       `json:"ValueType"`
		TypeName  ExpressionKind  `json:"TypeName"`
	}{value, e.Type, e.Value.Type, KindLiteral})
}

func (e *PropertyExpression) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PropertyName string         `json:"PropertyName"`
		TypeName     ExpressionKind `json:"TypeName"`
	}{e.Name, KindProperty})
}

// marshalValue writes numbers as JSON numbers and everything else as
// strings, booleans or null.
func marshalValue(v Value) ([]byte, error) {
	switch d := v.Data.(type) {
	case nil:
		return []byte("null"), nil
	case string:
		return json.Marshal(d)
	case bool:
		return json.Marshal(d)
	case float64:
		return json.Marshal(d)
	case float32:
		return []byte(strconv.FormatFloat(float64(d), 'g', -1, 32)), nil
	case int32, int64, uint64, Decimal:
		return []byte(v.Text()), nil
	case time.Time:
		return json.Marshal(d.UTC().Format(time.RFC3339Nano))
	case uuid.UUID:
		return json.Marshal(d.String())
	}
	return nil, fmt.Errorf("filter: unsupported literal data %T", v.Data)
}

// ParseJSON decodes an expression tree from its JSON form. The literal
// ValueType field is optional; without it numbers are typed by
// ParseNumber. A JSON null yields a nil expression.
func ParseJSON(data []byte) (Expression, error) {
	expr, err := parseExpression(data)
	if err != nil {
		return nil, fmt.Errorf("filter: invalid expression JSON: %w", err)
	}
	return expr, nil
}

// rawExpression is used for two-phase parsing to determine the node kind.
type rawExpression struct {
	TypeName ExpressionKind `json:"TypeName"`
}

type rawBinary struct {
	Left     json.RawMessage `json:"Left"`
	Operator BinaryOperator  `json:"Operator"`
	Right    json.RawMessage `json:"Right"`
}

// binaryOperatorAliases accepts the long comparison names written by
// other producers of this format.
var binaryOperatorAliases = map[BinaryOperator]BinaryOperator{
	"GreaterThanOrEqual": OpGreaterOrEqual,
	"LessThanOrEqual":    OpLessOrEqual,
}

type rawUnary struct {
	Operator UnaryOperator   `json:"Operator"`
	Operand  json.RawMessage `json:"Operand"`
}

type rawFunction struct {
	FunctionName string            `json:"FunctionName"`
	Arguments    []json.RawMessage `json:"Arguments"`
}

type rawLiteral struct {
	Value     json.RawMessage `json:"Value"`
	Type      LiteralType     `json:"Type"`
	ValueType ValueType       `json:"ValueType"`
}

type rawProperty struct {
	PropertyName string `json:"PropertyName"`
}

func isJSONNull(data []byte) bool {
	d := bytes.TrimSpace(data)
	return len(d) == 0 || bytes.Equal(d, []byte("null"))
}

func parseExpression(data json.RawMessage) (Expression, error) {
	if isJSONNull(data) {
		return nil, nil
	}

	var raw rawExpression
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	switch raw.TypeName {
	case KindBinary:
		return parseBinaryJSON(data)
	case KindUnary:
		return parseUnaryJSON(data)
	case KindFunction:
		return parseFunctionJSON(data)
	case KindLiteral:
		return parseLiteralJSON(data)
	case KindProperty:
		var p rawProperty
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("invalid property expression: %w", err)
		}
		return NewProperty(p.PropertyName), nil
	}
	return nil, fmt.Errorf("unknown TypeName %q", raw.TypeName)
}

func parseBinaryJSON(data json.RawMessage) (*BinaryExpression, error) {
	var raw rawBinary
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid binary expression: %w", err)
	}
	if alias, ok := binaryOperatorAliases[raw.Operator]; ok {
		raw.Operator = alias
	}
	if !raw.Operator.Valid() {
		return nil, fmt.Errorf("unknown binary operator %q", raw.Operator)
	}

	left, err := parseExpression(raw.Left)
	if err != nil {
		return nil, fmt.Errorf("invalid left operand: %w", err)
	}
	right, err := parseExpression(raw.Right)
	if err != nil {
		return nil, fmt.Errorf("invalid right operand: %w", err)
	}
	return NewBinary(left, raw.Operator, right), nil
}

func parseUnaryJSON(data json.RawMessage) (*UnaryExpression, error) {
	var raw rawUnary
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid unary expression: %w", err)
	}
	if !raw.Operator.Valid() {
		return nil, fmt.Errorf("unknown unary operator %q", raw.Operator)
	}

	operand, err := parseExpression(raw.Operand)
	if err != nil {
		return nil, fmt.Errorf("invalid operand: %w", err)
	}
	return NewUnary(raw.Operator, operand), nil
}

func parseFunctionJSON(data json.RawMessage) (*FunctionExpression, error) {
	var raw rawFunction
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid function expression: %w", err)
	}

	args := make([]Expression, 0, len(raw.Arguments))
	for i, rawArg := range raw.Arguments {
		arg, err := parseExpression(rawArg)
		if err != nil {
			return nil, fmt.Errorf("invalid argument %d of %s: %w", i, raw.FunctionName, err)
		}
		args = append(args, arg)
	}
	return NewFunction(raw.FunctionName, args...), nil
}

func parseLiteralJSON(data json.RawMessage) (*LiteralExpression, error) {
	var raw rawLiteral
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid literal expression: %w", err)
	}

	v, err := decodeValue(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s literal: %w", raw.Type, err)
	}
	if raw.Type != "" && v.Type.LiteralType() != raw.Type {
		return nil, fmt.Errorf("literal Type %q does not match ValueType %q", raw.Type, v.Type)
	}
	return NewLiteral(v), nil
}

func decodeValue(raw rawLiteral) (Value, error) {
	if raw.ValueType == ValueNull || (raw.ValueType == "" && (raw.Type == LiteralNull || isJSONNull(raw.Value))) {
		return NullValue(), nil
	}

	text := string(bytes.TrimSpace(raw.Value))
	if len(text) > 0 && text[0] == '"' {
		if err := json.Unmarshal(raw.Value, &text); err != nil {
			return Value{}, err
		}
	}

	if raw.ValueType != "" {
		return ParseValue(raw.ValueType, text)
	}

	switch raw.Type {
	case LiteralString:
		return StringValue(text), nil
	case LiteralNumber:
		return ParseNumber(text)
	case LiteralBoolean:
		return ParseValue(ValueBoolean, text)
	case LiteralDateTime:
		return ParseValue(ValueDateTime, text)
	case LiteralGuid:
		return ParseValue(ValueGuid, text)
	}
	return Value{}, fmt.Errorf("unknown literal Type %q", raw.Type)
}

package filter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSONShape(t *testing.T) {
	expr, err := Parse("age gt 25 and contains(name, 'Smith')")
	require.NoError(t, err)

	data, err := json.Marshal(expr)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"Left": {
			"Left": {"PropertyName": "age", "TypeName": "PropertyExpression"},
			"Operator": "GreaterThan",
			"Right": {"Value": 25, "Type": "Number", "ValueType": "Int32", "TypeName": "LiteralExpression"},
			"TypeName": "BinaryExpression"
		},
		"Operator": "And",
		"Right": {
			"FunctionName": "contains",
			"Arguments": [
				{"PropertyName": "name", "TypeName": "PropertyExpression"},
				{"Value": "Smith", "Type": "String", "ValueType": "String", "TypeName": "LiteralExpression"}
			],
			"TypeName": "FunctionExpression"
		},
		"TypeName": "BinaryExpression"
	}`, string(data))
}

func TestMarshalJSONLiterals(t *testing.T) {
	id := uuid.MustParse("6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f")
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"null", NewNullLiteral(), `{"Value":null,"Type":"Null","ValueType":"Null","TypeName":"LiteralExpression"}`},
		{"bool", NewBoolLiteral(true), `{"Value":true,"Type":"Boolean","ValueType":"Boolean","TypeName":"LiteralExpression"}`},
		{"int64", NewLiteral(Int64Value(-5)), `{"Value":-5,"Type":"Number","ValueType":"Int64","TypeName":"LiteralExpression"}`},
		{"uint64", NewLiteral(Uint64Value(18446744073709551615)), `{"Value":18446744073709551615,"Type":"Number","ValueType":"Uint64","TypeName":"LiteralExpression"}`},
		{"float32", NewLiteral(Float32Value(0.1)), `{"Value":0.1,"Type":"Number","ValueType":"Float32","TypeName":"LiteralExpression"}`},
		{"decimal", NewLiteral(DecimalValue(mustDecimal(t, "-1.42"))), `{"Value":-1.42,"Type":"Number","ValueType":"Decimal","TypeName":"LiteralExpression"}`},
		{
			"datetime",
			NewDateTimeLiteral(time.Date(2025, 2, 3, 12, 5, 1, 420_000_000, time.UTC)),
			`{"Value":"2025-02-03T12:05:01.42Z","Type":"DateTime","ValueType":"DateTime","TypeName":"LiteralExpression"}`,
		},
		{
			"guid",
			NewGuidLiteral(id),
			`{"Value":"6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f","Type":"Guid","ValueType":"Guid","TypeName":"LiteralExpression"}`,
		},
		{"unary", NewUnary(OpNot, NewProperty("a")), `{"Operator":"Not","Operand":{"PropertyName":"a","TypeName":"PropertyExpression"},"TypeName":"UnaryExpression"}`},
		{"no args", &FunctionExpression{Name: "trim"}, `{"FunctionName":"trim","Arguments":[],"TypeName":"FunctionExpression"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.expr)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			back, err := ParseJSON(data)
			require.NoError(t, err)
			assert.True(t, Equal(tt.expr, back), "got %s", String(back))
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	for _, input := range roundTripInputs {
		t.Run(input, func(t *testing.T) {
			expr, err := Parse(input)
			require.NoError(t, err)

			data, err := json.Marshal(expr)
			require.NoError(t, err)

			back, err := ParseJSON(data)
			require.NoError(t, err)
			assert.True(t, Equal(expr, back), "json %s", data)
		})
	}
}

func TestParseJSONWithoutValueType(t *testing.T) {
	data := []byte(`{
		"Left": {"PropertyName": "createdDate", "TypeName": "PropertyExpression"},
		"Operator": "GreaterOrEqual",
		"Right": {"Value": "2025-02-03T12:05:01.42Z", "Type": "DateTime", "TypeName": "LiteralExpression"},
		"TypeName": "BinaryExpression"
	}`)

	expr, err := ParseJSON(data)
	require.NoError(t, err)

	want := NewBinary(NewProperty("createdDate"), OpGreaterOrEqual,
		NewDateTimeLiteral(time.Date(2025, 2, 3, 12, 5, 1, 420_000_000, time.UTC)))
	assert.True(t, Equal(want, expr), "got %s", String(expr))

	num, err := ParseJSON([]byte(`{"Value": 2147483648, "Type": "Number", "TypeName": "LiteralExpression"}`))
	require.NoError(t, err)
	assert.Equal(t, Int64Value(2147483648), num.(*LiteralExpression).Value)
}

func TestParseJSONOperatorAliases(t *testing.T) {
	data := []byte(`{
		"Left": {
			"Left": {"PropertyName": "age", "TypeName": "PropertyExpression"},
			"Operator": "GreaterThanOrEqual",
			"Right": {"Value": 18, "Type": "Number", "TypeName": "LiteralExpression"},
			"TypeName": "BinaryExpression"
		},
		"Operator": "And",
		"Right": {
			"Left": {"PropertyName": "age", "TypeName": "PropertyExpression"},
			"Operator": "LessThanOrEqual",
			"Right": {"Value": 65, "Type": "Number", "TypeName": "LiteralExpression"},
			"TypeName": "BinaryExpression"
		},
		"TypeName": "BinaryExpression"
	}`)

	expr, err := ParseJSON(data)
	require.NoError(t, err)

	want, err := Parse("age ge 18 and age le 65")
	require.NoError(t, err)
	assert.True(t, Equal(want, expr), "got %s", String(expr))
}

func TestParseJSONNull(t *testing.T) {
	expr, err := ParseJSON([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, expr)
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"TypeName":`},
		{"unknown kind", `{"TypeName": "LambdaExpression"}`},
		{"unknown operator", `{"TypeName": "BinaryExpression", "Operator": "Xor"}`},
		{"unknown unary", `{"TypeName": "UnaryExpression", "Operator": "Minus"}`},
		{"bad number", `{"TypeName": "LiteralExpression", "Type": "Number", "ValueType": "Int32", "Value": 1.5}`},
		{"type mismatch", `{"TypeName": "LiteralExpression", "Type": "String", "ValueType": "Int32", "Value": 1}`},
		{"bad argument", `{"TypeName": "FunctionExpression", "FunctionName": "f", "Arguments": [{"TypeName": "?"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "filter: invalid expression JSON")
		})
	}
}

func TestNodeRoundTrip(t *testing.T) {
	for _, input := range roundTripInputs {
		t.Run(input, func(t *testing.T) {
			expr, err := Parse(input)
			require.NoError(t, err)

			back, err := NodeOf(expr).Expression()
			require.NoError(t, err)
			assert.True(t, Equal(expr, back))
		})
	}

	var n *Node
	expr, err := n.Expression()
	require.NoError(t, err)
	assert.Nil(t, expr)
	assert.Nil(t, NodeOf(nil))

	_, err = (&Node{Kind: KindBinary, Operator: "Xor"}).Expression()
	assert.Error(t, err)
	_, err = (&Node{Kind: KindLiteral, ValueType: ValueInt32, Value: "x"}).Expression()
	assert.Error(t, err)
}

func TestWalkAndProperties(t *testing.T) {
	expr, err := Parse("a eq 1 and (contains(b.c, 'x') or a gt length(d))")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b.c", "d"}, Properties(expr))

	var kinds []ExpressionKind
	Walk(expr, func(e Expression) bool {
		kinds = append(kinds, e.Kind())
		_, isFn := e.(*FunctionExpression)
		return !isFn
	})
	assert.Equal(t, []ExpressionKind{
		KindBinary, KindBinary, KindProperty, KindLiteral,
		KindBinary, KindFunction, KindBinary, KindProperty, KindFunction,
	}, kinds)

	assert.Equal(t, []string{"b", "c"}, NewProperty("b.c").Path())
	assert.Nil(t, Properties(nil))
	assert.Equal(t, []string{"contains", "length"}, Functions(expr))
}

func TestEqual(t *testing.T) {
	a := NewLiteral(DecimalValue(mustDecimal(t, "1.0")))
	b := NewLiteral(DecimalValue(mustDecimal(t, "1.00")))
	assert.True(t, Equal(a, b))

	utc := NewDateTimeLiteral(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	local := &LiteralExpression{
		Type:  LiteralDateTime,
		Value: Value{Type: ValueDateTime, Data: time.Date(2025, 1, 1, 13, 0, 0, 0, time.FixedZone("CET", 3600))},
	}
	assert.True(t, Equal(utc, local))

	assert.False(t, Equal(NewLiteral(Int32Value(1)), NewLiteral(Int64Value(1))))
	assert.False(t, Equal(NewProperty("a"), NewStringLiteral("a")))
	assert.False(t, Equal(NewFunction("f", NewProperty("a")), NewFunction("f")))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, NewProperty("a")))
}

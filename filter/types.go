package filter

import "strings"

// ExpressionKind identifies the variant of an expression node.
// The values double as the TypeName discriminator of the JSON form.
type ExpressionKind string

const (
	KindBinary   ExpressionKind = "BinaryExpression"
	KindUnary    ExpressionKind = "UnaryExpression"
	KindFunction ExpressionKind = "FunctionExpression"
	KindLiteral  ExpressionKind = "LiteralExpression"
	KindProperty ExpressionKind = "PropertyExpression"
)

// BinaryOperator identifies the operation of a BinaryExpression.
type BinaryOperator string

const (
	// Comparison operators
	OpEqual          BinaryOperator = "Equal"
	OpNotEqual       BinaryOperator = "NotEqual"
	OpGreaterThan    BinaryOperator = "GreaterThan"
	OpGreaterOrEqual BinaryOperator = "GreaterOrEqual"
	OpLessThan       BinaryOperator = "LessThan"
	OpLessOrEqual    BinaryOperator = "LessOrEqual"

	// Logical operators
	OpAnd BinaryOperator = "And"
	OpOr  BinaryOperator = "Or"

	// Arithmetic operators
	OpAdd      BinaryOperator = "Add"
	OpSubtract BinaryOperator = "Subtract"
	OpMultiply BinaryOperator = "Multiply"
	OpDivide   BinaryOperator = "Divide"
	OpModulo   BinaryOperator = "Modulo"
)

var binaryKeywords = map[BinaryOperator]string{
	OpEqual:          "eq",
	OpNotEqual:       "ne",
	OpGreaterThan:    "gt",
	OpGreaterOrEqual: "ge",
	OpLessThan:       "lt",
	OpLessOrEqual:    "le",
	OpAnd:            "and",
	OpOr:             "or",
	OpAdd:            "add",
	OpSubtract:       "sub",
	OpMultiply:       "mul",
	OpDivide:         "div",
	OpModulo:         "mod",
}

// Keyword returns the filter keyword of the operator ("eq", "and", ...),
// or an empty string for unknown operators.
func (op BinaryOperator) Keyword() string { return binaryKeywords[op] }

// Valid reports whether op is one of the defined operators.
func (op BinaryOperator) Valid() bool {
	_, ok := binaryKeywords[op]
	return ok
}

// IsComparison reports whether op compares two operands.
func (op BinaryOperator) IsComparison() bool {
	switch op {
	case OpEqual, OpNotEqual, OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual:
		return true
	}
	return false
}

// IsLogical reports whether op is And or Or.
func (op BinaryOperator) IsLogical() bool { return op == OpAnd || op == OpOr }

// IsArithmetic reports whether op is an arithmetic operator.
func (op BinaryOperator) IsArithmetic() bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpModulo:
		return true
	}
	return false
}

// comparisonOperators maps lower-case keywords to comparison operators.
var comparisonOperators = map[string]BinaryOperator{
	"eq": OpEqual,
	"ne": OpNotEqual,
	"gt": OpGreaterThan,
	"ge": OpGreaterOrEqual,
	"lt": OpLessThan,
	"le": OpLessOrEqual,
}

// UnaryOperator identifies the operation of a UnaryExpression.
type UnaryOperator string

const (
	OpNot UnaryOperator = "Not"
	// OpNegate is never produced by the parser; a leading '-' belongs to
	// the number token. It exists for programmatic construction.
	OpNegate UnaryOperator = "Negate"
)

// Valid reports whether op is one of the defined operators.
func (op UnaryOperator) Valid() bool { return op == OpNot || op == OpNegate }

// LiteralType is the semantic category of a literal value.
type LiteralType string

const (
	LiteralString   LiteralType = "String"
	LiteralNumber   LiteralType = "Number"
	LiteralBoolean  LiteralType = "Boolean"
	LiteralNull     LiteralType = "Null"
	LiteralDateTime LiteralType = "DateTime"
	LiteralGuid     LiteralType = "Guid"
)

// Expression is the interface implemented by all filter expression nodes.
// The set of implementations is closed; use a type switch to access the
// node data.
type Expression interface {
	// Kind returns the node variant.
	Kind() ExpressionKind

	// expressionMarker is a marker method to prevent external implementation.
	expressionMarker()
}

// BinaryExpression is a comparison, logical or arithmetic operation.
type BinaryExpression struct {
	Left     Expression
	Operator BinaryOperator
	Right    Expression
}

// UnaryExpression applies Not or Negate to a single operand.
type UnaryExpression struct {
	Operator UnaryOperator
	Operand  Expression
}

// FunctionExpression is a call of a built-in function. Name keeps the
// spelling used in the filter text.
type FunctionExpression struct {
	Name      string
	Arguments []Expression
}

// LiteralExpression holds a scalar constant.
// Type always matches Value.Type; use the literal constructors.
type LiteralExpression struct {
	Value Value
	Type  LiteralType
}

// PropertyExpression references a property, possibly by dotted path.
type PropertyExpression struct {
	Name string
}

func (*BinaryExpression) Kind() ExpressionKind   { return KindBinary }
func (*UnaryExpression) Kind() ExpressionKind    { return KindUnary }
func (*FunctionExpression) Kind() ExpressionKind { return KindFunction }
func (*LiteralExpression) Kind() ExpressionKind  { return KindLiteral }
func (*PropertyExpression) Kind() ExpressionKind { return KindProperty }

func (*BinaryExpression) expressionMarker()   {}
func (*UnaryExpression) expressionMarker()    {}
func (*FunctionExpression) expressionMarker() {}
func (*LiteralExpression) expressionMarker()  {}
func (*PropertyExpression) expressionMarker() {}

// Path splits a dotted property name into its segments.
func (p *PropertyExpression) Path() []string {
	return strings.Split(p.Name, ".")
}

// NewBinary returns a binary expression node.
func NewBinary(left Expression, op BinaryOperator, right Expression) *BinaryExpression {
	return &BinaryExpression{Left: left, Operator: op, Right: right}
}

// NewUnary returns a unary expression node.
func NewUnary(op UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{Operator: op, Operand: operand}
}

// NewFunction returns a function call node. Arguments is never nil.
func NewFunction(name string, args ...Expression) *FunctionExpression {
	if args == nil {
		args = []Expression{}
	}
	return &FunctionExpression{Name: name, Arguments: args}
}

// NewProperty returns a property reference node.
func NewProperty(name string) *PropertyExpression {
	return &PropertyExpression{Name: name}
}

// NewLiteral wraps v in a literal node whose Type is derived from v.Type.
func NewLiteral(v Value) *LiteralExpression {
	return &LiteralExpression{Value: v, Type: v.Type.LiteralType()}
}

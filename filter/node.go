package filter

import "fmt"

// Node is a flat, struct-only form of an Expression for binary codecs
// that cannot carry interface values. Literal values travel as their
// ValueType plus Value.Text, which restores them exactly.
type Node struct {
	Kind      ExpressionKind `msgpack:"kind" json:"kind"`
	Operator  string         `msgpack:"operator,omitempty" json:"operator,omitempty"`
	Left      *Node          `msgpack:"left,omitempty" json:"left,omitempty"`
	Right     *Node          `msgpack:"right,omitempty" json:"right,omitempty"`
	Operand   *Node          `msgpack:"operand,omitempty" json:"operand,omitempty"`
	Name      string         `msgpack:"name,omitempty" json:"name,omitempty"`
	Arguments []*Node        `msgpack:"arguments,omitempty" json:"arguments,omitempty"`
	ValueType ValueType      `msgpack:"value_type,omitempty" json:"value_type,omitempty"`
	Value     string         `msgpack:"value,omitempty" json:"value,omitempty"`
}

// NodeOf flattens expr. A nil expression yields a nil node.
func NodeOf(expr Expression) *Node {
	switch ex := expr.(type) {
	case *BinaryExpression:
		return &Node{
			Kind:     KindBinary,
			Operator: string(ex.Operator),
			Left:     NodeOf(ex.Left),
			Right:    NodeOf(ex.Right),
		}
	case *UnaryExpression:
		return &Node{
			Kind:     KindUnary,
			Operator: string(ex.Operator),
			Operand:  NodeOf(ex.Operand),
		}
	case *FunctionExpression:
		n := &Node{Kind: KindFunction, Name: ex.Name}
		for _, arg := range ex.Arguments {
			n.Arguments = append(n.Arguments, NodeOf(arg))
		}
		return n
	case *LiteralExpression:
		return &Node{Kind: KindLiteral, ValueType: ex.Value.Type, Value: ex.Value.Text()}
	case *PropertyExpression:
		return &Node{Kind: KindProperty, Name: ex.Name}
	}
	return nil
}

// Expression rebuilds the tree. A nil node yields a nil expression.
func (n *Node) Expression() (Expression, error) {
	if n == nil {
		return nil, nil
	}

	switch n.Kind {
	case KindBinary:
		op := BinaryOperator(n.Operator)
		if !op.Valid() {
			return nil, fmt.Errorf("filter: unknown binary operator %q", n.Operator)
		}
		left, err := n.Left.Expression()
		if err != nil {
			return nil, err
		}
		right, err := n.Right.Expression()
		if err != nil {
			return nil, err
		}
		return NewBinary(left, op, right), nil

	case KindUnary:
		op := UnaryOperator(n.Operator)
		if !op.Valid() {
			return nil, fmt.Errorf("filter: unknown unary operator %q", n.Operator)
		}
		operand, err := n.Operand.Expression()
		if err != nil {
			return nil, err
		}
		return NewUnary(op, operand), nil

	case KindFunction:
		args := make([]Expression, 0, len(n.Arguments))
		for _, a := range n.Arguments {
			arg, err := a.Expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return NewFunction(n.Name, args...), nil

	case KindLiteral:
		v, err := ParseValue(n.ValueType, n.Value)
		if err != nil {
			return nil, fmt.Errorf("filter: invalid %s literal %q: %w", n.ValueType, n.Value, err)
		}
		return NewLiteral(v), nil

	case KindProperty:
		return NewProperty(n.Name), nil
	}
	return nil, fmt.Errorf("filter: unknown node kind %q", n.Kind)
}

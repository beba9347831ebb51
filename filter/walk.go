package filter

import (
	"time"
)

// Walk visits expr and its descendants in pre-order. Children of a node
// are skipped when fn returns false for it.
func Walk(expr Expression, fn func(Expression) bool) {
	if expr == nil || !fn(expr) {
		return
	}
	switch ex := expr.(type) {
	case *BinaryExpression:
		Walk(ex.Left, fn)
		Walk(ex.Right, fn)
	case *UnaryExpression:
		Walk(ex.Operand, fn)
	case *FunctionExpression:
		for _, arg := range ex.Arguments {
			Walk(arg, fn)
		}
	case *LiteralExpression, *PropertyExpression:
	}
}

// Properties returns the distinct property names referenced by expr in
// order of first appearance.
func Properties(expr Expression) []string {
	var names []string
	seen := map[string]bool{}
	Walk(expr, func(e Expression) bool {
		if p, ok := e.(*PropertyExpression); ok && !seen[p.Name] {
			seen[p.Name] = true
			names = append(names, p.Name)
		}
		return true
	})
	return names
}

// Functions returns the distinct function names called in expr, in
// order of first appearance.
func Functions(expr Expression) []string {
	var names []string
	seen := map[string]bool{}
	Walk(expr, func(e Expression) bool {
		if f, ok := e.(*FunctionExpression); ok && !seen[f.Name] {
			seen[f.Name] = true
			names = append(names, f.Name)
		}
		return true
	})
	return names
}

// Equal reports whether a and b are structurally identical trees.
// Date-times compare as instants and decimals by numeric value.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *BinaryExpression:
		y, ok := b.(*BinaryExpression)
		return ok && x.Operator == y.Operator && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *UnaryExpression:
		y, ok := b.(*UnaryExpression)
		return ok && x.Operator == y.Operator && Equal(x.Operand, y.Operand)
	case *FunctionExpression:
		y, ok := b.(*FunctionExpression)
		if !ok || x.Name != y.Name || len(x.Arguments) != len(y.Arguments) {
			return false
		}
		for i := range x.Arguments {
			if !Equal(x.Arguments[i], y.Arguments[i]) {
				return false
			}
		}
		return true
	case *LiteralExpression:
		y, ok := b.(*LiteralExpression)
		return ok && x.Type == y.Type && EqualValues(x.Value, y.Value)
	case *PropertyExpression:
		y, ok := b.(*PropertyExpression)
		return ok && x.Name == y.Name
	}
	return false
}

// EqualValues reports whether two values have the same type and value.
func EqualValues(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch x := a.Data.(type) {
	case time.Time:
		y, ok := b.Data.(time.Time)
		return ok && x.Equal(y)
	case Decimal:
		y, ok := b.Data.(Decimal)
		return ok && x.Cmp(y) == 0
	}
	return a.Data == b.Data
}

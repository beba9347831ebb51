// Package filter parses OData-style $filter expressions into an
// expression tree and renders trees back to text and JSON.
//
// # Basic Usage
//
//	expr, err := filter.Parse("age gt 25 and contains(name, 'Smith')")
//	if err != nil {
//	    return err // *filter.SyntaxError or *filter.LiteralError
//	}
//
//	for _, name := range filter.Properties(expr) {
//	    fmt.Println(name) // age, name
//	}
//
// # Grammar
//
// Operators bind, from loosest to tightest: or, and, a single comparison
// (eq ne gt ge lt le), add and sub, mul div and mod, then unary not.
// A comparison does not chain: "a eq 1 eq 2" parses as "a eq 1" and the
// rest is ignored unless ParserOptions.RejectTrailingTokens is set.
//
// Strings use single quotes with backslash escapes. A doubled quote is
// not an escape, so 'It''s' is the string "It" followed by ignored text.
//
// # Literals
//
// Number tokens are typed by ParseNumber from their suffix (L, U, UL, F,
// D, M), hex prefix and shape, so "1" is Int32, "2147483648" is Int64 and
// "1.5" is Float32. Decimal values keep their scale exactly.
// Date-times must be full ISO 8601 dates and are normalized to UTC.
//
// # Encoding
//
// String and TextEncoder render a tree as canonical filter text that
// parses back to an Equal tree. Nodes implement json.Marshaler and
// ParseJSON reads them back; Node is a flat form for msgpack.
package filter

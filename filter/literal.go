package filter

import (
	"strconv"
	"strings"
)

// ParseNumber infers the type of a number token. The first matching rule
// wins:
//
//  1. 0x/0X prefix: hexadecimal. A UL/LU suffix gives Uint64, L gives
//     Int64, U gives Uint64; without a suffix the bit pattern is read as
//     Int32, else Int64 (0xFFFFFFFF is Int32 -1).
//  2. UL/LU suffix: Uint64.
//  3. F, D, M, L or U suffix: Float32, Float64, Decimal, Int64, Uint64.
//  4. Contains '.': Float32, else Float64, else Decimal.
//  5. Otherwise Int32, else Int64.
//
// Suffixes match in any case. Text that no rule accepts yields a
// *LiteralError.
func ParseNumber(text string) (Value, error) {
	if v, ok := parseNumber(text); ok {
		return v, nil
	}
	return Value{}, &LiteralError{Text: text, Err: errNoNumericType}
}

func parseNumber(text string) (Value, bool) {
	if len(text) >= 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		return parseHex(text[2:])
	}

	if digits, ok := cutLongSuffix(text); ok {
		return parseUint64(digits)
	}

	if n := len(text); n > 0 {
		digits := text[:n-1]
		switch text[n-1] {
		case 'f', 'F':
			return parseFloat32(digits)
		case 'd', 'D':
			return parseFloat64(digits)
		case 'm', 'M':
			return parseDecimal(digits)
		case 'l', 'L':
			return parseInt64(digits)
		case 'u', 'U':
			return parseUint64(digits)
		}
	}

	if strings.Contains(text, ".") {
		if v, ok := parseFloat32(text); ok {
			return v, true
		}
		if v, ok := parseFloat64(text); ok {
			return v, true
		}
		return parseDecimal(text)
	}

	if v, ok := parseInt32(text); ok {
		return v, true
	}
	return parseInt64(text)
}

// cutLongSuffix strips a two-letter UL or LU suffix in any case.
func cutLongSuffix(text string) (string, bool) {
	n := len(text)
	if n < 2 {
		return text, false
	}
	suffix := strings.ToUpper(text[n-2:])
	if suffix == "UL" || suffix == "LU" {
		return text[:n-2], true
	}
	return text, false
}

func parseHex(digits string) (Value, bool) {
	if d, ok := cutLongSuffix(digits); ok {
		n, err := strconv.ParseUint(d, 16, 64)
		return Uint64Value(n), err == nil
	}
	if n := len(digits); n > 0 {
		switch digits[n-1] {
		case 'l', 'L':
			u, err := strconv.ParseUint(digits[:n-1], 16, 64)
			return Int64Value(int64(u)), err == nil
		case 'u', 'U':
			u, err := strconv.ParseUint(digits[:n-1], 16, 64)
			return Uint64Value(u), err == nil
		}
	}

	if u, err := strconv.ParseUint(digits, 16, 32); err == nil {
		return Int32Value(int32(uint32(u))), true
	}
	u, err := strconv.ParseUint(digits, 16, 64)
	return Int64Value(int64(u)), err == nil
}

func parseInt32(s string) (Value, bool) {
	n, err := strconv.ParseInt(s, 10, 32)
	return Int32Value(int32(n)), err == nil
}

func parseInt64(s string) (Value, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return Int64Value(n), err == nil
}

func parseUint64(s string) (Value, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	return Uint64Value(n), err == nil
}

// parseFloat32 and parseFloat64 accept only plain decimal notation, so a
// stray exponent or "inf" spelled inside a token is not a number.
func parseFloat32(s string) (Value, bool) {
	if !isPlainDecimal(s) {
		return Value{}, false
	}
	f, err := strconv.ParseFloat(s, 32)
	return Float32Value(float32(f)), err == nil
}

func parseFloat64(s string) (Value, bool) {
	if !isPlainDecimal(s) {
		return Value{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return Float64Value(f), err == nil
}

func parseDecimal(s string) (Value, bool) {
	d, err := ParseDecimal(s)
	return DecimalValue(d), err == nil
}

// isPlainDecimal reports whether s is an optional '-' followed by digits
// with at most one '.', and at least one digit.
func isPlainDecimal(s string) bool {
	s = strings.TrimPrefix(s, "-")
	seenDigit, seenDot := false, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case isDigit(c):
			seenDigit = true
		case c == '.' && !seenDot:
			seenDot = true
		default:
			return false
		}
	}
	return seenDigit
}

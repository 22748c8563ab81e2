// Package types provides common type aliases and utilities.
package types

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Hundred is the divisor applied to every percentage at the point of use.
var Hundred = decimal.NewFromInt(100)

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Limits of a value accepted from outside. Anything larger is treated as
// unparsable: decimal expands the exponent into a full integer on String,
// BigInt and comparisons, so "1e20000000" would cost megabytes and seconds.
const (
	maxExponent        = 28
	maxCoefficientBits = 128
)

// Bounded returns v, or zero when its exponent or coefficient exceeds the
// accepted limits.
func Bounded(v Money) Money {
	if exp := v.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero
	}
	if v.Coefficient().BitLen() > maxCoefficientBits {
		return decimal.Zero
	}
	return v
}

// PercentOf returns base * pct / 100. Percentages are stored as 0..100.
func PercentOf(base, pct Money) Money {
	return base.Mul(pct).Div(Hundred)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi Money) Money {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

// NonNegative replaces negative values with zero.
func NonNegative(v Money) Money {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// ParseLenient converts any scalar into a decimal and never fails.
//
// Accepted inputs: strings (with currency symbols, thousands separators and
// other noise stripped when a strict parse fails), json.Number, all Go
// integer and float kinds, decimal values and Numeric. Everything else,
// including nil, NaN and infinities, yields zero. So does any value beyond
// 28 digits of exponent or 128 bits of coefficient.
//
// The fallback strip keeps an exponent marker only when it sits between a
// digit and an exponent value, so "1e3 pcs" reads as 1000 and "12 each" as 12.
func ParseLenient(v any) Money {
	return Bounded(parseLenient(v))
}

func parseLenient(v any) Money {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case Numeric:
		return x.Decimal
	case *Numeric:
		if x == nil {
			return decimal.Zero
		}
		return x.Decimal
	case string:
		return parseLenientString(x)
	case json.Number:
		return parseLenientString(string(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int8:
		return decimal.NewFromInt(int64(x))
	case int16:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case uint:
		return fromUint64(uint64(x))
	case uint8:
		return decimal.NewFromInt(int64(x))
	case uint16:
		return decimal.NewFromInt(int64(x))
	case uint32:
		return decimal.NewFromInt(int64(x))
	case uint64:
		return fromUint64(x)
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	default:
		return decimal.Zero
	}
}

// ParseLenientInt is ParseLenient truncated toward zero. Values outside the
// int64 range degrade to zero instead of wrapping.
func ParseLenientInt(v any) int64 {
	bi := ParseLenient(v).BigInt()
	if !bi.IsInt64() {
		return 0
	}
	return bi.Int64()
}

func fromFloat(f float64) Money {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func fromUint64(u uint64) Money {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

func parseLenientString(s string) Money {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}

	return parseStripped([]rune(s))
}

// parseStripped keeps digits, the first dot, a leading minus sign and one
// exponent marker, dropping everything else.
func parseStripped(rs []rune) Money {
	isDigit := func(i int) bool { return i < len(rs) && rs[i] >= '0' && rs[i] <= '9' }

	b := make([]rune, 0, len(rs))
	seenDot, seenExp := false, false
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r >= '0' && r <= '9':
			b = append(b, r)
		case r == '.' && !seenDot:
			seenDot = true
			b = append(b, r)
		case r == '-' && len(b) == 0:
			b = append(b, r)
		case (r == 'e' || r == 'E') && !seenExp && len(b) > 0 && b[len(b)-1] >= '0' && b[len(b)-1] <= '9':
			switch {
			case isDigit(i + 1):
				b = append(b, 'e')
			case (i+1 < len(rs) && (rs[i+1] == '-' || rs[i+1] == '+')) && isDigit(i+2):
				b = append(b, 'e', rs[i+1])
				i++
			default:
				continue
			}
			seenExp, seenDot = true, true
		}
	}

	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Numeric is a decimal that decodes from either a JSON number or a JSON
// string. Decoding never fails: null, empty and unparsable input become zero.
// The backend serializes some amounts as strings, so every persisted or
// catalog-provided number goes through this type.
type Numeric struct {
	decimal.Decimal
}

// NewNumeric wraps a leniently parsed value.
func NewNumeric(v any) Numeric {
	return Numeric{Decimal: ParseLenient(v)}
}

// UnmarshalJSON accepts a JSON number, a string or null.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		n.Decimal = decimal.Zero
		return nil
	}

	// If string, unquote first.
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			n.Decimal = decimal.Zero
			return nil
		}
		n.Decimal = Bounded(parseLenientString(s))
		return nil
	}

	// Otherwise treat as number token. Objects, arrays and booleans become zero.
	switch {
	case data[0] == '{' || data[0] == '[':
		n.Decimal = decimal.Zero
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		n.Decimal = decimal.Zero
	default:
		n.Decimal = Bounded(parseLenientString(string(data)))
	}
	return nil
}

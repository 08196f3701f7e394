// Package jsonval implements JSON-Schema-exact semantics over decoded JSON
// values: type classification, structural equality, and numeric comparison.
// Numbers are compared as exact rationals so that 1 and 1.0 are the same
// value and large integers never lose precision through float64.
package jsonval

import (
	"encoding/json"
	"math/big"
	"unicode/utf8"
)

// TypeOf reports the JSON type name of a decoded value: "null", "boolean",
// "string", "number", "array" or "object". The second result is false for
// values outside the JSON value model.
func TypeOf(v any) (string, bool) {
	switch v.(type) {
	case nil:
		return "null", true
	case bool:
		return "boolean", true
	case string:
		return "string", true
	case json.Number, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number", true
	case []any:
		return "array", true
	case map[string]any:
		return "object", true
	}
	return "", false
}

// Num converts a decoded number into an exact rational. It accepts
// json.Number (the preferred decoding), the float and integer shapes
// produced by encoding/json and yaml.v3, and reports false otherwise.
func Num(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case json.Number:
		r := new(big.Rat)
		if _, ok := r.SetString(n.String()); !ok {
			return nil, false
		}
		return r, true
	case float64:
		r := new(big.Rat)
		if r.SetFloat64(n) == nil {
			return nil, false
		}
		return r, true
	case float32:
		return Num(float64(n))
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int8:
		return new(big.Rat).SetInt64(int64(n)), true
	case int16:
		return new(big.Rat).SetInt64(int64(n)), true
	case int32:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	case uint:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint8:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Rat).SetUint64(n), true
	}
	return nil, false
}

// IsInteger reports whether v is a number with zero fractional part.
// Per draft-07, 1.0 satisfies type "integer".
func IsInteger(v any) bool {
	r, ok := Num(v)
	return ok && r.IsInt()
}

// Equal implements JSON Schema structural equality: arrays are
// order-sensitive, object keys are order-insensitive, and numbers are
// equal when they denote the same mathematical value regardless of
// integer/float representation.
func Equal(a, b any) bool {
	if ra, ok := Num(a); ok {
		rb, ok := Num(b)
		return ok && ra.Cmp(rb) == 0
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}

// RuneLen measures string length in Unicode scalar values, the unit
// minLength/maxLength are specified in.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

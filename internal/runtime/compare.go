package runtime

import (
	"fmt"
	"strings"
)

// Compare orders two values of the same concrete kind, returning -1, 0, or
// 1. Floating comparisons collapse NaN to Less against anything (per
// spec's IEEE-compare-with-NaN rule) rather than Go's "unordered" result,
// so `<`/`<=`/`>`/`>=` always produce a definite boolean.
func Compare(a, b Value) (int, error) {
	switch x := a.(type) {
	case Int32Value:
		y, ok := b.(Int32Value)
		if !ok {
			return 0, fmt.Errorf("cannot compare %s with %s", a.Type(), b.Type())
		}
		return compareInt(int64(x), int64(y)), nil
	case Int64Value:
		y, ok := b.(Int64Value)
		if !ok {
			return 0, fmt.Errorf("cannot compare %s with %s", a.Type(), b.Type())
		}
		return compareInt(int64(x), int64(y)), nil
	case Float32Value:
		y, ok := b.(Float32Value)
		if !ok {
			return 0, fmt.Errorf("cannot compare %s with %s", a.Type(), b.Type())
		}
		return compareFloat(float64(x), float64(y)), nil
	case Float64Value:
		y, ok := b.(Float64Value)
		if !ok {
			return 0, fmt.Errorf("cannot compare %s with %s", a.Type(), b.Type())
		}
		return compareFloat(float64(x), float64(y)), nil
	case StringValue:
		y, ok := b.(StringValue)
		if !ok {
			return 0, fmt.Errorf("cannot compare %s with %s", a.Type(), b.Type())
		}
		return strings.Compare(string(x), string(y)), nil
	default:
		return 0, fmt.Errorf("values of type %s are not ordered", a.Type())
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	if isNaN64(a) || isNaN64(b) {
		if a == b {
			return 0
		}
		return -1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

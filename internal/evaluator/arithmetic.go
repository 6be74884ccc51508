package evaluator

import (
	"fmt"

	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/runtime"
)

// negate implements unary `-`, preserving the operand's concrete numeric
// kind.
func negate(tv runtime.TypedValue) (runtime.Value, error) {
	switch v := tv.Value.(type) {
	case runtime.Int32Value:
		return -v, nil
	case runtime.Int64Value:
		return -v, nil
	case runtime.Float32Value:
		return -v, nil
	case runtime.Float64Value:
		return -v, nil
	default:
		return nil, fmt.Errorf("cannot negate a %s value", tv.Value.Type())
	}
}

// arithmetic implements `+ - * /` for the two same-typed numeric operands
// left and right. The two operands must already share an annotation —
// evaluator callers don't coerce between i32/i64/f32/f64 — and division
// by zero is a runtime error rather than an IEEE-754 infinity/NaN even
// for the floating kinds, matching the language's "no implicit numeric
// coercion" stance throughout.
func arithmetic(op lexer.TokenType, left, right runtime.TypedValue) (runtime.Value, error) {
	if !left.Annotation.Equal(right.Annotation) {
		return nil, fmt.Errorf("cannot apply '%s' to %s and %s", op, left.Annotation, right.Annotation)
	}
	switch l := left.Value.(type) {
	case runtime.Int32Value:
		r := right.Value.(runtime.Int32Value)
		return intArith(op, int64(l), int64(r), func(n int64) runtime.Value { return runtime.Int32Value(int32(n)) })
	case runtime.Int64Value:
		r := right.Value.(runtime.Int64Value)
		return intArith(op, int64(l), int64(r), func(n int64) runtime.Value { return runtime.Int64Value(n) })
	case runtime.Float32Value:
		r := right.Value.(runtime.Float32Value)
		return floatArith(op, float64(l), float64(r), func(n float64) runtime.Value { return runtime.Float32Value(float32(n)) })
	case runtime.Float64Value:
		r := right.Value.(runtime.Float64Value)
		return floatArith(op, float64(l), float64(r), func(n float64) runtime.Value { return runtime.Float64Value(n) })
	default:
		return nil, fmt.Errorf("cannot apply '%s' to %s values", op, left.Value.Type())
	}
}

func intArith(op lexer.TokenType, a, b int64, wrap func(int64) runtime.Value) (runtime.Value, error) {
	switch op {
	case lexer.PLUS:
		return wrap(a + b), nil
	case lexer.MINUS:
		return wrap(a - b), nil
	case lexer.STAR:
		return wrap(a * b), nil
	case lexer.SLASH:
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return wrap(a / b), nil
	default:
		return nil, fmt.Errorf("unknown arithmetic operator '%s'", op)
	}
}

func floatArith(op lexer.TokenType, a, b float64, wrap func(float64) runtime.Value) (runtime.Value, error) {
	switch op {
	case lexer.PLUS:
		return wrap(a + b), nil
	case lexer.MINUS:
		return wrap(a - b), nil
	case lexer.STAR:
		return wrap(a * b), nil
	case lexer.SLASH:
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return wrap(a / b), nil
	default:
		return nil, fmt.Errorf("unknown arithmetic operator '%s'", op)
	}
}

// toArrayIndex coerces an index operand — numeric or bool, per spec's
// Index row — to a plain int.
func toArrayIndex(v runtime.Value) (int, error) {
	switch n := v.(type) {
	case runtime.Int32Value:
		return int(n), nil
	case runtime.Int64Value:
		return int(n), nil
	case runtime.Float32Value:
		return int(n), nil
	case runtime.Float64Value:
		return int(n), nil
	case runtime.BoolValue:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("array index must be numeric or bool, got %s", v.Type())
	}
}

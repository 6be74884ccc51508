package evaluator

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/errors"
	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/runtime"
	"github.com/velalang/vela/internal/types"
)

// evalExpr dispatches on the concrete expression node and, on success,
// pushes exactly one TypedValue — the invariant spec §8 names.
func (e *Evaluator) evalExpr(expr ast.Expression) error {
	switch ex := expr.(type) {
	case *ast.IntegerLiteral:
		return e.evalIntegerLiteral(ex)
	case *ast.FloatLiteral:
		return e.evalFloatLiteral(ex)
	case *ast.StringLiteral:
		e.push(runtime.TypedValue{Value: runtime.StringValue(ex.Value), Annotation: types.Primitive(types.String)})
		return nil
	case *ast.BooleanLiteral:
		e.push(runtime.TypedValue{Value: runtime.BoolValue(ex.Value), Annotation: types.Primitive(types.Bool)})
		return nil
	case *ast.UnitLiteral:
		e.push(runtime.TypedValue{Value: runtime.UnitValue{}, Annotation: types.Primitive(types.Unit)})
		return nil
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(ex)
	case *ast.Variable:
		return e.evalVariable(expr, ex)
	case *ast.Assign:
		return e.evalAssign(expr, ex)
	case *ast.Binary:
		return e.evalBinary(ex)
	case *ast.Logical:
		return e.evalLogical(ex)
	case *ast.Unary:
		return e.evalUnary(ex)
	case *ast.Grouping:
		tv, err := e.evalValue(ex.Inner)
		if err != nil {
			return err
		}
		e.push(tv)
		return nil
	case *ast.Call:
		return e.evalCall(ex)
	case *ast.Get:
		return e.evalGet(ex)
	case *ast.Set:
		return e.evalSet(ex)
	case *ast.Index:
		return e.evalIndex(ex)
	case *ast.SetArrayElement:
		return e.evalSetArrayElement(ex)
	case *ast.EnumPath:
		return errors.NewInternalErrorf("enum evaluation is not implemented (%s)", ex.String())
	default:
		return errors.NewInternalErrorf("evaluator: unhandled expression type %T", expr)
	}
}

func (e *Evaluator) evalIntegerLiteral(l *ast.IntegerLiteral) error {
	var v runtime.Value
	if l.Annotation.Kind == types.I32 {
		v = runtime.Int32Value(int32(l.Value))
	} else {
		v = runtime.Int64Value(l.Value)
	}
	e.push(runtime.TypedValue{Value: v, Annotation: l.Annotation})
	return nil
}

func (e *Evaluator) evalFloatLiteral(l *ast.FloatLiteral) error {
	var v runtime.Value
	if l.Annotation.Kind == types.F32 {
		v = runtime.Float32Value(float32(l.Value))
	} else {
		v = runtime.Float64Value(l.Value)
	}
	e.push(runtime.TypedValue{Value: v, Annotation: l.Annotation})
	return nil
}

// evalArrayLiteral evaluates each element left-to-right; the first
// element's annotation becomes the required element type for the rest.
// An empty literal (the parser's synthesized default for an uninitialized
// `let a: Array<T>;`) falls back to pendingArrayElem, which execLet sets
// to the declaration's element type while evaluating the initializer —
// the same "consult the enclosing let" trick the parser uses for integer
// and float literal widths.
func (e *Evaluator) evalArrayLiteral(lit *ast.ArrayLiteral) error {
	if len(lit.Elements) == 0 {
		elem := e.pendingArrayElem
		if elem == nil {
			elem = types.Primitive(types.Unit)
		}
		e.push(runtime.TypedValue{
			Value:      runtime.ArrayValue{Elem: elem},
			Annotation: types.NewArray(elem),
		})
		return nil
	}

	elems := make([]runtime.TypedValue, len(lit.Elements))
	first, err := e.evalValue(lit.Elements[0])
	if err != nil {
		return err
	}
	elems[0] = first
	elemAnn := first.Annotation
	for i := 1; i < len(lit.Elements); i++ {
		v, err := e.evalValue(lit.Elements[i])
		if err != nil {
			return err
		}
		if !v.Annotation.Equal(elemAnn) {
			return errors.NewRuntimeErrorf(errors.InvalidTypeAssignmentError, lit.Pos(),
				"array element %d has type %s, expected %s", i, v.Annotation, elemAnn)
		}
		elems[i] = v
	}
	e.push(runtime.TypedValue{
		Value:      runtime.ArrayValue{Elements: elems, Elem: elemAnn},
		Annotation: types.NewArray(elemAnn),
	})
	return nil
}

// lookupRaw resolves name via the resolver's recorded scope depth for
// expr when available, falling back to a full chain walk for a name the
// resolver left unresolved. It does not
// dereference a SelfIndex payload — callers that need the transparent
// self-dereference do that themselves.
func (e *Evaluator) lookupRaw(expr ast.Expression, name string) (runtime.TypedValue, error) {
	if depth, ok := e.locals[expr]; ok {
		return e.env.GetAt(e.current, depth, name)
	}
	return e.env.Get(e.current, name)
}

// evalVariable implements spec §4.4's Variable row: a SelfIndex binding
// (only ever bound to the name `self`) dereferences transparently to the
// struct instance it addresses.
func (e *Evaluator) evalVariable(expr ast.Expression, v *ast.Variable) error {
	tv, err := e.lookupRaw(expr, v.Name.Value)
	if err != nil {
		return err
	}
	if si, ok := tv.Value.(runtime.SelfIndexValue); ok {
		target, err := e.env.Get(si.EnvIndex, si.InstanceName)
		if err != nil {
			return err
		}
		e.push(target)
		return nil
	}
	e.push(tv)
	return nil
}

func (e *Evaluator) evalAssign(expr ast.Expression, a *ast.Assign) error {
	rhs, err := e.evalValue(a.Value)
	if err != nil {
		return err
	}
	if depth, ok := e.locals[expr]; ok {
		if err := e.env.AssignAt(e.current, depth, a.Name.Value, rhs); err != nil {
			return err
		}
	} else if err := e.env.Assign(e.current, a.Name.Value, rhs); err != nil {
		return err
	}
	e.push(rhs)
	return nil
}

func (e *Evaluator) evalLogical(l *ast.Logical) error {
	left, err := e.evalValue(l.Left)
	if err != nil {
		return err
	}
	truthy := runtime.Truthy(left.Value)
	if (l.Operator.Type == lexer.OR && truthy) || (l.Operator.Type == lexer.AND && !truthy) {
		e.push(left)
		return nil
	}
	right, err := e.evalValue(l.Right)
	if err != nil {
		return err
	}
	e.push(right)
	return nil
}

func (e *Evaluator) evalUnary(u *ast.Unary) error {
	right, err := e.evalValue(u.Right)
	if err != nil {
		return err
	}
	switch u.Operator.Type {
	case lexer.MINUS:
		neg, err := negate(right)
		if err != nil {
			return errors.NewRuntimeErrorf(errors.GenericError, u.Pos(), "%s", err.Error())
		}
		e.push(runtime.TypedValue{Value: neg, Annotation: right.Annotation})
		return nil
	case lexer.BANG:
		e.push(runtime.TypedValue{Value: runtime.BoolValue(!runtime.Truthy(right.Value)), Annotation: types.Primitive(types.Bool)})
		return nil
	default:
		return errors.NewInternalErrorf("evaluator: unknown unary operator %s", u.Operator.Lexeme)
	}
}

func (e *Evaluator) evalBinary(b *ast.Binary) error {
	left, err := e.evalValue(b.Left)
	if err != nil {
		return err
	}
	right, err := e.evalValue(b.Right)
	if err != nil {
		return err
	}

	switch b.Operator.Type {
	case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH:
		result, err := arithmetic(b.Operator.Type, left, right)
		if err != nil {
			return errors.NewRuntimeErrorf(errors.GenericError, b.Pos(), "%s", err.Error())
		}
		e.push(runtime.TypedValue{Value: result, Annotation: left.Annotation})
		return nil
	case lexer.EQUAL_EQUAL:
		e.push(runtime.TypedValue{Value: runtime.BoolValue(left.Value.Equals(right.Value)), Annotation: types.Primitive(types.Bool)})
		return nil
	case lexer.BANG_EQUAL:
		e.push(runtime.TypedValue{Value: runtime.BoolValue(!left.Value.Equals(right.Value)), Annotation: types.Primitive(types.Bool)})
		return nil
	case lexer.LESS, lexer.LESS_EQUAL, lexer.GREATER, lexer.GREATER_EQUAL:
		cmp, err := runtime.Compare(left.Value, right.Value)
		if err != nil {
			return errors.NewRuntimeErrorf(errors.GenericError, b.Pos(), "%s", err.Error())
		}
		e.push(runtime.TypedValue{Value: runtime.BoolValue(compareSatisfies(b.Operator.Type, cmp)), Annotation: types.Primitive(types.Bool)})
		return nil
	default:
		return errors.NewInternalErrorf("evaluator: unknown binary operator %s", b.Operator.Lexeme)
	}
}

func compareSatisfies(op lexer.TokenType, cmp int) bool {
	switch op {
	case lexer.LESS:
		return cmp < 0
	case lexer.LESS_EQUAL:
		return cmp <= 0
	case lexer.GREATER:
		return cmp > 0
	case lexer.GREATER_EQUAL:
		return cmp >= 0
	default:
		return false
	}
}

func (e *Evaluator) evalIndex(idx *ast.Index) error {
	objTV, err := e.evalValue(idx.Object)
	if err != nil {
		return err
	}
	arr, ok := objTV.Value.(runtime.ArrayValue)
	if !ok {
		return errors.NewRuntimeErrorf(errors.GenericError, idx.Pos(), "cannot index a %s value", objTV.Value.Type())
	}
	idxTV, err := e.evalValue(idx.Idx)
	if err != nil {
		return err
	}
	i, err := toArrayIndex(idxTV.Value)
	if err != nil {
		return errors.NewRuntimeErrorf(errors.GenericError, idx.Pos(), "%s", err.Error())
	}
	if i < 0 || i >= len(arr.Elements) {
		return errors.NewRuntimeErrorf(errors.GenericError, idx.Pos(),
			"index %d out of bounds for array of length %d", i, len(arr.Elements))
	}
	e.push(arr.Elements[i])
	return nil
}

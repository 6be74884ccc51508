package evaluator

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/errors"
	"github.com/velalang/vela/internal/runtime"
	"github.com/velalang/vela/internal/types"
)

// evalCall dispatches by callee kind: a bare `assert` identifier is a
// reserved builtin (it isn't in the lexer's keyword table, so it is
// special-cased here rather than registered as a global binding), a
// CallableValue callee invokes a user function or a bound method, and a
// StructValue callee constructs a new instance of that struct.
func (e *Evaluator) evalCall(c *ast.Call) error {
	if v, ok := c.Callee.(*ast.Variable); ok && v.Name.Value == "assert" {
		return e.evalAssertCall(c)
	}

	calleeTV, err := e.evalValue(c.Callee)
	if err != nil {
		return err
	}

	args := make([]runtime.TypedValue, len(c.Args))
	for i, a := range c.Args {
		tv, err := e.evalValue(a)
		if err != nil {
			return err
		}
		args[i] = tv
	}

	switch callee := calleeTV.Value.(type) {
	case runtime.CallableValue:
		result, err := e.callUser(callee.Callable, args, c.Pos())
		if err != nil {
			return err
		}
		e.push(result)
		return nil
	case runtime.StructValue:
		result, err := e.constructStruct(callee.Instance, args, c.Pos())
		if err != nil {
			return err
		}
		e.push(result)
		return nil
	default:
		return errors.NewRuntimeErrorf(errors.CallError, c.Pos(), "'%s' is not callable", calleeTV.Value.Type())
	}
}

func (e *Evaluator) evalAssertCall(c *ast.Call) error {
	if len(c.Args) != 1 {
		return errors.NewRuntimeErrorf(errors.FnArityError, c.Pos(), "assert expects exactly 1 argument, got %d", len(c.Args))
	}
	tv, err := e.evalValue(c.Args[0])
	if err != nil {
		return err
	}
	b, ok := tv.Value.(runtime.BoolValue)
	if !ok {
		return errors.NewRuntimeErrorf(errors.GenericError, c.Pos(), "assert expects a bool, got %s", tv.Value.Type())
	}
	if !bool(b) {
		return errors.NewRuntimeErrorf(errors.GenericError, c.Pos(), "assertion failed")
	}
	e.push(runtime.TypedValue{Value: runtime.UnitValue{}, Annotation: types.Primitive(types.Unit)})
	return nil
}

// constructStruct builds a fresh instance off template: fields get their
// own copy (so mutating one instance never aliases another), while the
// method table is shared by reference since behavior doesn't vary between
// instances — only Get's self-binding step changes per call.
func (e *Evaluator) constructStruct(template *runtime.StructInstance, args []runtime.TypedValue, pos types.Position) (runtime.TypedValue, error) {
	if len(args) != 0 {
		return runtime.TypedValue{}, errors.NewRuntimeErrorf(errors.FnArityError, pos,
			"struct %s takes no constructor arguments", template.DeclaredName)
	}
	fields := make(map[string]runtime.TypedValue, len(template.Fields))
	for name, tv := range template.Fields {
		fields[name] = tv
	}
	instance := &runtime.StructInstance{
		DeclaredName: template.DeclaredName,
		Fields:       fields,
		Methods:      template.Methods,
	}
	return runtime.TypedValue{Value: runtime.StructValue{Instance: instance}, Annotation: types.NewUser(template.DeclaredName)}, nil
}

// callUser invokes a user-defined function or bound method. Its body
// always runs in a fresh frame enclosing the Callable's captured closure;
// executing fn.Body (a BlockStmt) opens a second frame nested inside that
// one, matching the resolver's two-scopes-per-call layout.
func (e *Evaluator) callUser(callable *runtime.Callable, args []runtime.TypedValue, pos types.Position) (runtime.TypedValue, error) {
	fn := callable.Decl
	if len(args) != len(fn.Params) {
		return runtime.TypedValue{}, errors.NewRuntimeErrorf(errors.FnArityError, pos,
			"'%s' expects %d argument(s), got %d", fn.Name.Value, len(fn.Params), len(args))
	}

	callFrame := e.env.NewFrame(callable.Closure)
	for i, p := range fn.Params {
		if !args[i].Annotation.Equal(p.Annotation) {
			return runtime.TypedValue{}, errors.NewRuntimeErrorf(errors.InvalidFunctionArgumentType, pos,
				"argument %d to '%s' has type %s, expected %s", i+1, fn.Name.Value, args[i].Annotation, p.Annotation)
		}
		if err := e.env.Define(callFrame, p.Name.Value, args[i]); err != nil {
			return runtime.TypedValue{}, err
		}
	}

	prevCurrent := e.current
	e.current = callFrame
	runErr := e.execStmt(fn.Body)
	e.current = prevCurrent
	if err := e.env.Remove(callFrame); err != nil && runErr == nil {
		runErr = err
	}

	if retValAny, ok := errors.AsReturn(runErr); ok {
		// execReturn pushed this same value onto the operand stack before
		// raising the signal; pop it back off here, at the call boundary,
		// to keep the stack balanced — the signal's payload is authoritative.
		if _, popErr := e.pop(); popErr != nil {
			return runtime.TypedValue{}, popErr
		}
		tv, ok := retValAny.(runtime.TypedValue)
		if !ok {
			return runtime.TypedValue{}, errors.NewInternalError("return value was not a TypedValue")
		}
		if !tv.Annotation.Equal(fn.ReturnType) {
			return runtime.TypedValue{}, errors.NewRuntimeErrorf(errors.InvalidFunctionReturnType, pos,
				"'%s' returned %s, expected %s", fn.Name.Value, tv.Annotation, fn.ReturnType)
		}
		return tv, nil
	}
	if errors.IsBreak(runErr) {
		return runtime.TypedValue{}, errors.NewRuntimeErrorf(errors.GenericError, pos, "'break' outside of any loop")
	}
	if runErr != nil {
		return runtime.TypedValue{}, runErr
	}
	return runtime.TypedValue{Value: runtime.UnitValue{}, Annotation: types.Primitive(types.Unit)}, nil
}

// structInstanceOf resolves a TypedValue's underlying *StructInstance,
// transparently dereferencing a SelfIndex the way evalVariable does.
func (e *Evaluator) structInstanceOf(tv runtime.TypedValue, pos types.Position) (*runtime.StructInstance, error) {
	switch v := tv.Value.(type) {
	case runtime.StructValue:
		return v.Instance, nil
	case runtime.SelfIndexValue:
		target, err := e.env.Get(v.EnvIndex, v.InstanceName)
		if err != nil {
			return nil, err
		}
		sv, ok := target.Value.(runtime.StructValue)
		if !ok {
			return nil, errors.NewInternalError("'self' did not resolve to a struct instance")
		}
		return sv.Instance, nil
	default:
		return nil, errors.NewRuntimeErrorf(errors.GenericError, pos, "cannot access a member of a %s value", tv.Value.Type())
	}
}

// evalGet reads a field, or binds a method: finding name in Methods binds
// `self` into the method's closure frame — directly, not into a fresh
// copy — as a SelfIndex pointing back at this exact instance, so the
// method body's next `self.field` lookup finds it.
func (e *Evaluator) evalGet(g *ast.Get) error {
	objTV, err := e.evalValue(g.Object)
	if err != nil {
		return err
	}
	instance, err := e.structInstanceOf(objTV, g.Pos())
	if err != nil {
		return err
	}
	if fieldTV, ok := instance.Fields[g.Name.Value]; ok {
		e.push(fieldTV)
		return nil
	}
	if methodTV, ok := instance.Methods[g.Name.Value]; ok {
		callable := methodTV.Value.(runtime.CallableValue).Callable
		selfTV := runtime.TypedValue{
			Value:      runtime.SelfIndexValue{EnvIndex: e.current, InstanceName: instance.InstanceName},
			Annotation: types.Primitive(types.SelfIndex),
		}
		if err := e.env.Define(callable.Closure, "self", selfTV); err != nil {
			return err
		}
		e.push(methodTV)
		return nil
	}
	return errors.NewRuntimeErrorf(errors.GenericError, g.Pos(), "struct %s has no field or method '%s'", instance.DeclaredName, g.Name.Value)
}

// frameForObjectName finds the environment frame a plain-variable object
// expression's binding lives in, preferring the resolver's recorded depth
// when available.
func (e *Evaluator) frameForObjectName(obj ast.Expression) (int, error) {
	if depth, ok := e.locals[obj]; ok {
		return e.env.AncestorIndex(e.current, depth)
	}
	return e.current, nil
}

// locateStructBinding resolves a Set/SetArrayElement target to the
// (frame, name) pair Environment.UpdateValue needs. Only a bare variable
// (including `self`) is supported as an assignment-target object: the
// Environment API is strictly name-keyed (assign/assign_index_entry/
// update_value), with no general lvalue path, so `arr[0].x = v` style
// chained targets are rejected rather than inventing one.
func (e *Evaluator) locateStructBinding(obj ast.Expression) (int, string, error) {
	v, ok := obj.(*ast.Variable)
	if !ok {
		return 0, "", errors.NewRuntimeErrorf(errors.GenericError, obj.Pos(), "unsupported assignment target")
	}
	if v.Name.Value == "self" {
		raw, err := e.lookupRaw(obj, "self")
		if err != nil {
			return 0, "", err
		}
		si, ok := raw.Value.(runtime.SelfIndexValue)
		if !ok {
			return 0, "", errors.NewInternalError("'self' is not bound to a Self value")
		}
		return si.EnvIndex, si.InstanceName, nil
	}
	frame, err := e.frameForObjectName(obj)
	return frame, v.Name.Value, err
}

func (e *Evaluator) evalSet(s *ast.Set) error {
	valueTV, err := e.evalValue(s.Value)
	if err != nil {
		return err
	}
	frame, name, err := e.locateStructBinding(s.Object)
	if err != nil {
		return err
	}
	err = e.env.UpdateValue(frame, name, func(existing runtime.TypedValue) (runtime.TypedValue, error) {
		sv, ok := existing.Value.(runtime.StructValue)
		if !ok {
			return runtime.TypedValue{}, errors.NewRuntimeErrorf(errors.GenericError, s.Pos(), "'%s' is not a struct", name)
		}
		field, ok := sv.Instance.Fields[s.Name.Value]
		if !ok {
			return runtime.TypedValue{}, errors.NewRuntimeErrorf(errors.GenericError, s.Pos(),
				"struct %s has no field '%s'", sv.Instance.DeclaredName, s.Name.Value)
		}
		if !field.Annotation.Equal(valueTV.Annotation) {
			return runtime.TypedValue{}, errors.NewRuntimeErrorf(errors.InvalidTypeAssignmentError, s.Pos(),
				"cannot assign %s to field '%s' of type %s", valueTV.Annotation, s.Name.Value, field.Annotation)
		}
		sv.Instance.Fields[s.Name.Value] = valueTV
		return existing, nil
	})
	if err != nil {
		return err
	}
	e.push(valueTV)
	return nil
}

// evalSetArrayElement evaluates the value before the index, per spec §4.4's
// SetArrayElement row ("evaluate value and index").
func (e *Evaluator) evalSetArrayElement(s *ast.SetArrayElement) error {
	valueTV, err := e.evalValue(s.Value)
	if err != nil {
		return err
	}
	idxTV, err := e.evalValue(s.Idx)
	if err != nil {
		return err
	}
	idx, err := toArrayIndex(idxTV.Value)
	if err != nil {
		return errors.NewRuntimeErrorf(errors.GenericError, s.Pos(), "%s", err.Error())
	}
	v, ok := s.Object.(*ast.Variable)
	if !ok {
		return errors.NewRuntimeErrorf(errors.GenericError, s.Pos(), "unsupported assignment target")
	}
	frame, err := e.frameForObjectName(s.Object)
	if err != nil {
		return err
	}
	if err := e.env.AssignIndexEntry(frame, v.Name.Value, idx, valueTV); err != nil {
		return err
	}
	e.push(valueTV)
	return nil
}

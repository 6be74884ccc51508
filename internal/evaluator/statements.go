package evaluator

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/errors"
	"github.com/velalang/vela/internal/runtime"
	"github.com/velalang/vela/internal/types"
)

// execStmt dispatches on the concrete statement node. A successful visit
// leaves the operand stack exactly as it found it, except ReturnStmt,
// which pushes the value it carries out through the ControlFlow(Return)
// signal — callUser pops it back off once it reaches the call boundary.
func (e *Evaluator) execStmt(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		return e.execBlock(s)
	case *ast.ExpressionStmt:
		_, err := e.evalValue(s.Expr)
		return err
	case *ast.LetStmt:
		return e.execLet(s)
	case *ast.FunctionStmt:
		return e.execFunction(s)
	case *ast.StructStmt:
		return e.execStruct(s)
	case *ast.TraitStmt:
		return e.execTrait(s)
	case *ast.ImplStmt:
		return e.execImpl(s)
	case *ast.EnumStmt:
		return nil
	case *ast.IfStmt:
		return e.execIf(s)
	case *ast.WhileStmt:
		return e.execWhile(s)
	case *ast.ReturnStmt:
		return e.execReturn(s)
	case *ast.PrintStmt:
		return e.execPrint(s)
	case *ast.BreakStmt:
		return errors.NewBreak()
	default:
		return errors.NewInternalErrorf("evaluator: unhandled statement type %T", stmt)
	}
}

func (e *Evaluator) execBlock(b *ast.BlockStmt) error {
	frame := e.env.NewFrame(e.current)
	prev := e.current
	e.current = frame

	var runErr error
	for _, s := range b.Statements {
		if err := e.execStmt(s); err != nil {
			runErr = err
			break
		}
	}

	e.current = prev
	if err := e.env.Remove(frame); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// execLet evaluates the initializer, type-checks it against the declared
// annotation, tags a struct value with its binding name (so a later
// method call's `self` can find this exact instance back in the
// environment), and defines the binding in the current frame.
//
// A synthesized `let v: S;` (no initializer in the source) is the Literal
// row's User(N) case from spec §4.4: the parser hands back a bare Unit
// literal that carries no annotation of its own, so here — not
// in evalExpr — we resolve S's struct template and construct a fresh
// instance from it, the same way the Literal row says a User(N) literal
// looks up N and pushes that.
func (e *Evaluator) execLet(s *ast.LetStmt) error {
	if s.Annotation.Kind == types.Array {
		prev := e.pendingArrayElem
		e.pendingArrayElem = s.Annotation.Elem
		defer func() { e.pendingArrayElem = prev }()
	}

	var tv runtime.TypedValue
	var err error
	if s.Synthesized && s.Annotation.Kind == types.User {
		tv, err = e.defaultStructInstance(s.Annotation.Name, s.Pos())
	} else {
		tv, err = e.evalValue(s.Initializer)
	}
	if err != nil {
		return err
	}
	if !tv.Annotation.Equal(s.Annotation) {
		return errors.NewRuntimeErrorf(errors.InvalidTypeAssignmentError, s.Pos(),
			"cannot assign %s to '%s' of declared type %s", tv.Annotation, s.Name.Value, s.Annotation)
	}
	if sv, ok := tv.Value.(runtime.StructValue); ok {
		sv.Instance.InstanceName = s.Name.Value
	}
	return e.env.Define(e.current, s.Name.Value, tv)
}

// defaultStructInstance looks up name's struct template in the environment
// and constructs a fresh instance from it, exactly as a bare `S()` call
// would via constructStruct.
func (e *Evaluator) defaultStructInstance(name string, pos types.Position) (runtime.TypedValue, error) {
	templateTV, err := e.env.Get(e.current, name)
	if err != nil {
		return runtime.TypedValue{}, err
	}
	sv, ok := templateTV.Value.(runtime.StructValue)
	if !ok {
		return runtime.TypedValue{}, errors.NewRuntimeErrorf(errors.GenericError, pos, "'%s' is not a struct", name)
	}
	return e.constructStruct(sv.Instance, nil, pos)
}

func (e *Evaluator) execFunction(s *ast.FunctionStmt) error {
	callable := &runtime.Callable{Decl: s, Closure: e.current}
	tv := runtime.TypedValue{Value: runtime.CallableValue{Callable: callable}, Annotation: types.Primitive(types.Fn)}
	return e.env.Define(e.current, s.Name.Value, tv)
}

// execStruct defines a struct template: an instance whose fields hold
// their type's default value and whose InstanceName is empty — it is
// never read from directly, only constructed from via a Call.
func (e *Evaluator) execStruct(s *ast.StructStmt) error {
	fields := make(map[string]runtime.TypedValue, len(s.Fields))
	for _, f := range s.Fields {
		fields[f.Name.Value] = defaultValue(f.Annotation)
	}
	instance := &runtime.StructInstance{
		DeclaredName: s.Name.Value,
		Fields:       fields,
		Methods:      map[string]runtime.TypedValue{},
	}
	tv := runtime.TypedValue{Value: runtime.StructValue{Instance: instance}, Annotation: types.NewUser(s.Name.Value)}
	return e.env.Define(e.current, s.Name.Value, tv)
}

func (e *Evaluator) execTrait(s *ast.TraitStmt) error {
	sigs := make(map[string]*ast.TraitSignature, len(s.Signatures))
	for _, sig := range s.Signatures {
		sigs[sig.Name.Value] = sig
	}
	trait := &runtime.Trait{Decl: s, Signatures: sigs}
	tv := runtime.TypedValue{Value: runtime.TraitValue{Trait: trait}, Annotation: types.Primitive(types.Trait)}
	return e.env.Define(e.current, s.Name.Value, tv)
}

// execImpl attaches each method as a Callable closed over the frame the
// impl block itself runs in (the module's top level), then, for `impl
// TRAIT for STRUCT`, checks every method against the trait's declared
// signature before attaching it.
func (e *Evaluator) execImpl(s *ast.ImplStmt) error {
	templateTV, err := e.env.Get(e.current, s.StructName.Value)
	if err != nil {
		return err
	}
	sv, ok := templateTV.Value.(runtime.StructValue)
	if !ok {
		return errors.NewRuntimeErrorf(errors.GenericError, s.Pos(), "'%s' is not a struct", s.StructName.Value)
	}

	var trait *runtime.Trait
	if s.TraitName != nil {
		traitTV, err := e.env.Get(e.current, s.TraitName.Value)
		if err != nil {
			return err
		}
		tv, ok := traitTV.Value.(runtime.TraitValue)
		if !ok {
			return errors.NewRuntimeErrorf(errors.GenericError, s.Pos(), "'%s' is not a trait", s.TraitName.Value)
		}
		trait = tv.Trait
	}

	for _, m := range s.Methods {
		if trait != nil {
			sig, ok := trait.Signatures[m.Name.Value]
			if !ok {
				return errors.NewRuntimeErrorf(errors.InvalidTypeAssignmentError, m.Pos(),
					"trait %s declares no method '%s'", s.TraitName.Value, m.Name.Value)
			}
			if err := conformsToSignature(m, sig); err != nil {
				return errors.NewRuntimeErrorf(errors.InvalidTypeAssignmentError, m.Pos(), "%s", err.Error())
			}
		}
		callable := &runtime.Callable{Decl: m, Closure: e.current}
		sv.Instance.Methods[m.Name.Value] = runtime.TypedValue{
			Value:      runtime.CallableValue{Callable: callable},
			Annotation: types.Primitive(types.Fn),
		}
	}
	return nil
}

func conformsToSignature(m *ast.FunctionStmt, sig *ast.TraitSignature) error {
	if len(m.Params) != len(sig.Params) {
		return errors.NewInternalErrorf("method '%s' has %d parameter(s), trait declares %d",
			m.Name.Value, len(m.Params), len(sig.Params))
	}
	for i, p := range m.Params {
		if !p.Annotation.Equal(sig.Params[i].Annotation) {
			return errors.NewInternalErrorf("method '%s' parameter %d has type %s, trait declares %s",
				m.Name.Value, i+1, p.Annotation, sig.Params[i].Annotation)
		}
	}
	if !m.ReturnType.Equal(sig.ReturnType) {
		return errors.NewInternalErrorf("method '%s' returns %s, trait declares %s",
			m.Name.Value, m.ReturnType, sig.ReturnType)
	}
	return nil
}

func (e *Evaluator) execIf(s *ast.IfStmt) error {
	cond, err := e.evalValue(s.Condition)
	if err != nil {
		return err
	}
	if runtime.Truthy(cond.Value) {
		return e.execStmt(s.Then)
	}
	if s.Else != nil {
		return e.execStmt(s.Else)
	}
	return nil
}

// execWhile swallows a Break that escapes its own body but otherwise
// propagates everything — including a Return signal destined for an
// enclosing call — straight up.
func (e *Evaluator) execWhile(s *ast.WhileStmt) error {
	for {
		cond, err := e.evalValue(s.Condition)
		if err != nil {
			return err
		}
		if !runtime.Truthy(cond.Value) {
			return nil
		}
		if err := e.execStmt(s.Body); err != nil {
			if errors.IsBreak(err) {
				return nil
			}
			return err
		}
	}
}

func (e *Evaluator) execReturn(s *ast.ReturnStmt) error {
	tv := runtime.TypedValue{Value: runtime.UnitValue{}, Annotation: types.Primitive(types.Unit)}
	if s.Value != nil {
		v, err := e.evalValue(s.Value)
		if err != nil {
			return err
		}
		tv = v
	}
	e.push(tv)
	return errors.NewReturn(tv)
}

func (e *Evaluator) execPrint(s *ast.PrintStmt) error {
	tv, err := e.evalValue(s.Value)
	if err != nil {
		return err
	}
	e.printf("%s\n", tv.Value.String())
	return nil
}

// defaultValue mirrors the parser's defaultInitializer, producing the
// runtime zero value for a struct field's declared type directly instead
// of a synthesized AST literal.
func defaultValue(ann *types.Annotation) runtime.TypedValue {
	switch ann.Kind {
	case types.I32:
		return runtime.TypedValue{Value: runtime.Int32Value(0), Annotation: ann}
	case types.I64:
		return runtime.TypedValue{Value: runtime.Int64Value(0), Annotation: ann}
	case types.F32:
		return runtime.TypedValue{Value: runtime.Float32Value(0), Annotation: ann}
	case types.F64:
		return runtime.TypedValue{Value: runtime.Float64Value(0), Annotation: ann}
	case types.Bool:
		return runtime.TypedValue{Value: runtime.BoolValue(false), Annotation: ann}
	case types.String:
		return runtime.TypedValue{Value: runtime.StringValue(""), Annotation: ann}
	case types.Array:
		return runtime.TypedValue{Value: runtime.ArrayValue{Elem: ann.Elem}, Annotation: ann}
	default:
		return runtime.TypedValue{Value: runtime.UnitValue{}, Annotation: types.Primitive(types.Unit)}
	}
}

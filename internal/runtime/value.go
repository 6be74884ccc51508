// Package runtime holds the tagged Value sum, the TypedValue pairing of a
// Value with its TypeAnnotation, the aggregate descriptors (StructInstance,
// Callable, Trait), and the frame-indexed Environment the evaluator runs
// against.
package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/types"
)

// Value is implemented by every concrete runtime payload. Type() reports
// the kind name used in diagnostics; String() is the `print`/`assert`
// display form.
type Value interface {
	Type() string
	String() string
	Equals(other Value) bool
}

// TypedValue pairs a Value with its authoritative TypeAnnotation. The
// annotation, not the Go type of Value, is what every check in the
// evaluator consults.
type TypedValue struct {
	Value      Value
	Annotation *types.Annotation
}

// Int32Value and Int64Value carry native fixed-width integers.
type Int32Value int32

func (Int32Value) Type() string          { return "i32" }
func (v Int32Value) String() string      { return strconv.FormatInt(int64(v), 10) }
func (v Int32Value) Equals(o Value) bool { n, ok := o.(Int32Value); return ok && n == v }

type Int64Value int64

func (Int64Value) Type() string          { return "i64" }
func (v Int64Value) String() string      { return strconv.FormatInt(int64(v), 10) }
func (v Int64Value) Equals(o Value) bool { n, ok := o.(Int64Value); return ok && n == v }

// Float32Value and Float64Value carry IEEE-754 payloads, compared with
// IEEE equality except that any NaN equals any other NaN (instead of Go's
// NaN-never-equal semantics), so a Vela `assert(f == f)` with `f` holding
// NaN holds like every other self-equality check in the language.
type Float32Value float32

func (Float32Value) Type() string     { return "f32" }
func (v Float32Value) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
func (v Float32Value) Equals(o Value) bool {
	n, ok := o.(Float32Value)
	return ok && floatBitsEqual32(float32(v), float32(n))
}

type Float64Value float64

func (Float64Value) Type() string     { return "f64" }
func (v Float64Value) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v Float64Value) Equals(o Value) bool {
	n, ok := o.(Float64Value)
	return ok && floatBitsEqual64(float64(v), float64(n))
}

type BoolValue bool

func (BoolValue) Type() string          { return "bool" }
func (v BoolValue) String() string      { return strconv.FormatBool(bool(v)) }
func (v BoolValue) Equals(o Value) bool { n, ok := o.(BoolValue); return ok && n == v }

type StringValue string

func (StringValue) Type() string          { return "String" }
func (v StringValue) String() string      { return string(v) }
func (v StringValue) Equals(o Value) bool { n, ok := o.(StringValue); return ok && n == v }

// UnitValue is the sole inhabitant of the Unit type.
type UnitValue struct{}

func (UnitValue) Type() string        { return "()" }
func (UnitValue) String() string      { return "()" }
func (UnitValue) Equals(o Value) bool { _, ok := o.(UnitValue); return ok }

// ArrayValue is a fixed-length sequence of TypedValue, all sharing one
// element annotation.
type ArrayValue struct {
	Elements []TypedValue
	Elem     *types.Annotation
}

func (ArrayValue) Type() string { return "Array" }
func (v ArrayValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.Value.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (v ArrayValue) Equals(o Value) bool {
	n, ok := o.(ArrayValue)
	if !ok || len(n.Elements) != len(v.Elements) {
		return false
	}
	for i := range v.Elements {
		if !v.Elements[i].Value.Equals(n.Elements[i].Value) {
			return false
		}
	}
	return true
}

// StructValue wraps a *StructInstance; equality compares every field.
type StructValue struct{ Instance *StructInstance }

func (StructValue) Type() string     { return "Struct" }
func (v StructValue) String() string { return v.Instance.String() }
func (v StructValue) Equals(o Value) bool {
	n, ok := o.(StructValue)
	if !ok || n.Instance.DeclaredName != v.Instance.DeclaredName {
		return false
	}
	if len(n.Instance.Fields) != len(v.Instance.Fields) {
		return false
	}
	for name, tv := range v.Instance.Fields {
		other, ok := n.Instance.Fields[name]
		if !ok || !tv.Value.Equals(other.Value) {
			return false
		}
	}
	return true
}

// StructInstance is a constructed struct value: its declared template
// name, its instance name (the name of the `let` binding that holds it,
// used by SelfIndex to find it back in the environment), its fields, and
// any methods bound to it.
type StructInstance struct {
	DeclaredName string
	InstanceName string
	Fields       map[string]TypedValue
	Methods      map[string]TypedValue
}

func (s *StructInstance) String() string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + s.Fields[name].Value.String()
	}
	return s.DeclaredName + " { " + strings.Join(parts, ", ") + " }"
}

// CallableValue wraps a *Callable.
type CallableValue struct{ Callable *Callable }

func (CallableValue) Type() string          { return "fn" }
func (v CallableValue) String() string      { return "<fn " + v.Callable.Decl.Name.Value + ">" }
func (v CallableValue) Equals(o Value) bool { n, ok := o.(CallableValue); return ok && n.Callable == v.Callable }

// Callable is an immutable function closure: the declaring AST node plus
// the environment frame index captured as its lexical enclosing scope.
type Callable struct {
	Decl    *ast.FunctionStmt
	Closure int
}

// TraitValue wraps a *Trait descriptor.
type TraitValue struct{ Trait *Trait }

func (TraitValue) Type() string          { return "trait" }
func (v TraitValue) String() string      { return "<trait " + v.Trait.Decl.Name.Value + ">" }
func (v TraitValue) Equals(Value) bool   { return false }

// Trait is a materialised trait descriptor: its declaration and a
// name-indexed table of method signatures for conformance checking.
type Trait struct {
	Decl       *ast.TraitStmt
	Signatures map[string]*ast.TraitSignature
}

// TraitFunctionValue carries a single trait method signature as a value
// (spec's `TraitFunction(signature)` Value variant).
type TraitFunctionValue struct{ Signature *ast.TraitSignature }

func (TraitFunctionValue) Type() string        { return "TraitFunction" }
func (v TraitFunctionValue) String() string    { return v.Signature.String() }
func (v TraitFunctionValue) Equals(Value) bool { return false }

// IdentValue carries a bare name as a value (spec's `Ident(name)` variant,
// used by enum-path evaluation once enums are implemented).
type IdentValue string

func (IdentValue) Type() string          { return "Ident" }
func (v IdentValue) String() string      { return string(v) }
func (v IdentValue) Equals(o Value) bool { n, ok := o.(IdentValue); return ok && n == v }

// SelfIndexValue is the indirection a bound method uses to find its
// receiver: the frame holding the instance binding, and the instance's
// name within that frame.
type SelfIndexValue struct {
	EnvIndex     int
	InstanceName string
}

func (SelfIndexValue) Type() string     { return "Self" }
func (v SelfIndexValue) String() string { return fmt.Sprintf("<self %s@%d>", v.InstanceName, v.EnvIndex) }
func (v SelfIndexValue) Equals(Value) bool { return false }

// Truthy implements the glossary's truthiness rule: Unit is false, Bool is
// itself, everything else is true.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case UnitValue:
		return false
	case BoolValue:
		return bool(t)
	default:
		return true
	}
}

func floatBitsEqual32(a, b float32) bool { return a == b || (isNaN32(a) && isNaN32(b)) }
func floatBitsEqual64(a, b float64) bool { return a == b || (isNaN64(a) && isNaN64(b)) }

func isNaN32(f float32) bool { return f != f }
func isNaN64(f float64) bool { return f != f }

// Package types defines the closed type-annotation enumeration used
// throughout the front end: the scanner attaches annotations to `Type(...)`
// tokens, the parser attaches them to declarations, and the evaluator uses
// them as the sole authority for assignment/call/return type checks.
package types

import "strings"

// Kind is the closed set of type annotations a Vela program can mention.
type Kind int

const (
	I32 Kind = iota
	I64
	F32
	F64
	Bool
	String
	Unit
	Fn
	Trait
	SelfIndex
	Array
	User
)

var kindNames = map[Kind]string{
	I32:       "i32",
	I64:       "i64",
	F32:       "f32",
	F64:       "f64",
	Bool:      "bool",
	String:    "String",
	Unit:      "()",
	Fn:        "fn",
	Trait:     "trait",
	SelfIndex: "Self",
	Array:     "Array",
	User:      "User",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "?"
}

// Annotation is a single node of the closed TypeAnnotation enumeration.
// Name is only meaningful for Kind == User (the declared struct/trait
// name). Elem is only meaningful for Kind == Array (the element type).
type Annotation struct {
	Kind Kind
	Name string
	Elem *Annotation
}

// Primitive constructs a no-argument annotation such as I32 or Bool.
func Primitive(k Kind) *Annotation { return &Annotation{Kind: k} }

// NewUser constructs a User(name) annotation.
func NewUser(name string) *Annotation { return &Annotation{Kind: User, Name: name} }

// NewArray constructs an Array(elem) annotation.
func NewArray(elem *Annotation) *Annotation { return &Annotation{Kind: Array, Elem: elem} }

// String renders the annotation the way a Vela declaration would spell it.
func (a *Annotation) String() string {
	if a == nil {
		return "<nil>"
	}
	switch a.Kind {
	case User:
		return a.Name
	case Array:
		return "Array<" + a.Elem.String() + ">"
	default:
		return a.Kind.String()
	}
}

// Equal implements the structural equality of spec §3, including its two
// deliberate asymmetries:
//
//   - Unit is equal to any User(_) annotation, so a `let v: S;` slot can be
//     declared before the struct is constructed.
//   - SelfIndex, Fn, and Trait are sentinel annotations that are never equal
//     to anything, including another instance of themselves — they are
//     excluded from ordinary assignment typing and must be handled by their
//     own dedicated call/dispatch paths.
func (a *Annotation) Equal(b *Annotation) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind == SelfIndex || a.Kind == Fn || a.Kind == Trait {
		return false
	}
	if b.Kind == SelfIndex || b.Kind == Fn || b.Kind == Trait {
		return false
	}
	if a.Kind == Unit && b.Kind == User {
		return true
	}
	if b.Kind == Unit && a.Kind == User {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case User:
		return a.Name == b.Name
	case Array:
		return a.Elem.Equal(b.Elem)
	default:
		return true
	}
}

// IsNumeric reports whether the kind is one of the four fixed-width
// numeric annotations.
func (k Kind) IsNumeric() bool {
	switch k {
	case I32, I64, F32, F64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the kind is one of the floating-point
// annotations.
func (k Kind) IsFloat() bool {
	return k == F32 || k == F64
}

// ParseTypeName decodes the fixed type-name table the scanner consults when
// lexing a `Type(...)` token: i32, i64, f32, f64, bool, String, fn, (), and
// the recursive Array<...> form are handled by the caller; this table only
// covers the non-recursive leaves.
func ParseTypeName(name string) (*Annotation, bool) {
	switch strings.TrimSpace(name) {
	case "i32":
		return Primitive(I32), true
	case "i64":
		return Primitive(I64), true
	case "f32":
		return Primitive(F32), true
	case "f64":
		return Primitive(F64), true
	case "bool":
		return Primitive(Bool), true
	case "String":
		return Primitive(String), true
	case "()":
		return Primitive(Unit), true
	case "fn":
		return Primitive(Fn), true
	default:
		return nil, false
	}
}

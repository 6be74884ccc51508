package runtime

import (
	"github.com/velalang/vela/internal/errors"
	"github.com/velalang/vela/internal/types"
)

// NoEnclosing marks a frame with no enclosing scope (the root frame).
const NoEnclosing = -1

// frame is a single lexical scope's binding table plus a link to its
// enclosing frame. valid is cleared by Remove; per SPEC_FULL.md §3 this is
// a liveness-flag approximation of a generational index: frames are never
// physically reclaimed during a run (avoiding index invalidation across
// the whole vector), but a stale read through a removed frame's index is
// caught instead of silently succeeding.
type frame struct {
	bindings map[string]TypedValue
	enclosing int
	valid     bool
}

// Environment is the append-mostly vector of frames described in spec §3:
// lexical chains are modelled as frame-index links rather than owning
// pointers, so a frame can be handed out by value (its index) without any
// aliasing concern.
type Environment struct {
	frames []frame
}

// NewEnvironment returns an Environment containing just the root frame
// (enclosing = NoEnclosing), whose index is always 0.
func NewEnvironment() *Environment {
	return &Environment{frames: []frame{{bindings: map[string]TypedValue{}, enclosing: NoEnclosing, valid: true}}}
}

// NewFrame appends a fresh frame enclosing the given frame index and
// returns its index.
func (e *Environment) NewFrame(enclosing int) int {
	e.frames = append(e.frames, frame{bindings: map[string]TypedValue{}, enclosing: enclosing, valid: true})
	return len(e.frames) - 1
}

func (e *Environment) checkIndex(idx int) (*frame, error) {
	if idx < 0 || idx >= len(e.frames) {
		return nil, errors.NewInternalErrorf("environment: frame index %d out of range", idx)
	}
	f := &e.frames[idx]
	if !f.valid {
		return nil, errors.NewInternalErrorf("environment: stale read of removed frame %d", idx)
	}
	return f, nil
}

// Define inserts name unconditionally into frame idx, overwriting any
// existing binding of the same name in that exact frame.
func (e *Environment) Define(idx int, name string, v TypedValue) error {
	f, err := e.checkIndex(idx)
	if err != nil {
		return err
	}
	f.bindings[name] = v
	return nil
}

// Get walks the enclosing chain starting at idx looking for name.
func (e *Environment) Get(idx int, name string) (TypedValue, error) {
	for cur := idx; cur != NoEnclosing; {
		f, err := e.checkIndex(cur)
		if err != nil {
			return TypedValue{}, err
		}
		if v, ok := f.bindings[name]; ok {
			return v, nil
		}
		cur = f.enclosing
	}
	return TypedValue{}, errors.NewRuntimeErrorf(errors.UndefinedVariable, types.Position{}, "undefined variable '%s'", name)
}

// GetAt jumps directly depth hops up the enclosing chain from idx (the
// resolver having already determined that distance) and reads name from
// that exact frame, without a name-by-name walk.
func (e *Environment) GetAt(idx, depth int, name string) (TypedValue, error) {
	f, err := e.ancestor(idx, depth)
	if err != nil {
		return TypedValue{}, err
	}
	v, ok := f.bindings[name]
	if !ok {
		return TypedValue{}, errors.NewRuntimeErrorf(errors.UndefinedVariable, types.Position{}, "undefined variable '%s'", name)
	}
	return v, nil
}

func (e *Environment) ancestor(idx, depth int) (*frame, error) {
	cur, err := e.AncestorIndex(idx, depth)
	if err != nil {
		return nil, err
	}
	return e.checkIndex(cur)
}

// AncestorIndex walks depth enclosing-links up from idx and returns the
// frame index it lands on, without touching that frame's bindings. The
// evaluator uses this to turn a resolver-reported scope depth into a
// concrete frame index it can pass to Get/UpdateValue/AssignIndexEntry.
func (e *Environment) AncestorIndex(idx, depth int) (int, error) {
	cur := idx
	for i := 0; i < depth; i++ {
		f, err := e.checkIndex(cur)
		if err != nil {
			return 0, err
		}
		cur = f.enclosing
		if cur == NoEnclosing && i+1 < depth {
			return 0, errors.NewInternalErrorf("environment: ancestor walk ran off the root frame")
		}
	}
	return cur, nil
}

// Assign walks the enclosing chain from idx looking for an existing
// binding of name and overwrites it in place, checking that v's annotation
// matches the existing binding's per the TypeAnnotation equality rules.
func (e *Environment) Assign(idx int, name string, v TypedValue) error {
	for cur := idx; cur != NoEnclosing; {
		f, err := e.checkIndex(cur)
		if err != nil {
			return err
		}
		if existing, ok := f.bindings[name]; ok {
			if !existing.Annotation.Equal(v.Annotation) {
				return errors.NewRuntimeErrorf(errors.InvalidTypeAssignmentError, types.Position{},
					"cannot assign %s to '%s' of type %s", v.Annotation, name, existing.Annotation)
			}
			f.bindings[name] = v
			return nil
		}
		cur = f.enclosing
	}
	return errors.NewRuntimeErrorf(errors.UndefinedVariable, types.Position{}, "undefined variable '%s'", name)
}

// AssignAt is the non-walking counterpart of Assign for resolver-resolved
// locals: it jumps straight to the frame depth hops up from idx.
func (e *Environment) AssignAt(idx, depth int, name string, v TypedValue) error {
	f, err := e.ancestor(idx, depth)
	if err != nil {
		return err
	}
	existing, ok := f.bindings[name]
	if !ok {
		return errors.NewRuntimeErrorf(errors.UndefinedVariable, types.Position{}, "undefined variable '%s'", name)
	}
	if !existing.Annotation.Equal(v.Annotation) {
		return errors.NewRuntimeErrorf(errors.InvalidTypeAssignmentError, types.Position{},
			"cannot assign %s to '%s' of type %s", v.Annotation, name, existing.Annotation)
	}
	f.bindings[name] = v
	return nil
}

// AssignIndexEntry replaces element index of the array bound to name in
// frame idx (or its ancestors), bounds-checking and type-checking first.
func (e *Environment) AssignIndexEntry(idx int, name string, index int, v TypedValue) error {
	return e.UpdateValue(idx, name, func(existing TypedValue) (TypedValue, error) {
		arr, ok := existing.Value.(ArrayValue)
		if !ok {
			return TypedValue{}, errors.NewRuntimeErrorf(errors.GenericError, types.Position{}, "'%s' is not an array", name)
		}
		if index < 0 || index >= len(arr.Elements) {
			return TypedValue{}, errors.NewRuntimeErrorf(errors.GenericError, types.Position{},
				"index %d out of bounds for array of length %d", index, len(arr.Elements))
		}
		if !arr.Elem.Equal(v.Annotation) {
			return TypedValue{}, errors.NewRuntimeErrorf(errors.InvalidTypeAssignmentError, types.Position{},
				"cannot assign %s into Array<%s>", v.Annotation, arr.Elem)
		}
		arr.Elements[index] = v
		return TypedValue{Value: arr, Annotation: existing.Annotation}, nil
	})
}

// UpdateValue finds name by walking the enclosing chain from idx, applies
// mutator to its current value, and writes the result back into the same
// frame it was found in — used for in-place struct field mutation so the
// write is visible to every other binding that aliases the same instance
// name via SelfIndex.
func (e *Environment) UpdateValue(idx int, name string, mutator func(TypedValue) (TypedValue, error)) error {
	for cur := idx; cur != NoEnclosing; {
		f, err := e.checkIndex(cur)
		if err != nil {
			return err
		}
		if existing, ok := f.bindings[name]; ok {
			updated, err := mutator(existing)
			if err != nil {
				return err
			}
			f.bindings[name] = updated
			return nil
		}
		cur = f.enclosing
	}
	return errors.NewRuntimeErrorf(errors.UndefinedVariable, types.Position{}, "undefined variable '%s'", name)
}

// Remove marks frame idx invalid. Its slot stays allocated (see the frame
// doc comment) so earlier-issued indices elsewhere in the vector remain
// valid to address; only idx itself becomes a stale reference.
func (e *Environment) Remove(idx int) error {
	f, err := e.checkIndex(idx)
	if err != nil {
		return err
	}
	f.valid = false
	return nil
}

// Enclosing reports the enclosing frame index of idx.
func (e *Environment) Enclosing(idx int) (int, error) {
	f, err := e.checkIndex(idx)
	if err != nil {
		return 0, err
	}
	return f.enclosing, nil
}

package runtime_test

import (
	"testing"

	"github.com/velalang/vela/internal/runtime"
	"github.com/velalang/vela/internal/types"
)

func i32(n int32) runtime.TypedValue {
	return runtime.TypedValue{Value: runtime.Int32Value(n), Annotation: types.Primitive(types.I32)}
}

func TestDefineAndGetInSameFrame(t *testing.T) {
	env := runtime.NewEnvironment()
	if err := env.Define(0, "x", i32(1)); err != nil {
		t.Fatalf("Define: %v", err)
	}
	got, err := env.Get(0, "x")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Value.(runtime.Int32Value) != 1 {
		t.Fatalf("expected 1, got %v", got.Value)
	}
}

func TestGetWalksEnclosingChain(t *testing.T) {
	env := runtime.NewEnvironment()
	if err := env.Define(0, "x", i32(7)); err != nil {
		t.Fatal(err)
	}
	child := env.NewFrame(0)
	got, err := env.Get(child, "x")
	if err != nil {
		t.Fatalf("Get from child frame: %v", err)
	}
	if got.Value.(runtime.Int32Value) != 7 {
		t.Fatalf("expected 7, got %v", got.Value)
	}
}

func TestGetAtJumpsDirectlyToAncestor(t *testing.T) {
	env := runtime.NewEnvironment()
	if err := env.Define(0, "x", i32(42)); err != nil {
		t.Fatal(err)
	}
	mid := env.NewFrame(0)
	inner := env.NewFrame(mid)

	got, err := env.GetAt(inner, 2, "x")
	if err != nil {
		t.Fatalf("GetAt: %v", err)
	}
	if got.Value.(runtime.Int32Value) != 42 {
		t.Fatalf("expected 42, got %v", got.Value)
	}
}

func TestGetUndefinedVariableIsUndefinedVariableError(t *testing.T) {
	env := runtime.NewEnvironment()
	_, err := env.Get(0, "nope")
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestAssignRejectsMismatchedAnnotation(t *testing.T) {
	env := runtime.NewEnvironment()
	if err := env.Define(0, "x", i32(1)); err != nil {
		t.Fatal(err)
	}
	f64 := runtime.TypedValue{Value: runtime.Float64Value(1), Annotation: types.Primitive(types.F64)}
	err := env.Assign(0, "x", f64)
	if err == nil {
		t.Fatal("expected a type-mismatch error")
	}
}

func TestAssignOverwritesExistingBinding(t *testing.T) {
	env := runtime.NewEnvironment()
	if err := env.Define(0, "x", i32(1)); err != nil {
		t.Fatal(err)
	}
	if err := env.Assign(0, "x", i32(2)); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	got, err := env.Get(0, "x")
	if err != nil {
		t.Fatal(err)
	}
	if got.Value.(runtime.Int32Value) != 2 {
		t.Fatalf("expected 2, got %v", got.Value)
	}
}

func TestRemoveMakesFrameStale(t *testing.T) {
	env := runtime.NewEnvironment()
	frame := env.NewFrame(0)
	if err := env.Define(frame, "x", i32(1)); err != nil {
		t.Fatal(err)
	}
	if err := env.Remove(frame); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := env.Get(frame, "x"); err == nil {
		t.Fatal("expected a stale-frame error after Remove")
	}
}

func TestRemoveDoesNotInvalidateOtherFrameIndices(t *testing.T) {
	env := runtime.NewEnvironment()
	first := env.NewFrame(0)
	second := env.NewFrame(0)
	if err := env.Define(second, "x", i32(9)); err != nil {
		t.Fatal(err)
	}
	if err := env.Remove(first); err != nil {
		t.Fatal(err)
	}
	got, err := env.Get(second, "x")
	if err != nil {
		t.Fatalf("expected frame %d to remain valid after removing frame %d: %v", second, first, err)
	}
	if got.Value.(runtime.Int32Value) != 9 {
		t.Fatalf("expected 9, got %v", got.Value)
	}
}

func TestAssignIndexEntryBoundsAndTypeChecks(t *testing.T) {
	env := runtime.NewEnvironment()
	arr := runtime.TypedValue{
		Value: runtime.ArrayValue{
			Elements: []runtime.TypedValue{i32(1), i32(2)},
			Elem:     types.Primitive(types.I32),
		},
		Annotation: types.NewArray(types.Primitive(types.I32)),
	}
	if err := env.Define(0, "a", arr); err != nil {
		t.Fatal(err)
	}
	if err := env.AssignIndexEntry(0, "a", 1, i32(99)); err != nil {
		t.Fatalf("AssignIndexEntry: %v", err)
	}
	got, err := env.Get(0, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Value.(runtime.ArrayValue).Elements[1].Value.(runtime.Int32Value) != 99 {
		t.Fatalf("expected element 1 to be updated to 99")
	}

	if err := env.AssignIndexEntry(0, "a", 5, i32(1)); err == nil {
		t.Fatal("expected an out-of-bounds error")
	}

	f64 := runtime.TypedValue{Value: runtime.Float64Value(1), Annotation: types.Primitive(types.F64)}
	if err := env.AssignIndexEntry(0, "a", 0, f64); err == nil {
		t.Fatal("expected a type-mismatch error for wrong element annotation")
	}
}

package interp

import "testing"

func TestTuplePositionalsAssignsAscendingPositions(t *testing.T) {
	tup := Positionals(IntValue{Value: 1}, IntValue{Value: 2}, IntValue{Value: 3})
	for i, f := range tup.Fields {
		if f.ID != Positional(i) {
			t.Errorf("field %d has ID %v, want Positional(%d)", i, f.ID, i)
		}
	}
}

func TestTupleLookup(t *testing.T) {
	tup := NewTuple(
		Field[Value]{ID: Positional(0), Value: IntValue{Value: 1}},
		Field[Value]{ID: Labeled("name"), Value: BoolValue{Value: true}},
	)
	v, ok := tup.Lookup(Labeled("name"))
	if !ok || v != (BoolValue{Value: true}) {
		t.Errorf("Lookup(.name) = %v, %v", v, ok)
	}
	if _, ok := tup.Lookup(Labeled("missing")); ok {
		t.Error("Lookup(.missing) unexpectedly found")
	}
}

func TestTupleWellFormedRejectsDuplicateLabels(t *testing.T) {
	tup := NewTuple(
		Field[int]{ID: Labeled("x"), Value: 1},
		Field[int]{ID: Labeled("x"), Value: 2},
	)
	ok, dup := tup.WellFormed()
	if ok || dup != "x" {
		t.Errorf("WellFormed() = %v, %q, want false, \"x\"", ok, dup)
	}
}

func TestTupleCongruentIgnoresOrderAndValueType(t *testing.T) {
	a := NewTuple(
		Field[int]{ID: Positional(0), Value: 1},
		Field[int]{ID: Labeled("y"), Value: 2},
	)
	b := NewTuple(
		Field[string]{ID: Labeled("y"), Value: "two"},
		Field[string]{ID: Positional(0), Value: "one"},
	)
	if !Congruent(a, b) {
		t.Error("expected a and b to be congruent")
	}

	c := NewTuple(Field[int]{ID: Positional(0), Value: 1})
	if Congruent(a, c) {
		t.Error("expected a and c (different field sets) to not be congruent")
	}
}

func TestMapTuplePreservesFieldIDsAndOrder(t *testing.T) {
	in := Positionals(1, 2, 3)
	out, err := MapTuple(in, func(_ FieldID, v int) (int, error) { return v * 10, nil })
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range out.Fields {
		want := (i + 1) * 10
		if f.Value != want || f.ID != Positional(i) {
			t.Errorf("field %d = %v (id %v), want %d (id %v)", i, f.Value, f.ID, want, Positional(i))
		}
	}
}

package interp

import "testing"

func TestValuesEqualPrimitives(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal ints", IntValue{Value: 3}, IntValue{Value: 3}, true},
		{"unequal ints", IntValue{Value: 3}, IntValue{Value: 4}, false},
		{"equal bools", BoolValue{Value: true}, BoolValue{Value: true}, true},
		{"different dynamic types", IntValue{Value: 0}, BoolValue{Value: false}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValuesEqual(tc.a, tc.b); got != tc.want {
				t.Errorf("ValuesEqual(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestValuesEqualTuplesByCongruenceAndFields(t *testing.T) {
	a := TupleValue{Elements: NewTuple(
		Field[Value]{ID: Positional(0), Value: IntValue{Value: 1}},
		Field[Value]{ID: Labeled("y"), Value: IntValue{Value: 2}},
	)}
	b := TupleValue{Elements: NewTuple(
		Field[Value]{ID: Labeled("y"), Value: IntValue{Value: 2}},
		Field[Value]{ID: Positional(0), Value: IntValue{Value: 1}},
	)}
	if !ValuesEqual(a, b) {
		t.Error("expected tuples with the same fields in different order to be equal")
	}

	c := TupleValue{Elements: NewTuple(
		Field[Value]{ID: Positional(0), Value: IntValue{Value: 1}},
		Field[Value]{ID: Labeled("y"), Value: IntValue{Value: 99}},
	)}
	if ValuesEqual(a, c) {
		t.Error("expected tuples with different field values to be unequal")
	}
}

func TestValuesEqualStructByDefinitionIdentity(t *testing.T) {
	def1 := &StructDefinition{NameVal: "Point"}
	def2 := &StructDefinition{NameVal: "Point"}
	payload := NewTuple(Field[Value]{ID: Labeled("x"), Value: IntValue{Value: 1}})

	a := StructValue{Def: def1, Payload: payload}
	b := StructValue{Def: def1, Payload: payload}
	c := StructValue{Def: def2, Payload: payload}

	if !ValuesEqual(a, b) {
		t.Error("expected structs sharing a definition and payload to be equal")
	}
	if ValuesEqual(a, c) {
		t.Error("expected structs with distinct definitions (same shape) to be unequal")
	}
}

func TestValuesEqualChoiceComparesDiscriminatorThenPayload(t *testing.T) {
	def := &ChoiceDefinition{NameVal: "Ints"}
	none := &AlternativeDef{Name: "None"}
	one := &AlternativeDef{Name: "One"}

	a := ChoiceValue{Def: def, Alt: one, Payload: NewTuple(Field[Value]{ID: Positional(0), Value: IntValue{Value: 42}})}
	b := ChoiceValue{Def: def, Alt: one, Payload: NewTuple(Field[Value]{ID: Positional(0), Value: IntValue{Value: 42}})}
	c := ChoiceValue{Def: def, Alt: none, Payload: Tuple[Value]{}}

	if !ValuesEqual(a, b) {
		t.Error("expected choices with the same alternative and payload to be equal")
	}
	if ValuesEqual(a, c) {
		t.Error("expected choices with different alternatives to be unequal")
	}
}

func TestTupleValueStringFormatsLabels(t *testing.T) {
	v := TupleValue{Elements: NewTuple(
		Field[Value]{ID: Positional(0), Value: IntValue{Value: 1}},
		Field[Value]{ID: Labeled("y"), Value: IntValue{Value: 2}},
	)}
	got := v.String()
	want := "(1, .y = 2)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

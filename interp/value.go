package interp

import (
	"fmt"
	"strings"
)

// Value is the tagged-variant family of runtime values. Every Value has a
// dynamic type (itself a Type), available via DynamicType. Memory
// invariant 5 (see SPEC_FULL.md §8) requires that the dynamic type of the Value
// stored at any address equal that address's bound Type.
type Value interface {
	isValue()
	DynamicType() Type
	String() string
}

// IntValue is an integer.
type IntValue struct{ Value int64 }

func (IntValue) isValue()            {}
func (IntValue) DynamicType() Type   { return IntType{} }
func (v IntValue) String() string    { return fmt.Sprintf("%d", v.Value) }

// BoolValue is a boolean.
type BoolValue struct{ Value bool }

func (BoolValue) isValue()          {}
func (BoolValue) DynamicType() Type { return BoolType{} }
func (v BoolValue) String() string  { return fmt.Sprintf("%t", v.Value) }

// TypeValue is a type acting as a first-class value; its dynamic type is
// always TypeT.
type TypeValue struct{ Value Type }

func (TypeValue) isValue()          {}
func (TypeValue) DynamicType() Type { return TypeTType{} }
func (v TypeValue) String() string  { return v.Value.String() }

// TupleValue is a tuple of field values.
type TupleValue struct{ Elements Tuple[Value] }

func (TupleValue) isValue() {}
func (v TupleValue) DynamicType() Type {
	elems, _ := MapTuple(v.Elements, func(_ FieldID, val Value) (Type, error) {
		return val.DynamicType(), nil
	})
	return TupleType{Elements: elems}
}
func (v TupleValue) String() string {
	parts := make([]string, v.Elements.Len())
	for i, f := range v.Elements.Fields {
		if f.ID.IsLabel() {
			parts[i] = fmt.Sprintf(".%s = %s", f.ID.Label, f.Value)
		} else {
			parts[i] = f.Value.String()
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FunctionValue is a first-class reference to a user-defined function.
// Typ is the function's signature type, computed once by the type
// checker and carried along rather than recomputed on every access.
type FunctionValue struct {
	Def *FunctionDefinition
	Typ Type // FunctionType
}

func (FunctionValue) isValue()            {}
func (v FunctionValue) DynamicType() Type { return v.Typ }
func (v FunctionValue) String() string    { return fmt.Sprintf("<fn %s>", v.Def.NameVal) }

// StructValue is an instance of a declared struct.
type StructValue struct {
	Def     *StructDefinition
	Payload Tuple[Value]
}

func (StructValue) isValue()            {}
func (v StructValue) DynamicType() Type { return StructType{Def: v.Def} }
func (v StructValue) String() string {
	return fmt.Sprintf("%s%s", v.Def.NameVal, TupleValue{Elements: v.Payload})
}

// ChoiceValue is an instance of a declared choice: a discriminator
// (which alternative) plus that alternative's payload.
type ChoiceValue struct {
	Def     *ChoiceDefinition
	Alt     *AlternativeDef
	Payload Tuple[Value]
}

func (ChoiceValue) isValue()            {}
func (v ChoiceValue) DynamicType() Type { return ChoiceType{Def: v.Def} }
func (v ChoiceValue) String() string {
	if v.Payload.Len() == 0 {
		return fmt.Sprintf("%s.%s", v.Def.NameVal, v.Alt.Name)
	}
	return fmt.Sprintf("%s.%s%s", v.Def.NameVal, v.Alt.Name, TupleValue{Elements: v.Payload})
}

// AlternativeValue is a bare reference to a choice alternative (e.g. the
// callee `Ints.One` before it is applied to an argument tuple). It is
// never stored as a finished result of a Call expression.
type AlternativeValue struct {
	Def *ChoiceDefinition
	Alt *AlternativeDef
	Typ Type // AlternativeType
}

func (AlternativeValue) isValue()            {}
func (v AlternativeValue) DynamicType() Type { return v.Typ }
func (v AlternativeValue) String() string    { return fmt.Sprintf("%s.%s", v.Def.NameVal, v.Alt.Name) }

// ValuesEqual implements `==` per SPEC_FULL.md §4.3: primitives compare by value,
// tuples compare congruence plus recursive equality, choices compare
// discriminator then payload, types compare structurally, and values of
// differing dynamic type are simply unequal (preserving reflexivity).
func ValuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case IntValue:
		bv, ok := b.(IntValue)
		return ok && av.Value == bv.Value
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Value == bv.Value
	case TypeValue:
		bv, ok := b.(TypeValue)
		return ok && TypesEqual(av.Value, bv.Value)
	case TupleValue:
		bv, ok := b.(TupleValue)
		if !ok || !Congruent(av.Elements, bv.Elements) {
			return false
		}
		for _, f := range av.Elements.Fields {
			other, _ := bv.Elements.Lookup(f.ID)
			if !ValuesEqual(f.Value, other) {
				return false
			}
		}
		return true
	case ChoiceValue:
		bv, ok := b.(ChoiceValue)
		if !ok || av.Def != bv.Def || av.Alt != bv.Alt {
			return false
		}
		return ValuesEqual(TupleValue{Elements: av.Payload}, TupleValue{Elements: bv.Payload})
	case StructValue:
		bv, ok := b.(StructValue)
		if !ok || av.Def != bv.Def {
			return false
		}
		return ValuesEqual(TupleValue{Elements: av.Payload}, TupleValue{Elements: bv.Payload})
	case FunctionValue:
		bv, ok := b.(FunctionValue)
		return ok && av.Def == bv.Def
	case AlternativeValue:
		bv, ok := b.(AlternativeValue)
		return ok && av.Def == bv.Def && av.Alt == bv.Alt
	default:
		return false
	}
}

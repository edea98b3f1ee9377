package interp

import (
	"fmt"
	"strings"
)

// Type is the tagged-variant family of static types. A Type is itself
// sometimes a value: a type-valued expression evaluates to a TypeValue
// wrapping one of these.
type Type interface {
	isType()
	String() string
}

// IntType is the type of integers.
type IntType struct{}

func (IntType) isType()        {}
func (IntType) String() string { return "Int" }

// BoolType is the type of booleans.
type BoolType struct{}

func (BoolType) isType()        {}
func (BoolType) String() string { return "Bool" }

// TypeTType is the metatype: the type of type-valued expressions.
type TypeTType struct{}

func (TypeTType) isType()        {}
func (TypeTType) String() string { return "Type" }

// ErrorType stands in for a type that could not be computed because an
// earlier error already occurred; it lets later passes continue without
// cascading spurious diagnostics.
type ErrorType struct{}

func (ErrorType) isType()        {}
func (ErrorType) String() string { return "<error type>" }

// TupleType is the type of a tuple value, field by field.
type TupleType struct {
	Elements Tuple[Type]
}

func (TupleType) isType() {}
func (t TupleType) String() string {
	parts := make([]string, t.Elements.Len())
	for i, f := range t.Elements.Fields {
		if f.ID.IsLabel() {
			parts[i] = fmt.Sprintf(".%s: %s", f.ID.Label, f.Value)
		} else {
			parts[i] = f.Value.String()
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FunctionType is the type of a function value or a `fn` declaration's
// signature.
type FunctionType struct {
	Params Tuple[Type]
	Return Type
}

func (FunctionType) isType() {}
func (t FunctionType) String() string {
	return fmt.Sprintf("fn%s -> %s", TupleType{Elements: t.Params}, t.Return)
}

// StructType is the type `S` for a declared struct S. StructDefinition's
// pointer identity is the struct's identity.
type StructType struct {
	Def *StructDefinition
}

func (StructType) isType() {}
func (t StructType) String() string { return t.Def.NameVal }

// ChoiceType is the type `C` for a declared choice C.
type ChoiceType struct {
	Def *ChoiceDefinition
}

func (ChoiceType) isType() {}
func (t ChoiceType) String() string { return t.Def.NameVal }

// AlternativeType is the type of a bare alternative reference (used only
// as a call callee, e.g. `Ints.One`), before it is applied to an
// argument tuple.
type AlternativeType struct {
	Parent  *ChoiceDefinition
	Payload Tuple[Type]
}

func (AlternativeType) isType() {}
func (t AlternativeType) String() string {
	return fmt.Sprintf("%s.<alternative>%s", t.Parent.NameVal, TupleType{Elements: t.Payload})
}

// TypesEqual is structural equality over Type: primitives compare by
// kind, Struct/Choice compare by declaration identity, and Tuple/
// Function/Alternative compare recursively. ErrorType is equal only to
// itself, so a single prior error doesn't manufacture spurious "type
// mismatch" diagnostics downstream.
func TypesEqual(a, b Type) bool {
	switch av := a.(type) {
	case IntType:
		_, ok := b.(IntType)
		return ok
	case BoolType:
		_, ok := b.(BoolType)
		return ok
	case TypeTType:
		_, ok := b.(TypeTType)
		return ok
	case ErrorType:
		_, ok := b.(ErrorType)
		return ok
	case TupleType:
		bv, ok := b.(TupleType)
		return ok && tupleTypesEqual(av.Elements, bv.Elements)
	case FunctionType:
		bv, ok := b.(FunctionType)
		return ok && tupleTypesEqual(av.Params, bv.Params) && TypesEqual(av.Return, bv.Return)
	case StructType:
		bv, ok := b.(StructType)
		return ok && av.Def == bv.Def
	case ChoiceType:
		bv, ok := b.(ChoiceType)
		return ok && av.Def == bv.Def
	case AlternativeType:
		bv, ok := b.(AlternativeType)
		return ok && av.Parent == bv.Parent && tupleTypesEqual(av.Payload, bv.Payload)
	default:
		return false
	}
}

func tupleTypesEqual(a, b Tuple[Type]) bool {
	if !Congruent(a, b) {
		return false
	}
	for _, f := range a.Fields {
		other, ok := b.Lookup(f.ID)
		if !ok || !TypesEqual(f.Value, other) {
			return false
		}
	}
	return true
}

// IsErrorType reports whether t is the error sentinel type.
func IsErrorType(t Type) bool {
	_, ok := t.(ErrorType)
	return ok
}

package interp

import "fmt"

// Address is an opaque handle into a Memory store. A root address names
// an allocation directly; a projected address additionally carries a path
// of FieldIDs naming a field/part of the value stored at its root.
// Projections share the lifetime of their root and are never separately
// deallocated (§3.5).
type Address struct {
	root uint64
	path []FieldID
}

// IsRoot reports whether a names an allocation directly (as opposed to a
// projection of one).
func (a Address) IsRoot() bool { return len(a.path) == 0 }

// Field returns the sub-address naming field id of the value at a.
func (a Address) Field(id FieldID) Address {
	next := make([]FieldID, len(a.path)+1)
	copy(next, a.path)
	next[len(a.path)] = id
	return Address{root: a.root, path: next}
}

// Element returns the sub-address naming the positional field pos.
func (a Address) Element(pos int) Address { return a.Field(Positional(pos)) }

// Labeled returns the sub-address naming the labeled field name.
func (a Address) Labeled(name string) Address { return a.Field(Labeled(name)) }

func (a Address) String() string {
	s := fmt.Sprintf("#%d", a.root)
	for _, id := range a.path {
		s += id.String()
	}
	return s
}

// unsetValue marks a slot (root or projected) that has not yet been
// written. It carries the type the slot is bound to, so Memory can still
// report a bound Type for a partially-initialized allocation; Read
// refuses to hand one back to a caller.
type unsetValue struct{ Typ Type }

func (unsetValue) isValue()          {}
func (u unsetValue) DynamicType() Type { return u.Typ }
func (u unsetValue) String() string    { return "<uninitialized " + u.Typ.String() + ">" }

func placeholderFor(t Type) Value { return unsetValue{Typ: t} }

// placeholderTuple builds a TupleValue whose fields mirror shape's
// FieldIDs, each initialized to an unset placeholder of the
// corresponding element type.
func placeholderTuple(shape Tuple[Type]) Tuple[Value] {
	fields := make([]Field[Value], shape.Len())
	for i, f := range shape.Fields {
		fields[i] = Field[Value]{ID: f.ID, Value: placeholderFor(f.Value)}
	}
	return Tuple[Value]{Fields: fields}
}

func containsUnset(v Value) bool {
	switch tv := v.(type) {
	case unsetValue:
		return true
	case TupleValue:
		for _, f := range tv.Elements.Fields {
			if containsUnset(f.Value) {
				return true
			}
		}
		return false
	case StructValue:
		for _, f := range tv.Payload.Fields {
			if containsUnset(f.Value) {
				return true
			}
		}
		return false
	case ChoiceValue:
		for _, f := range tv.Payload.Fields {
			if containsUnset(f.Value) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

type rootCell struct {
	value   Value
	mutable bool
}

// Memory is a flat, address-keyed store. It is the sole mutable resource
// in the system (§5): the interpreter is its only writer.
type Memory struct {
	cells map[uint64]*rootCell
	next  uint64
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{cells: make(map[uint64]*rootCell)}
}

// Allocate reserves a fresh root address bound to type t, uninitialized.
func (m *Memory) Allocate(t Type, mutable bool) Address {
	m.next++
	id := m.next
	m.cells[id] = &rootCell{value: placeholderFor(t), mutable: mutable}
	return Address{root: id}
}

// Dealloc releases a root allocation. addr must name a root address
// (never a projection). Dealloc does not require or check that the slot
// was deinitialized first; the interpreter releases slots that still
// hold values, and Dealloc leaves no trace of the slot's former contents.
func (m *Memory) Dealloc(addr Address) {
	if !addr.IsRoot() {
		panic("interp: Dealloc of a non-root address " + addr.String())
	}
	if _, ok := m.cells[addr.root]; !ok {
		panic("interp: Dealloc of unknown address " + addr.String())
	}
	delete(m.cells, addr.root)
}

// Deinitialize resets the slot at addr (root or projection) back to an
// unset placeholder of its current bound type, without deallocating it.
func (m *Memory) Deinitialize(addr Address) {
	t := m.Type(addr)
	*m.locate(addr) = placeholderFor(t)
}

// locate returns a pointer into the shared backing storage for addr's
// slot. Because Tuple/StructValue/ChoiceValue store their fields in
// slices, copying those structs by value while navigating still shares
// the same backing array, so mutating through the returned pointer is
// visible through every other Address that aliases the same slot.
func (m *Memory) locate(addr Address) *Value {
	cell, ok := m.cells[addr.root]
	if !ok {
		panic("interp: unknown address " + addr.String())
	}
	slot := &cell.value
	for _, id := range addr.path {
		fields := fieldsOf(*slot)
		idx := -1
		for i, f := range fields {
			if f.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			panic("interp: no field " + id.String() + " at " + addr.String())
		}
		slot = &fields[idx].Value
	}
	return slot
}

// fieldsOf returns the field slice backing a Tuple/Struct/Choice value,
// shared with the caller's storage (see locate).
func fieldsOf(v Value) []Field[Value] {
	switch tv := v.(type) {
	case TupleValue:
		return tv.Elements.Fields
	case StructValue:
		return tv.Payload.Fields
	case ChoiceValue:
		return tv.Payload.Fields
	default:
		panic(fmt.Sprintf("interp: cannot project into value of dynamic type %s", v.DynamicType()))
	}
}

// Type returns the bound Type of addr — the type recorded when the slot
// was allocated, or (for a still-unset slot) the type it is bound to
// receive.
func (m *Memory) Type(addr Address) Type {
	return (*m.locate(addr)).DynamicType()
}

// Read returns the fully-initialized value stored at addr. It panics if
// any part of addr's value is still an unset placeholder — reading an
// uninitialized address is an internal invariant violation, never a
// user-visible runtime error (the type checker and interpreter together
// guarantee it cannot happen in a well-typed program).
func (m *Memory) Read(addr Address) Value {
	v := *m.locate(addr)
	if containsUnset(v) {
		panic("interp: read of uninitialized address " + addr.String())
	}
	return v
}

// Write stores v at addr, replacing whatever was there (fully- or
// partially-initialized). The caller is responsible for ensuring v's
// dynamic type matches addr's bound type (invariant 5, §8); Write
// panics if it doesn't, since that can only indicate an internal bug.
func (m *Memory) Write(addr Address, v Value) {
	bound := m.Type(addr)
	if !TypesEqual(bound, v.DynamicType()) {
		panic(fmt.Sprintf("interp: type mismatch writing %s to address bound to %s", v.DynamicType(), bound))
	}
	*m.locate(addr) = v
}

// BeginTuple installs a partially-uninitialized TupleValue of the given
// shape at addr, so that each field can subsequently be initialized via
// its own projection (§4.3, TupleLit).
func (m *Memory) BeginTuple(addr Address, shape Tuple[Type]) {
	*m.locate(addr) = TupleValue{Elements: placeholderTuple(shape)}
}

// BeginStruct installs a partially-uninitialized StructValue of def at
// addr, one placeholder per member, keyed by member label.
func (m *Memory) BeginStruct(addr Address, def *StructDefinition, memberTypes Tuple[Type]) {
	*m.locate(addr) = StructValue{Def: def, Payload: placeholderTuple(memberTypes)}
}

// BeginChoice installs a partially-uninitialized ChoiceValue at addr with
// its discriminator fixed to alt and its payload shaped by payloadTypes.
func (m *Memory) BeginChoice(addr Address, def *ChoiceDefinition, alt *AlternativeDef, payloadTypes Tuple[Type]) {
	*m.locate(addr) = ChoiceValue{Def: def, Alt: alt, Payload: placeholderTuple(payloadTypes)}
}

// WriteInitialized is a convenience for the common case of fully
// initializing a scalar (Int/Bool/Type/Function/Alternative) address in
// one step.
func (m *Memory) WriteInitialized(addr Address, v Value) {
	m.Write(addr, v)
}

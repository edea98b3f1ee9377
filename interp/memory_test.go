package interp

import "testing"

func TestMemoryAllocateWriteRead(t *testing.T) {
	m := NewMemory()
	addr := m.Allocate(IntType{}, true)
	m.Write(addr, IntValue{Value: 7})
	got := m.Read(addr)
	iv, ok := got.(IntValue)
	if !ok || iv.Value != 7 {
		t.Fatalf("got %v, want IntValue{7}", got)
	}
}

func TestMemoryReadOfUninitializedPanics(t *testing.T) {
	m := NewMemory()
	addr := m.Allocate(IntType{}, true)
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic reading an uninitialized address")
		}
	}()
	m.Read(addr)
}

func TestMemoryWriteTypeMismatchPanics(t *testing.T) {
	m := NewMemory()
	addr := m.Allocate(IntType{}, true)
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic writing a mismatched type")
		}
	}()
	m.Write(addr, BoolValue{Value: true})
}

func TestMemoryProjectionSharesStorageWithRoot(t *testing.T) {
	m := NewMemory()
	shape := Tuple[Type]{Fields: []Field[Type]{
		{ID: Positional(0), Value: IntType{}},
		{ID: Positional(1), Value: IntType{}},
	}}
	addr := m.Allocate(TupleType{Elements: shape}, true)
	m.BeginTuple(addr, shape)

	m.Write(addr.Element(0), IntValue{Value: 3})
	m.Write(addr.Element(1), IntValue{Value: 4})

	whole := m.Read(addr).(TupleValue)
	x, _ := whole.Elements.Lookup(Positional(0))
	y, _ := whole.Elements.Lookup(Positional(1))
	if x.(IntValue).Value != 3 || y.(IntValue).Value != 4 {
		t.Fatalf("got elements %v, %v, want 3, 4", x, y)
	}

	// Mutating through the projected address must be visible when
	// reading the whole tuple back through the root.
	m.Write(addr.Element(0), IntValue{Value: 99})
	whole = m.Read(addr).(TupleValue)
	x, _ = whole.Elements.Lookup(Positional(0))
	if x.(IntValue).Value != 99 {
		t.Fatalf("got %v after projected write, want 99", x)
	}
}

func TestMemoryDeinitializeThenReadPanics(t *testing.T) {
	m := NewMemory()
	addr := m.Allocate(IntType{}, true)
	m.Write(addr, IntValue{Value: 1})
	m.Deinitialize(addr)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic reading a deinitialized address")
		}
	}()
	m.Read(addr)
}

func TestMemoryDeallocOfProjectionPanics(t *testing.T) {
	m := NewMemory()
	shape := Tuple[Type]{Fields: []Field[Type]{{ID: Positional(0), Value: IntType{}}}}
	addr := m.Allocate(TupleType{Elements: shape}, true)
	m.BeginTuple(addr, shape)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic deallocating a projection")
		}
	}()
	m.Dealloc(addr.Element(0))
}

func TestMemoryDeallocThenReuseOfAddressPanics(t *testing.T) {
	m := NewMemory()
	addr := m.Allocate(IntType{}, true)
	m.Write(addr, IntValue{Value: 1})
	m.Dealloc(addr)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic reading a deallocated address")
		}
	}()
	m.Read(addr)
}

func TestMemoryBeginStructInitializesMemberByMember(t *testing.T) {
	m := NewMemory()
	def := &StructDefinition{NameVal: "Point"}
	memberTypes := Tuple[Type]{Fields: []Field[Type]{
		{ID: Labeled("x"), Value: IntType{}},
		{ID: Labeled("y"), Value: IntType{}},
	}}
	addr := m.Allocate(StructType{Def: def}, true)
	m.BeginStruct(addr, def, memberTypes)
	m.Write(addr.Labeled("x"), IntValue{Value: 3})
	m.Write(addr.Labeled("y"), IntValue{Value: 4})

	sv := m.Read(addr).(StructValue)
	x, _ := sv.Payload.Lookup(Labeled("x"))
	y, _ := sv.Payload.Lookup(Labeled("y"))
	if x.(IntValue).Value != 3 || y.(IntValue).Value != 4 {
		t.Fatalf("got %v, %v, want 3, 4", x, y)
	}
}

package snapshot

import (
	"testing"

	"carbonc/interp"
)

func TestEncodeValuePrimitives(t *testing.T) {
	if got := EncodeValue(interp.IntValue{Value: 7}); got.Kind != "int" || got.Int != 7 {
		t.Errorf("got %+v", got)
	}
	if got := EncodeValue(interp.BoolValue{Value: true}); got.Kind != "bool" || !got.Bool {
		t.Errorf("got %+v", got)
	}
}

func TestEncodeValueTupleString(t *testing.T) {
	tv := interp.TupleValue{Elements: interp.Positionals[interp.Value](interp.IntValue{Value: 1}, interp.IntValue{Value: 2})}
	dto := EncodeValue(tv)
	if dto.String() != "(1, 2)" {
		t.Errorf("got %q, want (1, 2)", dto.String())
	}
}

func TestDumpAndLoadRoundTrip(t *testing.T) {
	mem := interp.NewMemory()
	addr := mem.Allocate(interp.IntType{}, true)
	mem.Write(addr, interp.IntValue{Value: 42})

	data, err := Dump(mem, map[string]interp.Address{"main": addr})
	if err != nil {
		t.Fatal(err)
	}
	snap, err := Load(data)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := snap.Roots["main"]
	if !ok {
		t.Fatalf("missing root 'main' in %+v", snap.Roots)
	}
	if got.Kind != "int" || got.Int != 42 {
		t.Errorf("got %+v, want int 42", got)
	}
}

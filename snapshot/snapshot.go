// Package snapshot serializes a completed interpreter run's memory to
// CBOR, for the CLI host's --dump flag and for debugging tooling built
// on top of it. It follows the teacher's dist.wire codec: a single
// package-level canonical EncMode, and one Marshal/Unmarshal pair per
// wire type (see vm/dist/wire.go).
package snapshot

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"carbonc/interp"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// FieldDTO is one element of a tuple-shaped value, in wire form.
type FieldDTO struct {
	IsLabel bool     `cbor:"is_label"`
	Label   string   `cbor:"label,omitempty"`
	Pos     int      `cbor:"pos"`
	Value   ValueDTO `cbor:"value"`
}

// ValueDTO is the wire form of an interp.Value: a discriminated union
// tagged by Kind, carrying only the fields relevant to that kind.
// Struct/choice/function identity is recorded by declaration name
// rather than Go pointer identity, since the latter cannot survive
// serialization — a snapshot is for display and diffing, not for
// resuming a run (see DESIGN.md).
type ValueDTO struct {
	Kind     string     `cbor:"kind"`
	Int      int64      `cbor:"int,omitempty"`
	Bool     bool       `cbor:"bool,omitempty"`
	TypeName string     `cbor:"type_name,omitempty"`
	Fields   []FieldDTO `cbor:"fields,omitempty"`
	DefName  string     `cbor:"def_name,omitempty"`
	AltName  string     `cbor:"alt_name,omitempty"`
}

// EncodeValue converts a live interp.Value into its wire form.
func EncodeValue(v interp.Value) ValueDTO {
	switch tv := v.(type) {
	case interp.IntValue:
		return ValueDTO{Kind: "int", Int: tv.Value}
	case interp.BoolValue:
		return ValueDTO{Kind: "bool", Bool: tv.Value}
	case interp.TypeValue:
		return ValueDTO{Kind: "type", TypeName: tv.Value.String()}
	case interp.TupleValue:
		return ValueDTO{Kind: "tuple", Fields: encodeFields(tv.Elements)}
	case interp.StructValue:
		return ValueDTO{Kind: "struct", DefName: tv.Def.NameVal, Fields: encodeFields(tv.Payload)}
	case interp.ChoiceValue:
		return ValueDTO{Kind: "choice", DefName: tv.Def.NameVal, AltName: tv.Alt.Name, Fields: encodeFields(tv.Payload)}
	case interp.FunctionValue:
		return ValueDTO{Kind: "function", DefName: tv.Def.NameVal}
	case interp.AlternativeValue:
		return ValueDTO{Kind: "alternative", DefName: tv.Def.NameVal, AltName: tv.Alt.Name}
	default:
		return ValueDTO{Kind: "unknown", TypeName: v.DynamicType().String()}
	}
}

func encodeFields(t interp.Tuple[interp.Value]) []FieldDTO {
	fields := make([]FieldDTO, t.Len())
	for i, f := range t.Fields {
		fields[i] = FieldDTO{
			IsLabel: f.ID.IsLabel(),
			Label:   f.ID.Label,
			Pos:     f.ID.Pos,
			Value:   EncodeValue(f.Value),
		}
	}
	return fields
}

// String renders a ValueDTO the way interp.Value.String does, for a
// decoded snapshot displayed without the original AST in hand.
func (v ValueDTO) String() string {
	switch v.Kind {
	case "int":
		return fmt.Sprintf("%d", v.Int)
	case "bool":
		return fmt.Sprintf("%t", v.Bool)
	case "type":
		return v.TypeName
	case "tuple":
		return fmt.Sprintf("(%s)", joinFields(v.Fields))
	case "struct":
		return fmt.Sprintf("%s(%s)", v.DefName, joinFields(v.Fields))
	case "choice":
		if len(v.Fields) == 0 {
			return fmt.Sprintf("%s.%s", v.DefName, v.AltName)
		}
		return fmt.Sprintf("%s.%s(%s)", v.DefName, v.AltName, joinFields(v.Fields))
	case "function":
		return fmt.Sprintf("<fn %s>", v.DefName)
	case "alternative":
		return fmt.Sprintf("%s.%s", v.DefName, v.AltName)
	default:
		return fmt.Sprintf("<%s %s>", v.Kind, v.TypeName)
	}
}

func joinFields(fields []FieldDTO) string {
	s := ""
	for i, f := range fields {
		if i > 0 {
			s += ", "
		}
		if f.IsLabel {
			s += fmt.Sprintf(".%s = %s", f.Label, f.Value)
		} else {
			s += f.Value.String()
		}
	}
	return s
}

// Snapshot is a full memory dump: one named root value per entry, e.g.
// every top-level global plus the program's final exit value.
type Snapshot struct {
	Roots map[string]ValueDTO `cbor:"roots"`
}

// Dump builds a Snapshot from a set of named addresses and serializes
// it to canonical CBOR bytes.
func Dump(mem *interp.Memory, roots map[string]interp.Address) ([]byte, error) {
	s := Snapshot{Roots: make(map[string]ValueDTO, len(roots))}
	for name, addr := range roots {
		s.Roots[name] = EncodeValue(mem.Read(addr))
	}
	return cborEncMode.Marshal(s)
}

// Load deserializes a Snapshot previously produced by Dump.
func Load(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	return &s, nil
}

package interp

import (
	"fmt"
	"sort"
	"strings"
)

// FieldID identifies one field of a Tuple. It is either a non-negative
// positional index or a label; exactly one of the two is meaningful,
// distinguished by IsLabel.
type FieldID struct {
	Label string
	Pos   int
}

// Positional returns the FieldID for positional index pos.
func Positional(pos int) FieldID { return FieldID{Pos: pos} }

// Labeled returns the FieldID for label name.
func Labeled(name string) FieldID { return FieldID{Label: name, Pos: -1} }

// IsLabel reports whether this FieldID names a label rather than a position.
func (f FieldID) IsLabel() bool { return f.Label != "" }

func (f FieldID) String() string {
	if f.IsLabel() {
		return "." + f.Label
	}
	return fmt.Sprintf("%d", f.Pos)
}

// Field is one element of a Tuple: its FieldID paired with its value.
type Field[T any] struct {
	ID    FieldID
	Value T
}

// Tuple is an ordered sequence of fields. Positional fields come first,
// carrying successive integer positions starting at 0; labeled fields
// follow. Tuple is a value type: copying it copies the field slice header,
// not a deep clone of the elements.
type Tuple[T any] struct {
	Fields []Field[T]
}

// NewTuple builds a Tuple from already-identified fields, in the order
// given. Callers (the parser, or internal constructors) are responsible
// for placing positional fields first with ascending positions.
func NewTuple[T any](fields ...Field[T]) Tuple[T] {
	return Tuple[T]{Fields: fields}
}

// Positionals builds a Tuple whose fields are purely positional, assigning
// positions 0..len(values)-1 in order.
func Positionals[T any](values ...T) Tuple[T] {
	fields := make([]Field[T], len(values))
	for i, v := range values {
		fields[i] = Field[T]{ID: Positional(i), Value: v}
	}
	return Tuple[T]{Fields: fields}
}

// Len returns the number of fields.
func (t Tuple[T]) Len() int { return len(t.Fields) }

// Lookup returns the value for the given FieldID and whether it was found.
func (t Tuple[T]) Lookup(id FieldID) (T, bool) {
	for _, f := range t.Fields {
		if f.ID == id {
			return f.Value, true
		}
	}
	var zero T
	return zero, false
}

// WellFormed reports whether all labels in the tuple are distinct. Duplicate
// positions cannot occur because positions are assigned by construction.
func (t Tuple[T]) WellFormed() (ok bool, duplicate string) {
	seen := make(map[string]bool)
	for _, f := range t.Fields {
		if !f.ID.IsLabel() {
			continue
		}
		if seen[f.ID.Label] {
			return false, f.ID.Label
		}
		seen[f.ID.Label] = true
	}
	return true, ""
}

// Shape returns the set of FieldIDs present, in a canonical sorted order,
// usable as a congruence key.
func (t Tuple[T]) Shape() []FieldID {
	ids := make([]FieldID, len(t.Fields))
	for i, f := range t.Fields {
		ids[i] = f.ID
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if a.IsLabel() != b.IsLabel() {
			return !a.IsLabel() // positional before labeled
		}
		if a.IsLabel() {
			return a.Label < b.Label
		}
		return a.Pos < b.Pos
	})
	return ids
}

// Congruent reports whether t and other have identical sets of FieldIDs,
// independent of field order or value types.
func Congruent[T, U any](t Tuple[T], other Tuple[U]) bool {
	a := t.Shape()
	b := other.Shape()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MapTuple applies fn to every field value, preserving FieldIDs and order.
// Returns an error from the first failing field, if any.
func MapTuple[T, U any](t Tuple[T], fn func(FieldID, T) (U, error)) (Tuple[U], error) {
	out := make([]Field[U], len(t.Fields))
	for i, f := range t.Fields {
		v, err := fn(f.ID, f.Value)
		if err != nil {
			return Tuple[U]{}, err
		}
		out[i] = Field[U]{ID: f.ID, Value: v}
	}
	return Tuple[U]{Fields: out}, nil
}

func formatFieldIDs(ids []FieldID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}

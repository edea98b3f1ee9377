package interp

import "fmt"

// SourceRegion is a half-open character range within a named source file.
// It is the anchor for every diagnostic; AST node identity is the node's
// Go pointer, not its region (see Node).
type SourceRegion struct {
	File  string
	Start int // inclusive byte offset
	End   int // exclusive byte offset
}

// EmptyRegion is used for synthesized nodes that have no source text of
// their own (e.g. an implicit empty-tuple return).
var EmptyRegion = SourceRegion{}

// IsEmpty reports whether r is the synthesized empty region.
func (r SourceRegion) IsEmpty() bool {
	return r == EmptyRegion
}

// Union returns the smallest region covering both a and b. The two
// regions must name the same file unless one of them is empty.
func (r SourceRegion) Union(other SourceRegion) SourceRegion {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	start, end := r.Start, r.End
	if other.Start < start {
		start = other.Start
	}
	if other.End > end {
		end = other.End
	}
	return SourceRegion{File: r.File, Start: start, End: end}
}

func (r SourceRegion) String() string {
	if r.IsEmpty() {
		return "<synthesized>"
	}
	return fmt.Sprintf("%s:%d-%d", r.File, r.Start, r.End)
}

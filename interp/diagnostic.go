package interp

import "fmt"

// Severity distinguishes a hard error (the program cannot proceed past
// the pass that raised it) from a note attached to another Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityNote
)

// Diagnostic is one user-facing finding: name resolution failure, type
// mismatch, or similar. Diagnostics accumulate rather than abort a pass,
// mirroring the teacher's "log and keep going" discipline in
// manifest.Resolver — a pass only stops the pipeline at its own boundary,
// by reporting back to its caller whether it logged anything.
type Diagnostic struct {
	Severity Severity
	Message  string
	Primary  SourceRegion
	Notes    []Diagnostic
}

func (d Diagnostic) String() string {
	if d.Primary.IsEmpty() {
		return d.Message
	}
	return fmt.Sprintf("%s: %s", d.Primary, d.Message)
}

// Diagnostics is an accumulating log, shared by the resolver and the
// type checker.
type Diagnostics struct {
	entries []Diagnostic
}

// Errorf appends an error-severity Diagnostic at site.
func (d *Diagnostics) Errorf(site SourceRegion, format string, args ...any) {
	d.entries = append(d.entries, Diagnostic{
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Primary:  site,
	})
}

// HasErrors reports whether any error-severity Diagnostic was logged.
func (d *Diagnostics) HasErrors() bool {
	for _, e := range d.entries {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// All returns every logged Diagnostic in the order it was recorded.
func (d *Diagnostics) All() []Diagnostic { return d.entries }

// internalError is the payload of a panic raised for a bug in the
// implementation itself (not a user-facing diagnostic): a violated
// invariant the type checker or resolver should have already ruled out.
// It is recovered only at (*Interpreter).Run, which returns it as an
// error; ResolveFile and CheckFile do not recover it.
type internalError struct {
	Site SourceRegion
	Msg  string
}

func (e internalError) Error() string { return e.Msg }

func panicInternal(site SourceRegion, format string, args ...any) {
	panic(internalError{Site: site, Msg: fmt.Sprintf(format, args...)})
}

// recoverInternal turns a panicked internalError into an error and
// stores it through dst; any other panic value is re-raised, since only
// internalError is a recognized pass-boundary recovery.
func recoverInternal(dst *error) {
	if r := recover(); r != nil {
		if ie, ok := r.(internalError); ok {
			*dst = fmt.Errorf("internal error at %s: %s", ie.Site, ie.Msg)
			return
		}
		panic(r)
	}
}

package interp

// ExecutableProgram is the immutable bundle handed from the checker to
// the interpreter (§3.6, §6): the AST plus every resolution and
// type-checking index the interpreter needs to drive evaluation. Once
// built, nothing in this struct is ever mutated again — the interpreter
// is the only thing downstream of it that mutates anything, and what it
// mutates is Memory, not the program.
type ExecutableProgram struct {
	File       *File
	Resolution *Resolution
	Check      *CheckResult
}

// BuildExecutableProgram runs name resolution and, only if it succeeds,
// type checking — the "all-or-nothing between passes" rule of §7: a
// pass with errors is never followed by the next one.
func BuildExecutableProgram(f *File) *ExecutableProgram {
	res := ResolveFile(f)
	p := &ExecutableProgram{File: f, Resolution: res}
	if res.Diagnostics.HasErrors() {
		return p
	}
	p.Check = CheckFile(f, res)
	return p
}

// OK reports whether the program resolved and type-checked cleanly
// enough to interpret.
func (p *ExecutableProgram) OK() bool {
	if p.Resolution.Diagnostics.HasErrors() {
		return false
	}
	return p.Check != nil && !p.Check.Diagnostics.HasErrors()
}

// Diagnostics returns every diagnostic logged by either pass, in pass
// order.
func (p *ExecutableProgram) Diagnostics() []Diagnostic {
	all := append([]Diagnostic{}, p.Resolution.Diagnostics.All()...)
	if p.Check != nil {
		all = append(all, p.Check.Diagnostics.All()...)
	}
	return all
}

// MainFunction returns the program's distinguished `main` entry point.
// Name resolution's checkMain already guarantees one exists with the
// right arity by the time OK() is true.
func (p *ExecutableProgram) MainFunction() *FunctionDefinition {
	for _, decl := range p.File.Declarations {
		if d, ok := decl.(*FunctionDecl); ok && d.Def.NameVal == "main" {
			return d.Def
		}
	}
	return nil
}

// StaticType is a convenience accessor over the checker's staticType
// index.
func (p *ExecutableProgram) StaticType(e Expression) Type {
	return p.Check.StaticType[e]
}

// structMemberTypeTuple builds the labeled Tuple[Type] shape of def's
// members, in declaration order, for use by Memory.BeginStruct.
func (p *ExecutableProgram) structMemberTypeTuple(def *StructDefinition) Tuple[Type] {
	fields := make([]Field[Type], len(def.Members))
	for i, m := range def.Members {
		fields[i] = Field[Type]{ID: Labeled(m.Name), Value: p.Check.MemberType[m]}
	}
	return Tuple[Type]{Fields: fields}
}

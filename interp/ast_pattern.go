package interp

// Pattern is the tagged-variant family of pattern nodes: a structure that,
// at a binding site, introduces variables, and at a match site, tests a
// runtime value.
type Pattern interface {
	Node
	isPattern()
}

// AtomPattern matches a value against a concrete expression (e.g. a
// literal, or any other non-binding expression).
type AtomPattern struct {
	SpanVal SourceRegion
	Expr    Expression
}

func (p *AtomPattern) Site() SourceRegion { return p.SpanVal }
func (*AtomPattern) isPattern()           {}

// VariablePattern always matches, binding Binding to the matched address.
type VariablePattern struct {
	SpanVal SourceRegion
	Binding *SimpleBinding
}

func (p *VariablePattern) Site() SourceRegion { return p.SpanVal }
func (*VariablePattern) isPattern()           {}

// TuplePattern matches a tuple value field-by-field.
type TuplePattern struct {
	SpanVal  SourceRegion
	Elements Tuple[Pattern]
}

func (p *TuplePattern) Site() SourceRegion { return p.SpanVal }
func (*TuplePattern) isPattern()           {}

// CallPattern matches a struct-initializer or choice-alternative shape:
// `X(.a = p0, .b = p1)` or `Choice.Alt(p0)`.
type CallPattern struct {
	SpanVal SourceRegion
	Callee  Expression
	Args    Tuple[Pattern]
}

func (p *CallPattern) Site() SourceRegion { return p.SpanVal }
func (*CallPattern) isPattern()           {}

// FunctionTypePattern matches a function-type value, binding the
// parameter/return patterns against its metatype-typed parts.
type FunctionTypePattern struct {
	SpanVal SourceRegion
	Params  Tuple[Pattern]
	Return  Pattern
}

func (p *FunctionTypePattern) Site() SourceRegion { return p.SpanVal }
func (*FunctionTypePattern) isPattern()           {}

// DeclaredType is how a SimpleBinding's (or a function's return) type is
// spelled: either an explicit type expression, or `auto` to be deduced.
type DeclaredType interface {
	isDeclaredType()
}

// ExplicitType is a declared type spelled out as a type expression.
type ExplicitType struct {
	Expr Expression
}

func (ExplicitType) isDeclaredType() {}

// AutoType is the `auto` placeholder, deduced from an initializer.
type AutoType struct {
	SpanVal SourceRegion
}

func (AutoType) isDeclaredType() {}

// SimpleBinding is a name introduced by a pattern (a `var` binding, a
// function parameter, or a match-clause variable) together with its
// declared type. Its Go pointer identity is the binding identity used
// throughout resolution, type checking, and interpretation.
type SimpleBinding struct {
	SpanVal  SourceRegion
	Name     string
	Declared DeclaredType
}

func (b *SimpleBinding) Site() SourceRegion  { return b.SpanVal }
func (b *SimpleBinding) DefinitionName() string { return b.Name }
func (*SimpleBinding) isDefinition()         {}

// Initialization lowers `var p = e;`, binding p's variables from e.
type Initialization struct {
	SpanVal     SourceRegion
	Pattern     Pattern
	Initializer Expression
}

func (i *Initialization) Site() SourceRegion { return i.SpanVal }

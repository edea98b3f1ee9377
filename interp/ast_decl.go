package interp

// Definition is what a NameExpr resolves to: a top-level function,
// struct, or choice definition, or any SimpleBinding (a `var`, a function
// parameter, or a match-clause variable). It is a closed, four-member
// family; resolution and type checking dispatch on it with a type switch
// rather than further interface indirection.
type Definition interface {
	Node
	DefinitionName() string
	isDefinition()
}

// FunctionBody is how a function is implemented: a braced block, the
// `=> expr;` sugar (lowered to a single return statement), or omitted
// entirely (a forward declaration, never callable).
type FunctionBody interface {
	isFunctionBody()
}

// BlockBody is `{ stmt... }`.
type BlockBody struct{ Block *BlockStmt }

func (BlockBody) isFunctionBody() {}

// ExprBody is `=> expr;`.
type ExprBody struct{ Expr Expression }

func (ExprBody) isFunctionBody() {}

// FunctionDefinition is `fn name(params) -> returnType { body }`.
type FunctionDefinition struct {
	SpanVal    SourceRegion
	NameVal    string
	Params     Tuple[Pattern]
	ReturnType DeclaredType // ExplicitType or AutoType
	Body       FunctionBody // nil for a bodiless forward declaration
}

func (d *FunctionDefinition) Site() SourceRegion     { return d.SpanVal }
func (d *FunctionDefinition) DefinitionName() string { return d.NameVal }
func (*FunctionDefinition) isDefinition()            {}

// StructMember is one `name: type-expression;` member of a struct body.
// Its pointer identity is used as a memoization key by the type checker.
type StructMember struct {
	SpanVal SourceRegion
	Name    string
	Type    Expression
}

func (m *StructMember) Site() SourceRegion { return m.SpanVal }

// StructDefinition is `struct Name { member... }`.
type StructDefinition struct {
	SpanVal SourceRegion
	NameVal string
	Members []*StructMember
}

func (d *StructDefinition) Site() SourceRegion     { return d.SpanVal }
func (d *StructDefinition) DefinitionName() string { return d.NameVal }
func (*StructDefinition) isDefinition()            {}

// Member looks up a struct member by name.
func (d *StructDefinition) Member(name string) *StructMember {
	for _, m := range d.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// AlternativeDef is one named case of a choice, with its payload tuple of
// type expressions (empty for a payload-less alternative). Its pointer
// identity is the alternative identity referenced by alternativePayload,
// enclosingChoice, and runtime ChoiceValue discriminators.
type AlternativeDef struct {
	SpanVal SourceRegion
	Name    string
	Payload Tuple[Expression]
}

func (a *AlternativeDef) Site() SourceRegion { return a.SpanVal }

// ChoiceDefinition is `choice Name { alt, alt(T, ...), ... }`.
type ChoiceDefinition struct {
	SpanVal      SourceRegion
	NameVal      string
	Alternatives []*AlternativeDef
}

func (d *ChoiceDefinition) Site() SourceRegion     { return d.SpanVal }
func (d *ChoiceDefinition) DefinitionName() string { return d.NameVal }
func (*ChoiceDefinition) isDefinition()            {}

// Alternative looks up an alternative by name.
func (d *ChoiceDefinition) Alternative(name string) *AlternativeDef {
	for _, a := range d.Alternatives {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Declaration is the tagged-variant family of top-level declarations.
type Declaration interface {
	Node
	isDeclaration()
}

// FunctionDecl wraps a top-level function definition.
type FunctionDecl struct {
	SpanVal SourceRegion
	Def     *FunctionDefinition
}

func (d *FunctionDecl) Site() SourceRegion { return d.SpanVal }
func (*FunctionDecl) isDeclaration()       {}

// StructDecl wraps a top-level struct definition.
type StructDecl struct {
	SpanVal SourceRegion
	Def     *StructDefinition
}

func (d *StructDecl) Site() SourceRegion { return d.SpanVal }
func (*StructDecl) isDeclaration()       {}

// ChoiceDecl wraps a top-level choice definition.
type ChoiceDecl struct {
	SpanVal SourceRegion
	Def     *ChoiceDefinition
}

func (d *ChoiceDecl) Site() SourceRegion { return d.SpanVal }
func (*ChoiceDecl) isDeclaration()       {}

// InitDecl wraps a top-level `var p = e;` initialization.
type InitDecl struct {
	SpanVal SourceRegion
	Init    *Initialization
}

func (d *InitDecl) Site() SourceRegion { return d.SpanVal }
func (*InitDecl) isDeclaration()       {}

// File is the root AST node: a sequence of top-level declarations in
// source order. Declaration order is irrelevant to name resolution
// (forward references are allowed at top level) but is preserved here
// for diagnostics and for deterministic iteration in tests.
type File struct {
	Path         string
	Declarations []Declaration
}

package interp

// scope is one lexical scope in the resolution scope stack: a name table
// chained to its parent. The top-level scope has a nil parent.
type scope struct {
	names  map[string]Definition
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{names: make(map[string]Definition), parent: parent}
}

func (s *scope) define(name string, def Definition) bool {
	if _, exists := s.names[name]; exists {
		return false
	}
	s.names[name] = def
	return true
}

func (s *scope) lookup(name string) (Definition, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if d, ok := cur.names[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// Resolution is the output of name resolution: every NameExpr in the file
// has had its Resolved field filled in (or a diagnostic logged), plus the
// set of top-level bindings (`globals`, §3.6).
type Resolution struct {
	Globals     map[*SimpleBinding]bool
	Diagnostics Diagnostics
}

type resolver struct {
	diags Diagnostics
	top   *scope
}

// ResolveFile runs name resolution over f: introduces every top-level
// name, then walks the tree resolving every use-site identifier against
// the innermost enclosing scope. It never short-circuits — all failures
// accumulate into the returned Diagnostics (§4.1).
func ResolveFile(f *File) *Resolution {
	r := &resolver{top: newScope(nil)}
	globals := r.topLevelPass(f)
	r.checkMain()
	r.deepPass(f)
	return &Resolution{Globals: globals, Diagnostics: r.diags}
}

func (r *resolver) topLevelPass(f *File) map[*SimpleBinding]bool {
	globals := make(map[*SimpleBinding]bool)
	for _, decl := range f.Declarations {
		switch d := decl.(type) {
		case *FunctionDecl:
			r.defineTop(d.Def.NameVal, d.Def, d.Site())
		case *StructDecl:
			r.defineTop(d.Def.NameVal, d.Def, d.Site())
		case *ChoiceDecl:
			r.defineTop(d.Def.NameVal, d.Def, d.Site())
		case *InitDecl:
			for _, b := range collectBindings(d.Init.Pattern) {
				r.defineTop(b.Name, b, b.Site())
				globals[b] = true
			}
		}
	}
	return globals
}

func (r *resolver) defineTop(name string, def Definition, site SourceRegion) {
	if !r.top.define(name, def) {
		r.diags.Errorf(site, "'%s' already defined", name)
	}
}

func (r *resolver) checkMain() {
	def, ok := r.top.lookup("main")
	if !ok {
		r.diags.Errorf(EmptyRegion, "missing 'main'")
		return
	}
	fn, ok := def.(*FunctionDefinition)
	if !ok {
		r.diags.Errorf(def.Site(), "'main' must be a function")
		return
	}
	if fn.Params.Len() != 0 {
		r.diags.Errorf(fn.Site(), "wrong signature of 'main': expected no parameters")
	}
}

// collectBindings returns every SimpleBinding a pattern introduces,
// without resolving anything — used to seed the top-level scope before
// any type expressions are walked.
func collectBindings(p Pattern) []*SimpleBinding {
	switch pv := p.(type) {
	case *VariablePattern:
		return []*SimpleBinding{pv.Binding}
	case *TuplePattern:
		var out []*SimpleBinding
		for _, f := range pv.Elements.Fields {
			out = append(out, collectBindings(f.Value)...)
		}
		return out
	case *CallPattern:
		var out []*SimpleBinding
		for _, f := range pv.Args.Fields {
			out = append(out, collectBindings(f.Value)...)
		}
		return out
	case *FunctionTypePattern:
		var out []*SimpleBinding
		for _, f := range pv.Params.Fields {
			out = append(out, collectBindings(f.Value)...)
		}
		out = append(out, collectBindings(pv.Return)...)
		return out
	default:
		return nil
	}
}

func (r *resolver) deepPass(f *File) {
	for _, decl := range f.Declarations {
		switch d := decl.(type) {
		case *FunctionDecl:
			r.resolveFunctionDef(d.Def, r.top)
		case *StructDecl:
			r.resolveStructDef(d.Def, r.top)
		case *ChoiceDecl:
			r.resolveChoiceDef(d.Def, r.top)
		case *InitDecl:
			r.resolveExpr(d.Init.Initializer, r.top)
			r.walkPattern(d.Init.Pattern, r.top, false)
		}
	}
}

func (r *resolver) resolveFunctionDef(def *FunctionDefinition, parent *scope) {
	fnScope := newScope(parent)
	for _, f := range def.Params.Fields {
		r.walkPattern(f.Value, fnScope, true)
	}
	r.resolveDeclaredType(def.ReturnType, fnScope)
	switch body := def.Body.(type) {
	case BlockBody:
		r.resolveBlockIn(body.Block, fnScope)
	case ExprBody:
		r.resolveExpr(body.Expr, fnScope)
	case nil:
		// forward declaration, nothing to resolve
	}
}

func (r *resolver) resolveStructDef(def *StructDefinition, parent *scope) {
	seen := make(map[string]bool)
	for _, m := range def.Members {
		if seen[m.Name] {
			r.diags.Errorf(m.Site(), "'%s' already defined", m.Name)
		}
		seen[m.Name] = true
		r.resolveExpr(m.Type, parent)
	}
}

func (r *resolver) resolveChoiceDef(def *ChoiceDefinition, parent *scope) {
	seen := make(map[string]bool)
	for _, a := range def.Alternatives {
		if seen[a.Name] {
			r.diags.Errorf(a.Site(), "'%s' already defined", a.Name)
		}
		seen[a.Name] = true
		for _, f := range a.Payload.Fields {
			r.resolveExpr(f.Value, parent)
		}
	}
}

func (r *resolver) resolveDeclaredType(dt DeclaredType, s *scope) {
	if et, ok := dt.(ExplicitType); ok {
		r.resolveExpr(et.Expr, s)
	}
}

// walkPattern resolves a pattern's embedded expressions (type
// annotations, atom expressions, call callees) against s, and — when
// introduce is true — also defines each VariablePattern's binding into s.
// Top-level Initialization patterns are walked with introduce=false,
// since their bindings were already defined in the top-level pass.
func (r *resolver) walkPattern(p Pattern, s *scope, introduce bool) {
	switch pv := p.(type) {
	case *AtomPattern:
		r.resolveExpr(pv.Expr, s)
	case *VariablePattern:
		r.resolveDeclaredType(pv.Binding.Declared, s)
		if introduce {
			if !s.define(pv.Binding.Name, pv.Binding) {
				r.diags.Errorf(pv.Site(), "'%s' already defined", pv.Binding.Name)
			}
		}
	case *TuplePattern:
		if ok, dup := pv.Elements.WellFormed(); !ok {
			r.diags.Errorf(pv.Site(), "duplicate field label '.%s'", dup)
		}
		for _, f := range pv.Elements.Fields {
			r.walkPattern(f.Value, s, introduce)
		}
	case *CallPattern:
		r.resolveExpr(pv.Callee, s)
		for _, f := range pv.Args.Fields {
			r.walkPattern(f.Value, s, introduce)
		}
	case *FunctionTypePattern:
		for _, f := range pv.Params.Fields {
			r.walkPattern(f.Value, s, introduce)
		}
		r.walkPattern(pv.Return, s, introduce)
	}
}

func (r *resolver) resolveBlockIn(b *BlockStmt, parent *scope) {
	blockScope := newScope(parent)
	for _, stmt := range b.Stmts {
		r.resolveStmt(stmt, blockScope)
	}
}

func (r *resolver) resolveStmt(s Statement, scope *scope) {
	switch sv := s.(type) {
	case *ExprStmt:
		r.resolveExpr(sv.Expr, scope)
	case *AssignStmt:
		r.resolveExpr(sv.Target, scope)
		r.resolveExpr(sv.Source, scope)
	case *InitStmt:
		r.resolveExpr(sv.Init.Initializer, scope)
		r.walkPattern(sv.Init.Pattern, scope, true)
	case *IfStmt:
		r.resolveExpr(sv.Cond, scope)
		r.resolveStmt(sv.Then, newScope(scope))
		if sv.Else != nil {
			r.resolveStmt(sv.Else, newScope(scope))
		}
	case *WhileStmt:
		r.resolveExpr(sv.Cond, scope)
		r.resolveStmt(sv.Body, newScope(scope))
	case *MatchStmt:
		r.resolveExpr(sv.Subject, scope)
		for _, c := range sv.Clauses {
			clauseScope := newScope(scope)
			if c.Pattern != nil {
				r.walkPattern(c.Pattern, clauseScope, true)
			}
			r.resolveStmt(c.Body, clauseScope)
		}
	case *ReturnStmt:
		if sv.Value != nil {
			r.resolveExpr(sv.Value, scope)
		}
	case *BlockStmt:
		r.resolveBlockIn(sv, scope)
	case *BreakStmt, *ContinueStmt:
		// nothing to resolve; loop-context validity is checked by the
		// type checker.
	}
}

func (r *resolver) resolveExpr(e Expression, scope *scope) {
	switch ev := e.(type) {
	case *NameExpr:
		def, ok := scope.lookup(ev.Name)
		if !ok {
			r.diags.Errorf(ev.Site(), "Un-declared name '%s'", ev.Name)
			return
		}
		ev.Resolved = def
	case *MemberAccessExpr:
		r.resolveExpr(ev.Base, scope)
	case *IndexExpr:
		r.resolveExpr(ev.Target, scope)
		r.resolveExpr(ev.Offset, scope)
	case *TupleLit:
		if ok, dup := ev.Elements.WellFormed(); !ok {
			r.diags.Errorf(ev.Site(), "duplicate field label '.%s'", dup)
		}
		for _, f := range ev.Elements.Fields {
			r.resolveExpr(f.Value, scope)
		}
	case *UnaryOpExpr:
		r.resolveExpr(ev.Operand, scope)
	case *BinaryOpExpr:
		r.resolveExpr(ev.LHS, scope)
		r.resolveExpr(ev.RHS, scope)
	case *CallExpr:
		r.resolveExpr(ev.Callee, scope)
		if ok, dup := ev.Args.WellFormed(); !ok {
			r.diags.Errorf(ev.Site(), "duplicate field label '.%s'", dup)
		}
		for _, f := range ev.Args.Fields {
			r.resolveExpr(f.Value, scope)
		}
	case *FunctionTypeExprNode:
		fnTypeScope := newScope(scope)
		for _, f := range ev.Params.Fields {
			r.walkPattern(f.Value, fnTypeScope, true)
		}
		r.walkPattern(ev.Return, fnTypeScope, true)
	case *IntLit, *BoolLit, *IntTypeExpr, *BoolTypeExpr, *TypeTypeExpr:
		// no sub-expressions, nothing to resolve.
	}
}

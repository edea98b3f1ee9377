package interp

// memoState is the three-state memoization marker for typeOfName:
// absent (never computed), being-computed (cycle guard), or final.
type memoState int

const (
	memoAbsent memoState = iota
	memoComputing
	memoFinal
)

// Checker is the memoizing, demand-driven type checker (§4.2). It shares
// its diagnostics log with the rest of the pipeline's accumulate-and-
// continue discipline (§7): every pass logs what it finds and keeps
// going, and only the driver between CheckFile and Interpret refuses to
// proceed on error.
type Checker struct {
	diags Diagnostics

	staticType map[Expression]Type

	nameState map[Node]memoState
	nameType  map[Node]Type

	alternativePayload      map[*AlternativeDef]Tuple[Type]
	enclosingChoice         map[*AlternativeDef]*ChoiceDefinition
	enclosingInitialization map[*SimpleBinding]*Initialization
}

// CheckResult is the output of type checking: the auxiliary indices of
// §3.6, plus the accumulated diagnostics log.
type CheckResult struct {
	StaticType              map[Expression]Type
	AlternativePayload      map[*AlternativeDef]Tuple[Type]
	EnclosingChoice         map[*AlternativeDef]*ChoiceDefinition
	EnclosingInitialization map[*SimpleBinding]*Initialization

	// MemberType, BindingType and FunctionSignature are the interpreter's
	// view onto the checker's name-memoization table (typeOfName), split
	// out by key kind so the interpreter never has to re-derive a type
	// it already computed once during checking.
	MemberType        map[*StructMember]Type
	BindingType       map[*SimpleBinding]Type
	FunctionSignature map[*FunctionDefinition]Type

	Diagnostics Diagnostics
}

// CheckFile runs the type checker's five-step driver sequence (§4.2)
// over a resolved file. It assumes res was produced by ResolveFile over
// the same File and has no errors of its own — the host is responsible
// for refusing to call CheckFile otherwise (§7, all-or-nothing between
// passes).
func CheckFile(f *File, res *Resolution) *CheckResult {
	tc := &Checker{
		staticType:              make(map[Expression]Type),
		nameState:                make(map[Node]memoState),
		nameType:                 make(map[Node]Type),
		alternativePayload:       make(map[*AlternativeDef]Tuple[Type]),
		enclosingChoice:          make(map[*AlternativeDef]*ChoiceDefinition),
		enclosingInitialization:  make(map[*SimpleBinding]*Initialization),
	}
	tc.registerParentage(f)
	tc.checkNominalBodies(f)
	tc.checkFunctionSignatures(f)
	tc.checkMainSignature(f)
	tc.checkTopLevelInitializations(f)
	tc.checkFunctionBodies(f)

	memberType := make(map[*StructMember]Type)
	bindingType := make(map[*SimpleBinding]Type)
	functionSignature := make(map[*FunctionDefinition]Type)
	for n, t := range tc.nameType {
		switch k := n.(type) {
		case *StructMember:
			memberType[k] = t
		case *SimpleBinding:
			bindingType[k] = t
		case *FunctionDefinition:
			functionSignature[k] = t
		}
	}

	return &CheckResult{
		StaticType:              tc.staticType,
		AlternativePayload:       tc.alternativePayload,
		EnclosingChoice:          tc.enclosingChoice,
		EnclosingInitialization:  tc.enclosingInitialization,
		MemberType:               memberType,
		BindingType:              bindingType,
		FunctionSignature:        functionSignature,
		Diagnostics:              tc.diags,
	}
}

// registerParentage is driver step 1: record each alternative's
// enclosing choice and each top-level bound variable's enclosing
// Initialization, ahead of any type computation that might need them.
func (tc *Checker) registerParentage(f *File) {
	for _, decl := range f.Declarations {
		switch d := decl.(type) {
		case *ChoiceDecl:
			for _, a := range d.Def.Alternatives {
				tc.enclosingChoice[a] = d.Def
			}
		case *InitDecl:
			for _, b := range collectBindings(d.Init.Pattern) {
				tc.enclosingInitialization[b] = d.Init
			}
		}
	}
}

// checkNominalBodies is driver step 2: compute and cache the type of
// every struct member and every choice alternative's payload.
func (tc *Checker) checkNominalBodies(f *File) {
	for _, decl := range f.Declarations {
		switch d := decl.(type) {
		case *StructDecl:
			for _, m := range d.Def.Members {
				tc.typeOfName(m)
			}
		case *ChoiceDecl:
			for _, a := range d.Def.Alternatives {
				tc.computeAlternativePayload(a)
			}
		}
	}
}

// checkFunctionSignatures is driver step 3.
func (tc *Checker) checkFunctionSignatures(f *File) {
	for _, decl := range f.Declarations {
		if d, ok := decl.(*FunctionDecl); ok {
			tc.typeOfName(d.Def)
		}
	}
}

// checkMainSignature enforces §6's entry-point shape: `main` (already
// known by name resolution to exist, take no parameters, and be a
// function) must additionally return Int, since that return value
// becomes the host process's exit code.
func (tc *Checker) checkMainSignature(f *File) {
	for _, decl := range f.Declarations {
		d, ok := decl.(*FunctionDecl)
		if !ok || d.Def.NameVal != "main" {
			continue
		}
		sig, ok := tc.nameType[d.Def].(FunctionType)
		if !ok {
			return
		}
		if !TypesEqual(sig.Return, IntType{}) && !IsErrorType(sig.Return) {
			tc.diags.Errorf(d.Def.Site(), "wrong signature of 'main': expected return type Int, not %s", sig.Return)
		}
		return
	}
}

// checkTopLevelInitializations is driver step 4.
func (tc *Checker) checkTopLevelInitializations(f *File) {
	for _, decl := range f.Declarations {
		if d, ok := decl.(*InitDecl); ok {
			tc.checkInitialization(d.Init)
		}
	}
}

// checkFunctionBodies is driver step 5.
func (tc *Checker) checkFunctionBodies(f *File) {
	for _, decl := range f.Declarations {
		d, ok := decl.(*FunctionDecl)
		if !ok {
			continue
		}
		sig, ok := tc.nameType[d.Def].(FunctionType)
		if !ok {
			continue // signature itself failed; already diagnosed.
		}
		switch b := d.Def.Body.(type) {
		case BlockBody:
			ctx := bodyCtx{returnType: sig.Return}
			for _, stmt := range b.Block.Stmts {
				tc.checkStmt(stmt, ctx)
			}
		case ExprBody:
			vt := tc.typeOfExpr(b.Expr)
			if !TypesEqual(vt, sig.Return) && !IsErrorType(sig.Return) && !IsErrorType(vt) {
				tc.diags.Errorf(b.Expr.Site(), "Expected expression of type %s, not %s", sig.Return, vt)
			}
		case nil:
			// forward declaration: no body to check.
		}
	}
}

// typeOfName is the memoized, cycle-detecting lookup at the heart of
// §4.2: it covers FunctionDefinition (signature), StructMember
// (declared type), and SimpleBinding (declared-or-deduced type).
// Revisiting a being-computed node reports `type dependency loop` and
// records ErrorType for that node, letting the computation that found
// the cycle unwind without crashing; the original caller's own
// computation then finishes normally (possibly itself ending up
// Error-tainted, which is the correct outcome for a genuine cycle).
func (tc *Checker) typeOfName(n Node) Type {
	switch tc.nameState[n] {
	case memoFinal:
		return tc.nameType[n]
	case memoComputing:
		tc.diags.Errorf(n.Site(), "type dependency loop")
		tc.nameType[n] = ErrorType{}
		tc.nameState[n] = memoFinal
		return ErrorType{}
	}
	tc.nameState[n] = memoComputing
	t := tc.computeTypeOfName(n)
	tc.nameType[n] = t
	tc.nameState[n] = memoFinal
	return t
}

func (tc *Checker) computeTypeOfName(n Node) Type {
	switch d := n.(type) {
	case *FunctionDefinition:
		return tc.computeFunctionSignature(d)
	case *StructMember:
		return tc.evalTypeExprAt(d.Type)
	case *SimpleBinding:
		return tc.computeBindingType(d)
	default:
		panicInternal(n.Site(), "typeOfName: unexpected node kind")
		return ErrorType{}
	}
}

func (tc *Checker) computeFunctionSignature(d *FunctionDefinition) Type {
	paramTypes := tc.patternTupleTypes(d.Params, Tuple[Type]{})
	var ret Type
	switch rt := d.ReturnType.(type) {
	case ExplicitType:
		ret = tc.evalTypeExprAt(rt.Expr)
	case AutoType:
		ret = tc.inferAutoReturnType(d)
	default:
		ret = ErrorType{}
	}
	return FunctionType{Params: paramTypes, Return: ret}
}

// inferAutoReturnType deduces an omitted/auto return type: for an
// expression body, the expression's own type; for a block body, the
// type of its first (lexically) return statement, or the empty tuple if
// it has none. The spec leaves multi-return-statement auto deduction
// for block bodies unspecified (not exercised by any scenario in §8);
// later return statements do not influence the deduced type.
func (tc *Checker) inferAutoReturnType(d *FunctionDefinition) Type {
	switch b := d.Body.(type) {
	case ExprBody:
		return tc.typeOfExpr(b.Expr)
	case BlockBody:
		if rs := findFirstReturn(b.Block); rs != nil {
			if rs.Value == nil {
				return TupleType{}
			}
			return tc.typeOfExpr(rs.Value)
		}
		return TupleType{}
	default:
		return TupleType{}
	}
}

func findFirstReturn(s Statement) *ReturnStmt {
	switch sv := s.(type) {
	case *ReturnStmt:
		return sv
	case *BlockStmt:
		for _, stmt := range sv.Stmts {
			if rs := findFirstReturn(stmt); rs != nil {
				return rs
			}
		}
	case *IfStmt:
		if rs := findFirstReturn(sv.Then); rs != nil {
			return rs
		}
		if sv.Else != nil {
			return findFirstReturn(sv.Else)
		}
	case *WhileStmt:
		return findFirstReturn(sv.Body)
	case *MatchStmt:
		for _, c := range sv.Clauses {
			if rs := findFirstReturn(c.Body); rs != nil {
				return rs
			}
		}
	}
	return nil
}

func (tc *Checker) computeBindingType(b *SimpleBinding) Type {
	if et, ok := b.Declared.(ExplicitType); ok {
		return tc.evalTypeExprAt(et.Expr)
	}
	if init, ok := tc.enclosingInitialization[b]; ok {
		return tc.typeOfExpr(init.Initializer)
	}
	tc.diags.Errorf(b.Site(), "No initializer available to deduce type for auto")
	return ErrorType{}
}

// computeAlternativePayload evaluates an alternative's payload type
// expressions once and caches the result; unlike typeOfName it carries
// no cycle risk, since a payload type expression can only name another
// struct/choice by identity, never recompute one.
func (tc *Checker) computeAlternativePayload(a *AlternativeDef) Tuple[Type] {
	if cached, ok := tc.alternativePayload[a]; ok {
		return cached
	}
	fields := make([]Field[Type], a.Payload.Len())
	for i, f := range a.Payload.Fields {
		fields[i] = Field[Type]{ID: f.ID, Value: tc.evalTypeExprAt(f.Value)}
	}
	t := Tuple[Type]{Fields: fields}
	tc.alternativePayload[a] = t
	return t
}

// structInitializerTypes is the labeled-by-member-name tuple type a
// struct call's argument tuple must match.
func (tc *Checker) structInitializerTypes(def *StructDefinition) Tuple[Type] {
	fields := make([]Field[Type], len(def.Members))
	for i, m := range def.Members {
		fields[i] = Field[Type]{ID: Labeled(m.Name), Value: tc.typeOfName(m)}
	}
	return Tuple[Type]{Fields: fields}
}

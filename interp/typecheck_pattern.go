package interp

// patternType is `patternType(p, rhs)` (§4.2). rhs is nil when no
// initializer/subject type is available (e.g. a function parameter
// pattern); passing nil through to a Variable pattern with `auto`
// produces the `No initializer available to deduce type for auto`
// diagnostic.
func (tc *Checker) patternType(p Pattern, rhs Type) Type {
	switch pv := p.(type) {
	case *AtomPattern:
		return tc.typeOfExpr(pv.Expr)
	case *VariablePattern:
		return tc.patternTypeVariable(pv, rhs)
	case *TuplePattern:
		return tc.patternTypeTuple(pv, rhs)
	case *CallPattern:
		return tc.patternTypeCall(pv, rhs)
	case *FunctionTypePattern:
		return tc.patternTypeFunctionType(pv)
	default:
		panicInternal(p.Site(), "patternType: unexpected pattern kind")
		return ErrorType{}
	}
}

func (tc *Checker) patternTypeVariable(pv *VariablePattern, rhs Type) Type {
	b := pv.Binding
	var t Type
	if et, ok := b.Declared.(ExplicitType); ok {
		t = tc.evalTypeExprAt(et.Expr)
	} else if rhs != nil {
		t = rhs
	} else {
		tc.diags.Errorf(pv.Site(), "No initializer available to deduce type for auto")
		t = ErrorType{}
	}
	tc.nameType[b] = t
	tc.nameState[b] = memoFinal
	return t
}

func (tc *Checker) patternTypeTuple(pv *TuplePattern, rhs Type) Type {
	var rhsShape Tuple[Type]
	if rt, ok := rhs.(TupleType); ok {
		rhsShape = rt.Elements
	}
	elems := tc.patternTupleTypes(pv.Elements, rhsShape)
	return TupleType{Elements: elems}
}

// patternTupleTypes types each element of a pattern tuple, threading the
// corresponding field (by FieldID) of rhsShape down as that element's
// rhs, or nil if rhsShape has no such field (or is itself empty).
func (tc *Checker) patternTupleTypes(args Tuple[Pattern], rhsShape Tuple[Type]) Tuple[Type] {
	out := make([]Field[Type], args.Len())
	for i, f := range args.Fields {
		var fieldRhs Type
		if rhsShape.Len() > 0 {
			fieldRhs, _ = rhsShape.Lookup(f.ID)
		}
		out[i] = Field[Type]{ID: f.ID, Value: tc.patternType(f.Value, fieldRhs)}
	}
	return Tuple[Type]{Fields: out}
}

func (tc *Checker) patternTypeCall(pv *CallPattern, _ Type) Type {
	calleeType := tc.typeOfExpr(pv.Callee)
	switch ct := calleeType.(type) {
	case TypeTType:
		v, ok := tc.evalCompileTimeType(pv.Callee)
		st, isStruct := v.(StructType)
		if !ok || !isStruct {
			tc.diags.Errorf(pv.Site(), "Called type must be a struct, not '%s'", describeTypeValue(v, ok))
			return ErrorType{}
		}
		initTypes := tc.structInitializerTypes(st.Def)
		argTypes := tc.patternTupleTypes(pv.Args, initTypes)
		if !tupleTypesEqual(argTypes, initTypes) {
			tc.diags.Errorf(pv.Site(), "Argument tuple type %s doesn't match struct initializer type %s",
				TupleType{Elements: argTypes}, TupleType{Elements: initTypes})
		}
		return st
	case AlternativeType:
		argTypes := tc.patternTupleTypes(pv.Args, ct.Payload)
		if !tupleTypesEqual(argTypes, ct.Payload) {
			tc.diags.Errorf(pv.Site(), "Argument tuple type %s doesn't match alternative payload type %s",
				TupleType{Elements: argTypes}, TupleType{Elements: ct.Payload})
		}
		return ChoiceType{Def: ct.Parent}
	default:
		if IsErrorType(calleeType) {
			return ErrorType{}
		}
		tc.diags.Errorf(pv.Site(), "instance of type %s is not callable", calleeType)
		return ErrorType{}
	}
}

func (tc *Checker) patternTypeFunctionType(pv *FunctionTypePattern) Type {
	for _, f := range pv.Params.Fields {
		t := tc.patternType(f.Value, nil)
		if !TypesEqual(t, TypeTType{}) && !IsErrorType(t) {
			tc.diags.Errorf(f.Value.Site(), "Pattern in this context must match type values, not %s values", t)
		}
	}
	rt := tc.patternType(pv.Return, nil)
	if !TypesEqual(rt, TypeTType{}) && !IsErrorType(rt) {
		tc.diags.Errorf(pv.Return.Site(), "Pattern in this context must match type values, not %s values", rt)
	}
	return TypeTType{}
}

// checkInitialization is the §4.2 "Initializer checking" rule, shared by
// top-level Initializations (driver step 4) and local `var` statements.
func (tc *Checker) checkInitialization(init *Initialization) {
	rhs := tc.typeOfExpr(init.Initializer)
	lhs := tc.patternType(init.Pattern, rhs)
	if !TypesEqual(lhs, rhs) && !IsErrorType(lhs) && !IsErrorType(rhs) {
		tc.diags.Errorf(init.Site(), "Pattern type %s does not match initializer type %s", lhs, rhs)
	}
}

// bodyCtx carries the context a statement needs from its enclosing
// function and loop: the function's return type (to check Return
// statements) and whether a loop encloses it (to validate Break/
// Continue, §4.3's "invalid outside loop body").
type bodyCtx struct {
	returnType Type
	inLoop     bool
}

func (tc *Checker) checkStmt(s Statement, ctx bodyCtx) {
	switch sv := s.(type) {
	case *ExprStmt:
		tc.typeOfExpr(sv.Expr)
	case *AssignStmt:
		tt := tc.typeOfExpr(sv.Target)
		st := tc.typeOfExpr(sv.Source)
		if !TypesEqual(tt, st) && !IsErrorType(tt) && !IsErrorType(st) {
			tc.diags.Errorf(sv.Site(), "Expected expression of type %s, not %s", tt, st)
		}
	case *InitStmt:
		tc.checkInitialization(sv.Init)
	case *IfStmt:
		ct := tc.typeOfExpr(sv.Cond)
		tc.requireType(sv.Cond.Site(), ct, BoolType{})
		tc.checkStmt(sv.Then, ctx)
		if sv.Else != nil {
			tc.checkStmt(sv.Else, ctx)
		}
	case *WhileStmt:
		ct := tc.typeOfExpr(sv.Cond)
		tc.requireType(sv.Cond.Site(), ct, BoolType{})
		tc.checkStmt(sv.Body, bodyCtx{returnType: ctx.returnType, inLoop: true})
	case *MatchStmt:
		subjectType := tc.typeOfExpr(sv.Subject)
		for _, c := range sv.Clauses {
			if c.Pattern != nil {
				tc.patternType(c.Pattern, subjectType)
			}
			tc.checkStmt(c.Body, ctx)
		}
	case *BreakStmt:
		if !ctx.inLoop {
			tc.diags.Errorf(sv.Site(), "invalid outside loop body")
		}
	case *ContinueStmt:
		if !ctx.inLoop {
			tc.diags.Errorf(sv.Site(), "invalid outside loop body")
		}
	case *ReturnStmt:
		var vt Type = TupleType{}
		if sv.Value != nil {
			vt = tc.typeOfExpr(sv.Value)
		}
		if !TypesEqual(vt, ctx.returnType) && !IsErrorType(ctx.returnType) && !IsErrorType(vt) {
			tc.diags.Errorf(sv.Site(), "Expected expression of type %s, not %s", ctx.returnType, vt)
		}
	case *BlockStmt:
		for _, stmt := range sv.Stmts {
			tc.checkStmt(stmt, ctx)
		}
	default:
		panicInternal(s.Site(), "checkStmt: unexpected statement kind")
	}
}

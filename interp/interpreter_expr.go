package interp

// evalExpr evaluates e within fr's environment, producing an address
// holding its value. Every case either returns an existing storage
// address (Name of a binding) or allocates fresh, ephemeral storage for
// a freshly-computed value; the caller is responsible for releasing
// the latter via releaseEphemeral once it is done reading it.
func (i *Interpreter) evalExpr(fr *frame, e Expression) (evalResult, error) {
	switch ev := e.(type) {
	case *NameExpr:
		return i.evalName(fr, ev)
	case *MemberAccessExpr:
		return i.evalMemberAccess(fr, ev)
	case *IndexExpr:
		return i.evalIndex(fr, ev)
	case *IntLit:
		addr := i.Memory.Allocate(IntType{}, false)
		i.Memory.Write(addr, IntValue{Value: ev.Value})
		return ephemeralResult(addr), nil
	case *BoolLit:
		addr := i.Memory.Allocate(BoolType{}, false)
		i.Memory.Write(addr, BoolValue{Value: ev.Value})
		return ephemeralResult(addr), nil
	case *TupleLit:
		return i.evalTupleLit(fr, ev)
	case *UnaryOpExpr:
		return i.evalUnary(fr, ev)
	case *BinaryOpExpr:
		return i.evalBinary(fr, ev)
	case *CallExpr:
		return i.evalCall(fr, ev)
	case *IntTypeExpr:
		return i.allocTypeValue(IntType{}), nil
	case *BoolTypeExpr:
		return i.allocTypeValue(BoolType{}), nil
	case *TypeTypeExpr:
		return i.allocTypeValue(TypeTType{}), nil
	case *FunctionTypeExprNode:
		return i.evalFunctionTypeExpr(fr, ev)
	default:
		panicInternal(e.Site(), "evalExpr: unexpected expression kind")
		return evalResult{}, nil
	}
}

func (i *Interpreter) allocTypeValue(t Type) evalResult {
	addr := i.Memory.Allocate(TypeTType{}, false)
	i.Memory.Write(addr, TypeValue{Value: t})
	return ephemeralResult(addr)
}

func (i *Interpreter) evalName(fr *frame, e *NameExpr) (evalResult, error) {
	switch def := e.Resolved.(type) {
	case *FunctionDefinition:
		sig := i.Program.Check.FunctionSignature[def]
		addr := i.Memory.Allocate(sig, false)
		i.Memory.Write(addr, FunctionValue{Def: def, Typ: sig})
		return ephemeralResult(addr), nil
	case *StructDefinition:
		return i.allocTypeValue(StructType{Def: def}), nil
	case *ChoiceDefinition:
		return i.allocTypeValue(ChoiceType{Def: def}), nil
	case *SimpleBinding:
		if addr, ok := fr.locals[def]; ok {
			return storageResult(addr), nil
		}
		addr, err := i.resolveGlobal(def)
		if err != nil {
			return evalResult{}, err
		}
		return storageResult(addr), nil
	default:
		panicInternal(e.Site(), "evalName: unresolved or unexpected definition")
		return evalResult{}, nil
	}
}

func (i *Interpreter) evalMemberAccess(fr *frame, e *MemberAccessExpr) (evalResult, error) {
	switch i.Program.StaticType(e.Base).(type) {
	case TupleType, StructType:
		baseRes, err := i.evalExpr(fr, e.Base)
		if err != nil {
			return evalResult{}, err
		}
		return projectResult(baseRes, Labeled(e.Member)), nil
	case TypeTType:
		chDef, alt := resolveAlternativeRef(e)
		payload := i.Program.Check.AlternativePayload[alt]
		typ := AlternativeType{Parent: chDef, Payload: payload}
		addr := i.Memory.Allocate(typ, false)
		i.Memory.Write(addr, AlternativeValue{Def: chDef, Alt: alt, Typ: typ})
		return ephemeralResult(addr), nil
	default:
		panicInternal(e.Site(), "evalMemberAccess: unexpected base type")
		return evalResult{}, nil
	}
}

// resolveAlternativeRef recovers the choice/alternative a `Choice.Alt`
// member access names, purely structurally — name resolution and type
// checking have already guaranteed the shape, so no evaluation is
// needed to know which alternative is meant.
func resolveAlternativeRef(e *MemberAccessExpr) (*ChoiceDefinition, *AlternativeDef) {
	name, ok := e.Base.(*NameExpr)
	if !ok {
		panicInternal(e.Site(), "resolveAlternativeRef: base is not a name")
	}
	def, ok := name.Resolved.(*ChoiceDefinition)
	if !ok {
		panicInternal(e.Site(), "resolveAlternativeRef: base does not resolve to a choice")
	}
	alt := def.Alternative(e.Member)
	if alt == nil {
		panicInternal(e.Site(), "resolveAlternativeRef: unknown alternative '"+e.Member+"'")
	}
	return def, alt
}

func (i *Interpreter) evalIndex(fr *frame, e *IndexExpr) (evalResult, error) {
	baseRes, err := i.evalExpr(fr, e.Target)
	if err != nil {
		return evalResult{}, err
	}
	n, ok := evalConstInt(e.Offset)
	if !ok {
		panicInternal(e.Site(), "evalIndex: offset is not a compile-time constant")
	}
	return projectResult(baseRes, Positional(n)), nil
}

func (i *Interpreter) evalTupleLit(fr *frame, e *TupleLit) (evalResult, error) {
	tt, ok := i.Program.StaticType(e).(TupleType)
	if !ok {
		panicInternal(e.Site(), "evalTupleLit: static type is not a tuple")
	}
	addr := i.Memory.Allocate(tt, false)
	i.Memory.BeginTuple(addr, tt.Elements)
	for _, f := range e.Elements.Fields {
		if err := i.evalExprInto(fr, f.Value, addr.Field(f.ID)); err != nil {
			i.Memory.Dealloc(addr)
			return evalResult{}, err
		}
	}
	return ephemeralResult(addr), nil
}

func (i *Interpreter) evalUnary(fr *frame, e *UnaryOpExpr) (evalResult, error) {
	operandRes, err := i.evalExpr(fr, e.Operand)
	if err != nil {
		return evalResult{}, err
	}
	switch e.Op {
	case UnaryNegate:
		v := i.Memory.Read(operandRes.Addr).(IntValue).Value
		i.releaseEphemeral(operandRes)
		addr := i.Memory.Allocate(IntType{}, false)
		i.Memory.Write(addr, IntValue{Value: -v})
		return ephemeralResult(addr), nil
	case UnaryNot:
		v := i.Memory.Read(operandRes.Addr).(BoolValue).Value
		i.releaseEphemeral(operandRes)
		addr := i.Memory.Allocate(BoolType{}, false)
		i.Memory.Write(addr, BoolValue{Value: !v})
		return ephemeralResult(addr), nil
	default:
		panicInternal(e.Site(), "evalUnary: unexpected operator")
		return evalResult{}, nil
	}
}

func (i *Interpreter) evalBinary(fr *frame, e *BinaryOpExpr) (evalResult, error) {
	switch e.Op {
	case BinaryAnd, BinaryOr:
		return i.evalShortCircuit(fr, e)
	case BinaryEq:
		lhsRes, err := i.evalExpr(fr, e.LHS)
		if err != nil {
			return evalResult{}, err
		}
		rhsRes, err := i.evalExpr(fr, e.RHS)
		if err != nil {
			i.releaseEphemeral(lhsRes)
			return evalResult{}, err
		}
		eq := ValuesEqual(i.Memory.Read(lhsRes.Addr), i.Memory.Read(rhsRes.Addr))
		i.releaseEphemeral(lhsRes)
		i.releaseEphemeral(rhsRes)
		addr := i.Memory.Allocate(BoolType{}, false)
		i.Memory.Write(addr, BoolValue{Value: eq})
		return ephemeralResult(addr), nil
	case BinaryAdd, BinarySub:
		lhsRes, err := i.evalExpr(fr, e.LHS)
		if err != nil {
			return evalResult{}, err
		}
		rhsRes, err := i.evalExpr(fr, e.RHS)
		if err != nil {
			i.releaseEphemeral(lhsRes)
			return evalResult{}, err
		}
		lv := i.Memory.Read(lhsRes.Addr).(IntValue).Value
		rv := i.Memory.Read(rhsRes.Addr).(IntValue).Value
		i.releaseEphemeral(lhsRes)
		i.releaseEphemeral(rhsRes)
		var result int64
		if e.Op == BinaryAdd {
			result = lv + rv
		} else {
			result = lv - rv
		}
		addr := i.Memory.Allocate(IntType{}, false)
		i.Memory.Write(addr, IntValue{Value: result})
		return ephemeralResult(addr), nil
	default:
		panicInternal(e.Site(), "evalBinary: unexpected operator")
		return evalResult{}, nil
	}
}

// evalShortCircuit implements `and`/`or` without evaluating the RHS
// unless the LHS leaves the outcome undetermined.
func (i *Interpreter) evalShortCircuit(fr *frame, e *BinaryOpExpr) (evalResult, error) {
	lhsRes, err := i.evalExpr(fr, e.LHS)
	if err != nil {
		return evalResult{}, err
	}
	lv := i.Memory.Read(lhsRes.Addr).(BoolValue).Value
	i.releaseEphemeral(lhsRes)

	shortCircuits := (e.Op == BinaryAnd && !lv) || (e.Op == BinaryOr && lv)
	if shortCircuits {
		addr := i.Memory.Allocate(BoolType{}, false)
		i.Memory.Write(addr, BoolValue{Value: lv})
		return ephemeralResult(addr), nil
	}
	rhsRes, err := i.evalExpr(fr, e.RHS)
	if err != nil {
		return evalResult{}, err
	}
	rv := i.Memory.Read(rhsRes.Addr).(BoolValue).Value
	i.releaseEphemeral(rhsRes)
	addr := i.Memory.Allocate(BoolType{}, false)
	i.Memory.Write(addr, BoolValue{Value: rv})
	return ephemeralResult(addr), nil
}

func (i *Interpreter) evalCall(fr *frame, e *CallExpr) (evalResult, error) {
	switch ct := i.Program.StaticType(e.Callee).(type) {
	case FunctionType:
		return i.evalFunctionCall(fr, e, ct)
	case AlternativeType:
		return i.evalAlternativeCall(fr, e, ct)
	case TypeTType:
		return i.evalStructCall(fr, e)
	default:
		panicInternal(e.Site(), "evalCall: uncallable static type")
		return evalResult{}, nil
	}
}

func (i *Interpreter) evalFunctionCall(fr *frame, e *CallExpr, ct FunctionType) (evalResult, error) {
	calleeRes, err := i.evalExpr(fr, e.Callee)
	if err != nil {
		return evalResult{}, err
	}
	fnVal := i.Memory.Read(calleeRes.Addr).(FunctionValue)
	i.releaseEphemeral(calleeRes)

	argAddrs := make([]Address, e.Args.Len())
	argResults := make([]evalResult, 0, e.Args.Len())
	for idx, f := range e.Args.Fields {
		r, err := i.evalExpr(fr, f.Value)
		if err != nil {
			for _, done := range argResults {
				i.releaseEphemeral(done)
			}
			return evalResult{}, err
		}
		argResults = append(argResults, r)
		argAddrs[idx] = r.Addr
	}

	dest := i.Memory.Allocate(ct.Return, false)
	callErr := i.callUserFunction(fnVal.Def, argAddrs, dest)
	for _, r := range argResults {
		i.releaseEphemeral(r)
	}
	if callErr != nil {
		i.Memory.Dealloc(dest)
		return evalResult{}, callErr
	}
	return ephemeralResult(dest), nil
}

func (i *Interpreter) evalAlternativeCall(fr *frame, e *CallExpr, ct AlternativeType) (evalResult, error) {
	ma, ok := e.Callee.(*MemberAccessExpr)
	if !ok {
		panicInternal(e.Site(), "evalAlternativeCall: callee is not a member access")
	}
	chDef, alt := resolveAlternativeRef(ma)
	dest := i.Memory.Allocate(ChoiceType{Def: chDef}, false)
	i.Memory.BeginChoice(dest, chDef, alt, ct.Payload)
	for _, f := range e.Args.Fields {
		if err := i.evalExprInto(fr, f.Value, dest.Field(f.ID)); err != nil {
			i.Memory.Dealloc(dest)
			return evalResult{}, err
		}
	}
	return ephemeralResult(dest), nil
}

func (i *Interpreter) evalStructCall(fr *frame, e *CallExpr) (evalResult, error) {
	calleeRes, err := i.evalExpr(fr, e.Callee)
	if err != nil {
		return evalResult{}, err
	}
	tv := i.Memory.Read(calleeRes.Addr).(TypeValue)
	i.releaseEphemeral(calleeRes)
	st, ok := tv.Value.(StructType)
	if !ok {
		panicInternal(e.Site(), "evalStructCall: callee type value is not a struct")
	}
	memberTypes := i.Program.structMemberTypeTuple(st.Def)
	dest := i.Memory.Allocate(st, false)
	i.Memory.BeginStruct(dest, st.Def, memberTypes)
	for _, f := range e.Args.Fields {
		if err := i.evalExprInto(fr, f.Value, dest.Field(f.ID)); err != nil {
			i.Memory.Dealloc(dest)
			return evalResult{}, err
		}
	}
	return ephemeralResult(dest), nil
}

func (i *Interpreter) evalFunctionTypeExpr(fr *frame, e *FunctionTypeExprNode) (evalResult, error) {
	params := make([]Field[Type], e.Params.Len())
	for idx, f := range e.Params.Fields {
		t, err := i.evalPatternAsTypeRuntime(fr, f.Value)
		if err != nil {
			return evalResult{}, err
		}
		params[idx] = Field[Type]{ID: f.ID, Value: t}
	}
	ret, err := i.evalPatternAsTypeRuntime(fr, e.Return)
	if err != nil {
		return evalResult{}, err
	}
	return i.allocTypeValue(FunctionType{Params: Tuple[Type]{Fields: params}, Return: ret}), nil
}

// evalPatternAsTypeRuntime mirrors the checker's evalPatternAsType: only
// an AtomPattern wrapping a type expression is supported in a function
// type's parameter/return position, matching the deliberately narrow
// compile-time-type subset (§9).
func (i *Interpreter) evalPatternAsTypeRuntime(fr *frame, p Pattern) (Type, error) {
	ap, ok := p.(*AtomPattern)
	if !ok {
		panicInternal(p.Site(), "evalPatternAsTypeRuntime: unsupported pattern in function-type position")
	}
	r, err := i.evalExpr(fr, ap.Expr)
	if err != nil {
		return nil, err
	}
	tv := i.Memory.Read(r.Addr).(TypeValue)
	i.releaseEphemeral(r)
	return tv.Value, nil
}

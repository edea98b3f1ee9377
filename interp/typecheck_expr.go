package interp

// typeOfExpr is `type(e)` (§4.2): demand-driven, memoized per Expression
// identity.
func (tc *Checker) typeOfExpr(e Expression) Type {
	if t, ok := tc.staticType[e]; ok {
		return t
	}
	t := tc.computeTypeOfExpr(e)
	tc.staticType[e] = t
	return t
}

func (tc *Checker) computeTypeOfExpr(e Expression) Type {
	switch ev := e.(type) {
	case *NameExpr:
		return tc.typeOfNameExpr(ev)
	case *MemberAccessExpr:
		return tc.typeOfMemberAccess(ev)
	case *IndexExpr:
		return tc.typeOfIndex(ev)
	case *IntLit:
		return IntType{}
	case *BoolLit:
		return BoolType{}
	case *TupleLit:
		elems, _ := MapTuple(ev.Elements, func(_ FieldID, sub Expression) (Type, error) {
			return tc.typeOfExpr(sub), nil
		})
		return TupleType{Elements: elems}
	case *UnaryOpExpr:
		return tc.typeOfUnary(ev)
	case *BinaryOpExpr:
		return tc.typeOfBinary(ev)
	case *CallExpr:
		return tc.typeOfCall(ev)
	case *IntTypeExpr, *BoolTypeExpr, *TypeTypeExpr:
		return TypeTType{}
	case *FunctionTypeExprNode:
		return tc.typeOfFunctionTypeExpr(ev)
	default:
		panicInternal(e.Site(), "computeTypeOfExpr: unexpected expression kind")
		return ErrorType{}
	}
}

func (tc *Checker) typeOfNameExpr(e *NameExpr) Type {
	if e.Resolved == nil {
		return ErrorType{} // already reported by name resolution.
	}
	switch def := e.Resolved.(type) {
	case *FunctionDefinition:
		return tc.typeOfName(def)
	case *StructDefinition, *ChoiceDefinition:
		return TypeTType{}
	case *SimpleBinding:
		return tc.typeOfName(def)
	default:
		panicInternal(e.Site(), "typeOfNameExpr: unexpected definition kind")
		return ErrorType{}
	}
}

func (tc *Checker) typeOfMemberAccess(e *MemberAccessExpr) Type {
	baseType := tc.typeOfExpr(e.Base)
	switch bt := baseType.(type) {
	case TupleType:
		t, ok := bt.Elements.Lookup(Labeled(e.Member))
		if !ok {
			tc.diags.Errorf(e.Site(), "tuple type %s has no field '%s'", bt, e.Member)
			return ErrorType{}
		}
		return t
	case StructType:
		m := bt.Def.Member(e.Member)
		if m == nil {
			tc.diags.Errorf(e.Site(), "struct %s has no member '%s'", bt.Def.NameVal, e.Member)
			return ErrorType{}
		}
		return tc.typeOfName(m)
	case TypeTType:
		v, ok := tc.evalCompileTimeType(e.Base)
		ct, isChoice := v.(ChoiceType)
		if !ok || !isChoice {
			tc.diags.Errorf(e.Site(), "expression of type %s does not have named members", baseType)
			return ErrorType{}
		}
		alt := ct.Def.Alternative(e.Member)
		if alt == nil {
			tc.diags.Errorf(e.Site(), "choice %s has no alternative '%s'", ct.Def.NameVal, e.Member)
			return ErrorType{}
		}
		payload := tc.computeAlternativePayload(alt)
		return AlternativeType{Parent: ct.Def, Payload: payload}
	default:
		if IsErrorType(baseType) {
			return ErrorType{}
		}
		tc.diags.Errorf(e.Site(), "expression of type %s does not have named members", baseType)
		return ErrorType{}
	}
}

func (tc *Checker) typeOfIndex(e *IndexExpr) Type {
	baseType := tc.typeOfExpr(e.Target)
	offType := tc.typeOfExpr(e.Offset)
	if !TypesEqual(offType, IntType{}) && !IsErrorType(offType) {
		tc.diags.Errorf(e.Offset.Site(), "Expected expression of type Int, not %s", offType)
	}
	tt, ok := baseType.(TupleType)
	if !ok {
		if !IsErrorType(baseType) {
			tc.diags.Errorf(e.Site(), "expression of type %s does not have named members", baseType)
		}
		return ErrorType{}
	}
	n, ok := evalConstInt(e.Offset)
	if !ok {
		return ErrorType{}
	}
	v, ok := tt.Elements.Lookup(Positional(n))
	if !ok {
		tc.diags.Errorf(e.Site(), "Tuple type %s has no value at position %d", tt, n)
		return ErrorType{}
	}
	return v
}

// evalConstInt const-folds the small subset of expressions that can
// appear as a compile-time-evaluated tuple index: integer literals and
// their unary negation.
func evalConstInt(e Expression) (int, bool) {
	switch ev := e.(type) {
	case *IntLit:
		return int(ev.Value), true
	case *UnaryOpExpr:
		if ev.Op == UnaryNegate {
			if n, ok := evalConstInt(ev.Operand); ok {
				return -n, true
			}
		}
	}
	return 0, false
}

func (tc *Checker) typeOfUnary(e *UnaryOpExpr) Type {
	ot := tc.typeOfExpr(e.Operand)
	switch e.Op {
	case UnaryNegate:
		if !TypesEqual(ot, IntType{}) {
			if !IsErrorType(ot) {
				tc.diags.Errorf(e.Site(), "Expected expression of type Int, not %s", ot)
			}
			return ErrorType{}
		}
		return IntType{}
	case UnaryNot:
		if !TypesEqual(ot, BoolType{}) {
			if !IsErrorType(ot) {
				tc.diags.Errorf(e.Site(), "Expected expression of type Bool, not %s", ot)
			}
			return ErrorType{}
		}
		return BoolType{}
	default:
		panicInternal(e.Site(), "typeOfUnary: unexpected operator")
		return ErrorType{}
	}
}

func (tc *Checker) typeOfBinary(e *BinaryOpExpr) Type {
	lt := tc.typeOfExpr(e.LHS)
	rt := tc.typeOfExpr(e.RHS)
	switch e.Op {
	case BinaryEq:
		if !TypesEqual(lt, rt) && !IsErrorType(lt) && !IsErrorType(rt) {
			tc.diags.Errorf(e.Site(), "Expected expression of type %s, not %s", lt, rt)
		}
		return BoolType{}
	case BinaryAdd, BinarySub:
		tc.requireType(e.LHS.Site(), lt, IntType{})
		tc.requireType(e.RHS.Site(), rt, IntType{})
		return IntType{}
	case BinaryAnd, BinaryOr:
		tc.requireType(e.LHS.Site(), lt, BoolType{})
		tc.requireType(e.RHS.Site(), rt, BoolType{})
		return BoolType{}
	default:
		panicInternal(e.Site(), "typeOfBinary: unexpected operator")
		return ErrorType{}
	}
}

func (tc *Checker) requireType(site SourceRegion, got, want Type) {
	if !TypesEqual(got, want) && !IsErrorType(got) {
		tc.diags.Errorf(site, "Expected expression of type %s, not %s", want, got)
	}
}

func (tc *Checker) typeOfCall(e *CallExpr) Type {
	calleeType := tc.typeOfExpr(e.Callee)
	argTypes, _ := MapTuple(e.Args, func(_ FieldID, a Expression) (Type, error) {
		return tc.typeOfExpr(a), nil
	})
	switch ct := calleeType.(type) {
	case FunctionType:
		if !tupleTypesEqual(argTypes, ct.Params) {
			tc.diags.Errorf(e.Site(), "argument types %s do not match parameter types %s",
				TupleType{Elements: argTypes}, TupleType{Elements: ct.Params})
		}
		return ct.Return
	case AlternativeType:
		if !tupleTypesEqual(argTypes, ct.Payload) {
			tc.diags.Errorf(e.Site(), "argument types %s do not match payload type %s",
				TupleType{Elements: argTypes}, TupleType{Elements: ct.Payload})
		}
		return ChoiceType{Def: ct.Parent}
	case TypeTType:
		v, ok := tc.evalCompileTimeType(e.Callee)
		st, isStruct := v.(StructType)
		if !ok || !isStruct {
			tc.diags.Errorf(e.Site(), "type %s is not callable.", describeTypeValue(v, ok))
			return ErrorType{}
		}
		initTypes := tc.structInitializerTypes(st.Def)
		if !tupleTypesEqual(argTypes, initTypes) {
			tc.diags.Errorf(e.Site(), "argument types %s do not match parameter types %s",
				TupleType{Elements: argTypes}, TupleType{Elements: initTypes})
		}
		return st
	default:
		if IsErrorType(calleeType) {
			return ErrorType{}
		}
		tc.diags.Errorf(e.Site(), "value of type %s is not callable.", calleeType)
		return ErrorType{}
	}
}

func describeTypeValue(v Type, ok bool) string {
	if !ok || v == nil {
		return "<unknown>"
	}
	return v.String()
}

func (tc *Checker) typeOfFunctionTypeExpr(e *FunctionTypeExprNode) Type {
	for _, f := range e.Params.Fields {
		t := tc.patternType(f.Value, nil)
		if !TypesEqual(t, TypeTType{}) && !IsErrorType(t) {
			tc.diags.Errorf(f.Value.Site(), "Pattern in this context must match type values, not %s values", t)
		}
	}
	rt := tc.patternType(e.Return, nil)
	if !TypesEqual(rt, TypeTType{}) && !IsErrorType(rt) {
		tc.diags.Errorf(e.Return.Site(), "Pattern in this context must match type values, not %s values", rt)
	}
	return TypeTType{}
}

// evalTypeExprAt requires e to be a type expression (type(e) == TypeT)
// and evaluates it to the Type it denotes, reporting `Not a type
// expression` otherwise (§4.2, "Type-expression evaluation").
func (tc *Checker) evalTypeExprAt(e Expression) Type {
	t := tc.typeOfExpr(e)
	if !TypesEqual(t, TypeTType{}) {
		if !IsErrorType(t) {
			tc.diags.Errorf(e.Site(), "Not a type expression (value has type %s)", t)
		}
		return ErrorType{}
	}
	v, ok := tc.evalCompileTimeType(e)
	if !ok {
		tc.diags.Errorf(e.Site(), "Not a type expression (value has type %s)", t)
		return ErrorType{}
	}
	return v
}

// evalCompileTimeType is the compile-time subset of the interpreter
// (§4.2, §9): literal types, type constructors (Tuple/FunctionType of
// types), and Name referring to a type declaration. Anything requiring
// a general compile-time Call is explicitly deferred, per the design
// note in §9 ("defer full compile-time Call to a post-MVP milestone") —
// see DESIGN.md.
func (tc *Checker) evalCompileTimeType(e Expression) (Type, bool) {
	switch ev := e.(type) {
	case *IntTypeExpr:
		return IntType{}, true
	case *BoolTypeExpr:
		return BoolType{}, true
	case *TypeTypeExpr:
		return TypeTType{}, true
	case *NameExpr:
		switch d := ev.Resolved.(type) {
		case *StructDefinition:
			return StructType{Def: d}, true
		case *ChoiceDefinition:
			return ChoiceType{Def: d}, true
		default:
			return nil, false
		}
	case *TupleLit:
		fields := make([]Field[Type], ev.Elements.Len())
		for i, f := range ev.Elements.Fields {
			t, ok := tc.evalCompileTimeType(f.Value)
			if !ok {
				return nil, false
			}
			fields[i] = Field[Type]{ID: f.ID, Value: t}
		}
		return TupleType{Elements: Tuple[Type]{Fields: fields}}, true
	case *FunctionTypeExprNode:
		params := make([]Field[Type], ev.Params.Len())
		for i, f := range ev.Params.Fields {
			t, ok := tc.evalPatternAsType(f.Value)
			if !ok {
				return nil, false
			}
			params[i] = Field[Type]{ID: f.ID, Value: t}
		}
		ret, ok := tc.evalPatternAsType(ev.Return)
		if !ok {
			return nil, false
		}
		return FunctionType{Params: Tuple[Type]{Fields: params}, Return: ret}, true
	default:
		return nil, false
	}
}

func (tc *Checker) evalPatternAsType(p Pattern) (Type, bool) {
	if ap, ok := p.(*AtomPattern); ok {
		return tc.evalCompileTimeType(ap.Expr)
	}
	return nil, false
}

package interp

// matchPattern tests p against the value at addr, calling bind for
// every VariablePattern it matches through along the way. It returns
// false (with no error) for an ordinary refutation — a literal Atom
// that doesn't equal the value, or a Call pattern naming the wrong
// alternative — and an error only for a genuine runtime failure
// encountered while evaluating one of p's embedded expressions.
//
// Unlike the type checker's patternType, matchPattern never needs a
// separately threaded expected type: the value already stored at addr
// carries its own dynamic type, so dispatch on the concrete Value
// variant is enough (§4.3).
func (i *Interpreter) matchPattern(fr *frame, bind func(*SimpleBinding, Address), p Pattern, addr Address) (bool, error) {
	switch pv := p.(type) {
	case *AtomPattern:
		r, err := i.evalExpr(fr, pv.Expr)
		if err != nil {
			return false, err
		}
		eq := ValuesEqual(i.Memory.Read(r.Addr), i.Memory.Read(addr))
		i.releaseEphemeral(r)
		return eq, nil

	case *VariablePattern:
		bind(pv.Binding, addr)
		return true, nil

	case *TuplePattern:
		for _, f := range pv.Elements.Fields {
			matched, err := i.matchPattern(fr, bind, f.Value, addr.Field(f.ID))
			if err != nil {
				return false, err
			}
			if !matched {
				return false, nil
			}
		}
		return true, nil

	case *CallPattern:
		return i.matchCallPattern(fr, bind, pv, addr)

	case *FunctionTypePattern:
		return i.matchFunctionTypePattern(fr, bind, pv, addr)

	default:
		panicInternal(p.Site(), "matchPattern: unexpected pattern kind")
		return false, nil
	}
}

func (i *Interpreter) matchCallPattern(fr *frame, bind func(*SimpleBinding, Address), pv *CallPattern, addr Address) (bool, error) {
	switch v := i.Memory.Read(addr).(type) {
	case ChoiceValue:
		ma, ok := pv.Callee.(*MemberAccessExpr)
		if !ok {
			panicInternal(pv.Site(), "matchCallPattern: callee is not a member access")
		}
		_, alt := resolveAlternativeRef(ma)
		if v.Alt != alt {
			return false, nil
		}
		for _, f := range pv.Args.Fields {
			matched, err := i.matchPattern(fr, bind, f.Value, addr.Field(f.ID))
			if err != nil {
				return false, err
			}
			if !matched {
				return false, nil
			}
		}
		return true, nil

	case StructValue:
		for _, f := range pv.Args.Fields {
			matched, err := i.matchPattern(fr, bind, f.Value, addr.Field(f.ID))
			if err != nil {
				return false, err
			}
			if !matched {
				return false, nil
			}
		}
		return true, nil

	default:
		panicInternal(pv.Site(), "matchCallPattern: value is neither a choice nor a struct")
		return false, nil
	}
}

// matchFunctionTypePattern supports the same narrow subset of function
// type patterns as the checker's compile-time-type evaluator (§9):
// Atom leaves compare a type value for equality, Variable leaves bind
// the corresponding parameter/return type as a first-class Type value.
func (i *Interpreter) matchFunctionTypePattern(fr *frame, bind func(*SimpleBinding, Address), pv *FunctionTypePattern, addr Address) (bool, error) {
	tv, ok := i.Memory.Read(addr).(TypeValue)
	if !ok {
		return false, nil
	}
	ft, ok := tv.Value.(FunctionType)
	if !ok {
		return false, nil
	}
	for _, f := range pv.Params.Fields {
		pt, ok := ft.Params.Lookup(f.ID)
		if !ok {
			return false, nil
		}
		matched, err := i.matchTypePattern(fr, bind, f.Value, pt)
		if err != nil {
			return false, err
		}
		if !matched {
			return false, nil
		}
	}
	return i.matchTypePattern(fr, bind, pv.Return, ft.Return)
}

func (i *Interpreter) matchTypePattern(fr *frame, bind func(*SimpleBinding, Address), p Pattern, t Type) (bool, error) {
	switch pv := p.(type) {
	case *AtomPattern:
		r, err := i.evalExpr(fr, pv.Expr)
		if err != nil {
			return false, err
		}
		tv, ok := i.Memory.Read(r.Addr).(TypeValue)
		i.releaseEphemeral(r)
		return ok && TypesEqual(tv.Value, t), nil
	case *VariablePattern:
		addr := i.Memory.Allocate(TypeTType{}, false)
		i.Memory.Write(addr, TypeValue{Value: t})
		fr.persistent = append(fr.persistent, addr)
		bind(pv.Binding, addr)
		return true, nil
	default:
		panicInternal(p.Site(), "matchTypePattern: unsupported nested pattern kind")
		return false, nil
	}
}

package interp

// execStmt executes one statement in fr and reports how control left it:
// ctrlNormal to keep going, or a signal for the nearest enclosing
// handler (loop for Break/Continue, function body for Return).
func (i *Interpreter) execStmt(fr *frame, s Statement) (ctrl, error) {
	if i.Trace != nil {
		i.Trace.OnStep(s.Site(), stmtKind(s))
	}
	switch sv := s.(type) {
	case *ExprStmt:
		r, err := i.evalExpr(fr, sv.Expr)
		if err != nil {
			return ctrlNormal, err
		}
		i.releaseEphemeral(r)
		return ctrlNormal, nil

	case *AssignStmt:
		targetRes, err := i.evalExpr(fr, sv.Target)
		if err != nil {
			return ctrlNormal, err
		}
		srcRes, err := i.evalExpr(fr, sv.Source)
		if err != nil {
			return ctrlNormal, err
		}
		i.Memory.Write(targetRes.Addr, i.Memory.Read(srcRes.Addr))
		i.releaseEphemeral(srcRes)
		return ctrlNormal, nil

	case *InitStmt:
		return i.execInit(fr, sv.Init)

	case *IfStmt:
		condRes, err := i.evalExpr(fr, sv.Cond)
		if err != nil {
			return ctrlNormal, err
		}
		cond := i.Memory.Read(condRes.Addr).(BoolValue).Value
		i.releaseEphemeral(condRes)
		if cond {
			mark := len(fr.persistent)
			c, err := i.execStmt(fr, sv.Then)
			i.reclaimTo(fr, mark)
			return c, err
		}
		if sv.Else != nil {
			mark := len(fr.persistent)
			c, err := i.execStmt(fr, sv.Else)
			i.reclaimTo(fr, mark)
			return c, err
		}
		return ctrlNormal, nil

	case *WhileStmt:
		for {
			condRes, err := i.evalExpr(fr, sv.Cond)
			if err != nil {
				return ctrlNormal, err
			}
			cond := i.Memory.Read(condRes.Addr).(BoolValue).Value
			i.releaseEphemeral(condRes)
			if !cond {
				return ctrlNormal, nil
			}
			mark := len(fr.persistent)
			c, err := i.execStmt(fr, sv.Body)
			if err != nil {
				i.reclaimTo(fr, mark)
				return ctrlNormal, err
			}
			i.reclaimTo(fr, mark)
			switch c {
			case ctrlBreak:
				return ctrlNormal, nil
			case ctrlReturn:
				return ctrlReturn, nil
			}
		}

	case *MatchStmt:
		return i.execMatch(fr, sv)

	case *BreakStmt:
		return ctrlBreak, nil

	case *ContinueStmt:
		return ctrlContinue, nil

	case *ReturnStmt:
		if sv.Value == nil {
			i.Memory.Write(fr.resultAddress, TupleValue{})
			return ctrlReturn, nil
		}
		valRes, err := i.evalExpr(fr, sv.Value)
		if err != nil {
			return ctrlNormal, err
		}
		i.Memory.Write(fr.resultAddress, i.Memory.Read(valRes.Addr))
		i.releaseEphemeral(valRes)
		return ctrlReturn, nil

	case *BlockStmt:
		mark := len(fr.persistent)
		for _, stmt := range sv.Stmts {
			c, err := i.execStmt(fr, stmt)
			if err != nil {
				i.reclaimTo(fr, mark)
				return ctrlNormal, err
			}
			if c != ctrlNormal {
				i.reclaimTo(fr, mark)
				return c, nil
			}
		}
		i.reclaimTo(fr, mark)
		return ctrlNormal, nil

	default:
		panicInternal(s.Site(), "execStmt: unexpected statement kind")
		return ctrlNormal, nil
	}
}

func (i *Interpreter) execInit(fr *frame, init *Initialization) (ctrl, error) {
	rhsRes, err := i.evalExpr(fr, init.Initializer)
	if err != nil {
		return ctrlNormal, err
	}
	dest := i.Memory.Allocate(i.Memory.Type(rhsRes.Addr), true)
	i.Memory.Write(dest, i.Memory.Read(rhsRes.Addr))
	i.releaseEphemeral(rhsRes)
	fr.persistent = append(fr.persistent, dest)
	matched, err := i.matchPattern(fr, fr.localBind(), init.Pattern, dest)
	if err != nil {
		return ctrlNormal, err
	}
	if !matched {
		return ctrlNormal, runtimeErrorf(init.Site(), "pattern did not match its initializer")
	}
	return ctrlNormal, nil
}

func (i *Interpreter) execMatch(fr *frame, sv *MatchStmt) (ctrl, error) {
	subjRes, err := i.evalExpr(fr, sv.Subject)
	if err != nil {
		return ctrlNormal, err
	}
	defer i.releaseEphemeral(subjRes)

	for _, c := range sv.Clauses {
		if c.Pattern == nil {
			return i.execStmt(fr, c.Body)
		}
		matched, err := i.matchPattern(fr, fr.localBind(), c.Pattern, subjRes.Addr)
		if err != nil {
			return ctrlNormal, err
		}
		if matched {
			return i.execStmt(fr, c.Body)
		}
	}
	return ctrlNormal, runtimeErrorf(sv.Site(), "no pattern matched in match")
}

func stmtKind(s Statement) string {
	switch s.(type) {
	case *ExprStmt:
		return "expr"
	case *AssignStmt:
		return "assign"
	case *InitStmt:
		return "init"
	case *IfStmt:
		return "if"
	case *WhileStmt:
		return "while"
	case *MatchStmt:
		return "match"
	case *BreakStmt:
		return "break"
	case *ContinueStmt:
		return "continue"
	case *ReturnStmt:
		return "return"
	case *BlockStmt:
		return "block"
	default:
		return "?"
	}
}

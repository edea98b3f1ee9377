package syntax

import "carbonc/interp"

// parsePattern parses one pattern. Which concrete shape is legal in a
// given position is left to name resolution and the checker to enforce
// (§4.1/§4.2 already reject, e.g., a bare non-binding name used where a
// VariablePattern is expected); the grammar accepts all five shapes
// uniformly everywhere a pattern is expected.
func (p *Parser) parsePattern() interp.Pattern {
	switch p.cur().Type {
	case TokenInt, TokenTrue, TokenFalse:
		start := p.cur()
		e := p.parsePrimary()
		return &interp.AtomPattern{SpanVal: p.region(start, start), Expr: e}

	case TokenFnty:
		return p.parseFunctionTypePattern()

	case TokenLParen:
		return p.parseTuplePattern()

	case TokenIdent:
		return p.parseNameOrCallPattern()

	default:
		p.errorf("expected a pattern, got %s %q", p.cur().Type, p.cur().Literal)
		tok := p.advance()
		return &interp.VariablePattern{SpanVal: p.region(tok, tok), Binding: &interp.SimpleBinding{
			SpanVal: p.region(tok, tok), Name: "<error>", Declared: interp.AutoType{SpanVal: p.region(tok, tok)},
		}}
	}
}

// parseNameOrCallPattern disambiguates, from a leading identifier: a
// plain VariablePattern (optionally `: Type`-annotated), or a
// CallPattern whose callee is a name or a dotted member-access chain
// (`Choice.Alt(...)`) naming a struct initializer or choice alternative.
func (p *Parser) parseNameOrCallPattern() interp.Pattern {
	start := p.cur()
	callee := p.parseDesignator()
	if p.at(TokenLParen) {
		p.advance()
		args := p.parsePatternArgList(TokenRParen)
		end := p.expect(TokenRParen)
		return &interp.CallPattern{SpanVal: p.region(start, end), Callee: callee, Args: args}
	}
	name, ok := callee.(*interp.NameExpr)
	if !ok {
		p.errorf("a dotted name may only appear as a pattern when called, got %s", p.file)
		return &interp.AtomPattern{SpanVal: callee.Site(), Expr: callee}
	}
	var declared interp.DeclaredType = interp.AutoType{SpanVal: name.Site()}
	end := start
	if p.at(TokenColon) {
		p.advance()
		declared = interp.ExplicitType{Expr: p.parseTypeExpr()}
		end = p.toks[p.pos-1]
	}
	binding := &interp.SimpleBinding{SpanVal: name.Site(), Name: name.Name, Declared: declared}
	return &interp.VariablePattern{SpanVal: p.region(start, end), Binding: binding}
}

// parseDesignator parses a bare name or a `.member` chain of them,
// without allowing a call — the callee grammar shared by expressions
// and call patterns.
func (p *Parser) parseDesignator() interp.Expression {
	start := p.expect(TokenIdent)
	var e interp.Expression = &interp.NameExpr{SpanVal: p.region(start, start), Name: start.Literal}
	for p.at(TokenDot) {
		p.advance()
		member := p.expect(TokenIdent)
		e = &interp.MemberAccessExpr{SpanVal: p.region(start, member), Base: e, Member: member.Literal}
	}
	return e
}

func (p *Parser) parseTuplePattern() interp.Pattern {
	start := p.expect(TokenLParen)
	fields := p.parsePatternArgList(TokenRParen)
	end := p.expect(TokenRParen)
	return &interp.TuplePattern{SpanVal: p.region(start, end), Elements: fields}
}

// parsePatternArgList parses a comma-separated, optionally
// `.label =`-prefixed list of patterns, used for both CallPattern
// arguments and TuplePattern elements.
func (p *Parser) parsePatternArgList(closing TokenType) interp.Tuple[interp.Pattern] {
	var fields []interp.Field[interp.Pattern]
	pos := 0
	for !p.at(closing) && !p.at(TokenEOF) {
		id, hasLabel := p.tryParsePatternFieldLabel()
		val := p.parsePattern()
		if !hasLabel {
			id = interp.Positional(pos)
			pos++
		}
		fields = append(fields, interp.Field[interp.Pattern]{ID: id, Value: val})
		if p.at(TokenComma) {
			p.advance()
			continue
		}
		break
	}
	return interp.Tuple[interp.Pattern]{Fields: fields}
}

func (p *Parser) tryParsePatternFieldLabel() (interp.FieldID, bool) {
	if p.at(TokenDot) && p.peek(1).Type == TokenIdent && p.peek(2).Type == TokenAssign {
		p.advance()
		name := p.advance()
		p.advance()
		return interp.Labeled(name.Literal), true
	}
	return interp.FieldID{}, false
}

// parsePatternList parses a bare comma-separated list of patterns with
// no surrounding delimiter of its own (the caller has already consumed
// the opening delimiter) — shared by function parameter lists and
// fnty(...) parameter lists, both of which use `name: Type` patterns.
func (p *Parser) parsePatternList(closing TokenType) interp.Tuple[interp.Pattern] {
	return p.parsePatternArgList(closing)
}

func (p *Parser) parseFunctionTypePattern() interp.Pattern {
	start := p.expect(TokenFnty)
	p.expect(TokenLParen)
	params := p.parsePatternList(TokenRParen)
	p.expect(TokenRParen)
	p.expect(TokenArrow)
	ret := p.parsePattern()
	return &interp.FunctionTypePattern{SpanVal: spanOf(p, start, ret), Params: params, Return: ret}
}

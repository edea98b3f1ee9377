package syntax

import (
	"strconv"

	"carbonc/interp"
)

// ---------------------------------------------------------------------
// Expressions
//
// Precedence, loosest to tightest: or, and, ==, (+ -), unary (- not),
// postfix (. [] ()), primary. There is no explicit grammar in the
// semantics this parser serves (it specifies an AST, not concrete
// syntax); this precedence ladder is this repository's own design
// choice, chosen to make the worked examples read naturally.
// ---------------------------------------------------------------------

func (p *Parser) parseExpr() interp.Expression { return p.parseOr() }

func (p *Parser) parseOr() interp.Expression {
	lhs := p.parseAnd()
	for p.at(TokenOr) {
		p.advance()
		rhs := p.parseAnd()
		lhs = &interp.BinaryOpExpr{SpanVal: lhs.Site().Union(rhs.Site()), Op: interp.BinaryOr, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseAnd() interp.Expression {
	lhs := p.parseEq()
	for p.at(TokenAnd) {
		p.advance()
		rhs := p.parseEq()
		lhs = &interp.BinaryOpExpr{SpanVal: lhs.Site().Union(rhs.Site()), Op: interp.BinaryAnd, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseEq() interp.Expression {
	lhs := p.parseAdd()
	for p.at(TokenEq) {
		p.advance()
		rhs := p.parseAdd()
		lhs = &interp.BinaryOpExpr{SpanVal: lhs.Site().Union(rhs.Site()), Op: interp.BinaryEq, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseAdd() interp.Expression {
	lhs := p.parseUnary()
	for p.at(TokenPlus) || p.at(TokenMinus) {
		op := interp.BinaryAdd
		if p.at(TokenMinus) {
			op = interp.BinarySub
		}
		p.advance()
		rhs := p.parseUnary()
		lhs = &interp.BinaryOpExpr{SpanVal: lhs.Site().Union(rhs.Site()), Op: op, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseUnary() interp.Expression {
	switch p.cur().Type {
	case TokenMinus:
		start := p.advance()
		operand := p.parseUnary()
		return &interp.UnaryOpExpr{SpanVal: spanOf(p, start, operand), Op: interp.UnaryNegate, Operand: operand}
	case TokenNot:
		start := p.advance()
		operand := p.parseUnary()
		return &interp.UnaryOpExpr{SpanVal: spanOf(p, start, operand), Op: interp.UnaryNot, Operand: operand}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() interp.Expression {
	start := p.cur()
	e := p.parsePrimary()
	for {
		switch p.cur().Type {
		case TokenDot:
			p.advance()
			member := p.expect(TokenIdent)
			e = &interp.MemberAccessExpr{SpanVal: p.region(start, member), Base: e, Member: member.Literal}
		case TokenLBracket:
			p.advance()
			offset := p.parseExpr()
			end := p.expect(TokenRBracket)
			e = &interp.IndexExpr{SpanVal: p.region(start, end), Target: e, Offset: offset}
		case TokenLParen:
			p.advance()
			args, _ := p.parseExprElements(TokenRParen)
			end := p.expect(TokenRParen)
			e = &interp.CallExpr{SpanVal: p.region(start, end), Callee: e, Args: interp.Tuple[interp.Expression]{Fields: args}}
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() interp.Expression {
	tok := p.cur()
	switch tok.Type {
	case TokenInt:
		p.advance()
		n, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.errorf("invalid integer literal %q", tok.Literal)
		}
		return &interp.IntLit{SpanVal: p.region(tok, tok), Value: n}
	case TokenTrue:
		p.advance()
		return &interp.BoolLit{SpanVal: p.region(tok, tok), Value: true}
	case TokenFalse:
		p.advance()
		return &interp.BoolLit{SpanVal: p.region(tok, tok), Value: false}
	case TokenIntType:
		p.advance()
		return &interp.IntTypeExpr{SpanVal: p.region(tok, tok)}
	case TokenBoolType:
		p.advance()
		return &interp.BoolTypeExpr{SpanVal: p.region(tok, tok)}
	case TokenTypeType:
		p.advance()
		return &interp.TypeTypeExpr{SpanVal: p.region(tok, tok)}
	case TokenIdent:
		p.advance()
		return &interp.NameExpr{SpanVal: p.region(tok, tok), Name: tok.Literal}
	case TokenLParen:
		return p.parseParenOrTuple()
	case TokenFnty:
		return p.parseFunctionTypeExpr()
	default:
		p.errorf("expected an expression, got %s %q", tok.Type, tok.Literal)
		p.advance()
		return &interp.IntLit{SpanVal: p.region(tok, tok), Value: 0}
	}
}

func (p *Parser) parseParenOrTuple() interp.Expression {
	start := p.expect(TokenLParen)
	if p.at(TokenRParen) {
		end := p.advance()
		return &interp.TupleLit{SpanVal: p.region(start, end)}
	}
	fields, single := p.parseExprElements(TokenRParen)
	end := p.expect(TokenRParen)
	if single {
		return fields[0].Value
	}
	return &interp.TupleLit{SpanVal: p.region(start, end), Elements: interp.Tuple[interp.Expression]{Fields: fields}}
}

// parseExprElements parses a comma-separated, optionally-trailing-comma
// list of tuple/call elements, each optionally led by a `.label =`
// prefix. single reports whether the list held exactly one unlabeled
// element with no trailing comma — the signal that a caller parsing
// "(" ... ")" should treat the parens as grouping, not as a one-tuple.
func (p *Parser) parseExprElements(closing TokenType) (fields []interp.Field[interp.Expression], single bool) {
	pos := 0
	trailingComma := false
	for !p.at(closing) && !p.at(TokenEOF) {
		id, hasLabel := p.tryParseFieldLabel()
		val := p.parseExpr()
		if !hasLabel {
			id = interp.Positional(pos)
			pos++
		}
		fields = append(fields, interp.Field[interp.Expression]{ID: id, Value: val})
		if p.at(TokenComma) {
			p.advance()
			trailingComma = true
			continue
		}
		trailingComma = false
		break
	}
	single = len(fields) == 1 && !fields[0].ID.IsLabel() && !trailingComma
	return fields, single
}

// tryParseFieldLabel consumes a leading `.name =` if present (three
// tokens of lookahead: DOT IDENT ASSIGN), returning the labeled
// FieldID and true, or leaving the cursor untouched and returning
// false.
func (p *Parser) tryParseFieldLabel() (interp.FieldID, bool) {
	if p.at(TokenDot) && p.peek(1).Type == TokenIdent && p.peek(2).Type == TokenAssign {
		p.advance()
		name := p.advance()
		p.advance()
		return interp.Labeled(name.Literal), true
	}
	return interp.FieldID{}, false
}

func (p *Parser) parseFunctionTypeExpr() interp.Expression {
	start := p.expect(TokenFnty)
	p.expect(TokenLParen)
	params := p.parsePatternList(TokenRParen)
	p.expect(TokenRParen)
	p.expect(TokenArrow)
	ret := p.parsePattern()
	return &interp.FunctionTypeExprNode{SpanVal: spanOf(p, start, ret), Params: params, Return: ret}
}

// parseTypeExpr parses an expression in type position: the same
// grammar as a value expression, since Int/Bool/Type/a struct-or-
// choice name/a tuple-of-types/fnty(...) -> ... are all ordinary
// Expression nodes that the checker's compile-time evaluator
// interprets as types.
func (p *Parser) parseTypeExpr() interp.Expression { return p.parseExpr() }

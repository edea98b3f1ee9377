package syntax

import (
	"fmt"

	"carbonc/interp"
)

// Tokenize runs the lexer to completion, returning every token up to and
// including the terminating EOF. The parser operates on this slice
// rather than a streaming cursor, since Carbon source files are small
// and arbitrary lookahead (needed to tell a labeled tuple element from
// a plain one) is otherwise awkward to express over a two-token window.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var toks []Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Type == TokenEOF {
			return toks
		}
	}
}

// Parser is a recursive-descent parser over a pre-lexed token stream,
// producing the interp package's AST directly (see compiler.Parser for
// the teacher's curToken/peekToken shape; here the lookahead window is
// a slice index rather than two fields, since label detection needs to
// see three tokens ahead).
type Parser struct {
	file   string
	toks   []Token
	pos    int
	errors []string
}

// NewParser creates a parser for src, attributing diagnostics to file.
func NewParser(file, src string) *Parser {
	return &Parser{file: file, toks: Tokenize(src)}
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) cur() Token { return p.toks[p.pos] }

func (p *Parser) peek(n int) Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(t TokenType) bool { return p.cur().Type == t }

func (p *Parser) expect(t TokenType) Token {
	if p.cur().Type != t {
		p.errorf("expected %s, got %s %q", t, p.cur().Type, p.cur().Literal)
		return p.cur()
	}
	return p.advance()
}

func (p *Parser) errorf(format string, args ...any) {
	tok := p.cur()
	p.errors = append(p.errors, fmt.Sprintf("%s:%d:%d: %s", p.file, tok.Pos.Line, tok.Pos.Column, fmt.Sprintf(format, args...)))
}

func (p *Parser) region(start, end Token) interp.SourceRegion {
	return interp.SourceRegion{File: p.file, Start: start.Pos.Offset, End: end.End}
}

// ParseFile parses a full Carbon source file into an *interp.File. Parse
// errors are returned alongside whatever partial tree was recovered;
// the host refuses to resolve/check a file if any are present.
func ParseFile(path, src string) (*interp.File, []string) {
	p := NewParser(path, src)
	f := &interp.File{Path: path}
	for !p.at(TokenEOF) {
		d := p.parseDeclaration()
		if d == nil {
			// parseDeclaration already logged an error; skip a token so
			// we make forward progress instead of looping forever.
			p.advance()
			continue
		}
		f.Declarations = append(f.Declarations, d)
	}
	return f, p.errors
}

// ---------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------

func (p *Parser) parseDeclaration() interp.Declaration {
	switch p.cur().Type {
	case TokenFn:
		return p.parseFunctionDecl()
	case TokenStruct:
		return p.parseStructDecl()
	case TokenChoice:
		return p.parseChoiceDecl()
	case TokenVar:
		return p.parseTopLevelInit()
	default:
		p.errorf("expected a declaration, got %s %q", p.cur().Type, p.cur().Literal)
		return nil
	}
}

func (p *Parser) parseFunctionDecl() interp.Declaration {
	start := p.expect(TokenFn)
	name := p.expect(TokenIdent)
	p.expect(TokenLParen)
	params := p.parsePatternList(TokenRParen)
	closeParen := p.expect(TokenRParen)

	var ret interp.DeclaredType = interp.AutoType{SpanVal: p.region(closeParen, closeParen)}
	if p.at(TokenArrow) {
		p.advance()
		ret = interp.ExplicitType{Expr: p.parseTypeExpr()}
	}

	def := &interp.FunctionDefinition{
		NameVal:    name.Literal,
		Params:     params,
		ReturnType: ret,
	}
	last := p.parseFunctionBody(def)
	def.SpanVal = p.region(start, last)
	return &interp.FunctionDecl{SpanVal: def.SpanVal, Def: def}
}

func (p *Parser) parseFunctionBody(def *interp.FunctionDefinition) Token {
	switch p.cur().Type {
	case TokenLBrace:
		block := p.parseBlock()
		def.Body = interp.BlockBody{Block: block}
		return p.toks[p.pos-1]
	case TokenFatArrow:
		p.advance()
		expr := p.parseExpr()
		semi := p.expect(TokenSemicolon)
		def.Body = interp.ExprBody{Expr: expr}
		return semi
	default:
		semi := p.expect(TokenSemicolon)
		def.Body = nil
		return semi
	}
}

func (p *Parser) parseStructDecl() interp.Declaration {
	start := p.expect(TokenStruct)
	name := p.expect(TokenIdent)
	p.expect(TokenLBrace)
	var members []*interp.StructMember
	for !p.at(TokenRBrace) && !p.at(TokenEOF) {
		mstart := p.cur()
		mname := p.expect(TokenIdent)
		p.expect(TokenColon)
		typ := p.parseTypeExpr()
		semi := p.expect(TokenSemicolon)
		members = append(members, &interp.StructMember{
			SpanVal: p.region(mstart, semi),
			Name:    mname.Literal,
			Type:    typ,
		})
	}
	end := p.expect(TokenRBrace)
	def := &interp.StructDefinition{SpanVal: p.region(start, end), NameVal: name.Literal, Members: members}
	return &interp.StructDecl{SpanVal: def.SpanVal, Def: def}
}

func (p *Parser) parseChoiceDecl() interp.Declaration {
	start := p.expect(TokenChoice)
	name := p.expect(TokenIdent)
	p.expect(TokenLBrace)
	var alts []*interp.AlternativeDef
	for !p.at(TokenRBrace) && !p.at(TokenEOF) {
		astart := p.cur()
		aname := p.expect(TokenIdent)
		var payload interp.Tuple[interp.Expression]
		end := aname
		if p.at(TokenLParen) {
			p.advance()
			var fields []interp.Field[interp.Expression]
			pos := 0
			for !p.at(TokenRParen) && !p.at(TokenEOF) {
				fields = append(fields, interp.Field[interp.Expression]{ID: interp.Positional(pos), Value: p.parseTypeExpr()})
				pos++
				if p.at(TokenComma) {
					p.advance()
					continue
				}
				break
			}
			end = p.expect(TokenRParen)
			payload = interp.Tuple[interp.Expression]{Fields: fields}
		}
		alts = append(alts, &interp.AlternativeDef{SpanVal: p.region(astart, end), Name: aname.Literal, Payload: payload})
		if p.at(TokenComma) {
			p.advance()
			continue
		}
		break
	}
	end := p.expect(TokenRBrace)
	def := &interp.ChoiceDefinition{SpanVal: p.region(start, end), NameVal: name.Literal, Alternatives: alts}
	return &interp.ChoiceDecl{SpanVal: def.SpanVal, Def: def}
}

func (p *Parser) parseTopLevelInit() interp.Declaration {
	start := p.cur()
	init := p.parseInitialization()
	semi := p.expect(TokenSemicolon)
	init.SpanVal = p.region(start, semi)
	return &interp.InitDecl{SpanVal: init.SpanVal, Init: init}
}

// parseInitialization parses `var Pattern = Expr` without its trailing
// semicolon, shared by top-level InitDecl and statement-position InitStmt.
func (p *Parser) parseInitialization() *interp.Initialization {
	p.expect(TokenVar)
	pat := p.parsePattern()
	p.expect(TokenAssign)
	rhs := p.parseExpr()
	return &interp.Initialization{Pattern: pat, Initializer: rhs}
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (p *Parser) parseBlock() *interp.BlockStmt {
	start := p.expect(TokenLBrace)
	var stmts []interp.Statement
	for !p.at(TokenRBrace) && !p.at(TokenEOF) {
		stmts = append(stmts, p.parseStatement())
	}
	end := p.expect(TokenRBrace)
	return &interp.BlockStmt{SpanVal: p.region(start, end), Stmts: stmts}
}

func (p *Parser) parseStatement() interp.Statement {
	switch p.cur().Type {
	case TokenLBrace:
		return p.parseBlock()
	case TokenVar:
		start := p.cur()
		init := p.parseInitialization()
		semi := p.expect(TokenSemicolon)
		init.SpanVal = p.region(start, semi)
		return &interp.InitStmt{SpanVal: init.SpanVal, Init: init}
	case TokenIf:
		return p.parseIfStmt()
	case TokenWhile:
		return p.parseWhileStmt()
	case TokenMatch:
		return p.parseMatchStmt()
	case TokenBreak:
		start := p.advance()
		semi := p.expect(TokenSemicolon)
		return &interp.BreakStmt{SpanVal: p.region(start, semi)}
	case TokenContinue:
		start := p.advance()
		semi := p.expect(TokenSemicolon)
		return &interp.ContinueStmt{SpanVal: p.region(start, semi)}
	case TokenReturn:
		start := p.advance()
		var val interp.Expression
		if !p.at(TokenSemicolon) {
			val = p.parseExpr()
		}
		semi := p.expect(TokenSemicolon)
		return &interp.ReturnStmt{SpanVal: p.region(start, semi), Value: val}
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseExprOrAssignStmt() interp.Statement {
	start := p.cur()
	lhs := p.parseExpr()
	if p.at(TokenAssign) {
		p.advance()
		rhs := p.parseExpr()
		semi := p.expect(TokenSemicolon)
		return &interp.AssignStmt{SpanVal: p.region(start, semi), Target: lhs, Source: rhs}
	}
	semi := p.expect(TokenSemicolon)
	return &interp.ExprStmt{SpanVal: p.region(start, semi), Expr: lhs}
}

func (p *Parser) parseIfStmt() interp.Statement {
	start := p.expect(TokenIf)
	p.expect(TokenLParen)
	cond := p.parseExpr()
	p.expect(TokenRParen)
	then := p.parseStatement()
	last := then
	var els interp.Statement
	if p.at(TokenElse) {
		p.advance()
		els = p.parseStatement()
		last = els
	}
	return &interp.IfStmt{SpanVal: spanOf(p, start, last), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhileStmt() interp.Statement {
	start := p.expect(TokenWhile)
	p.expect(TokenLParen)
	cond := p.parseExpr()
	p.expect(TokenRParen)
	body := p.parseStatement()
	return &interp.WhileStmt{SpanVal: spanOf(p, start, body), Cond: cond, Body: body}
}

func (p *Parser) parseMatchStmt() interp.Statement {
	start := p.expect(TokenMatch)
	p.expect(TokenLParen)
	subject := p.parseExpr()
	p.expect(TokenRParen)
	p.expect(TokenLBrace)
	var clauses []interp.MatchClause
	for !p.at(TokenRBrace) && !p.at(TokenEOF) {
		cstart := p.cur()
		var pat interp.Pattern
		if p.at(TokenDefault) {
			p.advance()
		} else {
			p.expect(TokenCase)
			pat = p.parsePattern()
		}
		p.expect(TokenFatArrow)
		body := p.parseStatement()
		clauses = append(clauses, interp.MatchClause{SpanVal: spanOf(p, cstart, body), Pattern: pat, Body: body})
	}
	end := p.expect(TokenRBrace)
	return &interp.MatchStmt{SpanVal: p.region(start, end), Subject: subject, Clauses: clauses}
}

// spanOf unions start's token region with last's own Site(), since
// last may be a node whose own span was computed from different
// tokens than p's current stream position.
func spanOf(p *Parser, start Token, last interp.Node) interp.SourceRegion {
	return interp.SourceRegion{File: p.file, Start: start.Pos.Offset, End: last.Site().End}
}

package syntax

import (
	"testing"

	"carbonc/interp"
)

func parseOK(t *testing.T, src string) *interp.File {
	t.Helper()
	f, errs := ParseFile("test.carbon", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return f
}

func TestParseMainReturningLiteral(t *testing.T) {
	f := parseOK(t, `fn main() -> Int { return 0; }`)
	if len(f.Declarations) != 1 {
		t.Fatalf("got %d declarations, want 1", len(f.Declarations))
	}
	fd, ok := f.Declarations[0].(*interp.FunctionDecl)
	if !ok {
		t.Fatalf("declaration 0 is %T, want *interp.FunctionDecl", f.Declarations[0])
	}
	if fd.Def.NameVal != "main" {
		t.Errorf("got name %q, want main", fd.Def.NameVal)
	}
	block, ok := fd.Def.Body.(interp.BlockBody)
	if !ok {
		t.Fatalf("body is %T, want interp.BlockBody", fd.Def.Body)
	}
	if len(block.Block.Stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(block.Block.Stmts))
	}
	ret, ok := block.Block.Stmts[0].(*interp.ReturnStmt)
	if !ok {
		t.Fatalf("statement is %T, want *interp.ReturnStmt", block.Block.Stmts[0])
	}
	lit, ok := ret.Value.(*interp.IntLit)
	if !ok || lit.Value != 0 {
		t.Errorf("got return value %#v, want IntLit{0}", ret.Value)
	}
}

func TestParseExprBodyFunction(t *testing.T) {
	f := parseOK(t, `fn double(x: Int) -> Int => x + x;`)
	fd := f.Declarations[0].(*interp.FunctionDecl)
	body, ok := fd.Def.Body.(interp.ExprBody)
	if !ok {
		t.Fatalf("body is %T, want interp.ExprBody", fd.Def.Body)
	}
	bin, ok := body.Expr.(*interp.BinaryOpExpr)
	if !ok || bin.Op != interp.BinaryAdd {
		t.Errorf("got %#v, want x + x", body.Expr)
	}
}

func TestParseStructDecl(t *testing.T) {
	f := parseOK(t, `struct Point { x: Int; y: Int; }`)
	sd := f.Declarations[0].(*interp.StructDecl)
	if len(sd.Def.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(sd.Def.Members))
	}
	if sd.Def.Members[0].Name != "x" || sd.Def.Members[1].Name != "y" {
		t.Errorf("got member names %q, %q", sd.Def.Members[0].Name, sd.Def.Members[1].Name)
	}
}

func TestParseChoiceDeclWithPayload(t *testing.T) {
	f := parseOK(t, `choice Ints { None, One(Int) }`)
	cd := f.Declarations[0].(*interp.ChoiceDecl)
	if len(cd.Def.Alternatives) != 2 {
		t.Fatalf("got %d alternatives, want 2", len(cd.Def.Alternatives))
	}
	if cd.Def.Alternatives[0].Payload.Len() != 0 {
		t.Errorf("None should have no payload, got %d", cd.Def.Alternatives[0].Payload.Len())
	}
	if cd.Def.Alternatives[1].Payload.Len() != 1 {
		t.Errorf("One should have one payload field, got %d", cd.Def.Alternatives[1].Payload.Len())
	}
}

func TestParseMatchStmt(t *testing.T) {
	f := parseOK(t, `
fn main() -> Int {
	match (Ints.One(42)) {
		case Ints.One(n) => return n;
		default => return 0;
	}
}`)
	fd := f.Declarations[0].(*interp.FunctionDecl)
	block := fd.Def.Body.(interp.BlockBody).Block
	ms, ok := block.Stmts[0].(*interp.MatchStmt)
	if !ok {
		t.Fatalf("statement is %T, want *interp.MatchStmt", block.Stmts[0])
	}
	if len(ms.Clauses) != 2 {
		t.Fatalf("got %d clauses, want 2", len(ms.Clauses))
	}
	cp, ok := ms.Clauses[0].Pattern.(*interp.CallPattern)
	if !ok {
		t.Fatalf("clause 0 pattern is %T, want *interp.CallPattern", ms.Clauses[0].Pattern)
	}
	if cp.Args.Len() != 1 {
		t.Errorf("got %d call pattern args, want 1", cp.Args.Len())
	}
	if ms.Clauses[1].Pattern != nil {
		t.Errorf("default clause should have a nil pattern")
	}
}

func TestParseTupleLitVsGroupingParens(t *testing.T) {
	f := parseOK(t, `var x = (1 + 2);`)
	id := f.Declarations[0].(*interp.InitDecl)
	if _, ok := id.Init.Initializer.(*interp.BinaryOpExpr); !ok {
		t.Errorf("(1 + 2) should parse as a grouped binary expr, got %T", id.Init.Initializer)
	}

	f2 := parseOK(t, `var y = (1, 2);`)
	id2 := f2.Declarations[0].(*interp.InitDecl)
	tl, ok := id2.Init.Initializer.(*interp.TupleLit)
	if !ok || tl.Elements.Len() != 2 {
		t.Errorf("(1, 2) should parse as a two-field TupleLit, got %#v", id2.Init.Initializer)
	}
}

func TestParseLabeledStructCall(t *testing.T) {
	f := parseOK(t, `var p = Point(.x = 1, .y = 2);`)
	id := f.Declarations[0].(*interp.InitDecl)
	call, ok := id.Init.Initializer.(*interp.CallExpr)
	if !ok {
		t.Fatalf("got %T, want *interp.CallExpr", id.Init.Initializer)
	}
	if v, ok := call.Args.Lookup(interp.Labeled("x")); !ok {
		t.Errorf("missing labeled arg .x")
	} else if _, ok := v.(*interp.IntLit); !ok {
		t.Errorf("arg .x is %T, want *interp.IntLit", v)
	}
}

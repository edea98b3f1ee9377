package syntax

import "testing"

func TestLexerTokenTypes(t *testing.T) {
	src := `fn main() -> Int { return 0; }`
	want := []TokenType{
		TokenFn, TokenIdent, TokenLParen, TokenRParen, TokenArrow, TokenIntType,
		TokenLBrace, TokenReturn, TokenInt, TokenSemicolon, TokenRBrace, TokenEOF,
	}
	toks := Tokenize(src)
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestLexerComments(t *testing.T) {
	toks := Tokenize("// a comment\nvar x = 1; // trailing")
	var kinds []TokenType
	for _, tok := range toks {
		kinds = append(kinds, tok.Type)
	}
	want := []TokenType{TokenVar, TokenIdent, TokenAssign, TokenInt, TokenSemicolon, TokenEOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestLexerKeywordsNotMisreadAsIdents(t *testing.T) {
	toks := Tokenize("choice struct auto fnty not and or")
	want := []TokenType{TokenChoice, TokenStruct, TokenAuto, TokenFnty, TokenNot, TokenAnd, TokenOr, TokenEOF}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestLexerArrowVsMinus(t *testing.T) {
	toks := Tokenize("a - b -> c")
	want := []TokenType{TokenIdent, TokenMinus, TokenIdent, TokenArrow, TokenIdent, TokenEOF}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

package rpal

import "testing"

func TestTokenizeBasic(t *testing.T) {
	toks := tokenize("let x = 5 in Print(x*x)")
	want := []Token{
		{TokIdent, "let"}, {TokIdent, "x"}, {TokSymbol, "="}, {TokInt, "5"},
		{TokIdent, "in"}, {TokIdent, "Print"}, {TokSymbol, "("}, {TokIdent, "x"},
		{TokSymbol, "*"}, {TokIdent, "x"}, {TokSymbol, ")"},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tk := range toks {
		if tk != want[i] {
			t.Errorf("token %d: got %+v, want %+v", i, tk, want[i])
		}
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks := tokenize(`'hello\nworld'`)
	if len(toks) != 1 || toks[0].Kind != TokString {
		t.Fatalf("expected one string token, got %v", toks)
	}
	if toks[0].Text != "hello\nworld" {
		t.Errorf("got %q, want %q", toks[0].Text, "hello\nworld")
	}
}

func TestTokenizeComment(t *testing.T) {
	toks := tokenize("1 // a comment\n+ 2")
	want := []Token{{TokInt, "1"}, {TokSymbol, "+"}, {TokInt, "2"}}
	if len(toks) != len(want) {
		t.Fatalf("got %v", toks)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	err := Try(func() { tokenize("'unterminated") })
	if err == nil {
		t.Fatal("expected LexError for unterminated string")
	}
	if re, ok := err.(*RpalError); !ok || re.Kind != LexError {
		t.Errorf("got %v, want LexError", err)
	}
}

func TestTokenizeIllegalChar(t *testing.T) {
	err := Try(func() { tokenize("1 $ 2") })
	if err == nil {
		t.Fatal("expected LexError for illegal character")
	}
}

func TestMultiCharSymbolsLongestMatch(t *testing.T) {
	toks := tokenize("2**3<=4")
	want := []string{"2", "**", "3", "<=", "4"}
	if len(toks) != len(want) {
		t.Fatalf("got %v", toks)
	}
	for i, w := range want {
		if toks[i].Text != w {
			t.Errorf("token %d: got %q, want %q", i, toks[i].Text, w)
		}
	}
}

package lexer

import "testing"

func scan(t *testing.T, src string) []Token {
	t.Helper()
	toks, errs := New(src, "").ScanTokens()
	if len(errs) != 0 {
		t.Fatalf("ScanTokens(%q) returned errors: %v", src, errs)
	}
	return toks
}

func types(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func assertTypes(t *testing.T, src string, want ...TokenType) {
	t.Helper()
	want = append(want, EOF)
	got := types(scan(t, src))
	if len(got) != len(want) {
		t.Fatalf("ScanTokens(%q) = %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ScanTokens(%q)[%d] = %v, want %v", src, i, got[i], want[i])
		}
	}
}

func TestMultiCharSigils(t *testing.T) {
	assertTypes(t, "!=", NOTEQUALS)
	assertTypes(t, "!~", NOTMATCH)
	assertTypes(t, "<=", LESSTHANEQ)
	assertTypes(t, ">=", GREATERTHANEQ)
	assertTypes(t, "@@", EXPORTED)
	assertTypes(t, "<", LESSTHAN)
	assertTypes(t, ">", GREATERTHAN)
	assertTypes(t, "@", AT)
}

func TestKeywords(t *testing.T) {
	assertTypes(t, "not", NOT)
	assertTypes(t, "and", AND)
	assertTypes(t, "or", OR)

	toks := scan(t, "true")
	if toks[0].Type != BOOLEAN || toks[0].Literal != true {
		t.Fatalf("true => %+v", toks[0])
	}
	toks = scan(t, "false")
	if toks[0].Type != BOOLEAN || toks[0].Literal != false {
		t.Fatalf("false => %+v", toks[0])
	}
}

func TestBarewordNotAKeyword(t *testing.T) {
	toks := scan(t, "notify")
	if toks[0].Type != STRING || toks[0].Literal != "notify" {
		t.Fatalf("notify => %+v", toks[0])
	}
}

func TestStringForms(t *testing.T) {
	toks := scan(t, `foo "bar baz" 'qux'`)
	if toks[0].Type != STRING || toks[0].Literal != "foo" {
		t.Fatalf("bareword: %+v", toks[0])
	}
	if toks[1].Type != STRING || toks[1].Literal != "bar baz" {
		t.Fatalf("double-quoted: %+v", toks[1])
	}
	if toks[2].Type != STRING || toks[2].Literal != "qux" {
		t.Fatalf("single-quoted: %+v", toks[2])
	}
}

func TestStringEscapesNotInterpreted(t *testing.T) {
	toks := scan(t, `"a\nb"`)
	if toks[0].Literal != `a\nb` {
		t.Fatalf(`"a\nb" literal = %q, want literal backslash-n preserved`, toks[0].Literal)
	}
}

func TestNumberAndFloat(t *testing.T) {
	toks := scan(t, "42")
	if toks[0].Type != NUMBER || toks[0].Literal != int64(42) {
		t.Fatalf("42 => %+v", toks[0])
	}
	toks = scan(t, "-1")
	if toks[0].Type != NUMBER || toks[0].Literal != int64(-1) {
		t.Fatalf("-1 => %+v", toks[0])
	}
	toks = scan(t, "1.024")
	if toks[0].Type != FLOAT || toks[0].Literal != 1.024 {
		t.Fatalf("1.024 => %+v", toks[0])
	}
}

func TestDottedIntegerAmbiguity(t *testing.T) {
	assertTypes(t, "foo.0", STRING, DOT, NUMBER)
	toks := scan(t, "foo.0")
	if toks[2].Literal != int64(0) {
		t.Fatalf("foo.0 NUMBER literal = %v", toks[2].Literal)
	}
}

func TestLexErrorHasOffset(t *testing.T) {
	_, errs := New("foo = ?", "").ScanTokens()
	if len(errs) != 1 {
		t.Fatalf("expected one lex error, got %v", errs)
	}
	if errs[0].Offset() != 6 {
		t.Fatalf("offset = %d, want 6", errs[0].Offset())
	}
}

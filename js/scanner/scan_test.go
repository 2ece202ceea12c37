package scanner

import (
	"errors"
	"testing"

	"github.com/npillmayer/loopsim"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var inputStrings = []string{
	"1",
	"x = x + 1",
	`console.log("Start");`,
	"let a = 0x1F; // commented",
	"setTimeout(() => {}, 100)",
	"/* block\n comment */ a !== b",
}

var tokenCounts = []int{1, 5, 7, 5, 10, 3}

func TestLexerTokenCounts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.scanner")
	defer teardown()
	//
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		toks, err := Tokenize(input)
		if err != nil {
			t.Fatalf("input #%d: %v", i, err)
		}
		for _, token := range toks {
			t.Logf(" %8s | %15s | @%5d", TokTypeString(token.TokType()), token.Lexeme(), token.Span().From())
		}
		if toks[len(toks)-1].TokType() != EOF {
			t.Errorf("expected token sequence for #%d to end with EOF", i)
		}
		if count := len(toks) - 1; count != tokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, tokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.scanner")
	defer teardown()
	//
	toks, err := Tokenize("let letter = forEach; for")
	if err != nil {
		t.Fatal(err)
	}
	expected := []loopsim.TokType{Keyword, Ident, Punct, Ident, Punct, Keyword, EOF}
	if len(toks) != len(expected) {
		t.Fatalf("expected %d tokens, have %d", len(expected), len(toks))
	}
	for i, tok := range toks {
		if tok.TokType() != expected[i] {
			t.Errorf("token #%d %q: expected %s, is %s", i, tok.Lexeme(),
				TokTypeString(expected[i]), TokTypeString(tok.TokType()))
		}
	}
}

func TestLongestPunctuator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.scanner")
	defer teardown()
	//
	toks, err := Tokenize("a===b=>c++")
	if err != nil {
		t.Fatal(err)
	}
	lexemes := []string{"a", "===", "b", "=>", "c", "++", ""}
	for i, tok := range toks {
		if tok.Lexeme() != lexemes[i] {
			t.Errorf("token #%d: expected %q, is %q", i, lexemes[i], tok.Lexeme())
		}
	}
}

func TestValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.scanner")
	defer teardown()
	//
	toks, err := Tokenize(`12.5 0x10 1e3 'it\'s' "a\tb"`)
	if err != nil {
		t.Fatal(err)
	}
	values := []interface{}{12.5, 16.0, 1000.0, "it's", "a\tb"}
	for i, v := range values {
		if toks[i].Value() != v {
			t.Errorf("token #%d: expected value %v, is %v", i, v, toks[i].Value())
		}
	}
}

func TestPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.scanner")
	defer teardown()
	//
	toks, err := Tokenize("let x = 1\n  x++")
	if err != nil {
		t.Fatal(err)
	}
	second := toks[4] // x on line 2
	if second.Pos != (loopsim.Position{Line: 2, Column: 3}) {
		t.Errorf("expected x at 2:3, is at %s", second.Pos)
	}
	if !second.NewlineBefore {
		t.Errorf("expected x to be preceded by a line break")
	}
	if toks[1].NewlineBefore {
		t.Errorf("did not expect a line break before first x")
	}
	eof := toks[len(toks)-1]
	if eof.Pos != (loopsim.Position{Line: 2, Column: 6}) {
		t.Errorf("expected EOF at 2:6, is at %s", eof.Pos)
	}
}

func TestLexError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.scanner")
	defer teardown()
	//
	_, err := Tokenize("let a = 1;\nlet b = #;")
	if err == nil {
		t.Fatal("expected illegal character to fail")
	}
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected a *LexError, have %T", err)
	}
	if lexErr.Pos.Line != 2 || lexErr.Pos.Column != 9 {
		t.Errorf("expected error at 2:9, is at %s", lexErr.Pos)
	}
	t.Logf("error = %v", err)
}

func TestUnescape(t *testing.T) {
	cases := map[string]string{
		`plain`:           "plain",
		`a\nb`:            "a\nb",
		`A\x42`:           "AB",
		`\q`:              "q",
		`a\u0042b`:        "aBb",
		`a\u{42}b`:        "aBb",
		`\u{1F600}!`:      "\U0001F600!",
		`\uD83D\uDE00`:    "\U0001F600",
		`caf\u00e9 \'x\'`: "caf\u00e9 'x'",
	}
	for in, out := range cases {
		s, err := Unescape(in)
		if err != nil {
			t.Errorf("Unescape(%q): unexpected error %v", in, err)
		} else if s != out {
			t.Errorf("Unescape(%q): expected %q, is %q", in, out, s)
		}
	}
	malformed := map[string]int{
		`\x4`:        0,
		`ab\xZZ`:     2,
		`\u00`:       0,
		`\u{}`:       0,
		`x\u{42`:     1,
		`\u{110000}`: 0,
		`\u{12g}`:    0,
		`ok\n\u12G4`: 4,
	}
	for in, at := range malformed {
		_, err := Unescape(in)
		var escErr *EscapeError
		if !errors.As(err, &escErr) {
			t.Errorf("Unescape(%q): expected an *EscapeError, have %v", in, err)
		} else if escErr.Offset != at {
			t.Errorf("Unescape(%q): expected error at offset %d, have %d", in, at, escErr.Offset)
		}
	}
}

func TestMalformedEscapeIsLexError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.scanner")
	defer teardown()
	//
	_, err := Tokenize("let a = 1;\nlet s = \"a\\x4\";")
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected a *LexError, have %v", err)
	}
	if lexErr.Pos.Line != 2 || lexErr.Pos.Column != 11 {
		t.Errorf("expected error at 2:11, is at %s", lexErr.Pos)
	}
	toks, err := Tokenize(`"a\u{42}b"`)
	if err != nil {
		t.Fatal(err)
	}
	if v := toks[0].Val; v != "aBb" {
		t.Errorf("expected string value aBb, have %v", v)
	}
}

package scanner

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Punctuators are matched longest first by the DFA, so "===" wins over "==".
var punctuators = []string{
	"{", "}", "(", ")", "[", "]", ";", ",", ".", "...", "?.",
	"<", ">", "<=", ">=", "==", "!=", "===", "!==",
	"+", "-", "*", "/", "%", "**", "++", "--",
	"<<", ">>", ">>>", "&", "|", "^", "!", "~", "&&", "||", "??",
	"?", ":", "=", "+=", "-=", "*=", "/=", "%=", "=>",
}

// Keywords are scanned as identifiers first and re-typed afterwards.
var keywords = map[string]bool{
	"var": true, "let": true, "const": true, "function": true, "return": true,
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"break": true, "continue": true, "true": true, "false": true, "null": true,
	"new": true, "typeof": true, "void": true, "this": true, "in": true,
	"instanceof": true, "delete": true, "throw": true, "try": true, "catch": true,
	"finally": true, "class": true, "switch": true, "case": true, "default": true,
}

// IsKeyword is a predicate for reserved words.
func IsKeyword(s string) bool {
	return keywords[s]
}

var lexer *LMAdapter
var lexerErr error

var initOnce sync.Once // monitors one-time creation of the lexer

// Lexer returns the lexmachine adapter for JavaScript. The DFA is compiled once
// and shared.
func Lexer() (*LMAdapter, error) {
	initOnce.Do(func() {
		tracer().Infof("Creating JavaScript lexer")
		init := func(lexer *lexmachine.Lexer) {
			lexer.Add([]byte(`//[^\n]*`), Skip) // skip comments
			lexer.Add([]byte(`/\*([^*]|\r|\n|(\*+([^*/]|\r|\n)))*\*+/`), Skip)
			lexer.Add([]byte(`( |\t|\n|\r)+`), Skip)
			lexer.Add([]byte(`([a-z]|[A-Z]|_|\$)([a-z]|[A-Z]|[0-9]|_|\$)*`), identOrKeyword)
			lexer.Add([]byte(`[0-9]+(\.[0-9]+)?([eE][\+\-]?[0-9]+)?`), number)
			lexer.Add([]byte(`\.[0-9]+([eE][\+\-]?[0-9]+)?`), number)
			lexer.Add([]byte(`0[xX]([0-9]|[a-f]|[A-F])+`), number)
			lexer.Add([]byte(`"([^"\\\n]|\\.)*"`), stringLiteral)
			lexer.Add([]byte(`'([^'\\\n]|\\.)*'`), stringLiteral)
			lexer.Add([]byte("`([^`\\\\]|\\\\.)*`"), MakeAction(Template))
		}
		lexer, lexerErr = NewLMAdapter(init, punctuators)
	})
	return lexer, lexerErr
}

func identOrKeyword(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	word := string(m.Bytes)
	if keywords[word] {
		return s.Token(int(Keyword), word, m), nil
	}
	return s.Token(int(Ident), word, m), nil
}

func number(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	return s.Token(int(Number), NumberValue(string(m.Bytes)), m), nil
}

func stringLiteral(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	lexeme := string(m.Bytes)
	text, err := Unescape(lexeme[1 : len(lexeme)-1])
	if err != nil {
		return nil, &literalError{at: m.TC + 1 + err.(*EscapeError).Offset, err: err}
	}
	return s.Token(int(String), text, m), nil
}

// literalError locates an error inside a literal at an offset of the input.
type literalError struct {
	at  int
	err error
}

func (e *literalError) Error() string {
	return e.err.Error()
}

// NumberValue converts a numeric lexeme to its value.
func NumberValue(lexeme string) float64 {
	if len(lexeme) > 2 && (lexeme[1] == 'x' || lexeme[1] == 'X') {
		n, err := strconv.ParseUint(lexeme[2:], 16, 64)
		if err != nil {
			return 0
		}
		return float64(n)
	}
	f, _ := strconv.ParseFloat(lexeme, 64) // out of range yields ±Inf
	return f
}

// Unescape resolves backslash escapes in the body of a string or template
// literal. Unknown escapes stand for the escaped character itself.
func Unescape(body string) (string, error) {
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var b strings.Builder
	for i := 0; i < len(body); {
		if body[i] != '\\' || i+1 == len(body) {
			_, size := utf8.DecodeRuneInString(body[i:])
			b.WriteString(body[i : i+size])
			i += size
			continue
		}
		switch body[i+1] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n': // line continuation
		case 'x', 'u':
			r, n, ok := hexEscape(body[i:])
			if !ok {
				return "", &EscapeError{Offset: i, Seq: body[i : i+n]}
			}
			if utf16.IsSurrogate(r) && strings.HasPrefix(body[i+n:], `\u`) {
				if lo, m, ok := hexEscape(body[i+n:]); ok {
					if pair := utf16.DecodeRune(r, lo); pair != unicode.ReplacementChar {
						r, n = pair, n+m
					}
				}
			}
			b.WriteRune(r)
			i += n
			continue
		default:
			_, size := utf8.DecodeRuneInString(body[i+1:])
			b.WriteString(body[i+1 : i+1+size])
			i += 1 + size
			continue
		}
		i += 2
	}
	return b.String(), nil
}

// hexEscape decodes one of \xHH, \uHHHH or \u{H...} at the start of s. It
// returns the code point and the length of the sequence. For a malformed
// sequence, n covers the part of s in error.
func hexEscape(s string) (r rune, n int, ok bool) {
	if s[1] == 'u' && len(s) > 2 && s[2] == '{' {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return 0, len(s), false
		}
		v, err := strconv.ParseUint(s[3:end], 16, 32)
		if end == 3 || err != nil || v > unicode.MaxRune {
			return 0, end + 1, false
		}
		return rune(v), end + 1, true
	}
	digits := 2
	if s[1] == 'u' {
		digits = 4
	}
	if len(s) < 2+digits {
		return 0, len(s), false
	}
	v, err := strconv.ParseUint(s[2:2+digits], 16, 32)
	if err != nil {
		return 0, 2 + digits, false
	}
	return rune(v), 2 + digits, true
}

// EscapeError reports a malformed escape sequence in the body of a string or
// template literal. Offset is the byte offset of the backslash in the body.
type EscapeError struct {
	Offset int
	Seq    string
}

func (e *EscapeError) Error() string {
	return fmt.Sprintf("malformed escape sequence %q", e.Seq)
}

// Tokenize scans a complete source text. The resulting token slice is
// terminated by an EOF token. The first lexical error aborts tokenizing.
func Tokenize(src string) ([]JSToken, error) {
	lm, err := Lexer()
	if err != nil {
		return nil, err
	}
	scan, err := lm.Scanner(src)
	if err != nil {
		return nil, err
	}
	var lexErr error
	scan.SetErrorHandler(func(e error) {
		if lexErr == nil {
			lexErr = e
		}
	})
	var toks []JSToken
	for {
		t := scan.next()
		if lexErr != nil {
			tracer().Errorf("%v", lexErr)
			return nil, lexErr
		}
		toks = append(toks, t)
		if t.kind == EOF {
			break
		}
	}
	return toks, nil
}

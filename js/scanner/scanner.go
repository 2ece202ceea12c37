/*
Package scanner splits JavaScript source text into tokens.

The scanner covers the subset of the language understood by package parser:
identifiers and keywords, numeric literals (decimal, fractional, exponent and
hex notation), single- and double-quoted strings, template literals and
punctuators. Comments and white space are skipped, but every token remembers
whether a line break preceded it, which drives automatic semicolon insertion
in the parser.

Tokenizing is done by a lexmachine DFA, wrapped by an adapter implementing the
Tokenizer interface. Clients usually call Tokenize, which scans a complete input
and reports the first lexical error as a *LexError.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"fmt"

	"github.com/npillmayer/loopsim"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'loopsim.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("loopsim.scanner")
}

// Token categories produced by the JavaScript scanner.
const (
	EOF      loopsim.TokType = -1
	Ident    loopsim.TokType = 1
	Keyword  loopsim.TokType = 2
	Number   loopsim.TokType = 3
	String   loopsim.TokType = 4
	Template loopsim.TokType = 5
	Punct    loopsim.TokType = 6
)

// TokTypeString returns a printable name for a token category.
func TokTypeString(t loopsim.TokType) string {
	switch t {
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case Keyword:
		return "Keyword"
	case Number:
		return "Number"
	case String:
		return "String"
	case Template:
		return "Template"
	case Punct:
		return "Punct"
	}
	return fmt.Sprintf("TokType(%d)", int(t))
}

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() loopsim.Token
	SetErrorHandler(func(error))
}

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// --- Tokens ----------------------------------------------------------------

// JSToken is the token type produced by the JavaScript scanner.
type JSToken struct {
	kind          loopsim.TokType
	lexeme        string
	Val           interface{}      // float64 for numbers, unescaped text for strings
	span          loopsim.Span     // byte offsets
	Pos           loopsim.Position // start position, 1-based
	NewlineBefore bool             // a line terminator precedes this token
}

var _ loopsim.Token = JSToken{}

// MakeToken creates a token without a value.
func MakeToken(typ loopsim.TokType, lexeme string, span loopsim.Span) JSToken {
	return JSToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

func (t JSToken) TokType() loopsim.TokType {
	return t.kind
}

func (t JSToken) Value() interface{} {
	return t.Val
}

func (t JSToken) Lexeme() string {
	return t.lexeme
}

func (t JSToken) Span() loopsim.Span {
	return t.span
}

// Is checks for a punctuator or keyword with a given lexeme.
func (t JSToken) Is(lexeme string) bool {
	return (t.kind == Punct || t.kind == Keyword) && t.lexeme == lexeme
}

func (t JSToken) String() string {
	if t.kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", TokTypeString(t.kind), t.lexeme)
}

// --- Errors ----------------------------------------------------------------

// LexError is returned for input the scanner cannot tokenize.
type LexError struct {
	Offset int
	Pos    loopsim.Position
	Msg    string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error at %s: %s", e.Pos, e.Msg)
}

// Rebase shifts a token scanned from a fragment of a larger source text by
// offset bytes and recomputes its position against the enclosing text.
func (t JSToken) Rebase(offset uint64, lines *loopsim.LineIndex) JSToken {
	t.span = loopsim.Span{t.span[0] + offset, t.span[1] + offset}
	t.Pos = lines.Position(int(t.span[0]))
	return t
}

/*
Package parser implements a recursive descent parser for a subset of JavaScript.

The accepted language covers declarations (var, let, const, function), blocks,
if/else, for, while and do-while loops, break, continue, return and expression
statements. Expressions include literals (numbers, strings, templates, booleans,
null, arrays and objects), identifiers, unary, binary and logical operators,
assignments, conditional expressions, calls, member access, `new`, function
expressions and arrow functions. Automatic semicolon insertion is applied where
a statement ends at a line break, a closing brace or the end of input.

Everything outside the subset is rejected with a *ParseError, which carries the
line and column of the first offending token. Parsing is deterministic and has
no side effects.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"errors"
	"fmt"

	"github.com/npillmayer/loopsim"
	"github.com/npillmayer/loopsim/js/ast"
	"github.com/npillmayer/loopsim/js/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'loopsim.parser'.
func tracer() tracing.Trace {
	return tracing.Select("loopsim.parser")
}

// ParseError is the only error a parse will report. Line and Column are 1-based.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

// Pos returns the error position.
func (e *ParseError) Pos() loopsim.Position {
	return loopsim.Position{Line: e.Line, Column: e.Column}
}

// Parse parses a complete source text into a program.
func Parse(src string) (*ast.Program, error) {
	toks, err := scanner.Tokenize(src)
	if err != nil {
		var lexErr *scanner.LexError
		if errors.As(err, &lexErr) {
			return nil, &ParseError{Line: lexErr.Pos.Line, Column: lexErr.Pos.Column, Msg: lexErr.Msg}
		}
		return nil, &ParseError{Line: 1, Column: 1, Msg: err.Error()}
	}
	p := &parser{
		toks:  toks,
		lines: loopsim.NewLineIndex(src),
	}
	prog, err := p.parseProgram()
	if err != nil {
		tracer().Errorf("%v", err)
		return nil, err
	}
	prog.Source = src
	tracer().Debugf("parsed %d top-level statements", len(prog.Body))
	return prog, nil
}

// ParseExpression parses a source text consisting of a single expression.
func ParseExpression(src string) (ast.Expr, error) {
	toks, err := scanner.Tokenize(src)
	if err != nil {
		var lexErr *scanner.LexError
		if errors.As(err, &lexErr) {
			return nil, &ParseError{Line: lexErr.Pos.Line, Column: lexErr.Pos.Column, Msg: lexErr.Msg}
		}
		return nil, err
	}
	p := &parser{
		toks:  toks,
		lines: loopsim.NewLineIndex(src),
	}
	return p.parseStandaloneExpr()
}

// --- Parser state ----------------------------------------------------------

type parser struct {
	toks     []scanner.JSToken
	pos      int
	lines    *loopsim.LineIndex
	funcs    int // nesting depth of function bodies
	loops    int // nesting depth of loop bodies
}

// bailout is used to unwind the recursive descent on the first error.
type bailout struct {
	err *ParseError
}

func (p *parser) parseProgram() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			prog, err = nil, b.err
		}
	}()
	prog = &ast.Program{}
	for !p.at(scanner.EOF) {
		prog.Body = append(prog.Body, p.parseStatement())
	}
	return prog, nil
}

func (p *parser) parseStandaloneExpr() (x ast.Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			x, err = nil, b.err
		}
	}()
	x = p.parseExpression()
	if !p.at(scanner.EOF) {
		p.unexpected()
	}
	return x, nil
}

func (p *parser) cur() scanner.JSToken {
	return p.toks[p.pos]
}

func (p *parser) peek(n int) scanner.JSToken {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) prev() scanner.JSToken {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *parser) next() scanner.JSToken {
	t := p.toks[p.pos]
	if t.TokType() != scanner.EOF {
		p.pos++
	}
	return t
}

func (p *parser) at(typ loopsim.TokType) bool {
	return p.cur().TokType() == typ
}

func (p *parser) is(lexeme string) bool {
	return p.cur().Is(lexeme)
}

// accept consumes the current token if it is the punctuator or keyword lexeme.
func (p *parser) accept(lexeme string) bool {
	if p.is(lexeme) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(lexeme string) scanner.JSToken {
	if !p.is(lexeme) {
		p.failAt(p.cur(), fmt.Sprintf("expected %q, found %s", lexeme, p.cur()))
	}
	return p.next()
}

func (p *parser) expectIdent() scanner.JSToken {
	if !p.at(scanner.Ident) {
		p.failAt(p.cur(), fmt.Sprintf("expected identifier, found %s", p.cur()))
	}
	return p.next()
}

func (p *parser) failAt(t scanner.JSToken, msg string) {
	panic(bailout{&ParseError{Line: t.Pos.Line, Column: t.Pos.Column, Msg: msg}})
}

func (p *parser) unexpected() {
	t := p.cur()
	if t.TokType() == scanner.EOF {
		p.failAt(t, "unexpected end of input")
	}
	p.failAt(t, fmt.Sprintf("unexpected %s", t))
}

// loc creates a node location from a start token up to the last consumed token.
func (p *parser) loc(start scanner.JSToken) ast.Loc {
	end := p.prev().Span().To()
	if end < start.Span().From() {
		end = start.Span().To()
	}
	return ast.Loc{
		At:    start.Pos,
		Range: loopsim.Span{start.Span().From(), end},
	}
}

// semicolon implements automatic semicolon insertion: a statement may end with
// ';', or before '}', a line break or the end of input.
func (p *parser) semicolon() {
	if p.accept(";") {
		return
	}
	if p.is("}") || p.at(scanner.EOF) || p.cur().NewlineBefore {
		return
	}
	p.unexpected()
}

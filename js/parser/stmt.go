package parser

import (
	"fmt"

	"github.com/npillmayer/loopsim/js/ast"
	"github.com/npillmayer/loopsim/js/scanner"
)

func (p *parser) parseStatement() ast.Stmt {
	t := p.cur()
	if t.TokType() == scanner.Keyword {
		switch t.Lexeme() {
		case "var", "let", "const":
			d := p.parseVarDecl()
			p.semicolon()
			d.Range[1] = p.prev().Span().To()
			return d
		case "function":
			return p.parseFuncDecl()
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		case "while":
			return p.parseWhile()
		case "do":
			return p.parseDoWhile()
		case "return":
			return p.parseReturn()
		case "break", "continue":
			return p.parseJump()
		case "true", "false", "null", "this", "new", "typeof", "void", "delete":
			// expression statement
		default:
			p.failAt(t, fmt.Sprintf("unsupported statement %q", t.Lexeme()))
		}
	}
	switch {
	case t.Is("{"):
		return p.parseBlock()
	case t.Is(";"):
		p.next()
		return &ast.Empty{Loc: p.loc(t)}
	}
	x := p.parseExpression()
	p.semicolon()
	return &ast.ExprStmt{Loc: p.loc(t), X: x}
}

func (p *parser) parseBlock() *ast.Block {
	start := p.expect("{")
	b := &ast.Block{}
	for !p.is("}") {
		if p.at(scanner.EOF) {
			p.unexpected()
		}
		b.List = append(b.List, p.parseStatement())
	}
	p.next()
	b.Loc = p.loc(start)
	return b
}

// parseVarDecl parses a declaration without its terminating semicolon.
func (p *parser) parseVarDecl() *ast.VarDecl {
	start := p.next()
	d := &ast.VarDecl{Kind: start.Lexeme()}
	for {
		name := p.expectIdent()
		decl := &ast.Declarator{Name: name.Lexeme()}
		if p.accept("=") {
			decl.Init = p.parseAssignment()
		} else if d.Kind == "const" && !p.is("in") && !p.isIdent("of") {
			p.failAt(p.cur(), "missing initializer in const declaration")
		}
		decl.Loc = p.loc(name)
		d.Decls = append(d.Decls, decl)
		if !p.accept(",") {
			break
		}
	}
	d.Loc = p.loc(start)
	return d
}

func (p *parser) isIdent(name string) bool {
	return p.at(scanner.Ident) && p.cur().Lexeme() == name
}

func (p *parser) parseFuncDecl() *ast.FuncDecl {
	start := p.expect("function")
	name := p.expectIdent()
	params := p.parseParams()
	body := p.parseFuncBody()
	return &ast.FuncDecl{
		Loc:    p.loc(start),
		Name:   name.Lexeme(),
		Params: params,
		Body:   body,
	}
}

// parseParams parses a parenthesized list of plain parameter names.
func (p *parser) parseParams() []string {
	p.expect("(")
	params := []string{}
	for !p.is(")") {
		params = append(params, p.expectIdent().Lexeme())
		if !p.accept(",") {
			break
		}
	}
	p.expect(")")
	return params
}

func (p *parser) parseFuncBody() *ast.Block {
	p.funcs++
	loops := p.loops
	p.loops = 0
	body := p.parseBlock()
	p.loops = loops
	p.funcs--
	return body
}

func (p *parser) parseIf() *ast.If {
	start := p.expect("if")
	p.expect("(")
	test := p.parseExpression()
	p.expect(")")
	s := &ast.If{Test: test, Then: p.parseStatement()}
	if p.accept("else") {
		s.Else = p.parseStatement()
	}
	s.Loc = p.loc(start)
	return s
}

func (p *parser) parseLoopBody() ast.Stmt {
	p.loops++
	body := p.parseStatement()
	p.loops--
	return body
}

func (p *parser) parseFor() *ast.For {
	start := p.expect("for")
	p.expect("(")
	s := &ast.For{}
	if !p.is(";") {
		t := p.cur()
		if t.Is("var") || t.Is("let") || t.Is("const") {
			s.Init = p.parseVarDecl()
		} else {
			x := p.parseExpression()
			s.Init = &ast.ExprStmt{Loc: p.loc(t), X: x}
		}
		if p.is("in") || p.isIdent("of") {
			p.failAt(p.cur(), fmt.Sprintf("for-%s loops are not supported", p.cur().Lexeme()))
		}
	}
	p.expect(";")
	if !p.is(";") {
		s.Test = p.parseExpression()
	}
	p.expect(";")
	if !p.is(")") {
		s.Update = p.parseExpression()
	}
	p.expect(")")
	s.Body = p.parseLoopBody()
	s.Loc = p.loc(start)
	return s
}

func (p *parser) parseWhile() *ast.While {
	start := p.expect("while")
	p.expect("(")
	test := p.parseExpression()
	p.expect(")")
	body := p.parseLoopBody()
	return &ast.While{Loc: p.loc(start), Test: test, Body: body}
}

func (p *parser) parseDoWhile() *ast.DoWhile {
	start := p.expect("do")
	body := p.parseLoopBody()
	p.expect("while")
	p.expect("(")
	test := p.parseExpression()
	p.expect(")")
	p.accept(";") // always optional after do-while
	return &ast.DoWhile{Loc: p.loc(start), Body: body, Test: test}
}

func (p *parser) parseReturn() *ast.Return {
	start := p.expect("return")
	if p.funcs == 0 {
		p.failAt(start, "illegal return statement outside of function")
	}
	s := &ast.Return{}
	if !p.is(";") && !p.is("}") && !p.at(scanner.EOF) && !p.cur().NewlineBefore {
		s.X = p.parseExpression()
	}
	p.semicolon()
	s.Loc = p.loc(start)
	return s
}

func (p *parser) parseJump() ast.Stmt {
	start := p.next()
	if p.loops == 0 {
		p.failAt(start, fmt.Sprintf("illegal %s statement outside of loop", start.Lexeme()))
	}
	if p.at(scanner.Ident) && !p.cur().NewlineBefore {
		p.failAt(p.cur(), "labeled statements are not supported")
	}
	p.semicolon()
	if start.Lexeme() == "break" {
		return &ast.Break{Loc: p.loc(start)}
	}
	return &ast.Continue{Loc: p.loc(start)}
}

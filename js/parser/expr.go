package parser

import (
	"strings"

	"github.com/npillmayer/loopsim/js/ast"
	"github.com/npillmayer/loopsim/js/scanner"
)

// Binary operator precedences, loosest first.
var precedence = map[string]int{
	"??": 1, "||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6, "===": 6, "!==": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7, "instanceof": 7, "in": 7,
	"<<": 8, ">>": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
	"**": 11,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
}

// parseExpression parses a full expression. The comma operator is rejected.
func (p *parser) parseExpression() ast.Expr {
	x := p.parseAssignment()
	if p.is(",") {
		p.failAt(p.cur(), "comma expressions are not supported")
	}
	return x
}

func (p *parser) parseAssignment() ast.Expr {
	if p.isArrowAhead() {
		return p.parseArrow()
	}
	start := p.cur()
	x := p.parseConditional()
	if op := p.cur(); op.TokType() == scanner.Punct && assignOps[op.Lexeme()] {
		switch x.(type) {
		case *ast.Ident, *ast.Member, *ast.Index:
		default:
			p.failAt(op, "invalid assignment target")
		}
		p.next()
		value := p.parseAssignment()
		return &ast.Assign{Loc: p.loc(start), Op: op.Lexeme(), Target: x, Value: value}
	}
	return x
}

func (p *parser) parseConditional() ast.Expr {
	start := p.cur()
	x := p.parseBinary(1)
	if !p.accept("?") {
		return x
	}
	then := p.parseAssignment()
	p.expect(":")
	els := p.parseAssignment()
	return &ast.Cond{Loc: p.loc(start), Test: x, Then: then, Else: els}
}

// parseBinary implements precedence climbing.
func (p *parser) parseBinary(minPrec int) ast.Expr {
	start := p.cur()
	x := p.parseUnary()
	for {
		op := p.cur()
		if op.TokType() != scanner.Punct && op.TokType() != scanner.Keyword {
			return x
		}
		prec, ok := precedence[op.Lexeme()]
		if !ok || prec < minPrec {
			return x
		}
		p.next()
		next := prec + 1
		if op.Lexeme() == "**" { // right associative
			next = prec
		}
		y := p.parseBinary(next)
		switch op.Lexeme() {
		case "&&", "||", "??":
			x = &ast.Logical{Loc: p.loc(start), Op: op.Lexeme(), X: x, Y: y}
		default:
			x = &ast.Binary{Loc: p.loc(start), Op: op.Lexeme(), X: x, Y: y}
		}
	}
}

func (p *parser) parseUnary() ast.Expr {
	t := p.cur()
	switch {
	case t.Is("!"), t.Is("-"), t.Is("+"), t.Is("~"),
		t.Is("typeof"), t.Is("void"), t.Is("delete"):
		p.next()
		x := p.parseUnary()
		return &ast.Unary{Loc: p.loc(t), Op: t.Lexeme(), X: x}
	case t.Is("++"), t.Is("--"):
		p.next()
		x := p.parseUnary()
		p.checkUpdateTarget(t, x)
		return &ast.Update{Loc: p.loc(t), Op: t.Lexeme(), Prefix: true, X: x}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Expr {
	start := p.cur()
	x := p.parseCallMember(true)
	if t := p.cur(); (t.Is("++") || t.Is("--")) && !t.NewlineBefore {
		p.checkUpdateTarget(t, x)
		p.next()
		return &ast.Update{Loc: p.loc(start), Op: t.Lexeme(), X: x}
	}
	return x
}

func (p *parser) checkUpdateTarget(op scanner.JSToken, x ast.Expr) {
	switch x.(type) {
	case *ast.Ident, *ast.Member, *ast.Index:
		return
	}
	p.failAt(op, "invalid update target")
}

// parseCallMember parses a primary expression followed by any number of
// member accesses and, if calls is set, call suffixes.
func (p *parser) parseCallMember(calls bool) ast.Expr {
	start := p.cur()
	var x ast.Expr
	if p.is("new") {
		x = p.parseNew()
	} else {
		x = p.parsePrimary()
	}
	for {
		switch {
		case p.is("."), p.is("?."):
			optional := p.next().Lexeme() == "?."
			name := p.cur()
			if name.TokType() != scanner.Ident && name.TokType() != scanner.Keyword {
				p.failAt(name, "expected property name, found "+name.String())
			}
			p.next()
			x = &ast.Member{Loc: p.loc(start), X: x, Prop: name.Lexeme(), Optional: optional}
		case p.is("["):
			p.next()
			index := p.parseExpression()
			p.expect("]")
			x = &ast.Index{Loc: p.loc(start), X: x, Index: index}
		case calls && p.is("("):
			args := p.parseArgs()
			x = &ast.Call{Loc: p.loc(start), Callee: x, Args: args}
		default:
			return x
		}
	}
}

func (p *parser) parseNew() ast.Expr {
	start := p.expect("new")
	callee := p.parseCallMember(false)
	var args []ast.Expr
	if p.is("(") {
		args = p.parseArgs()
	}
	return &ast.New{Loc: p.loc(start), Callee: callee, Args: args}
}

func (p *parser) parseArgs() []ast.Expr {
	p.expect("(")
	args := []ast.Expr{}
	for !p.is(")") {
		if p.is("...") {
			p.failAt(p.cur(), "spread arguments are not supported")
		}
		args = append(args, p.parseAssignment())
		if !p.accept(",") {
			break
		}
	}
	p.expect(")")
	return args
}

func (p *parser) parsePrimary() ast.Expr {
	t := p.cur()
	switch t.TokType() {
	case scanner.Number:
		p.next()
		return &ast.NumberLit{Loc: p.loc(t), Value: t.Value().(float64), Raw: t.Lexeme()}
	case scanner.String:
		p.next()
		return &ast.StringLit{Loc: p.loc(t), Value: t.Value().(string), Raw: t.Lexeme()}
	case scanner.Template:
		p.next()
		return p.parseTemplate(t)
	case scanner.Ident:
		p.next()
		return &ast.Ident{Loc: p.loc(t), Name: t.Lexeme()}
	case scanner.Keyword:
		switch t.Lexeme() {
		case "true", "false":
			p.next()
			return &ast.BoolLit{Loc: p.loc(t), Value: t.Lexeme() == "true"}
		case "null":
			p.next()
			return &ast.NullLit{Loc: p.loc(t)}
		case "this":
			p.next()
			return &ast.This{Loc: p.loc(t)}
		case "function":
			return p.parseFuncExpr()
		}
	case scanner.Punct:
		switch t.Lexeme() {
		case "(":
			p.next()
			x := p.parseExpression()
			p.expect(")")
			return x
		case "[":
			return p.parseArray()
		case "{":
			return p.parseObject()
		}
	}
	p.unexpected()
	return nil
}

func (p *parser) parseArray() ast.Expr {
	start := p.expect("[")
	a := &ast.ArrayLit{Elems: []ast.Expr{}}
	for !p.is("]") {
		a.Elems = append(a.Elems, p.parseAssignment())
		if !p.accept(",") {
			break
		}
	}
	p.expect("]")
	a.Loc = p.loc(start)
	return a
}

func (p *parser) parseObject() ast.Expr {
	start := p.expect("{")
	o := &ast.ObjectLit{Props: []*ast.Property{}}
	for !p.is("}") {
		key := p.cur()
		var name string
		switch key.TokType() {
		case scanner.Ident, scanner.Keyword:
			name = key.Lexeme()
		case scanner.String:
			name = key.Value().(string)
		case scanner.Number:
			name = key.Lexeme()
		default:
			p.failAt(key, "expected property name, found "+key.String())
		}
		p.next()
		prop := &ast.Property{Key: name}
		if p.accept(":") {
			prop.Value = p.parseAssignment()
		} else if key.TokType() == scanner.Ident {
			prop.Value = &ast.Ident{Loc: p.loc(key), Name: name} // shorthand
		} else {
			p.unexpected()
		}
		prop.Loc = p.loc(key)
		o.Props = append(o.Props, prop)
		if !p.accept(",") {
			break
		}
	}
	p.expect("}")
	o.Loc = p.loc(start)
	return o
}

func (p *parser) parseFuncExpr() ast.Expr {
	start := p.expect("function")
	f := &ast.FuncLit{}
	if p.at(scanner.Ident) {
		f.Name = p.next().Lexeme()
	}
	f.Params = p.parseParams()
	f.Body = p.parseFuncBody()
	f.Loc = p.loc(start)
	return f
}

// isArrowAhead checks for `x =>` or a parenthesized parameter list followed
// by `=>`.
func (p *parser) isArrowAhead() bool {
	if p.at(scanner.Ident) {
		return p.peek(1).Is("=>")
	}
	if !p.is("(") {
		return false
	}
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		t := p.toks[i]
		switch {
		case t.Is("("):
			depth++
		case t.Is(")"):
			depth--
			if depth == 0 {
				return i+1 < len(p.toks) && p.toks[i+1].Is("=>")
			}
		case t.TokType() == scanner.EOF:
			return false
		}
	}
	return false
}

func (p *parser) parseArrow() ast.Expr {
	start := p.cur()
	f := &ast.FuncLit{Arrow: true}
	if p.at(scanner.Ident) {
		f.Params = []string{p.next().Lexeme()}
	} else {
		f.Params = p.parseParams()
	}
	arrow := p.expect("=>")
	if arrow.NewlineBefore {
		p.failAt(arrow, "line break before '=>'")
	}
	if p.is("{") {
		f.Body = p.parseFuncBody()
	} else {
		f.ExprBody = p.parseAssignment()
	}
	f.Loc = p.loc(start)
	return f
}

// parseTemplate splits a template literal into its text parts and the
// expressions of its substitutions.
func (p *parser) parseTemplate(t scanner.JSToken) ast.Expr {
	lexeme := t.Lexeme()
	body := lexeme[1 : len(lexeme)-1]
	tpl := &ast.TemplateLit{Loc: p.loc(t), Raw: lexeme}
	base := t.Span().From() + 1
	var text strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			text.WriteString(body[i : i+2])
			i++
			continue
		}
		if c != '$' || i+1 >= len(body) || body[i+1] != '{' {
			text.WriteByte(c)
			continue
		}
		end := matchBrace(body, i+2)
		if end < 0 {
			p.failAt(t, "unterminated template substitution")
		}
		tpl.Quasis = append(tpl.Quasis, p.unescape(t, text.String()))
		text.Reset()
		tpl.Exprs = append(tpl.Exprs, p.parseSubstitution(body[i+2:end], base+uint64(i+2), t))
		i = end
	}
	tpl.Quasis = append(tpl.Quasis, p.unescape(t, text.String()))
	return tpl
}

func (p *parser) unescape(t scanner.JSToken, text string) string {
	s, err := scanner.Unescape(text)
	if err != nil {
		p.failAt(t, err.Error())
	}
	return s
}

// matchBrace finds the '}' closing a substitution starting at from.
func matchBrace(s string, from int) int {
	depth := 1
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (p *parser) parseSubstitution(src string, offset uint64, tpl scanner.JSToken) ast.Expr {
	toks, err := scanner.Tokenize(src)
	if err != nil {
		p.failAt(tpl, "invalid template substitution")
	}
	for i := range toks {
		toks[i] = toks[i].Rebase(offset, p.lines)
	}
	sub := &parser{toks: toks, lines: p.lines, funcs: p.funcs}
	x := sub.parseExpression()
	if !sub.at(scanner.EOF) {
		sub.unexpected()
	}
	return x
}

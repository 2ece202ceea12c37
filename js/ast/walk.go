package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Children returns the direct child nodes of n, in source order. Nil children
// are omitted.
func Children(n Node) []Node {
	var ch []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if !isNil(c) {
				ch = append(ch, c)
			}
		}
	}
	switch n := n.(type) {
	case *VarDecl:
		for _, d := range n.Decls {
			add(d)
		}
	case *Declarator:
		add(n.Init)
	case *FuncDecl:
		add(n.Body)
	case *ExprStmt:
		add(n.X)
	case *Block:
		for _, s := range n.List {
			add(s)
		}
	case *If:
		add(n.Test, n.Then, n.Else)
	case *For:
		add(n.Init, n.Test, n.Update, n.Body)
	case *While:
		add(n.Test, n.Body)
	case *DoWhile:
		add(n.Body, n.Test)
	case *Return:
		add(n.X)
	case *Break, *Continue, *Empty:
	case *NumberLit, *StringLit, *BoolLit, *NullLit, *This, *Ident:
	case *TemplateLit:
		for _, x := range n.Exprs {
			add(x)
		}
	case *Binary:
		add(n.X, n.Y)
	case *Logical:
		add(n.X, n.Y)
	case *Unary:
		add(n.X)
	case *Update:
		add(n.X)
	case *Assign:
		add(n.Target, n.Value)
	case *Cond:
		add(n.Test, n.Then, n.Else)
	case *Call:
		add(n.Callee)
		for _, a := range n.Args {
			add(a)
		}
	case *Member:
		add(n.X)
	case *Index:
		add(n.X, n.Index)
	case *New:
		add(n.Callee)
		for _, a := range n.Args {
			add(a)
		}
	case *FuncLit:
		add(n.Body, n.ExprBody)
	case *ArrayLit:
		for _, e := range n.Elems {
			add(e)
		}
	case *Property:
		add(n.Value)
	case *ObjectLit:
		for _, p := range n.Props {
			add(p)
		}
	default:
		panic(fmt.Sprintf("ast: unknown node type %T", n))
	}
	return ch
}

// isNil catches nil interfaces as well as nil block pointers, which appear for
// arrow functions with expression bodies.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	if b, ok := n.(*Block); ok {
		return b == nil
	}
	return false
}

// Inspect traverses an AST in depth-first order, calling f for every node.
// If f returns false, the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if isNil(n) || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Label returns a short, single-line description of a node, used for tree
// display.
func Label(n Node) string {
	switch n := n.(type) {
	case *VarDecl:
		return n.Kind
	case *Declarator:
		return "decl " + n.Name
	case *FuncDecl:
		return fmt.Sprintf("function %s(%s)", n.Name, strings.Join(n.Params, ", "))
	case *ExprStmt:
		return "expr"
	case *Block:
		return "{…}"
	case *If:
		return "if"
	case *For:
		return "for"
	case *While:
		return "while"
	case *DoWhile:
		return "do…while"
	case *Return:
		return "return"
	case *Break:
		return "break"
	case *Continue:
		return "continue"
	case *Empty:
		return ";"
	case *NumberLit:
		return n.Raw
	case *StringLit:
		return n.Raw
	case *TemplateLit:
		return n.Raw
	case *BoolLit:
		return strconv.FormatBool(n.Value)
	case *NullLit:
		return "null"
	case *This:
		return "this"
	case *Ident:
		return n.Name
	case *Binary:
		return n.Op
	case *Logical:
		return n.Op
	case *Unary:
		return n.Op
	case *Update:
		if n.Prefix {
			return n.Op + "x"
		}
		return "x" + n.Op
	case *Assign:
		return n.Op
	case *Cond:
		return "?:"
	case *Call:
		if name, ok := DottedName(n.Callee); ok {
			return name + "()"
		}
		return "call"
	case *Member:
		return "." + n.Prop
	case *Index:
		return "[…]"
	case *New:
		return "new"
	case *FuncLit:
		if n.Arrow {
			return fmt.Sprintf("(%s) =>", strings.Join(n.Params, ", "))
		}
		return fmt.Sprintf("function %s(%s)", n.Name, strings.Join(n.Params, ", "))
	case *ArrayLit:
		return "[…]"
	case *Property:
		return n.Key + ":"
	case *ObjectLit:
		return "{…}"
	}
	return fmt.Sprintf("%T", n)
}

// DottedName returns the name of an identifier or of a chain of dot accesses
// on an identifier, e.g. "console.log".
func DottedName(e Expr) (string, bool) {
	switch e := e.(type) {
	case *Ident:
		return e.Name, true
	case *This:
		return "this", true
	case *Member:
		if x, ok := DottedName(e.X); ok {
			return x + "." + e.Prop, true
		}
	}
	return "", false
}

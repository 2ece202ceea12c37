/*
Package ast defines the abstract syntax tree for the JavaScript subset.

Node types form a closed set: the Stmt and Expr interfaces carry unexported
marker methods, so only this package can add variants, and consumers match
nodes with exhaustive type switches. Every node carries its source position
(1-based line and column) and the byte span it covers.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ast

import (
	"github.com/npillmayer/loopsim"
)

// Node is the common interface of all AST nodes.
type Node interface {
	Pos() loopsim.Position
	Span() loopsim.Span
}

// Stmt is implemented by statement nodes only.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes only.
type Expr interface {
	Node
	exprNode()
}

// Loc is embedded into every node and records its source location.
type Loc struct {
	At    loopsim.Position
	Range loopsim.Span
}

// Pos returns the start position of a node.
func (l Loc) Pos() loopsim.Position { return l.At }

// Span returns the byte span of a node.
func (l Loc) Span() loopsim.Span { return l.Range }

// Line returns the 1-based start line of a node.
func (l Loc) Line() int { return l.At.Line }

// Program is a parsed source text: an ordered list of top-level statements.
type Program struct {
	Body   []Stmt
	Source string
}

// --- Statements ------------------------------------------------------------

// VarDecl is a `var`, `let` or `const` declaration.
type VarDecl struct {
	Loc
	Kind  string
	Decls []*Declarator
}

// Declarator binds a single name, with an optional initializer.
type Declarator struct {
	Loc
	Name string
	Init Expr // may be nil
}

// FuncDecl is a function declaration. Bodies are parsed, but never invoked.
type FuncDecl struct {
	Loc
	Name   string
	Params []string
	Body   *Block
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Loc
	X Expr
}

// Block is a sequence of statements in braces.
type Block struct {
	Loc
	List []Stmt
}

// If is an if-statement; Else may be nil.
type If struct {
	Loc
	Test Expr
	Then Stmt
	Else Stmt
}

// For is a classic three-clause for-loop. Each clause may be nil.
// Init is either a *VarDecl or an *ExprStmt.
type For struct {
	Loc
	Init   Stmt
	Test   Expr
	Update Expr
	Body   Stmt
}

// While is a while-loop.
type While struct {
	Loc
	Test Expr
	Body Stmt
}

// DoWhile is a do-while-loop.
type DoWhile struct {
	Loc
	Body Stmt
	Test Expr
}

// Return is a return statement; X may be nil.
type Return struct {
	Loc
	X Expr
}

// Break is a break statement.
type Break struct {
	Loc
}

// Continue is a continue statement.
type Continue struct {
	Loc
}

// Empty is a lone semicolon.
type Empty struct {
	Loc
}

func (*VarDecl) stmtNode()  {}
func (*FuncDecl) stmtNode() {}
func (*ExprStmt) stmtNode() {}
func (*Block) stmtNode()    {}
func (*If) stmtNode()       {}
func (*For) stmtNode()      {}
func (*While) stmtNode()    {}
func (*DoWhile) stmtNode()  {}
func (*Return) stmtNode()   {}
func (*Break) stmtNode()    {}
func (*Continue) stmtNode() {}
func (*Empty) stmtNode()    {}

// --- Expressions -----------------------------------------------------------

// NumberLit is a numeric literal.
type NumberLit struct {
	Loc
	Value float64
	Raw   string
}

// StringLit is a quoted string literal. Value is unescaped.
type StringLit struct {
	Loc
	Value string
	Raw   string
}

// TemplateLit is a template literal. Quasis has one more element than Exprs;
// they interleave as quasi, expr, quasi, …
type TemplateLit struct {
	Loc
	Quasis []string
	Exprs  []Expr
	Raw    string
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Loc
	Value bool
}

// NullLit is `null`.
type NullLit struct {
	Loc
}

// This is `this`.
type This struct {
	Loc
}

// Ident is an identifier reference.
type Ident struct {
	Loc
	Name string
}

// Binary is an arithmetic, comparison or equality expression.
type Binary struct {
	Loc
	Op   string
	X, Y Expr
}

// Logical is a short-circuit expression: &&, || or ??.
type Logical struct {
	Loc
	Op   string
	X, Y Expr
}

// Unary is a prefix operator expression (!, -, +, ~, typeof, void, delete).
type Unary struct {
	Loc
	Op string
	X  Expr
}

// Update is an increment or decrement, prefix or postfix.
type Update struct {
	Loc
	Op     string // "++" or "--"
	Prefix bool
	X      Expr
}

// Assign is a plain or compound assignment.
type Assign struct {
	Loc
	Op     string // "=", "+=", …
	Target Expr
	Value  Expr
}

// Cond is a conditional expression `test ? then : else`.
type Cond struct {
	Loc
	Test, Then, Else Expr
}

// Call is a function or method call.
type Call struct {
	Loc
	Callee Expr
	Args   []Expr
}

// Member is a property access with dot notation.
type Member struct {
	Loc
	X        Expr
	Prop     string
	Optional bool // ?.
}

// Index is a computed property access `x[i]`.
type Index struct {
	Loc
	X, Index Expr
}

// New is a constructor call.
type New struct {
	Loc
	Callee Expr
	Args   []Expr
}

// FuncLit is a function expression or an arrow function. Arrow functions with
// an expression body have ExprBody set and Body nil.
type FuncLit struct {
	Loc
	Name     string
	Params   []string
	Arrow    bool
	Body     *Block
	ExprBody Expr
}

// ArrayLit is an array literal.
type ArrayLit struct {
	Loc
	Elems []Expr
}

// Property is a key/value pair of an object literal.
type Property struct {
	Loc
	Key   string
	Value Expr
}

// ObjectLit is an object literal.
type ObjectLit struct {
	Loc
	Props []*Property
}

func (*NumberLit) exprNode()   {}
func (*StringLit) exprNode()   {}
func (*TemplateLit) exprNode() {}
func (*BoolLit) exprNode()     {}
func (*NullLit) exprNode()     {}
func (*This) exprNode()        {}
func (*Ident) exprNode()       {}
func (*Binary) exprNode()      {}
func (*Logical) exprNode()     {}
func (*Unary) exprNode()       {}
func (*Update) exprNode()      {}
func (*Assign) exprNode()      {}
func (*Cond) exprNode()        {}
func (*Call) exprNode()        {}
func (*Member) exprNode()      {}
func (*Index) exprNode()       {}
func (*New) exprNode()         {}
func (*FuncLit) exprNode()     {}
func (*ArrayLit) exprNode()    {}
func (*ObjectLit) exprNode()   {}

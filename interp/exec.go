package interp

import (
	"github.com/npillmayer/loopsim/js/ast"
	"github.com/npillmayer/loopsim/runtime"
)

// completion tells enclosing loops how a statement finished.
type completion int8

const (
	normal completion = iota
	breakLoop
	continueLoop
)

func (c completion) String() string {
	switch c {
	case breakLoop:
		return "break"
	case continueLoop:
		return "continue"
	}
	return "normal"
}

func (ip *Interpreter) exec(ctx *runtime.ExecContext, s ast.Stmt) completion {
	switch s := s.(type) {
	case *ast.ExprStmt:
		ip.execExpr(ctx, s.X, s.Pos().Line)
	case *ast.VarDecl:
		ip.execVarDecl(ctx, s)
	case *ast.FuncDecl:
		tracer().Debugf("function %s declared at line %d", s.Name, s.Pos().Line)
		ctx.Capture(s.Pos().Line)
	case *ast.Block:
		return ip.execList(ctx, s.List)
	case *ast.If:
		ctx.Capture(s.Pos().Line)
		test, _ := Eval(ctx.Env, s.Test)
		if test.Truthy() {
			return ip.exec(ctx, s.Then)
		} else if s.Else != nil {
			return ip.exec(ctx, s.Else)
		}
	case *ast.For:
		ip.execFor(ctx, s)
	case *ast.While:
		ip.loop(ctx, s.Pos().Line, s.Test, s.Body, nil, false)
	case *ast.DoWhile:
		ip.loop(ctx, s.Pos().Line, s.Test, s.Body, nil, true)
	case *ast.Break:
		return breakLoop
	case *ast.Continue:
		return continueLoop
	case *ast.Return, *ast.Empty:
		// function bodies are never run, a return has nothing to leave
	}
	return normal
}

func (ip *Interpreter) execList(ctx *runtime.ExecContext, stmts []ast.Stmt) completion {
	for _, s := range stmts {
		if c := ip.exec(ctx, s); c != normal {
			return c
		}
	}
	return normal
}

// execExpr interprets an expression statement.
func (ip *Interpreter) execExpr(ctx *runtime.ExecContext, x ast.Expr, line int) {
	switch x := x.(type) {
	case *ast.Call:
		ip.call(ctx, x)
	case *ast.Assign:
		ctx.Capture(line)
		if v, ok := ip.value(ctx, x.Value); ok {
			assign(ctx.Env, x, v)
		} else {
			assignUndefined(ctx.Env, x)
		}
	case *ast.Update:
		ctx.Capture(line)
		Eval(ctx.Env, x)
	default:
		Eval(ctx.Env, x)
	}
}

// value evaluates an initializer or right-hand side. Calls are interpreted for
// their scheduling effects and yield their result.
func (ip *Interpreter) value(ctx *runtime.ExecContext, x ast.Expr) (runtime.Value, bool) {
	if c, ok := x.(*ast.Call); ok {
		return ip.call(ctx, c), true
	}
	return Eval(ctx.Env, x)
}

func (ip *Interpreter) execVarDecl(ctx *runtime.ExecContext, d *ast.VarDecl) {
	ctx.Capture(d.Pos().Line)
	for _, decl := range d.Decls {
		v := runtime.Undef()
		if decl.Init != nil {
			v, _ = ip.value(ctx, decl.Init)
		}
		ctx.Env.Declare(decl.Name, d.Kind, v)
	}
}

func (ip *Interpreter) execFor(ctx *runtime.ExecContext, f *ast.For) {
	if f.Init != nil {
		switch init := f.Init.(type) {
		case *ast.VarDecl:
			for _, decl := range init.Decls {
				v := runtime.Undef()
				if decl.Init != nil {
					v, _ = ip.value(ctx, decl.Init)
				}
				ctx.Env.Declare(decl.Name, init.Kind, v)
			}
		case *ast.ExprStmt:
			ip.value(ctx, init.X)
		}
	}
	ip.loop(ctx, f.Pos().Line, f.Test, f.Body, f.Update, false)
}

// loop runs a loop body until its test fails, a break occurs or the iteration
// limit is reached. A missing test counts as true; a test the evaluator does
// not cover counts as false. A frame at the loop's line follows each iteration.
func (ip *Interpreter) loop(ctx *runtime.ExecContext, line int, test ast.Expr, body ast.Stmt,
	update ast.Expr, bodyFirst bool) {
	//
	for n := 0; ; n++ {
		if n >= ip.loopLimit {
			tracer().Infof("loop at line %d stopped after %d iterations", line, n)
			return
		}
		if !(bodyFirst && n == 0) && test != nil {
			v, ok := Eval(ctx.Env, test)
			if !ok || !v.Truthy() {
				return
			}
		}
		c := ip.exec(ctx, body)
		if c == breakLoop {
			ctx.Capture(line)
			return
		}
		if update != nil {
			ip.value(ctx, update)
		}
		ctx.Capture(line)
	}
}

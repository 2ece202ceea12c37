package interp

import (
	"fmt"
	"math"
	"strings"

	"github.com/npillmayer/loopsim/js/ast"
	"github.com/npillmayer/loopsim/runtime"
)

// Stack labels of recognized calls.
const (
	LabelConsoleLog     = "console.log"
	LabelSetTimeout     = "setTimeout"
	LabelPromiseThen    = "Promise.then"
	LabelQueueMicrotask = "queueMicrotask"
	LabelAnonymous      = "anonymous()"
)

// consoleMethods are printed like console.log, under their own label.
var consoleMethods = map[string]bool{
	"console.log":   true,
	"console.info":  true,
	"console.warn":  true,
	"console.error": true,
	"console.debug": true,
}

// call dispatches a call expression by the shape of its callee. Calls which are
// not recognized are no-ops yielding undefined.
func (ip *Interpreter) call(ctx *runtime.ExecContext, c *ast.Call) runtime.Value {
	switch callee := c.Callee.(type) {
	case *ast.Ident:
		switch callee.Name {
		case "setTimeout":
			return ip.setTimeout(ctx, c)
		case "queueMicrotask":
			ip.enqueueMicrotask(ctx, c, LabelQueueMicrotask)
			return runtime.Undef()
		}
	case *ast.Member:
		if callee.Prop == "then" {
			if recv, ok := callee.X.(*ast.Call); ok {
				ip.call(ctx, recv) // chained: p.then(a).then(b)
			}
			ip.enqueueMicrotask(ctx, c, LabelPromiseThen)
			return runtime.Undef()
		}
		if name, ok := ast.DottedName(callee); ok && consoleMethods[name] {
			ip.consoleLog(ctx, c, name)
			return runtime.Undef()
		}
	}
	tracer().Debugf("call of %s at line %d not recognized", ast.Label(c), c.Pos().Line)
	return runtime.Undef()
}

func (ip *Interpreter) consoleLog(ctx *runtime.ExecContext, c *ast.Call, label string) {
	ctx.Stack.Push(label)
	ctx.Capture(c.Pos().Line)
	args := make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = ip.render(ctx, arg)
	}
	ctx.Console.Append(strings.Join(args, " "))
	ctx.Stack.Pop()
	ctx.CaptureNoLine()
}

// render converts a console argument to text. Arguments the evaluator does not
// cover print as their literal text, or as undefined.
func (ip *Interpreter) render(ctx *runtime.ExecContext, arg ast.Expr) string {
	if v, ok := Eval(ctx.Env, arg); ok {
		return v.String()
	}
	switch arg := arg.(type) {
	case *ast.TemplateLit:
		return arg.Raw
	case *ast.FuncLit:
		if arg.Name != "" {
			return fmt.Sprintf("[Function: %s]", arg.Name)
		}
		return "[Function (anonymous)]"
	case *ast.ArrayLit, *ast.ObjectLit:
		if text, ok := ip.sourceText(arg); ok {
			return text
		}
	}
	return "undefined"
}

func (ip *Interpreter) sourceText(n ast.Node) (string, bool) {
	span := n.Span()
	if span.IsNull() || span.To() > uint64(len(ip.source)) {
		return "", false
	}
	return ip.source[span.From():span.To()], true
}

func (ip *Interpreter) setTimeout(ctx *runtime.ExecContext, c *ast.Call) runtime.Value {
	ctx.Stack.Push(LabelSetTimeout)
	ctx.Capture(c.Pos().Line)
	var cb, delay ast.Expr
	if len(c.Args) > 0 {
		cb = c.Args[0]
	}
	if len(c.Args) > 1 {
		delay = c.Args[1]
	}
	id := ctx.Timers.Add(LabelSetTimeout, DelayTicks(delay), CallbackLabel(cb))
	ctx.Stack.Pop()
	ctx.CaptureNoLine()
	return runtime.Num(float64(id))
}

func (ip *Interpreter) enqueueMicrotask(ctx *runtime.ExecContext, c *ast.Call, label string) {
	ctx.Stack.Push(label)
	ctx.Capture(c.Pos().Line)
	var cb ast.Expr
	if len(c.Args) > 0 {
		cb = c.Args[0]
	}
	ctx.Microtasks.Enqueue(CallbackLabel(cb))
	ctx.Stack.Pop()
	ctx.CaptureNoLine()
}

// CallbackLabel derives the label of a callback argument: "f()" for an
// identifier f, "a.b()" for a member expression, the name of a named function
// expression, and "anonymous()" for anything else.
func CallbackLabel(cb ast.Expr) string {
	switch cb := cb.(type) {
	case *ast.Ident, *ast.Member:
		if name, ok := ast.DottedName(cb); ok {
			return name + "()"
		}
	case *ast.FuncLit:
		if cb.Name != "" {
			return cb.Name + "()"
		}
	}
	return LabelAnonymous
}

// DelayTicks converts the delay argument of a timer to ticks: one tick per
// 100 ms, rounded up, at least 1. Missing or non-literal delays take 1 tick.
func DelayTicks(delay ast.Expr) int {
	lit, ok := delay.(*ast.NumberLit)
	if !ok || math.IsNaN(lit.Value) || lit.Value <= 0 {
		return 1
	}
	ticks := math.Ceil(lit.Value / msPerTick)
	if ticks > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Max(1, ticks))
}

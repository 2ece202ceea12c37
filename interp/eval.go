package interp

import (
	"math"
	"strings"

	"github.com/npillmayer/loopsim/js/ast"
	"github.com/npillmayer/loopsim/runtime"
)

// Eval evaluates an expression against an environment. The boolean result is
// false if the expression is outside the covered grammar; the value is then
// undefined. Eval never panics on unsupported shapes.
//
// Identifiers bound to nothing evaluate to undefined. Assignments and update
// expressions to plain identifiers mutate env.
func Eval(env *runtime.Environment, e ast.Expr) (runtime.Value, bool) {
	switch e := e.(type) {
	case *ast.NumberLit:
		return runtime.Num(e.Value), true
	case *ast.StringLit:
		return runtime.Str(e.Value), true
	case *ast.BoolLit:
		return runtime.Bool(e.Value), true
	case *ast.NullLit:
		return runtime.NullValue(), true
	case *ast.TemplateLit:
		return evalTemplate(env, e)
	case *ast.Ident:
		return evalIdent(env, e.Name), true
	case *ast.Binary:
		x, ok := Eval(env, e.X)
		if !ok {
			return unsupported()
		}
		y, ok := Eval(env, e.Y)
		if !ok {
			return unsupported()
		}
		return BinaryOp(e.Op, x, y)
	case *ast.Logical:
		return evalLogical(env, e)
	case *ast.Unary:
		return evalUnary(env, e)
	case *ast.Update:
		return evalUpdate(env, e)
	case *ast.Assign:
		v, ok := Eval(env, e.Value)
		if !ok {
			assignUndefined(env, e)
			return unsupported()
		}
		return assign(env, e, v)
	case *ast.Cond:
		test, ok := Eval(env, e.Test)
		if !ok {
			return unsupported()
		}
		if test.Truthy() {
			return Eval(env, e.Then)
		}
		return Eval(env, e.Else)
	case *ast.Call, *ast.Member, *ast.Index, *ast.New, *ast.FuncLit,
		*ast.ArrayLit, *ast.ObjectLit, *ast.This:
		return unsupported()
	}
	return unsupported()
}

func unsupported() (runtime.Value, bool) {
	return runtime.Undef(), false
}

func evalIdent(env *runtime.Environment, name string) runtime.Value {
	if v, ok := env.Lookup(name); ok {
		return v
	}
	switch name {
	case "NaN":
		return runtime.Num(math.NaN())
	case "Infinity":
		return runtime.Num(math.Inf(1))
	}
	return runtime.Undef()
}

func evalTemplate(env *runtime.Environment, t *ast.TemplateLit) (runtime.Value, bool) {
	var b strings.Builder
	for i, q := range t.Quasis {
		b.WriteString(q)
		if i < len(t.Exprs) {
			v, ok := Eval(env, t.Exprs[i])
			if !ok {
				return unsupported()
			}
			b.WriteString(v.String())
		}
	}
	return runtime.Str(b.String()), true
}

func evalLogical(env *runtime.Environment, e *ast.Logical) (runtime.Value, bool) {
	x, ok := Eval(env, e.X)
	if !ok {
		return unsupported()
	}
	switch e.Op {
	case "&&":
		if !x.Truthy() {
			return x, true
		}
	case "||":
		if x.Truthy() {
			return x, true
		}
	case "??":
		if !x.IsNullish() {
			return x, true
		}
	default:
		return unsupported()
	}
	return Eval(env, e.Y)
}

func evalUnary(env *runtime.Environment, e *ast.Unary) (runtime.Value, bool) {
	if e.Op == "delete" {
		return unsupported()
	}
	x, ok := Eval(env, e.X)
	if !ok {
		return unsupported()
	}
	switch e.Op {
	case "!":
		return runtime.Bool(!x.Truthy()), true
	case "-":
		return runtime.Num(-x.ToNumber()), true
	case "+":
		return runtime.Num(x.ToNumber()), true
	case "~":
		return runtime.Num(float64(^toInt32(x.ToNumber()))), true
	case "typeof":
		return runtime.Str(x.TypeOf()), true
	case "void":
		return runtime.Undef(), true
	}
	return unsupported()
}

// evalUpdate implements ++ and --. A missing or undefined operand counts as 0.
func evalUpdate(env *runtime.Environment, e *ast.Update) (runtime.Value, bool) {
	id, ok := e.X.(*ast.Ident)
	if !ok {
		return unsupported()
	}
	old, _ := env.Lookup(id.Name)
	n := 0.0
	if !old.IsUndefined() {
		n = old.ToNumber()
	}
	updated := n + 1
	if e.Op == "--" {
		updated = n - 1
	}
	env.Assign(id.Name, runtime.Num(updated))
	if e.Prefix {
		return runtime.Num(updated), true
	}
	return runtime.Num(n), true
}

// assign binds v, combined with the current value for compound operators.
func assign(env *runtime.Environment, e *ast.Assign, v runtime.Value) (runtime.Value, bool) {
	id, ok := e.Target.(*ast.Ident)
	if !ok {
		return unsupported()
	}
	if e.Op != "=" {
		cur := evalIdent(env, id.Name)
		if v, ok = BinaryOp(strings.TrimSuffix(e.Op, "="), cur, v); !ok {
			return unsupported()
		}
	}
	env.Assign(id.Name, v)
	return v, true
}

// assignUndefined binds undefined to the target of an assignment whose value
// cannot be evaluated. This holds for compound operators as well.
func assignUndefined(env *runtime.Environment, e *ast.Assign) {
	if id, ok := e.Target.(*ast.Ident); ok {
		env.Assign(id.Name, runtime.Undef())
	}
}

// BinaryOp applies a binary operator with the coercion rules of the subject
// language. Loose (==, !=) and strict (===, !==) equality are distinct.
func BinaryOp(op string, x, y runtime.Value) (runtime.Value, bool) {
	switch op {
	case "+":
		if x.Kind() == runtime.String || y.Kind() == runtime.String {
			return runtime.Str(x.String() + y.String()), true
		}
		return runtime.Num(x.ToNumber() + y.ToNumber()), true
	case "-":
		return runtime.Num(x.ToNumber() - y.ToNumber()), true
	case "*":
		return runtime.Num(x.ToNumber() * y.ToNumber()), true
	case "/":
		return runtime.Num(x.ToNumber() / y.ToNumber()), true
	case "%":
		return runtime.Num(math.Mod(x.ToNumber(), y.ToNumber())), true
	case "**":
		b, p := x.ToNumber(), y.ToNumber()
		if math.IsNaN(p) {
			return runtime.Num(math.NaN()), true
		}
		return runtime.Num(math.Pow(b, p)), true
	case "==":
		return runtime.Bool(x.LooseEquals(y)), true
	case "!=":
		return runtime.Bool(!x.LooseEquals(y)), true
	case "===":
		return runtime.Bool(x.StrictEquals(y)), true
	case "!==":
		return runtime.Bool(!x.StrictEquals(y)), true
	case "<", ">", "<=", ">=":
		return runtime.Bool(compare(op, x, y)), true
	case "&":
		return runtime.Num(float64(toInt32(x.ToNumber()) & toInt32(y.ToNumber()))), true
	case "|":
		return runtime.Num(float64(toInt32(x.ToNumber()) | toInt32(y.ToNumber()))), true
	case "^":
		return runtime.Num(float64(toInt32(x.ToNumber()) ^ toInt32(y.ToNumber()))), true
	case "<<":
		return runtime.Num(float64(toInt32(x.ToNumber()) << (uint32(toInt32(y.ToNumber())) & 31))), true
	case ">>":
		return runtime.Num(float64(toInt32(x.ToNumber()) >> (uint32(toInt32(y.ToNumber())) & 31))), true
	case ">>>":
		return runtime.Num(float64(uint32(toInt32(x.ToNumber())) >> (uint32(toInt32(y.ToNumber())) & 31))), true
	}
	return unsupported()
}

// compare implements relational operators. Two strings compare
// lexicographically, anything else numerically; NaN compares false.
func compare(op string, x, y runtime.Value) bool {
	if x.Kind() == runtime.String && y.Kind() == runtime.String {
		a, b := x.String(), y.String()
		switch op {
		case "<":
			return a < b
		case ">":
			return a > b
		case "<=":
			return a <= b
		}
		return a >= b
	}
	a, b := x.ToNumber(), y.ToNumber()
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	}
	return a >= b
}

func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(math.Mod(math.Trunc(f), 1<<32))))
}

/*
Package interp interprets programs of the JavaScript subset for the event-loop
simulation.

The interpreter walks statements in source order, mutating the flat variable
environment and emitting scheduling side effects for a few recognized call
forms: console.log appends to the console, setTimeout registers a pending timer,
and any call of a method named `then` (as well as queueMicrotask) enqueues a
microtask. Callbacks are represented by labels only; their bodies are never run.

Matching of calls is syntactic. Every call of a property named `then` is a
promise continuation, whatever its receiver is, and every call named setTimeout
registers a timer. Constructs the interpreter does not cover degrade to no-ops,
and expressions it cannot evaluate yield undefined; interpretation never fails.

Loops are bounded by an iteration limit, after which they silently stop.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package interp

import (
	"github.com/npillmayer/loopsim/js/ast"
	"github.com/npillmayer/loopsim/runtime"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'loopsim.interp'.
func tracer() tracing.Trace {
	return tracing.Select("loopsim.interp")
}

// DefaultLoopLimit is the maximum number of iterations of a single loop.
const DefaultLoopLimit = 50

// One scheduler tick stands for 100 ms of timer delay.
const msPerTick = 100

// Interpreter executes statements against an execution context.
type Interpreter struct {
	loopLimit int
	source    string
}

// Option configures an interpreter.
type Option func(*Interpreter)

// WithLoopLimit sets the iteration cap per loop. Values < 1 are ignored.
func WithLoopLimit(n int) Option {
	return func(ip *Interpreter) {
		if n > 0 {
			ip.loopLimit = n
		}
	}
}

// WithSource sets the source text the program was parsed from. It is used to
// print array and object literals the evaluator does not cover.
func WithSource(src string) Option {
	return func(ip *Interpreter) {
		ip.source = src
	}
}

// New creates an interpreter.
func New(opts ...Option) *Interpreter {
	ip := &Interpreter{loopLimit: DefaultLoopLimit}
	for _, opt := range opts {
		opt(ip)
	}
	return ip
}

// ExecProgram executes the top-level statements of a program.
func (ip *Interpreter) ExecProgram(ctx *runtime.ExecContext, prog *ast.Program) {
	if prog.Source != "" {
		ip.source = prog.Source
	}
	ip.Exec(ctx, prog.Body)
}

// Exec executes a list of statements.
func (ip *Interpreter) Exec(ctx *runtime.ExecContext, stmts []ast.Stmt) {
	for _, s := range stmts {
		if c := ip.exec(ctx, s); c != normal {
			tracer().Debugf("%s outside of loop ignored", c)
			return
		}
	}
}

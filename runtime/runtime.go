/*
Package runtime implements the engine state of an event-loop simulation,
consisting of values, a variable environment, a call stack, pending timers,
task queues and the console log.

All of it is bundled into an ExecContext, which is owned by the scheduler of a
run and handed to the interpreter by reference. Nothing in this package is
global, so independent runs never share state.

Environment

The environment is a single flat symbol table. There are no block scopes and
no closures; declarations, assignments and updates all address the same table.

Call Stack

The call stack is a linked stack of labeled frames. Labels are human readable
strings such as "main()", "console.log" or the label of a callback.

Timers and Queues

Pending timers count down in ticks and are kept in registration order.
Microtasks and macrotasks are FIFO queues of callback labels.

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software or the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package runtime

import (
	"github.com/npillmayer/loopsim/trace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'loopsim.runtime'.
func tracer() tracing.Trace {
	return tracing.Select("loopsim.runtime")
}

// ExecContext is the complete mutable state of a run.
type ExecContext struct {
	Env        *Environment    // flat variable scope
	Stack      *CallStack      // labels of active units of work
	Timers     *TimerSet       // pending timers
	Microtasks *TaskQueue      // drained completely between macrotasks
	Macrotasks *TaskQueue      // one per scheduler tick
	Console    *ConsoleLog     // append-only output
	Recorder   *trace.Recorder // frames captured so far
}

// NewExecContext constructs an empty execution context.
func NewExecContext() *ExecContext {
	return &ExecContext{
		Env:        NewEnvironment(),
		Stack:      new(CallStack),
		Timers:     NewTimerSet(),
		Microtasks: NewTaskQueue("microtasks"),
		Macrotasks: NewTaskQueue("macrotasks"),
		Console:    NewConsoleLog(),
		Recorder:   trace.NewRecorder(),
	}
}

// State projects the context onto the input of a frame capture.
func (ctx *ExecContext) State() trace.State {
	return trace.State{
		CallStack:  ctx.Stack.Labels(),
		Timers:     ctx.Timers.View(),
		Microtasks: ctx.Microtasks.Labels(),
		Macrotasks: ctx.Macrotasks.Labels(),
		ConsoleLog: ctx.Console.Lines(),
	}
}

// Capture records a frame highlighting a source line.
func (ctx *ExecContext) Capture(line int) {
	ctx.Recorder.Record(ctx.State(), line)
}

// CaptureNoLine records a frame without a highlighted line.
func (ctx *ExecContext) CaptureNoLine() {
	ctx.Recorder.Record(ctx.State(), 0)
}

// Idle is true if no timer is pending and both task queues are empty.
func (ctx *ExecContext) Idle() bool {
	return ctx.Timers.Len() == 0 && ctx.Microtasks.Empty() && ctx.Macrotasks.Empty()
}

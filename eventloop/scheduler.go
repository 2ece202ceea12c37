/*
Package eventloop drives the simulation of an event-loop runtime.

A run parses a source text, interprets its top-level statements as the main
script and then enters the tick loop. Each tick decrements all pending timers,
moving expired ones to the macrotask queue, drains the microtask queue
completely and finally dispatches at most one macrotask, if the call stack is
empty. The loop ends when no timer is pending and both queues are empty, or
when the tick ceiling is reached.

Every state change is captured as a frame. The frame sequence is returned to
the caller:

	frames, err := eventloop.Run(`console.log("Start");
	setTimeout(() => console.log("Timeout"), 0);
	Promise.resolve().then(() => console.log("Promise"));
	console.log("End");`)

A run is synchronous and deterministic: the same source always yields the same
frames. The only error is a *parser.ParseError, in which case no frames are
returned.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package eventloop

import (
	"fmt"

	"github.com/npillmayer/loopsim/interp"
	"github.com/npillmayer/loopsim/js/ast"
	"github.com/npillmayer/loopsim/js/parser"
	"github.com/npillmayer/loopsim/runtime"
	"github.com/npillmayer/loopsim/trace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'loopsim.eventloop'.
func tracer() tracing.Trace {
	return tracing.Select("loopsim.eventloop")
}

// State is a phase of the scheduler.
type State int8

// Scheduler phases.
const (
	Script State = iota
	TimerTick
	DrainMicrotasks
	RunMacrotask
	Done
)

func (st State) String() string {
	switch st {
	case Script:
		return "Script"
	case TimerTick:
		return "TimerTick"
	case DrainMicrotasks:
		return "DrainMicrotasks"
	case RunMacrotask:
		return "RunMacrotask"
	case Done:
		return "Done"
	}
	return fmt.Sprintf("State(%d)", int(st))
}

// Prefixes of the console entries modeling task execution.
const (
	ExecutedMicrotask = "Executed microtask: "
	ExecutedMacrotask = "Executed macrotask: "
)

// LabelMain is the call stack label of the main script.
const LabelMain = "main()"

// Stats reports on the last run of a scheduler.
type Stats struct {
	Ticks     int  // scheduler loop iterations
	Frames    int  // frames captured
	Truncated bool // work was left when the tick ceiling was reached
}

// Scheduler owns the engine state of a run and applies the queue priority rules.
type Scheduler struct {
	config Config
	ctx    *runtime.ExecContext
	state  State
	stats  Stats
}

// New creates a scheduler with default limits, modified by options.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{config: DefaultConfig()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run parses and simulates a source text with default limits.
func Run(src string) (trace.Trace, error) {
	return New().Run(src)
}

// Config returns the limits of the scheduler.
func (s *Scheduler) Config() Config {
	return s.config
}

// Stats returns statistics of the last run.
func (s *Scheduler) Stats() Stats {
	return s.stats
}

// State returns the phase the scheduler is in.
func (s *Scheduler) State() State {
	return s.state
}

// Run parses a source text and simulates it. A parse error is returned as a
// *parser.ParseError, without frames.
func (s *Scheduler) Run(src string) (trace.Trace, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return s.RunProgram(prog), nil
}

// RunProgram simulates a parsed program. Every call starts from empty state.
func (s *Scheduler) RunProgram(prog *ast.Program) trace.Trace {
	s.ctx = runtime.NewExecContext()
	s.stats = Stats{}
	ip := interp.New(
		interp.WithLoopLimit(s.config.MaxLoopIterations),
		interp.WithSource(prog.Source),
	)
	tracer().Infof("run started, %d top-level statements", len(prog.Body))
	s.script(ip, prog)
	s.tickLoop()
	s.enter(Done)
	s.stats.Frames = s.ctx.Recorder.Len()
	tracer().Infof("run finished after %d ticks with %d frames", s.stats.Ticks, s.stats.Frames)
	return s.ctx.Recorder.Trace()
}

func (s *Scheduler) enter(st State) {
	if s.state != st {
		tracer().Debugf("%s → %s", s.state, st)
	}
	s.state = st
}

// script runs the top-level statements as main().
func (s *Scheduler) script(ip *interp.Interpreter, prog *ast.Program) {
	s.state = Script
	s.ctx.CaptureNoLine()
	s.ctx.Stack.Push(LabelMain)
	s.ctx.CaptureNoLine()
	ip.ExecProgram(s.ctx, prog)
	s.ctx.Stack.Pop()
	s.ctx.CaptureNoLine()
}

func (s *Scheduler) tickLoop() {
	for {
		if s.stats.Ticks >= s.config.MaxTicks {
			s.stats.Truncated = !s.ctx.Idle()
			if s.stats.Truncated {
				tracer().Infof("run stopped at tick ceiling %d", s.config.MaxTicks)
			}
			return
		}
		s.stats.Ticks++
		s.timerTick()
		if s.ctx.Idle() {
			return
		}
		s.drainMicrotasks()
		if s.ctx.Stack.IsEmpty() && !s.ctx.Macrotasks.Empty() {
			s.runMacrotask()
		}
	}
}

// timerTick moves expired timers to the macrotask queue.
func (s *Scheduler) timerTick() {
	s.enter(TimerTick)
	fired := s.ctx.Timers.Tick()
	for _, t := range fired {
		s.ctx.Macrotasks.Enqueue(t.Callback)
	}
	if len(fired) > 0 {
		s.ctx.CaptureNoLine()
	}
}

func (s *Scheduler) drainMicrotasks() {
	s.enter(DrainMicrotasks)
	for !s.ctx.Microtasks.Empty() {
		task, _ := s.ctx.Microtasks.Dequeue()
		s.runTask(task, ExecutedMicrotask)
	}
}

func (s *Scheduler) runMacrotask() {
	s.enter(RunMacrotask)
	task, _ := s.ctx.Macrotasks.Dequeue()
	s.runTask(task, ExecutedMacrotask)
}

// runTask models the execution of a callback without invoking it.
func (s *Scheduler) runTask(label, prefix string) {
	s.ctx.Stack.Push(label)
	s.ctx.CaptureNoLine()
	s.ctx.Console.Append(prefix + label)
	s.ctx.Stack.Pop()
	s.ctx.CaptureNoLine()
}

/*
Package trace defines frames, the immutable snapshots of engine state, and the
recorder collecting them.

A frame holds independent copies of the call stack, the pending timers (name and
remaining ticks), the microtask and macrotask queues, the console log and an
optional source line to highlight. Frames never share memory with live engine
state, so earlier frames remain valid while the engine keeps mutating its state.
The ordered frame sequence of a run is its sole output and is never edited after
capture.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package trace

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'loopsim.trace'.
func tracer() tracing.Trace {
	return tracing.Select("loopsim.trace")
}

// TimerView is the display projection of a pending timer.
type TimerView struct {
	Name           string `json:"name"`
	RemainingTicks int    `json:"remainingTicks"`
}

// Frame is one snapshot of engine state.
type Frame struct {
	CallStack     []string    `json:"callStack"`
	PendingTimers []TimerView `json:"pendingTimers"`
	Microtasks    []string    `json:"microtasks"`
	Macrotasks    []string    `json:"macrotasks"`
	ConsoleLog    []string    `json:"consoleLog"`
	HighlightLine *int        `json:"highlightLine,omitempty"`
}

// State is the input to Capture. Slices are copied, never retained.
type State struct {
	CallStack  []string
	Timers     []TimerView
	Microtasks []string
	Macrotasks []string
	ConsoleLog []string
}

// Capture creates a frame from engine state. A line < 1 means no line is
// highlighted.
func Capture(s State, line int) Frame {
	f := Frame{
		CallStack:     copyStrings(s.CallStack),
		PendingTimers: make([]TimerView, len(s.Timers)),
		Microtasks:    copyStrings(s.Microtasks),
		Macrotasks:    copyStrings(s.Macrotasks),
		ConsoleLog:    copyStrings(s.ConsoleLog),
	}
	copy(f.PendingTimers, s.Timers)
	if line > 0 {
		l := line
		f.HighlightLine = &l
	}
	return f
}

func copyStrings(s []string) []string {
	c := make([]string, len(s))
	copy(c, s)
	return c
}

// Line returns the highlighted line and true, or 0 and false.
func (f Frame) Line() (int, bool) {
	if f.HighlightLine == nil {
		return 0, false
	}
	return *f.HighlightLine, true
}

// Clone creates a deep copy of a frame.
func (f Frame) Clone() Frame {
	line, _ := f.Line()
	return Capture(State{
		CallStack:  f.CallStack,
		Timers:     f.PendingTimers,
		Microtasks: f.Microtasks,
		Macrotasks: f.Macrotasks,
		ConsoleLog: f.ConsoleLog,
	}, line)
}

func (f Frame) String() string {
	var b strings.Builder
	b.WriteString("[stack: ")
	b.WriteString(strings.Join(f.CallStack, " > "))
	b.WriteString(" | timers: ")
	for i, t := range f.PendingTimers {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s(%d)", t.Name, t.RemainingTicks)
	}
	fmt.Fprintf(&b, " | micro: %s | macro: %s | log: %d",
		strings.Join(f.Microtasks, ", "), strings.Join(f.Macrotasks, ", "), len(f.ConsoleLog))
	if line, ok := f.Line(); ok {
		fmt.Fprintf(&b, " | line %d", line)
	}
	b.WriteString("]")
	return b.String()
}

package runtime

import (
	"fmt"
)

// This module implements the call stack of a simulation run.
// Frames do not hold storage; the environment is flat. A frame records which
// unit of work is active.

// StackFrame is a labeled entry of the call stack.
type StackFrame struct {
	Label  string
	Parent *StackFrame
}

// NewStackFrame creates a new stack frame.
func NewStackFrame(label string) *StackFrame {
	return &StackFrame{Label: label}
}

func (sf *StackFrame) String() string {
	return fmt.Sprintf("<frame %s>", sf.Label)
}

// IsRoot is a predicate: Is this the bottommost frame?
func (sf *StackFrame) IsRoot() bool {
	return (sf.Parent == nil)
}

// ---------------------------------------------------------------------------

// CallStack is a stack of labeled frames. The zero value is an empty stack.
type CallStack struct {
	base *StackFrame
	tos  *StackFrame
	size int
}

// Top gets the topmost frame of a stack (TOS).
func (cs *CallStack) Top() *StackFrame {
	if cs.tos == nil {
		panic("attempt to access frame of empty call stack")
	}
	return cs.tos
}

// Base gets the bottommost frame.
func (cs *CallStack) Base() *StackFrame {
	if cs.base == nil {
		panic("attempt to access base frame of empty call stack")
	}
	return cs.base
}

// Push pushes a new frame as TOS, having the recent TOS as its parent.
func (cs *CallStack) Push(label string) *StackFrame {
	sf := NewStackFrame(label)
	sf.Parent = cs.tos
	if cs.tos == nil { // the new frame is the base frame
		cs.base = sf
	}
	cs.tos = sf
	cs.size++
	tracer().P("frame", label).Debugf("push, depth %d", cs.size)
	return sf
}

// Pop pops the topmost frame. Returns the popped frame.
func (cs *CallStack) Pop() *StackFrame {
	if cs.tos == nil {
		panic("attempt to pop frame from empty call stack")
	}
	sf := cs.tos
	cs.tos = sf.Parent
	if sf.IsRoot() {
		cs.base = nil
	}
	cs.size--
	tracer().P("frame", sf.Label).Debugf("pop, depth %d", cs.size)
	return sf
}

// Size returns the number of frames on the stack.
func (cs *CallStack) Size() int {
	return cs.size
}

// IsEmpty is a predicate for an empty stack.
func (cs *CallStack) IsEmpty() bool {
	return cs.tos == nil
}

// Labels returns the frame labels, bottommost first.
func (cs *CallStack) Labels() []string {
	labels := make([]string, cs.size)
	i := cs.size - 1
	for sf := cs.tos; sf != nil; sf = sf.Parent {
		labels[i] = sf.Label
		i--
	}
	return labels
}

// FindFrame finds the topmost frame with a given label.
func (cs *CallStack) FindFrame(label string) *StackFrame {
	for sf := cs.tos; sf != nil; sf = sf.Parent {
		if sf.Label == label {
			return sf
		}
	}
	return nil
}

package trace

import (
	"encoding/json"
	"errors"

	"github.com/cnf/structhash"
)

// Recorder is an append-only collector of frames.
type Recorder struct {
	frames []Frame
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{frames: []Frame{}}
}

// Record captures state as a new frame.
func (r *Recorder) Record(s State, line int) {
	f := Capture(s, line)
	r.frames = append(r.frames, f)
	tracer().Debugf("frame #%d %v", len(r.frames)-1, f)
}

// Len returns the number of frames captured so far.
func (r *Recorder) Len() int {
	return len(r.frames)
}

// Trace returns the frames captured so far. The result does not share memory
// with the recorder.
func (r *Recorder) Trace() Trace {
	t := make(Trace, len(r.frames))
	for i, f := range r.frames {
		t[i] = f.Clone()
	}
	return t
}

// --- Traces ----------------------------------------------------------------

// Trace is the ordered frame sequence of a run.
type Trace []Frame

// Last returns the final frame of a trace.
func (t Trace) Last() (Frame, bool) {
	if len(t) == 0 {
		return Frame{}, false
	}
	return t[len(t)-1], true
}

// ConsoleLog returns the console output as of the final frame.
func (t Trace) ConsoleLog() []string {
	if f, ok := t.Last(); ok {
		return copyStrings(f.ConsoleLog)
	}
	return []string{}
}

// JSON encodes a trace as an array of frames.
func (t Trace) JSON() ([]byte, error) {
	if t == nil {
		t = Trace{}
	}
	return json.Marshal([]Frame(t))
}

// ErrEmptyTrace is returned when fingerprinting a trace without frames.
var ErrEmptyTrace = errors.New("trace has no frames")

// frameDigest is a pointer-free projection of a frame for hashing.
type frameDigest struct {
	CallStack  []string
	Timers     []TimerView
	Microtasks []string
	Macrotasks []string
	ConsoleLog []string
	Line       int
}

// Fingerprint computes a content hash of a trace. Equal traces have equal
// fingerprints.
func (t Trace) Fingerprint() (string, error) {
	if len(t) == 0 {
		return "", ErrEmptyTrace
	}
	digest := make([]frameDigest, len(t))
	for i, f := range t {
		line, _ := f.Line()
		digest[i] = frameDigest{
			CallStack:  f.CallStack,
			Timers:     f.PendingTimers,
			Microtasks: f.Microtasks,
			Macrotasks: f.Macrotasks,
			ConsoleLog: f.ConsoleLog,
			Line:       line,
		}
	}
	return structhash.Hash(struct{ Frames []frameDigest }{digest}, 1)
}

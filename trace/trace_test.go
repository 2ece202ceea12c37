package trace

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestCaptureIsIndependent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.trace")
	defer teardown()
	//
	stack := []string{"main()", "console.log"}
	timers := []TimerView{{Name: "setTimeout(f())", RemainingTicks: 2}}
	f := Capture(State{CallStack: stack, Timers: timers}, 3)
	stack[1] = "changed"
	timers[0].RemainingTicks = 0
	if f.CallStack[1] != "console.log" {
		t.Errorf("frame shares call stack with engine state")
	}
	if f.PendingTimers[0].RemainingTicks != 2 {
		t.Errorf("frame shares timer set with engine state")
	}
	if line, ok := f.Line(); !ok || line != 3 {
		t.Errorf("expected highlighted line 3, have %d", line)
	}
}

func TestCaptureEmptyState(t *testing.T) {
	f := Capture(State{}, 0)
	if f.CallStack == nil || f.PendingTimers == nil || f.Microtasks == nil ||
		f.Macrotasks == nil || f.ConsoleLog == nil {
		t.Errorf("expected non-nil slices in empty frame")
	}
	if _, ok := f.Line(); ok {
		t.Errorf("did not expect a highlighted line")
	}
}

func TestFrameJSON(t *testing.T) {
	f := Capture(State{
		CallStack:  []string{"main()"},
		Timers:     []TimerView{{Name: "t", RemainingTicks: 1}},
		Microtasks: []string{"anonymous()"},
	}, 0)
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	js := string(data)
	for _, key := range []string{`"callStack":["main()"]`, `"pendingTimers":[{"name":"t","remainingTicks":1}]`,
		`"microtasks":["anonymous()"]`, `"macrotasks":[]`, `"consoleLog":[]`} {
		if !strings.Contains(js, key) {
			t.Errorf("expected %s in %s", key, js)
		}
	}
	if strings.Contains(js, "highlightLine") {
		t.Errorf("expected highlightLine to be omitted, have %s", js)
	}
	f = Capture(State{}, 7)
	data, _ = json.Marshal(f)
	if !strings.Contains(string(data), `"highlightLine":7`) {
		t.Errorf("expected highlightLine 7 in %s", data)
	}
}

func TestRecorderTraceIsCopy(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.trace")
	defer teardown()
	//
	r := NewRecorder()
	r.Record(State{ConsoleLog: []string{"a"}}, 1)
	tr := r.Trace()
	tr[0].ConsoleLog[0] = "b"
	r.Record(State{ConsoleLog: []string{"a", "c"}}, 2)
	again := r.Trace()
	if again[0].ConsoleLog[0] != "a" {
		t.Errorf("modifying a returned trace altered the recorder")
	}
	if r.Len() != 2 || len(again) != 2 {
		t.Errorf("expected 2 frames")
	}
	if log := again.ConsoleLog(); len(log) != 2 || log[1] != "c" {
		t.Errorf("expected final console log [a c], have %v", log)
	}
}

func TestFingerprint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.trace")
	defer teardown()
	//
	mk := func(log string) Trace {
		r := NewRecorder()
		r.Record(State{}, 0)
		r.Record(State{CallStack: []string{"main()"}, ConsoleLog: []string{log}}, 1)
		return r.Trace()
	}
	h1, err := mk("x").Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := mk("x").Fingerprint()
	h3, _ := mk("y").Fingerprint()
	if h1 != h2 {
		t.Errorf("expected equal traces to have equal fingerprints")
	}
	if h1 == h3 {
		t.Errorf("expected different traces to have different fingerprints")
	}
	if _, err := (Trace{}).Fingerprint(); err != ErrEmptyTrace {
		t.Errorf("expected ErrEmptyTrace for empty trace")
	}
}

package eventloop

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/loopsim/js/parser"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const startEndScenario = `console.log("Start");
setTimeout(() => console.log("Timeout"), 0);
Promise.resolve().then(() => console.log("Promise"));
console.log("End");`

func TestStartEndScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.eventloop")
	defer teardown()
	//
	frames, err := Run(startEndScenario)
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{
		"Start",
		"End",
		"Executed microtask: anonymous()",
		"Executed macrotask: anonymous()",
	}
	log := frames.ConsoleLog()
	if strings.Join(log, "|") != strings.Join(expected, "|") {
		t.Errorf("expected console log %q, have %q", expected, log)
	}
	if len(frames) != 16 {
		t.Errorf("expected 16 frames, have %d", len(frames))
	}
	first, last := frames[0], frames[len(frames)-1]
	if len(first.CallStack) != 0 || len(first.ConsoleLog) != 0 {
		t.Errorf("expected run to start with an empty frame, have %v", first)
	}
	if len(last.CallStack) != 0 || len(last.PendingTimers) != 0 ||
		len(last.Microtasks) != 0 || len(last.Macrotasks) != 0 {
		t.Errorf("expected run to end in an idle frame, have %v", last)
	}
	if frames[1].CallStack[0] != LabelMain {
		t.Errorf("expected main() to be pushed in second frame")
	}
}

func TestHighlightLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.eventloop")
	defer teardown()
	//
	frames, _ := Run(startEndScenario)
	var lines []int
	for _, f := range frames {
		if l, ok := f.Line(); ok {
			lines = append(lines, l)
		}
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 highlighted frames, have %d", len(lines))
	}
	for i, l := range lines {
		if l != i+1 {
			t.Errorf("expected highlighted line %d, have %d", i+1, l)
		}
	}
}

func TestAssignmentScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.eventloop")
	defer teardown()
	//
	frames, err := Run("let x = 0; x = x + 1; console.log(x);")
	if err != nil {
		t.Fatal(err)
	}
	log := frames.ConsoleLog()
	if len(log) != 1 || log[0] != "1" {
		t.Errorf("expected console log [1], have %q", log)
	}
}

func TestUnassignableValueScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.eventloop")
	defer teardown()
	//
	frames, err := Run("let n = 1; n = obj.count; console.log(n);")
	if err != nil {
		t.Fatal(err)
	}
	if log := frames.ConsoleLog(); len(log) != 1 || log[0] != "undefined" {
		t.Errorf("expected console log [undefined], have %q", log)
	}
}

func TestStringEscapes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.eventloop")
	defer teardown()
	//
	frames, err := Run(`console.log("a\u{42}b", 'c\x44');`)
	if err != nil {
		t.Fatal(err)
	}
	if log := frames.ConsoleLog(); len(log) != 1 || log[0] != "aBb cD" {
		t.Errorf("expected console log [aBb cD], have %q", log)
	}
	frames, err = Run(`console.log("\x4");`)
	var perr *parser.ParseError
	if !errors.As(err, &perr) || frames != nil {
		t.Fatalf("expected malformed escape to be a parse error, have %v", err)
	}
	if perr.Line != 1 || perr.Column != 14 {
		t.Errorf("expected error at 1:14, have %d:%d", perr.Line, perr.Column)
	}
}

func TestParseErrorScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.eventloop")
	defer teardown()
	//
	frames, err := Run("console.log(")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if frames != nil {
		t.Errorf("expected no frames on parse error, have %d", len(frames))
	}
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *parser.ParseError, have %T", err)
	}
	if perr.Line != 1 || perr.Column != 13 {
		t.Errorf("expected error at 1:13, have %d:%d", perr.Line, perr.Column)
	}
}

func TestForLoopScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.eventloop")
	defer teardown()
	//
	frames, err := Run("for (let i = 0; i < 3; i++) { console.log(i); }")
	if err != nil {
		t.Fatal(err)
	}
	log := frames.ConsoleLog()
	if strings.Join(log, ",") != "0,1,2" {
		t.Errorf("expected console log 0,1,2, have %q", log)
	}
	bodies, iterations := 0, 0
	for _, f := range frames {
		if n := len(f.CallStack); n > 0 && f.CallStack[n-1] == "console.log" {
			bodies++
		} else if l, ok := f.Line(); ok && l == 1 {
			iterations++
		}
	}
	if bodies != 3 || iterations != 3 {
		t.Errorf("expected 3 body executions and 3 loop frames, have %d and %d", bodies, iterations)
	}
}

func TestTimerOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.eventloop")
	defer teardown()
	//
	frames, err := Run(`setTimeout(b, 200); setTimeout(a, 100); setTimeout(c, 50);`)
	if err != nil {
		t.Fatal(err)
	}
	expected := "Executed macrotask: a()|Executed macrotask: c()|Executed macrotask: b()"
	if log := strings.Join(frames.ConsoleLog(), "|"); log != expected {
		t.Errorf("expected %q, have %q", expected, log)
	}
}

func TestMicrotasksBeforeMacrotasks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.eventloop")
	defer teardown()
	//
	src := `setTimeout(first, 0)
p.then(one).then(two)
queueMicrotask(three)`
	frames, err := Run(src)
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{
		"Executed microtask: one()",
		"Executed microtask: two()",
		"Executed microtask: three()",
		"Executed macrotask: first()",
	}
	if log := frames.ConsoleLog(); strings.Join(log, "|") != strings.Join(expected, "|") {
		t.Errorf("expected %q, have %q", expected, log)
	}
}

func TestTickCeiling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.eventloop")
	defer teardown()
	//
	s := New(WithMaxTicks(3))
	frames, err := s.Run("setTimeout(late, 1000); console.log('scheduled')")
	if err != nil {
		t.Fatal(err)
	}
	stats := s.Stats()
	if !stats.Truncated || stats.Ticks != 3 {
		t.Errorf("expected run to be truncated after 3 ticks, have %+v", stats)
	}
	last, _ := frames.Last()
	if len(last.PendingTimers) != 1 || last.PendingTimers[0].Name != "setTimeout" {
		t.Errorf("expected pending timer in last frame, have %v", last)
	}
	if stats.Frames != len(frames) {
		t.Errorf("expected stats to count %d frames, have %d", len(frames), stats.Frames)
	}
}

func TestLoopCeiling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.eventloop")
	defer teardown()
	//
	s := New(WithMaxLoopIterations(5))
	frames, err := s.Run("let i = 0\nwhile (true) { i++ }\nconsole.log(i)")
	if err != nil {
		t.Fatal(err)
	}
	if log := frames.ConsoleLog(); len(log) != 1 || log[0] != "5" {
		t.Errorf("expected loop to stop after 5 iterations, have %q", log)
	}
	frames, _ = Run("while (true) {}")
	loops := 0
	for _, f := range frames {
		if _, ok := f.Line(); ok {
			loops++
		}
	}
	if loops != DefaultConfig().MaxLoopIterations {
		t.Errorf("expected %d loop frames, have %d", DefaultConfig().MaxLoopIterations, loops)
	}
}

func TestRunsDoNotShareState(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.eventloop")
	defer teardown()
	//
	s := New()
	first, _ := s.Run("var x = 41; x++; setTimeout(f, 0); console.log(x)")
	second, _ := s.Run("console.log(x)")
	if log := first.ConsoleLog(); log[0] != "42" {
		t.Errorf("expected 42, have %q", log)
	}
	if log := second.ConsoleLog(); len(log) != 1 || log[0] != "undefined" {
		t.Errorf("expected a fresh environment, have %q", log)
	}
	if s.State() != Done {
		t.Errorf("expected scheduler to be done, is %s", s.State())
	}
}

func TestTimerIDsAndCallResults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.eventloop")
	defer teardown()
	//
	frames, err := Run("const a = setTimeout(f, 10)\nlet b = setTimeout(g)\nconsole.log(a, b, `${a + b}`)")
	if err != nil {
		t.Fatal(err)
	}
	log := frames.ConsoleLog()
	if log[0] != "1 2 3" {
		t.Errorf("expected timer ids '1 2 3', have %q", log[0])
	}
}

func TestConfigFrom(t *testing.T) {
	conf := testconfig.Conf{
		KeyMaxTicks:          7,
		KeyMaxLoopIterations: 0,
	}
	c := ConfigFrom(conf)
	if c.MaxTicks != 7 || c.MaxLoopIterations != DefaultConfig().MaxLoopIterations {
		t.Errorf("unexpected config %+v", c)
	}
	s := New(WithConfig(c))
	if s.Config().MaxTicks != 7 {
		t.Errorf("expected scheduler to use configured ceiling")
	}
}

func TestFramesAreIndependent(t *testing.T) {
	frames, _ := Run(startEndScenario)
	snapshot := frames[3].Clone()
	frames[3].ConsoleLog[0] = "tampered"
	again, _ := Run(startEndScenario)
	if again[3].ConsoleLog[0] != snapshot.ConsoleLog[0] {
		t.Errorf("runs share frame memory")
	}
}

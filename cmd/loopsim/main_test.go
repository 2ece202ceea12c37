package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/loopsim/eventloop"
	"github.com/npillmayer/loopsim/js/parser"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

func TestRunJSON(t *testing.T) {
	defer trace2go.Teardown()
	var out bytes.Buffer
	opts := options{expr: "console.log('hi')", json: true, traceLevel: "Error"}
	if code := run(opts, nil, strings.NewReader(""), &out); code != exitOK {
		t.Fatalf("expected exit code 0, have %d", code)
	}
	var frames []map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &frames); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if len(frames) != 5 {
		t.Errorf("expected 5 frames, have %d", len(frames))
	}
	if _, ok := frames[2]["highlightLine"]; !ok {
		t.Errorf("expected console.log frame to carry a highlighted line")
	}
}

func TestRunParseError(t *testing.T) {
	defer trace2go.Teardown()
	var out bytes.Buffer
	opts := options{json: true, traceLevel: "Error"}
	if code := run(opts, nil, strings.NewReader("console.log("), &out); code != exitParseError {
		t.Errorf("expected exit code %d, have %d", exitParseError, code)
	}
	if out.Len() != 0 {
		t.Errorf("expected no frames on parse error, have %q", out.String())
	}
}

func TestRunFingerprintFromFile(t *testing.T) {
	defer trace2go.Teardown()
	path := filepath.Join(t.TempDir(), "snippet.js")
	if err := os.WriteFile(path, []byte("setTimeout(f, 100)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var first, second bytes.Buffer
	opts := options{fingerprint: true, traceLevel: "Error"}
	run(opts, []string{path}, nil, &first)
	run(opts, []string{path}, nil, &second)
	if first.Len() == 0 || first.String() != second.String() {
		t.Errorf("expected stable fingerprint, have %q and %q", first.String(), second.String())
	}
	if code := run(opts, []string{path + ".missing"}, nil, &first); code != exitIOError {
		t.Errorf("expected exit code %d for missing file, have %d", exitIOError, code)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loopsim.yaml")
	if err := os.WriteFile(path, []byte("eventloop:\n  maxticks: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	conf, err := loadConfig(options{configPath: path, traceLevel: "Debug"})
	if err != nil {
		t.Fatal(err)
	}
	if c := eventloop.ConfigFrom(conf); c.MaxTicks != 4 {
		t.Errorf("expected tick ceiling 4 from file, have %d", c.MaxTicks)
	}
	if conf.GetString("tracelevel.loopsim.cli") != "Debug" {
		t.Errorf("expected trace level flag to override configuration")
	}
}

func TestFrameRows(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.cli")
	defer teardown()
	//
	frames, err := eventloop.Run("setTimeout(cb, 200)\nconsole.log('x')")
	if err != nil {
		t.Fatal(err)
	}
	rows := frameRows(frames)
	if len(rows) != len(frames)+1 {
		t.Fatalf("expected one row per frame plus header, have %d", len(rows))
	}
	// rows[i+1] shows frame i
	if rows[3][1] != "1" || rows[3][2] != "main() › setTimeout" {
		t.Errorf("unexpected row %v", rows[3])
	}
	if rows[4][3] != "setTimeout (2)" {
		t.Errorf("expected pending timer after setTimeout returned, have %v", rows[4])
	}
}

func TestASTLeveledList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.cli")
	defer teardown()
	//
	prog, err := parser.Parse("let x = 1 + 2")
	if err != nil {
		t.Fatal(err)
	}
	ll := astLeveledList(prog)
	levels := make([]int, len(ll))
	for i, item := range ll {
		levels[i] = item.Level
	}
	// let › decl x › + › 1, 2
	expected := []int{0, 1, 2, 3, 3}
	if len(levels) != len(expected) {
		t.Fatalf("expected %d items, have %v", len(expected), ll)
	}
	for i := range expected {
		if levels[i] != expected[i] {
			t.Errorf("item %d: expected level %d, have %d", i, expected[i], levels[i])
		}
	}
}

func TestREPLCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.cli")
	defer teardown()
	//
	r := &REPL{sched: eventloop.New()}
	for _, line := range []string{"let n = 2", "n *= 21", "console.log(n)"} {
		if r.Eval(line) {
			t.Fatalf("expected session to continue")
		}
	}
	r.Eval(":run")
	if log := r.frames.ConsoleLog(); len(log) != 1 || log[0] != "42" {
		t.Errorf("expected console output 42, have %q", log)
	}
	r.Eval("console.log('next')")
	r.Eval("")
	if len(r.buffer) != 0 {
		t.Errorf("expected empty line to run and reset the block")
	}
	// :run keeps the buffer, so the block extends the first one
	if log := r.frames.ConsoleLog(); len(log) != 2 || log[1] != "next" {
		t.Errorf("expected extended block to run, have %q", log)
	}
	r.Eval(":clear")
	if len(r.buffer) != 0 || r.frames != nil || r.last != "" {
		t.Errorf("expected :clear to reset the session")
	}
	if !r.Eval(":quit") {
		t.Errorf("expected :quit to end the session")
	}
}

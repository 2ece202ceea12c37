package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/loopsim/eventloop"
	"github.com/npillmayer/loopsim/js/ast"
	"github.com/npillmayer/loopsim/trace"
	"github.com/pterm/pterm"
)

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

var frameHeader = []string{"#", "Line", "Call Stack", "Web APIs", "Microtasks", "Macrotasks", "Console"}

// frameRows renders frames as table rows, one per frame.
func frameRows(frames trace.Trace) pterm.TableData {
	data := pterm.TableData{frameHeader}
	for i, f := range frames {
		line := ""
		if l, ok := f.Line(); ok {
			line = strconv.Itoa(l)
		}
		data = append(data, []string{
			strconv.Itoa(i),
			line,
			strings.Join(f.CallStack, " › "),
			timerList(f.PendingTimers),
			strings.Join(f.Microtasks, ", "),
			strings.Join(f.Macrotasks, ", "),
			lastLine(f.ConsoleLog),
		})
	}
	return data
}

func timerList(timers []trace.TimerView) string {
	s := make([]string, len(timers))
	for i, t := range timers {
		s[i] = fmt.Sprintf("%s (%d)", t.Name, t.RemainingTicks)
	}
	return strings.Join(s, ", ")
}

func lastLine(log []string) string {
	if len(log) == 0 {
		return ""
	}
	return log[len(log)-1]
}

func renderFrames(frames trace.Trace) {
	pterm.DefaultSection.Println("Frames")
	if err := pterm.DefaultTable.WithHasHeader().WithData(frameRows(frames)).Render(); err != nil {
		tracer().Errorf("cannot render frames: %v", err)
	}
}

// renderFrame prints a single frame with all of its components.
func renderFrame(i int, f trace.Frame) {
	title := fmt.Sprintf("Frame %d", i)
	if l, ok := f.Line(); ok {
		title = fmt.Sprintf("Frame %d, line %d", i, l)
	}
	pterm.DefaultSection.Println(title)
	data := pterm.TableData{
		{"Call Stack", strings.Join(f.CallStack, "\n")},
		{"Web APIs", strings.ReplaceAll(timerList(f.PendingTimers), ", ", "\n")},
		{"Microtasks", strings.Join(f.Microtasks, "\n")},
		{"Macrotasks", strings.Join(f.Macrotasks, "\n")},
		{"Console", strings.Join(f.ConsoleLog, "\n")},
	}
	if err := pterm.DefaultTable.WithData(data).Render(); err != nil {
		tracer().Errorf("cannot render frame: %v", err)
	}
}

func renderStats(stats eventloop.Stats) {
	msg := fmt.Sprintf("%d frames, %d ticks", stats.Frames, stats.Ticks)
	if stats.Truncated {
		msg += ", stopped at tick ceiling"
	}
	pterm.Info.Println(msg)
}

// renderAST displays a syntax tree on the terminal.
func renderAST(prog *ast.Program) {
	if len(prog.Body) == 0 {
		pterm.Println("program")
		return
	}
	root := pterm.NewTreeFromLeveledList(astLeveledList(prog))
	root.Text = "program"
	if err := pterm.DefaultTree.WithRoot(root).Render(); err != nil {
		tracer().Errorf("cannot render syntax tree: %v", err)
	}
}

func astLeveledList(prog *ast.Program) pterm.LeveledList {
	ll := pterm.LeveledList{}
	for _, stmt := range prog.Body {
		ll = leveledNode(stmt, ll, 0)
	}
	return ll
}

func leveledNode(n ast.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	ll = append(ll, pterm.LeveledListItem{
		Level: level,
		Text:  fmt.Sprintf("%s  [%s]", ast.Label(n), n.Pos()),
	})
	for _, c := range ast.Children(n) {
		ll = leveledNode(c, ll, level+1)
	}
	return ll
}

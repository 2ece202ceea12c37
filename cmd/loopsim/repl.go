package main

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/loopsim/eventloop"
	"github.com/npillmayer/loopsim/js/parser"
	"github.com/npillmayer/loopsim/trace"
	"github.com/pterm/pterm"
)

// REPL is an interactive session. Source lines are collected in a buffer;
// an empty line simulates the buffered block and starts a new one. Commands
// starting with ':' operate on the buffer and on the frames of the last
// simulation.
type REPL struct {
	sched  *eventloop.Scheduler
	rl     *readline.Instance
	buffer []string
	last   string // source of the last simulation
	frames trace.Trace
}

func newREPL(sched *eventloop.Scheduler) (*REPL, error) {
	rl, err := readline.New("loopsim> ")
	if err != nil {
		return nil, err
	}
	return &REPL{sched: sched, rl: rl}, nil
}

// Loop reads lines until end of input or :quit.
func (r *REPL) Loop() {
	defer r.rl.Close()
	for {
		line, err := r.rl.Readline()
		if err != nil { // io.EOF
			break
		}
		if r.Eval(line) {
			break
		}
	}
	pterm.Println("Good bye!")
}

// Eval handles one line of input. It returns true if the session should end.
func (r *REPL) Eval(line string) bool {
	if strings.TrimSpace(line) == "" {
		if len(r.buffer) > 0 {
			r.run()
			r.buffer = nil
		}
		return false
	}
	if !strings.HasPrefix(strings.TrimSpace(line), ":") {
		r.buffer = append(r.buffer, line)
		return false
	}
	args := strings.Fields(line)
	src := r.source()
	if src == "" {
		src = r.last
	}
	switch args[0] {
	case ":quit", ":q":
		return true
	case ":run", ":r":
		r.run()
	case ":frame", ":f":
		r.showFrame(args[1:])
	case ":ast":
		if prog, err := parser.Parse(src); err != nil {
			reportError(err)
		} else {
			renderAST(prog)
		}
	case ":list", ":l":
		for i, l := range r.buffer {
			pterm.Printfln("%3d  %s", i+1, l)
		}
	case ":clear":
		r.buffer, r.last, r.frames = nil, "", nil
	case ":load":
		if len(args) < 2 {
			pterm.Error.Println("usage: :load <file>")
			break
		}
		if err := r.load(args[1]); err != nil {
			pterm.Error.Println(err.Error())
		}
	case ":help", ":h":
		pterm.Info.Println("empty line runs the block; :run  :frame N  :ast  :list  :clear  :load FILE  :quit")
	default:
		pterm.Error.Printfln("unknown command %s", args[0])
	}
	return false
}

func (r *REPL) source() string {
	return strings.Join(r.buffer, "\n")
}

func (r *REPL) run() {
	src := r.source()
	frames, err := r.sched.Run(src)
	if err != nil {
		reportError(err)
		return
	}
	r.last, r.frames = src, frames
	renderFrames(frames)
	renderStats(r.sched.Stats())
	renderConsole(frames)
}

func (r *REPL) showFrame(args []string) {
	if len(r.frames) == 0 {
		pterm.Error.Println("nothing simulated yet, use :run")
		return
	}
	n := len(r.frames) - 1
	if len(args) > 0 {
		var err error
		if n, err = strconv.Atoi(args[0]); err != nil {
			pterm.Error.Println("frame number expected")
			return
		}
	}
	if n < 0 || n >= len(r.frames) {
		pterm.Error.Printfln("frame number out of range 0…%d", len(r.frames)-1)
		return
	}
	renderFrame(n, r.frames[n])
}

// load replaces the buffer with the lines of a file.
func (r *REPL) load(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	lines, err := readLines(f)
	if err != nil {
		return err
	}
	r.buffer, r.frames = lines, nil
	tracer().Infof("loaded %d lines from %s", len(lines), filename)
	return nil
}

func readLines(rd io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.New("error while reading file: " + err.Error())
	}
	return lines, nil
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/loopsim/config"
	"github.com/npillmayer/loopsim/eventloop"
	"github.com/npillmayer/loopsim/js/parser"
	"github.com/npillmayer/loopsim/trace"
	"github.com/pterm/pterm"
)

// Exit codes.
const (
	exitOK         = 0
	exitParseError = 2
	exitIOError    = 3
)

// options collects the command line flags.
type options struct {
	expr        string
	json        bool
	fingerprint bool
	ast         bool
	interactive bool
	configPath  string
	traceLevel  string
}

func main() {
	initDisplay()
	opts := options{}
	flag.StringVar(&opts.expr, "e", "", "Source text to simulate")
	flag.BoolVar(&opts.json, "json", false, "Print frames as JSON")
	flag.BoolVar(&opts.fingerprint, "fingerprint", false, "Print a fingerprint of the frames")
	flag.BoolVar(&opts.ast, "ast", false, "Print the syntax tree")
	flag.BoolVar(&opts.interactive, "i", false, "Start an interactive session")
	flag.StringVar(&opts.configPath, "config", "", "configuration file (YAML or NestedText)")
	flag.StringVar(&opts.traceLevel, "trace", "", "Trace level [Debug|Info|Error]")
	flag.Parse()
	os.Exit(run(opts, flag.Args(), os.Stdin, os.Stdout))
}

// run executes the command and returns its exit code.
func run(opts options, args []string, stdin io.Reader, stdout io.Writer) int {
	conf, err := loadConfig(opts)
	if err != nil {
		pterm.Error.Println(err.Error())
		return exitIOError
	}
	if err := config.ConfigureTracing(conf); err != nil {
		pterm.Error.Println(err.Error())
		return exitIOError
	}
	tracer().Infof("configuration: %d keys", len(conf.Keys()))
	sched := eventloop.New(eventloop.WithConfig(eventloop.ConfigFrom(conf)))
	if opts.interactive {
		repl, err := newREPL(sched)
		if err != nil {
			pterm.Error.Println(err.Error())
			return exitIOError
		}
		pterm.Info.Println("Welcome to loopsim")
		tracer().Infof("Quit with <ctrl>D")
		repl.Loop()
		return exitOK
	}
	src, err := readSource(opts, args, stdin)
	if err != nil {
		pterm.Error.Println(err.Error())
		return exitIOError
	}
	return simulate(sched, src, opts, stdout)
}

// loadConfig reads the configuration file given by flag, or the one found in
// the user's configuration directories, or falls back to defaults.
func loadConfig(opts options) (*config.Conf, error) {
	var conf *config.Conf
	var err error
	path := opts.configPath
	if path == "" {
		path, _ = config.Locate()
	}
	if path != "" {
		if conf, err = config.Load(path); err != nil {
			return nil, err
		}
	} else {
		conf = config.Defaults()
	}
	if opts.traceLevel != "" {
		conf.SetTraceLevel(opts.traceLevel)
	}
	return conf, nil
}

func readSource(opts options, args []string, stdin io.Reader) (string, error) {
	if opts.expr != "" {
		return opts.expr, nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// simulate runs one source text and prints the result in the requested form.
func simulate(sched *eventloop.Scheduler, src string, opts options, out io.Writer) int {
	prog, err := parser.Parse(src)
	if err != nil {
		reportError(err)
		return exitParseError
	}
	if opts.ast {
		renderAST(prog)
	}
	frames := sched.RunProgram(prog)
	switch {
	case opts.json:
		data, err := frames.JSON()
		if err != nil {
			pterm.Error.Println(err.Error())
			return exitIOError
		}
		fmt.Fprintln(out, string(data))
	case opts.fingerprint:
		fp, err := frames.Fingerprint()
		if err != nil {
			pterm.Error.Println(err.Error())
			return exitIOError
		}
		fmt.Fprintln(out, fp)
	default:
		renderFrames(frames)
		renderStats(sched.Stats())
		renderConsole(frames)
	}
	return exitOK
}

func reportError(err error) {
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		pterm.Error.Printfln("line %d, column %d: %s", perr.Line, perr.Column, perr.Msg)
		return
	}
	pterm.Error.Println(err.Error())
}

func renderConsole(frames trace.Trace) {
	log := frames.ConsoleLog()
	pterm.DefaultSection.Println("Console")
	if len(log) == 0 {
		pterm.Info.Println("(no output)")
		return
	}
	pterm.Println(strings.Join(log, "\n"))
}

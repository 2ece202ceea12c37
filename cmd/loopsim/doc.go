/*
Command loopsim simulates the event loop for a snippet of JavaScript and
prints the resulting frames.

Usage:

	loopsim [flags] [file]

The source text is read from file, from flag -e, or from standard input.
Frames are printed as a table by default; -json prints the frame sequence as
JSON, -fingerprint prints a hash of it. With -i, loopsim starts an interactive
session where source lines may be entered and simulated step by step.

Flags:

	-e string        source text to simulate
	-json            print frames as JSON
	-fingerprint     print a fingerprint of the frame sequence
	-ast             print the syntax tree before simulating
	-i               start an interactive session
	-config path     configuration file (.yaml, .yml or .nt)
	-trace level     trace level [Debug|Info|Error]

A source text with a syntax error is reported with its position, and loopsim
exits with status 2.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'loopsim.cli'
func tracer() tracing.Trace {
	return tracing.Select("loopsim.cli")
}

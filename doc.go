/*
Package loopsim is a frame-by-frame simulator for event-loop scheduling.

Loopsim interprets a small subset of JavaScript and replays how a single-threaded,
event-loop driven runtime schedules work: call-stack execution, pending timers,
microtask and macrotask queues, and console output. Every state change is captured
as an immutable frame; the ordered frame sequence is the product of a run.
Package structure is as follows:

■ js: Sub-packages scanner, parser and ast turn source text into a position
annotated abstract syntax tree.

■ runtime: Package runtime holds engine state: values, the variable environment,
the call stack, timers and task queues.

■ interp: Package interp walks statements and evaluates expressions, emitting
scheduling side effects.

■ eventloop: Package eventloop drives the tick loop and is the entry point for
clients.

■ trace: Package trace defines frames and the frame recorder.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package loopsim

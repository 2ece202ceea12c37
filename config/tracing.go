package config

import (
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// ConfigureTracing sets up tracing for the application: tracers are created
// by the adapter named by key "tracing.adapter", with trace levels taken from
// keys "tracelevel.<tracer>", and write to "tracing.destination", if set.
//
// Adapter "go" is always available.
func ConfigureTracing(conf schuko.Configuration) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, TraceLevelPrefix, trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

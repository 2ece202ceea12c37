package eventloop

import (
	"github.com/npillmayer/loopsim/interp"
	"github.com/npillmayer/schuko"
)

// DefaultMaxTicks is the default ceiling of scheduler loop iterations.
const DefaultMaxTicks = 100

// Configuration keys read by ConfigFrom.
const (
	KeyMaxTicks          = "eventloop.maxticks"
	KeyMaxLoopIterations = "eventloop.maxloopiterations"
)

// Config holds the safety limits of a run.
type Config struct {
	MaxTicks          int `yaml:"maxticks"`          // scheduler loop iterations
	MaxLoopIterations int `yaml:"maxloopiterations"` // iterations per source loop
}

// DefaultConfig returns the default limits.
func DefaultConfig() Config {
	return Config{
		MaxTicks:          DefaultMaxTicks,
		MaxLoopIterations: interp.DefaultLoopLimit,
	}
}

// ConfigFrom reads limits from a configuration. Unset or non-positive values
// keep their defaults.
func ConfigFrom(conf schuko.Configuration) Config {
	c := DefaultConfig()
	if conf == nil {
		return c
	}
	if conf.IsSet(KeyMaxTicks) {
		if n := conf.GetInt(KeyMaxTicks); n > 0 {
			c.MaxTicks = n
		}
	}
	if conf.IsSet(KeyMaxLoopIterations) {
		if n := conf.GetInt(KeyMaxLoopIterations); n > 0 {
			c.MaxLoopIterations = n
		}
	}
	return c
}

// Option configures a scheduler.
type Option func(*Scheduler)

// WithConfig sets all limits at once. Non-positive values are ignored.
func WithConfig(c Config) Option {
	return func(s *Scheduler) {
		WithMaxTicks(c.MaxTicks)(s)
		WithMaxLoopIterations(c.MaxLoopIterations)(s)
	}
}

// WithMaxTicks sets the ceiling of scheduler loop iterations.
func WithMaxTicks(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.config.MaxTicks = n
		}
	}
}

// WithMaxLoopIterations sets the iteration cap of loops in the source.
func WithMaxLoopIterations(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.config.MaxLoopIterations = n
		}
	}
}

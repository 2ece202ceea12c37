/*
Package config holds the application configuration of loopsim.

Configuration is a koanf configuration with dotted keys, wrapped by the koanf
adapter of package schuko. Files may be written in YAML or in NestedText.
Nested mappings are addressed by dotted paths, i.e.

	eventloop:
	  maxticks: 200
	tracelevel:
	  loopsim.parser: Debug

yields the keys "eventloop.maxticks" and "tracelevel.loopsim.parser".
Conf implements schuko.Configuration and may therefore be handed to the
tracing setup of package schuko as well as to eventloop.ConfigFrom.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
)

// AppTag is used to locate configuration files.
const AppTag = "loopsim"

// TraceLevelPrefix prefixes the keys of trace levels.
const TraceLevelPrefix = "tracelevel"

// Suffixes lists the file suffixes of configuration files loopsim can read.
var Suffixes = []string{"yaml", "yml", "nt"}

// Tracers lists the tracer keys of all packages of the module.
var Tracers = []string{
	"loopsim.scanner",
	"loopsim.parser",
	"loopsim.trace",
	"loopsim.runtime",
	"loopsim.interp",
	"loopsim.eventloop",
	"loopsim.cli",
}

// Conf is the application configuration.
type Conf struct {
	*koanfadapter.KConf
}

var _ schuko.Configuration = &Conf{}

// Defaults returns a configuration with all keys the module reads.
func Defaults() *Conf {
	c := &Conf{KConf: koanfadapter.New(koanf.New("."), "", nil)}
	c.InitDefaults()
	return c
}

func defaults() map[string]interface{} {
	d := map[string]interface{}{
		"eventloop.maxticks":          100,
		"eventloop.maxloopiterations": 50,
		"tracing.adapter":             "go",
		TraceLevelPrefix + ".root":    "Error",
	}
	for _, t := range Tracers {
		d[TraceLevelPrefix+"."+t] = "Error"
	}
	return d
}

// InitDefaults sets every unset key to its default value. Files are never
// searched for here, see Locate.
func (c *Conf) InitDefaults() {
	missing := map[string]interface{}{}
	for k, v := range defaults() {
		if !c.IsSet(k) {
			missing[k] = v
		}
	}
	_ = c.Koanf().Load(confmap.Provider(missing, "."), nil)
}

// Parse reads a YAML document and merges it over the defaults.
func Parse(data []byte) (*Conf, error) {
	c := Defaults()
	if err := c.Koanf().Load(rawbytes.Provider(data), YAML()); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// Load reads a configuration file and merges it over the defaults. The
// format is selected by the file suffix: .yaml and .yml for YAML, .nt for
// NestedText.
func Load(path string) (*Conf, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = YAML()
	case ".nt":
		parser = NestedText()
	default:
		return nil, fmt.Errorf("config: do not know how to decode %q", path)
	}
	c := Defaults()
	if err := c.Koanf().Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// Locate searches the user's configuration directories for a configuration
// file of loopsim, e.g. ~/.config/loopsim/config.yaml.
func Locate() (string, bool) {
	paths := schuko.LocateConfig(AppTag, "", Suffixes)
	if len(paths) == 0 {
		return "", false
	}
	return paths[0], true
}

// SetTraceLevel sets the trace level of the root tracer and of every tracer
// of the module.
func (c *Conf) SetTraceLevel(level string) {
	c.Set(TraceLevelPrefix+".root", level)
	for _, t := range Tracers {
		c.Set(TraceLevelPrefix+"."+t, level)
	}
}

// Keys returns all leaf keys in sorted order.
func (c *Conf) Keys() []string {
	keys := c.Koanf().Keys()
	sort.Strings(keys)
	return keys
}

// IsInteractive reports the value of key "interactive".
func (c *Conf) IsInteractive() bool {
	return c.GetBool("interactive")
}

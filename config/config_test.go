package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

const sample = `
eventloop:
  maxticks: 250
  maxloopiterations: "20"
tracing:
  adapter: go
  destination: stderr
tracelevel:
  root: Info
  loopsim.parser: Debug
interactive: true
`

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.config")
	defer teardown()
	//
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if n := c.GetInt("eventloop.maxticks"); n != 250 {
		t.Errorf("expected maxticks = 250, have %d", n)
	}
	if n := c.GetInt("eventloop.maxloopiterations"); n != 20 {
		t.Errorf("expected string value to convert to 20, have %d", n)
	}
	if l := c.GetString("tracelevel.loopsim.parser"); l != "Debug" {
		t.Errorf("expected flattened trace level key, have %q", l)
	}
	if l := c.GetString("tracelevel.loopsim.interp"); l != "Error" {
		t.Errorf("expected default trace level for interp, have %q", l)
	}
	if !c.IsInteractive() || !c.GetBool("interactive") {
		t.Errorf("expected interactive flag to be set")
	}
	if !c.IsSet("eventloop.maxticks") || c.IsSet("eventloop.nosuchkey") {
		t.Errorf("expected IsSet to reflect existing keys only")
	}
	for _, k := range c.Keys() {
		if k == "tracelevel.loopsim.parser" {
			return
		}
	}
	t.Errorf("expected dotted key to be split into nested keys, have %v", c.Keys())
}

func TestDottedKeysOverrideDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.config")
	defer teardown()
	//
	for i := 0; i < 20; i++ { // map order must not matter
		c, err := Parse([]byte("tracelevel:\n  loopsim.interp: Info\n"))
		if err != nil {
			t.Fatal(err)
		}
		if l := c.GetString("tracelevel.loopsim.interp"); l != "Info" {
			t.Fatalf("expected dotted key to override default, have %q", l)
		}
	}
}

func TestParseError(t *testing.T) {
	if _, err := Parse([]byte("eventloop: [unclosed")); err == nil {
		t.Errorf("expected malformed YAML to be rejected")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected missing file to be an error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loopsim.yaml")
	if err := os.WriteFile(path, []byte("eventloop:\n  maxticks: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.GetInt("eventloop.maxticks") != 3 || c.GetInt("eventloop.maxloopiterations") != 50 {
		t.Errorf("unexpected configuration %v", c)
	}
}

func TestLoadNestedText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "loopsim.config")
	defer teardown()
	//
	nt := "eventloop:\n  maxticks: 7\ntracelevel:\n  loopsim.parser: Debug\ninteractive: true\n"
	path := filepath.Join(t.TempDir(), "config.nt")
	if err := os.WriteFile(path, []byte(nt), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := c.GetInt("eventloop.maxticks"); n != 7 {
		t.Errorf("expected maxticks = 7 from NestedText, have %d", n)
	}
	if l := c.GetString("tracelevel.loopsim.parser"); l != "Debug" {
		t.Errorf("expected parser trace level Debug, have %q", l)
	}
	if !c.IsInteractive() {
		t.Errorf("expected NestedText string 'true' to read as boolean")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "config.toml")); err == nil {
		t.Errorf("expected unknown file suffix to be rejected")
	}
}

func TestDefaultsAndTraceLevel(t *testing.T) {
	c := Defaults()
	if c.IsInteractive() {
		t.Errorf("expected non-interactive default")
	}
	if c.GetString("tracing.adapter") != "go" {
		t.Errorf("expected default tracing adapter 'go'")
	}
	c.SetTraceLevel("Debug")
	for _, tr := range Tracers {
		if l := c.GetString(TraceLevelPrefix + "." + tr); l != "Debug" {
			t.Errorf("expected tracer %s at Debug, have %q", tr, l)
		}
	}
	c.Set("eventloop.maxticks", 9)
	if c.GetInt("eventloop.maxticks") != 9 {
		t.Errorf("expected Set to override a default")
	}
	keys := c.Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("expected sorted keys, have %v", keys)
		}
	}
}

func TestConfigureTracing(t *testing.T) {
	c := Defaults()
	c.SetTraceLevel("Info")
	c.Set("tracelevel.loopsim.parser", "Debug")
	if err := ConfigureTracing(c); err != nil {
		t.Fatal(err)
	}
	defer trace2go.Teardown()
	if l := tracing.Select("loopsim.parser").GetTraceLevel(); l != tracing.LevelDebug {
		t.Errorf("expected parser tracer at Debug, have %s", l)
	}
	if l := tracing.Select("loopsim.interp").GetTraceLevel(); l != tracing.LevelInfo {
		t.Errorf("expected interp tracer at Info, have %s", l)
	}
}

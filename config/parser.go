package config

import (
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/maps"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"gopkg.in/yaml.v3"
)

// YAMLParser implements koanf.Parser for YAML documents.
type YAMLParser struct{}

// YAML returns a YAML parser which splits dotted keys, see Dotted.
func YAML() koanf.Parser {
	return Dotted(&YAMLParser{})
}

// NestedText returns a NestedText parser which splits dotted keys, see Dotted.
func NestedText() koanf.Parser {
	return Dotted(koanfadapter.Parser())
}

// Unmarshal parses YAML bytes. An empty document yields an empty map.
func (p *YAMLParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]interface{}{}
	}
	return m, nil
}

// Marshal renders a config map as YAML.
func (p *YAMLParser) Marshal(m map[string]interface{}) ([]byte, error) {
	return yaml.Marshal(m)
}

type dotted struct {
	koanf.Parser
}

// Dotted wraps a parser such that a key containing dots, like
//
//	tracelevel:
//	  loopsim.parser: Debug
//
// is split into nested mappings. Otherwise koanf would keep "loopsim.parser"
// next to a mapping "loopsim" and flattening both would collide.
func Dotted(p koanf.Parser) koanf.Parser {
	return dotted{Parser: p}
}

func (d dotted) Unmarshal(b []byte) (map[string]interface{}, error) {
	m, err := d.Parser.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	flat, _ := maps.Flatten(m, nil, ".")
	return maps.Unflatten(flat, "."), nil
}

package runtime

import (
	"fmt"
	"sort"
)

// Symbol table for variables. There is a single, flat table per run.
//

// --- Tags -------------------------------------------------------

// Tag is the symbol type stored into symbol tables: a named binding of a
// value. We call it 'Tag' rather than 'Symbol' to keep it apart from the
// symbols of the parser.
type Tag struct {
	name  string
	Decl  string // "var", "let", "const", or "" for implicit globals
	Value Value
}

// NewTag creates a new tag, bound to undefined.
func NewTag(nm string) *Tag {
	return &Tag{name: nm}
}

// String is a debug Stringer for tags.
func (s *Tag) String() string {
	return fmt.Sprintf("<tag '%s'=%#v>", s.Name(), s.Value)
}

// Name gets the tag's name.
func (s *Tag) Name() string {
	return s.name
}

// === Symbol Tables =========================================================

// SymbolTable is a symbol table to store tags (map-like semantics).
type SymbolTable struct {
	Table map[string]*Tag
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{Table: make(map[string]*Tag)}
}

// ResolveTag checks for a tag in the symbol table.
// Returns a tag or nil.
func (t *SymbolTable) ResolveTag(tagname string) *Tag {
	return t.Table[tagname]
}

// ResolveOrDefineTag finds a tag in the table, inserts a new one if not found.
// Returns the tag and a flag, signalling wether the tag has already been present.
func (t *SymbolTable) ResolveOrDefineTag(tagname string) (*Tag, bool) {
	if len(tagname) == 0 {
		return nil, false
	}
	found := true
	tag := t.ResolveTag(tagname)
	if tag == nil { // if not already there, insert it
		tag, _ = t.DefineTag(tagname)
		found = false
	}
	return tag, found
}

// DefineTag creates a new tag to store into the symbol table.
// The tag's name may not be empty.
// Overwrites an existing tag with this name, if any.
// Returns the new tag and the previously stored tag (or nil).
func (t *SymbolTable) DefineTag(tagname string) (*Tag, *Tag) {
	if len(tagname) == 0 {
		return nil, nil
	}
	tag := NewTag(tagname)
	old := t.ResolveTag(tagname)
	t.Table[tagname] = tag
	return tag, old
}

// Size counts the tags in a symbol table.
func (t *SymbolTable) Size() int {
	return len(t.Table)
}

// Each iterates over each tag in the table in order of names, executing a
// mapper function.
func (t *SymbolTable) Each(mapper func(string, *Tag)) {
	names := make([]string, 0, len(t.Table))
	for k := range t.Table {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		mapper(k, t.Table[k])
	}
}

// === Environment ===========================================================

// Environment is the flat variable scope of a run.
type Environment struct {
	symtab *SymbolTable
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{symtab: NewSymbolTable()}
}

// Declare binds a name, replacing an earlier binding. There are no block scopes,
// so re-declaring a name in a loop body simply rebinds it.
func (env *Environment) Declare(name, kind string, v Value) {
	tag, _ := env.symtab.DefineTag(name)
	if tag == nil {
		return
	}
	tag.Decl = kind
	tag.Value = v
	tracer().P("var", name).Debugf("%s = %#v", kind, v)
}

// Assign rebinds a name. Assigning to an undeclared name creates an implicit
// global, as sloppy-mode scripts do.
func (env *Environment) Assign(name string, v Value) {
	tag, found := env.symtab.ResolveOrDefineTag(name)
	if tag == nil {
		return
	}
	tag.Value = v
	if !found {
		tracer().P("var", name).Debugf("implicit global = %#v", v)
		return
	}
	tracer().P("var", name).Debugf("= %#v", v)
}

// Lookup returns the value bound to name. Absent names yield undefined and
// false.
func (env *Environment) Lookup(name string) (Value, bool) {
	tag := env.symtab.ResolveTag(name)
	if tag == nil {
		return Undef(), false
	}
	return tag.Value, true
}

// Names returns all bound names, sorted.
func (env *Environment) Names() []string {
	names := make([]string, 0, env.symtab.Size())
	env.symtab.Each(func(name string, _ *Tag) {
		names = append(names, name)
	})
	return names
}

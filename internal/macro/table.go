package macro

import (
	"sort"

	"layercheck/internal/decl"
	"layercheck/internal/stmt"
)

// Source resolves macro names. Both the local Table and the codebase symbol
// table implement it.
type Source interface {
	Macro(name string) *decl.Macro
}

// Table is a small name → #define map, used when only macros are collected.
type Table struct {
	byName map[string]*decl.Macro
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*decl.Macro)}
}

// Macro implements Source.
func (t *Table) Macro(name string) *decl.Macro {
	if t == nil {
		return nil
	}
	return t.byName[name]
}

// Add records m. A redefinition is merged into the first definition and the
// conflicts are returned.
func (t *Table) Add(m *decl.Macro) []string {
	if m == nil {
		return nil
	}
	if prev, ok := t.byName[m.Name.Text]; ok {
		return prev.Update(m)
	}
	t.byName[m.Name.Text] = m
	return nil
}

// Collect adds every #define of text. Offsets are absolute from base.
func (t *Table) Collect(x decl.Extractor, text string, base int) {
	for _, st := range stmt.Preprocessor(text, base) {
		t.Add(x.Macro(st))
	}
}

// Len is the number of distinct names.
func (t *Table) Len() int { return len(t.byName) }

// Names returns the macro names, sorted.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.byName))
	for name := range t.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

package testkit

import (
	"fmt"
	"sort"

	"layercheck/internal/project"
	"layercheck/internal/source"
	"layercheck/internal/symbols"
	"layercheck/internal/token"
)

// CheckCodebaseInvariants runs a minimal set of invariants on a filled
// codebase:
// 1) every definition is stored under its own name and has a file
// 2) its module is empty or known to mods (mods may be nil)
// 3) in a file read without expansion the name span holds the name itself
// 4) statics are stored under the path of their file
func CheckCodebaseInvariants(cb *symbols.Codebase, mods *project.Registry) error {
	if cb == nil {
		return fmt.Errorf("nil codebase")
	}
	tables := []struct {
		name string
		defs map[string]*symbols.Definition
	}{
		{"types", cb.Types},
		{"names", cb.Names},
		{"macros", cb.Macros},
	}
	for _, tab := range tables {
		if err := checkTable(tab.name, tab.defs, mods); err != nil {
			return err
		}
	}

	paths := make([]string, 0, len(cb.StaticNames))
	for p := range cb.StaticNames {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		m := cb.StaticNames[p]
		if err := checkTable("statics of "+p, m, mods); err != nil {
			return err
		}
		for _, d := range m {
			if d.Path() != p {
				return fmt.Errorf("static %q of %s is defined in %s", d.Name, p, d.Path())
			}
		}
	}
	return nil
}

func checkTable(table string, defs map[string]*symbols.Definition, mods *project.Registry) error {
	for _, key := range sortedKeys(defs) {
		d := defs[key]
		if d == nil {
			return fmt.Errorf("%s: nil definition under %q", table, key)
		}
		if d.Name != key {
			return fmt.Errorf("%s: %q stored under %q", table, d.Name, key)
		}
		f := d.Scope.File
		if f == nil {
			return fmt.Errorf("%s: %q has no file", table, key)
		}
		if d.Module != "" && mods != nil && !mods.Has(d.Module) {
			return fmt.Errorf("%s: %q belongs to unknown module [%s]", table, key, d.Module)
		}
		if err := checkNameSpan(d, f); err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
	}
	return nil
}

// checkNameSpan compares the text under the name span with the name.
// Synthesized names of anonymous records and expanded files are skipped.
func checkNameSpan(d *symbols.Definition, f *source.File) error {
	if f.Flags&source.FileExpanded != 0 || !token.IsIdentifier(d.Name) {
		return nil
	}
	end := d.Offset + len(d.Name)
	if d.Offset < 0 || end > len(f.Content) {
		return fmt.Errorf("%q at %d is outside of %s (%d bytes)", d.Name, d.Offset, f.Path, len(f.Content))
	}
	if got := string(f.Content[d.Offset:end]); got != d.Name {
		return fmt.Errorf("%q at %s holds %q", d.Name, d.Scope.Location(d.Offset), got)
	}
	return nil
}

func sortedKeys(m map[string]*symbols.Definition) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package symbols

import (
	"sort"
	"strings"

	"layercheck/internal/decl"
	"layercheck/internal/diag"
	"layercheck/internal/project"
	"layercheck/internal/token"
)

// Options configure a Codebase.
type Options struct {
	Modules  *project.Registry
	Naming   *project.Naming
	Ignore   token.Set
	Reporter diag.Reporter
}

// Codebase is the whole-program symbol table.
type Codebase struct {
	// Records: structs, unions, enums.
	Types           map[string]*Definition
	TypesRestricted map[string]*Definition
	Fields          map[string]map[string]*Definition // record → field → definition
	// Functions and global variables.
	Names           map[string]*Definition
	NamesRestricted map[string]*Definition
	StaticNames     map[string]map[string]*Definition // file path → name → definition
	// Typedefs maps a typedef name to the type name it stands for.
	Typedefs map[string]string
	Macros   map[string]*Definition

	modules *project.Registry
	naming  *project.Naming
	ignore  token.Set
	rep     diag.Reporter
}

// New returns an empty codebase.
func New(opts Options) *Codebase {
	rep := opts.Reporter
	if rep == nil {
		rep = diag.NopReporter{}
	}
	ignore := opts.Ignore
	if ignore == nil {
		ignore = token.DefaultIgnore
	}
	return &Codebase{
		Types:           make(map[string]*Definition),
		TypesRestricted: make(map[string]*Definition),
		Fields:          make(map[string]map[string]*Definition),
		Names:           make(map[string]*Definition),
		NamesRestricted: make(map[string]*Definition),
		StaticNames:     make(map[string]map[string]*Definition),
		Typedefs:        make(map[string]string),
		Macros:          make(map[string]*Definition),
		modules:         opts.Modules,
		naming:          opts.Naming,
		ignore:          ignore,
		rep:             rep,
	}
}

// Reporter receives the diagnostics of symbol merging.
func (cb *Codebase) Reporter() diag.Reporter { return cb.rep }

// Ignore are the vendor keywords skipped in declarations.
func (cb *Codebase) Ignore() token.Set { return cb.ignore }

// Macro implements macro.Source.
func (cb *Codebase) Macro(name string) *decl.Macro {
	d, ok := cb.Macros[name]
	if !ok {
		return nil
	}
	m, _ := d.Details.(*decl.Macro)
	return m
}

// Untypedef follows typedefs from name until it reaches a known record, a
// name that is not a typedef, or a cycle.
func (cb *Codebase) Untypedef(name string) string {
	seen := make(map[string]bool)
	for {
		if _, isType := cb.Types[name]; isType {
			return name
		}
		next, ok := cb.Typedefs[name]
		if !ok || seen[name] {
			return name
		}
		seen[name] = true
		name = next
	}
}

// FieldType is the resolved type of field in record rec, "" when unknown.
func (cb *Codebase) FieldType(rec, field string) string {
	d, ok := cb.Fields[rec][field]
	if !ok {
		return ""
	}
	base := d.BaseType()
	if base == "" {
		return ""
	}
	return cb.Untypedef(base)
}

// Static returns the file-scoped definition of name in path.
func (cb *Codebase) Static(path, name string) *Definition {
	return cb.StaticNames[path][name]
}

// Lookup resolves a name as seen from path: file statics first, then globals.
func (cb *Codebase) Lookup(path, name string) *Definition {
	if d := cb.Static(path, name); d != nil {
		return d
	}
	return cb.Names[name]
}

// Functions lists the function definitions that have a body, globals and
// statics alike, ordered by file and offset.
func (cb *Codebase) Functions() []*Definition {
	var out []*Definition
	add := func(d *Definition) {
		if d.Kind == decl.KindFunction && d.Details.HasBody() {
			out = append(out, d)
		}
	}
	for _, d := range cb.Names {
		add(d)
	}
	for _, m := range cb.StaticNames {
		for _, d := range m {
			add(d)
		}
	}
	sortDefs(out)
	return out
}

func sortDefs(defs []*Definition) {
	sort.Slice(defs, func(i, j int) bool {
		a, b := defs[i], defs[j]
		if a.Path() != b.Path() {
			return a.Path() < b.Path()
		}
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return a.Name < b.Name
	})
}

// Sorted returns the definitions of m ordered by file and offset.
func Sorted(m map[string]*Definition) []*Definition {
	out := make([]*Definition, 0, len(m))
	for _, d := range m {
		out = append(out, d)
	}
	sortDefs(out)
	return out
}

// Stats counts the entries of each table.
type Stats struct {
	Types, TypesRestricted int
	Fields                 int
	Names, NamesRestricted int
	Statics                int
	Typedefs               int
	Macros                 int
}

// Stats summarises the codebase.
func (cb *Codebase) Stats() Stats {
	s := Stats{
		Types:           len(cb.Types),
		TypesRestricted: len(cb.TypesRestricted),
		Names:           len(cb.Names),
		NamesRestricted: len(cb.NamesRestricted),
		Typedefs:        len(cb.Typedefs),
		Macros:          len(cb.Macros),
	}
	for _, f := range cb.Fields {
		s.Fields += len(f)
	}
	for _, m := range cb.StaticNames {
		s.Statics += len(m)
	}
	return s
}

// MacroDigest fingerprints the macro table, so that expansion results can be
// cached across runs.
func (cb *Codebase) MacroDigest() project.Digest {
	names := make([]string, 0, len(cb.Macros))
	for n := range cb.Macros {
		names = append(names, n)
	}
	sort.Strings(names)
	items := make([]string, 0, 3*len(names))
	for _, n := range names {
		m := cb.Macro(n)
		if m == nil {
			continue
		}
		args := "-"
		if m.IsFunctionLike() {
			args = strings.Join(m.Args, ",")
		}
		items = append(items, n, args, m.Body)
	}
	return project.StringsDigest(items...)
}

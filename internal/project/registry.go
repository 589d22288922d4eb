package project

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Module is one ownership boundary of the tree.
type Module struct {
	Name string
	// Dir is the directory under src/ holding the module; defaults to Name.
	Dir string
	// FileAliases are extra directory or header names that map to the module.
	FileAliases []string
	// SourceAliases are extra spellings of the module inside identifiers.
	SourceAliases []string
}

var (
	ErrModuleNameMissing = errors.New("module name is missing")
	ErrInvalidModuleName = errors.New("invalid module name")
	ErrDuplicateModule   = errors.New("duplicate module")
	ErrDuplicateDir      = errors.New("duplicate module directory")
	ErrDuplicateAlias    = errors.New("duplicate module alias")
	ErrUnknownModule     = errors.New("unknown module")
)

// Registry indexes modules by name, directory and aliases.
type Registry struct {
	modules     map[string]Module
	order       []string
	dirs        map[string]string
	fileAliases map[string]string
	srcAliases  map[string]string
	// srcNames are module names and source aliases, longest first.
	srcNames []string
}

// IsValidModuleIdent reports whether name can appear in a C identifier.
func IsValidModuleIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// NewRegistry validates mods. Names, directories and aliases of each kind
// must be unique; names are compared after NFC normalisation.
func NewRegistry(mods []Module) (*Registry, error) {
	r := &Registry{
		modules:     make(map[string]Module, len(mods)),
		dirs:        make(map[string]string, len(mods)),
		fileAliases: make(map[string]string),
		srcAliases:  make(map[string]string),
	}
	for _, m := range mods {
		m.Name = norm.NFC.String(m.Name)
		if m.Name == "" {
			return nil, ErrModuleNameMissing
		}
		if !IsValidModuleIdent(m.Name) {
			return nil, fmt.Errorf("%w %q", ErrInvalidModuleName, m.Name)
		}
		if m.Dir == "" {
			m.Dir = m.Name
		}
		m.Dir = norm.NFC.String(m.Dir)
		if _, dup := r.modules[m.Name]; dup {
			return nil, fmt.Errorf("%w %q", ErrDuplicateModule, m.Name)
		}
		if other, dup := r.dirs[m.Dir]; dup {
			return nil, fmt.Errorf("%w %q for [%s] conflicts with [%s]", ErrDuplicateDir, m.Dir, m.Name, other)
		}
		r.dirs[m.Dir] = m.Name
		m.FileAliases = slices.Clone(m.FileAliases)
		m.SourceAliases = slices.Clone(m.SourceAliases)
		for i, a := range m.FileAliases {
			a = norm.NFC.String(a)
			m.FileAliases[i] = a
			if other, dup := r.fileAliases[a]; dup {
				return nil, fmt.Errorf("%w: file alias %q for [%s] conflicts with [%s]", ErrDuplicateAlias, a, m.Name, other)
			}
			r.fileAliases[a] = m.Name
		}
		for i, a := range m.SourceAliases {
			a = norm.NFC.String(a)
			m.SourceAliases[i] = a
			if other, dup := r.srcAliases[a]; dup {
				return nil, fmt.Errorf("%w: source alias %q for [%s] conflicts with [%s]", ErrDuplicateAlias, a, m.Name, other)
			}
			r.srcAliases[a] = m.Name
		}
		r.modules[m.Name] = m
		r.order = append(r.order, m.Name)
	}

	seen := make(map[string]bool)
	for _, name := range r.order {
		seen[name] = true
	}
	for a := range r.srcAliases {
		seen[a] = true
	}
	for n := range seen {
		r.srcNames = append(r.srcNames, n)
	}
	sort.Slice(r.srcNames, func(i, j int) bool {
		a, b := r.srcNames[i], r.srcNames[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return r, nil
}

// Len is the number of modules.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Has reports whether name is a registered module.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.modules[norm.NFC.String(name)]
	return ok
}

// Lookup returns the module called name.
func (r *Registry) Lookup(name string) (Module, error) {
	if r != nil {
		if m, ok := r.modules[norm.NFC.String(name)]; ok {
			return m, nil
		}
	}
	return Module{}, fmt.Errorf("%w %q", ErrUnknownModule, name)
}

// Names lists modules in declaration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

// ByDir maps a directory name (or file alias) under src/ to its module.
func (r *Registry) ByDir(dir string) string {
	if r == nil {
		return ""
	}
	if name, ok := r.dirs[dir]; ok {
		return name
	}
	if name, ok := r.fileAliases[dir]; ok {
		return name
	}
	return ""
}

// byFileName resolves a file-derived name the way header names are
// resolved: aliases first, then module names.
func (r *Registry) byFileName(name string) string {
	if r == nil || name == "" {
		return ""
	}
	if m, ok := r.fileAliases[name]; ok {
		return m
	}
	if _, ok := r.modules[name]; ok {
		return name
	}
	return ""
}

// SourceModule maps a module spelling found in an identifier to the module.
func (r *Registry) SourceModule(spelling string) string {
	if r == nil {
		return ""
	}
	if m, ok := r.srcAliases[spelling]; ok {
		return m
	}
	if _, ok := r.modules[spelling]; ok {
		return spelling
	}
	return ""
}

// sourceNames are module names and source aliases, longest first.
func (r *Registry) sourceNames() []string {
	if r == nil {
		return nil
	}
	return r.srcNames
}

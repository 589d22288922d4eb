package project

import (
	"path"
	"path/filepath"
	"strings"

	"layercheck/internal/source"
)

// Layout maps file paths of the tree onto modules.
type Layout struct {
	Root    string // absolute tree root
	Src     string // source directory relative to Root, slash separated
	Modules *Registry

	HeaderModules map[string]string
}

// NewLayout builds the layout described by cfg.
func NewLayout(cfg Config, mods *Registry) (*Layout, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}
	return &Layout{
		Root:          root,
		Src:           strings.Trim(filepath.ToSlash(cfg.Src), "/"),
		Modules:       mods,
		HeaderModules: cfg.Conventions.HeaderModules,
	}, nil
}

// Rel returns p relative to the root with forward slashes. Relative paths
// are taken to be relative to the root already.
func (l *Layout) Rel(p string) string {
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(l.Root, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			return ""
		}
		p = rel
	}
	return path.Clean(filepath.ToSlash(p))
}

// FileModule infers the module owning a file. Files under src/<dir>/ belong
// to the module of <dir>; headers under src/include/ are named after the
// module they serve, with "_inline" and "_private" suffixes ignored.
func (l *Layout) FileModule(p string) string {
	rel := l.Rel(p)
	prefix := l.Src + "/"
	if l.Src == "" || l.Src == "." {
		prefix = ""
	}
	if rel == "" || !strings.HasPrefix(rel, prefix) {
		return ""
	}
	rel = rel[len(prefix):]

	if !strings.HasPrefix(rel, "include/") {
		dir, _, nested := strings.Cut(rel, "/")
		if !nested {
			return ""
		}
		return l.Modules.ByDir(dir)
	}

	base := path.Base(rel)
	base = strings.TrimSuffix(base, path.Ext(base))
	if s, ok := strings.CutSuffix(base, "_inline"); ok {
		base = s
	} else if s, ok := strings.CutSuffix(base, "_private"); ok {
		base = s
	}
	if m, ok := l.HeaderModules[base]; ok {
		return l.Modules.byFileName(m)
	}
	return l.Modules.byFileName(base)
}

// Describe fills in the module of f.
func (l *Layout) Describe(f *source.File) {
	f.Module = l.FileModule(f.Path)
}

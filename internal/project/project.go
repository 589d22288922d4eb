package project

import (
	"fmt"
	"maps"

	"layercheck/internal/token"
)

// Project bundles the configuration with the indexes built from it.
type Project struct {
	Config  Config
	Modules *Registry
	Layout  *Layout
	Naming  *Naming
	// Ignore are the vendor keywords skipped in declarations.
	Ignore token.Set
}

// New validates cfg and builds the module indexes.
func New(cfg Config) (*Project, error) {
	mods, err := NewRegistry(cfg.Modules)
	if err != nil {
		return nil, fmt.Errorf("modules: %w", err)
	}
	layout, err := NewLayout(cfg, mods)
	if err != nil {
		return nil, fmt.Errorf("root %q: %w", cfg.Root, err)
	}
	ignore := maps.Clone(token.DefaultIgnore)
	for _, w := range cfg.Conventions.IgnoreKeywords {
		ignore[w] = struct{}{}
	}
	return &Project{
		Config:  cfg,
		Modules: mods,
		Layout:  layout,
		Naming:  NewNaming(cfg.Conventions, mods),
		Ignore:  ignore,
	}, nil
}

// Files discovers the sources of the tree in processing order.
func (p *Project) Files() ([]string, error) {
	m, err := NewMatcher(p.Config.Include, p.Config.Exclude)
	if err != nil {
		return nil, err
	}
	return Discover(p.Layout.Root, m)
}

package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigName is the file FindConfig looks for.
const ConfigName = "layercheck.toml"

// Config is the parsed layercheck.toml.
type Config struct {
	Root            string
	Src             string
	Include         []string
	Exclude         []string
	Jobs            int
	TwoPass         bool
	ExpandConstants bool

	Conventions Conventions
	Modules     []Module
}

// Conventions describe how names and files map onto modules.
type Conventions struct {
	PublicPrefixes  []string
	PrivatePrefixes []string
	IgnoreKeywords  []string
	// HeaderModules maps a header base name under src/include/ to a module;
	// an empty value means the header belongs to no module.
	HeaderModules map[string]string
}

var (
	// ErrConfigSectionMissing indicates that [project] is missing.
	ErrConfigSectionMissing = errors.New("missing [project]")
	// ErrBadJobs indicates a negative [project].jobs.
	ErrBadJobs = errors.New("[project].jobs must not be negative")
)

type configFile struct {
	Project struct {
		Root            string   `toml:"root"`
		Src             string   `toml:"src"`
		Include         []string `toml:"include"`
		Exclude         []string `toml:"exclude"`
		Jobs            int      `toml:"jobs"`
		TwoPass         bool     `toml:"two_pass"`
		ExpandConstants bool     `toml:"expand_constants"`
	} `toml:"project"`
	Conventions struct {
		PublicPrefixes  []string          `toml:"public_prefixes"`
		PrivatePrefixes []string          `toml:"private_prefixes"`
		IgnoreKeywords  []string          `toml:"ignore_keywords"`
		HeaderModules   map[string]string `toml:"header_modules"`
	} `toml:"conventions"`
	Module []struct {
		Name          string   `toml:"name"`
		Dir           string   `toml:"dir"`
		FileAliases   []string `toml:"file_aliases"`
		SourceAliases []string `toml:"source_aliases"`
	} `toml:"module"`
}

// Default is the configuration used without a layercheck.toml.
func Default() Config {
	return Config{
		Root:    ".",
		Src:     "src",
		Include: []string{"src/**.c", "src/**.h"},
		TwoPass: true,
		Conventions: Conventions{
			PublicPrefixes:  []string{"__wt_"},
			PrivatePrefixes: []string{"__wti_", "WT_"},
			HeaderModules:   map[string]string{"extern": "", "wt_internal": ""},
		},
	}
}

// LoadConfig reads path on top of Default. Keys that are absent keep their
// default value; a relative root is resolved against the file's directory.
func LoadConfig(path string) (Config, error) {
	var raw configFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrConfigSectionMissing)
	}

	cfg := Default()
	p := raw.Project
	if meta.IsDefined("project", "root") {
		cfg.Root = strings.TrimSpace(p.Root)
	}
	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}
	if meta.IsDefined("project", "src") {
		cfg.Src = strings.Trim(strings.TrimSpace(p.Src), "/")
	}
	if meta.IsDefined("project", "include") {
		cfg.Include = p.Include
	}
	if meta.IsDefined("project", "exclude") {
		cfg.Exclude = p.Exclude
	}
	if meta.IsDefined("project", "jobs") {
		if p.Jobs < 0 {
			return Config{}, fmt.Errorf("%s: %w", path, ErrBadJobs)
		}
		cfg.Jobs = p.Jobs
	}
	if meta.IsDefined("project", "two_pass") {
		cfg.TwoPass = p.TwoPass
	}
	if meta.IsDefined("project", "expand_constants") {
		cfg.ExpandConstants = p.ExpandConstants
	}

	c := raw.Conventions
	if meta.IsDefined("conventions", "public_prefixes") {
		cfg.Conventions.PublicPrefixes = c.PublicPrefixes
	}
	if meta.IsDefined("conventions", "private_prefixes") {
		cfg.Conventions.PrivatePrefixes = c.PrivatePrefixes
	}
	if meta.IsDefined("conventions", "ignore_keywords") {
		cfg.Conventions.IgnoreKeywords = c.IgnoreKeywords
	}
	if meta.IsDefined("conventions", "header_modules") {
		cfg.Conventions.HeaderModules = c.HeaderModules
	}

	for i, m := range raw.Module {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return Config{}, fmt.Errorf("%s: module #%d: %w", path, i+1, ErrModuleNameMissing)
		}
		cfg.Modules = append(cfg.Modules, Module{
			Name:          name,
			Dir:           strings.TrimSpace(m.Dir),
			FileAliases:   m.FileAliases,
			SourceAliases: m.SourceAliases,
		})
	}
	return cfg, nil
}

// FindConfig walks up from startDir to locate layercheck.toml.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// AutoModules derives one module per first-level directory of root/src,
// skipping include/.
func AutoModules(root, src string) ([]Module, error) {
	entries, err := os.ReadDir(filepath.Join(root, src))
	if err != nil {
		return nil, fmt.Errorf("auto modules: %w", err)
	}
	var out []Module
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "include" || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, Module{Name: e.Name()})
	}
	return out, nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"layercheck/internal/diag"
	"layercheck/internal/driver"
	"layercheck/internal/project"
)

// session is what every command needs: the project, the run options and
// the files to process.
type session struct {
	project *project.Project
	opts    driver.Options
	paths   []string
}

// loadConfig finds and parses the configuration. Without a layercheck.toml
// the current directory is the tree root.
func loadConfig(cmd *cobra.Command) (project.Config, error) {
	pf := cmd.Root().PersistentFlags()
	path, _ := pf.GetString("config")
	if path == "" {
		found, ok, err := project.FindConfig(".")
		if err != nil {
			return project.Config{}, err
		}
		if !ok {
			return project.Default(), nil
		}
		path = found
	}
	return project.LoadConfig(path)
}

func openSession(cmd *cobra.Command, args []string) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	pf := cmd.Root().PersistentFlags()

	if auto, _ := pf.GetBool("auto-modules"); auto {
		mods, err := project.AutoModules(cfg.Root, cfg.Src)
		if err != nil {
			return nil, err
		}
		cfg.Modules = mods
	}
	if jobs, _ := pf.GetInt("jobs"); jobs > 0 {
		cfg.Jobs = jobs
	}
	if single, _ := pf.GetBool("single-pass"); single {
		cfg.TwoPass = false
	}
	if expand, _ := pf.GetBool("expand-constants"); expand {
		cfg.ExpandConstants = true
	}

	p, err := project.New(cfg)
	if err != nil {
		return nil, err
	}
	if p.Modules.Len() == 0 {
		fmt.Fprintln(os.Stderr, "layercheck: no modules configured; every file belongs to no module (see --auto-modules)")
	}

	opts := driver.OptionsFor(cfg)
	levelName, _ := pf.GetString("level")
	if opts.Level, err = diag.ParseSeverity(levelName); err != nil {
		return nil, err
	}
	opts.MaxDiagnostics, _ = pf.GetInt("max-diagnostics")

	paths, err := selectPaths(p, args)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no source files under %s", p.Layout.Root)
	}
	return &session{project: p, opts: opts, paths: paths}, nil
}

// selectPaths returns the files of the tree, restricted to args when given.
// An argument is a file or a directory, relative to the current directory.
func selectPaths(p *project.Project, args []string) ([]string, error) {
	all, err := p.Files()
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return all, nil
	}

	var prefixes []string
	for _, a := range args {
		abs, err := filepath.Abs(a)
		if err != nil {
			return nil, err
		}
		rel := p.Layout.Rel(abs)
		if rel == "" {
			return nil, fmt.Errorf("%s is outside of the tree %s", a, p.Layout.Root)
		}
		prefixes = append(prefixes, rel)
	}
	return filterPaths(all, prefixes), nil
}

// filterPaths keeps the paths equal to a prefix or inside a prefix directory.
func filterPaths(all, prefixes []string) []string {
	var out []string
	for _, path := range all {
		for _, pre := range prefixes {
			if pre == "." || path == pre || strings.HasPrefix(path, strings.TrimSuffix(pre, "/")+"/") {
				out = append(out, path)
				break
			}
		}
	}
	return out
}

// relTarget resolves a single file argument to its path in the tree.
func relTarget(p *project.Project, arg string) (string, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", err
	}
	rel := p.Layout.Rel(abs)
	if rel == "" {
		return "", fmt.Errorf("%s is outside of the tree %s", arg, p.Layout.Root)
	}
	return rel, nil
}

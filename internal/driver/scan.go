package driver

import (
	"context"
	"fmt"

	"layercheck/internal/access"
	"layercheck/internal/diag"
	"layercheck/internal/macro"
	"layercheck/internal/pipeline"
	"layercheck/internal/project"
	"layercheck/internal/source"
)

// Scan loads paths and builds the symbol table of the tree.
//
// In two-pass mode every file contributes its macros first (pass 1); then
// the files are macro-expanded in parallel (pass 2) and fed to the symbol
// table one by one, in order, on the calling goroutine. The returned error
// is non-nil only when a file cannot be read or ctx is cancelled; analysis
// findings are in Result.Bag.
func Scan(ctx context.Context, p *project.Project, paths []string, opts Options) (*Result, error) {
	res := newResult(p, opts)
	cb := res.Codebase

	var err error
	res.track(opts, pipeline.StageLoad, func() string {
		err = res.load(p, paths, opts)
		return fmt.Sprintf("%d files", len(res.Files))
	})
	if err != nil {
		return res, err
	}

	if !opts.TwoPass {
		res.track(opts, pipeline.StageSymbols, func() string {
			for _, f := range res.Files {
				cb.UpdateFromText(source.FileScope(f), string(f.Content), true)
			}
			return fmt.Sprintf("%d names", len(cb.Names))
		})
		return res, nil
	}

	res.track(opts, pipeline.StageMacros, func() string {
		for _, f := range res.Files {
			cb.UpdateMacrosFromText(source.FileScope(f), string(f.Content))
		}
		return fmt.Sprintf("%d macros", len(cb.Macros))
	})

	var texts []string
	res.track(opts, pipeline.StageExpand, func() string {
		texts, err = res.expandFiles(ctx, opts)
		return fmt.Sprintf("%d cached", res.CacheHits)
	})
	if err != nil {
		return res, err
	}

	res.track(opts, pipeline.StageSymbols, func() string {
		for i, f := range res.Files {
			cb.UpdateFromText(source.FileScope(f), texts[i], false)
		}
		return fmt.Sprintf("%d names", len(cb.Names))
	})
	return res, nil
}

// Check scans the tree and checks every function body for private accesses
// across modules.
func Check(ctx context.Context, p *project.Project, paths []string, opts Options) (*Result, error) {
	res, err := Scan(ctx, p, paths, opts)
	if err != nil {
		return res, err
	}
	res.track(opts, pipeline.StageCheck, func() string {
		err = access.New(res.Codebase, opts.jobs()).CheckAll(ctx, res.Bag)
		return fmt.Sprintf("%d errors", res.Bag.ErrorCount())
	})
	return res, err
}

// Uses scans the tree and counts the cross-module references of every
// function body.
func Uses(ctx context.Context, p *project.Project, paths []string, opts Options) ([]access.Use, *Result, error) {
	res, err := Scan(ctx, p, paths, opts)
	if err != nil {
		return nil, res, err
	}
	return access.New(res.Codebase, opts.jobs()).Usage(), res, nil
}

// ExpandFile returns the text of target with the macros of every file of
// paths expanded. target must be one of paths.
func ExpandFile(ctx context.Context, p *project.Project, paths []string, target string, opts Options) (string, *Result, error) {
	res := newResult(p, opts)
	if err := res.load(p, paths, opts); err != nil {
		return "", res, err
	}
	f, ok := res.File(target)
	if !ok {
		return "", res, fmt.Errorf("%s is not part of the tree", target)
	}
	for _, g := range res.Files {
		if err := ctx.Err(); err != nil {
			return "", res, err
		}
		res.Codebase.UpdateMacrosFromText(source.FileScope(g), string(g.Content))
	}
	x := macro.New(res.Codebase, macro.Options{
		ExpandConst: opts.ExpandConst,
		Reporter:    diag.BagReporter{Bag: res.Bag},
		Scope:       source.FileScope(f),
	})
	text, edits := x.Expand(string(f.Content), 0)
	f.ApplyEdits(edits)
	return text, res, nil
}

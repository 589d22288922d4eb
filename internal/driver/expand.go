package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"layercheck/internal/diag"
	"layercheck/internal/macro"
	"layercheck/internal/pipeline"
	"layercheck/internal/project"
	"layercheck/internal/source"
)

// expansion is the pass 2 result of one file.
type expansion struct {
	text   string
	edits  []source.Edit
	bag    *diag.Bag
	cached bool
}

// expandFiles macro-expands every file in parallel. The codebase is only
// read while workers run; edits, diagnostics and cache counters are applied
// afterwards in file order.
func (r *Result) expandFiles(ctx context.Context, opts Options) ([]string, error) {
	// ключ кэша: содержимое файла, таблица макросов и всё, что влияет на вывод
	setup := project.StringsDigest("expand",
		strconv.FormatBool(opts.ExpandConst),
		r.Bag.Level().String(),
		strconv.Itoa(int(diskCacheSchemaVersion)))
	macros := r.Codebase.MacroDigest()

	out := make([]expansion, len(r.Files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs())
	for i, f := range r.Files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = r.expandOne(f, project.Combine(f.Hash, macros, setup), opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	texts := make([]string, len(out))
	for i, x := range out {
		r.Bag.Merge(x.bag)
		r.Files[i].ApplyEdits(x.edits)
		texts[i] = x.text
		switch {
		case x.cached:
			r.CacheHits++
		case opts.Cache != nil:
			r.CacheMisses++
		}
	}
	return texts, nil
}

func (r *Result) expandOne(f *source.File, key project.Digest, opts Options) expansion {
	start := time.Now()
	pipeline.Emit(opts.Progress, pipeline.Event{File: f.Path, Stage: pipeline.StageExpand, Status: pipeline.StatusWorking})

	bag := diag.NewBag(0)
	bag.SetLevel(r.Bag.Level())
	cacheWarn := func(err error) {
		diag.ReportWarning(diag.BagReporter{Bag: bag}, diag.IOCacheError, source.FileScope(f).Span(0, 0),
			fmt.Sprintf("expansion cache: %v", err)).Emit()
	}

	if opts.Cache != nil {
		var payload ExpansionPayload
		ok, err := opts.Cache.Get(key, &payload)
		if err != nil {
			cacheWarn(err)
		}
		if ok {
			text, edits := payload.restore(f.ID, bag)
			pipeline.Emit(opts.Progress, pipeline.Event{File: f.Path, Stage: pipeline.StageExpand, Status: pipeline.StatusCached, Elapsed: time.Since(start)})
			return expansion{text: text, edits: edits, bag: bag, cached: true}
		}
	}

	x := macro.New(r.Codebase, macro.Options{
		ExpandConst: opts.ExpandConst,
		Reporter:    diag.BagReporter{Bag: bag},
		Scope:       source.FileScope(f),
	})
	text, edits := x.Expand(string(f.Content), 0)

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, newPayload(text, edits, bag)); err != nil {
			cacheWarn(err)
		}
	}
	pipeline.Emit(opts.Progress, pipeline.Event{File: f.Path, Stage: pipeline.StageExpand, Status: pipeline.StatusDone, Elapsed: time.Since(start)})
	return expansion{text: text, edits: edits, bag: bag}
}

package driver

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"layercheck/internal/diag"
	"layercheck/internal/observ"
	"layercheck/internal/pipeline"
	"layercheck/internal/project"
	"layercheck/internal/source"
	"layercheck/internal/symbols"
)

// Options tune a run.
type Options struct {
	// Jobs bounds the files expanded and functions checked at once; 0 means
	// GOMAXPROCS.
	Jobs int
	// TwoPass collects every macro before reading any declaration and
	// parses macro-expanded text. Without it files are read unexpanded.
	TwoPass bool
	// ExpandConst also expands macros whose body is a single literal.
	ExpandConst bool

	MaxDiagnostics int
	Level          diag.Severity

	Cache    *DiskCache            // nil disables the pass 2 cache
	Progress pipeline.ProgressSink // may be nil
	Timer    *observ.Timer         // may be nil
}

// OptionsFor returns the options configured by cfg.
func OptionsFor(cfg project.Config) Options {
	return Options{
		Jobs:        cfg.Jobs,
		TwoPass:     cfg.TwoPass,
		ExpandConst: cfg.ExpandConstants,
		Level:       diag.SevWarning,
	}
}

func (o Options) jobs() int {
	if o.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Jobs
}

// Result is the state of a run. Bag holds every diagnostic kept at the
// configured level; its error count covers the dropped ones too.
type Result struct {
	FileSet  *source.FileSet
	Files    []*source.File // processing order
	Codebase *symbols.Codebase
	Bag      *diag.Bag
	Timings  pipeline.Timings

	CacheHits   int
	CacheMisses int
}

func newResult(p *project.Project, opts Options) *Result {
	bag := diag.NewBag(opts.MaxDiagnostics)
	bag.SetLevel(opts.Level)
	return &Result{
		FileSet: source.NewFileSetWithBase(p.Layout.Root),
		Bag:     bag,
		Codebase: symbols.New(symbols.Options{
			Modules:  p.Modules,
			Naming:   p.Naming,
			Ignore:   p.Ignore,
			Reporter: diag.BagReporter{Bag: bag},
		}),
	}
}

// track runs one stage, recording its duration and reporting it as done.
func (r *Result) track(opts Options, stage pipeline.Stage, fn func() string) {
	idx := opts.Timer.Begin(string(stage))
	start := time.Now()
	note := fn()
	opts.Timer.End(idx, note)
	elapsed := time.Since(start)
	r.Timings.Add(stage, elapsed)
	pipeline.Emit(opts.Progress, pipeline.Event{Stage: stage, Status: pipeline.StatusDone, Elapsed: elapsed})
}

// load reads paths, given relative to the tree root with forward slashes,
// and assigns each file its module. A file that cannot be read is FATAL and
// stops the run.
func (r *Result) load(p *project.Project, paths []string, opts Options) error {
	for _, rel := range paths {
		pipeline.Emit(opts.Progress, pipeline.Event{File: rel, Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
		id, err := r.FileSet.LoadAs(filepath.Join(p.Layout.Root, filepath.FromSlash(rel)), rel)
		if err != nil {
			r.Bag.Add(diag.New(diag.SevFatal, diag.IOLoadFileError, source.Span{},
				fmt.Sprintf("cannot read %s: %v", rel, err)))
			pipeline.Emit(opts.Progress, pipeline.Event{File: rel, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: err})
			return fmt.Errorf("load %s: %w", rel, err)
		}
		f := r.FileSet.Get(id)
		p.Layout.Describe(f)
		if f.Module == "" {
			diag.Debugf(r.Codebase.Reporter(), diag.SevDebug, diag.ProjFileNoModule, source.FileScope(f).Span(0, 0),
				"%s belongs to no module", rel)
		}
		r.Files = append(r.Files, f)
		pipeline.Emit(opts.Progress, pipeline.Event{File: rel, Stage: pipeline.StageLoad, Status: pipeline.StatusDone})
	}
	return nil
}

// File returns the loaded file with the given root-relative path.
func (r *Result) File(rel string) (*source.File, bool) {
	return r.FileSet.GetByPath(rel)
}

package access

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"layercheck/internal/decl"
	"layercheck/internal/diag"
	"layercheck/internal/lexer"
	"layercheck/internal/source"
	"layercheck/internal/symbols"
	"layercheck/internal/token"
)

// Checker looks for private entities of one module used by functions of
// another. The codebase is only read, so functions can be checked in
// parallel.
type Checker struct {
	cb   *symbols.Codebase
	jobs int
}

// New returns a checker over cb. jobs bounds the number of functions
// checked at once; 0 means GOMAXPROCS.
func New(cb *symbols.Codebase, jobs int) *Checker {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return &Checker{cb: cb, jobs: jobs}
}

// CheckAll checks every function that has a body. Diagnostics of each
// function are buffered and merged into dst in function order, so the output
// does not depend on scheduling.
func (c *Checker) CheckAll(ctx context.Context, dst *diag.Bag) error {
	fns := c.cb.Functions()
	bags := make([]*diag.Bag, len(fns))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.jobs)
	for i, def := range fns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			bag := diag.NewBag(0)
			bag.SetLevel(dst.Level())
			c.CheckFunction(def, diag.BagReporter{Bag: bag})
			bags[i] = bag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, bag := range bags {
		dst.Merge(bag)
	}
	return nil
}

// function is the state of checking one function body.
type function struct {
	cb     *symbols.Codebase
	def    *symbols.Definition
	fn     *decl.Function
	rep    diag.Reporter
	locals map[string]*decl.Variable
}

// CheckFunction checks the body of def, a function definition.
func (c *Checker) CheckFunction(def *symbols.Definition, r diag.Reporter) {
	f := newFunction(c.cb, def, r)
	if f == nil {
		return
	}
	body := f.body()
	f.restrictedNames(body)
	f.chains(body)
}

func newFunction(cb *symbols.Codebase, def *symbols.Definition, r diag.Reporter) *function {
	fn, ok := def.Details.(*decl.Function)
	if !ok || fn.Body == nil {
		return nil
	}
	f := &function{cb: cb, def: def, fn: fn, rep: r, locals: make(map[string]*decl.Variable)}
	diag.Debugf(r, diag.SevDebug, diag.AccTrace, def.Span(), "checking %s", def)

	x := decl.Extractor{Scope: def.Scope, Ignore: cb.Ignore()}
	vars, _ := x.Locals(fn)
	for _, v := range vars {
		if len(v.Type) == 0 {
			f.warn(v.Name.Start, v.Name.End, diag.AccMissingLocal,
				fmt.Sprintf("Missing type for local variable '%s'", v.Name.Text))
			continue
		}
		f.locals[v.Name.Text] = v
	}
	return f
}

// body tokenizes the function body with comments, preprocessor lines and
// string contents blanked. Offsets stay those of the file.
func (f *function) body() token.List {
	clean := lexer.CleanCode(f.fn.Body.Inner())
	return lexer.Tokenize(clean, f.fn.Body.InnerStart()).Code()
}

func (f *function) module() string { return f.def.Module }

func (f *function) span(start, end int) source.Span {
	return f.def.Scope.Span(start, end)
}

// where prefixes messages with the module and name of the function.
func (f *function) where() string {
	if m := f.module(); m != "" {
		return fmt.Sprintf("[%s] '%s': ", m, f.def.Name)
	}
	return fmt.Sprintf("'%s': ", f.def.Name)
}

func (f *function) warn(start, end int, code diag.Code, msg string) {
	diag.ReportWarning(f.rep, code, f.span(start, end), f.where()+msg).Emit()
}

// violation reports d when it is private to a module other than the
// function's own.
func (f *function) violation(d *symbols.Definition, code diag.Code, start, end int, label string) {
	if !d.Private() || d.Module == "" || d.Module == f.module() {
		return
	}
	diag.ReportError(f.rep, code, f.span(start, end),
		fmt.Sprintf("%sInvalid access to private %s '%s' of [%s]", f.where(), d.Kind, label, d.Module)).
		WithNote(d.Span(), "declared here").
		Emit()
}

// isMemberName reports whether toks[i] follows "." or "->".
func isMemberName(toks token.List, i int) bool {
	if i == 0 {
		return false
	}
	p := toks[i-1]
	return p.Kind == token.Operator && (p.Text == "." || p.Text == "->")
}

// eachName calls fn for every identifier of toks, groups included, that is
// not a member name.
func eachName(toks token.List, fn func(token.Token)) {
	for i, t := range toks {
		switch {
		case t.Kind.IsGroup():
			eachName(lexer.Tokenize(t.Inner(), t.InnerStart()).Code(), fn)
		case t.IsIdent() && !isMemberName(toks, i):
			fn(t)
		}
	}
}

// global returns the global a name in the body refers to, nil when a local or
// a file static shadows it.
func (f *function) global(name string) *symbols.Definition {
	if f.locals[name] != nil || f.cb.Static(f.def.Path(), name) != nil {
		return nil
	}
	return f.cb.Names[name]
}

// restrictedNames reports every bare identifier naming a private function or
// variable of another module.
func (f *function) restrictedNames(toks token.List) {
	eachName(toks, func(t token.Token) {
		if _, ok := f.cb.NamesRestricted[t.Text]; !ok {
			return
		}
		d := f.global(t.Text)
		if d == nil || d.Module == "" || d.Module == f.module() {
			return
		}
		diag.ReportError(f.rep, diag.AccPrivateName, f.span(t.Start, t.End),
			fmt.Sprintf("%sInvalid access to private name '%s' of [%s]", f.where(), t.Text, d.Module)).
			WithNote(d.Span(), "declared here").
			Emit()
	})
}

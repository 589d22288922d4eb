package macro

import (
	"fmt"
	"strings"

	"layercheck/internal/decl"
	"layercheck/internal/diag"
	"layercheck/internal/lexer"
	"layercheck/internal/source"
	"layercheck/internal/token"
)

// Options tune an Expander.
type Options struct {
	// ExpandConst also expands macros whose body is a single literal.
	ExpandConst bool
	// Reporter receives malformed-call warnings and expansion traces.
	Reporter diag.Reporter
	// Scope is the file being expanded; it only locates diagnostics.
	Scope source.Scope
}

// Expander rewrites text with every known macro expanded. It is not safe for
// concurrent use; create one per file.
type Expander struct {
	src  Source
	opts Options

	inUse map[string]int
	depth int // expansions in progress
	top   int // original offset of the outermost expansion in progress
	shift int // sum of the deltas recorded so far
	edits []source.Edit
}

// New returns an expander resolving names through src.
func New(src Source, opts Options) *Expander {
	return &Expander{src: src, opts: opts, inUse: make(map[string]int)}
}

// Expand expands text starting at absolute offset base. The edit list holds
// one entry per top-level expansion that changed the length of the text,
// ordered by offset.
func (e *Expander) Expand(text string, base int) (string, []source.Edit) {
	e.depth, e.shift, e.edits = 0, 0, nil
	clear(e.inUse)
	out := e.expand(text, base)
	return out, e.edits
}

// Edits returns the edits of the last Expand.
func (e *Expander) Edits() []source.Edit { return e.edits }

func (e *Expander) lookup(name string) *decl.Macro {
	m := e.src.Macro(name)
	if m == nil || (m.IsConst && !e.opts.ExpandConst) {
		return nil
	}
	return m
}

func (e *Expander) expand(text string, base int) string {
	var toks token.List
	if e.depth == 0 {
		toks = lexer.TokenizeFlat(text, base)
	} else {
		toks = lexer.TokenizeFlatMacro(text, base)
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		var m *decl.Macro
		if t.Kind == token.Word {
			m = e.lookup(t.Text)
		}
		if m == nil {
			b.WriteString(t.Text)
			continue
		}
		if !m.IsFunctionLike() {
			b.WriteString(e.enter(m, t.Start, t.Text, nil))
			continue
		}
		c, ok := parseCall(toks, i, len(m.Args), m.IsVarArgs)
		if !ok {
			// a function-like name without arguments is not a call
			b.WriteString(t.Text)
			continue
		}
		b.WriteString(e.enter(m, t.Start, text[t.Start-base:c.end-base], c.args))
		i = c.close
	}
	return b.String()
}

// enter expands one invocation whose original text is orig.
func (e *Expander) enter(m *decl.Macro, start int, orig string, args []callArg) string {
	if e.inUse[m.Name.Text] > 0 {
		return orig
	}
	if e.depth == 0 {
		e.top = start
	}
	e.depth++
	var repl string
	if m.IsFunctionLike() {
		repl = e.call(m, orig, args)
	} else {
		repl = e.object(m)
	}
	e.depth--

	if e.depth == 0 {
		if delta := len(repl) - len(orig); delta != 0 {
			e.edits = append(e.edits, source.Edit{Offset: start, Delta: delta})
			e.shift += delta
		}
		if repl != orig && diag.Enabled(e.opts.Reporter, diag.SevDebug3) {
			diag.Debugf(e.opts.Reporter, diag.SevDebug3, diag.MacExpansion, e.span(),
				"expanded '%s' to '%s'", lexer.Compact(orig), lexer.Compact(repl))
		}
	}
	return repl
}

func (e *Expander) object(m *decl.Macro) string {
	if m.Body == "" {
		return ""
	}
	e.inUse[m.Name.Text]++
	defer func() { e.inUse[m.Name.Text]-- }()
	return e.expand(m.Body, m.BodyStart)
}

func (e *Expander) call(m *decl.Macro, orig string, args []callArg) string {
	need := len(m.Args)
	if m.IsVarArgs && len(args) == need-1 {
		args = append(args, callArg{})
	}
	if len(args) < need {
		if e.opts.Reporter != nil {
			diag.ReportWarning(e.opts.Reporter, diag.MacTooFewArgs, e.span(),
				fmt.Sprintf("macro '%s' needs %d arguments, got %d: %s", m.Name.Text, need, len(args), lexer.Compact(orig))).Emit()
		}
		return orig
	}
	if m.Body == "" {
		return ""
	}

	raw := make(map[string]string, need)
	expanded := make(map[string]string, need)
	for i, name := range m.Args {
		raw[name] = args[i].text
		expanded[name] = e.expand(args[i].text, args[i].start)
	}

	body := substitute(m.Body, raw, expanded)

	e.inUse[m.Name.Text]++
	defer func() { e.inUse[m.Name.Text]-- }()
	return e.expand(body, m.BodyStart)
}

// span locates the outermost expansion in progress in expanded coordinates.
func (e *Expander) span() source.Span {
	off := e.top + e.shift
	return e.opts.Scope.Span(off, off)
}

package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"layercheck/internal/diag"
	"layercheck/internal/source"
)

type palette struct {
	sev  map[diag.Severity]*color.Color
	path *color.Color
	note *color.Color
	code *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevFatal:   color.New(color.FgRed, color.Bold, color.ReverseVideo),
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan),
		},
		path: color.New(color.Bold),
		note: color.New(color.FgBlue),
		code: color.New(color.Faint),
	}
	all := []*color.Color{p.path, p.note, p.code}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	if c, ok := p.sev[s]; ok {
		return c
	}
	return p.code // debug tiers
}

// Pretty форматирует диагностики в человекочитаемый вид, по одной на строку:
//
//	<path>:<line>:<col>: <SEV>: <Message>
//
// затем, по опциям, строку исходника с ^ под колонкой и заметки с отступом.
// Диагностики без места (timings) печатаются как "<SEV>: <Message>".
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc, f, ok := locate(fs, d.Primary, opts.PathMode)
		var b strings.Builder
		if ok {
			b.WriteString(p.path.Sprint(loc) + " ")
		}
		b.WriteString(p.severity(d.Severity).Sprint(d.Severity.String()) + ": ")
		b.WriteString(d.Message)
		if opts.ShowCode {
			b.WriteString(" " + p.code.Sprintf("[%s]", d.Code.ID()))
		}
		fmt.Fprintln(w, b.String())

		if ok && opts.ShowSource {
			start, _ := fs.Resolve(d.Primary)
			writeSourceLine(w, f, start)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				nloc, _, nok := locate(fs, n.Span, opts.PathMode)
				if !nok {
					if d.Code == diag.ObsTimings {
						continue // JSON payload, only for machine formats
					}
					fmt.Fprintf(w, "    %s %s\n", p.note.Sprint("note:"), n.Msg)
					continue
				}
				fmt.Fprintf(w, "    %s %s %s\n", p.note.Sprint("note:"), nloc, n.Msg)
			}
		}
	}
}

// locate renders span as "path:line:col:".
func locate(fs *source.FileSet, span source.Span, mode PathMode) (string, *source.File, bool) {
	if fs == nil || span.IsZero() {
		return "", nil, false
	}
	f := fs.Get(span.File)
	if f == nil {
		return "", nil, false
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d:", mode.path(f, fs), start.Line, start.Col), f, true
}

// writeSourceLine prints the line of pos and a caret under its column. Tabs
// are kept in the caret line so the caret lines up in any terminal.
func writeSourceLine(w io.Writer, f *source.File, pos source.LineCol) {
	line := f.GetLine(pos.Line)
	if line == "" {
		return
	}
	col := min(int(pos.Col)-1, len(line))
	var pad strings.Builder
	for _, r := range line[:max(col, 0)] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	fmt.Fprintf(w, "    %s\n    %s^\n", line, pad.String())
}

// Short prints the one-line form of every diagnostic:
// "<sev> <CODE> <path>:<line>:<col> <message>", sorted by location.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) {
	if out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes); out != "" {
		fmt.Fprintln(w, out)
	}
}

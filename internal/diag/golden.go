package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"layercheck/internal/source"
)

// shortLine is one rendered entry: a diagnostic or one of its notes.
type shortLine struct {
	sev  string
	code string
	path string
	line uint32
	col  uint32
	msg  string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.line, l.col, l.msg)
}

func compareShort(a, b shortLine) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		cmp.Compare(a.sev, b.sev),
		cmp.Compare(a.code, b.code),
		cmp.Compare(a.msg, b.msg),
	)
}

// FormatShortDiagnostics renders one line per diagnostic (and per note when
// includeNotes is set), "<sev> <CODE> <path>:<line>:<col> <message>", sorted by
// location. Entries that point nowhere, such as timings, are left out. The
// result has no trailing newline and is empty when nothing remains; it is
// stable enough for golden files.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []shortLine
	for i := range diags {
		d := &diags[i]
		if l, ok := shortAt(fs, d.Primary); ok {
			l.sev, l.code, l.msg = strings.ToLower(d.Severity.String()), d.Code.ID(), oneLine(d.Message)
			lines = append(lines, l)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := shortAt(fs, n.Span); ok {
				l.sev, l.code, l.msg = "note", d.Code.ID(), oneLine(n.Msg)
				lines = append(lines, l)
			}
		}
	}
	slices.SortStableFunc(lines, compareShort)

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

// shortAt fills the location of span. Absolute paths are shown relative to
// the base directory of fs; tree paths as they are.
func shortAt(fs *source.FileSet, span source.Span) (shortLine, bool) {
	f := fs.Get(span.File)
	if f == nil {
		return shortLine{}, false
	}
	path := filepath.ToSlash(fs.RelPath(f))
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	start, _ := fs.Resolve(span)
	return shortLine{path: path, line: start.Line, col: start.Col}, true
}

func oneLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.NewReplacer("\r", " ", "\n", " ").Replace(msg)
	return strings.TrimSpace(msg)
}

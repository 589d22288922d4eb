package diagfmt

import (
	"path/filepath"

	"layercheck/internal/source"
)

// PathMode selects how file paths are shown.
type PathMode uint8

const (
	PathModeAuto     PathMode = iota // as loaded: relative to the tree root
	PathModeAbsolute                 // joined to the tree root
	PathModeRelative                 // relative to the tree root, also for absolute paths
	PathModeBasename                 // file name only
)

var pathModes = map[string]PathMode{
	"":         PathModeAuto,
	"auto":     PathModeAuto,
	"absolute": PathModeAbsolute,
	"relative": PathModeRelative,
	"basename": PathModeBasename,
}

// ParsePathMode maps a --path-mode value onto a PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	m, ok := pathModes[s]
	return m, ok
}

// path shows f in mode m.
func (m PathMode) path(f *source.File, fs *source.FileSet) string {
	switch m {
	case PathModeAbsolute:
		return fs.AbsPath(f)
	case PathModeRelative:
		return fs.RelPath(f)
	case PathModeBasename:
		return filepath.Base(f.Path)
	}
	return f.Path
}

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowCode  bool // append the diagnostic code, e.g. [ACC5001]
	ShowNotes bool
	// ShowSource prints the offending line with a caret under the column.
	ShowSource bool
}

// JSONOpts configures JSON and BuildDiagnosticsOutput.
type JSONOpts struct {
	PathMode         PathMode
	IncludePositions bool // добавить line/col
	IncludeNotes     bool
	Max              int // обрезка вывода, не Bag
}

// SarifRunMeta describes the tool run in SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}

package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

// FileSet owns the files of one run. IDs start at 1; a path added twice
// gets a new ID and the old version stays reachable by its ID.
type FileSet struct {
	files   []*File
	byPath  map[string]FileID
	baseDir string // корень дерева; пути файлов относительно него
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{byPath: make(map[string]FileID)}
}

// NewFileSetWithBase returns a FileSet whose relative paths are rooted at
// baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// SetBaseDir sets the directory relative paths are rooted at.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir is the directory relative paths are rooted at; the working
// directory when none was set.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores content under path and derives everything the analysis needs
// from the path alone: kind, priority and the "_private" file default.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	path = filepath.ToSlash(filepath.Clean(path))
	n, err := safecast.Conv[uint32](len(fileSet.files) + 1)
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	f := &File{
		ID:      FileID(n),
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
		Kind:    KindOf(path),
		Private: strings.Contains(filepath.Base(path), "_private"),
	}
	fileSet.files = append(fileSet.files, f)
	fileSet.byPath[path] = f.ID
	return f.ID
}

// Load reads a file from disk under its own path.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	return fileSet.LoadAs(path, path)
}

// LoadAs reads the file at path and stores it as name, typically the path
// relative to the tree root. A BOM is dropped and CRLF line ends become LF,
// so offsets are those of the normalized text.
func (fileSet *FileSet) LoadAs(path, name string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return NoFile, err
	}
	content, flags := normalizeText(content)
	return fileSet.Add(name, content, flags), nil
}

// AddVirtual adds an in-memory file (tests, stdin) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file with the given ID, or nil for NoFile.
func (fileSet *FileSet) Get(id FileID) *File {
	if id == NoFile || int(id) > len(fileSet.files) {
		return nil
	}
	return fileSet.files[id-1]
}

// GetByPath returns the latest file added under path.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	id, ok := fileSet.byPath[filepath.ToSlash(filepath.Clean(path))]
	if !ok {
		return nil, false
	}
	return fileSet.Get(id), true
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.Position(span.Start), f.Position(span.End)
}

// AbsPath is the absolute path of f: tree paths are joined to the base
// directory.
func (fileSet *FileSet) AbsPath(f *File) string {
	if filepath.IsAbs(f.Path) {
		return f.Path
	}
	return filepath.ToSlash(filepath.Join(fileSet.BaseDir(), f.Path))
}

// RelPath is the path of f relative to the base directory. Tree paths are
// already relative and are returned as they are.
func (fileSet *FileSet) RelPath(f *File) string {
	if !filepath.IsAbs(f.Path) {
		return f.Path
	}
	base, err := filepath.Abs(fileSet.BaseDir())
	if err != nil {
		return f.Path
	}
	rel, err := filepath.Rel(base, f.Path)
	if err != nil {
		return f.Path
	}
	return filepath.ToSlash(rel)
}

// GetLine returns line lineNum (1-based) of the original text without its
// newline, or "" past the end.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	start, end := 0, len(f.Content)
	if lineNum > 1 {
		if int(lineNum-2) >= len(f.LineIdx) {
			return ""
		}
		start = int(f.LineIdx[lineNum-2]) + 1
	}
	if int(lineNum-1) < len(f.LineIdx) {
		end = int(f.LineIdx[lineNum-1])
	}
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

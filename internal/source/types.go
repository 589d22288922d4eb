package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	// Zero is reserved for "no file".
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
	// FileKind classifies C sources by their role in the tree.
	FileKind uint8
)

// NoFile is the FileID of diagnostics that are not attached to any file.
const NoFile FileID = 0

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
	// FileExpanded is set once the file's line index was remapped onto macro-expanded text.
	FileExpanded
)

const (
	// KindOther is any file that is not a C source or header.
	KindOther FileKind = iota
	// KindHeader is a plain .h header.
	KindHeader
	// KindInline is an *_inline.h header.
	KindInline
	// KindSource is a .c translation unit.
	KindSource
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n' in Content
	Hash    [32]byte
	Flags   FileFlags

	Kind    FileKind
	Module  string // owning module, "" when unknown
	Private bool   // file name marks everything in it private by default

	// remap is LineIdx translated into the coordinates of the macro-expanded text.
	remap []uint32
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

package source

import (
	"path/filepath"
	"strings"
)

// KindOf infers the file kind from its name.
func KindOf(path string) FileKind {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, ".c"):
		return KindSource
	case strings.HasSuffix(base, "_inline.h"):
		return KindInline
	case strings.HasSuffix(base, ".h"):
		return KindHeader
	}
	return KindOther
}

func (k FileKind) String() string {
	switch k {
	case KindSource:
		return "c"
	case KindInline:
		return "i"
	case KindHeader:
		return "h"
	}
	return ""
}

// Priority orders definitions coming from different files: sources beat
// inline headers, which beat headers, which beat anything else.
func (k FileKind) Priority() int {
	switch k {
	case KindSource:
		return 4
	case KindInline:
		return 3
	case KindHeader:
		return 2
	}
	return 1
}

// Priority of the file a definition came from; 0 for a nil file.
func (f *File) Priority() int {
	if f == nil || f.Path == "" {
		return 0
	}
	return f.Kind.Priority()
}

// ProcessingOrder returns 0 for headers, 1 for inline headers and 2 for
// sources, which is the order files are fed to the symbol table.
func ProcessingOrder(path string) int {
	switch KindOf(path) {
	case KindHeader:
		return 0
	case KindInline:
		return 1
	case KindSource:
		return 2
	}
	return 3
}

package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Scope pins a parse step to a file and to the absolute offset where the text
// being parsed starts. It is passed by value: entering a nested text is
// scope.At(off), and the caller's scope is untouched when the callee returns.
type Scope struct {
	File   *File
	Offset int
}

// FileScope is the outermost scope of a file.
func FileScope(f *File) Scope {
	return Scope{File: f}
}

// At returns a scope for a nested text starting at the absolute offset off.
func (s Scope) At(off int) Scope {
	return Scope{File: s.File, Offset: off}
}

// Module owning the scope's file.
func (s Scope) Module() string {
	if s.File == nil {
		return ""
	}
	return s.File.Module
}

// Private reports whether the scope's file makes its entities private by default.
func (s Scope) Private() bool {
	return s.File != nil && s.File.Private
}

// Span converts an absolute [start, end) range into a Span of the scope's file.
func (s Scope) Span(start, end int) Span {
	if s.File == nil {
		return Span{}
	}
	st, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("span start overflow: %w", err))
	}
	en, err := safecast.Conv[uint32](max(end, start))
	if err != nil {
		panic(fmt.Errorf("span end overflow: %w", err))
	}
	return Span{File: s.File.ID, Start: st, End: en}
}

// Location formats an absolute offset as "path:line:col:".
func (s Scope) Location(off int) string {
	if s.File == nil {
		return ""
	}
	pos := s.File.Position(uint32(max(off, 0))) // #nosec G115 -- clamped above
	return fmt.Sprintf("%s:%d:%d:", s.File.Path, pos.Line, pos.Col)
}

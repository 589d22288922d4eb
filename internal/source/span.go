package source

import "fmt"

// Span is a byte range [Start, End) of one file. Offsets are in the text
// that was analysed, which is the macro-expanded text once ApplyEdits ran.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// IsZero reports whether the span points nowhere, as for run-wide
// diagnostics such as timings.
func (s Span) IsZero() bool {
	return s.File == NoFile
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

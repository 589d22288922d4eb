package source

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Edit records one top-level macro expansion: the expansion started at Offset
// in the original text and changed the text length by Delta bytes.
type Edit struct {
	Offset int
	Delta  int
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- files over 4GiB are rejected by Add
		}
	}
	return out
}

// toLineCol maps a byte offset onto a 1-based line/column using an index of
// newline offsets. A newline byte belongs to the line it terminates.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// количество переводов строки строго до off
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	var start uint32
	if line > 0 {
		start = lineIdx[line-1] + 1
	}
	col := uint32(1)
	if off >= start {
		col = off - start + 1
	}
	ln, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return LineCol{Line: ln, Col: col}
}

// Position resolves an offset in the analysed text of the file. Once ApplyEdits
// was called offsets are taken to be in macro-expanded coordinates, and the
// returned line still refers to the original file.
func (f *File) Position(off uint32) LineCol {
	if f.remap != nil {
		return toLineCol(f.remap, off)
	}
	return toLineCol(f.LineIdx, off)
}

// ApplyEdits translates the file's line index onto the text produced by macro
// expansion. Edits must be ordered by Offset, as the expander records them.
func (f *File) ApplyEdits(edits []Edit) {
	if len(edits) == 0 {
		f.remap = nil
		f.Flags &^= FileExpanded
		return
	}
	f.remap = remapLineIndex(f.LineIdx, edits)
	f.Flags |= FileExpanded
}

func remapLineIndex(lines []uint32, edits []Edit) []uint32 {
	out := make([]uint32, len(lines))
	shift, floor, ei := 0, 0, 0
	for i, p := range lines {
		for ei < len(edits) && edits[ei].Offset < int(p) {
			// newlines swallowed by an expansion collapse onto its start
			floor = edits[ei].Offset + shift
			shift += edits[ei].Delta
			ei++
		}
		np := max(int(p)+shift, floor)
		if i > 0 && np < int(out[i-1]) {
			np = int(out[i-1])
		}
		v, err := safecast.Conv[uint32](np)
		if err != nil {
			panic(fmt.Errorf("remapped offset overflow: %w", err))
		}
		out[i] = v
	}
	return out
}

package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("src/block/block_open.c", []byte("int x;\n"), 0)
	if id1 != 1 {
		t.Fatalf("expected first FileID to be 1, got %d", id1)
	}
	id2 := fs.Add("src/block/block_open.c", []byte("int y;\n"), 0)
	if id2 != 2 {
		t.Fatalf("expected second FileID to be 2, got %d", id2)
	}

	f, ok := fs.GetByPath("src/block/block_open.c")
	if !ok || f.ID != id2 {
		t.Fatalf("GetByPath must return the latest version, got %+v", f)
	}
	if string(fs.Get(id1).Content) != "int x;\n" {
		t.Errorf("old version must stay reachable")
	}
	if fs.Get(NoFile) != nil {
		t.Errorf("NoFile must resolve to nil")
	}
}

func TestFileKindAndPrivacy(t *testing.T) {
	fs := NewFileSet()
	cases := []struct {
		path     string
		kind     FileKind
		priority int
		private  bool
	}{
		{"src/btree/bt_cursor.c", KindSource, 4, false},
		{"src/include/btree_inline.h", KindInline, 3, false},
		{"src/include/btree.h", KindHeader, 2, false},
		{"src/include/btree_private.h", KindHeader, 2, true},
		{"README", KindOther, 1, false},
	}
	for _, tc := range cases {
		f := fs.Get(fs.AddVirtual(tc.path, nil))
		if f.Kind != tc.kind {
			t.Errorf("%s: kind = %v, want %v", tc.path, f.Kind, tc.kind)
		}
		if f.Priority() != tc.priority {
			t.Errorf("%s: priority = %d, want %d", tc.path, f.Priority(), tc.priority)
		}
		if f.Private != tc.private {
			t.Errorf("%s: private = %v, want %v", tc.path, f.Private, tc.private)
		}
	}
	var none *File
	if none.Priority() != 0 {
		t.Errorf("nil file must have priority 0")
	}
}

func TestPosition(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.c", []byte("ab\ncd\n\nef")))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{1, LineCol{1, 2}},
		{2, LineCol{1, 3}}, // the newline itself
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tc := range cases {
		if got := f.Position(tc.off); got != tc.want {
			t.Errorf("Position(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}
	if got := f.GetLine(2); got != "cd" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(3); got != "" {
		t.Errorf("GetLine(3) = %q, want empty", got)
	}
}

func TestApplyEditsKeepsOriginalLines(t *testing.T) {
	fs := NewFileSet()
	// "X" expands to "long": one edit at offset 2 growing the text by 3
	f := fs.Get(fs.AddVirtual("a.c", []byte("a X b\nc\n")))
	f.ApplyEdits([]Edit{{Offset: 2, Delta: 3}})

	expanded := "a long b\nc\n"
	off := uint32(len("a long b\n")) // #nosec G115
	if expanded[off] != 'c' {
		t.Fatalf("bad fixture")
	}
	if got := f.Position(off); got != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("Position after edit = %+v, want 2:1", got)
	}
	if f.Flags&FileExpanded == 0 {
		t.Errorf("FileExpanded flag must be set")
	}

	f.ApplyEdits(nil)
	if got := f.Position(6); got != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("Position without edits = %+v, want 2:1", got)
	}
}

func TestApplyEditsMultilineCall(t *testing.T) {
	fs := NewFileSet()
	// "F(1,\n2)" (7 bytes) expands to "3"
	f := fs.Get(fs.AddVirtual("a.c", []byte("F(1,\n2) y\nz")))
	f.ApplyEdits([]Edit{{Offset: 0, Delta: -6}})

	// expanded text: "3 y\nz"
	if got := f.Position(2).Line; got != 2 {
		t.Errorf("'y' must stay on line 2, got %d", got)
	}
	if got := f.Position(4).Line; got != 3 {
		t.Errorf("'z' must stay on line 3, got %d", got)
	}
}

func TestScopeLocation(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("src/a/a.c", []byte("int a;\nint b;\n")))
	f.Module = "a"

	sc := FileScope(f)
	inner := sc.At(7)
	if sc.Offset != 0 || inner.Offset != 7 {
		t.Fatalf("At must not modify the receiver")
	}
	if got := inner.Location(11); got != "src/a/a.c:2:5:" {
		t.Errorf("Location = %q", got)
	}
	if inner.Module() != "a" {
		t.Errorf("Module = %q", inner.Module())
	}
	sp := inner.Span(11, 12)
	if sp.File != f.ID || sp.Start != 11 || sp.End != 12 {
		t.Errorf("Span = %+v", sp)
	}
	if (Scope{}).Location(3) != "" {
		t.Errorf("empty scope must format to empty location")
	}
}

func TestLoadNormalizesCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.h")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", f.Flags)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.c")); err == nil {
		t.Errorf("expected error for a missing file")
	}
}

func TestPathsAgainstBase(t *testing.T) {
	fs := NewFileSetWithBase("/work/tree")
	tree := fs.Get(fs.AddVirtual("src/a/a.c", nil))
	abs := fs.Get(fs.AddVirtual("/work/tree/src/b/b.c", nil))

	if got := fs.RelPath(tree); got != "src/a/a.c" {
		t.Errorf("RelPath(tree) = %q", got)
	}
	if got := fs.RelPath(abs); got != "src/b/b.c" {
		t.Errorf("RelPath(abs) = %q", got)
	}
	if got := fs.AbsPath(tree); got != "/work/tree/src/a/a.c" {
		t.Errorf("AbsPath(tree) = %q", got)
	}
	if got := fs.AbsPath(abs); got != abs.Path {
		t.Errorf("AbsPath(abs) = %q", got)
	}
}

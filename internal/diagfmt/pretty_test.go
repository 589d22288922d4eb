package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"layercheck/internal/diag"
	"layercheck/internal/source"
)

const callerText = "int\n__wt_x_call(void)\n{\n\treturn (__wt_y_secret());\n}\n"

// fixture: ошибка доступа в x.c с заметкой на объявление в y.c
func fixture(t *testing.T) (*source.FileSet, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSetWithBase("/work/tree")
	caller := fs.AddVirtual("src/x/x.c", []byte(callerText))
	callee := fs.AddVirtual("src/y/y.c", []byte("/* #private */\nint __wt_y_secret(void);\n"))

	off := uint32(strings.Index(callerText, "__wt_y_secret"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.AccPrivateName,
		source.Span{File: caller, Start: off, End: off + 13},
		"[x] '__wt_x_call': Invalid access to private name '__wt_y_secret' of [y]").
		WithNote(source.Span{File: callee, Start: 19, End: 32}, "declared here"))
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings (check): total 1.00 ms over 2 files").
		WithNote(source.Span{}, `{"kind":"check"}`))
	return fs, bag
}

func TestPretty(t *testing.T) {
	fs, bag := fixture(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, ShowSource: true, ShowCode: true})

	want := strings.Join([]string{
		"src/x/x.c:4:10: ERROR: [x] '__wt_x_call': Invalid access to private name '__wt_y_secret' of [y] [ACC5001]",
		"    \treturn (__wt_y_secret());",
		"    \t        ^",
		"    note: src/y/y.c:2:5: declared here",
		"INFO: timings (check): total 1.00 ms over 2 files [OBS8001]",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs, bag := fixture(t)
	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAuto, "src/x/x.c:4:10:"},
		{PathModeRelative, "src/x/x.c:4:10:"},
		{PathModeAbsolute, "/work/tree/src/x/x.c:4:10:"},
		{PathModeBasename, "x.c:4:10:"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
		if !strings.HasPrefix(buf.String(), tt.want) {
			t.Errorf("mode %d: got %q", tt.mode, buf.String())
		}
		if strings.Contains(buf.String(), "note:") {
			t.Errorf("mode %d: notes printed without ShowNotes", tt.mode)
		}
	}
	if m, ok := ParsePathMode("basename"); !ok || m != PathModeBasename {
		t.Errorf("ParsePathMode(basename) = %v, %v", m, ok)
	}
	if _, ok := ParsePathMode("weird"); ok {
		t.Errorf("ParsePathMode accepted an unknown mode")
	}
}

func TestShort(t *testing.T) {
	fs, bag := fixture(t)
	var buf bytes.Buffer
	Short(&buf, bag, fs, true)
	want := "error ACC5001 src/x/x.c:4:10 [x] '__wt_x_call': Invalid access to private name '__wt_y_secret' of [y]\n" +
		"note ACC5001 src/y/y.c:2:5 declared here\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

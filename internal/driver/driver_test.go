package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"layercheck/internal/diag"
	"layercheck/internal/driver"
	"layercheck/internal/observ"
	"layercheck/internal/pipeline"
	"layercheck/internal/project"
	"layercheck/internal/source"
	"layercheck/internal/testkit"
)

const secretY = `/* #private */
int
__wt_y_secret(void)
{
	return (1);
}
`

// The access on line 7 follows a macro call spanning two lines.
const callerX = `#define WT_RET(a) do { if ((a) != 0) return (a); } while (0)
int
__wt_x_call(void)
{
	WT_RET(
	    0);
	return (__wt_y_secret());
}
`

func writeTree(t *testing.T, files map[string]string) *project.Project {
	t.Helper()
	dir := t.TempDir()
	for rel, text := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(text), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	cfg := project.Default()
	cfg.Root = dir
	cfg.Modules = []project.Module{{Name: "x"}, {Name: "y"}}
	p, err := project.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func files(t *testing.T, p *project.Project) []string {
	t.Helper()
	paths, err := p.Files()
	if err != nil {
		t.Fatal(err)
	}
	return paths
}

type located struct {
	Path string
	Line uint32
	Col  uint32
	Msg  string
}

func errorsOf(res *driver.Result) []located {
	var out []located
	for _, d := range res.Bag.Items() {
		if d.Severity != diag.SevError {
			continue
		}
		start, _ := res.FileSet.Resolve(d.Primary)
		out = append(out, located{res.FileSet.Get(d.Primary.File).Path, start.Line, start.Col, d.Message})
	}
	return out
}

func TestCheckReportsPrivateCall(t *testing.T) {
	p := writeTree(t, map[string]string{"src/y/y.c": secretY, "src/x/x.c": callerX})
	paths := files(t, p)
	if diff := cmp.Diff([]string{"src/x/x.c", "src/y/y.c"}, paths); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}

	want := []located{{
		Path: "src/x/x.c", Line: 7, Col: 10,
		Msg: "[x] '__wt_x_call': Invalid access to private name '__wt_y_secret' of [y]",
	}}
	for _, twoPass := range []bool{true, false} {
		opts := driver.Options{Jobs: 2, TwoPass: twoPass, Level: diag.SevWarning}
		res, err := driver.Check(context.Background(), p, paths, opts)
		if err != nil {
			t.Fatalf("twoPass=%v: %v", twoPass, err)
		}
		if diff := cmp.Diff(want, errorsOf(res)); diff != "" {
			t.Errorf("twoPass=%v: errors mismatch (-want +got):\n%s", twoPass, diff)
		}
		if res.Bag.ErrorCount() != 1 {
			t.Errorf("twoPass=%v: error count = %d", twoPass, res.Bag.ErrorCount())
		}
		if err := testkit.CheckCodebaseInvariants(res.Codebase, p.Modules); err != nil {
			t.Errorf("twoPass=%v: %v", twoPass, err)
		}
	}
}

func TestCheckPublicIsClean(t *testing.T) {
	p := writeTree(t, map[string]string{
		"src/y/y.c": strings.Replace(secretY, "#private", "#public", 1),
		"src/x/x.c": callerX,
	})
	res, err := driver.Check(context.Background(), p, files(t, p), driver.Options{TwoPass: true, Level: diag.SevWarning})
	if err != nil {
		t.Fatal(err)
	}
	if n := res.Bag.ErrorCount(); n != 0 {
		t.Fatalf("errors = %d: %+v", n, res.Bag.Items())
	}
}

func TestMissingFileIsFatal(t *testing.T) {
	p := writeTree(t, map[string]string{"src/x/x.c": callerX})
	res, err := driver.Check(context.Background(), p, []string{"src/x/x.c", "src/x/gone.c"}, driver.Options{TwoPass: true})
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
	if !res.Bag.HasFatal() || res.Bag.ErrorCount() != 1 {
		t.Fatalf("bag = %+v", res.Bag.Items())
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	p := writeTree(t, map[string]string{"src/y/y.c": secretY, "src/x/x.c": callerX})
	paths := files(t, p)
	cache, err := driver.NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	run := func() (*driver.Result, *pipeline.Recorder) {
		t.Helper()
		rec := &pipeline.Recorder{}
		opts := driver.Options{TwoPass: true, Level: diag.SevWarning, Cache: cache, Progress: rec, Timer: observ.NewTimer()}
		res, err := driver.Check(context.Background(), p, paths, opts)
		if err != nil {
			t.Fatal(err)
		}
		return res, rec
	}

	cold, _ := run()
	if cold.CacheHits != 0 || cold.CacheMisses != 2 {
		t.Fatalf("cold run: hits=%d misses=%d", cold.CacheHits, cold.CacheMisses)
	}
	warm, rec := run()
	if warm.CacheHits != 2 || rec.Count(pipeline.StageExpand, pipeline.StatusCached) != 2 {
		t.Fatalf("warm run: hits=%d events=%+v", warm.CacheHits, rec.Events())
	}
	if diff := cmp.Diff(errorsOf(cold), errorsOf(warm)); diff != "" {
		t.Errorf("cached run differs (-cold +warm):\n%s", diff)
	}
	if !warm.Timings.Has(pipeline.StageCheck) {
		t.Errorf("check stage not timed")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	again, _ := run()
	if again.CacheHits != 0 {
		t.Errorf("hits after DropAll = %d", again.CacheHits)
	}
}

func TestExpandFile(t *testing.T) {
	p := writeTree(t, map[string]string{"src/x/x.c": callerX})
	text, res, err := driver.ExpandFile(context.Background(), p, files(t, p), "src/x/x.c", driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(text, "WT_RET(") != 1 || !strings.Contains(text, "while (0);") {
		t.Fatalf("expanded text:\n%s", text)
	}
	f, _ := res.File("src/x/x.c")
	if f.Flags&source.FileExpanded == 0 {
		t.Errorf("line index not remapped")
	}

	if _, _, err := driver.ExpandFile(context.Background(), p, files(t, p), "src/x/none.c", driver.Options{}); err == nil {
		t.Errorf("unknown target accepted")
	}
}

func TestUses(t *testing.T) {
	p := writeTree(t, map[string]string{"src/y/y.c": secretY, "src/x/x.c": callerX})
	uses, _, err := driver.Uses(context.Background(), p, files(t, p), driver.Options{TwoPass: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(uses) != 1 || uses[0].Name != "__wt_y_secret" || uses[0].From != "x" || uses[0].To != "y" {
		t.Fatalf("uses = %+v", uses)
	}
}

func TestTimingDiagnostic(t *testing.T) {
	tm := observ.NewTimer()
	tm.Track("scan", func() string { return "" })
	d := driver.TimingDiagnostic("", 3, tm.Report())
	if d.Code != diag.ObsTimings || !strings.Contains(d.Message, "timings (check)") || len(d.Notes) != 1 {
		t.Fatalf("diagnostic = %+v", d)
	}
	if !strings.Contains(d.Notes[0].Msg, `"phases"`) {
		t.Errorf("note = %s", d.Notes[0].Msg)
	}
}

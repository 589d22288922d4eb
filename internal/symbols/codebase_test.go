package symbols_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"layercheck/internal/diag"
	"layercheck/internal/project"
	"layercheck/internal/source"
	"layercheck/internal/symbols"
)

type fixture struct {
	fs  *source.FileSet
	cb  *symbols.Codebase
	bag *diag.Bag
}

func newFixture(t *testing.T, modules ...string) *fixture {
	t.Helper()
	var mods []project.Module
	for _, m := range modules {
		mods = append(mods, project.Module{Name: m})
	}
	reg, err := project.NewRegistry(mods)
	if err != nil {
		t.Fatal(err)
	}
	bag := diag.NewBag(0)
	cb := symbols.New(symbols.Options{
		Modules:  reg,
		Naming:   project.NewNaming(project.Default().Conventions, reg),
		Reporter: diag.BagReporter{Bag: bag},
	})
	return &fixture{fs: source.NewFileSet(), cb: cb, bag: bag}
}

func (fx *fixture) add(path, module, text string) *source.File {
	f := fx.fs.Get(fx.fs.AddVirtual(path, []byte(text)))
	f.Module = module
	fx.cb.UpdateFromText(source.FileScope(f), text, true)
	return f
}

func codes(items []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, 0, len(items))
	for _, d := range items {
		out = append(out, d.Code)
	}
	return out
}

func TestTypedefResolution(t *testing.T) {
	fx := newFixture(t, "a", "b")
	fx.add("src/include/types.h", "", `struct __wt_foo {
	int a;
	struct __wt_bar *b;
};
typedef struct __wt_foo WT_FOO;
typedef WT_FOO WT_FOO2, *WT_FOOP;
typedef struct loop_a loop_b;
typedef loop_b loop_a;
`)
	if fx.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", fx.bag.Items())
	}
	tests := map[string]string{
		"WT_FOO":  "__wt_foo",
		"WT_FOO2": "__wt_foo",
		"WT_FOOP": "__wt_foo",
		"loop_a":  "loop_a",
		"int":     "int",
	}
	for in, want := range tests {
		if got := fx.cb.Untypedef(in); got != want {
			t.Errorf("Untypedef(%q) = %q, want %q", in, got, want)
		}
	}
	if got := fx.cb.FieldType("__wt_foo", "b"); got != "__wt_bar" {
		t.Errorf("FieldType(b) = %q", got)
	}
	if got := fx.cb.FieldType("__wt_foo", "missing"); got != "" {
		t.Errorf("FieldType(missing) = %q", got)
	}
}

func TestVisibilityInheritance(t *testing.T) {
	fx := newFixture(t, "a", "b")
	fx.add("src/a/a_private.h", "a", `struct __wt_a_rec {
	int x;
	/* #public */
	int y;
	struct {
		int z;
	} inner;
};
`)
	rec, ok := fx.cb.TypesRestricted["__wt_a_rec"]
	if !ok || rec.Module != "a" {
		t.Fatalf("record not restricted to [a]: %v", rec)
	}
	fields := fx.cb.Fields["__wt_a_rec"]
	if !fields["x"].Private() || fields["x"].Module != "a" {
		t.Errorf("x = %v", fields["x"])
	}
	if fields["y"].Private() || fields["y"].Module != "a" {
		t.Errorf("y = %v", fields["y"])
	}
	if _, ok := fields["inner"]; !ok {
		t.Errorf("inner missing from %v", fields)
	}
	nested := fx.cb.FieldType("__wt_a_rec", "inner")
	if nested == "" || fx.cb.Types[nested] == nil || !fx.cb.Types[nested].Private() {
		t.Errorf("nested record %q not inherited", nested)
	}
}

func TestPrototypeAndDefinitionMerge(t *testing.T) {
	fx := newFixture(t, "a", "b")
	fx.add("src/a/a.h", "a", "int __wt_a_open(int flags);\n")
	fx.add("src/a/a.c", "a", "int\n__wt_a_open(int flags)\n{\n\treturn (flags);\n}\n")
	if fx.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", fx.bag.Items())
	}
	d := fx.cb.Names["__wt_a_open"]
	if d == nil || !d.Details.HasBody() || d.Path() != "src/a/a.c" || d.Module != "a" || d.Private() {
		t.Fatalf("merged definition = %v", d)
	}
	var names []string
	for _, f := range fx.cb.Functions() {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"__wt_a_open"}, names); diff != "" {
		t.Errorf("functions mismatch (-want +got):\n%s", diff)
	}
}

func TestStatics(t *testing.T) {
	fx := newFixture(t, "a", "b")
	fx.add("src/a/a.c", "a", `static int counter;
static int
helper(void)
{
	struct local_s { int q; } ls;
	return (0);
}
int __wt_a_get(void) { return (helper()); }
`)
	fx.add("src/a/a_inline.h", "a", "static inline int __wt_a_inl(void) { return (1); }\n")

	if d := fx.cb.Static("src/a/a.c", "counter"); d == nil || d.Flags&symbols.DefStatic == 0 {
		t.Errorf("counter = %v", d)
	}
	if fx.cb.Names["helper"] != nil {
		t.Errorf("static function leaked into globals")
	}
	if fx.cb.Lookup("src/a/a.c", "helper") == nil || fx.cb.Lookup("src/b/b.c", "helper") != nil {
		t.Errorf("static lookup is not file-scoped")
	}
	if fx.cb.Names["__wt_a_get"] == nil || fx.cb.Names["__wt_a_inl"] == nil {
		t.Errorf("globals missing: %v", fx.cb.Names)
	}
	local := fx.cb.Types["local_s"]
	if local == nil || local.Flags&symbols.DefLocal == 0 {
		t.Errorf("local record = %v", local)
	}
	if fx.cb.Names["ls"] != nil {
		t.Errorf("local variable leaked into globals")
	}
	if got := len(fx.cb.Functions()); got != 3 {
		t.Errorf("got %d functions with a body", got)
	}
}

func TestForeignStatic(t *testing.T) {
	fx := newFixture(t, "a", "b")
	fx.add("src/a/a.c", "a", "/* #private(b) */\nstatic int __wti_b_thing;\n")
	want := []diag.Code{diag.SymAnnotationModuleMismatch, diag.SymForeignStatic}
	if diff := cmp.Diff(want, codes(fx.bag.Items())); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}
	if fx.bag.ErrorCount() != 1 {
		t.Errorf("got %d errors", fx.bag.ErrorCount())
	}
	if d := fx.cb.Static("src/a/a.c", "__wti_b_thing"); d == nil || d.Module != "b" || !d.Private() {
		t.Errorf("definition = %v", d)
	}
}

func TestNameModuleMismatch(t *testing.T) {
	fx := newFixture(t, "a", "b")
	fx.add("src/a/a.c", "a", "int __wt_b_foo(void) { return (0); }\n")
	fx.add("src/include/wt_internal.h", "", "int __wt_b_bar(int);\n")

	want := []diag.Code{diag.SymNameModuleMismatch}
	if diff := cmp.Diff(want, codes(fx.bag.Items())); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}
	if d := fx.cb.Names["__wt_b_foo"]; d == nil || d.Module != "a" {
		t.Errorf("file module must win: %v", d)
	}
	if d := fx.cb.Names["__wt_b_bar"]; d == nil || d.Module != "b" {
		t.Errorf("shared header must adopt the name's module: %v", d)
	}
}

func TestAnnotationUnknownModule(t *testing.T) {
	fx := newFixture(t, "a", "b")
	fx.add("src/include/wt_internal.h", "", "/* #private(zz) */\nint __wt_zz_x;\n")
	want := []diag.Code{diag.SymUnknownModule}
	if diff := cmp.Diff(want, codes(fx.bag.Items())); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}
	if d := fx.cb.NamesRestricted["__wt_zz_x"]; d == nil || d.Module != "zz" {
		t.Errorf("annotation must win: %v", d)
	}
}

func TestConflicts(t *testing.T) {
	fx := newFixture(t, "a", "b")
	fx.add("src/include/x.h", "", "struct s { int a; };\n#define LIMIT 10\n")
	fx.add("src/include/y.h", "", "struct s { int a; int b; };\n#define LIMIT 20\n")

	items := fx.bag.Items()
	want := []diag.Code{diag.SymDetailsConflict, diag.MacRedefinition}
	if diff := cmp.Diff(want, codes(items)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if items[0].Severity != diag.SevWarning || !strings.Contains(items[0].Message, "record redefinition") || len(items[0].Notes) != 1 {
		t.Errorf("record conflict = %+v", items[0])
	}
	if items[1].Severity != diag.SevInfo {
		t.Errorf("macro redefinition must be informational: %+v", items[1])
	}
	if m := fx.cb.Macro("LIMIT"); m == nil || m.Body != "10" {
		t.Errorf("first macro definition must win: %+v", m)
	}
}

func TestTwoPassScan(t *testing.T) {
	fx := newFixture(t, "a")
	h := fx.fs.Get(fx.fs.AddVirtual("src/a/a.h", []byte("#define A_MAX 4\nint __wt_a_x;\n")))
	h.Module = "a"
	fx.cb.ScanFiles([]*source.File{h}, true)
	st := fx.cb.Stats()
	if st.Macros != 1 || st.Names != 1 {
		t.Errorf("stats = %+v", st)
	}
	before := fx.cb.MacroDigest()
	fx.cb.UpdateMacrosFromText(source.FileScope(h), "#define A_MIN 0\n")
	if fx.cb.MacroDigest() == before {
		t.Errorf("macro digest did not change")
	}
}

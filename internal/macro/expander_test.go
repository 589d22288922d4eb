package macro_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"layercheck/internal/decl"
	"layercheck/internal/diag"
	"layercheck/internal/macro"
	"layercheck/internal/source"
)

func tableOf(t *testing.T, defines ...string) *macro.Table {
	t.Helper()
	tab := macro.NewTable()
	tab.Collect(decl.Extractor{}, strings.Join(defines, "\n")+"\n", 0)
	if tab.Len() == 0 {
		t.Fatalf("no macros collected from %q", defines)
	}
	return tab
}

func TestExpandNoMacros(t *testing.T) {
	tab := tableOf(t, "#define UNUSED 1")
	text := "int f(int a) {\n\treturn a + 1; /* UNUSED */\n}\n"
	got, edits := macro.New(tab, macro.Options{}).Expand(text, 0)
	if got != text {
		t.Fatalf("text changed:\n%s", got)
	}
	if len(edits) != 0 {
		t.Fatalf("expected no edits, got %v", edits)
	}
}

func TestExpandRecursionGuard(t *testing.T) {
	tab := tableOf(t, "#define A A", "#define B C", "#define C B")
	cases := map[string]string{
		"A":   "A",
		"B":   "B",
		"C;":  "C;",
		"A+B": "A+B",
	}
	for in, want := range cases {
		got, _ := macro.New(tab, macro.Options{}).Expand(in, 0)
		if got != want {
			t.Errorf("Expand(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStringizeAndPaste(t *testing.T) {
	tab := tableOf(t,
		"#define S(x) #x",
		"#define P(a,b) a##b",
		"#define Q(a) #a",
		"#define N(a) #b",
		"#define PR(a) # pragma a",
	)
	cases := []struct{ in, want string }{
		{"S(foo)", `"foo"`},
		{"P(fo,o)", "foo"},
		{`Q("a\b")`, `"\"a\\b\""`},
		{"N(x)", "#b"},
		{"PR(once)", "# pragma once"},
		{"S( spaced  out )", `"spaced  out"`},
	}
	for _, tc := range cases {
		got, _ := macro.New(tab, macro.Options{}).Expand(tc.in, 0)
		if got != tc.want {
			t.Errorf("Expand(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExpandPreScanAndRescan(t *testing.T) {
	tab := tableOf(t,
		"#define HE HI",
		"#define LLO _THERE",
		`#define HELLO "HI THERE"`,
		"#define CAT(a,b) a##b",
		"#define XCAT(a,b) CAT(a,b)",
		"#define CALL(fn) fn(HE,LLO)",
	)
	opts := macro.Options{ExpandConst: true}
	cases := []struct{ in, want string }{
		{"CAT(HE,LLO) - CAT: HE, LLO", `"HI THERE" - CAT: HI, _THERE`},
		{"XCAT(HE,LLO)", "HI_THERE"},
		{"CALL(CAT)", `"HI THERE"`},
		{"CAT(AB,HE)", "ABHE"},
	}
	for _, tc := range cases {
		got, _ := macro.New(tab, opts).Expand(tc.in, 0)
		if got != tc.want {
			t.Errorf("Expand(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSkipConstants(t *testing.T) {
	tab := tableOf(t, "#define SIZE 16", `#define NAME "x"`, "#define EMPTY", "#define TWICE(x) ((x) * 2)")
	got, _ := macro.New(tab, macro.Options{}).Expand("TWICE(SIZE) NAME EMPTY", 0)
	if want := "((SIZE) * 2) NAME EMPTY"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	got, _ = macro.New(tab, macro.Options{ExpandConst: true}).Expand("TWICE(SIZE) NAME EMPTY;", 0)
	if want := `((16) * 2) "x" ;`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestVariadic(t *testing.T) {
	tab := tableOf(t,
		"#define LOG(fmt, ...) printf(fmt, __VA_ARGS__)",
		"#define GNU(fmt, args...) printf(fmt, args)",
		"#define FIRST(a, b) a",
	)
	cases := []struct{ in, want string }{
		{`LOG("%d %d", x, f(y, z))`, `printf("%d %d", x, f(y, z))`},
		{`GNU("%s", s)`, `printf("%s", s)`},
		{`LOG("plain")`, `printf("plain", )`},
		{"FIRST(1, 2, 3)", "1"},
		{"FIRST", "FIRST"},
		{"FIRST ;", "FIRST ;"},
	}
	for _, tc := range cases {
		got, _ := macro.New(tab, macro.Options{}).Expand(tc.in, 0)
		if got != tc.want {
			t.Errorf("Expand(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTooFewArguments(t *testing.T) {
	tab := tableOf(t, "#define CAT(a,b) a##b")
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.c", []byte("x = CAT(a);\n"))
	f := fs.Get(id)

	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	got, edits := macro.New(tab, macro.Options{Reporter: rep, Scope: source.FileScope(f)}).Expand(string(f.Content), 0)
	if got != string(f.Content) {
		t.Fatalf("malformed call must stay unexpanded, got %q", got)
	}
	if len(edits) != 0 {
		t.Fatalf("unexpected edits %v", edits)
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.MacTooFewArgs || items[0].Severity != diag.SevWarning {
		t.Fatalf("unexpected diagnostics: %+v", items)
	}
	if items[0].Primary.Start != 4 {
		t.Fatalf("warning at %d, want 4", items[0].Primary.Start)
	}
}

func TestEditsAreTopLevelOnly(t *testing.T) {
	tab := tableOf(t,
		"#define HE HI",
		"#define LLO _THERE",
		`#define HELLO "HI THERE"`,
		"#define CAT(a,b) a##b",
	)
	_, edits := macro.New(tab, macro.Options{ExpandConst: true}).Expand("CAT(HE,LLO) - CAT: HE, LLO", 0)
	want := []source.Edit{{Offset: 0, Delta: -1}, {Offset: 23, Delta: 3}}
	if diff := cmp.Diff(want, edits); diff != "" {
		t.Fatalf("edits mismatch (-want +got):\n%s", diff)
	}
}

func TestEditsRepairLines(t *testing.T) {
	tab := tableOf(t, "#define LONG(a, b) a + b + a + b")
	text := "int x = LONG(1,\n\t2);\nint y;\n"
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.c", []byte(text)))

	got, edits := macro.New(tab, macro.Options{}).Expand(text, 0)
	if want := "int x = 1 + 2 + 1 + 2;\nint y;\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	f.ApplyEdits(edits)
	off := strings.Index(got, "int y")
	if pos := f.Position(uint32(off)); pos.Line != 3 || pos.Col != 1 {
		t.Fatalf("int y at %d:%d, want 3:1", pos.Line, pos.Col)
	}
}

func TestTableRedefinition(t *testing.T) {
	tab := macro.NewTable()
	tab.Collect(decl.Extractor{}, "#define A 1\n#define B(x) x\n", 0)
	if diff := cmp.Diff([]string{"A", "B"}, tab.Names()); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
	other := macro.NewTable()
	other.Collect(decl.Extractor{}, "#define A   1\n#define B(y) y\n", 100)

	if errs := tab.Add(other.Macro("A")); len(errs) != 0 {
		t.Fatalf("whitespace-only difference reported: %v", errs)
	}
	if errs := tab.Add(other.Macro("B")); len(errs) != 1 {
		t.Fatalf("expected one conflict for B, got %v", errs)
	}
	if tab.Macro("B").Name.Start != 20 {
		t.Fatalf("first definition must win, got offset %d", tab.Macro("B").Name.Start)
	}
}

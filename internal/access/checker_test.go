package access_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"layercheck/internal/access"
	"layercheck/internal/diag"
	"layercheck/internal/lexer"
	"layercheck/internal/project"
	"layercheck/internal/source"
	"layercheck/internal/symbols"
)

type file struct{ path, module, text string }

func build(t *testing.T, files ...file) *symbols.Codebase {
	t.Helper()
	reg, err := project.NewRegistry([]project.Module{{Name: "a"}, {Name: "b"}, {Name: "x"}, {Name: "y"}})
	if err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	var list []*source.File
	for _, f := range files {
		sf := fs.Get(fs.AddVirtual(f.path, []byte(f.text)))
		sf.Module = f.module
		list = append(list, sf)
	}
	cb := symbols.New(symbols.Options{
		Modules: reg,
		Naming:  project.NewNaming(project.Default().Conventions, reg),
	})
	cb.ScanFiles(list, true)
	return cb
}

func check(t *testing.T, cb *symbols.Codebase) []diag.Diagnostic {
	t.Helper()
	bag := diag.NewBag(0)
	bag.SetLevel(diag.SevInfo)
	if err := access.New(cb, 2).CheckAll(context.Background(), bag); err != nil {
		t.Fatal(err)
	}
	return bag.Items()
}

func errorsOf(items []diag.Diagnostic) []string {
	var out []string
	for _, d := range items {
		if d.Severity == diag.SevError {
			out = append(out, d.Message)
		}
	}
	return out
}

func TestPrivateFieldAccess(t *testing.T) {
	cb := build(t,
		file{"src/a/a.h", "a", "/* #private */\nstruct PRIV {\n\tint x;\n};\n"},
		file{"src/b/b.c", "b", "int\n__wt_b_use(struct PRIV *p)\n{\n\treturn (p->x);\n}\n"},
	)
	var field []string
	for _, msg := range errorsOf(check(t, cb)) {
		if strings.Contains(msg, "PRIV :: x") {
			field = append(field, msg)
		}
	}
	if len(field) != 1 || !strings.Contains(field[0], "[a]") {
		t.Fatalf("field errors = %q", field)
	}
}

func TestPrivateFunctionCall(t *testing.T) {
	callee := "int\n__wt_y_secret(void)\n{\n\treturn (1);\n}\n"
	caller := file{"src/x/x.c", "x", "int\n__wt_x_call(void)\n{\n\treturn (__wt_y_secret());\n}\n"}

	cb := build(t, file{"src/y/y.c", "y", "/* #private */\n" + callee}, caller)
	errs := errorsOf(check(t, cb))
	want := []string{"[x] '__wt_x_call': Invalid access to private name '__wt_y_secret' of [y]"}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}

	cb = build(t, file{"src/y/y.c", "y", "/* #public */\n" + callee}, caller)
	if errs := errorsOf(check(t, cb)); len(errs) != 0 {
		t.Errorf("public function reported: %q", errs)
	}
}

func TestOwnModuleIsAllowed(t *testing.T) {
	cb := build(t,
		file{"src/a/a.h", "a", "/* #private */\nstruct PRIV {\n\tint x;\n};\n/* #private */\nint __wt_a_helper(void);\n"},
		file{"src/a/a.c", "a", "int\n__wt_a_use(struct PRIV *p)\n{\n\treturn (p->x + __wt_a_helper());\n}\n"},
	)
	if errs := errorsOf(check(t, cb)); len(errs) != 0 {
		t.Errorf("unexpected errors: %q", errs)
	}
}

func TestExpressionTyping(t *testing.T) {
	cb := build(t,
		file{"src/a/a.h", "a", `/* #private */
struct __wti_a_conn {
	int hidden;
	struct __wt_a_pub *pub;
};
struct __wt_a_pub {
	/* #private */
	int secret;
	int open;
};
typedef struct __wti_a_conn A_CONN;
`},
		file{"src/b/b.c", "b", `int
__wt_b_f(void *arg, int flag)
{
	struct __wt_a_pub *pub;

	pub = NULL;
	return (((A_CONN *)arg)->pub->open + pub->secret + (flag ? pub : pub)->open);
}
`},
	)
	want := []string{
		"[b] '__wt_b_f': Invalid access to private record '__wti_a_conn' of [a]",
		"[b] '__wt_b_f': Invalid access to private field '__wti_a_conn :: pub' of [a]",
		"[b] '__wt_b_f': Invalid access to private field '__wt_a_pub :: secret' of [a]",
	}
	if diff := cmp.Diff(want, errorsOf(check(t, cb))); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownTypeWarns(t *testing.T) {
	cb := build(t, file{"src/b/b.c", "b", "int\n__wt_b_g(void)\n{\n\treturn (mystery->field);\n}\n"})
	items := check(t, cb)
	if len(items) != 1 || items[0].Severity != diag.SevWarning || items[0].Code != diag.AccUnknownType {
		t.Fatalf("got %+v", items)
	}
}

func TestChains(t *testing.T) {
	toks := lexer.Tokenize("a->b.c[i]; f(x)->y; ((T *)p)->q; return (s)->t; sizeof(u)", 0).Code()
	var got []string
	for _, c := range access.Chains(toks) {
		got = append(got, c.String())
	}
	want := []string{"a->b.c", "f(x)->y", "((T *)p)->q", "(s)->t"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("chains mismatch (-want +got):\n%s", diff)
	}
}

func TestUsage(t *testing.T) {
	cb := build(t,
		file{"src/y/y.h", "y", "int __wt_y_pub(int);\nextern int y_hidden;\nint __wt_y_count;\n"},
		file{"src/x/x.c", "x", "int\n__wt_x_a(void)\n{\n\treturn (__wt_y_pub(1) + __wt_y_pub(__wt_y_count));\n}\n"},
	)
	uses := access.New(cb, 1).Usage()
	want := []access.Use{
		{From: "x", File: "src/x/x.c", Name: "__wt_y_count", To: "y", Count: 1},
		{From: "x", File: "src/x/x.c", Name: "__wt_y_pub", To: "y", Count: 2},
	}
	if diff := cmp.Diff(want, uses); diff != "" {
		t.Errorf("uses mismatch (-want +got):\n%s", diff)
	}
	if len(access.UsedBy(uses, "y")) != 2 || len(access.UsesOf(uses, "y")) != 0 {
		t.Errorf("filters wrong")
	}
}

func TestTypeReachedThroughField(t *testing.T) {
	cb := build(t,
		file{"src/a/a.h", "a", "/* #private */\nstruct PRIV {\n\t/* #public */\n\tint x;\n};\n"},
		file{"src/b/b.c", "b", `struct PUB {
	struct PRIV *priv;
};

int
__wt_b_use(struct PUB *p)
{
	return (p->priv->x);
}
`},
	)
	var priv []string
	for _, msg := range errorsOf(check(t, cb)) {
		if strings.Contains(msg, "PRIV") {
			priv = append(priv, msg)
		}
	}
	want := []string{"[b] '__wt_b_use': Invalid access to private record 'PRIV' of [a]"}
	if diff := cmp.Diff(want, priv); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

package lexer_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"layercheck/internal/lexer"
	"layercheck/internal/token"
)

type tk struct {
	Kind token.Kind
	Text string
}

func shape(l token.List) []tk {
	out := make([]tk, len(l))
	for i, t := range l {
		out[i] = tk{t.Kind, t.Text}
	}
	return out
}

var roundTripInputs = []string{
	"",
	"int a;",
	"qwe(asd)  {zxc} \n [wer]",
	"qwe(asd)  {z/*xc} \n [wer]*/}",
	"qwe\\\nasd",
	"a->b.c[1] <<= 2; x == y, z",
	"#define X(a) a ## b \\\n  # a\nint x;\n",
	"char *s = \"}{)(\"; char c = '}';",
	"unterminated \"string\n next",
	"stray ) and ] and } closers",
	"{ open group never closed",
	"/* unterminated comment",
	"utf8 строка @ $",
	"struct s { int a; /* } */ int b; } v;",
	"f(x, { y, [z] }, (w))",
}

func TestRoundTrip(t *testing.T) {
	for _, in := range roundTripInputs {
		for _, toks := range []token.List{
			lexer.Tokenize(in, 0),
			lexer.TokenizeMacro(in, 0),
			lexer.TokenizeFlat(in, 0),
		} {
			if got := toks.String(); got != in {
				t.Errorf("round trip failed:\n in: %q\nout: %q", in, got)
			}
			prev := 0
			for i, tok := range toks {
				if tok.Idx != i || tok.Start != prev || tok.End-tok.Start != len(tok.Text) {
					t.Errorf("%q: token %d has bad position %+v", in, i, tok)
				}
				prev = tok.End
			}
		}
	}
}

func TestGroupsAreAtomic(t *testing.T) {
	got := shape(lexer.Tokenize("qwe(asd)  {z/*xc} \n [wer]*/} \n [wer]", 0))
	want := []tk{
		{token.Word, "qwe"},
		{token.Paren, "(asd)"},
		{token.Space, "  "},
		{token.Brace, "{z/*xc} \n [wer]*/}"},
		{token.Space, " "},
		{token.Space, "\n"},
		{token.Space, " "},
		{token.Bracket, "[wer]"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenKinds(t *testing.T) {
	got := shape(lexer.Tokenize("a->b <<= \"s\", 'c'; #include <x.h>\n@", 0))
	want := []tk{
		{token.Word, "a"},
		{token.Operator, "->"},
		{token.Word, "b"},
		{token.Space, " "},
		{token.Operator, "<<="},
		{token.Space, " "},
		{token.String, "\"s\""},
		{token.Terminator, ","},
		{token.Space, " "},
		{token.String, "'c'"},
		{token.Terminator, ";"},
		{token.Space, " "},
		{token.Preproc, "#include <x.h>\n"},
		{token.Invalid, "@"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestEscapedNewlineIsSpace(t *testing.T) {
	got := shape(lexer.Tokenize("qwe\\\nasd", 0))
	want := []tk{{token.Word, "qwe"}, {token.Space, "\\\n"}, {token.Word, "asd"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestMacroBodyVariant(t *testing.T) {
	got := shape(lexer.TokenizeMacro("#a x##y", 0))
	want := []tk{
		{token.Operator, "#"},
		{token.Word, "a"},
		{token.Space, " "},
		{token.Word, "x"},
		{token.Operator, "##"},
		{token.Word, "y"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidTokens(t *testing.T) {
	toks := lexer.Tokenize("a ) { b", 0)
	var invalid []string
	for _, tok := range toks {
		if tok.Kind == token.Invalid {
			invalid = append(invalid, tok.Text)
		}
	}
	if diff := cmp.Diff([]string{")", "{"}, invalid); diff != "" {
		t.Errorf("invalid tokens mismatch (-want +got):\n%s", diff)
	}
}

type countingReporter struct{ kinds []string }

func (r *countingReporter) Report(kind string, start, end int, msg string) {
	r.kinds = append(r.kinds, kind)
}

func TestReporterAndBase(t *testing.T) {
	rep := &countingReporter{}
	lx := lexer.New("x `", 100, lexer.Options{Reporter: rep})
	var toks token.List
	for tok := range lx.All() {
		toks = append(toks, tok)
	}
	if len(toks) != 3 || toks[2].Start != 102 || toks[2].Kind != token.Invalid {
		t.Fatalf("unexpected tokens %+v", toks)
	}
	if len(rep.kinds) != 1 || rep.kinds[0] != "InvalidToken" {
		t.Errorf("reported %v", rep.kinds)
	}

	lx.Reset()
	first, ok := lx.Next()
	if !ok || first.Text != "x" || first.Idx != 0 {
		t.Errorf("Reset must restart the stream, got %+v", first)
	}
}

func TestCleanPreservesSize(t *testing.T) {
	inputs := []string{
		"qwe 'QQQ  /* WWW */ ' asd /* zxc\n */ wer",
		"#define X \\\n 1\nint a = \"x\\\"y\"; // tail\n",
		"f(/* a */ b, \"c\n",
	}
	for _, in := range inputs {
		for _, out := range []string{lexer.CleanComments(in), lexer.CleanCode(in)} {
			if len(out) != len(in) {
				t.Errorf("size changed: %q -> %q", in, out)
			}
			for i := range in {
				if (in[i] == '\n') != (out[i] == '\n') {
					t.Errorf("newline moved at %d: %q -> %q", i, in, out)
					break
				}
			}
		}
	}
	if got := lexer.CleanComments("qwe asd /* zxc */ wer"); got != "qwe asd           wer" {
		t.Errorf("CleanComments = %q", got)
	}
	if got := lexer.CleanCode(`x = "abc"; # if 1`); got != `x = "   ";       ` {
		t.Errorf("CleanCode = %q", got)
	}
	if strings.Contains(lexer.CleanCode("a /* p->x */ b"), "->") {
		t.Errorf("CleanCode must hide code inside comments")
	}
}

func TestCompact(t *testing.T) {
	if got := lexer.Compact("  qwe   asd /* zxc\n */ wer\n"); got != "qwe asd wer" {
		t.Errorf("Compact = %q", got)
	}
}

package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"layercheck/internal/diag"
	"layercheck/internal/lexer"
	"layercheck/internal/source"
	"layercheck/internal/stmt"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs, bag := fixture(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	// Парсим JSON чтобы убедиться что он валидный
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 2 || output.Errors != 1 {
		t.Fatalf("count=%d errors=%d", output.Count, output.Errors)
	}
	if output.BySeverity["ERROR"] != 1 || output.BySeverity["INFO"] != 1 {
		t.Errorf("by severity = %v", output.BySeverity)
	}
	d := output.Diagnostics[0]
	if d.Severity != diag.SevError.String() || d.Code != "ACC5001" || d.Title != diag.AccPrivateName.Title() {
		t.Errorf("severity=%s code=%s title=%q", d.Severity, d.Code, d.Title)
	}
	if d.Location.File != "src/x/x.c" || d.Location.StartLine != 4 || d.Location.StartCol != 10 {
		t.Errorf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 2 {
		t.Errorf("notes = %+v", d.Notes)
	}
}

// TestJSONMaxLimit проверяет обрезку вывода и заметки таймингов
func TestJSONMaxLimit(t *testing.T) {
	fs, bag := fixture(t)

	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("output = %+v", out)
	}
	if len(out.Diagnostics[0].Notes) != 0 {
		t.Errorf("notes included without IncludeNotes")
	}

	out, _ = BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if notes := out.Diagnostics[1].Notes; len(notes) != 1 || notes[0].Message != `{"kind":"check"}` {
		t.Errorf("timing payload missing: %+v", notes)
	}
}

func TestSarif(t *testing.T) {
	fs, bag := fixture(t)
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "layercheck", ToolVersion: "0.1.0", InvocationArgs: []string{"check"}}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatal(err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	run := log.Runs[0]
	if log.Version != "2.1.0" || run.Tool.Driver.Name != "layercheck" || len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("log = %+v", log)
	}
	res := run.Results[0]
	if res.Level != "error" || res.RuleID != "ACC5001" || len(res.RelatedLocations) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if loc := res.Locations[0].PhysicalLocation; loc.ArtifactLocation.URI != "src/x/x.c" || loc.Region.StartLine != 4 {
		t.Errorf("location = %+v", loc)
	}
	if run.Results[1].Level != "note" || len(run.Results[1].Locations) != 0 {
		t.Errorf("timings result = %+v", run.Results[1])
	}
	if !run.Invocations[0].ExecutionSuccessful {
		t.Errorf("run without FATAL reported as failed")
	}
}

func TestDumps(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("a.c", []byte("int x;\nstatic int\nf(void)\n{\n\treturn (x);\n}\n")))

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, lexer.Tokenize(string(f.Content), 0).Code(), f); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"static"`) || !strings.Contains(buf.String(), "   2:1  ") {
		t.Errorf("tokens:\n%s", buf.String())
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, lexer.Tokenize("a->b", 0).Code(), f); err != nil {
		t.Fatal(err)
	}
	var toks []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &toks); err != nil || len(toks) != 3 || toks[1].Text != "->" {
		t.Errorf("json tokens = %+v (%v)", toks, err)
	}

	buf.Reset()
	if err := FormatStatements(&buf, stmt.FromText(string(f.Content), 0, nil), f); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "[decl]") || !strings.Contains(lines[1], "function_def") {
		t.Errorf("statements:\n%s", buf.String())
	}
}

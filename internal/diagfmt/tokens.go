package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"layercheck/internal/lexer"
	"layercheck/internal/source"
	"layercheck/internal/stmt"
	"layercheck/internal/token"
)

type TokenOutput struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Line  uint32 `json:"line"`
	Col   uint32 `json:"col"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате. Группы
// печатаются целиком, длинный текст сжимается.
func FormatTokensPretty(w io.Writer, tokens token.List, f *source.File) error {
	for i, tok := range tokens {
		pos := f.Position(uint32(max(tok.Start, 0))) // #nosec G115 -- clamped above
		if _, err := fmt.Fprintf(w, "%4d: %-10s %4d:%-3d %q\n", i+1, tok.Kind.String(), pos.Line, pos.Col, preview(tok.Text)); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens token.List, f *source.File) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		pos := f.Position(uint32(max(tok.Start, 0))) // #nosec G115 -- clamped above
		output = append(output, TokenOutput{
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Start: tok.Start,
			End:   tok.End,
			Line:  pos.Line,
			Col:   pos.Col,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// StatementFlags names the kind flags set on k.
func StatementFlags(k *stmt.Kind) []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(k.IsComment, "comment")
	add(k.IsPreproc, "preproc")
	add(k.IsTypedef, "typedef")
	add(k.IsRecord, "record")
	add(k.IsUnnamedRecord, "unnamed")
	add(k.IsFunctionDef, "function_def")
	add(k.IsFunctionDecl, "function_decl")
	add(k.IsStatement, "statement")
	add(k.IsDecl, "decl")
	add(k.IsExpression, "expression")
	add(k.IsInitialization, "init")
	add(k.IsExternC, "extern_c")
	return out
}

// FormatStatements prints one line per statement: its position, its kind
// flags and its compacted text.
func FormatStatements(w io.Writer, stmts []*stmt.Statement, f *source.File) error {
	for i, st := range stmts {
		start, _ := st.Range()
		pos := f.Position(uint32(max(start, 0))) // #nosec G115 -- clamped above
		flags := strings.Join(StatementFlags(st.Kind()), ",")
		if flags == "" {
			flags = "-"
		}
		if _, err := fmt.Fprintf(w, "%4d: %4d:%-3d [%s] %s\n", i+1, pos.Line, pos.Col, flags, preview(st.String())); err != nil {
			return err
		}
	}
	return nil
}

const previewWidth = 72

func preview(text string) string {
	return runewidth.Truncate(lexer.Compact(text), previewWidth, "...")
}

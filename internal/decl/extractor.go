package decl

import (
	"strings"

	"layercheck/internal/lexer"
	"layercheck/internal/source"
	"layercheck/internal/stmt"
	"layercheck/internal/token"
)

// Extractor builds declarations from statements of one text. Scope names
// the file being parsed, Ignore lists vendor keywords to skip.
type Extractor struct {
	Scope  source.Scope
	Ignore token.Set
}

// Statements splits the inner text of a group token (a body or an argument
// list) with absolute offsets preserved.
func (x Extractor) Statements(group token.Token) []*stmt.Statement {
	return stmt.Split(lexer.Tokenize(group.Inner(), group.InnerStart()), x.Ignore)
}

// skipIgnored drops ignored words (and their argument list) from code tokens.
func (x Extractor) skipIgnored(code token.List) token.List {
	out := make(token.List, 0, len(code))
	for i := 0; i < len(code); i++ {
		if x.Ignore.Has(code[i].Text) {
			if i+1 < len(code) && code[i+1].Kind == token.Paren {
				i++
			}
			continue
		}
		out = append(out, code[i])
	}
	return out
}

// anonName names an unnamed record after its location: "(path:line:col)".
func (x Extractor) anonName(off int) string {
	loc := strings.TrimSuffix(x.Scope.Location(off), ":")
	if loc == "" {
		loc = "-"
	}
	return "(" + loc + ")"
}

package stmt

import (
	"layercheck/internal/lexer"
	"layercheck/internal/token"
)

// Preprocessor returns the preprocessor lines of text as statements, without
// classifying the rest of the code. A comment that ends right before a
// directive (separated by blanks only) is attached to it.
func Preprocessor(text string, base int) []*Statement {
	toks := lexer.TokenizeFlat(text, base)
	var out []*Statement
	for i, t := range toks {
		if t.Kind != token.Preproc {
			continue
		}
		st := &Statement{Tokens: token.List{t}, kind: &Kind{IsPreproc: true}}
		j := i - 1
		for j >= 0 && toks[j].Kind == token.Space {
			j--
		}
		if j >= 0 && j < i-1 && toks[j].Kind == token.Comment {
			st.Tokens = append(token.List(nil), toks[j:i+1]...)
			st.kind.IsComment = true
			st.kind.PreComment = &st.Tokens[0]
		}
		out = append(out, st)
	}
	return out
}

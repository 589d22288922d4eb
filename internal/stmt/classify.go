package stmt

import "layercheck/internal/token"

// Kind describes what a statement is. Flags are not exclusive: a declaration
// with an initializer is both IsDecl and IsExpression.
type Kind struct {
	IsComment        bool
	IsPreproc        bool
	IsTypedef        bool
	IsRecord         bool
	IsUnnamedRecord  bool // "struct { ... };" pulls its members into the parent
	IsFunction       bool
	IsFunctionDef    bool // declaration with a body
	IsFunctionDecl   bool // prototype without a body
	IsStatement      bool // starts with a control keyword
	IsDecl           bool
	IsExpression     bool
	IsInitialization bool
	IsExternC        bool

	PreComment  *token.Token
	PostComment *token.Token
}

// Classify decides the kind of a statement from its tokens. Words in ignore
// (and the parenthesized list right after one) are skipped, as are "const"
// and "static".
func Classify(toks token.List, ignore token.Set) *Kind {
	k := &Kind{}
	hasCode := false
	for i := range toks {
		t := &toks[i]
		if t.Kind == token.Space {
			continue
		}
		if t.Kind == token.Comment {
			k.IsComment = true
			k.PreComment = t
			continue
		}
		if t.Kind == token.Preproc {
			k.IsPreproc = true
			return k
		}
		if token.IsStatementKeyword(t.Text) {
			k.IsStatement = true
			return k
		}
		hasCode = true
		break
	}
	if !hasCode {
		return k
	}

	clean := stripIgnored(toks.CodeNoPreproc(), ignore)
	if len(clean) == 0 {
		return k
	}
	if len(clean) == 1 {
		k.IsExpression = true
		return k
	}

	k.PostComment = PostComment(toks)

	if clean[0].Text == "extern" {
		// Plain extern declarations are ignored; the definition is authoritative.
		k.IsExternC = clean[1].Text == `"C"`
		return k
	}

	if clean[0].Text == "typedef" {
		k.IsTypedef = true
		clean = clean[1:]
		if len(clean) == 0 {
			return k
		}
	}

	if !k.IsTypedef {
		decl := declShaped(clean)
		if len(decl) < 2 {
			n := len(clean)
			if n == 3 && clean[2].Text == ";" {
				n = 2
			}
			if n == 2 && (clean[0].Text == "struct" || clean[0].Text == "union") && clean[1].Kind == token.Brace {
				k.IsRecord = true
				k.IsUnnamedRecord = true
			}
			return k
		}
		if (decl[0].Kind == token.Word && decl[1].Kind == token.Word) || token.IsTypeKeyword(decl[0].Text) {
			k.IsDecl = true
		}
		for i := 1; i < len(clean)-1; i++ {
			t := clean[i]
			if t.Text == "=" {
				k.IsExpression = true
				if k.IsDecl || token.IsRecordKeyword(clean[0].Text) {
					k.IsInitialization = true
				}
				break
			}
			if t.Kind == token.Operator && t.Text != "*" {
				k.IsExpression = true
				break
			}
		}
	}

	// A body counts only when it comes before any '='.
	curly := false
	for _, t := range clean {
		if t.Kind == token.Brace || t.Text == "=" {
			curly = t.Kind == token.Brace
			break
		}
	}

	if token.IsRecordKeyword(clean[0].Text) {
		switch {
		case curly:
			k.IsRecord = true
		case !k.IsTypedef:
			k.IsDecl = true
		}
		return k
	}
	if k.IsTypedef {
		return k
	}

	for i := 1; i < len(clean); i++ {
		if clean[i].Text == "=" {
			break
		}
		if clean[i].Kind != token.Paren {
			continue
		}
		if clean[i-1].IsIdent() {
			k.IsFunction = true
			if k.IsDecl {
				k.IsFunctionDef = curly
				k.IsFunctionDecl = !curly
			}
		}
		break
	}
	return k
}

// stripIgnored removes ignored words with their argument lists, and the
// "const"/"static" qualifiers.
func stripIgnored(clean token.List, ignore token.Set) token.List {
	out := clean[:0:0]
	for i := 0; i < len(clean); i++ {
		t := clean[i]
		switch {
		case ignore.Has(t.Text):
			if i+1 < len(clean) && clean[i+1].Kind == token.Paren {
				i++
			}
		case t.Text == "const" || t.Text == "static":
		default:
			out = append(out, t)
		}
	}
	return out
}

// declShaped returns up to two leading tokens that matter for telling a
// declaration from an expression: bodies, operators other than '*', and
// words other than record keywords.
func declShaped(clean token.List) token.List {
	out := make(token.List, 0, 2)
	for _, t := range clean {
		switch {
		case t.Kind == token.Brace,
			t.Kind == token.Operator && t.Text != "*",
			t.Kind == token.Word && !token.IsRecordKeyword(t.Text):
			out = append(out, t)
		}
		if len(out) == 2 {
			break
		}
	}
	return out
}

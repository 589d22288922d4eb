package decl

import (
	"layercheck/internal/lexer"
	"layercheck/internal/stmt"
	"layercheck/internal/token"
)

// Variable is a single declarator: a record member, a parameter, a local or
// global variable, or a typedef name.
type Variable struct {
	Name token.Token
	// Type without qualifiers and '*'; empty when the declarator continues a
	// list ("int a, b;") and the caller must supply it.
	Type token.List
	// End is the terminator: "," when more declarators follow, ";" otherwise.
	End string

	PreComment  *token.Token
	PostComment *token.Token
}

func (v *Variable) Kind() EntityKind { return KindVariable }
func (v *Variable) NameToken() token.Token { return v.Name }
func (v *Variable) Comments() (pre, post *token.Token) { return v.PreComment, v.PostComment }
func (v *Variable) HasBody() bool { return false }
func (v *Variable) details() {}

// TypeName is the type as written, words joined by single spaces.
func (v *Variable) TypeName() string { return v.Type.Join(" ") }

// Update merges another occurrence of the same variable.
func (v *Variable) Update(other *Variable) []string {
	var errs []string
	switch {
	case len(v.Type) == 0:
		v.Type = other.Type
	case len(other.Type) > 0 && BaseType(v.Type) != BaseType(other.Type):
		errs = append(errs, "variable type mismatch for '"+v.Name.Text+"': "+v.TypeName()+" != "+other.TypeName())
	}
	if v.PreComment == nil {
		v.PreComment = other.PreComment
	}
	if v.PostComment == nil {
		v.PostComment = other.PostComment
	}
	return errs
}

// Variable extracts the declarator of a statement. The initializer, bit
// width, array dimensions and function-pointer arguments are dropped; the
// name of "(*fp)(int)" is fp.
func (x Extractor) Variable(toks token.List) *Variable {
	v := &Variable{}
	v.PreComment, _ = stmt.PreComment(toks)
	v.PostComment = stmt.PostComment(toks)

	code := x.skipIgnored(toks.CodeNoPreproc())
	if n := len(code); n > 0 && code[n-1].Kind == token.Terminator {
		v.End = code[n-1].Text
		code = code[:n-1]
	}
	for i, t := range code {
		if t.Text == "=" || t.Text == ":" {
			code = code[:i]
			break
		}
	}
	for len(code) > 0 {
		last := code[len(code)-1]
		switch {
		case last.Kind == token.Bracket, last.Text == "*":
			code = code[:len(code)-1]
			continue
		case last.Kind == token.Paren && len(code) > 1 && code[len(code)-2].Kind == token.Paren:
			code = code[:len(code)-1]
			continue
		}
		break
	}
	if len(code) == 0 {
		return nil
	}

	last := code[len(code)-1]
	switch last.Kind {
	case token.Word:
		if !last.IsIdent() {
			return nil
		}
		v.Name = last
	case token.Paren:
		name, ok := innerName(last)
		if !ok {
			return nil
		}
		v.Name = name
	default:
		return nil
	}

	for _, t := range code[:len(code)-1] {
		if t.Text == "*" || token.IsQualifier(t.Text) {
			continue
		}
		v.Type = append(v.Type, t)
	}
	return v
}

// innerName finds the declared name inside a parenthesized declarator such
// as "(*fp)" or "(*arr[4])".
func innerName(group token.Token) (token.Token, bool) {
	inner := lexer.Tokenize(group.Inner(), group.InnerStart()).Code()
	for len(inner) > 0 {
		last := inner[len(inner)-1]
		switch {
		case last.Kind == token.Bracket:
			inner = inner[:len(inner)-1]
		case last.Kind == token.Paren:
			return innerName(last)
		case last.IsIdent():
			return last, true
		default:
			return token.Token{}, false
		}
	}
	return token.Token{}, false
}

// Variables extracts a declarator list: each statement in sts yields one
// variable, and declarators after a ',' inherit the type of the first one.
// Statements that are not declarators reset the carried type.
func (x Extractor) Variables(sts []*stmt.Statement) []*Variable {
	var out []*Variable
	var saved token.List
	for _, st := range sts {
		if st.Kind().IsPreproc {
			continue
		}
		v := x.Variable(st.Tokens)
		if v == nil {
			saved = nil
			continue
		}
		if len(v.Type) == 0 {
			v.Type = saved
		}
		out = append(out, v)
		if v.End == "," {
			saved = v.Type
		} else {
			saved = nil
		}
	}
	return out
}

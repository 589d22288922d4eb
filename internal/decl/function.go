package decl

import (
	"layercheck/internal/stmt"
	"layercheck/internal/token"
)

// Function is a prototype or a definition.
type Function struct {
	Name token.Token
	// Type is the return type: every token before the name, ignored
	// keywords and qualifiers removed.
	Type token.List
	Args token.Token  // the (...) group
	Body *token.Token // the {...} group, nil for a prototype

	IsStatic bool
	IsConst  bool

	PreComment  *token.Token
	PostComment *token.Token
}

func (f *Function) Kind() EntityKind { return KindFunction }
func (f *Function) NameToken() token.Token { return f.Name }
func (f *Function) Comments() (pre, post *token.Token) { return f.PreComment, f.PostComment }
func (f *Function) HasBody() bool { return f.Body != nil }
func (f *Function) details() {}

// Update merges another occurrence: a definition fills in a prototype.
func (f *Function) Update(other *Function) []string {
	var errs []string
	if BaseType(f.Type) != BaseType(other.Type) {
		errs = append(errs, "function return type mismatch for '"+f.Name.Text+"': "+f.Type.Join(" ")+" != "+other.Type.Join(" "))
	}
	switch {
	case f.Body != nil && other.Body != nil && f.Body.Text != other.Body.Text:
		errs = append(errs, "function redefinition: '"+f.Name.Text+"'")
	case f.Body == nil && other.Body != nil:
		f.Body = other.Body
		f.Args = other.Args
	}
	f.IsStatic = f.IsStatic || other.IsStatic
	if f.PreComment == nil {
		f.PreComment = other.PreComment
	}
	if f.PostComment == nil {
		f.PostComment = other.PostComment
	}
	return errs
}

// Function extracts a function from a statement classified as a function
// definition or declaration.
func (x Extractor) Function(st *stmt.Statement) *Function {
	f := &Function{}
	f.PreComment, _ = stmt.PreComment(st.Tokens)
	f.PostComment = stmt.PostComment(st.Tokens)

	code := x.skipIgnored(st.Tokens.CodeNoPreproc())
	nameIdx := -1
	for i := 1; i < len(code); i++ {
		if code[i].Kind == token.Paren {
			if code[i-1].IsIdent() {
				nameIdx = i - 1
			}
			break
		}
	}
	if nameIdx < 0 {
		return nil
	}
	f.Name = code[nameIdx]
	f.Args = code[nameIdx+1]
	for _, t := range code[:nameIdx] {
		switch {
		case t.Text == "static":
			f.IsStatic = true
		case t.Text == "const":
			f.IsConst = true
		case t.Text == "*", token.IsQualifier(t.Text):
		default:
			f.Type = append(f.Type, t)
		}
	}
	for i := nameIdx + 2; i < len(code); i++ {
		if code[i].Kind == token.Brace {
			body := code[i]
			f.Body = &body
			break
		}
		if code[i].Text == "=" || code[i].Kind == token.Terminator {
			break
		}
	}
	return f
}

// Params returns the declared parameters. "void" and "..." are skipped.
func (x Extractor) Params(f *Function) []*Variable {
	var out []*Variable
	for _, st := range x.Statements(f.Args) {
		code := st.Code()
		if len(code) == 0 || code[0].Text == "void" && len(code) <= 2 || code[0].Text == "..." {
			continue
		}
		if v := x.Variable(st.Tokens); v != nil {
			out = append(out, v)
		}
	}
	return out
}

// Locals returns the parameters followed by the variables declared at the
// top of the body, up to the first statement that is not a declaration, and
// the records defined in that part of the body. Variables declared with a
// record definition ("struct { ... } v;") are included.
func (x Extractor) Locals(f *Function) ([]*Variable, []*Record) {
	vars := x.Params(f)
	if f.Body == nil {
		return vars, nil
	}
	var records []*Record
	var saved token.List
	for _, st := range x.Statements(*f.Body) {
		k := st.Kind()
		if len(st.Code()) == 0 || k.IsPreproc {
			continue
		}
		if saved == nil {
			switch {
			case k.IsRecord:
				if r := x.Record(st, nil); r != nil {
					records = append(records, r)
					vars = append(vars, r.Vardefs...)
				}
				continue
			case k.IsFunction:
				continue
			case !k.IsDecl:
				return vars, records
			}
		}
		v := x.Variable(st.Tokens)
		if v == nil {
			saved = nil
			continue
		}
		if len(v.Type) == 0 {
			v.Type = saved
		}
		vars = append(vars, v)
		if v.End == "," {
			saved = v.Type
		} else {
			saved = nil
		}
	}
	return vars, records
}

package decl

import (
	"layercheck/internal/lexer"
	"layercheck/internal/stmt"
	"layercheck/internal/token"
)

// RecordKind distinguishes struct, union and enum.
type RecordKind uint8

const (
	RecordUndef RecordKind = iota
	RecordStruct
	RecordUnion
	RecordEnum
)

func (k RecordKind) String() string {
	switch k {
	case RecordStruct:
		return "struct"
	case RecordUnion:
		return "union"
	case RecordEnum:
		return "enum"
	default:
		return "undef"
	}
}

// Record is a struct, union or enum definition with its members. Unnamed
// records get a synthetic name "(path:line:col)" of their body.
type Record struct {
	Tag  RecordKind
	Name token.Token
	Body *token.Token

	Members  []*Variable
	Typedefs []*Variable // names after the body of a typedef
	Vardefs  []*Variable // variables declared with the definition
	Nested   []*Record
	Parent   *Record

	IsTypedef bool
	// IsUnnamed is set for records with no name, typedef or variable: their
	// members belong to the enclosing record.
	IsUnnamed bool

	PreComment  *token.Token
	PostComment *token.Token
}

func (r *Record) Kind() EntityKind { return KindRecord }
func (r *Record) NameToken() token.Token { return r.Name }
func (r *Record) Comments() (pre, post *token.Token) { return r.PreComment, r.PostComment }
func (r *Record) HasBody() bool { return r.Body != nil }
func (r *Record) details() {}

// Update merges another occurrence of the same record.
func (r *Record) Update(other *Record) []string {
	var errs []string
	if r.Tag != other.Tag {
		errs = append(errs, "record type mismatch for '"+r.Name.Text+"': "+r.Tag.String()+" != "+other.Tag.String())
	}
	switch {
	case r.Body != nil && other.Body != nil && r.Body.Text != other.Body.Text:
		errs = append(errs, "record redefinition: '"+r.Name.Text+"'")
	case other.Body != nil:
		r.Body = other.Body
		r.Members = other.Members
		r.Typedefs = other.Typedefs
		r.Vardefs = other.Vardefs
		r.Nested = other.Nested
	}
	if r.PreComment == nil {
		r.PreComment = other.PreComment
	}
	if r.PostComment == nil {
		r.PostComment = other.PostComment
	}
	return errs
}

// Record extracts a record definition. It returns nil when the statement
// has no body, as in a forward declaration.
func (x Extractor) Record(st *stmt.Statement, parent *Record) *Record {
	toks := st.Tokens
	r := &Record{Parent: parent}
	var i int
	r.PreComment, i = stmt.PreComment(toks)

	hasNames := false
loop:
	for ; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.Kind.IsTrivia(), t.Kind == token.Preproc, t.Kind == token.Paren:
		case t.Text == "typedef":
			r.IsTypedef = true
			hasNames = true
		case t.Text == "struct":
			r.Tag = RecordStruct
		case t.Text == "union":
			r.Tag = RecordUnion
		case t.Text == "enum":
			r.Tag = RecordEnum
		case x.Ignore.Has(t.Text), token.IsTypeKeyword(t.Text), token.IsQualifier(t.Text):
		case t.IsIdent():
			r.Name = t
			hasNames = true
		case t.Kind == token.Brace:
			body := t
			r.Body = &body
			break loop
		case t.Text == ";":
			return nil
		}
	}
	if r.Body == nil {
		return nil
	}
	if r.Name.Text == "" {
		r.Name = token.Token{
			Idx:   r.Body.Idx,
			Kind:  token.Word,
			Start: r.Body.Start,
			End:   r.Body.Start + 1,
			Text:  x.anonName(r.Body.Start),
		}
	}

	names := x.Variables(stmt.Split(toks[i+1:], x.Ignore))
	for _, v := range names {
		v.Type = token.List{r.Name}
	}
	if len(names) > 0 {
		hasNames = true
	}
	if r.IsTypedef {
		r.Typedefs = names
	} else {
		r.Vardefs = names
	}
	r.PostComment = stmt.PostComment(toks)
	r.IsUnnamed = !hasNames

	x.members(r)
	return r
}

func (x Extractor) members(r *Record) {
	if r.Tag == RecordEnum {
		x.enumerators(r)
		return
	}
	var saved token.List
	for _, st := range x.Statements(*r.Body) {
		k := st.Kind()
		if k.IsPreproc {
			continue
		}
		if k.IsRecord {
			nested := x.Record(st, r)
			if nested == nil {
				continue
			}
			r.Nested = append(r.Nested, nested)
			switch {
			case len(nested.Vardefs) > 0:
				r.Members = append(r.Members, nested.Vardefs...)
			case nested.IsUnnamed:
				r.Members = append(r.Members, nested.Members...)
			}
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
		r.Members = append(r.Members, v)
		if v.End == "," {
			saved = v.Type
		} else {
			saved = nil
		}
	}
}

// enumerators splits an enum body at top-level commas; initializers may
// contain operators, which the statement splitter would not cut at.
func (x Extractor) enumerators(r *Record) {
	toks := lexer.Tokenize(r.Body.Inner(), r.Body.InnerStart())
	start := 0
	for i := 0; i <= len(toks); i++ {
		if i < len(toks) && toks[i].Kind != token.Terminator {
			continue
		}
		end := min(i+1, len(toks))
		if v := x.Variable(toks[start:end]); v != nil {
			v.Type = token.List{r.Name}
			r.Members = append(r.Members, v)
		}
		start = end
	}
}

// Walk calls fn for r and every nested record, parents first.
func (r *Record) Walk(fn func(*Record)) {
	fn(r)
	for _, n := range r.Nested {
		n.Walk(fn)
	}
}

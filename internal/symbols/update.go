package symbols

import (
	"fmt"

	"layercheck/internal/decl"
	"layercheck/internal/diag"
	"layercheck/internal/source"
	"layercheck/internal/stmt"
	"layercheck/internal/token"
)

// declList carries the type of a "T a, b, c;" list over to the names after
// the first one.
type declList struct {
	typ     token.List
	typedef bool
	static  bool
}

// recordCtx are the defaults a record hands down to what it contains.
type recordCtx struct {
	private bool
	module  string
	nested  bool
	static  bool
	flags   DefFlags
}

// UpdateFromText adds the declarations found in text, which starts at
// sc.Offset of sc.File. #define lines are collected only when withMacros is
// set; the two-pass scan collects them beforehand.
func (cb *Codebase) UpdateFromText(sc source.Scope, text string, withMacros bool) {
	x := decl.Extractor{Scope: sc, Ignore: cb.ignore}
	var list *declList
	for _, st := range stmt.FromText(text, sc.Offset, cb.ignore) {
		k := st.Kind()
		switch {
		case list != nil || k.IsTypedef && !k.IsRecord:
			if list == nil {
				list = &declList{typedef: true}
			}
			list = cb.declarator(x, sc, st, list)
		case k.IsFunctionDef || k.IsFunctionDecl:
			cb.addFunction(x, sc, st)
		case k.IsRecord:
			if r := x.Record(st, nil); r != nil {
				cb.addRecord(sc, r, recordCtx{
					private: sc.Private(),
					module:  sc.Module(),
					static:  isStatic(st),
				})
			}
		case k.IsDecl:
			list = cb.declarator(x, sc, st, &declList{static: isStatic(st)})
		case k.IsPreproc:
			if withMacros {
				if m := x.Macro(st); m != nil {
					cb.AddMacro(sc, m)
				}
			}
		case k.IsExternC:
			if body := braceOf(st); body != nil {
				cb.UpdateFromText(sc.At(body.InnerStart()), body.Inner(), withMacros)
			}
		}
	}
}

// UpdateMacrosFromText collects only the #define lines of text.
func (cb *Codebase) UpdateMacrosFromText(sc source.Scope, text string) {
	x := decl.Extractor{Scope: sc, Ignore: cb.ignore}
	for _, st := range stmt.Preprocessor(text, sc.Offset) {
		if m := x.Macro(st); m != nil {
			cb.AddMacro(sc, m)
		}
	}
}

// AddMacro records a #define. The first definition of a name is kept.
func (cb *Codebase) AddMacro(sc source.Scope, m *decl.Macro) {
	upsert(cb.Macros, newDefinition(sc, decl.KindMacro, m, sc.Private(), sc.Module()), cb.rep)
}

func (cb *Codebase) addRecord(sc source.Scope, r *decl.Record, ctx recordCtx) {
	private, module := cb.visibility(sc, r, ctx.private, ctx.module, ctx.nested)
	def := newDefinition(sc, decl.KindRecord, r, private, module)
	def.Flags |= ctx.flags
	if w := upsert(cb.Types, def, cb.rep); w.Private() {
		cb.TypesRestricted[w.Name] = w
	}

	fields := cb.Fields[r.Name.Text]
	if fields == nil {
		fields = make(map[string]*Definition, len(r.Members))
		cb.Fields[r.Name.Text] = fields
	}
	for _, m := range r.Members {
		fp, fm := cb.visibility(sc, m, private, module, true)
		upsert(fields, newDefinition(sc, decl.KindField, m, fp, fm), cb.rep)
	}
	for _, td := range r.Typedefs {
		cb.Typedefs[td.Name.Text] = r.Name.Text
	}
	if !ctx.nested && ctx.flags&DefLocal == 0 {
		for _, v := range r.Vardefs {
			cb.addVariable(sc, v, ctx.static)
		}
	}
	for _, n := range r.Nested {
		cb.addRecord(sc, n, recordCtx{private: private, module: module, nested: true, flags: ctx.flags})
	}
}

func (cb *Codebase) declarator(x decl.Extractor, sc source.Scope, st *stmt.Statement, list *declList) *declList {
	v := x.Variable(st.Tokens)
	if v == nil {
		return nil
	}
	if len(v.Type) == 0 {
		v.Type = list.typ
	}
	if list.typedef {
		cb.Typedefs[v.Name.Text] = decl.BaseType(v.Type)
	} else {
		cb.addVariable(sc, v, list.static)
	}
	if v.End != "," {
		return nil
	}
	list.typ = v.Type
	return list
}

func (cb *Codebase) addVariable(sc source.Scope, v *decl.Variable, static bool) {
	private, module := cb.visibility(sc, v, sc.Private(), sc.Module(), false)
	cb.addName(sc, newDefinition(sc, decl.KindVariable, v, private, module), static)
}

func (cb *Codebase) addFunction(x decl.Extractor, sc source.Scope, st *stmt.Statement) {
	f := x.Function(st)
	if f == nil {
		return
	}
	private, module := cb.visibility(sc, f, sc.Private(), sc.Module(), false)
	cb.addName(sc, newDefinition(sc, decl.KindFunction, f, private, module), f.IsStatic)
	if f.Body == nil {
		return
	}
	_, records := x.Locals(f)
	for _, r := range records {
		cb.addRecord(sc, r, recordCtx{private: private, module: module, nested: true, flags: DefLocal})
	}
}

// addName stores a function or a global variable. Statics of a .c file are
// visible only in that file.
func (cb *Codebase) addName(sc source.Scope, def *Definition, static bool) {
	if static && sc.File != nil && sc.File.Kind == source.KindSource {
		if def.Private() && def.Module != sc.Module() {
			diag.ReportError(cb.rep, diag.SymForeignStatic, def.Span(),
				fmt.Sprintf("private static %s '%s' of a foreign module [%s] defined in [%s]",
					def.Kind, def.Name, def.Module, sc.Module())).Emit()
		}
		def.Flags |= DefStatic
		m := cb.StaticNames[sc.File.Path]
		if m == nil {
			m = make(map[string]*Definition)
			cb.StaticNames[sc.File.Path] = m
		}
		upsert(m, def, cb.rep)
		return
	}
	if w := upsert(cb.Names, def, cb.rep); w.Private() {
		cb.NamesRestricted[w.Name] = w
	}
}

// isStatic looks for "static" among the leading words of a declaration.
func isStatic(st *stmt.Statement) bool {
	for _, t := range st.Code() {
		if t.Text == "static" {
			return true
		}
		if t.Kind != token.Word {
			return false
		}
	}
	return false
}

func braceOf(st *stmt.Statement) *token.Token {
	for i := range st.Tokens {
		if st.Tokens[i].Kind == token.Brace {
			return &st.Tokens[i]
		}
	}
	return nil
}

// ScanFiles fills the codebase from the raw text of files, in order, without
// macro expansion. With twoPass, every #define of every file is collected
// before any declaration is read.
func (cb *Codebase) ScanFiles(files []*source.File, twoPass bool) {
	if twoPass {
		for _, f := range files {
			cb.UpdateMacrosFromText(source.FileScope(f), string(f.Content))
		}
	}
	for _, f := range files {
		cb.UpdateFromText(source.FileScope(f), string(f.Content), !twoPass)
	}
}

package symbols

import (
	"fmt"
	"regexp"

	"layercheck/internal/decl"
	"layercheck/internal/diag"
	"layercheck/internal/source"
	"layercheck/internal/token"
)

// reAnnotation matches "#public", "#private" and "#private(module)" inside
// a comment.
var reAnnotation = regexp.MustCompile(`#(?:(public)|(private))\b(?:\((\w+)\))?`)

// annotation looks for a visibility mark in the leading, then the trailing
// comment of a declaration.
func annotation(d decl.Details) (private bool, module string, ok bool) {
	pre, post := d.Comments()
	for _, c := range [...]*token.Token{pre, post} {
		if c == nil {
			continue
		}
		if m := reAnnotation.FindStringSubmatch(c.Text); m != nil {
			return m[2] != "", m[3], true
		}
	}
	return false, "", false
}

// visibility decides privacy and module of an entity. An annotation wins,
// then, for nested entities, the name prefix convention; otherwise the
// defaults apply. A top-level name that spells another module than its file
// is reported and keeps the file's module, unless the file has none.
func (cb *Codebase) visibility(sc source.Scope, d decl.Details, defPrivate bool, defModule string, nested bool) (bool, string) {
	name := d.NameToken()
	span := sc.Span(name.Start, name.End)
	if private, module, ok := annotation(d); ok {
		if module == "" {
			return private, defModule
		}
		if cb.modules.Len() > 0 && !cb.modules.Has(module) {
			diag.ReportWarning(cb.rep, diag.SymUnknownModule, span,
				fmt.Sprintf("annotation of '%s' names unknown module [%s]", name.Text, module)).Emit()
		}
		if !nested && defModule != "" && module != defModule {
			diag.ReportWarning(cb.rep, diag.SymAnnotationModuleMismatch, span,
				fmt.Sprintf("module [%s] of a top-level entry '%s' does not match the file's module [%s]; assigning it to [%s]",
					module, name.Text, defModule, module)).Emit()
		}
		return private, module
	}

	private, fromName, ok := cb.naming.Match(name.Text)
	if fromName == "" {
		fromName = defModule
	}
	switch {
	case nested && ok:
		return private, fromName
	case nested, fromName == defModule:
		return defPrivate, defModule
	case defModule == "":
		// shared headers (extern.h and the like) belong to no module
		return defPrivate, fromName
	}
	diag.ReportWarning(cb.rep, diag.SymNameModuleMismatch, span,
		fmt.Sprintf("module [%s] of a top-level entry '%s' does not match the file's module [%s]; assigning it to [%s] because the identifier name has lower priority",
			fromName, name.Text, defModule, defModule)).Emit()
	return defPrivate, defModule
}

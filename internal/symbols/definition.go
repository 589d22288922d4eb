package symbols

import (
	"fmt"
	"strings"

	"layercheck/internal/decl"
	"layercheck/internal/diag"
	"layercheck/internal/source"
	"layercheck/internal/token"
)

// DefFlags encode misc attributes for quick checks.
type DefFlags uint8

const (
	DefPrivate DefFlags = 1 << iota
	DefStatic
	DefLocal // declared inside a function body
)

// Strings returns a slice of textual flag labels.
func (f DefFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 3)
	if f&DefPrivate != 0 {
		labels = append(labels, "private")
	}
	if f&DefStatic != 0 {
		labels = append(labels, "static")
	}
	if f&DefLocal != 0 {
		labels = append(labels, "local")
	}
	return labels
}

// Definition is one named entity of the codebase. Redefinitions of the same
// name are merged into a single Definition.
type Definition struct {
	Name   string
	Kind   decl.EntityKind
	Scope  source.Scope
	Offset int // absolute offset of the name
	Module string
	Flags  DefFlags

	Details decl.Details

	PreComments  []token.Token
	PostComments []token.Token
}

func newDefinition(sc source.Scope, kind decl.EntityKind, d decl.Details, private bool, module string) *Definition {
	name := d.NameToken()
	def := &Definition{
		Name:    name.Text,
		Kind:    kind,
		Scope:   sc,
		Offset:  name.Start,
		Module:  module,
		Details: d,
	}
	if private {
		def.Flags |= DefPrivate
	}
	pre, post := d.Comments()
	if pre != nil {
		def.PreComments = append(def.PreComments, *pre)
	}
	if post != nil {
		def.PostComments = append(def.PostComments, *post)
	}
	return def
}

// Private reports whether the entity is restricted to its module.
func (d *Definition) Private() bool { return d.Flags&DefPrivate != 0 }

// Span covers the name of the definition.
func (d *Definition) Span() source.Span {
	return d.Scope.Span(d.Offset, d.Offset+len(d.Name))
}

// Path is the file the definition was taken from.
func (d *Definition) Path() string {
	if d.Scope.File == nil {
		return ""
	}
	return d.Scope.File.Path
}

// Priority orders redefinitions: private beats public, then the file kind
// (source, inline header, header), then having a body.
func (d *Definition) Priority() int {
	p := d.Scope.File.Priority()
	if d.Private() {
		p += 10
	}
	switch d.Details.(type) {
	case *decl.Function, *decl.Record:
		if d.Details.HasBody() {
			p += 100
		}
	}
	return p
}

// TypeName is the declared type of a variable or field, or the return type
// of a function, as written.
func (d *Definition) TypeName() string {
	switch x := d.Details.(type) {
	case *decl.Variable:
		return x.TypeName()
	case *decl.Function:
		return x.Type.Join(" ")
	}
	return ""
}

// BaseType is the type name TypeName refers to, without record keywords.
func (d *Definition) BaseType() string {
	switch x := d.Details.(type) {
	case *decl.Variable:
		return decl.BaseType(x.Type)
	case *decl.Function:
		return decl.BaseType(x.Type)
	}
	return ""
}

func (d *Definition) String() string {
	vis := "public"
	if d.Private() {
		vis = "private"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) %s", d.Name, d.Kind, d.Scope.Location(d.Offset))
	if d.Module != "" {
		fmt.Fprintf(&b, " [%s]", d.Module)
	}
	b.WriteString(" " + vis)
	if t := d.TypeName(); t != "" {
		b.WriteString(" : " + t)
	}
	return b.String()
}

// merge folds other into d, reporting what does not agree. d is the
// definition with the higher priority.
func (d *Definition) merge(other *Definition, r diag.Reporter) {
	sev := diag.SevWarning
	code := diag.SymDetailsConflict
	if d.Kind == decl.KindMacro {
		sev, code = diag.SevInfo, diag.MacRedefinition
	}
	conflict := func(code diag.Code, msg string) {
		if !diag.Enabled(r, sev) {
			return
		}
		diag.NewReportBuilder(r, sev, code, d.Span(), msg).
			WithNote(other.Span(), "conflict here").
			Emit()
	}

	if d.Kind != other.Kind {
		conflict(diag.SymKindConflict, fmt.Sprintf("kind mismatch for '%s': %s != %s", d.Name, d.Kind, other.Kind))
	}
	if d.Module != other.Module {
		conflict(diag.SymModuleConflict, fmt.Sprintf("module mismatch for %s '%s': [%s] != [%s]", d.Kind, d.Name, d.Module, other.Module))
	}
	if other.Private() {
		d.Flags |= DefPrivate
	}
	if errs, ok := decl.Merge(d.Details, other.Details); !ok {
		conflict(code, fmt.Sprintf("details type mismatch for '%s': %s != %s", d.Name, d.Details.Kind(), other.Details.Kind()))
	} else {
		for _, e := range errs {
			conflict(code, e)
		}
	}
	d.PreComments = append(d.PreComments, other.PreComments...)
	d.PostComments = append(d.PostComments, other.PostComments...)
}

// upsert stores def under its name, merging with an existing entry. The
// entry kept is the one with the higher priority; it is returned.
func upsert(m map[string]*Definition, def *Definition, r diag.Reporter) *Definition {
	prev, ok := m[def.Name]
	if !ok {
		m[def.Name] = def
		return def
	}
	if prev.Priority() < def.Priority() {
		m[def.Name] = def
		def.merge(prev, r)
		return def
	}
	prev.merge(def, r)
	return prev
}

package access

import (
	"sort"

	"layercheck/internal/decl"
	"layercheck/internal/diag"
	"layercheck/internal/token"
)

// Use counts the references made by the functions of one file to a global
// function or variable of another module.
type Use struct {
	From  string `json:"from"` // module of the referring file
	File  string `json:"file"`
	Name  string `json:"name"`
	To    string `json:"to"` // module owning Name
	Count int    `json:"count"`
}

type useKey struct{ from, file, name, to string }

// Usage collects the cross-module references of every function body, public
// and private entities alike.
func (c *Checker) Usage() []Use {
	counts := make(map[useKey]int)
	for _, def := range c.cb.Functions() {
		f := newFunction(c.cb, def, diag.NopReporter{})
		if f == nil {
			continue
		}
		eachName(f.body(), func(t token.Token) {
			d := f.global(t.Text)
			if d == nil || d.Module == "" || d.Module == f.module() {
				return
			}
			if d.Kind != decl.KindFunction && d.Kind != decl.KindVariable {
				return
			}
			counts[useKey{f.module(), def.Path(), t.Text, d.Module}]++
		})
	}

	out := make([]Use, 0, len(counts))
	for k, n := range counts {
		out = append(out, Use{From: k.from, File: k.file, Name: k.name, To: k.to, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.File != b.File {
			return a.File < b.File
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Name < b.Name
	})
	return out
}

// UsedBy keeps the references to entities of module m: who uses m.
func UsedBy(uses []Use, m string) []Use {
	var out []Use
	for _, u := range uses {
		if u.To == m {
			out = append(out, u)
		}
	}
	return out
}

// UsesOf keeps the references made from module m: what m uses.
func UsesOf(uses []Use, m string) []Use {
	var out []Use
	for _, u := range uses {
		if u.From == m {
			out = append(out, u)
		}
	}
	return out
}

package access

import (
	"fmt"
	"strings"

	"layercheck/internal/decl"
	"layercheck/internal/diag"
	"layercheck/internal/lexer"
	"layercheck/internal/token"
)

// Chain is a member access expression: a base followed by one or more
// "->name" or ".name" steps, as in "s->conn->cache[i].evict".
type Chain struct {
	Base    token.List    // identifier with calls and subscripts, or a (...) group
	Members []token.Token // member names in order
	// groups are the (...) and [...] groups inside the chain, searched for
	// chains of their own.
	groups []token.Token
}

// Start is the offset of the first token of the chain.
func (c Chain) Start() int { return c.Base[0].Start }

// End is the offset right after the last member name.
func (c Chain) End() int { return c.Members[len(c.Members)-1].End }

func (c Chain) String() string {
	names := make([]string, len(c.Members))
	for i, m := range c.Members {
		names[i] = m.Text
	}
	return c.Base.Join("") + "->" + strings.Join(names, ".")
}

// notBase are words that look like a call but never start a chain.
var notBase = token.NewSet("sizeof", "_Alignof", "alignof", "offsetof", "defined")

// chainAt matches a chain starting at toks[i] and returns it with the index
// of the first token after it.
func chainAt(toks token.List, i int) (Chain, int, bool) {
	var ch Chain
	t := toks[i]
	j := i + 1
	switch {
	case t.IsIdent() && !token.IsStatementKeyword(t.Text) && !token.IsTypeKeyword(t.Text) && !notBase.Has(t.Text):
		for j < len(toks) && (toks[j].Kind == token.Paren || toks[j].Kind == token.Bracket) {
			ch.groups = append(ch.groups, toks[j])
			j++
		}
	case t.Kind == token.Paren:
		ch.groups = append(ch.groups, t)
	default:
		return ch, i, false
	}
	ch.Base = toks[i:j]

	for j+1 < len(toks) {
		op, name := toks[j], toks[j+1]
		if op.Kind != token.Operator || (op.Text != "->" && op.Text != ".") || !name.IsIdent() {
			break
		}
		ch.Members = append(ch.Members, name)
		j += 2
		if j < len(toks) && toks[j].Kind == token.Bracket {
			ch.groups = append(ch.groups, toks[j])
			j++
		}
	}
	if len(ch.Members) == 0 {
		return ch, i, false
	}
	return ch, j, true
}

// Chains finds the member access chains of toks, including those nested in
// calls, subscripts and parenthesized expressions.
func Chains(toks token.List) []Chain {
	var out []Chain
	walkChains(toks, func(c Chain) { out = append(out, c) })
	return out
}

func walkChains(toks token.List, fn func(Chain)) {
	inner := func(g token.Token) {
		walkChains(lexer.Tokenize(g.Inner(), g.InnerStart()).Code(), fn)
	}
	for i := 0; i < len(toks); {
		if isMemberName(toks, i) {
			i++
			continue
		}
		if ch, next, ok := chainAt(toks, i); ok {
			fn(ch)
			for _, g := range ch.groups {
				inner(g)
			}
			i = next
			continue
		}
		if toks[i].Kind.IsGroup() {
			inner(toks[i])
		}
		i++
	}
}

// chains checks every chain of the body.
func (f *function) chains(body token.List) {
	walkChains(body, f.checkChain)
}

func (f *function) checkChain(ch Chain) {
	diag.Debugf(f.rep, diag.SevDebug2, diag.AccTrace, f.span(ch.Start(), ch.End()), "access chain: %s", ch)
	typ := f.exprType(ch.Base)
	if typ == "" {
		f.warn(ch.Start(), ch.End(), diag.AccUnknownType,
			fmt.Sprintf("Can't deduce type of expression %s", ch))
		return
	}
	if d, ok := f.cb.TypesRestricted[typ]; ok {
		f.violation(d, diag.AccPrivateType, ch.Start(), ch.Base[len(ch.Base)-1].End, typ)
	}
	for i, m := range ch.Members {
		if i > 0 {
			// тип, до которого дошли через поле, тоже может быть чужим
			if d, ok := f.cb.TypesRestricted[typ]; ok {
				f.violation(d, diag.AccPrivateType, m.Start, m.End, typ)
			}
		}
		diag.Debugf(f.rep, diag.SevDebug3, diag.AccTrace, f.span(m.Start, m.End), "field access: %s->%s", typ, m.Text)
		if d, ok := f.cb.Fields[typ][m.Text]; ok {
			f.violation(d, diag.AccPrivateField, m.Start, m.End, typ+" :: "+m.Text)
		}
		next := f.cb.FieldType(typ, m.Text)
		if next == "" {
			f.warn(m.Start, m.End, diag.AccUnknownType,
				fmt.Sprintf("Can't deduce type of member '%s' in %s", m.Text, ch))
			return
		}
		typ = next
	}
}

// exprType deduces the record type an expression evaluates to, "" when it
// cannot. Only the shapes found at the base of a chain are understood: a
// name, a call or subscript of one, a cast, a parenthesized expression and
// a conditional, each optionally followed by member accesses.
func (f *function) exprType(toks token.List) string {
	for len(toks) > 0 && toks[0].Kind == token.Operator {
		toks = toks[1:]
	}
	if len(toks) == 0 {
		return ""
	}
	for i, t := range toks {
		if t.Text != "?" {
			continue
		}
		j := i + 1
		for j < len(toks) && toks[j].Text != ":" {
			j++
		}
		if typ := f.exprType(toks[i+1 : j]); typ != "" {
			return typ
		}
		if j < len(toks) {
			return f.exprType(toks[j+1:])
		}
		return ""
	}

	var typ string
	first := toks[0]
	switch {
	case first.Kind == token.Paren && isCast(toks):
		return f.cb.Untypedef(decl.BaseType(lexer.TokenizeFlat(first.Inner(), first.InnerStart()).Code()))
	case first.Kind == token.Paren:
		typ = f.exprType(lexer.Tokenize(first.Inner(), first.InnerStart()).Code())
	case first.IsIdent():
		typ = f.nameType(first.Text)
	default:
		return ""
	}

	for i := 1; typ != "" && i < len(toks); {
		if toks[i].Kind == token.Paren || toks[i].Kind == token.Bracket {
			i++
			continue
		}
		if (toks[i].Text != "." && toks[i].Text != "->") || i+1 >= len(toks) {
			break
		}
		typ = f.cb.FieldType(typ, toks[i+1].Text)
		i += 2
	}
	return typ
}

// isCast reports whether the leading (...) group is a type cast, that is
// followed by a word, a group, '&' or '*'.
func isCast(toks token.List) bool {
	if len(toks) < 2 {
		return false
	}
	switch next := toks[1]; next.Kind {
	case token.Word, token.Paren, token.Brace:
		return true
	case token.Operator:
		return next.Text == "&" || next.Text == "*"
	}
	return false
}

// nameType resolves a name through locals, file statics and globals and
// returns the record type it refers to.
func (f *function) nameType(name string) string {
	var base string
	if v, ok := f.locals[name]; ok {
		base = decl.BaseType(v.Type)
	} else if d := f.cb.Lookup(f.def.Path(), name); d != nil {
		base = d.BaseType()
	}
	if base == "" {
		return ""
	}
	return f.cb.Untypedef(base)
}

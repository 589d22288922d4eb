package project

import (
	"sort"
	"strings"
)

// Naming applies the identifier prefix convention: a public or private
// prefix optionally followed by the spelling of a module, as in
// __wt_block_read or __wti_evict_page.
type Naming struct {
	prefixes []prefix
	mods     *Registry
}

type prefix struct {
	text    string
	private bool
}

// NewNaming compiles the prefix lists of c.
func NewNaming(c Conventions, mods *Registry) *Naming {
	n := &Naming{mods: mods}
	for _, p := range c.PublicPrefixes {
		n.prefixes = append(n.prefixes, prefix{text: p})
	}
	for _, p := range c.PrivatePrefixes {
		n.prefixes = append(n.prefixes, prefix{text: p, private: true})
	}
	sort.SliceStable(n.prefixes, func(i, j int) bool {
		return len(n.prefixes[i].text) > len(n.prefixes[j].text)
	})
	return n
}

// Match reports whether name carries a known prefix. module is the module
// spelled right after the prefix, "" when none is recognised.
func (n *Naming) Match(name string) (private bool, module string, ok bool) {
	if n == nil {
		return false, "", false
	}
	for _, p := range n.prefixes {
		rest, found := strings.CutPrefix(name, p.text)
		if !found {
			continue
		}
		for _, spelling := range n.mods.sourceNames() {
			if strings.HasPrefix(rest, spelling) {
				return p.private, n.mods.SourceModule(spelling), true
			}
		}
		return p.private, "", true
	}
	return false, "", false
}

package lexer

import (
	"strings"
	"testing"

	"layercheck/internal/token"
)

func TestUnbalancedOpenersScannedOnce(t *testing.T) {
	const n = 5000
	lx := New(strings.Repeat("(", n)+"{x}", 0, Options{})
	var invalid, braces int
	for tok := range lx.All() {
		switch tok.Kind {
		case token.Invalid:
			invalid++
		case token.Brace:
			braces++
			if tok.Text != "{x}" {
				t.Errorf("brace = %q", tok.Text)
			}
		}
	}
	if invalid != n || braces != 1 {
		t.Fatalf("invalid=%d braces=%d", invalid, braces)
	}
	// каждая скобка просканирована ровно один раз
	if len(lx.groups) != n+1 {
		t.Errorf("scanned openers = %d, want %d", len(lx.groups), n+1)
	}
}

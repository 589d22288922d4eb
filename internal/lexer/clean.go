package lexer

import (
	"strings"

	"layercheck/internal/token"
)

// CleanComments replaces every comment byte except newlines with a space.
// The result has the same length and the same newline positions as text.
func CleanComments(text string) string {
	return clean(text, ModeFlat, false)
}

// CleanMacroComments is CleanComments for a #define body, where '#' does not
// start a preprocessor line.
func CleanMacroComments(text string) string {
	return clean(text, ModeFlatMacro, false)
}

// CleanCode blanks comments, preprocessor lines and the contents of string
// and character literals (the quotes stay). Length and newline positions are
// preserved, so offsets into the result are offsets into text.
func CleanCode(text string) string {
	return clean(text, ModeFlat, true)
}

func clean(text string, mode Mode, code bool) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, tok := range collect(New(text, 0, Options{Mode: mode})) {
		switch {
		case tok.Kind == token.Comment, code && tok.Kind == token.Preproc:
			blank(&b, tok.Text)
		case code && tok.Kind == token.String && len(tok.Text) >= 2:
			b.WriteByte(tok.Text[0])
			blank(&b, tok.Text[1:len(tok.Text)-1])
			b.WriteByte(tok.Text[len(tok.Text)-1])
		default:
			b.WriteString(tok.Text)
		}
	}
	return b.String()
}

func blank(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
}

// Compact drops comments and collapses every whitespace run into one space.
// Used for display only: offsets are not preserved.
func Compact(text string) string {
	var b strings.Builder
	pendingSpace := false
	for _, tok := range TokenizeFlat(text, 0) {
		if tok.Kind.IsTrivia() {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteString(tok.Text)
	}
	return b.String()
}

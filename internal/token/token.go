package token

import "strings"

// Token is one lexical unit. Start and End are absolute byte offsets in the
// text of the file being analysed; Text is exactly the bytes in that range.
type Token struct {
	Idx   int
	Kind  Kind
	Start int
	End   int
	Text  string
}

// Is reports whether the token text equals s.
func (t Token) Is(s string) bool { return t.Text == s }

// IsIdent reports whether the token is a word that is a valid C identifier.
func (t Token) IsIdent() bool {
	return t.Kind == Word && IsIdentifier(t.Text)
}

// Inner returns the text between the brackets of a group token.
func (t Token) Inner() string {
	if !t.Kind.IsGroup() || len(t.Text) < 2 {
		return ""
	}
	return t.Text[1 : len(t.Text)-1]
}

// InnerStart is the absolute offset of the first byte after the opening bracket.
func (t Token) InnerStart() int { return t.Start + 1 }

// IsIdentifier reports whether s is a C identifier.
func IsIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentContinue(s[i]) {
			return false
		}
	}
	return true
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// List is an ordered run of tokens.
type List []Token

// Code drops spaces and comments.
func (l List) Code() List {
	out := make(List, 0, len(l))
	for _, t := range l {
		if !t.Kind.IsTrivia() {
			out = append(out, t)
		}
	}
	return out
}

// CodeNoPreproc drops spaces, comments and preprocessor lines.
func (l List) CodeNoPreproc() List {
	out := make(List, 0, len(l))
	for _, t := range l {
		if !t.Kind.IsTrivia() && t.Kind != Preproc {
			out = append(out, t)
		}
	}
	return out
}

// String concatenates token texts.
func (l List) String() string {
	var b strings.Builder
	for _, t := range l {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Join joins token texts with sep; Join(" ") is the usual display of a type.
func (l List) Join(sep string) string {
	parts := make([]string, len(l))
	for i, t := range l {
		parts[i] = t.Text
	}
	return strings.Join(parts, sep)
}

// Index returns the position of the first token with the given text, or -1.
func (l List) Index(text string) int {
	for i, t := range l {
		if t.Text == text {
			return i
		}
	}
	return -1
}

// Contains reports whether any token has the given text.
func (l List) Contains(text string) bool { return l.Index(text) >= 0 }

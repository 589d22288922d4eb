package lexer

import (
	"iter"
	"unicode/utf8"

	"layercheck/internal/token"
)

// Lexer turns C text into a lossless token stream. Groups of balanced
// brackets come out as single tokens; their content is left for the caller to
// re-tokenize with the group's InnerStart as base.
type Lexer struct {
	cursor Cursor
	opts   Options
	idx    int
	groups map[int]int // opener offset -> offset after its closer, -1 if unbalanced
}

// New returns a lexer over text that starts at absolute offset base.
func New(text string, base int, opts Options) *Lexer {
	return &Lexer{
		cursor: NewCursor(text, base),
		opts:   opts,
	}
}

// Next returns the next token; ok is false at the end of the text.
func (lx *Lexer) Next() (tok token.Token, ok bool) {
	c := &lx.cursor
	if c.EOF() {
		return token.Token{}, false
	}
	m := c.Mark()
	kind := lx.scan()
	start, end := c.Range(m)
	tok = token.Token{
		Idx:   lx.idx,
		Kind:  kind,
		Start: start,
		End:   end,
		Text:  c.Text(m),
	}
	lx.idx++
	if kind == token.Invalid {
		lx.report("InvalidToken", start, end, "unexpected "+quoteByte(tok.Text))
	}
	return tok, true
}

// Reset rewinds the lexer to the beginning of its text.
func (lx *Lexer) Reset() {
	lx.cursor.Off = 0
	lx.idx = 0
}

// All iterates the remaining tokens.
func (lx *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok, ok := lx.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// Tokenize splits C text into tokens.
func Tokenize(text string, base int) token.List {
	return collect(New(text, base, Options{}))
}

// TokenizeMacro splits a macro body, where '#' and '##' are operators.
func TokenizeMacro(text string, base int) token.List {
	return collect(New(text, base, Options{Mode: ModeMacroBody}))
}

// TokenizeFlat splits text without forming bracket groups.
func TokenizeFlat(text string, base int) token.List {
	return collect(New(text, base, Options{Mode: ModeFlat}))
}

// TokenizeFlatMacro splits a macro body without forming groups.
func TokenizeFlatMacro(text string, base int) token.List {
	return collect(New(text, base, Options{Mode: ModeFlatMacro}))
}

func collect(lx *Lexer) token.List {
	out := make(token.List, 0, len(lx.cursor.Src)/4+1)
	for tok := range lx.All() {
		out = append(out, tok)
	}
	return out
}

func (lx *Lexer) scan() token.Kind {
	c := &lx.cursor
	ch := c.Peek()
	switch {
	case ch == '\n':
		c.Off++
		return token.Space
	case isBlank(ch):
		for isBlank(c.Peek()) {
			c.Off++
		}
		return token.Space
	case ch == '\\' && c.PeekAt(1) == '\n':
		c.Off += 2
		return token.Space
	case ch == '/' && (c.PeekAt(1) == '/' || c.PeekAt(1) == '*'):
		lx.skipComment()
		return token.Comment
	case ch == '"' || ch == '\'':
		if lx.skipQuoted() {
			return token.String
		}
		c.Off++
		return token.Invalid
	case !lx.opts.Mode.flat() && (ch == '(' || ch == '{' || ch == '['):
		if lx.skipGroup() {
			return groupKind(ch)
		}
		c.Off++
		return token.Invalid
	case ch == '#' && !lx.opts.Mode.macro():
		lx.skipPreproc()
		return token.Preproc
	case ch == ',' || ch == ';':
		c.Off++
		return token.Terminator
	case isWordByte(ch):
		for isWordByte(c.Peek()) {
			c.Off++
		}
		return token.Word
	case lx.scanOperator():
		return token.Operator
	}
	_, sz := utf8.DecodeRuneInString(c.Src[c.Off:])
	c.Off += sz
	return token.Invalid
}

func groupKind(open byte) token.Kind {
	switch open {
	case '(':
		return token.Paren
	case '{':
		return token.Brace
	}
	return token.Bracket
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\f' || b == '\v'
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

func quoteByte(s string) string {
	if s == "" {
		return "end of text"
	}
	return "'" + s + "'"
}

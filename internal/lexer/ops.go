package lexer

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
var (
	ops3 = []string{"...", "<<=", ">>="}
	ops2 = []string{
		"->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	}
	ops1 = "+-*/%=<>!&|^~?:."
)

// scanOperator consumes the longest operator at the cursor, or nothing.
func (lx *Lexer) scanOperator() bool {
	c := &lx.cursor
	for _, op := range ops3 {
		if c.HasPrefix(op) {
			c.Off += len(op)
			return true
		}
	}
	if lx.opts.Mode.macro() && c.HasPrefix("##") {
		c.Off += 2
		return true
	}
	for _, op := range ops2 {
		if c.HasPrefix(op) {
			c.Off += len(op)
			return true
		}
	}
	ch := c.Peek()
	for i := 0; i < len(ops1); i++ {
		if ops1[i] == ch {
			c.Off++
			return true
		}
	}
	if lx.opts.Mode.macro() && ch == '#' {
		c.Off++
		return true
	}
	if lx.opts.Mode.flat() && isBracket(ch) {
		c.Off++
		return true
	}
	return false
}

func isBracket(b byte) bool {
	switch b {
	case '(', ')', '{', '}', '[', ']':
		return true
	}
	return false
}

func closerOf(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '{':
		return '}'
	case '[':
		return ']'
	}
	return 0
}

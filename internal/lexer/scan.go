package lexer

// skipComment consumes a // comment up to (not including) the newline, or a
// block comment up to and including "*/".
func (lx *Lexer) skipComment() {
	c := &lx.cursor
	start := c.Mark()
	if c.PeekAt(1) == '/' {
		for !c.EOF() && c.Peek() != '\n' {
			c.Off++
		}
		return
	}
	c.Off += 2
	for !c.EOF() {
		if c.HasPrefix("*/") {
			c.Off += 2
			return
		}
		c.Off++
	}
	s, e := c.Range(start)
	lx.report("UnterminatedComment", s, e, "unterminated block comment")
}

// skipQuoted consumes a string or character literal. An unterminated literal
// (newline or end of text before the closing quote) consumes nothing.
func (lx *Lexer) skipQuoted() bool {
	c := &lx.cursor
	m := c.Mark()
	q := c.Bump()
	for !c.EOF() {
		switch ch := c.Bump(); ch {
		case '\\':
			c.Bump()
		case q:
			return true
		case '\n':
			c.Reset(m)
			return false
		}
	}
	c.Reset(m)
	return false
}

// skipPreproc consumes a preprocessor line through its unescaped newline.
// Block comments inside the line may span several physical lines.
func (lx *Lexer) skipPreproc() {
	c := &lx.cursor
	for !c.EOF() {
		switch {
		case c.HasPrefix("\\\n"):
			c.Off += 2
		case c.HasPrefix("/*"):
			lx.skipComment()
		case c.Peek() == '\n':
			c.Off++
			return
		default:
			c.Off++
		}
	}
}

// skipGroup consumes a balanced bracket group starting at the cursor. On
// failure the cursor is left where it was. The outcome for each opening
// bracket is remembered, so unbalanced text is not rescanned from every
// opener to the end.
func (lx *Lexer) skipGroup() bool {
	c := &lx.cursor
	m := c.Mark()
	if end, seen := lx.groups[int(m)]; seen {
		if end < 0 {
			return false
		}
		c.Off = end
		return true
	}
	if lx.groups == nil {
		lx.groups = make(map[int]int)
	}
	open := c.Bump()
	if !lx.skipGroupBody(closerOf(open)) {
		lx.groups[int(m)] = -1
		c.Reset(m)
		return false
	}
	lx.groups[int(m)] = c.Off
	return true
}

// skipGroupBody scans up to the matching closer, descending into nested
// groups and skipping comments, literals and preprocessor lines. A closer of
// the wrong kind is treated as ordinary content.
func (lx *Lexer) skipGroupBody(closer byte) bool {
	c := &lx.cursor
	for !c.EOF() {
		ch := c.Peek()
		switch {
		case ch == closer:
			c.Off++
			return true
		case ch == '(' || ch == '{' || ch == '[':
			if !lx.skipGroup() {
				return false
			}
		case ch == '/' && (c.PeekAt(1) == '/' || c.PeekAt(1) == '*'):
			lx.skipComment()
		case ch == '"' || ch == '\'':
			if !lx.skipQuoted() {
				c.Off++
			}
		case ch == '#' && lx.opts.Mode == ModeCode:
			lx.skipPreproc()
		case ch == '\\' && c.PeekAt(1) == '\n':
			c.Off += 2
		default:
			c.Off++
		}
	}
	return false
}

package lexer

// Cursor представляет собой позицию в тексте. Off is relative to Src; Base is
// the absolute offset of Src[0] in the analysed file.
type Cursor struct {
	Src  string
	Off  int
	Base int
}

// NewCursor creates a cursor over text that starts at absolute offset base.
func NewCursor(text string, base int) Cursor {
	return Cursor{Src: text, Base: base}
}

// EOF проверяет, достигнут ли конец текста
func (c *Cursor) EOF() bool {
	return c.Off >= len(c.Src)
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Src[c.Off]
}

// PeekAt читает байт со смещением n от текущей позиции
func (c *Cursor) PeekAt(n int) byte {
	if c.Off+n >= len(c.Src) {
		return 0
	}
	return c.Src[c.Off+n]
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Src[c.Off]
	c.Off++
	return b
}

// Mark это метка, что бы быстро получать диапазон читаемого фрагмента
type Mark int

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = int(m)
}

// Range returns the absolute [start, end) of the fragment read since m.
func (c *Cursor) Range(m Mark) (start, end int) {
	return c.Base + int(m), c.Base + c.Off
}

// Text returns the fragment read since m.
func (c *Cursor) Text(m Mark) string {
	return c.Src[int(m):c.Off]
}

// HasPrefix reports whether the unread text starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return len(c.Src)-c.Off >= len(s) && c.Src[c.Off:c.Off+len(s)] == s
}

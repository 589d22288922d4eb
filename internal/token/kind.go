package token

// Kind represents the category of a C token.
type Kind uint8

const (
	// Invalid is a byte sequence no rule accepts (stray closer, unterminated quote).
	Invalid Kind = iota
	// Space is a run of blanks, a single newline or an escaped newline.
	Space
	// Comment is a // or /* */ comment.
	Comment
	// Preproc is a whole preprocessor line, including its terminating newline.
	Preproc
	// Word is a maximal run of identifier characters (identifiers, keywords, numbers).
	Word
	// Operator is a punctuator other than brackets and terminators.
	Operator
	// String is a string or character literal.
	String
	// Paren is a balanced (...) group.
	Paren
	// Brace is a balanced {...} group.
	Brace
	// Bracket is a balanced [...] group.
	Bracket
	// Terminator is ';' or ','.
	Terminator
)

var kindNames = [...]string{
	Invalid:    "invalid",
	Space:      "space",
	Comment:    "comment",
	Preproc:    "preproc",
	Word:       "word",
	Operator:   "operator",
	String:     "string",
	Paren:      "paren",
	Brace:      "brace",
	Bracket:    "bracket",
	Terminator: "terminator",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsGroup reports whether the kind is a balanced bracket group.
func (k Kind) IsGroup() bool {
	return k == Paren || k == Brace || k == Bracket
}

// IsTrivia reports whether tokens of this kind carry no code.
func (k Kind) IsTrivia() bool {
	return k == Space || k == Comment
}

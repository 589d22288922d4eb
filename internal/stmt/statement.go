package stmt

import (
	"layercheck/internal/lexer"
	"layercheck/internal/token"
)

// Statement is a run of tokens ending with a terminator, a body or a
// preprocessor line. Trailing blanks and comments up to the end of the line
// belong to the statement they follow.
type Statement struct {
	Tokens token.List

	ignore token.Set
	kind   *Kind
}

// Kind returns the statement classification, computing it on first use.
func (s *Statement) Kind() *Kind {
	if s.kind == nil {
		s.kind = Classify(s.Tokens, s.ignore)
	}
	return s.kind
}

// Range is the absolute [start, end) of the statement text.
func (s *Statement) Range() (start, end int) {
	if len(s.Tokens) == 0 {
		return 0, 0
	}
	return s.Tokens[0].Start, s.Tokens[len(s.Tokens)-1].End
}

func (s *Statement) String() string { return s.Tokens.String() }

// Code returns the statement tokens without spaces and comments.
func (s *Statement) Code() token.List { return s.Tokens.Code() }

// FromText tokenizes text starting at absolute offset base and splits it.
func FromText(text string, base int, ignore token.Set) []*Statement {
	return Split(lexer.Tokenize(text, base), ignore)
}

const (
	specialNone = iota
	specialIf       // may continue with "else" after the body
	specialStrict   // ends only at ';'
)

type splitter struct {
	toks   token.List
	ignore token.Set
	out    []*Statement

	cur         token.List
	complete    bool
	special     int
	curly       bool
	commentOnly int8 // -1 unknown, 1 comments only so far, 0 has code
	isRecord    bool
	isExpr      bool
	lastCode    token.Kind

	elseIdx int
}

// Split groups a token stream into statements.
func Split(toks token.List, ignore token.Set) []*Statement {
	sp := &splitter{toks: toks, ignore: ignore, elseIdx: -1}
	sp.reset()
	for i := range toks {
		sp.step(i)
	}
	if len(sp.cur) > 0 {
		sp.push()
	}
	return sp.out
}

func (sp *splitter) reset() {
	sp.cur = nil
	sp.complete = false
	sp.special = specialNone
	sp.curly = false
	sp.commentOnly = -1
	sp.isRecord = false
	sp.isExpr = false
	sp.lastCode = token.Invalid
}

func (sp *splitter) push() {
	sp.out = append(sp.out, &Statement{Tokens: sp.cur, ignore: sp.ignore})
	sp.reset()
}

func (sp *splitter) step(i int) {
	tok := sp.toks[i]
	kind := tok.Kind

	if kind == token.Invalid {
		if len(sp.cur) > 0 {
			sp.push()
		}
		sp.out = append(sp.out, &Statement{Tokens: token.List{tok}, ignore: sp.ignore})
		return
	}

	if (sp.complete && !kind.IsTrivia()) || (sp.commentOnly == 1 && kind == token.Comment) {
		sp.push()
	}

	switch {
	case sp.commentOnly == -1 && kind == token.Comment:
		sp.commentOnly = 1
	case sp.commentOnly != 0 && !kind.IsTrivia():
		sp.commentOnly = 0
	}
	if !sp.isExpr && kind == token.Operator && tok.Text != "*" {
		sp.isExpr = true
	}

	if sp.special == specialNone {
		switch {
		case tok.Text == "if":
			sp.special = specialIf
		case tok.Text == "struct" || tok.Text == "union" || tok.Text == "enum" || tok.Text == "typedef":
			sp.special = specialStrict
			sp.isRecord = true
		case sp.isExpr || tok.Text == "do":
			sp.special = specialStrict
		}
	}

	sp.cur = append(sp.cur, tok)
	prevCode := sp.lastCode
	if !kind.IsTrivia() {
		sp.lastCode = kind
	}

	if (sp.complete && tok.Text == "\n") || kind == token.Preproc {
		sp.push()
		return
	}

	switch {
	case kind == token.Brace:
		sp.curly = true
		// "struct s *f(void) { ... }" is a function body, not a record body.
		if sp.special == specialStrict && sp.isRecord && !sp.isExpr && prevCode == token.Paren {
			sp.special = specialNone
		}
	case kind == token.Terminator:
		if sp.special == specialStrict && sp.isRecord && !sp.curly {
			sp.isRecord = false
			sp.special = specialNone
		}
	default:
		return
	}

	switch sp.special {
	case specialIf:
		if sp.findElse(i) {
			return
		}
	case specialStrict:
		if tok.Text != ";" {
			return
		}
	}
	sp.complete = true
}

// findElse reports whether the next code token after i is "else".
func (sp *splitter) findElse(i int) bool {
	if sp.elseIdx > i {
		return sp.toks[sp.elseIdx].Text == "else"
	}
	for j := i + 1; j < len(sp.toks); j++ {
		t := sp.toks[j]
		if t.Text == "else" {
			sp.elseIdx = j
			return true
		}
		if t.Text == ";" || (!t.Kind.IsTrivia() && t.Kind != token.Preproc) {
			sp.elseIdx = j
			return false
		}
	}
	return false
}

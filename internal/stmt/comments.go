package stmt

import "layercheck/internal/token"

// PreComment returns the last comment before the first code token, and the
// index of that code token (len(toks) if there is none).
func PreComment(toks token.List) (*token.Token, int) {
	var c *token.Token
	for i := range toks {
		switch toks[i].Kind {
		case token.Space:
		case token.Comment:
			c = &toks[i]
		default:
			return c, i
		}
	}
	return c, len(toks)
}

// PostComment returns the first comment after the last code token.
func PostComment(toks token.List) *token.Token {
	var c *token.Token
	for i := len(toks) - 1; i >= 0; i-- {
		switch toks[i].Kind {
		case token.Space:
		case token.Comment:
			c = &toks[i]
		default:
			return c
		}
	}
	return nil
}

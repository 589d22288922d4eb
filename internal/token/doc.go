// Package token defines the lexical units the C scanner produces.
//
// Tokens never lose bytes: spaces, comments and whole preprocessor lines are
// tokens too, so concatenating the texts of a token stream reproduces its
// input. Bracketed spans are single tokens (Paren, Brace, Bracket) whose inner
// text is re-tokenized on demand by whoever needs to look inside.
package token

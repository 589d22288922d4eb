// Package stmt groups tokens into C statements and classifies them.
//
// The splitter works on the flat token stream produced by the lexer: bodies
// of functions and records are single Brace tokens, so one pass over the top
// level of a text yields its top-level statements. Callers re-split the inner
// text of a body to descend.
package stmt

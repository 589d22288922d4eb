// Package macro expands C preprocessor macros in source text.
//
// The expander follows the preprocessor closely enough for analysis: object-like
// names are replaced and rescanned, function-like calls have their arguments
// pre-expanded, '#' and '##' are applied to the raw arguments, and a name that
// is already being expanded is left alone. Conditionals and #include are not
// evaluated.
//
// Every top-level expansion that changes the length of the text is recorded as
// a source.Edit, so that source.File.ApplyEdits can map offsets in the expanded
// text back to lines of the original file.
package macro

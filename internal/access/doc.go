// Package access checks function bodies for uses of entities that are
// private to another module: names of functions and globals, record types
// reached through member access chains, and fields of those records.
//
// Expression types are deduced without a compiler front end. A base name is
// looked up among the function's locals, then the statics of its file, then
// the globals; typedefs are followed to the record they name. Whatever cannot
// be typed is reported as a warning and skipped.
package access

// Package symbols holds the whole-program symbol table of a C tree: records
// and their fields, functions, global and file-static variables, typedefs
// and macros. Every entry carries its owning module and whether it is
// private to that module.
//
// Repeated declarations of a name (a prototype in a header, the definition
// in a .c file) merge into one Definition; the most specific occurrence wins
// and disagreements are reported as warnings.
package symbols

package token

// StatementKeywords start C statements that are never declarations.
var StatementKeywords = map[string]struct{}{
	"if": {}, "else": {}, "for": {}, "while": {}, "do": {}, "switch": {},
	"case": {}, "default": {}, "return": {}, "goto": {}, "break": {}, "continue": {},
}

// TypeKeywords can only start a declaration.
var TypeKeywords = map[string]struct{}{
	"signed": {}, "unsigned": {}, "short": {}, "long": {}, "volatile": {},
	"register": {}, "extern": {}, "auto": {}, "restrict": {}, "_Atomic": {},
	"struct": {}, "union": {}, "enum": {}, "typedef": {},
}

// BuiltinTypes are type names that need no declaration.
var BuiltinTypes = map[string]struct{}{
	"void": {}, "char": {}, "int": {}, "float": {}, "double": {}, "_Bool": {}, "bool": {},
	"size_t": {}, "ssize_t": {}, "ptrdiff_t": {}, "intptr_t": {}, "uintptr_t": {},
	"int8_t": {}, "int16_t": {}, "int32_t": {}, "int64_t": {},
	"uint8_t": {}, "uint16_t": {}, "uint32_t": {}, "uint64_t": {},
	"off_t": {}, "time_t": {}, "va_list": {},
}

// Qualifiers are dropped from a declarator's type.
var Qualifiers = map[string]struct{}{
	"const": {}, "static": {}, "extern": {}, "volatile": {}, "register": {},
	"inline": {}, "restrict": {}, "auto": {}, "__restrict": {}, "_Atomic": {},
}

// RecordKeywords introduce records.
var RecordKeywords = map[string]struct{}{
	"struct": {}, "union": {}, "enum": {},
}

// IsStatementKeyword reports whether s starts a non-declaration statement.
func IsStatementKeyword(s string) bool { _, ok := StatementKeywords[s]; return ok }

// IsTypeKeyword reports whether s is a type keyword or builtin type name.
func IsTypeKeyword(s string) bool {
	if _, ok := TypeKeywords[s]; ok {
		return true
	}
	_, ok := BuiltinTypes[s]
	return ok
}

// IsQualifier reports whether s is a storage class or type qualifier.
func IsQualifier(s string) bool { _, ok := Qualifiers[s]; return ok }

// IsRecordKeyword reports whether s is struct, union or enum.
func IsRecordKeyword(s string) bool { _, ok := RecordKeywords[s]; return ok }

// Set is a set of words, e.g. the vendor keywords to ignore in declarations.
type Set map[string]struct{}

// NewSet builds a Set from words.
func NewSet(words ...string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Has reports membership; a nil Set is empty.
func (s Set) Has(w string) bool { _, ok := s[w]; return ok }

// DefaultIgnore are attribute and inline markers that carry no type
// information. A following parenthesized argument list is skipped with them.
var DefaultIgnore = NewSet(
	"WT_INLINE", "inline", "__inline", "__inline__",
	"WT_GCC_FUNC_ATTRIBUTE", "WT_GCC_FUNC_DECL_ATTRIBUTE",
	"WT_ATTRIBUTE_LIBRARY_VISIBLE", "__attribute__", "__declspec",
	"WT_STAT_COMPR_RATIO_READ_HIST_INCR_FUNC", "WT_STAT_USECS_HIST_INCR_FUNC",
	"WT_STAT_MSECS_HIST_INCR_FUNC", "WT_STAT_COMPR_RATIO_WRITE_HIST_INCR_FUNC",
)

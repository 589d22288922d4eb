package decl

import "layercheck/internal/token"

// EntityKind tags the Details variants.
type EntityKind uint8

const (
	KindUnknown EntityKind = iota
	KindFunction
	KindRecord
	KindVariable
	KindMacro
	KindField
)

func (k EntityKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindRecord:
		return "record"
	case KindVariable:
		return "variable"
	case KindMacro:
		return "macro"
	case KindField:
		return "field"
	default:
		return "unknown"
	}
}

// Details is the structured view of one declaration. It is implemented by
// *Function, *Record, *Variable and *Macro only.
type Details interface {
	Kind() EntityKind
	NameToken() token.Token
	Comments() (pre, post *token.Token)
	// HasBody reports whether this occurrence is a definition rather than a
	// forward declaration.
	HasBody() bool
	details()
}

// Merge folds other into d when both have the same variant and returns the
// conflicts found. ok is false when the variants differ.
func Merge(d, other Details) (conflicts []string, ok bool) {
	switch a := d.(type) {
	case *Function:
		if b, same := other.(*Function); same {
			return a.Update(b), true
		}
	case *Record:
		if b, same := other.(*Record); same {
			return a.Update(b), true
		}
	case *Variable:
		if b, same := other.(*Variable); same {
			return a.Update(b), true
		}
	case *Macro:
		if b, same := other.(*Macro); same {
			return a.Update(b), true
		}
	}
	return nil, false
}

// BaseType returns the name a type refers to: the last word that is not a
// record keyword. "struct __wt_foo" gives "__wt_foo".
func BaseType(typ token.List) string {
	for i := len(typ) - 1; i >= 0; i-- {
		if typ[i].Kind == token.Word && !token.IsRecordKeyword(typ[i].Text) {
			return typ[i].Text
		}
	}
	return ""
}

package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo                Code = 1000
	LexInvalidToken        Code = 1001
	LexUnterminatedComment Code = 1002

	// Statements and declarations
	StmInfo           Code = 2000
	StmMissingType    Code = 2001
	StmBadDeclaration Code = 2002
	StmUnsupported    Code = 2003

	// Macros
	MacInfo         Code = 3000
	MacTooFewArgs   Code = 3001
	MacRedefinition Code = 3002
	MacMalformed    Code = 3003
	MacExpansion    Code = 3004

	// Symbol table
	SymInfo                     Code = 4000
	SymKindConflict             Code = 4001
	SymModuleConflict           Code = 4002
	SymDetailsConflict          Code = 4003
	SymNameModuleMismatch       Code = 4004
	SymAnnotationModuleMismatch Code = 4005
	SymForeignStatic            Code = 4006
	SymUnknownModule            Code = 4007
	SymTrace                    Code = 4008

	// Access checks
	AccInfo         Code = 5000
	AccPrivateName  Code = 5001
	AccPrivateType  Code = 5002
	AccPrivateField Code = 5003
	AccUnknownType  Code = 5004
	AccMissingLocal Code = 5005
	AccTrace        Code = 5006

	// I/O
	IOInfo          Code = 6000
	IOLoadFileError Code = 6001
	IOCacheError    Code = 6002

	// Project
	ProjInfo         Code = 7000
	ProjConfig       Code = 7001
	ProjNoFiles      Code = 7002
	ProjFileNoModule Code = 7003

	// Observability
	ObsInfo    Code = 8000
	ObsTimings Code = 8001
	ObsCache   Code = 8002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexInvalidToken:             "Invalid token",
		LexUnterminatedComment:      "Unterminated block comment",
		StmInfo:                     "Statement information",
		StmMissingType:              "Declarator without a type",
		StmBadDeclaration:           "Declaration could not be parsed",
		StmUnsupported:              "Unsupported construct",
		MacInfo:                     "Macro information",
		MacTooFewArgs:               "Macro invoked with too few arguments",
		MacRedefinition:             "Macro redefinition",
		MacMalformed:                "Malformed macro body",
		MacExpansion:                "Macro expansion trace",
		SymInfo:                     "Symbol table information",
		SymKindConflict:             "Conflicting kind on redefinition",
		SymModuleConflict:           "Conflicting module on redefinition",
		SymDetailsConflict:          "Conflicting details on redefinition",
		SymNameModuleMismatch:       "Identifier implies a different module than its file",
		SymAnnotationModuleMismatch: "Annotation assigns a different module than its file",
		SymForeignStatic:            "Private static symbol of a foreign module",
		SymUnknownModule:            "Annotation names an unknown module",
		SymTrace:                    "Symbol table trace",
		AccInfo:                     "Access check information",
		AccPrivateName:              "Access to a private name of another module",
		AccPrivateType:              "Access to a private type of another module",
		AccPrivateField:             "Access to a private field of another module",
		AccUnknownType:              "Cannot deduce expression type",
		AccMissingLocal:             "Local variable without a type",
		AccTrace:                    "Access check trace",
		IOInfo:                      "I/O information",
		IOLoadFileError:             "I/O load file error",
		IOCacheError:                "Cache read/write error",
		ProjInfo:                    "Project information",
		ProjConfig:                  "Configuration problem",
		ProjNoFiles:                 "No source files found",
		ProjFileNoModule:            "File belongs to no module",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
		ObsCache:                    "Cache statistics",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("STM%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("MAC%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("SYM%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("ACC%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

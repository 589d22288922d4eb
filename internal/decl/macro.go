package decl

import (
	"regexp"
	"strings"

	"layercheck/internal/lexer"
	"layercheck/internal/stmt"
	"layercheck/internal/token"
)

// VarArgs is the parameter name a variadic "..." is bound to.
const VarArgs = "__VA_ARGS__"

// Macro is one #define.
type Macro struct {
	Name token.Token
	// Args is nil for an object-like macro and non-nil (maybe empty) for a
	// function-like one.
	Args      []string
	IsVarArgs bool
	// Body is the replacement text with comments removed and escaped
	// newlines turned into blanks; BodyStart is its absolute offset.
	Body      string
	BodyStart int

	IsConst      bool // empty, or a single number or string literal
	IsWellFormed bool // the body tokenizes without invalid tokens

	PreComment *token.Token
}

func (m *Macro) Kind() EntityKind { return KindMacro }
func (m *Macro) NameToken() token.Token { return m.Name }
func (m *Macro) Comments() (pre, post *token.Token) { return m.PreComment, nil }
func (m *Macro) HasBody() bool { return m.Body != "" }
func (m *Macro) details() {}

// IsFunctionLike reports whether the macro takes arguments.
func (m *Macro) IsFunctionLike() bool { return m.Args != nil }

// Update merges a redefinition. The first body wins.
func (m *Macro) Update(other *Macro) []string {
	var errs []string
	if m.IsFunctionLike() != other.IsFunctionLike() || strings.Join(m.Args, ",") != strings.Join(other.Args, ",") ||
		normSpace(m.Body) != normSpace(other.Body) {
		errs = append(errs, "macro redefinition: '"+m.Name.Text+"'")
	}
	if m.PreComment == nil {
		m.PreComment = other.PreComment
	}
	return errs
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }

var reDefine = regexp.MustCompile(`^#[ \t]*define[ \t]+(\w+)(\(([^)]*)\))?`)

// Macro extracts a #define from a preprocessor statement. Other directives
// give nil.
func (x Extractor) Macro(st *stmt.Statement) *Macro {
	var line *token.Token
	for i := range st.Tokens {
		if st.Tokens[i].Kind == token.Preproc {
			line = &st.Tokens[i]
		}
	}
	if line == nil {
		return nil
	}
	// Same length as the original, so offsets stay valid.
	text := strings.ReplaceAll(line.Text, "\\\n", "  ")
	loc := reDefine.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil
	}
	m := &Macro{
		Name: token.Token{
			Idx:   line.Idx,
			Kind:  token.Word,
			Start: line.Start + loc[2],
			End:   line.Start + loc[3],
			Text:  text[loc[2]:loc[3]],
		},
	}
	m.PreComment, _ = stmt.PreComment(st.Tokens)
	if loc[4] >= 0 {
		m.Args = parseMacroArgs(text[loc[6]:loc[7]], &m.IsVarArgs)
	}

	raw := lexer.CleanMacroComments(text[loc[1]:])
	body := strings.TrimLeft(raw, " \t\r\f\v")
	m.BodyStart = line.Start + loc[1] + len(raw) - len(body)
	m.Body = strings.TrimRight(body, " \t\r\n\f\v")

	m.IsWellFormed, m.IsConst = classifyBody(m.Body)
	return m
}

func parseMacroArgs(list string, varArgs *bool) []string {
	args := []string{}
	if strings.TrimSpace(list) == "" {
		return args
	}
	for _, a := range strings.Split(list, ",") {
		a = strings.TrimSpace(a)
		switch {
		case a == "...":
			a = VarArgs
			*varArgs = true
		case strings.HasSuffix(a, "..."):
			a = strings.TrimSpace(strings.TrimSuffix(a, "..."))
			*varArgs = true
		}
		args = append(args, a)
	}
	return args
}

// classifyBody reports whether the body tokenizes cleanly and, if so,
// whether it is a constant.
func classifyBody(body string) (wellFormed, isConst bool) {
	toks := lexer.TokenizeMacro(body, 0)
	for _, t := range toks {
		if t.Kind == token.Invalid {
			return false, false
		}
	}
	code := toks.Code()
	switch len(code) {
	case 0:
		return true, true
	case 1:
		t := code[0]
		isNumber := t.Kind == token.Word && t.Text[0] >= '0' && t.Text[0] <= '9'
		return true, isNumber || t.Kind == token.String
	}
	return true, false
}

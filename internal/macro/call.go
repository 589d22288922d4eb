package macro

import (
	"strings"

	"layercheck/internal/lexer"
	"layercheck/internal/token"
)

type callArg struct {
	text  string // trimmed raw text
	start int    // absolute offset of text
}

type callSite struct {
	args  []callArg
	close int // index of the closing ')'
	end   int // absolute offset after ')'
}

// parseCall reads the argument list following the macro name at toks[i].
// Extra arguments of a fixed-arity macro are dropped; the last parameter of
// a variadic macro takes the rest, commas included.
func parseCall(toks token.List, i, nargs int, variadic bool) (callSite, bool) {
	j := i + 1
	for j < len(toks) && toks[j].Kind.IsTrivia() {
		j++
	}
	if j >= len(toks) || toks[j].Text != "(" {
		return callSite{}, false
	}

	var (
		site  callSite
		depth int
		from  = j + 1
		skip  bool
	)
	flush := func(to int) {
		if !skip {
			site.args = append(site.args, argOf(toks[from:to]))
		}
	}
	for k := j + 1; k < len(toks); k++ {
		switch toks[k].Text {
		case "(", "[", "{":
			depth++
		case "]", "}":
			depth--
		case ")":
			if depth > 0 {
				depth--
				continue
			}
			flush(k)
			site.close = k
			site.end = toks[k].End
			return site, true
		case ",":
			if depth > 0 || skip {
				continue
			}
			if len(site.args)+1 < nargs {
				flush(k)
				from = k + 1
			} else if !variadic {
				flush(k)
				skip = true
			}
		}
	}
	return callSite{}, false
}

func argOf(toks token.List) callArg {
	for len(toks) > 0 && toks[0].Kind.IsTrivia() {
		toks = toks[1:]
	}
	if len(toks) == 0 {
		return callArg{}
	}
	return callArg{text: strings.TrimRight(toks.String(), " \t\r\n\f\v"), start: toks[0].Start}
}

var stringizer = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\t", `\t`, `"`, `\"`)

func stringize(s string) string {
	return `"` + stringizer.Replace(s) + `"`
}

// substitute puts the arguments into a function-like macro body: #p becomes
// the quoted raw argument, operands of ## are pasted raw, and any other
// parameter is replaced by its pre-expanded value.
func substitute(body string, raw, expanded map[string]string) string {
	toks := lexer.TokenizeFlatMacro(body, 0)
	next := func(i int) int {
		for i < len(toks) && toks[i].Kind.IsTrivia() {
			i++
		}
		return i
	}
	operand := func(t token.Token) string {
		if v, ok := raw[t.Text]; ok && t.Kind == token.Word {
			return v
		}
		return t.Text
	}

	var b strings.Builder
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.Kind == token.Operator && t.Text == "#":
			j := next(i + 1)
			if j < len(toks) && toks[j].Kind == token.Word {
				if v, ok := raw[toks[j].Text]; ok {
					b.WriteString(stringize(v))
					i = j
					continue
				}
			}
			// не параметр: '#' и следующее слово остаются как есть
			b.WriteString(t.Text)

		case t.Kind == token.Word:
			j := next(i + 1)
			if j >= len(toks) || toks[j].Text != "##" {
				if v, ok := expanded[t.Text]; ok {
					b.WriteString(v)
				} else {
					b.WriteString(t.Text)
				}
				continue
			}
			b.WriteString(operand(t))
			for j < len(toks) && toks[j].Text == "##" {
				k := next(j + 1)
				if k >= len(toks) {
					i = len(toks)
					break
				}
				b.WriteString(operand(toks[k]))
				i = k
				j = next(k + 1)
			}

		default:
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

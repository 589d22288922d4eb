package lexer

// Reporter: тонкий интерфейс, чтобы не тянуть diag сюда.
// Лексер **только вызывает** его с параметрами; форматирует diag внешний слой.
type Reporter interface {
	Report(kind string, start, end int, msg string)
}

// Mode selects the grammar variant.
type Mode uint8

const (
	// ModeCode is ordinary C text: brackets form groups, '#' starts a preprocessor line.
	ModeCode Mode = iota
	// ModeMacroBody is the text of a #define body: '#' and '##' are operators.
	ModeMacroBody
	// ModeFlat never forms groups; brackets are single-byte operators. It lets
	// callers walk every byte of a text, including the inside of brackets.
	ModeFlat
	// ModeFlatMacro is ModeFlat for macro bodies: '#' and '##' are operators.
	ModeFlatMacro
)

func (m Mode) flat() bool { return m == ModeFlat || m == ModeFlatMacro }

func (m Mode) macro() bool { return m == ModeMacroBody || m == ModeFlatMacro }

type Options struct {
	Mode     Mode
	Reporter Reporter // может быть nil, тогда ошибки игнорируем и продолжаем лексить
}

func (lx *Lexer) report(kind string, start, end int, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(kind, start, end, msg)
	}
}

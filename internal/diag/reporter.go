package diag

import (
	"fmt"

	"layercheck/internal/source"
)

// Reporter принимает диагностики от сканера, раскрытия макросов и проверки
// доступа. Реализации: BagReporter и NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// Leveled is implemented by reporters that drop diagnostics below a level.
type Leveled interface {
	Level() Severity
}

// Enabled reports whether r keeps diagnostics of severity sev.
func Enabled(r Reporter, sev Severity) bool {
	if r == nil {
		return false
	}
	l, ok := r.(Leveled)
	return !ok || sev >= l.Level()
}

// Debugf reports a formatted message; arguments are not formatted when the
// level is off.
func Debugf(r Reporter, sev Severity, code Code, span source.Span, format string, args ...any) {
	if Enabled(r, sev) {
		r.Report(code, sev, span, fmt.Sprintf(format, args...), nil)
	}
}

// Pending is a diagnostic waiting for its notes. Emit hands it to the
// reporter once; later calls do nothing.
type Pending struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

// NewReportBuilder starts a diagnostic for r.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *Pending {
	return &Pending{to: r, d: New(sev, code, primary, msg)}
}

// ReportError starts an error.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

// ReportWarning starts a warning.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

func (p *Pending) WithNote(sp source.Span, msg string) *Pending {
	p.d = p.d.WithNote(sp, msg)
	return p
}

func (p *Pending) Emit() {
	if p.sent || p.to == nil {
		return
	}
	p.sent = true
	p.to.Report(p.d.Code, p.d.Severity, p.d.Primary, p.d.Message, p.d.Notes)
}

// BagReporter пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag != nil {
		r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
	}
}

// Level is the bag's level, so Enabled sees through the adapter.
func (r BagReporter) Level() Severity {
	if r.Bag == nil {
		return SevFatal
	}
	return r.Bag.Level()
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}

func (NopReporter) Level() Severity { return SevFatal + 1 }

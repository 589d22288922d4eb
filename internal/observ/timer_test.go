package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.Track("scan", func() string { return "12 files" })
	idx := tm.Begin("check")
	tm.End(idx, "")
	tm.End(42, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %+v", report.Phases)
	}
	if report.Phases[0].Name != "scan" || report.Phases[0].Note != "12 files" {
		t.Fatalf("first phase = %+v", report.Phases[0])
	}
	sum := tm.Summary()
	if !strings.Contains(sum, "// 12 files") || !strings.Contains(sum, "total") {
		t.Fatalf("summary:\n%s", sum)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Track("x", func() string { return "" })
	if got := tm.Report(); len(got.Phases) != 0 {
		t.Fatalf("nil timer reported %+v", got)
	}
}

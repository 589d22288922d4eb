package driver

import (
	"encoding/json"
	"fmt"

	"layercheck/internal/diag"
	"layercheck/internal/observ"
	"layercheck/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Files   int                  `json:"files"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingDiagnostic summarizes the phases of a run as an INFO diagnostic whose
// note carries the JSON form of the report.
func TimingDiagnostic(kind string, files int, report observ.Report) diag.Diagnostic {
	if kind == "" {
		kind = "check"
	}
	payload := timingPayload{Kind: kind, Files: files, TotalMS: report.TotalMS, Phases: report.Phases}
	msg := fmt.Sprintf("timings (%s): total %.2f ms over %d files", kind, payload.TotalMS, files)

	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg)
	if data, err := json.Marshal(payload); err == nil {
		d = d.WithNote(source.Span{}, string(data))
	}
	return d
}

package pipeline

import "time"

// Stage describes a high-level phase of a run.
type Stage string

const (
	// StageLoad reads the files of the tree.
	StageLoad Stage = "load"
	// StageMacros collects the macro definitions of every file (pass 1).
	StageMacros Stage = "macros"
	// StageExpand macro-expands each file (pass 2).
	StageExpand Stage = "expand"
	// StageSymbols feeds the files into the symbol table.
	StageSymbols Stage = "symbols"
	// StageCheck checks function bodies for private accesses.
	StageCheck Stage = "check"
)

// Stages lists the stages in the order a run goes through them.
var Stages = []Stage{StageLoad, StageMacros, StageExpand, StageSymbols, StageCheck}

// Status is where a file stands within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusCached  Status = "cached" // answered from the disk cache
	StatusError   Status = "error"
)

// Finished reports whether no more events follow for the task.
func (s Status) Finished() bool {
	return s == StatusDone || s == StatusCached || s == StatusError
}

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must accept events
// from several goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Emit sends evt to sink when there is one.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

// Add accumulates dur into stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] += dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Total is the sum over every recorded stage.
func (t Timings) Total() time.Duration {
	var total time.Duration
	for _, d := range t.stages {
		total += d
	}
	return total
}

package pipeline

import (
	"testing"
	"time"
)

func TestTimingsAccumulate(t *testing.T) {
	var tm Timings
	if tm.Has(StageLoad) {
		t.Fatalf("empty timings has a stage")
	}
	tm.Add(StageExpand, 2*time.Millisecond)
	tm.Add(StageExpand, 3*time.Millisecond)
	tm.Add(StageCheck, time.Millisecond)
	if got := tm.Duration(StageExpand); got != 5*time.Millisecond {
		t.Fatalf("expand = %v", got)
	}
	if got := tm.Total(); got != 6*time.Millisecond {
		t.Fatalf("total = %v", got)
	}
}

func TestRecorderAndChannel(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ChannelSink{Ch: ch}, Event{File: "a.c", Stage: StageLoad, Status: StatusDone})
	if evt := <-ch; evt.File != "a.c" || !evt.Status.Finished() {
		t.Fatalf("unexpected event %+v", evt)
	}

	var r Recorder
	Emit(&r, Event{Stage: StageExpand, Status: StatusCached})
	Emit(&r, Event{Stage: StageExpand, Status: StatusWorking})
	Emit(nil, Event{})
	if r.Count(StageExpand, StatusCached) != 1 || len(r.Events()) != 2 {
		t.Fatalf("recorder = %+v", r.Events())
	}
}

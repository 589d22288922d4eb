package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"layercheck/internal/driver"
	"layercheck/internal/pipeline"
	"layercheck/internal/ui"
)

type checkOutcome struct {
	result *driver.Result
	err    error
}

// runCheckWithUI runs the check on a goroutine and renders its progress
// events on stderr until the run is over.
func runCheckWithUI(ctx context.Context, s *session) (*driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts := s.opts
		opts.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.Check(ctx, s.project, s.paths, opts)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("layercheck", s.paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// дочитываем события, иначе воркеры встанут на полном канале
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

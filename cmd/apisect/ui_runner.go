package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"apisect/internal/diag"
	"apisect/internal/intersect"
	"apisect/internal/ui"
)

type intersectOutcome struct {
	result *intersect.Result
	err    error
}

func runIntersectWithUI(ctx context.Context, title string, in intersect.Input, opts intersect.Options, reporter diag.Reporter) (*intersect.Result, error) {
	events := make(chan intersect.Event, 256)
	outcomeCh := make(chan intersectOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = intersect.ChannelSink{Ch: events}
		res, err := intersect.Run(ctx, in, runOpts, reporter)
		outcomeCh <- intersectOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// drain so the engine is not blocked on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

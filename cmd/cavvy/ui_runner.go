package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ywhdzrb/Cavvy-sub000/internal/buildpipeline"
	"github.com/ywhdzrb/Cavvy-sub000/internal/ui"
)

type emitOutcome struct {
	result buildpipeline.EmitResult
	err    error
}

// runEmitWithUI runs the pipeline while a progress view follows its events.
func runEmitWithUI(ctx context.Context, title string, files []string, req *buildpipeline.EmitRequest) (buildpipeline.EmitResult, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan emitOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Emit(ctx, &reqCopy)
		outcomeCh <- emitOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// The view may stop early; keep the pipeline from blocking on events.
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

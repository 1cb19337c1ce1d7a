package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"segpub/internal/driver"
	"segpub/internal/source"
	"segpub/internal/ui"
)

type dirOutcome struct {
	fs      *source.FileSet
	results []*driver.CheckResult
	err     error
}

// runCheckDirWithUI runs driver.CheckDir in the background and renders its
// progress events until the check finishes.
func runCheckDirWithUI(ctx context.Context, title, dir string, files []string, opts driver.CheckOptions, jobs int) (*source.FileSet, []*driver.CheckResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.CheckDir(ctx, dir, optsCopy, jobs)
		outcomeCh <- dirOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}

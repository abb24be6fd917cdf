package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"linkdiag/internal/driver"
	"linkdiag/internal/ui"
)

type scanOutcome struct {
	result *driver.ScanResult
	err    error
}

func runScanWithUI(ctx context.Context, title string, paths []string, opts driver.ScanOptions) (*driver.ScanResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan scanOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = events
		res, err := driver.Scan(ctx, paths, optsCopy)
		outcomeCh <- scanOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// the display may quit early; keep the scan from blocking on a full channel
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

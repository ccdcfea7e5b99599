package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cslayout/internal/driver"
	"cslayout/internal/ui"
)

// runWithUI runs job in the background while the progress view consumes its
// events. The view quits when job returns.
func runWithUI[T any](title string, files []string, job func(sink driver.ProgressSink) (T, error)) (T, error) {
	type outcome struct {
		result T
		err    error
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan outcome, 1)

	go func() {
		res, err := job(driver.ChannelSink{Ch: events})
		outcomeCh <- outcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем события, чтобы job не заблокировался на канале
		go func() {
			for range events {
			}
		}()
	}
	res := <-outcomeCh
	if uiErr != nil {
		return res.result, uiErr
	}
	return res.result, res.err
}

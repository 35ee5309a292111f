package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Reporter adapts bubbletea message sending to the StatusChanged callback
// shape shared by the dependency resolver and the artifact installer, so
// both can drive the same progress table without knowing about the TUI.
type Reporter struct {
	send func(tea.Msg)
}

// NewReporter wraps a send function, usually the one handed to the work
// function by RunWithWork.
func NewReporter(send func(tea.Msg)) *Reporter {
	return &Reporter{send: send}
}

// StatusChanged publishes a status transition for the named row.
func (r *Reporter) StatusChanged(name, status string) {
	r.send(RowUpdateMsg{
		Key:    name,
		Fields: map[string]string{"STATUS": status},
	})
}

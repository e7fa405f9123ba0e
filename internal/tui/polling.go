package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultTickInterval = 500 * time.Millisecond

// tickMsg forces a redraw so new broker messages show up without input.
type tickMsg struct{}

// scheduleTick returns a command that fires the next tick.
func scheduleTick(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = defaultTickInterval
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

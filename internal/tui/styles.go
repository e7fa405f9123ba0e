// Package tui implements the Bubble Tea topic explorer for mqview.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Tokyo Night color palette.
var (
	colorGreen  = lipgloss.Color("#9ece6a") // green
	colorYellow = lipgloss.Color("#e0af68") // yellow
	colorBlue   = lipgloss.Color("#7aa2f7") // blue
	colorGray   = lipgloss.Color("#565f89") // comment
	colorWhite  = lipgloss.Color("#c0caf5") // foreground
	colorRed    = lipgloss.Color("#f7768e") // red
	colorDark   = lipgloss.Color("#1a1b26") // background
)

// focusColor is the border color of the pane that receives keys.
func focusColor(focused bool) lipgloss.Color {
	if focused {
		return colorBlue
	}
	return colorGray
}

var (
	// Leaf name of a topic row.
	leafStyle = lipgloss.NewStyle().Bold(true)

	// Payload or summary next to a topic.
	metaStyle = lipgloss.NewStyle().Foreground(colorGray)

	// Tree guides and expand markers.
	guideStyle = lipgloss.NewStyle().Foreground(colorGray)

	// Pane titles drawn into the top border.
	paneTitleStyle = lipgloss.NewStyle().Bold(true)

	headerLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	headerValueStyle = lipgloss.NewStyle().Foreground(colorWhite)
	headerErrStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	headerOKStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	statusStyle      = lipgloss.NewStyle().Foreground(colorYellow)

	// Key hint line: keys are drawn inverted.
	hintKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorDark).Background(colorWhite)
	hintDescStyle = lipgloss.NewStyle().Foreground(colorWhite)

	searchPromptStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	searchNoteStyle   = lipgloss.NewStyle().Foreground(colorGray).Italic(true)

	// JSON tree values.
	jsonKeyStyle    = lipgloss.NewStyle().Foreground(colorBlue)
	jsonStringStyle = lipgloss.NewStyle().Foreground(colorGreen)
	jsonOtherStyle  = lipgloss.NewStyle().Foreground(colorYellow)
)

// selectedRowStyle highlights the cursor row of a pane.
func selectedRowStyle(focused bool) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(colorDark).
		Background(focusColor(focused))
}

// Popup styles.
var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRed).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	modalHelpStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			MarginTop(1)
)

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderCleanPopup draws the confirmation for cleaning the retained
// messages of topic and everything below it, centered in r.
func renderCleanPopup(r Rect, topic string) string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		modalTitleStyle.Render("Clean topic tree"),
		"",
		"Publish an empty retained message to every topic at or below",
		headerValueStyle.Render(singleLine(topic)),
		modalHelpStyle.Render("Enter to confirm, any other key aborts"),
	)

	popup := modalStyle.MaxWidth(max(r.W, 0)).Render(content)
	return lipgloss.Place(r.W, r.H, lipgloss.Center, lipgloss.Center, popup)
}

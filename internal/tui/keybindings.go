package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Quit       key.Binding
	SwitchPane key.Binding
	Toggle     key.Binding
	Up         key.Binding
	Down       key.Binding
	Close      key.Binding
	Open       key.Binding
	Home       key.Binding
	End        key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Clean      key.Binding
	Search     key.Binding
	Copy       key.Binding

	Confirm key.Binding
	Abort   key.Binding

	SearchCancel key.Binding
	SearchSubmit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "Quit"),
	),
	SwitchPane: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("Tab", "Switch to JSON Payload"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " ", "space"),
		key.WithHelp("Enter", "Toggle"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "Up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "Down"),
	),
	Close: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "Close"),
	),
	Open: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "Open"),
	),
	Home: key.NewBinding(
		key.WithKeys("home"),
		key.WithHelp("Home", "First"),
	),
	End: key.NewBinding(
		key.WithKeys("end"),
		key.WithHelp("End", "Last"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("PgUp", "Page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("PgDn", "Page down"),
	),
	Clean: key.NewBinding(
		key.WithKeys("backspace", "delete"),
		key.WithHelp("Del", "Clean retained"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "Search"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "Copy"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter", " ", "space"),
		key.WithHelp("Enter", "Clean topic tree"),
	),
	Abort: key.NewBinding(
		key.WithKeys(),
		key.WithHelp("Any", "Abort"),
	),
	SearchCancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "Cancel"),
	),
	SearchSubmit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "Search"),
	),
}

// hintBindings lists the keys shown at the bottom for a focus mode.
func hintBindings(focus FocusMode, jsonSelected bool) []key.Binding {
	switch focus {
	case FocusJSONPayload:
		back := keys.SwitchPane
		back.SetHelp("Tab", "Switch to Topics")
		return []key.Binding{keys.Quit, back, keys.Toggle, keys.Up, keys.Down, keys.Close, keys.Open, keys.Copy}
	case FocusCleanRetained:
		return []key.Binding{keys.Confirm, keys.Abort}
	case FocusSearch:
		return []key.Binding{keys.SearchSubmit, keys.SearchCancel}
	default:
		bindings := []key.Binding{keys.Quit}
		if jsonSelected {
			bindings = append(bindings, keys.SwitchPane)
		}
		return append(bindings,
			keys.Toggle, keys.Up, keys.Down, keys.Close, keys.Open,
			keys.Clean, keys.Search, keys.Copy,
		)
	}
}

// renderHints draws the key hint line. Hints that do not fit are dropped.
func renderHints(bindings []key.Binding, width int) string {
	var b strings.Builder
	used := 0
	for _, kb := range bindings {
		h := kb.Help()
		item := hintKeyStyle.Render(" "+h.Key+" ") + hintDescStyle.Render(" "+h.Desc+" ")
		w := lipgloss.Width(item)
		if used+w > width {
			break
		}
		b.WriteString(item)
		used += w
	}
	return b.String()
}

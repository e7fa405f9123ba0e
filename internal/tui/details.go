package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"github.com/hay-kot/mqview/internal/core/history"
)

const timeLayout = "2006-01-02 15:04:05.000"

// renderDetails draws the payload of the newest entry above the message
// history of the selected topic. entries must not be empty.
func (m Model) renderDetails(r Rect, entries []history.Entry) string {
	last := entries[len(entries)-1]

	payloadH := r.H / 2
	if payloadH < 3 || r.H-payloadH < 3 {
		return m.renderPayload(r, last.Payload)
	}
	payloadRect := Rect{X: r.X, Y: r.Y, W: r.W, H: payloadH}
	historyRect := Rect{X: r.X, Y: r.Y + payloadH, W: r.W, H: r.H - payloadH}

	payload := m.renderPayload(payloadRect, last.Payload)
	return lipgloss.JoinVertical(lipgloss.Left, payload, renderHistory(historyRect, entries))
}

func (m Model) renderPayload(r Rect, p history.Payload) string {
	size := humanize.Bytes(uint64(len(p.Text)))

	switch p.Kind {
	case history.PayloadJSON:
		title := fmt.Sprintf("JSON Payload (%s)", size)
		return m.json.render(r, title, p.JSON, m.focus.Mode == FocusJSONPayload)
	case history.PayloadNotUTF8:
		m.json.area = Rect{}
		return box(r, "Payload", []string{"Payload not UTF-8: " + p.Text}, false)
	default:
		m.json.area = Rect{}
		width, _ := innerSize(r)
		var lines []string
		for line := range strings.SplitSeq(wordwrap.String(p.Text, width), "\n") {
			lines = append(lines, singleLine(line))
		}
		return box(r, fmt.Sprintf("Payload (%s)", size), lines, false)
	}
}

func renderHistory(r Rect, entries []history.Entry) string {
	width, height := innerSize(r)

	// cells carry one column of padding on each side
	timeW, qosW := len(timeLayout), 3
	valueW := max(width-timeW-qosW-6, 8)

	rows := make([]table.Row, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		when := e.Time.Format(timeLayout)
		if e.Retained {
			when = "RETAINED"
		}
		rows = append(rows, table.Row{when, strconv.Itoa(int(e.QoS)), singleLine(historyValue(e.Payload))})
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Time", Width: timeW},
			{Title: "QoS", Width: qosW},
			{Title: "Value", Width: valueW},
		}),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(max(height-1, 1)),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(colorBlue)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	last := entries[len(entries)-1]
	title := fmt.Sprintf("History (%s messages, last %s)",
		humanize.Comma(int64(len(entries))), humanize.Time(last.Time))

	return box(r, title, strings.Split(t.View(), "\n"), false)
}

// historyValue is the payload text shown in the history table.
func historyValue(p history.Payload) string {
	switch p.Kind {
	case history.PayloadJSON:
		return history.CompactJSON(p.JSON)
	case history.PayloadNotUTF8:
		return "Payload not UTF-8"
	default:
		return p.Text
	}
}

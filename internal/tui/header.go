package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// headerInfo is the data of the two header lines, copied out of the tree
// together with the rest of a frame.
type headerInfo struct {
	url        string
	subscribed []string
	connErr    error
	selected   string
	topics     int
	messages   int
	last       time.Time
}

func renderHeader(h headerInfo, width int) string {
	first := headerLabelStyle.Render("MQTT Broker: ") + headerValueStyle.Render(h.url) +
		headerLabelStyle.Render("  Subscribed: ") + headerValueStyle.Render(strings.Join(h.subscribed, " "))

	var second string
	if h.connErr != nil {
		second = headerErrStyle.Render("Connection error: " + singleLine(h.connErr.Error()))
	} else {
		second = headerOKStyle.Render("Connected")
	}

	if h.selected != "" {
		second += headerLabelStyle.Render("  Topic: ") + headerValueStyle.Render(singleLine(h.selected))
	} else {
		summary := fmt.Sprintf("  %s topics, %s messages",
			humanize.Comma(int64(h.topics)), humanize.Comma(int64(h.messages)))
		if !h.last.IsZero() {
			summary += ", last " + humanize.Time(h.last)
		}
		second += statusStyle.Render(summary)
	}

	return fitLine(first, width) + "\n" + fitLine(second, width)
}

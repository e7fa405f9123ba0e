package tui

import (
	"math"
	"slices"

	"github.com/hay-kot/mqview/internal/core/history"
)

type moveKind int

const (
	moveAbsolute moveKind = iota
	moveOneUp
	moveOneDown
	movePageUp
	movePageDown
)

// CursorMove describes how ChangeSelected moves the cursor.
type CursorMove struct {
	kind  moveKind
	index int
}

// Absolute moves to index i. Indexes past the end select the last topic.
func Absolute(i int) CursorMove {
	return CursorMove{kind: moveAbsolute, index: i}
}

var (
	OneUp    = CursorMove{kind: moveOneUp}
	OneDown  = CursorMove{kind: moveOneDown}
	PageUp   = CursorMove{kind: movePageUp}
	PageDown = CursorMove{kind: movePageDown}
	Last     = Absolute(math.MaxInt)
)

// TopicOverview tracks which topics are expanded, which one is selected and
// the active search result. It never touches the tree; callers pass in the
// visible topic list computed under the tree lock.
type TopicOverview struct {
	opened      map[string]bool
	selected    string
	hasSelected bool
	query       []string

	// set while drawing
	area   Rect
	offset int
}

// NewTopicOverview returns an overview with nothing expanded or selected.
func NewTopicOverview() *TopicOverview {
	return &TopicOverview{opened: make(map[string]bool)}
}

// Opened returns the set of expanded topics.
func (o *TopicOverview) Opened() map[string]bool {
	return o.opened
}

// Query returns the current search result used as a visibility filter.
func (o *TopicOverview) Query() []string {
	return o.query
}

// Selected returns the selected topic.
func (o *TopicOverview) Selected() (string, bool) {
	return o.selected, o.hasSelected
}

// Select sets the selected topic.
func (o *TopicOverview) Select(topic string) {
	o.selected, o.hasSelected = topic, true
}

// ChangeSelected moves the selection within visible and reports whether the
// selected topic changed.
func (o *TopicOverview) ChangeSelected(visible []string, move CursorMove) bool {
	current := -1
	if o.hasSelected {
		current = slices.Index(visible, o.selected)
	}

	jump := max(o.area.H/2, 1)

	var next int
	switch move.kind {
	case moveAbsolute:
		next = move.index
	case moveOneUp:
		next = step(current, -1, math.MaxInt)
	case moveOneDown:
		next = step(current, 1, 0)
	case movePageUp:
		next = step(current, -jump, math.MaxInt)
	case movePageDown:
		next = step(current, jump, 0)
	}
	next = min(max(next, 0), max(len(visible)-1, 0))

	before, had := o.selected, o.hasSelected
	if next < len(visible) {
		o.selected, o.hasSelected = visible[next], true
	} else {
		o.selected, o.hasSelected = "", false
	}

	return had != o.hasSelected || before != o.selected
}

// step moves current by delta. With no current index it returns fallback.
func step(current, delta, fallback int) int {
	if current < 0 {
		return fallback
	}
	return current + delta
}

// Open expands the selected topic.
func (o *TopicOverview) Open() {
	if o.hasSelected {
		o.opened[o.selected] = true
	}
}

// Close collapses the selected topic. When it is already collapsed the
// selection moves to its parent, so repeated closing walks up the tree. A
// collapsed root level topic stays selected.
func (o *TopicOverview) Close() {
	if !o.hasSelected {
		return
	}
	if o.opened[o.selected] {
		delete(o.opened, o.selected)
		return
	}
	if parent, ok := history.Parent(o.selected); ok {
		o.selected = parent
	}
}

// Toggle flips the expansion of the selected topic.
func (o *TopicOverview) Toggle() {
	if !o.hasSelected {
		return
	}
	if o.opened[o.selected] {
		delete(o.opened, o.selected)
	} else {
		o.opened[o.selected] = true
	}
}

// SetSearchResult filters the tree down to results and expands every match
// along with its ancestors so the matches are on screen.
func (o *TopicOverview) SetSearchResult(results []string) {
	o.query = slices.Clone(results)
	if o.query == nil {
		o.query = []string{}
	}
	for _, topic := range results {
		o.opened[topic] = true
		for _, a := range history.Ancestors(topic) {
			o.opened[a] = true
		}
	}
}

// ClearSearch removes the search filter. Expanded topics stay expanded.
func (o *TopicOverview) ClearSearch() {
	o.query = nil
}

// IndexOfClick maps a screen cell to an index into the visible topics.
func (o *TopicOverview) IndexOfClick(x, y int) (int, bool) {
	row, ok := rowInside(o.area, x, y)
	if !ok {
		return 0, false
	}
	return row + o.offset, true
}

// ensureVisible scrolls so that index is within a pane of height rows.
func (o *TopicOverview) ensureVisible(index, total, height int) {
	o.offset = scrollOffset(o.offset, index, total, height)
}

// scrollOffset returns the offset that keeps index on screen while moving
// as little as possible.
func scrollOffset(offset, index, total, height int) int {
	if height <= 0 || total <= height {
		return 0
	}
	maxOffset := total - height
	offset = min(max(offset, 0), maxOffset)
	if index < 0 {
		return offset
	}
	if index < offset {
		offset = index
	}
	if index > offset+height-1 {
		offset = index - height + 1
	}
	return min(max(offset, 0), maxOffset)
}

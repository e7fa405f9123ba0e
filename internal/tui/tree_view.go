package tui

import (
	"fmt"
	"strings"

	"github.com/hay-kot/mqview/internal/core/history"
)

// Tree characters for rendering the topic tree.
const (
	treeBranch   = "├─"
	treeLast     = "└─"
	treeLine     = "│ "
	treeSpace    = "  "
	markerOpen   = "▼ "
	markerClosed = "▶ "
)

// topicRow is one drawn line of the topic tree.
type topicRow struct {
	topic   string
	prefix  string
	leaf    string
	meta    string
	opened  bool
	hasKids bool
}

// flattenTopics walks items the same way Tree.VisibleTopics does: hidden
// items are skipped but their opened children are still walked, so row i
// always belongs to visible topic i.
func flattenTopics(items []history.TreeItem, opened map[string]bool) []topicRow {
	var rows []topicRow
	var walk func(items []history.TreeItem, guides string, depth int)
	walk = func(items []history.TreeItem, guides string, depth int) {
		for i, item := range items {
			last := i == len(items)-1

			branch, next := "", ""
			if depth > 0 {
				branch, next = treeBranch, treeLine
				if last {
					branch, next = treeLast, treeSpace
				}
			}

			if item.Visible {
				rows = append(rows, topicRow{
					topic:   item.Topic,
					prefix:  guides + branch,
					leaf:    item.Leaf,
					meta:    item.Meta,
					opened:  opened[item.Topic],
					hasKids: len(item.Children) > 0,
				})
			}

			if opened[item.Topic] {
				walk(item.Children, guides+next, depth+1)
			}
		}
	}
	walk(items, "", 0)
	return rows
}

// renderTopicTree draws the tree pane into r and keeps the selected row in
// view.
func (o *TopicOverview) renderTopicTree(r Rect, topicCount int, items []history.TreeItem, focused bool) string {
	o.area = r
	rows := flattenTopics(items, o.opened)
	_, height := innerSize(r)

	selected := -1
	if o.hasSelected {
		for i, row := range rows {
			if row.topic == o.selected {
				selected = i
				break
			}
		}
	}
	o.ensureVisible(selected, len(rows), height)

	lines := make([]string, 0, height)
	for i := o.offset; i < len(rows) && len(lines) < height; i++ {
		lines = append(lines, renderTopicRow(rows[i], i == selected, focused, r.W-2))
	}

	return box(r, fmt.Sprintf("Topics (%d)", topicCount), lines, focused)
}

func renderTopicRow(row topicRow, selected, focused bool, width int) string {
	marker := treeSpace
	if row.hasKids {
		marker = markerClosed
		if row.opened {
			marker = markerOpen
		}
	}

	leaf, meta := singleLine(row.leaf), singleLine(row.meta)

	if selected {
		plain := row.prefix + marker + leaf + " " + meta
		return selectedRowStyle(focused).Render(fitLine(plain, width))
	}

	var b strings.Builder
	b.WriteString(guideStyle.Render(row.prefix + marker))
	b.WriteString(leafStyle.Render(leaf))
	b.WriteString(" ")
	b.WriteString(metaStyle.Render(meta))
	return b.String()
}

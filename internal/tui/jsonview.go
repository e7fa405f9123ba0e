package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/hay-kot/mqview/internal/core/history"
)

// jsonNode is one key or array element of a decoded JSON document.
type jsonNode struct {
	key      string
	value    any
	children []jsonNode
}

func (n jsonNode) container() bool {
	switch n.value.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}

// jsonNodes turns a decoded document into tree nodes. Objects and arrays
// produce one node per member, scalars a single unnamed node.
func jsonNodes(v any) []jsonNode {
	switch v := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		nodes := make([]jsonNode, 0, len(keys))
		for _, k := range keys {
			nodes = append(nodes, jsonNode{key: k, value: v[k], children: jsonNodes(v[k])})
		}
		return nodes
	case []any:
		nodes := make([]jsonNode, 0, len(v))
		for i, e := range v {
			nodes = append(nodes, jsonNode{key: strconv.Itoa(i), value: e, children: jsonNodes(e)})
		}
		return nodes
	default:
		return nil
	}
}

// rootJSONNodes is the top level of the widget.
func rootJSONNodes(v any) []jsonNode {
	switch v.(type) {
	case map[string]any, []any:
		return jsonNodes(v)
	default:
		return []jsonNode{{value: v}}
	}
}

type jsonRow struct {
	id    []int
	depth int
	node  jsonNode
}

func jsonID(id []int) string {
	parts := make([]string, len(id))
	for i, n := range id {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// JSONView is the selection and expansion state of the JSON payload tree.
// The document itself is passed in on every call.
type JSONView struct {
	opened   map[string]bool
	selected []int

	area   Rect
	offset int
}

// NewJSONView returns a view with everything collapsed.
func NewJSONView() *JSONView {
	return &JSONView{opened: make(map[string]bool)}
}

func (j *JSONView) rows(doc any) []jsonRow {
	var rows []jsonRow
	var walk func(nodes []jsonNode, parent []int)
	walk = func(nodes []jsonNode, parent []int) {
		for i, n := range nodes {
			id := append(slices.Clone(parent), i)
			rows = append(rows, jsonRow{id: id, depth: len(parent), node: n})
			if len(n.children) > 0 && j.opened[jsonID(id)] {
				walk(n.children, id)
			}
		}
	}
	walk(rootJSONNodes(doc), nil)
	return rows
}

func (j *JSONView) selectedIndex(rows []jsonRow) int {
	if j.selected == nil {
		return -1
	}
	for i, r := range rows {
		if slices.Equal(r.id, j.selected) {
			return i
		}
	}
	return -1
}

func (j *JSONView) selectedRow(rows []jsonRow) (jsonRow, bool) {
	i := j.selectedIndex(rows)
	if i < 0 {
		return jsonRow{}, false
	}
	return rows[i], true
}

// move selects the row at index, clamped to the rows present.
func (j *JSONView) move(rows []jsonRow, index int) bool {
	if len(rows) == 0 {
		changed := j.selected != nil
		j.selected = nil
		return changed
	}
	index = min(max(index, 0), len(rows)-1)
	changed := !slices.Equal(j.selected, rows[index].id)
	j.selected = rows[index].id
	return changed
}

// KeyUp moves one row up. Without a selection the last row is selected.
func (j *JSONView) KeyUp(doc any) bool {
	rows := j.rows(doc)
	i := j.selectedIndex(rows)
	if i < 0 {
		return j.move(rows, len(rows)-1)
	}
	return j.move(rows, i-1)
}

// KeyDown moves one row down. Without a selection the first row is selected.
func (j *JSONView) KeyDown(doc any) bool {
	rows := j.rows(doc)
	i := j.selectedIndex(rows)
	if i < 0 {
		return j.move(rows, 0)
	}
	return j.move(rows, i+1)
}

// SelectFirst selects the first row.
func (j *JSONView) SelectFirst(doc any) bool {
	return j.move(j.rows(doc), 0)
}

// SelectLast selects the last row.
func (j *JSONView) SelectLast(doc any) bool {
	rows := j.rows(doc)
	return j.move(rows, len(rows)-1)
}

// KeyLeft closes the selected node or, when it is already closed, selects
// its parent.
func (j *JSONView) KeyLeft() bool {
	if j.selected == nil {
		return false
	}
	id := jsonID(j.selected)
	if j.opened[id] {
		delete(j.opened, id)
		return true
	}
	if len(j.selected) > 1 {
		j.selected = j.selected[:len(j.selected)-1]
		return true
	}
	return false
}

// KeyRight opens the selected node.
func (j *JSONView) KeyRight(doc any) bool {
	row, ok := j.selectedRow(j.rows(doc))
	if !ok || len(row.node.children) == 0 {
		return false
	}
	id := jsonID(row.id)
	if j.opened[id] {
		return false
	}
	j.opened[id] = true
	return true
}

// Toggle flips the selected node between open and closed.
func (j *JSONView) Toggle(doc any) bool {
	row, ok := j.selectedRow(j.rows(doc))
	if !ok || len(row.node.children) == 0 {
		return false
	}
	id := jsonID(row.id)
	if j.opened[id] {
		delete(j.opened, id)
	} else {
		j.opened[id] = true
	}
	return true
}

// IndexOfClick maps a screen cell to a row index of the last drawn frame.
func (j *JSONView) IndexOfClick(x, y int) (int, bool) {
	row, ok := rowInside(j.area, x, y)
	if !ok {
		return 0, false
	}
	return row + j.offset, true
}

// Click selects the row under the cell. Clicking the selected row toggles
// it. It reports false when the cell is not on a row.
func (j *JSONView) Click(doc any, x, y int) bool {
	index, ok := j.IndexOfClick(x, y)
	if !ok {
		return false
	}
	rows := j.rows(doc)
	if index >= len(rows) {
		return false
	}
	if slices.Equal(rows[index].id, j.selected) {
		return j.Toggle(doc)
	}
	j.selected = rows[index].id
	return true
}

// SelectedValue returns the selected part of doc as compact JSON.
func (j *JSONView) SelectedValue(doc any) (string, bool) {
	row, ok := j.selectedRow(j.rows(doc))
	if !ok {
		return "", false
	}
	return history.CompactJSON(row.node.value), true
}

func (j *JSONView) render(r Rect, title string, doc any, focused bool) string {
	j.area = r
	rows := j.rows(doc)
	width, height := innerSize(r)

	selected := j.selectedIndex(rows)
	j.offset = scrollOffset(j.offset, selected, len(rows), height)

	lines := make([]string, 0, height)
	for i := j.offset; i < len(rows) && len(lines) < height; i++ {
		lines = append(lines, j.renderRow(rows[i], i == selected, focused, width))
	}
	return box(r, title, lines, focused)
}

func (j *JSONView) renderRow(row jsonRow, selected, focused bool, width int) string {
	indent := strings.Repeat("  ", row.depth)
	marker := treeSpace
	if len(row.node.children) > 0 {
		marker = markerClosed
		if j.opened[jsonID(row.id)] {
			marker = markerOpen
		}
	}

	key := ""
	if row.node.key != "" {
		key = row.node.key + ": "
	}
	value := singleLine(jsonPreview(row.node, j.opened[jsonID(row.id)]))

	if selected {
		return selectedRowStyle(focused).Render(fitLine(indent+marker+key+value, width))
	}

	valueStyle := jsonOtherStyle
	if _, ok := row.node.value.(string); ok {
		valueStyle = jsonStringStyle
	}
	return guideStyle.Render(indent+marker) + jsonKeyStyle.Render(key) + valueStyle.Render(value)
}

// jsonPreview is the text after the key. Open containers show only their
// size since the members are listed below.
func jsonPreview(n jsonNode, opened bool) string {
	if !n.container() {
		return history.CompactJSON(n.value)
	}
	if opened {
		switch v := n.value.(type) {
		case map[string]any:
			return fmt.Sprintf("{%d}", len(v))
		case []any:
			return fmt.Sprintf("[%d]", len(v))
		}
	}
	return history.CompactJSON(n.value)
}

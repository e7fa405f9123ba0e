package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/mqview/internal/core/history"
)

func decodeDoc(t *testing.T, raw string) any {
	t.Helper()
	doc, ok := history.ParsePayload([]byte(raw)).AsJSON()
	require.True(t, ok, "payload %q is not JSON", raw)
	return doc
}

func TestJSONView_Navigation(t *testing.T) {
	doc := decodeDoc(t, `{"b":[1,2],"a":"x"}`)
	j := NewJSONView()

	assert.True(t, j.KeyDown(doc))
	assert.Equal(t, []int{0}, j.selected)

	assert.True(t, j.KeyDown(doc))
	assert.Equal(t, []int{1}, j.selected)
	assert.False(t, j.KeyDown(doc), "already at the last row")

	assert.True(t, j.KeyRight(doc))
	assert.False(t, j.KeyRight(doc), "already open")

	assert.True(t, j.KeyDown(doc))
	assert.Equal(t, []int{1, 0}, j.selected)
	value, ok := j.SelectedValue(doc)
	require.True(t, ok)
	assert.Equal(t, "1", value)

	// closed child walks to its parent, then the parent closes
	assert.True(t, j.KeyLeft())
	assert.Equal(t, []int{1}, j.selected)
	assert.True(t, j.KeyLeft())
	assert.False(t, j.opened["1"])
	assert.False(t, j.KeyLeft(), "root level and closed")

	assert.False(t, j.SelectLast(doc))
	assert.True(t, j.Toggle(doc))
	assert.True(t, j.SelectLast(doc))
	assert.Equal(t, []int{1, 1}, j.selected)

	assert.True(t, j.SelectFirst(doc))
	value, _ = j.SelectedValue(doc)
	assert.Equal(t, `"x"`, value)
}

func TestJSONView_KeyUpWithoutSelection(t *testing.T) {
	doc := decodeDoc(t, `{"a":1,"b":2,"c":3}`)
	j := NewJSONView()

	assert.True(t, j.KeyUp(doc))
	assert.Equal(t, []int{2}, j.selected)
}

func TestJSONView_ScalarDocument(t *testing.T) {
	doc := decodeDoc(t, `"hello"`)
	j := NewJSONView()

	assert.True(t, j.KeyDown(doc))
	value, ok := j.SelectedValue(doc)
	require.True(t, ok)
	assert.Equal(t, `"hello"`, value)
	assert.False(t, j.Toggle(doc), "scalars cannot open")
}

func TestJSONView_SelectedValueOfContainer(t *testing.T) {
	doc := decodeDoc(t, `{"list":[1,"two",{"three":3}]}`)
	j := NewJSONView()
	j.SelectFirst(doc)

	value, ok := j.SelectedValue(doc)
	require.True(t, ok)
	assert.Equal(t, `[1,"two",{"three":3}]`, value)
}

func TestJSONView_Click(t *testing.T) {
	doc := decodeDoc(t, `{"b":{"c":true},"a":"x"}`)
	j := NewJSONView()

	out := j.render(Rect{X: 0, Y: 0, W: 30, H: 6}, "JSON Payload", doc, true)
	lines := strings.Split(ansi.Strip(out), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[1], `a: "x"`)
	assert.Contains(t, lines[2], `b: {"c":true}`)

	assert.False(t, j.Click(doc, 1, 0), "border is no row")
	assert.False(t, j.Click(doc, 1, 4), "below the last row")

	assert.True(t, j.Click(doc, 1, 2))
	assert.Equal(t, []int{1}, j.selected)

	// clicking the selected row toggles it
	assert.True(t, j.Click(doc, 1, 2))
	assert.True(t, j.opened["1"])

	out = j.render(Rect{X: 0, Y: 0, W: 30, H: 6}, "JSON Payload", doc, true)
	lines = strings.Split(ansi.Strip(out), "\n")
	assert.Contains(t, lines[3], "c: true")
}

package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleTree(t *testing.T) *Tree {
	t.Helper()
	tree := NewTree()
	now := time.Now()
	tree.Insert("test", NewEntry([]byte("A"), 1, false, now))
	tree.Insert("foo/test", NewEntry([]byte("B"), 1, false, now))
	tree.Insert("test", NewEntry([]byte("C"), 1, false, now))
	tree.Insert("foo/bar", NewEntry([]byte("D"), 1, false, now))
	return tree
}

func TestTree_LastReceived(t *testing.T) {
	tree := NewTree()
	assert.True(t, tree.LastReceived().IsZero())

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tree.Insert("a", NewEntry([]byte("1"), 0, false, base.Add(time.Second)))
	tree.Insert("b", NewEntry([]byte("2"), 0, false, base))

	assert.Equal(t, base.Add(time.Second), tree.LastReceived())
}

func TestTree_InsertKeepsChildrenSorted(t *testing.T) {
	orders := [][]string{
		{"a/c", "a/b", "a/a"},
		{"a/a", "a/b", "a/c"},
		{"a/b", "a/c", "a/a"},
	}

	for _, order := range orders {
		tree := NewTree()
		for _, topic := range order {
			tree.Insert(topic, NewEntry([]byte("x"), 0, false, time.Now()))
		}

		_, items := tree.Items(nil)
		require.Len(t, items, 1)
		require.Len(t, items[0].Children, 3)

		leaves := []string{}
		for _, c := range items[0].Children {
			leaves = append(leaves, c.Leaf)
		}
		assert.Equal(t, []string{"a", "b", "c"}, leaves, "insert order %v", order)
	}
}

func TestTree_IndexMatchesPath(t *testing.T) {
	tree := NewTree()
	topics := []string{"a/b/c", "a", "z/y", "a/b", "", "a//b", "m/n/o/p"}
	for _, topic := range topics {
		tree.Insert(topic, NewEntry([]byte("1"), 0, false, time.Now()))
	}

	for _, topic := range topics {
		_, ok := tree.Lookup(topic)
		require.True(t, ok, topic)
		assert.Equal(t, topic, tree.Path(tree.ids[topic]))
	}
	total, _ := tree.Items(nil)
	assert.Equal(t, len(topics), total)
	assert.Equal(t, len(topics), tree.Messages())
}

func TestTree_Lookup(t *testing.T) {
	tree := exampleTree(t)

	h, ok := tree.Lookup("test")
	require.True(t, ok)
	require.Len(t, h, 2)
	assert.Equal(t, "A", h[0].Payload.Text)
	assert.Equal(t, "C", h[1].Payload.Text)

	last, ok := tree.Last("test")
	require.True(t, ok)
	assert.Equal(t, "C", last.Payload.Text)

	_, ok = tree.Lookup("foo")
	assert.False(t, ok, "path only segments are not indexed")

	_, ok = tree.Last("missing")
	assert.False(t, ok)
}

func TestTree_TopicsBelow(t *testing.T) {
	tree := exampleTree(t)

	tests := []struct {
		topic string
		want  []string
	}{
		{"foo", []string{"foo/bar", "foo/test"}},
		{"test", []string{"test"}},
		{"missing", []string{}},
		{"foo/missing", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, tree.TopicsBelow(tt.topic))
		})
	}
}

func TestTree_VisibleTopics(t *testing.T) {
	tree := exampleTree(t)

	tests := []struct {
		name   string
		opened map[string]bool
		query  []string
		want   []string
	}{
		{
			name:   "all closed",
			opened: map[string]bool{},
			query:  []string{},
			want:   []string{"foo", "test"},
		},
		{
			name:   "foo opened",
			opened: map[string]bool{"foo": true},
			query:  []string{},
			want:   []string{"foo", "foo/bar", "foo/test", "test"},
		},
		{
			name:   "nil query",
			opened: map[string]bool{"foo": true},
			want:   []string{"foo", "foo/bar", "foo/test", "test"},
		},
		{
			name:   "query keeps ancestors and substring matches",
			opened: map[string]bool{"foo": true},
			query:  []string{"foo/test"},
			want:   []string{"foo", "foo/test", "test"},
		},
		{
			name:   "query keeps descendants",
			opened: map[string]bool{"foo": true},
			query:  []string{"foo"},
			want:   []string{"foo", "foo/bar", "foo/test"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tree.VisibleTopics(tt.opened, tt.query))
		})
	}
}

func TestTree_Search(t *testing.T) {
	tree := exampleTree(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"leaf match in two places", "es", []string{"foo/test", "test"}},
		{"single leaf", "ba", []string{"foo/bar"}},
		{"intermediate segment", "fo", []string{"foo"}},
		{"spans a slash", "o/t", nil},
		{"case sensitive", "TEST", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tree.Search(tt.query))
		})
	}
}

func TestTree_Items(t *testing.T) {
	tree := exampleTree(t)

	topics, items := tree.Items(nil)
	assert.Equal(t, 3, topics)
	require.Len(t, items, 2)

	foo := items[0]
	assert.Equal(t, "foo", foo.Topic)
	assert.Equal(t, "(2 topics, 2 messages)", foo.Meta)
	require.Len(t, foo.Children, 2)
	assert.Equal(t, "foo/bar", foo.Children[0].Topic)
	assert.Equal(t, "= D", foo.Children[0].Meta)
	assert.Equal(t, "foo/test", foo.Children[1].Topic)

	test := items[1]
	assert.Equal(t, "= C", test.Meta)
	assert.Empty(t, test.Children)
	assert.True(t, test.Visible)
}

func TestTree_ItemsVisibility(t *testing.T) {
	tree := exampleTree(t)

	_, items := tree.Items([]string{"foo/bar"})
	require.Len(t, items, 2)
	assert.True(t, items[0].Visible)
	assert.True(t, items[0].Children[0].Visible)
	assert.False(t, items[0].Children[1].Visible)
	assert.False(t, items[1].Visible)
}

func TestTree_ItemsNestedCounts(t *testing.T) {
	tree := NewTree()
	now := time.Now()
	tree.Insert("a/b/c", NewEntry([]byte("1"), 0, false, now))
	tree.Insert("a/b/c", NewEntry([]byte("2"), 0, false, now))
	tree.Insert("a/b", NewEntry([]byte("3"), 0, false, now))
	tree.Insert("a/d/e", NewEntry([]byte("4"), 0, false, now))

	topics, items := tree.Items(nil)
	assert.Equal(t, 3, topics)
	require.Len(t, items, 1)
	assert.Equal(t, "(3 topics, 4 messages)", items[0].Meta)
	assert.Equal(t, "= 3", items[0].Children[0].Meta)
	assert.Equal(t, "(1 topics, 1 messages)", items[0].Children[1].Meta)
}

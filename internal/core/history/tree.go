package history

import (
	"slices"
	"strings"
	"time"
)

// NodeID addresses a node in the tree arena. IDs are stable for the life of
// the tree.
type NodeID int

const (
	rootID NodeID = 0
	noNode NodeID = -1
)

type node struct {
	leaf     string
	parent   NodeID
	children []NodeID // sorted by leaf
	history  []Entry
}

// Tree is the topic hierarchy with the messages received on each topic.
// Nodes live in a flat arena and are never removed. ids maps a full topic to
// its node and is filled the first time a topic is inserted.
//
// Tree is not safe for concurrent use; callers guard it with a lock.
type Tree struct {
	nodes []node
	ids   map[string]NodeID
	last  time.Time
}

// NewTree returns an empty tree holding only the root node.
func NewTree() *Tree {
	return &Tree{
		nodes: []node{{parent: noNode}},
		ids:   make(map[string]NodeID),
	}
}

// Insert appends e to the history of topic, creating any missing path
// segments in sorted position.
func (t *Tree) Insert(topic string, e Entry) {
	id := t.entry(topic)
	t.nodes[id].history = append(t.nodes[id].history, e)
	if e.Time.After(t.last) {
		t.last = e.Time
	}
}

// LastReceived returns the time of the newest entry, or the zero time for an
// empty tree.
func (t *Tree) LastReceived() time.Time {
	return t.last
}

func (t *Tree) entry(topic string) NodeID {
	if id, ok := t.ids[topic]; ok {
		return id
	}

	parent := rootID
	for _, part := range strings.Split(topic, "/") {
		parent = t.child(parent, part)
	}

	t.ids[topic] = parent
	return parent
}

// child returns the child of parent with the given leaf, inserting it before
// the first sibling that sorts after it.
func (t *Tree) child(parent NodeID, leaf string) NodeID {
	children := t.nodes[parent].children
	pos := len(children)
	for i, c := range children {
		if t.nodes[c].leaf >= leaf {
			if t.nodes[c].leaf == leaf {
				return c
			}
			pos = i
			break
		}
	}

	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{leaf: leaf, parent: parent})
	t.nodes[parent].children = slices.Insert(t.nodes[parent].children, pos, id)
	return id
}

// Lookup returns the history of topic. The returned slice must not be
// modified or retained past the lock that guards the tree.
func (t *Tree) Lookup(topic string) ([]Entry, bool) {
	id, ok := t.ids[topic]
	if !ok {
		return nil, false
	}
	return t.nodes[id].history, true
}

// Last returns the most recent entry of topic.
func (t *Tree) Last(topic string) (Entry, bool) {
	h, ok := t.Lookup(topic)
	if !ok || len(h) == 0 {
		return Entry{}, false
	}
	return h[len(h)-1], true
}

// Path rebuilds the full topic of id by walking its parents.
func (t *Tree) Path(id NodeID) string {
	var parts []string
	for cur := id; cur != rootID && cur != noNode; cur = t.nodes[cur].parent {
		parts = append(parts, t.nodes[cur].leaf)
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}

// Messages returns the number of entries stored across all topics.
func (t *Tree) Messages() int {
	total := 0
	for i := range t.nodes {
		total += len(t.nodes[i].history)
	}
	return total
}

// Search returns the full topics of all nodes whose leaf contains substr.
// Matching is case sensitive and only looks at a single segment, so a
// substring containing a slash never matches.
func (t *Tree) Search(substr string) []string {
	var results []string
	var walk func(id NodeID)
	walk = func(id NodeID) {
		for _, c := range t.nodes[id].children {
			if strings.Contains(t.nodes[c].leaf, substr) {
				results = append(results, t.Path(c))
			}
			walk(c)
		}
	}
	walk(rootID)

	slices.Sort(results)
	return slices.Compact(results)
}

// TopicsBelow returns topic and every topic beneath it that has at least one
// message, in tree order.
func (t *Tree) TopicsBelow(topic string) []string {
	id := rootID
	for _, part := range strings.Split(topic, "/") {
		next := noNode
		for _, c := range t.nodes[id].children {
			if t.nodes[c].leaf == part {
				next = c
				break
			}
		}
		if next == noNode {
			return []string{}
		}
		id = next
	}

	results := []string{}
	var walk func(id NodeID, path string)
	walk = func(id NodeID, path string) {
		if len(t.nodes[id].history) > 0 {
			results = append(results, path)
		}
		for _, c := range t.nodes[id].children {
			walk(c, path+"/"+t.nodes[c].leaf)
		}
	}
	walk(id, topic)

	return results
}

// VisibleTopics lists the topics a cursor can land on: a depth first walk
// that only descends into opened topics, filtered by query.
func (t *Tree) VisibleTopics(opened map[string]bool, query []string) []string {
	var results []string
	var walk func(id NodeID, path string)
	walk = func(id NodeID, path string) {
		if matchesQuery(path, query) {
			results = append(results, path)
		}
		if !opened[path] {
			return
		}
		for _, c := range t.nodes[id].children {
			walk(c, path+"/"+t.nodes[c].leaf)
		}
	}

	for _, c := range t.nodes[rootID].children {
		walk(c, t.nodes[c].leaf)
	}

	return results
}

// matchesQuery reports whether topic passes the search filter. A topic
// passes when a query item contains it (an ancestor of a match) or when it
// starts with a query item (a match or something below it). An empty query
// lets everything through.
func matchesQuery(topic string, query []string) bool {
	if len(query) == 0 {
		return true
	}
	for _, q := range query {
		if strings.Contains(q, topic) || strings.HasPrefix(topic, q) {
			return true
		}
	}
	return false
}

package history

import "fmt"

// TreeItem is the render projection of one node.
type TreeItem struct {
	Topic string
	Leaf  string
	// Meta is the last payload of the node or, for nodes without messages, a
	// summary of what is below it.
	Meta string
	// Visible is false when a search filter is active and the node does not
	// match it. Hidden items still carry their children.
	Visible  bool
	Children []TreeItem
}

type itemCounts struct {
	item          TreeItem
	messages      int
	messagesBelow int
	topicsBelow   int
}

// Items projects the tree for rendering. It returns the number of topics
// that have messages and the items for the children of the root.
func (t *Tree) Items(query []string) (int, []TreeItem) {
	var build func(id NodeID, topic string) itemCounts
	build = func(id NodeID, topic string) itemCounts {
		n := &t.nodes[id]

		below := make([]itemCounts, 0, len(n.children))
		for _, c := range n.children {
			below = append(below, build(c, topic+"/"+t.nodes[c].leaf))
		}

		var messagesBelow, topicsBelow int
		children := make([]TreeItem, 0, len(below))
		for _, b := range below {
			messagesBelow += b.messages + b.messagesBelow
			topicsBelow += b.topicsBelow
			if b.messages > 0 {
				topicsBelow++
			}
			children = append(children, b.item)
		}

		var meta string
		if len(n.history) > 0 {
			meta = n.history[len(n.history)-1].Payload.Display()
		} else {
			meta = fmt.Sprintf("(%d topics, %d messages)", topicsBelow, messagesBelow)
		}

		return itemCounts{
			item: TreeItem{
				Topic:    topic,
				Leaf:     n.leaf,
				Meta:     meta,
				Visible:  matchesQuery(topic, query),
				Children: children,
			},
			messages:      len(n.history),
			messagesBelow: messagesBelow,
			topicsBelow:   topicsBelow,
		}
	}

	root := t.nodes[rootID].children
	items := make([]TreeItem, 0, len(root))
	topics := 0
	for _, c := range root {
		r := build(c, t.nodes[c].leaf)
		topics += r.topicsBelow
		if r.messages > 0 {
			topics++
		}
		items = append(items, r.item)
	}

	return topics, items
}

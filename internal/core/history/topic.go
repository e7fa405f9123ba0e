package history

import "strings"

// Parent drops the last segment of topic. Root level topics have no parent.
func Parent(topic string) (string, bool) {
	i := strings.LastIndexByte(topic, '/')
	if i < 0 {
		return "", false
	}
	return topic[:i], true
}

// Ancestors returns every proper prefix of topic, nearest to the root first.
func Ancestors(topic string) []string {
	var out []string
	for i := 0; i < len(topic); i++ {
		if topic[i] == '/' {
			out = append(out, topic[:i])
		}
	}
	return out
}

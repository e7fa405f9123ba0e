// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"
)

// TopicFilter validates an MQTT subscription filter. The multi level
// wildcard may only appear as the last segment and wildcards must occupy a
// whole segment.
func TopicFilter(filter string) error {
	if filter == "" {
		return fmt.Errorf("topic filter is required")
	}

	segments := strings.Split(filter, "/")
	for i, seg := range segments {
		switch {
		case seg == "#":
			if i != len(segments)-1 {
				return fmt.Errorf("%q: '#' must be the last segment", filter)
			}
		case seg == "+":
		case strings.ContainsAny(seg, "#+"):
			return fmt.Errorf("%q: wildcards must occupy a whole segment", filter)
		}
	}

	return nil
}

// TopicName validates a topic messages can be published to.
func TopicName(topic string) error {
	if topic == "" {
		return fmt.Errorf("topic is required")
	}
	if strings.ContainsAny(topic, "#+") {
		return fmt.Errorf("%q: wildcards are not allowed in a topic name", topic)
	}
	return nil
}

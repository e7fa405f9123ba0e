// Package history defines the topic tree and the per-topic message history
// built from broker traffic.
package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"
)

// PayloadKind classifies the raw bytes of a received message.
type PayloadKind int

const (
	PayloadString PayloadKind = iota
	PayloadJSON
	PayloadNotUTF8
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadString:
		return "string"
	case PayloadJSON:
		return "json"
	case PayloadNotUTF8:
		return "not-utf8"
	default:
		return "unknown"
	}
}

// Payload is the interpreted form of a message body. It is classified once
// when the message arrives.
type Payload struct {
	Kind PayloadKind
	// Text holds the decoded text for string and JSON payloads and the
	// decode error description for PayloadNotUTF8.
	Text string
	// JSON holds the decoded document when Kind is PayloadJSON. Numbers are
	// kept as json.Number.
	JSON any
}

// ParsePayload classifies raw message bytes.
func ParsePayload(b []byte) Payload {
	if !utf8.Valid(b) {
		return Payload{Kind: PayloadNotUTF8, Text: describeInvalidUTF8(b)}
	}

	text := string(b)
	if v, ok := decodeJSON(b); ok {
		return Payload{Kind: PayloadJSON, Text: text, JSON: v}
	}

	return Payload{Kind: PayloadString, Text: text}
}

// AsJSON returns the structured document of a JSON payload.
func (p Payload) AsJSON() (any, bool) {
	if p.Kind != PayloadJSON {
		return nil, false
	}
	return p.JSON, true
}

// Display returns the single line form used next to a topic in the tree.
func (p Payload) Display() string {
	switch p.Kind {
	case PayloadJSON:
		return "= " + CompactJSON(p.JSON)
	case PayloadNotUTF8:
		return "Payload not UTF-8"
	default:
		return "= " + p.Text
	}
}

// CompactJSON renders v as single line JSON with object keys sorted.
func CompactJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

func decodeJSON(b []byte) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}

	// trailing data after the first value means this is not a JSON document
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, false
	}

	return v, true
}

func describeInvalidUTF8(b []byte) string {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return fmt.Sprintf("invalid utf-8 sequence at byte %d", i)
		}
		i += size
	}
	return "invalid utf-8 sequence"
}

// Entry is one received message. Entries are immutable and appended in
// arrival order.
type Entry struct {
	Time     time.Time
	QoS      byte
	Retained bool
	Payload  Payload
}

// NewEntry classifies payload and stamps the entry with t.
func NewEntry(payload []byte, qos byte, retained bool, t time.Time) Entry {
	return Entry{
		Time:     t,
		QoS:      qos,
		Retained: retained,
		Payload:  ParsePayload(payload),
	}
}

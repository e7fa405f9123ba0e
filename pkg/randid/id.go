// Package randid generates short random identifiers such as MQTT client ids.
package randid

import "math/rand/v2"

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate creates a random alphanumeric ID of the specified length.
func Generate(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}

// Prefixed returns prefix, a dash and a random ID of the given length.
// Brokers reject a second connection with an existing client id, so every
// run gets its own suffix.
func Prefixed(prefix string, length int) string {
	return prefix + "-" + Generate(length)
}

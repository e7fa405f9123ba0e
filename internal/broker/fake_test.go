package broker

import (
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct {
	err  error
	done chan struct{}
}

func newToken(err error) *fakeToken {
	done := make(chan struct{})
	close(done)
	return &fakeToken{err: err, done: done}
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type fakeMessage struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
	dup      bool
}

func (m fakeMessage) Duplicate() bool   { return m.dup }
func (m fakeMessage) Qos() byte         { return m.qos }
func (m fakeMessage) Retained() bool    { return m.retained }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

type publishCall struct {
	topic    string
	qos      byte
	retained bool
	payload  any
}

// fakeClient records calls. Methods not overridden panic through the nil
// embedded interface.
type fakeClient struct {
	mqtt.Client

	mu           sync.Mutex
	published    []publishCall
	filters      map[string]byte
	subErr       error
	connectErr   error
	disconnected bool
	// deliver is sent to the subscription handler right after subscribing
	deliver []fakeMessage
}

func (f *fakeClient) Connect() mqtt.Token {
	return newToken(f.connectErr)
}

func (f *fakeClient) Disconnect(uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = true
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload any) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publishCall{topic, qos, retained, payload})
	return newToken(nil)
}

func (f *fakeClient) SubscribeMultiple(filters map[string]byte, cb mqtt.MessageHandler) mqtt.Token {
	f.mu.Lock()
	f.filters = filters
	deliver := f.deliver
	f.mu.Unlock()

	for _, m := range deliver {
		cb(f, m)
	}
	return newToken(f.subErr)
}

func (f *fakeClient) publishedTopics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.published))
	for _, p := range f.published {
		out = append(out, p.topic)
	}
	return out
}

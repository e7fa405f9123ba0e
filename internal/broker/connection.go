package broker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/hay-kot/mqview/internal/core/config"
	"github.com/hay-kot/mqview/internal/core/history"
	"github.com/hay-kot/mqview/internal/core/validate"
)

const (
	subscribeQoS   = 2
	cleanQoS       = 1
	publishTimeout = 10 * time.Second
	quiesce        = 250 // milliseconds
)

// Connection keeps a live MQTT session and records every message it
// receives in a topic tree. The tree is guarded by a single RWMutex; access
// goes through Read and Write so no lock outlives one call.
type Connection struct {
	client mqtt.Client
	url    string
	topics []string
	log    zerolog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	tree     *history.Tree
	poisoned atomic.Bool

	errMu   sync.Mutex
	lastErr error
}

// Connect dials the broker and subscribes to cfg.Topics. It returns once
// the first connection is established; later drops reconnect on their own.
func Connect(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Connection, error) {
	opts, err := ClientOptions(cfg.Broker)
	if err != nil {
		return nil, err
	}

	c := newConnection(nil, cfg.Broker.URL, cfg.Topics, logger)

	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)
	opts.SetReconnectingHandler(func(mqtt.Client, *mqtt.ClientOptions) {
		c.log.Info().Str("url", c.url).Msg("reconnecting")
	})

	c.client = mqtt.NewClient(opts)

	c.log.Debug().Str("url", c.url).Strs("topics", c.topics).Msg("connecting")
	if err := wait(ctx, c.client.Connect(), cfg.Broker.ConnectTimeout); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Broker.URL, err)
	}

	return c, nil
}

func newConnection(client mqtt.Client, url string, topics []string, logger zerolog.Logger) *Connection {
	return &Connection{
		client: client,
		url:    url,
		topics: topics,
		log:    logger,
		now:    time.Now,
		tree:   history.NewTree(),
	}
}

// URL returns the broker address as configured.
func (c *Connection) URL() string {
	return c.url
}

// Read runs fn with shared access to the tree. fn must not block.
func (c *Connection) Read(fn func(t *history.Tree)) error {
	if c.poisoned.Load() {
		return ErrPoisoned
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	// a writer may have panicked while this reader waited for the lock
	if c.poisoned.Load() {
		return ErrPoisoned
	}

	fn(c.tree)
	return nil
}

// Write runs fn with exclusive access to the tree. A panic inside fn
// poisons the connection and every later call returns ErrPoisoned.
func (c *Connection) Write(fn func(t *history.Tree)) (err error) {
	if c.poisoned.Load() {
		return ErrPoisoned
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.poisoned.Load() {
		return ErrPoisoned
	}

	defer func() {
		if r := recover(); r != nil {
			c.poisoned.Store(true)
			err = fmt.Errorf("%w: %v", ErrPoisoned, r)
		}
	}()

	fn(c.tree)
	return nil
}

// HasConnectionErr reports whether the last network operation failed.
func (c *Connection) HasConnectionErr() bool {
	return c.ConnectionErr() != nil
}

// ConnectionErr returns the error of the last failed network operation, or
// nil once the session is healthy again.
func (c *Connection) ConnectionErr() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.lastErr
}

func (c *Connection) setErr(err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	c.lastErr = err
}

// CleanBelow publishes an empty retained message to topic and every topic
// below it that has received a message, which makes the broker drop their
// retained values. Publishing happens in the background; failures are
// logged and recorded as a connection error.
func (c *Connection) CleanBelow(topic string) error {
	var topics []string
	if err := c.Read(func(t *history.Tree) {
		topics = t.TopicsBelow(topic)
	}); err != nil {
		return err
	}

	for _, t := range topics {
		if err := validate.TopicName(t); err != nil {
			c.log.Warn().Err(err).Msg("skipping clean")
			continue
		}

		token := c.client.Publish(t, cleanQoS, true, []byte{})
		go c.awaitPublish(t, token)
	}

	c.log.Info().Str("topic", topic).Int("count", len(topics)).Msg("cleaning retained topics")
	return nil
}

func (c *Connection) awaitPublish(topic string, token mqtt.Token) {
	if !token.WaitTimeout(publishTimeout) {
		c.log.Warn().Str("topic", topic).Msg("clean publish timed out")
		return
	}
	if err := token.Error(); err != nil {
		c.log.Error().Err(err).Str("topic", topic).Msg("clean publish failed")
		c.setErr(fmt.Errorf("publish %s: %w", topic, err))
	}
}

// Close disconnects from the broker.
func (c *Connection) Close() {
	if c.client != nil {
		c.client.Disconnect(quiesce)
	}
}

func (c *Connection) onConnect(client mqtt.Client) {
	c.log.Info().Str("url", c.url).Msg("connected")

	filters := make(map[string]byte, len(c.topics))
	for _, t := range c.topics {
		filters[t] = subscribeQoS
	}

	token := client.SubscribeMultiple(filters, c.onMessage)
	if !token.WaitTimeout(publishTimeout) {
		c.setErr(fmt.Errorf("subscribe: %w", ErrTimeout))
		return
	}
	if err := token.Error(); err != nil {
		c.log.Error().Err(err).Strs("topics", c.topics).Msg("subscribe failed")
		c.setErr(fmt.Errorf("subscribe: %w", err))
		return
	}

	c.setErr(nil)
}

func (c *Connection) onConnectionLost(_ mqtt.Client, err error) {
	c.log.Warn().Err(err).Str("url", c.url).Msg("connection lost")
	c.setErr(err)
}

func (c *Connection) onMessage(_ mqtt.Client, msg mqtt.Message) {
	if msg.Duplicate() {
		return
	}

	entry := history.NewEntry(msg.Payload(), msg.Qos(), msg.Retained(), c.now())
	if err := c.Write(func(t *history.Tree) {
		t.Insert(msg.Topic(), entry)
	}); err != nil {
		c.log.Error().Err(err).Str("topic", msg.Topic()).Msg("dropping message")
	}
}

// Package broker owns the MQTT connection and feeds received messages into
// the topic tree.
package broker

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/hay-kot/mqview/internal/core/config"
	"github.com/hay-kot/mqview/pkg/randid"
)

var (
	// ErrPoisoned is returned once a mutation of the topic tree panicked.
	// The tree can no longer be trusted and callers must stop.
	ErrPoisoned = errors.New("topic tree poisoned by a panic during an update")
	// ErrTimeout is returned when the broker does not answer in time.
	ErrTimeout = errors.New("timed out waiting for broker")
)

var defaultPorts = map[string]string{
	"mqtt":  "1883",
	"tcp":   "1883",
	"mqtts": "8883",
	"ssl":   "8883",
	"tls":   "8883",
	"ws":    "80",
	"wss":   "443",
}

// ServerURL fills in the default port of the scheme when raw has none.
func ServerURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse broker url: %w", err)
	}

	port, ok := defaultPorts[u.Scheme]
	if !ok {
		return "", fmt.Errorf("unsupported broker scheme %q", u.Scheme)
	}

	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), port)
	}
	return u.String(), nil
}

// ClientOptions translates the broker configuration into paho options.
// Handlers are left for the caller to set.
func ClientOptions(cfg config.BrokerConfig) (*mqtt.ClientOptions, error) {
	server, err := ServerURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = randid.Prefixed("mqview", 8)
	}

	opts := mqtt.NewClientOptions().
		AddBroker(server).
		SetClientID(clientID).
		SetCleanSession(true).
		SetKeepAlive(cfg.KeepAlive).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(30 * time.Second).
		SetOrderMatters(true)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.Insecure {
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // opt-in for self-signed brokers
	}

	return opts, nil
}

// wait blocks until token completes, ctx is done or timeout passes.
func wait(ctx context.Context, token mqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-timer.C:
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

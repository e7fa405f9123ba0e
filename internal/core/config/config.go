// Package config handles configuration loading and validation for mqview.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/mqview/internal/core/validate"
)

// DefaultTopic subscribes to every topic except the broker's $-prefixed ones.
const DefaultTopic = "#"

// Config holds the application configuration.
type Config struct {
	Broker BrokerConfig `yaml:"broker"`
	Topics []string     `yaml:"topics"`
	TUI    TUIConfig    `yaml:"tui"`
}

// BrokerConfig describes how to reach the MQTT broker.
type BrokerConfig struct {
	URL            string        `yaml:"url"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	ClientID       string        `yaml:"client_id"` // empty = generated
	KeepAlive      time.Duration `yaml:"keep_alive"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	Insecure       bool          `yaml:"insecure"` // skip TLS certificate verification
}

// TUIConfig holds settings for the interactive explorer.
type TUIConfig struct {
	// TickInterval is the longest the screen goes without a redraw.
	TickInterval time.Duration `yaml:"tick_interval"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Broker: BrokerConfig{
			URL:            "mqtt://localhost:1883",
			KeepAlive:      5 * time.Second,
			ConnectTimeout: 10 * time.Second,
		},
		Topics: []string{DefaultTopic},
		TUI: TUIConfig{
			TickInterval: 500 * time.Millisecond,
		},
	}
}

// Load reads configuration from the given path. If configPath is empty or
// doesn't exist, the defaults are returned. The result is not validated so
// callers can apply command line overrides first.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults sets default values for any unset configuration options.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.Broker.URL == "" {
		c.Broker.URL = defaults.Broker.URL
	}
	if c.Broker.ConnectTimeout == 0 {
		c.Broker.ConnectTimeout = defaults.Broker.ConnectTimeout
	}
	if len(c.Topics) == 0 {
		c.Topics = defaults.Topics
	}
	if c.TUI.TickInterval == 0 {
		c.TUI.TickInterval = defaults.TUI.TickInterval
	}
}

var brokerSchemes = map[string]bool{
	"mqtt":  true,
	"mqtts": true,
	"tcp":   true,
	"ssl":   true,
	"tls":   true,
	"ws":    true,
	"wss":   true,
}

// Validate checks that the configuration is valid. All problems are
// reported together as criterio.FieldErrors.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.Broker.URL == "" {
		errs = errs.Append("broker.url", fmt.Errorf("cannot be empty"))
	} else if u, err := url.Parse(c.Broker.URL); err != nil {
		errs = errs.Append("broker.url", err)
	} else {
		if !brokerSchemes[u.Scheme] {
			errs = errs.Append("broker.url", fmt.Errorf("unsupported scheme %q (use mqtt, mqtts, ws or wss)", u.Scheme))
		}
		if u.Host == "" {
			errs = errs.Append("broker.url", fmt.Errorf("missing host in %q", c.Broker.URL))
		}
	}

	if c.Broker.KeepAlive < 0 {
		errs = errs.Append("broker.keep_alive", fmt.Errorf("cannot be negative"))
	}

	if c.Broker.ConnectTimeout <= 0 {
		errs = errs.Append("broker.connect_timeout", fmt.Errorf("must be greater than zero"))
	}

	if len(c.Topics) == 0 {
		errs = errs.Append("topics", fmt.Errorf("at least one topic is required"))
	}
	for i, topic := range c.Topics {
		if err := validate.TopicFilter(topic); err != nil {
			errs = errs.Append(fmt.Sprintf("topics[%d]", i), err)
		}
	}

	if c.TUI.TickInterval <= 0 {
		errs = errs.Append("tui.tick_interval", fmt.Errorf("must be greater than zero"))
	}

	return errs.ToError()
}

package config

import (
	"fmt"
	"net/url"
	"os"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep runs Validate and additionally checks that an explicitly
// given config file is readable.
func (c *Config) ValidateDeep(configPath string) error {
	if configPath != "" {
		info, err := os.Stat(configPath)
		switch {
		case err == nil && info.IsDir():
			return fmt.Errorf("%s is a directory, not a file", configPath)
		case err != nil && !os.IsNotExist(err):
			return fmt.Errorf("cannot access %s: %w", configPath, err)
		}
	}

	return c.Validate()
}

// Warnings returns settings that work but are likely mistakes.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	u, err := url.Parse(c.Broker.URL)
	if err != nil {
		return nil
	}

	tls := u.Scheme == "mqtts" || u.Scheme == "ssl" || u.Scheme == "tls" || u.Scheme == "wss"

	if c.Broker.Password != "" && !tls {
		warnings = append(warnings, ValidationWarning{
			Category: "Broker",
			Item:     "password",
			Message:  "password is sent unencrypted over " + u.Scheme,
		})
	}

	if c.Broker.Password != "" && c.Broker.Username == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Broker",
			Item:     "username",
			Message:  "password is set without a username",
		})
	}

	if c.Broker.Insecure && !tls {
		warnings = append(warnings, ValidationWarning{
			Category: "Broker",
			Item:     "insecure",
			Message:  "insecure has no effect without TLS",
		})
	}

	if c.Broker.KeepAlive == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Broker",
			Item:     "keep_alive",
			Message:  "keep alive is disabled; a dead connection may go unnoticed",
		})
	}

	return warnings
}

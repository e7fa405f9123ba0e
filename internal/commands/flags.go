package commands

import (
	"os"
	"path/filepath"

	"github.com/hay-kot/mqview/internal/core/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Connection overrides. Only flags that were set replace config values.
	Broker   string
	Username string
	Password string
	ClientID string
	Insecure bool
	Topics   []string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mqview", "config.yaml")
}

// Apply copies the flags for which isSet reports true into cfg.
func (f *Flags) Apply(cfg *config.Config, isSet func(name string) bool) {
	if isSet("broker") {
		cfg.Broker.URL = f.Broker
	}
	if isSet("username") {
		cfg.Broker.Username = f.Username
	}
	if isSet("password") {
		cfg.Broker.Password = f.Password
	}
	if isSet("client-id") {
		cfg.Broker.ClientID = f.ClientID
	}
	if isSet("insecure") {
		cfg.Broker.Insecure = f.Insecure
	}
	if isSet("topic") {
		cfg.Topics = f.Topics
	}
}

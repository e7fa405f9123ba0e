package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hay-kot/mqview/internal/core/config"
)

func TestFlags_Apply(t *testing.T) {
	flags := &Flags{
		Broker:   "mqtts://broker.example:8883",
		Username: "alice",
		Password: "secret",
		ClientID: "mqview-test",
		Insecure: true,
		Topics:   []string{"home/#", "office/+"},
	}

	tests := []struct {
		name  string
		set   []string
		check func(t *testing.T, cfg config.Config)
	}{
		{
			name: "nothing set keeps config",
			check: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, config.DefaultConfig(), cfg)
			},
		},
		{
			name: "broker only",
			set:  []string{"broker"},
			check: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, "mqtts://broker.example:8883", cfg.Broker.URL)
				assert.Empty(t, cfg.Broker.Username)
				assert.Equal(t, []string{config.DefaultTopic}, cfg.Topics)
			},
		},
		{
			name: "all set",
			set:  []string{"broker", "username", "password", "client-id", "insecure", "topic"},
			check: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, "mqtts://broker.example:8883", cfg.Broker.URL)
				assert.Equal(t, "alice", cfg.Broker.Username)
				assert.Equal(t, "secret", cfg.Broker.Password)
				assert.Equal(t, "mqview-test", cfg.Broker.ClientID)
				assert.True(t, cfg.Broker.Insecure)
				assert.Equal(t, []string{"home/#", "office/+"}, cfg.Topics)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			isSet := func(name string) bool {
				for _, s := range tt.set {
					if s == name {
						return true
					}
				}
				return false
			}

			flags.Apply(&cfg, isSet)
			tt.check(t, cfg)
		})
	}
}

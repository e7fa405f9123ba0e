package doctor

import (
	"context"
	"time"

	"github.com/hay-kot/mqview/internal/broker"
	"github.com/hay-kot/mqview/internal/core/config"
)

// PingFunc connects to a broker once and reports the time to connect.
type PingFunc func(ctx context.Context, cfg config.BrokerConfig) (time.Duration, error)

// BrokerCheck verifies the broker accepts a connection with the configured
// credentials.
type BrokerCheck struct {
	config *config.Config
	ping   PingFunc
}

// NewBrokerCheck creates a broker check. A nil ping uses broker.Ping.
func NewBrokerCheck(cfg *config.Config, ping PingFunc) *BrokerCheck {
	if ping == nil {
		ping = broker.Ping
	}
	return &BrokerCheck{config: cfg, ping: ping}
}

func (c *BrokerCheck) Name() string {
	return "Broker"
}

func (c *BrokerCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.config == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Connect",
			Status: StatusFail,
			Detail: "configuration not loaded",
		})
		return result
	}

	url := c.config.Broker.URL
	if err := c.config.Validate(); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  url,
			Status: StatusWarn,
			Detail: "skipped, configuration is invalid",
		})
		return result
	}

	elapsed, err := c.ping(ctx, c.config.Broker)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  url,
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  url,
		Status: StatusPass,
		Detail: "connected in " + elapsed.Round(time.Millisecond).String(),
	})
	return result
}

package broker

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/hay-kot/mqview/internal/core/config"
)

// Ping connects to the broker once and disconnects again. It returns how
// long the broker took to acknowledge the connection.
func Ping(ctx context.Context, cfg config.BrokerConfig) (time.Duration, error) {
	opts, err := ClientOptions(cfg)
	if err != nil {
		return 0, err
	}
	opts.SetAutoReconnect(false)

	return ping(ctx, mqtt.NewClient(opts), cfg.ConnectTimeout)
}

func ping(ctx context.Context, client mqtt.Client, timeout time.Duration) (time.Duration, error) {
	start := time.Now()
	if err := wait(ctx, client.Connect(), timeout); err != nil {
		return 0, fmt.Errorf("connect: %w", err)
	}
	elapsed := time.Since(start)

	client.Disconnect(quiesce)
	return elapsed, nil
}

package broker

import (
	"context"
	"errors"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/hay-kot/mqview/internal/core/history"
)

// Message is a single received message.
type Message struct {
	Topic    string
	QoS      byte
	Retained bool
	Raw      []byte
	Payload  history.Payload
}

// ReadOneOptions configures ReadOne.
type ReadOneOptions struct {
	Topics []string
	// IgnoreRetained skips retained messages and waits for a live one.
	IgnoreRetained bool
}

// ReadOne connects client, subscribes to the topics and returns the first
// message that arrives. The client is disconnected before returning. The
// wait is bounded by ctx.
func ReadOne(ctx context.Context, client mqtt.Client, opts ReadOneOptions) (Message, error) {
	received := make(chan mqtt.Message, 1)
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		if msg.Duplicate() || (opts.IgnoreRetained && msg.Retained()) {
			return
		}
		select {
		case received <- msg:
		default:
		}
	}

	if err := waitCtx(ctx, client.Connect()); err != nil {
		return Message{}, fmt.Errorf("connect: %w", err)
	}
	defer client.Disconnect(quiesce)

	filters := make(map[string]byte, len(opts.Topics))
	for _, t := range opts.Topics {
		filters[t] = subscribeQoS
	}
	if err := waitCtx(ctx, client.SubscribeMultiple(filters, handler)); err != nil {
		return Message{}, fmt.Errorf("subscribe: %w", err)
	}

	select {
	case msg := <-received:
		return Message{
			Topic:    msg.Topic(),
			QoS:      msg.Qos(),
			Retained: msg.Retained(),
			Raw:      msg.Payload(),
			Payload:  history.ParsePayload(msg.Payload()),
		}, nil
	case <-ctx.Done():
		return Message{}, ctxErr(ctx)
	}
}

func waitCtx(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctxErr(ctx)
	}
}

func ctxErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ctx.Err()
}

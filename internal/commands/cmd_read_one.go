package commands

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mqview/internal/broker"
	"github.com/hay-kot/mqview/internal/core/history"
	"github.com/hay-kot/mqview/internal/printer"
)

type ReadOneCmd struct {
	flags          *Flags
	ignoreRetained bool
	timeout        time.Duration
}

// NewReadOneCmd creates a new read-one command
func NewReadOneCmd(flags *Flags) *ReadOneCmd {
	return &ReadOneCmd{flags: flags}
}

// Register adds the read-one command to the application
func (cmd *ReadOneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "read-one",
		Usage:     "Print the first message received on the topics and exit",
		UsageText: "mqview read-one [options]",
		Description: `Connects, subscribes to the configured topics and waits for one message.
The topic is printed to stderr and the payload to stdout so it can be piped.
Payloads that are not valid UTF-8 exit with status 1.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "ignore-retained",
				Usage:       "wait for a live message instead of a retained one",
				Destination: &cmd.ignoreRetained,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "give up after this long (0 waits forever)",
				Destination: &cmd.timeout,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReadOneCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	opts, err := broker.ClientOptions(cfg.Broker)
	if err != nil {
		return err
	}
	opts.SetAutoReconnect(false)

	if cmd.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.timeout)
		defer cancel()
	}

	msg, err := broker.ReadOne(ctx, mqtt.NewClient(opts), broker.ReadOneOptions{
		Topics:         cfg.Topics,
		IgnoreRetained: cmd.ignoreRetained,
	})
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Topic(msg.Topic, msg.QoS, msg.Retained)
	return writePayload(c, msg.Payload)
}

func writePayload(c *cli.Command, p history.Payload) error {
	if p.Kind == history.PayloadNotUTF8 {
		return cli.Exit("payload is not valid UTF-8: "+p.Text, 1)
	}
	_, err := fmt.Fprintln(c.Root().Writer, p.Text)
	return err
}

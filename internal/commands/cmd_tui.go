package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/mqview/internal/broker"
	"github.com/hay-kot/mqview/internal/tui"
)

type TuiCmd struct {
	flags        *Flags
	tickInterval time.Duration
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{
		flags: flags,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "tick-interval",
			Usage:       "redraw at least this often while no input arrives",
			Sources:     cli.EnvVars("MQVIEW_TICK_INTERVAL"),
			Destination: &cmd.tickInterval,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, c *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the explorer needs a terminal; use 'mqview read-one' in scripts")
	}

	cfg := cmd.flags.Config
	if c.IsSet("tick-interval") {
		cfg.TUI.TickInterval = cmd.tickInterval
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	conn, err := broker.Connect(ctx, cfg, log.With().Str("component", "broker").Logger())
	if err != nil {
		return err
	}
	defer conn.Close()

	m := tui.New(conn, cfg, tui.Options{Logger: log.Logger})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	if fm, ok := final.(tui.Model); ok {
		return fm.Err()
	}
	return nil
}

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mqview/internal/core/config"
	"github.com/hay-kot/mqview/internal/printer"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "mqview config validate [options]",
				Description: "Validates the configuration file together with flag overrides: broker URL, topic filters and timeouts.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// validationReport is the outcome of validating the effective config.
type validationReport struct {
	Broker   string                     `json:"broker"`
	Topics   []string                   `json:"topics"`
	Valid    bool                       `json:"valid"`
	Errors   []fieldError               `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	report := buildReport(cfg, cfg.ValidateDeep(cmd.flags.ConfigPath))

	switch cmd.format {
	case "json":
		return writeReportJSON(c.Root().Writer, report)
	case "text":
		return outputReportText(printer.Ctx(ctx), report)
	default:
		return fmt.Errorf("unknown format %q (use text or json)", cmd.format)
	}
}

func buildReport(cfg *config.Config, validationErr error) validationReport {
	report := validationReport{
		Broker:   cfg.Broker.URL,
		Topics:   cfg.Topics,
		Valid:    validationErr == nil,
		Warnings: cfg.Warnings(),
	}

	for _, fe := range extractFieldErrors(validationErr) {
		report.Errors = append(report.Errors, fieldError{Field: fe.Field, Message: fe.Err.Error()})
	}
	return report
}

// extractFieldErrors extracts field errors from a validation error.
func extractFieldErrors(err error) criterio.FieldErrors {
	if err == nil {
		return nil
	}
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return criterio.FieldErrors{{Err: err}}
}

func writeReportJSON(w io.Writer, report validationReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func outputReportText(p *printer.Printer, report validationReport) error {
	p.Printf("Broker  %s", report.Broker)
	p.Printf("Topics  %s", strings.Join(report.Topics, " "))
	p.Printf("")

	if len(report.Errors) > 0 {
		p.Printf("Errors")
		for _, fe := range report.Errors {
			if fe.Field != "" {
				p.Printf("  %s %s: %s", printer.Cross, fe.Field, fe.Message)
			} else {
				p.Printf("  %s %s", printer.Cross, fe.Message)
			}
		}
	}

	if len(report.Warnings) > 0 {
		if len(report.Errors) > 0 {
			p.Printf("")
		}
		p.Printf("Warnings")
		for _, warn := range report.Warnings {
			msg := warn.Message
			if warn.Item != "" {
				msg = warn.Item + ": " + msg
			}
			p.Printf("  %s %s: %s", printer.Dot, warn.Category, msg)
		}
	}

	p.Printf("")
	if report.Valid {
		if len(report.Warnings) > 0 {
			p.Successf("Configuration is valid (%d warning(s))", len(report.Warnings))
		} else {
			p.Successf("Configuration is valid")
		}
		return nil
	}

	p.Errorf("%d error(s), %d warning(s)", len(report.Errors), len(report.Warnings))
	return cli.Exit("", 1)
}

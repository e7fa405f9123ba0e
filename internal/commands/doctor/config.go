package doctor

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/mqview/internal/core/config"
)

// ConfigCheck validates the effective configuration.
type ConfigCheck struct {
	config     *config.Config
	configPath string
}

// NewConfigCheck creates a new configuration check.
func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{
		config:     cfg,
		configPath: configPath,
	}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.config == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Config loaded",
			Status: StatusFail,
			Detail: "configuration not loaded",
		})
		return result
	}

	result.Items = append(result.Items, c.fileItem())

	err := c.config.ValidateDeep(c.configPath)
	if err == nil {
		result.Items = append(result.Items,
			CheckItem{Label: "Broker", Status: StatusPass, Detail: c.config.Broker.URL},
			CheckItem{Label: "Topics", Status: StatusPass, Detail: strings.Join(c.config.Topics, ", ")},
		)
	}

	var fieldErrs criterio.FieldErrors
	switch {
	case err == nil:
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			label := fe.Field
			if label == "" {
				label = "validation"
			}
			result.Items = append(result.Items, CheckItem{
				Label:  label,
				Status: StatusFail,
				Detail: fe.Err.Error(),
			})
		}
	default:
		result.Items = append(result.Items, CheckItem{
			Label:  "validation",
			Status: StatusFail,
			Detail: err.Error(),
		})
	}

	for _, w := range c.config.Warnings() {
		label := w.Category
		if w.Item != "" {
			label += " (" + w.Item + ")"
		}
		result.Items = append(result.Items, CheckItem{
			Label:  label,
			Status: StatusWarn,
			Detail: w.Message,
		})
	}

	return result
}

// fileItem reports where the configuration came from. A missing file is
// fine, every setting has a default.
func (c *ConfigCheck) fileItem() CheckItem {
	if c.configPath == "" {
		return CheckItem{Label: "Config file", Status: StatusPass, Detail: "defaults"}
	}
	if _, err := os.Stat(c.configPath); errors.Is(err, os.ErrNotExist) {
		return CheckItem{Label: "Config file", Status: StatusPass, Detail: "not found, using defaults"}
	}
	return CheckItem{Label: "Config file", Status: StatusPass, Detail: c.configPath}
}

package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/mqview/internal/core/config"
	"github.com/hay-kot/mqview/internal/printer"
)

func TestBuildReport(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := config.DefaultConfig()
		report := buildReport(&cfg, cfg.Validate())

		assert.True(t, report.Valid)
		assert.Empty(t, report.Errors)
		assert.Equal(t, "mqtt://localhost:1883", report.Broker)
		assert.Equal(t, []string{"#"}, report.Topics)
	})

	t.Run("field errors", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Broker.URL = ""
		report := buildReport(&cfg, cfg.Validate())

		assert.False(t, report.Valid)
		require.NotEmpty(t, report.Errors)
		assert.Contains(t, report.Errors[0].Field, "broker")
	})
}

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	report := validationReport{Broker: "mqtt://localhost:1883", Topics: []string{"#"}, Valid: true}

	require.NoError(t, writeReportJSON(&buf, report))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, true, got["valid"])
	assert.Equal(t, "mqtt://localhost:1883", got["broker"])
	assert.NotContains(t, got, "errors")
}

func TestOutputReportText(t *testing.T) {
	var buf bytes.Buffer
	p := printer.New(&buf)

	report := validationReport{
		Broker: "mqtt://localhost:1883",
		Topics: []string{"home/#", "office/#"},
		Valid:  false,
		Errors: []fieldError{{Field: "topics[0]", Message: "invalid"}},
	}

	err := outputReportText(p, report)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "Topics  home/# office/#")
	assert.Contains(t, out, "✘ topics[0]: invalid")
	assert.Contains(t, out, "1 error(s), 0 warning(s)")
}

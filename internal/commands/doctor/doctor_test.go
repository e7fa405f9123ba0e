package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/mqview/internal/core/config"
)

func labels(r Result) map[string]Status {
	out := make(map[string]Status, len(r.Items))
	for _, item := range r.Items {
		out[item.Label] = item.Status
	}
	return out
}

func TestConfigCheck(t *testing.T) {
	t.Run("defaults pass", func(t *testing.T) {
		cfg := config.DefaultConfig()
		result := NewConfigCheck(&cfg, filepath.Join(t.TempDir(), "missing.yaml")).Run(context.Background())

		passed, warned, failed := Summary([]Result{result})
		assert.Equal(t, 0, failed)
		assert.Equal(t, 0, warned)
		assert.Equal(t, 3, passed)
		assert.Equal(t, "not found, using defaults", result.Items[0].Detail)
	})

	t.Run("field errors and warnings", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Topics = []string{"a/#/b"}
		cfg.Broker.Password = "secret"

		result := NewConfigCheck(&cfg, "").Run(context.Background())
		got := labels(result)

		assert.Equal(t, StatusFail, got["topics[0]"])
		assert.Equal(t, StatusWarn, got["Broker (password)"])
		assert.Equal(t, StatusWarn, got["Broker (username)"])
		assert.NotContains(t, got, "Broker")
	})

	t.Run("directory as config file", func(t *testing.T) {
		cfg := config.DefaultConfig()
		result := NewConfigCheck(&cfg, t.TempDir()).Run(context.Background())
		assert.Equal(t, StatusFail, labels(result)["validation"])
	})

	t.Run("nil config", func(t *testing.T) {
		result := NewConfigCheck(nil, "").Run(context.Background())
		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusFail, result.Items[0].Status)
	})
}

func TestConfigCheck_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("topics: ['#']\n"), 0o644))

	cfg := config.DefaultConfig()
	result := NewConfigCheck(&cfg, path).Run(context.Background())
	assert.Equal(t, path, result.Items[0].Detail)
}

func TestBrokerCheck(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*config.Config)
		pingErr    error
		wantStatus Status
		wantPinged bool
	}{
		{"connected", func(*config.Config) {}, nil, StatusPass, true},
		{"refused", func(*config.Config) {}, errors.New("connection refused"), StatusFail, true},
		{"invalid config skips", func(c *config.Config) { c.Broker.URL = "" }, nil, StatusWarn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(&cfg)

			pinged := false
			check := NewBrokerCheck(&cfg, func(_ context.Context, bc config.BrokerConfig) (time.Duration, error) {
				pinged = true
				assert.Equal(t, cfg.Broker, bc)
				return 12 * time.Millisecond, tt.pingErr
			})

			results := RunAll(context.Background(), []Check{check})
			require.Len(t, results, 1)
			require.Len(t, results[0].Items, 1)

			item := results[0].Items[0]
			assert.Equal(t, tt.wantStatus, item.Status)
			assert.Equal(t, tt.wantStatus.String(), item.StatusStr)
			assert.Equal(t, tt.wantPinged, pinged)
			if tt.wantStatus == StatusPass {
				assert.Equal(t, "connected in 12ms", item.Detail)
			}
		})
	}
}

package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/mqview/internal/core/config"
)

func TestPing(t *testing.T) {
	client := &fakeClient{}

	elapsed, err := ping(context.Background(), client, time.Second)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	assert.True(t, client.disconnected)
}

func TestPing_ConnectError(t *testing.T) {
	client := &fakeClient{connectErr: errors.New("not authorized")}

	_, err := ping(context.Background(), client, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect: not authorized")
	assert.False(t, client.disconnected)
}

func TestPing_InvalidURL(t *testing.T) {
	cfg := config.DefaultConfig().Broker
	cfg.URL = "http://localhost"

	_, err := Ping(context.Background(), cfg)
	assert.Error(t, err)
}

package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/mqview/internal/core/config"
	"github.com/hay-kot/mqview/internal/core/history"
)

func TestReadOne(t *testing.T) {
	deliver := []fakeMessage{
		{topic: "dup", payload: []byte("1"), dup: true},
		{topic: "retained", payload: []byte("2"), retained: true},
		{topic: "live", payload: []byte("hello")},
		{topic: "later", payload: []byte("4")},
	}

	tests := []struct {
		name           string
		ignoreRetained bool
		wantTopic      string
	}{
		{"first non duplicate", false, "retained"},
		{"skip retained", true, "live"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{deliver: deliver}

			msg, err := ReadOne(context.Background(), client, ReadOneOptions{
				Topics:         []string{"#"},
				IgnoreRetained: tt.ignoreRetained,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTopic, msg.Topic)
			assert.True(t, client.disconnected)
			assert.Equal(t, map[string]byte{"#": 2}, client.filters)
		})
	}
}

func TestReadOne_Payload(t *testing.T) {
	client := &fakeClient{deliver: []fakeMessage{{topic: "bin", payload: []byte{0xfe, 0xff}}}}

	msg, err := ReadOne(context.Background(), client, ReadOneOptions{Topics: []string{"bin"}})
	require.NoError(t, err)
	assert.Equal(t, history.PayloadNotUTF8, msg.Payload.Kind)
	assert.Equal(t, []byte{0xfe, 0xff}, msg.Raw)
}

func TestReadOne_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := ReadOne(ctx, &fakeClient{}, ReadOneOptions{Topics: []string{"#"}})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestReadOne_ConnectError(t *testing.T) {
	client := &fakeClient{connectErr: errors.New("refused")}

	_, err := ReadOne(context.Background(), client, ReadOneOptions{Topics: []string{"#"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect: refused")
	assert.False(t, client.disconnected)
}

func TestServerURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"mqtt://localhost", "mqtt://localhost:1883", false},
		{"mqtts://broker.example.com", "mqtts://broker.example.com:8883", false},
		{"ws://localhost/mqtt", "ws://localhost:80/mqtt", false},
		{"wss://localhost:9001/mqtt", "wss://localhost:9001/mqtt", false},
		{"tcp://[::1]", "tcp://[::1]:1883", false},
		{"http://localhost", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ServerURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientOptions(t *testing.T) {
	cfg := config.DefaultConfig().Broker
	cfg.Username = "alice"
	cfg.Password = "secret"
	cfg.Insecure = true

	opts, err := ClientOptions(cfg)
	require.NoError(t, err)

	assert.Regexp(t, `^mqview-[a-z0-9]{8}$`, opts.ClientID)
	assert.Equal(t, "alice", opts.Username)
	assert.Equal(t, "secret", opts.Password)
	require.Len(t, opts.Servers, 1)
	assert.Equal(t, "mqtt://localhost:1883", opts.Servers[0].String())
	require.NotNil(t, opts.TLSConfig)
	assert.True(t, opts.TLSConfig.InsecureSkipVerify)

	cfg.ClientID = "fixed"
	opts, err = ClientOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, "fixed", opts.ClientID)
}

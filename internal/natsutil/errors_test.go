package natsutil

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

func TestIsTimeout(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"nats timeout", nats.ErrTimeout, true},
		{"wrapped nats timeout", fmt.Errorf("next msg: %w", nats.ErrTimeout), true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"no messages", jetstream.ErrNoMessages, true},
		{"connection closed", nats.ErrConnectionClosed, false},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsTimeout(tt.err))
		})
	}
}

func TestIsConnectivityError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"timeout", nats.ErrTimeout, true},
		{"no servers", nats.ErrNoServers, true},
		{"disconnected", nats.ErrDisconnected, true},
		{"closed", fmt.Errorf("publish: %w", nats.ErrConnectionClosed), true},
		{"no stream response", jetstream.ErrNoStreamResponse, true},
		{"connection refused text", errors.New("dial tcp 127.0.0.1:4222: connection refused"), true},
		{"stream not found", jetstream.ErrStreamNotFound, false},
		{"plain", errors.New("bad request"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsConnectivityError(tt.err))
		})
	}
}

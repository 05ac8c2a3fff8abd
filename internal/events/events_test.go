package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewMessage(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m, err := newMessage("order-1", EventOrderPlaced, map[string]any{"total": "600"}, at)
	require.NoError(t, err)

	assert.Equal(t, []byte("order-1"), m.Key)
	require.Len(t, m.Headers, 2)
	assert.Equal(t, "x-event-type", m.Headers[0].Key)
	assert.Equal(t, EventOrderPlaced, string(m.Headers[0].Value))

	var env Envelope
	require.NoError(t, json.Unmarshal(m.Value, &env))
	assert.Equal(t, EventOrderPlaced, env.Type)
	assert.Equal(t, 1, env.Version)
	assert.True(t, at.Equal(env.OccurredAt))
	assert.JSONEq(t, `{"total":"600"}`, string(env.Payload))
}

func TestKafkaPublisherRejectsAfterClose(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "order.placed", 1, zap.NewNop())
	p.Close()
	p.Close()

	err := p.Publish(context.Background(), "k", EventOrderPlaced, struct{}{})
	assert.ErrorIs(t, err, ErrPublisherClosed)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), "k", EventOrderPlaced, nil))
}

func TestKafkaPublisherCloseUnblocksFullInbox(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "order.placed", 1, zap.NewNop())
	require.NoError(t, p.Publish(context.Background(), "k1", EventOrderPlaced, struct{}{}))

	errc := make(chan error, 1)
	go func() {
		errc <- p.Publish(context.Background(), "k2", EventOrderPlaced, struct{}{})
	}()

	closed := make(chan struct{})
	go func() {
		p.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close blocked behind a waiting Publish")
	}
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrPublisherClosed)
	case <-time.After(time.Second):
		t.Fatal("Publish still waiting after Close")
	}
}

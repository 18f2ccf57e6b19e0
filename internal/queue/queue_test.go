package queue

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventEnvelope(t *testing.T) {
	ev, err := NewEvent(ContractOffered, ContractPayload{ContractID: 9, Hours: 2, Price: 50, Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, ContractOffered, ev.Type)
	assert.WithinDuration(t, time.Now(), ev.OccurredAt, time.Second)

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "contract.offered", decoded["type"])
	assert.Equal(t, float64(9), decoded["payload"].(map[string]any)["contract_id"])
}

func TestFormatLineMasksToken(t *testing.T) {
	ev, err := NewEvent(PasswordResetRequested, PasswordResetPayload{UserID: 1, Email: "a@b.c", Token: "secret"})
	require.NoError(t, err)
	line := FormatLine(ev)
	assert.Contains(t, line, "password.reset_requested")
	assert.Contains(t, line, "email=a@b.c")
	assert.Contains(t, line, "token=***")
	assert.NotContains(t, line, "secret")
}

func TestConsumerHandleAppends(t *testing.T) {
	c := NewConsumer("amqp://unused", nil)
	c.LogPath = filepath.Join(t.TempDir(), "logs", "notifications.log")

	for _, typ := range []string{UserRegistered, MessageSent} {
		ev, err := NewEvent(typ, map[string]any{"user_id": 1})
		require.NoError(t, err)
		body, err := json.Marshal(ev)
		require.NoError(t, err)
		require.NoError(t, c.Handle(body))
	}
	data, err := os.ReadFile(c.LogPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "user.registered")
	assert.Contains(t, string(data), "message.sent")

	assert.Error(t, c.Handle([]byte("not json")))
	assert.Error(t, c.Handle([]byte(`{"payload":{}}`)))
}

func TestDisabledPublisherDropsEvents(t *testing.T) {
	p := NewPublisher("", nil)
	assert.False(t, p.Enabled())
	ev, err := NewEvent(UserRegistered, UserRegisteredPayload{UserID: 1})
	require.NoError(t, err)
	assert.NoError(t, p.Publish(context.Background(), ev))
	assert.NoError(t, p.Close())
}

func TestPublisherDoesNotBlockOnSilentBroker(t *testing.T) {
	// accepts TCP connections but never speaks AMQP
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	var held []net.Conn
	var mu sync.Mutex
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			held = append(held, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range held {
			_ = c.Close()
		}
	})

	p := NewPublisher("amqp://guest:guest@"+ln.Addr().String()+"/", nil)
	p.dialTimeout = 2 * time.Second
	defer p.Close()

	ev, err := NewEvent(UserRegistered, UserRegisteredPayload{UserID: 1})
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, p.Publish(context.Background(), ev), ErrNotConnected)
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	p.mu.Lock()
	assert.True(t, p.dialing)
	p.mu.Unlock()
}

func TestConsumerRequiresURL(t *testing.T) {
	assert.Error(t, NewConsumer("", nil).Run(context.Background()))
}

package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewHub(t *testing.T) {
	hub := NewHub(testLogger())

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.broadcast)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
}

func TestHub_AddAndRemoveClient(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &Client{
		hub:  hub,
		send: make(chan []byte, 1),
	}

	hub.register <- client
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, hub.ConnectedClients())

	hub.unregister <- client
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, hub.ConnectedClients())
}

func TestHub_Publish(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &Client{
		hub:  hub,
		send: make(chan []byte, 10),
	}

	hub.register <- client
	time.Sleep(50 * time.Millisecond)

	testData := map[string]string{"message": "test"}
	hub.Publish(ChannelEventCreated, testData)

	select {
	case raw := <-client.send:
		var msg Message
		err := json.Unmarshal(raw, &msg)
		assert.NoError(t, err)
		assert.Equal(t, ChannelEventCreated, msg.Channel)
		assert.False(t, msg.Timestamp.IsZero())
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestHub_PublishReachesAllClients(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client1 := &Client{
		hub:  hub,
		send: make(chan []byte, 10),
	}

	client2 := &Client{
		hub:  hub,
		send: make(chan []byte, 10),
	}

	hub.register <- client1
	hub.register <- client2
	time.Sleep(50 * time.Millisecond)

	hub.Publish(ChannelAlertStranger, map[string]string{"message": "stranger at the door"})

	for i, client := range []*Client{client1, client2} {
		select {
		case raw := <-client.send:
			var msg Message
			assert.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, ChannelAlertStranger, msg.Channel)
		case <-time.After(1 * time.Second):
			t.Fatalf("client%d should receive message", i+1)
		}
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	// Unbuffered send channel with no reader: the first fan-out cannot
	// enqueue, so the hub must evict the client.
	slow := &Client{
		hub:  hub,
		send: make(chan []byte),
	}

	hub.register <- slow
	time.Sleep(50 * time.Millisecond)

	hub.Publish(ChannelDetectionLive, map[string]int{"faces": 1})
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, hub.ConnectedClients())

	_, open := <-slow.send
	assert.False(t, open, "send channel should be closed")
}

func TestHub_RunStopsOnContextCancel(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	client := &Client{
		hub:  hub,
		send: make(chan []byte, 1),
	}
	hub.register <- client
	time.Sleep(50 * time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("hub did not stop after cancel")
	}

	_, open := <-client.send
	assert.False(t, open, "send channel should be closed on shutdown")
}

func TestHub_DropAfterShutdownDoesNotBlock(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &Client{
		hub:  hub,
		send: make(chan []byte, 1),
	}
	hub.join(client)
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-stopped

	returned := make(chan struct{})
	go func() {
		hub.drop(client)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(1 * time.Second):
		t.Fatal("drop blocked after hub shutdown")
	}

	late := &Client{
		hub:  hub,
		send: make(chan []byte, 1),
	}
	hub.join(late)

	_, open := <-late.send
	assert.False(t, open, "late join should have its send channel closed")
}

func TestHub_PublishLogsDropWhenQueueFull(t *testing.T) {
	var buf bytes.Buffer
	hub := NewHub(slog.New(slog.NewTextHandler(&buf, nil)))

	// No Run loop draining the queue, so filling the buffer forces the
	// next Publish onto the discard path.
	for i := 0; i < cap(hub.broadcast); i++ {
		hub.Publish(ChannelEventCreated, nil)
	}
	assert.Empty(t, buf.String())

	hub.Publish(ChannelAlertStranger, map[string]string{"message": "stranger at the door"})

	assert.Contains(t, buf.String(), "broadcast queue full")
	assert.Contains(t, buf.String(), string(ChannelAlertStranger))
}

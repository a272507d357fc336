package main

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	raw := []byte(`{"eventType":"appointment.booked","sessionId":"s-1","appointment":{"id":"APT-100001"}}`)
	ev, err := decodeEvent("appointment.lifecycle", raw)
	require.NoError(t, err)
	assert.Equal(t, "appointment.booked", ev.EventType)
	assert.Equal(t, "s-1", ev.SessionID)
	assert.Equal(t, "appointment.lifecycle", ev.Topic)
	assert.JSONEq(t, string(raw), string(ev.Payload))

	_, err = decodeEvent("t", []byte("not json"))
	assert.Error(t, err)
}

func TestHub_BroadcastsToWebSocket(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := newHub()
	go hub.run(ctx)

	srv := httptest.NewServer(wsHandler(hub))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// registration happens on the hub goroutine; retry until the client sees an event
	ev, err := decodeEvent("appointment.conversation.turn", []byte(`{"eventType":"conversation.turn","sessionId":"s-9"}`))
	require.NoError(t, err)

	got := make(chan Event, 1)
	go func() {
		var e Event
		if err := conn.ReadJSON(&e); err == nil {
			got <- e
		}
	}()

	deadline := time.After(2 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case e := <-got:
			assert.Equal(t, "s-9", e.SessionID)
			assert.Equal(t, "conversation.turn", e.EventType)
			return
		case <-tick.C:
			hub.Broadcast(ev)
		case <-deadline:
			t.Fatal("no event received")
		}
	}
}

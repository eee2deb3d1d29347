package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestBroadcastToRoomReachesOnlyThatRoom(t *testing.T) {
	hub := startHub(t)

	inRoom := NewClient(hub, nil, RunRoom(7))
	elsewhere := NewClient(hub, nil, RunRoom(8))
	require.True(t, hub.Subscribe(inRoom))
	require.True(t, hub.Subscribe(elsewhere))
	require.Eventually(t, func() bool { return hub.RoomSize(RunRoom(7)) == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastToRoom(RunRoom(7), Message{Type: MessageRunUpdated, Payload: map[string]int{"version": 3}})

	select {
	case raw := <-inRoom.Send:
		var got Message
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, MessageRunUpdated, got.Type)
		assert.Equal(t, "run_7", got.RoomID)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
	assert.Empty(t, elsewhere.Send)
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	hub := startHub(t)

	client := NewClient(hub, nil, RatingsRoom)
	require.True(t, hub.Subscribe(client))
	hub.Unsubscribe(client)
	require.Eventually(t, func() bool { return hub.RoomSize(RatingsRoom) == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-client.Send
	assert.False(t, open)

	// Broadcasting to an empty room is a no-op.
	hub.BroadcastToRoom(RatingsRoom, Message{Type: MessageRatingChanged})
}

func TestStoppedHubDoesNotBlockCallers(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	early := NewClient(hub, nil, RunRoom(1))
	require.True(t, hub.Subscribe(early))

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	_, open := <-early.Send
	assert.False(t, open, "stopping the hub closes subscribed clients")

	returned := make(chan bool)
	go func() {
		hub.Unsubscribe(early)
		returned <- hub.Subscribe(NewClient(hub, nil, RunRoom(1)))
	}()
	select {
	case ok := <-returned:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscribe or unsubscribe blocked after the hub stopped")
	}
	assert.Zero(t, hub.RoomSize(RunRoom(1)))
}

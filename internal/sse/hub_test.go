package sse

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yarnscape/yarnscape-backend/internal/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan Message, timeout time.Duration) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return Message{}
}

func TestHubBroadcastOrdering(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	userID := uuid.New()
	channel := UserChannel(userID)

	client := hub.NewClient(userID)
	hub.AddChannel(client, channel)

	first := Message{Channel: channel, Event: EventBadgeAwarded, Data: map[string]any{"seq": 1}}
	second := Message{Channel: channel, Event: EventPatternPublished, Data: map[string]any{"seq": 2}}
	hub.Broadcast(first)
	hub.Broadcast(second)

	gotFirst := recvMessage(t, client.Outbound, time.Second)
	gotSecond := recvMessage(t, client.Outbound, time.Second)
	if gotFirst.Event != EventBadgeAwarded {
		t.Fatalf("first event: want=%s got=%s", EventBadgeAwarded, gotFirst.Event)
	}
	if gotSecond.Event != EventPatternPublished {
		t.Fatalf("second event: want=%s got=%s", EventPatternPublished, gotSecond.Event)
	}
}

func TestHubChannelIsolation(t *testing.T) {
	hub := NewHub(mustTestLogger(t))

	userA := uuid.New()
	userB := uuid.New()
	clientA := hub.NewClient(userA)
	clientB := hub.NewClient(userB)
	hub.AddChannel(clientA, UserChannel(userA))
	hub.AddChannel(clientB, UserChannel(userB))

	hub.Broadcast(Message{Channel: UserChannel(userA), Event: EventBadgeAwarded})

	got := recvMessage(t, clientA.Outbound, time.Second)
	if got.Channel != UserChannel(userA) {
		t.Fatalf("wrong channel: %s", got.Channel)
	}
	select {
	case msg := <-clientB.Outbound:
		t.Fatalf("client B received a foreign message: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubRemoveClientStopsDelivery(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	userID := uuid.New()
	client := hub.NewClient(userID)
	hub.AddChannel(client, UserChannel(userID))

	hub.RemoveClient(client)
	hub.Broadcast(Message{Channel: UserChannel(userID), Event: EventTrackingCompleted})

	select {
	case msg := <-client.Outbound:
		t.Fatalf("removed client received a message: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	userID := uuid.New()
	client := hub.NewClient(userID)
	hub.AddChannel(client, UserChannel(userID))

	// Nobody drains Outbound; the hub must not block past the buffer.
	for i := 0; i < cap(client.Outbound)+5; i++ {
		hub.Broadcast(Message{Channel: UserChannel(userID), Event: EventBadgeAwarded, Data: map[string]any{"seq": i}})
	}
	if len(client.Outbound) != cap(client.Outbound) {
		t.Fatalf("buffer: want %d queued got %d", cap(client.Outbound), len(client.Outbound))
	}
}

package services

import (
	"context"

	"github.com/google/uuid"

	redisclient "github.com/yarnscape/yarnscape-backend/internal/clients/redis"
	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/sse"
)

// Notifier pushes realtime events at a user's SSE channel. Delivery is best
// effort; a lost event never fails the write that triggered it.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event sse.Event, data any)
}

type hubNotifier struct {
	log *logger.Logger
	hub *sse.Hub
	bus redisclient.EventBus
}

// NewNotifier wires the in-process hub and, when bus is non-nil, the redis
// fan-out so peer instances see the event too. With a bus the local hub is
// fed by the forwarder rather than directly, avoiding double delivery.
func NewNotifier(log *logger.Logger, hub *sse.Hub, bus redisclient.EventBus) Notifier {
	return &hubNotifier{
		log: log.With("service", "Notifier"),
		hub: hub,
		bus: bus,
	}
}

func (n *hubNotifier) Notify(ctx context.Context, userID uuid.UUID, event sse.Event, data any) {
	msg := sse.Message{
		Channel: sse.UserChannel(userID),
		Event:   event,
		Data:    data,
	}
	if n.bus != nil {
		if err := n.bus.Publish(ctx, msg); err != nil {
			n.log.Warn("Redis publish failed, broadcasting locally", "error", err)
			n.hub.Broadcast(msg)
		}
		return
	}
	n.hub.Broadcast(msg)
}

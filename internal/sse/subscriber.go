package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/CaseVault_Go/internal/event"
)

// FeedTypes are the bus events mirrored onto the live feed
var FeedTypes = []event.Type{
	event.DrawCompleted,
	event.DrawRejected,
	event.PrizeBlocked,
	event.SessionLimitReached,
	event.RTPTargetChanged,
	event.RTPRecommended,
	event.EmergencyModeChanged,
}

// Subscriber bridges the event bus to the hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{hub: hub, bus: bus}
}

// Subscribe registers the forwarder for every feed type
func (s *Subscriber) Subscribe() {
	for _, t := range FeedTypes {
		s.bus.Subscribe(t, s.forward)
	}
	slog.Info(LogMsgSubscribed, "types", FeedTypes)
}

// forward always returns nil; a full feed drops the event instead
func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	s.hub.Broadcast(string(evt.Type), evt.Payload)
	return nil
}

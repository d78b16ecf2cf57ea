package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/CaseVault_Go/internal/event"
	"github.com/osse101/CaseVault_Go/internal/logger"
	"github.com/osse101/CaseVault_Go/internal/metrics"
	"github.com/osse101/CaseVault_Go/internal/sse"
)

// InitializeEventSystem creates the event bus and registers the subscribers every deployment
// needs: the metrics collector and a logger for the operator-facing events.
func InitializeEventSystem() event.Bus {
	eventBus := event.NewMemoryBus()

	metrics.NewEventMetricsCollector().Register(eventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	for _, t := range []event.Type{
		event.RTPTargetChanged,
		event.EmergencyModeChanged,
		event.SessionLimitReached,
	} {
		eventBus.Subscribe(t, logEvent)
	}
	slog.Info(LogMsgAuditEventLoggerRegistered)

	slog.Info(LogMsgEventSystemInitialized)
	return eventBus
}

func logEvent(ctx context.Context, evt event.Event) error {
	logger.FromContext(ctx).Info(LogMsgEventPublished,
		"type", evt.Type,
		"version", evt.Version,
		"payload", evt.Payload)
	return nil
}

// InitializeLiveFeed starts the hub behind the admin event stream and mirrors engine events
// onto it
func InitializeLiveFeed(bus event.Bus) *sse.Hub {
	hub := sse.NewHub()
	sse.NewSubscriber(hub, bus).Subscribe()
	hub.Start()
	return hub
}

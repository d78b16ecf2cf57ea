package metrics

import (
	"context"

	"github.com/osse101/CaseVault_Go/internal/event"
	"github.com/osse101/CaseVault_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, t := range []event.Type{
		event.DrawCompleted,
		event.DrawRejected,
		event.PrizeBlocked,
		event.SessionLimitReached,
		event.RTPTargetChanged,
		event.RTPRecommended,
		event.EmergencyModeChanged,
	} {
		bus.Subscribe(t, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics. Decode failures are logged, never returned,
// so metrics can not fail a publisher.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	if err := e.record(evt); err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		logger.FromContext(ctx).Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
	}
	return nil
}

func (e *EventMetricsCollector) record(evt event.Event) error {
	switch evt.Type {
	case event.DrawCompleted:
		p, err := event.DecodePayload[event.DrawCompletedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		DrawsTotal.WithLabelValues(p.Outcome).Inc()
		DrawDuration.Observe(float64(p.LatencyMs) / 1000)
		PrizeCredited.Add(minorToMajor(p.Credited))
		if p.ProtectionApplied {
			ProtectionApplied.Inc()
		}
		if p.Degraded {
			DegradedDraws.Inc()
		}

	case event.DrawRejected:
		DrawsTotal.WithLabelValues("rejected").Inc()

	case event.PrizeBlocked:
		p, err := event.DecodePayload[event.PrizeBlockedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		PrizesBlocked.WithLabelValues(p.Tier).Inc()

	case event.SessionLimitReached:
		SessionLimitReached.Inc()

	case event.RTPTargetChanged:
		p, err := event.DecodePayload[event.RTPTargetChangedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		RTPTargetPercent.Set(bpToPercent(p.NewRatioBP))

	case event.RTPRecommended:
		p, err := event.DecodePayload[event.RTPRecommendedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		RTPRecommendedPercent.Set(bpToPercent(p.RatioBP))

	case event.EmergencyModeChanged:
		p, err := event.DecodePayload[event.EmergencyModeChangedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		if p.Active {
			EmergencyModeActive.Set(1)
		} else {
			EmergencyModeActive.Set(0)
		}
	}
	return nil
}

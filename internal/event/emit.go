package event

import (
	"context"

	"github.com/osse101/CaseVault_Go/internal/logger"
)

// Emit publishes evt tagged with the request id from ctx. Subscriber failures are logged and
// never returned: events are observations and must not fail the operation that produced them.
func Emit(ctx context.Context, bus Bus, evt Event) {
	if bus == nil {
		return
	}
	if id, ok := logger.RequestIDFromContext(ctx); ok {
		evt = evt.WithMetadata(MetadataKeyRequestID, id)
	}
	if err := bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

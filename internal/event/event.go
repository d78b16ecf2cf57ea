package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata map[string]any

// Event represents a generic event in the system
type Event struct {
	Version  string   `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type     `json:"type"`
	Payload  any      `json:"payload"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) any {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Event types
const (
	DrawCompleted        Type = "draw.completed"
	DrawRejected         Type = "draw.rejected"
	PrizeBlocked         Type = "draw.prize_blocked"
	SessionLimitReached  Type = "session.limit_reached"
	RTPTargetChanged     Type = "rtp.target_changed"
	RTPRecommended       Type = "rtp.recommended"
	EmergencyModeChanged Type = "emergency.changed"
)

// DrawCompletedPayloadV1 describes a settled draw
type DrawCompletedPayloadV1 struct {
	DrawID            string `json:"draw_id"`
	UserID            string `json:"user_id"`
	CaseID            int64  `json:"case_id"`
	Outcome           string `json:"outcome"`
	Price             int64  `json:"price"`
	Credited          int64  `json:"credited"`
	Ceiling           int64  `json:"ceiling"`
	ProtectionApplied bool   `json:"protection_applied"`
	Degraded          bool   `json:"degraded"`
	LatencyMs         int64  `json:"latency_ms"`
}

// DrawRejectedPayloadV1 describes a draw refused before any side effect
type DrawRejectedPayloadV1 struct {
	DrawID string `json:"draw_id"`
	UserID string `json:"user_id"`
	CaseID int64  `json:"case_id"`
	Reason string `json:"reason"`
}

// PrizeBlockedPayloadV1 describes one prize excluded by the ceiling
type PrizeBlockedPayloadV1 struct {
	DrawID     string `json:"draw_id"`
	CaseID     int64  `json:"case_id"`
	PrizeID    int64  `json:"prize_id"`
	PrizeValue int64  `json:"prize_value"`
	Ceiling    int64  `json:"ceiling"`
	Tier       string `json:"tier"`
}

// SessionLimitReachedPayloadV1 is emitted once when a session crosses its RTP limit
type SessionLimitReachedPayloadV1 struct {
	SessionID  string `json:"session_id"`
	UserID     string `json:"user_id"`
	CaseID     int64  `json:"case_id"`
	TotalSpent int64  `json:"total_spent"`
	TotalWon   int64  `json:"total_won"`
	LimitBP    int64  `json:"limit_bp"`
}

// RTPTargetChangedPayloadV1 describes a change of the platform RTP target
type RTPTargetChangedPayloadV1 struct {
	OldRatioBP int64  `json:"old_ratio_bp"`
	NewRatioBP int64  `json:"new_ratio_bp"`
	Actor      string `json:"actor"`
	Source     string `json:"source"`
	Reason     string `json:"reason"`
}

// RTPRecommendedPayloadV1 describes a freshly computed recommendation
type RTPRecommendedPayloadV1 struct {
	RatioBP int64  `json:"ratio_bp"`
	Band    string `json:"band"`
	NetCash int64  `json:"net_cash"`
}

// EmergencyModeChangedPayloadV1 describes a kill-switch toggle
type EmergencyModeChangedPayloadV1 struct {
	Active    bool      `json:"active"`
	Actor     string    `json:"actor"`
	Reason    string    `json:"reason,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// New wraps a payload in a versioned event
func New(t Type, payload any) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: payload,
	}
}

// WithMetadata returns a copy of the event carrying key=value in its metadata
func (e Event) WithMetadata(key string, value any) Event {
	md := make(Metadata, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		md[k] = v
	}
	md[key] = value
	e.Metadata = md
	return e
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber of the event's type synchronously and joins their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(ErrMsgHandlerErrorFormat, len(errs), event.Type, errors.Join(errs...))
	}
	return nil
}

// Subscribe registers a handler for an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// NopBus discards every event
type NopBus struct{}

func (NopBus) Publish(context.Context, Event) error { return nil }
func (NopBus) Subscribe(Type, Handler)              {}

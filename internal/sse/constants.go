package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 256

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 64
)

// KeepaliveInterval is how often an idle stream receives a ping
const KeepaliveInterval = 30 * time.Second

// Stream-only event types. Engine events keep their bus type name.
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// QueryParamTypes filters the stream to a comma-separated list of event types
const QueryParamTypes = "types"

// Log messages
const (
	LogMsgClientConnected    = "Live feed client connected"
	LogMsgClientDisconnected = "Live feed client disconnected"
	LogMsgEventDropped       = "Live feed buffer full, event dropped"
	LogMsgWriteError         = "Failed to write live feed event"
	LogMsgSubscribed         = "Live feed subscribed to engine events"
	LogMsgHubStopped         = "Live feed hub stopped"
)

// Error messages
const (
	ErrMsgStreamingUnsupported = "streaming not supported"
	ErrMsgHubStopped           = "live feed is shutting down"
)

package event

// EventSchemaVersion is the current event schema version
const EventSchemaVersion = "1.0"

// Metadata keys
const (
	MetadataKeyRequestID = "request_id"
)

const (
	ErrMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %w"
	ErrMsgPayloadDecode      = "failed to decode event payload"

	LogMsgPublishFailed = "Event publish failed"
)

package metrics

// Namespace prefixes every metric exported by the service
const Namespace = "casevault"

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Draw metric names
const (
	MetricNameDrawsTotal          = "draws_total"
	MetricNameDrawDuration        = "draw_duration_seconds"
	MetricNamePrizeCredited       = "prize_credited_total"
	MetricNamePrizesBlocked       = "prizes_blocked_total"
	MetricNameProtectionApplied   = "protection_applied_total"
	MetricNameDegradedDraws       = "degraded_draws_total"
	MetricNameSessionLimitReached = "session_limit_reached_total"
)

// Safety, RTP and ledger metric names
const (
	MetricNameGuardRejections = "guard_rejections_total"
	MetricNameEmergencyMode   = "emergency_mode_active"
	MetricNameRTPTarget       = "rtp_target_percent"
	MetricNameRTPRecommended  = "rtp_recommended_percent"
	MetricNameNetCashPosition = "net_cash_position"
	MetricNameSessionsClosed  = "sessions_closed_total"
	MetricNameTicksSkipped    = "scheduled_ticks_skipped_total"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Draw metric help text
const (
	HelpTextDrawsTotal          = "Total number of draw attempts by outcome"
	HelpTextDrawDuration        = "Draw latency in seconds"
	HelpTextPrizeCredited       = "Total prize value credited, in major currency units"
	HelpTextPrizesBlocked       = "Prizes excluded by the payout ceiling, by tier"
	HelpTextProtectionApplied   = "Draws whose payout was reduced by a safety rule"
	HelpTextDegradedDraws       = "Draws resolved with the minimum prize after a failure"
	HelpTextSessionLimitReached = "Sessions that reached their RTP limit"
)

// Safety, RTP and ledger metric help text
const (
	HelpTextGuardRejections = "Draws refused or payouts reduced by the safety guard, by reason"
	HelpTextEmergencyMode   = "1 while emergency mode suspends all draws"
	HelpTextRTPTarget       = "Current platform RTP target in percent"
	HelpTextRTPRecommended  = "Latest recommended RTP target in percent"
	HelpTextNetCashPosition = "Operator net cash position in major currency units"
	HelpTextSessionsClosed  = "Sessions closed by the idle sweep"
	HelpTextTicksSkipped    = "Scheduled job runs dropped because the worker queue was full"
)

// Label names
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelOutcome = "outcome"
	LabelTier    = "tier"
	LabelReason  = "reason"
	LabelJob     = "job"
)

// HTTPLatencyBuckets spans 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// DrawLatencyBuckets spans 0.5ms to 5s
var DrawLatencyBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 5}

// Log messages
const (
	LogMsgEventPayloadDecodeFailed = "Failed to decode event payload for metrics"
	LogMsgUnmatchedRoute           = "unmatched"
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsTotal,
			Help:      HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestDuration,
			Help:      HelpTextHTTPRequestDuration,
			Buckets:   HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsInFlight,
			Help:      HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameEventsPublished,
			Help:      HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameEventHandlerErrors,
			Help:      HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Draw Metrics
var (
	DrawsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameDrawsTotal,
			Help:      HelpTextDrawsTotal,
		},
		[]string{LabelOutcome},
	)

	DrawDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameDrawDuration,
			Help:      HelpTextDrawDuration,
			Buckets:   DrawLatencyBuckets,
		},
	)

	PrizeCredited = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNamePrizeCredited,
			Help:      HelpTextPrizeCredited,
		},
	)

	PrizesBlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNamePrizesBlocked,
			Help:      HelpTextPrizesBlocked,
		},
		[]string{LabelTier},
	)

	ProtectionApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameProtectionApplied,
			Help:      HelpTextProtectionApplied,
		},
	)

	DegradedDraws = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameDegradedDraws,
			Help:      HelpTextDegradedDraws,
		},
	)

	SessionLimitReached = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameSessionLimitReached,
			Help:      HelpTextSessionLimitReached,
		},
	)
)

// Safety, RTP and Ledger Metrics
var (
	GuardRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameGuardRejections,
			Help:      HelpTextGuardRejections,
		},
		[]string{LabelReason},
	)

	EmergencyModeActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameEmergencyMode,
			Help:      HelpTextEmergencyMode,
		},
	)

	RTPTargetPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameRTPTarget,
			Help:      HelpTextRTPTarget,
		},
	)

	RTPRecommendedPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameRTPRecommended,
			Help:      HelpTextRTPRecommended,
		},
	)

	NetCashPosition = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameNetCashPosition,
			Help:      HelpTextNetCashPosition,
		},
	)

	SessionsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameSessionsClosed,
			Help:      HelpTextSessionsClosed,
		},
	)

	ScheduledTicksSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameTicksSkipped,
			Help:      HelpTextTicksSkipped,
		},
		[]string{LabelJob},
	)
)

// minorToMajor converts integer minor units to a float gauge value
func minorToMajor(minor int64) float64 {
	return float64(minor) / 100
}

// bpToPercent converts basis points to percent
func bpToPercent(bp int64) float64 {
	return float64(bp) / 100
}

// SetNetCashPosition records the current net cash, given in minor units
func SetNetCashPosition(minor int64) {
	NetCashPosition.Set(minorToMajor(minor))
}

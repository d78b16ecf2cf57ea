package rtp

// Recommendation band names
const (
	BandHigh         = "high"
	BandMid          = "mid"
	BandConservative = "conservative"
)

const (
	cacheKey = "rtp_config"

	// daysUnknown is reported when there was no positive inflow to measure cover against
	daysUnknown = "n/a"
)

const (
	ErrContextGetConfig  = "failed to load rtp config"
	ErrContextSetTarget  = "failed to set rtp target"
	ErrContextRecommend  = "failed to compute rtp recommendation"
	ErrContextApply      = "failed to apply rtp recommendation"
	ErrContextGetHistory = "failed to load rtp history"

	LogMsgTargetChanged    = "RTP target changed"
	LogMsgRecommendation   = "RTP recommendation computed"
	LogMsgConfigCacheHit   = "RTP config served from cache"
	LogMsgRecommendJobDone = "Scheduled RTP recommendation stored"
)

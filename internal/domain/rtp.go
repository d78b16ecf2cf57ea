package domain

import "time"

// RTPChangeSource identifies what triggered an RTP target change.
type RTPChangeSource string

const (
	RTPSourceManual         RTPChangeSource = "manual"
	RTPSourceRecommendation RTPChangeSource = "recommendation"
	RTPSourceBootstrap      RTPChangeSource = "bootstrap"
)

// RTPConfig is the singleton payout-ratio configuration.
type RTPConfig struct {
	TargetRatio      Ratio     `json:"target_ratio_bp"`
	RecommendedRatio *Ratio    `json:"recommended_ratio_bp,omitempty"`
	UpdatedBy        string    `json:"updated_by"`
	UpdatedAt        time.Time `json:"updated_at"`
	Version          int64     `json:"version"`
}

// RTPHistoryEntry is one immutable change of the RTP target.
type RTPHistoryEntry struct {
	ID        int64           `json:"id"`
	OldRatio  Ratio           `json:"old_ratio_bp"`
	NewRatio  Ratio           `json:"new_ratio_bp"`
	Reason    string          `json:"reason"`
	Actor     string          `json:"actor"`
	Source    RTPChangeSource `json:"source"`
	CreatedAt time.Time       `json:"created_at"`
}

// RTPBand is an inclusive range of ratios the recommendation samples from.
type RTPBand struct {
	Min Ratio `json:"min_bp" yaml:"min_bp"`
	Max Ratio `json:"max_bp" yaml:"max_bp"`
}

// RTPRecommendation is a computed recommendation and the figures it was derived from.
type RTPRecommendation struct {
	Ratio          Ratio     `json:"ratio_bp"`
	Band           string    `json:"band"`
	NetCash        Money     `json:"net_cash"`
	AvgDailyInflow Money     `json:"avg_daily_inflow"`
	DaysOfInflow   string    `json:"days_of_inflow"`
	CurrentTarget  Ratio     `json:"current_target_bp"`
	ComputedAt     time.Time `json:"computed_at"`
}

// EmergencyState is the global kill-switch.
type EmergencyState struct {
	Active    bool      `json:"active"`
	Reason    string    `json:"reason,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// EmergencyHistoryEntry is one immutable change of the kill-switch.
type EmergencyHistoryEntry struct {
	ID        int64     `json:"id"`
	Active    bool      `json:"active"`
	Reason    string    `json:"reason"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

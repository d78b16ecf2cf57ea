package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DrawOutcome classifies how a draw attempt ended.
type DrawOutcome string

const (
	OutcomeAwarded        DrawOutcome = "awarded"
	OutcomeFallback       DrawOutcome = "fallback"
	OutcomeSessionLimited DrawOutcome = "session_limited"
	OutcomeRejected       DrawOutcome = "rejected"
	OutcomeError          DrawOutcome = "error"
)

// AuditRecord is the append-only record of one draw attempt.
type AuditRecord struct {
	ID                uuid.UUID   `json:"id"`
	UserID            uuid.UUID   `json:"user_id"`
	CaseID            int64       `json:"case_id"`
	TargetRatio       Ratio       `json:"target_ratio_bp"`
	Ceiling           Money       `json:"ceiling"`
	CashBefore        Money       `json:"cash_before"`
	CashAfter         Money       `json:"cash_after"`
	PrizeID           *int64      `json:"prize_id,omitempty"`
	PrizeName         string      `json:"prize_name,omitempty"`
	PrizeValue        Money       `json:"prize_value"`
	CreditedValue     Money       `json:"credited_value"`
	Outcome           DrawOutcome `json:"outcome"`
	ProtectionApplied bool        `json:"protection_applied"`
	Degraded          bool        `json:"degraded"`
	ErrorDetail       string      `json:"error_detail,omitempty"`
	LatencyMs         int64       `json:"latency_ms"`
	CreatedAt         time.Time   `json:"created_at"`
}

// BlockTier identifies which admissibility tier excluded a prize.
type BlockTier string

const (
	BlockTierSoft BlockTier = "soft"
	BlockTierHard BlockTier = "hard"
)

// BlockedPrizeEvent records one prize excluded by the ceiling during a draw.
type BlockedPrizeEvent struct {
	ID           int64           `json:"id"`
	DrawID       uuid.UUID       `json:"draw_id"`
	CaseID       int64           `json:"case_id"`
	PrizeID      int64           `json:"prize_id"`
	PrizeValue   Money           `json:"prize_value"`
	Ceiling      Money           `json:"ceiling"`
	Multiplier   decimal.Decimal `json:"multiplier"`
	Tier         BlockTier       `json:"tier"`
	CashPosition Money           `json:"cash_position"`
	TargetRatio  Ratio           `json:"target_ratio_bp"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AuditFilter narrows audit log queries. Zero values mean "no filter".
type AuditFilter struct {
	UserID         *uuid.UUID
	CaseID         *int64
	Outcome        *DrawOutcome
	ProtectionOnly bool
	Since          *time.Time
	Until          *time.Time
	Limit          int
	Offset         int
}

// BlockedPrizeSummary aggregates blocked events for one prize.
type BlockedPrizeSummary struct {
	CaseID        int64     `json:"case_id"`
	PrizeID       int64     `json:"prize_id"`
	BlockedCount  int64     `json:"blocked_count"`
	SoftCount     int64     `json:"soft_count"`
	HardCount     int64     `json:"hard_count"`
	MaxPrizeValue Money     `json:"max_prize_value"`
	MinCeiling    Money     `json:"min_ceiling"`
	AvgCeiling    Money     `json:"avg_ceiling"`
	LastBlockedAt time.Time `json:"last_blocked_at"`
}

// BlockedPrizeReport is the catalog-misconfiguration monitoring report.
type BlockedPrizeReport struct {
	Since       time.Time             `json:"since"`
	TotalEvents int64                 `json:"total_events"`
	Prizes      []BlockedPrizeSummary `json:"prizes"`
	GeneratedAt time.Time             `json:"generated_at"`
}

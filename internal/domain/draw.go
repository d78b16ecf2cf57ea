package domain

import "github.com/google/uuid"

// AwardedPrize is the prize credited by a draw. ID is nil for the synthetic minimum prize.
type AwardedPrize struct {
	ID    *int64    `json:"id,omitempty"`
	Name  string    `json:"name"`
	Value Money     `json:"value"`
	Kind  PrizeKind `json:"-"`
}

// Category returns the awarded prize's category tag.
func (a AwardedPrize) Category() PrizeCategory {
	if a.Kind == nil {
		return PrizeCategoryMonetary
	}
	return a.Kind.Category()
}

// DrawResult is the outcome of a completed draw.
//
// ProtectionApplied is set when the ceiling, the cash recheck or the empty-catalog fallback
// reduced the payout. Degraded is set when an infrastructure failure forced the minimum prize.
type DrawResult struct {
	AuditID           uuid.UUID     `json:"audit_id"`
	CaseID            int64         `json:"case_id"`
	UserID            uuid.UUID     `json:"user_id"`
	Prize             AwardedPrize  `json:"prize"`
	Category          PrizeCategory `json:"category"`
	Ceiling           Money         `json:"ceiling"`
	ProtectionApplied bool          `json:"protection_applied"`
	Degraded          bool          `json:"degraded"`
	SessionLimited    bool          `json:"session_limited"`
	Decoration        []Prize       `json:"decoration,omitempty"`
	BalanceAfter      Money         `json:"balance_after"`
}

// FallbackPrizeName is the display name of the synthetic minimum prize.
const FallbackPrizeName = "Consolation prize"

package safety

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

// Check is the outcome of one predicate. Reason is empty when OK.
type Check struct {
	OK     bool
	Reason string
}

var pass = Check{OK: true}

func fail(reason string) Check {
	return Check{Reason: reason}
}

// Err maps a failed check to its domain error. A passing check returns nil.
func (c Check) Err() error {
	if c.OK {
		return nil
	}
	switch c.Reason {
	case ReasonEmergency:
		return domain.ErrEmergencyModeActive
	case ReasonUserMissing:
		return domain.ErrUserNotFound
	case ReasonUserInactive, ReasonUserBanned, ReasonNegativeBalance:
		return domain.ErrUserIneligible
	case ReasonInsufficientBalance:
		return domain.ErrInsufficientBalance
	case ReasonCaseMissing:
		return domain.ErrCaseNotFound
	case ReasonCaseInactive:
		return domain.ErrCaseInactive
	case ReasonNoEligiblePrizes:
		return domain.ErrCaseNoEligiblePrizes
	case ReasonPayoutUnsafe:
		return domain.ErrCashPositionUnsafe
	}
	return domain.ErrInvalidInput
}

// CheckUser requires an active, unbanned account whose balance covers price
func CheckUser(acc *domain.Account, price domain.Money) Check {
	switch {
	case acc == nil:
		return fail(ReasonUserMissing)
	case !acc.Active:
		return fail(ReasonUserInactive)
	case acc.Banned:
		return fail(ReasonUserBanned)
	case acc.Balance < 0:
		return fail(ReasonNegativeBalance)
	case acc.Balance < price:
		return fail(ReasonInsufficientBalance)
	}
	return pass
}

// CheckCase requires an active case with at least one drawable prize
func CheckCase(c *domain.Case) Check {
	switch {
	case c == nil:
		return fail(ReasonCaseMissing)
	case !c.Active:
		return fail(ReasonCaseInactive)
	case !lo.ContainsBy(c.Prizes, domain.Prize.Drawable):
		return fail(ReasonNoEligiblePrizes)
	}
	return pass
}

// CheckCatalogWeights reports whether the drawable weights sum to 1 within tolerance. Weights are
// relative, so a failure is only a catalog smell.
func CheckCatalogWeights(c *domain.Case, tolerance decimal.Decimal) Check {
	sum := lo.SumBy(lo.Filter(c.Prizes, func(p domain.Prize, _ int) bool { return p.Drawable() }),
		func(p domain.Prize) float64 { return p.Weight })
	if !domain.ValidWeight(sum) {
		return fail(ReasonWeightsNotNormal)
	}
	if decimal.NewFromFloat(sum).Sub(decimal.NewFromInt(1)).Abs().GreaterThan(tolerance) {
		return fail(ReasonWeightsNotNormal)
	}
	return pass
}

// CheckPayout rejects a credit that would leave net cash negative
func CheckPayout(net, credited domain.Money) Check {
	if net-credited < 0 {
		return fail(ReasonPayoutUnsafe)
	}
	return pass
}

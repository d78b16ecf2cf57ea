package draw

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

func scale(m domain.Money, f decimal.Decimal) domain.Money {
	return domain.Money(decimal.NewFromInt(int64(m)).Mul(f).Floor().IntPart())
}

// SafetyMargin is the smallest ceiling a draw on a case of this price can get
func (c Config) SafetyMargin(price domain.Money) domain.Money {
	return domain.MaxMoney(scale(price, c.SafetyPriceMultiple), c.MinSafetyMargin)
}

// Ceiling is the most a single draw may credit: max(net × target, safety margin)
func (c Config) Ceiling(net domain.Money, target domain.Ratio, price domain.Money) domain.Money {
	return domain.MaxMoney(target.Apply(net), c.SafetyMargin(price))
}

// Fallback is the value of the synthetic minimum prize
func (c Config) Fallback(price domain.Money) domain.Money {
	return domain.MaxMoney(scale(price, c.FallbackPriceFraction), c.FallbackMinimum)
}

// Multiplier returns value / price
func Multiplier(value, price domain.Money) decimal.Decimal {
	if price <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(value)).Div(decimal.NewFromInt(int64(price)))
}

// Exclusion is a drawable prize the ceiling kept out of the draw
type Exclusion struct {
	Prize      domain.Prize
	Multiplier decimal.Decimal
	Tier       domain.BlockTier
}

// Admissible filters the case's prizes for a draw under ceiling, preserving catalog order.
// Non-drawable prizes are skipped silently; prizes excluded by a tier are returned as exclusions.
func (c Config) Admissible(cs *domain.Case, ceiling domain.Money) ([]domain.Prize, []Exclusion) {
	var (
		out      []domain.Prize
		excluded []Exclusion
	)
	soft := decimal.NewFromInt(int64(ceiling)).Mul(c.SoftMargin)
	for _, p := range cs.Prizes {
		if !p.Drawable() {
			continue
		}
		m := Multiplier(p.Value, cs.Price)
		switch {
		case m.LessThanOrEqual(c.SmallMultiplier):
			out = append(out, p)
		case m.LessThanOrEqual(c.LargeMultiplier):
			if decimal.NewFromInt(int64(p.Value)).LessThanOrEqual(soft) {
				out = append(out, p)
			} else {
				excluded = append(excluded, Exclusion{Prize: p, Multiplier: m, Tier: domain.BlockTierSoft})
			}
		default:
			if p.Value <= ceiling {
				out = append(out, p)
			} else {
				excluded = append(excluded, Exclusion{Prize: p, Multiplier: m, Tier: domain.BlockTierHard})
			}
		}
	}
	return out, excluded
}

// Select picks a prize with probability proportional to its weight. roll is uniform in [0, 1).
// The result is the first prize in order whose cumulative weight exceeds roll × Σw; with no
// positive weight every prize is equally likely. prizes must not be empty.
func Select(prizes []domain.Prize, roll float64) domain.Prize {
	cumul := make([]float64, len(prizes))
	total := 0.0
	for i, p := range prizes {
		total += p.Weight
		cumul[i] = total
	}
	if total <= 0 || !domain.ValidWeight(total) {
		return prizes[min(int(roll*float64(len(prizes))), len(prizes)-1)]
	}

	r := roll * total
	lo, hi := 0, len(cumul)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if cumul[mid] <= r {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	// Float rounding can put r at the very end; never land on a zero-weight tail
	for lo > 0 && prizes[lo].Weight <= 0 {
		lo--
	}
	return prizes[lo]
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in integer minor currency units (cents).
type Money int64

// MinorUnitsPerMajor is the number of minor units in one major currency unit.
const MinorUnitsPerMajor = 100

// MoneyFromMajor converts a major-unit decimal (e.g. 2.50) into minor units, rounding half away
// from zero.
func MoneyFromMajor(d decimal.Decimal) Money {
	return Money(d.Shift(2).Round(0).IntPart())
}

// Major returns the amount in major units.
func (m Money) Major() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String renders the amount with two decimals, e.g. "2.50".
func (m Money) String() string {
	return m.Major().StringFixed(2)
}

// MinMoney returns the smaller of a and b.
func MinMoney(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}

// MaxMoney returns the larger of a and b.
func MaxMoney(a, b Money) Money {
	if a > b {
		return a
	}
	return b
}

// Ratio is a fraction expressed in basis points: 10000 = 100%.
type Ratio int64

// BasisPointsPerUnit is the Ratio value of 100%.
const BasisPointsPerUnit = 10000

// RatioFromPercent converts a percentage such as 15.5 into basis points.
func RatioFromPercent(p decimal.Decimal) Ratio {
	return Ratio(p.Shift(2).Round(0).IntPart())
}

// Percent returns the ratio as a percentage.
func (r Ratio) Percent() decimal.Decimal {
	return decimal.New(int64(r), -2)
}

// Fraction returns the ratio as a fraction of one.
func (r Ratio) Fraction() decimal.Decimal {
	return decimal.New(int64(r), -4)
}

// Apply returns m scaled by the ratio, floored toward negative infinity.
func (r Ratio) Apply(m Money) Money {
	v := int64(m) * int64(r)
	q := v / BasisPointsPerUnit
	if v%BasisPointsPerUnit != 0 && v < 0 {
		q--
	}
	return Money(q)
}

// String renders the ratio as a percentage, e.g. "15.00%".
func (r Ratio) String() string {
	return fmt.Sprintf("%s%%", r.Percent().StringFixed(2))
}

// RatioOf returns won/spent in basis points, floored. A zero denominator yields zero.
func RatioOf(won, spent Money) Ratio {
	if spent <= 0 {
		return 0
	}
	return Ratio(int64(won) * BasisPointsPerUnit / int64(spent))
}

package domain

import (
	"encoding/json"
	"math"
	"strings"
)

// PrizeCategory is the stored category tag of a catalog prize.
type PrizeCategory string

const (
	PrizeCategoryMonetary     PrizeCategory = "monetary"
	PrizeCategoryPhysicalGood PrizeCategory = "physical_good"
	PrizeCategoryDisplayOnly  PrizeCategory = "display_only"
)

// DisplayReasonOverThreshold marks prizes demoted to display-only because their value is too
// large to be real.
const DisplayReasonOverThreshold = "value above display-only threshold"

// PrizeKind is the closed set of prize variants. Only types in this package implement it.
type PrizeKind interface {
	Category() PrizeCategory
	isPrizeKind()
}

// Monetary prizes are credited to the user's balance.
type Monetary struct{}

// PhysicalGood prizes are credited at face value and carry the fulfilment SKU.
type PhysicalGood struct {
	SKU string `json:"sku,omitempty"`
}

// DisplayOnly prizes are shown in animations and never drawn.
type DisplayOnly struct {
	Reason string `json:"reason,omitempty"`
}

func (Monetary) Category() PrizeCategory     { return PrizeCategoryMonetary }
func (PhysicalGood) Category() PrizeCategory { return PrizeCategoryPhysicalGood }
func (DisplayOnly) Category() PrizeCategory  { return PrizeCategoryDisplayOnly }

func (Monetary) isPrizeKind()     {}
func (PhysicalGood) isPrizeKind() {}
func (DisplayOnly) isPrizeKind()  {}

// CatalogPrize is a prize row as the external catalog stores it.
type CatalogPrize struct {
	ID           int64
	CaseID       int64
	Name         string
	Value        Money
	Category     string
	SKU          string
	Weight       float64
	DrawEligible bool
	Active       bool
}

// CatalogCase is a case row as the external catalog stores it.
type CatalogCase struct {
	ID     int64
	Name   string
	Price  Money
	Active bool
	Prizes []CatalogPrize
}

// Prize is a normalized catalog prize.
type Prize struct {
	ID           int64
	CaseID       int64
	Name         string
	Value        Money
	Weight       float64
	DrawEligible bool
	Active       bool
	Kind         PrizeKind
}

// IsDisplayOnly reports whether the prize can never be drawn.
func (p Prize) IsDisplayOnly() bool {
	_, ok := p.Kind.(DisplayOnly)
	return ok
}

// Drawable reports whether the prize passes the unconditional admissibility filters.
func (p Prize) Drawable() bool {
	return p.DrawEligible && p.Active && !p.IsDisplayOnly()
}

type prizeJSON struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Value    Money         `json:"value"`
	Weight   float64       `json:"weight"`
	Category PrizeCategory `json:"category"`
	SKU      string        `json:"sku,omitempty"`
	Reason   string        `json:"display_reason,omitempty"`
}

// MarshalJSON emits the category tag plus the fields of the prize's variant.
func (p Prize) MarshalJSON() ([]byte, error) {
	out := prizeJSON{ID: p.ID, Name: p.Name, Value: p.Value, Weight: p.Weight}
	switch k := p.Kind.(type) {
	case PhysicalGood:
		out.Category = k.Category()
		out.SKU = k.SKU
	case DisplayOnly:
		out.Category = k.Category()
		out.Reason = k.Reason
	default:
		out.Category = PrizeCategoryMonetary
	}
	return json.Marshal(out)
}

// Case is a normalized purchasable case.
type Case struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Price  Money   `json:"price"`
	Active bool    `json:"active"`
	Prizes []Prize `json:"prizes"`
}

// DisplayPrizes returns the case's display-only prizes in catalog order.
func (c *Case) DisplayPrizes() []Prize {
	var out []Prize
	for _, p := range c.Prizes {
		if p.IsDisplayOnly() {
			out = append(out, p)
		}
	}
	return out
}

// ValidWeight reports whether w is a usable relative weight: finite and not negative
func ValidWeight(w float64) bool {
	return w >= 0 && !math.IsInf(w, 1)
}

// NormalizePrize decides the prize variant once. Negative and non-finite weights become zero. Unknown categories are treated as monetary and
// any prize above displayThreshold becomes display-only regardless of its stored category.
// A non-positive threshold disables the value rule.
func NormalizePrize(raw CatalogPrize, displayThreshold Money) Prize {
	p := Prize{
		ID:           raw.ID,
		CaseID:       raw.CaseID,
		Name:         raw.Name,
		Value:        raw.Value,
		Weight:       raw.Weight,
		DrawEligible: raw.DrawEligible,
		Active:       raw.Active,
	}
	if !ValidWeight(p.Weight) {
		p.Weight = 0
	}

	switch {
	case displayThreshold > 0 && raw.Value > displayThreshold:
		p.Kind = DisplayOnly{Reason: DisplayReasonOverThreshold}
	case PrizeCategory(strings.ToLower(raw.Category)) == PrizeCategoryDisplayOnly:
		p.Kind = DisplayOnly{Reason: string(PrizeCategoryDisplayOnly)}
	case PrizeCategory(strings.ToLower(raw.Category)) == PrizeCategoryPhysicalGood:
		p.Kind = PhysicalGood{SKU: raw.SKU}
	default:
		p.Kind = Monetary{}
	}
	return p
}

// NormalizeCase normalizes a catalog case and all of its prizes, preserving catalog order.
func NormalizeCase(raw CatalogCase, displayThreshold Money) *Case {
	c := &Case{
		ID:     raw.ID,
		Name:   raw.Name,
		Price:  raw.Price,
		Active: raw.Active,
		Prizes: make([]Prize, 0, len(raw.Prizes)),
	}
	for _, rp := range raw.Prizes {
		c.Prizes = append(c.Prizes, NormalizePrize(rp, displayThreshold))
	}
	return c
}

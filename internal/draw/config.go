package draw

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/CaseVault_Go/internal/config"
	"github.com/osse101/CaseVault_Go/internal/domain"
)

// Config holds the engine tuning. None of these values are structural; they are inputs.
type Config struct {
	// SafetyPriceMultiple and MinSafetyMargin form the ceiling floor max(price × multiple, min)
	SafetyPriceMultiple decimal.Decimal
	MinSafetyMargin     domain.Money

	// Prizes up to SmallMultiplier × price are always admissible. Up to LargeMultiplier they
	// must fit within SoftMargin × ceiling, beyond it within the ceiling itself.
	SmallMultiplier decimal.Decimal
	LargeMultiplier decimal.Decimal
	SoftMargin      decimal.Decimal

	// The minimum prize is max(price × FallbackPriceFraction, FallbackMinimum)
	FallbackPriceFraction decimal.Decimal
	FallbackMinimum       domain.Money

	Timeout         time.Duration
	FallbackTimeout time.Duration
}

// ConfigFrom converts the YAML draw settings
func ConfigFrom(s config.DrawSettings) Config {
	return Config{
		SafetyPriceMultiple:   s.SafetyPriceMultiple.Decimal,
		MinSafetyMargin:       s.MinSafetyMargin.Money(),
		SmallMultiplier:       s.SmallMultiplier.Decimal,
		LargeMultiplier:       s.LargeMultiplier.Decimal,
		SoftMargin:            s.SoftMargin.Decimal,
		FallbackPriceFraction: s.FallbackPriceFraction.Decimal,
		FallbackMinimum:       s.FallbackMinimum.Money(),
		Timeout:               s.Timeout,
		FallbackTimeout:       s.FallbackTimeout,
	}
}

// DefaultConfig returns the built-in tuning
func DefaultConfig() Config {
	return ConfigFrom(config.DefaultEngineConfig().Draw)
}

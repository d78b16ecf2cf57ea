package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

// Decimal is a decimal.Decimal readable from a YAML scalar, quoted or not
type Decimal struct {
	decimal.Decimal
}

// UnmarshalYAML parses the raw scalar text so 1.5 and "1.5" decode identically
func (d *Decimal) UnmarshalYAML(node *yaml.Node) error {
	v, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid decimal %q: %w", node.Line, node.Value, err)
	}
	d.Decimal = v
	return nil
}

// Dec builds a Decimal from a literal
func Dec(s string) Decimal {
	return Decimal{decimal.RequireFromString(s)}
}

// Amount is a money value written in major units in YAML ("50.00") and held in minor units
type Amount domain.Money

// UnmarshalYAML parses a major-unit amount
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	v, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid amount %q: %w", node.Line, node.Value, err)
	}
	*a = Amount(domain.MoneyFromMajor(v))
	return nil
}

// Money returns the amount in minor units
func (a Amount) Money() domain.Money {
	return domain.Money(a)
}

// EngineConfig holds the draw engine tuning, read from configs/engine.yaml over built-in defaults
type EngineConfig struct {
	Draw    DrawSettings    `yaml:"draw"`
	RTP     RTPSettings     `yaml:"rtp"`
	Safety  SafetySettings  `yaml:"safety"`
	Catalog CatalogSettings `yaml:"catalog"`
	Session SessionSettings `yaml:"session"`
	Audit   AuditSettings   `yaml:"audit"`
	Ledger  LedgerSettings  `yaml:"ledger"`
	Workers WorkerSettings  `yaml:"workers"`
}

// DrawSettings tunes ceiling, admissibility tiers and the minimum prize
type DrawSettings struct {
	SafetyPriceMultiple   Decimal       `yaml:"safety_price_multiple"`
	MinSafetyMargin       Amount        `yaml:"min_safety_margin"`
	SmallMultiplier       Decimal       `yaml:"small_multiplier"`
	LargeMultiplier       Decimal       `yaml:"large_multiplier"`
	SoftMargin            Decimal       `yaml:"soft_margin"`
	FallbackPriceFraction Decimal       `yaml:"fallback_price_fraction"`
	FallbackMinimum       Amount        `yaml:"fallback_minimum"`
	Timeout               time.Duration `yaml:"timeout"`
	FallbackTimeout       time.Duration `yaml:"fallback_timeout"`
}

// RTPBands are the recommendation bands, from most to least generous
type RTPBands struct {
	High         domain.RTPBand `yaml:"high"`
	Mid          domain.RTPBand `yaml:"mid"`
	Conservative domain.RTPBand `yaml:"conservative"`
}

// RTPSettings bounds the target and tunes the recommendation heuristic
type RTPSettings struct {
	MinTarget      domain.Ratio  `yaml:"min_target_bp"`
	MaxTarget      domain.Ratio  `yaml:"max_target_bp"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	LookbackDays   int           `yaml:"lookback_days"`
	HighCoverDays  Decimal       `yaml:"high_cover_days"`
	MidCoverDays   Decimal       `yaml:"mid_cover_days"`
	Bands          RTPBands      `yaml:"bands"`
	RecommendEvery time.Duration `yaml:"recommend_every"`
}

// SafetySettings tunes the guard
type SafetySettings struct {
	EmergencyCacheTTL time.Duration `yaml:"emergency_cache_ttl"`
	WeightTolerance   Decimal       `yaml:"weight_tolerance"`
}

// CatalogSettings tunes catalog normalization and caching
type CatalogSettings struct {
	DisplayOnlyThreshold Amount        `yaml:"display_only_threshold"`
	CacheTTL             time.Duration `yaml:"cache_ttl"`
	CacheSize            int           `yaml:"cache_size"`
}

// SessionSettings tunes the idle sweep
type SessionSettings struct {
	IdleWindow    time.Duration `yaml:"idle_window"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// AuditSettings tunes audit queries and retention of blocked-prize events
type AuditSettings struct {
	BlockedRetentionDays int           `yaml:"blocked_retention_days"`
	CleanupInterval      time.Duration `yaml:"cleanup_interval"`
	MaxQueryLimit        int           `yaml:"max_query_limit"`
	ReportWindow         time.Duration `yaml:"report_window"`
}

// LedgerSettings tunes cash reporting
type LedgerSettings struct {
	Currency          string        `yaml:"currency"`
	CashGaugeInterval time.Duration `yaml:"cash_gauge_interval"`
}

// WorkerSettings sizes the background worker pool
type WorkerSettings struct {
	Count      int           `yaml:"count"`
	QueueSize  int           `yaml:"queue_size"`
	JobTimeout time.Duration `yaml:"job_timeout"`
}

// DefaultEngineConfig returns the built-in tuning
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Draw: DrawSettings{
			SafetyPriceMultiple:   Dec("10"),
			MinSafetyMargin:       5000,
			SmallMultiplier:       Dec("5"),
			LargeMultiplier:       Dec("20"),
			SoftMargin:            Dec("1.5"),
			FallbackPriceFraction: Dec("0.5"),
			FallbackMinimum:       100,
			Timeout:               5 * time.Second,
			FallbackTimeout:       2 * time.Second,
		},
		RTP: RTPSettings{
			MinTarget:     1000,
			MaxTarget:     9000,
			CacheTTL:      30 * time.Second,
			LookbackDays:  7,
			HighCoverDays: Dec("14"),
			MidCoverDays:  Dec("7"),
			Bands: RTPBands{
				High:         domain.RTPBand{Min: 3500, Max: 4500},
				Mid:          domain.RTPBand{Min: 2000, Max: 3000},
				Conservative: domain.RTPBand{Min: 1000, Max: 1500},
			},
			RecommendEvery: time.Hour,
		},
		Safety: SafetySettings{
			EmergencyCacheTTL: 2 * time.Second,
			WeightTolerance:   Dec("0.01"),
		},
		Catalog: CatalogSettings{
			DisplayOnlyThreshold: 5_000_000,
			CacheTTL:             time.Minute,
			CacheSize:            1024,
		},
		Session: SessionSettings{
			IdleWindow:    24 * time.Hour,
			SweepInterval: 15 * time.Minute,
		},
		Audit: AuditSettings{
			BlockedRetentionDays: 30,
			CleanupInterval:      6 * time.Hour,
			MaxQueryLimit:        500,
			ReportWindow:         7 * 24 * time.Hour,
		},
		Ledger: LedgerSettings{
			Currency:          "EUR",
			CashGaugeInterval: time.Minute,
		},
		Workers: WorkerSettings{
			Count:      2,
			QueueSize:  16,
			JobTimeout: 5 * time.Minute,
		},
	}
}

// LoadEngineConfig reads path over the defaults. A missing file yields the defaults.
func LoadEngineConfig(path string) (EngineConfig, error) {
	cfg := DefaultEngineConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read engine config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse engine config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid engine config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the tuning values are internally consistent
func (c EngineConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	one := decimal.NewFromInt(1)

	d := c.Draw
	check(d.SafetyPriceMultiple.IsPositive(), "draw.safety_price_multiple must be positive")
	check(d.MinSafetyMargin > 0, "draw.min_safety_margin must be positive")
	check(d.SmallMultiplier.IsPositive(), "draw.small_multiplier must be positive")
	check(d.LargeMultiplier.GreaterThanOrEqual(d.SmallMultiplier.Decimal), "draw.large_multiplier must not be below small_multiplier")
	check(d.SoftMargin.GreaterThanOrEqual(one), "draw.soft_margin must be at least 1")
	check(d.FallbackPriceFraction.IsPositive() && d.FallbackPriceFraction.LessThanOrEqual(one), "draw.fallback_price_fraction must be in (0, 1]")
	check(d.FallbackMinimum > 0, "draw.fallback_minimum must be positive")
	check(d.Timeout > 0 && d.FallbackTimeout > 0, "draw timeouts must be positive")

	r := c.RTP
	check(r.MinTarget > 0 && r.MinTarget <= r.MaxTarget && r.MaxTarget < domain.BasisPointsPerUnit,
		"rtp target bounds must satisfy 0 < min <= max < 10000 bp")
	for name, b := range map[string]domain.RTPBand{"high": r.Bands.High, "mid": r.Bands.Mid, "conservative": r.Bands.Conservative} {
		check(b.Min <= b.Max && b.Min >= r.MinTarget && b.Max <= r.MaxTarget, "rtp.bands.%s must lie within the target bounds", name)
	}
	check(r.LookbackDays > 0, "rtp.lookback_days must be positive")
	check(r.HighCoverDays.GreaterThanOrEqual(r.MidCoverDays.Decimal) && r.MidCoverDays.IsPositive(),
		"rtp cover days must satisfy 0 < mid <= high")

	check(c.Safety.EmergencyCacheTTL > 0, "safety.emergency_cache_ttl must be positive")
	check(c.Catalog.CacheSize > 0, "catalog.cache_size must be positive")
	check(c.Session.IdleWindow > 0, "session.idle_window must be positive")
	check(c.Audit.MaxQueryLimit > 0, "audit.max_query_limit must be positive")
	check(c.Audit.BlockedRetentionDays > 0, "audit.blocked_retention_days must be positive")
	check(c.Workers.Count > 0 && c.Workers.QueueSize > 0, "workers.count and workers.queue_size must be positive")

	return errors.Join(errs...)
}

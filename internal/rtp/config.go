package rtp

import "github.com/osse101/CaseVault_Go/internal/config"

// ConfigFrom converts the YAML RTP settings
func ConfigFrom(s config.RTPSettings) Config {
	return Config{
		MinTarget:     s.MinTarget,
		MaxTarget:     s.MaxTarget,
		CacheTTL:      s.CacheTTL,
		LookbackDays:  s.LookbackDays,
		HighCoverDays: s.HighCoverDays.Decimal,
		MidCoverDays:  s.MidCoverDays.Decimal,
		Bands: Bands{
			High:         s.Bands.High,
			Mid:          s.Bands.Mid,
			Conservative: s.Bands.Conservative,
		},
	}
}

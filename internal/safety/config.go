package safety

import "github.com/osse101/CaseVault_Go/internal/config"

func ConfigFrom(s config.SafetySettings) Config {
	return Config{
		EmergencyCacheTTL: s.EmergencyCacheTTL,
		WeightTolerance:   s.WeightTolerance.Decimal,
	}
}

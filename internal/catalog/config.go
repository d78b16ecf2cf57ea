package catalog

import "github.com/osse101/CaseVault_Go/internal/config"

// ConfigFrom converts the YAML catalog settings
func ConfigFrom(s config.CatalogSettings) Config {
	return Config{
		DisplayOnlyThreshold: s.DisplayOnlyThreshold.Money(),
		CacheTTL:             s.CacheTTL,
		CacheSize:            s.CacheSize,
	}
}

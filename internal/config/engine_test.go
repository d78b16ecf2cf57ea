package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

func writeEngineFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultEngineConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultEngineConfig().Validate())
}

func TestLoadEngineConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadEngineConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultEngineConfig(), cfg)
}

func TestLoadEngineConfig_ShippedFileMatchesDefaults(t *testing.T) {
	cfg, err := LoadEngineConfig(filepath.Join("..", "..", ConfigPathEngine))
	require.NoError(t, err)

	def := DefaultEngineConfig()
	assert.Equal(t, def.Draw.MinSafetyMargin, cfg.Draw.MinSafetyMargin)
	assert.True(t, def.Draw.SoftMargin.Equal(cfg.Draw.SoftMargin.Decimal))
	assert.Equal(t, def.RTP.Bands, cfg.RTP.Bands)
	assert.Equal(t, def.Catalog.DisplayOnlyThreshold, cfg.Catalog.DisplayOnlyThreshold)
	assert.Equal(t, def.Session.IdleWindow, cfg.Session.IdleWindow)
}

func TestLoadEngineConfig_OverridesOnlyGivenKeys(t *testing.T) {
	path := writeEngineFile(t, `
draw:
  min_safety_margin: "75.25"
  soft_margin: "1.25"
  timeout: 750ms
rtp:
  bands:
    high: { min_bp: 4000, max_bp: 5000 }
`)

	cfg, err := LoadEngineConfig(path)
	require.NoError(t, err)

	assert.Equal(t, domain.Money(7525), cfg.Draw.MinSafetyMargin.Money())
	assert.Equal(t, "1.25", cfg.Draw.SoftMargin.String())
	assert.Equal(t, 750*time.Millisecond, cfg.Draw.Timeout)
	assert.Equal(t, domain.RTPBand{Min: 4000, Max: 5000}, cfg.RTP.Bands.High)

	def := DefaultEngineConfig()
	assert.Equal(t, def.RTP.Bands.Mid, cfg.RTP.Bands.Mid)
	assert.Equal(t, def.Draw.FallbackMinimum, cfg.Draw.FallbackMinimum)
}

func TestLoadEngineConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad decimal", "draw:\n  soft_margin: lots\n", "invalid decimal"},
		{"bad amount", "draw:\n  fallback_minimum: one\n", "invalid amount"},
		{"soft margin below one", "draw:\n  soft_margin: 0.9\n", "soft_margin"},
		{"band outside bounds", "rtp:\n  bands:\n    high: { min_bp: 8000, max_bp: 9500 }\n", "rtp.bands.high"},
		{"inverted bounds", "rtp:\n  min_target_bp: 5000\n  max_target_bp: 4000\n", "target bounds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadEngineConfig(writeEngineFile(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

package draw

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

func TestCeiling(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name   string
		net    domain.Money
		target domain.Ratio
		price  domain.Money
		want   domain.Money
	}{
		{"low cash uses the fixed minimum", 4000, 1500, 250, 5000},
		{"price multiple above the minimum", 4000, 1500, 1000, 10_000},
		{"cash driven", 1_000_000, 1500, 250, 150_000},
		{"negative cash keeps the margin", -50_000, 1500, 250, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.Ceiling(tt.net, tt.target, tt.price))
		})
	}
}

func TestFallback(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, domain.Money(125), cfg.Fallback(250))
	assert.Equal(t, domain.Money(100), cfg.Fallback(150), "never below 1.00")
	assert.Equal(t, domain.Money(100), cfg.Fallback(0))
	assert.Equal(t, domain.Money(500), cfg.Fallback(1000))
	assert.Equal(t, domain.Money(1000), cfg.Fallback(2001), "floored to whole minor units")
}

func normalized(raw domain.CatalogCase) *domain.Case {
	for i := range raw.Prizes {
		if raw.Prizes[i].ID == 0 {
			raw.Prizes[i].ID = int64(i + 1)
		}
	}
	return domain.NormalizeCase(raw, 5_000_000)
}

func TestAdmissible_Scenario(t *testing.T) {
	cfg := DefaultConfig()
	c := normalized(scenarioCase())
	ceiling := cfg.Ceiling(4000, 1500, c.Price)

	admissible, excluded := cfg.Admissible(c, ceiling)
	require.Len(t, admissible, 2)
	assert.Equal(t, "one", admissible[0].Name)
	assert.Equal(t, "five", admissible[1].Name)

	require.Len(t, excluded, 1)
	assert.Equal(t, "jackpot", excluded[0].Prize.Name)
	assert.Equal(t, domain.BlockTierHard, excluded[0].Tier)
	assert.Equal(t, "200", excluded[0].Multiplier.String())
}

func TestAdmissible_Tiers(t *testing.T) {
	cfg := DefaultConfig()
	c := normalized(domain.CatalogCase{
		Price:  100,
		Active: true,
		Prizes: []domain.CatalogPrize{
			monetary("small", 500, 1),      // m = 5
			monetary("soft-ok", 1500, 1),   // m = 15, ceiling 1000 × 1.5
			monetary("soft-over", 1600, 1), // m = 16
			monetary("hard-ok", 2500, 1),   // m = 25, needs ceiling 2500
			monetary("hard-over", 2600, 1), // m = 26
			displayOnly("shown", 200, 1),   // never drawable
			{Name: "retired", Value: 100, Weight: 1, DrawEligible: true},
		},
	})

	admissible, excluded := cfg.Admissible(c, 1000)
	assert.Equal(t, []string{"small", "soft-ok"}, names(admissible))
	require.Len(t, excluded, 3)
	assert.Equal(t, domain.BlockTierSoft, excluded[0].Tier)
	assert.Equal(t, domain.BlockTierHard, excluded[1].Tier)

	admissible, _ = cfg.Admissible(c, 2500)
	assert.Equal(t, []string{"small", "soft-ok", "soft-over", "hard-ok"}, names(admissible))
}

func names(prizes []domain.Prize) []string {
	out := make([]string, 0, len(prizes))
	for _, p := range prizes {
		out = append(out, p.Name)
	}
	return out
}

func weighted(weights ...float64) []domain.Prize {
	out := make([]domain.Prize, len(weights))
	for i, w := range weights {
		out[i] = domain.Prize{ID: int64(i + 1), Weight: w}
	}
	return out
}

func TestSelect(t *testing.T) {
	prizes := weighted(0.8, 0.15, 0.05)
	assert.Equal(t, int64(1), Select(prizes, 0).ID)
	assert.Equal(t, int64(1), Select(prizes, 0.5).ID)
	assert.Equal(t, int64(2), Select(prizes, 0.85).ID)
	assert.Equal(t, int64(3), Select(prizes, 0.97).ID)
	assert.Equal(t, int64(3), Select(prizes, 0.9999999999).ID)
}

func TestSelect_ZeroWeights(t *testing.T) {
	prizes := weighted(0, 0, 0, 0)
	assert.Equal(t, int64(1), Select(prizes, 0).ID)
	assert.Equal(t, int64(3), Select(prizes, 0.5).ID)
	assert.Equal(t, int64(4), Select(prizes, 0.9999).ID)

	// zero-weight prizes are skipped when others carry weight
	assert.Equal(t, int64(2), Select(weighted(0, 1, 0), 0.9999999999).ID)
	assert.Equal(t, int64(1), Select(weighted(1, 0), 0.9999999999).ID)
}

func TestSelect_OverflowingTotalIsUniform(t *testing.T) {
	prizes := weighted(math.MaxFloat64, math.MaxFloat64)
	assert.Equal(t, int64(1), Select(prizes, 0.25).ID)
	assert.Equal(t, int64(2), Select(prizes, 0.75).ID)
}

// linearSelect is the reference walk the binary search must agree with
func linearSelect(prizes []domain.Prize, roll float64) domain.Prize {
	total := 0.0
	for _, p := range prizes {
		total += p.Weight
	}
	r := roll * total
	acc := 0.0
	for _, p := range prizes {
		acc += p.Weight
		if acc > r {
			return p
		}
	}
	for i := len(prizes) - 1; i > 0; i-- {
		if prizes[i].Weight > 0 {
			return prizes[i]
		}
	}
	return prizes[0]
}

func TestSelect_MatchesLinearWalk(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 2000; i++ {
		n := 1 + rng.IntN(12)
		weights := make([]float64, n)
		for j := range weights {
			if rng.IntN(4) > 0 {
				weights[j] = rng.Float64() * 10
			}
		}
		weights[rng.IntN(n)] += 0.5
		prizes := weighted(weights...)
		roll := rng.Float64()
		require.Equal(t, linearSelect(prizes, roll).ID, Select(prizes, roll).ID, "weights %v roll %v", weights, roll)
	}
}

func TestSelect_Distribution(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	prizes := weighted(0.8, 0.15, 0.05)
	counts := map[int64]int{}
	const n = 100_000
	for i := 0; i < n; i++ {
		counts[Select(prizes, rng.Float64()).ID]++
	}
	assert.InDelta(t, 0.80, float64(counts[1])/n, 0.01)
	assert.InDelta(t, 0.15, float64(counts[2])/n, 0.01)
	assert.InDelta(t, 0.05, float64(counts[3])/n, 0.01)
}

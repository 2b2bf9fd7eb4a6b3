package fatigue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wcrlabs/lineup-engine/pkg/types"
)

func TestMultiplier_DefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		minutes  float64
		expected float64
	}{
		{"fresh player", 0, 1.00},
		{"five minutes", 5, 0.85},
		{"at the cap", 10, 0.70},
		{"beyond the cap", 15, 0.70},
		{"way beyond the cap", 60, 0.70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, cfg.Multiplier(tt.minutes), 1e-9)
		})
	}
}

func TestMultiplier_MonotonicUntilCap(t *testing.T) {
	cfg := DefaultConfig()

	prev := cfg.Multiplier(0)
	for m := 0.5; m <= 10; m += 0.5 {
		cur := cfg.Multiplier(m)
		assert.Less(t, cur, prev, "multiplier should strictly decrease at %v minutes", m)
		prev = cur
	}
	// Flat once capped
	assert.Equal(t, cfg.Multiplier(10), cfg.Multiplier(25))
}

func TestApply_OffenseDownDefenseUp(t *testing.T) {
	cfg := DefaultConfig()
	value := types.PlayerValue{OffPosterior: 0.8, DefPosterior: 0.4}

	adjusted := cfg.Apply(value, 5)

	assert.InDelta(t, 0.85, adjusted.Multiplier, 1e-9)
	assert.InDelta(t, 0.8*0.85, adjusted.Offense, 1e-9)
	assert.InDelta(t, 0.4/0.85, adjusted.Defense, 1e-9)
	assert.InDelta(t, adjusted.Offense-adjusted.Defense, adjusted.Net, 1e-9)

	// Fatigue only ever hurts: offense never rises, defense never falls.
	assert.LessOrEqual(t, adjusted.Offense, value.OffPosterior)
	assert.GreaterOrEqual(t, adjusted.Defense, value.DefPosterior)
}

func TestApply_FreshPlayerUnchanged(t *testing.T) {
	cfg := DefaultConfig()
	value := types.PlayerValue{OffPosterior: 0.6, DefPosterior: 0.3}

	adjusted := cfg.Apply(value, 0)

	assert.Equal(t, 1.0, adjusted.Multiplier)
	assert.InDelta(t, value.OffPosterior, adjusted.Offense, 1e-9)
	assert.InDelta(t, value.DefPosterior, adjusted.Defense, 1e-9)
}

// Package fatigue maps accumulated in-game minutes to a bounded performance
// multiplier and applies it to a player's posterior values.
package fatigue

import "github.com/wcrlabs/lineup-engine/pkg/types"

// Config holds the fatigue model parameters.
type Config struct {
	Rate       float64 `json:"fatigue_rate"`
	MaxPenalty float64 `json:"fatigue_max_penalty"`
}

// DefaultConfig returns the standard fatigue configuration: 3% per minute,
// capped at a 30% penalty.
func DefaultConfig() Config {
	return Config{Rate: 0.03, MaxPenalty: 0.30}
}

// Multiplier returns the performance factor for the given minutes played.
// Fresh players get 1.0; the factor decays linearly and floors at
// 1 − MaxPenalty, so with the defaults it is flat at 0.70 from 10 minutes on.
func (c Config) Multiplier(minutesPlayed float64) float64 {
	penalty := c.Rate * minutesPlayed
	if penalty > c.MaxPenalty {
		penalty = c.MaxPenalty
	}
	return 1.0 - penalty
}

// Adjusted holds a player's fatigue-adjusted values.
type Adjusted struct {
	Multiplier float64
	Offense    float64
	Defense    float64
	Net        float64
}

// Apply adjusts a player's posterior values for the minutes they have played.
// Offense scales down with fatigue. Defense is a goals-allowed quantity where
// higher is worse, so it divides by the multiplier and worsens instead; the
// multiplier floor keeps the division safe.
func (c Config) Apply(value types.PlayerValue, minutesPlayed float64) Adjusted {
	m := c.Multiplier(minutesPlayed)
	off := value.OffPosterior * m
	def := value.DefPosterior / m
	return Adjusted{
		Multiplier: m,
		Offense:    off,
		Defense:    def,
		Net:        off - def,
	}
}

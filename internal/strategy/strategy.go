// Package strategy maps the current goal differential to a continuous
// offense/defense weight pair and a human-readable strategy label.
package strategy

// Config holds the game-state weighting parameters.
type Config struct {
	MaxDiff float64 `json:"game_state_max_diff"`
}

// DefaultConfig returns the standard strategy configuration: a 20-goal
// differential saturates the weighting in either direction.
func DefaultConfig() Config {
	return Config{MaxDiff: 20.0}
}

// Weights returns the (offensive, defensive) weight pair for a goal
// differential from the requesting team's point of view. A tied game is
// exactly 50/50; trailing pushes offensive weight toward 1.0 and leading
// toward 0.0, clamped so differentials beyond MaxDiff saturate.
func (c Config) Weights(goalDiff int) (offensive, defensive float64) {
	normalized := -float64(goalDiff) / c.MaxDiff
	if normalized > 1 {
		normalized = 1
	}
	if normalized < -1 {
		normalized = -1
	}
	offensive = 0.5 + normalized*0.5
	return offensive, 1 - offensive
}

// Label returns the display name for an offensive weight.
func Label(offensiveWeight float64) string {
	switch {
	case offensiveWeight >= 0.7:
		return "HIGHLY OFFENSIVE"
	case offensiveWeight >= 0.55:
		return "OFFENSIVE"
	case offensiveWeight >= 0.45:
		return "BALANCED"
	case offensiveWeight >= 0.3:
		return "DEFENSIVE"
	default:
		return "HIGHLY DEFENSIVE"
	}
}

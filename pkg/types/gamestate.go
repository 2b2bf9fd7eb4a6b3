package types

import "time"

// GameStateSnapshot is the immutable per-request view of a live game that the
// recommendation pipeline consumes. The caller owns the live state and must
// hand each request its own snapshot; the pipeline never mutates it.
type GameStateSnapshot struct {
	GameID        string             `json:"game_id"`
	HomeTeam      string             `json:"home_team"`
	AwayTeam      string             `json:"away_team"`
	HomeScore     int                `json:"home_score"`
	AwayScore     int                `json:"away_score"`
	PlayerMinutes map[string]float64 `json:"player_minutes"`
	Roster        []string           `json:"roster"`
}

// GoalDiff returns the differential from the requesting team's point of view.
func (s GameStateSnapshot) GoalDiff(team string) int {
	if team == s.AwayTeam {
		return s.AwayScore - s.HomeScore
	}
	return s.HomeScore - s.AwayScore
}

// Lineup is a legal 4-player selection with its summed classification points.
type Lineup struct {
	PlayerIDs           []string `json:"selected_player_ids"`
	TotalClassification float64  `json:"total_classification"`
	Objective           float64  `json:"objective"`
}

// PlayerBreakdown is the per-player audit trail attached to a recommendation.
type PlayerBreakdown struct {
	PlayerID          string  `json:"player_id"`
	MobilityRating    float64 `json:"mobility_rating"`
	MinutesPlayed     float64 `json:"minutes_played"`
	FatigueMultiplier float64 `json:"fatigue_multiplier"`
	FatiguedOffense   float64 `json:"fatigued_off"`
	FatiguedDefense   float64 `json:"fatigued_def"`
	FatiguedNet       float64 `json:"fatigued_net"`
	Selected          bool    `json:"selected"`
}

// Recommendation is the full result of one recommendation request.
type Recommendation struct {
	RecommendationID string            `json:"recommendation_id"`
	GameID           string            `json:"game_id"`
	Team             string            `json:"team"`
	GoalDiff         int               `json:"goal_diff"`
	Lineup           Lineup            `json:"lineup"`
	OffensiveWeight  float64           `json:"offensive_weight"`
	DefensiveWeight  float64           `json:"defensive_weight"`
	Strategy         string            `json:"strategy"`
	Players          []PlayerBreakdown `json:"players"`
	ComputeTimeMs    int64             `json:"compute_time_ms"`
	ComputedAt       time.Time         `json:"computed_at"`
}

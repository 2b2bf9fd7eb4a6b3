package types

// CreateGameRequest starts live tracking for one game.
type CreateGameRequest struct {
	HomeTeam string `json:"home_team" binding:"required"`
	AwayTeam string `json:"away_team" binding:"required"`
}

// RecordStintRequest appends one observed stint to a live game.
type RecordStintRequest struct {
	Team         string   `json:"team" binding:"required"`
	Lineup       []string `json:"lineup" binding:"required"`
	GoalsFor     int      `json:"goals_for"`
	GoalsAgainst int      `json:"goals_against"`
	Minutes      float64  `json:"minutes" binding:"required"`
}

// RecommendRequest asks for the optimal lineup for one team in a live game.
type RecommendRequest struct {
	Team string `json:"team" binding:"required"`
}

package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MaxMobilityRating is the top of the wheelchair-rugby classification scale.
const MaxMobilityRating = 3.5

// Role classifies a player's posterior value profile.
type Role string

const (
	RoleOffensive Role = "Offensive"
	RoleDefensive Role = "Defensive"
	RoleBalanced  Role = "Balanced"
)

// Player is immutable reference data: one squad member and their
// classification-point rating.
type Player struct {
	ID             string  `gorm:"primaryKey" json:"player_id"`
	Team           string  `gorm:"index;not null" json:"team"`
	MobilityRating float64 `gorm:"not null" json:"mobility_rating"`
}

// PlayerIDList stores a fixed on-court lineup as a JSONB column.
type PlayerIDList []string

// Scan implements the sql.Scanner interface for JSONB
func (l *PlayerIDList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into PlayerIDList", value)
	}

	var result []string
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}

	*l = PlayerIDList(result)
	return nil
}

// Value implements the driver.Valuer interface for JSONB
func (l PlayerIDList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Distinct reports whether no identifier appears twice.
func (l PlayerIDList) Distinct() bool {
	seen := make(map[string]bool, len(l))
	for _, id := range l {
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

// Stint is one observed 4-vs-4 segment of play. The full stint set forms the
// regression's observation set; stints are never mutated after recording.
type Stint struct {
	ID          uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	GameID      string       `gorm:"index;not null" json:"game_id"`
	HomeTeam    string       `gorm:"not null" json:"home_team"`
	AwayTeam    string       `gorm:"not null" json:"away_team"`
	Minutes     float64      `gorm:"not null" json:"minutes"`
	HomeGoals   int          `gorm:"not null" json:"home_goals"`
	AwayGoals   int          `gorm:"not null" json:"away_goals"`
	HomePlayers PlayerIDList `gorm:"type:jsonb;not null" json:"home_players"`
	AwayPlayers PlayerIDList `gorm:"type:jsonb;not null" json:"away_players"`
	CreatedAt   time.Time    `json:"created_at"`
}

// PlayerValue is one row of the computed player value table: raw regression
// coefficients, mobility-derived priors, blended posteriors, and the role
// classification. Conceptually immutable once the valuation run completes.
type PlayerValue struct {
	PlayerID       string    `gorm:"primaryKey" json:"player_id"`
	Team           string    `gorm:"index;not null" json:"team"`
	MobilityRating float64   `gorm:"not null" json:"mobility_rating"`
	RawOffense     float64   `json:"raw_off"`
	RawDefense     float64   `json:"raw_def"`
	NetValue       float64   `json:"net_value"`
	OffensePrior   float64   `json:"off_prior"`
	DefensePrior   float64   `json:"def_prior"`
	OffPosterior   float64   `json:"off_posterior"`
	DefPosterior   float64   `json:"def_posterior"`
	Role           Role      `gorm:"not null" json:"role_classification"`
	ComputedAt     time.Time `json:"computed_at"`
}

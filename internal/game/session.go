// Package game tracks live game state between recommendation calls: recorded
// stints, accumulated player minutes, and the running score. The pipeline
// itself never sees this mutable state, only immutable snapshots of it.
package game

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wcrlabs/lineup-engine/pkg/types"
)

// StintRecord is one live-tracked stint from the perspective of the team
// whose lineup was on court.
type StintRecord struct {
	Number       int       `json:"stint_num"`
	Team         string    `json:"team"`
	Lineup       []string  `json:"lineup"`
	GoalsFor     int       `json:"goals_for"`
	GoalsAgainst int       `json:"goals_against"`
	Minutes      float64   `json:"minutes"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Session is the caller-owned mutable state for one live game. All writes go
// through RecordStint under the session lock, satisfying the single-writer
// discipline the pipeline assumes.
type Session struct {
	mu sync.RWMutex

	ID       string
	HomeTeam string
	AwayTeam string

	rosters       map[string][]string
	ratings       map[string]float64
	lineupSize    int
	budget        float64
	stints        []StintRecord
	playerMinutes map[string]float64
	homeScore     int
	awayScore     int
	createdAt     time.Time
}

// NewSession starts tracking a game between two teams. Each roster must hold
// the team's full squad; ratings are the mobility ratings used to enforce
// the classification budget on recorded stints.
func NewSession(homeTeam, awayTeam string, rosters map[string][]string, ratings map[string]float64, lineupSize int, budget float64) *Session {
	return &Session{
		ID:            uuid.New().String(),
		HomeTeam:      homeTeam,
		AwayTeam:      awayTeam,
		rosters:       rosters,
		ratings:       ratings,
		lineupSize:    lineupSize,
		budget:        budget,
		playerMinutes: make(map[string]float64),
		createdAt:     time.Now().UTC(),
	}
}

// RecordStint validates and appends a stint, accumulating lineup minutes and
// the running score.
func (s *Session) RecordStint(team string, lineup []string, goalsFor, goalsAgainst int, minutes float64) (*StintRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if team != s.HomeTeam && team != s.AwayTeam {
		return nil, types.NewDataIntegrityError("team %s is not playing in game %s", team, s.ID)
	}
	if minutes <= 0 {
		return nil, types.NewDataIntegrityError("stint duration must be positive, got %.2f", minutes)
	}
	if goalsFor < 0 || goalsAgainst < 0 {
		return nil, types.NewDataIntegrityError("stint goals must be non-negative")
	}
	if len(lineup) != s.lineupSize {
		return nil, types.NewDataIntegrityError("stint lineup has %d players, want %d", len(lineup), s.lineupSize)
	}

	roster := make(map[string]bool, len(s.rosters[team]))
	for _, id := range s.rosters[team] {
		roster[id] = true
	}

	seen := make(map[string]bool, len(lineup))
	mobility := 0.0
	for _, id := range lineup {
		if seen[id] {
			return nil, types.NewDataIntegrityError("stint lineup repeats player %s", id)
		}
		seen[id] = true
		if !roster[id] {
			return nil, types.NewDataIntegrityError("player %s is not on the %s roster", id, team)
		}
		mobility += s.ratings[id]
	}
	if mobility > s.budget {
		return nil, types.NewDataIntegrityError("stint lineup classification %.1f exceeds budget %.1f", mobility, s.budget)
	}

	record := StintRecord{
		Number:       len(s.stints) + 1,
		Team:         team,
		Lineup:       append([]string(nil), lineup...),
		GoalsFor:     goalsFor,
		GoalsAgainst: goalsAgainst,
		Minutes:      minutes,
		RecordedAt:   time.Now().UTC(),
	}
	s.stints = append(s.stints, record)

	for _, id := range lineup {
		s.playerMinutes[id] += minutes
	}
	if team == s.HomeTeam {
		s.homeScore += goalsFor
		s.awayScore += goalsAgainst
	} else {
		s.awayScore += goalsFor
		s.homeScore += goalsAgainst
	}

	return &record, nil
}

// Snapshot returns an immutable view of the game for one team's
// recommendation request.
func (s *Session) Snapshot(team string) types.GameStateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	minutes := make(map[string]float64, len(s.playerMinutes))
	for id, m := range s.playerMinutes {
		minutes[id] = m
	}

	return types.GameStateSnapshot{
		GameID:        s.ID,
		HomeTeam:      s.HomeTeam,
		AwayTeam:      s.AwayTeam,
		HomeScore:     s.homeScore,
		AwayScore:     s.awayScore,
		PlayerMinutes: minutes,
		Roster:        append([]string(nil), s.rosters[team]...),
	}
}

// State summarizes the session for display.
type State struct {
	GameID        string             `json:"game_id"`
	HomeTeam      string             `json:"home_team"`
	AwayTeam      string             `json:"away_team"`
	HomeScore     int                `json:"home_score"`
	AwayScore     int                `json:"away_score"`
	Stints        []StintRecord      `json:"stints"`
	PlayerMinutes map[string]float64 `json:"player_minutes"`
	CreatedAt     time.Time          `json:"created_at"`
}

// State returns a copy of the full session state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	minutes := make(map[string]float64, len(s.playerMinutes))
	for id, m := range s.playerMinutes {
		minutes[id] = m
	}

	return State{
		GameID:        s.ID,
		HomeTeam:      s.HomeTeam,
		AwayTeam:      s.AwayTeam,
		HomeScore:     s.homeScore,
		AwayScore:     s.awayScore,
		Stints:        append([]StintRecord(nil), s.stints...),
		PlayerMinutes: minutes,
		CreatedAt:     s.createdAt,
	}
}

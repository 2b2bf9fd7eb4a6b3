// Package recommend composes the fatigue, strategy, and optimizer stages into
// one stateless recommendation call over a caller-supplied game snapshot.
package recommend

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wcrlabs/lineup-engine/internal/fatigue"
	"github.com/wcrlabs/lineup-engine/internal/optimizer"
	"github.com/wcrlabs/lineup-engine/internal/strategy"
	"github.com/wcrlabs/lineup-engine/pkg/types"
)

// Config bundles the per-request pipeline parameters.
type Config struct {
	Fatigue              fatigue.Config  `json:"fatigue"`
	Strategy             strategy.Config `json:"strategy"`
	RosterSize           int             `json:"roster_size"`
	LineupSize           int             `json:"lineup_size"`
	ClassificationBudget float64         `json:"classification_budget"`
}

// DefaultConfig returns the standard recommendation configuration.
func DefaultConfig() Config {
	return Config{
		Fatigue:              fatigue.DefaultConfig(),
		Strategy:             strategy.DefaultConfig(),
		RosterSize:           12,
		LineupSize:           4,
		ClassificationBudget: 8.0,
	}
}

// Service answers recommendation requests against a read-only value table.
// It holds no game state; any number of requests may run concurrently as
// long as each receives its own snapshot. A re-run of the valuation swaps
// the whole table at once, never individual rows.
type Service struct {
	mu     sync.RWMutex
	values map[string]types.PlayerValue
	config Config
	logger *logrus.Logger
}

// NewService builds a Service over the computed player value table.
func NewService(values []types.PlayerValue, config Config, log *logrus.Logger) *Service {
	s := &Service{config: config, logger: log}
	s.ReplaceValues(values)
	return s
}

// ReplaceValues swaps in a freshly computed value table.
func (s *Service) ReplaceValues(values []types.PlayerValue) {
	table := make(map[string]types.PlayerValue, len(values))
	for _, v := range values {
		table[v.PlayerID] = v
	}
	s.mu.Lock()
	s.values = table
	s.mu.Unlock()
}

// table returns the current value table. The map is replaced wholesale and
// never mutated in place, so callers may read it without holding the lock.
func (s *Service) table() map[string]types.PlayerValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values
}

// HasTeam reports whether at least one valued player belongs to the team.
func (s *Service) HasTeam(team string) bool {
	for _, v := range s.table() {
		if v.Team == team {
			return true
		}
	}
	return false
}

// TeamValues returns the value-table rows for one team, unordered.
func (s *Service) TeamValues(team string) []types.PlayerValue {
	rows := make([]types.PlayerValue, 0)
	for _, v := range s.table() {
		if v.Team == team {
			rows = append(rows, v)
		}
	}
	return rows
}

// Recommend computes the optimal legal lineup for one team given the current
// game snapshot. Unknown minutes default to zero (a fresh player). The
// snapshot is read, never written.
func (s *Service) Recommend(snapshot types.GameStateSnapshot, team string) (*types.Recommendation, error) {
	start := time.Now()
	recommendationID := uuid.New().String()
	log := s.logger.WithFields(logrus.Fields{
		"recommendation_id": recommendationID,
		"game_id":           snapshot.GameID,
		"team":              team,
	})

	table := s.table()
	if err := s.validateRoster(table, team, snapshot.Roster); err != nil {
		return nil, err
	}

	goalDiff := snapshot.GoalDiff(team)
	offWeight, defWeight := s.config.Strategy.Weights(goalDiff)

	log.WithFields(logrus.Fields{
		"goal_diff":        goalDiff,
		"offensive_weight": offWeight,
		"defensive_weight": defWeight,
	}).Info("Starting lineup recommendation")

	candidates := make([]optimizer.Candidate, 0, len(snapshot.Roster))
	breakdown := make([]types.PlayerBreakdown, 0, len(snapshot.Roster))
	for _, id := range snapshot.Roster {
		value := table[id]
		minutes := snapshot.PlayerMinutes[id]
		adjusted := s.config.Fatigue.Apply(value, minutes)

		candidates = append(candidates, optimizer.Candidate{
			PlayerID:       id,
			MobilityRating: value.MobilityRating,
			Offense:        adjusted.Offense,
			Defense:        adjusted.Defense,
		})
		breakdown = append(breakdown, types.PlayerBreakdown{
			PlayerID:          id,
			MobilityRating:    value.MobilityRating,
			MinutesPlayed:     minutes,
			FatigueMultiplier: adjusted.Multiplier,
			FatiguedOffense:   adjusted.Offense,
			FatiguedDefense:   adjusted.Defense,
			FatiguedNet:       adjusted.Net,
		})
	}

	result, err := optimizer.SelectLineup(team, candidates, optimizer.Config{
		LineupSize:           s.config.LineupSize,
		ClassificationBudget: s.config.ClassificationBudget,
		OffensiveWeight:      offWeight,
		DefensiveWeight:      defWeight,
	}, log)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(result.Lineup.PlayerIDs))
	for _, id := range result.Lineup.PlayerIDs {
		selected[id] = true
	}
	for i := range breakdown {
		breakdown[i].Selected = selected[breakdown[i].PlayerID]
	}

	recommendation := &types.Recommendation{
		RecommendationID: recommendationID,
		GameID:           snapshot.GameID,
		Team:             team,
		GoalDiff:         goalDiff,
		Lineup:           result.Lineup,
		OffensiveWeight:  offWeight,
		DefensiveWeight:  defWeight,
		Strategy:         strategy.Label(offWeight),
		Players:          breakdown,
		ComputeTimeMs:    time.Since(start).Milliseconds(),
		ComputedAt:       time.Now().UTC(),
	}

	log.WithFields(logrus.Fields{
		"selected_players":     recommendation.Lineup.PlayerIDs,
		"total_classification": recommendation.Lineup.TotalClassification,
		"strategy":             recommendation.Strategy,
		"compute_time_ms":      recommendation.ComputeTimeMs,
	}).Info("Lineup recommendation completed")

	return recommendation, nil
}

func (s *Service) validateRoster(table map[string]types.PlayerValue, team string, roster []string) error {
	if len(roster) != s.config.RosterSize {
		return types.NewDataIntegrityError("team %s roster has %d players, want exactly %d", team, len(roster), s.config.RosterSize)
	}
	seen := make(map[string]bool, len(roster))
	for _, id := range roster {
		if seen[id] {
			return types.NewDataIntegrityError("team %s roster repeats player %s", team, id)
		}
		seen[id] = true
		if _, ok := table[id]; !ok {
			return types.NewDataIntegrityError("roster player %s has no value-table entry", id)
		}
	}
	return nil
}

// Package optimizer selects the value-maximizing legal lineup for one team.
// The roster is small enough (12 choose 4 = 495 subsets) that exhaustive
// enumeration is the exact solver; no MILP dependency is needed.
package optimizer

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wcrlabs/lineup-engine/pkg/types"
)

// Candidate is one roster player with fatigue-adjusted values.
type Candidate struct {
	PlayerID       string  `json:"player_id"`
	MobilityRating float64 `json:"mobility_rating"`
	Offense        float64 `json:"fatigued_off"`
	Defense        float64 `json:"fatigued_def"`
}

// Config holds the lineup selection parameters.
type Config struct {
	LineupSize           int     `json:"lineup_size"`
	ClassificationBudget float64 `json:"classification_budget"`
	OffensiveWeight      float64 `json:"offensive_weight"`
	DefensiveWeight      float64 `json:"defensive_weight"`
}

// DefaultConfig returns the standard selection configuration for a balanced
// game state.
func DefaultConfig() Config {
	return Config{
		LineupSize:           4,
		ClassificationBudget: 8.0,
		OffensiveWeight:      0.5,
		DefensiveWeight:      0.5,
	}
}

// Result carries the winning lineup plus search statistics.
type Result struct {
	Lineup               types.Lineup `json:"lineup"`
	TotalCombinations    int64        `json:"total_combinations"`
	FeasibleCombinations int64        `json:"feasible_combinations"`
	OptimizationTimeMs   int64        `json:"optimization_time_ms"`
}

// objective scores one player under the current strategy weights. Defense is
// a goals-allowed quantity, so it enters negatively.
func (c Config) objective(p Candidate) float64 {
	return c.OffensiveWeight*p.Offense - c.DefensiveWeight*p.Defense
}

// SelectLineup enumerates every LineupSize-subset of the candidates and
// returns the feasible subset with the highest summed objective. The search
// is exact: a high-value player can still be priced out by the
// classification budget, which greedy selection would miss. Candidates are
// visited in player-id order with a strictly-greater comparison, so ties
// resolve deterministically.
func SelectLineup(team string, candidates []Candidate, cfg Config, log *logrus.Entry) (*Result, error) {
	start := time.Now()

	n := len(candidates)
	if n < cfg.LineupSize {
		return nil, types.NewDataIntegrityError("team %s roster has %d players, need at least %d", team, n, cfg.LineupSize)
	}

	pool := make([]Candidate, n)
	copy(pool, candidates)
	sort.Slice(pool, func(i, j int) bool { return pool[i].PlayerID < pool[j].PlayerID })

	scores := make([]float64, n)
	for i, p := range pool {
		scores[i] = cfg.objective(p)
	}

	var (
		best         []int
		bestValue    float64
		bestMobility float64
		total        int64
		feasible     int64
	)

	indices := make([]int, cfg.LineupSize)
	for i := range indices {
		indices[i] = i
	}

	for {
		total++
		mobility := 0.0
		value := 0.0
		for _, idx := range indices {
			mobility += pool[idx].MobilityRating
			value += scores[idx]
		}
		if mobility <= cfg.ClassificationBudget {
			feasible++
			if best == nil || value > bestValue {
				best = append(best[:0], indices...)
				bestValue = value
				bestMobility = mobility
			}
		}

		if !nextCombination(indices, n) {
			break
		}
	}

	if best == nil {
		log.WithFields(logrus.Fields{
			"team":                  team,
			"combinations_searched": total,
			"classification_budget": cfg.ClassificationBudget,
		}).Warn("No feasible lineup under classification budget")
		return nil, &types.InfeasibleLineupError{Team: team, Budget: cfg.ClassificationBudget}
	}

	selected := make([]string, 0, cfg.LineupSize)
	for _, idx := range best {
		selected = append(selected, pool[idx].PlayerID)
	}

	result := &Result{
		Lineup: types.Lineup{
			PlayerIDs:           selected,
			TotalClassification: bestMobility,
			Objective:           bestValue,
		},
		TotalCombinations:    total,
		FeasibleCombinations: feasible,
		OptimizationTimeMs:   time.Since(start).Milliseconds(),
	}

	log.WithFields(logrus.Fields{
		"team":                  team,
		"selected_players":      selected,
		"objective":             bestValue,
		"total_classification":  bestMobility,
		"feasible_combinations": feasible,
		"total_combinations":    total,
	}).Debug("Lineup selection completed")

	return result, nil
}

// nextCombination advances indices to the next k-combination of [0, n) in
// lexicographic order, returning false once exhausted.
func nextCombination(indices []int, n int) bool {
	k := len(indices)
	for i := k - 1; i >= 0; i-- {
		if indices[i] < n-k+i {
			indices[i]++
			for j := i + 1; j < k; j++ {
				indices[j] = indices[j-1] + 1
			}
			return true
		}
	}
	return false
}

// EligibleWithinBudget returns the candidates that could still join the
// current partial selection without breaking the classification budget.
// Already-selected players stay eligible so a caller can render them checked.
func EligibleWithinBudget(candidates []Candidate, selected []string, cfg Config) []Candidate {
	selectedSet := make(map[string]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	used := 0.0
	for _, p := range candidates {
		if selectedSet[p.PlayerID] {
			used += p.MobilityRating
		}
	}
	remaining := cfg.ClassificationBudget - used

	eligible := make([]Candidate, 0, len(candidates))
	for _, p := range candidates {
		if selectedSet[p.PlayerID] || p.MobilityRating <= remaining {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

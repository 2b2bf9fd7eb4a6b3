package valuation

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/wcrlabs/lineup-engine/pkg/types"
)

// BlendConfig holds the prior-blending parameters.
type BlendConfig struct {
	PriorWeight     float64 `json:"prior_weight"`
	SpecialistRatio float64 `json:"specialist_ratio"`
}

// DefaultBlendConfig returns the standard blending configuration.
func DefaultBlendConfig() BlendConfig {
	return BlendConfig{PriorWeight: 0.3, SpecialistRatio: 1.3}
}

// BlendValues combines raw regression coefficients with mobility-derived
// priors into posterior values and a role classification per player. Raw
// coefficients are min-max normalized across the full player set first so
// they share the priors' [0, 1] scale; adding players later means rerunning
// the blend over the updated set, normalization is never updated
// incrementally.
func BlendValues(players []types.Player, raw map[string]RawValue, cfg BlendConfig, log *logrus.Entry) ([]types.PlayerValue, error) {
	if len(players) == 0 {
		return nil, types.NewDataIntegrityError("no players provided")
	}

	sorted := make([]types.Player, len(players))
	copy(sorted, players)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	offRaw := make([]float64, len(sorted))
	defRaw := make([]float64, len(sorted))
	for i, p := range sorted {
		rv, ok := raw[p.ID]
		if !ok {
			return nil, types.NewDataIntegrityError("player %s has no regression coefficients", p.ID)
		}
		offRaw[i] = rv.Offense
		defRaw[i] = rv.Defense
	}

	offNorm := minMaxNormalize(offRaw)
	defNorm := minMaxNormalize(defRaw)

	now := time.Now().UTC()
	values := make([]types.PlayerValue, len(sorted))
	for i, p := range sorted {
		offPrior := p.MobilityRating / types.MaxMobilityRating
		defPrior := (types.MaxMobilityRating - p.MobilityRating) / types.MaxMobilityRating

		offPost := (1-cfg.PriorWeight)*offNorm[i] + cfg.PriorWeight*offPrior
		defPost := (1-cfg.PriorWeight)*defNorm[i] + cfg.PriorWeight*defPrior

		values[i] = types.PlayerValue{
			PlayerID:       p.ID,
			Team:           p.Team,
			MobilityRating: p.MobilityRating,
			RawOffense:     offRaw[i],
			RawDefense:     defRaw[i],
			NetValue:       offRaw[i] - defRaw[i],
			OffensePrior:   offPrior,
			DefensePrior:   defPrior,
			OffPosterior:   offPost,
			DefPosterior:   defPost,
			Role:           ClassifyRole(offPost, defPost, cfg.SpecialistRatio),
			ComputedAt:     now,
		}
	}

	log.WithFields(logrus.Fields{
		"players_blended": len(values),
		"prior_weight":    cfg.PriorWeight,
	}).Info("Posterior values blended")
	return values, nil
}

// ClassifyRole labels a player Offensive or Defensive only when one posterior
// dominates the other by the specialist ratio; everything inside that band is
// Balanced, including exact ties at the ratio boundary.
func ClassifyRole(offPosterior, defPosterior, specialistRatio float64) types.Role {
	switch {
	case offPosterior > specialistRatio*defPosterior:
		return types.RoleOffensive
	case defPosterior > specialistRatio*offPosterior:
		return types.RoleDefensive
	default:
		return types.RoleBalanced
	}
}

// minMaxNormalize rescales values to [0, 1]. A degenerate spread (all values
// equal) maps every player to 0.5 so the posterior falls back to the priors
// plus a neutral data term.
func minMaxNormalize(values []float64) []float64 {
	out := make([]float64, len(values))
	lo := floats.Min(values)
	hi := floats.Max(values)
	span := hi - lo
	if span == 0 {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / span
	}
	return out
}

package valuation

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/wcrlabs/lineup-engine/pkg/types"
)

// EngineConfig holds the regression engine parameters.
type EngineConfig struct {
	RidgeAlpha float64 `json:"ridge_alpha"`
}

// DefaultEngineConfig returns the standard regression configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{RidgeAlpha: 10.0}
}

// RawValue carries a player's fitted offensive and defensive rate coefficients.
type RawValue struct {
	Offense float64 `json:"raw_off"`
	Defense float64 `json:"raw_def"`
}

// FitRatings disaggregates team-level stint outcomes into per-player offensive
// and defensive coefficients via two L2-regularized regressions over the same
// player-indicator design matrix. Each stint contributes two rows: the home
// lineup against the home scoring/conceding rates, and the mirrored away row.
// Rows are weighted by stint duration.
func FitRatings(players []types.Player, stints []types.Stint, cfg EngineConfig, log *logrus.Entry) (map[string]RawValue, error) {
	if len(players) == 0 {
		return nil, types.NewDataIntegrityError("no players provided")
	}
	if len(stints) == 0 {
		return nil, types.NewDataIntegrityError("no stints provided")
	}

	// Fixed column order makes repeated runs byte-identical.
	ids := make([]string, 0, len(players))
	colIndex := make(map[string]int, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	for i, id := range ids {
		colIndex[id] = i
	}

	for _, s := range stints {
		if err := validateStint(s, colIndex); err != nil {
			return nil, err
		}
	}

	rows := 2 * len(stints)
	cols := len(ids)
	design := mat.NewDense(rows, cols, nil)
	offTarget := make([]float64, rows)
	defTarget := make([]float64, rows)

	for i, s := range stints {
		// Row weighting by duration is folded into the system by scaling each
		// row and its targets by sqrt(minutes).
		w := math.Sqrt(s.Minutes)

		homeRow := 2 * i
		for _, id := range s.HomePlayers {
			design.Set(homeRow, colIndex[id], w)
		}
		offTarget[homeRow] = w * float64(s.HomeGoals) / s.Minutes
		defTarget[homeRow] = w * float64(s.AwayGoals) / s.Minutes

		awayRow := 2*i + 1
		for _, id := range s.AwayPlayers {
			design.Set(awayRow, colIndex[id], w)
		}
		offTarget[awayRow] = w * float64(s.AwayGoals) / s.Minutes
		defTarget[awayRow] = w * float64(s.HomeGoals) / s.Minutes
	}

	log.WithFields(logrus.Fields{
		"design_rows": rows,
		"design_cols": cols,
		"ridge_alpha": cfg.RidgeAlpha,
	}).Debug("Design matrix constructed")

	offCoef, err := solveRidge(design, offTarget, cfg.RidgeAlpha)
	if err != nil {
		return nil, err
	}
	defCoef, err := solveRidge(design, defTarget, cfg.RidgeAlpha)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]RawValue, cols)
	for i, id := range ids {
		raw[id] = RawValue{Offense: offCoef[i], Defense: defCoef[i]}
	}

	log.WithField("players_rated", len(raw)).Info("Ridge regressions solved")
	return raw, nil
}

// solveRidge solves (XᵀX + αI)β = Xᵀy for a row-prescaled system. The ridge
// term keeps the normal matrix positive definite even when player columns are
// collinear from frequent co-appearance.
func solveRidge(design *mat.Dense, target []float64, alpha float64) ([]float64, error) {
	_, cols := design.Dims()

	var gram mat.Dense
	gram.Mul(design.T(), design)

	normal := mat.NewSymDense(cols, nil)
	for i := 0; i < cols; i++ {
		for j := i; j < cols; j++ {
			v := gram.At(i, j)
			if i == j {
				v += alpha
			}
			normal.SetSym(i, j, v)
		}
	}

	var rhs mat.VecDense
	rhs.MulVec(design.T(), mat.NewVecDense(len(target), target))

	var chol mat.Cholesky
	if ok := chol.Factorize(normal); !ok {
		return nil, &types.NumericInstabilityError{
			Stage:  "ridge regression",
			Detail: "normal matrix is not positive definite",
		}
	}

	var solution mat.VecDense
	if err := chol.SolveVecTo(&solution, &rhs); err != nil {
		return nil, &types.NumericInstabilityError{
			Stage:  "ridge regression",
			Detail: err.Error(),
		}
	}

	coef := make([]float64, cols)
	for i := range coef {
		v := solution.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &types.NumericInstabilityError{
				Stage:  "ridge regression",
				Detail: "solver produced non-finite coefficients",
			}
		}
		coef[i] = v
	}
	return coef, nil
}

func validateStint(s types.Stint, colIndex map[string]int) error {
	if s.Minutes <= 0 {
		return types.NewDataIntegrityError("stint %d in game %s has non-positive duration %.2f", s.ID, s.GameID, s.Minutes)
	}
	if s.HomeGoals < 0 || s.AwayGoals < 0 {
		return types.NewDataIntegrityError("stint %d in game %s has negative goals", s.ID, s.GameID)
	}
	for side, lineup := range map[string]types.PlayerIDList{"home": s.HomePlayers, "away": s.AwayPlayers} {
		if len(lineup) != 4 {
			return types.NewDataIntegrityError("stint %d in game %s has %d %s players, want 4", s.ID, s.GameID, len(lineup), side)
		}
		if !lineup.Distinct() {
			return types.NewDataIntegrityError("stint %d in game %s repeats a %s player", s.ID, s.GameID, side)
		}
		for _, id := range lineup {
			if _, ok := colIndex[id]; !ok {
				return types.NewDataIntegrityError("stint %d in game %s references unknown player %s", s.ID, s.GameID, id)
			}
		}
	}
	return nil
}

package valuation

import (
	"github.com/sirupsen/logrus"

	"github.com/wcrlabs/lineup-engine/pkg/types"
)

// ComputeValueTable runs the full offline valuation: fit both ridge
// regressions over the stint corpus, then blend the coefficients with
// mobility priors into the player value table.
func ComputeValueTable(players []types.Player, stints []types.Stint, engineCfg EngineConfig, blendCfg BlendConfig, log *logrus.Entry) ([]types.PlayerValue, error) {
	raw, err := FitRatings(players, stints, engineCfg, log)
	if err != nil {
		return nil, err
	}
	return BlendValues(players, raw, blendCfg, log)
}

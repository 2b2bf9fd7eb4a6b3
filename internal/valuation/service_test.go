package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcrlabs/lineup-engine/pkg/types"
)

func TestComputeValueTable_EndToEnd(t *testing.T) {
	players := eightPlayers()

	values, err := ComputeValueTable(players, lopsidedStints(20), DefaultEngineConfig(), DefaultBlendConfig(), testLog())
	require.NoError(t, err)
	require.Len(t, values, 8)

	for _, v := range values {
		assert.NotEmpty(t, v.PlayerID)
		assert.NotEmpty(t, v.Team)
		assert.GreaterOrEqual(t, v.OffPosterior, 0.0)
		assert.LessOrEqual(t, v.OffPosterior, 1.0)
		assert.Contains(t, []types.Role{types.RoleOffensive, types.RoleDefensive, types.RoleBalanced}, v.Role)
		assert.False(t, v.ComputedAt.IsZero())
	}

	// Rows come back in player-id order so repeated runs diff cleanly.
	for i := 1; i < len(values); i++ {
		assert.Less(t, values[i-1].PlayerID, values[i].PlayerID)
	}
}

package recommend

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcrlabs/lineup-engine/pkg/types"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

// usaSquad builds a 12-player value table spanning the classification scale.
func usaSquad() []types.PlayerValue {
	ratings := []float64{0.5, 0.5, 1.0, 1.0, 1.5, 1.5, 2.0, 2.0, 2.5, 2.5, 3.0, 3.5}
	values := make([]types.PlayerValue, len(ratings))
	for i, r := range ratings {
		values[i] = types.PlayerValue{
			PlayerID:       fmt.Sprintf("usa%02d", i+1),
			Team:           "USA",
			MobilityRating: r,
			OffPosterior:   r / types.MaxMobilityRating,
			DefPosterior:   (types.MaxMobilityRating - r) / types.MaxMobilityRating,
		}
	}
	return values
}

func squadRoster(values []types.PlayerValue) []string {
	roster := make([]string, len(values))
	for i, v := range values {
		roster[i] = v.PlayerID
	}
	return roster
}

func tiedSnapshot(roster []string) types.GameStateSnapshot {
	return types.GameStateSnapshot{
		GameID:        "game-1",
		HomeTeam:      "USA",
		AwayTeam:      "CAN",
		HomeScore:     10,
		AwayScore:     10,
		PlayerMinutes: map[string]float64{},
		Roster:        roster,
	}
}

func TestRecommend_TiedGame(t *testing.T) {
	values := usaSquad()
	svc := NewService(values, DefaultConfig(), testLogger())

	rec, err := svc.Recommend(tiedSnapshot(squadRoster(values)), "USA")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "game-1", rec.GameID)
	assert.Equal(t, "USA", rec.Team)
	assert.Equal(t, 0, rec.GoalDiff)
	assert.InDelta(t, 0.5, rec.OffensiveWeight, 1e-9)
	assert.InDelta(t, 0.5, rec.DefensiveWeight, 1e-9)
	assert.Equal(t, "BALANCED", rec.Strategy)
	assert.NotEmpty(t, rec.RecommendationID)

	assert.Len(t, rec.Lineup.PlayerIDs, 4)
	assert.LessOrEqual(t, rec.Lineup.TotalClassification, 8.0)

	// Full per-player audit trail with exactly the lineup flagged.
	assert.Len(t, rec.Players, 12)
	selected := 0
	for _, p := range rec.Players {
		if p.Selected {
			selected++
		}
	}
	assert.Equal(t, 4, selected)
}

func TestRecommend_TrailingGoesOffensive(t *testing.T) {
	values := usaSquad()
	svc := NewService(values, DefaultConfig(), testLogger())

	snapshot := tiedSnapshot(squadRoster(values))
	snapshot.HomeScore = 5
	snapshot.AwayScore = 15

	rec, err := svc.Recommend(snapshot, "USA")
	require.NoError(t, err)

	assert.Equal(t, -10, rec.GoalDiff)
	assert.InDelta(t, 0.75, rec.OffensiveWeight, 1e-9)
	assert.Equal(t, "HIGHLY OFFENSIVE", rec.Strategy)

	// The away side sees the mirrored differential. CAN players are not in
	// the value table, so only check the sign via the snapshot itself.
	assert.Equal(t, 10, snapshot.GoalDiff("CAN"))
}

func TestRecommend_UnknownMinutesDefaultToFresh(t *testing.T) {
	values := usaSquad()
	svc := NewService(values, DefaultConfig(), testLogger())

	snapshot := tiedSnapshot(squadRoster(values))
	snapshot.PlayerMinutes = map[string]float64{"usa12": 10.0} // only the star has played

	rec, err := svc.Recommend(snapshot, "USA")
	require.NoError(t, err)

	byID := make(map[string]types.PlayerBreakdown, len(rec.Players))
	for _, p := range rec.Players {
		byID[p.PlayerID] = p
	}
	assert.InDelta(t, 0.70, byID["usa12"].FatigueMultiplier, 1e-9)
	assert.Equal(t, 1.0, byID["usa01"].FatigueMultiplier, "unseen player counts as fresh")
	assert.Equal(t, 0.0, byID["usa01"].MinutesPlayed)
}

func TestRecommend_DoesNotMutateSnapshot(t *testing.T) {
	values := usaSquad()
	svc := NewService(values, DefaultConfig(), testLogger())

	snapshot := tiedSnapshot(squadRoster(values))
	snapshot.PlayerMinutes = map[string]float64{"usa05": 4.0}

	_, err := svc.Recommend(snapshot, "USA")
	require.NoError(t, err)

	assert.Len(t, snapshot.PlayerMinutes, 1, "pipeline must not write default minutes back")
	assert.Equal(t, 4.0, snapshot.PlayerMinutes["usa05"])
}

func TestRecommend_RosterValidation(t *testing.T) {
	values := usaSquad()
	svc := NewService(values, DefaultConfig(), testLogger())
	roster := squadRoster(values)

	tests := []struct {
		name   string
		roster []string
	}{
		{"short roster", roster[:11]},
		{"oversized roster", append(append([]string{}, roster...), "usa13")},
		{"repeated player", append(append([]string{}, roster[:11]...), roster[0])},
		{"unvalued player", append(append([]string{}, roster[:11]...), "ghost")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Recommend(tiedSnapshot(tt.roster), "USA")
			require.Error(t, err)

			var integrity *types.DataIntegrityError
			assert.True(t, errors.As(err, &integrity), "want DataIntegrityError, got %T", err)
		})
	}
}

func TestRecommend_InfeasibleRosterSurfaces(t *testing.T) {
	// Twelve max-class players: every 4-subset totals 14.0 points.
	values := make([]types.PlayerValue, 12)
	for i := range values {
		values[i] = types.PlayerValue{
			PlayerID:       fmt.Sprintf("usa%02d", i+1),
			Team:           "USA",
			MobilityRating: 3.5,
			OffPosterior:   1.0,
		}
	}
	svc := NewService(values, DefaultConfig(), testLogger())

	_, err := svc.Recommend(tiedSnapshot(squadRoster(values)), "USA")
	require.Error(t, err)

	var infeasible *types.InfeasibleLineupError
	require.True(t, errors.As(err, &infeasible))
	assert.Equal(t, "USA", infeasible.Team)
}

func TestRecommend_LogsThroughInjectedLogger(t *testing.T) {
	values := usaSquad()
	log, hook := logrustest.NewNullLogger()
	svc := NewService(values, DefaultConfig(), log)

	rec, err := svc.Recommend(tiedSnapshot(squadRoster(values)), "USA")
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.NotEmpty(t, entries, "request logging must go to the injected logger")
	for _, entry := range entries {
		assert.Equal(t, rec.RecommendationID, entry.Data["recommendation_id"])
		assert.Equal(t, "game-1", entry.Data["game_id"])
		assert.Equal(t, "USA", entry.Data["team"])
	}
}

func TestReplaceValues_SwapsWholeTable(t *testing.T) {
	values := usaSquad()
	svc := NewService(values, DefaultConfig(), testLogger())
	require.True(t, svc.HasTeam("USA"))
	require.False(t, svc.HasTeam("CAN"))

	swapped := make([]types.PlayerValue, len(values))
	copy(swapped, values)
	for i := range swapped {
		swapped[i].PlayerID = fmt.Sprintf("can%02d", i+1)
		swapped[i].Team = "CAN"
	}
	svc.ReplaceValues(swapped)

	assert.False(t, svc.HasTeam("USA"), "old rows must not survive the swap")
	assert.True(t, svc.HasTeam("CAN"))
	assert.Len(t, svc.TeamValues("CAN"), 12)
}

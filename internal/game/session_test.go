package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcrlabs/lineup-engine/pkg/types"
)

func newTestSession() *Session {
	rosters := map[string][]string{}
	ratings := map[string]float64{}
	for _, team := range []string{"usa", "can"} {
		for i := 1; i <= 12; i++ {
			id := fmt.Sprintf("%s%02d", team, i)
			rosters[team] = append(rosters[team], id)
			ratings[id] = 1.5
		}
	}
	return NewSession("usa", "can", rosters, ratings, 4, 8.0)
}

func TestRecordStint_AccumulatesMinutesAndScore(t *testing.T) {
	s := newTestSession()

	first, err := s.RecordStint("usa", []string{"usa01", "usa02", "usa03", "usa04"}, 3, 1, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Number)

	second, err := s.RecordStint("usa", []string{"usa01", "usa05", "usa06", "usa07"}, 0, 2, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Number)

	// Away-perspective stint: goals-for count toward the away score.
	_, err = s.RecordStint("can", []string{"can01", "can02", "can03", "can04"}, 2, 1, 2.0)
	require.NoError(t, err)

	state := s.State()
	assert.Equal(t, 3+0+1, state.HomeScore)
	assert.Equal(t, 1+2+2, state.AwayScore)
	assert.Len(t, state.Stints, 3)

	assert.Equal(t, 4.0, state.PlayerMinutes["usa01"], "usa01 played both home stints")
	assert.Equal(t, 2.5, state.PlayerMinutes["usa02"])
	assert.Equal(t, 1.5, state.PlayerMinutes["usa05"])
	assert.Equal(t, 2.0, state.PlayerMinutes["can01"])
	assert.NotContains(t, state.PlayerMinutes, "usa12")
}

func TestRecordStint_Validation(t *testing.T) {
	tests := []struct {
		name         string
		team         string
		lineup       []string
		goalsFor     int
		goalsAgainst int
		minutes      float64
	}{
		{"unknown team", "gbr", []string{"usa01", "usa02", "usa03", "usa04"}, 1, 0, 2.0},
		{"zero minutes", "usa", []string{"usa01", "usa02", "usa03", "usa04"}, 1, 0, 0},
		{"negative goals", "usa", []string{"usa01", "usa02", "usa03", "usa04"}, -1, 0, 2.0},
		{"short lineup", "usa", []string{"usa01", "usa02", "usa03"}, 1, 0, 2.0},
		{"repeated player", "usa", []string{"usa01", "usa01", "usa03", "usa04"}, 1, 0, 2.0},
		{"off-roster player", "usa", []string{"usa01", "usa02", "usa03", "can01"}, 1, 0, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession()
			_, err := s.RecordStint(tt.team, tt.lineup, tt.goalsFor, tt.goalsAgainst, tt.minutes)
			require.Error(t, err)

			var integrity *types.DataIntegrityError
			assert.True(t, errors.As(err, &integrity), "want DataIntegrityError, got %T", err)

			// Rejected stints leave no trace.
			assert.Empty(t, s.State().Stints)
		})
	}
}

func TestRecordStint_EnforcesClassificationBudget(t *testing.T) {
	rosters := map[string][]string{
		"usa": {"u1", "u2", "u3", "u4"},
		"can": {"c1", "c2", "c3", "c4"},
	}
	ratings := map[string]float64{
		"u1": 3.5, "u2": 3.0, "u3": 1.0, "u4": 0.5,
		"c1": 2.0, "c2": 2.0, "c3": 2.0, "c4": 2.0,
	}
	s := NewSession("usa", "can", rosters, ratings, 4, 8.0)

	// 3.5 + 3.0 + 1.0 + 0.5 = 8.0 is legal right at the budget.
	_, err := s.RecordStint("usa", []string{"u1", "u2", "u3", "u4"}, 1, 0, 2.0)
	assert.NoError(t, err)

	// Same lineup over a tighter budget gets rejected.
	tight := NewSession("usa", "can", rosters, ratings, 4, 7.5)
	_, err = tight.RecordStint("usa", []string{"u1", "u2", "u3", "u4"}, 1, 0, 2.0)
	require.Error(t, err)

	var integrity *types.DataIntegrityError
	assert.True(t, errors.As(err, &integrity))
}

func TestSnapshot_IsolatedFromSession(t *testing.T) {
	s := newTestSession()
	_, err := s.RecordStint("usa", []string{"usa01", "usa02", "usa03", "usa04"}, 2, 0, 3.0)
	require.NoError(t, err)

	snapshot := s.Snapshot("usa")
	assert.Equal(t, s.ID, snapshot.GameID)
	assert.Equal(t, 2, snapshot.HomeScore)
	assert.Len(t, snapshot.Roster, 12)
	assert.Equal(t, 3.0, snapshot.PlayerMinutes["usa01"])

	// Mutating the snapshot must not leak back into the session.
	snapshot.PlayerMinutes["usa01"] = 99
	snapshot.Roster[0] = "tampered"

	fresh := s.Snapshot("usa")
	assert.Equal(t, 3.0, fresh.PlayerMinutes["usa01"])
	assert.Equal(t, "usa01", fresh.Roster[0])
}

func TestManager(t *testing.T) {
	m := NewManager()
	assert.Equal(t, 0, m.Count())

	s := newTestSession()
	m.Add(s)
	assert.Equal(t, 1, m.Count())

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get("nope")
	require.Error(t, err)
	var integrity *types.DataIntegrityError
	assert.True(t, errors.As(err, &integrity))

	m.Remove(s.ID)
	assert.Equal(t, 0, m.Count())
}

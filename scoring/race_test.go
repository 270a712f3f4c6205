package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// draftRound builds a DRAFT round with the given players and races 1..entered
// already stored, each scored with positions matching player order.
func draftRound(players []string, entered int) RoundState {
	round := RoundState{Status: StatusDraft, PlayerIDs: players}
	for idx := 1; idx <= entered; idx++ {
		race := RaceState{RaceIndex: idx, TrackID: "track-1"}
		for i, id := range players {
			pts, _ := PointsFor(i+1, len(players))
			race.Results = append(race.Results, ResultState{
				PlayerID:       id,
				FinishPosition: i + 1,
				PointsAwarded:  &pts,
			})
		}
		round.Races = append(round.Races, race)
	}
	return round
}

func sub(raceIndex int, results ...SubmittedResult) RaceSubmission {
	return RaceSubmission{RaceIndex: raceIndex, TrackID: "track-1", Results: results}
}

func TestValidateRace(t *testing.T) {
	t.Parallel()

	players := []string{"p1", "p2", "p3", "p4"}

	ok := sub(1,
		SubmittedResult{"p1", 1}, SubmittedResult{"p2", 2},
		SubmittedResult{"p3", 3}, SubmittedResult{"p4", 4},
	)

	t.Run("first race accepted", func(t *testing.T) {
		require.NoError(t, ValidateRace(draftRound(players, 0), ok))
	})

	t.Run("completed round rejected", func(t *testing.T) {
		round := draftRound(players, 0)
		round.Status = StatusCompleted
		err := ValidateRace(round, ok)
		requireKind(t, err, KindInvalidState)
		assert.EqualError(t, err, "round is not in draft status")
	})

	t.Run("index out of range", func(t *testing.T) {
		for _, idx := range []int{0, -1, 5} {
			bad := ok
			bad.RaceIndex = idx
			err := ValidateRace(draftRound(players, 4), bad)
			requireKind(t, err, KindInvalidInput)
		}
	})

	t.Run("sequential entry", func(t *testing.T) {
		bad := ok
		bad.RaceIndex = 3
		err := ValidateRace(draftRound(players, 1), bad)
		requireKind(t, err, KindInvalidState)
		assert.EqualError(t, err, "must complete race 2 first")

		good := ok
		good.RaceIndex = 2
		require.NoError(t, ValidateRace(draftRound(players, 1), good))
	})

	t.Run("resubmission of existing index allowed", func(t *testing.T) {
		resub := ok
		resub.RaceIndex = 2
		require.NoError(t, ValidateRace(draftRound(players, 3), resub))
	})

	t.Run("result count mismatch", func(t *testing.T) {
		short := sub(1,
			SubmittedResult{"p1", 1}, SubmittedResult{"p2", 2}, SubmittedResult{"p3", 3},
		)
		err := ValidateRace(draftRound(players, 0), short)
		requireKind(t, err, KindInvalidInput)
		assert.EqualError(t, err, "expected 4 results, got 3")
	})

	t.Run("foreign player rejected", func(t *testing.T) {
		foreign := sub(1,
			SubmittedResult{"p1", 1}, SubmittedResult{"p2", 2},
			SubmittedResult{"p3", 3}, SubmittedResult{"intruder", 4},
		)
		err := ValidateRace(draftRound(players, 0), foreign)
		requireKind(t, err, KindInvalidInput)
	})

	t.Run("duplicate player rejected", func(t *testing.T) {
		dup := sub(1,
			SubmittedResult{"p1", 1}, SubmittedResult{"p1", 2},
			SubmittedResult{"p3", 3}, SubmittedResult{"p4", 4},
		)
		err := ValidateRace(draftRound(players, 0), dup)
		requireKind(t, err, KindInvalidInput)
	})

	t.Run("duplicate positions rejected", func(t *testing.T) {
		dup := sub(1,
			SubmittedResult{"p1", 1}, SubmittedResult{"p2", 1},
			SubmittedResult{"p3", 3}, SubmittedResult{"p4", 4},
		)
		err := ValidateRace(draftRound(players, 0), dup)
		requireKind(t, err, KindInvalidInput)
		assert.EqualError(t, err, "positions must be unique values from 1 to 4")
	})

	t.Run("gapped positions rejected", func(t *testing.T) {
		gap := sub(1,
			SubmittedResult{"p1", 1}, SubmittedResult{"p2", 2},
			SubmittedResult{"p3", 3}, SubmittedResult{"p4", 5},
		)
		err := ValidateRace(draftRound(players, 0), gap)
		requireKind(t, err, KindInvalidInput)
	})

	t.Run("two player round", func(t *testing.T) {
		two := []string{"p1", "p2"}
		require.NoError(t, ValidateRace(draftRound(two, 0),
			sub(1, SubmittedResult{"p2", 1}, SubmittedResult{"p1", 2})))
	})

	// Track repeats across races are tolerated at this layer; the track on
	// the submission is not compared against earlier races.
	t.Run("repeated track accepted", func(t *testing.T) {
		round := draftRound(players, 1)
		repeat := ok
		repeat.RaceIndex = 2
		repeat.TrackID = round.Races[0].TrackID
		require.NoError(t, ValidateRace(round, repeat))
	})
}

func TestScoreRace(t *testing.T) {
	t.Parallel()

	scored, err := ScoreRace(sub(1,
		SubmittedResult{"p2", 1}, SubmittedResult{"p1", 2},
		SubmittedResult{"p4", 3}, SubmittedResult{"p3", 4},
	), 4)
	require.NoError(t, err)

	want := []ScoredResult{
		{PlayerID: "p2", FinishPosition: 1, Points: 5},
		{PlayerID: "p1", FinishPosition: 2, Points: 3},
		{PlayerID: "p4", FinishPosition: 3, Points: 2},
		{PlayerID: "p3", FinishPosition: 4, Points: 1},
	}
	assert.Equal(t, want, scored)
}

func TestScoreRaceBadPlayerCount(t *testing.T) {
	t.Parallel()

	_, err := ScoreRace(sub(1, SubmittedResult{"p1", 1}), 1)
	requireKind(t, err, KindContract)
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, kind, serr.Kind)
}

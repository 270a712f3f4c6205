package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundWithScores builds a DRAFT round whose races award the given per-race
// positions, keyed by player id. positions[i][id] is id's finish in race i+1.
func roundWithScores(players []string, positions []map[string]int) RoundState {
	round := RoundState{Status: StatusDraft, PlayerIDs: players}
	for i, byPlayer := range positions {
		race := RaceState{RaceIndex: i + 1, TrackID: "track-1"}
		for _, id := range players {
			pos := byPlayer[id]
			pts, _ := PointsFor(pos, len(players))
			race.Results = append(race.Results, ResultState{
				PlayerID:       id,
				FinishPosition: pos,
				PointsAwarded:  &pts,
			})
		}
		round.Races = append(round.Races, race)
	}
	return round
}

func TestAttemptComplete(t *testing.T) {
	t.Parallel()

	players := []string{"p1", "p2", "p3", "p4"}

	t.Run("rejects non draft round", func(t *testing.T) {
		round := draftRound(players, 4)
		round.Status = StatusCompleted
		_, err := AttemptComplete(round)
		requireKind(t, err, KindInvalidState)
	})

	t.Run("rejects incomplete round", func(t *testing.T) {
		_, err := AttemptComplete(draftRound(players, 3))
		requireKind(t, err, KindInvalidState)
		assert.EqualError(t, err, "round incomplete: need 1 more race(s)")

		_, err = AttemptComplete(draftRound(players, 0))
		assert.EqualError(t, err, "round incomplete: need 4 more race(s)")
	})

	t.Run("clear winner completes", func(t *testing.T) {
		// p1: 5+5+3+2=15, p2: 3+3+5+5=16, p3 and p4 trail.
		round := roundWithScores(players, []map[string]int{
			{"p1": 1, "p2": 2, "p3": 3, "p4": 4},
			{"p1": 1, "p2": 2, "p3": 4, "p4": 3},
			{"p1": 2, "p2": 1, "p3": 3, "p4": 4},
			{"p1": 3, "p2": 1, "p3": 2, "p4": 4},
		})
		got, err := AttemptComplete(round)
		require.NoError(t, err)
		assert.Equal(t, Completion{WinnerID: "p2"}, got)
	})

	t.Run("tie reports tied with no winner", func(t *testing.T) {
		// p1 and p2 both finish 1st twice and 2nd twice: 16 each.
		round := roundWithScores(players, []map[string]int{
			{"p1": 1, "p2": 2, "p3": 3, "p4": 4},
			{"p1": 2, "p2": 1, "p3": 3, "p4": 4},
			{"p1": 1, "p2": 2, "p3": 4, "p4": 3},
			{"p1": 2, "p2": 1, "p3": 4, "p4": 3},
		})
		got, err := AttemptComplete(round)
		require.NoError(t, err)
		assert.Equal(t, Completion{IsTied: true}, got)
	})

	t.Run("overtime race does not count toward the four", func(t *testing.T) {
		round := draftRound(players, 3)
		round.Races = append(round.Races, RaceState{
			RaceIndex:  5,
			IsOvertime: true,
			TrackID:    "track-9",
		})
		_, err := AttemptComplete(round)
		requireKind(t, err, KindInvalidState)
	})
}

func tiedRound() RoundState {
	// p1 and p2 tie on 16; p3 and p4 trail.
	return roundWithScores([]string{"p1", "p2", "p3", "p4"}, []map[string]int{
		{"p1": 1, "p2": 2, "p3": 3, "p4": 4},
		{"p1": 2, "p2": 1, "p3": 3, "p4": 4},
		{"p1": 1, "p2": 2, "p3": 4, "p4": 3},
		{"p1": 2, "p2": 1, "p3": 4, "p4": 3},
	})
}

func overtimeSub(results ...SubmittedResult) OvertimeSubmission {
	return OvertimeSubmission{TrackID: "track-2", Results: results}
}

func TestResolveOvertime(t *testing.T) {
	t.Parallel()

	t.Run("winner is first place among tied players", func(t *testing.T) {
		winner, err := ResolveOvertime(tiedRound(), overtimeSub(
			SubmittedResult{"p1", 1}, SubmittedResult{"p2", 2},
		))
		require.NoError(t, err)
		assert.Equal(t, "p1", winner)
	})

	t.Run("regular totals unchanged by overtime", func(t *testing.T) {
		round := tiedRound()
		before := Totals(round.RegularResults())

		_, err := ResolveOvertime(round, overtimeSub(
			SubmittedResult{"p2", 1}, SubmittedResult{"p1", 2},
		))
		require.NoError(t, err)

		round.Races = append(round.Races, RaceState{
			RaceIndex:  5,
			IsOvertime: true,
			TrackID:    "track-2",
			Results: []ResultState{
				{PlayerID: "p2", FinishPosition: 1},
				{PlayerID: "p1", FinishPosition: 2},
			},
		})
		assert.Equal(t, before, Totals(round.RegularResults()))
	})

	t.Run("rejects non draft round", func(t *testing.T) {
		round := tiedRound()
		round.Status = StatusCompleted
		_, err := ResolveOvertime(round, overtimeSub(
			SubmittedResult{"p1", 1}, SubmittedResult{"p2", 2},
		))
		requireKind(t, err, KindInvalidState)
	})

	t.Run("requires four regular races", func(t *testing.T) {
		round := draftRound([]string{"p1", "p2"}, 2)
		_, err := ResolveOvertime(round, overtimeSub(
			SubmittedResult{"p1", 1}, SubmittedResult{"p2", 2},
		))
		requireKind(t, err, KindInvalidState)
		assert.EqualError(t, err, "must complete 4 races before overtime")
	})

	t.Run("requires an actual tie", func(t *testing.T) {
		// draftRound gives every race the same order, so p1 leads outright.
		round := draftRound([]string{"p1", "p2", "p3", "p4"}, 4)
		_, err := ResolveOvertime(round, overtimeSub(
			SubmittedResult{"p1", 1}, SubmittedResult{"p2", 2},
		))
		requireKind(t, err, KindInvalidState)
		assert.EqualError(t, err, "no tie detected, overtime not needed")
	})

	t.Run("rejects results for untied players", func(t *testing.T) {
		_, err := ResolveOvertime(tiedRound(), overtimeSub(
			SubmittedResult{"p1", 1}, SubmittedResult{"p3", 2},
		))
		requireKind(t, err, KindInvalidInput)
		assert.EqualError(t, err, "results must only contain tied players")
	})

	t.Run("rejects wrong result count", func(t *testing.T) {
		_, err := ResolveOvertime(tiedRound(), overtimeSub(
			SubmittedResult{"p1", 1},
		))
		requireKind(t, err, KindInvalidInput)
		assert.EqualError(t, err, "overtime must include exactly 2 tied players")
	})

	t.Run("rejects bad positions", func(t *testing.T) {
		_, err := ResolveOvertime(tiedRound(), overtimeSub(
			SubmittedResult{"p1", 1}, SubmittedResult{"p2", 3},
		))
		requireKind(t, err, KindInvalidInput)
	})

	t.Run("three player round tie", func(t *testing.T) {
		// p1: 4+4+1+1=10, p2: 2+2+4+2=10, p3: 1+1+2+4=8.
		round := roundWithScores([]string{"p1", "p2", "p3"}, []map[string]int{
			{"p1": 1, "p2": 2, "p3": 3},
			{"p1": 1, "p2": 2, "p3": 3},
			{"p1": 3, "p2": 1, "p3": 2},
			{"p1": 3, "p2": 2, "p3": 1},
		})
		require.Equal(t, []string{"p1", "p2"}, Winners(Totals(round.RegularResults())))

		winner, err := ResolveOvertime(round, overtimeSub(
			SubmittedResult{"p2", 1}, SubmittedResult{"p1", 2},
		))
		require.NoError(t, err)
		assert.Equal(t, "p2", winner)
	})

	t.Run("three way tie needs all three", func(t *testing.T) {
		// p1: 5+3+3+1=12, p2: 3+5+2+2=12, p3: 2+2+5+3=12, p4: 8.
		round := roundWithScores([]string{"p1", "p2", "p3", "p4"}, []map[string]int{
			{"p1": 1, "p2": 2, "p3": 3, "p4": 4},
			{"p1": 2, "p2": 1, "p3": 3, "p4": 4},
			{"p1": 2, "p2": 3, "p3": 1, "p4": 4},
			{"p1": 4, "p2": 3, "p3": 2, "p4": 1},
		})
		require.Equal(t, []string{"p1", "p2", "p3"}, Winners(Totals(round.RegularResults())))

		// Two of the three is not enough.
		_, err := ResolveOvertime(round, overtimeSub(
			SubmittedResult{"p1", 1}, SubmittedResult{"p2", 2},
		))
		requireKind(t, err, KindInvalidInput)

		winner, err := ResolveOvertime(round, overtimeSub(
			SubmittedResult{"p3", 1}, SubmittedResult{"p1", 2}, SubmittedResult{"p2", 3},
		))
		require.NoError(t, err)
		assert.Equal(t, "p3", winner)
	})
}

// Full round walkthrough: submit four races through the validator, attempt
// completion, hit the tie, run overtime.
func TestRoundEndToEnd(t *testing.T) {
	t.Parallel()

	players := []string{"p1", "p2", "p3", "p4"}
	round := RoundState{Status: StatusDraft, PlayerIDs: players}

	schedule := []map[string]int{
		{"p1": 1, "p2": 2, "p3": 3, "p4": 4},
		{"p1": 2, "p2": 1, "p3": 3, "p4": 4},
		{"p1": 1, "p2": 2, "p3": 4, "p4": 3},
		{"p1": 2, "p2": 1, "p3": 4, "p4": 3},
	}

	for i, byPlayer := range schedule {
		s := RaceSubmission{RaceIndex: i + 1, TrackID: "track-1"}
		for id, pos := range byPlayer {
			s.Results = append(s.Results, SubmittedResult{PlayerID: id, FinishPosition: pos})
		}
		require.NoError(t, ValidateRace(round, s))

		scored, err := ScoreRace(s, len(players))
		require.NoError(t, err)

		race := RaceState{RaceIndex: s.RaceIndex, TrackID: s.TrackID}
		for _, sc := range scored {
			pts := sc.Points
			race.Results = append(race.Results, ResultState{
				PlayerID:       sc.PlayerID,
				FinishPosition: sc.FinishPosition,
				PointsAwarded:  &pts,
			})
		}
		round.Races = append(round.Races, race)
	}

	got, err := AttemptComplete(round)
	require.NoError(t, err)
	require.True(t, got.IsTied)
	require.Empty(t, got.WinnerID)

	winner, err := ResolveOvertime(round, overtimeSub(
		SubmittedResult{"p2", 1}, SubmittedResult{"p1", 2},
	))
	require.NoError(t, err)
	assert.Equal(t, "p2", winner)
}

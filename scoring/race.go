package scoring

import "sort"

// SubmittedResult is one player's finish position in a submission.
type SubmittedResult struct {
	PlayerID       string `json:"playerId"`
	FinishPosition int    `json:"finishPosition"`
}

// RaceSubmission is a regular-race entry for one of the 4 scored races.
type RaceSubmission struct {
	RaceIndex int
	TrackID   string
	Results   []SubmittedResult
}

// ScoredResult is a submitted result with its computed points.
type ScoredResult struct {
	PlayerID       string
	FinishPosition int
	Points         int
}

// ValidateRace checks a race submission against the round snapshot. Checks
// run in a fixed order and each failure carries its own reason. Track
// existence is the store's concern and is not checked here. Re-submitting an
// already-entered race index is allowed while the round is DRAFT.
func ValidateRace(round RoundState, sub RaceSubmission) error {
	if round.Status != StatusDraft {
		return errInvalidState("round is not in draft status")
	}
	if sub.RaceIndex < 1 || sub.RaceIndex > RegularRaces {
		return errInvalidInput("race index must be between 1 and %d", RegularRaces)
	}
	if sub.RaceIndex > 1 && !round.hasRaceIndex(sub.RaceIndex-1) {
		return errInvalidState("must complete race %d first", sub.RaceIndex-1)
	}
	if len(sub.Results) != len(round.PlayerIDs) {
		return errInvalidInput("expected %d results, got %d", len(round.PlayerIDs), len(sub.Results))
	}
	if err := checkPlayerCoverage(round.PlayerIDs, sub.Results); err != nil {
		return err
	}
	return checkPositions(sub.Results, len(round.PlayerIDs))
}

// ScoreRace computes the points for each submitted result. The submission
// must already have passed ValidateRace.
func ScoreRace(sub RaceSubmission, playerCount int) ([]ScoredResult, error) {
	scored := make([]ScoredResult, len(sub.Results))
	for i, r := range sub.Results {
		pts, err := PointsFor(r.FinishPosition, playerCount)
		if err != nil {
			return nil, err
		}
		scored[i] = ScoredResult{PlayerID: r.PlayerID, FinishPosition: r.FinishPosition, Points: pts}
	}
	return scored, nil
}

// checkPlayerCoverage requires the submitted player set to equal the expected
// set exactly: no outsiders, no duplicates, nobody missing.
func checkPlayerCoverage(expected []string, results []SubmittedResult) error {
	want := make(map[string]bool, len(expected))
	for _, id := range expected {
		want[id] = true
	}
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		if !want[r.PlayerID] {
			return errInvalidInput("results contain players not in this round")
		}
		if seen[r.PlayerID] {
			return errInvalidInput("duplicate result for player %s", r.PlayerID)
		}
		seen[r.PlayerID] = true
	}
	if len(seen) != len(want) {
		return errInvalidInput("results missing one or more round players")
	}
	return nil
}

// checkPositions requires the finish positions to be exactly 1..n.
func checkPositions(results []SubmittedResult, n int) error {
	positions := make([]int, len(results))
	for i, r := range results {
		positions[i] = r.FinishPosition
	}
	sort.Ints(positions)
	for i, p := range positions {
		if p != i+1 {
			return errInvalidInput("positions must be unique values from 1 to %d", n)
		}
	}
	return nil
}

package scoring

// Completion is the outcome of an attempt to finish a round. When IsTied is
// true no winner exists yet and the round stays DRAFT pending overtime.
type Completion struct {
	WinnerID string
	IsTied   bool
}

// OvertimeSubmission is the decider race for the players tied at the top
// after the 4 regular races. Overtime never awards points.
type OvertimeSubmission struct {
	TrackID string
	Results []SubmittedResult
}

// AttemptComplete checks whether a round can be finalized. The round must be
// DRAFT with all regular races entered. A clear leader yields a COMPLETED
// transition with that winner; a tie yields IsTied with no state change.
func AttemptComplete(round RoundState) (Completion, error) {
	if round.Status != StatusDraft {
		return Completion{}, errInvalidState("round is not in draft status")
	}
	if n := round.regularRaceCount(); n < RegularRaces {
		return Completion{}, errInvalidState("round incomplete: need %d more race(s)", RegularRaces-n)
	}

	totals := Totals(round.RegularResults())
	winners := Winners(totals)
	switch {
	case len(winners) == 0:
		// 4 races with no stored results; the store should make this impossible.
		return Completion{}, errContract("no results recorded for a full round")
	case len(winners) > 1:
		return Completion{IsTied: true}, nil
	}
	return Completion{WinnerID: winners[0]}, nil
}

// ResolveOvertime validates an overtime submission against the round's tied
// totals and returns the winning player id. The tied set is always
// recomputed from the stored regular races, never taken from the caller.
//
// A single overtime race is allowed per round and its first place wins
// unconditionally: if the narrowed set were to tie again there is no second
// decider, matching the reference behavior.
func ResolveOvertime(round RoundState, sub OvertimeSubmission) (string, error) {
	if round.Status != StatusDraft {
		return "", errInvalidState("round is not in draft status")
	}
	if round.regularRaceCount() < RegularRaces {
		return "", errInvalidState("must complete %d races before overtime", RegularRaces)
	}

	totals := Totals(round.RegularResults())
	tied := Winners(totals)
	if len(tied) < 2 {
		return "", errInvalidState("no tie detected, overtime not needed")
	}

	if len(sub.Results) != len(tied) {
		return "", errInvalidInput("overtime must include exactly %d tied players", len(tied))
	}
	if err := checkPlayerCoverage(tied, sub.Results); err != nil {
		return "", errInvalidInput("results must only contain tied players")
	}
	if err := checkPositions(sub.Results, len(tied)); err != nil {
		return "", err
	}

	winnerID := ""
	for _, r := range sub.Results {
		if r.FinishPosition == 1 {
			if winnerID != "" {
				return "", errInvalidInput("must have exactly one player in 1st place")
			}
			winnerID = r.PlayerID
		}
	}
	if winnerID == "" {
		return "", errInvalidInput("must have a player in 1st place")
	}
	return winnerID, nil
}

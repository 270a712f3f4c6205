package scoring

// Round statuses as stored. DRAFT rounds are editable; COMPLETED rounds are
// immutable apart from administrative overrides; HIDDEN is an administrative
// overlay and never reachable from scoring operations.
const (
	StatusDraft     = "DRAFT"
	StatusCompleted = "COMPLETED"
	StatusHidden    = "HIDDEN"
)

// RegularRaces is the number of scored races in a round.
const RegularRaces = 4

// ResultState is one player's stored finish in one race.
type ResultState struct {
	PlayerID       string
	FinishPosition int
	PointsAwarded  *int
}

// RaceState is one stored race of a round.
type RaceState struct {
	RaceIndex  int
	IsOvertime bool
	TrackID    string
	Results    []ResultState
}

// RoundState is the snapshot of a round that scoring operations work on.
// PlayerIDs preserves membership order.
type RoundState struct {
	Status    string
	PlayerIDs []string
	Races     []RaceState
}

// RegularResults flattens the results of the non-overtime races.
func (r RoundState) RegularResults() []PlayerPoints {
	var out []PlayerPoints
	for _, race := range r.Races {
		if race.IsOvertime {
			continue
		}
		for _, res := range race.Results {
			out = append(out, PlayerPoints{PlayerID: res.PlayerID, PointsAwarded: res.PointsAwarded})
		}
	}
	return out
}

func (r RoundState) regularRaceCount() int {
	n := 0
	for _, race := range r.Races {
		if !race.IsOvertime {
			n++
		}
	}
	return n
}

func (r RoundState) hasRaceIndex(idx int) bool {
	for _, race := range r.Races {
		if !race.IsOvertime && race.RaceIndex == idx {
			return true
		}
	}
	return false
}

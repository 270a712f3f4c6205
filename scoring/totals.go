package scoring

import "sort"

// PlayerPoints is one result row as far as totals are concerned. A nil
// PointsAwarded (overtime) contributes nothing.
type PlayerPoints struct {
	PlayerID      string
	PointsAwarded *int
}

// Totals sums awarded points per player. Players with no qualifying results
// are absent from the map; use SeededTotals when every participant must
// appear.
func Totals(results []PlayerPoints) map[string]int {
	totals := make(map[string]int)
	for _, r := range results {
		pts := 0
		if r.PointsAwarded != nil {
			pts = *r.PointsAwarded
		}
		totals[r.PlayerID] += pts
	}
	return totals
}

// SeededTotals is Totals with every given player pre-seeded to 0, so the
// standings display shows all participants even before any race is entered.
func SeededTotals(playerIDs []string, results []PlayerPoints) map[string]int {
	totals := make(map[string]int, len(playerIDs))
	for _, id := range playerIDs {
		totals[id] = 0
	}
	for _, r := range results {
		pts := 0
		if r.PointsAwarded != nil {
			pts = *r.PointsAwarded
		}
		totals[r.PlayerID] += pts
	}
	return totals
}

// Winners returns every player whose total equals the maximum total present,
// sorted by id. The max is computed first and then matching keys collected,
// so the result never depends on map iteration order. An empty map yields an
// empty slice.
func Winners(totals map[string]int) []string {
	if len(totals) == 0 {
		return nil
	}

	first := true
	max := 0
	for _, pts := range totals {
		if first || pts > max {
			max = pts
			first = false
		}
	}

	var winners []string
	for id, pts := range totals {
		if pts == max {
			winners = append(winners, id)
		}
	}
	sort.Strings(winners)
	return winners
}

// HasTie reports whether two or more players share the maximum total.
func HasTie(totals map[string]int) bool {
	return len(Winners(totals)) > 1
}

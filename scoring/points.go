package scoring

// pointsTable maps player count to the points awarded per finish position,
// first place first. Last place is always worth 1.
var pointsTable = map[int][]int{
	4: {5, 3, 2, 1},
	3: {4, 2, 1},
	2: {2, 1},
}

// PointsFor returns the points awarded for a finish position given the
// number of players in the round. Defined only for playerCount 2-4 and
// position 1..playerCount; anything else is a caller bug.
func PointsFor(position, playerCount int) (int, error) {
	curve, ok := pointsTable[playerCount]
	if !ok {
		return 0, errContract("invalid player count: %d, must be 2, 3, or 4", playerCount)
	}
	if position < 1 || position > playerCount {
		return 0, errContract("invalid position: %d, must be between 1 and %d", position, playerCount)
	}
	return curve[position-1], nil
}

// PointsCurve returns a copy of the points list for a player count, first
// place first. Used by display code to show what each position is worth.
func PointsCurve(playerCount int) ([]int, error) {
	curve, ok := pointsTable[playerCount]
	if !ok {
		return nil, errContract("invalid player count: %d, must be 2, 3, or 4", playerCount)
	}
	out := make([]int, len(curve))
	copy(out, curve)
	return out, nil
}

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		position    int
		playerCount int
		want        int
	}{
		{"four players first", 1, 4, 5},
		{"four players second", 2, 4, 3},
		{"four players third", 3, 4, 2},
		{"four players fourth", 4, 4, 1},
		{"three players first", 1, 3, 4},
		{"three players second", 2, 3, 2},
		{"three players third", 3, 3, 1},
		{"two players first", 1, 2, 2},
		{"two players second", 2, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PointsFor(tt.position, tt.playerCount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPointsForRejectsOutOfDomain(t *testing.T) {
	t.Parallel()

	bad := []struct {
		name        string
		position    int
		playerCount int
	}{
		{"one player", 1, 1},
		{"five players", 1, 5},
		{"zero players", 1, 0},
		{"position zero", 0, 4},
		{"position past field", 5, 4},
		{"position past field three", 4, 3},
		{"negative position", -1, 2},
	}

	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PointsFor(tt.position, tt.playerCount)
			require.Error(t, err)

			var serr *Error
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, KindContract, serr.Kind)
		})
	}
}

// Every position in a full field maps to a distinct value from the curve, so
// a valid race hands out each curve value exactly once.
func TestPointsConservation(t *testing.T) {
	t.Parallel()

	for _, playerCount := range []int{2, 3, 4} {
		curve, err := PointsCurve(playerCount)
		require.NoError(t, err)
		require.Len(t, curve, playerCount)

		awarded := make([]int, 0, playerCount)
		for pos := 1; pos <= playerCount; pos++ {
			pts, err := PointsFor(pos, playerCount)
			require.NoError(t, err)
			awarded = append(awarded, pts)
		}
		assert.Equal(t, curve, awarded)

		// Descending, last place worth 1.
		for i := 1; i < len(awarded); i++ {
			assert.Greater(t, awarded[i-1], awarded[i])
		}
		assert.Equal(t, 1, awarded[playerCount-1])
	}
}

func TestPointsCurveReturnsCopy(t *testing.T) {
	t.Parallel()

	curve, err := PointsCurve(4)
	require.NoError(t, err)
	curve[0] = 99

	again, err := PointsCurve(4)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 3, 2, 1}, again)
}

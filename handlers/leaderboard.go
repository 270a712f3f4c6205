package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// leaderboardRoundRow aggregates completed-round participation per player.
type leaderboardRoundRow struct {
	ID           string  `bun:"id"`
	Name         string  `bun:"name"`
	AvatarURL    *string `bun:"avatar_url"`
	RoundsPlayed int     `bun:"rounds_played"`
	Wins         int     `bun:"wins"`
}

// leaderboardRaceRow aggregates regular-race results per player.
type leaderboardRaceRow struct {
	PlayerID    string `bun:"player_id"`
	TotalPoints int    `bun:"total_points"`
	RacesRaced  int    `bun:"races_raced"`
	Firsts      int    `bun:"firsts"`
	Seconds     int    `bun:"seconds"`
	Thirds      int    `bun:"thirds"`
}

type leaderboardEntry struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	AvatarURL        *string `json:"avatarUrl,omitempty"`
	Wins             int     `json:"wins"`
	RoundsPlayed     int     `json:"roundsPlayed"`
	WinPercentage    float64 `json:"winPercentage"`
	TotalPoints      int     `json:"totalPoints"`
	RacesRaced       int     `json:"racesRaced"`
	AvgPointsPerRace float64 `json:"avgPointsPerRace"`
	FirstPlaceRaces  int     `json:"firstPlaceRaces"`
	SecondPlaceRaces int     `json:"secondPlaceRaces"`
	ThirdPlaceRaces  int     `json:"thirdPlaceRaces"`
	PodiumFinishes   int     `json:"podiumFinishes"`
}

const leaderboardRoundsSQL = `
SELECT p.id, p.name, p.avatar_url,
	COUNT(rd.id) AS rounds_played,
	COUNT(rd.id) FILTER (WHERE rd.winner_player_id = p.id) AS wins
FROM players p
LEFT JOIN round_players rp ON rp.player_id = p.id
LEFT JOIN rounds rd ON rd.id = rp.round_id AND rd.status = 'COMPLETED'
GROUP BY p.id, p.name, p.avatar_url
ORDER BY p.name ASC
`

const leaderboardRacesSQL = `
SELECT rr.player_id,
	COALESCE(SUM(rr.points_awarded), 0) AS total_points,
	COUNT(*) AS races_raced,
	COUNT(*) FILTER (WHERE rr.finish_position = 1) AS firsts,
	COUNT(*) FILTER (WHERE rr.finish_position = 2) AS seconds,
	COUNT(*) FILTER (WHERE rr.finish_position = 3) AS thirds
FROM race_results rr
INNER JOIN races  rc ON rc.id = rr.race_id
INNER JOIN rounds rd ON rd.id = rc.round_id
WHERE rd.status = 'COMPLETED' AND NOT rc.is_overtime
GROUP BY rr.player_id
`

// Leaderboard returns aggregate standings for every player over completed
// rounds. Hidden and draft rounds never count; overtime races award nothing
// and are excluded from the race aggregates.
func (h *Handler) Leaderboard(c echo.Context) error {
	ctx := c.Request().Context()

	var roundRows []leaderboardRoundRow
	if err := h.db.NewRaw(leaderboardRoundsSQL).Scan(ctx, &roundRows); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var raceRows []leaderboardRaceRow
	if err := h.db.NewRaw(leaderboardRacesSQL).Scan(ctx, &raceRows); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	racesByPlayer := make(map[string]leaderboardRaceRow, len(raceRows))
	for _, row := range raceRows {
		racesByPlayer[row.PlayerID] = row
	}

	entries := make([]leaderboardEntry, len(roundRows))
	for i, row := range roundRows {
		races := racesByPlayer[row.ID]
		entry := leaderboardEntry{
			ID:               row.ID,
			Name:             row.Name,
			AvatarURL:        row.AvatarURL,
			Wins:             row.Wins,
			RoundsPlayed:     row.RoundsPlayed,
			TotalPoints:      races.TotalPoints,
			RacesRaced:       races.RacesRaced,
			FirstPlaceRaces:  races.Firsts,
			SecondPlaceRaces: races.Seconds,
			ThirdPlaceRaces:  races.Thirds,
			PodiumFinishes:   races.Firsts + races.Seconds + races.Thirds,
		}
		if entry.RoundsPlayed > 0 {
			entry.WinPercentage = round1(float64(entry.Wins) / float64(entry.RoundsPlayed) * 100)
		}
		if entry.RacesRaced > 0 {
			entry.AvgPointsPerRace = round2(float64(entry.TotalPoints) / float64(entry.RacesRaced))
		}
		entries[i] = entry
	}

	return c.JSON(http.StatusOK, entries)
}

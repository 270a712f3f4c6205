package handlers

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/kartclub/kartapi/models"
)

// ListPlayers returns all players sorted by name.
func (h *Handler) ListPlayers(c echo.Context) error {
	var players []models.Player
	err := h.db.NewSelect().Model(&players).
		Column("p.id", "p.name", "p.avatar_url").
		OrderExpr("p.name ASC").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, players)
}

// playerResultRow is a flat scan target for the completed-round results of
// one player. Overtime rows are filtered out in SQL.
type playerResultRow struct {
	FinishPosition int    `bun:"finish_position"`
	PointsAwarded  *int   `bun:"points_awarded"`
	RoundID        string `bun:"round_id"`
	TrackID        string `bun:"track_id"`
	TrackName      string `bun:"track_name"`
}

type playerRoundRow struct {
	RoundID        string       `bun:"round_id"`
	CreatedAt      sql.NullTime `bun:"created_at"`
	WinnerPlayerID *string      `bun:"winner_player_id"`
	WinnerName     *string      `bun:"winner_name"`
}

type playerStats struct {
	Wins             int     `json:"wins"`
	RoundsPlayed     int     `json:"roundsPlayed"`
	WinPercentage    float64 `json:"winPercentage"`
	TotalPoints      int     `json:"totalPoints"`
	RacesRaced       int     `json:"racesRaced"`
	AvgPointsPerRace float64 `json:"avgPointsPerRace"`
	FirstPlaceRaces  int     `json:"firstPlaceRaces"`
	SecondPlaceRaces int     `json:"secondPlaceRaces"`
	ThirdPlaceRaces  int     `json:"thirdPlaceRaces"`
	FourthPlaceRaces int     `json:"fourthPlaceRaces"`
}

type trackStat struct {
	TrackID     string  `json:"trackId"`
	TrackName   string  `json:"trackName"`
	Races       int     `json:"races"`
	FirstPlaces int     `json:"firstPlaces"`
	TotalPoints int     `json:"totalPoints"`
	AvgPoints   float64 `json:"avgPoints"`
}

type recentRound struct {
	ID           string   `json:"id"`
	CreatedAt    string   `json:"createdAt"`
	Won          bool     `json:"won"`
	WinnerName   *string  `json:"winner,omitempty"`
	Players      []string `json:"players"`
	PlayerPoints int      `json:"playerPoints"`
}

const playerResultsSQL = `
SELECT rr.finish_position, rr.points_awarded, rc.round_id, t.id AS track_id, t.name AS track_name
FROM race_results rr
INNER JOIN races  rc ON rc.id = rr.race_id
INNER JOIN rounds rd ON rd.id = rc.round_id
INNER JOIN tracks t  ON t.id  = rc.track_id
WHERE rr.player_id = ? AND rd.status = 'COMPLETED' AND NOT rc.is_overtime
`

const playerRoundsSQL = `
SELECT rd.id AS round_id, rd.created_at, rd.winner_player_id, w.name AS winner_name
FROM round_players rp
INNER JOIN rounds rd ON rd.id = rp.round_id
LEFT JOIN players w ON w.id = rd.winner_player_id
WHERE rp.player_id = ? AND rd.status = 'COMPLETED'
ORDER BY rd.created_at DESC
`

// GetPlayer returns a player profile with statistics over completed rounds:
// win rate, points, per-position counts, per-track breakdown and the 10 most
// recent rounds. Overtime results never count toward point stats.
func (h *Handler) GetPlayer(c echo.Context) error {
	playerID := c.Param("playerId")
	ctx := c.Request().Context()

	player := new(models.Player)
	err := h.db.NewSelect().Model(player).
		Where("p.id = ?", playerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "player not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var results []playerResultRow
	if err := h.db.NewRaw(playerResultsSQL, playerID).Scan(ctx, &results); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var rounds []playerRoundRow
	if err := h.db.NewRaw(playerRoundsSQL, playerID).Scan(ctx, &rounds); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	stats := playerStats{RoundsPlayed: len(rounds)}
	for _, rd := range rounds {
		if rd.WinnerPlayerID != nil && *rd.WinnerPlayerID == playerID {
			stats.Wins++
		}
	}
	if stats.RoundsPlayed > 0 {
		stats.WinPercentage = round1(float64(stats.Wins) / float64(stats.RoundsPlayed) * 100)
	}

	pointsByRound := make(map[string]int)
	tracks := make(map[string]*trackStat)
	for _, rr := range results {
		pts := 0
		if rr.PointsAwarded != nil {
			pts = *rr.PointsAwarded
		}
		stats.TotalPoints += pts
		stats.RacesRaced++
		pointsByRound[rr.RoundID] += pts

		switch rr.FinishPosition {
		case 1:
			stats.FirstPlaceRaces++
		case 2:
			stats.SecondPlaceRaces++
		case 3:
			stats.ThirdPlaceRaces++
		case 4:
			stats.FourthPlaceRaces++
		}

		ts, ok := tracks[rr.TrackID]
		if !ok {
			ts = &trackStat{TrackID: rr.TrackID, TrackName: rr.TrackName}
			tracks[rr.TrackID] = ts
		}
		ts.Races++
		ts.TotalPoints += pts
		if rr.FinishPosition == 1 {
			ts.FirstPlaces++
		}
	}
	if stats.RacesRaced > 0 {
		stats.AvgPointsPerRace = round2(float64(stats.TotalPoints) / float64(stats.RacesRaced))
	}

	trackStats := make([]trackStat, 0, len(tracks))
	for _, ts := range tracks {
		ts.AvgPoints = round2(float64(ts.TotalPoints) / float64(ts.Races))
		trackStats = append(trackStats, *ts)
	}
	sort.Slice(trackStats, func(i, j int) bool {
		if trackStats[i].Races != trackStats[j].Races {
			return trackStats[i].Races > trackStats[j].Races
		}
		return trackStats[i].TrackName < trackStats[j].TrackName
	})

	recent, err := h.recentRounds(ctx, playerID, rounds, pointsByRound)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"id":           player.ID,
		"name":         player.Name,
		"avatarUrl":    player.AvatarURL,
		"stats":        stats,
		"trackStats":   trackStats,
		"recentRounds": recent,
	})
}

// recentRounds builds the last 10 completed rounds for a player, with the
// names of everyone who played in them.
func (h *Handler) recentRounds(ctx context.Context, playerID string, rounds []playerRoundRow, pointsByRound map[string]int) ([]recentRound, error) {
	if len(rounds) > 10 {
		rounds = rounds[:10]
	}
	if len(rounds) == 0 {
		return []recentRound{}, nil
	}

	ids := make([]string, len(rounds))
	for i, rd := range rounds {
		ids[i] = rd.RoundID
	}

	type memberRow struct {
		RoundID string `bun:"round_id"`
		Name    string `bun:"name"`
	}
	var members []memberRow
	err := h.db.NewRaw(`
		SELECT rp.round_id, p.name
		FROM round_players rp
		INNER JOIN players p ON p.id = rp.player_id
		WHERE rp.round_id IN (?)
		ORDER BY rp.id ASC`,
		bun.In(ids),
	).Scan(ctx, &members)
	if err != nil {
		return nil, err
	}

	namesByRound := make(map[string][]string)
	for _, m := range members {
		namesByRound[m.RoundID] = append(namesByRound[m.RoundID], m.Name)
	}

	out := make([]recentRound, len(rounds))
	for i, rd := range rounds {
		created := ""
		if rd.CreatedAt.Valid {
			created = rd.CreatedAt.Time.Format("2006-01-02T15:04:05Z07:00")
		}
		out[i] = recentRound{
			ID:           rd.RoundID,
			CreatedAt:    created,
			Won:          rd.WinnerPlayerID != nil && *rd.WinnerPlayerID == playerID,
			WinnerName:   rd.WinnerName,
			Players:      namesByRound[rd.RoundID],
			PlayerPoints: pointsByRound[rd.RoundID],
		}
	}
	return out, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

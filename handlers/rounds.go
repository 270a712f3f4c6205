package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/kartclub/kartapi/models"
	"github.com/kartclub/kartapi/scoring"
)

type createRoundRequest struct {
	PlayerIDs []string `json:"playerIds"`
}

type standingRow struct {
	PlayerID string `json:"playerId"`
	Points   int    `json:"points"`
}

type roundResponse struct {
	*models.Round
	Standings []standingRow `json:"standings"`
}

// CreateRound starts a new DRAFT round for 2-4 distinct players.
func (h *Handler) CreateRound(c echo.Context) error {
	var req createRoundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if len(req.PlayerIDs) < 2 || len(req.PlayerIDs) > 4 {
		return echo.NewHTTPError(http.StatusBadRequest, "must have 2-4 players")
	}

	seen := make(map[string]bool, len(req.PlayerIDs))
	for _, id := range req.PlayerIDs {
		if seen[id] {
			return echo.NewHTTPError(http.StatusBadRequest, "duplicate players not allowed")
		}
		seen[id] = true
	}

	ctx := c.Request().Context()
	count, err := h.db.NewSelect().Model((*models.Player)(nil)).
		Where("id IN (?)", bun.In(req.PlayerIDs)).
		Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if count != len(req.PlayerIDs) {
		return echo.NewHTTPError(http.StatusBadRequest, "one or more players not found")
	}

	round := &models.Round{ID: uuid.NewString(), Status: scoring.StatusDraft}
	memberships := make([]models.RoundPlayer, len(req.PlayerIDs))
	for i, id := range req.PlayerIDs {
		memberships[i] = models.RoundPlayer{RoundID: round.ID, PlayerID: id}
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.NewInsert().Model(round).Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if _, err := tx.NewInsert().Model(&memberships).Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := tx.Commit(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	committed = true

	return c.JSON(http.StatusCreated, map[string]string{"roundId": round.ID})
}

// GetRound returns the full round: players, races with tracks and results,
// winner, and current standings seeded so every participant appears even
// before any race is entered.
func (h *Handler) GetRound(c echo.Context) error {
	round, err := h.loadRound(c.Request().Context(), c.Param("roundId"), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "round not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	state := roundState(round)
	totals := scoring.SeededTotals(state.PlayerIDs, state.RegularResults())

	standings := make([]standingRow, 0, len(totals))
	for _, id := range state.PlayerIDs {
		standings = append(standings, standingRow{PlayerID: id, Points: totals[id]})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Points > standings[j].Points
	})

	return c.JSON(http.StatusOK, roundResponse{Round: round, Standings: standings})
}

// loadRound fetches a round with memberships, races (ordered by index) and
// results. withDetail also loads player, track and winner rows for display.
func (h *Handler) loadRound(ctx context.Context, roundID string, withDetail bool) (*models.Round, error) {
	round := new(models.Round)
	q := h.db.NewSelect().Model(round).
		Where("rd.id = ?", roundID).
		Relation("RoundPlayers", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("rp.id ASC")
		}).
		Relation("Races", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("rc.race_index ASC")
		}).
		Relation("Races.Results")

	if withDetail {
		q = q.Relation("RoundPlayers.Player").
			Relation("Races.Track").
			Relation("WinnerPlayer")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return round, nil
}

// roundState converts a stored round into the snapshot the scoring engine
// consumes.
func roundState(round *models.Round) scoring.RoundState {
	state := scoring.RoundState{Status: round.Status}
	for _, rp := range round.RoundPlayers {
		state.PlayerIDs = append(state.PlayerIDs, rp.PlayerID)
	}
	for _, race := range round.Races {
		rs := scoring.RaceState{
			RaceIndex:  race.RaceIndex,
			IsOvertime: race.IsOvertime,
			TrackID:    race.TrackID,
		}
		for _, res := range race.Results {
			rs.Results = append(rs.Results, scoring.ResultState{
				PlayerID:       res.PlayerID,
				FinishPosition: res.FinishPosition,
				PointsAwarded:  res.PointsAwarded,
			})
		}
		state.Races = append(state.Races, rs)
	}
	return state
}

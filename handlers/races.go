package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kartclub/kartapi/models"
	"github.com/kartclub/kartapi/scoring"
)

type saveRaceRequest struct {
	TrackID string                    `json:"trackId"`
	Results []scoring.SubmittedResult `json:"results"`
}

type awardedPoints struct {
	PlayerID string `json:"playerId"`
	Points   int    `json:"points"`
}

type saveRaceResponse struct {
	RaceID        string          `json:"raceId"`
	PointsAwarded []awardedPoints `json:"pointsAwarded"`
}

// SaveRace validates and stores one of the 4 scored races of a round,
// replacing any earlier entry at the same index. The replace happens inside
// a single transaction so concurrent submitters cannot interleave partial
// result sets.
func (h *Handler) SaveRace(c echo.Context) error {
	raceIndex, err := strconv.Atoi(c.Param("raceIndex"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "race index must be between 1 and 4")
	}

	var req saveRaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.TrackID == "" || len(req.Results) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "trackId and results are required")
	}

	ctx := c.Request().Context()
	round, err := h.loadRound(ctx, c.Param("roundId"), false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "round not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	state := roundState(round)
	sub := scoring.RaceSubmission{RaceIndex: raceIndex, TrackID: req.TrackID, Results: req.Results}
	if err := scoring.ValidateRace(state, sub); err != nil {
		return httpError(err)
	}

	exists, err := h.db.NewSelect().Model((*models.Track)(nil)).
		Where("id = ?", req.TrackID).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return echo.NewHTTPError(http.StatusBadRequest, "track not found")
	}

	scored, err := scoring.ScoreRace(sub, len(state.PlayerIDs))
	if err != nil {
		return httpError(err)
	}

	race := &models.Race{
		ID:        uuid.NewString(),
		RoundID:   round.ID,
		RaceIndex: raceIndex,
		TrackID:   req.TrackID,
	}
	results := make([]models.RaceResult, len(scored))
	for i, sc := range scored {
		pts := sc.Points
		results[i] = models.RaceResult{
			RaceID:         race.ID,
			PlayerID:       sc.PlayerID,
			FinishPosition: sc.FinishPosition,
			PointsAwarded:  &pts,
		}
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

	// Full replacement of any earlier race at this index; results cascade.
	if _, err := tx.NewDelete().Model((*models.Race)(nil)).
		Where("round_id = ? AND race_index = ?", round.ID, raceIndex).
		Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if _, err := tx.NewInsert().Model(race).Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if _, err := tx.NewInsert().Model(&results).Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := tx.Commit(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	committed = true

	resp := saveRaceResponse{RaceID: race.ID, PointsAwarded: make([]awardedPoints, len(scored))}
	for i, sc := range scored {
		resp.PointsAwarded[i] = awardedPoints{PlayerID: sc.PlayerID, Points: sc.Points}
	}
	return c.JSON(http.StatusCreated, resp)
}

// CompleteRound attempts to finalize a round after its 4 races. A tie comes
// back with isTied and no winner; the round stays DRAFT pending overtime.
// Finalization is a conditional update on status so a concurrent completion
// cannot apply twice.
func (h *Handler) CompleteRound(c echo.Context) error {
	ctx := c.Request().Context()
	round, err := h.loadRound(ctx, c.Param("roundId"), false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "round not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	outcome, err := scoring.AttemptComplete(roundState(round))
	if err != nil {
		return httpError(err)
	}

	if outcome.IsTied {
		return c.JSON(http.StatusOK, map[string]any{"winnerId": nil, "isTied": true})
	}

	if err := h.finalizeRound(ctx, round.ID, outcome.WinnerID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"winnerId": outcome.WinnerID, "isTied": false})
}

// SaveOvertime validates and stores the decider race for the tied players
// and finalizes the round with its first-place finisher. Replaces any prior
// overtime entry; at most one overtime race ever exists per round.
func (h *Handler) SaveOvertime(c echo.Context) error {
	var req saveRaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.TrackID == "" || len(req.Results) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "trackId and results are required")
	}

	ctx := c.Request().Context()
	round, err := h.loadRound(ctx, c.Param("roundId"), false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "round not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	sub := scoring.OvertimeSubmission{TrackID: req.TrackID, Results: req.Results}
	winnerID, err := scoring.ResolveOvertime(roundState(round), sub)
	if err != nil {
		return httpError(err)
	}

	exists, err := h.db.NewSelect().Model((*models.Track)(nil)).
		Where("id = ?", req.TrackID).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return echo.NewHTTPError(http.StatusBadRequest, "track not found")
	}

	race := &models.Race{
		ID:         uuid.NewString(),
		RoundID:    round.ID,
		RaceIndex:  models.OvertimeRaceIndex,
		IsOvertime: true,
		TrackID:    req.TrackID,
	}
	results := make([]models.RaceResult, len(req.Results))
	for i, r := range req.Results {
		// Overtime never awards points.
		results[i] = models.RaceResult{
			RaceID:         race.ID,
			PlayerID:       r.PlayerID,
			FinishPosition: r.FinishPosition,
		}
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

	if _, err := tx.NewDelete().Model((*models.Race)(nil)).
		Where("round_id = ? AND is_overtime", round.ID).
		Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if _, err := tx.NewInsert().Model(race).Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if _, err := tx.NewInsert().Model(&results).Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	res, err := tx.NewUpdate().Model((*models.Round)(nil)).
		Set("status = ?", scoring.StatusCompleted).
		Set("winner_player_id = ?", winnerID).
		Where("id = ? AND status = ?", round.ID, scoring.StatusDraft).
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Someone else finalized between our read and this write.
		return echo.NewHTTPError(http.StatusConflict, "round already finalized")
	}

	if err := tx.Commit(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	committed = true

	return c.JSON(http.StatusOK, map[string]string{"winnerId": winnerID})
}

// finalizeRound flips a DRAFT round to COMPLETED with the given winner. Zero
// rows affected means a concurrent writer got there first.
func (h *Handler) finalizeRound(ctx context.Context, roundID, winnerID string) error {
	res, err := h.db.NewUpdate().Model((*models.Round)(nil)).
		Set("status = ?", scoring.StatusCompleted).
		Set("winner_player_id = ?", winnerID).
		Where("id = ? AND status = ?", roundID, scoring.StatusDraft).
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusConflict, "round already finalized")
	}
	return nil
}

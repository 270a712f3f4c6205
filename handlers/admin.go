package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/kartclub/kartapi/models"
	"github.com/kartclub/kartapi/scoring"
)

type adminPlayerRow struct {
	ID           string  `bun:"id" json:"id"`
	Name         string  `bun:"name" json:"name"`
	AvatarURL    *string `bun:"avatar_url" json:"avatarUrl,omitempty"`
	RoundsPlayed int     `bun:"rounds_played" json:"roundsPlayed"`
	RoundsWon    int     `bun:"rounds_won" json:"roundsWon"`
}

// AdminListPlayers returns every player with participation counts.
func (h *Handler) AdminListPlayers(c echo.Context) error {
	var rows []adminPlayerRow
	err := h.db.NewRaw(`
		SELECT p.id, p.name, p.avatar_url,
			(SELECT COUNT(*) FROM round_players rp WHERE rp.player_id = p.id) AS rounds_played,
			(SELECT COUNT(*) FROM rounds rd WHERE rd.winner_player_id = p.id) AS rounds_won
		FROM players p
		ORDER BY p.name ASC`,
	).Scan(c.Request().Context(), &rows)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}

type playerRequest struct {
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

// CreatePlayer inserts a new player with a unique trimmed name.
func (h *Handler) CreatePlayer(c echo.Context) error {
	var req playerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	player := &models.Player{
		ID:        uuid.NewString(),
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	}
	if _, err := h.db.NewInsert().Model(player).Exec(c.Request().Context()); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			return echo.NewHTTPError(http.StatusConflict, "a player with this name already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, player)
}

// UpdatePlayer renames a player and/or replaces their avatar.
func (h *Handler) UpdatePlayer(c echo.Context) error {
	playerID := c.Param("playerId")
	ctx := c.Request().Context()

	var req playerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	player := new(models.Player)
	err := h.db.NewSelect().Model(player).Where("p.id = ?", playerID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "player not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	q := h.db.NewUpdate().Model((*models.Player)(nil)).Where("id = ?", playerID)
	changed := false
	if name := strings.TrimSpace(req.Name); name != "" && name != player.Name {
		q = q.Set("name = ?", name)
		player.Name = name
		changed = true
	}
	if req.AvatarURL != nil {
		q = q.Set("avatar_url = NULLIF(?, '')", *req.AvatarURL)
		player.AvatarURL = req.AvatarURL
		changed = true
	}
	if !changed {
		return c.JSON(http.StatusOK, player)
	}

	if _, err := q.Exec(ctx); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			return echo.NewHTTPError(http.StatusConflict, "a player with this name already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, player)
}

// DeletePlayer removes a player. Round participation and race results
// cascade; a documented side effect, not something this API guards against.
func (h *Handler) DeletePlayer(c echo.Context) error {
	res, err := h.db.NewDelete().Model((*models.Player)(nil)).
		Where("id = ?", c.Param("playerId")).
		Exec(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "player not found")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

type trackRequest struct {
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

// CreateTrack inserts a new track.
func (h *Handler) CreateTrack(c echo.Context) error {
	var req trackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	track := &models.Track{
		ID:       uuid.NewString(),
		Name:     req.Name,
		ImageURL: req.ImageURL,
	}
	if _, err := h.db.NewInsert().Model(track).Exec(c.Request().Context()); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			return echo.NewHTTPError(http.StatusConflict, "track already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, track)
}

// AdminListRounds returns all rounds, newest first, with full detail.
func (h *Handler) AdminListRounds(c echo.Context) error {
	var rounds []models.Round
	err := h.db.NewSelect().Model(&rounds).
		Relation("WinnerPlayer").
		Relation("RoundPlayers.Player").
		Relation("Races", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("rc.race_index ASC")
		}).
		Relation("Races.Track").
		Relation("Races.Results").
		OrderExpr("rd.created_at DESC").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rounds)
}

type updateRoundRequest struct {
	Status         *string `json:"status"`
	WinnerPlayerID *string `json:"winnerPlayerId"`
}

// UpdateRound is the administrative override: force a status and/or winner
// regardless of the normal lifecycle. The only way a round becomes HIDDEN.
func (h *Handler) UpdateRound(c echo.Context) error {
	roundID := c.Param("roundId")
	ctx := c.Request().Context()

	var req updateRoundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	exists, err := h.db.NewSelect().Model((*models.Round)(nil)).
		Where("id = ?", roundID).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return echo.NewHTTPError(http.StatusNotFound, "round not found")
	}

	if req.Status != nil {
		switch *req.Status {
		case scoring.StatusDraft, scoring.StatusCompleted, scoring.StatusHidden:
		default:
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status, must be DRAFT, COMPLETED, or HIDDEN")
		}
	}
	if req.WinnerPlayerID != nil && *req.WinnerPlayerID != "" {
		ok, err := h.db.NewSelect().Model((*models.Player)(nil)).
			Where("id = ?", *req.WinnerPlayerID).
			Exists(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "winner player not found")
		}
	}

	if req.Status != nil || req.WinnerPlayerID != nil {
		q := h.db.NewUpdate().Model((*models.Round)(nil)).Where("id = ?", roundID)
		if req.Status != nil {
			q = q.Set("status = ?", *req.Status)
		}
		if req.WinnerPlayerID != nil {
			q = q.Set("winner_player_id = NULLIF(?, '')::uuid", *req.WinnerPlayerID)
		}
		if _, err := q.Exec(ctx); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	round, err := h.loadRound(ctx, roundID, true)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, round)
}

// DeleteRound removes a round; races and results cascade.
func (h *Handler) DeleteRound(c echo.Context) error {
	res, err := h.db.NewDelete().Model((*models.Round)(nil)).
		Where("id = ?", c.Param("roundId")).
		Exec(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "round not found")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
